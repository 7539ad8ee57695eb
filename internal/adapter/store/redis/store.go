package redisstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"famiverse/internal/app/ports"

	"github.com/cenkalti/backoff/v4"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	familiarKeyPrefix = "familiar:"
	archiveKeyPrefix  = "familiar:archive:"
	cooldownKeyPrefix = "cooldown:"
	sessionKeyPrefix  = "mutsession:"

	defaultMaxAttempts = 3
)

// Store wraps the Redis client shared by the record-store adapters. Every
// call runs under a bounded retry with exponential backoff; reads degrade to
// an absent/zero result when retries are exhausted, writes surface
// ports.ErrStoreUnavailable.
type Store struct {
	rdb *redis.Client
	log *zap.Logger

	maxAttempts int
	baseDelay   time.Duration
}

// FamiliarStore, CooldownStore and SessionStore implement the corresponding
// ports on top of the shared Store.
type FamiliarStore struct{ *Store }

type CooldownStore struct{ *Store }

type SessionStore struct{ *Store }

func NewFamiliarStore(s *Store) FamiliarStore { return FamiliarStore{s} }

func NewCooldownStore(s *Store) CooldownStore { return CooldownStore{s} }

func NewSessionStore(s *Store) SessionStore { return SessionStore{s} }

func New(rdb *redis.Client, log *zap.Logger) *Store {
	if log == nil {
		log = zap.NewNop()
	}
	return &Store{
		rdb:         rdb,
		log:         log,
		maxAttempts: defaultMaxAttempts,
		baseDelay:   time.Second,
	}
}

// WithRetry overrides attempt count and backoff base, used by tests to keep
// retries fast.
func (s *Store) WithRetry(maxAttempts int, baseDelay time.Duration) *Store {
	s.maxAttempts = maxAttempts
	s.baseDelay = baseDelay
	return s
}

// retry runs op up to maxAttempts times with 2^attempt spacing. redis.Nil
// and context cancellation pass through untouched so callers can translate
// absence themselves.
func (s *Store) retry(ctx context.Context, name string, op func() error) error {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 2 * s.baseDelay
	bo.Multiplier = 2
	bo.RandomizationFactor = 0
	bo.MaxElapsedTime = 0

	policy := backoff.WithContext(backoff.WithMaxRetries(bo, uint64(s.maxAttempts-1)), ctx)
	err := backoff.Retry(func() error {
		if err := op(); err != nil {
			if errors.Is(err, redis.Nil) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return backoff.Permanent(err)
			}
			return err
		}
		return nil
	}, policy)

	if err == nil || errors.Is(err, redis.Nil) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	s.log.Error("record store operation exhausted retries",
		zap.String("op", name),
		zap.Int("attempts", s.maxAttempts),
		zap.Error(err),
	)
	return fmt.Errorf("%s: %w", name, ports.ErrStoreUnavailable)
}

func familiarKey(userID string) string { return familiarKeyPrefix + userID }
func archiveKey(userID string) string  { return archiveKeyPrefix + userID }

func sessionKey(sessionID string) string { return sessionKeyPrefix + sessionID }

func cooldownKey(userID, action string) string {
	return cooldownKeyPrefix + userID + ":" + action
}
