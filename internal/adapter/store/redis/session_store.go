package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"famiverse/internal/app/ports"
	"famiverse/internal/domain/familiar"

	"github.com/redis/go-redis/v9"
)

func (s SessionStore) Put(ctx context.Context, session familiar.ChoiceSession, ttl time.Duration) error {
	data, err := json.Marshal(session)
	if err != nil {
		return err
	}
	return s.retry(ctx, "session.put", func() error {
		return s.rdb.Set(ctx, sessionKey(session.SessionID), string(data), ttl).Err()
	})
}

func (s SessionStore) Get(ctx context.Context, sessionID string) (familiar.ChoiceSession, error) {
	var data string
	err := s.retry(ctx, "session.get", func() error {
		var opErr error
		data, opErr = s.rdb.Get(ctx, sessionKey(sessionID)).Result()
		return opErr
	})
	if err != nil {
		if errors.Is(err, redis.Nil) || errors.Is(err, ports.ErrStoreUnavailable) {
			return familiar.ChoiceSession{}, ports.ErrNotFound
		}
		return familiar.ChoiceSession{}, err
	}
	var session familiar.ChoiceSession
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return familiar.ChoiceSession{}, err
	}
	return session, nil
}

func (s SessionStore) Delete(ctx context.Context, sessionID string) error {
	return s.retry(ctx, "session.delete", func() error {
		return s.rdb.Del(ctx, sessionKey(sessionID)).Err()
	})
}
