// Package redisq schedules one-shot jobs in a Redis sorted set and dispatches
// them with a cron-driven poller. Members are "job|userID", scored by the unix
// second the job is due. ZRem acts as the claim: whichever dispatcher removes
// the member runs it, so jobs fire at-least-once across restarts.
package redisq

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"famiverse/internal/app/ports"
)

const dueSetKey = "sched:due"

type Scheduler struct {
	rdb *redis.Client
	log *zap.Logger

	mu       sync.RWMutex
	handlers map[string]ports.JobHandler

	cron *cron.Cron
}

func New(rdb *redis.Client, log *zap.Logger) *Scheduler {
	if log == nil {
		log = zap.NewNop()
	}
	return &Scheduler{
		rdb:      rdb,
		log:      log,
		handlers: make(map[string]ports.JobHandler),
	}
}

// Register binds a handler to a job name. Jobs claimed with no registered
// handler are dropped with a warning.
func (s *Scheduler) Register(job string, h ports.JobHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[job] = h
}

func (s *Scheduler) Schedule(ctx context.Context, job, userID string, runAt time.Time) error {
	member := job + "|" + userID
	err := s.rdb.ZAdd(ctx, dueSetKey, redis.Z{
		Score:  float64(runAt.Unix()),
		Member: member,
	}).Err()
	if err != nil {
		return fmt.Errorf("schedule %s for %s: %w", job, userID, err)
	}
	return nil
}

// Start launches the dispatcher loop. It polls every second for members whose
// due time has passed and runs each claimed job in its own goroutine.
func (s *Scheduler) Start(ctx context.Context) error {
	c := cron.New(cron.WithSeconds())
	_, err := c.AddFunc("@every 1s", func() {
		s.dispatchDue(ctx)
	})
	if err != nil {
		return fmt.Errorf("register dispatcher: %w", err)
	}
	s.cron = c
	c.Start()
	return nil
}

func (s *Scheduler) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
}

func (s *Scheduler) dispatchDue(ctx context.Context) {
	now := time.Now()
	members, err := s.rdb.ZRangeByScore(ctx, dueSetKey, &redis.ZRangeBy{
		Min:   "-inf",
		Max:   fmt.Sprintf("%d", now.Unix()),
		Count: 128,
	}).Result()
	if err != nil {
		s.log.Warn("scheduler poll failed", zap.Error(err))
		return
	}

	for _, member := range members {
		// ZRem is the claim: pop-then-run, at most once. A crash between the
		// claim and the handler drops the job and orphans its chain. A
		// lease-based claim (or run-then-remove) would make this
		// at-least-once.
		removed, err := s.rdb.ZRem(ctx, dueSetKey, member).Result()
		if err != nil {
			s.log.Warn("scheduler claim failed", zap.String("member", member), zap.Error(err))
			continue
		}
		if removed == 0 {
			// Another dispatcher claimed it first.
			continue
		}

		job, userID, ok := strings.Cut(member, "|")
		if !ok {
			s.log.Warn("malformed schedule member", zap.String("member", member))
			continue
		}

		s.mu.RLock()
		h := s.handlers[job]
		s.mu.RUnlock()
		if h == nil {
			s.log.Warn("no handler for job", zap.String("job", job))
			continue
		}
		go h(ctx, userID)
	}
}
