// Package memsched is an in-memory Scheduler for tests. Jobs are held in a
// slice and run synchronously when the test advances time via RunDue.
package memsched

import (
	"context"
	"sync"
	"time"

	"famiverse/internal/app/ports"
)

type entry struct {
	Job    string
	UserID string
	RunAt  time.Time
}

type Scheduler struct {
	mu       sync.Mutex
	queue    []entry
	handlers map[string]ports.JobHandler
}

func New() *Scheduler {
	return &Scheduler{handlers: make(map[string]ports.JobHandler)}
}

func (s *Scheduler) Register(job string, h ports.JobHandler) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers[job] = h
}

func (s *Scheduler) Schedule(_ context.Context, job, userID string, runAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.queue = append(s.queue, entry{Job: job, UserID: userID, RunAt: runAt})
	return nil
}

// RunDue synchronously runs every job due at or before now and returns how
// many ran. Handlers may schedule followups; those stay queued.
func (s *Scheduler) RunDue(ctx context.Context, now time.Time) int {
	s.mu.Lock()
	due := make([]entry, 0)
	rest := s.queue[:0]
	for _, e := range s.queue {
		if !e.RunAt.After(now) {
			due = append(due, e)
		} else {
			rest = append(rest, e)
		}
	}
	s.queue = rest
	handlers := s.handlers
	s.mu.Unlock()

	for _, e := range due {
		if h := handlers[e.Job]; h != nil {
			h(ctx, e.UserID)
		}
	}
	return len(due)
}

// Jobs returns a snapshot of the pending queue as "job|userID" strings.
func (s *Scheduler) Jobs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.queue))
	for _, e := range s.queue {
		out = append(out, e.Job+"|"+e.UserID)
	}
	return out
}

// NextRunAt reports the earliest pending run time for the given job and user.
func (s *Scheduler) NextRunAt(job, userID string) (time.Time, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var best time.Time
	found := false
	for _, e := range s.queue {
		if e.Job != job || e.UserID != userID {
			continue
		}
		if !found || e.RunAt.Before(best) {
			best = e.RunAt
			found = true
		}
	}
	return best, found
}
