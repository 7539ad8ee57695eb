package memory

import (
	"context"
	"sync"

	"famiverse/internal/app/ports"
	"famiverse/internal/domain/familiar"
)

type EventRepo struct {
	mu     sync.RWMutex
	events map[string][]familiar.Event
}

func NewEventRepo() *EventRepo {
	return &EventRepo{events: make(map[string][]familiar.Event)}
}

func (r *EventRepo) Append(_ context.Context, familiarID string, events []familiar.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events[familiarID] = append(r.events[familiarID], events...)
	return nil
}

func (r *EventRepo) ListByFamiliarID(_ context.Context, familiarID string, limit int) ([]familiar.Event, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	stored := r.events[familiarID]
	if len(stored) == 0 {
		return nil, ports.ErrNotFound
	}
	// Newest first, matching the durable journal.
	out := make([]familiar.Event, 0, len(stored))
	for i := len(stored) - 1; i >= 0; i-- {
		out = append(out, stored[i])
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out, nil
}
