package ports

import (
	"context"
	"time"
)

// JobHandler runs one scheduled job for one user. Handlers own their error
// handling; a failed cycle must not break the reschedule chain.
type JobHandler func(ctx context.Context, userID string)

// Scheduler arms one-shot jobs dispatched at-least-once at or after runAt.
type Scheduler interface {
	Schedule(ctx context.Context, job, userID string, runAt time.Time) error
}
