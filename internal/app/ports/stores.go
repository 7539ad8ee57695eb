package ports

import (
	"context"
	"time"

	"famiverse/internal/domain/familiar"
)

// FamiliarStore is the keyed-record store holding the live familiar per user.
// Load returns ErrNotFound when no record exists.
type FamiliarStore interface {
	Load(ctx context.Context, userID string) (familiar.Familiar, error)
	// CreateIfAbsent stores f only when no record exists for f.UserID and
	// reports whether it did; the returned familiar is the record that is
	// now stored (the existing one when created is false).
	CreateIfAbsent(ctx context.Context, f familiar.Familiar) (familiar.Familiar, bool, error)
	Save(ctx context.Context, f familiar.Familiar) error
	// Archive writes a time-limited copy of f under an archive key.
	Archive(ctx context.Context, f familiar.Familiar, ttl time.Duration) error
	Delete(ctx context.Context, userID string) error
}

// CooldownStore tracks per-(user, action) cooldowns as expiring keys.
// Remaining returns 0 when no cooldown is active.
type CooldownStore interface {
	Arm(ctx context.Context, userID string, action familiar.CareAction, d time.Duration) error
	Remaining(ctx context.Context, userID string, action familiar.CareAction) (time.Duration, error)
}

// SessionStore holds ephemeral mutation-choice sessions. Get returns
// ErrNotFound once the session expired or was deleted.
type SessionStore interface {
	Put(ctx context.Context, s familiar.ChoiceSession, ttl time.Duration) error
	Get(ctx context.Context, sessionID string) (familiar.ChoiceSession, error)
	Delete(ctx context.Context, sessionID string) error
}
