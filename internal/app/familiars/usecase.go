package familiars

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"time"

	"famiverse/internal/app/ports"
	"famiverse/internal/domain/familiar"

	"go.uber.org/zap"
)

var ErrInvalidRequest = errors.New("invalid familiar request")

// UseCase owns the canonical familiar record: creation, retrieval, care-meter
// writes and the neglect flag derived from them, and end-of-life archival.
type UseCase struct {
	Store   ports.FamiliarStore
	Journal ports.EventRepository
	Metrics ports.Metrics
	Log     *zap.Logger
	Now     func() time.Time
	Rand    func() float64
}

func (u UseCase) Get(ctx context.Context, userID string) (familiar.Familiar, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return familiar.Familiar{}, ErrInvalidRequest
	}
	return u.Store.Load(ctx, userID)
}

// Create initializes a familiar for userID. Re-creation is a no-op returning
// the existing record, so concurrent creates cannot duplicate. The created
// flag tells callers whether this call initialized the record; one-time side
// effects such as arming timer chains must key off it.
func (u UseCase) Create(ctx context.Context, userID string) (familiar.Familiar, bool, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return familiar.Familiar{}, false, ErrInvalidRequest
	}

	now := u.now()
	fresh := familiar.New(userID, familiar.RandomBiome(u.roll), now)
	f, created, err := u.Store.CreateIfAbsent(ctx, fresh)
	if err != nil {
		return familiar.Familiar{}, false, err
	}
	if created {
		u.logger().Info("familiar created",
			zap.String("user_id", userID),
			zap.String("biome", string(f.Biome)),
		)
		u.journal(ctx, userID, familiar.Event{
			Type:       familiar.EventCreated,
			OccurredAt: now,
			Payload:    map[string]any{"biome": string(f.Biome)},
		})
	}
	return f, created, nil
}

// UpdateCareMeter clamps value to [0,100], recomputes the neglect flag and
// persists the aggregate. Every meter write goes through here so the flag
// cannot drift from the meter.
func (u UseCase) UpdateCareMeter(ctx context.Context, f familiar.Familiar, value int) (familiar.Familiar, error) {
	if value < 0 {
		value = 0
	}
	if value > familiar.CareMeterMax {
		value = familiar.CareMeterMax
	}
	f.CareMeter = value
	f.NeglectWarning = value < familiar.NeglectThreshold
	if err := u.Store.Save(ctx, f); err != nil {
		return familiar.Familiar{}, err
	}
	return f, nil
}

// CheckForRemoval archives and deletes the familiar when its care meter has
// sat at zero with no care for the full removal grace period. The side
// effect is irreversible; callers must stop operating on a removed familiar.
func (u UseCase) CheckForRemoval(ctx context.Context, userID string) (bool, error) {
	f, err := u.Store.Load(ctx, userID)
	if err != nil {
		return false, err
	}
	now := u.now()
	if f.CareMeter != 0 || now.Sub(f.LastCareTime) < familiar.RemovalGrace {
		return false, nil
	}

	if err := u.Store.Archive(ctx, f, familiar.ArchiveTTL); err != nil {
		return false, err
	}
	if err := u.Store.Delete(ctx, userID); err != nil {
		return false, err
	}
	u.logger().Info("familiar removed after prolonged neglect",
		zap.String("user_id", userID),
		zap.Int("age", f.Age),
	)
	if u.Metrics != nil {
		u.Metrics.RecordRemoval()
	}
	u.journal(ctx, userID, familiar.Event{
		Type:       familiar.EventRemoved,
		OccurredAt: now,
		Payload:    map[string]any{"age": f.Age, "mutations": len(f.Mutations)},
	})
	return true, nil
}

func (u UseCase) SetPrivacy(ctx context.Context, userID string, optIn bool) (familiar.Familiar, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return familiar.Familiar{}, ErrInvalidRequest
	}
	f, err := u.Store.Load(ctx, userID)
	if err != nil {
		return familiar.Familiar{}, err
	}
	f.PrivacyOptIn = optIn
	if err := u.Store.Save(ctx, f); err != nil {
		return familiar.Familiar{}, err
	}
	u.journal(ctx, userID, familiar.Event{
		Type:       familiar.EventPrivacyChanged,
		OccurredAt: u.now(),
		Payload:    map[string]any{"opt_in": optIn},
	})
	return f, nil
}

func (u UseCase) journal(ctx context.Context, familiarID string, e familiar.Event) {
	if u.Journal == nil {
		return
	}
	if err := u.Journal.Append(ctx, familiarID, []familiar.Event{e}); err != nil {
		u.logger().Warn("journal append failed",
			zap.String("user_id", familiarID),
			zap.String("event", e.Type),
			zap.Error(err),
		)
	}
}

func (u UseCase) now() time.Time {
	if u.Now != nil {
		return u.Now()
	}
	return time.Now()
}

func (u UseCase) roll() float64 {
	if u.Rand != nil {
		return u.Rand()
	}
	return rand.Float64()
}

func (u UseCase) logger() *zap.Logger {
	if u.Log != nil {
		return u.Log
	}
	return zap.NewNop()
}
