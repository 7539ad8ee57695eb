package care

import (
	"context"
	"errors"
	"strings"
	"time"

	"famiverse/internal/app/familiars"
	"famiverse/internal/app/ports"
	"famiverse/internal/domain/familiar"

	"go.uber.org/zap"
)

var (
	ErrInvalidRequest = errors.New("invalid care request")
	ErrUnknownAction  = errors.New("unknown care action")
)

// UseCase executes care actions against a familiar, enforcing per-action
// cooldowns and computing meter and evolution-point deltas. All meter writes
// route through the familiars use case so the neglect flag stays consistent.
type UseCase struct {
	Familiars familiars.UseCase
	Store     ports.FamiliarStore
	Cooldowns ports.CooldownStore
	Journal   ports.EventRepository
	Metrics   ports.Metrics
	Log       *zap.Logger
	// Cooldown overrides the per-action cooldown duration; zero means
	// familiar.DefaultCareCooldown.
	Cooldown time.Duration
	Now      func() time.Time
}

type ActionResult struct {
	CareMeter             int `json:"care_meter"`
	EvolutionPoints       int `json:"evolution_points"`
	CareMeterIncrease     int `json:"care_meter_increase"`
	EvolutionPointsGained int `json:"evolution_points_gained"`
}

func (u UseCase) PerformAction(ctx context.Context, userID string, action familiar.CareAction) (ActionResult, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return ActionResult{}, ErrInvalidRequest
	}
	effect, ok := familiar.CareActionEffects[action]
	if !ok {
		return ActionResult{}, ErrUnknownAction
	}

	remaining, err := u.Cooldowns.Remaining(ctx, userID, action)
	if err != nil {
		return ActionResult{}, err
	}
	if remaining > 0 {
		u.recordAction(action, false)
		return ActionResult{}, &ports.CooldownError{Action: action, Remaining: remaining}
	}

	f, err := u.Store.Load(ctx, userID)
	if err != nil {
		return ActionResult{}, err
	}

	now := u.now()
	f.EvolutionPoints += effect.Points
	f.LastCareTime = now
	f, err = u.Familiars.UpdateCareMeter(ctx, f, f.CareMeter+effect.Meter)
	if err != nil {
		return ActionResult{}, err
	}

	if err := u.Cooldowns.Arm(ctx, userID, action, u.cooldown()); err != nil {
		// The action already applied; a missing cooldown only lets the
		// player care again early.
		u.logger().Warn("failed to arm care cooldown",
			zap.String("user_id", userID),
			zap.String("action", string(action)),
			zap.Error(err),
		)
	}

	u.recordAction(action, true)
	u.journal(ctx, userID, familiar.Event{
		Type:       familiar.EventCarePerformed,
		OccurredAt: now,
		Payload: map[string]any{
			"action":           string(action),
			"care_meter":       f.CareMeter,
			"evolution_points": f.EvolutionPoints,
		},
	})

	return ActionResult{
		CareMeter:             f.CareMeter,
		EvolutionPoints:       f.EvolutionPoints,
		CareMeterIncrease:     effect.Meter,
		EvolutionPointsGained: effect.Points,
	}, nil
}

// Decay lowers the care meter by floor(hoursSinceLastCare * 5), clamped at
// zero. With no intervening care, repeated calls only push the meter further
// toward zero, never below it.
func (u UseCase) Decay(ctx context.Context, userID string) (int, error) {
	f, err := u.Store.Load(ctx, userID)
	if err != nil {
		return 0, err
	}
	loss := int(u.now().Sub(f.LastCareTime).Hours() * familiar.DecayPerHour)
	if loss <= 0 {
		return f.CareMeter, nil
	}
	before := f.CareMeter
	f, err = u.Familiars.UpdateCareMeter(ctx, f, f.CareMeter-loss)
	if err != nil {
		return 0, err
	}
	if f.CareMeter != before {
		u.journal(ctx, userID, familiar.Event{
			Type:       familiar.EventCareDecayed,
			OccurredAt: u.now(),
			Payload:    map[string]any{"from": before, "to": f.CareMeter},
		})
	}
	return f.CareMeter, nil
}

// CheckNeglect reports whether the familiar is neglected and persists the
// warning flag when it is. It never clears the flag; clearing happens on the
// next meter update.
func (u UseCase) CheckNeglect(ctx context.Context, userID string) (bool, error) {
	f, err := u.Store.Load(ctx, userID)
	if err != nil {
		return false, err
	}
	if f.CareMeter >= familiar.NeglectThreshold {
		return false, nil
	}
	if !f.NeglectWarning {
		f.NeglectWarning = true
		if err := u.Store.Save(ctx, f); err != nil {
			return true, err
		}
	}
	return true, nil
}

func (u UseCase) cooldown() time.Duration {
	if u.Cooldown > 0 {
		return u.Cooldown
	}
	return familiar.DefaultCareCooldown
}

func (u UseCase) recordAction(action familiar.CareAction, ok bool) {
	if u.Metrics != nil {
		u.Metrics.RecordCareAction(action, ok)
	}
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

func (u UseCase) logger() *zap.Logger {
	if u.Log != nil {
		return u.Log
	}
	return zap.NewNop()
}
