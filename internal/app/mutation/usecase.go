package mutation

import (
	"context"
	"errors"
	"math/rand"
	"strings"
	"time"

	"famiverse/internal/app/ports"
	"famiverse/internal/domain/familiar"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrInvalidRequest = errors.New("invalid mutation request")
	ErrUnknownOption  = errors.New("unknown mutation option")
)

// UseCase generates and applies both controlled (player-chosen) and
// uncontrolled (automatic) mutations.
type UseCase struct {
	Store    ports.FamiliarStore
	Sessions ports.SessionStore
	Journal  ports.EventRepository
	Metrics  ports.Metrics
	// Activity biases uncontrolled category selection; optional and only
	// consulted when the familiar's owner opted in.
	Activity ports.ActivityProvider
	// Traits replaces the fixed option menus when wired.
	Traits ports.TraitOptionProvider
	Log    *zap.Logger
	Now    func() time.Time
	Rand   func() float64
}

type TriggerResult struct {
	SessionID       string                 `json:"session_id"`
	Options         []familiar.TraitOption `json:"options"`
	EvolutionPoints int                    `json:"evolution_points"`
}

// Trigger starts the controlled-mutation protocol: it deducts the point cost
// up front, generates a menu of options and stores a single-use session.
// Points are spent on trigger and are not refunded if the session expires.
func (u UseCase) Trigger(ctx context.Context, userID string) (TriggerResult, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return TriggerResult{}, ErrInvalidRequest
	}
	f, err := u.Store.Load(ctx, userID)
	if err != nil {
		return TriggerResult{}, err
	}
	if f.EvolutionPoints < familiar.MutationCost {
		return TriggerResult{}, ports.ErrInsufficientPoints
	}

	f.EvolutionPoints -= familiar.MutationCost
	if err := u.Store.Save(ctx, f); err != nil {
		return TriggerResult{}, err
	}

	now := u.now()
	options := u.buildOptions(ctx, f)
	session := familiar.ChoiceSession{
		SessionID:  uuid.NewString(),
		FamiliarID: userID,
		Options:    options,
		CreatedAt:  now,
	}
	if err := u.Sessions.Put(ctx, session, familiar.ChoiceSessionTTL); err != nil {
		return TriggerResult{}, err
	}

	u.journal(ctx, userID, familiar.Event{
		Type:       familiar.EventMutationOffered,
		OccurredAt: now,
		Payload:    map[string]any{"session_id": session.SessionID, "options": len(options)},
	})
	return TriggerResult{
		SessionID:       session.SessionID,
		Options:         options,
		EvolutionPoints: f.EvolutionPoints,
	}, nil
}

// Choose consumes a mutation-choice session. Compatibility is re-checked
// against the familiar's current state, which may have changed since
// trigger; an incompatible choice leaves the session in place so the player
// may pick another option before it expires.
func (u UseCase) Choose(ctx context.Context, sessionID, optionID string) (familiar.MutationData, error) {
	sessionID = strings.TrimSpace(sessionID)
	optionID = strings.TrimSpace(optionID)
	if sessionID == "" || optionID == "" {
		return familiar.MutationData{}, ErrInvalidRequest
	}

	session, err := u.Sessions.Get(ctx, sessionID)
	if err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			return familiar.MutationData{}, ports.ErrSessionExpired
		}
		return familiar.MutationData{}, err
	}

	var chosen *familiar.TraitOption
	for i := range session.Options {
		if session.Options[i].ID == optionID {
			chosen = &session.Options[i]
			break
		}
	}
	if chosen == nil {
		return familiar.MutationData{}, ErrUnknownOption
	}

	f, err := u.Store.Load(ctx, session.FamiliarID)
	if err != nil {
		return familiar.MutationData{}, err
	}
	check := familiar.CheckCompatibility(f, chosen.Category)
	if !check.Compatible {
		return familiar.MutationData{}, &ports.IncompatibleError{
			Category:    chosen.Category,
			Conflicts:   check.Conflicts,
			Suggestions: check.Suggestions,
		}
	}

	factor := u.randBetween(familiar.ControlledFactorMin, familiar.ControlledFactorMax)
	m := u.buildMutation(familiar.MutationControlled, chosen.Category, chosen.Value, factor)
	if err := u.apply(ctx, f, m); err != nil {
		return familiar.MutationData{}, err
	}
	if err := u.Sessions.Delete(ctx, sessionID); err != nil {
		u.logger().Warn("failed to delete consumed mutation session",
			zap.String("session_id", sessionID),
			zap.Error(err),
		)
	}
	return m, nil
}

// GenerateUncontrolled produces an automatic mutation. Category selection is
// activity-biased for opted-in users and retried against the compatibility
// matrix; after repeated failures it falls back to a suggested category.
func (u UseCase) GenerateUncontrolled(ctx context.Context, userID string) (familiar.MutationData, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return familiar.MutationData{}, ErrInvalidRequest
	}
	f, err := u.Store.Load(ctx, userID)
	if err != nil {
		return familiar.MutationData{}, err
	}

	for attempt := 0; attempt < familiar.MaxUncontrolledAttempts; attempt++ {
		var category familiar.Category
		if attempt >= familiar.SuggestionFallbackAfter {
			if suggestions := familiar.CompatibleSuggestions(f); len(suggestions) > 0 {
				category = suggestions[u.randIndex(len(suggestions))]
			} else {
				category = familiar.Categories[u.randIndex(len(familiar.Categories))]
			}
		} else {
			category = u.pickUncontrolledCategory(ctx, f)
		}

		if check := familiar.CheckCompatibility(f, category); !check.Compatible {
			continue
		}

		value := u.pickValueFor(category)
		factor := u.randBetween(familiar.UncontrolledFactorMin, familiar.UncontrolledFactorMax)
		m := u.buildMutation(familiar.MutationUncontrolled, category, value, factor)
		if err := u.apply(ctx, f, m); err != nil {
			return familiar.MutationData{}, err
		}
		return m, nil
	}
	return familiar.MutationData{}, ports.ErrNoCompatibleMutation
}

func (u UseCase) CheckCompatibility(ctx context.Context, userID string, category familiar.Category) (familiar.CompatibilityResult, error) {
	f, err := u.Store.Load(ctx, userID)
	if err != nil {
		return familiar.CompatibilityResult{}, err
	}
	return familiar.CheckCompatibility(f, category), nil
}

// pickUncontrolledCategory biases toward the owner's dominant activity
// category part of the time when opted in, otherwise picks uniformly.
func (u UseCase) pickUncontrolledCategory(ctx context.Context, f familiar.Familiar) familiar.Category {
	if f.PrivacyOptIn && u.Activity != nil && u.roll() < familiar.ActivityBiasChance {
		summary, err := u.Activity.Summary(ctx, f.UserID)
		if err == nil {
			if shortlist, ok := activityShortlists[summary.DominantCategory]; ok {
				return shortlist[u.randIndex(len(shortlist))]
			}
		} else if !errors.Is(err, ports.ErrNotFound) {
			u.logger().Warn("activity summary lookup failed",
				zap.String("user_id", f.UserID),
				zap.Error(err),
			)
		}
	}
	return familiar.Categories[u.randIndex(len(familiar.Categories))]
}

func (u UseCase) pickValueFor(category familiar.Category) any {
	options := familiar.OptionsForCategory(category)
	return options[u.randIndex(len(options))].Value
}

// buildOptions asks the external trait generator first and falls back to the
// fixed menu of a uniformly-random category. Provider output is filtered to
// known categories and truncated to the option window.
func (u UseCase) buildOptions(ctx context.Context, f familiar.Familiar) []familiar.TraitOption {
	if u.Traits != nil {
		tc := ports.TraitContext{
			Stats:            f.Stats,
			RecentCategories: f.RecentCategories(3),
			Biome:            f.Biome,
		}
		if f.PrivacyOptIn && u.Activity != nil {
			if summary, err := u.Activity.Summary(ctx, f.UserID); err == nil {
				tc.ActivityCategory = summary.DominantCategory
			}
		}
		generated, err := u.Traits.Options(ctx, tc)
		if err != nil {
			u.logger().Warn("trait option provider failed, using fixed menu", zap.Error(err))
		} else {
			options := make([]familiar.TraitOption, 0, familiar.MaxTraitOptions)
			for _, opt := range generated {
				if !familiar.KnownCategory(opt.Category) {
					continue
				}
				options = append(options, opt)
				if len(options) == familiar.MaxTraitOptions {
					break
				}
			}
			if len(options) >= familiar.MinTraitOptions {
				return options
			}
		}
	}
	category := familiar.Categories[u.randIndex(len(familiar.Categories))]
	return familiar.OptionsForCategory(category)
}

func (u UseCase) buildMutation(t familiar.MutationType, category familiar.Category, value any, factor float64) familiar.MutationData {
	randomized := familiar.RandomizeValue(value, factor, u.roll)
	return familiar.MutationData{
		ID:   uuid.NewString(),
		Type: t,
		Traits: []familiar.MutationTrait{{
			Category:         category,
			Value:            randomized,
			RandomnessFactor: factor,
		}},
		StatEffects: familiar.StatEffectsFor(category, randomized),
		Timestamp:   u.now(),
	}
}

// apply appends m to the familiar's mutation list, applies its stat effects
// and persists the aggregate.
func (u UseCase) apply(ctx context.Context, f familiar.Familiar, m familiar.MutationData) error {
	f.Mutations = append(f.Mutations, m)
	f.Stats.Apply(m.StatEffects)
	if err := u.Store.Save(ctx, f); err != nil {
		return err
	}
	if u.Metrics != nil {
		u.Metrics.RecordMutation(m.Type)
	}
	u.journal(ctx, f.UserID, familiar.Event{
		Type:       familiar.EventMutationApplied,
		OccurredAt: m.Timestamp,
		Payload: map[string]any{
			"mutation_id": m.ID,
			"type":        string(m.Type),
			"category":    string(m.Traits[0].Category),
		},
	})
	return nil
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

func (u UseCase) randBetween(lo, hi float64) float64 {
	return lo + u.roll()*(hi-lo)
}

func (u UseCase) randIndex(n int) int {
	i := int(u.roll() * float64(n))
	if i >= n {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}

func (u UseCase) roll() float64 {
	if u.Rand != nil {
		return u.Rand()
	}
	return rand.Float64()
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
