package evolution

import (
	"context"
	"errors"
	"math/rand"
	"time"

	"famiverse/internal/app/care"
	"famiverse/internal/app/familiars"
	"famiverse/internal/app/mutation"
	"famiverse/internal/app/ports"
	"famiverse/internal/domain/familiar"

	"go.uber.org/zap"
)

const (
	JobEvolutionCycle = "evolution_cycle"
	JobCareDecay      = "care_decay"
)

// Cycles runs the per-familiar timer chains. Each completed cycle re-arms its
// own next run; there is no shared global timer. Handlers tolerate
// at-least-once delivery: a duplicate tick produces extra aging and decay but
// no other divergence.
type Cycles struct {
	Sched     ports.Scheduler
	Store     ports.FamiliarStore
	Familiars familiars.UseCase
	Care      care.UseCase
	Mutations mutation.UseCase
	Journal   ports.EventRepository
	Metrics   ports.Metrics
	Log       *zap.Logger
	Now       func() time.Time
	Rand      func() float64
}

// Start arms both timer chains for a familiar. Called once at creation.
func (c Cycles) Start(ctx context.Context, userID string) error {
	if err := c.ScheduleEvolutionCycle(ctx, userID); err != nil {
		return err
	}
	return c.ScheduleCareDecay(ctx, userID)
}

// ScheduleEvolutionCycle arms a one-shot cycle at now + uniform(30m, 4h).
func (c Cycles) ScheduleEvolutionCycle(ctx context.Context, userID string) error {
	spread := float64(familiar.CycleDelayMax - familiar.CycleDelayMin)
	delay := familiar.CycleDelayMin + time.Duration(c.roll()*spread)
	return c.Sched.Schedule(ctx, JobEvolutionCycle, userID, c.now().Add(delay))
}

func (c Cycles) ScheduleCareDecay(ctx context.Context, userID string) error {
	return c.Sched.Schedule(ctx, JobCareDecay, userID, c.now().Add(familiar.CareDecayPeriod))
}

// OnEvolutionCycle ages the familiar, applies decay, may mutate it or rotate
// its biome, and re-arms itself. The chain stops only when the familiar is
// absent or removed; any other failure still reschedules so one bad cycle
// cannot orphan the familiar's timer chain.
func (c Cycles) OnEvolutionCycle(ctx context.Context, userID string) {
	log := c.logger().With(zap.String("user_id", userID))

	f, err := c.Store.Load(ctx, userID)
	if errors.Is(err, ports.ErrNotFound) {
		log.Debug("familiar absent, stopping evolution chain")
		return
	}
	if err != nil {
		log.Warn("evolution cycle could not load familiar", zap.Error(err))
		c.reschedule(ctx, userID, log)
		return
	}

	f.Age++
	if err := c.Store.Save(ctx, f); err != nil {
		log.Warn("evolution cycle could not persist age", zap.Error(err))
		c.reschedule(ctx, userID, log)
		return
	}

	if _, err := c.Care.Decay(ctx, userID); err != nil {
		log.Warn("care decay failed during evolution cycle", zap.Error(err))
	}

	removed, err := c.Familiars.CheckForRemoval(ctx, userID)
	if err != nil && !errors.Is(err, ports.ErrNotFound) {
		log.Warn("removal check failed", zap.Error(err))
	}
	if removed || errors.Is(err, ports.ErrNotFound) {
		log.Info("familiar removed, stopping evolution chain")
		return
	}

	if c.roll() < familiar.UncontrolledMutationChance {
		if _, err := c.Mutations.GenerateUncontrolled(ctx, userID); err != nil {
			// Expected occasionally (e.g. no compatible category);
			// the cycle continues regardless.
			log.Warn("uncontrolled mutation failed", zap.Error(err))
		}
	}

	if f.Age%familiar.BiomeRotateAgeEvery == 0 && c.roll() < familiar.BiomeRotateChance {
		c.rotateBiome(ctx, userID, log)
	}

	if c.Metrics != nil {
		c.Metrics.RecordCycle()
	}
	c.journal(ctx, userID, familiar.Event{
		Type:       familiar.EventEvolutionCycle,
		OccurredAt: c.now(),
		Payload:    map[string]any{"age": f.Age},
	})
	c.reschedule(ctx, userID, log)
}

// OnCareDecay is the fixed-period decay chain: decay, neglect check,
// reschedule regardless of outcome. It stops only when the familiar is gone.
func (c Cycles) OnCareDecay(ctx context.Context, userID string) {
	log := c.logger().With(zap.String("user_id", userID))

	if _, err := c.Care.Decay(ctx, userID); err != nil {
		if errors.Is(err, ports.ErrNotFound) {
			log.Debug("familiar absent, stopping decay chain")
			return
		}
		log.Warn("scheduled care decay failed", zap.Error(err))
	}
	if _, err := c.Care.CheckNeglect(ctx, userID); err != nil {
		log.Warn("neglect check failed", zap.Error(err))
	}
	if err := c.ScheduleCareDecay(ctx, userID); err != nil {
		log.Error("failed to reschedule care decay", zap.Error(err))
	}
}

// rotateBiome re-reads the familiar so the rotation write does not clobber
// meter or mutation changes made earlier in the cycle.
func (c Cycles) rotateBiome(ctx context.Context, userID string, log *zap.Logger) {
	f, err := c.Store.Load(ctx, userID)
	if err != nil {
		log.Warn("biome rotation could not load familiar", zap.Error(err))
		return
	}
	from := f.Biome
	f.Biome = familiar.RotateBiome(from, c.roll)
	if err := c.Store.Save(ctx, f); err != nil {
		log.Warn("biome rotation could not persist", zap.Error(err))
		return
	}
	log.Info("biome rotated",
		zap.String("from", string(from)),
		zap.String("to", string(f.Biome)),
	)
	c.journal(ctx, userID, familiar.Event{
		Type:       familiar.EventBiomeRotated,
		OccurredAt: c.now(),
		Payload:    map[string]any{"from": string(from), "to": string(f.Biome)},
	})
}

func (c Cycles) reschedule(ctx context.Context, userID string, log *zap.Logger) {
	if err := c.ScheduleEvolutionCycle(ctx, userID); err != nil {
		log.Error("failed to reschedule evolution cycle", zap.Error(err))
	}
}

func (c Cycles) journal(ctx context.Context, familiarID string, e familiar.Event) {
	if c.Journal == nil {
		return
	}
	if err := c.Journal.Append(ctx, familiarID, []familiar.Event{e}); err != nil {
		c.logger().Warn("journal append failed",
			zap.String("user_id", familiarID),
			zap.String("event", e.Type),
			zap.Error(err),
		)
	}
}

func (c Cycles) now() time.Time {
	if c.Now != nil {
		return c.Now()
	}
	return time.Now()
}

func (c Cycles) roll() float64 {
	if c.Rand != nil {
		return c.Rand()
	}
	return rand.Float64()
}

func (c Cycles) logger() *zap.Logger {
	if c.Log != nil {
		return c.Log
	}
	return zap.NewNop()
}
