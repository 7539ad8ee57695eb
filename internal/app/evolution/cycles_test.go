package evolution

import (
	"context"
	"testing"
	"time"

	memsched "famiverse/internal/adapter/sched/memory"
	"famiverse/internal/adapter/store/memory"
	"famiverse/internal/app/care"
	"famiverse/internal/app/familiars"
	"famiverse/internal/app/mutation"
	"famiverse/internal/domain/familiar"
)

type cycleFixture struct {
	cycles Cycles
	sched  *memsched.Scheduler
	store  *memory.Store
	now    time.Time
}

func (fx *cycleFixture) setNow(t time.Time) {
	fx.now = t
}

func newCycleFixture(f familiar.Familiar, start time.Time) *cycleFixture {
	fx := &cycleFixture{sched: memsched.New(), store: memory.NewStore(), now: start}
	clock := func() time.Time { return fx.now }
	fx.store.Now = clock
	fx.store.SeedFamiliar(f)

	famStore := memory.NewFamiliarStore(fx.store)
	famUC := familiars.UseCase{Store: famStore, Now: clock}
	fx.cycles = Cycles{
		Sched:     fx.sched,
		Store:     famStore,
		Familiars: famUC,
		Care: care.UseCase{
			Familiars: famUC,
			Store:     famStore,
			Cooldowns: memory.NewCooldownStore(fx.store),
			Now:       clock,
		},
		Mutations: mutation.UseCase{
			Store:    famStore,
			Sessions: memory.NewSessionStore(fx.store),
			Now:      clock,
		},
		Now:  clock,
		Rand: func() float64 { return 0.99 }, // no mutation, no biome roll, max delay
	}
	fx.sched.Register(JobEvolutionCycle, fx.cycles.OnEvolutionCycle)
	fx.sched.Register(JobCareDecay, fx.cycles.OnCareDecay)
	return fx
}

func TestCycles_StartArmsBothChains(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	fx := newCycleFixture(familiar.New("u1", familiar.BiomeForest, now), now)

	if err := fx.cycles.Start(context.Background(), "u1"); err != nil {
		t.Fatalf("Start error: %v", err)
	}
	if jobs := fx.sched.Jobs(); len(jobs) != 2 {
		t.Fatalf("expected 2 armed jobs, got %v", jobs)
	}

	runAt, ok := fx.sched.NextRunAt(JobEvolutionCycle, "u1")
	if !ok {
		t.Fatalf("expected an evolution cycle armed")
	}
	delay := runAt.Sub(now)
	if delay < familiar.CycleDelayMin || delay > familiar.CycleDelayMax {
		t.Fatalf("cycle delay %v outside [%v, %v]", delay, familiar.CycleDelayMin, familiar.CycleDelayMax)
	}

	decayAt, ok := fx.sched.NextRunAt(JobCareDecay, "u1")
	if !ok {
		t.Fatalf("expected a decay job armed")
	}
	if got := decayAt.Sub(now); got != familiar.CareDecayPeriod {
		t.Fatalf("expected decay period %v, got %v", familiar.CareDecayPeriod, got)
	}
}

func TestCycles_EvolutionCycleAgesAndReschedules(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	fx := newCycleFixture(familiar.New("u1", familiar.BiomeForest, now), now)

	fx.cycles.OnEvolutionCycle(context.Background(), "u1")

	f, err := fx.cycles.Store.Load(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if f.Age != 1 {
		t.Fatalf("expected age 1, got %d", f.Age)
	}
	if _, ok := fx.sched.NextRunAt(JobEvolutionCycle, "u1"); !ok {
		t.Fatalf("expected the chain rescheduled")
	}
}

func TestCycles_EvolutionCycleAppliesDecay(t *testing.T) {
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	fx := newCycleFixture(familiar.New("u1", familiar.BiomeForest, created), created)
	fx.setNow(created.Add(3 * time.Hour))

	fx.cycles.OnEvolutionCycle(context.Background(), "u1")

	f, _ := fx.cycles.Store.Load(context.Background(), "u1")
	if f.CareMeter != 85 {
		t.Fatalf("expected meter 85 after 3h decay, got %d", f.CareMeter)
	}
}

func TestCycles_EvolutionCycleCanMutate(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	fx := newCycleFixture(familiar.New("u1", familiar.BiomeForest, now), now)
	fx.cycles.Rand = func() float64 { return 0.1 } // under the mutation chance

	fx.cycles.OnEvolutionCycle(context.Background(), "u1")

	f, _ := fx.cycles.Store.Load(context.Background(), "u1")
	if len(f.Mutations) != 1 {
		t.Fatalf("expected one uncontrolled mutation, got %d", len(f.Mutations))
	}
	if f.Mutations[0].Type != familiar.MutationUncontrolled {
		t.Fatalf("expected uncontrolled, got %s", f.Mutations[0].Type)
	}
}

func TestCycles_RemovalStopsChain(t *testing.T) {
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	f := familiar.New("u1", familiar.BiomeForest, created)
	f.CareMeter = 0
	fx := newCycleFixture(f, created)
	fx.setNow(created.Add(25 * time.Hour))

	fx.cycles.OnEvolutionCycle(context.Background(), "u1")

	if _, ok := fx.store.Archived("u1"); !ok {
		t.Fatalf("expected familiar archived")
	}
	if jobs := fx.sched.Jobs(); len(jobs) != 0 {
		t.Fatalf("removal must stop the chain, still armed: %v", jobs)
	}
}

func TestCycles_AbsentFamiliarStopsChain(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	fx := newCycleFixture(familiar.New("other", familiar.BiomeForest, now), now)

	fx.cycles.OnEvolutionCycle(context.Background(), "u1")
	fx.cycles.OnCareDecay(context.Background(), "u1")

	if jobs := fx.sched.Jobs(); len(jobs) != 0 {
		t.Fatalf("absent familiar must stop both chains, still armed: %v", jobs)
	}
}

func TestCycles_CareDecayReschedulesItself(t *testing.T) {
	created := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	fx := newCycleFixture(familiar.New("u1", familiar.BiomeForest, created), created)
	fx.setNow(created.Add(2 * time.Hour))

	fx.cycles.OnCareDecay(context.Background(), "u1")

	f, _ := fx.cycles.Store.Load(context.Background(), "u1")
	if f.CareMeter != 90 {
		t.Fatalf("expected meter 90 after 2h, got %d", f.CareMeter)
	}
	runAt, ok := fx.sched.NextRunAt(JobCareDecay, "u1")
	if !ok {
		t.Fatalf("expected decay rescheduled")
	}
	if got := runAt.Sub(fx.now); got != familiar.CareDecayPeriod {
		t.Fatalf("expected next decay in %v, got %v", familiar.CareDecayPeriod, got)
	}
}

func TestCycles_BiomeRotationAtMilestoneAge(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	f := familiar.New("u1", familiar.BiomeForest, now)
	f.Age = 9 // becomes 10 inside the cycle
	fx := newCycleFixture(f, now)
	rolls := []float64{0.99, 0.0, 0.0, 0.99} // skip mutation, rotate, pick biome, max delay
	fx.cycles.Rand = func() float64 {
		r := rolls[0]
		if len(rolls) > 1 {
			rolls = rolls[1:]
		}
		return r
	}

	fx.cycles.OnEvolutionCycle(context.Background(), "u1")

	got, _ := fx.cycles.Store.Load(context.Background(), "u1")
	if got.Biome == familiar.BiomeForest {
		t.Fatalf("expected biome rotated away from forest")
	}
	if got.Age != 10 {
		t.Fatalf("expected age 10, got %d", got.Age)
	}
}

func TestCycles_ChainSurvivesMutationFailure(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	f := familiar.New("u1", familiar.BiomeForest, now)
	// Saturate legs so a legs pick keeps failing compatibility.
	f.Mutations = append(f.Mutations,
		familiar.MutationData{Traits: []familiar.MutationTrait{{Category: familiar.CategoryLegs}}},
		familiar.MutationData{Traits: []familiar.MutationTrait{{Category: familiar.CategorySize}}},
		familiar.MutationData{Traits: []familiar.MutationTrait{{Category: familiar.CategoryPattern}}},
		familiar.MutationData{Traits: []familiar.MutationTrait{{Category: familiar.CategoryPattern}}},
		familiar.MutationData{Traits: []familiar.MutationTrait{{Category: familiar.CategoryColor}}},
		familiar.MutationData{Traits: []familiar.MutationTrait{{Category: familiar.CategoryColor}}},
		familiar.MutationData{Traits: []familiar.MutationTrait{{Category: familiar.CategoryColor}}},
	)
	fx := newCycleFixture(f, now)
	fx.cycles.Rand = func() float64 { return 0.1 }

	fx.cycles.OnEvolutionCycle(context.Background(), "u1")

	if _, ok := fx.sched.NextRunAt(JobEvolutionCycle, "u1"); !ok {
		t.Fatalf("a failed mutation must not break the chain")
	}
}
