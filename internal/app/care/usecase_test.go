package care

import (
	"context"
	"errors"
	"testing"
	"time"

	"famiverse/internal/adapter/store/memory"
	"famiverse/internal/app/familiars"
	"famiverse/internal/app/ports"
	"famiverse/internal/domain/familiar"
)

func newCareFixture(t *testing.T, f familiar.Familiar, now time.Time) (UseCase, *memory.Store) {
	t.Helper()
	store := memory.NewStore()
	store.Now = func() time.Time { return now }
	store.SeedFamiliar(f)

	famStore := memory.NewFamiliarStore(store)
	clock := func() time.Time { return now }
	uc := UseCase{
		Familiars: familiars.UseCase{Store: famStore, Now: clock},
		Store:     famStore,
		Cooldowns: memory.NewCooldownStore(store),
		Now:       clock,
	}
	return uc, store
}

func TestUseCase_PerformActionAppliesEffects(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	f := familiar.New("u1", familiar.BiomeForest, now.Add(-2*time.Hour))
	f.CareMeter = 40
	uc, _ := newCareFixture(t, f, now)

	res, err := uc.PerformAction(context.Background(), "u1", familiar.CareFeed)
	if err != nil {
		t.Fatalf("PerformAction error: %v", err)
	}
	if res.CareMeter != 55 {
		t.Fatalf("expected care meter 55, got %d", res.CareMeter)
	}
	if res.EvolutionPoints != 10 {
		t.Fatalf("expected 10 evolution points, got %d", res.EvolutionPoints)
	}
	if res.CareMeterIncrease != 15 || res.EvolutionPointsGained != 10 {
		t.Fatalf("unexpected deltas: %+v", res)
	}

	stored, err := uc.Store.Load(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Load error: %v", err)
	}
	if !stored.LastCareTime.Equal(now) {
		t.Fatalf("expected last care time updated to %v, got %v", now, stored.LastCareTime)
	}
}

func TestUseCase_PerformActionClampsMeterAtMax(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	f := familiar.New("u1", familiar.BiomeForest, now)
	f.CareMeter = 95
	uc, _ := newCareFixture(t, f, now)

	res, err := uc.PerformAction(context.Background(), "u1", familiar.CarePlay)
	if err != nil {
		t.Fatalf("PerformAction error: %v", err)
	}
	if res.CareMeter != familiar.CareMeterMax {
		t.Fatalf("expected meter clamped to %d, got %d", familiar.CareMeterMax, res.CareMeter)
	}
}

func TestUseCase_PerformActionEnforcesCooldown(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	f := familiar.New("u1", familiar.BiomeForest, now)
	uc, _ := newCareFixture(t, f, now)

	if _, err := uc.PerformAction(context.Background(), "u1", familiar.CareFeed); err != nil {
		t.Fatalf("first action error: %v", err)
	}

	_, err := uc.PerformAction(context.Background(), "u1", familiar.CareFeed)
	var cooldownErr *ports.CooldownError
	if !errors.As(err, &cooldownErr) {
		t.Fatalf("expected CooldownError, got %v", err)
	}
	if cooldownErr.Action != familiar.CareFeed {
		t.Fatalf("expected feed cooldown, got %s", cooldownErr.Action)
	}
	if cooldownErr.Remaining <= 0 || cooldownErr.Remaining > familiar.DefaultCareCooldown {
		t.Fatalf("unexpected remaining %v", cooldownErr.Remaining)
	}
}

func TestUseCase_CooldownsArePerAction(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	f := familiar.New("u1", familiar.BiomeForest, now)
	uc, _ := newCareFixture(t, f, now)

	if _, err := uc.PerformAction(context.Background(), "u1", familiar.CareFeed); err != nil {
		t.Fatalf("feed error: %v", err)
	}
	if _, err := uc.PerformAction(context.Background(), "u1", familiar.CarePlay); err != nil {
		t.Fatalf("play should not share feed's cooldown: %v", err)
	}
	if _, err := uc.PerformAction(context.Background(), "u1", familiar.CareAttention); err != nil {
		t.Fatalf("attention should not share feed's cooldown: %v", err)
	}
}

func TestUseCase_PerformActionRejectsUnknownAction(t *testing.T) {
	now := time.Now()
	uc, _ := newCareFixture(t, familiar.New("u1", familiar.BiomeForest, now), now)
	if _, err := uc.PerformAction(context.Background(), "u1", familiar.CareAction("scold")); !errors.Is(err, ErrUnknownAction) {
		t.Fatalf("expected ErrUnknownAction, got %v", err)
	}
}

func TestUseCase_DecayAfterTenHours(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	f := familiar.New("u1", familiar.BiomeForest, now.Add(-10*time.Hour))
	uc, _ := newCareFixture(t, f, now)

	meter, err := uc.Decay(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Decay error: %v", err)
	}
	if meter != 50 {
		t.Fatalf("expected meter 50 after 10h of neglect, got %d", meter)
	}
}

func TestUseCase_DecayClampsAtZero(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	f := familiar.New("u1", familiar.BiomeForest, now.Add(-100*time.Hour))
	uc, _ := newCareFixture(t, f, now)

	meter, err := uc.Decay(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Decay error: %v", err)
	}
	if meter != 0 {
		t.Fatalf("expected meter clamped to 0, got %d", meter)
	}

	stored, _ := uc.Store.Load(context.Background(), "u1")
	if !stored.NeglectWarning {
		t.Fatalf("expected neglect warning set once meter fell below threshold")
	}
}

func TestUseCase_DecaySubHourIsFree(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	f := familiar.New("u1", familiar.BiomeForest, now.Add(-11*time.Minute))
	uc, _ := newCareFixture(t, f, now)

	meter, err := uc.Decay(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Decay error: %v", err)
	}
	if meter != familiar.CareMeterMax {
		t.Fatalf("expected no decay inside the first hour, got %d", meter)
	}
}

func TestUseCase_CheckNeglect(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	f := familiar.New("u1", familiar.BiomeForest, now)
	f.CareMeter = 19
	uc, _ := newCareFixture(t, f, now)

	neglected, err := uc.CheckNeglect(context.Background(), "u1")
	if err != nil {
		t.Fatalf("CheckNeglect error: %v", err)
	}
	if !neglected {
		t.Fatalf("expected neglect at meter 19")
	}

	stored, _ := uc.Store.Load(context.Background(), "u1")
	if !stored.NeglectWarning {
		t.Fatalf("expected warning persisted")
	}
}

func TestUseCase_CheckNeglectAtThresholdIsFine(t *testing.T) {
	now := time.Now()
	f := familiar.New("u1", familiar.BiomeForest, now)
	f.CareMeter = familiar.NeglectThreshold
	uc, _ := newCareFixture(t, f, now)

	neglected, err := uc.CheckNeglect(context.Background(), "u1")
	if err != nil {
		t.Fatalf("CheckNeglect error: %v", err)
	}
	if neglected {
		t.Fatalf("meter at the threshold should not count as neglected")
	}
}

func TestUseCase_PerformActionMissingFamiliar(t *testing.T) {
	now := time.Now()
	uc, _ := newCareFixture(t, familiar.New("other", familiar.BiomeForest, now), now)
	if _, err := uc.PerformAction(context.Background(), "u1", familiar.CareFeed); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
