package familiars

import (
	"context"
	"errors"
	"testing"
	"time"

	"famiverse/internal/adapter/store/memory"
	"famiverse/internal/app/ports"
	"famiverse/internal/domain/familiar"
)

func newFixture(now time.Time) (UseCase, *memory.Store) {
	store := memory.NewStore()
	store.Now = func() time.Time { return now }
	return UseCase{
		Store: memory.NewFamiliarStore(store),
		Now:   func() time.Time { return now },
	}, store
}

func TestUseCase_CreateInitializesFamiliar(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	uc, _ := newFixture(now)

	f, created, err := uc.Create(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Create error: %v", err)
	}
	if !created {
		t.Fatalf("expected a fresh record to report created")
	}
	if f.CareMeter != familiar.CareMeterMax {
		t.Fatalf("expected full care meter, got %d", f.CareMeter)
	}
	if f.Age != 0 || f.EvolutionPoints != 0 {
		t.Fatalf("expected zero age and points, got age=%d points=%d", f.Age, f.EvolutionPoints)
	}
	if f.Biome == "" {
		t.Fatalf("expected a biome assigned")
	}
	if !f.CreatedAt.Equal(now) {
		t.Fatalf("expected created at %v, got %v", now, f.CreatedAt)
	}
}

func TestUseCase_CreateIsIdempotent(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	uc, _ := newFixture(now)

	first, created, err := uc.Create(context.Background(), "u1")
	if err != nil {
		t.Fatalf("first Create error: %v", err)
	}
	if !created {
		t.Fatalf("expected first create to report created")
	}

	uc.Now = func() time.Time { return now.Add(time.Hour) }
	second, created, err := uc.Create(context.Background(), "u1")
	if err != nil {
		t.Fatalf("second Create error: %v", err)
	}
	if created {
		t.Fatalf("re-create must not report created")
	}
	if !second.CreatedAt.Equal(first.CreatedAt) {
		t.Fatalf("re-create must return the original record, got created_at %v", second.CreatedAt)
	}
}

func TestUseCase_CreateRejectsEmptyUserID(t *testing.T) {
	uc, _ := newFixture(time.Now())
	if _, _, err := uc.Create(context.Background(), "  "); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
}

func TestUseCase_UpdateCareMeterClampsAndFlags(t *testing.T) {
	now := time.Now()
	uc, _ := newFixture(now)
	f, _, _ := uc.Create(context.Background(), "u1")

	f, err := uc.UpdateCareMeter(context.Background(), f, -10)
	if err != nil {
		t.Fatalf("UpdateCareMeter error: %v", err)
	}
	if f.CareMeter != 0 {
		t.Fatalf("expected clamp to 0, got %d", f.CareMeter)
	}
	if !f.NeglectWarning {
		t.Fatalf("expected neglect warning below threshold")
	}

	f, err = uc.UpdateCareMeter(context.Background(), f, 150)
	if err != nil {
		t.Fatalf("UpdateCareMeter error: %v", err)
	}
	if f.CareMeter != familiar.CareMeterMax {
		t.Fatalf("expected clamp to %d, got %d", familiar.CareMeterMax, f.CareMeter)
	}
	if f.NeglectWarning {
		t.Fatalf("expected neglect warning cleared by a healthy meter write")
	}
}

func TestUseCase_CheckForRemovalRemovesAtBoundary(t *testing.T) {
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	uc, store := newFixture(now)

	f := familiar.New("u1", familiar.BiomeTundra, now.Add(-familiar.RemovalGrace))
	f.CareMeter = 0
	f.Age = 7
	store.SeedFamiliar(f)

	removed, err := uc.CheckForRemoval(context.Background(), "u1")
	if err != nil {
		t.Fatalf("CheckForRemoval error: %v", err)
	}
	if !removed {
		t.Fatalf("expected removal at exactly the grace boundary")
	}
	if _, err := uc.Store.Load(context.Background(), "u1"); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected record deleted, got %v", err)
	}
	archived, ok := store.Archived("u1")
	if !ok {
		t.Fatalf("expected archived copy")
	}
	if archived.Age != 7 {
		t.Fatalf("archive should preserve the record, got age %d", archived.Age)
	}
}

func TestUseCase_CheckForRemovalSparesInsideGrace(t *testing.T) {
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	uc, store := newFixture(now)

	f := familiar.New("u1", familiar.BiomeTundra, now.Add(-familiar.RemovalGrace+time.Second))
	f.CareMeter = 0
	store.SeedFamiliar(f)

	removed, err := uc.CheckForRemoval(context.Background(), "u1")
	if err != nil {
		t.Fatalf("CheckForRemoval error: %v", err)
	}
	if removed {
		t.Fatalf("familiar inside the grace period must survive")
	}
}

func TestUseCase_CheckForRemovalSparesNonZeroMeter(t *testing.T) {
	now := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	uc, store := newFixture(now)

	f := familiar.New("u1", familiar.BiomeTundra, now.Add(-48*time.Hour))
	f.CareMeter = 1
	store.SeedFamiliar(f)

	removed, err := uc.CheckForRemoval(context.Background(), "u1")
	if err != nil {
		t.Fatalf("CheckForRemoval error: %v", err)
	}
	if removed {
		t.Fatalf("a familiar with any care left must survive")
	}
}

func TestUseCase_SetPrivacy(t *testing.T) {
	now := time.Now()
	uc, _ := newFixture(now)
	if _, _, err := uc.Create(context.Background(), "u1"); err != nil {
		t.Fatalf("Create error: %v", err)
	}

	f, err := uc.SetPrivacy(context.Background(), "u1", true)
	if err != nil {
		t.Fatalf("SetPrivacy error: %v", err)
	}
	if !f.PrivacyOptIn {
		t.Fatalf("expected opt-in persisted")
	}

	f, err = uc.SetPrivacy(context.Background(), "u1", false)
	if err != nil {
		t.Fatalf("SetPrivacy error: %v", err)
	}
	if f.PrivacyOptIn {
		t.Fatalf("expected opt-out persisted")
	}
}
