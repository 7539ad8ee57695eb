package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"famiverse/internal/app/ports"
	"famiverse/internal/domain/familiar"
)

func TestFamiliarStore_CreateIfAbsentKeepsFirstWrite(t *testing.T) {
	store := NewStore()
	repo := NewFamiliarStore(store)
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	first := familiar.New("u1", familiar.BiomeForest, now)
	got, created, err := repo.CreateIfAbsent(context.Background(), first)
	if err != nil || !created {
		t.Fatalf("expected creation, got created=%v err=%v", created, err)
	}
	if got.Biome != familiar.BiomeForest {
		t.Fatalf("unexpected biome %s", got.Biome)
	}

	second := familiar.New("u1", familiar.BiomeDesert, now.Add(time.Hour))
	got, created, err = repo.CreateIfAbsent(context.Background(), second)
	if err != nil || created {
		t.Fatalf("expected existing record, got created=%v err=%v", created, err)
	}
	if got.Biome != familiar.BiomeForest {
		t.Fatalf("loser must receive the first record, got %s", got.Biome)
	}
}

func TestCooldownStore_RemainingDropsToZero(t *testing.T) {
	store := NewStore()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store.Now = func() time.Time { return now }
	repo := NewCooldownStore(store)

	if err := repo.Arm(context.Background(), "u1", familiar.CareFeed, 5*time.Minute); err != nil {
		t.Fatalf("Arm error: %v", err)
	}

	remaining, err := repo.Remaining(context.Background(), "u1", familiar.CareFeed)
	if err != nil {
		t.Fatalf("Remaining error: %v", err)
	}
	if remaining != 5*time.Minute {
		t.Fatalf("expected 5m remaining, got %v", remaining)
	}

	store.Now = func() time.Time { return now.Add(5*time.Minute + time.Second) }
	remaining, err = repo.Remaining(context.Background(), "u1", familiar.CareFeed)
	if err != nil {
		t.Fatalf("Remaining error: %v", err)
	}
	if remaining != 0 {
		t.Fatalf("expected expired cooldown, got %v", remaining)
	}
}

func TestSessionStore_ExpiryAndDelete(t *testing.T) {
	store := NewStore()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	store.Now = func() time.Time { return now }
	repo := NewSessionStore(store)

	session := familiar.ChoiceSession{SessionID: "s1", FamiliarID: "u1", CreatedAt: now}
	if err := repo.Put(context.Background(), session, familiar.ChoiceSessionTTL); err != nil {
		t.Fatalf("Put error: %v", err)
	}

	got, err := repo.Get(context.Background(), "s1")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got.FamiliarID != "u1" {
		t.Fatalf("unexpected session %+v", got)
	}

	store.Now = func() time.Time { return now.Add(familiar.ChoiceSessionTTL + time.Second) }
	if _, err := repo.Get(context.Background(), "s1"); !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected ErrNotFound after TTL, got %v", err)
	}

	store.Now = func() time.Time { return now }
	if err := repo.Delete(context.Background(), "s1"); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
}
