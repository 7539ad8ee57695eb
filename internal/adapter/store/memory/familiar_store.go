package memory

import (
	"context"
	"time"

	"famiverse/internal/app/ports"
	"famiverse/internal/domain/familiar"
)

type FamiliarStore struct {
	store *Store
}

func NewFamiliarStore(store *Store) FamiliarStore {
	return FamiliarStore{store: store}
}

func (r FamiliarStore) Load(_ context.Context, userID string) (familiar.Familiar, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	f, ok := r.store.familiars[userID]
	if !ok {
		return familiar.Familiar{}, ports.ErrNotFound
	}
	return f, nil
}

func (r FamiliarStore) CreateIfAbsent(_ context.Context, f familiar.Familiar) (familiar.Familiar, bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if existing, ok := r.store.familiars[f.UserID]; ok {
		return existing, false, nil
	}
	r.store.familiars[f.UserID] = f
	return f, true, nil
}

func (r FamiliarStore) Save(_ context.Context, f familiar.Familiar) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.familiars[f.UserID] = f
	return nil
}

func (r FamiliarStore) Archive(_ context.Context, f familiar.Familiar, _ time.Duration) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.archives[f.UserID] = f
	return nil
}

func (r FamiliarStore) Delete(_ context.Context, userID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.familiars, userID)
	return nil
}
