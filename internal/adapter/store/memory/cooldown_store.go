package memory

import (
	"context"
	"time"

	"famiverse/internal/domain/familiar"
)

type CooldownStore struct {
	store *Store
}

func NewCooldownStore(store *Store) CooldownStore {
	return CooldownStore{store: store}
}

func (r CooldownStore) Arm(_ context.Context, userID string, action familiar.CareAction, d time.Duration) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.cooldowns[cooldownKey(userID, action)] = r.store.now().Add(d)
	return nil
}

func (r CooldownStore) Remaining(_ context.Context, userID string, action familiar.CareAction) (time.Duration, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	expiry, ok := r.store.cooldowns[cooldownKey(userID, action)]
	if !ok {
		return 0, nil
	}
	remaining := expiry.Sub(r.store.now())
	if remaining <= 0 {
		return 0, nil
	}
	return remaining, nil
}
