package memory

import (
	"context"
	"time"

	"famiverse/internal/app/ports"
	"famiverse/internal/domain/familiar"
)

type SessionStore struct {
	store *Store
}

func NewSessionStore(store *Store) SessionStore {
	return SessionStore{store: store}
}

func (r SessionStore) Put(_ context.Context, session familiar.ChoiceSession, ttl time.Duration) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	r.store.sessions[session.SessionID] = sessionEntry{
		session:   session,
		expiresAt: r.store.now().Add(ttl),
	}
	return nil
}

func (r SessionStore) Get(_ context.Context, sessionID string) (familiar.ChoiceSession, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	entry, ok := r.store.sessions[sessionID]
	if !ok || r.store.now().After(entry.expiresAt) {
		return familiar.ChoiceSession{}, ports.ErrNotFound
	}
	return entry.session, nil
}

func (r SessionStore) Delete(_ context.Context, sessionID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	delete(r.store.sessions, sessionID)
	return nil
}
