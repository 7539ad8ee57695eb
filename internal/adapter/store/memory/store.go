package memory

import (
	"sync"
	"time"

	"famiverse/internal/domain/familiar"
)

// Store is the in-memory record store used by tests and local development.
// The clock is injectable so TTL behavior is testable.
type Store struct {
	mu        sync.RWMutex
	familiars map[string]familiar.Familiar
	archives  map[string]familiar.Familiar
	cooldowns map[string]time.Time
	sessions  map[string]sessionEntry

	Now func() time.Time
}

type sessionEntry struct {
	session   familiar.ChoiceSession
	expiresAt time.Time
}

func NewStore() *Store {
	return &Store{
		familiars: make(map[string]familiar.Familiar),
		archives:  make(map[string]familiar.Familiar),
		cooldowns: make(map[string]time.Time),
		sessions:  make(map[string]sessionEntry),
	}
}

func (s *Store) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func cooldownKey(userID string, action familiar.CareAction) string {
	return userID + "::" + string(action)
}

// SeedFamiliar installs a familiar directly, bypassing creation rules.
func (s *Store) SeedFamiliar(f familiar.Familiar) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.familiars[f.UserID] = f
}

// Archived returns the archived copy for assertions.
func (s *Store) Archived(userID string) (familiar.Familiar, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.archives[userID]
	return f, ok
}
