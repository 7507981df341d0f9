package session

import (
	"context"
	"sync"

	"lexcitas/models"
)

// MemoryStore is an in-process Store, used in tests and single-node
// deployments without Redis.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]models.Session
	locks    *keyedMutex
}

// NewMemoryStore builds an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]models.Session),
		locks:    newKeyedMutex(),
	}
}

// Get retrieves the session for a user id.
func (s *MemoryStore) Get(ctx context.Context, userID string) (*models.Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[userID]
	if !ok {
		return nil, nil
	}
	copied := session
	return &copied, nil
}

// Put saves a session.
func (s *MemoryStore) Put(ctx context.Context, session *models.Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[session.UserID] = *session
	return nil
}

// Delete removes a session.
func (s *MemoryStore) Delete(ctx context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, userID)
	return nil
}

// Lock acquires the per-user mutex.
func (s *MemoryStore) Lock(userID string) func() {
	return s.locks.lock(userID)
}
