package session

import (
	"context"
	"sync"

	"lexcitas/models"
)

// Store abstracts per-user conversation session persistence. Sessions are
// exclusively mutated by the conversation engine; the store only
// serializes and guards them.
type Store interface {
	// Get retrieves the session for a user id. Returns nil when absent.
	Get(ctx context.Context, userID string) (*models.Session, error)
	// Put saves a session.
	Put(ctx context.Context, session *models.Session) error
	// Delete removes a session.
	Delete(ctx context.Context, userID string) error
	// Lock acquires the per-user mutex and returns its release func.
	// Turns for the same user are strictly serialized; different users
	// proceed concurrently.
	Lock(userID string) func()
}

// keyedMutex hands out one mutex per key.
type keyedMutex struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newKeyedMutex() *keyedMutex {
	return &keyedMutex{locks: make(map[string]*sync.Mutex)}
}

func (k *keyedMutex) lock(key string) func() {
	k.mu.Lock()
	m, ok := k.locks[key]
	if !ok {
		m = &sync.Mutex{}
		k.locks[key] = m
	}
	k.mu.Unlock()

	m.Lock()
	return m.Unlock
}
