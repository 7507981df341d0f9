package session

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"lexcitas/models"

	"github.com/go-redis/redis/v8"
)

const sessionPrefix = "chatSession:"

// sessionTTL expires abandoned conversations.
const sessionTTL = 60 * time.Minute

// RedisStore keeps sessions as JSON blobs with a TTL. Per-user locks are
// in-process: the service runs as a single instance per user population.
type RedisStore struct {
	client *redis.Client
	locks  *keyedMutex
}

// NewRedisStore builds a Store backed by the given Redis client.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, locks: newKeyedMutex()}
}

// Get retrieves the session for a user id.
func (s *RedisStore) Get(ctx context.Context, userID string) (*models.Session, error) {
	data, err := s.client.Get(ctx, sessionPrefix+userID).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch session for %s: %w", userID, err)
	}

	var session models.Session
	if err := json.Unmarshal([]byte(data), &session); err != nil {
		return nil, fmt.Errorf("failed to unmarshal session for %s: %w", userID, err)
	}
	return &session, nil
}

// Put saves a session with the store TTL.
func (s *RedisStore) Put(ctx context.Context, session *models.Session) error {
	session.LastUpdatedAt = time.Now()
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := s.client.Set(ctx, sessionPrefix+session.UserID, data, sessionTTL).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Delete removes a session.
func (s *RedisStore) Delete(ctx context.Context, userID string) error {
	return s.client.Del(ctx, sessionPrefix+userID).Err()
}

// Lock acquires the per-user mutex.
func (s *RedisStore) Lock(userID string) func() {
	return s.locks.lock(userID)
}
