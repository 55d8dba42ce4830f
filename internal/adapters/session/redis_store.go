package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mishcolife/catalogadmin/internal/domain/entities"
	"github.com/mishcolife/catalogadmin/internal/domain/providers"
	redisclient "github.com/mishcolife/catalogadmin/internal/infrastructure/clients/redis"
)

// RedisStore keeps the operator session in Redis under a single key, with
// the key's TTL matching the token expiry
type RedisStore struct {
	client *redisclient.Client
	key    string
	now    func() time.Time
}

// NewRedisStore creates a Redis backed session store
func NewRedisStore(client *redisclient.Client, key string) providers.SessionStore {
	return &RedisStore{client: client, key: key, now: time.Now}
}

// Load retrieves the stored session
func (s *RedisStore) Load(ctx context.Context) (*entities.Session, error) {
	data, err := s.client.Client().Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load session: %w", err)
	}

	var sess entities.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}
	return &sess, nil
}

// Save stores the session until it expires
func (s *RedisStore) Save(ctx context.Context, sess *entities.Session) error {
	data, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	var ttl time.Duration
	if !sess.ExpiresAt.IsZero() {
		ttl = sess.ExpiresAt.Sub(s.now())
		if ttl <= 0 {
			return s.Clear(ctx)
		}
	}
	if err := s.client.Client().Set(ctx, s.key, data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session: %w", err)
	}
	return nil
}

// Clear removes the stored session
func (s *RedisStore) Clear(ctx context.Context) error {
	if err := s.client.Client().Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("failed to clear session: %w", err)
	}
	return nil
}
