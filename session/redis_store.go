package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"donutsmp/models"

	"github.com/redis/go-redis/v9"
)

const defaultRedisPrefix = "donutsmp:session"

type redisSession struct {
	UserID          int64     `json:"user_id"`
	DisplayName     string    `json:"display_name"`
	BalanceSnapshot int64     `json:"balance_snapshot"`
	CreatedAt       time.Time `json:"created_at"`
	ExpiresAt       time.Time `json:"expires_at"`
}

// RedisStore keeps sessions in Redis with a key TTL matching the session
// expiry. Keys are built from the token hash.
type RedisStore struct {
	client redis.UniversalClient
	prefix string
}

var _ Store = (*RedisStore)(nil)

// NewRedisStore creates a Redis-backed session store
func NewRedisStore(client redis.UniversalClient, prefix string) *RedisStore {
	prefix = strings.TrimSuffix(strings.TrimSpace(prefix), ":")
	if prefix == "" {
		prefix = defaultRedisPrefix
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) key(token string) string {
	return s.prefix + ":" + HashToken(token)
}

func (s *RedisStore) Save(ctx context.Context, sess *models.Session) error {
	ttl := time.Until(sess.ExpiresAt)
	if ttl <= 0 {
		return s.Delete(ctx, sess.Token)
	}

	payload, err := json.Marshal(redisSession{
		UserID:          sess.UserID,
		DisplayName:     sess.DisplayName,
		BalanceSnapshot: sess.BalanceSnapshot,
		CreatedAt:       sess.CreatedAt,
		ExpiresAt:       sess.ExpiresAt,
	})
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	if err := s.client.Set(ctx, s.key(sess.Token), payload, ttl).Err(); err != nil {
		return fmt.Errorf("failed to save session for user %d: %w", sess.UserID, err)
	}
	return nil
}

func (s *RedisStore) Get(ctx context.Context, token string) (*models.Session, error) {
	raw, err := s.client.Get(ctx, s.key(token)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session: %w", err)
	}

	var stored redisSession
	if err := json.Unmarshal(raw, &stored); err != nil {
		return nil, fmt.Errorf("failed to decode session: %w", err)
	}

	return &models.Session{
		Token:           token,
		UserID:          stored.UserID,
		DisplayName:     stored.DisplayName,
		BalanceSnapshot: stored.BalanceSnapshot,
		CreatedAt:       stored.CreatedAt,
		ExpiresAt:       stored.ExpiresAt,
	}, nil
}

func (s *RedisStore) Delete(ctx context.Context, token string) error {
	if err := s.client.Del(ctx, s.key(token)).Err(); err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// DeleteExpired is a no-op: Redis evicts sessions through key TTLs.
func (s *RedisStore) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	return 0, nil
}
