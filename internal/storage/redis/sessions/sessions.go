package sessions

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

const keyPrefix = "revoked:"

// SessionStorage keeps revoked token ids until the token would expire anyway.
type SessionStorage struct {
	client *redis.Client
}

func New(client *redis.Client) *SessionStorage {
	return &SessionStorage{client: client}
}

func (s *SessionStorage) Revoke(ctx context.Context, tokenID string, ttl time.Duration) error {
	const op = "storage.redis.sessions.Revoke"

	if ttl <= 0 {
		return nil
	}

	if err := s.client.Set(ctx, keyPrefix+tokenID, 1, ttl).Err(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	return nil
}

func (s *SessionStorage) Revoked(ctx context.Context, tokenID string) (bool, error) {
	const op = "storage.redis.sessions.Revoked"

	err := s.client.Get(ctx, keyPrefix+tokenID).Err()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}

	return true, nil
}
