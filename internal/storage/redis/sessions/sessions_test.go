package sessions

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*miniredis.Miniredis, *SessionStorage) {
	mr := miniredis.RunT(t)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return mr, New(client)
}

func TestRevoke(t *testing.T) {
	mr, s := setupTestRedis(t)
	ctx := context.Background()

	revoked, err := s.Revoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, s.Revoke(ctx, "jti-1", time.Minute))

	revoked, err = s.Revoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = s.Revoked(ctx, "jti-2")
	require.NoError(t, err)
	assert.False(t, revoked)

	mr.FastForward(2 * time.Minute)

	revoked, err = s.Revoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.False(t, revoked)
}

func TestRevoke_ExpiredToken(t *testing.T) {
	mr, s := setupTestRedis(t)

	require.NoError(t, s.Revoke(context.Background(), "jti-old", -time.Second))

	assert.False(t, mr.Exists(keyPrefix+"jti-old"))
}

func TestRevoked_ConnectionError(t *testing.T) {
	mr, s := setupTestRedis(t)
	mr.Close()

	_, err := s.Revoked(context.Background(), "jti-1")

	assert.Error(t, err)
}
