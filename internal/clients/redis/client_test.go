package redis

import (
	"context"
	"os"
	"testing"
	"time"

	"outreach-server/internal/config"
	"outreach-server/internal/observability"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// setupTestClient connects to REDIS_TEST_ADDR and skips the test when it is unset.
func setupTestClient(t *testing.T) *Client {
	t.Helper()
	addr := os.Getenv("REDIS_TEST_ADDR")
	if addr == "" {
		t.Skip("REDIS_TEST_ADDR not set, skipping redis integration test")
	}
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	require.NoError(t, rdb.Ping(context.Background()).Err())
	t.Cleanup(func() { _ = rdb.Close() })
	return NewFromClient(rdb, observability.NewNopLogger())
}

func TestNewClient_Disabled(t *testing.T) {
	t.Parallel()

	c, err := NewClient(config.RedisConfig{Enabled: false}, observability.NewNopLogger())
	require.NoError(t, err)
	assert.Nil(t, c)
	assert.False(t, c.IsEnabled())
	assert.NoError(t, c.Close())

	_, err = c.AcquireLease(context.Background(), "k", time.Second)
	assert.Error(t, err)
}

func TestLease_Lifecycle(t *testing.T) {
	c := setupTestClient(t)
	ctx := context.Background()
	key := "test:lease:" + uuid.NewString()
	t.Cleanup(func() { _ = c.Del(ctx, key) })

	token, err := c.AcquireLease(ctx, key, time.Minute)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	_, err = c.AcquireLease(ctx, key, time.Minute)
	assert.ErrorIs(t, err, ErrLeaseHeld)

	assert.ErrorIs(t, c.ReleaseLease(ctx, key, "someone-else"), ErrLeaseLost)
	assert.ErrorIs(t, c.RenewLease(ctx, key, "someone-else", time.Minute), ErrLeaseLost)
	require.NoError(t, c.RenewLease(ctx, key, token, 2*time.Minute))

	require.NoError(t, c.ReleaseLease(ctx, key, token))
	n, err := c.Exists(ctx, key)
	require.NoError(t, err)
	assert.Zero(t, n)

	_, err = c.AcquireLease(ctx, key, time.Minute)
	assert.NoError(t, err)
}

func TestLease_Expires(t *testing.T) {
	c := setupTestClient(t)
	ctx := context.Background()
	key := "test:lease:" + uuid.NewString()
	t.Cleanup(func() { _ = c.Del(ctx, key) })

	token, err := c.AcquireLease(ctx, key, 50*time.Millisecond)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		n, err := c.Exists(ctx, key)
		return err == nil && n == 0
	}, 2*time.Second, 20*time.Millisecond)

	assert.ErrorIs(t, c.ReleaseLease(ctx, key, token), ErrLeaseLost)
}
