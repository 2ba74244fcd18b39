package services_test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nkmr-lab/average-character-cloud-backend-sub000/internal/services"
)

func TestLocalJobLock(t *testing.T) {
	lock := services.NewLocalJobLock()
	ctx := context.Background()

	release, ok, err := lock.TryLock(ctx, "job", time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, err = lock.TryLock(ctx, "job", time.Minute)
	require.NoError(t, err)
	assert.False(t, ok)

	release()
	release2, ok, err := lock.TryLock(ctx, "job", time.Minute)
	require.NoError(t, err)
	assert.True(t, ok)
	release2()
}

func TestRedisJobLock(t *testing.T) {
	addr := os.Getenv("REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	client := redis.NewClient(&redis.Options{Addr: addr, DB: 15})
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("Redis not available for testing: %v", err)
	}
	defer client.Close()

	lock := services.NewRedisJobLock(client)
	name := "test-" + time.Now().Format(time.RFC3339Nano)

	release, ok, err := lock.TryLock(ctx, name, time.Minute)
	require.NoError(t, err)
	require.True(t, ok)

	_, ok, err = services.NewRedisJobLock(client).TryLock(ctx, name, time.Minute)
	require.NoError(t, err)
	assert.False(t, ok, "a second holder must be refused")

	release()
	exists, err := client.Exists(ctx, "joblock:"+name).Result()
	require.NoError(t, err)
	assert.Zero(t, exists)

	t.Run("expired lock can be taken over", func(t *testing.T) {
		_, ok, err := lock.TryLock(ctx, name+"-ttl", 50*time.Millisecond)
		require.NoError(t, err)
		require.True(t, ok)
		time.Sleep(100 * time.Millisecond)

		release, ok, err := lock.TryLock(ctx, name+"-ttl", time.Minute)
		require.NoError(t, err)
		assert.True(t, ok)
		release()
	})
}
