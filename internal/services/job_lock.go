package services

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// JobLock keeps a scheduled job from running on two instances at once.
type JobLock interface {
	// TryLock returns ok == false when another holder owns name. release
	// is only valid when ok is true.
	TryLock(ctx context.Context, name string, ttl time.Duration) (release func(), ok bool, err error)
}

// releaseScript deletes the lock only if it still carries our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type RedisJobLock struct {
	client *redis.Client
	prefix string
}

func NewRedisJobLock(client *redis.Client) *RedisJobLock {
	return &RedisJobLock{client: client, prefix: "joblock:"}
}

func (l *RedisJobLock) TryLock(ctx context.Context, name string, ttl time.Duration) (func(), bool, error) {
	key := l.prefix + name
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil || !ok {
		return nil, false, err
	}
	release := func() {
		// The job's context may already be done; release on a fresh one.
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = releaseScript.Run(ctx, l.client, []string{key}, token).Err()
	}
	return release, true, nil
}

// LocalJobLock serializes runs within one process. It is used when no
// Redis is configured.
type LocalJobLock struct {
	held chan struct{}
}

func NewLocalJobLock() *LocalJobLock {
	return &LocalJobLock{held: make(chan struct{}, 1)}
}

func (l *LocalJobLock) TryLock(context.Context, string, time.Duration) (func(), bool, error) {
	select {
	case l.held <- struct{}{}:
		return func() { <-l.held }, true, nil
	default:
		return nil, false, nil
	}
}
