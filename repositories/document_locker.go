package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"docvault/config"
	"docvault/logger"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrLockNotAcquired = errors.New("document lock not acquired")

// releaseScript deletes the lock key only when it still holds our token, so
// a lease that expired and was re-acquired by another writer is never
// released by the original holder.
const releaseScript = `if redis.call("get", KEYS[1]) == ARGV[1] then return redis.call("del", KEYS[1]) else return 0 end`

type RedisDocumentLocker struct {
	client *redis.Client
	ttl    time.Duration
	wait   time.Duration
	retry  time.Duration
}

func NewRedisDocumentLocker(client *redis.Client, cfg *config.RedisConfig) *RedisDocumentLocker {
	return &RedisDocumentLocker{
		client: client,
		ttl:    time.Duration(cfg.LockTTLMs) * time.Millisecond,
		wait:   time.Duration(cfg.LockWaitMs) * time.Millisecond,
		retry:  time.Duration(cfg.LockRetryMs) * time.Millisecond,
	}
}

func (l *RedisDocumentLocker) Acquire(ctx context.Context, documentID uint) (func(), error) {
	key := fmt.Sprintf("docvault:doclock:%d", documentID)
	token := uuid.NewString()
	deadline := time.Now().Add(l.wait)

	for {
		ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
		if err != nil {
			return nil, err
		}
		if ok {
			break
		}
		if time.Now().After(deadline) {
			return nil, ErrLockNotAcquired
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(l.retry):
		}
	}

	release := func() {
		// Detached context: the lease must be released even when the
		// request context is already cancelled.
		releaseCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := l.client.Eval(releaseCtx, releaseScript, []string{key}, token).Err(); err != nil {
			logger.Errorf("release document lock %s: %v", key, err)
		}
	}
	return release, nil
}
