// Package cache holds Redis-backed helpers shared by every API process.
package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/SscSPs/bookkeeping_app/internal/apperrors"
	portsrepo "github.com/SscSPs/bookkeeping_app/internal/core/ports/repositories"
	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
)

const entryLockPrefix = "books:lock:entry:"

// releaseScript deletes the key only while it still holds the caller's token, so an expired lock
// that another process re-acquired is left alone.
const releaseScript = `
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
else
	return 0
end`

// RedisEntryLocker serialises posting of the same journal entry across API processes.
type RedisEntryLocker struct {
	client   redis.Cmdable
	newToken func() string
}

var _ portsrepo.EntryLocker = (*RedisEntryLocker)(nil)

// NewRedisEntryLocker creates a locker on top of an existing client.
func NewRedisEntryLocker(client redis.Cmdable) *RedisEntryLocker {
	return &RedisEntryLocker{
		client:   client,
		newToken: func() string { return uuid.NewString() },
	}
}

// EntryLockKey returns the Redis key guarding entryID.
func EntryLockKey(entryID string) string {
	return entryLockPrefix + entryID
}

// Acquire implements portsrepo.EntryLocker.
func (l *RedisEntryLocker) Acquire(ctx context.Context, entryID string, ttl time.Duration) (func(context.Context) error, error) {
	key := EntryLockKey(entryID)
	token := l.newToken()

	ok, err := l.client.SetNX(ctx, key, token, ttl).Result()
	if err != nil {
		return nil, apperrors.NewStorageError(fmt.Sprintf("failed to acquire posting lock for entry %s", entryID), err)
	}
	if !ok {
		return nil, apperrors.NewAppError(apperrors.KindConcurrencyConflict,
			fmt.Sprintf("journal entry %s is being posted by another request", entryID), nil)
	}

	released := false
	return func(ctx context.Context) error {
		if released {
			return nil
		}
		released = true
		if err := l.client.Eval(ctx, releaseScript, []string{key}, token).Err(); err != nil && err != redis.Nil {
			return fmt.Errorf("failed to release posting lock for entry %s: %w", entryID, err)
		}
		return nil
	}, nil
}

// NoopEntryLocker is used when no Redis server is configured. Database locks still apply.
type NoopEntryLocker struct{}

var _ portsrepo.EntryLocker = NoopEntryLocker{}

// Acquire always succeeds.
func (NoopEntryLocker) Acquire(context.Context, string, time.Duration) (func(context.Context) error, error) {
	return func(context.Context) error { return nil }, nil
}
