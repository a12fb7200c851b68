package repositories

import (
	"context"
	"time"
)

// EntryLocker guards a journal entry against concurrent posting across processes.
type EntryLocker interface {
	// Acquire takes the lock for entryID for at most ttl. It returns apperrors.ErrConcurrencyConflict
	// when another holder has it. The returned release func is safe to call once.
	Acquire(ctx context.Context, entryID string, ttl time.Duration) (release func(context.Context) error, err error)
}
