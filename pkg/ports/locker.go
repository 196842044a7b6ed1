package ports

import (
	"context"
	"time"
)

// UnlockFunc is a function that releases a lock.
type UnlockFunc func(ctx context.Context) error

// DistributedLocker defines the interface for cross-request concurrency control.
// adbpilot uses it to serialize plans against the same device when several requests (or
// several server replicas) drive one phone.
type DistributedLocker interface {
	// Lock attempts to acquire a lock for the given key (e.g., device serial).
	// It blocks until the lock is acquired, the context is canceled, or the TTL expires (implementation specific).
	// Returns an UnlockFunc that MUST be called to release the lock.
	Lock(ctx context.Context, key string, ttl time.Duration) (UnlockFunc, error)
}
