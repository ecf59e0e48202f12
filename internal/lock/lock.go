// Package lock provides per-key write exclusion for store mutations. Locks are
// try-locks: a held key fails fast with ErrLocked instead of waiting.
package lock

import (
	"context"
	"errors"
	"sync"
)

// ErrLocked is returned when another writer holds the key.
var ErrLocked = errors.New("lock is held by another writer")

// Locker acquires exclusive ownership of a key. The returned func releases it and is
// safe to call more than once.
type Locker interface {
	TryLock(ctx context.Context, key string) (unlock func(), err error)
}

// Local is an in-process Locker.
type Local struct {
	mu   sync.Mutex
	held map[string]struct{}
}

// NewLocal creates an in-process Locker.
func NewLocal() *Local {
	return &Local{held: make(map[string]struct{})}
}

// TryLock implements Locker.
func (l *Local) TryLock(ctx context.Context, key string) (func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, busy := l.held[key]; busy {
		return nil, ErrLocked
	}
	l.held[key] = struct{}{}

	var once sync.Once
	return func() {
		once.Do(func() {
			l.mu.Lock()
			delete(l.held, key)
			l.mu.Unlock()
		})
	}, nil
}
