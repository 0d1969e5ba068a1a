package syncx

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrLockTimeout is returned from [CategoryLock.Lock] when the configured wait limit elapses.
var ErrLockTimeout = errors.New("timed out waiting for lock")

// CategoryLock is a set of mutually exclusive locks keyed by category.
// Two holders of the same category never overlap, while different categories are independent.
//
// Unlike a [sync.Mutex], waiting for a category can be abandoned through a context.
// The lock is not reentrant: locking a category that the same call chain already holds waits until the context is done.
type CategoryLock[C comparable] struct {
	mux     sync.Mutex
	slots   map[C]chan struct{}
	timeout time.Duration
}

// NewCategoryLock creates a [CategoryLock].
// A positive timeout bounds how long [CategoryLock.Lock] waits, in addition to the context passed to it.
func NewCategoryLock[C comparable](timeout time.Duration) *CategoryLock[C] {
	return &CategoryLock[C]{
		slots:   map[C]chan struct{}{},
		timeout: timeout,
	}
}

func (l *CategoryLock[C]) slot(category C) chan struct{} {
	return LockFuncT(&l.mux, func() chan struct{} {
		slot, ok := l.slots[category]
		if !ok {
			slot = make(chan struct{}, 1)
			l.slots[category] = slot
		}
		return slot
	})
}

// Lock acquires the category, returning a function that releases it.
// The release function is safe to call more than once.
func (l *CategoryLock[C]) Lock(ctx context.Context, category C) (func(), error) {
	slot := l.slot(category)
	select {
	case slot <- struct{}{}:
		return sync.OnceFunc(func() { <-slot }), nil
	default:
	}
	var timeout <-chan time.Time
	if l.timeout > 0 {
		timer := time.NewTimer(l.timeout)
		defer timer.Stop()
		timeout = timer.C
	}
	select {
	case slot <- struct{}{}:
		return sync.OnceFunc(func() { <-slot }), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-timeout:
		return nil, fmt.Errorf("%w %v after %s", ErrLockTimeout, category, l.timeout)
	}
}

// Held reports whether the category is currently locked.
func (l *CategoryLock[C]) Held(category C) bool {
	return len(l.slot(category)) > 0
}
