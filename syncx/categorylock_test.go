package syncx

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testCategory int

const (
	testCatA testCategory = iota
	testCatB
)

func TestCategoryLock_SameCategoryExcludes(t *testing.T) {
	var (
		lock    = NewCategoryLock[testCategory](0)
		active  atomic.Int32
		overlap atomic.Bool
		wg      sync.WaitGroup
	)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock, err := lock.Lock(context.Background(), testCatA)
			if !assert.NoError(t, err) {
				return
			}
			defer unlock()
			if active.Add(1) > 1 {
				overlap.Store(true)
			}
			time.Sleep(5 * time.Millisecond)
			active.Add(-1)
		}()
	}
	wg.Wait()
	assert.False(t, overlap.Load(), "Holders of the same category should never overlap")
}

func TestCategoryLock_DifferentCategories(t *testing.T) {
	lock := NewCategoryLock[testCategory](0)
	unlockA, err := lock.Lock(context.Background(), testCatA)
	require.NoError(t, err)
	defer unlockA()

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	unlockB, err := lock.Lock(ctx, testCatB)
	require.NoError(t, err, "A different category should not wait")
	assert.True(t, lock.Held(testCatB))
	unlockB()
	unlockB()
	assert.False(t, lock.Held(testCatB), "Calling release twice should be harmless")
}

func TestCategoryLock_ContextAndTimeout(t *testing.T) {
	lock := NewCategoryLock[testCategory](0)
	unlock, err := lock.Lock(context.Background(), testCatA)
	require.NoError(t, err)
	defer unlock()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = lock.Lock(ctx, testCatA)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	bounded := NewCategoryLock[testCategory](20 * time.Millisecond)
	unlock2, err := bounded.Lock(context.Background(), testCatA)
	require.NoError(t, err)
	defer unlock2()
	_, err = bounded.Lock(context.Background(), testCatA)
	assert.ErrorIs(t, err, ErrLockTimeout)
}
