// Package contextx links contexts together so that cancellation from any of them is observed by one.
package contextx

import (
	"context"
	"errors"
	"sync"
	"time"
)

type jointContext struct {
	a, b      context.Context
	done      chan struct{}
	doClose   func()
	doMonitor func()
}

func (c *jointContext) Done() <-chan struct{} {
	select {
	// In these cases, the done channel can be closed without monitoring.
	case <-c.a.Done():
		c.doClose()
	case <-c.b.Done():
		c.doClose()
	default:
		// The monitor goroutine is only started if needed.
		c.doMonitor()
	}
	return c.done
}

// Deadline returns the closest deadline reported from either [context.Context].
func (c *jointContext) Deadline() (time.Time, bool) {
	atime, aok := c.a.Deadline()
	btime, bok := c.b.Deadline()
	if !aok {
		return btime, bok
	}
	if !bok {
		return atime, aok
	}
	if btime.Before(atime) {
		return btime, true
	}
	return atime, true
}

// Err uses [errors.Join] which will return both errors, the non-nil error, or nil.
func (c *jointContext) Err() error {
	return errors.Join(c.a.Err(), c.b.Err())
}

// Value prefers the first context's value, falling back to the second.
func (c *jointContext) Value(key any) any {
	if val := c.a.Value(key); val != nil {
		return val
	}
	return c.b.Value(key)
}

// Join will associate two or more [context.Context] together, such that cancellation, deadlines, and errors are reported together.
//
// If both input [context.Context] have a Deadline, then the one closest to the current time will be reported.
// When checking if the joined [context.Context] has been cancelled, if either is done at the time of check, then the joined context is cancelled.
// If neither has been cancelled, then a goroutine is created to monitor when either [context.Context] is cancelled, cancelling the joint context.
// Values are looked up in argument order.
//
// If any [context.Context] is nil, then [Join] will panic.
func Join(a, b context.Context, others ...context.Context) context.Context {
	if a == nil || b == nil {
		panic("nil context")
	}
	doneCh := make(chan struct{})
	joint := &jointContext{
		a:    a,
		b:    b,
		done: doneCh,
		doClose: sync.OnceFunc(func() {
			close(doneCh)
		}),
	}
	joint.doMonitor = sync.OnceFunc(func() {
		go func() {
			select {
			case <-joint.a.Done():
			case <-joint.b.Done():
			}
			joint.doClose()
		}()
	})
	if len(others) > 0 {
		return Join(joint, others[0], others[1:]...)
	}
	return joint
}

// IsDone checks whether ctx has been cancelled without blocking.
// A nil context is never done.
func IsDone(ctx context.Context) bool {
	if ctx == nil {
		return false
	}
	select {
	case <-ctx.Done():
		return true
	default:
		return false
	}
}
