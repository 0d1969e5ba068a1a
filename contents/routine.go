package contents

import (
	"context"
	"errors"

	"github.com/saylorsolutions/contents/errorsx"
	"github.com/saylorsolutions/contents/managed"
	"github.com/saylorsolutions/contents/syncx"
)

// Go runs fn in its own goroutine with the unit's cancellation signal, which is cancelled when the unit shuts down.
// Failures are offered to the unit's handler chain and resolved in the returned future.
// Cancellation caused by shutdown isn't treated as a failure.
//
// Event handlers that need to start a transition, like a Switch, should use Go so that event delivery isn't blocked.
// A routine that shuts down its own unit should detach from the signal with [context.WithoutCancel] first.
func (b *Base) Go(fn func(ctx context.Context) error) syncx.FutureErr[struct{}] {
	return managed.Go(b.managed, func(ctx context.Context) (struct{}, error) {
		err := errorsx.Call("routine", func() error {
			return fn(ctx)
		})
		if err == nil {
			return struct{}{}, nil
		}
		if ctx.Err() != nil && errors.Is(err, context.Canceled) {
			return struct{}{}, err
		}
		return struct{}{}, b.throw(errorsx.Handler("routine", b.String(), err))
	})
}
