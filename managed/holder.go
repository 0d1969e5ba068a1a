package managed

import (
	"context"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/saylorsolutions/contents/contextx"
	"github.com/saylorsolutions/contents/errorsx"
	"github.com/saylorsolutions/contents/slogx"
	"github.com/saylorsolutions/contents/syncx"
	"golang.org/x/sync/errgroup"
)

// Holder manages the resources owned by one lifecycle unit.
type Holder struct {
	mux         sync.Mutex
	released    bool
	disposables []Disposable
	async       []AsyncDisposable

	ctx         context.Context
	cancel      context.CancelFunc
	concurrency int
	log         *slog.Logger
}

// Option configures a [Holder].
type Option func(h *Holder)

// WithConcurrency limits how many [AsyncDisposable] resources are released at the same time.
// A limit <= 0 means no limit.
func WithConcurrency(limit int) Option {
	return func(h *Holder) {
		h.concurrency = limit
	}
}

// WithLogger sets the logger used to report failures that can't be returned to a caller.
func WithLogger(log *slog.Logger) Option {
	return func(h *Holder) {
		if log != nil {
			h.log = log
		}
	}
}

// NewHolder creates a [Holder] whose cancellation signal is derived from parent.
// Cancelling parent cancels the Holder's signal too, but doesn't release its resources.
func NewHolder(parent context.Context, opts ...Option) *Holder {
	if parent == nil {
		parent = context.Background()
	}
	ctx, cancel := context.WithCancel(parent)
	h := &Holder{
		ctx:    ctx,
		cancel: cancel,
		log:    slog.Default(),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Context returns the Holder's cancellation signal.
// It's cancelled when the Holder is released, or when the parent context is cancelled.
func (h *Holder) Context() context.Context {
	return h.ctx
}

// Released reports whether [Holder.Release] has been called.
func (h *Holder) Released() bool {
	return syncx.LockFuncT(&h.mux, func() bool {
		return h.released
	})
}

// Manage takes ownership of d, releasing it with the Holder.
// If the Holder has already been released, then d is disposed immediately.
func (h *Holder) Manage(d Disposable) Disposable {
	if d == nil {
		return nil
	}
	held := syncx.LockFuncT(&h.mux, func() bool {
		if h.released {
			return false
		}
		h.disposables = append(h.disposables, d)
		return true
	})
	if !held {
		h.report("late dispose", errorsx.Call("dispose", d.Dispose))
	}
	return d
}

// ManageFunc registers an action to be called when the Holder is released.
// The returned [Disposable] may be passed to [Holder.Unmanage] to run the action early.
func (h *Holder) ManageFunc(action func()) Disposable {
	return h.Manage(Action(action))
}

// ManageHandle registers a host resource handle to be destroyed exactly once with disposer.
func (h *Holder) ManageHandle(handle any, disposer HostDisposer) Disposable {
	return h.Manage(Handle(handle, disposer))
}

// ManageCancel arranges for cancel to be called when the Holder's signal is cancelled.
// This is how a separately created cancellable context is tied to the Holder's lifetime.
func (h *Holder) ManageCancel(cancel context.CancelFunc) {
	if cancel == nil {
		return
	}
	context.AfterFunc(h.ctx, cancel)
}

// ManageAsync takes ownership of d, releasing it concurrently with other [AsyncDisposable] resources.
// If the Holder has already been released, then d is disposed immediately.
func (h *Holder) ManageAsync(d AsyncDisposable) AsyncDisposable {
	if d == nil {
		return nil
	}
	held := syncx.LockFuncT(&h.mux, func() bool {
		if h.released {
			return false
		}
		h.async = append(h.async, d)
		return true
	})
	if !held {
		h.report("late async dispose", errorsx.Call("dispose async", func() error {
			return d.DisposeAsync(context.Background())
		}))
	}
	return d
}

// Unmanage releases ownership of d, disposing it if dispose is true.
// This does nothing after the Holder has been released.
func (h *Holder) Unmanage(d Disposable, dispose bool) error {
	found := syncx.LockFuncT(&h.mux, func() bool {
		if h.released {
			return false
		}
		i := slices.Index(h.disposables, d)
		if i < 0 {
			return false
		}
		h.disposables = slices.Delete(h.disposables, i, i+1)
		return true
	})
	if !found || !dispose {
		return nil
	}
	return errorsx.Call("dispose", d.Dispose)
}

// UnmanageAsync releases ownership of d, disposing it if dispose is true.
// This does nothing after the Holder has been released.
func (h *Holder) UnmanageAsync(ctx context.Context, d AsyncDisposable, dispose bool) error {
	found := syncx.LockFuncT(&h.mux, func() bool {
		if h.released {
			return false
		}
		i := slices.Index(h.async, d)
		if i < 0 {
			return false
		}
		h.async = slices.Delete(h.async, i, i+1)
		return true
	})
	if !found || !dispose {
		return nil
	}
	return errorsx.Call("dispose async", func() error {
		return d.DisposeAsync(ctx)
	})
}

// Link returns a context that is done when either ctx or the Holder's signal is done.
// Values are looked up in ctx first.
// A nil ctx returns the Holder's signal.
func (h *Holder) Link(ctx context.Context) context.Context {
	if ctx == nil {
		return h.ctx
	}
	return contextx.Join(ctx, h.ctx)
}

// Release disposes every managed resource and cancels the Holder's signal.
//
// Synchronous resources are disposed first in registration order, continuing past failures.
// Then asynchronous resources are disposed concurrently, waiting for all of them.
// The signal is cancelled last.
//
// Every failure is collected, and the returned error is an [*errorsx.Collector] whose First method reports the earliest failure.
// Only the first call to Release does anything, and later calls return nil.
func (h *Holder) Release(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	var (
		disposables []Disposable
		async       []AsyncDisposable
		first       bool
	)
	syncx.LockFunc(&h.mux, func() {
		if h.released {
			return
		}
		first = true
		h.released = true
		disposables, h.disposables = h.disposables, nil
		async, h.async = h.async, nil
	})
	if !first {
		return nil
	}
	errs := errorsx.CollectErrors()
	for i, d := range disposables {
		errs.Add(errorsx.Call(fmt.Sprintf("dispose #%d", i), d.Dispose))
	}
	if len(async) > 0 {
		var group errgroup.Group
		if h.concurrency > 0 {
			group.SetLimit(h.concurrency)
		}
		for i, d := range async {
			group.Go(func() error {
				err := errorsx.Call(fmt.Sprintf("dispose async #%d", i), func() error {
					return d.DisposeAsync(ctx)
				})
				errs.Add(err)
				return err
			})
		}
		// Every error is already in the collector.
		_ = group.Wait()
	}
	h.cancel()
	slogx.Trace(h.log, "Released managed resources", "sync", len(disposables), "async", len(async), "errors", errs.Len())
	return errs.Result()
}

func (h *Holder) report(msg string, err error) {
	if err == nil {
		return
	}
	h.log.Warn("Failed to release resource after holder release", "op", msg, "error", err)
}

// Find returns every managed resource that is a T, synchronous resources first.
func Find[T any](h *Holder) []T {
	return syncx.LockFuncT(&h.mux, func() []T {
		var found []T
		for _, d := range h.disposables {
			if v, ok := d.(T); ok {
				found = append(found, v)
			}
		}
		for _, d := range h.async {
			if v, ok := d.(T); ok {
				found = append(found, v)
			}
		}
		return found
	})
}

// Go runs fn in a new goroutine with the Holder's signal, resolving the returned future with its result.
// A panic in fn is recovered and resolved as an [*errorsx.PanicError].
func Go[T any](h *Holder, fn func(ctx context.Context) (T, error)) syncx.FutureErr[T] {
	future := syncx.NewFutureErr[T]()
	go func() {
		var val T
		err := errorsx.Call("go", func() error {
			var err error
			val, err = fn(h.ctx)
			return err
		})
		future.ResolveErr(val, err)
	}()
	return future
}
