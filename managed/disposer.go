package managed

import (
	"context"
	"sync"
)

// Disposable is a resource that is released synchronously.
// Implementations should be comparable (usually a pointer) so they can be found again with [Holder.Unmanage].
type Disposable interface {
	Dispose() error
}

// AsyncDisposable is a resource whose release may take a while.
// Release of all AsyncDisposable resources in a [Holder] happens concurrently.
type AsyncDisposable interface {
	DisposeAsync(ctx context.Context) error
}

// HostDisposer destroys an opaque resource handle owned by the host application, like a native window or a scene object.
type HostDisposer interface {
	Destroy(handle any) error
}

// HostDisposerFunc is a function implementing [HostDisposer].
type HostDisposerFunc func(handle any) error

func (f HostDisposerFunc) Destroy(handle any) error {
	return f(handle)
}

var _ Disposable = (*actionDisposer)(nil)

type actionDisposer struct {
	once   sync.Once
	action func()
}

// Action creates a [Disposable] that calls action once when disposed.
func Action(action func()) Disposable {
	return &actionDisposer{action: action}
}

func (d *actionDisposer) Dispose() error {
	d.once.Do(func() {
		if d.action != nil {
			d.action()
		}
		d.action = nil
	})
	return nil
}

var _ Disposable = (*handleDisposer)(nil)

type handleDisposer struct {
	once     sync.Once
	handle   any
	disposer HostDisposer
	err      error
}

// Handle creates a [Disposable] that destroys the host resource handle with disposer exactly once.
func Handle(handle any, disposer HostDisposer) Disposable {
	return &handleDisposer{handle: handle, disposer: disposer}
}

func (d *handleDisposer) Dispose() error {
	d.once.Do(func() {
		if d.handle == nil || d.disposer == nil {
			return
		}
		d.err = d.disposer.Destroy(d.handle)
		d.handle = nil
	})
	return d.err
}

// Handle returns the host resource handle, or nil once it's been destroyed.
func (d *handleDisposer) Handle() any {
	return d.handle
}
