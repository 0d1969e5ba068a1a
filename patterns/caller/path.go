package caller

import (
	"reflect"
	"sync/atomic"
)

// Path is a single subscription of a handler to a [Key] within a [Call].
type Path struct {
	call     *Call
	key      Key
	typ      reflect.Type
	invoke   func(p Payload) bool
	handle   *Handle
	enabled  atomic.Bool
	disposed atomic.Bool
}

func newPath(call *Call, key Key, typ reflect.Type, invoke func(p Payload) bool) *Path {
	p := &Path{
		call:   call,
		key:    key,
		typ:    typ,
		invoke: invoke,
	}
	p.enabled.Store(true)
	return p
}

// Key returns the event key this Path responds to.
func (p *Path) Key() Key {
	return p.key
}

// Type returns the declared parameter type, or nil if the handler takes no parameter.
func (p *Path) Type() reflect.Type {
	return p.typ
}

// Enabled reports whether the Path will respond to events.
// A Path created by [Call.Bind] also requires its [Handle] to be enabled.
func (p *Path) Enabled() bool {
	return p.enabled.Load()
}

// SetEnabled turns the Path's response to events on or off without removing it from its Call.
func (p *Path) SetEnabled(enabled bool) {
	p.enabled.Store(enabled)
}

// Disposed reports whether the Path has been removed from its Call.
func (p *Path) Disposed() bool {
	return p.disposed.Load()
}

// Dispose removes the Path from its Call.
// Calling Dispose more than once does nothing.
func (p *Path) Dispose() {
	if p.disposed.Swap(true) {
		return
	}
	if p.call != nil {
		p.call.paths.Remove(p)
	}
}

func (p *Path) try(key Key, payload Payload) bool {
	if p.disposed.Load() || !p.enabled.Load() || p.key != key {
		return false
	}
	if p.handle != nil && !p.handle.Enabled() {
		return false
	}
	return p.invoke(payload)
}

func invokeNoParam(fn func() bool) func(Payload) bool {
	return func(p Payload) bool {
		if p.present {
			return false
		}
		return fn()
	}
}

func invokeParam[P any](fn func(P) bool) func(Payload) bool {
	return func(p Payload) bool {
		v, ok := As[P](p)
		if !ok {
			return false
		}
		return fn(v)
	}
}
