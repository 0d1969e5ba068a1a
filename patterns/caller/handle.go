package caller

import (
	"sync"
	"sync/atomic"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/saylorsolutions/contents/syncx"
)

// Handle groups the paths created by one [Call.Bind], so they may be enabled, disabled, or disposed together.
type Handle struct {
	mux      sync.RWMutex
	target   any
	paths    []*Path
	enabled  atomic.Bool
	disposed atomic.Bool
}

func newHandle(target any) *Handle {
	h := &Handle{target: target}
	h.enabled.Store(true)
	return h
}

func (h *Handle) add(p *Path) {
	p.handle = h
	syncx.LockFunc(&h.mux, func() {
		h.paths = append(h.paths, p)
	})
}

// Target returns the bound value.
func (h *Handle) Target() any {
	return h.target
}

// Enabled reports whether the handle's paths respond to events.
func (h *Handle) Enabled() bool {
	return h.enabled.Load()
}

// SetEnabledAll enables or disables every path of the handle at once, without changing each path's own enabled state.
func (h *Handle) SetEnabledAll(enabled bool) {
	h.enabled.Store(enabled)
}

// SetEnabled enables or disables the handle's paths for a single key.
func (h *Handle) SetEnabled(key any, enabled bool) {
	h.SetEnabledKeys(enabled, key)
}

// SetEnabledKeys enables or disables the handle's paths for every given key.
func (h *Handle) SetEnabledKeys(enabled bool, keys ...any) {
	if len(keys) == 0 {
		return
	}
	filter := mapset.NewThreadUnsafeSet[Key]()
	for _, k := range keys {
		filter.Add(KeyOf(k))
	}
	syncx.RLockFunc(&h.mux, func() {
		for _, p := range h.paths {
			if filter.Contains(p.key) {
				p.SetEnabled(enabled)
			}
		}
	})
}

// Keys returns the set of keys the handle responds to.
func (h *Handle) Keys() mapset.Set[Key] {
	return syncx.RLockFuncT(&h.mux, func() mapset.Set[Key] {
		keys := mapset.NewThreadUnsafeSetWithSize[Key](len(h.paths))
		for _, p := range h.paths {
			keys.Add(p.key)
		}
		return keys
	})
}

// Paths returns the paths created for the handle, in declaration order.
func (h *Handle) Paths() []*Path {
	return syncx.RLockFuncT(&h.mux, func() []*Path {
		return append([]*Path(nil), h.paths...)
	})
}

// Dispose disposes every path of the handle.
// Calling Dispose more than once does nothing.
func (h *Handle) Dispose() {
	if h.disposed.Swap(true) {
		return
	}
	for _, p := range h.Paths() {
		p.Dispose()
	}
}
