package caller

import (
	"log/slog"
	"reflect"
	"sync/atomic"

	"github.com/saylorsolutions/contents/slogx"
	"github.com/saylorsolutions/contents/structures/orderedset"
)

// Call is a dispatch scope in a tree of scopes.
// A Call owns its paths and its sub-calls, and disposing it disposes all of them.
type Call struct {
	paths    orderedset.OrderedSet[*Path]
	children orderedset.OrderedSet[*Call]
	parent   atomic.Pointer[Call]
	disposed atomic.Bool
	log      *slog.Logger
}

// Option configures a root [Call].
type Option func(c *Call)

// WithLogger sets the logger used for dispatch traces.
// Sub-calls inherit their parent's logger.
func WithLogger(log *slog.Logger) Option {
	return func(c *Call) {
		if log != nil {
			c.log = log
		}
	}
}

// New creates a root [Call].
func New(opts ...Option) *Call {
	c := &Call{
		log: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Parent returns the Call that owns this one, or nil for a root or disposed Call.
func (c *Call) Parent() *Call {
	return c.parent.Load()
}

// Disposed reports whether [Call.Dispose] has been called.
func (c *Call) Disposed() bool {
	return c.disposed.Load()
}

// SubCall creates a new Call owned by this one, visited after every existing sub-call.
func (c *Call) SubCall() *Call {
	return c.SubCallAfter(nil)
}

// SubCallAfter creates a new Call owned by this one, visited directly after sibling.
// If sibling is nil or not owned by c, then the new Call is visited last.
//
// A sub-call created on a disposed Call is disposed already.
func (c *Call) SubCallAfter(sibling *Call) *Call {
	sub := &Call{log: c.log}
	if c.disposed.Load() {
		sub.disposed.Store(true)
		return sub
	}
	sub.parent.Store(c)
	if sibling != nil {
		c.children.InsertAfter(sibling, sub)
	} else {
		c.children.Add(sub)
	}
	return sub
}

// SubCalls returns the sub-calls owned by c, in visiting order.
func (c *Call) SubCalls() []*Call {
	return c.children.Slice()
}

// Len returns the number of paths subscribed directly to c.
func (c *Call) Len() int {
	return c.paths.Len()
}

func (c *Call) addPath(p *Path) *Path {
	if c.disposed.Load() {
		p.disposed.Store(true)
		return p
	}
	c.paths.Add(p)
	return p
}

// Subscribe registers fn to be called for events with the key and no payload.
func (c *Call) Subscribe(key any, fn func()) *Path {
	return c.SubscribeFunc(key, func() bool {
		fn()
		return true
	})
}

// SubscribeFunc is the same as [Call.Subscribe], but fn may decline the event by returning false.
// A declined event continues on to the next matching path.
func (c *Call) SubscribeFunc(key any, fn func() bool) *Path {
	return c.addPath(newPath(c, KeyOf(key), nil, invokeNoParam(fn)))
}

// Subscribe registers fn with c for events with the key and a payload compatible with P.
func Subscribe[P any](c *Call, key any, fn func(P)) *Path {
	return SubscribeFunc(c, key, func(v P) bool {
		fn(v)
		return true
	})
}

// SubscribeFunc is the same as [Subscribe], but fn may decline the event by returning false.
func SubscribeFunc[P any](c *Call, key any, fn func(P) bool) *Path {
	return c.addPath(newPath(c, KeyOf(key), reflect.TypeFor[P](), invokeParam(fn)))
}

// Message delivers an event to the first path in c's subtree that accepts it.
// At most one payload may be given.
// Returns false if nothing accepted the event.
func (c *Call) Message(key any, payload ...any) bool {
	k, p := KeyOf(key), payloadFrom(payload)
	handled := c.message(k, p)
	slogx.Trace(c.log, "Message", "key", k, "payload", p, "handled", handled)
	return handled
}

func (c *Call) message(key Key, payload Payload) bool {
	if c.disposed.Load() {
		return false
	}
	for p := range c.paths.All() {
		if p.try(key, payload) {
			return true
		}
	}
	for sub := range c.children.All() {
		if sub.message(key, payload) {
			return true
		}
	}
	return false
}

// Broadcast delivers an event to every path in c's subtree that accepts it.
// At most one payload may be given.
// Returns true if at least one path accepted the event.
func (c *Call) Broadcast(key any, payload ...any) bool {
	k, p := KeyOf(key), payloadFrom(payload)
	handled := c.broadcast(k, p)
	slogx.Trace(c.log, "Broadcast", "key", k, "payload", p, "handled", handled)
	return handled
}

func (c *Call) broadcast(key Key, payload Payload) bool {
	if c.disposed.Load() {
		return false
	}
	var handled bool
	for p := range c.paths.All() {
		if p.try(key, payload) {
			handled = true
		}
	}
	for sub := range c.children.All() {
		if sub.broadcast(key, payload) {
			handled = true
		}
	}
	return handled
}

// Dispose disposes every path and sub-call of c, and detaches c from its parent.
// Calling Dispose more than once does nothing.
func (c *Call) Dispose() {
	if c.disposed.Swap(true) {
		return
	}
	if parent := c.parent.Swap(nil); parent != nil {
		parent.children.Remove(c)
	}
	for p := range c.paths.All() {
		p.disposed.Store(true)
	}
	c.paths.Clear()
	for sub := range c.children.All() {
		sub.Dispose()
	}
}
