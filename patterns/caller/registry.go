package caller

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/saylorsolutions/contents/errorsx"
	"github.com/saylorsolutions/contents/syncx"
)

// Binding declares that a method (or function) of a type handles events with a key.
// Create one with [On] or [OnParam].
type Binding struct {
	owner  reflect.Type
	key    Key
	typ    reflect.Type
	invoke func(target any, p Payload) bool
}

// Key returns the event key handled by the Binding.
func (b Binding) Key() Key {
	return b.key
}

// Type returns the handler's parameter type, or nil if the handler takes no parameter.
func (b Binding) Type() reflect.Type {
	return b.typ
}

type bindingID struct {
	key Key
	typ reflect.Type
}

// On declares a handler of T that takes no parameter.
// Method expressions are a natural fit: caller.On(EventOpen, (*Menu).Open).
func On[T any](key any, fn func(T)) Binding {
	return Binding{
		owner: reflect.TypeFor[T](),
		key:   KeyOf(key),
		invoke: func(target any, p Payload) bool {
			if p.present {
				return false
			}
			fn(target.(T))
			return true
		},
	}
}

// OnParam declares a handler of T that takes a single parameter of type P.
func OnParam[T, P any](key any, fn func(T, P)) Binding {
	return Binding{
		owner: reflect.TypeFor[T](),
		key:   KeyOf(key),
		typ:   reflect.TypeFor[P](),
		invoke: func(target any, p Payload) bool {
			v, ok := As[P](p)
			if !ok {
				return false
			}
			fn(target.(T), v)
			return true
		},
	}
}

// Declarer may be implemented by types that declare their own bindings.
// Bindings are requested the first time a value of the type is passed to [Call.Bind], and are cached afterward.
type Declarer interface {
	Bindings() []Binding
}

var registry = struct {
	mux     sync.RWMutex
	entries map[reflect.Type][]Binding
}{
	entries: map[reflect.Type][]Binding{},
}

// Register declares the handler bindings of T.
// Returns an error wrapping [errorsx.ErrInvalidOperation] if T has already been registered,
// or [errorsx.ErrArgument] if a binding belongs to a different type or the same key and parameter type is declared twice.
func Register[T any](bindings ...Binding) error {
	return register(reflect.TypeFor[T](), bindings)
}

// MustRegister is the same as [Register], but panics on error.
// This is intended for use in init functions.
func MustRegister[T any](bindings ...Binding) {
	if err := Register[T](bindings...); err != nil {
		panic(err)
	}
}

// Registered reports whether bindings have been declared for T.
func Registered[T any]() bool {
	_, ok := lookup(reflect.TypeFor[T]())
	return ok
}

func register(owner reflect.Type, bindings []Binding) error {
	seen := mapset.NewThreadUnsafeSetWithSize[bindingID](len(bindings))
	for _, b := range bindings {
		if b.owner != owner {
			return errorsx.Argument("binding for key %s belongs to %s, not %s", b.key, b.owner, owner)
		}
		if !seen.Add(bindingID{key: b.key, typ: b.typ}) {
			return errorsx.Argument("duplicate binding for key %s with parameter %s on %s", b.key, typeName(b.typ), owner)
		}
	}
	return syncx.LockFuncT(&registry.mux, func() error {
		if _, ok := registry.entries[owner]; ok {
			return errorsx.InvalidOperation("bindings for %s are already registered", owner)
		}
		registry.entries[owner] = append([]Binding(nil), bindings...)
		return nil
	})
}

func lookup(owner reflect.Type) ([]Binding, bool) {
	registry.mux.RLock()
	defer registry.mux.RUnlock()
	b, ok := registry.entries[owner]
	return b, ok
}

func bindingsFor(target any) ([]Binding, error) {
	owner := reflect.TypeOf(target)
	if b, ok := lookup(owner); ok {
		return b, nil
	}
	d, ok := target.(Declarer)
	if !ok {
		return nil, nil
	}
	err := register(owner, d.Bindings())
	if err != nil && !errors.Is(err, errorsx.ErrInvalidOperation) {
		return nil, err
	}
	// Another goroutine may have won the race to register.
	b, _ := lookup(owner)
	return b, nil
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "<none>"
	}
	return t.String()
}

// Bind attaches every declared handler of target's type to c, returning a [Handle] that groups the new paths.
// Types without declared bindings produce an empty Handle.
// Each call creates new paths, even for a value that's already bound.
func (c *Call) Bind(target any) *Handle {
	h := newHandle(target)
	if target == nil {
		return h
	}
	bindings, err := bindingsFor(target)
	if err != nil {
		c.log.Error("Failed to declare bindings", "type", fmt.Sprintf("%T", target), "error", err)
		return h
	}
	for _, b := range bindings {
		invoke := b.invoke
		p := newPath(c, b.key, b.typ, func(p Payload) bool {
			return invoke(target, p)
		})
		h.add(p)
		c.addPath(p)
	}
	return h
}
