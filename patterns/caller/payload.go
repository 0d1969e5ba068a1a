package caller

import (
	"fmt"
	"reflect"
)

// Payload is the optional value delivered with an event.
// The zero value is an absent payload.
type Payload struct {
	val     any
	present bool
}

// None returns an absent [Payload].
func None() Payload {
	return Payload{}
}

// PayloadOf creates a [Payload] carrying v.
// An untyped nil is treated as an absent payload.
func PayloadOf(v any) Payload {
	switch v := v.(type) {
	case nil:
		return Payload{}
	case Payload:
		return v
	}
	return Payload{val: v, present: true}
}

func payloadFrom(prm []any) Payload {
	switch len(prm) {
	case 0:
		return Payload{}
	case 1:
		return PayloadOf(prm[0])
	default:
		panic(fmt.Sprintf("caller: at most one payload may be delivered, got %d", len(prm)))
	}
}

// Present reports whether the Payload carries a value.
func (p Payload) Present() bool {
	return p.present
}

// Value returns the carried value, or nil if absent.
func (p Payload) Value() any {
	return p.val
}

// Type returns the dynamic type of the carried value, or nil if absent.
func (p Payload) Type() reflect.Type {
	if !p.present {
		return nil
	}
	return reflect.TypeOf(p.val)
}

func (p Payload) String() string {
	if !p.present {
		return "<none>"
	}
	return fmt.Sprintf("%T(%v)", p.val, p.val)
}

// As reports whether p is compatible with a handler parameter of type P, and returns the value to pass.
func As[P any](p Payload) (P, bool) {
	var zero P
	if !p.present {
		if nillable(reflect.TypeFor[P]()) {
			return zero, true
		}
		return zero, false
	}
	v, ok := p.val.(P)
	return v, ok
}

func nillable(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return true
	default:
		return false
	}
}
