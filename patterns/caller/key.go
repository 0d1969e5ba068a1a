package caller

import (
	"fmt"
	"reflect"
)

// Key identifies an event.
type Key struct {
	v any
}

// KeyOf makes a [Key] from v.
// If v is already a Key, then it's returned as-is.
// KeyOf panics if v is nil or not comparable, since such a key could never be matched.
func KeyOf(v any) Key {
	switch v := v.(type) {
	case nil:
		panic("caller: nil event key")
	case Key:
		return v
	}
	if !reflect.TypeOf(v).Comparable() {
		panic(fmt.Sprintf("caller: event key of type %T is not comparable", v))
	}
	return Key{v: v}
}

// Value returns the value the Key was made from.
func (k Key) Value() any {
	return k.v
}

func (k Key) String() string {
	if k.v == nil {
		return "<none>"
	}
	if s, ok := k.v.(fmt.Stringer); ok {
		return s.String()
	}
	if s, ok := k.v.(string); ok {
		return s
	}
	return fmt.Sprintf("%T(%v)", k.v, k.v)
}
