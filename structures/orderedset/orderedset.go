// Package orderedset provides an insertion-ordered set that may be changed by callbacks while it's being iterated.
package orderedset

import (
	"iter"
	"slices"
	"sync"

	"github.com/saylorsolutions/contents/syncx"
)

type entry[T comparable] struct {
	val  T
	live bool
}

// OrderedSet is a concurrency-safe set that remembers insertion order.
//
// Iteration works over a snapshot of membership taken when the iteration starts, and no lock is held while yielding.
// This means that a callback invoked during iteration may freely [OrderedSet.Add] or [OrderedSet.Remove], with these guarantees:
//   - An item removed during an iteration is not yielded afterward by that iteration, even if it hasn't been visited yet.
//   - An item added during an iteration is not yielded by that iteration, only by later ones.
//   - An item removed and re-added during an iteration is treated as a new member, and is not yielded by that iteration.
type OrderedSet[T comparable] struct {
	mux   sync.RWMutex
	items []*entry[T]
	index map[T]*entry[T]
}

// New creates an [OrderedSet] containing the given values, in order.
func New[T comparable](vals ...T) *OrderedSet[T] {
	s := &OrderedSet[T]{
		index: map[T]*entry[T]{},
	}
	for _, v := range vals {
		s.Add(v)
	}
	return s
}

func (s *OrderedSet[T]) init() {
	if s.index == nil {
		s.index = map[T]*entry[T]{}
	}
}

// Add appends val to the end of the set.
// Returns false if val was already a member, in which case its position doesn't change.
func (s *OrderedSet[T]) Add(val T) bool {
	return syncx.LockFuncT(&s.mux, func() bool {
		s.init()
		if _, ok := s.index[val]; ok {
			return false
		}
		e := &entry[T]{val: val, live: true}
		s.index[val] = e
		// Appending never writes into the visible range of a snapshot, since removals always copy.
		s.items = append(s.items, e)
		return true
	})
}

// InsertAfter inserts val directly after anchor.
// If anchor isn't a member, then val is appended to the end.
// Returns false if val was already a member.
func (s *OrderedSet[T]) InsertAfter(anchor, val T) bool {
	return syncx.LockFuncT(&s.mux, func() bool {
		s.init()
		if _, ok := s.index[val]; ok {
			return false
		}
		e := &entry[T]{val: val, live: true}
		s.index[val] = e
		pos := len(s.items)
		if a, ok := s.index[anchor]; ok {
			pos = slices.Index(s.items, a) + 1
		}
		// Copy so that in-flight snapshots keep their view.
		items := make([]*entry[T], 0, len(s.items)+1)
		items = append(items, s.items[:pos]...)
		items = append(items, e)
		items = append(items, s.items[pos:]...)
		s.items = items
		return true
	})
}

// Remove removes val from the set.
// Returns false if val was not a member.
func (s *OrderedSet[T]) Remove(val T) bool {
	return syncx.LockFuncT(&s.mux, func() bool {
		e, ok := s.index[val]
		if !ok {
			return false
		}
		e.live = false
		delete(s.index, val)
		s.items = slices.DeleteFunc(slices.Clone(s.items), func(other *entry[T]) bool {
			return other == e
		})
		return true
	})
}

// Has determines if val is currently a member.
func (s *OrderedSet[T]) Has(val T) bool {
	return syncx.RLockFuncT(&s.mux, func() bool {
		_, ok := s.index[val]
		return ok
	})
}

// Len returns the number of members.
func (s *OrderedSet[T]) Len() int {
	return syncx.RLockFuncT(&s.mux, func() int {
		return len(s.items)
	})
}

// Clear removes all members.
func (s *OrderedSet[T]) Clear() {
	syncx.LockFunc(&s.mux, func() {
		for _, e := range s.items {
			e.live = false
		}
		s.items = nil
		s.index = map[T]*entry[T]{}
	})
}

// Slice returns the current members in insertion order.
func (s *OrderedSet[T]) Slice() []T {
	return syncx.RLockFuncT(&s.mux, func() []T {
		if len(s.items) == 0 {
			return nil
		}
		vals := make([]T, len(s.items))
		for i, e := range s.items {
			vals[i] = e.val
		}
		return vals
	})
}

func (s *OrderedSet[T]) isLive(e *entry[T]) bool {
	return syncx.RLockFuncT(&s.mux, func() bool {
		return e.live
	})
}

// All iterates members in insertion order, following the mutation rules described on [OrderedSet].
func (s *OrderedSet[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		snapshot := syncx.RLockFuncT(&s.mux, func() []*entry[T] {
			return s.items
		})
		for _, e := range snapshot {
			if !s.isLive(e) {
				continue
			}
			if !yield(e.val) {
				return
			}
		}
	}
}

// Backward iterates members in reverse insertion order, with the same mutation rules as [OrderedSet.All].
func (s *OrderedSet[T]) Backward() iter.Seq[T] {
	return func(yield func(T) bool) {
		snapshot := syncx.RLockFuncT(&s.mux, func() []*entry[T] {
			return s.items
		})
		for i := len(snapshot) - 1; i >= 0; i-- {
			e := snapshot[i]
			if !s.isLive(e) {
				continue
			}
			if !yield(e.val) {
				return
			}
		}
	}
}

// Each calls fn for every member, in order.
// It's a convenience for [OrderedSet.All] when early exit isn't needed.
func (s *OrderedSet[T]) Each(fn func(T)) {
	for v := range s.All() {
		fn(v)
	}
}
