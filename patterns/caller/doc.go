/*
Package caller routes keyed events through a tree of dispatch scopes.

# Keys and Payloads

Every event is identified by a [Key], which may be made from any comparable value.
An enum-like constant type is the most common choice, and two constants of different types never collide even if their underlying values are equal.

An event may carry at most one payload value.
A [Path] subscribed with no parameter only matches events without a payload.
A [Path] subscribed with a parameter of type P matches events whose payload is a P, and also matches events without a payload if P is a nillable type (pointer, interface, map, slice, func, or chan), in which case it receives P's zero value.

# Delivery

A [Call] is a node in the scope tree.
[Call.Message] delivers to a single responder: a depth-first search that checks a Call's own paths in subscription order before visiting sub-calls in creation order, stopping at the first path that accepts the event.
[Call.Broadcast] uses the same matching rules, but every accepting path in the subtree is invoked.

Delivery is synchronous, so by the time Message or Broadcast returns every invoked handler has returned too.
Handlers may subscribe, dispose, or create sub-calls while an event is being delivered.
Paths added during a delivery are never invoked by that same delivery, and paths disposed during a delivery are not invoked afterward.

# Binding

Types may declare handler methods once with [Register] (or lazily by implementing [Declarer]), and then any value of that type may be attached to a Call with [Call.Bind].
Declarations are cached per type for the life of the process.

	type Menu struct{ selected int }

	func (m *Menu) Open()          { ... }
	func (m *Menu) Select(idx int) { m.selected = idx }

	func init() {
		caller.MustRegister[*Menu](
			caller.On(EventOpen, (*Menu).Open),
			caller.OnParam(EventSelect, (*Menu).Select),
		)
	}

Each call to Bind creates a new [Handle] with its own paths, so binding the same value twice makes it respond twice to a Broadcast.
*/
package caller
