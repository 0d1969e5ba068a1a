package contents

// Container is anything holding units: a [Content] or a [Controller].
type Container interface {
	childUnits() []*Base
}

// Get returns the first child of from that is a T.
// If recursive is true and no direct child matches, then each child's subtree is searched in order.
// The search works on snapshots, so it's safe while units are being added.
func Get[T any](from Container, recursive bool) (T, bool) {
	children := from.childUnits()
	for _, child := range children {
		if t, ok := child.self.(T); ok {
			return t, true
		}
	}
	if recursive {
		for _, child := range children {
			if t, ok := Get[T](child, true); ok {
				return t, true
			}
		}
	}
	var zero T
	return zero, false
}

// GetAll returns every child of from that is a T, depth first in tree order when recursive is true.
func GetAll[T any](from Container, recursive bool) []T {
	var found []T
	for _, child := range from.childUnits() {
		if t, ok := child.self.(T); ok {
			found = append(found, t)
		}
		if recursive {
			found = append(found, GetAll[T](child, true)...)
		}
	}
	return found
}
