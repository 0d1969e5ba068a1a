package contents

import (
	"context"
	"fmt"
	"log/slog"
	"sync/atomic"

	"github.com/saylorsolutions/contents/errorsx"
	"github.com/saylorsolutions/contents/slogx"
	"github.com/saylorsolutions/contents/structures/orderedset"
)

// ModuleCollection is an ordered set of [Module] linked to the collection of the parent unit.
// Hooks run for the whole chain: ancestor collections first, then this collection, each in the order modules were added.
type ModuleCollection struct {
	parent  *ModuleCollection
	modules orderedset.OrderedSet[Module]
	phases  atomic.Uint32
	log     *slog.Logger
}

// NewModuleCollection creates a collection chained to parent, which may be nil.
func NewModuleCollection(parent *ModuleCollection) *ModuleCollection {
	mc := &ModuleCollection{
		parent: parent,
		log:    slog.Default(),
	}
	if parent != nil {
		mc.log = parent.log
	}
	return mc
}

// Parent returns the collection this one is chained to, or nil.
func (mc *ModuleCollection) Parent() *ModuleCollection {
	return mc.parent
}

// Add appends m to the collection.
// Returns false if m was already present.
func (mc *ModuleCollection) Add(m Module) bool {
	if m == nil {
		return false
	}
	added := mc.modules.Add(m)
	if added {
		mc.log.Debug("Added module", "module", fmt.Sprintf("%T", m), "phases", m.Phases())
		mc.updatePhases()
	}
	return added
}

// Remove removes m from the collection.
// Returns false if m wasn't present.
func (mc *ModuleCollection) Remove(m Module) bool {
	removed := mc.modules.Remove(m)
	if removed {
		mc.log.Debug("Removed module", "module", fmt.Sprintf("%T", m))
		mc.updatePhases()
	}
	return removed
}

func (mc *ModuleCollection) updatePhases() {
	var phases Phase
	for m := range mc.modules.All() {
		phases |= m.Phases()
	}
	mc.phases.Store(uint32(phases))
}

// Len returns the number of modules in this collection, excluding ancestors.
func (mc *ModuleCollection) Len() int {
	return mc.modules.Len()
}

// All returns the modules in this collection, excluding ancestors.
func (mc *ModuleCollection) All() []Module {
	return mc.modules.Slice()
}

// Phases returns the union of phases declared by every module in the chain.
func (mc *ModuleCollection) Phases() Phase {
	phases := Phase(mc.phases.Load())
	if mc.parent != nil {
		phases |= mc.parent.Phases()
	}
	return phases
}

// Has reports whether any module in the chain participates in phase.
func (mc *ModuleCollection) Has(phase Phase) bool {
	return mc.Phases().Has(phase)
}

// Run executes the hook for a single phase on every participating module in the chain, ancestors first.
// Each hook completes before the next starts, and the first failure stops the run.
// Run returns immediately if nothing in the chain participates in phase.
func (mc *ModuleCollection) Run(ctx context.Context, phase Phase, prev, next Content) error {
	if !mc.Has(phase) {
		return nil
	}
	return mc.run(ctx, phase, prev, next)
}

func (mc *ModuleCollection) run(ctx context.Context, phase Phase, prev, next Content) error {
	if mc.parent != nil {
		if err := mc.parent.run(ctx, phase, prev, next); err != nil {
			return err
		}
	}
	for m := range mc.modules.All() {
		if !m.Phases().Has(phase) {
			continue
		}
		slogx.Trace(mc.log, "Running module hook", "phase", phase, "module", fmt.Sprintf("%T", m))
		op := "module." + phase.String()
		err := errorsx.Call(op, func() error {
			return invokeHook(ctx, m, phase, prev, next)
		})
		if err != nil {
			return errorsx.Handler(op, describe(next), err)
		}
	}
	return nil
}

// GetModule returns the first module in the chain that is a T, searching this collection before its ancestors.
func GetModule[T any](mc *ModuleCollection) (T, bool) {
	for cur := mc; cur != nil; cur = cur.parent {
		for m := range cur.modules.All() {
			if t, ok := m.(T); ok {
				return t, true
			}
		}
	}
	var zero T
	return zero, false
}

// Modules returns every module in the chain that is a T, in hook execution order.
func Modules[T any](mc *ModuleCollection) []T {
	if mc == nil {
		return nil
	}
	found := Modules[T](mc.parent)
	for m := range mc.modules.All() {
		if t, ok := m.(T); ok {
			found = append(found, t)
		}
	}
	return found
}
