package contents

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestModuleCollection_Phases(t *testing.T) {
	tr := new(trace)
	parent := NewModuleCollection(nil)
	child := NewModuleCollection(parent)
	assert.Same(t, parent, child.Parent())
	assert.Equal(t, PhaseNone, child.Phases())

	boot := newTraceModule("boot", tr, PhaseBoot)
	run := newTraceModule("run", tr, PhaseRun|PhasePreRun)
	assert.True(t, parent.Add(boot))
	assert.False(t, parent.Add(boot), "Modules are only added once")
	assert.True(t, child.Add(run))
	assert.False(t, child.Add(nil))

	assert.Equal(t, PhaseBoot, parent.Phases())
	assert.Equal(t, PhaseBoot|PhaseRun|PhasePreRun, child.Phases())
	assert.True(t, child.Has(PhaseBoot))
	assert.False(t, parent.Has(PhaseRun))
	assert.Equal(t, 1, child.Len())
	assert.Equal(t, []Module{run}, child.All())

	assert.True(t, parent.Remove(boot))
	assert.False(t, parent.Remove(boot))
	assert.Equal(t, PhaseNone, parent.Phases())
	assert.Equal(t, PhaseRun|PhasePreRun, child.Phases())
}

func TestModuleCollection_Run(t *testing.T) {
	tr := new(trace)
	parent := NewModuleCollection(nil)
	child := NewModuleCollection(parent)
	parent.Add(newTraceModule("a", tr, PhaseRun))
	child.Add(newTraceModule("b", tr, PhaseRun|PhaseBoot))
	parent.Add(newTraceModule("c", tr, PhaseRun))

	require.NoError(t, child.Run(context.Background(), PhaseRun, nil, nil))
	assert.Equal(t, []string{"a.Run(?)", "c.Run(?)", "b.Run(?)"}, tr.list(), "Ancestors run first, in the order they were added")

	tr.reset()
	require.NoError(t, parent.Run(context.Background(), PhaseBoot, nil, nil))
	assert.Empty(t, tr.list(), "Parents don't run their children's modules")
}

func TestModuleCollection_RunStopsOnFailure(t *testing.T) {
	tr := new(trace)
	mc := NewModuleCollection(nil)
	errHook := errors.New("hook failed")
	mc.Add(&failingModule{err: errHook})
	mc.Add(newTraceModule("after", tr, PhaseBoot))

	err := mc.Run(context.Background(), PhaseBoot, nil, nil)
	assert.ErrorIs(t, err, errHook)
	assert.Empty(t, tr.list())
}

type markerModule struct {
	BaseModule
	name string
}

func (m *markerModule) Phases() Phase { return PhaseNone }

func TestGetModule(t *testing.T) {
	parent := NewModuleCollection(nil)
	child := NewModuleCollection(parent)
	outer := &markerModule{name: "outer"}
	inner := &markerModule{name: "inner"}
	parent.Add(outer)
	parent.Add(newTraceModule("trace", new(trace), PhaseBoot))
	child.Add(inner)

	found, ok := GetModule[*markerModule](child)
	require.True(t, ok)
	assert.Same(t, inner, found, "Nearest collection is searched first")

	found, ok = GetModule[*markerModule](parent)
	require.True(t, ok)
	assert.Same(t, outer, found)

	_, ok = GetModule[*failingModule](child)
	assert.False(t, ok)

	assert.Equal(t, []*markerModule{outer, inner}, Modules[*markerModule](child))
	assert.Len(t, Modules[Module](child), 3)
}

type slowModule struct {
	BaseModule
	active  *atomic.Int32
	maxSeen *atomic.Int32
	err     error
}

func (m *slowModule) Phases() Phase { return PhaseBoot }

func (m *slowModule) OnBoot(context.Context, Content) error {
	n := m.active.Add(1)
	defer m.active.Add(-1)
	for {
		seen := m.maxSeen.Load()
		if n <= seen || m.maxSeen.CompareAndSwap(seen, n) {
			break
		}
	}
	time.Sleep(30 * time.Millisecond)
	return m.err
}

func TestCombine(t *testing.T) {
	var active, maxSeen atomic.Int32
	tr := new(trace)
	members := []Module{
		&slowModule{active: &active, maxSeen: &maxSeen},
		&slowModule{active: &active, maxSeen: &maxSeen},
		&slowModule{active: &active, maxSeen: &maxSeen},
		newTraceModule("run", tr, PhaseRun),
	}
	cm := Combine(members...)
	assert.Equal(t, PhaseBoot|PhaseRun, cm.Phases())
	assert.Equal(t, members, cm.Members())

	require.NoError(t, cm.OnBoot(context.Background(), nil))
	assert.Equal(t, int32(3), maxSeen.Load(), "Members should run concurrently")
	assert.Empty(t, tr.list(), "Members that don't participate are skipped")

	require.NoError(t, cm.OnRun(context.Background(), nil))
	assert.Equal(t, []string{"run.Run(?)"}, tr.list())
}

func TestCombine_Failure(t *testing.T) {
	var active, maxSeen atomic.Int32
	errSlow := errors.New("slow failure")
	cm := Combine(
		&slowModule{active: &active, maxSeen: &maxSeen},
		&slowModule{active: &active, maxSeen: &maxSeen, err: errSlow},
	)
	assert.ErrorIs(t, cm.OnBoot(context.Background(), nil), errSlow)
	assert.Zero(t, active.Load(), "Every member should finish before returning")
}

func TestCombine_InTree(t *testing.T) {
	ctrl := newTestController(t)
	tr := new(trace)
	ctrl.Modules().Add(Combine(
		newTraceModule("x", tr, PhasePreBoot),
		newTraceModule("y", tr, PhaseEndSwitch),
	))
	root, err := ctrl.Boot(context.Background(), Of[traceContent](), traced("first", tr))
	require.NoError(t, err)
	tr.reset()

	_, err = root.base().SwitchParam(context.Background(), traced("second", tr))
	require.NoError(t, err)
	assert.Contains(t, tr.list(), "x.PreBoot(second)")
	assert.Contains(t, tr.list(), "y.EndSwitch(first>second)")
}
