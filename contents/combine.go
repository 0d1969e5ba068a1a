package contents

import (
	"context"

	"github.com/saylorsolutions/contents/errorsx"
	"golang.org/x/sync/errgroup"
)

var _ Module = (*CombineModule)(nil)

// CombineModule groups several modules into one.
// For each phase the participating members run concurrently, and the hook returns once all of them have finished.
type CombineModule struct {
	modules []Module
}

// Combine creates a [CombineModule] from modules.
func Combine(modules ...Module) *CombineModule {
	return &CombineModule{modules: append([]Module(nil), modules...)}
}

// Members returns the combined modules.
func (cm *CombineModule) Members() []Module {
	return append([]Module(nil), cm.modules...)
}

// Phases returns the union of every member's phases.
func (cm *CombineModule) Phases() Phase {
	var phases Phase
	for _, m := range cm.modules {
		phases |= m.Phases()
	}
	return phases
}

func (cm *CombineModule) all(ctx context.Context, phase Phase, prev, next Content) error {
	var group errgroup.Group
	for _, m := range cm.modules {
		if !m.Phases().Has(phase) {
			continue
		}
		group.Go(func() error {
			return errorsx.Call("combined."+phase.String(), func() error {
				return invokeHook(ctx, m, phase, prev, next)
			})
		})
	}
	return group.Wait()
}

func (cm *CombineModule) OnPreBoot(ctx context.Context, c Content) error {
	return cm.all(ctx, PhasePreBoot, nil, c)
}

func (cm *CombineModule) OnBoot(ctx context.Context, c Content) error {
	return cm.all(ctx, PhaseBoot, nil, c)
}

func (cm *CombineModule) OnPreShutdown(ctx context.Context, c Content) error {
	return cm.all(ctx, PhasePreShutdown, nil, c)
}

func (cm *CombineModule) OnShutdown(ctx context.Context, c Content) error {
	return cm.all(ctx, PhaseShutdown, nil, c)
}

func (cm *CombineModule) OnPreRun(ctx context.Context, c Content) error {
	return cm.all(ctx, PhasePreRun, nil, c)
}

func (cm *CombineModule) OnRun(ctx context.Context, c Content) error {
	return cm.all(ctx, PhaseRun, nil, c)
}

func (cm *CombineModule) OnPreSuspend(ctx context.Context, c Content) error {
	return cm.all(ctx, PhasePreSuspend, nil, c)
}

func (cm *CombineModule) OnSuspend(ctx context.Context, c Content) error {
	return cm.all(ctx, PhaseSuspend, nil, c)
}

func (cm *CombineModule) OnPreEnable(ctx context.Context, c Content) error {
	return cm.all(ctx, PhasePreEnable, nil, c)
}

func (cm *CombineModule) OnEnable(ctx context.Context, c Content) error {
	return cm.all(ctx, PhaseEnable, nil, c)
}

func (cm *CombineModule) OnPreDisable(ctx context.Context, c Content) error {
	return cm.all(ctx, PhasePreDisable, nil, c)
}

func (cm *CombineModule) OnDisable(ctx context.Context, c Content) error {
	return cm.all(ctx, PhaseDisable, nil, c)
}

func (cm *CombineModule) OnPreSwitch(ctx context.Context, prev, next Content) error {
	return cm.all(ctx, PhasePreSwitch, prev, next)
}

func (cm *CombineModule) OnSwitch(ctx context.Context, prev, next Content) error {
	return cm.all(ctx, PhaseSwitch, prev, next)
}

func (cm *CombineModule) OnEndSwitch(ctx context.Context, prev, next Content) error {
	return cm.all(ctx, PhaseEndSwitch, prev, next)
}
