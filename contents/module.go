package contents

import (
	"context"
	"fmt"
)

// Module is cross-cutting behavior that runs at specific lifecycle phases of every [Content] below the collection it's added to.
//
// Hooks are only called for the phases included in Phases, so a Module only needs to implement what it declares.
// Embed [BaseModule] to get no-op implementations of every hook.
// Modules are stored in ordered sets, so implementations should be comparable (usually a pointer).
type Module interface {
	Phases() Phase

	OnPreBoot(ctx context.Context, c Content) error
	OnBoot(ctx context.Context, c Content) error
	OnPreShutdown(ctx context.Context, c Content) error
	OnShutdown(ctx context.Context, c Content) error
	OnPreRun(ctx context.Context, c Content) error
	OnRun(ctx context.Context, c Content) error
	OnPreSuspend(ctx context.Context, c Content) error
	OnSuspend(ctx context.Context, c Content) error
	OnPreEnable(ctx context.Context, c Content) error
	OnEnable(ctx context.Context, c Content) error
	OnPreDisable(ctx context.Context, c Content) error
	OnDisable(ctx context.Context, c Content) error
	OnPreSwitch(ctx context.Context, prev, next Content) error
	OnSwitch(ctx context.Context, prev, next Content) error
	OnEndSwitch(ctx context.Context, prev, next Content) error
}

// BaseModule provides no-op hooks.
// It doesn't implement Phases, so embedding types still have to declare what they participate in.
type BaseModule struct{}

func (BaseModule) OnPreBoot(context.Context, Content) error            { return nil }
func (BaseModule) OnBoot(context.Context, Content) error               { return nil }
func (BaseModule) OnPreShutdown(context.Context, Content) error        { return nil }
func (BaseModule) OnShutdown(context.Context, Content) error           { return nil }
func (BaseModule) OnPreRun(context.Context, Content) error             { return nil }
func (BaseModule) OnRun(context.Context, Content) error                { return nil }
func (BaseModule) OnPreSuspend(context.Context, Content) error         { return nil }
func (BaseModule) OnSuspend(context.Context, Content) error            { return nil }
func (BaseModule) OnPreEnable(context.Context, Content) error          { return nil }
func (BaseModule) OnEnable(context.Context, Content) error             { return nil }
func (BaseModule) OnPreDisable(context.Context, Content) error         { return nil }
func (BaseModule) OnDisable(context.Context, Content) error            { return nil }
func (BaseModule) OnPreSwitch(context.Context, Content, Content) error { return nil }
func (BaseModule) OnSwitch(context.Context, Content, Content) error    { return nil }
func (BaseModule) OnEndSwitch(context.Context, Content, Content) error { return nil }

// invokeHook calls the hook of m matching phase.
// For non-switch phases the unit is passed as next.
func invokeHook(ctx context.Context, m Module, phase Phase, prev, next Content) error {
	switch phase {
	case PhasePreBoot:
		return m.OnPreBoot(ctx, next)
	case PhaseBoot:
		return m.OnBoot(ctx, next)
	case PhasePreShutdown:
		return m.OnPreShutdown(ctx, next)
	case PhaseShutdown:
		return m.OnShutdown(ctx, next)
	case PhasePreRun:
		return m.OnPreRun(ctx, next)
	case PhaseRun:
		return m.OnRun(ctx, next)
	case PhasePreSuspend:
		return m.OnPreSuspend(ctx, next)
	case PhaseSuspend:
		return m.OnSuspend(ctx, next)
	case PhasePreEnable:
		return m.OnPreEnable(ctx, next)
	case PhaseEnable:
		return m.OnEnable(ctx, next)
	case PhasePreDisable:
		return m.OnPreDisable(ctx, next)
	case PhaseDisable:
		return m.OnDisable(ctx, next)
	case PhasePreSwitch:
		return m.OnPreSwitch(ctx, prev, next)
	case PhaseSwitch:
		return m.OnSwitch(ctx, prev, next)
	case PhaseEndSwitch:
		return m.OnEndSwitch(ctx, prev, next)
	default:
		panic(fmt.Sprintf("contents: hook invoked for non-single phase %s", phase))
	}
}
