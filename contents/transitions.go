package contents

import (
	"context"
	"errors"
	"fmt"

	"github.com/saylorsolutions/contents/errorsx"
	"github.com/saylorsolutions/contents/slogx"
	"github.com/saylorsolutions/contents/syncx"
)

func (b *Base) lock(ctx context.Context, category lockCategory) (func(), error) {
	release, err := b.locks.Lock(ctx, category)
	if err != nil {
		if errors.Is(err, syncx.ErrLockTimeout) {
			return nil, fmt.Errorf("%w: %s: %w", errorsx.ErrInvalidOperation, b, err)
		}
		return nil, err
	}
	return release, nil
}

func (b *Base) hooks(ctx context.Context, phase Phase) error {
	return b.modules.Run(ctx, phase, nil, b.self)
}

func (b *Base) override(op string, fn func() error) error {
	return errorsx.Handler(op, b.String(), errorsx.Call(op, fn))
}

// boot runs the boot phase and continues into run.
// A non-nil prev means the unit is replacing prev through a switch.
func (b *Base) boot(ctx context.Context, prev Content) error {
	release, err := b.lock(ctx, lockBoot)
	if err != nil {
		return err
	}
	defer release()

	slogx.Trace(b.log, "Boot")
	b.state.Store(int32(StateBooting))
	if err := b.hooks(ctx, PhasePreBoot); err != nil {
		return err
	}
	if err := b.override("boot", func() error { return b.self.OnBoot(ctx) }); err != nil {
		return err
	}
	if err := b.hooks(ctx, PhaseBoot); err != nil {
		return err
	}
	if prev != nil {
		if err := b.modules.Run(ctx, PhaseEndSwitch, prev, b.self); err != nil {
			return err
		}
	}
	return b.doRun(ctx)
}

func (b *Base) doRun(ctx context.Context) error {
	release, err := b.lock(ctx, lockRunOrSuspend)
	if err != nil {
		return err
	}
	defer release()

	if b.shutdown.Load() || b.running.Load() {
		return nil
	}
	slogx.Trace(b.log, "Run")
	if err := b.hooks(ctx, PhasePreRun); err != nil {
		return err
	}
	if err := b.doEnable(ctx); err != nil {
		return err
	}
	if err := b.override("run", func() error { return b.self.OnRun(ctx) }); err != nil {
		return err
	}
	if err := b.hooks(ctx, PhaseRun); err != nil {
		return err
	}
	return b.override("complete run", func() error {
		b.self.OnCompleteRun()
		return nil
	})
}

func (b *Base) doEnable(ctx context.Context) error {
	release, err := b.lock(ctx, lockEnableOrDisable)
	if err != nil {
		return err
	}
	defer release()

	if b.shutdown.Load() || b.running.Swap(true) {
		return nil
	}
	slogx.Trace(b.log, "Enable")
	b.handle.SetEnabledAll(true)
	b.state.Store(int32(StateRunning))
	if err := b.hooks(ctx, PhasePreEnable); err != nil {
		return err
	}
	if err := b.override("enable", func() error { return b.self.OnEnable(ctx) }); err != nil {
		return err
	}
	for child := range b.children.All() {
		if err := child.doEnable(ctx); err != nil {
			return err
		}
	}
	return b.hooks(ctx, PhaseEnable)
}

func (b *Base) doDisable(ctx context.Context) error {
	release, err := b.lock(ctx, lockEnableOrDisable)
	if err != nil {
		return err
	}
	defer release()

	if !b.running.Swap(false) {
		return nil
	}
	slogx.Trace(b.log, "Disable")
	b.handle.SetEnabledAll(false)
	if !b.shutdown.Load() {
		b.state.Store(int32(StateSuspended))
	}
	if err := b.hooks(ctx, PhasePreDisable); err != nil {
		return err
	}
	for child := range b.children.All() {
		if err := child.doDisable(ctx); err != nil {
			return err
		}
	}
	if err := b.override("disable", func() error { return b.self.OnDisable(ctx) }); err != nil {
		return err
	}
	return b.hooks(ctx, PhaseDisable)
}

func (b *Base) doSuspend(ctx context.Context) error {
	release, err := b.lock(ctx, lockRunOrSuspend)
	if err != nil {
		return err
	}
	defer release()

	if b.shutdown.Load() || !b.running.Load() {
		return nil
	}
	slogx.Trace(b.log, "Suspend")
	if err := b.hooks(ctx, PhasePreSuspend); err != nil {
		return err
	}
	if err := b.doDisable(ctx); err != nil {
		return err
	}
	if err := b.override("suspend", func() error { return b.self.OnSuspend(ctx) }); err != nil {
		return err
	}
	return b.hooks(ctx, PhaseSuspend)
}

// doShutdown tears the unit down, continuing past failures so that children and resources are always released.
func (b *Base) doShutdown(ctx context.Context) error {
	if b.shutdown.Swap(true) {
		return errorsx.InvalidOperation("%s is already shut down", b)
	}
	slogx.Trace(b.log, "Shutdown")
	b.state.Store(int32(StateShuttingDown))
	b.handle.Dispose()
	if b.parent != nil {
		b.parent.children.Remove(b)
	} else {
		b.controller.clearRoot(b)
	}

	release, err := b.lock(ctx, lockShutdown)
	if err != nil {
		return err
	}
	defer release()

	errs := errorsx.CollectErrors()
	errs.Add(b.override("pre shutdown", func() error {
		b.self.OnPreShutdown()
		return nil
	}))
	errs.Add(b.hooks(ctx, PhasePreShutdown))
	for child := range b.children.All() {
		errs.Add(child.doShutdown(ctx))
	}
	b.call.Dispose()
	errs.Add(b.managed.Release(ctx))
	errs.Add(b.override("shutdown", func() error { return b.self.OnShutdown(ctx) }))
	errs.Add(b.hooks(ctx, PhaseShutdown))
	b.running.Store(false)
	b.state.Store(int32(StateShutdown))
	return joinErrors(errs)
}

// doSwitch attaches next in b's slot, shuts b down, and boots next.
// If the PreSwitch hooks fail, then next is detached again and b keeps running.
// Once b is shut down, a failing step leaves next attached in whatever state it reached, so it may be inspected or shut down by the caller.
func (b *Base) doSwitch(ctx context.Context, next Content, param any) (Content, error) {
	nb := attach(next, b.controller, b.parent, param, b)
	b.log.Debug("Switching content", "next", nb.String())
	if err := b.modules.Run(ctx, PhasePreSwitch, b.self, next); err != nil {
		nb.detach(ctx)
		return nil, err
	}
	if b.parent == nil {
		b.controller.replaceRoot(b, nb)
	}
	if err := b.doShutdown(ctx); err != nil {
		return next, err
	}
	if err := nb.modules.Run(ctx, PhaseSwitch, b.self, next); err != nil {
		return next, err
	}
	if err := nb.boot(ctx, b.self); err != nil {
		return next, err
	}
	return next, nil
}

// detach undoes attach for a unit that never booted, leaving it shut down.
func (b *Base) detach(ctx context.Context) {
	b.shutdown.Store(true)
	b.handle.Dispose()
	b.call.Dispose()
	if b.parent != nil {
		b.parent.children.Remove(b)
	}
	if err := b.managed.Release(ctx); err != nil {
		b.log.Warn("Failed to release resources of detached content", "error", err)
	}
	b.state.Store(int32(StateShutdown))
}

func (b *Base) checkStructural(op string) error {
	if b.shutdown.Load() {
		return errorsx.InvalidOperation("cannot %s on %s after shutdown", op, b)
	}
	if b.WaitingModal() {
		return errorsx.InvalidOperation("cannot %s on %s while a modal content is pending", op, b)
	}
	return nil
}

// Append creates a child from factory with the given boot parameter, and boots it.
// The child is returned even if booting failed, so it may be inspected or shut down.
//
// Fails with [errorsx.ErrInvalidOperation] if the unit is shut down or waiting on a modal child.
func (b *Base) Append(ctx context.Context, factory Factory, param any) (Content, error) {
	if err := b.checkStructural("append"); err != nil {
		return nil, err
	}
	child := factory()
	cb := attach(child, b.controller, b, param, nil)
	b.log.Debug("Appending content", "child", cb.String())
	if err := cb.boot(ctx, nil); err != nil {
		return child, cb.throw(err)
	}
	return child, nil
}

// AppendParam is the same as [Base.Append], using the Content named by p.
func (b *Base) AppendParam(ctx context.Context, p Param) (Content, error) {
	return b.Append(ctx, p.NewContent, p)
}

// Resume runs a suspended unit again.
// It does nothing if the unit is already running or shut down.
func (b *Base) Resume(ctx context.Context) error {
	return b.throw(b.doRun(ctx))
}

// Suspend disables the unit and its children.
// It does nothing if the unit isn't running or is shut down.
func (b *Base) Suspend(ctx context.Context) error {
	return b.throw(b.doSuspend(ctx))
}

// Shutdown shuts down the unit's children, releases its resources, and detaches it from its parent.
// Fails with [errorsx.ErrInvalidOperation] if shutdown has already happened.
func (b *Base) Shutdown(ctx context.Context) error {
	return b.throw(b.doShutdown(ctx))
}

// Switch replaces the unit with a new one created from factory, in the same position under the same parent.
// The unit is fully shut down before the replacement boots.
// If a PreSwitch hook fails, then no replacement is returned and the unit keeps running.
//
// Fails with [errorsx.ErrInvalidOperation] if the unit is shut down, waiting on a modal child, or is itself modal.
func (b *Base) Switch(ctx context.Context, factory Factory, param any) (Content, error) {
	if err := b.checkStructural("switch"); err != nil {
		return nil, err
	}
	if b.modal {
		return nil, errorsx.InvalidOperation("modal content %s must finish with its result instead of switching", b)
	}
	next, err := b.doSwitch(ctx, factory(), param)
	return next, b.throw(err)
}

// SwitchParam is the same as [Base.Switch], using the Content named by p.
func (b *Base) SwitchParam(ctx context.Context, p Param) (Content, error) {
	return b.Switch(ctx, p.NewContent, p)
}
