package contents

import (
	"context"
	"reflect"

	"github.com/saylorsolutions/contents/errorsx"
	"github.com/saylorsolutions/contents/slogx"
)

// ModalContent is a [Content] that produces a result for the unit that started it.
type ModalContent[R any] interface {
	Content
	// ModalResult waits for and returns the result.
	// It's called once the content has booted.
	ModalResult(ctx context.Context) (R, error)
}

// Modal starts a child of c from factory, waits for its result, then shuts it down and returns the result.
// The child is shut down even if producing the result fails.
// While the child is pending, c rejects Append, Switch, and other Modal calls.
//
// Waiting is bound to both ctx and c's cancellation signal.
// If either is cancelled, then Modal returns the context's error and the child is left running: shutting it down is up to the caller.
//
// Fails with [errorsx.ErrArgument] if the created content doesn't implement [ModalContent] for R,
// and with [errorsx.ErrInvalidOperation] if c is shut down or already waiting on a modal child.
func Modal[R any](ctx context.Context, c Content, factory Factory, param any) (R, error) {
	var zero R
	b := c.base()
	child := factory()
	mc, ok := child.(ModalContent[R])
	if !ok {
		return zero, errorsx.Argument("%s doesn't produce a modal result of type %s", typeName(child), reflect.TypeFor[R]())
	}
	if err := b.checkStructural("start a modal"); err != nil {
		return zero, err
	}

	ctx = b.managed.Link(ctx)
	cb := child.base()
	cb.modal = true
	attach(child, b.controller, b, param, nil)
	b.log.Debug("Starting modal content", "child", cb.String(), "result", reflect.TypeFor[R]())
	if err := cb.boot(ctx, nil); err != nil {
		return zero, cb.throw(err)
	}
	if err := ctx.Err(); err != nil {
		return zero, err
	}

	var result R
	resultErr := errorsx.Call("modal result", func() error {
		var err error
		result, err = mc.ModalResult(ctx)
		return err
	})
	if err := ctx.Err(); err != nil {
		return zero, err
	}

	slogx.Trace(b.log, "Shutting down modal content", "child", cb.String())
	shutdownErr := cb.throw(cb.doShutdown(ctx))
	if err := joinErrors(errorsx.CollectErrors().Add(resultErr).Add(shutdownErr)); err != nil {
		return zero, err
	}
	return result, nil
}

// ModalParam is the same as [Modal], using the Content named by p.
func ModalParam[R any](ctx context.Context, c Content, p Param) (R, error) {
	return Modal[R](ctx, c, p.NewContent, p)
}
