package contents

import (
	"context"
	"log/slog"
	"sync"

	"github.com/saylorsolutions/contents/errorsx"
	"github.com/saylorsolutions/contents/patterns/caller"
	"github.com/saylorsolutions/contents/syncx"
)

// Controller owns a lifecycle tree: its root unit, the root dispatch scope, and the root module collection.
// Errors that no unit handles end up at the Controller.
type Controller struct {
	cfg     Config
	log     *slog.Logger
	ctx     context.Context
	call    *caller.Call
	modules *ModuleCollection

	mux      sync.RWMutex
	root     *Base
	handlers []func(err error) bool
}

// ControllerOption configures a [Controller].
type ControllerOption func(c *Controller)

func WithConfig(cfg Config) ControllerOption {
	return func(c *Controller) {
		c.cfg = cfg
	}
}

func WithLogger(log *slog.Logger) ControllerOption {
	return func(c *Controller) {
		if log != nil {
			c.log = log
		}
	}
}

// WithContext sets the context that every unit's cancellation signal derives from.
// Cancelling it cancels every unit's signal, but doesn't shut anything down.
func WithContext(ctx context.Context) ControllerOption {
	return func(c *Controller) {
		if ctx != nil {
			c.ctx = ctx
		}
	}
}

// NewController creates a [Controller] that is ready to boot.
func NewController(opts ...ControllerOption) *Controller {
	c := &Controller{
		cfg: DefaultConfig(),
		log: slog.Default(),
		ctx: context.Background(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.call = caller.New(caller.WithLogger(c.log))
	c.modules = NewModuleCollection(nil)
	c.modules.log = c.log
	return c
}

func (c *Controller) Config() Config {
	return c.cfg
}

func (c *Controller) Logger() *slog.Logger {
	return c.log
}

// Call returns the root dispatch scope.
// Every unit's scope is beneath it.
func (c *Controller) Call() *caller.Call {
	return c.call
}

// Modules returns the root module collection, whose modules run for every unit.
func (c *Controller) Modules() *ModuleCollection {
	return c.modules
}

// Root returns the root unit, or nil if the Controller isn't booted.
func (c *Controller) Root() Content {
	if root := c.rootBase(); root != nil {
		return root.self
	}
	return nil
}

func (c *Controller) rootBase() *Base {
	return syncx.RLockFuncT(&c.mux, func() *Base {
		return c.root
	})
}

func (c *Controller) replaceRoot(old, next *Base) {
	syncx.LockFunc(&c.mux, func() {
		if c.root == old {
			c.root = next
		}
	})
}

func (c *Controller) clearRoot(old *Base) {
	c.replaceRoot(old, nil)
}

func (c *Controller) childUnits() []*Base {
	if root := c.rootBase(); root != nil {
		return root.childUnits()
	}
	return nil
}

// OnException registers a callback for errors that reach the Controller.
// Callbacks are called in registration order until one returns true.
// Errors that no callback handles are logged.
func (c *Controller) OnException(fn func(err error) bool) {
	syncx.LockFunc(&c.mux, func() {
		c.handlers = append(c.handlers, fn)
	})
}

func (c *Controller) offer(err error) bool {
	handlers := syncx.RLockFuncT(&c.mux, func() []func(error) bool {
		return append([]func(error) bool(nil), c.handlers...)
	})
	for _, h := range handlers {
		if h(err) {
			return true
		}
	}
	c.log.Error("Unhandled error", "error", err)
	return false
}

// Boot creates the root unit from factory and boots it.
// Fails with [errorsx.ErrInvalidOperation] if there's already a root.
func (c *Controller) Boot(ctx context.Context, factory Factory, param any) (Content, error) {
	root := factory()
	rb := syncx.LockFuncT(&c.mux, func() *Base {
		if c.root != nil {
			return nil
		}
		c.root = attach(root, c, nil, param, nil)
		return c.root
	})
	if rb == nil {
		return nil, errorsx.InvalidOperation("controller is already booted")
	}
	c.log.Debug("Booting root content", "root", rb.String())
	if err := rb.boot(ctx, nil); err != nil {
		return root, rb.throw(err)
	}
	return root, nil
}

// BootRoot boots a root unit that appends each of the contents in param.
func (c *Controller) BootRoot(ctx context.Context, param BootParam) (Content, error) {
	return c.Boot(ctx, Of[rootContent](), param)
}

// Shutdown shuts the root unit down, after which the Controller may be booted again.
// Fails with [errorsx.ErrInvalidOperation] if there's no root.
func (c *Controller) Shutdown(ctx context.Context) error {
	root := c.rootBase()
	if root == nil {
		return errorsx.InvalidOperation("controller is not booted")
	}
	return root.Shutdown(ctx)
}

// Message delivers a single-responder event through the whole tree.
func (c *Controller) Message(key any, payload ...any) bool {
	return c.call.Message(key, payload...)
}

// Broadcast delivers an event to every responder in the tree.
func (c *Controller) Broadcast(key any, payload ...any) bool {
	return c.call.Broadcast(key, payload...)
}
