package contents

import (
	"context"
	"fmt"
	"log/slog"
	"reflect"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/saylorsolutions/contents/managed"
	"github.com/saylorsolutions/contents/patterns/caller"
	"github.com/saylorsolutions/contents/structures/orderedset"
	"github.com/saylorsolutions/contents/syncx"
)

// Content is a unit of the lifecycle tree.
//
// Implementations embed [Base], which provides the lifecycle operations and no-op overrides for every hook.
// Override only the hooks that matter:
//
//	type Menu struct {
//		contents.Base
//	}
//
//	func (m *Menu) OnBoot(ctx context.Context) error {
//		...
//	}
//
// A Content must be used as a pointer, and must only be created through a [Factory] passed to an operation like [Base.Append].
type Content interface {
	OnBoot(ctx context.Context) error
	OnEnable(ctx context.Context) error
	OnRun(ctx context.Context) error
	OnCompleteRun()
	OnSuspend(ctx context.Context) error
	OnDisable(ctx context.Context) error
	OnPreShutdown()
	OnShutdown(ctx context.Context) error
	// HandleError is offered every failure raised in this unit or its descendants.
	// Returning true stops the failure from being offered to the parent.
	// Returning a new error routes that error to the parent separately, while the original continues to the parent as well.
	HandleError(err error) (handled bool, newErr error)

	base() *Base
}

// Factory creates a new, unattached [Content].
type Factory func() Content

type contentPtr[T any] interface {
	*T
	Content
}

// Of creates a [Factory] for the Content type T.
func Of[T any, PT contentPtr[T]]() Factory {
	return func() Content {
		return PT(new(T))
	}
}

// Param is a boot parameter that names the [Content] it boots.
type Param interface {
	NewContent() Content
}

// ContentParam may be embedded in a parameter struct to implement [Param] for the Content type T.
//
//	type MenuParam struct {
//		contents.ContentParam[Menu, *Menu]
//		Title string
//	}
type ContentParam[T any, PT contentPtr[T]] struct{}

func (ContentParam[T, PT]) NewContent() Content {
	return PT(new(T))
}

type lockCategory int

const (
	lockBoot lockCategory = iota
	lockRunOrSuspend
	lockEnableOrDisable
	lockShutdown
)

func (c lockCategory) String() string {
	switch c {
	case lockBoot:
		return "Boot"
	case lockRunOrSuspend:
		return "RunOrSuspend"
	case lockEnableOrDisable:
		return "EnableOrDisable"
	case lockShutdown:
		return "Shutdown"
	default:
		return fmt.Sprintf("lockCategory(%d)", int(c))
	}
}

// Base implements the lifecycle of a [Content], and is embedded in every Content implementation.
type Base struct {
	self       Content
	id         uuid.UUID
	name       string
	parent     *Base
	controller *Controller
	param      any
	modal      bool

	managed  *managed.Holder
	children orderedset.OrderedSet[*Base]
	modules  *ModuleCollection
	call     *caller.Call
	handle   *caller.Handle
	locks    *syncx.CategoryLock[lockCategory]
	log      *slog.Logger

	state    atomic.Int32
	running  atomic.Bool
	shutdown atomic.Bool
}

func (b *Base) base() *Base {
	return b
}

// attach links a new unit into the tree before it boots.
// If after is non-nil, then the unit takes the slot directly after it.
func attach(self Content, ctrl *Controller, parent *Base, param any, after *Base) *Base {
	b := self.base()
	if b.self != nil {
		panic("contents: a Content may only be attached once")
	}
	b.self = self
	b.id = uuid.New()
	b.name = typeName(self)
	b.parent = parent
	b.controller = ctrl
	b.param = param
	b.locks = syncx.NewCategoryLock[lockCategory](ctrl.cfg.LockTimeout)
	b.log = ctrl.log.With("content", b.name, "id", b.id)

	var (
		parentCtx   = ctrl.ctx
		parentCall  = ctrl.call
		parentMods  = ctrl.modules
		siblingCall *caller.Call
	)
	if parent != nil {
		parentCtx = parent.managed.Context()
		parentCall = parent.call
		parentMods = parent.modules
	}
	if after != nil {
		siblingCall = after.call
	}
	b.managed = managed.NewHolder(parentCtx,
		managed.WithConcurrency(ctrl.cfg.ReleaseConcurrency),
		managed.WithLogger(b.log),
	)
	b.modules = NewModuleCollection(parentMods)
	b.call = parentCall.SubCallAfter(siblingCall)
	b.handle = b.call.Bind(self)
	// Bindings respond once the unit is enabled.
	b.handle.SetEnabledAll(false)
	b.state.Store(int32(StateCreated))

	if parent != nil {
		if after != nil {
			parent.children.InsertAfter(after, b)
		} else {
			parent.children.Add(b)
		}
	}
	return b
}

func typeName(c Content) string {
	t := reflect.TypeOf(c)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	return t.String()
}

func describe(c Content) string {
	if c == nil {
		return ""
	}
	b := c.base()
	if b.self == nil {
		return typeName(c)
	}
	return fmt.Sprintf("%s(%s)", b.name, b.id.String()[:8])
}

func (b *Base) String() string {
	if b.self == nil {
		return "<unattached content>"
	}
	return describe(b.self)
}

// ID returns the unique identity assigned when the unit was attached to the tree.
func (b *Base) ID() uuid.UUID {
	return b.id
}

// Param returns the boot parameter given when the unit was created.
func (b *Base) Param() any {
	return b.param
}

// Parent returns the parent unit, or nil for the root.
func (b *Base) Parent() Content {
	if b.parent == nil {
		return nil
	}
	return b.parent.self
}

// Controller returns the [Controller] that owns the tree.
func (b *Base) Controller() *Controller {
	return b.controller
}

// Managed returns the resources owned by this unit, released when it shuts down.
func (b *Base) Managed() *managed.Holder {
	return b.managed
}

// Context returns the unit's cancellation signal, which is cancelled when the unit or any ancestor shuts down.
func (b *Base) Context() context.Context {
	return b.managed.Context()
}

// Modules returns the module collection for this unit and its descendants, chained to the parent's collection.
func (b *Base) Modules() *ModuleCollection {
	return b.modules
}

// Call returns the dispatch scope of this unit.
// Paths subscribed to it are disposed when the unit shuts down.
func (b *Base) Call() *caller.Call {
	return b.call
}

// Handle returns the bindings of this unit's declared event handlers.
// They're enabled while the unit is running.
func (b *Base) Handle() *caller.Handle {
	return b.handle
}

// Logger returns a logger carrying the unit's type and ID.
func (b *Base) Logger() *slog.Logger {
	return b.log
}

// Running reports whether the unit is enabled.
func (b *Base) Running() bool {
	return b.running.Load()
}

// IsShutdown reports whether shutdown has started for this unit.
func (b *Base) IsShutdown() bool {
	return b.shutdown.Load()
}

// State returns the unit's current lifecycle state.
func (b *Base) State() State {
	return State(b.state.Load())
}

// IsModal reports whether the unit was started with [Modal].
func (b *Base) IsModal() bool {
	return b.modal
}

// WaitingModal reports whether a child started with [Modal] is still pending.
func (b *Base) WaitingModal() bool {
	for child := range b.children.All() {
		if child.modal {
			return true
		}
	}
	return false
}

// HasChildren reports whether the unit has any children.
func (b *Base) HasChildren() bool {
	return b.children.Len() > 0
}

// Children returns the unit's children in order.
func (b *Base) Children() []Content {
	var children []Content
	for child := range b.children.All() {
		children = append(children, child.self)
	}
	return children
}

func (b *Base) childUnits() []*Base {
	return b.children.Slice()
}

// No-op overrides.

func (b *Base) OnBoot(context.Context) error     { return nil }
func (b *Base) OnEnable(context.Context) error   { return nil }
func (b *Base) OnRun(context.Context) error      { return nil }
func (b *Base) OnCompleteRun()                   {}
func (b *Base) OnSuspend(context.Context) error  { return nil }
func (b *Base) OnDisable(context.Context) error  { return nil }
func (b *Base) OnPreShutdown()                   {}
func (b *Base) OnShutdown(context.Context) error { return nil }

func (b *Base) HandleError(error) (bool, error) {
	return false, nil
}

// ParamAs returns the boot parameter of c as a T.
// Returns false if there is no parameter, or it isn't a T.
func ParamAs[T any](c Content) (T, bool) {
	p, ok := c.base().param.(T)
	return p, ok
}

// State is a lifecycle state of a [Content].
type State int32

const (
	StateCreated State = iota
	StateBooting
	StateRunning
	StateSuspended
	StateShuttingDown
	StateShutdown
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "Created"
	case StateBooting:
		return "Booting"
	case StateRunning:
		return "Running"
	case StateSuspended:
		return "Suspended"
	case StateShuttingDown:
		return "ShuttingDown"
	case StateShutdown:
		return "Shutdown"
	default:
		return fmt.Sprintf("State(%d)", int32(s))
	}
}
