package errorsx

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidOperation is returned when a transition is illegal given the current state of a unit.
	ErrInvalidOperation = errors.New("invalid operation")
	// ErrArgument is returned when a given type or value doesn't satisfy a required capability.
	ErrArgument = errors.New("invalid argument")
)

// InvalidOperation creates an error wrapping [ErrInvalidOperation] with a formatted reason.
func InvalidOperation(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidOperation, fmt.Sprintf(format, args...))
}

// Argument creates an error wrapping [ErrArgument] with a formatted reason.
func Argument(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrArgument, fmt.Sprintf(format, args...))
}

// HandlerError reports a failure raised inside a unit's own override or a module hook.
type HandlerError struct {
	Op      string // Op is the phase or operation that failed, like "boot" or "module.PreRun".
	Content string // Content describes the unit the failure happened in.
	Err     error
}

// Handler wraps err in a [HandlerError].
// A nil err returns nil, and an err that is already a [HandlerError] is returned as-is so wrapping doesn't stack up while bubbling through the tree.
func Handler(op, content string, err error) error {
	if err == nil {
		return nil
	}
	var herr *HandlerError
	if errors.As(err, &herr) {
		return err
	}
	return &HandlerError{Op: op, Content: content, Err: err}
}

func (e *HandlerError) Error() string {
	if len(e.Content) == 0 {
		return fmt.Sprintf("%s failed: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s failed in %s: %v", e.Op, e.Content, e.Err)
}

func (e *HandlerError) Unwrap() error {
	return e.Err
}
