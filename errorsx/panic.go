package errorsx

import (
	"fmt"
	"runtime"
	"strconv"
	"strings"
)

// PanicError is a recovered panic.
type PanicError struct {
	Op    string
	Value any
	Stack string
}

func (e *PanicError) Error() string {
	return fmt.Sprintf("panic in %s: %v", e.Op, e.Value)
}

// Unwrap returns the panic value if it was an error.
func (e *PanicError) Unwrap() error {
	if err, ok := e.Value.(error); ok {
		return err
	}
	return nil
}

// Recover is meant to be deferred, and will convert a panic into a [PanicError] stored in target.
// If target already holds an error, then the panic error is joined with it through a [Collector].
//
//	func run() (err error) {
//		defer errorsx.Recover("run", &err)
//		...
//	}
func Recover(op string, target *error) {
	r := recover()
	if r == nil {
		return
	}
	perr := &PanicError{
		Op:    op,
		Value: r,
		Stack: CaptureStack(),
	}
	if target == nil {
		panic(perr)
	}
	if *target != nil {
		*target = CollectErrors().Add(*target).Add(perr).Result()
		return
	}
	*target = perr
}

// Call runs fn, converting any panic into a [PanicError].
func Call(op string, fn func() error) (err error) {
	defer Recover(op, &err)
	return fn()
}

// CaptureStack returns the current call stack as a string.
// It skips the frames belonging to the panic machinery and this function.
func CaptureStack() string {
	const maxDepth = 32
	var pcs [maxDepth]uintptr
	n := runtime.Callers(4, pcs[:])
	if n == 0 {
		return ""
	}
	frames := runtime.CallersFrames(pcs[:n])
	var sb strings.Builder
	for {
		frame, more := frames.Next()
		sb.WriteString(frame.Function)
		sb.WriteString("\n\t")
		sb.WriteString(frame.File)
		sb.WriteString(":")
		sb.WriteString(strconv.Itoa(frame.Line))
		sb.WriteString("\n")
		if !more {
			break
		}
	}
	return sb.String()
}
