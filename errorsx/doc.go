/*
Package errorsx provides the error taxonomy shared by the lifecycle and event routing packages, along with helpers for collecting many errors into one and converting panics into errors.

There are a few patterns that are supported:
  - Sentinel errors ([ErrInvalidOperation], [ErrArgument]) that callers match with [errors.Is].
  - Wrapping a failure with the operation and unit it happened in ([HandlerError]).
  - Recovering a panic as a regular error with a captured stack ([PanicError], [Recover]).
  - Collecting many possible errors into one without short-circuiting ([Collector]).
*/
package errorsx
