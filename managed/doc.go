/*
Package managed tracks resources owned by a single lifecycle unit and releases them exactly once.

A [Holder] owns three kinds of things:
  - [Disposable] resources, released one at a time in registration order.
  - [AsyncDisposable] resources, released concurrently after every [Disposable] has been released.
  - A cancellation signal, exposed as [Holder.Context], that is cancelled last.

Release keeps going past individual failures, and returns every failure collected in an [errorsx.Collector].
Anything registered after release has happened is released immediately instead of being held.

Holders form a tree through their contexts: a Holder created from another Holder's context is cancelled when its parent is, but never released by it.
Cancellation only unblocks work that opted into the signal, it doesn't release resources.

[errorsx.Collector]: github.com/saylorsolutions/contents/errorsx
*/
package managed
