/*
Package contents manages the lifecycle of nested, composable units of application state, like screens or modes.

# Units

Every unit is a [Content] embedding [Base], and lives in a tree owned by a [Controller].
A unit moves through these states:

	Created -> Booting -> Running <-> Suspended -> ShuttingDown -> Shutdown

Booting always continues into running.
Enabling and disabling reach every child that exists when the pass starts.
Shutdown reaches every child before the unit's own resources are released, and can only happen once.

Transitions of the same kind on the same unit never overlap.
The kinds are boot, run or suspend, enable or disable, and shutdown.
Transitions of different kinds, or on different units, may overlap freely.

Each unit owns:
  - A [managed.Holder] for resources that are released at shutdown.
  - A dispatch scope ([caller.Call]) beneath its parent's, with the unit's declared handlers bound to it while it's running.
  - A [ModuleCollection] chained to its parent's.

# Structural operations

[Base.Append] boots a new child, [Base.Switch] replaces a unit with a new one in the same slot, and [Modal] boots a child and waits for its result.
A unit waiting on a modal child rejects every structural operation until the modal child finishes.

# Modules

A [Module] declares the [Phase] set it participates in, and runs for every unit beneath the collection it's added to.
Hooks run one after another: ancestor collections before descendant collections, and in the order modules were added within a collection.
The first failing hook stops the transition.
Use [Combine] to run several modules concurrently as one.

# Errors

A failure inside an override or hook is wrapped in an [errorsx.HandlerError] and offered to the failing unit's [Content.HandleError].
If it isn't handled, then it's offered to the parent, and so on up to the Controller's [Controller.OnException] callbacks.
Errors that nothing handles are logged by the Controller.
Either way, the error is also returned to the caller of the operation.

[managed.Holder]: github.com/saylorsolutions/contents/managed
[caller.Call]: github.com/saylorsolutions/contents/patterns/caller
[errorsx.HandlerError]: github.com/saylorsolutions/contents/errorsx
*/
package contents
