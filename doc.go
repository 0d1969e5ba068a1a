/*
Package contents is the root of a small toolkit for managing nested, composable units of application state ("contents") and routing typed events between them.

The interesting parts live in sub-packages:
  - [github.com/saylorsolutions/contents/contents] drives the lifecycle tree: boot, run, suspend, switch, modal sub-flows and shutdown, with cross-cutting modules hooked into every phase.
  - [github.com/saylorsolutions/contents/patterns/caller] is a hierarchical event router with single-responder messages and all-responder broadcasts.
  - [github.com/saylorsolutions/contents/managed] tracks resources owned by one unit and releases them exactly once.
  - [github.com/saylorsolutions/contents/structures/orderedset] is the insertion-ordered set that both trees iterate while callbacks mutate it.

Supporting packages follow the naming of the standard packages they extend (syncx, slogx, errorsx, contextx, signalx, env).
The contents-demo command under cmd boots a scene tree from a YAML plan and prints the lifecycle trace.
*/
package contents
