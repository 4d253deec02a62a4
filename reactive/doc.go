// Package reactive turns a plain data object into a transparently observed
// facade: reading a property records a dependency, writing one notifies
// matching subscribers and asks the host component framework for a
// re-render. It ships copy-on-write isolation for objects shared between
// instances and a capped undo/redo history log.
//
// The engine is single-threaded by design; all per-instance state is owned
// by one logical component instance. Only the copy-on-write registry is
// shared across instances.
package reactive
