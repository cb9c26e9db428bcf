// Package persistence saves and loads the variable model tree to a JSON
// file. Engine-owned state (handler identity, dash flag, order, native
// bindings, pre-change values) lives outside the document fields and is
// never written. Files carry the writing engine's version; a stamp this
// engine cannot read is refused like a corrupt file. A missing, corrupt,
// or incompatible file resets the tree to an empty top-level sequence;
// the store never yields a partially parsed tree.
package persistence
