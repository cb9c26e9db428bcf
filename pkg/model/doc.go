// Package model implements the variable model engine: a hierarchical
// document of typed variables shared by the on-device dashboard, persistent
// storage, and the native-binding layer.
//
// Feature modules declare variables during their setup pass; declarations
// reconfirm existing nodes so that entries left over from a previous
// firmware revision can be swept as obsolete. At runtime, value mutation
// routes through event dispatch, which synchronizes native bindings,
// invokes the per-variable handler, and enqueues change notifications for
// external delivery.
//
// # Concurrency
//
// The tree is single-writer: all structural mutation and value access must
// happen on the goroutine that owns the model (the runtime runner delivers
// cross-task requests through its command queue). Handlers run on the owner
// goroutine and interact with engine state only via the Variable API. The
// change-notification queue and the response staging map are the two
// surfaces drained by external tasks; they are guarded by an internal
// mutex and safe to drain concurrently.
package model
