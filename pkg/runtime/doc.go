// Package runtime drives the variable model engine: it owns the goroutine
// on which all tree mutation happens, runs the fast tick (one-time
// post-boot cleanup, pending-save flush) and the slow tick (telemetry
// handler refresh), and delivers cross-task requests through a command
// queue so the single-writer discipline of the model holds.
package runtime
