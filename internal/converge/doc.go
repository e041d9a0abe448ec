// Package converge polls remote resources until they reach a desired
// state.
//
// The CloudControl API only exposes asynchronous operations: a mutating
// call returns immediately and the resource settles some time later.
// [Await] bridges that gap. It re-fetches a snapshot at a fixed cadence
// and returns once a caller-supplied condition holds, the resource
// disappears (for delete-waits), the deadline elapses, or the fetch
// fails permanently. Transient fetch errors are tolerated within the
// deadline budget.
package converge
