// Package runner implements the frame build dispatch engine.
//
// A run wires together a producer, a bounded task queue, a fixed pool of
// workers, and a single result collector:
//
//	producer -> task queue -> workers -> result channel -> collector
//
// The producer emits frame indexes in ascending order into a queue with
// capacity 2x the worker count, so a slow pool applies backpressure instead
// of buffering the whole range. Each worker pulls an index, invokes the
// Executor, and reports an Outcome. The first failed outcome trips a shared
// cancel token: the producer stops emitting, idle workers exit, and workers
// that already dequeued an index drop it without executing.
//
// The collector is deliberately fail-fast: after observing the first failure
// it stops reading results and finalizes the run. Outcomes from workers that
// were still in flight are never read; the result channel is buffered for
// the whole range so those sends can never block a worker.
//
// Progress reporting is advisory. Snapshots flow through a callback and are
// throttled to roughly one per second plus a final emission; nothing in the
// run's control path consults them.
package runner
