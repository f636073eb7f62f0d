package dag

import "sync/atomic"

// TaskId identifies a task uniquely within a process. Assignment is
// monotonic and ids are never reused, regardless of how many Dags or runs
// share the process.
type TaskId uint64

// idCounter is the process-wide monotonic source for TaskId values.
// Test suites that construct many tasks across tests must not assume ids
// reset per test; only uniqueness and monotonicity are guaranteed.
var idCounter uint64

// NewID returns the next TaskId in the process-wide monotonic sequence.
// It is safe for concurrent use.
func NewID() TaskId {
	return TaskId(atomic.AddUint64(&idCounter, 1))
}
