package emit

import "context"

// Emitter is the injectable logging sink the scheduler reports task
// lifecycle events to. It is a simple four-level capability plus a flush,
// deliberately narrower than a general logging facade: the scheduler
// itself never branches on anything an Emitter does or returns.
//
// Implementations should be:
//   - Non-blocking: a slow sink must not slow down task execution.
//   - Thread-safe: every task runs on its own goroutine and may emit
//     concurrently with its siblings.
//   - Resilient: Debug/Info/Warn/Error must never panic.
type Emitter interface {
	Debug(e Event)
	Info(e Event)
	Warn(e Event)
	Error(e Event)

	// Flush blocks until any buffered events have been delivered, or ctx
	// is cancelled. Safe to call multiple times.
	Flush(ctx context.Context) error
}
