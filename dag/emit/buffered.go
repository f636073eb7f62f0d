package emit

import (
	"context"
	"sync"
)

// record pairs a captured Event with the level it was emitted at.
type record struct {
	level Level
	event Event
}

// BufferedEmitter captures every event in memory, keyed by RunID. It is
// meant for tests and short-lived debugging sessions, not for
// long-running production runs — nothing is ever evicted.
type BufferedEmitter struct {
	mu      sync.Mutex
	records map[string][]record
}

// NewBufferedEmitter returns an empty BufferedEmitter.
func NewBufferedEmitter() *BufferedEmitter {
	return &BufferedEmitter{records: make(map[string][]record)}
}

func (b *BufferedEmitter) Debug(e Event) { b.add(LevelDebug, e) }
func (b *BufferedEmitter) Info(e Event)  { b.add(LevelInfo, e) }
func (b *BufferedEmitter) Warn(e Event)  { b.add(LevelWarn, e) }
func (b *BufferedEmitter) Error(e Event) { b.add(LevelError, e) }

func (b *BufferedEmitter) add(lvl Level, e Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.records[e.RunID] = append(b.records[e.RunID], record{level: lvl, event: e})
}

// Flush is a no-op: events are already visible to History as soon as they
// are recorded.
func (b *BufferedEmitter) Flush(context.Context) error { return nil }

// History returns the events recorded for runID, in emission order.
func (b *BufferedEmitter) History(runID string) []Event {
	b.mu.Lock()
	defer b.mu.Unlock()

	recs := b.records[runID]
	out := make([]Event, len(recs))
	for i, r := range recs {
		out[i] = r.event
	}
	return out
}

// Clear discards the recorded history for runID.
func (b *BufferedEmitter) Clear(runID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.records, runID)
}
