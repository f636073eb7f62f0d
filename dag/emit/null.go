package emit

import "context"

// NullEmitter discards every event. It is the default sink for callers
// that have no need for task-lifecycle observability.
type NullEmitter struct{}

// NewNullEmitter returns an Emitter that does nothing.
func NewNullEmitter() *NullEmitter { return &NullEmitter{} }

func (NullEmitter) Debug(Event) {}
func (NullEmitter) Info(Event)  {}
func (NullEmitter) Warn(Event)  {}
func (NullEmitter) Error(Event) {}

func (NullEmitter) Flush(context.Context) error { return nil }
