// Package dag provides a concurrent DAG task scheduler: tasks declare
// predecessors, the scheduler validates the resulting graph, computes a
// topological order, and dispatches tasks concurrently as soon as their
// predecessors have completed.
package dag

// ValueBox is a type-erased, immutable carrier for a single value of
// arbitrary, run-time-determined type. It is used for task Outputs, the
// entries of a task's Input, and the values held in an Env.
//
// Once constructed a ValueBox never changes; retrieval is a checked type
// assertion, never an implicit conversion, so a caller that asks for the
// wrong type gets a clean "not present" signal instead of a panic or a
// silently wrong value.
type ValueBox struct {
	v any
}

// Wrap stores x in a new ValueBox.
func Wrap(x any) ValueBox {
	return ValueBox{v: x}
}

// UnwrapAs returns the boxed value viewed as T. The second return value is
// false if the box is empty or the stored value is not exactly of type T;
// no widening or conversion is attempted.
func UnwrapAs[T any](b ValueBox) (T, bool) {
	v, ok := b.v.(T)
	return v, ok
}

// IsZero reports whether the box holds no value: it is the zero ValueBox,
// or it wraps nil.
func (b ValueBox) IsZero() bool {
	return b.v == nil
}
