package dag

import "context"

// Input is the ordered sequence of Outputs produced by a task's
// predecessors, in the order the task declared them. A predecessor that was
// skipped or failed contributes no entry — Input never carries a nil
// placeholder for an absent predecessor output.
type Input []ValueBox

// At returns the i'th entry of the Input, or false if the index is out of
// range. Use UnwrapAs on the returned ValueBox to view it as a concrete type.
func (in Input) At(i int) (ValueBox, bool) {
	if i < 0 || i >= len(in) {
		return ValueBox{}, false
	}
	return in[i], true
}

// Output is the value a task's action produced, or an explicit empty
// marker for a task that ran successfully but yields nothing. A failing
// task never produces an Output.
type Output struct {
	box   ValueBox
	empty bool
}

// NewOutput wraps a produced value as an Output.
func NewOutput(v any) Output {
	return Output{box: Wrap(v)}
}

// EmptyOutput returns an Output representing "ran successfully, no value."
func EmptyOutput() Output {
	return Output{empty: true}
}

// IsEmpty reports whether this Output is the explicit empty marker.
func (o Output) IsEmpty() bool {
	return o.empty
}

// Box returns the ValueBox carried by a non-empty Output.
func (o Output) Box() ValueBox {
	return o.box
}

// ActionError is the opaque failure signal returned by an Action. The
// Engine only observes that an action failed; it never inspects Cause.
type ActionError struct {
	// Message describes the failure for logs and reporting.
	Message string

	// TaskName identifies which task's action produced this error. The
	// engine does not set it; it is empty unless the action fills it in.
	TaskName string

	// Cause is the underlying error, if any.
	Cause error
}

func (e *ActionError) Error() string {
	if e.TaskName != "" {
		return "task " + e.TaskName + ": " + e.Message
	}
	return e.Message
}

func (e *ActionError) Unwrap() error {
	return e.Cause
}

// NewActionError wraps cause (which may be nil) in an ActionError carrying
// message.
func NewActionError(message string, cause error) *ActionError {
	return &ActionError{Message: message, Cause: cause}
}

// Action is the behavior a task performs: given the Input assembled from
// its predecessors' outputs and the run-wide Env, produce an Output or
// report failure. For a single run, each task's action is invoked exactly
// once, so an Action implementation may keep internal state without
// needing to synchronize its own fields against concurrent re-entry — it
// must still be safe to run concurrently with the actions of unrelated
// tasks in the same run, since those execute on their own goroutines.
type Action interface {
	Run(ctx context.Context, in Input, env *Env) (Output, error)
}

// ActionFunc adapts a plain function to the Action interface, for tasks
// whose behavior needs no fields of its own.
type ActionFunc func(ctx context.Context, in Input, env *Env) (Output, error)

// Run implements Action.
func (f ActionFunc) Run(ctx context.Context, in Input, env *Env) (Output, error) {
	return f(ctx, in, env)
}
