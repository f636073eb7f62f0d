package dag

import "github.com/arjuncodes/dagrunner/dag/emit"

// Option configures a Dag at construction time.
type Option func(*Dag)

// WithEmitter injects the logging sink the Dag reports task lifecycle
// events to. The zero value (no option given) uses emit.NewNullEmitter.
func WithEmitter(e emit.Emitter) Option {
	return func(d *Dag) { d.emitter = e }
}

// WithMetrics attaches a Prometheus metrics recorder. Omit this option to
// run without metrics; every recording call is nil-safe.
func WithMetrics(m *Metrics) Option {
	return func(d *Dag) { d.metrics = m }
}

// WithEnv supplies the Env the run's tasks share. Equivalent to calling
// SetEnv before Start; a later SetEnv call overrides this option.
func WithEnv(env *Env) Option {
	return func(d *Dag) { d.env = env }
}

// WithRunID overrides the generated run identifier attached to every
// emitted Event. Useful for correlating a Dag's logs with an external
// request id.
func WithRunID(id string) Option {
	return func(d *Dag) { d.runID = id }
}

// WithTasks ingests tasks at construction time, equivalent to calling
// AddTask for each one in order.
func WithTasks(tasks []Task) Option {
	return func(d *Dag) {
		d.tasks = append(d.tasks, tasks...)
	}
}
