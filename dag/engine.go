package dag

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/arjuncodes/dagrunner/dag/emit"
)

// execState is the mutable state of a single run: every task's recorded
// Output and success flag, plus the run-wide continue latch.
//
// The abstract model (see §5 of the scheduler's design notes) only
// requires that each entry be written by its owning task and read by
// successors after that task's completion signal fires, which would make a
// general mutex unnecessary. Go's map type does not honor that reasoning,
// though: a concurrent write to any key races with a concurrent read or
// write to any other key because of how the runtime grows and rehashes the
// backing array. results and success are therefore guarded by mu rather
// than relying on per-key happens-before alone.
type execState struct {
	mu      sync.Mutex
	results map[TaskId]Output
	success map[TaskId]bool
	cont    atomic.Bool
}

func newExecState() *execState {
	es := &execState{
		results: make(map[TaskId]Output),
		success: make(map[TaskId]bool),
	}
	es.cont.Store(true)
	return es
}

func (es *execState) recordSuccess(id TaskId, out Output) {
	es.mu.Lock()
	defer es.mu.Unlock()
	es.results[id] = out
	es.success[id] = true
}

func (es *execState) recordFailure(id TaskId) {
	es.mu.Lock()
	defer es.mu.Unlock()
	es.success[id] = false
	es.cont.Store(false)
}

func (es *execState) recordSkipped(id TaskId) {
	es.mu.Lock()
	defer es.mu.Unlock()
	es.success[id] = false
}

func (es *execState) output(id TaskId) (Output, bool) {
	es.mu.Lock()
	defer es.mu.Unlock()
	out, succeeded := es.success[id]
	if !succeeded {
		return Output{}, false
	}
	o, ok := es.results[id]
	return o, ok
}

// Dag is the scheduler: it ingests Tasks, builds the dependency graph at
// Start, dispatches one goroutine per task, and collects per-task outputs
// and statuses. A Dag supports exactly one Start call.
type Dag struct {
	tasks    []Task
	taskByID map[TaskId]Task
	env      *Env
	emitter  emit.Emitter
	metrics  *Metrics
	runID    string

	started atomic.Bool

	g     *graph
	order []TaskId
	es    *execState
}

// New constructs a Dag, applying opts in order.
func New(opts ...Option) *Dag {
	d := &Dag{
		runID:   fmt.Sprintf("run-%d", NewID()),
		emitter: emit.NewNullEmitter(),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// AddTask ingests a single task. Must be called before Start.
func (d *Dag) AddTask(t Task) *Dag {
	d.tasks = append(d.tasks, t)
	return d
}

// SetEnv assigns the Env shared by every task of the run. Must be called
// before Start; Start freezes it against further writes.
func (d *Dag) SetEnv(env *Env) {
	d.env = env
}

// Start validates the ingested tasks, builds the dependency graph,
// computes a topological order, and runs the execution protocol to
// completion. It returns true if every task succeeded, false if any task
// failed or was skipped, and a non-nil error for any validation failure
// (in which case no action is ever invoked).
//
// Start may be called exactly once per Dag; a second call returns
// ErrAlreadyStarted without touching any state.
func (d *Dag) Start(ctx context.Context) (bool, error) {
	if !d.started.CompareAndSwap(false, true) {
		return false, ErrAlreadyStarted
	}

	if len(d.tasks) == 0 {
		return false, ErrEmptyRun
	}

	d.taskByID = make(map[TaskId]Task, len(d.tasks))
	for _, t := range d.tasks {
		d.taskByID[t.ID()] = t
	}

	for _, t := range d.tasks {
		if t.Action() == nil {
			return false, fmt.Errorf("%w: task %q", ErrEmptyAction, t.Name())
		}
		for _, pid := range t.Predecessors() {
			if pid == t.ID() {
				return false, fmt.Errorf("%w: task %q declares itself as a predecessor", ErrCycle, t.Name())
			}
			if _, ok := d.taskByID[pid]; !ok {
				return false, &UnknownPredecessorError{TaskName: t.Name(), PredecessorID: pid}
			}
		}
	}

	g := newGraph()
	for _, t := range d.tasks {
		g.addNode(t.ID())
	}
	for _, t := range d.tasks {
		for _, pid := range uniqueIDs(t.Predecessors()) {
			g.addEdge(pid, t.ID())
		}
	}

	order, err := g.topologicalOrder()
	if err != nil {
		return false, err
	}
	d.g = g
	d.order = order

	if d.env == nil {
		d.env = NewEnv()
	}
	d.env.freeze()

	d.es = newExecState()
	runStart := time.Now()

	d.emitter.Info(emit.Event{
		RunID: d.runID,
		Msg:   "run started",
		Meta:  map[string]any{"plannedOrder": orderNames(d.tasks, order)},
	})

	done := make(map[TaskId]chan struct{}, len(d.tasks))
	for _, id := range order {
		done[id] = make(chan struct{})
	}

	var wg sync.WaitGroup
	wg.Add(len(d.tasks))
	for _, id := range order {
		t := d.taskByID[id]
		go func(t Task) {
			defer wg.Done()
			defer close(done[t.ID()])
			d.runTask(ctx, t, done)
		}(t)
	}
	wg.Wait()

	overall := true
	d.es.mu.Lock()
	for _, ok := range d.es.success {
		if !ok {
			overall = false
			break
		}
	}
	d.es.mu.Unlock()

	d.metrics.observeRun(time.Since(runStart))
	_ = d.emitter.Flush(ctx)

	return overall, nil
}

// runTask is the body of a single task's unit of execution: it awaits its
// predecessors, checks the continue latch, assembles Input, and invokes
// the task's action.
func (d *Dag) runTask(ctx context.Context, t Task, done map[TaskId]chan struct{}) {
	preds := uniqueIDs(t.Predecessors())
	for _, pid := range preds {
		select {
		case <-done[pid]:
		case <-ctx.Done():
			d.es.recordFailure(t.ID())
			d.emitTask(t, "task failed", map[string]any{"error": ctx.Err().Error()})
			return
		}
	}

	if !d.es.cont.Load() {
		d.es.recordSkipped(t.ID())
		d.metrics.onSkipped()
		d.emitTask(t, "task skipped", nil)
		return
	}

	input := make(Input, 0, len(preds))
	for _, pid := range preds {
		out, ok := d.es.output(pid)
		if !ok || out.IsEmpty() {
			continue
		}
		input = append(input, out.Box())
	}

	d.metrics.onStarted()
	d.emitTask(t, "task started", nil)

	out, err := t.Action().Run(ctx, input, d.env)
	if err != nil {
		d.es.recordFailure(t.ID())
		d.metrics.onFinished("failed")
		d.emitTask(t, "task failed", map[string]any{"error": err.Error()})
		return
	}

	d.es.recordSuccess(t.ID(), out)
	d.metrics.onFinished("succeeded")
	d.emitTask(t, "task succeeded", nil)
}

func (d *Dag) emitTask(t Task, msg string, meta map[string]any) {
	e := emit.Event{RunID: d.runID, TaskID: uint64(t.ID()), TaskName: t.Name(), Msg: msg, Meta: meta}
	switch msg {
	case "task failed":
		d.emitter.Error(e)
	case "task skipped":
		d.emitter.Warn(e)
	default:
		d.emitter.Info(e)
	}
}

// sinkID returns the task conventionally treated as the run's final
// result: the last node of the planned topological order. Any node with a
// successor must appear strictly before that successor in a valid
// linearization, so the last node can never have one — it is always a
// sink. If the graph happens to have several sinks, this is the documented
// disambiguation rule.
func (d *Dag) sinkID() (TaskId, bool) {
	if len(d.order) == 0 {
		return 0, false
	}
	return d.order[len(d.order)-1], true
}

// Result retrieves the Output of the run's sink task (see Dag.sinkID),
// viewed as T. It returns ErrNoResult if the sink failed, was skipped, or
// produced an empty Output, and ErrTypeMismatch if the sink's Output holds
// a different concrete type than T.
func Result[T any](d *Dag) (T, error) {
	var zero T
	if d == nil || d.es == nil {
		return zero, ErrNoResult
	}
	id, ok := d.sinkID()
	if !ok {
		return zero, ErrNoResult
	}
	out, ok := d.es.output(id)
	if !ok || out.IsEmpty() {
		return zero, ErrNoResult
	}
	v, ok := UnwrapAs[T](out.Box())
	if !ok {
		return zero, ErrTypeMismatch
	}
	return v, nil
}

// uniqueIDs returns ids in first-occurrence order with later repeats
// dropped. A task's raw Predecessors() preserves declared duplicates (see
// BaseTask.SetPredecessors); the engine needs the de-duplicated view both
// to await each distinct predecessor's signal once and to assemble an
// Input with one entry per distinct predecessor.
func uniqueIDs(ids []TaskId) []TaskId {
	seen := make(map[TaskId]struct{}, len(ids))
	out := make([]TaskId, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func orderNames(tasks []Task, order []TaskId) []string {
	byID := make(map[TaskId]string, len(tasks))
	for _, t := range tasks {
		byID[t.ID()] = t.Name()
	}
	names := make([]string, len(order))
	for i, id := range order {
		names[i] = byID[id]
	}
	return names
}
