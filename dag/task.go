package dag

// Task is the scheduling unit: an id, a display name, the ids of the tasks
// that must complete before it runs, and the Action to invoke once they
// have. Any type implementing this interface can be scheduled by a Dag;
// BaseTask is the default concrete implementation most callers use
// directly.
type Task interface {
	ID() TaskId
	Name() string
	Predecessors() []TaskId
	Action() Action
	SetPredecessors(tasks []Task)
}

// BaseTask is the default concrete Task: it stores the four mandatory
// fields directly. Callers who need extra bookkeeping (labels, tags,
// retries) embed BaseTask in their own struct rather than reimplementing
// Task from scratch.
type BaseTask struct {
	id           TaskId
	name         string
	predecessors []TaskId
	action       Action
}

// NewTask creates a named task with an inline or stateful Action already in
// hand. action may be nil; a Dag that tries to Start with a nil action on
// any task reports ErrEmptyAction rather than running it.
func NewTask(name string, action Action) *BaseTask {
	return &BaseTask{id: NewID(), name: name, action: action}
}

// NewTaskFunc creates a named task from a plain function, adapting it via
// ActionFunc.
func NewTaskFunc(name string, fn ActionFunc) *BaseTask {
	return NewTask(name, fn)
}

// NewNamedTask creates a task with a name but no action; callers assign one
// with SetAction before the task is ingested by a Dag.
func NewNamedTask(name string) *BaseTask {
	return &BaseTask{id: NewID(), name: name}
}

// ID implements Task.
func (t *BaseTask) ID() TaskId { return t.id }

// Name implements Task.
func (t *BaseTask) Name() string { return t.name }

// Predecessors implements Task.
func (t *BaseTask) Predecessors() []TaskId { return t.predecessors }

// Action implements Task.
func (t *BaseTask) Action() Action { return t.action }

// SetAction assigns the task's action post-construction, for the
// name-only constructor path.
func (t *BaseTask) SetAction(action Action) { t.action = action }

// SetPredecessors implements Task. Predecessors are recorded as ids, in
// the order given; duplicates are preserved here and collapsed later by
// the Graph when edges are inserted.
func (t *BaseTask) SetPredecessors(tasks []Task) {
	ids := make([]TaskId, len(tasks))
	for i, p := range tasks {
		ids[i] = p.ID()
	}
	t.predecessors = ids
}

// DependsOn is a convenience wrapper around SetPredecessors for the common
// case of listing predecessor tasks as variadic arguments.
func (t *BaseTask) DependsOn(tasks ...Task) *BaseTask {
	t.SetPredecessors(tasks)
	return t
}
