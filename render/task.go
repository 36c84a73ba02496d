package render

import (
	mapset "github.com/deckarep/golang-set/v2"

	"github.com/delaneyj/renderparty/lanes"
)

// Task identifies one scheduled unit of work: the pending-task-table entry
// for a lane-set. Rapid repeated updates at the same priority collapse into
// one task (and therefore one flush); a task resolves once its session fully
// drains.
type Task struct {
	runtime    *Runtime
	lanes      lanes.LaneSet
	session    *UpdateSession
	coroutines mapset.Set[Coroutine]

	done     chan struct{}
	err      error
	resolved bool
	flushing bool
}

func newTask(rt *Runtime, ls lanes.LaneSet) *Task {
	return &Task{
		runtime:    rt,
		lanes:      ls,
		session:    NewUpdateSession(ls, rt),
		coroutines: mapset.NewThreadUnsafeSet[Coroutine](),
		done:       make(chan struct{}),
	}
}

func (t *Task) Lanes() lanes.LaneSet    { return t.lanes }
func (t *Task) Session() *UpdateSession { return t.session }
func (t *Task) Resolved() bool          { return t.resolved }
func (t *Task) Done() <-chan struct{}   { return t.done }

// Err reports the render error the session resolved with, if any. Only
// meaningful after Done is closed.
func (t *Task) Err() error { return t.err }

// enqueue adds the coroutine unless it is already pending under this task.
// The coalescing set is what makes double scheduling a no-op.
func (t *Task) enqueue(co Coroutine) {
	if t.coroutines.Add(co) {
		t.session.EnqueueCoroutine(co)
	}
}

// flush drives the session asynchronously through the backend scheduler.
func (t *Task) flush() {
	if t.resolved || t.flushing {
		return
	}
	t.flushing = true
	t.session.FlushAsync(t.complete)
}

// FlushSync drains the task's session synchronously and resolves it. Hosts
// without a callback scheduler drive tasks through this.
func (t *Task) FlushSync() error {
	if t.resolved {
		return t.err
	}
	t.flushing = true
	err := t.session.FlushSync()
	t.complete(err)
	return err
}

func (t *Task) complete(err error) {
	if t.resolved {
		return
	}
	t.err = err
	t.resolved = true
	t.runtime.taskResolved(t)
	close(t.done)
}
