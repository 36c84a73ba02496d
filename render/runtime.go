package render

import (
	"fmt"

	"github.com/petermattis/goid"

	"github.com/delaneyj/renderparty/lanes"
)

// Runtime owns the pending-task table, the observer list and the backend
// capability for its whole lifetime. It is explicitly constructed, never a
// package-level singleton, and its scheduling model is cooperative and
// single-threaded: every call must come from the goroutine that constructed
// it.
type Runtime struct {
	backend     Backend
	tasks       map[lanes.LaneSet]*Task
	byCoroutine map[Coroutine]*Task
	observers   []Observer
	templates   map[uint64]*Template
	sessionSeq  uint64
	owner       int64
}

func NewRuntime(backend Backend) *Runtime {
	return &Runtime{
		backend:     backend,
		tasks:       make(map[lanes.LaneSet]*Task),
		byCoroutine: make(map[Coroutine]*Task),
		templates:   make(map[uint64]*Template),
		owner:       goid.Get(),
	}
}

func (r *Runtime) Backend() Backend {
	return r.backend
}

// Observe appends a telemetry observer. The list is append-only.
func (r *Runtime) Observe(o Observer) {
	r.observers = append(r.observers, o)
}

func (r *Runtime) notify(ev Event) {
	for _, o := range r.observers {
		o.HandleEvent(ev)
	}
}

func (r *Runtime) checkOwner() {
	if g := goid.Get(); g != r.owner {
		panic(fmt.Sprintf(
			"render: runtime owned by goroutine %d used from goroutine %d; scheduling is cooperative and single-threaded",
			r.owner, g))
	}
}

// PendingTasks reports how many tasks have not resolved yet.
func (r *Runtime) PendingTasks() int {
	return len(r.tasks)
}

// ScheduleUpdate maps the options onto a lane-set and finds or creates the
// pending task for it, enqueueing the coroutine there. Scheduling the same
// coroutine at the same resulting lanes before the task resolves returns
// the same task; rescheduling it at different lanes merges the lane-sets
// (bitwise or) into its existing task. A fresh task kicks its flush through
// the backend's callback scheduler at the lane-set's priority.
func (r *Runtime) ScheduleUpdate(co Coroutine, opts lanes.Options) *Task {
	r.checkOwner()
	ls := lanes.FromOptions(opts)

	if prev, ok := r.byCoroutine[co]; ok && !prev.resolved {
		if prev.lanes != ls {
			merged := prev.lanes.Or(ls)
			delete(r.tasks, prev.lanes)
			prev.lanes = merged
			prev.session.lanes = merged
			r.tasks[merged] = prev
		}
		prev.enqueue(co)
		return prev
	}

	if t, ok := r.tasks[ls]; ok && !t.resolved {
		t.enqueue(co)
		r.byCoroutine[co] = t
		return t
	}

	t := newTask(r, ls)
	r.tasks[ls] = t
	r.byCoroutine[co] = t
	t.enqueue(co)

	pri, ok := ls.PriorityOf()
	if !ok {
		pri, _ = lanes.DefaultLanes.PriorityOf()
	}
	r.backend.RequestCallback(pri, t.flush)
	return t
}

func (r *Runtime) taskResolved(t *Task) {
	if cur, ok := r.tasks[t.lanes]; ok && cur == t {
		delete(r.tasks, t.lanes)
	}
	t.coroutines.Each(func(co Coroutine) bool {
		if r.byCoroutine[co] == t {
			delete(r.byCoroutine, co)
		}
		return false
	})
}
