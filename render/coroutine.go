package render

import "github.com/delaneyj/renderparty/lanes"

// Coroutine is a resumable unit of work driven by the session's drain loop.
// A resume may enqueue further coroutines onto the same session; they run in
// the same render phase. There is no language-level suspension: state lives
// in the implementing value and Resume is re-entered by the loop.
type Coroutine interface {
	Resume(s *UpdateSession) error
	Lanes() lanes.LaneSet
}

// FuncCoroutine adapts a plain function into a coroutine; handy for effects
// tests and benchmarks.
type FuncCoroutine struct {
	LaneSet lanes.LaneSet
	Fn      func(s *UpdateSession) error
}

func NewFuncCoroutine(ls lanes.LaneSet, fn func(s *UpdateSession) error) *FuncCoroutine {
	return &FuncCoroutine{LaneSet: ls, Fn: fn}
}

func (c *FuncCoroutine) Resume(s *UpdateSession) error {
	return c.Fn(s)
}

func (c *FuncCoroutine) Lanes() lanes.LaneSet {
	return c.LaneSet
}

// RenderFunc produces a component's declarative value for one render pass.
type RenderFunc func(s *UpdateSession, scope *Scope) (any, error)

// ComponentCoroutine is the minimal default component: a render function, a
// target part, and a scope. Each resume renders the value and reconciles it
// into the component's slot, enqueueing the slot's commit as a mutation
// effect when anything changed.
type ComponentCoroutine struct {
	name   string
	render RenderFunc
	part   Part
	scope  *Scope
	lanes  lanes.LaneSet
	slot   *Slot
}

func NewComponent(name string, render RenderFunc, part Part, scope *Scope, ls lanes.LaneSet) *ComponentCoroutine {
	return &ComponentCoroutine{
		name:   name,
		render: render,
		part:   part,
		scope:  scope,
		lanes:  ls,
	}
}

func (c *ComponentCoroutine) Name() string         { return c.name }
func (c *ComponentCoroutine) Scope() *Scope        { return c.scope }
func (c *ComponentCoroutine) Slot() *Slot          { return c.slot }
func (c *ComponentCoroutine) Lanes() lanes.LaneSet { return c.lanes }

func (c *ComponentCoroutine) Resume(s *UpdateSession) error {
	s.emit(Event{Kind: ComponentRenderStart, Component: c.name})

	value, err := c.render(s, c.scope)
	if err != nil {
		return err
	}

	if c.slot == nil {
		slot, err := s.ResolveSlot(value, c.part)
		if err != nil {
			return err
		}
		if err := slot.Connect(s); err != nil {
			return err
		}
		c.slot = slot
		s.EnqueueMutationEffect(slot)
	} else {
		changed, err := c.slot.Reconcile(value, s)
		if err != nil {
			return err
		}
		if changed {
			s.EnqueueMutationEffect(c.slot)
		}
	}

	s.emit(Event{Kind: ComponentRenderEnd, Component: c.name})
	return nil
}
