package render

import (
	"fmt"
	"reflect"
)

func directiveType(d Directive) reflect.Type {
	return reflect.TypeOf(d)
}

// SlotKind decides how a slot treats a directive-type change across
// updates: a strict slot rejects it, a loose slot swaps the binding out.
type SlotKind uint8

const (
	SlotStrict SlotKind = iota
	SlotLoose
)

func (k SlotKind) String() string {
	if k == SlotStrict {
		return "strict"
	}
	return "loose"
}

// Slot pairs a directive type with its binding at one part. It is the unit
// a component renders into and the unit the list directive materializes per
// item. A slot exclusively owns its binding's pending/committed buffers.
type Slot struct {
	kind     SlotKind
	part     Part
	dtype    reflect.Type
	binding  Binding
	hydrated bool
}

func (sl *Slot) Kind() SlotKind   { return sl.kind }
func (sl *Slot) Part() Part       { return sl.part }
func (sl *Slot) Binding() Binding { return sl.binding }

// Connect computes the binding's pending plan for the currently bound
// value.
func (sl *Slot) Connect(s *UpdateSession) error {
	return sl.binding.Connect(s)
}

// Commit applies the pending plan to the tree. Slots are enqueued as
// mutation effects, so this satisfies Effect.
func (sl *Slot) Commit() {
	sl.binding.Commit()
}

func (sl *Slot) Disconnect(s *UpdateSession) {
	sl.binding.Disconnect(s)
}

func (sl *Slot) Rollback() {
	sl.binding.Rollback()
}

// Reconcile binds a fresh value into the slot. It reports false when the
// value is referentially unchanged and the update can be skipped entirely.
// A changed directive type replaces the binding: the old one is detached
// and its rollback enqueued ahead of the new binding's commit.
func (sl *Slot) Reconcile(value any, s *UpdateSession) (bool, error) {
	d, err := s.ResolveDirective(value, sl.part)
	if err != nil {
		return false, err
	}
	dt := reflect.TypeOf(d)
	if dt != sl.dtype {
		if sl.kind == SlotStrict {
			return false, fmt.Errorf("render: strict %s slot cannot change directive type %v to %v (value %v)",
				sl.part.Kind, sl.dtype, dt, value)
		}
		old := sl.binding
		old.Disconnect(s)
		s.EnqueueMutationEffect(EffectFunc(old.Rollback))

		nb, err := d.ResolveBinding(sl.part, s)
		if err != nil {
			return false, err
		}
		sl.binding = nb
		sl.dtype = dt
		nb.Bind(value)
		return true, nb.Connect(s)
	}

	if !sl.binding.ShouldBind(value) {
		return false, nil
	}
	sl.binding.Bind(value)
	return true, sl.binding.Connect(s)
}

// Hydrate claims the existing tree shape produced by the server instead of
// creating fresh nodes. Valid exactly once, before the slot has committed
// anything; a second attempt is a programmer error.
func (sl *Slot) Hydrate(tree HydrationTree) error {
	if sl.hydrated || sl.binding.installed() {
		return &HydrationError{Part: sl.part}
	}
	if err := sl.binding.hydrate(tree); err != nil {
		return err
	}
	sl.hydrated = true
	return nil
}
