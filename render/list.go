package render

import (
	"github.com/delaneyj/renderparty/reconcile"
)

// List returns the keyed repeat directive: one slot per item, reconciled
// against the previous items with the keyed diff so reorders become node
// moves instead of teardown and rebuild. Only valid at a child part.
func List[K comparable](items []reconcile.Keyed[K, any]) Directive {
	return listDirective[K]{items: items}
}

// ListOf builds the items for List from parallel key/value functions.
func ListOf[K comparable, V any](values []V, key func(V) K, render func(V) any) Directive {
	items := make([]reconcile.Keyed[K, any], len(values))
	for i, v := range values {
		items[i] = reconcile.KeyedOf[K, any](key(v), render(v))
	}
	return List(items)
}

type listDirective[K comparable] struct {
	items []reconcile.Keyed[K, any]
}

func (listDirective[K]) directiveMarker() {}

func (d listDirective[K]) ResolveBinding(part Part, s *UpdateSession) (Binding, error) {
	if part.Kind != ChildPart {
		return nil, &PartMismatchError{Expected: ChildPart, Part: part, Value: d}
	}
	return &listBinding[K]{part: part, backend: s.backend()}, nil
}

// listItem is one materialized list entry: a zero-width marker node owned by
// the item plus a slot whose content is anchored immediately before the
// marker. The item's node span is its slot content followed by the marker.
type listItem[K comparable] struct {
	key    K
	marker Node
	slot   *Slot
}

func (li *listItem[K]) span() []Node {
	var nodes []Node
	if li.slot != nil {
		if sp, ok := li.slot.binding.(nodeSpan); ok {
			nodes = append(nodes, sp.spanNodes()...)
		}
	}
	return append(nodes, li.marker)
}

func (li *listItem[K]) firstNode() Node {
	nodes := li.span()
	return nodes[0]
}

// listBinding reconciles keyed items into a child-part range. Connect runs
// the diff and stages the resulting tree operations; Commit replays them in
// order.
type listBinding[K comparable] struct {
	part    Part
	backend Backend

	value     any
	items     []reconcile.Keyed[K, any]
	committed []*listItem[K]
	staged    []*listItem[K]
	plan      []func()
	flags     bindingFlags
}

func (b *listBinding[K]) Value() any { return b.value }
func (b *listBinding[K]) Part() Part { return b.part }

func (b *listBinding[K]) ShouldBind(next any) bool {
	// Item slices are never referentially stable; always rebind and let the
	// per-item slots short-circuit.
	return true
}

func (b *listBinding[K]) Bind(next any) {
	if ld, ok := next.(listDirective[K]); ok {
		b.items = ld.items
	}
	b.value = next
	b.flags |= fBound
}

func (b *listBinding[K]) Connect(s *UpdateSession) error {
	// Each connect supersedes the previous pending plan wholesale, so a
	// repeated connect before commit cannot duplicate operations.
	b.plan = b.plan[:0]

	olds := make([]reconcile.Keyed[K, *listItem[K]], len(b.committed))
	for i, li := range b.committed {
		olds[i] = reconcile.KeyedOf(li.key, li)
	}

	ed := &listEditor[K]{b: b, s: s}
	b.staged = reconcile.Diff(olds, b.items, ed)
	if ed.err != nil {
		return ed.err
	}
	b.flags |= fDirty
	b.flags &^= fDetaching
	return nil
}

func (b *listBinding[K]) Commit() {
	if b.flags&fDirty == 0 {
		return
	}
	for _, op := range b.plan {
		op()
	}
	b.plan = b.plan[:0]
	b.committed = b.staged
	b.staged = nil
	if len(b.committed) > 0 {
		b.flags |= fInstalled
	}
	b.flags &^= fDirty
}

func (b *listBinding[K]) Disconnect(s *UpdateSession) {
	for _, li := range b.committed {
		if li.slot != nil {
			li.slot.Disconnect(s)
		}
	}
	b.flags |= fDetaching
	b.flags &^= fDirty
}

func (b *listBinding[K]) Rollback() {
	for _, li := range b.committed {
		if li.slot != nil {
			li.slot.Rollback()
		}
		b.backend.RemoveNode(b.part.Parent, li.marker)
	}
	b.committed = nil
	b.staged = nil
	b.plan = b.plan[:0]
	b.flags &^= fInstalled | fDetaching | fDirty | fBound
}

func (b *listBinding[K]) installed() bool {
	return b.flags&fInstalled != 0
}

func (b *listBinding[K]) hydrate(tree HydrationTree) error {
	// Claim the server-produced range anchor; items reconcile in on the
	// first connect.
	anchor, err := tree.PopNode(ChildPart, "")
	if err != nil {
		return err
	}
	b.part.Anchor = anchor
	return nil
}

func (b *listBinding[K]) spanNodes() []Node {
	var nodes []Node
	for _, li := range b.committed {
		nodes = append(nodes, li.span()...)
	}
	return nodes
}

func (b *listBinding[K]) stage(op func()) {
	b.plan = append(b.plan, op)
}

// listEditor receives reconciliation ops during connect. Child slots are
// resolved and connected immediately (render phase); tree mutation is staged
// into the binding's plan and replayed at commit. Anchor nodes resolve
// lazily at commit time, when every target to the right is already placed.
type listEditor[K comparable] struct {
	b   *listBinding[K]
	s   *UpdateSession
	err error
}

func (e *listEditor[K]) fail(err error) {
	if e.err == nil {
		e.err = err
	}
}

func (e *listEditor[K]) refNode(before **listItem[K]) Node {
	if before == nil || *before == nil {
		return e.b.part.Anchor
	}
	return (*before).firstNode()
}

func (e *listEditor[K]) Insert(item reconcile.Keyed[K, any], before **listItem[K]) *listItem[K] {
	li := &listItem[K]{key: item.Key, marker: e.b.backend.CreateText("")}

	slot, err := e.s.ResolveSlot(item.Value, Part{
		Kind:   ChildPart,
		Parent: e.b.part.Parent,
		Anchor: li.marker,
	})
	if err != nil {
		e.fail(err)
		return li
	}
	if err := slot.Connect(e.s); err != nil {
		e.fail(err)
		return li
	}
	li.slot = slot

	e.b.stage(func() {
		e.b.backend.InsertBefore(e.b.part.Parent, li.marker, e.refNode(before))
		slot.Commit()
	})
	return li
}

func (e *listEditor[K]) Move(target *listItem[K], item reconcile.Keyed[K, any], before **listItem[K]) *listItem[K] {
	if target.slot != nil {
		if _, err := target.slot.Reconcile(item.Value, e.s); err != nil {
			e.fail(err)
			return target
		}
	}
	e.b.stage(func() {
		ref := e.refNode(before)
		for _, n := range target.span() {
			e.b.backend.InsertBefore(e.b.part.Parent, n, ref)
		}
		if target.slot != nil {
			target.slot.Commit()
		}
	})
	return target
}

func (e *listEditor[K]) Update(target *listItem[K], item reconcile.Keyed[K, any]) *listItem[K] {
	if target.slot == nil {
		return target
	}
	changed, err := target.slot.Reconcile(item.Value, e.s)
	if err != nil {
		e.fail(err)
		return target
	}
	if changed {
		e.b.stage(func() { target.slot.Commit() })
	}
	return target
}

func (e *listEditor[K]) Remove(target *listItem[K]) {
	if target.slot != nil {
		target.slot.Disconnect(e.s)
	}
	e.b.stage(func() {
		if target.slot != nil {
			target.slot.Rollback()
		}
		e.b.backend.RemoveNode(e.b.part.Parent, target.marker)
	})
}
