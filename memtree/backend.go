package memtree

import (
	"fmt"

	"github.com/delaneyj/renderparty/lanes"
	"github.com/delaneyj/renderparty/render"
)

type callback struct {
	pri lanes.Priority
	fn  func()
}

// Backend implements render.Backend over the in-memory tree. The default
// backend runs requested callbacks immediately, which makes scheduled
// updates fully synchronous; a manual backend queues them so tests can step
// through the yield points of an asynchronous flush one at a time.
type Backend struct {
	// Manual switches RequestCallback from immediate invocation to the
	// priority queue drained by Step/Drain.
	Manual bool

	// Transitions counts commits wrapped in StartViewTransition.
	Transitions int

	queue []callback
}

func NewBackend() *Backend {
	return &Backend{}
}

func NewManualBackend() *Backend {
	return &Backend{Manual: true}
}

func (b *Backend) ResolvePrimitive(value any, part render.Part) (render.Directive, error) {
	switch part.Kind {
	case render.TextPart, render.ChildPart:
		return render.Text(value), nil
	case render.AttributePart:
		return render.Attr(value), nil
	default:
		return nil, &render.PartMismatchError{Expected: render.ChildPart, Part: part, Value: value}
	}
}

func (b *Backend) ResolveSlotKind(value any, part render.Part) render.SlotKind {
	return render.SlotLoose
}

func (b *Backend) RequestCallback(pri lanes.Priority, fn func()) {
	if !b.Manual {
		fn()
		return
	}
	b.queue = append(b.queue, callback{pri: pri, fn: fn})
}

func (b *Backend) Pending() int {
	return len(b.queue)
}

func urgency(p lanes.Priority) int {
	switch p {
	case lanes.UserBlocking:
		return 0
	case lanes.Background:
		return 2
	default:
		// user-visible, and anything unspecified
		return 1
	}
}

// Step runs the single most urgent queued callback; FIFO within a priority
// class. Reports false when the queue is empty.
func (b *Backend) Step() bool {
	if len(b.queue) == 0 {
		return false
	}
	best := 0
	for i, cb := range b.queue {
		if urgency(cb.pri) < urgency(b.queue[best].pri) {
			best = i
		}
	}
	cb := b.queue[best]
	b.queue = append(b.queue[:best], b.queue[best+1:]...)
	cb.fn()
	return true
}

func (b *Backend) Drain() {
	for b.Step() {
	}
}

func (b *Backend) StartViewTransition(update func(), finished func()) {
	b.Transitions++
	update()
	finished()
}

func asNode(n render.Node) *Node {
	if n == nil {
		return nil
	}
	return n.(*Node)
}

func (b *Backend) CreateText(text string) render.Node {
	return NewText(text)
}

func (b *Backend) SetText(node render.Node, text string) {
	asNode(node).Text = text
}

func (b *Backend) InsertBefore(parent, node, ref render.Node) {
	asNode(parent).InsertBefore(asNode(node), asNode(ref))
}

func (b *Backend) RemoveNode(parent, node render.Node) {
	asNode(parent).Remove(asNode(node))
}

func (b *Backend) SetAttribute(node render.Node, name, value string) {
	asNode(node).SetAttr(name, value)
}

func (b *Backend) RemoveAttribute(node render.Node, name string) {
	asNode(node).RemoveAttr(name)
}

// Hydration walks an existing server-produced subtree depth-first, handing
// nodes out to bindings that claim them.
type Hydration struct {
	pending []*Node
	claimed *Node
}

func NewHydration(root *Node) *Hydration {
	h := &Hydration{}
	h.collect(root)
	return h
}

func (h *Hydration) collect(n *Node) {
	for _, c := range n.children {
		h.pending = append(h.pending, c)
		h.collect(c)
	}
}

func (h *Hydration) PopNode(kind render.PartKind, name string) (render.Node, error) {
	wantText := kind == render.TextPart || kind == render.ChildPart
	for i, n := range h.pending {
		if n.IsText() == wantText {
			h.pending = append(h.pending[:i], h.pending[i+1:]...)
			h.claimed = n
			return n, nil
		}
	}
	return nil, fmt.Errorf("memtree: no remaining node to claim for %s part %q", kind, name)
}

// ReplaceWith swaps the most recently claimed node for a runtime-owned one.
func (h *Hydration) ReplaceWith(node render.Node) {
	if h.claimed == nil || h.claimed.Parent == nil {
		return
	}
	parent := h.claimed.Parent
	parent.InsertBefore(asNode(node), h.claimed)
	parent.Remove(h.claimed)
	h.claimed = nil
}
