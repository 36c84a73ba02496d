package render

import "github.com/delaneyj/renderparty/lanes"

// Backend is the host-environment capability the runtime renders through.
// It resolves primitive (non-directive) values, provides the priority-aware
// yield point used by asynchronous flushes, and carries the minimal tree
// mutators the in-core bindings need. Hosts supply one at runtime
// construction; the core never reaches for ambient global state.
type Backend interface {
	// ResolvePrimitive maps a plain value onto a directive appropriate for
	// the part, or fails when the value cannot serve that part kind.
	ResolvePrimitive(value any, part Part) (Directive, error)

	// ResolveSlotKind decides how strictly a slot at this part treats
	// directive-type changes across updates.
	ResolveSlotKind(value any, part Part) SlotKind

	// RequestCallback schedules fn at the given priority. Synchronous hosts
	// may invoke fn before returning; queueing hosts run it from their own
	// drain loop. Asynchronous flushes yield between phases through here.
	RequestCallback(priority lanes.Priority, fn func())

	// StartViewTransition wraps a commit batch in the host's animated
	// transition capability, then reports completion through finished.
	StartViewTransition(update func(), finished func())

	// Tree mutators. Creation is free of tree side effects; only the
	// insert/remove/set calls mutate the live tree and therefore belong to
	// the commit phase.
	CreateText(text string) Node
	SetText(node Node, text string)
	InsertBefore(parent, node, ref Node)
	RemoveNode(parent, node Node)
	SetAttribute(node Node, name, value string)
	RemoveAttribute(node Node, name string)
}

// HydrationTree exposes the one-time hydrate path over server-produced
// markup. Bindings claim existing nodes through it instead of creating new
// ones; the core never walks the tree itself.
type HydrationTree interface {
	PopNode(kind PartKind, name string) (Node, error)
	ReplaceWith(node Node)
}
