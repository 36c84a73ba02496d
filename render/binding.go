package render

import "reflect"

// Binding lifecycle flags. A binding moves through
// unconnected -> connecting -> committed -> disconnecting -> unconnected,
// with pending and committed state double-buffered so a rollback can restore
// the last-good tree state even mid-update.
type bindingFlags uint8

const (
	// fBound: a value has been bound at least once.
	fBound bindingFlags = 1 << iota
	// fDirty: connect staged a pending plan not yet committed.
	fDirty
	// fInstalled: the last commit put content into the live tree.
	fInstalled
	// fDetaching: disconnect staged a detach plan for the next rollback.
	fDetaching
)

// Binding associates one directive value with one tree position. Connect
// computes a pending mutation plan without touching the tree; Commit applies
// it as an atomic swap of pending into committed; Rollback fully reverses
// whatever the last commit installed. Connect may run any number of times
// before a commit, each run superseding the previous plan.
type Binding interface {
	Value() any
	Part() Part

	// ShouldBind is the fast path: false means the value is referentially
	// unchanged and the whole connect/commit cycle can be skipped. Always
	// true before the first bind.
	ShouldBind(next any) bool
	Bind(next any)

	Connect(s *UpdateSession) error
	Commit()
	Disconnect(s *UpdateSession)
	Rollback()

	// Sealed: bindings are in-core. Hosts extend behavior through
	// directives and the backend, not custom bindings.
	installed() bool
	hydrate(tree HydrationTree) error
}

// identical reports referential/bitwise equality without panicking on
// uncomparable values; those always count as changed.
func identical(a, b any) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return false
	}
	return a == b
}

// nodeSpan is implemented by bindings that install nodes into a child part;
// the list binding uses it to relocate an item's whole range.
type nodeSpan interface {
	spanNodes() []Node
}

// textBinding renders a value as text. At a text part it writes through the
// existing node; at a child part it owns a text node it installs on first
// commit.
type textBinding struct {
	part    Part
	backend Backend

	value     any
	pending   string
	committed string
	node      Node
	flags     bindingFlags
}

func (b *textBinding) Value() any { return b.value }
func (b *textBinding) Part() Part { return b.part }

// unwrapValue peels bindables and the text/attr directive wrappers off a
// bound value so bindings store and compare the underlying value.
func unwrapValue(next any) any {
	if bb, ok := next.(Bindable); ok {
		next = bb.ToDirective()
	}
	switch d := next.(type) {
	case textDirective:
		return d.value
	case attrDirective:
		return d.value
	default:
		return next
	}
}

func (b *textBinding) ShouldBind(next any) bool {
	if b.flags&fBound == 0 {
		return true
	}
	return !identical(b.value, unwrapValue(next))
}

func (b *textBinding) Bind(next any) {
	b.value = unwrapValue(next)
	b.flags |= fBound
}

func (b *textBinding) Connect(s *UpdateSession) error {
	b.pending = formatValue(b.value)
	b.flags |= fDirty
	b.flags &^= fDetaching
	return nil
}

func (b *textBinding) Commit() {
	if b.flags&fDirty == 0 {
		return
	}
	switch b.part.Kind {
	case ChildPart:
		if b.flags&fInstalled == 0 {
			b.node = b.backend.CreateText(b.pending)
			b.backend.InsertBefore(b.part.Parent, b.node, b.part.Anchor)
			b.flags |= fInstalled
		} else {
			b.backend.SetText(b.node, b.pending)
		}
	default:
		b.backend.SetText(b.part.Node, b.pending)
		b.flags |= fInstalled
	}
	b.committed = b.pending
	b.flags &^= fDirty
}

func (b *textBinding) Disconnect(s *UpdateSession) {
	b.flags |= fDetaching
	b.flags &^= fDirty
}

func (b *textBinding) Rollback() {
	if b.flags&fInstalled != 0 {
		switch b.part.Kind {
		case ChildPart:
			b.backend.RemoveNode(b.part.Parent, b.node)
			b.node = nil
		default:
			b.backend.SetText(b.part.Node, "")
		}
	}
	b.committed = ""
	b.flags &^= fInstalled | fDetaching | fDirty | fBound
}

func (b *textBinding) installed() bool {
	return b.flags&fInstalled != 0
}

func (b *textBinding) hydrate(tree HydrationTree) error {
	node, err := tree.PopNode(TextPart, "")
	if err != nil {
		return err
	}
	switch b.part.Kind {
	case ChildPart:
		b.node = node
		b.flags |= fInstalled
		// The claimed node carries server-produced text; the next connect
		// recomputes pending, so mark dirty to force the first SetText.
		b.flags |= fDirty
	default:
		b.part.Node = node
	}
	return nil
}

func (b *textBinding) spanNodes() []Node {
	if b.part.Kind == ChildPart && b.flags&fInstalled != 0 {
		return []Node{b.node}
	}
	return nil
}

// attributeBinding writes a value through an element's attribute.
type attributeBinding struct {
	part    Part
	backend Backend

	value     any
	pending   string
	committed string
	flags     bindingFlags
}

func (b *attributeBinding) Value() any { return b.value }
func (b *attributeBinding) Part() Part { return b.part }

func (b *attributeBinding) ShouldBind(next any) bool {
	if b.flags&fBound == 0 {
		return true
	}
	return !identical(b.value, unwrapValue(next))
}

func (b *attributeBinding) Bind(next any) {
	b.value = unwrapValue(next)
	b.flags |= fBound
}

func (b *attributeBinding) Connect(s *UpdateSession) error {
	b.pending = formatValue(b.value)
	b.flags |= fDirty
	b.flags &^= fDetaching
	return nil
}

func (b *attributeBinding) Commit() {
	if b.flags&fDirty == 0 {
		return
	}
	b.backend.SetAttribute(b.part.Node, b.part.Name, b.pending)
	b.committed = b.pending
	b.flags |= fInstalled
	b.flags &^= fDirty
}

func (b *attributeBinding) Disconnect(s *UpdateSession) {
	b.flags |= fDetaching
	b.flags &^= fDirty
}

func (b *attributeBinding) Rollback() {
	if b.flags&fInstalled != 0 {
		b.backend.RemoveAttribute(b.part.Node, b.part.Name)
	}
	b.committed = ""
	b.flags &^= fInstalled | fDetaching | fDirty | fBound
}

func (b *attributeBinding) installed() bool {
	return b.flags&fInstalled != 0
}

func (b *attributeBinding) hydrate(tree HydrationTree) error {
	node, err := tree.PopNode(AttributePart, b.part.Name)
	if err != nil {
		return err
	}
	b.part.Node = node
	return nil
}
