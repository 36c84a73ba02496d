package render

// Node is an opaque host-tree node. The runtime never inspects one; all
// reads and writes go through the Backend.
type Node = any

// PartKind classifies a bindable tree position.
type PartKind uint8

const (
	AttributePart PartKind = iota
	PropertyPart
	EventPart
	TextPart
	ChildPart
	ElementPart
)

func (k PartKind) String() string {
	switch k {
	case AttributePart:
		return "attribute"
	case PropertyPart:
		return "property"
	case EventPart:
		return "event"
	case TextPart:
		return "text"
	case ChildPart:
		return "child"
	case ElementPart:
		return "element"
	default:
		return "unknown"
	}
}

// Part describes one bindable position in the host tree. It is a pure
// descriptor; bindings hold one and write through the backend.
type Part struct {
	Kind PartKind

	// Node is the element the binding writes through for attribute,
	// property, event and element parts, or the text node for text parts.
	Node Node

	// Name is the attribute/property/event name; empty for other kinds.
	Name string

	// Parent and Anchor bound a child part: bound content is inserted into
	// Parent immediately before Anchor. A nil Anchor appends.
	Parent Node
	Anchor Node
}
