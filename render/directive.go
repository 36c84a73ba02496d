package render

import "fmt"

// Directive is a declarative value that knows how to attach itself to a
// part. The interface is sealed so dispatch stays a closed type switch
// instead of structural probing; hosts produce in-core directives through
// Backend.ResolvePrimitive.
type Directive interface {
	ResolveBinding(part Part, s *UpdateSession) (Binding, error)

	directiveMarker()
}

// Bindable marks values that convert themselves into a directive before
// resolution.
type Bindable interface {
	ToDirective() Directive
}

// Text returns a directive rendering the value as text content at a text or
// child part.
func Text(value any) Directive {
	return textDirective{value: value}
}

type textDirective struct {
	value any
}

func (textDirective) directiveMarker() {}

func (d textDirective) ResolveBinding(part Part, s *UpdateSession) (Binding, error) {
	switch part.Kind {
	case TextPart, ChildPart:
	default:
		return nil, &PartMismatchError{Expected: ChildPart, Part: part, Value: d.value}
	}
	return &textBinding{part: part, backend: s.backend()}, nil
}

// Attr returns a directive writing the value as an attribute.
func Attr(value any) Directive {
	return attrDirective{value: value}
}

type attrDirective struct {
	value any
}

func (attrDirective) directiveMarker() {}

func (d attrDirective) ResolveBinding(part Part, s *UpdateSession) (Binding, error) {
	if part.Kind != AttributePart {
		return nil, &PartMismatchError{Expected: AttributePart, Part: part, Value: d.value}
	}
	return &attributeBinding{part: part, backend: s.backend()}, nil
}

func formatValue(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprint(v)
	}
}
