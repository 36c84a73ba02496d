package render

import "fmt"

// HydrationError reports an attempt to hydrate a slot or binding that has
// already been initialized. It indicates a logic bug in the caller's
// template structure, not a recoverable runtime condition.
type HydrationError struct {
	Part Part
}

func (e *HydrationError) Error() string {
	return fmt.Sprintf("render: %s part already initialized, cannot hydrate twice", e.Part.Kind)
}

// PartMismatchError reports a directive bound to a structurally incompatible
// part, e.g. a list directive on an attribute part. It carries both the
// expected part kind and the offending value so the failing declarative call
// is identifiable from the message alone.
type PartMismatchError struct {
	Expected PartKind
	Part     Part
	Value    any
}

func (e *PartMismatchError) Error() string {
	return fmt.Sprintf("render: value %v requires a %s part, got a %s part",
		e.Value, e.Expected, e.Part.Kind)
}
