package render

// Scope is one level of a lexical key/value chain used for context-like
// value propagation. Lookups walk up the parent links; writes stay local, so
// a child scope shadows its parent without mutating it. The chain is
// tree-shaped: the parent is assigned once at construction and never
// changes.
type Scope struct {
	parent  *Scope
	entries map[any]any
}

// NewScope creates a child of parent; a nil parent starts a new chain.
func NewScope(parent *Scope) *Scope {
	return &Scope{parent: parent}
}

func (s *Scope) Parent() *Scope {
	return s.parent
}

// Get resolves key against this scope and then its ancestors.
func (s *Scope) Get(key any) (any, bool) {
	for cur := s; cur != nil; cur = cur.parent {
		if v, ok := cur.entries[key]; ok {
			return v, true
		}
	}
	return nil, false
}

// Set writes into this scope only, shadowing any ancestor entry.
func (s *Scope) Set(key, value any) {
	if s.entries == nil {
		s.entries = make(map[any]any)
	}
	s.entries[key] = value
}
