package render_test

import (
	"testing"

	"github.com/delaneyj/renderparty/memtree"
	"github.com/delaneyj/renderparty/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func keyList(keys ...string) render.Directive {
	return render.ListOf(keys,
		func(k string) string { return k },
		func(k string) any { return k },
	)
}

// contentNodes filters out the zero-width item markers.
func contentNodes(parent *memtree.Node) []*memtree.Node {
	var out []*memtree.Node
	for _, c := range parent.Children() {
		if c.IsText() && c.Text == "" {
			continue
		}
		out = append(out, c)
	}
	return out
}

func seedList(t *testing.T, keys ...string) (*render.UpdateSession, *memtree.Node, *render.Slot) {
	t.Helper()
	s, doc := newSession(t)
	part := render.Part{Kind: render.ChildPart, Parent: doc}
	slot, err := s.ResolveSlot(keyList(keys...), part)
	require.NoError(t, err)
	require.NoError(t, slot.Connect(s))
	slot.Commit()
	return s, doc, slot
}

func TestListSeed(t *testing.T) {
	_, doc, _ := seedList(t, "a", "b", "c")
	assert.Equal(t, "abc", doc.Render())
}

// reordering moves the existing nodes instead of rebuilding them
func TestListReorderPreservesNodes(t *testing.T) {
	s, doc, slot := seedList(t, "a", "b", "c")
	before := contentNodes(doc)
	require.Len(t, before, 3)

	changed, err := slot.Reconcile(keyList("c", "b", "a"), s)
	require.NoError(t, err)
	assert.True(t, changed)
	slot.Commit()

	assert.Equal(t, "cba", doc.Render())
	after := contentNodes(doc)
	require.Len(t, after, 3)
	assert.Same(t, before[0], after[2])
	assert.Same(t, before[1], after[1])
	assert.Same(t, before[2], after[0])
}

// mixed insert and remove settle into the new sequence
func TestListInsertRemove(t *testing.T) {
	s, doc, slot := seedList(t, "a", "b", "c")

	changed, err := slot.Reconcile(keyList("b", "d"), s)
	require.NoError(t, err)
	assert.True(t, changed)
	slot.Commit()
	assert.Equal(t, "bd", doc.Render())
}

// the end-to-end scenario: foo,bar,baz renders as qux,baz,bar,foo and the
// surviving items keep their nodes
func TestListHeadInsertWithRotation(t *testing.T) {
	s, doc, slot := seedList(t, "foo", "bar", "baz")
	before := contentNodes(doc)

	changed, err := slot.Reconcile(keyList("qux", "baz", "bar", "foo"), s)
	require.NoError(t, err)
	assert.True(t, changed)
	slot.Commit()

	assert.Equal(t, "quxbazbarfoo", doc.Render())
	after := contentNodes(doc)
	require.Len(t, after, 4)
	assert.Same(t, before[0], after[3])
	assert.Same(t, before[1], after[2])
	assert.Same(t, before[2], after[1])
}

// duplicate keys degrade to count-preserving behavior
func TestListDuplicateKeys(t *testing.T) {
	s, doc, slot := seedList(t, "a", "b", "b", "b")
	require.Len(t, contentNodes(doc), 4)

	_, err := slot.Reconcile(keyList("a", "b", "b"), s)
	require.NoError(t, err)
	slot.Commit()

	assert.Equal(t, "abb", doc.Render())
	assert.Len(t, contentNodes(doc), 3)
}

// rollback detaches every item the last commit installed
func TestListRollback(t *testing.T) {
	s, doc, slot := seedList(t, "a", "b", "c")
	require.Equal(t, "abc", doc.Render())

	slot.Disconnect(s)
	slot.Rollback()
	assert.Empty(t, doc.Render())
	assert.Empty(t, doc.Children())
}

// a connect superseded by another connect before commit does not duplicate
// inserts
func TestListConnectSupersedes(t *testing.T) {
	s, doc := newSession(t)
	part := render.Part{Kind: render.ChildPart, Parent: doc}

	slot, err := s.ResolveSlot(keyList("a", "b"), part)
	require.NoError(t, err)
	require.NoError(t, slot.Connect(s))

	changed, err := slot.Reconcile(keyList("a", "b", "c"), s)
	require.NoError(t, err)
	assert.True(t, changed)
	slot.Commit()

	assert.Equal(t, "abc", doc.Render())
	assert.Len(t, contentNodes(doc), 3)
}

// items update in place when only their values change
func TestListValueUpdateInPlace(t *testing.T) {
	s, doc := newSession(t)
	part := render.Part{Kind: render.ChildPart, Parent: doc}

	render1 := render.ListOf([]string{"a:1", "b:2"},
		func(v string) string { return v[:1] },
		func(v string) any { return v[2:] },
	)
	slot, err := s.ResolveSlot(render1, part)
	require.NoError(t, err)
	require.NoError(t, slot.Connect(s))
	slot.Commit()
	assert.Equal(t, "12", doc.Render())
	before := contentNodes(doc)

	render2 := render.ListOf([]string{"a:9", "b:2"},
		func(v string) string { return v[:1] },
		func(v string) any { return v[2:] },
	)
	_, err = slot.Reconcile(render2, s)
	require.NoError(t, err)
	slot.Commit()

	assert.Equal(t, "92", doc.Render())
	after := contentNodes(doc)
	assert.Same(t, before[0], after[0])
	assert.Same(t, before[1], after[1])
}
