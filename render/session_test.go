package render_test

import (
	"errors"
	"testing"

	"github.com/delaneyj/renderparty/lanes"
	"github.com/delaneyj/renderparty/memtree"
	"github.com/delaneyj/renderparty/render"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newObservedSession(ls lanes.LaneSet, be *memtree.Backend) (*render.UpdateSession, *render.RecordingObserver) {
	rt := render.NewRuntime(be)
	rec := &render.RecordingObserver{}
	rt.Observe(rec)
	s := render.NewUpdateSession(ls, rt)
	return s, rec
}

// mutation commits strictly before layout, strictly before passive
func TestCommitPhaseOrdering(t *testing.T) {
	s, rec := newObservedSession(lanes.DefaultLanes, memtree.NewBackend())

	var order []string
	s.EnqueueCoroutine(render.NewFuncCoroutine(lanes.DefaultLanes, func(s *render.UpdateSession) error {
		s.EnqueuePassiveEffect(render.EffectFunc(func() { order = append(order, "passive") }))
		s.EnqueueMutationEffect(render.EffectFunc(func() { order = append(order, "mutation") }))
		s.EnqueueLayoutEffect(render.EffectFunc(func() { order = append(order, "layout") }))
		return nil
	}))

	require.NoError(t, s.FlushSync())
	assert.Equal(t, []string{"mutation", "layout", "passive"}, order)

	assert.Equal(t, []render.EventKind{
		render.UpdateStart,
		render.RenderStart,
		render.RenderEnd,
		render.CommitStart, render.CommitEnd,
		render.CommitStart, render.CommitEnd,
		render.CommitStart, render.CommitEnd,
		render.UpdateEnd,
	}, rec.Kinds())

	phases := []render.CommitPhase{}
	for _, ev := range rec.Events {
		if ev.Kind == render.CommitStart {
			phases = append(phases, ev.Phase)
		}
	}
	assert.Equal(t, []render.CommitPhase{render.PhaseMutation, render.PhaseLayout, render.PhasePassive}, phases)
}

// empty phases still fire their commit events
func TestEmptyPhasesStillEmitEvents(t *testing.T) {
	s, rec := newObservedSession(lanes.DefaultLanes, memtree.NewBackend())
	s.EnqueueCoroutine(render.NewFuncCoroutine(lanes.DefaultLanes, func(*render.UpdateSession) error {
		return nil
	}))

	require.NoError(t, s.FlushSync())
	starts := 0
	for _, ev := range rec.Events {
		if ev.Kind == render.CommitStart {
			starts++
			assert.Zero(t, ev.Effects)
		}
	}
	assert.Equal(t, 3, starts)
}

// a pass that resolved to zero coroutines emits no commit events at all
func TestRenderOnlyNoOpPass(t *testing.T) {
	s, rec := newObservedSession(lanes.DefaultLanes, memtree.NewBackend())
	require.NoError(t, s.FlushSync())

	assert.Equal(t, []render.EventKind{
		render.UpdateStart,
		render.RenderStart,
		render.RenderEnd,
		render.UpdateEnd,
	}, rec.Kinds())
}

// render is a fixed-point loop: coroutines enqueued during a resume run in
// the same render phase, before any commit
func TestNestedEnqueueDrainsSamePhase(t *testing.T) {
	s, _ := newObservedSession(lanes.DefaultLanes, memtree.NewBackend())

	var order []string
	inner := render.NewFuncCoroutine(lanes.DefaultLanes, func(s *render.UpdateSession) error {
		order = append(order, "inner")
		return nil
	})
	s.EnqueueCoroutine(render.NewFuncCoroutine(lanes.DefaultLanes, func(s *render.UpdateSession) error {
		order = append(order, "outer")
		s.EnqueueMutationEffect(render.EffectFunc(func() { order = append(order, "commit") }))
		s.EnqueueCoroutine(inner)
		return nil
	}))

	require.NoError(t, s.FlushSync())
	assert.Equal(t, []string{"outer", "inner", "commit"}, order)
}

// a render-phase error aborts the flush: effects enqueued before the throw
// never commit
func TestRenderErrorAbortsCommits(t *testing.T) {
	s, rec := newObservedSession(lanes.DefaultLanes, memtree.NewBackend())

	boom := errors.New("component exploded")
	committed := false
	s.EnqueueCoroutine(render.NewFuncCoroutine(lanes.DefaultLanes, func(s *render.UpdateSession) error {
		s.EnqueueMutationEffect(render.EffectFunc(func() { committed = true }))
		return boom
	}))

	err := s.FlushSync()
	require.ErrorIs(t, err, boom)
	assert.False(t, committed)
	for _, ev := range rec.Events {
		assert.NotEqual(t, render.CommitStart, ev.Kind)
	}
}

// identifiers are session-stable and start at one
func TestNextIdentifier(t *testing.T) {
	s, _ := newObservedSession(lanes.DefaultLanes, memtree.NewBackend())
	assert.Equal(t, uint64(1), s.NextIdentifier())
	assert.Equal(t, uint64(2), s.NextIdentifier())
}

// identical literal arrays hit the same cached template; creation events
// fire only on the first sight
func TestExpandLiteralsCaches(t *testing.T) {
	s, rec := newObservedSession(lanes.DefaultLanes, memtree.NewBackend())

	literals := []string{"count is ", "!"}
	first := s.ExpandLiterals(literals, []any{1})
	second := s.ExpandLiterals(literals, []any{2})
	assert.Same(t, first.Template, second.Template)

	creates := 0
	for _, ev := range rec.Events {
		if ev.Kind == render.TemplateCreateStart {
			creates++
			assert.Equal(t, first.Template.ID, ev.TemplateID)
		}
	}
	assert.Equal(t, 1, creates)
}

// a template result flows through slot resolution like any other value
func TestTemplateResultBinds(t *testing.T) {
	be := memtree.NewBackend()
	rt := render.NewRuntime(be)
	s := render.NewUpdateSession(lanes.DefaultLanes, rt)
	doc := memtree.NewDocument()

	tr := s.ExpandLiterals([]string{"count is ", "!"}, []any{42})
	slot, err := s.ResolveSlot(tr, render.Part{Kind: render.ChildPart, Parent: doc})
	require.NoError(t, err)
	require.NoError(t, slot.Connect(s))
	slot.Commit()
	assert.Equal(t, "count is 42!", doc.Render())
}

// an async flush yields between phases through the backend scheduler
func TestFlushAsyncYieldsBetweenPhases(t *testing.T) {
	be := memtree.NewManualBackend()
	s, _ := newObservedSession(lanes.DefaultLanes, be)

	var order []string
	s.EnqueueCoroutine(render.NewFuncCoroutine(lanes.DefaultLanes, func(s *render.UpdateSession) error {
		s.EnqueueMutationEffect(render.EffectFunc(func() { order = append(order, "mutation") }))
		s.EnqueueLayoutEffect(render.EffectFunc(func() { order = append(order, "layout") }))
		s.EnqueuePassiveEffect(render.EffectFunc(func() { order = append(order, "passive") }))
		return nil
	}))

	resolved := false
	s.FlushAsync(func(err error) {
		require.NoError(t, err)
		resolved = true
	})

	// render ran synchronously; commits wait on the scheduler
	assert.Empty(t, order)
	require.True(t, be.Step())
	assert.Equal(t, []string{"mutation"}, order)
	require.True(t, be.Step())
	assert.Equal(t, []string{"mutation", "layout"}, order)
	assert.False(t, resolved)
	require.True(t, be.Step())
	assert.Equal(t, []string{"mutation", "layout", "passive"}, order)
	assert.True(t, resolved)
	assert.False(t, be.Step())
}

// the view-transition flag wraps mutation and layout in the backend's
// transition capability
func TestFlushAsyncViewTransition(t *testing.T) {
	be := memtree.NewManualBackend()
	ls := lanes.FromOptions(lanes.Options{Priority: lanes.UserVisible, ViewTransition: true})
	s, _ := newObservedSession(ls, be)

	var order []string
	s.EnqueueCoroutine(render.NewFuncCoroutine(ls, func(s *render.UpdateSession) error {
		s.EnqueueMutationEffect(render.EffectFunc(func() { order = append(order, "mutation") }))
		s.EnqueueLayoutEffect(render.EffectFunc(func() { order = append(order, "layout") }))
		s.EnqueuePassiveEffect(render.EffectFunc(func() { order = append(order, "passive") }))
		return nil
	}))

	resolved := false
	s.FlushAsync(func(err error) {
		require.NoError(t, err)
		resolved = true
	})

	require.True(t, be.Step())
	assert.Equal(t, 1, be.Transitions)
	assert.Equal(t, []string{"mutation", "layout"}, order)
	require.True(t, be.Step())
	assert.Equal(t, []string{"mutation", "layout", "passive"}, order)
	assert.True(t, resolved)
}
