package render

import "github.com/delaneyj/renderparty/lanes"

// Effect is one unit of committed work. Bindings and slots satisfy it with
// their Commit method; ad-hoc effects wrap a function.
type Effect interface {
	Commit()
}

// EffectFunc adapts a plain function into an Effect.
type EffectFunc func()

func (f EffectFunc) Commit() { f() }

// UpdateSession orchestrates one flush attempt: a FIFO coroutine queue
// drained to a fixed point (the render phase), then three ordered effect
// queues committed as mutation, layout and passive phases. A session is
// created at flush start, mutated throughout rendering, and discarded after
// commit; it is never shared across flushes.
type UpdateSession struct {
	id      uint64
	lanes   lanes.LaneSet
	runtime *Runtime

	queue           []Coroutine
	mutationEffects []Effect
	layoutEffects   []Effect
	passiveEffects  []Effect

	idSeq   uint64
	resumed int
}

// NewUpdateSession begins a session for a lane-set and fires UpdateStart
// synchronously.
func NewUpdateSession(ls lanes.LaneSet, rt *Runtime) *UpdateSession {
	rt.sessionSeq++
	s := &UpdateSession{
		id:      rt.sessionSeq,
		lanes:   ls,
		runtime: rt,
	}
	s.emit(Event{Kind: UpdateStart})
	return s
}

func (s *UpdateSession) ID() uint64           { return s.id }
func (s *UpdateSession) Lanes() lanes.LaneSet { return s.lanes }
func (s *UpdateSession) Runtime() *Runtime    { return s.runtime }

func (s *UpdateSession) backend() Backend {
	return s.runtime.backend
}

func (s *UpdateSession) emit(ev Event) {
	ev.SessionID = s.id
	ev.Lanes = s.lanes
	s.runtime.notify(ev)
}

// EnqueueCoroutine appends to the render queue. During a resume a coroutine
// may enqueue further coroutines; they are drained in the same render phase
// before any commit phase begins.
func (s *UpdateSession) EnqueueCoroutine(co Coroutine) {
	s.queue = append(s.queue, co)
}

// The three effect queues commit in enqueue order within their phase.

func (s *UpdateSession) EnqueueMutationEffect(e Effect) {
	s.mutationEffects = append(s.mutationEffects, e)
}

func (s *UpdateSession) EnqueueLayoutEffect(e Effect) {
	s.layoutEffects = append(s.layoutEffects, e)
}

func (s *UpdateSession) EnqueuePassiveEffect(e Effect) {
	s.passiveEffects = append(s.passiveEffects, e)
}

// NextIdentifier hands out session-stable generated ids, starting at 1.
func (s *UpdateSession) NextIdentifier() uint64 {
	s.idSeq++
	return s.idSeq
}

// ResolveDirective maps a declarative value onto a directive: directives
// pass through, bindables convert themselves, anything else is a primitive
// resolved by the backend for the given part.
func (s *UpdateSession) ResolveDirective(value any, part Part) (Directive, error) {
	switch v := value.(type) {
	case Directive:
		return v, nil
	case Bindable:
		return v.ToDirective(), nil
	default:
		return s.backend().ResolvePrimitive(value, part)
	}
}

// ResolveSlot resolves the value's directive, materializes its binding at
// the part, and binds the value. The caller connects the slot when it is
// ready to compute a pending plan.
func (s *UpdateSession) ResolveSlot(value any, part Part) (*Slot, error) {
	d, err := s.ResolveDirective(value, part)
	if err != nil {
		return nil, err
	}
	b, err := d.ResolveBinding(part, s)
	if err != nil {
		return nil, err
	}
	b.Bind(value)
	return &Slot{
		kind:    s.backend().ResolveSlotKind(value, part),
		part:    part,
		dtype:   directiveType(d),
		binding: b,
	}, nil
}

// ExpandLiterals interns the static strings of a template literal and pairs
// them with this pass's values. The first sight of a distinct string array
// creates the cached template under TemplateCreate events; later sights hit
// the cache.
func (s *UpdateSession) ExpandLiterals(literals []string, values []any) *TemplateResult {
	id := literalDigest(literals)
	tpl, ok := s.runtime.templates[id]
	if !ok {
		s.emit(Event{Kind: TemplateCreateStart, TemplateID: id})
		tpl = &Template{ID: id, Strings: literals}
		s.runtime.templates[id] = tpl
		s.emit(Event{Kind: TemplateCreateEnd, TemplateID: id})
	}
	return &TemplateResult{Template: tpl, Values: values}
}

// renderPhase drains the coroutine queue to a fixed point. An error from a
// resume aborts the phase immediately: no further events fire and no commit
// phase runs, leaving already-committed tree state untouched.
func (s *UpdateSession) renderPhase() error {
	s.emit(Event{Kind: RenderStart})
	for len(s.queue) > 0 {
		co := s.queue[0]
		s.queue = s.queue[1:]
		s.resumed++
		if err := co.Resume(s); err != nil {
			return err
		}
	}
	s.emit(Event{Kind: RenderEnd})
	return nil
}

func (s *UpdateSession) commitPhase(phase CommitPhase, effects []Effect) {
	s.emit(Event{Kind: CommitStart, Phase: phase, Effects: len(effects)})
	for _, e := range effects {
		e.Commit()
	}
	s.emit(Event{Kind: CommitEnd, Phase: phase, Effects: len(effects)})
}

// FlushSync runs the whole session to completion synchronously: render,
// then mutation, layout and passive commits in that order. Every commit
// phase fires its events even when empty, except on a render-only no-op
// pass (zero coroutines resumed) where no commit events fire at all.
func (s *UpdateSession) FlushSync() error {
	if err := s.renderPhase(); err != nil {
		return err
	}
	if s.resumed == 0 {
		s.emit(Event{Kind: UpdateEnd})
		return nil
	}
	s.commitPhase(PhaseMutation, s.mutationEffects)
	s.commitPhase(PhaseLayout, s.layoutEffects)
	s.commitPhase(PhasePassive, s.passiveEffects)
	s.emit(Event{Kind: UpdateEnd})
	return nil
}

// FlushAsync runs the same phases in the same order but yields control to
// the backend's callback scheduler between phases. When the lane-set
// carries the view-transition flag the mutation and layout commits run
// inside the backend's transition capability. done is invoked exactly once
// when the session resolves.
func (s *UpdateSession) FlushAsync(done func(error)) {
	if err := s.renderPhase(); err != nil {
		done(err)
		return
	}
	if s.resumed == 0 {
		s.emit(Event{Kind: UpdateEnd})
		done(nil)
		return
	}

	pri, ok := s.lanes.PriorityOf()
	if !ok {
		pri, _ = lanes.DefaultLanes.PriorityOf()
	}
	be := s.backend()

	finish := func() {
		s.commitPhase(PhasePassive, s.passiveEffects)
		s.emit(Event{Kind: UpdateEnd})
		done(nil)
	}

	if s.lanes.ViewTransition() {
		be.RequestCallback(pri, func() {
			be.StartViewTransition(func() {
				s.commitPhase(PhaseMutation, s.mutationEffects)
				s.commitPhase(PhaseLayout, s.layoutEffects)
			}, func() {
				be.RequestCallback(pri, finish)
			})
		})
		return
	}

	be.RequestCallback(pri, func() {
		s.commitPhase(PhaseMutation, s.mutationEffects)
		be.RequestCallback(pri, func() {
			s.commitPhase(PhaseLayout, s.layoutEffects)
			be.RequestCallback(pri, finish)
		})
	})
}
