package render

import (
	"log"

	"github.com/delaneyj/renderparty/lanes"
)

// EventKind tags one entry of the observer stream. START/END pairs with the
// same session id are strictly nested.
type EventKind uint8

const (
	UpdateStart EventKind = iota
	UpdateEnd
	RenderStart
	RenderEnd
	ComponentRenderStart
	ComponentRenderEnd
	TemplateCreateStart
	TemplateCreateEnd
	CommitStart
	CommitEnd
)

func (k EventKind) String() string {
	switch k {
	case UpdateStart:
		return "update-start"
	case UpdateEnd:
		return "update-end"
	case RenderStart:
		return "render-start"
	case RenderEnd:
		return "render-end"
	case ComponentRenderStart:
		return "component-render-start"
	case ComponentRenderEnd:
		return "component-render-end"
	case TemplateCreateStart:
		return "template-create-start"
	case TemplateCreateEnd:
		return "template-create-end"
	case CommitStart:
		return "commit-start"
	case CommitEnd:
		return "commit-end"
	default:
		return "unknown"
	}
}

// CommitPhase tags commit events with their phase. Within one session the
// phases always commit in declaration order.
type CommitPhase uint8

const (
	PhaseMutation CommitPhase = iota
	PhaseLayout
	PhasePassive
)

func (p CommitPhase) String() string {
	switch p {
	case PhaseMutation:
		return "mutation"
	case PhaseLayout:
		return "layout"
	case PhasePassive:
		return "passive"
	default:
		return "unknown"
	}
}

// Event is one telemetry record. Only the fields relevant to the kind are
// populated: Phase and Effects on commit events, Component on component
// events, TemplateID on template events.
type Event struct {
	Kind       EventKind
	SessionID  uint64
	Lanes      lanes.LaneSet
	Phase      CommitPhase
	Effects    int
	Component  string
	TemplateID uint64
}

// Observer consumes the runtime's ordered event stream; the external
// profiler attaches through this.
type Observer interface {
	HandleEvent(ev Event)
}

// RecordingObserver appends every event; used by tests and the trace
// command.
type RecordingObserver struct {
	Events []Event
}

func (o *RecordingObserver) HandleEvent(ev Event) {
	o.Events = append(o.Events, ev)
}

// Kinds flattens the recorded stream for order assertions.
func (o *RecordingObserver) Kinds() []EventKind {
	out := make([]EventKind, len(o.Events))
	for i, ev := range o.Events {
		out[i] = ev.Kind
	}
	return out
}

func (o *RecordingObserver) Reset() {
	o.Events = o.Events[:0]
}

// LogObserver writes the event stream through a standard logger.
type LogObserver struct {
	Logger *log.Logger
}

func (o *LogObserver) HandleEvent(ev Event) {
	logger := o.Logger
	if logger == nil {
		logger = log.Default()
	}
	switch ev.Kind {
	case CommitStart, CommitEnd:
		logger.Printf("session %d lanes %s: %s phase=%s effects=%d",
			ev.SessionID, ev.Lanes, ev.Kind, ev.Phase, ev.Effects)
	case ComponentRenderStart, ComponentRenderEnd:
		logger.Printf("session %d lanes %s: %s component=%s",
			ev.SessionID, ev.Lanes, ev.Kind, ev.Component)
	default:
		logger.Printf("session %d lanes %s: %s", ev.SessionID, ev.Lanes, ev.Kind)
	}
}
