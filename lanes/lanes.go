// Package lanes models update priority as a small bitset. A lane-set carries
// up to three priority lanes plus two modifier flags and is used as the key
// of the runtime's pending-task table.
package lanes

import "strings"

// Priority is a user-facing urgency class for an update.
type Priority uint8

const (
	NoPriority Priority = iota
	UserBlocking
	UserVisible
	Background
)

func (p Priority) String() string {
	switch p {
	case UserBlocking:
		return "user-blocking"
	case UserVisible:
		return "user-visible"
	case Background:
		return "background"
	default:
		return "no-priority"
	}
}

// LaneSet is an immutable bitwise union of priority lanes and modifier
// flags. A set may carry several priority lanes at once; that means one task
// satisfies all of those priorities' pending work.
type LaneSet uint8

const (
	UserBlockingLane LaneSet = 1 << iota
	UserVisibleLane
	BackgroundLane
	ConcurrentFlag
	ViewTransitionFlag
)

const (
	NoLanes LaneSet = 0

	// DefaultLanes is what an update gets when the caller supplies no
	// priority at all.
	DefaultLanes = UserVisibleLane

	priorityLanes = UserBlockingLane | UserVisibleLane | BackgroundLane
	modifierFlags = ConcurrentFlag | ViewTransitionFlag
)

// Options is the caller-facing way to request a lane-set. The zero value
// maps to DefaultLanes.
type Options struct {
	Priority       Priority
	Concurrent     bool
	ViewTransition bool
}

// FromOptions maps scheduling options onto a lane-set. An unset priority
// falls back to the default lane; priority-free sets are built directly from
// the flag constants, never through options.
func FromOptions(opts Options) LaneSet {
	var ls LaneSet
	switch opts.Priority {
	case UserBlocking:
		ls = UserBlockingLane
	case UserVisible:
		ls = UserVisibleLane
	case Background:
		ls = BackgroundLane
	default:
		ls = DefaultLanes
	}
	if opts.Concurrent {
		ls |= ConcurrentFlag
	}
	if opts.ViewTransition {
		ls |= ViewTransitionFlag
	}
	return ls
}

func Union(a, b LaneSet) LaneSet {
	return a | b
}

func (ls LaneSet) Or(other LaneSet) LaneSet {
	return ls | other
}

func (ls LaneSet) Has(other LaneSet) bool {
	return ls&other == other
}

func (ls LaneSet) Concurrent() bool {
	return ls&ConcurrentFlag != 0
}

func (ls LaneSet) ViewTransition() bool {
	return ls&ViewTransitionFlag != 0
}

// PriorityOf recovers the most urgent priority lane in the set. The second
// return is false for sets that carry only modifier flags; those never map
// back to a user-facing priority.
func (ls LaneSet) PriorityOf() (Priority, bool) {
	switch {
	case ls&UserBlockingLane != 0:
		return UserBlocking, true
	case ls&UserVisibleLane != 0:
		return UserVisible, true
	case ls&BackgroundLane != 0:
		return Background, true
	default:
		return NoPriority, false
	}
}

func (ls LaneSet) String() string {
	if ls == NoLanes {
		return "none"
	}
	parts := make([]string, 0, 5)
	if ls&UserBlockingLane != 0 {
		parts = append(parts, "user-blocking")
	}
	if ls&UserVisibleLane != 0 {
		parts = append(parts, "user-visible")
	}
	if ls&BackgroundLane != 0 {
		parts = append(parts, "background")
	}
	if ls&ConcurrentFlag != 0 {
		parts = append(parts, "concurrent")
	}
	if ls&ViewTransitionFlag != 0 {
		parts = append(parts, "view-transition")
	}
	return strings.Join(parts, "|")
}
