package lanes_test

import (
	"testing"

	"github.com/delaneyj/renderparty/lanes"
	"github.com/stretchr/testify/assert"
)

// zero options fall back to the default lane
func TestFromOptionsDefaults(t *testing.T) {
	ls := lanes.FromOptions(lanes.Options{})
	assert.Equal(t, lanes.DefaultLanes, ls)

	p, ok := ls.PriorityOf()
	assert.True(t, ok)
	assert.Equal(t, lanes.UserVisible, p)
}

// modifier flags never affect priority recovery
func TestPriorityRecoveryIgnoresModifiers(t *testing.T) {
	ls := lanes.FromOptions(lanes.Options{
		Priority:       lanes.Background,
		ViewTransition: true,
	})
	assert.True(t, ls.ViewTransition())

	p, ok := ls.PriorityOf()
	assert.True(t, ok)
	assert.Equal(t, lanes.Background, p)
}

// a set with several priority lanes reports the most urgent one
func TestPriorityTieBreak(t *testing.T) {
	ls := lanes.Union(
		lanes.FromOptions(lanes.Options{Priority: lanes.Background}),
		lanes.FromOptions(lanes.Options{Priority: lanes.UserBlocking}),
	)
	p, ok := ls.PriorityOf()
	assert.True(t, ok)
	assert.Equal(t, lanes.UserBlocking, p)

	ls = ls.Or(lanes.UserVisibleLane)
	p, _ = ls.PriorityOf()
	assert.Equal(t, lanes.UserBlocking, p)
}

// a modifier-only set has no recoverable priority
func TestModifierOnlySet(t *testing.T) {
	ls := lanes.ConcurrentFlag | lanes.ViewTransitionFlag
	p, ok := ls.PriorityOf()
	assert.False(t, ok)
	assert.Equal(t, lanes.NoPriority, p)
}

// union is a plain bitwise or and stays comparable
func TestUnion(t *testing.T) {
	a := lanes.FromOptions(lanes.Options{Priority: lanes.UserBlocking})
	b := lanes.FromOptions(lanes.Options{Priority: lanes.Background, Concurrent: true})

	merged := lanes.Union(a, b)
	assert.True(t, merged.Has(lanes.UserBlockingLane))
	assert.True(t, merged.Has(lanes.BackgroundLane))
	assert.True(t, merged.Concurrent())
	assert.Equal(t, merged, lanes.Union(b, a))
}

func TestLaneSetString(t *testing.T) {
	assert.Equal(t, "none", lanes.NoLanes.String())
	ls := lanes.UserBlockingLane | lanes.ViewTransitionFlag
	assert.Equal(t, "user-blocking|view-transition", ls.String())
}
