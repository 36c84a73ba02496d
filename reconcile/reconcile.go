// Package reconcile implements the keyed-list diff used by the repeat
// directive and by template diffing generally. It maps an old ordered
// sequence of materialized targets onto a new ordered sequence of source
// values through a minimal run of insert, move, update and remove
// operations, reported to an Editor.
package reconcile

// Keyed pairs a reconciliation key with a value. Key uniqueness is not
// required by the algorithm; duplicate keys degrade to count-preserving
// behavior.
type Keyed[K comparable, V any] struct {
	Key   K
	Value V
}

// KeyedOf is a convenience constructor.
func KeyedOf[K comparable, V any](key K, value V) Keyed[K, V] {
	return Keyed[K, V]{Key: key, Value: value}
}

// Editor receives the ordered mutations Diff derives. Targets are the
// caller's materialized per-item state (a slot, a node range); sources are
// the fresh values. A nil `before` anchor means "at the very end of the
// range", i.e. against the caller's own trailing anchor.
type Editor[K comparable, S, T any] interface {
	// Insert materializes a fresh item immediately before the anchor.
	Insert(item Keyed[K, S], before *T) T
	// Move relocates an existing target immediately before the anchor and
	// rebinds it to the new source value.
	Move(target T, item Keyed[K, S], before *T) T
	// Update rebinds an existing target in place.
	Update(target T, item Keyed[K, S]) T
	// Remove detaches a target that has no counterpart in the new sequence.
	Remove(target T)
}

// Diff reconciles olds into news and returns the new targets, one per new
// item. The scan is two-ended: four cheap pointer checks cover stable
// prefixes, stable suffixes and list rotation, and only a disjoint reorder
// pays for an index map over the remaining old keys.
//
// All anchors are resolved right-to-left so the reference target is always
// one that has already been placed. The operation order is deterministic
// for a given pair of sequences.
func Diff[K comparable, S, T any](olds []Keyed[K, T], news []Keyed[K, S], ed Editor[K, S, T]) []T {
	newTargets := make([]T, len(news))
	oldHead, oldTail := 0, len(olds)-1
	newHead, newTail := 0, len(news)-1

	// before returns the already-placed target at new index i, or nil for
	// the end anchor.
	before := func(i int) *T {
		if i >= len(news) {
			return nil
		}
		return &newTargets[i]
	}

	for {
		switch {
		case newHead > newTail:
			// New range exhausted: whatever is left of the old range is
			// gone.
			for ; oldHead <= oldTail; oldHead++ {
				ed.Remove(olds[oldHead].Value)
			}
			return newTargets

		case oldHead > oldTail:
			// Old range exhausted: the rest of the new range is fresh,
			// anchored before the next already-placed target.
			ref := before(newTail + 1)
			for ; newHead <= newTail; newHead++ {
				newTargets[newHead] = ed.Insert(news[newHead], ref)
			}
			return newTargets

		case olds[oldHead].Key == news[newHead].Key:
			newTargets[newHead] = ed.Update(olds[oldHead].Value, news[newHead])
			oldHead++
			newHead++

		case olds[oldTail].Key == news[newTail].Key:
			newTargets[newTail] = ed.Update(olds[oldTail].Value, news[newTail])
			oldTail--
			newTail--

		case olds[oldHead].Key == news[newTail].Key:
			// Rotation: the old head now belongs at the tail of the
			// unprocessed window.
			newTargets[newTail] = ed.Move(olds[oldHead].Value, news[newTail], before(newTail+1))
			oldHead++
			newTail--

		case olds[oldTail].Key == news[newHead].Key:
			// Symmetric rotation. The old head target still sits at the
			// left edge of the window, so it is the anchor.
			newTargets[newHead] = ed.Move(olds[oldTail].Value, news[newHead], &olds[oldHead].Value)
			oldTail--
			newHead++

		default:
			// Disjoint reorder: none of the cheap checks apply. Index the
			// remaining old keys, then walk the remaining new range
			// tail-to-head so every anchor is already placed. On duplicate
			// old keys the last index wins; earlier duplicates fall through
			// to removal below.
			oldIndex := make(map[K]int, oldTail-oldHead+1)
			for i := oldHead; i <= oldTail; i++ {
				oldIndex[olds[i].Key] = i
			}

			consumed := make([]bool, oldTail+1)
			for i := newTail; i >= newHead; i-- {
				ref := before(i + 1)
				if oi, ok := oldIndex[news[i].Key]; ok {
					newTargets[i] = ed.Move(olds[oi].Value, news[i], ref)
					consumed[oi] = true
					delete(oldIndex, news[i].Key)
				} else {
					newTargets[i] = ed.Insert(news[i], ref)
				}
			}

			for i := oldHead; i <= oldTail; i++ {
				if !consumed[i] {
					ed.Remove(olds[i].Value)
				}
			}
			return newTargets
		}
	}
}
