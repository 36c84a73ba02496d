package reconcile

// OpKind tags one recorded reconciliation operation.
type OpKind uint8

const (
	OpInsert OpKind = iota
	OpMove
	OpUpdate
	OpRemove
)

func (k OpKind) String() string {
	switch k {
	case OpInsert:
		return "insert"
	case OpMove:
		return "move"
	case OpUpdate:
		return "update"
	case OpRemove:
		return "remove"
	default:
		return "unknown"
	}
}

// Op is one recorded operation. Remove ops carry the zero key; the removed
// target is only known to the wrapped editor.
type Op[K comparable] struct {
	Kind OpKind
	Key  K
}

// Recorder decorates an Editor, capturing the operation sequence as a side
// channel for tests, tracing and benchmark accounting.
type Recorder[K comparable, S, T any] struct {
	Editor Editor[K, S, T]
	Ops    []Op[K]
}

func NewRecorder[K comparable, S, T any](ed Editor[K, S, T]) *Recorder[K, S, T] {
	return &Recorder[K, S, T]{Editor: ed}
}

func (r *Recorder[K, S, T]) Insert(item Keyed[K, S], before *T) T {
	r.Ops = append(r.Ops, Op[K]{Kind: OpInsert, Key: item.Key})
	return r.Editor.Insert(item, before)
}

func (r *Recorder[K, S, T]) Move(target T, item Keyed[K, S], before *T) T {
	r.Ops = append(r.Ops, Op[K]{Kind: OpMove, Key: item.Key})
	return r.Editor.Move(target, item, before)
}

func (r *Recorder[K, S, T]) Update(target T, item Keyed[K, S]) T {
	r.Ops = append(r.Ops, Op[K]{Kind: OpUpdate, Key: item.Key})
	return r.Editor.Update(target, item)
}

func (r *Recorder[K, S, T]) Remove(target T) {
	var zero K
	r.Ops = append(r.Ops, Op[K]{Kind: OpRemove, Key: zero})
	r.Editor.Remove(target)
}

// Count tallies the recorded ops of one kind.
func (r *Recorder[K, S, T]) Count(kind OpKind) int {
	n := 0
	for _, op := range r.Ops {
		if op.Kind == kind {
			n++
		}
	}
	return n
}
