package iterators

import "iter"

// RandomAccess is a bidirectional iterator with constant-time jumps,
// iterator differences, ordering and offset dereference. All arithmetic is
// expressed through the core's Advance and DistanceTo; ordering is derived
// from the sign of the difference.
type RandomAccess[C any, V any, R Reference[V], D Signed, PC RandomAccessCore[C, R, D]] struct {
	Bidirectional[C, V, R, PC]
}

// NewRandomAccess wraps core in a random access iterator
func NewRandomAccess[C any, V any, R Reference[V], D Signed, PC RandomAccessCore[C, R, D]](core C) RandomAccess[C, V, R, D, PC] {
	mustCheck[C](LevelRandomAccess)
	return RandomAccess[C, V, R, D, PC]{Bidirectional[C, V, R, PC]{Forward[C, V, R, PC]{core: core}}}
}

// Equal reports whether both iterators are at the same position
func (it *RandomAccess[C, V, R, D, PC]) Equal(other RandomAccess[C, V, R, D, PC]) bool {
	return it.Forward.Equal(other.Forward)
}

// NotEqual is the negation of Equal
func (it *RandomAccess[C, V, R, D, PC]) NotEqual(other RandomAccess[C, V, R, D, PC]) bool {
	return !it.Equal(other)
}

// PostInc advances the iterator and returns its previous state
func (it *RandomAccess[C, V, R, D, PC]) PostInc() RandomAccess[C, V, R, D, PC] {
	old := *it
	it.Inc()
	return old
}

// PostDec moves the iterator back and returns its previous state
func (it *RandomAccess[C, V, R, D, PC]) PostDec() RandomAccess[C, V, R, D, PC] {
	old := *it
	it.Dec()
	return old
}

// AddAssign moves the iterator n positions, backwards when n is negative
func (it *RandomAccess[C, V, R, D, PC]) AddAssign(n D) {
	PC(&it.core).Advance(n)
}

// SubAssign moves the iterator n positions backwards
func (it *RandomAccess[C, V, R, D, PC]) SubAssign(n D) {
	it.AddAssign(-n)
}

// Add returns a copy of the iterator moved n positions
func (it *RandomAccess[C, V, R, D, PC]) Add(n D) RandomAccess[C, V, R, D, PC] {
	moved := *it
	moved.AddAssign(n)
	return moved
}

// Sub returns a copy of the iterator moved n positions backwards
func (it *RandomAccess[C, V, R, D, PC]) Sub(n D) RandomAccess[C, V, R, D, PC] {
	return it.Add(-n)
}

// Diff returns the number of positions from other to it, so that
// other.Add(it.Diff(other)) equals it.
func (it *RandomAccess[C, V, R, D, PC]) Diff(other RandomAccess[C, V, R, D, PC]) D {
	return PC(&other.core).DistanceTo(it.core)
}

// Less reports whether it is before other
func (it *RandomAccess[C, V, R, D, PC]) Less(other RandomAccess[C, V, R, D, PC]) bool {
	return it.Diff(other) < 0
}

// LessEqual reports whether it is before or at other
func (it *RandomAccess[C, V, R, D, PC]) LessEqual(other RandomAccess[C, V, R, D, PC]) bool {
	return it.Equal(other) || it.Less(other)
}

// Greater reports whether it is after other
func (it *RandomAccess[C, V, R, D, PC]) Greater(other RandomAccess[C, V, R, D, PC]) bool {
	return !it.LessEqual(other)
}

// GreaterEqual reports whether it is after or at other
func (it *RandomAccess[C, V, R, D, PC]) GreaterEqual(other RandomAccess[C, V, R, D, PC]) bool {
	return it.Diff(other) > 0 || it.Equal(other)
}

// At returns the reference n positions away without moving the iterator
func (it *RandomAccess[C, V, R, D, PC]) At(n D) R {
	moved := it.Add(n)
	return moved.Deref()
}

// Until yields the references from the current position up to, but not
// including, end. The receiver is not moved.
func (it *RandomAccess[C, V, R, D, PC]) Until(end RandomAccess[C, V, R, D, PC]) iter.Seq[R] {
	return it.Forward.Until(end.Forward)
}

// Backward yields the references before the current position, nearest
// first, down to and including begin. The receiver is not moved.
func (it *RandomAccess[C, V, R, D, PC]) Backward(begin RandomAccess[C, V, R, D, PC]) iter.Seq[R] {
	return it.Bidirectional.Backward(begin.Bidirectional)
}

// All yields the index relative to the current position and the reference
// for every element up to end.
func (it *RandomAccess[C, V, R, D, PC]) All(end RandomAccess[C, V, R, D, PC]) iter.Seq2[D, R] {
	start := *it
	return func(yield func(D, R) bool) {
		n := end.Diff(start)
		for i := D(0); i < n; i++ {
			if !yield(i, start.At(i)) {
				return
			}
		}
	}
}

// Add returns it moved n positions. It is the offset-first form of
// RandomAccess.Add, so both n+it and it+n can be written.
func Add[C any, V any, R Reference[V], D Signed, PC RandomAccessCore[C, R, D]](n D, it RandomAccess[C, V, R, D, PC]) RandomAccess[C, V, R, D, PC] {
	return it.Add(n)
}
