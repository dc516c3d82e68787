package iterators

import "iter"

// Bidirectional is a forward iterator that can also step backwards. It
// embeds Forward, so Deref, Arrow, Value, Inc and Core are promoted; the
// methods whose signatures mention the iterator type are redeclared here.
type Bidirectional[C any, V any, R Reference[V], PC BidirectionalCore[C, R]] struct {
	Forward[C, V, R, PC]
}

// NewBidirectional wraps core in a bidirectional iterator
func NewBidirectional[C any, V any, R Reference[V], PC BidirectionalCore[C, R]](core C) Bidirectional[C, V, R, PC] {
	mustCheck[C](LevelBidirectional)
	return Bidirectional[C, V, R, PC]{Forward[C, V, R, PC]{core: core}}
}

// Equal reports whether both iterators are at the same position
func (it *Bidirectional[C, V, R, PC]) Equal(other Bidirectional[C, V, R, PC]) bool {
	return it.Forward.Equal(other.Forward)
}

// NotEqual is the negation of Equal
func (it *Bidirectional[C, V, R, PC]) NotEqual(other Bidirectional[C, V, R, PC]) bool {
	return !it.Equal(other)
}

// PostInc advances the iterator and returns its previous state
func (it *Bidirectional[C, V, R, PC]) PostInc() Bidirectional[C, V, R, PC] {
	old := *it
	it.Inc()
	return old
}

// Dec moves the iterator back by one position
func (it *Bidirectional[C, V, R, PC]) Dec() {
	PC(&it.core).Decrement()
}

// PostDec moves the iterator back and returns its previous state
func (it *Bidirectional[C, V, R, PC]) PostDec() Bidirectional[C, V, R, PC] {
	old := *it
	it.Dec()
	return old
}

// Until yields the references from the current position up to, but not
// including, end. The receiver is not moved.
func (it *Bidirectional[C, V, R, PC]) Until(end Bidirectional[C, V, R, PC]) iter.Seq[R] {
	return it.Forward.Until(end.Forward)
}

// Backward yields the references before the current position, nearest
// first, down to and including begin. The receiver is not moved.
func (it *Bidirectional[C, V, R, PC]) Backward(begin Bidirectional[C, V, R, PC]) iter.Seq[R] {
	start := *it
	return func(yield func(R) bool) {
		for cur := start; cur.NotEqual(begin); {
			cur.Dec()
			if !yield(cur.Deref()) {
				return
			}
		}
	}
}
