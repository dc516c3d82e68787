package iterators

import (
	"iter"
	"reflect"
)

// Forward is a multi-pass forward iterator over a core C that dereferences
// to a reference R (*V or Ref[V]). Its zero value wraps the zero core and is
// a valid, comparable placeholder, e.g. a sentinel for "no position".
type Forward[C any, V any, R Reference[V], PC ForwardCore[C, R]] struct {
	core C
}

// NewForward wraps core in a forward iterator
func NewForward[C any, V any, R Reference[V], PC ForwardCore[C, R]](core C) Forward[C, V, R, PC] {
	mustCheck[C](LevelForward)
	return Forward[C, V, R, PC]{core: core}
}

// Deref returns the reference at the current position
func (it *Forward[C, V, R, PC]) Deref() R {
	return PC(&it.core).Dereference()
}

// Arrow returns the pointer used for member access. Since R is an actual
// reference it is simply the result of Deref.
func (it *Forward[C, V, R, PC]) Arrow() R {
	return it.Deref()
}

// Value reads the current element through its reference
func (it *Forward[C, V, R, PC]) Value() V {
	return load[V](it.Deref())
}

// Equal reports whether both iterators are at the same position
func (it *Forward[C, V, R, PC]) Equal(other Forward[C, V, R, PC]) bool {
	return PC(&it.core).Equals(other.core)
}

// NotEqual is the negation of Equal
func (it *Forward[C, V, R, PC]) NotEqual(other Forward[C, V, R, PC]) bool {
	return !it.Equal(other)
}

// Inc advances the iterator by one position
func (it *Forward[C, V, R, PC]) Inc() {
	PC(&it.core).Increment()
}

// PostInc advances the iterator and returns its previous state
func (it *Forward[C, V, R, PC]) PostInc() Forward[C, V, R, PC] {
	old := *it
	it.Inc()
	return old
}

// Until yields the references from the current position up to, but not
// including, end. The receiver is not moved.
func (it *Forward[C, V, R, PC]) Until(end Forward[C, V, R, PC]) iter.Seq[R] {
	start := *it
	return func(yield func(R) bool) {
		for cur := start; cur.NotEqual(end); cur.Inc() {
			if !yield(cur.Deref()) {
				return
			}
		}
	}
}

// Core returns a copy of the wrapped core
func (it *Forward[C, V, R, PC]) Core() C {
	return it.core
}

func (Forward[C, V, R, PC]) referenceType() reflect.Type {
	return reflect.TypeFor[R]()
}

// load reads through either reference form
func load[V any, R Reference[V]](r R) V {
	switch ref := any(r).(type) {
	case *V:
		return *ref
	case Ref[V]:
		return ref.Get()
	}
	panic("unreachable")
}
