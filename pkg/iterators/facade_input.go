package iterators

import (
	"fmt"
	"iter"
	"reflect"
)

// Input is a single-pass input iterator over a core C whose Dereference
// yields R. R may be a value rather than a reference; Arrow then hands out
// a proxy. Like Output, the zero value is not usable.
type Input[C any, R any, PC InputCore[C, R]] struct {
	core        C
	constructed bool
}

// NewInput wraps core in an input iterator
func NewInput[C any, R any, PC InputCore[C, R]](core C) Input[C, R, PC] {
	mustCheck[C](LevelInput)
	return Input[C, R, PC]{core: core, constructed: true}
}

func (it *Input[C, R, PC]) mustBeConstructed() {
	if !it.constructed {
		panic(fmt.Errorf("%w: input iterators over %s are not default-constructible",
			ErrNotConstructed, reflect.TypeFor[C]()))
	}
}

// Deref returns the element at the current position
func (it *Input[C, R, PC]) Deref() R {
	it.mustBeConstructed()
	return PC(&it.core).Dereference()
}

// Arrow returns a pointer for member access into the current element. The
// pointer addresses a single copy of what Deref returns, materialized for
// this call only; stores through it do not reach the underlying sequence
// and later calls get a fresh copy.
func (it *Input[C, R, PC]) Arrow() *R {
	proxy := it.Deref()
	return &proxy
}

// Equal reports whether both iterators are at the same position
func (it *Input[C, R, PC]) Equal(other Input[C, R, PC]) bool {
	it.mustBeConstructed()
	other.mustBeConstructed()
	return PC(&it.core).Equals(other.core)
}

// NotEqual is the negation of Equal
func (it *Input[C, R, PC]) NotEqual(other Input[C, R, PC]) bool {
	return !it.Equal(other)
}

// Inc advances the iterator by one position
func (it *Input[C, R, PC]) Inc() {
	it.mustBeConstructed()
	PC(&it.core).Increment()
}

// PostInc advances the iterator and returns its previous state
func (it *Input[C, R, PC]) PostInc() Input[C, R, PC] {
	old := *it
	it.Inc()
	return old
}

// Until yields the elements from the current position up to, but not
// including, end. The receiver is not moved.
func (it *Input[C, R, PC]) Until(end Input[C, R, PC]) iter.Seq[R] {
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
func (it *Input[C, R, PC]) Core() C {
	return it.core
}

func (Input[C, R, PC]) referenceType() reflect.Type {
	return reflect.TypeFor[R]()
}
