package iterators

import (
	"fmt"
	"reflect"
)

// Output is an output iterator over a core C whose Dereference yields R.
// Values are written through R, so R is normally a pointer into the
// destination. Output iterators have no equality and no usable zero value:
// they must be built with NewOutput.
type Output[C any, R any, PC OutputCore[C, R]] struct {
	core        C
	constructed bool
}

// NewOutput wraps core in an output iterator
func NewOutput[C any, R any, PC OutputCore[C, R]](core C) Output[C, R, PC] {
	mustCheck[C](LevelOutput)
	return Output[C, R, PC]{core: core, constructed: true}
}

func (it *Output[C, R, PC]) mustBeConstructed() {
	if !it.constructed {
		panic(fmt.Errorf("%w: output iterators over %s are not default-constructible",
			ErrNotConstructed, reflect.TypeFor[C]()))
	}
}

// Deref returns the write target at the current position
func (it *Output[C, R, PC]) Deref() R {
	it.mustBeConstructed()
	return PC(&it.core).Dereference()
}

// Inc advances the iterator by one position
func (it *Output[C, R, PC]) Inc() {
	it.mustBeConstructed()
	PC(&it.core).Increment()
}

// PostInc advances the iterator and returns its previous state
func (it *Output[C, R, PC]) PostInc() Output[C, R, PC] {
	old := *it
	it.Inc()
	return old
}

// Core returns a copy of the wrapped core
func (it *Output[C, R, PC]) Core() C {
	return it.core
}

func (Output[C, R, PC]) referenceType() reflect.Type {
	return reflect.TypeFor[R]()
}
