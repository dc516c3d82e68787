package composite

import (
	"github.com/KevoDB/iterfacade/pkg/common/iterator"
)

// CompositeIterator is an interface for iterators that combine multiple source iterators
// into a single logical view.
type CompositeIterator[T any] interface {
	// Embeds the basic Iterator interface
	iterator.Iterator[T]

	// NumSources returns the number of source iterators
	NumSources() int

	// GetSourceIterators returns the underlying source iterators
	GetSourceIterators() []iterator.Iterator[T]
}

// ChainIterator yields every value of each source in turn
type ChainIterator[T any] struct {
	iterators []iterator.Iterator[T]
	current   int
}

// Chain concatenates sources in the given order
func Chain[T any](sources ...iterator.Iterator[T]) *ChainIterator[T] {
	return &ChainIterator[T]{
		iterators: sources,
		current:   len(sources),
	}
}

// SeekToFirst positions the iterator at the first value of the first non-empty source
func (c *ChainIterator[T]) SeekToFirst() {
	c.current = 0
	c.settle()
}

// Next advances within the current source, moving on to the next
// non-empty source when it is exhausted.
func (c *ChainIterator[T]) Next() bool {
	if !c.Valid() {
		return false
	}
	if c.iterators[c.current].Next() {
		return true
	}
	c.current++
	return c.settle()
}

// settle seeks each source from the current one on and stops at the first non-empty one
func (c *ChainIterator[T]) settle() bool {
	for ; c.current < len(c.iterators); c.current++ {
		c.iterators[c.current].SeekToFirst()
		if c.iterators[c.current].Valid() {
			return true
		}
	}
	return false
}

// Value returns the current value
func (c *ChainIterator[T]) Value() T {
	if !c.Valid() {
		var zero T
		return zero
	}
	return c.iterators[c.current].Value()
}

// Valid returns true if the iterator is positioned at a value
func (c *ChainIterator[T]) Valid() bool {
	return c.current < len(c.iterators) && c.iterators[c.current].Valid()
}

// NumSources returns the number of source iterators
func (c *ChainIterator[T]) NumSources() int {
	return len(c.iterators)
}

// GetSourceIterators returns the underlying source iterators
func (c *ChainIterator[T]) GetSourceIterators() []iterator.Iterator[T] {
	return c.iterators
}
