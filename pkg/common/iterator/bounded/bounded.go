package bounded

import (
	"github.com/KevoDB/iterfacade/pkg/common/iterator"
)

// CompareFunc orders two values like cmp.Compare
type CompareFunc[T any] func(a, b T) int

// Iterator wraps an ascending iterator and limits it to the half-open
// range [start, end). A nil bound leaves that side open.
type Iterator[T any] struct {
	iterator.Iterator[T]
	cmp   CompareFunc[T]
	start *T
	end   *T
}

// NewIterator creates a new bounded iterator
func NewIterator[T any](iter iterator.Iterator[T], cmp CompareFunc[T], start, end *T) *Iterator[T] {
	b := &Iterator[T]{
		Iterator: iter,
		cmp:      cmp,
	}
	b.SetBounds(start, end)
	return b
}

// SetBounds sets the start and end bounds for the iterator
func (b *Iterator[T]) SetBounds(start, end *T) {
	// Copy the bounds to avoid external modification
	b.start, b.end = nil, nil
	if start != nil {
		s := *start
		b.start = &s
	}
	if end != nil {
		e := *end
		b.end = &e
	}
}

// SeekToFirst positions at the first value in the bounded range
func (b *Iterator[T]) SeekToFirst() {
	b.Iterator.SeekToFirst()
	for b.Iterator.Valid() && b.beforeStart() {
		b.Iterator.Next()
	}
}

// Next advances to the next value within bounds
func (b *Iterator[T]) Next() bool {
	// First check if we're already at or beyond the end boundary
	if !b.checkBounds() {
		return false
	}
	if !b.Iterator.Next() {
		return false
	}
	return b.checkBounds()
}

// Valid returns true if the iterator is positioned at a value within bounds
func (b *Iterator[T]) Valid() bool {
	return b.checkBounds()
}

// Value returns the current value if within bounds
func (b *Iterator[T]) Value() T {
	if !b.Valid() {
		var zero T
		return zero
	}
	return b.Iterator.Value()
}

func (b *Iterator[T]) beforeStart() bool {
	return b.start != nil && b.cmp(b.Iterator.Value(), *b.start) < 0
}

// checkBounds verifies that the current position is within the bounds
func (b *Iterator[T]) checkBounds() bool {
	if !b.Iterator.Valid() {
		return false
	}
	if b.beforeStart() {
		return false
	}
	if b.end != nil && b.cmp(b.Iterator.Value(), *b.end) >= 0 {
		return false
	}
	return true
}
