// Package filtered provides iterators that skip values failing a predicate
package filtered

import (
	"github.com/KevoDB/iterfacade/pkg/common/iterator"
)

// FilterFunc reports whether a value should be yielded
type FilterFunc[T any] func(v T) bool

// Iterator wraps an iterator and applies a filter
type Iterator[T any] struct {
	iter   iterator.Iterator[T]
	filter FilterFunc[T]
}

// NewIterator creates a new iterator with a filter
func NewIterator[T any](iter iterator.Iterator[T], filter FilterFunc[T]) *Iterator[T] {
	return &Iterator[T]{
		iter:   iter,
		filter: filter,
	}
}

// Next advances to the next value that passes the filter
func (fi *Iterator[T]) Next() bool {
	for fi.iter.Next() {
		if fi.filter(fi.iter.Value()) {
			return true
		}
	}
	return false
}

// Value returns the current value
func (fi *Iterator[T]) Value() T {
	return fi.iter.Value()
}

// Valid returns true if the iterator is at a value that passes the filter
func (fi *Iterator[T]) Valid() bool {
	return fi.iter.Valid() && fi.filter(fi.iter.Value())
}

// SeekToFirst positions at the first value that passes the filter
func (fi *Iterator[T]) SeekToFirst() {
	fi.iter.SeekToFirst()

	if fi.iter.Valid() && !fi.filter(fi.iter.Value()) {
		fi.Next()
	}
}

// Not inverts a filter
func Not[T any](f FilterFunc[T]) FilterFunc[T] {
	return func(v T) bool {
		return !f(v)
	}
}
