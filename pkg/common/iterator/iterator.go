package iterator

import "iter"

// Iterator is a positioned cursor over a sequence of T. It is the common
// shape the range adapters in the sub-packages compose, regardless of which
// iterator facade or core the values come from.
type Iterator[T any] interface {
	// SeekToFirst positions the iterator at the first value
	SeekToFirst()

	// Next advances the iterator to the next value
	Next() bool

	// Value returns the current value
	Value() T

	// Valid returns true if the iterator is positioned at a value
	Valid() bool
}

// All yields every value of it from the first one. The cursor is left
// exhausted, or at the last yielded value when iteration stops early.
func All[T any](it Iterator[T]) iter.Seq[T] {
	return func(yield func(T) bool) {
		for it.SeekToFirst(); it.Valid(); it.Next() {
			if !yield(it.Value()) {
				return
			}
		}
	}
}

// Collect returns every value of it from the first one
func Collect[T any](it Iterator[T]) []T {
	var out []T
	for v := range All(it) {
		out = append(out, v)
	}
	return out
}

// SliceIterator is an Iterator over the elements of a slice
type SliceIterator[T any] struct {
	values []T
	index  int
}

// FromSlice returns an unpositioned iterator over values
func FromSlice[T any](values []T) *SliceIterator[T] {
	return &SliceIterator[T]{values: values, index: -1}
}

func (s *SliceIterator[T]) SeekToFirst() {
	if len(s.values) > 0 {
		s.index = 0
	} else {
		s.index = -1
	}
}

func (s *SliceIterator[T]) Next() bool {
	if s.index >= 0 && s.index < len(s.values)-1 {
		s.index++
		return true
	}
	s.index = -1
	return false
}

func (s *SliceIterator[T]) Value() T {
	if !s.Valid() {
		var zero T
		return zero
	}
	return s.values[s.index]
}

func (s *SliceIterator[T]) Valid() bool {
	return s.index >= 0 && s.index < len(s.values)
}
