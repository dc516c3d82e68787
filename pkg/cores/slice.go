package cores

import (
	"github.com/KevoDB/iterfacade/pkg/iterators"
)

// SliceCore is a random access core over the elements of a slice. It
// dereferences to a pointer into the slice, so stores through the iterator
// modify the slice. Two cores are at the same position when their indices
// match; comparing cores over different slices is meaningless.
type SliceCore[T any] struct {
	iterators.RandomAccessTag
	items []T
	index int
}

func (c *SliceCore[T]) Dereference() *T { return &c.items[c.index] }
func (c *SliceCore[T]) Increment()      { c.index++ }
func (c *SliceCore[T]) Decrement()      { c.index-- }
func (c *SliceCore[T]) Advance(n int)   { c.index += n }

func (c *SliceCore[T]) Equals(other SliceCore[T]) bool {
	return c.index == other.index
}

func (c *SliceCore[T]) DistanceTo(other SliceCore[T]) int {
	return other.index - c.index
}

// ConstSliceCore is SliceCore with a read-only reference
type ConstSliceCore[T any] struct {
	iterators.RandomAccessTag
	items []T
	index int
}

func (c *ConstSliceCore[T]) Dereference() iterators.Ref[T] { return iterators.RefTo(&c.items[c.index]) }
func (c *ConstSliceCore[T]) Increment()                    { c.index++ }
func (c *ConstSliceCore[T]) Decrement()                    { c.index-- }
func (c *ConstSliceCore[T]) Advance(n int)                 { c.index += n }

func (c *ConstSliceCore[T]) Equals(other ConstSliceCore[T]) bool {
	return c.index == other.index
}

func (c *ConstSliceCore[T]) DistanceTo(other ConstSliceCore[T]) int {
	return other.index - c.index
}

// FromCore positions c where src is, over the same slice
func (c *ConstSliceCore[T]) FromCore(src SliceCore[T]) {
	c.items = src.items
	c.index = src.index
}

// SliceIterator is a mutable random access iterator into a slice
type SliceIterator[T any] = iterators.RandomAccess[SliceCore[T], T, *T, int, *SliceCore[T]]

// ConstSliceIterator is a read-only random access iterator into a slice
type ConstSliceIterator[T any] = iterators.RandomAccess[ConstSliceCore[T], T, iterators.Ref[T], int, *ConstSliceCore[T]]

// Begin returns an iterator to the first element of s
func Begin[T any](s []T) SliceIterator[T] {
	return iterators.NewRandomAccess[SliceCore[T], T, *T, int](SliceCore[T]{items: s})
}

// End returns an iterator one past the last element of s
func End[T any](s []T) SliceIterator[T] {
	return iterators.NewRandomAccess[SliceCore[T], T, *T, int](SliceCore[T]{items: s, index: len(s)})
}

// CBegin returns a read-only iterator to the first element of s
func CBegin[T any](s []T) ConstSliceIterator[T] {
	return iterators.NewRandomAccess[ConstSliceCore[T], T, iterators.Ref[T], int](ConstSliceCore[T]{items: s})
}

// CEnd returns a read-only iterator one past the last element of s
func CEnd[T any](s []T) ConstSliceIterator[T] {
	return iterators.NewRandomAccess[ConstSliceCore[T], T, iterators.Ref[T], int](ConstSliceCore[T]{items: s, index: len(s)})
}

// Const converts a mutable slice iterator into a read-only one at the same position
func Const[T any](it SliceIterator[T]) ConstSliceIterator[T] {
	c, err := iterators.ConstRandomAccess[ConstSliceCore[T]](it)
	if err != nil {
		// *T to Ref[T] is always legal
		panic(err)
	}
	return c
}
