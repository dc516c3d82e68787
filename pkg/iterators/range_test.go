package iterators

import (
	"cmp"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/KevoDB/iterfacade/pkg/common/iterator"
	"github.com/KevoDB/iterfacade/pkg/common/iterator/bounded"
	"github.com/KevoDB/iterfacade/pkg/common/iterator/composite"
	"github.com/KevoDB/iterfacade/pkg/common/iterator/filtered"
)

func forwardRange(data []int) *RangeIterator[forwardCore, int, *int, *forwardCore] {
	begin := NewForward[forwardCore, int, *int](forwardCore{data: data})
	end := NewForward[forwardCore, int, *int](forwardCore{data: data, pos: len(data)})
	return NewRangeIterator(begin, end)
}

func TestRangeIterator(t *testing.T) {
	r := forwardRange([]int{1, 2, 3})

	assert.True(t, r.Valid())
	assert.Equal(t, 1, r.Value())
	assert.True(t, r.Next())
	assert.Equal(t, 2, r.Value())
	pos := r.Position()
	assert.Equal(t, 1, pos.Core().pos)
	assert.True(t, r.Next())
	assert.False(t, r.Next())
	assert.False(t, r.Valid())
	assert.Equal(t, 0, r.Value())

	// Forward ranges can be walked again
	assert.Equal(t, []int{1, 2, 3}, iterator.Collect[int](r))
	assert.Equal(t, []int{1, 2, 3}, iterator.Collect[int](r))
}

func TestRangeIteratorOverRandomAccess(t *testing.T) {
	data := []int{4, 5, 6}
	begin := NewRandomAccess[raCore, int, *int, int32](raCore{data: data})
	end := begin.Add(3)

	r := NewRangeIterator(begin.Forward, end.Forward)
	assert.Equal(t, []int{4, 5, 6}, iterator.Collect[int](r))
}

func TestRangeIteratorAdapters(t *testing.T) {
	lo, hi := 3, 8
	b := bounded.NewIterator[int](forwardRange([]int{1, 2, 3, 4, 5, 6, 7, 8, 9}), cmp.Compare[int], &lo, &hi)
	f := filtered.NewIterator[int](b, func(v int) bool { return v%2 == 1 })
	assert.Equal(t, []int{3, 5, 7}, iterator.Collect[int](f))

	chain := composite.Chain[int](forwardRange([]int{1}), forwardRange(nil), forwardRange([]int{2, 3}))
	assert.Equal(t, []int{1, 2, 3}, iterator.Collect[int](chain))

	empty := forwardRange(nil)
	empty.SeekToFirst()
	assert.False(t, empty.Valid())
}
