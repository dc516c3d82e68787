package cores

import (
	"fmt"
	"slices"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KevoDB/iterfacade/pkg/block"
	"github.com/KevoDB/iterfacade/pkg/iterators"
)

func TestMonthRange(t *testing.T) {
	begin, end := MonthRange()

	var got []Month
	for m := range begin.Until(end) {
		got = append(got, m)
	}
	require.Len(t, got, 12)
	assert.Equal(t, January, got[0])
	assert.Equal(t, December, got[11])
	assert.Equal(t, "March", got[2].String())
	assert.Equal(t, "Month(12)", Month(12).String())

	it := begin
	assert.Equal(t, January, it.Deref())
	it.Inc()
	assert.Equal(t, February, it.Deref())
	assert.True(t, it.NotEqual(end))
}

func TestMonthCoreIsInput(t *testing.T) {
	traits, err := iterators.TraitsOf[MonthCore]()
	require.NoError(t, err)
	assert.Equal(t, iterators.LevelInput, traits.Level)

	// Decrement is detected but the tag fixes the level
	d := iterators.DetectFor[MonthCore]()
	assert.True(t, d.Ops.Has(iterators.OpDecrement))
	assert.Equal(t, iterators.LevelInput, d.Target)
}

func TestWrappedMonthProxy(t *testing.T) {
	begin, end := WrappedMonthRange()

	it := begin
	assert.Equal(t, January, it.Arrow().Month())
	assert.Equal(t, "January", it.Arrow().String())

	var names []string
	for w := range begin.Until(end) {
		names = append(names, w.String())
	}
	assert.Len(t, names, 12)
	assert.Equal(t, "December", names[11])

	assert.Equal(t, "Unknown", MonthWrapper{month: December + 1}.String())
}

func TestSliceIterator(t *testing.T) {
	data := []int{1, 2, 3}
	it := Begin(data)
	end := End(data)

	assert.Equal(t, 1, *it.Deref())
	old := it.PostInc()
	assert.Equal(t, 1, old.Value())
	assert.Equal(t, 2, *it.Deref())
	it.Inc()
	assert.Equal(t, 3, *it.Deref())

	*it.Deref() = 30
	assert.Equal(t, []int{1, 2, 30}, data)

	it.Inc()
	assert.True(t, it.Equal(end))
	assert.Equal(t, 3, end.Diff(Begin(data)))
}

func TestSliceIteratorRandomAccess(t *testing.T) {
	data := []string{"a", "b", "c", "d", "e"}
	begin := Begin(data)
	end := End(data)

	assert.Equal(t, "d", *begin.At(3))
	mid := begin.Add(2)
	assert.Equal(t, "c", mid.Value())
	assert.True(t, begin.Less(mid))
	assert.True(t, end.GreaterEqual(mid))

	for n := -2; n <= 2; n++ {
		moved := mid.Add(n)
		assert.Equal(t, n, moved.Diff(mid))
	}

	var backward []string
	for r := range end.Backward(begin) {
		backward = append(backward, *r)
	}
	assert.Equal(t, []string{"e", "d", "c", "b", "a"}, backward)
}

func TestConstSliceIterator(t *testing.T) {
	data := []int{5, 6, 7}
	it := Begin(data)
	it.Inc()

	c := Const(it)
	assert.Equal(t, 6, c.Value())
	assert.Equal(t, 6, c.Deref().Get())

	// The read-only iterator observes writes made through the mutable one
	*it.Deref() = 60
	assert.Equal(t, 60, c.Value())

	// and moves independently
	c.Inc()
	assert.Equal(t, 7, c.Value())
	assert.Equal(t, 60, it.Value())

	end := CEnd(data)
	assert.Equal(t, 3, end.Diff(CBegin(data)))
	assert.True(t, iterators.SemanticallyConst[ConstSliceIterator[int]]())
	assert.False(t, iterators.SemanticallyConst[SliceIterator[int]]())
}

func TestBlockIterator(t *testing.T) {
	builder := block.NewBuilder()
	for i := 0; i < 5; i++ {
		require.NoError(t, builder.Add([]byte(fmt.Sprintf("k%02d", i)), []byte(fmt.Sprintf("v%02d", i))))
	}
	data, err := builder.Finish(block.CodecSnappy)
	require.NoError(t, err)
	b, err := block.Decode(data, block.CodecSnappy)
	require.NoError(t, err)

	begin, end := BlockBegin(b), BlockEnd(b)
	assert.Equal(t, 5, end.Diff(begin))

	var keys []string
	for r := range begin.Until(end) {
		keys = append(keys, string(r.Get().Key))
	}
	assert.Equal(t, []string{"k00", "k01", "k02", "k03", "k04"}, keys)

	assert.Equal(t, "v03", string(begin.At(3).Get().Value))
	last := end.Sub(1)
	assert.Equal(t, "k04", string(last.Value().Key))

	// Iterators over different blocks never compare equal
	other, err := block.Decode(data, block.CodecSnappy)
	require.NoError(t, err)
	assert.False(t, begin.Equal(BlockBegin(other)))
}

func TestAppender(t *testing.T) {
	dst := []int{1}
	out := NewAppender(&dst)

	n := Copy(slices.Values([]int{2, 3, 4}), &out)
	assert.Equal(t, 3, n)
	assert.Equal(t, []int{1, 2, 3, 4}, dst)

	*out.Deref() = 5
	assert.Equal(t, []int{1, 2, 3, 4, 5}, dst)
}

func TestCopyIntoSlice(t *testing.T) {
	src := []int{7, 8, 9}
	var dst []int
	out := NewAppender(&dst)

	begin, end := Begin(src), End(src)
	var values []int
	for r := range begin.Until(end) {
		values = append(values, *r)
	}
	Copy(slices.Values(values), &out)
	assert.Equal(t, src, dst)
}
