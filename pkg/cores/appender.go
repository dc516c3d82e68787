package cores

import (
	"iter"

	"github.com/KevoDB/iterfacade/pkg/iterators"
)

// AppendCore is an output core writing to the end of a slice. Dereference
// exposes the next free slot, growing the slice on first access, and
// Increment moves on to the slot after it.
type AppendCore[T any] struct {
	iterators.OutputTag
	dst *[]T
	pos int
}

func (c *AppendCore[T]) Dereference() *T {
	for len(*c.dst) <= c.pos {
		var zero T
		*c.dst = append(*c.dst, zero)
	}
	return &(*c.dst)[c.pos]
}

func (c *AppendCore[T]) Increment() {
	c.pos++
}

// Appender is an output iterator appending to a slice
type Appender[T any] = iterators.Output[AppendCore[T], *T, *AppendCore[T]]

// NewAppender returns an output iterator that appends to *dst
func NewAppender[T any](dst *[]T) Appender[T] {
	return iterators.NewOutput[AppendCore[T], *T](AppendCore[T]{dst: dst, pos: len(*dst)})
}

// Copy writes every value of seq through out, advancing it after each one,
// and returns how many values were written.
func Copy[T any, C any, PC iterators.OutputCore[C, *T]](seq iter.Seq[T], out *iterators.Output[C, *T, PC]) int {
	n := 0
	for v := range seq {
		*out.Deref() = v
		out.Inc()
		n++
	}
	return n
}
