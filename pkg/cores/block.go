package cores

import (
	"github.com/KevoDB/iterfacade/pkg/block"
	"github.com/KevoDB/iterfacade/pkg/iterators"
)

// BlockCore is a random access core over the entries of a decoded block.
// Blocks are immutable, so it only hands out read-only references.
type BlockCore struct {
	iterators.RandomAccessTag
	block *block.Block
	index int
}

func (c *BlockCore) Dereference() iterators.Ref[block.Entry] { return iterators.RefTo(c.block.At(c.index)) }
func (c *BlockCore) Increment()                              { c.index++ }
func (c *BlockCore) Decrement()                              { c.index-- }
func (c *BlockCore) Advance(n int)                           { c.index += n }

func (c *BlockCore) Equals(other BlockCore) bool {
	return c.block == other.block && c.index == other.index
}

func (c *BlockCore) DistanceTo(other BlockCore) int {
	return other.index - c.index
}

// BlockIterator is a read-only random access iterator over block entries
type BlockIterator = iterators.RandomAccess[BlockCore, block.Entry, iterators.Ref[block.Entry], int, *BlockCore]

// BlockBegin returns an iterator to the first entry of b
func BlockBegin(b *block.Block) BlockIterator {
	return iterators.NewRandomAccess[BlockCore, block.Entry, iterators.Ref[block.Entry], int](BlockCore{block: b})
}

// BlockEnd returns an iterator one past the last entry of b
func BlockEnd(b *block.Block) BlockIterator {
	return iterators.NewRandomAccess[BlockCore, block.Entry, iterators.Ref[block.Entry], int](BlockCore{block: b, index: b.Len()})
}
