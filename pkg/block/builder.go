package block

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"

	"github.com/cespare/xxhash/v2"
)

// Builder constructs a sorted, serialized block.
//
// Layout before compression:
//
//	[count u32][offset u32 * count][entries][xxhash64 u64]
//
// where each entry is [key length u16][key][value length u32][value] and
// each offset is the position of an entry relative to the start of the
// entries section. The checksum covers everything before it.
type Builder struct {
	entries     []Entry
	currentSize uint32
	lastKey     []byte
}

// NewBuilder creates a new block builder
func NewBuilder() *Builder {
	return &Builder{
		entries: make([]Entry, 0, 16),
	}
}

// Add adds a key-value pair to the block.
// Keys must be added in strictly increasing order.
func (b *Builder) Add(key, value []byte) error {
	if len(b.entries) > 0 && bytes.Compare(key, b.lastKey) <= 0 {
		return fmt.Errorf("%w, got %q after %q", ErrKeyOrder, key, b.lastKey)
	}
	if len(b.entries) >= MaxBlockEntries {
		return ErrBlockFull
	}
	if len(key) > math.MaxUint16 {
		return fmt.Errorf("key too long: %d bytes", len(key))
	}

	b.entries = append(b.entries, Entry{
		Key:   append([]byte(nil), key...),   // Make copies to avoid references
		Value: append([]byte(nil), value...), // to external data
	})

	b.currentSize += uint32(len(key) + len(value) + 6 + 4) // lengths + offset
	b.lastKey = append([]byte(nil), key...)
	return nil
}

// Reset clears the builder state
func (b *Builder) Reset() {
	b.entries = b.entries[:0]
	b.currentSize = 0
	b.lastKey = nil
}

// EstimatedSize returns the size of the block when serialized without compression
func (b *Builder) EstimatedSize() uint32 {
	if len(b.entries) == 0 {
		return 0
	}
	return BlockHeaderSize + b.currentSize + BlockFooterSize
}

// Entries returns the number of entries in the block
func (b *Builder) Entries() int {
	return len(b.entries)
}

// Finish serializes the block and compresses it with codec
func (b *Builder) Finish(codec Codec) ([]byte, error) {
	if len(b.entries) == 0 {
		return nil, ErrEmptyBlock
	}

	buffer := bytes.NewBuffer(make([]byte, 0, b.EstimatedSize()))
	binary.Write(buffer, binary.LittleEndian, uint32(len(b.entries)))

	offset := uint32(0)
	for _, entry := range b.entries {
		binary.Write(buffer, binary.LittleEndian, offset)
		offset += uint32(2 + len(entry.Key) + 4 + len(entry.Value))
	}

	for _, entry := range b.entries {
		binary.Write(buffer, binary.LittleEndian, uint16(len(entry.Key)))
		buffer.Write(entry.Key)
		binary.Write(buffer, binary.LittleEndian, uint32(len(entry.Value)))
		buffer.Write(entry.Value)
	}

	checksum := xxhash.Sum64(buffer.Bytes())
	binary.Write(buffer, binary.LittleEndian, checksum)

	c, err := shared()
	if err != nil {
		return nil, err
	}
	return c.Compress(buffer.Bytes(), codec)
}
