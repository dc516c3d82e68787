package block

import (
	"encoding/binary"
	"fmt"

	"github.com/cespare/xxhash/v2"
)

// Block is a decoded, immutable block
type Block struct {
	entries  []Entry
	checksum uint64
}

// Decode decompresses data with codec, verifies its checksum and parses the
// entries.
func Decode(data []byte, codec Codec) (*Block, error) {
	c, err := shared()
	if err != nil {
		return nil, err
	}
	raw, err := c.Decompress(data, codec)
	if err != nil {
		return nil, err
	}

	if len(raw) < BlockHeaderSize+BlockFooterSize {
		return nil, fmt.Errorf("%w: block data too small: %d bytes", ErrCorrupt, len(raw))
	}

	// The checksum covers everything except the checksum itself
	footerOffset := len(raw) - BlockFooterSize
	checksum := binary.LittleEndian.Uint64(raw[footerOffset:])
	if computed := xxhash.Sum64(raw[:footerOffset]); computed != checksum {
		return nil, fmt.Errorf("%w: expected %d, got %d", ErrChecksumMismatch, checksum, computed)
	}

	count := int(binary.LittleEndian.Uint32(raw))
	entriesStart := BlockHeaderSize + 4*count
	if count > MaxBlockEntries || entriesStart > footerOffset {
		return nil, fmt.Errorf("%w: invalid entry count %d", ErrCorrupt, count)
	}
	section := raw[entriesStart:footerOffset]

	entries := make([]Entry, count)
	for i := range entries {
		offset := int(binary.LittleEndian.Uint32(raw[BlockHeaderSize+4*i:]))
		entry, err := decodeEntry(section, offset)
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		entries[i] = entry
	}

	return &Block{entries: entries, checksum: checksum}, nil
}

func decodeEntry(section []byte, offset int) (Entry, error) {
	if offset+2 > len(section) {
		return Entry{}, fmt.Errorf("%w: key length out of range", ErrCorrupt)
	}
	keyLen := int(binary.LittleEndian.Uint16(section[offset:]))
	pos := offset + 2
	if pos+keyLen+4 > len(section) {
		return Entry{}, fmt.Errorf("%w: key out of range", ErrCorrupt)
	}
	key := section[pos : pos+keyLen]
	pos += keyLen

	valueLen := int(binary.LittleEndian.Uint32(section[pos:]))
	pos += 4
	if pos+valueLen > len(section) {
		return Entry{}, fmt.Errorf("%w: value out of range", ErrCorrupt)
	}
	value := section[pos : pos+valueLen]

	return Entry{Key: key, Value: value}, nil
}

// Len returns the number of entries
func (b *Block) Len() int {
	return len(b.entries)
}

// At returns the i-th entry. The entry belongs to the block and must not be
// modified.
func (b *Block) At(i int) *Entry {
	return &b.entries[i]
}

// Checksum returns the checksum stored in the block
func (b *Block) Checksum() uint64 {
	return b.checksum
}
