// Package block stores sorted key-value entries in a compact, checksummed
// and optionally compressed byte block. A decoded Block is immutable and is
// the backing store of the block iterator core.
package block

import (
	"errors"
	"fmt"
	"strings"
)

// Entry represents a key-value pair within the block
type Entry struct {
	Key   []byte
	Value []byte
}

// Codec selects the compression applied to an encoded block
type Codec int

const (
	CodecNone Codec = iota
	CodecSnappy
	CodecZstd
)

func (c Codec) String() string {
	switch c {
	case CodecNone:
		return "none"
	case CodecSnappy:
		return "snappy"
	case CodecZstd:
		return "zstd"
	}
	return fmt.Sprintf("codec(%d)", int(c))
}

// ParseCodec converts a codec name as used in configuration files
func ParseCodec(name string) (Codec, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "none":
		return CodecNone, nil
	case "snappy":
		return CodecSnappy, nil
	case "zstd":
		return CodecZstd, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownCodec, name)
}

const (
	// MaxBlockEntries is the maximum number of entries per block
	MaxBlockEntries = 1024
	// BlockFooterSize is the size of the footer (checksum)
	BlockFooterSize = 8
	// BlockHeaderSize is the size of the header (entry count)
	BlockHeaderSize = 4
)

var (
	// ErrUnknownCodec is returned when an unsupported compression codec is specified
	ErrUnknownCodec = errors.New("unknown compression codec")

	// ErrInvalidCompressedData is returned when compressed data cannot be decompressed
	ErrInvalidCompressedData = errors.New("invalid compressed data")

	// ErrChecksumMismatch is returned when a block fails checksum verification
	ErrChecksumMismatch = errors.New("block checksum mismatch")

	// ErrCorrupt is returned when a block's layout is inconsistent
	ErrCorrupt = errors.New("corrupt block")

	// ErrEmptyBlock is returned when finishing a block without entries
	ErrEmptyBlock = errors.New("cannot finish empty block")

	// ErrKeyOrder is returned when keys are not added in strictly increasing order
	ErrKeyOrder = errors.New("keys must be added in strictly increasing order")

	// ErrBlockFull is returned when adding beyond MaxBlockEntries
	ErrBlockFull = errors.New("block is full")
)
