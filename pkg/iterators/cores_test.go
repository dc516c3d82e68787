package iterators

import "sync"

// Well-formed cores, one per level, plus const counterparts for conversions.

type outputCore struct {
	OutputTag
	buf []int
	pos int
}

func (c *outputCore) Dereference() *int { return &c.buf[c.pos] }
func (c *outputCore) Increment()        { c.pos++ }

type constOutputCore struct {
	OutputTag
	buf []int
	pos int
}

func (c *constOutputCore) Dereference() Ref[int]     { return RefTo(&c.buf[c.pos]) }
func (c *constOutputCore) Increment()                { c.pos++ }
func (c *constOutputCore) FromCore(src outputCore)   { c.buf, c.pos = src.buf, src.pos }

// inputCore yields pos*10 by value
type inputCore struct {
	InputTag
	pos int
}

func (c *inputCore) Dereference() int          { return c.pos * 10 }
func (c *inputCore) Increment()                { c.pos++ }
func (c *inputCore) Equals(other inputCore) bool { return c.pos == other.pos }

type inputPtrCore struct {
	InputTag
	data []int
	pos  int
}

func (c *inputPtrCore) Dereference() *int                { return &c.data[c.pos] }
func (c *inputPtrCore) Increment()                       { c.pos++ }
func (c *inputPtrCore) Equals(other inputPtrCore) bool   { return c.pos == other.pos }

type constInputCore struct {
	InputTag
	data []int
	pos  int
}

func (c *constInputCore) Dereference() Ref[int]            { return RefTo(&c.data[c.pos]) }
func (c *constInputCore) Increment()                       { c.pos++ }
func (c *constInputCore) Equals(other constInputCore) bool { return c.pos == other.pos }
func (c *constInputCore) FromCore(src inputPtrCore)        { c.data, c.pos = src.data, src.pos }

// recopiedInputCore can only be built from an already const core
type recopiedInputCore struct {
	InputTag
	data []int
	pos  int
}

func (c *recopiedInputCore) Dereference() Ref[int]               { return RefTo(&c.data[c.pos]) }
func (c *recopiedInputCore) Increment()                          { c.pos++ }
func (c *recopiedInputCore) Equals(other recopiedInputCore) bool { return c.pos == other.pos }
func (c *recopiedInputCore) FromCore(src constInputCore)         { c.data, c.pos = src.data, src.pos }

// valueInputCore is built from a mutable core but hands out copies
type valueInputCore struct {
	InputTag
	data []int
	pos  int
}

func (c *valueInputCore) Dereference() int                   { return c.data[c.pos] }
func (c *valueInputCore) Increment()                         { c.pos++ }
func (c *valueInputCore) Equals(other valueInputCore) bool   { return c.pos == other.pos }
func (c *valueInputCore) FromCore(src inputPtrCore)          { c.data, c.pos = src.data, src.pos }

type forwardCore struct {
	ForwardTag
	data []int
	pos  int
}

func (c *forwardCore) Dereference() *int              { return &c.data[c.pos] }
func (c *forwardCore) Increment()                     { c.pos++ }
func (c *forwardCore) Equals(other forwardCore) bool  { return c.pos == other.pos }

type constForwardCore struct {
	ForwardTag
	data []int
	pos  int
}

func (c *constForwardCore) Dereference() Ref[int]              { return RefTo(&c.data[c.pos]) }
func (c *constForwardCore) Increment()                         { c.pos++ }
func (c *constForwardCore) Equals(other constForwardCore) bool { return c.pos == other.pos }
func (c *constForwardCore) FromCore(src forwardCore)           { c.data, c.pos = src.data, src.pos }

type bidiCore struct {
	BidirectionalTag
	data []int
	pos  int
}

func (c *bidiCore) Dereference() *int           { return &c.data[c.pos] }
func (c *bidiCore) Increment()                  { c.pos++ }
func (c *bidiCore) Decrement()                  { c.pos-- }
func (c *bidiCore) Equals(other bidiCore) bool  { return c.pos == other.pos }

type constBidiCore struct {
	BidirectionalTag
	data []int
	pos  int
}

func (c *constBidiCore) Dereference() Ref[int]           { return RefTo(&c.data[c.pos]) }
func (c *constBidiCore) Increment()                      { c.pos++ }
func (c *constBidiCore) Decrement()                      { c.pos-- }
func (c *constBidiCore) Equals(other constBidiCore) bool { return c.pos == other.pos }
func (c *constBidiCore) FromCore(src bidiCore)           { c.data, c.pos = src.data, src.pos }

// raCore uses int32 as its difference type
type raCore struct {
	RandomAccessTag
	data []int
	pos  int32
}

func (c *raCore) Dereference() *int              { return &c.data[c.pos] }
func (c *raCore) Increment()                     { c.pos++ }
func (c *raCore) Decrement()                     { c.pos-- }
func (c *raCore) Advance(n int32)                { c.pos += n }
func (c *raCore) Equals(other raCore) bool       { return c.pos == other.pos }
func (c *raCore) DistanceTo(other raCore) int32  { return other.pos - c.pos }

// smallRACore has a difference type narrower than int64
type smallRACore struct {
	RandomAccessTag
	data []int
	pos  int8
}

func (c *smallRACore) Dereference() *int               { return &c.data[c.pos] }
func (c *smallRACore) Increment()                      { c.pos++ }
func (c *smallRACore) Decrement()                      { c.pos-- }
func (c *smallRACore) Advance(n int8)                  { c.pos += n }
func (c *smallRACore) Equals(other smallRACore) bool   { return c.pos == other.pos }
func (c *smallRACore) DistanceTo(other smallRACore) int8 { return other.pos - c.pos }

type constRACore struct {
	RandomAccessTag
	data []int
	pos  int32
}

func (c *constRACore) Dereference() Ref[int]                { return RefTo(&c.data[c.pos]) }
func (c *constRACore) Increment()                           { c.pos++ }
func (c *constRACore) Decrement()                           { c.pos-- }
func (c *constRACore) Advance(n int32)                      { c.pos += n }
func (c *constRACore) Equals(other constRACore) bool        { return c.pos == other.pos }
func (c *constRACore) DistanceTo(other constRACore) int32   { return other.pos - c.pos }
func (c *constRACore) FromCore(src raCore)                  { c.data, c.pos = src.data, src.pos }

// sharedRACore hands out its const counterpart itself; the const core's
// FromCore only delegates to it. Both point at the same int.
type sharedRACore struct {
	RandomAccessTag
	val *int
}

func (c *sharedRACore) Dereference() *int                  { return c.val }
func (c *sharedRACore) Increment()                         {}
func (c *sharedRACore) Decrement()                         {}
func (c *sharedRACore) Advance(int)                        {}
func (c *sharedRACore) Equals(other sharedRACore) bool     { return c.val == other.val }
func (c *sharedRACore) DistanceTo(other sharedRACore) int  { return 0 }
func (c *sharedRACore) Const() constSharedRACore           { return constSharedRACore{val: c.val} }

type constSharedRACore struct {
	RandomAccessTag
	val *int
}

func (c *constSharedRACore) Dereference() Ref[int]                  { return RefTo(c.val) }
func (c *constSharedRACore) Increment()                             {}
func (c *constSharedRACore) Decrement()                             {}
func (c *constSharedRACore) Advance(int)                            {}
func (c *constSharedRACore) Equals(other constSharedRACore) bool    { return c.val == other.val }
func (c *constSharedRACore) DistanceTo(other constSharedRACore) int { return 0 }
func (c *constSharedRACore) FromCore(src sharedRACore)              { *c = src.Const() }

// Ill-formed cores.

type emptyInputCore struct{ InputTag }

type emptyRACore struct{ RandomAccessTag }

type untaggedCore struct{ pos int }

func (c *untaggedCore) Dereference() int              { return c.pos }
func (c *untaggedCore) Increment()                    { c.pos++ }
func (c *untaggedCore) Equals(other untaggedCore) bool { return c.pos == other.pos }

type unsignedCore struct {
	RandomAccessTag
	v   int
	pos uint
}

func (c *unsignedCore) Dereference() *int                 { return &c.v }
func (c *unsignedCore) Increment()                        { c.pos++ }
func (c *unsignedCore) Decrement()                        { c.pos-- }
func (c *unsignedCore) Advance(n uint)                    { c.pos += n }
func (c *unsignedCore) Equals(other unsignedCore) bool    { return c.pos == other.pos }
func (c *unsignedCore) DistanceTo(other unsignedCore) uint { return other.pos - c.pos }

type floatDistanceCore struct {
	RandomAccessTag
	v   int
	pos int
}

func (c *floatDistanceCore) Dereference() *int                         { return &c.v }
func (c *floatDistanceCore) Increment()                                { c.pos++ }
func (c *floatDistanceCore) Decrement()                                { c.pos-- }
func (c *floatDistanceCore) Advance(n int)                             { c.pos += n }
func (c *floatDistanceCore) Equals(other floatDistanceCore) bool       { return c.pos == other.pos }
func (c *floatDistanceCore) DistanceTo(other floatDistanceCore) float64 { return float64(other.pos - c.pos) }

type offsetMismatchCore struct {
	RandomAccessTag
	v   int
	pos int
}

func (c *offsetMismatchCore) Dereference() *int                       { return &c.v }
func (c *offsetMismatchCore) Increment()                              { c.pos++ }
func (c *offsetMismatchCore) Decrement()                              { c.pos-- }
func (c *offsetMismatchCore) Advance(n int64)                         { c.pos += int(n) }
func (c *offsetMismatchCore) Equals(other offsetMismatchCore) bool    { return c.pos == other.pos }
func (c *offsetMismatchCore) DistanceTo(other offsetMismatchCore) int { return other.pos - c.pos }

type lockedCore struct {
	ForwardTag
	mu sync.Mutex
	v  int
}

func (c *lockedCore) Dereference() *int { return &c.v }
func (c *lockedCore) Increment()        { c.v++ }
func (c *lockedCore) Equals(other *lockedCore) bool {
	return c.v == other.v
}

// lockedByValueCore takes itself by value in Equals, so it is detected fully
type lockedByValueCore struct {
	InputTag
	mu sync.Mutex
	v  int
}

func (c *lockedByValueCore) Dereference() int { return c.v }
func (c *lockedByValueCore) Increment()       { c.v++ }
func (c *lockedByValueCore) Equals(other lockedByValueCore) bool {
	return c.v == other.v
}

type noDefaultCore struct {
	ForwardTag
	NoDefault
	v int
}

func (c *noDefaultCore) Dereference() *int               { return &c.v }
func (c *noDefaultCore) Increment()                      { c.v++ }
func (c *noDefaultCore) Equals(other noDefaultCore) bool { return c.v == other.v }

type valueRefCore struct {
	ForwardTag
	v int
}

func (c *valueRefCore) Dereference() int                { return c.v }
func (c *valueRefCore) Increment()                      { c.v++ }
func (c *valueRefCore) Equals(other valueRefCore) bool  { return c.v == other.v }

type declaredCore struct {
	ForwardTag
	ValueOf[float64]
	v int
}

func (c *declaredCore) Dereference() *int               { return &c.v }
func (c *declaredCore) Increment()                      { c.v++ }
func (c *declaredCore) Equals(other declaredCore) bool  { return c.v == other.v }

type badDeclaredCore struct {
	ForwardTag
	ValueOf[[]byte]
	v int
}

func (c *badDeclaredCore) Dereference() *int                 { return &c.v }
func (c *badDeclaredCore) Increment()                        { c.v++ }
func (c *badDeclaredCore) Equals(other badDeclaredCore) bool { return c.v == other.v }

type wrongEqualsCore struct {
	InputTag
	v int
}

func (c *wrongEqualsCore) Dereference() int     { return c.v }
func (c *wrongEqualsCore) Increment()           { c.v++ }
func (c *wrongEqualsCore) Equals(other int) bool { return c.v == other }

// mislabeledCore has every operation but only declares the Input level
type mislabeledCore struct {
	InputTag
	data []int
	pos  int
}

func (c *mislabeledCore) Dereference() *int                { return &c.data[c.pos] }
func (c *mislabeledCore) Increment()                       { c.pos++ }
func (c *mislabeledCore) Decrement()                       { c.pos-- }
func (c *mislabeledCore) Equals(other mislabeledCore) bool { return c.pos == other.pos }
