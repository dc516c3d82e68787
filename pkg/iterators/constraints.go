package iterators

// Signed is the set of types usable as a difference type
type Signed interface {
	~int | ~int8 | ~int16 | ~int32 | ~int64
}

// Reference is the set of reference types a Forward or stronger iterator
// may dereference to: a mutable *V or a read-only Ref[V].
type Reference[V any] interface {
	*V | Ref[V]
}

// The core constraints below are satisfied by *C, the pointer to a core C.
// A core meets a constraint only when it has every listed method and embeds
// a tag declaring a sufficient level; the compiler reports the first missing
// method by name when a facade is instantiated with an unsuitable core.

// OutputCore is the method set an Output facade needs from its core
type OutputCore[C any, R any] interface {
	*C
	Tag
	outputLevel()
	Dereference() R
	Increment()
}

// InputCore is the method set an Input facade needs from its core
type InputCore[C any, R any] interface {
	*C
	Tag
	inputLevel()
	Dereference() R
	Increment()
	Equals(C) bool
}

// ForwardCore is the method set a Forward facade needs from its core
type ForwardCore[C any, R any] interface {
	*C
	Tag
	forwardLevel()
	Dereference() R
	Increment()
	Equals(C) bool
}

// BidirectionalCore is the method set a Bidirectional facade needs from its core
type BidirectionalCore[C any, R any] interface {
	ForwardCore[C, R]
	bidirectionalLevel()
	Decrement()
}

// RandomAccessCore is the method set a RandomAccess facade needs from its core
type RandomAccessCore[C any, R any, D Signed] interface {
	BidirectionalCore[C, R]
	randomAccessLevel()
	DistanceTo(C) D
	Advance(D)
}

// ConstructibleFrom is implemented by a pointer to a destination core that
// can be built from a source core S. It is the convertibility requirement of
// the const conversions. A source core that builds its own const form is
// adapted by a FromCore that delegates to it.
type ConstructibleFrom[S any] interface {
	FromCore(S)
}
