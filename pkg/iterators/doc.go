// Package iterators builds complete, standard-behaving iterators from minimal
// cores.
//
// A core is a small struct that embeds a tag declaring the capability level
// it targets (OutputTag, InputTag, ForwardTag, BidirectionalTag or
// RandomAccessTag) and implements a subset of six primitive operations:
//
//	Dereference() R     // current element or a reference to it
//	Equals(C) bool      // same position
//	Increment()         // one step forward
//	Decrement()         // one step back
//	DistanceTo(C) D     // signed number of steps to another position
//	Advance(D)          // jump by a signed offset
//
// The facade types Output, Input, Forward, Bidirectional and RandomAccess
// derive the whole operator surface of their level from those primitives:
// postfix increment and decrement, inequality, member access, arithmetic,
// ordering and offset dereference. A core that lacks an operation its level
// needs does not satisfy the facade's constraint and is rejected at compile
// time; Validate and Check report the same requirements, plus structural ones
// Go's type system cannot express, as errors at run time.
//
// Traits (value, reference, pointer and difference types) are derived from
// the shape of the primitives and cached per core type in a Registry.
// Iterators whose reference type is read-only are semantically const; the
// Const* conversions turn a mutable iterator into its const counterpart but
// never the other way round.
//
// For cores chosen at run time, New returns an Iterator whose operations are
// checked against the core's level when they are called.
package iterators
