package iterators

import (
	"fmt"
	"reflect"

	"github.com/KevoDB/iterfacade/pkg/stats"
)

// The Const* functions convert an iterator into its semantically const
// counterpart: an iterator over a destination core DC built from the source
// core by DC's FromCore method. The source is passed by value and is never
// modified. A conversion is only legal from an iterator that is not
// semantically const to one that is.
//
// For Forward and stronger levels the reference types are fixed by the
// signature (*V in, Ref[V] out), so converting a const iterator back into a
// mutable one does not compile. For Output and Input, whose reference types
// are unconstrained, the same rule is checked when the conversion runs.
//
// The destination shares whatever the cores share: converting does not
// extend the lifetime of the data the source refers to.

// ConstOutput converts an output iterator into an output iterator over DC
func ConstOutput[DC any, DR any, DPC interface {
	OutputCore[DC, DR]
	ConstructibleFrom[SC]
}, SC any, SR any, SPC OutputCore[SC, SR]](src Output[SC, SR, SPC]) (Output[DC, DR, DPC], error) {
	src.mustBeConstructed()
	if err := checkConstConversion[SR, DR](); err != nil {
		return Output[DC, DR, DPC]{}, err
	}
	mustCheck[DC](LevelOutput)

	dst := Output[DC, DR, DPC]{constructed: true}
	DPC(&dst.core).FromCore(src.core)
	return dst, nil
}

// ConstInput converts an input iterator into an input iterator over DC
func ConstInput[DC any, DR any, DPC interface {
	InputCore[DC, DR]
	ConstructibleFrom[SC]
}, SC any, SR any, SPC InputCore[SC, SR]](src Input[SC, SR, SPC]) (Input[DC, DR, DPC], error) {
	src.mustBeConstructed()
	if err := checkConstConversion[SR, DR](); err != nil {
		return Input[DC, DR, DPC]{}, err
	}
	mustCheck[DC](LevelInput)

	dst := Input[DC, DR, DPC]{constructed: true}
	DPC(&dst.core).FromCore(src.core)
	return dst, nil
}

// ConstForward converts a forward iterator over *V into one over Ref[V]
func ConstForward[DC any, DPC interface {
	ForwardCore[DC, Ref[V]]
	ConstructibleFrom[SC]
}, SC any, V any, SPC ForwardCore[SC, *V]](src Forward[SC, V, *V, SPC]) (Forward[DC, V, Ref[V], DPC], error) {
	if err := checkConstConversion[*V, Ref[V]](); err != nil {
		return Forward[DC, V, Ref[V], DPC]{}, err
	}
	mustCheck[DC](LevelForward)

	var dst Forward[DC, V, Ref[V], DPC]
	DPC(&dst.core).FromCore(src.core)
	return dst, nil
}

// ConstBidirectional converts a bidirectional iterator over *V into one over Ref[V]
func ConstBidirectional[DC any, DPC interface {
	BidirectionalCore[DC, Ref[V]]
	ConstructibleFrom[SC]
}, SC any, V any, SPC BidirectionalCore[SC, *V]](src Bidirectional[SC, V, *V, SPC]) (Bidirectional[DC, V, Ref[V], DPC], error) {
	if err := checkConstConversion[*V, Ref[V]](); err != nil {
		return Bidirectional[DC, V, Ref[V], DPC]{}, err
	}
	mustCheck[DC](LevelBidirectional)

	var dst Bidirectional[DC, V, Ref[V], DPC]
	DPC(&dst.core).FromCore(src.core)
	return dst, nil
}

// ConstRandomAccess converts a random access iterator over *V into one over Ref[V]
func ConstRandomAccess[DC any, DPC interface {
	RandomAccessCore[DC, Ref[V], D]
	ConstructibleFrom[SC]
}, SC any, V any, D Signed, SPC RandomAccessCore[SC, *V, D]](src RandomAccess[SC, V, *V, D, SPC]) (RandomAccess[DC, V, Ref[V], D, DPC], error) {
	if err := checkConstConversion[*V, Ref[V]](); err != nil {
		return RandomAccess[DC, V, Ref[V], D, DPC]{}, err
	}
	mustCheck[DC](LevelRandomAccess)

	var dst RandomAccess[DC, V, Ref[V], D, DPC]
	DPC(&dst.core).FromCore(src.core)
	return dst, nil
}

// checkConstConversion enforces the one-way rule on the reference types
func checkConstConversion[SR any, DR any]() error {
	defaultRegistry.stats.TrackOperation(stats.OpConvert)

	src, dst := reflect.TypeFor[SR](), reflect.TypeFor[DR]()
	if defaultRegistry.IsSemanticallyConst(src) {
		defaultRegistry.stats.TrackError("illegal_conversion")
		return fmt.Errorf("%w: source reference %s is already semantically const", ErrIllegalConversion, src)
	}
	if !defaultRegistry.IsSemanticallyConst(dst) {
		defaultRegistry.stats.TrackError("illegal_conversion")
		return fmt.Errorf("%w: destination reference %s is not semantically const", ErrIllegalConversion, dst)
	}
	return nil
}
