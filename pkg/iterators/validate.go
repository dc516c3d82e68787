package iterators

import (
	"errors"
	"fmt"
)

// Validate decides whether the detected core can back a facade of the given
// level. Requirements are checked by induction over the level hierarchy and
// every failed requirement is reported on its own, so the joined error names
// each missing operation or property together with the level that needs it.
func Validate(level Level, d Detection) error {
	if !level.Valid() {
		return fmt.Errorf("%w: %d", ErrUnknownLevel, int(level))
	}
	v := validator{d: d}
	v.level(level)
	v.tag(level)
	return errors.Join(v.errs...)
}

type validator struct {
	d          Detection
	errs       []error
	checked    [LevelRandomAccess + 1]bool
	commonDone bool
}

func (v *validator) fail(level Level, kind RequirementKind, op Operation, format string, args ...interface{}) {
	v.errs = append(v.errs, &RequirementError{
		Core:    v.d.Core,
		Level:   level,
		Kind:    kind,
		Op:      op,
		Message: fmt.Sprintf(format, args...),
	})
}

func (v *validator) missing(level Level, op Operation) {
	v.fail(level, KindMissingOperation, op,
		"%s iterator cores must implement a suitable '%s' method", level.title(), op)
}

// level checks the requirements of l and everything l refines. Each level is
// visited once, so Forward does not report the common requirements twice.
func (v *validator) level(l Level) {
	if v.checked[l] {
		return
	}
	v.checked[l] = true

	switch l {
	case LevelOutput:
		v.common(LevelOutput)
	case LevelInput:
		v.common(LevelInput)
		if !v.d.Ops.Has(OpEquals) {
			v.missing(LevelInput, OpEquals)
		}
	case LevelForward:
		v.level(LevelInput)
		v.level(LevelOutput)
		v.forward()
	case LevelBidirectional:
		v.level(LevelForward)
		if !v.d.Ops.Has(OpDecrement) {
			v.missing(LevelBidirectional, OpDecrement)
		}
	case LevelRandomAccess:
		v.level(LevelBidirectional)
		v.randomAccess()
	}
}

// common holds the requirements shared by the Output and Input tiers
func (v *validator) common(l Level) {
	if v.commonDone {
		return
	}
	v.commonDone = true

	if !v.d.Copyable {
		v.fail(l, KindStructural, 0, "Iterator cores must be copyable (a lock is held by value)")
	}
	if !v.d.Ops.Has(OpIncrement) {
		v.missing(l, OpIncrement)
	}
	if !v.d.Ops.Has(OpDereference) {
		v.missing(l, OpDereference)
	}
}

func (v *validator) forward() {
	if !v.d.DefaultConstructible {
		v.fail(LevelForward, KindStructural, 0, "Forward iterator cores must be default-constructible")
	}
	if v.d.Reference == nil {
		return
	}
	if !isReference(v.d.Reference) {
		v.fail(LevelForward, KindStructural, 0,
			"Forward iterators must dereference to an actual (const) reference type, got %s", v.d.Reference)
		return
	}
	value := v.d.DeclaredValue
	if value == nil {
		return
	}
	if target := decay(v.d.Reference); !target.ConvertibleTo(value) {
		v.fail(LevelForward, KindStructural, 0,
			"Forward iterators must dereference to a reference type that is convertible to their value type (%s to %s)",
			target, value)
	}
}

func (v *validator) randomAccess() {
	if !v.d.Ops.Has(OpDistanceTo) {
		v.missing(LevelRandomAccess, OpDistanceTo)
	}
	if !v.d.Ops.Has(OpAdvance) {
		v.missing(LevelRandomAccess, OpAdvance)
	}
	if v.d.Difference != nil && !isSigned(v.d.Difference) {
		v.fail(LevelRandomAccess, KindIllFormedType, OpDistanceTo,
			"If implemented, an iterator's 'DistanceTo' must return a signed integer type, got %s", v.d.Difference)
	}
	if v.d.Difference != nil && v.d.Offset != nil && v.d.Offset != v.d.Difference {
		v.fail(LevelRandomAccess, KindIllFormedType, OpAdvance,
			"'Advance' must accept the difference type %s, got %s", v.d.Difference, v.d.Offset)
	}
}

// tag checks that the core declares a level at least as strong as requested
func (v *validator) tag(requested Level) {
	if !v.d.Tagged {
		v.fail(requested, KindLevelMismatch, 0,
			"Iterator cores must declare a target level by embedding a tag such as iterators.InputTag")
		return
	}
	if !v.d.Target.Satisfies(requested) {
		v.fail(requested, KindLevelMismatch, 0,
			"core declares %s iterator level, which does not provide %s iterator capabilities",
			v.d.Target, requested)
	}
}
