package iterators

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/cespare/xxhash/v2"
)

// Traits are the associated types of a core, derived purely from the shape
// of its operations.
type Traits struct {
	Core       reflect.Type
	Level      Level
	Operations OperationSet

	// Difference is the result of DistanceTo, nil when the core has no
	// difference type.
	Difference reflect.Type
	// Value is the declared override or the decayed Reference
	Value reflect.Type
	// Reference is exactly the result type of Dereference
	Reference reflect.Type
	// Pointer is the type member access goes through. It equals Reference
	// when Reference is an actual reference; otherwise it is a pointer to a
	// single materialized copy and ProxyPointer is set.
	Pointer      reflect.Type
	ProxyPointer bool
}

// Derive computes the traits of a detected core. It fails only when a
// derived type is ill-formed; missing operations are Validate's concern and
// leave the corresponding trait nil.
func Derive(d Detection) (Traits, error) {
	t := Traits{
		Core:       d.Core,
		Level:      d.Target,
		Operations: d.Ops,
		Reference:  d.Reference,
	}

	if d.Difference != nil {
		if !isSigned(d.Difference) {
			return t, &RequirementError{
				Core:    d.Core,
				Level:   LevelRandomAccess,
				Kind:    KindIllFormedType,
				Op:      OpDistanceTo,
				Message: fmt.Sprintf("If implemented, an iterator's 'DistanceTo' must return a signed integer type, got %s", d.Difference),
			}
		}
		t.Difference = d.Difference
	}

	switch {
	case d.DeclaredValue != nil:
		t.Value = d.DeclaredValue
	case d.Reference != nil:
		t.Value = decay(d.Reference)
	}

	if d.Reference != nil {
		if isReference(d.Reference) {
			t.Pointer = d.Reference
		} else {
			t.Pointer = reflect.PointerTo(d.Reference)
			t.ProxyPointer = true
		}
	}
	return t, nil
}

// HasDifference reports whether the core defines a difference type
func (t Traits) HasDifference() bool {
	return t.Difference != nil
}

// String renders the traits in a stable single-line form
func (t Traits) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "core=%s level=%s ops=%s", typeName(t.Core), t.Level, t.Operations)
	fmt.Fprintf(&b, " difference=%s value=%s reference=%s pointer=%s",
		typeName(t.Difference), typeName(t.Value), typeName(t.Reference), typeName(t.Pointer))
	if t.ProxyPointer {
		b.WriteString(" (proxy)")
	}
	return b.String()
}

// Fingerprint is a stable hash of String, used to tell cores with identical
// iterator shapes apart in logs.
func (t Traits) Fingerprint() uint64 {
	return xxhash.Sum64String(t.String())
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "none"
	}
	return t.String()
}
