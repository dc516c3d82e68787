package iterators

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	// ErrMissingOperation is returned when a core lacks an operation its level requires
	ErrMissingOperation = errors.New("missing core operation")

	// ErrIllFormedType is returned when a derived iterator type breaks its rules
	ErrIllFormedType = errors.New("ill-formed derived type")

	// ErrStructural is returned when a core lacks a structural property such as copyability
	ErrStructural = errors.New("structural requirement not met")

	// ErrLevelMismatch is returned when a core's declared tag is below the requested level
	ErrLevelMismatch = errors.New("capability level not declared by core")

	// ErrIllegalConversion is returned when a const conversion is not permitted
	ErrIllegalConversion = errors.New("illegal const conversion")

	// ErrUnsupportedOperation is returned by the run-time iterator for
	// operations above its capability level
	ErrUnsupportedOperation = errors.New("operation not supported at this capability level")

	// ErrNotConstructed is the panic value for zero-valued Output and Input facades
	ErrNotConstructed = errors.New("iterator used without a core")

	// ErrUnknownLevel is returned by ParseLevel
	ErrUnknownLevel = errors.New("unknown capability level")

	// ErrMismatchedCores is returned when two run-time iterators over different core types meet
	ErrMismatchedCores = errors.New("iterators wrap different core types")
)

// RequirementKind classifies a failed requirement
type RequirementKind int

const (
	// KindMissingOperation means a primitive operation is absent or has the wrong signature
	KindMissingOperation RequirementKind = iota
	// KindIllFormedType means a derived type such as the difference type is ill-formed
	KindIllFormedType
	// KindStructural means a structural property of the core type is missing
	KindStructural
	// KindLevelMismatch means the core does not declare a sufficient level
	KindLevelMismatch
)

func (k RequirementKind) sentinel() error {
	switch k {
	case KindMissingOperation:
		return ErrMissingOperation
	case KindIllFormedType:
		return ErrIllFormedType
	case KindStructural:
		return ErrStructural
	default:
		return ErrLevelMismatch
	}
}

// String returns the snake_case name used for error statistics
func (k RequirementKind) String() string {
	switch k {
	case KindMissingOperation:
		return "missing_operation"
	case KindIllFormedType:
		return "ill_formed_type"
	case KindStructural:
		return "structural"
	default:
		return "level_mismatch"
	}
}

// RequirementError reports one failed requirement of one capability level.
// Validation returns every failure, each as its own RequirementError.
type RequirementError struct {
	Core    reflect.Type
	Level   Level
	Kind    RequirementKind
	Op      Operation // only meaningful for KindMissingOperation
	Message string
}

func (e *RequirementError) Error() string {
	if e.Core == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Core, e.Message)
}

// Unwrap exposes the sentinel error for the failure kind
func (e *RequirementError) Unwrap() error {
	return e.Kind.sentinel()
}

// RequirementErrors extracts every RequirementError from an error returned by
// Validate or Check.
func RequirementErrors(err error) []*RequirementError {
	if err == nil {
		return nil
	}
	var out []*RequirementError
	var walk func(error)
	walk = func(err error) {
		if re, ok := err.(*RequirementError); ok {
			out = append(out, re)
			return
		}
		switch u := err.(type) {
		case interface{ Unwrap() []error }:
			for _, e := range u.Unwrap() {
				walk(e)
			}
		case interface{ Unwrap() error }:
			if inner := u.Unwrap(); inner != nil {
				walk(inner)
			}
		}
	}
	walk(err)
	return out
}
