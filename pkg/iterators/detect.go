package iterators

import (
	"reflect"
	"strings"
	"sync"
)

// Operation is one of the six primitive core operations
type Operation int

const (
	OpDereference Operation = iota
	OpEquals
	OpIncrement
	OpDecrement
	OpDistanceTo
	OpAdvance
	numOperations
)

var operationMethods = [numOperations]string{
	OpDereference: "Dereference",
	OpEquals:      "Equals",
	OpIncrement:   "Increment",
	OpDecrement:   "Decrement",
	OpDistanceTo:  "DistanceTo",
	OpAdvance:     "Advance",
}

// String returns the Go method name of the operation
func (o Operation) String() string {
	if o < 0 || o >= numOperations {
		return "Operation(?)"
	}
	return operationMethods[o]
}

// OperationSet is a set of detected operations
type OperationSet uint8

// Has reports whether op is in the set
func (s OperationSet) Has(op Operation) bool {
	return s&(1<<op) != 0
}

// With returns the set with op added
func (s OperationSet) With(op Operation) OperationSet {
	return s | 1<<op
}

// Operations lists the members of the set in declaration order
func (s OperationSet) Operations() []Operation {
	var ops []Operation
	for op := OpDereference; op < numOperations; op++ {
		if s.Has(op) {
			ops = append(ops, op)
		}
	}
	return ops
}

func (s OperationSet) String() string {
	ops := s.Operations()
	names := make([]string, len(ops))
	for i, op := range ops {
		names[i] = op.String()
	}
	return "{" + strings.Join(names, ", ") + "}"
}

// Detection is the result of probing a core type for the primitive
// operations and structural properties the facade layers rely on. Absent
// operations are simply missing from Ops.
type Detection struct {
	Core reflect.Type
	Ops  OperationSet

	// Reference is the result type of Dereference, nil when absent
	Reference reflect.Type
	// Difference is the result type of DistanceTo, nil when absent
	Difference reflect.Type
	// Offset is the parameter type of Advance, nil when absent
	Offset reflect.Type

	// Tagged is false when the core does not declare a target level
	Tagged bool
	Target Level

	// DeclaredValue is the value type override, nil when the core declares none
	DeclaredValue reflect.Type

	Copyable             bool
	DefaultConstructible bool
}

var (
	tagType           = reflect.TypeFor[Tag]()
	valueDeclarerType = reflect.TypeFor[valueDeclarer]()
	noDefaultType     = reflect.TypeFor[noDefaultConstructor]()
	lockerType        = reflect.TypeFor[sync.Locker]()
)

// Detect looks up the primitive operations of core. Both value and pointer
// receiver methods count, since the facade always calls through a pointer
// to the core it owns. Detect never fails; missing or mismatched methods
// are reported as absent.
func Detect(core reflect.Type) Detection {
	d := Detection{Core: core}
	if core == nil {
		return d
	}

	ptr := reflect.PointerTo(core)

	if m, ok := ptr.MethodByName("Dereference"); ok && m.Type.NumIn() == 1 && m.Type.NumOut() == 1 {
		d.Ops = d.Ops.With(OpDereference)
		d.Reference = m.Type.Out(0)
	}

	if m, ok := ptr.MethodByName("Equals"); ok && m.Type.NumIn() == 2 && m.Type.NumOut() == 1 &&
		m.Type.In(1) == core && m.Type.Out(0).Kind() == reflect.Bool {
		d.Ops = d.Ops.With(OpEquals)
	}

	if niladic(ptr, "Increment") {
		d.Ops = d.Ops.With(OpIncrement)
	}
	if niladic(ptr, "Decrement") {
		d.Ops = d.Ops.With(OpDecrement)
	}

	// Any result type is recorded; derivation rejects one that is not a
	// signed integer as ill-formed rather than absent.
	if m, ok := ptr.MethodByName("DistanceTo"); ok && m.Type.NumIn() == 2 && m.Type.NumOut() == 1 &&
		m.Type.In(1) == core {
		d.Ops = d.Ops.With(OpDistanceTo)
		d.Difference = m.Type.Out(0)
	}

	if m, ok := ptr.MethodByName("Advance"); ok && m.Type.NumIn() == 2 && m.Type.NumOut() == 0 &&
		isInteger(m.Type.In(1)) {
		d.Ops = d.Ops.With(OpAdvance)
		d.Offset = m.Type.In(1)
	}

	if ptr.Implements(tagType) {
		d.Tagged = true
		d.Target = reflect.New(core).Interface().(Tag).TargetLevel()
	}

	if ptr.Implements(valueDeclarerType) {
		d.DeclaredValue = reflect.New(core).Interface().(valueDeclarer).declaredValueType()
	}

	d.Copyable = !holdsLock(core, map[reflect.Type]bool{})
	d.DefaultConstructible = !ptr.Implements(noDefaultType)
	return d
}

// DetectFor is Detect for a static core type
func DetectFor[C any]() Detection {
	return Detect(reflect.TypeFor[C]())
}

func niladic(t reflect.Type, name string) bool {
	m, ok := t.MethodByName(name)
	return ok && m.Type.NumIn() == 1 && m.Type.NumOut() == 0
}

func isInteger(t reflect.Type) bool {
	return isSigned(t) || isUnsigned(t)
}

func isSigned(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	}
	return false
}

func isUnsigned(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	}
	return false
}

// holdsLock reports whether copying a value of t would copy a lock, which is
// what go vet's copylocks check rejects.
func holdsLock(t reflect.Type, seen map[reflect.Type]bool) bool {
	if seen[t] {
		return false
	}
	seen[t] = true

	switch t.Kind() {
	case reflect.Struct:
		if reflect.PointerTo(t).Implements(lockerType) && !t.Implements(lockerType) {
			return true
		}
		for i := 0; i < t.NumField(); i++ {
			if holdsLock(t.Field(i).Type, seen) {
				return true
			}
		}
	case reflect.Array:
		return t.Len() > 0 && holdsLock(t.Elem(), seen)
	}
	return false
}

// NoDefault can be embedded in a core whose zero value is not a valid
// iterator position. Such a core cannot back a Forward or stronger facade.
type NoDefault struct{}

func (NoDefault) noDefaultConstructor() {}

type noDefaultConstructor interface {
	noDefaultConstructor()
}

// ValueOf can be embedded in a core to override the derived value type
type ValueOf[V any] struct{}

func (ValueOf[V]) declaredValueType() reflect.Type {
	return reflect.TypeFor[V]()
}

type valueDeclarer interface {
	declaredValueType() reflect.Type
}
