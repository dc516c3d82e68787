package iterators

import "reflect"

// ReadOnlyReference is implemented by reference wrappers that never permit
// mutation of their target. It is the base case of IsSemanticallyConst.
type ReadOnlyReference interface {
	ReadOnly()
}

// Ref is a read-only reference to a T. It is the const counterpart of *T:
// dereferencing through a Ref yields a copy and there is no way to store
// through it.
type Ref[T any] struct {
	ptr *T
}

// RefTo returns a read-only reference to *p
func RefTo[T any](p *T) Ref[T] {
	return Ref[T]{ptr: p}
}

// Get returns a copy of the referenced value. It panics on a nil Ref.
func (r Ref[T]) Get() T {
	return *r.ptr
}

// IsNil reports whether r refers to nothing
func (r Ref[T]) IsNil() bool {
	return r.ptr == nil
}

// Same reports whether r and o refer to the same variable
func (r Ref[T]) Same(o Ref[T]) bool {
	return r.ptr == o.ptr
}

// ReadOnly marks Ref as semantically const
func (Ref[T]) ReadOnly() {}

// facade is implemented by every facade type so constness can see through
// an iterator to its reference type.
type facade interface {
	referenceType() reflect.Type
}

var (
	readOnlyType = reflect.TypeFor[ReadOnlyReference]()
	facadeType   = reflect.TypeFor[facade]()
)

// IsSemanticallyConst reports whether t denotes non-mutable access to its
// target. Read-only references are const; facades are const when their
// reference type is; pointers are unwrapped to their element; types with a
// Get or Value accessor are unwrapped to the accessor's result. Anything
// else, including plain values, is not const.
func IsSemanticallyConst(t reflect.Type) bool {
	return defaultRegistry.IsSemanticallyConst(t)
}

// SemanticallyConst is IsSemanticallyConst for a static type
func SemanticallyConst[T any]() bool {
	return IsSemanticallyConst(reflect.TypeFor[T]())
}

func semanticallyConst(t reflect.Type, seen map[reflect.Type]bool) bool {
	if t == nil || seen[t] {
		return false
	}
	seen[t] = true

	if t.Implements(readOnlyType) {
		return true
	}
	if t.Kind() == reflect.Struct && t.Implements(facadeType) {
		f := reflect.New(t).Elem().Interface().(facade)
		return semanticallyConst(f.referenceType(), seen)
	}
	if t.Kind() == reflect.Pointer {
		return semanticallyConst(t.Elem(), seen)
	}
	if result, ok := accessorResult(t, "Get"); ok {
		return semanticallyConst(result, seen)
	}
	if result, ok := accessorResult(t, "Value"); ok {
		return semanticallyConst(result, seen)
	}
	return false
}

// accessorResult returns the result type of a niladic single-result method
func accessorResult(t reflect.Type, name string) (reflect.Type, bool) {
	m, ok := t.MethodByName(name)
	if !ok {
		return nil, false
	}
	in := m.Type.NumIn()
	if t.Kind() != reflect.Interface {
		in-- // receiver
	}
	if in != 0 || m.Type.NumOut() != 1 {
		return nil, false
	}
	return m.Type.Out(0), true
}

// isReference reports whether t is an actual reference: a pointer or a
// read-only reference wrapper.
func isReference(t reflect.Type) bool {
	if t == nil {
		return false
	}
	if t.Kind() == reflect.Pointer {
		return true
	}
	if t.Implements(readOnlyType) {
		_, ok := accessorResult(t, "Get")
		return ok
	}
	return false
}

// decay strips one level of reference from t
func decay(t reflect.Type) reflect.Type {
	if t == nil {
		return nil
	}
	if t.Kind() == reflect.Pointer {
		return t.Elem()
	}
	if t.Implements(readOnlyType) {
		if result, ok := accessorResult(t, "Get"); ok {
			return result
		}
	}
	return t
}
