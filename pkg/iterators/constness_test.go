package iterators

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
)

type refHolder struct{ r Ref[int] }

func (h refHolder) Get() Ref[int] { return h.r }

type valueHolder struct{ v int }

func (h valueHolder) Value() int { return h.v }

type ptrValueHolder struct{ v *int }

func (h ptrValueHolder) Value() *int { return h.v }

// selfGetter unwraps to itself through a pointer
type selfGetter struct{}

func (selfGetter) Get() *selfGetter { return nil }

type readOnlyString string

func (readOnlyString) ReadOnly() {}

type constView interface {
	Get() Ref[string]
}

func TestIsSemanticallyConst(t *testing.T) {
	tests := []struct {
		name string
		typ  reflect.Type
		want bool
	}{
		{"read-only reference", reflect.TypeFor[Ref[int]](), true},
		{"read-only marker", reflect.TypeFor[readOnlyString](), true},
		{"plain value", reflect.TypeFor[int](), false},
		{"mutable pointer", reflect.TypeFor[*int](), false},
		{"pointer to read-only reference", reflect.TypeFor[*Ref[int]](), true},
		{"double pointer", reflect.TypeFor[**int](), false},
		{"Get accessor to const", reflect.TypeFor[refHolder](), true},
		{"Value accessor to value", reflect.TypeFor[valueHolder](), false},
		{"Value accessor to pointer", reflect.TypeFor[ptrValueHolder](), false},
		{"interface accessor", reflect.TypeFor[constView](), true},
		{"cyclic unwrap", reflect.TypeFor[selfGetter](), false},
		{"const forward facade", reflect.TypeFor[Forward[constForwardCore, int, Ref[int], *constForwardCore]](), true},
		{"mutable forward facade", reflect.TypeFor[Forward[forwardCore, int, *int, *forwardCore]](), false},
		{"pointer to const facade", reflect.TypeFor[*RandomAccess[constRACore, int, Ref[int], int32, *constRACore]](), true},
		{"input facade by value", reflect.TypeFor[Input[inputCore, int, *inputCore]](), false},
		{"input facade over const", reflect.TypeFor[Input[constInputCore, Ref[int], *constInputCore]](), true},
		{"nil", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsSemanticallyConst(tt.typ))
		})
	}
}

func TestSemanticallyConstStatic(t *testing.T) {
	assert.True(t, SemanticallyConst[Ref[string]]())
	assert.False(t, SemanticallyConst[*string]())
	assert.True(t, SemanticallyConst[Bidirectional[constBidiCore, int, Ref[int], *constBidiCore]]())
}

func TestRef(t *testing.T) {
	x, y := 1, 1
	r := RefTo(&x)
	assert.Equal(t, 1, r.Get())
	x = 2
	assert.Equal(t, 2, r.Get())

	assert.True(t, r.Same(RefTo(&x)))
	assert.False(t, r.Same(RefTo(&y)))
	assert.False(t, r.IsNil())
	assert.True(t, Ref[int]{}.IsNil())
	assert.Panics(t, func() { Ref[int]{}.Get() })
}

func TestReferenceHelpers(t *testing.T) {
	assert.True(t, isReference(reflect.TypeFor[*int]()))
	assert.True(t, isReference(reflect.TypeFor[Ref[int]]()))
	assert.False(t, isReference(reflect.TypeFor[readOnlyString]()))
	assert.False(t, isReference(reflect.TypeFor[int]()))

	assert.Equal(t, reflect.TypeFor[int](), decay(reflect.TypeFor[*int]()))
	assert.Equal(t, reflect.TypeFor[int](), decay(reflect.TypeFor[Ref[int]]()))
	assert.Equal(t, reflect.TypeFor[string](), decay(reflect.TypeFor[string]()))
}
