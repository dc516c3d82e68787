package iterators

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDetectRandomAccessCore(t *testing.T) {
	d := DetectFor[raCore]()

	assert.Equal(t, reflect.TypeFor[raCore](), d.Core)
	for op := OpDereference; op < numOperations; op++ {
		assert.True(t, d.Ops.Has(op), "operation %s", op)
	}
	assert.Equal(t, reflect.TypeFor[*int](), d.Reference)
	assert.Equal(t, reflect.TypeFor[int32](), d.Difference)
	assert.Equal(t, reflect.TypeFor[int32](), d.Offset)
	assert.True(t, d.Tagged)
	assert.Equal(t, LevelRandomAccess, d.Target)
	assert.True(t, d.Copyable)
	assert.True(t, d.DefaultConstructible)
	assert.Nil(t, d.DeclaredValue)
}

func TestDetectAbsentOperations(t *testing.T) {
	d := DetectFor[emptyInputCore]()
	assert.Empty(t, d.Ops.Operations())
	assert.Nil(t, d.Reference)
	assert.Nil(t, d.Difference)
	assert.Equal(t, "{}", d.Ops.String())

	d = DetectFor[inputCore]()
	assert.Equal(t, []Operation{OpDereference, OpEquals, OpIncrement}, d.Ops.Operations())
	assert.Equal(t, "{Dereference, Equals, Increment}", d.Ops.String())
}

func TestDetectWrongSignatures(t *testing.T) {
	// Equals must take the core itself
	assert.False(t, DetectFor[wrongEqualsCore]().Ops.Has(OpEquals))
	assert.False(t, DetectFor[lockedCore]().Ops.Has(OpEquals))

	// An unsigned difference is still detected so it can be reported as ill-formed
	d := DetectFor[unsignedCore]()
	assert.True(t, d.Ops.Has(OpDistanceTo))
	assert.Equal(t, reflect.TypeFor[uint](), d.Difference)

	d = DetectFor[floatDistanceCore]()
	assert.True(t, d.Ops.Has(OpDistanceTo))
	assert.Equal(t, reflect.TypeFor[float64](), d.Difference)
}

func TestDetectStructure(t *testing.T) {
	assert.False(t, DetectFor[untaggedCore]().Tagged)
	assert.False(t, DetectFor[lockedCore]().Copyable)
	assert.False(t, DetectFor[lockedByValueCore]().Copyable)
	assert.False(t, DetectFor[noDefaultCore]().DefaultConstructible)
	assert.Equal(t, reflect.TypeFor[float64](), DetectFor[declaredCore]().DeclaredValue)
	assert.Equal(t, LevelForward, DetectFor[declaredCore]().Target)
}

func TestDetectNil(t *testing.T) {
	d := Detect(nil)
	assert.Nil(t, d.Core)
	assert.Empty(t, d.Ops.Operations())
}

func TestOperationString(t *testing.T) {
	assert.Equal(t, "DistanceTo", OpDistanceTo.String())
	assert.Equal(t, "Operation(?)", Operation(42).String())
}
