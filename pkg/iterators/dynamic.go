package iterators

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/KevoDB/iterfacade/pkg/stats"
)

// Iterator is a facade whose operator surface is resolved at run time. It
// wraps any tagged core, validated once against the level the core declares,
// and answers operations above that level with ErrUnsupportedOperation
// instead of hiding them. The typed facades are preferred in code; Iterator
// serves tools that pick cores dynamically, such as the iterwalk command.
type Iterator struct {
	core     reflect.Value // addressable copy of the core
	traits   Traits
	level    Level
	registry *Registry
	stats    stats.Collector
	metrics  Metrics
}

// Option configures a run-time Iterator
type Option func(*Iterator)

// WithRegistry makes New use registry instead of the default one
func WithRegistry(registry *Registry) Option {
	return func(it *Iterator) {
		it.registry = registry
	}
}

// WithStats records every operation into collector
func WithStats(collector stats.Collector) Option {
	return func(it *Iterator) {
		it.stats = collector
	}
}

// New wraps a copy of core. It fails when the core does not declare a level
// or does not satisfy the level it declares.
func New(core any, options ...Option) (*Iterator, error) {
	if core == nil {
		return nil, errors.New("iterators: nil core")
	}
	it := &Iterator{registry: defaultRegistry}
	for _, option := range options {
		option(it)
	}
	if it.stats == nil {
		it.stats = it.registry.stats
	}
	it.metrics = it.registry.metrics

	v := reflect.ValueOf(core)
	t := v.Type()

	traits, err := it.registry.Lookup(t)
	if err != nil {
		return nil, err
	}
	d := it.registry.Detection(t)
	level := d.Target
	if !d.Tagged {
		level = LevelOutput // reported by Check as an undeclared level
	}
	if err := it.registry.Check(t, level); err != nil {
		return nil, err
	}

	ptr := reflect.New(t)
	ptr.Elem().Set(v)
	it.core = ptr.Elem()
	it.traits = traits
	it.level = level
	return it, nil
}

// Level returns the capability level of the wrapped core
func (it *Iterator) Level() Level {
	return it.level
}

// Traits returns the derived traits of the wrapped core
func (it *Iterator) Traits() Traits {
	return it.traits
}

// Core returns a copy of the wrapped core
func (it *Iterator) Core() any {
	return it.core.Interface()
}

// Clone returns an independent iterator at the same position
func (it *Iterator) Clone() *Iterator {
	clone := *it
	ptr := reflect.New(it.core.Type())
	ptr.Elem().Set(it.core)
	clone.core = ptr.Elem()
	return &clone
}

func (it *Iterator) call(op Operation, args ...reflect.Value) []reflect.Value {
	return it.core.Addr().MethodByName(op.String()).Call(args)
}

// observe records op and its outcome as telemetry
func (it *Iterator) observe(op Operation, start time.Time, err error) {
	it.metrics.RecordOperation(context.Background(), op, it.level, time.Since(start), err)
}

func (it *Iterator) require(need Level, op Operation) error {
	if it.level.Satisfies(need) {
		return nil
	}
	it.stats.TrackError("unsupported_operation")
	return fmt.Errorf("%w: '%s' needs a %s iterator but %s is a %s iterator",
		ErrUnsupportedOperation, op, need, it.core.Type(), it.level)
}

func (it *Iterator) sameCore(other *Iterator) error {
	if other == nil || other.core.Type() != it.core.Type() {
		it.stats.TrackError("mismatched_cores")
		return ErrMismatchedCores
	}
	return nil
}

// Deref returns the reference at the current position, exactly as the
// core's Dereference returned it.
func (it *Iterator) Deref() any {
	defer it.observe(OpDereference, time.Now(), nil)
	it.stats.TrackOperation(stats.OpDereference)
	return it.call(OpDereference)[0].Interface()
}

// Value returns the element at the current position, read through the
// reference when there is one.
func (it *Iterator) Value() any {
	defer it.observe(OpDereference, time.Now(), nil)
	it.stats.TrackOperation(stats.OpDereference)
	ref := it.call(OpDereference)[0]
	switch {
	case ref.Kind() == reflect.Pointer:
		if ref.IsNil() {
			return nil
		}
		return ref.Elem().Interface()
	case isReference(ref.Type()):
		return ref.MethodByName("Get").Call(nil)[0].Interface()
	}
	return ref.Interface()
}

// Inc advances the iterator by one position
func (it *Iterator) Inc() {
	defer it.observe(OpIncrement, time.Now(), nil)
	it.stats.TrackOperation(stats.OpIncrement)
	it.stats.TrackSteps(1)
	it.call(OpIncrement)
}

// Dec moves the iterator back by one position
func (it *Iterator) Dec() (err error) {
	start := time.Now()
	defer func() { it.observe(OpDecrement, start, err) }()
	if err := it.require(LevelBidirectional, OpDecrement); err != nil {
		return err
	}
	it.stats.TrackOperation(stats.OpDecrement)
	it.stats.TrackSteps(-1)
	it.call(OpDecrement)
	return nil
}

// Advance moves the iterator n positions, backwards when n is negative
func (it *Iterator) Advance(n int64) (err error) {
	start := time.Now()
	defer func() { it.observe(OpAdvance, start, err) }()
	if err := it.require(LevelRandomAccess, OpAdvance); err != nil {
		return err
	}
	offset, err := it.offset(n)
	if err != nil {
		return err
	}
	it.stats.TrackOperation(stats.OpAdvance)
	it.stats.TrackSteps(n)
	it.call(OpAdvance, offset)
	return nil
}

// offset converts n to the core's offset type, which validation has already
// pinned to a signed integer.
func (it *Iterator) offset(n int64) (reflect.Value, error) {
	typ := it.registry.Detection(it.core.Type()).Offset
	if reflect.Zero(typ).OverflowInt(n) {
		return reflect.Value{}, fmt.Errorf("%w: offset %d overflows %s", ErrIllFormedType, n, typ)
	}
	return reflect.ValueOf(n).Convert(typ), nil
}

// Equal reports whether both iterators are at the same position
func (it *Iterator) Equal(other *Iterator) (equal bool, err error) {
	start := time.Now()
	defer func() { it.observe(OpEquals, start, err) }()
	if err := it.require(LevelInput, OpEquals); err != nil {
		return false, err
	}
	if err := it.sameCore(other); err != nil {
		return false, err
	}
	it.stats.TrackOperation(stats.OpEquals)
	return it.call(OpEquals, other.core)[0].Bool(), nil
}

// Distance returns it minus other: the number of positions from other to it
func (it *Iterator) Distance(other *Iterator) (n int64, err error) {
	start := time.Now()
	defer func() { it.observe(OpDistanceTo, start, err) }()
	if err := it.require(LevelRandomAccess, OpDistanceTo); err != nil {
		return 0, err
	}
	if err := it.sameCore(other); err != nil {
		return 0, err
	}
	it.stats.TrackOperation(stats.OpDistance)
	return other.call(OpDistanceTo, it.core)[0].Int(), nil
}

// Compare returns -1, 0 or +1 as it is before, at or after other
func (it *Iterator) Compare(other *Iterator) (int, error) {
	d, err := it.Distance(other)
	if err != nil {
		return 0, err
	}
	it.stats.TrackOperation(stats.OpCompare)
	switch {
	case d < 0:
		return -1, nil
	case d > 0:
		return 1, nil
	}
	return 0, nil
}

// Less reports whether it is before other
func (it *Iterator) Less(other *Iterator) (bool, error) {
	c, err := it.Compare(other)
	return c < 0, err
}

// At returns the element n positions away without moving the iterator
func (it *Iterator) At(n int64) (any, error) {
	moved := it.Clone()
	if err := moved.Advance(n); err != nil {
		return nil, err
	}
	return moved.Value(), nil
}
