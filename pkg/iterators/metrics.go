package iterators

import (
	"context"
	"errors"
	"reflect"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/KevoDB/iterfacade/pkg/telemetry"
)

// Metrics records iterator activity as telemetry. All metrics are optional;
// the no-op implementation is used when none is configured.
type Metrics interface {
	telemetry.ComponentMetrics

	// RecordOperation records one run-time facade operation and its outcome.
	RecordOperation(ctx context.Context, op Operation, level Level, duration time.Duration, err error)

	// RecordTraitsLookup records a registry lookup and whether it hit the cache.
	RecordTraitsLookup(ctx context.Context, core reflect.Type, hit bool)

	// RecordValidation records a level check with the number of requirement failures.
	RecordValidation(ctx context.Context, core reflect.Type, level Level, failures int, duration time.Duration)
}

type iteratorMetrics struct {
	tel telemetry.Telemetry
}

// NewMetrics creates a Metrics recording into tel. A nil tel gives the
// no-op implementation.
func NewMetrics(tel telemetry.Telemetry) Metrics {
	if tel == nil {
		return noopMetrics{}
	}
	return &iteratorMetrics{tel: tel}
}

// NewNoopMetrics creates a Metrics that records nothing.
func NewNoopMetrics() Metrics {
	return noopMetrics{}
}

func (m *iteratorMetrics) RecordOperation(ctx context.Context, op Operation, level Level, duration time.Duration, err error) {
	attrs := []attribute.KeyValue{
		attribute.String(telemetry.AttrComponent, telemetry.ComponentIterators),
		attribute.String(telemetry.AttrOperationType, op.String()),
		attribute.String(telemetry.AttrLevel, level.String()),
	}

	m.tel.RecordHistogram(ctx, "iterators.operation.duration", duration.Seconds(), attrs...)
	m.tel.RecordCounter(ctx, "iterators.operations.total", 1,
		append(attrs, attribute.String(telemetry.AttrStatus, statusOf(err)))...)

	if err != nil {
		m.tel.RecordCounter(ctx, "iterators.errors.total", 1,
			append(attrs, attribute.String(telemetry.AttrErrorType, errorType(err)))...)
	}
}

func (m *iteratorMetrics) RecordTraitsLookup(ctx context.Context, core reflect.Type, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	m.tel.RecordCounter(ctx, "iterators.traits.lookups.total", 1,
		attribute.String(telemetry.AttrComponent, telemetry.ComponentRegistry),
		attribute.String("cache", result),
	)
	if !hit {
		m.tel.RecordCounter(ctx, "iterators.traits.derived.total", 1,
			attribute.String(telemetry.AttrComponent, telemetry.ComponentRegistry),
			attribute.String(telemetry.AttrCore, typeName(core)),
		)
	}
}

func (m *iteratorMetrics) RecordValidation(ctx context.Context, core reflect.Type, level Level, failures int, duration time.Duration) {
	attrs := []attribute.KeyValue{
		attribute.String(telemetry.AttrComponent, telemetry.ComponentRegistry),
		attribute.String(telemetry.AttrLevel, level.String()),
	}
	m.tel.RecordHistogram(ctx, "iterators.validation.duration", duration.Seconds(), attrs...)

	status := telemetry.StatusSuccess
	if failures > 0 {
		status = telemetry.StatusError
		m.tel.RecordCounter(ctx, "iterators.validation.failures", int64(failures),
			append(attrs, attribute.String(telemetry.AttrCore, typeName(core)))...)
	}
	m.tel.RecordCounter(ctx, "iterators.validations.total", 1,
		append(attrs, attribute.String(telemetry.AttrStatus, status))...)
}

// Close implements telemetry.ComponentMetrics
func (m *iteratorMetrics) Close() error {
	return nil
}

type noopMetrics struct{}

func (noopMetrics) RecordOperation(context.Context, Operation, Level, time.Duration, error) {}
func (noopMetrics) RecordTraitsLookup(context.Context, reflect.Type, bool)                  {}
func (noopMetrics) RecordValidation(context.Context, reflect.Type, Level, int, time.Duration) {
}
func (noopMetrics) Close() error { return nil }

func statusOf(err error) string {
	if err != nil {
		return telemetry.StatusError
	}
	return telemetry.StatusSuccess
}

// errorType names the sentinel behind err
func errorType(err error) string {
	switch {
	case errors.Is(err, ErrUnsupportedOperation):
		return "unsupported_operation"
	case errors.Is(err, ErrMismatchedCores):
		return "mismatched_cores"
	default:
		return "other"
	}
}
