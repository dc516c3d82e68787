package telemetry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdkresource "go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	oteltrace "go.opentelemetry.io/otel/trace"
)

const instrumentationName = "github.com/KevoDB/iterfacade"

// TelemetryProvider implements Telemetry on the OpenTelemetry SDK.
// Instruments are created on first use and cached by name.
type TelemetryProvider struct {
	config         Config
	meterProvider  *sdkmetric.MeterProvider
	tracerProvider *sdktrace.TracerProvider
	meter          metric.Meter
	tracer         oteltrace.Tracer
	metricsServer  *metricsServer // nil unless the prometheus exporter is on

	mu         sync.Mutex
	histograms map[string]metric.Float64Histogram
	counters   map[string]metric.Int64Counter
}

// ProviderOption configures a TelemetryProvider
type ProviderOption func(*providerOptions)

type providerOptions struct {
	out        io.Writer
	readers    []sdkmetric.Reader
	processors []sdktrace.SpanProcessor
}

// WithWriter sends the stdout exporters to w instead of os.Stdout
func WithWriter(w io.Writer) ProviderOption {
	return func(o *providerOptions) {
		o.out = w
	}
}

// WithReader adds a metric reader next to the configured exporters
func WithReader(reader sdkmetric.Reader) ProviderOption {
	return func(o *providerOptions) {
		o.readers = append(o.readers, reader)
	}
}

// WithSpanProcessor adds a span processor next to the configured exporters
func WithSpanProcessor(processor sdktrace.SpanProcessor) ProviderOption {
	return func(o *providerOptions) {
		o.processors = append(o.processors, processor)
	}
}

// New creates a Telemetry for cfg. Disabled configurations get the no-op
// implementation.
func New(cfg Config, options ...ProviderOption) (Telemetry, error) {
	if !cfg.Enabled {
		return NewNoop(), nil
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid telemetry config: %w", err)
	}

	opts := providerOptions{out: os.Stdout}
	for _, option := range options {
		option(&opts)
	}

	readers, server, err := createMetricReaders(cfg, opts.out)
	if err != nil {
		return nil, err
	}
	processors, err := createSpanProcessors(context.Background(), cfg, opts.out)
	if err != nil {
		releaseMetricReaders(readers, server)
		return nil, err
	}
	readers = append(readers, opts.readers...)
	processors = append(processors, opts.processors...)

	resource := sdkresource.NewSchemaless(
		attribute.String("service.name", cfg.ServiceName),
		attribute.String("service.version", cfg.ServiceVersion),
	)

	meterOptions := []sdkmetric.Option{sdkmetric.WithResource(resource)}
	for _, reader := range readers {
		meterOptions = append(meterOptions, sdkmetric.WithReader(reader))
	}

	tracerOptions := []sdktrace.TracerProviderOption{
		sdktrace.WithResource(resource),
		sdktrace.WithSampler(sdktrace.ParentBased(sdktrace.TraceIDRatioBased(cfg.SampleRate))),
	}
	for _, processor := range processors {
		tracerOptions = append(tracerOptions, sdktrace.WithSpanProcessor(processor))
	}

	p := &TelemetryProvider{
		config:         cfg,
		meterProvider:  sdkmetric.NewMeterProvider(meterOptions...),
		tracerProvider: sdktrace.NewTracerProvider(tracerOptions...),
		metricsServer:  server,
		histograms:     make(map[string]metric.Float64Histogram),
		counters:       make(map[string]metric.Int64Counter),
	}
	p.meter = p.meterProvider.Meter(instrumentationName)
	p.tracer = p.tracerProvider.Tracer(instrumentationName)
	return p, nil
}

func (p *TelemetryProvider) histogram(name string) (metric.Float64Histogram, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if h, ok := p.histograms[name]; ok {
		return h, nil
	}
	h, err := p.meter.Float64Histogram(name)
	if err != nil {
		return nil, err
	}
	p.histograms[name] = h
	return h, nil
}

func (p *TelemetryProvider) counter(name string) (metric.Int64Counter, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if c, ok := p.counters[name]; ok {
		return c, nil
	}
	c, err := p.meter.Int64Counter(name)
	if err != nil {
		return nil, err
	}
	p.counters[name] = c
	return c, nil
}

// RecordHistogram records value in the histogram called name. Invalid
// instrument names are dropped.
func (p *TelemetryProvider) RecordHistogram(ctx context.Context, name string, value float64, attrs ...attribute.KeyValue) {
	h, err := p.histogram(name)
	if err != nil {
		return
	}
	h.Record(ctx, value, metric.WithAttributes(attrs...))
}

// RecordCounter adds value to the counter called name. Invalid instrument
// names are dropped.
func (p *TelemetryProvider) RecordCounter(ctx context.Context, name string, value int64, attrs ...attribute.KeyValue) {
	c, err := p.counter(name)
	if err != nil {
		return
	}
	c.Add(ctx, value, metric.WithAttributes(attrs...))
}

// StartSpan starts a span on the provider's tracer.
func (p *TelemetryProvider) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, oteltrace.Span) {
	return p.tracer.Start(ctx, name, oteltrace.WithAttributes(attrs...))
}

// Shutdown flushes pending data and stops both providers.
func (p *TelemetryProvider) Shutdown(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, p.config.ExportTimeout)
	defer cancel()

	errs := []error{
		p.tracerProvider.Shutdown(ctx),
		p.meterProvider.Shutdown(ctx),
	}
	if p.metricsServer != nil {
		errs = append(errs, p.metricsServer.Shutdown(ctx))
	}
	return errors.Join(errs...)
}
