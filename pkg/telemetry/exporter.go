package telemetry

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracegrpc"
	otelprom "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/exporters/stdout/stdoutmetric"
	"go.opentelemetry.io/otel/exporters/stdout/stdouttrace"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// metricsServer serves a prometheus registry over HTTP
type metricsServer struct {
	registry *prometheus.Registry
	listener net.Listener
	server   *http.Server
}

func startMetricsServer(addr string, registry *prometheus.Registry) (*metricsServer, error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", addr, err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	ms := &metricsServer{
		registry: registry,
		listener: listener,
		server:   &http.Server{Handler: mux},
	}
	go func() {
		_ = ms.server.Serve(listener)
	}()
	return ms, nil
}

// Addr returns the address the server listens on
func (ms *metricsServer) Addr() string {
	return ms.listener.Addr().String()
}

func (ms *metricsServer) Shutdown(ctx context.Context) error {
	if err := ms.server.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// createMetricReaders creates one reader per metric exporter: periodic for
// stdout, pull-based for prometheus. OTLP is trace-only in this setup.
func createMetricReaders(cfg Config, out io.Writer) ([]sdkmetric.Reader, *metricsServer, error) {
	var readers []sdkmetric.Reader
	var server *metricsServer

	for _, exporterName := range cfg.Exporters {
		switch exporterName {
		case ExporterStdout:
			exporter, err := stdoutmetric.New(
				stdoutmetric.WithWriter(out),
				stdoutmetric.WithPrettyPrint(),
			)
			if err != nil {
				releaseMetricReaders(readers, server)
				return nil, nil, fmt.Errorf("failed to create stdout metric exporter: %w", err)
			}
			readers = append(readers, sdkmetric.NewPeriodicReader(exporter,
				sdkmetric.WithTimeout(cfg.ExportTimeout),
			))

		case ExporterPrometheus:
			registry := prometheus.NewRegistry()
			exporter, err := otelprom.New(otelprom.WithRegisterer(registry))
			if err != nil {
				releaseMetricReaders(readers, server)
				return nil, nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
			}
			server, err = startMetricsServer(cfg.PrometheusAddr, registry)
			if err != nil {
				_ = exporter.Shutdown(context.Background())
				releaseMetricReaders(readers, nil)
				return nil, nil, err
			}
			readers = append(readers, exporter)
		}
	}

	return readers, server, nil
}

// releaseMetricReaders stops readers and the metrics server when they will
// never be handed to a meter provider.
func releaseMetricReaders(readers []sdkmetric.Reader, server *metricsServer) {
	ctx := context.Background()
	for _, reader := range readers {
		_ = reader.Shutdown(ctx)
	}
	if server != nil {
		_ = server.Shutdown(ctx)
	}
}

// createSpanProcessors creates a batching processor per trace exporter.
func createSpanProcessors(ctx context.Context, cfg Config, out io.Writer) ([]sdktrace.SpanProcessor, error) {
	var processors []sdktrace.SpanProcessor

	for _, exporterName := range cfg.Exporters {
		var exporter sdktrace.SpanExporter
		var err error

		switch exporterName {
		case ExporterStdout:
			exporter, err = stdouttrace.New(
				stdouttrace.WithWriter(out),
				stdouttrace.WithPrettyPrint(),
			)
		case ExporterOTLP:
			exporter, err = otlptracegrpc.New(ctx,
				otlptracegrpc.WithEndpoint(cfg.OTLPEndpoint),
				otlptracegrpc.WithInsecure(),
				otlptracegrpc.WithTimeout(cfg.ExportTimeout),
			)
		default:
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("failed to create %s trace exporter: %w", exporterName, err)
		}

		processors = append(processors, sdktrace.NewBatchSpanProcessor(exporter,
			sdktrace.WithBatchTimeout(cfg.BatchTimeout),
			sdktrace.WithExportTimeout(cfg.ExportTimeout),
			sdktrace.WithMaxQueueSize(cfg.MaxQueueSize),
			sdktrace.WithMaxExportBatchSize(cfg.MaxExportBatchSize),
		))
	}

	return processors, nil
}
