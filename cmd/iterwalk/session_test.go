package main

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/KevoDB/iterfacade/pkg/common/log"
	"github.com/KevoDB/iterfacade/pkg/config"
	"github.com/KevoDB/iterfacade/pkg/iterators"
	"github.com/KevoDB/iterfacade/pkg/telemetry"
)

func newTestSession(t *testing.T, source string, mutate func(*config.Config)) (*session, *bytes.Buffer) {
	t.Helper()
	cfg := config.NewDefaultConfig()
	if mutate != nil {
		cfg.Update(mutate)
	}
	require.NoError(t, cfg.Validate())

	var out bytes.Buffer
	s := newSession(cfg, &out, log.NewStandardLogger(log.Discard()), nil)
	require.NoError(t, s.open(source))
	return s, &out
}

// run executes line and returns what it printed
func run(t *testing.T, s *session, out *bytes.Buffer, line string) string {
	t.Helper()
	out.Reset()
	more, err := s.execute(line)
	require.NoError(t, err, "command %q", line)
	require.True(t, more)
	return out.String()
}

func TestSessionSlice(t *testing.T) {
	s, out := newTestSession(t, config.SourceSlice, nil)

	assert.Equal(t, "10\n", run(t, s, out, "*"))
	assert.Equal(t, "at 1\n", run(t, s, out, "++"))
	assert.Equal(t, "20\n", run(t, s, out, "*"))
	assert.Equal(t, "at 4\n", run(t, s, out, "+= 3"))
	assert.Equal(t, "40\n", run(t, s, out, "[-1]"))
	assert.Equal(t, "at 5\n", run(t, s, out, "+= 1"))

	// One past the end can be reached but not read
	_, err := s.execute("*")
	assert.ErrorIs(t, err, errOutOfRange)
	_, err = s.execute("+= 1")
	assert.ErrorIs(t, err, errOutOfRange)
	_, err = s.execute("[0]")
	assert.ErrorIs(t, err, errOutOfRange)

	assert.Equal(t, "Mark set\n", run(t, s, out, "mark"))
	assert.Equal(t, "at 0\n", run(t, s, out, "-= 5"))
	assert.Equal(t, "cursor - mark = -5\n", run(t, s, out, "diff"))
	assert.Equal(t, "cursor < mark\n", run(t, s, out, "cmp"))

	_, err = s.execute("--")
	assert.ErrorIs(t, err, errOutOfRange)

	assert.Equal(t, "0: 10\n1: 20\n2 elements\n", run(t, s, out, "scan 2"))
	// scan does not move the cursor
	assert.Equal(t, "10\n", run(t, s, out, "*"))
}

func TestSessionSliceFromFlags(t *testing.T) {
	s, out := newTestSession(t, config.SourceSlice, func(c *config.Config) {
		c.SliceValues = []int{7, 8}
	})
	assert.Equal(t, "0: 7\n1: 8\n2 elements\n", run(t, s, out, "scan"))
	assert.Equal(t, "8\n", run(t, s, out, "[1]"))
}

func TestSessionMonths(t *testing.T) {
	s, out := newTestSession(t, config.SourceMonths, nil)
	assert.Equal(t, iterators.LevelInput, s.cur.Level())

	assert.Equal(t, "January\n", run(t, s, out, "*"))
	assert.Equal(t, "Mark set\n", run(t, s, out, "mark"))
	assert.Equal(t, "ok\n", run(t, s, out, "++"))
	assert.Equal(t, "February\n", run(t, s, out, "*"))
	assert.Equal(t, "cursor != mark\n", run(t, s, out, "cmp"))

	// Input iterators cannot step back or jump
	_, err := s.execute("--")
	assert.ErrorIs(t, err, iterators.ErrUnsupportedOperation)
	_, err = s.execute("+= 2")
	assert.ErrorIs(t, err, iterators.ErrUnsupportedOperation)
	_, err = s.execute("diff")
	assert.ErrorIs(t, err, iterators.ErrUnsupportedOperation)

	scanned := run(t, s, out, "scan 100")
	assert.Contains(t, scanned, "0: February\n")
	assert.Contains(t, scanned, "10: December\n")
	assert.Contains(t, scanned, "11 elements\n")

	assert.Equal(t, "September\nOctober\nNovember\nDecember\n4 matches\n", run(t, s, out, "grep ber"))

	for i := 0; i < 11; i++ {
		run(t, s, out, "++")
	}
	_, err = s.execute("++")
	assert.ErrorIs(t, err, errOutOfRange)
}

func TestSessionWrappedMonths(t *testing.T) {
	s, out := newTestSession(t, config.SourceWrapped, nil)

	assert.Equal(t, "January\n", run(t, s, out, "*"))
	traits := run(t, s, out, ".traits")
	assert.Contains(t, traits, "level=input")
	assert.Contains(t, traits, "(proxy)")
	assert.Contains(t, traits, "fingerprint=")
}

func TestSessionBlock(t *testing.T) {
	s, out := newTestSession(t, config.SourceBlock, func(c *config.Config) {
		c.BlockEntries = 6
		c.Codec = "zstd"
	})
	assert.Equal(t, iterators.LevelRandomAccess, s.cur.Level())

	assert.Equal(t, "key000 => v1-000\n", run(t, s, out, "*"))
	assert.Equal(t, "key005 => v1-005\n", run(t, s, out, "[5]"))

	assert.Equal(t, "key002 => v1-002\nkey003 => v1-003\n2 entries\n", run(t, s, out, "range key002 key004"))

	merged := "key000 => v2-000\n" +
		"key001 => v1-001\n" +
		"key002 => v1-002\n" +
		"key003 => v2-003\n" +
		"key004 => v1-004\n" +
		"key005 => v1-005\n" +
		"6 entries\n"
	assert.Equal(t, merged, run(t, s, out, "merge"))

	assert.Equal(t, "key004 => v1-004\n1 matches\n", run(t, s, out, "grep 004"))
}

func TestSessionSwitchSources(t *testing.T) {
	s, out := newTestSession(t, config.SourceSlice, nil)

	_, err := s.execute("merge")
	assert.ErrorIs(t, err, errNeedsBlock)

	assert.Equal(t, "Opened months (input iterator)\n", run(t, s, out, ".use months"))
	assert.Equal(t, "Opened block (random access iterator)\n", run(t, s, out, ".use BLOCK"))
	assert.Equal(t, "key000 => v1-000\n", run(t, s, out, "*"))

	_, err = s.execute(".use weeks")
	assert.Error(t, err)
	// A failed open keeps the previous source
	assert.Equal(t, config.SourceBlock, s.source)
}

func TestSessionErrors(t *testing.T) {
	cfg := config.NewDefaultConfig()
	var out bytes.Buffer
	s := newSession(cfg, &out, log.NewStandardLogger(log.Discard()), nil)

	_, err := s.execute("*")
	assert.ErrorIs(t, err, errNoSource)

	require.NoError(t, s.open(config.SourceSlice))

	_, err = s.execute("diff")
	assert.ErrorIs(t, err, errNoMark)
	_, err = s.execute("+= x")
	assert.Error(t, err)
	_, err = s.execute("[x]")
	assert.Error(t, err)
	_, err = s.execute("frobnicate")
	assert.ErrorContains(t, err, "unknown command")

	more, err := s.execute(".exit")
	assert.NoError(t, err)
	assert.False(t, more)

	more, err = s.execute("   ")
	assert.NoError(t, err)
	assert.True(t, more)
}

func TestSessionStats(t *testing.T) {
	s, out := newTestSession(t, config.SourceSlice, nil)
	run(t, s, out, "++")
	run(t, s, out, "+= 2")
	_, _ = s.execute("--")

	st := run(t, s, out, ".stats")
	assert.Contains(t, st, "increment_ops: 1")
	assert.Contains(t, st, "advance_ops: 1")
	assert.Contains(t, st, "steps_total: 4")
	assert.Contains(t, st, "traits_cache_misses:")

	months, out := newTestSession(t, config.SourceMonths, nil)
	run(t, months, out, "++")
	_, _ = months.execute("--")
	assert.Contains(t, run(t, months, out, ".stats"), "errors.unsupported_operation: 1")
}

func TestLoadConfigFlags(t *testing.T) {
	cfg, err := loadConfig(options{Source: "Block", Codec: "none", Entries: 4, Values: []int{1}})
	require.NoError(t, err)
	assert.Equal(t, config.SourceBlock, cfg.Source)
	assert.Equal(t, "none", cfg.Codec)
	assert.Equal(t, 4, cfg.BlockEntries)
	assert.Equal(t, []int{1}, cfg.SliceValues)

	assert.False(t, cfg.Telemetry.Enabled)

	_, err = loadConfig(options{Source: "weeks"})
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestLoadConfigTelemetry(t *testing.T) {
	cfg, err := loadConfig(options{Telemetry: []string{"stdout"}})
	require.NoError(t, err)
	assert.True(t, cfg.Telemetry.Enabled)
	assert.Equal(t, []string{"stdout"}, cfg.Telemetry.Exporters)

	t.Setenv("ITERWALK_TELEMETRY_SAMPLE_RATE", "0.5")
	cfg, err = loadConfig(options{Telemetry: []string{"otlp"}})
	require.NoError(t, err)
	assert.Equal(t, 0.5, cfg.Telemetry.SampleRate)

	cfg, err = loadConfig(options{Telemetry: []string{"stdout", "prometheus"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"stdout", "prometheus"}, cfg.Telemetry.Exporters)
	assert.Equal(t, "localhost:9464", cfg.Telemetry.PrometheusAddr)

	_, err = loadConfig(options{Telemetry: []string{"jaeger"}})
	assert.ErrorIs(t, err, config.ErrInvalidConfig)

	_, err = loadConfig(options{Telemetry: []string{"prometheus", "prometheus"}})
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestSessionTelemetry(t *testing.T) {
	ctx := context.Background()
	reader := sdkmetric.NewManualReader()
	recorder := tracetest.NewSpanRecorder()

	telCfg := telemetry.DefaultConfig()
	telCfg.Enabled = true
	telCfg.Exporters = nil
	tel, err := telemetry.New(telCfg, telemetry.WithReader(reader), telemetry.WithSpanProcessor(recorder))
	require.NoError(t, err)
	defer tel.Shutdown(ctx)

	cfg := config.NewDefaultConfig()
	var out bytes.Buffer
	s := newSession(cfg, &out, log.NewStandardLogger(log.Discard()), tel)
	require.NoError(t, s.open(config.SourceSlice))

	run(t, s, &out, "++")
	run(t, s, &out, "scan 3")
	_, err = s.execute("merge")
	require.ErrorIs(t, err, errNeedsBlock)

	ended := recorder.Ended()
	require.Len(t, ended, 2)
	assert.Equal(t, "repl.scan", ended[0].Name())
	assert.Contains(t, ended[0].Attributes(), attribute.String(telemetry.AttrScanKind, "scan"))
	assert.Contains(t, ended[0].Attributes(), attribute.Int("scan.elements", 3))
	assert.Contains(t, ended[1].Attributes(), attribute.String(telemetry.AttrScanKind, "merge"))

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))
	sums := make(map[string]int64)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if sum, ok := m.Data.(metricdata.Sum[int64]); ok {
				for _, dp := range sum.DataPoints {
					sums[m.Name] += dp.Value
				}
			}
		}
	}
	assert.Equal(t, int64(2), sums["repl.scans.total"])
	assert.Equal(t, int64(3), sums["repl.scan.elements"])
	// The registry and the run-time iterators report through the same provider
	assert.Positive(t, sums["iterators.operations.total"])
	assert.Positive(t, sums["iterators.validations.total"])
}
