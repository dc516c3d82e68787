package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"github.com/KevoDB/iterfacade/pkg/block"
	"github.com/KevoDB/iterfacade/pkg/common/iterator"
	"github.com/KevoDB/iterfacade/pkg/common/iterator/bounded"
	"github.com/KevoDB/iterfacade/pkg/common/iterator/composite"
	"github.com/KevoDB/iterfacade/pkg/common/iterator/filtered"
	"github.com/KevoDB/iterfacade/pkg/common/log"
	"github.com/KevoDB/iterfacade/pkg/config"
	"github.com/KevoDB/iterfacade/pkg/cores"
	"github.com/KevoDB/iterfacade/pkg/iterators"
	"github.com/KevoDB/iterfacade/pkg/stats"
	"github.com/KevoDB/iterfacade/pkg/telemetry"
)

var (
	errNoSource   = errors.New("no source open")
	errOutOfRange = errors.New("position out of range")
	errNoMark     = errors.New("no mark set")
	errNeedsBlock = errors.New("command needs the block source")
)

// defaultScanLimit caps scan output when no count is given
const defaultScanLimit = 20

// session is the state of one REPL: the open source, its [begin, end)
// iterators, the cursor the commands move and an optional mark.
type session struct {
	cfg       *config.Config
	out       io.Writer
	logger    log.Logger
	registry  *iterators.Registry
	collector *stats.AtomicCollector
	tel       telemetry.Telemetry

	source string
	length int64 // number of elements, -1 when unknown

	begin, end, cur, mark *iterators.Iterator

	// block source only
	base, overlay *block.Block
}

// newSession creates a session with no source open. A nil tel records nothing.
func newSession(cfg *config.Config, out io.Writer, logger log.Logger, tel telemetry.Telemetry) *session {
	if tel == nil {
		tel = telemetry.NewNoop()
	}
	collector := stats.NewAtomicCollector()
	return &session{
		cfg:       cfg,
		out:       out,
		logger:    logger,
		collector: collector,
		tel:       tel,
		registry: iterators.NewRegistry(
			iterators.WithLogger(logger.WithField("component", "registry")),
			iterators.WithCollector(collector),
			iterators.WithMetrics(iterators.NewMetrics(tel)),
		),
		length: -1,
	}
}

// open replaces the current source
func (s *session) open(source string) error {
	var beginCore, endCore any
	var length int64 = -1
	var base, overlay *block.Block

	switch source {
	case config.SourceMonths:
		b, e := cores.MonthRange()
		beginCore, endCore = b.Core(), e.Core()
		length = 12

	case config.SourceWrapped:
		b, e := cores.WrappedMonthRange()
		beginCore, endCore = b.Core(), e.Core()
		length = 12

	case config.SourceSlice:
		values := append([]int(nil), s.cfg.SliceValues...)
		b, e := cores.Begin(values), cores.End(values)
		beginCore, endCore = b.Core(), e.Core()
		length = int64(len(values))

	case config.SourceBlock:
		var err error
		base, overlay, err = s.buildBlocks()
		if err != nil {
			return err
		}
		b, e := cores.BlockBegin(base), cores.BlockEnd(base)
		beginCore, endCore = b.Core(), e.Core()
		length = int64(base.Len())

	default:
		return fmt.Errorf("unknown source %q, expected one of %s", source, strings.Join(config.Sources, ", "))
	}

	begin, err := iterators.New(beginCore, iterators.WithRegistry(s.registry), iterators.WithStats(s.collector))
	if err != nil {
		return err
	}
	end, err := iterators.New(endCore, iterators.WithRegistry(s.registry), iterators.WithStats(s.collector))
	if err != nil {
		return err
	}

	s.source = source
	s.length = length
	s.begin, s.end = begin, end
	s.cur = begin.Clone()
	s.mark = nil
	s.base, s.overlay = base, overlay

	s.logger.WithFields(map[string]interface{}{
		"source": source,
		"level":  begin.Level().String(),
	}).Info("source opened")
	return nil
}

// buildBlocks encodes and decodes the block source: a base generation with
// every key and an overlay rewriting every third one.
func (s *session) buildBlocks() (*block.Block, *block.Block, error) {
	codec, err := block.ParseCodec(s.cfg.Codec)
	if err != nil {
		return nil, nil, err
	}

	encode := func(gen int, keep func(i int) bool) (*block.Block, error) {
		builder := block.NewBuilder()
		for i := 0; i < s.cfg.BlockEntries; i++ {
			if !keep(i) {
				continue
			}
			key := fmt.Sprintf("key%03d", i)
			value := fmt.Sprintf("v%d-%03d", gen, i)
			if err := builder.Add([]byte(key), []byte(value)); err != nil {
				return nil, err
			}
		}
		data, err := builder.Finish(codec)
		if err != nil {
			return nil, err
		}
		s.logger.WithFields(map[string]interface{}{
			"generation": gen,
			"entries":    builder.Entries(),
			"bytes":      len(data),
			"codec":      codec.String(),
		}).Debug("block encoded")
		return block.Decode(data, codec)
	}

	base, err := encode(1, func(int) bool { return true })
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build base block: %w", err)
	}
	overlay, err := encode(2, func(i int) bool { return i%3 == 0 })
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build overlay block: %w", err)
	}
	return base, overlay, nil
}

// index returns the cursor's offset from begin, for random access sources
func (s *session) index(it *iterators.Iterator) (int64, bool) {
	if !it.Level().Satisfies(iterators.LevelRandomAccess) {
		return 0, false
	}
	d, err := it.Distance(s.begin)
	if err != nil {
		return 0, false
	}
	return d, true
}

func (s *session) atEnd(it *iterators.Iterator) bool {
	eq, err := it.Equal(s.end)
	return err == nil && eq
}

// readable reports whether it points at an element
func (s *session) readable(it *iterators.Iterator) bool {
	if idx, ok := s.index(it); ok {
		return idx >= 0 && idx < s.length
	}
	return !s.atEnd(it)
}

// execute runs one command line. It returns false when the session should end.
func (s *session) execute(line string) (bool, error) {
	parts := strings.Fields(line)
	if len(parts) == 0 {
		return true, nil
	}
	cmd := strings.ToLower(parts[0])

	switch cmd {
	case ".help":
		fmt.Fprint(s.out, helpText)
		return true, nil
	case ".exit":
		return false, nil
	case ".use":
		if len(parts) < 2 {
			return true, errors.New("missing source argument")
		}
		if err := s.open(strings.ToLower(parts[1])); err != nil {
			return true, err
		}
		fmt.Fprintf(s.out, "Opened %s (%s iterator)\n", s.source, s.begin.Level())
		return true, nil
	case ".stats":
		s.printStats()
		return true, nil
	}

	if s.cur == nil {
		return true, errNoSource
	}

	switch cmd {
	case ".traits":
		t := s.cur.Traits()
		fmt.Fprintf(s.out, "%s\nfingerprint=%016x\n", t, t.Fingerprint())

	case "*":
		if !s.readable(s.cur) {
			return true, errOutOfRange
		}
		fmt.Fprintln(s.out, format(s.cur.Value()))

	case "++":
		if s.atEnd(s.cur) {
			return true, errOutOfRange
		}
		s.cur.Inc()
		s.printPosition()

	case "--":
		eq, err := s.cur.Equal(s.begin)
		if err == nil && eq {
			return true, errOutOfRange
		}
		if err := s.cur.Dec(); err != nil {
			return true, err
		}
		s.printPosition()

	case "+=", "-=":
		n, err := intArg(parts, 1)
		if err != nil {
			return true, err
		}
		if cmd == "-=" {
			n = -n
		}
		if idx, ok := s.index(s.cur); ok && (idx+n < 0 || idx+n > s.length) {
			return true, errOutOfRange
		}
		if err := s.cur.Advance(n); err != nil {
			return true, err
		}
		s.printPosition()

	case "mark":
		s.mark = s.cur.Clone()
		fmt.Fprintln(s.out, "Mark set")

	case "diff":
		if s.mark == nil {
			return true, errNoMark
		}
		d, err := s.cur.Distance(s.mark)
		if err != nil {
			return true, err
		}
		fmt.Fprintf(s.out, "cursor - mark = %d\n", d)

	case "cmp":
		if s.mark == nil {
			return true, errNoMark
		}
		c, err := s.compareToMark()
		if err != nil {
			return true, err
		}
		fmt.Fprintf(s.out, "cursor %s mark\n", c)

	case "scan":
		limit := int64(defaultScanLimit)
		if len(parts) > 1 {
			n, err := intArg(parts, 1)
			if err != nil {
				return true, err
			}
			limit = n
		}
		return true, s.traced("scan", func() (int, error) {
			return s.scan(limit), nil
		})

	case "range":
		if len(parts) < 3 {
			return true, errors.New("usage: range START END")
		}
		return true, s.traced("range", func() (int, error) {
			return s.rangeKeys([]byte(parts[1]), []byte(parts[2]))
		})

	case "grep":
		if len(parts) < 2 {
			return true, errors.New("usage: grep TEXT")
		}
		return true, s.traced("grep", func() (int, error) {
			return s.grep(parts[1]), nil
		})

	case "merge":
		return true, s.traced("merge", s.merge)

	default:
		if strings.HasPrefix(cmd, "[") && strings.HasSuffix(cmd, "]") {
			n, err := strconv.ParseInt(strings.TrimSuffix(strings.TrimPrefix(cmd, "["), "]"), 10, 64)
			if err != nil {
				return true, fmt.Errorf("invalid offset %q", cmd)
			}
			if idx, ok := s.index(s.cur); ok && (idx+n < 0 || idx+n >= s.length) {
				return true, errOutOfRange
			}
			v, err := s.cur.At(n)
			if err != nil {
				return true, err
			}
			fmt.Fprintln(s.out, format(v))
			return true, nil
		}
		return true, fmt.Errorf("unknown command %q, enter .help for usage hints", parts[0])
	}
	return true, nil
}

// compareToMark orders the cursor against the mark. Below random access
// only equality is known.
func (s *session) compareToMark() (string, error) {
	if s.cur.Level().Satisfies(iterators.LevelRandomAccess) {
		c, err := s.cur.Compare(s.mark)
		if err != nil {
			return "", err
		}
		switch {
		case c < 0:
			return "<", nil
		case c > 0:
			return ">", nil
		}
		return "==", nil
	}
	eq, err := s.cur.Equal(s.mark)
	if err != nil {
		return "", err
	}
	if eq {
		return "==", nil
	}
	return "!=", nil
}

func (s *session) printPosition() {
	if idx, ok := s.index(s.cur); ok {
		fmt.Fprintf(s.out, "at %d\n", idx)
		return
	}
	if s.atEnd(s.cur) {
		fmt.Fprintln(s.out, "at end")
		return
	}
	fmt.Fprintln(s.out, "ok")
}

// traced runs one scanning command inside a span and records how many
// elements it produced.
func (s *session) traced(kind string, fn func() (int, error)) error {
	ctx, span := s.tel.StartSpan(context.Background(), "repl.scan",
		attribute.String(telemetry.AttrScanKind, kind),
		attribute.String("source", s.source),
	)
	defer span.End()

	start := time.Now()
	n, err := fn()

	attrs := []attribute.KeyValue{
		attribute.String(telemetry.AttrComponent, telemetry.ComponentREPL),
		attribute.String(telemetry.AttrScanKind, kind),
	}
	telemetry.RecordDuration(ctx, s.tel, "repl.scan.duration", start, attrs...)
	s.tel.RecordCounter(ctx, "repl.scans.total", 1, append(attrs, attribute.String(telemetry.AttrStatus, status(err)))...)
	if err != nil {
		span.RecordError(err)
		return err
	}
	s.tel.RecordCounter(ctx, "repl.scan.elements", int64(n), attrs...)
	span.SetAttributes(attribute.Int("scan.elements", n))
	return nil
}

func status(err error) string {
	if err != nil {
		return telemetry.StatusError
	}
	return telemetry.StatusSuccess
}

// scan prints up to limit elements from the cursor on without moving it
func (s *session) scan(limit int64) int {
	it := s.cur.Clone()
	var n int64
	for ; n < limit && s.readable(it); n++ {
		fmt.Fprintf(s.out, "%d: %s\n", n, format(it.Value()))
		it.Inc()
	}
	fmt.Fprintf(s.out, "%d elements\n", n)
	return int(n)
}

// entries returns a cursor over every entry of b
func entries(b *block.Block) iterator.Iterator[block.Entry] {
	begin, end := cores.BlockBegin(b), cores.BlockEnd(b)
	return iterators.NewRangeIterator(begin.Forward, end.Forward)
}

func compareKeys(a, b block.Entry) int {
	return bytes.Compare(a.Key, b.Key)
}

// rangeKeys prints the block entries with keys in [start, end)
func (s *session) rangeKeys(start, end []byte) (int, error) {
	if s.base == nil {
		return 0, errNeedsBlock
	}
	lo, hi := block.Entry{Key: start}, block.Entry{Key: end}
	it := bounded.NewIterator[block.Entry](entries(s.base), compareKeys, &lo, &hi)
	return s.printEntries(it), nil
}

// grep prints the elements from begin whose rendering contains text
func (s *session) grep(text string) int {
	var values []string
	for it := s.begin.Clone(); s.readable(it); it.Inc() {
		values = append(values, format(it.Value()))
	}
	matches := filtered.NewIterator[string](iterator.FromSlice(values), func(v string) bool {
		return strings.Contains(v, text)
	})
	n := 0
	for v := range iterator.All[string](matches) {
		fmt.Fprintln(s.out, v)
		n++
	}
	fmt.Fprintf(s.out, "%d matches\n", n)
	return n
}

// merge prints the overlay generation merged over the base one
func (s *session) merge() (int, error) {
	if s.base == nil {
		return 0, errNeedsBlock
	}
	it := composite.NewHierarchicalIterator(compareKeys, entries(s.overlay), entries(s.base))
	return s.printEntries(it), nil
}

func (s *session) printEntries(it iterator.Iterator[block.Entry]) int {
	n := 0
	for e := range iterator.All[block.Entry](it) {
		fmt.Fprintln(s.out, format(e))
		n++
	}
	fmt.Fprintf(s.out, "%d entries\n", n)
	return n
}

func (s *session) printStats() {
	st := s.collector.GetStats()
	keys := make([]string, 0, len(st))
	for k := range st {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		switch v := st[k].(type) {
		case map[string]uint64:
			names := make([]string, 0, len(v))
			for name := range v {
				names = append(names, name)
			}
			sort.Strings(names)
			for _, name := range names {
				fmt.Fprintf(s.out, "  %s.%s: %d\n", k, name, v[name])
			}
		default:
			fmt.Fprintf(s.out, "  %s: %v\n", k, v)
		}
	}
}

func intArg(parts []string, i int) (int64, error) {
	if len(parts) <= i {
		return 0, errors.New("missing count argument")
	}
	n, err := strconv.ParseInt(parts[i], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid count %q", parts[i])
	}
	return n, nil
}

func format(v any) string {
	switch x := v.(type) {
	case block.Entry:
		return fmt.Sprintf("%s => %s", x.Key, x.Value)
	case fmt.Stringer:
		return x.String()
	default:
		return fmt.Sprint(v)
	}
}
