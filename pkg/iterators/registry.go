package iterators

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"time"

	"github.com/KevoDB/iterfacade/pkg/common/log"
	"github.com/KevoDB/iterfacade/pkg/stats"
)

// Registry caches detection, derived traits and validation results per core
// type. Traits are computed once per core; every later lookup is a map load.
// A Registry is safe for concurrent use.
type Registry struct {
	entries   sync.Map // reflect.Type -> *registryEntry
	constness sync.Map // reflect.Type -> bool

	logger  log.Logger
	stats   stats.Collector
	metrics Metrics
}

type registryEntry struct {
	detection Detection
	traits    Traits
	deriveErr error

	levels [LevelRandomAccess + 1]levelResult
}

type levelResult struct {
	once sync.Once
	err  error
}

// RegistryOption configures a Registry
type RegistryOption func(*Registry)

// WithLogger sets the logger used for derivation and validation events.
// Without it the registry follows log.GetDefaultLogger.
func WithLogger(logger log.Logger) RegistryOption {
	return func(r *Registry) {
		r.logger = logger
	}
}

// WithCollector sets the statistics collector
func WithCollector(collector stats.Collector) RegistryOption {
	return func(r *Registry) {
		r.stats = collector
	}
}

// WithMetrics records lookups and validations as telemetry. Iterators
// created through the registry report their operations to it as well.
func WithMetrics(metrics Metrics) RegistryOption {
	return func(r *Registry) {
		if metrics == nil {
			metrics = NewNoopMetrics()
		}
		r.metrics = metrics
	}
}

// NewRegistry creates an empty registry
func NewRegistry(options ...RegistryOption) *Registry {
	r := &Registry{
		stats:   stats.NewAtomicCollector(),
		metrics: NewNoopMetrics(),
	}
	for _, option := range options {
		option(r)
	}
	return r
}

var defaultRegistry = NewRegistry()

// DefaultRegistry returns the registry used by the facade constructors
func DefaultRegistry() *Registry {
	return defaultRegistry
}

// log returns the configured logger, or the process default at call time so
// that SetDefaultLogger reaches registries built before it, the default one
// included.
func (r *Registry) log() log.Logger {
	if r.logger != nil {
		return r.logger
	}
	return log.GetDefaultLogger().WithField("component", "iterators")
}

// Stats exposes the registry's statistics
func (r *Registry) Stats() stats.Provider {
	return r.stats
}

func (r *Registry) entry(core reflect.Type) *registryEntry {
	if e, ok := r.entries.Load(core); ok {
		r.stats.TrackCacheLookup(true)
		r.metrics.RecordTraitsLookup(context.Background(), core, true)
		return e.(*registryEntry)
	}
	r.stats.TrackCacheLookup(false)
	r.metrics.RecordTraitsLookup(context.Background(), core, false)

	d := Detect(core)
	traits, err := Derive(d)
	e, loaded := r.entries.LoadOrStore(core, &registryEntry{
		detection: d,
		traits:    traits,
		deriveErr: err,
	})
	if !loaded {
		fields := map[string]interface{}{
			"core":        typeName(core),
			"level":       traits.Level.String(),
			"fingerprint": traits.Fingerprint(),
		}
		if err != nil {
			r.log().WithFields(fields).Warn("derived ill-formed traits: %v", err)
		} else {
			r.log().WithFields(fields).Debug("derived traits: %s", traits)
		}
	}
	return e.(*registryEntry)
}

// Detection returns the cached detection result for core
func (r *Registry) Detection(core reflect.Type) Detection {
	return r.entry(core).detection
}

// Lookup returns the cached traits for core
func (r *Registry) Lookup(core reflect.Type) (Traits, error) {
	r.stats.TrackOperation(stats.OpTraits)
	e := r.entry(core)
	return e.traits, e.deriveErr
}

// Check validates core against level, caching the outcome
func (r *Registry) Check(core reflect.Type, level Level) error {
	if !level.Valid() {
		return Validate(level, Detection{Core: core})
	}
	e := r.entry(core)
	res := &e.levels[level]
	res.once.Do(func() {
		start := time.Now()
		err := Validate(level, e.detection)
		if e.deriveErr != nil && level < LevelRandomAccess {
			// RandomAccess validation reports the ill-formed difference itself
			err = errors.Join(err, e.deriveErr)
		}
		elapsed := time.Since(start)
		failures := RequirementErrors(err)
		r.stats.TrackOperationWithLatency(stats.OpValidate, uint64(elapsed.Nanoseconds()))
		r.metrics.RecordValidation(context.Background(), core, level, len(failures), elapsed)
		if err != nil {
			for _, re := range failures {
				r.stats.TrackError(re.Kind.String())
			}
			r.log().WithFields(map[string]interface{}{
				"core":  typeName(core),
				"level": level.String(),
			}).Warn("core does not satisfy level: %v", err)
		}
		res.err = err
	})
	return res.err
}

// IsSemanticallyConst is the cached form of the package-level function
func (r *Registry) IsSemanticallyConst(t reflect.Type) bool {
	if t == nil {
		return false
	}
	if v, ok := r.constness.Load(t); ok {
		return v.(bool)
	}
	v := semanticallyConst(t, map[reflect.Type]bool{})
	r.constness.Store(t, v)
	return v
}

// TraitsOf returns the traits of core type C from the default registry
func TraitsOf[C any]() (Traits, error) {
	return defaultRegistry.Lookup(reflect.TypeFor[C]())
}

// Check validates core type C against level using the default registry
func Check[C any](level Level) error {
	return defaultRegistry.Check(reflect.TypeFor[C](), level)
}

// mustCheck backs the facade constructors. The constraints on each facade
// already reject missing methods at compile time; this catches the
// structural properties Go's type system cannot express.
func mustCheck[C any](level Level) {
	if err := Check[C](level); err != nil {
		panic(err)
	}
}
