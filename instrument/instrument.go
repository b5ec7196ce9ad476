// Package instrument decorates a storage.Provider with structured logging,
// Prometheus metrics and OpenTelemetry tracing.
//
//	p := instrument.Wrap(disk.New(base), instrument.WithLogger(logger))
//	http.Handle("/metrics", promhttp.HandlerFor(p.Registry(), promhttp.HandlerOpts{}))
//
// Every container operation produces one log record (debug on success, warn
// on failure), increments storage_operations_total{op,backend,result},
// observes storage_operation_duration_seconds{op,backend} and records a span
// named "storage.<op>". The result label is "ok" or the error code.
package instrument

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/jmgilman/go/storage"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the instrumentation scope of the spans.
const TracerName = "github.com/jmgilman/go/storage/instrument"

// Provider wraps another provider and instruments the containers it
// returns.
type Provider struct {
	inner    storage.Provider
	backend  string
	logger   *slog.Logger
	registry *prometheus.Registry
	tracer   trace.Tracer

	operations *prometheus.CounterVec
	duration   *prometheus.HistogramVec
}

// Option configures a Provider.
type Option func(*options)

type options struct {
	backend        string
	logger         *slog.Logger
	registry       *prometheus.Registry
	tracerProvider trace.TracerProvider
}

// WithLogger sets the logger receiving one record per operation.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithRegistry registers the metrics on registry instead of a private one.
// Several providers may share a registry.
func WithRegistry(registry *prometheus.Registry) Option {
	return func(o *options) {
		o.registry = registry
	}
}

// WithTracerProvider sets the source of the tracer. Defaults to the global
// OpenTelemetry tracer provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *options) {
		o.tracerProvider = tp
	}
}

// WithBackend sets the backend label. Defaults to the package name of the
// wrapped provider's type, e.g. "disk".
func WithBackend(name string) Option {
	return func(o *options) {
		o.backend = name
	}
}

// Wrap returns an instrumented view of p.
// It panics if the registry already holds incompatible metrics with the
// same names.
func Wrap(p storage.Provider, opts ...Option) *Provider {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if o.registry == nil {
		o.registry = prometheus.NewRegistry()
	}
	if o.tracerProvider == nil {
		o.tracerProvider = otel.GetTracerProvider()
	}
	if o.backend == "" {
		o.backend = backendName(p)
	}

	operations := register(o.registry, prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "storage",
			Name:      "operations_total",
			Help:      "Total number of storage operations by result",
		},
		[]string{"op", "backend", "result"},
	))
	duration := register(o.registry, prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "storage",
			Name:      "operation_duration_seconds",
			Help:      "Duration of storage operations in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"op", "backend"},
	))

	return &Provider{
		inner:      p,
		backend:    o.backend,
		logger:     o.logger.With("backend", o.backend),
		registry:   o.registry,
		tracer:     o.tracerProvider.Tracer(TracerName),
		operations: operations,
		duration:   duration,
	}
}

// register registers c or returns the equivalent collector registered
// earlier.
func register[C prometheus.Collector](registry *prometheus.Registry, c C) C {
	if err := registry.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
		}
		panic(fmt.Sprintf("instrument: registering metrics: %v", err))
	}
	return c
}

// backendName turns "*disk.Provider" into "disk".
func backendName(p storage.Provider) string {
	name := strings.TrimPrefix(fmt.Sprintf("%T", p), "*")
	if pkg, _, ok := strings.Cut(name, "."); ok {
		return pkg
	}
	return name
}

// Registry returns the registry holding the metrics.
func (p *Provider) Registry() *prometheus.Registry {
	return p.registry
}

// Backend returns the backend label value.
func (p *Provider) Backend() string {
	return p.backend
}

// Unwrap returns the wrapped provider.
func (p *Provider) Unwrap() storage.Provider {
	return p.inner
}

// Container resolves path with the wrapped provider and instruments the
// result.
func (p *Provider) Container(path storage.Path) (storage.Container, error) {
	inner, err := p.inner.Container(path)
	if err != nil {
		return nil, err
	}
	return &Container{provider: p, inner: inner}, nil
}

// Compile-time interface check.
var _ storage.Provider = (*Provider)(nil)
