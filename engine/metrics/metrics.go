// Package metrics exposes morph transition activity as Prometheus metrics.
package metrics

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Carmen-Shannon/oxy-morph/engine/morph"
)

// Collector owns a Prometheus registry fed by morph controller hooks and frame reports.
type Collector struct {
	logger   *slog.Logger
	registry *prometheus.Registry

	started    prometheus.Counter
	abandoned  prometheus.Counter
	committed  *prometheus.CounterVec
	took       prometheus.Histogram
	frames     *prometheus.CounterVec
	progress   prometheus.Gauge
	settled    prometheus.Gauge
	fps        prometheus.Gauge
	heapAllocs prometheus.Gauge
}

// CollectorOption is a functional option for configuring a Collector.
type CollectorOption func(*Collector)

// WithLogger sets the logger used by Serve. A nil logger is ignored.
//
// Parameters:
//   - logger: the structured logger
//
// Returns:
//   - CollectorOption: option function to apply
func WithLogger(logger *slog.Logger) CollectorOption {
	return func(c *Collector) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithGoCollector additionally registers the Go runtime and process collectors.
//
// Returns:
//   - CollectorOption: option function to apply
func WithGoCollector() CollectorOption {
	return func(c *Collector) {
		c.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}
}

// NewCollector creates a Collector with its own registry.
//
// Parameters:
//   - options: functional options
//
// Returns:
//   - *Collector: the collector
func NewCollector(options ...CollectorOption) *Collector {
	c := &Collector{
		logger:   slog.New(slog.DiscardHandler),
		registry: prometheus.NewRegistry(),
		started: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "morph_transitions_started_total",
			Help: "Transitions opened by a selection change.",
		}),
		abandoned: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "morph_transitions_abandoned_total",
			Help: "Transitions replaced by a new selection before they committed.",
		}),
		committed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "morph_transitions_committed_total",
			Help: "Committed transitions by settled model.",
		}, []string{"model"}),
		took: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "morph_transition_seconds",
			Help:    "Rendered time from a transition's first tick to its commit.",
			Buckets: []float64{0.25, 0.5, 1, 1.5, 2, 3, 5, 10},
		}),
		frames: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "morph_frames_total",
			Help: "Frame ticks processed, by whether a renderer received them.",
		}, []string{"published"}),
		progress: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "morph_progress",
			Help: "Last published transition progress.",
		}),
		settled: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "morph_settled_model",
			Help: "Index of the settled model, -1 before the first commit.",
		}),
		fps: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "morph_frames_per_second",
			Help: "Frames per second over the last profiler interval.",
		}),
		heapAllocs: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "morph_heap_alloc_bytes",
			Help: "Heap bytes allocated at the last profiler report.",
		}),
	}
	c.settled.Set(morph.NoModel)
	c.registry.MustRegister(c.started, c.abandoned, c.committed, c.took, c.frames, c.progress, c.settled, c.fps, c.heapAllocs)

	for _, opt := range options {
		opt(c)
	}
	return c
}

// Registry returns the registry metrics are registered with.
//
// Returns:
//   - *prometheus.Registry: the registry
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// Hooks returns controller hooks that record transition activity.
//
// Returns:
//   - morph.Hooks: hooks to pass to morph.WithHooks
func (c *Collector) Hooks() morph.Hooks {
	return morph.Hooks{
		OnTransitionStart: func(_, _ int) {
			c.started.Inc()
		},
		OnTransitionAbandoned: func(int) {
			c.abandoned.Inc()
		},
		OnCommit: func(model int, took float64) {
			c.committed.WithLabelValues(strconv.Itoa(model)).Inc()
			c.took.Observe(took)
			c.settled.Set(float64(model))
		},
		OnPublish: func(progress float32, _ float64, published bool) {
			c.frames.WithLabelValues(strconv.FormatBool(published)).Inc()
			c.progress.Set(float64(progress))
		},
	}
}

// ObserveProfile records a profiler report.
//
// Parameters:
//   - fps: frames per second
//   - heapAlloc: heap bytes in use
func (c *Collector) ObserveProfile(fps float64, heapAlloc uint64) {
	c.fps.Set(fps)
	c.heapAllocs.Set(float64(heapAlloc))
}

// Handler returns an HTTP handler serving the registry in the Prometheus exposition format.
//
// Returns:
//   - http.Handler: the /metrics handler
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{Registry: c.registry})
}

// Serve serves /metrics on addr until ctx is cancelled.
//
// Parameters:
//   - ctx: cancels the server
//   - addr: the listen address, e.g. ":2112"
//
// Returns:
//   - error: the listener error, or nil after a clean shutdown
func (c *Collector) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	errCh := make(chan error, 1)
	go func() {
		c.logger.Info("serving metrics", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
