package analysis

import (
	"log/slog"
	"runtime"

	"github.com/katalvlaran/decaytree/config"
)

// Option configures New, Load and NewProcessor.
type Option func(*Options)

// Options holds the shared settings. Workers, Collapse and Threshold only
// affect a Processor.
type Options struct {
	Logger    *slog.Logger
	Metrics   *Metrics
	Workers   int
	Collapse  bool
	Threshold float64
}

// DefaultOptions returns the default logger, no metrics, GOMAXPROCS
// workers and no collapse.
func DefaultOptions() Options {
	return Options{
		Logger:  slog.Default(),
		Workers: runtime.GOMAXPROCS(0),
	}
}

// WithLogger sets the logger; nil keeps the default.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

// WithMetrics records build and collapse metrics into m.
func WithMetrics(m *Metrics) Option {
	return func(o *Options) { o.Metrics = m }
}

// WithWorkers bounds how many events a Processor handles at once.
// Non-positive values are ignored.
func WithWorkers(n int) Option {
	return func(o *Options) {
		if n > 0 {
			o.Workers = n
		}
	}
}

// WithCollapse makes a Processor collapse every event at threshold.
func WithCollapse(threshold float64) Option {
	return func(o *Options) {
		o.Collapse = true
		o.Threshold = threshold
	}
}

// WithConfig applies the [analysis] section of c.
func WithConfig(c *config.Config) Option {
	return func(o *Options) {
		if c == nil {
			return
		}
		if c.Analysis.Workers > 0 {
			o.Workers = c.Analysis.Workers
		}
		o.Collapse = c.Analysis.Collapse
		o.Threshold = c.Analysis.Threshold
	}
}

func resolveOptions(opts []Option) Options {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
