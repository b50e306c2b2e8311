package decay

import "log/slog"

// Option configures Build and NewHandler.
type Option func(*Options)

// Options holds the tunables shared by Build and NewHandler.
type Options struct {
	// Logger receives debug records about build and collapse.
	// Defaults to slog.Default().
	Logger *slog.Logger
}

// DefaultOptions returns Options with the default logger.
func DefaultOptions() Options {
	return Options{Logger: slog.Default()}
}

// WithLogger sets the logger. A nil logger leaves the default in place.
func WithLogger(l *slog.Logger) Option {
	return func(o *Options) {
		if l != nil {
			o.Logger = l
		}
	}
}

func resolveOptions(opts []Option) Options {
	o := DefaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
