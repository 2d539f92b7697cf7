package pool

import (
	"io"
	"log/slog"
)

// DefaultQueueCapacity is the default size of the job submission queue.
const DefaultQueueCapacity = 64

type options struct {
	logger        *slog.Logger
	queueCapacity int
}

func defaultOptions() *options {
	return &options{
		logger:        slog.New(slog.NewTextHandler(io.Discard, nil)), // No-op logger by default
		queueCapacity: DefaultQueueCapacity,
	}
}

// Option configures a Pool.
type Option func(*options)

// WithLogger configures structured logging for the pool.
// Use slog.New(slog.NewTextHandler(io.Discard, nil)) to disable logging.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithQueueCapacity sets the size of the job submission queue. AddJob
// returns ErrQueueFull once the queue holds this many undispatched jobs.
func WithQueueCapacity(capacity int) Option {
	return func(o *options) {
		if capacity > 0 {
			o.queueCapacity = capacity
		}
	}
}
