package pool

import "errors"

var (
	// ErrInvalidMaxWorkers is returned when a pool is created with a
	// non-positive worker limit.
	ErrInvalidMaxWorkers = errors.New("pool: max workers must be at least 1")

	// ErrNilJob is returned when a nil job is submitted.
	ErrNilJob = errors.New("pool: job cannot be nil")

	// ErrPoolStopped is returned when a job is submitted after Stop.
	ErrPoolStopped = errors.New("pool: pool stopped")

	// ErrQueueFull is returned when the submission queue is full. The job is
	// not enqueued; the caller still owns it and may retry.
	ErrQueueFull = errors.New("pool: submission queue is full")
)
