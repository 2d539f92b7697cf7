// Package delayed stores handlers keyed by the data they are waiting for and
// runs them on a worker pool once that data arrives. Register a handler while
// the outcome is still pending, move on, and schedule it later when the value
// is known.
package delayed

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrymomot/synckit/core/pool"
)

// ErrHandlerNotFound is returned by Schedule when no handler is registered
// under the given key.
var ErrHandlerNotFound = errors.New("delayed: handler not found")

// Handler processes the data a key was waiting for. The context is the
// worker's run context and is cancelled when the pool stops.
type Handler[T any] func(ctx context.Context, data T) error

// Registry holds pending handlers and the pool they run on. It is safe for
// concurrent use.
type Registry[K comparable, T any] struct {
	mu       sync.Mutex
	handlers map[K]Handler[T]
	pool     *pool.Pool
}

// NewRegistry creates a registry that schedules handlers on p.
// It panics when p is nil.
func NewRegistry[K comparable, T any](p *pool.Pool) *Registry[K, T] {
	if p == nil {
		panic("delayed: nil pool")
	}
	return &Registry[K, T]{
		handlers: make(map[K]Handler[T]),
		pool:     p,
	}
}

// AddHandler registers handler under key, replacing any previous handler for
// the same key.
func (r *Registry[K, T]) AddHandler(key K, handler Handler[T]) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.handlers[key] = handler
}

// Schedule removes the handler registered under key and submits it to the
// pool with data. Each registration runs at most once; scheduling the same
// key again requires a new AddHandler call first. The returned job reports
// the handler's outcome through Done.
func (r *Registry[K, T]) Schedule(key K, data T) (*pool.Job, error) {
	r.mu.Lock()
	handler, ok := r.handlers[key]
	if ok {
		delete(r.handlers, key)
	}
	r.mu.Unlock()

	if !ok {
		return nil, fmt.Errorf("%w: %v", ErrHandlerNotFound, key)
	}

	job := pool.NewJob()
	job.AddTask(func(ctx context.Context) error {
		return handler(ctx, data)
	})

	if err := r.pool.AddJob(job); err != nil {
		// Submission failed; the registration is already consumed, so put the
		// handler back for a retry.
		r.mu.Lock()
		if _, exists := r.handlers[key]; !exists {
			r.handlers[key] = handler
		}
		r.mu.Unlock()
		return nil, err
	}

	return job, nil
}

// Contains reports whether a handler is registered under key.
func (r *Registry[K, T]) Contains(key K) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.handlers[key]
	return ok
}
