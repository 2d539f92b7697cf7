package mpmc

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/dmitrymomot/synckit/core/multiqueue"
)

// Receiver receives values from a broadcast channel through its own fork of
// the backlog. A receiver is not safe for concurrent use by multiple
// goroutines; create one per consumer with Subscribe.
type Receiver[T any] struct {
	ch     *channel[T]
	queue  *multiqueue.MultiQueue[T]
	id     uuid.UUID
	closed bool
}

func newReceiver[T any](ch *channel[T]) (*Receiver[T], error) {
	ch.mu.Lock()
	defer ch.mu.Unlock()

	fork, err := ch.backlog.Fork()
	if err != nil {
		return nil, fmt.Errorf("mpmc: subscribe: %w", err)
	}
	ch.liveReceivers++

	return &Receiver[T]{
		ch:    ch,
		queue: fork,
		id:    uuid.New(),
	}, nil
}

// Recv returns the next value in send order. It suspends while the
// receiver's backlog is empty and at least one sender is alive. Once the
// last sender is released and the backlog is drained, Recv returns
// ErrClosed. The context bounds the wait.
func (r *Receiver[T]) Recv(ctx context.Context) (T, error) {
	var zero T
	if r.closed {
		return zero, ErrReceiverClosed
	}

	if err := r.waitForValue(ctx); err != nil {
		return zero, err
	}

	// Only this receiver consumes from its fork, so the front observed here
	// cannot be taken away before the pop.
	v, ok := r.queue.Front()
	if !ok {
		return zero, ErrClosed
	}
	r.queue.PopFront()

	r.ch.mu.Lock()
	r.ch.wakeAll(roleSender)
	r.ch.mu.Unlock()

	return v, nil
}

// waitForValue suspends until the receiver's fork is non-empty or the
// channel is closed and drained. Wakes may be spurious, so the condition is
// re-checked every time.
func (r *Receiver[T]) waitForValue(ctx context.Context) error {
	for {
		if r.queue.Len() > 0 {
			r.ch.mu.Lock()
			r.ch.unregister(r.id, roleReceiver)
			r.ch.mu.Unlock()
			return nil
		}

		r.ch.mu.Lock()
		if r.ch.liveSenders == 0 {
			// Closed; deliver the remaining backlog before reporting it.
			if r.queue.Len() > 0 {
				r.ch.unregister(r.id, roleReceiver)
				r.ch.mu.Unlock()
				return nil
			}
			r.ch.unregister(r.id, roleReceiver)
			r.ch.mu.Unlock()
			return ErrClosed
		}
		wake := r.ch.register(r.id, roleReceiver)
		// Nudge suspended senders in case capacity opened up unnoticed.
		r.ch.wakeAll(roleSender)
		r.ch.mu.Unlock()

		// Re-check after registration: a send between the first check and
		// the registration would otherwise be missed.
		if r.queue.Len() > 0 {
			r.ch.mu.Lock()
			r.ch.unregister(r.id, roleReceiver)
			r.ch.mu.Unlock()
			return nil
		}

		select {
		case <-wake:
		case <-ctx.Done():
			r.ch.mu.Lock()
			r.ch.unregister(r.id, roleReceiver)
			r.ch.mu.Unlock()
			return ctx.Err()
		}
	}
}

// Close releases the receiver's fork of the backlog, dropping its claims on
// any unread values, and wakes suspended senders that may have been waiting
// on this receiver. Close returns ErrReceiverClosed when the receiver was
// already closed.
func (r *Receiver[T]) Close() error {
	if r.closed {
		return ErrReceiverClosed
	}
	r.closed = true

	err := r.queue.Close()

	r.ch.mu.Lock()
	r.ch.unregister(r.id, roleReceiver)
	r.ch.liveReceivers--
	r.ch.wakeAll(roleSender)
	r.ch.releaseIfUnused()
	r.ch.mu.Unlock()

	return err
}
