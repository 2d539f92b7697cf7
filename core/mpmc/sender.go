package mpmc

import (
	"context"
	"fmt"

	"github.com/google/uuid"
)

// Sender sends values to a broadcast channel. A sender is not safe for
// concurrent use by multiple goroutines; clone it instead. Clones share the
// channel and are cheap.
type Sender[T any] struct {
	ch *channel[T]

	// bound is the maximum number of values not yet read by all receivers;
	// zero means unbounded.
	bound int

	id     uuid.UUID
	closed bool
}

func newSender[T any](ch *channel[T], bound int) *Sender[T] {
	ch.mu.Lock()
	ch.liveSenders++
	ch.mu.Unlock()

	return &Sender[T]{
		ch:    ch,
		bound: bound,
		id:    uuid.New(),
	}
}

// Send delivers a value to every current receiver. On a bounded channel it
// suspends while the backlog holds bound values unread by at least one
// receiver, resuming when a receive frees a slot. The context bounds the
// wait; on cancellation the value is not enqueued and the caller keeps it.
func (s *Sender[T]) Send(ctx context.Context, v T) error {
	if s.closed {
		return ErrSenderClosed
	}

	if s.bound > 0 {
		if err := s.waitForSpace(ctx); err != nil {
			return err
		}
	}

	s.ch.mu.Lock()
	defer s.ch.mu.Unlock()

	if err := s.ch.backlog.Push(v); err != nil {
		return fmt.Errorf("mpmc: send: %w", err)
	}

	// A sender never reads, so it must not hold reclamation claims on the
	// backlog; drain its view right away.
	s.ch.backlog.PopAll()

	s.ch.unregister(s.id, roleSender)
	s.ch.wakeAll(roleReceiver)
	return nil
}

// waitForSpace suspends until the backlog's shared size is below the bound.
// Wakes may be spurious, so the condition is re-checked every time.
func (s *Sender[T]) waitForSpace(ctx context.Context) error {
	for {
		s.ch.mu.Lock()
		if s.ch.backlog.SharedLen() < s.bound {
			s.ch.unregister(s.id, roleSender)
			s.ch.mu.Unlock()
			return nil
		}
		wake := s.ch.register(s.id, roleSender)
		s.ch.mu.Unlock()

		select {
		case <-wake:
		case <-ctx.Done():
			s.ch.mu.Lock()
			s.ch.unregister(s.id, roleSender)
			s.ch.mu.Unlock()
			return ctx.Err()
		}
	}
}

// Subscribe creates a receiver whose view of the channel starts at the
// current position: it observes every value sent after this call and none of
// the history.
func (s *Sender[T]) Subscribe() (*Receiver[T], error) {
	if s.closed {
		return nil, ErrSenderClosed
	}
	return newReceiver(s.ch)
}

// Clone creates an independent sender sharing the same channel and bound,
// and increments the live-sender count.
func (s *Sender[T]) Clone() (*Sender[T], error) {
	if s.closed {
		return nil, ErrSenderClosed
	}
	return newSender(s.ch, s.bound), nil
}

// Close releases the sender and decrements the live-sender count. Once the
// count reaches zero the channel is closed: receivers drain the remaining
// backlog, then observe ErrClosed. Close returns ErrSenderClosed when the
// sender was already closed.
func (s *Sender[T]) Close() error {
	if s.closed {
		return ErrSenderClosed
	}
	s.closed = true

	s.ch.mu.Lock()
	defer s.ch.mu.Unlock()

	s.ch.unregister(s.id, roleSender)
	s.ch.liveSenders--
	if s.ch.liveSenders == 0 {
		// Let suspended receivers observe the closure.
		s.ch.wakeAll(roleReceiver)
	}
	s.ch.releaseIfUnused()
	return nil
}
