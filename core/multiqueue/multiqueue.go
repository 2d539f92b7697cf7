package multiqueue

import (
	"io"
	"iter"
	"log/slog"
	"sync"
)

// node is a single link in the shared chain. The readers field counts the
// handles that have not yet advanced past this node; the node is unlinked
// from the chain once it reaches zero.
type node[T any] struct {
	next    *node[T]
	seq     uint64
	value   T
	readers int
}

// core is the state shared by all handles of one queue: the node chain, the
// sequence counter used to address nodes, and the live handle count. A single
// mutex guards it for the duration of each operation.
type core[T any] struct {
	mu      sync.Mutex
	head    *node[T]
	tail    *node[T]
	nextSeq uint64
	handles int
}

// pushBack appends a value. The new node starts with one claim per live
// handle: every current handle still has to advance past it.
// Caller must hold mu.
func (c *core[T]) pushBack(v T) {
	n := &node[T]{seq: c.nextSeq, value: v, readers: c.handles}
	c.nextSeq++
	if c.head == nil {
		c.head = n
		c.tail = n
		return
	}
	c.tail.next = n
	c.tail = n
}

// find returns the first node with a sequence number at or after seq, or nil.
// Caller must hold mu.
func (c *core[T]) find(seq uint64) *node[T] {
	n := c.head
	for n != nil && n.seq < seq {
		n = n.next
	}
	return n
}

// reclaim unlinks fully-consumed nodes from the front of the chain.
//
// Each handle claims the contiguous suffix of nodes it has not read yet, so
// reader counts are non-decreasing along the chain and a zero-count node can
// only appear at the front. Caller must hold mu.
func (c *core[T]) reclaim() {
	for c.head != nil && c.head.readers == 0 {
		n := c.head
		c.head = n.next
		n.next = nil
		if c.head == nil {
			c.tail = nil
		}
	}
}

// len returns the number of nodes still pending for at least one handle.
// Caller must hold mu.
func (c *core[T]) len() int {
	count := 0
	for n := c.head; n != nil; n = n.next {
		count++
	}
	return count
}

// MultiQueue is a handle into a shared forkable queue. A handle tracks its
// own read position; all handles created from the same queue (via Fork)
// observe the full sequence of pushed items in push order.
//
// A handle is not safe for concurrent use by multiple goroutines. Distinct
// handles sharing one queue are safe to use concurrently.
type MultiQueue[T any] struct {
	core    *core[T]
	nextSeq uint64 // sequence number of the next item this handle reads
	closed  bool
	logger  *slog.Logger
}

// Option configures a queue at construction time.
type Option func(*options)

type options struct {
	logger *slog.Logger
}

// WithLogger configures structured logging for the queue. The logger is
// inherited by forked handles. Logging is disabled by default.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// New creates an empty queue and returns its first handle.
func New[T any](opts ...Option) *MultiQueue[T] {
	o := &options{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(o)
	}

	return &MultiQueue[T]{
		core:   &core[T]{handles: 1},
		logger: o.logger,
	}
}

// Push appends a value to the back of the queue. The value becomes visible
// to this handle and to every existing fork that has not yet advanced past
// the tail.
//
// Push returns ErrHandleReleased when called on a closed handle; the value is
// not enqueued and the caller keeps ownership of it.
func (q *MultiQueue[T]) Push(v T) error {
	if q.closed {
		return ErrHandleReleased
	}

	q.core.mu.Lock()
	defer q.core.mu.Unlock()

	q.core.pushBack(v)
	return nil
}

// Fork creates a new handle sharing the same chain, synchronized at this
// handle's current position. The fork claims every node this handle has not
// read yet, atomically under the core lock, so either a fully-initialized
// handle is returned or no state changes at all.
func (q *MultiQueue[T]) Fork() (*MultiQueue[T], error) {
	if q.closed {
		return nil, ErrHandleReleased
	}

	q.core.mu.Lock()
	defer q.core.mu.Unlock()

	q.core.handles++
	for n := q.core.find(q.nextSeq); n != nil; n = n.next {
		n.readers++
	}

	return &MultiQueue[T]{
		core:    q.core,
		nextSeq: q.nextSeq,
		logger:  q.logger,
	}, nil
}

// Front returns the value at the handle's current position without advancing.
// The second return value is false when the handle has no pending items.
func (q *MultiQueue[T]) Front() (T, bool) {
	var zero T
	if q.closed {
		q.logger.Warn("multiqueue: front called on released handle")
		return zero, false
	}

	q.core.mu.Lock()
	defer q.core.mu.Unlock()

	n := q.core.find(q.nextSeq)
	if n == nil {
		return zero, false
	}
	return n.value, true
}

// FrontMut invokes fn with a pointer to the value at the handle's current
// position, without advancing. It returns false when there is no pending
// item or the handle is released. The mutation is visible to every handle
// that has not yet consumed the item.
//
// fn runs while the core lock is held and must not call back into the queue.
func (q *MultiQueue[T]) FrontMut(fn func(*T)) bool {
	if fn == nil {
		return false
	}
	if q.closed {
		q.logger.Warn("multiqueue: front-mut called on released handle")
		return false
	}

	q.core.mu.Lock()
	defer q.core.mu.Unlock()

	n := q.core.find(q.nextSeq)
	if n == nil {
		return false
	}
	fn(&n.value)
	return true
}

// PopFront advances the handle past its current front item, releasing this
// handle's claim on it. It does nothing when the handle has no pending items.
func (q *MultiQueue[T]) PopFront() {
	if q.closed {
		q.logger.Warn("multiqueue: pop-front called on released handle")
		return
	}

	q.core.mu.Lock()
	defer q.core.mu.Unlock()

	n := q.core.find(q.nextSeq)
	if n == nil {
		return
	}
	n.readers--
	q.nextSeq = n.seq + 1
	q.core.reclaim()
}

// PopAll advances the handle to the end of the queue, releasing all of its
// remaining claims in one pass.
func (q *MultiQueue[T]) PopAll() {
	if q.closed {
		q.logger.Warn("multiqueue: pop-all called on released handle")
		return
	}

	q.core.mu.Lock()
	defer q.core.mu.Unlock()

	q.popAllLocked()
}

// popAllLocked releases every remaining claim and moves the handle's cursor
// past the current tail. Caller must hold the core lock.
func (q *MultiQueue[T]) popAllLocked() {
	for n := q.core.find(q.nextSeq); n != nil; n = n.next {
		n.readers--
	}
	q.nextSeq = q.core.nextSeq
	q.core.reclaim()
}

// Len returns the number of items still pending for this handle.
func (q *MultiQueue[T]) Len() int {
	if q.closed {
		q.logger.Warn("multiqueue: len called on released handle")
		return 0
	}

	q.core.mu.Lock()
	defer q.core.mu.Unlock()

	count := 0
	for n := q.core.find(q.nextSeq); n != nil; n = n.next {
		count++
	}
	return count
}

// SharedLen returns the number of items still pending for at least one
// handle of the shared queue.
func (q *MultiQueue[T]) SharedLen() int {
	if q.closed {
		q.logger.Warn("multiqueue: shared-len called on released handle")
		return 0
	}

	q.core.mu.Lock()
	defer q.core.mu.Unlock()

	return q.core.len()
}

// Empty reports whether this handle has no pending items.
func (q *MultiQueue[T]) Empty() bool {
	if q.closed {
		q.logger.Warn("multiqueue: empty called on released handle")
		return true
	}

	q.core.mu.Lock()
	defer q.core.mu.Unlock()

	return q.core.find(q.nextSeq) == nil
}

// References returns the number of live handles sharing this queue's core.
func (q *MultiQueue[T]) References() int {
	q.core.mu.Lock()
	defer q.core.mu.Unlock()

	return q.core.handles
}

// All returns a lazy iterator over the items pending for this handle, from
// its current position to the tail. Iteration does not advance the handle
// and may be restarted by calling All again.
//
// The core lock is taken per step, never held across a yield, so other
// handles can push and pop while iteration is in progress. Items pushed
// after iteration reaches the tail are not visited.
func (q *MultiQueue[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		if q.closed {
			q.logger.Warn("multiqueue: iteration on released handle")
			return
		}

		q.core.mu.Lock()
		n := q.core.find(q.nextSeq)
		var v T
		ok := n != nil
		if ok {
			v = n.value
		}
		q.core.mu.Unlock()

		for ok {
			if !yield(v) {
				return
			}
			q.core.mu.Lock()
			n = n.next
			ok = n != nil
			if ok {
				v = n.value
			}
			q.core.mu.Unlock()
		}
	}
}

// Close releases the handle: it drains the handle's remaining claims and
// decrements the core's live handle count, exactly once. Items still needed
// by other handles stay in the chain. Close returns ErrHandleReleased when
// the handle was already closed.
func (q *MultiQueue[T]) Close() error {
	if q.closed {
		return ErrHandleReleased
	}

	q.core.mu.Lock()
	q.popAllLocked()
	q.core.handles--
	q.core.mu.Unlock()

	q.closed = true
	return nil
}
