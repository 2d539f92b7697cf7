package mpmc

import (
	"sync"

	"github.com/google/uuid"

	"github.com/dmitrymomot/synckit/core/multiqueue"
)

// role selects which side's resume tokens an operation touches.
type role int

const (
	roleSender role = iota
	roleReceiver
)

// channel is the shared state behind one broadcast channel: the backlog
// queue, the resume tokens of suspended senders and receivers, and the
// live-sender count.
//
// Suspension is keyed per role and per instance id. A wake is a best-effort,
// over-inclusive non-blocking signal on every registered token; waiters must
// re-check their condition after waking, and spurious wakes are expected.
type channel[T any] struct {
	mu sync.Mutex

	// backlog is the base handle shared by all senders. Senders push through
	// it and immediately drain their view, so it holds no reclamation
	// claims; receivers each own a fork of it.
	backlog *multiqueue.MultiQueue[T]

	senders   map[uuid.UUID]chan struct{}
	receivers map[uuid.UUID]chan struct{}

	liveSenders   int
	liveReceivers int
	released      bool
}

func newChannel[T any]() *channel[T] {
	return &channel[T]{
		backlog:   multiqueue.New[T](),
		senders:   make(map[uuid.UUID]chan struct{}),
		receivers: make(map[uuid.UUID]chan struct{}),
	}
}

func (c *channel[T]) table(r role) map[uuid.UUID]chan struct{} {
	if r == roleSender {
		return c.senders
	}
	return c.receivers
}

// register returns the resume token for id, creating it if needed.
// Caller must hold mu.
func (c *channel[T]) register(id uuid.UUID, r role) chan struct{} {
	table := c.table(r)
	wake, ok := table[id]
	if !ok {
		wake = make(chan struct{}, 1)
		table[id] = wake
	}
	return wake
}

// unregister drops the resume token for id. Caller must hold mu.
func (c *channel[T]) unregister(id uuid.UUID, r role) {
	delete(c.table(r), id)
}

// wakeAll nudges every suspended party of the given role. The signal is
// non-blocking and coalesced; waiters re-check their condition anyway.
// Caller must hold mu.
func (c *channel[T]) wakeAll(r role) {
	for _, wake := range c.table(r) {
		select {
		case wake <- struct{}{}:
		default:
		}
	}
}

// releaseIfUnused closes the backlog's base handle once no sender or
// receiver references the channel anymore. Caller must hold mu.
func (c *channel[T]) releaseIfUnused() {
	if c.released || c.liveSenders > 0 || c.liveReceivers > 0 {
		return
	}
	c.released = true
	_ = c.backlog.Close()
}
