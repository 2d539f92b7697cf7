// Package latch provides a resettable signal for coordinating goroutines: one
// side waits, another signals, and an optional auto-reset mode consumes the
// signal on wakeup so every signal releases exactly one wait.
//
// A latch also carries a separate stop flag, so a worker loop can be told both
// "wake up" and "shut down" through the same object.
package latch

import (
	"sync"
	"time"
)

// Latch is a resettable signal shared between goroutines. All methods are
// safe for concurrent use.
type Latch struct {
	mu        sync.Mutex
	set       bool
	stopped   bool
	autoReset bool

	// wake is closed when the signal is raised and replaced on reset, so
	// waiters blocked on an old channel always observe the signal that closed
	// it.
	wake chan struct{}
}

// New creates an unsignaled latch. With autoReset, each completed wait
// consumes the signal; otherwise the latch stays signaled until Reset.
func New(autoReset bool) *Latch {
	return &Latch{
		autoReset: autoReset,
		wake:      make(chan struct{}),
	}
}

// Wait blocks until the latch is signaled.
func (l *Latch) Wait() {
	for {
		l.mu.Lock()
		if l.consumeLocked() {
			l.mu.Unlock()
			return
		}
		wake := l.wake
		l.mu.Unlock()

		<-wake
	}
}

// WaitTimeout blocks until the latch is signaled or the timeout elapses. It
// reports whether the signal arrived in time.
func (l *Latch) WaitTimeout(timeout time.Duration) bool {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	for {
		l.mu.Lock()
		if l.consumeLocked() {
			l.mu.Unlock()
			return true
		}
		wake := l.wake
		l.mu.Unlock()

		select {
		case <-wake:
		case <-timer.C:
			return false
		}
	}
}

// consumeLocked reports whether the signal is raised, clearing it first in
// auto-reset mode. Caller must hold mu.
func (l *Latch) consumeLocked() bool {
	if !l.set {
		return false
	}
	if l.autoReset {
		l.set = false
		l.wake = make(chan struct{})
	}
	return true
}

// Signal raises the latch, releasing waiters. Signaling an already-signaled
// latch is a no-op.
func (l *Latch) Signal() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.set {
		l.set = true
		close(l.wake)
	}
}

// Reset lowers the signal without waking anyone.
func (l *Latch) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.set {
		l.set = false
		l.wake = make(chan struct{})
	}
}

// Stop marks the latch as stopped and raises the signal so blocked waiters
// wake up and can observe Stopped.
func (l *Latch) Stop() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.stopped = true
	if !l.set {
		l.set = true
		close(l.wake)
	}
}

// Stopped reports whether Stop was called.
func (l *Latch) Stopped() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.stopped
}
