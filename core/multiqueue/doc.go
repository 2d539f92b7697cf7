// Package multiqueue provides a forkable FIFO queue that lets many independent
// consumers observe the same sequence of pushed items without copying storage.
//
// A MultiQueue value is a handle (a read cursor) into a shared chain of nodes.
// Calling Fork creates a new handle synchronized at the parent's current
// position; every handle then drains the chain at its own pace. Each node
// carries a reader count, the number of handles that have not yet advanced
// past it, and is unlinked from the chain once that count reaches zero, so
// memory is bounded by the slowest consumer.
//
// # Basic Usage
//
//	q := multiqueue.New[int]()
//	defer q.Close()
//
//	fork, err := q.Fork()
//	if err != nil {
//		return err
//	}
//	defer fork.Close()
//
//	q.Push(1)
//	q.Push(2)
//
//	v, ok := q.Front() // 1, true
//	q.PopFront()
//
//	// The fork observes the full sequence independently.
//	v, ok = fork.Front() // 1, true
//
// # Concurrency
//
// Every operation takes the shared core lock for its duration, so concurrent
// calls from different handles are safe. Concurrent calls against the same
// handle from multiple goroutines are not supported; the caller must
// serialize them.
//
// # Handle Release
//
// Close drains the handle's remaining claims and decrements the core's live
// handle count. Operations on a released handle degrade to safe defaults for
// reads (zero value, empty, length 0) with a logged warning, and return
// ErrHandleReleased for anything that would otherwise lose data.
package multiqueue
