package multiqueue

import "errors"

var (
	// ErrHandleReleased is returned by mutating operations on a handle that
	// has already been closed. The value passed to Push is never enqueued in
	// this case, so the caller still owns it.
	ErrHandleReleased = errors.New("multiqueue: handle released")
)
