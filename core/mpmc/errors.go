package mpmc

import "errors"

var (
	// ErrClosed is returned by Recv once every sender has been released and
	// the receiver's backlog is drained.
	ErrClosed = errors.New("mpmc: channel closed")

	// ErrSenderClosed is returned by Send, Subscribe, and Clone on a sender
	// that has already been closed. The value passed to Send is never
	// enqueued in this case, so the caller still owns it.
	ErrSenderClosed = errors.New("mpmc: sender closed")

	// ErrReceiverClosed is returned by Recv on a receiver that has already
	// been closed.
	ErrReceiverClosed = errors.New("mpmc: receiver closed")
)
