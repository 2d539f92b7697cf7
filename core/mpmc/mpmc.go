package mpmc

// New creates a bounded broadcast channel and returns its first sender and
// receiver. The bound is the maximum number of values not yet read by all
// receivers; senders suspend once it is reached and resume as receivers
// catch up.
//
// New panics when bound is less than 1; use NewUnbounded for a channel
// without a capacity limit.
func New[T any](bound int) (*Sender[T], *Receiver[T]) {
	if bound < 1 {
		panic("mpmc: bound must be at least 1")
	}
	return newPair[T](bound)
}

// NewUnbounded creates a broadcast channel without a capacity limit: Send
// never suspends, and memory grows with the slowest receiver's lag.
func NewUnbounded[T any]() (*Sender[T], *Receiver[T]) {
	return newPair[T](0)
}

func newPair[T any](bound int) (*Sender[T], *Receiver[T]) {
	ch := newChannel[T]()
	sender := newSender(ch, bound)

	// The fork cannot fail here: the backlog handle was created above and
	// nothing has released it yet.
	receiver, err := newReceiver(ch)
	if err != nil {
		panic("mpmc: " + err.Error())
	}

	return sender, receiver
}
