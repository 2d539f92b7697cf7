// Package mpmc provides a multi-producer, multi-consumer broadcast channel.
//
// Every value sent by any Sender is delivered to every current Receiver, in
// one global send order. The channel stores each value once, in a shared
// forkable queue ([multiqueue.MultiQueue]); each receiver drains its own fork
// of that queue, so no value is copied per receiver and memory is reclaimed
// once every receiver has read a value.
//
// Two flavors exist: a bounded channel, which limits the number of values
// not yet read by all receivers and suspends senders at the limit, and an
// unbounded channel. Unlike most asynchronous channels, a bounded send does
// not fail when the channel is full; it waits until receivers catch up.
//
// # Basic Usage
//
//	sender, receiver := mpmc.New[int](2)
//	receiver2, _ := sender.Subscribe()
//
//	go func() {
//		for {
//			v, err := receiver.Recv(ctx)
//			if err != nil {
//				return // closed or ctx cancelled
//			}
//			use(v)
//		}
//	}()
//
//	sender.Send(ctx, 10)
//	sender.Send(ctx, 11)
//	sender.Close() // receivers drain the backlog, then observe mpmc.ErrClosed
//
// # Subscribing
//
// Sender.Subscribe forks the backlog at its current position: a new receiver
// observes only values sent after the call, never history. All receivers see
// the same order; a late subscriber sees a suffix of it.
//
// # Closing
//
// Sender.Clone increments the live-sender count and Sender.Close decrements
// it. Once the count reaches zero the channel is closed permanently:
// receivers drain whatever is already buffered and then Recv returns
// ErrClosed.
//
// # Cancellation
//
// No timeout is built in. Send and Recv take a context; callers compose
// deadlines and cancellation around them the usual way.
package mpmc
