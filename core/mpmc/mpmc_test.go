package mpmc_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/synckit/core/mpmc"
)

func TestChannel_SendRecv(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	sender, receiver := mpmc.New[int](2)
	defer receiver.Close()

	receiver2, err := sender.Subscribe()
	require.NoError(t, err)
	defer receiver2.Close()

	require.NoError(t, sender.Send(ctx, 1))
	require.NoError(t, sender.Send(ctx, 2))

	for _, r := range []*mpmc.Receiver[int]{receiver, receiver2} {
		v, err := r.Recv(ctx)
		require.NoError(t, err)
		assert.Equal(t, 1, v)

		v, err = r.Recv(ctx)
		require.NoError(t, err)
		assert.Equal(t, 2, v)
	}

	require.NoError(t, sender.Close())
}

func TestChannel_BoundedBroadcastOrder(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	sender, receiver := mpmc.New[int](2)

	// Second subscriber added before any send observes the full sequence.
	receiver2, err := sender.Subscribe()
	require.NoError(t, err)

	var wg sync.WaitGroup
	for _, r := range []*mpmc.Receiver[int]{receiver, receiver2} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer r.Close()

			for want := 10; want <= 12; want++ {
				v, err := r.Recv(ctx)
				assert.NoError(t, err)
				assert.Equal(t, want, v)
			}
		}()
	}

	require.NoError(t, sender.Send(ctx, 10))
	require.NoError(t, sender.Send(ctx, 11))
	require.NoError(t, sender.Send(ctx, 12))

	wg.Wait()
	require.NoError(t, sender.Close())
}

func TestChannel_UnboundedDrainThenClosed(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	sender, receiver := mpmc.NewUnbounded[int]()
	defer receiver.Close()

	require.NoError(t, sender.Send(ctx, 1))
	require.NoError(t, sender.Send(ctx, 2))
	require.NoError(t, sender.Send(ctx, 3))
	require.NoError(t, sender.Close())

	// The backlog is drained before closure is observed.
	for want := 1; want <= 3; want++ {
		v, err := receiver.Recv(ctx)
		require.NoError(t, err)
		assert.Equal(t, want, v)
	}

	_, err := receiver.Recv(ctx)
	assert.ErrorIs(t, err, mpmc.ErrClosed)
}

func TestChannel_BoundedSendSuspends(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	sender, receiver := mpmc.New[int](1)
	defer receiver.Close()

	require.NoError(t, sender.Send(ctx, 1))

	secondDone := make(chan struct{})
	go func() {
		defer close(secondDone)
		assert.NoError(t, sender.Send(ctx, 2))
	}()

	// The second send must block until a recv frees the single slot.
	select {
	case <-secondDone:
		t.Fatal("send completed before recv freed the slot")
	case <-time.After(50 * time.Millisecond):
	}

	v, err := receiver.Recv(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	select {
	case <-secondDone:
	case <-time.After(5 * time.Second):
		t.Fatal("send did not resume after recv")
	}

	v, err = receiver.Recv(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, v)

	require.NoError(t, sender.Close())
}

func TestChannel_SendDoesNotSuspendBelowBound(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	sender, receiver := mpmc.New[int](3)
	defer receiver.Close()

	// Three sends fit the bound without any receive.
	require.NoError(t, sender.Send(ctx, 1))
	require.NoError(t, sender.Send(ctx, 2))
	require.NoError(t, sender.Send(ctx, 3))
	require.NoError(t, sender.Close())
}

func TestChannel_SubscribeSkipsHistory(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	sender, receiver := mpmc.NewUnbounded[int]()
	defer receiver.Close()

	require.NoError(t, sender.Send(ctx, 1))
	require.NoError(t, sender.Send(ctx, 2))

	late, err := sender.Subscribe()
	require.NoError(t, err)
	defer late.Close()

	require.NoError(t, sender.Send(ctx, 3))
	require.NoError(t, sender.Close())

	// The late subscriber's first value is the one sent after Subscribe.
	v, err := late.Recv(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, v)

	_, err = late.Recv(ctx)
	assert.ErrorIs(t, err, mpmc.ErrClosed)

	// The original receiver still drains the full sequence.
	for want := 1; want <= 3; want++ {
		v, err := receiver.Recv(ctx)
		require.NoError(t, err)
		assert.Equal(t, want, v)
	}
}

func TestChannel_CloneKeepsChannelOpen(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	sender, receiver := mpmc.NewUnbounded[int]()
	defer receiver.Close()

	clone, err := sender.Clone()
	require.NoError(t, err)

	require.NoError(t, sender.Send(ctx, 1))
	require.NoError(t, sender.Close())

	// One live sender remains; the channel must stay open.
	require.NoError(t, clone.Send(ctx, 2))
	require.NoError(t, clone.Close())

	v, err := receiver.Recv(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	v, err = receiver.Recv(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, v)

	_, err = receiver.Recv(ctx)
	assert.ErrorIs(t, err, mpmc.ErrClosed)
}

func TestChannel_RecvBlocksUntilSend(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	sender, receiver := mpmc.NewUnbounded[int]()
	defer receiver.Close()

	got := make(chan int, 1)
	go func() {
		v, err := receiver.Recv(ctx)
		assert.NoError(t, err)
		got <- v
	}()

	time.Sleep(20 * time.Millisecond)
	require.NoError(t, sender.Send(ctx, 42))

	select {
	case v := <-got:
		assert.Equal(t, 42, v)
	case <-time.After(5 * time.Second):
		t.Fatal("recv did not resume after send")
	}

	require.NoError(t, sender.Close())
}

func TestChannel_ContextCancellation(t *testing.T) {
	t.Parallel()

	t.Run("recv", func(t *testing.T) {
		t.Parallel()

		sender, receiver := mpmc.NewUnbounded[int]()
		defer sender.Close()
		defer receiver.Close()

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		_, err := receiver.Recv(ctx)
		assert.ErrorIs(t, err, context.DeadlineExceeded)

		// The channel stays usable after a cancelled wait.
		require.NoError(t, sender.Send(context.Background(), 7))
		v, err := receiver.Recv(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 7, v)
	})

	t.Run("send", func(t *testing.T) {
		t.Parallel()

		sender, receiver := mpmc.New[int](1)
		defer sender.Close()
		defer receiver.Close()

		require.NoError(t, sender.Send(context.Background(), 1))

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		// The bound is reached; the send must give up with the context.
		err := sender.Send(ctx, 2)
		assert.ErrorIs(t, err, context.DeadlineExceeded)

		v, err := receiver.Recv(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 1, v)
	})
}

func TestChannel_ClosedHandles(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	sender, receiver := mpmc.NewUnbounded[int]()

	require.NoError(t, sender.Close())
	assert.ErrorIs(t, sender.Send(ctx, 1), mpmc.ErrSenderClosed)
	assert.ErrorIs(t, sender.Close(), mpmc.ErrSenderClosed)

	_, err := sender.Subscribe()
	assert.ErrorIs(t, err, mpmc.ErrSenderClosed)

	_, err = sender.Clone()
	assert.ErrorIs(t, err, mpmc.ErrSenderClosed)

	require.NoError(t, receiver.Close())
	_, err = receiver.Recv(ctx)
	assert.ErrorIs(t, err, mpmc.ErrReceiverClosed)
	assert.ErrorIs(t, receiver.Close(), mpmc.ErrReceiverClosed)
}

func TestChannel_ManySendersManyReceivers(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	const (
		senders        = 3
		receivers      = 4
		perSender      = 50
		totalPerOutput = senders * perSender
	)

	sender, receiver := mpmc.New[int](5)

	recvs := []*mpmc.Receiver[int]{receiver}
	for range receivers - 1 {
		r, err := sender.Subscribe()
		require.NoError(t, err)
		recvs = append(recvs, r)
	}

	sends := []*mpmc.Sender[int]{sender}
	for range senders - 1 {
		s, err := sender.Clone()
		require.NoError(t, err)
		sends = append(sends, s)
	}

	var wg sync.WaitGroup

	outputs := make([][]int, len(recvs))
	for i, r := range recvs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer r.Close()

			for {
				v, err := r.Recv(ctx)
				if err != nil {
					assert.ErrorIs(t, err, mpmc.ErrClosed)
					return
				}
				outputs[i] = append(outputs[i], v)
			}
		}()
	}

	for si, s := range sends {
		wg.Add(1)
		go func() {
			defer wg.Done()
			defer s.Close()

			for j := range perSender {
				assert.NoError(t, s.Send(ctx, si*perSender+j))
			}
		}()
	}

	wg.Wait()

	// Every receiver sees every value, in one identical global order.
	require.Len(t, outputs[0], totalPerOutput)
	for i := 1; i < len(outputs); i++ {
		assert.Equal(t, outputs[0], outputs[i], "receiver %d diverged from receiver 0", i)
	}
}
