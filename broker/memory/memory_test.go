package memory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/x4b1/mqbackup"
	"github.com/x4b1/mqbackup/broker/memory"
)

func TestBroker(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("fetch from unknown queue", func(t *testing.T) {
		t.Parallel()

		_, err := memory.New().Fetch(ctx, "orders")
		require.ErrorIs(t, err, mqbackup.ErrQueueNotFound)
	})

	t.Run("fetch keeps message in flight until ack", func(t *testing.T) {
		t.Parallel()
		r := require.New(t)

		b := memory.New()
		b.Put("orders", []byte("1"), mqbackup.Properties{"k": "v"})

		d, err := b.Fetch(ctx, "orders")
		r.NoError(err)
		r.Equal([]byte("1"), d.Body)
		r.Equal(mqbackup.Properties{"k": "v"}, d.Properties)
		r.Equal(1, b.InFlight("orders"))

		_, err = b.Fetch(ctx, "orders")
		r.ErrorIs(err, mqbackup.ErrQueueEmpty)

		r.NoError(b.Ack(ctx, d))
		r.Zero(b.InFlight("orders"))
		r.Error(b.Ack(ctx, d))
	})

	t.Run("requeue keeps order", func(t *testing.T) {
		t.Parallel()
		r := require.New(t)

		b := memory.New()
		for _, body := range []string{"1", "2", "3"} {
			b.Put("orders", []byte(body), nil)
		}
		_, err := b.Fetch(ctx, "orders")
		r.NoError(err)
		_, err = b.Fetch(ctx, "orders")
		r.NoError(err)

		b.Requeue()
		r.Equal([][]byte{[]byte("1"), []byte("2"), []byte("3")}, b.Bodies("orders"))
	})

	t.Run("malformed message", func(t *testing.T) {
		t.Parallel()

		b := memory.New()
		b.PutMalformed("orders", []byte("??"))

		_, err := b.Fetch(ctx, "orders")
		var decodeErr *mqbackup.DecodeError
		require.ErrorAs(t, err, &decodeErr)
		require.ErrorIs(t, err, memory.ErrMalformed)
	})

	t.Run("declare", func(t *testing.T) {
		t.Parallel()
		r := require.New(t)

		b := memory.New()
		r.ErrorIs(b.Publish(ctx, "orders", []byte("1"), nil), mqbackup.ErrQueueNotFound)

		r.NoError(b.Declare(ctx, "orders", mqbackup.QueueOptions{Durable: true}))
		r.NoError(b.Declare(ctx, "orders", mqbackup.QueueOptions{Durable: true}))
		r.ErrorIs(b.Declare(ctx, "orders", mqbackup.QueueOptions{}), mqbackup.ErrQueueMismatch)

		r.NoError(b.Publish(ctx, "orders", []byte("1"), nil))
		r.Equal([][]byte{[]byte("1")}, b.Bodies("orders"))
	})

	t.Run("publish hook", func(t *testing.T) {
		t.Parallel()

		errHook := errors.New("hook")
		b := memory.New()
		b.PublishHook = func(string, []byte) error { return errHook }
		require.NoError(t, b.Declare(ctx, "orders", mqbackup.DefaultQueueOptions()))

		require.ErrorIs(t, b.Publish(ctx, "orders", []byte("1"), nil), errHook)
		require.Empty(t, b.Messages("orders"))
	})

	t.Run("closed", func(t *testing.T) {
		t.Parallel()

		b := memory.New()
		require.NoError(t, b.Close())
		require.ErrorIs(t, b.Declare(ctx, "orders", mqbackup.QueueOptions{}), mqbackup.ErrClosed)
	})

	t.Run("queues", func(t *testing.T) {
		t.Parallel()

		b := memory.New()
		b.Put("b", []byte("1"), nil)
		require.NoError(t, b.Declare(ctx, "a", mqbackup.DefaultQueueOptions()))

		queues, err := b.Queues(ctx)
		require.NoError(t, err)
		require.Equal(t, []string{"a", "b"}, queues)
	})
}
