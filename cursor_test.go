package replaycast_test

import (
	"context"
	"testing"

	"github.com/gordian-engine/replaycast/internal/rctest"
	"github.com/gordian-engine/replaycast/rcreplay"
	"github.com/stretchr/testify/require"
)

func TestCursor_Cancel_idempotent(t *testing.T) {
	t.Parallel()

	b, inj := newSubject[int](t, rcreplay.None())

	gone := b.Subscribe()
	kept := b.Subscribe()
	require.Equal(t, 2, b.SubscriberCount())
	require.NotEqual(t, gone.ID(), kept.ID())

	gone.Cancel()
	require.Equal(t, 1, b.SubscriberCount())

	gone.Cancel()
	require.Equal(t, 1, b.SubscriberCount())

	inj.Publish(1)
	inj.Finish()

	_, ok := gone.Next(context.Background())
	require.False(t, ok)

	require.Equal(t, []int{1}, collect(t, kept))
}

func TestCursor_Next_afterCancelIgnoresPending(t *testing.T) {
	t.Parallel()

	b, inj := newSubject[int](t, rcreplay.None())
	c := b.Subscribe()

	inj.Publish(1)
	inj.Publish(2)

	v, ok := c.Next(context.Background())
	require.True(t, ok)
	require.Equal(t, 1, v)

	c.Cancel()

	_, ok = c.Next(context.Background())
	require.False(t, ok)
}

func TestCursor_Next_contextCanceled(t *testing.T) {
	t.Parallel()

	b, inj := newSubject[int](t, rcreplay.None())
	c := b.Subscribe()
	other := b.Subscribe()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan bool, 1)
	go func() {
		_, ok := c.Next(ctx)
		done <- ok
	}()

	rctest.NotSending(t, done)
	cancel()
	require.False(t, rctest.ReceiveSoon(t, done))

	// The canceled cursor left the broadcast; the other one did not.
	require.Equal(t, 1, b.SubscriberCount())

	inj.Publish(5)
	inj.Finish()
	require.Equal(t, []int{5}, collect(t, other))
}

func TestCursor_Next_queuedValueBeatsDoneContext(t *testing.T) {
	t.Parallel()

	b, inj := newSubject[int](t, rcreplay.None())
	c := b.Subscribe()

	inj.Publish(7)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	// Repeat so a random select choice would show up.
	for range 100 {
		v, ok := c.Next(ctx)
		require.True(t, ok)
		require.Equal(t, 7, v)

		inj.Publish(7)
	}
	require.Equal(t, 1, b.SubscriberCount())

	// Drain the last publish; with nothing queued, the done ctx cancels the cursor.
	_, ok := c.Next(ctx)
	require.True(t, ok)

	v, ok := c.Next(ctx)
	require.False(t, ok)
	require.Zero(t, v)
	require.Zero(t, b.SubscriberCount())
}

func TestCursor_All_breakCancels(t *testing.T) {
	t.Parallel()

	b, inj := newSubject[int](t, rcreplay.None())
	c := b.Subscribe()

	for i := range 5 {
		inj.Publish(i)
	}

	var got []int
	for v := range c.All(context.Background()) {
		got = append(got, v)
		if v == 2 {
			break
		}
	}

	require.Equal(t, []int{0, 1, 2}, got)
	require.Zero(t, b.SubscriberCount())

	// Further publishes are not delivered, and the cursor stays done.
	inj.Publish(5)
	_, ok := c.Next(context.Background())
	require.False(t, ok)
}

func TestCursor_Cancel_afterCompletion(t *testing.T) {
	t.Parallel()

	b, inj := newSubject[int](t, rcreplay.Unbounded())
	c := b.Subscribe()

	inj.Publish(1)
	inj.Finish()

	require.Equal(t, []int{1}, collect(t, c))

	// Normal completion already happened; cancel is a no-op.
	c.Cancel()
	require.Zero(t, b.SubscriberCount())
}

func TestCursor_Cancel_fromOtherGoroutine(t *testing.T) {
	t.Parallel()

	b, _ := newSubject[int](t, rcreplay.None())
	c := b.Subscribe()

	done := make(chan bool, 1)
	go func() {
		_, ok := c.Next(context.Background())
		done <- ok
	}()

	rctest.NotSending(t, done)
	c.Cancel()

	require.False(t, rctest.ReceiveSoon(t, done))
	require.Zero(t, b.SubscriberCount())
}

func TestCursor_Ready(t *testing.T) {
	t.Parallel()

	b, inj := newSubject[int](t, rcreplay.None())
	c := b.Subscribe()

	rctest.NotSending(t, c.Ready())

	inj.Publish(1)
	rctest.IsSending(t, c.Ready())

	v, ok := c.Next(context.Background())
	require.True(t, ok)
	require.Equal(t, 1, v)

	rctest.NotSending(t, c.Ready())

	inj.Finish()
	rctest.IsSending(t, c.Ready())
}
