package rcqueue_test

import (
	"testing"

	"github.com/gordian-engine/replaycast/internal/rcqueue"
	"github.com/gordian-engine/replaycast/internal/rctest"
	"github.com/stretchr/testify/require"
)

func TestQueue_pushThenPop(t *testing.T) {
	t.Parallel()

	q, r := rcqueue.New[int]()
	rctest.NotSending(t, r.Ready())

	q.Push(1)
	q.Push(2)

	rctest.IsSending(t, r.Ready())
	v, ok := r.Pop()
	require.True(t, ok)
	require.Equal(t, 1, v)

	rctest.IsSending(t, r.Ready())
	v, ok = r.Pop()
	require.True(t, ok)
	require.Equal(t, 2, v)

	rctest.NotSending(t, r.Ready())
}

func TestQueue_finish(t *testing.T) {
	t.Parallel()

	q, r := rcqueue.New[string]()
	q.Push("a")
	q.Finish()

	// Second finish is absorbed.
	q.Finish()

	// Pushes after finish are dropped.
	q.Push("b")

	v, ok := r.Pop()
	require.True(t, ok)
	require.Equal(t, "a", v)

	rctest.IsSending(t, r.Ready())
	_, ok = r.Pop()
	require.False(t, ok)

	// Completion is sticky.
	rctest.IsSending(t, r.Ready())
	_, ok = r.Pop()
	require.False(t, ok)
}

func TestReader_TryPop(t *testing.T) {
	t.Parallel()

	q, r := rcqueue.New[int]()

	_, available, _ := r.TryPop()
	require.False(t, available)

	q.Push(5)
	v, available, ok := r.TryPop()
	require.True(t, available)
	require.True(t, ok)
	require.Equal(t, 5, v)

	q.Finish()
	_, available, ok = r.TryPop()
	require.True(t, available)
	require.False(t, ok)
}

func TestReader_observesPushFromOtherGoroutine(t *testing.T) {
	t.Parallel()

	q, r := rcqueue.New[int]()

	go func() {
		for i := range 100 {
			q.Push(i)
		}
		q.Finish()
	}()

	var got []int
	for {
		rctest.ReceiveSoon(t, r.Ready())
		v, ok := r.Pop()
		if !ok {
			break
		}
		got = append(got, v)
	}

	require.Len(t, got, 100)
	for i, v := range got {
		require.Equal(t, i, v)
	}
}
