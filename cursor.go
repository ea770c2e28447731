package replaycast

import (
	"context"
	"iter"
	"sync"
	"sync/atomic"
	"weak"

	"github.com/google/uuid"
	"github.com/gordian-engine/replaycast/internal/rcqueue"
)

// Cursor is one subscriber's view of a broadcast,
// returned from [Broadcaster.Subscribe].
//
// A cursor yields a finite, non-restartable sequence:
// the replay snapshot taken when it subscribed,
// then every later value in publish order, then completion.
//
// Next and All must not be called concurrently.
// Cancel may be called from any goroutine.
type Cursor[T any] struct {
	r *rcqueue.Reader[T]

	// Separate from the cursor so that the runtime cleanup
	// can refer to it without keeping the cursor reachable.
	cs *cursorState[T]
}

type cursorState[T any] struct {
	id  uuid.UUID
	ctl weak.Pointer[controller[T]]

	once      sync.Once
	canceled  atomic.Bool
	completed atomic.Bool
}

// ID returns the unique identity assigned when the cursor subscribed.
func (c *Cursor[T]) ID() uuid.UUID {
	return c.cs.id
}

// Next blocks until the next value is available and returns it.
//
// Next returns false once the broadcast has completed for this cursor,
// after [*Cursor.Cancel], or if ctx is canceled
// while nothing is available.
// A canceled ctx cancels the cursor.
func (c *Cursor[T]) Next(ctx context.Context) (T, bool) {
	var zero T
	if c.cs.canceled.Load() {
		return zero, false
	}

	// An available item wins over a done ctx.
	select {
	case <-c.r.Ready():
		// Okay.
	default:
		select {
		case <-ctx.Done():
			c.Cancel()
			return zero, false

		case <-c.r.Ready():
			// Okay.
		}
	}

	if c.cs.canceled.Load() {
		return zero, false
	}

	t, ok := c.r.Pop()
	if !ok {
		c.cs.completed.Store(true)
	}
	return t, ok
}

// Ready returns a channel that is closed once [*Cursor.Next]
// can return without blocking.
// The channel changes after each value is consumed,
// so call Ready again before every select.
func (c *Cursor[T]) Ready() <-chan struct{} {
	return c.r.Ready()
}

// All returns an iterator over the remaining values.
// Stopping the range early, or canceling ctx, cancels the cursor.
func (c *Cursor[T]) All(ctx context.Context) iter.Seq[T] {
	return func(yield func(T) bool) {
		for {
			t, ok := c.Next(ctx)
			if !ok {
				return
			}
			if !yield(t) {
				c.Cancel()
				return
			}
		}
	}
}

// Cancel stops consumption.
//
// The first Cancel on a cursor that has not yet observed completion
// unsubscribes it from the broadcast; every other call has no effect.
// Other subscribers are unaffected.
func (c *Cursor[T]) Cancel() {
	c.cs.cancel()
}

func (cs *cursorState[T]) cancel() {
	cs.once.Do(func() {
		cs.canceled.Store(true)

		if cs.completed.Load() {
			// Normal completion is not a cancellation.
			return
		}

		if ctl := cs.ctl.Value(); ctl != nil {
			ctl.st.unsubscribe(cs.id)
		}
	})
}
