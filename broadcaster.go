package replaycast

import (
	"context"
	"log/slog"
	"runtime"
	"weak"

	"github.com/gordian-engine/replaycast/internal/rcqueue"
	"github.com/gordian-engine/replaycast/rcreplay"
)

// Config is the configuration passed to [New] and [NewSubject].
type Config struct {
	// How much history is replayed to subscribers
	// that join after values have been published.
	// The zero value replays nothing.
	Replay rcreplay.Policy
}

// Broadcaster fans a single stream of values out to any number of subscribers.
//
// Every subscriber observes the replay history current at the instant it subscribed,
// then every value published afterwards, then completion.
// Subscribers consume independently:
// a slow subscriber never slows publication or any other subscriber.
//
// Broadcaster is a handle; copies refer to the same broadcast.
// When no Broadcaster or [Injector] for a broadcast remains reachable,
// the broadcast is released: its ingestion stops
// and any outstanding subscribers observe completion.
type Broadcaster[T any] struct {
	c *controller[T]
}

// New starts a broadcast of the values pulled from p.
//
// Ingestion starts immediately on a new goroutine,
// so values may be published, and pruned according to cfg.Replay,
// before anyone subscribes.
//
// When p returns an error, including [io.EOF],
// or when ctx is canceled, the broadcast finishes.
// Subscribers cannot distinguish those cases.
func New[T any](
	ctx context.Context,
	log *slog.Logger,
	cfg Config,
	p Producer[T],
) Broadcaster[T] {
	c := newController[T](log, cfg.Replay)

	ctx, cancel := context.WithCancelCause(ctx)
	c.st.stopIngest = cancel

	go runIngest(ctx, log, weak.Make(c), p, cancel)

	return Broadcaster[T]{c: c}
}

// Subscribe returns a new, independent [Cursor] over the broadcast.
//
// Subscribe never fails.
// Subscribing after the broadcast has finished
// returns a cursor that yields the final replay snapshot and then completes.
func (b Broadcaster[T]) Subscribe() *Cursor[T] {
	q, r := rcqueue.New[T]()
	id, _ := b.c.st.subscribe(q)

	cs := &cursorState[T]{
		id:  id,
		ctl: weak.Make(b.c),
	}
	cur := &Cursor[T]{r: r, cs: cs}

	// A cursor dropped without being canceled or drained
	// still has to leave the registry.
	runtime.AddCleanup(cur, (*cursorState[T]).cancel, cs)

	return cur
}

// Replay returns the replay policy b was configured with.
func (b Broadcaster[T]) Replay() rcreplay.Policy {
	return b.c.st.replay
}

// Finished returns a channel that is closed once the broadcast has finished.
func (b Broadcaster[T]) Finished() <-chan struct{} {
	return b.c.st.finished
}

// SubscriberCount reports the number of currently registered subscribers.
// It is always zero once the broadcast has finished.
func (b Broadcaster[T]) SubscriberCount() int {
	return b.c.st.subscriberCount()
}
