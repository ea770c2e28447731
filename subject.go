package replaycast

import "log/slog"

// Injector is the manual publishing side of a broadcast
// created with [NewSubject].
//
// Both methods always succeed.
// Values published after [Injector.Finish] are dropped.
type Injector[T any] struct {
	c *controller[T]
}

// NewSubject returns a broadcast with no upstream producer,
// paired with the [Injector] that feeds it.
//
// Driving the Injector is equivalent to calling [New]
// with a producer that yields exactly the published values, in call order.
func NewSubject[T any](log *slog.Logger, cfg Config) (Broadcaster[T], Injector[T]) {
	c := newController[T](log, cfg.Replay)
	return Broadcaster[T]{c: c}, Injector[T]{c: c}
}

// Publish delivers t to every current subscriber
// and records it in the replay history.
func (i Injector[T]) Publish(t T) {
	i.c.st.publish(t)
}

// Finish completes the broadcast.
// Current subscribers observe completion after any values already delivered,
// and later subscribers receive only the final replay snapshot.
func (i Injector[T]) Finish() {
	_ = i.c.st.finish()
}
