// Package rcqueue contains the per-subscriber delivery queue.
//
// A queue is a linked list of event-driven nodes,
// in the same shape as a single-writer pubsub stream:
// the writer fills in the tail node and closes its ready channel,
// and the single reader follows the list at its own pace.
// Pushing never blocks and the queue has no capacity limit.
package rcqueue

type node[T any] struct {
	ready chan struct{}
	next  *node[T]
	val   T

	// Set on the terminal node.
	final bool
}

func newNode[T any]() *node[T] {
	return &node[T]{ready: make(chan struct{})}
}

// Queue is the writer side of a delivery queue.
//
// Queue methods must be serialized by the caller;
// the broadcast controller only calls them while holding its lock.
type Queue[T any] struct {
	tail     *node[T]
	finished bool
}

// Reader is the reader side of a delivery queue.
//
// Reader is intended for a single consumer.
// Nodes the reader has moved past become garbage,
// but a reader that stops consuming retains every later node,
// so an abandoned reader must be paired with removal from the writer.
type Reader[T any] struct {
	head *node[T]
}

// New returns the two ends of a new, empty queue.
func New[T any]() (*Queue[T], *Reader[T]) {
	n := newNode[T]()
	return &Queue[T]{tail: n}, &Reader[T]{head: n}
}

// Push appends t to the queue.
// Push after [*Queue.Finish] is a no-op.
func (q *Queue[T]) Push(t T) {
	if q.finished {
		return
	}

	n := q.tail
	n.val = t
	n.next = newNode[T]()
	q.tail = n.next
	close(n.ready)
}

// Finish appends the completion marker.
// Subsequent calls have no effect.
func (q *Queue[T]) Finish() {
	if q.finished {
		return
	}

	q.finished = true
	q.tail.final = true
	close(q.tail.ready)
}

// Ready returns a channel that is closed once
// the reader's next item (a value or completion) is available.
func (r *Reader[T]) Ready() <-chan struct{} {
	return r.head.ready
}

// Pop consumes the next item.
// It must only be called after the channel from [*Reader.Ready] is closed.
//
// Pop returns false once the completion marker is reached;
// the reader stays at the marker, so every later Pop also returns false.
func (r *Reader[T]) Pop() (T, bool) {
	n := r.head
	if n.final {
		var zero T
		return zero, false
	}

	r.head = n.next
	return n.val, true
}

// TryPop consumes the next item if one is available without blocking.
// The second result reports whether an item was available,
// and the third whether that item was a value rather than completion.
func (r *Reader[T]) TryPop() (t T, available, ok bool) {
	select {
	case <-r.head.ready:
		t, ok = r.Pop()
		return t, true, ok
	default:
		return t, false, false
	}
}
