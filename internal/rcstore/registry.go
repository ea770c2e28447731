// Package rcstore contains the subscriber registry of a live broadcast:
// the replay history plus the ordered set of subscriber queues.
//
// Nothing in this package is safe for concurrent use.
// The broadcast controller owns one [Registry]
// and calls into it only from its critical section.
package rcstore

import (
	"container/list"

	"github.com/google/uuid"
	"github.com/gordian-engine/replaycast/internal/rcqueue"
	"github.com/gordian-engine/replaycast/rcreplay"
)

// Registry holds the replay buffer and the subscriber queues
// of a broadcast that has not yet finished.
//
// Subscribers are kept in registration order,
// which is the order values are delivered to them.
type Registry[T any] struct {
	replay *rcreplay.Buffer[T]

	// Insertion-ordered map: the list holds *entry values in order,
	// and byID indexes into the list for constant-time removal.
	order *list.List
	byID  map[uuid.UUID]*list.Element
}

type entry[T any] struct {
	ID uuid.UUID
	Q  *rcqueue.Queue[T]
}

// New returns an empty registry whose history is governed by p.
func New[T any](p rcreplay.Policy) *Registry[T] {
	return &Registry[T]{
		replay: rcreplay.NewBuffer[T](p),

		order: list.New(),
		byID:  make(map[uuid.UUID]*list.Element),
	}
}

// Remember appends t to the replay history and trims it.
func (r *Registry[T]) Remember(t T) {
	r.replay.Remember(t)
}

// Recite pushes the whole current replay history into q, oldest first.
func (r *Registry[T]) Recite(q *rcqueue.Queue[T]) {
	r.replay.Each(q.Push)
}

// Register adds q under a freshly allocated identity and returns that identity.
//
// The caller must [*Registry.Recite] into the same queue
// before any later [*Registry.Deliver],
// so that the new subscriber observes neither a gap nor a duplicate.
func (r *Registry[T]) Register(q *rcqueue.Queue[T]) uuid.UUID {
	id := uuid.New()
	for {
		if _, taken := r.byID[id]; !taken {
			break
		}
		id = uuid.New()
	}

	r.byID[id] = r.order.PushBack(entry[T]{ID: id, Q: q})
	return id
}

// Remove deletes the subscriber with the given identity
// and finishes its queue.
// It reports whether the subscriber was present;
// removing an unknown identity is a no-op.
func (r *Registry[T]) Remove(id uuid.UUID) bool {
	e, ok := r.byID[id]
	if !ok {
		return false
	}

	delete(r.byID, id)
	r.order.Remove(e).(entry[T]).Q.Finish()
	return true
}

// Deliver pushes t to every registered queue, in registration order.
func (r *Registry[T]) Deliver(t T) {
	for e := r.order.Front(); e != nil; e = e.Next() {
		e.Value.(entry[T]).Q.Push(t)
	}
}

// Snapshot returns a copy of the current replay history.
func (r *Registry[T]) Snapshot() []T {
	return r.replay.Slice()
}

// FinishAll finishes every registered queue in registration order,
// then forgets all subscribers and clears the replay history.
//
// Callers that need the final history must take a [*Registry.Snapshot] first.
func (r *Registry[T]) FinishAll() {
	for e := r.order.Front(); e != nil; e = e.Next() {
		e.Value.(entry[T]).Q.Finish()
	}

	r.order.Init()
	clear(r.byID)
	r.replay.Clear()
}

// Len reports the number of registered subscribers.
func (r *Registry[T]) Len() int {
	return r.order.Len()
}
