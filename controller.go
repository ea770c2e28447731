package replaycast

import (
	"context"
	"errors"
	"log/slog"
	"runtime"
	"sync"

	"github.com/google/uuid"
	"github.com/gordian-engine/replaycast/internal/rcqueue"
	"github.com/gordian-engine/replaycast/internal/rcstore"
	"github.com/gordian-engine/replaycast/rcreplay"
	"github.com/looplab/fsm"
)

// Controller states and the single transition between them.
const (
	stateAvailable = "available"
	stateFinished  = "finished"

	eventFinish = "finish"
)

// controller is the handle whose lifetime governs a broadcast.
//
// Only the public [Broadcaster] and [Injector] values
// hold strong references to a controller.
// The ingestion goroutine and every [Cursor] hold weak pointers,
// so once the public handles are gone the controller is collected,
// and a runtime cleanup finishes whatever is left in its state.
type controller[T any] struct {
	st *state[T]
}

// state is the lock-guarded state machine behind a controller.
// It must never refer back to its controller,
// otherwise the controller's cleanup would never run.
type state[T any] struct {
	log *slog.Logger

	replay rcreplay.Policy

	mu sync.Mutex

	// Current state is either stateAvailable or stateFinished.
	// Only ever touched while holding mu.
	fsm *fsm.FSM

	// Present only while available.
	reg *rcstore.Registry[T]

	// Frozen replay history, set on entering stateFinished.
	snapshot []T

	// Closed on entering stateFinished.
	finished chan struct{}

	// Cancels the ingestion goroutine, when there is one.
	// Assigned before the controller is shared.
	stopIngest context.CancelCauseFunc
}

func newController[T any](log *slog.Logger, p rcreplay.Policy) *controller[T] {
	if log == nil {
		panic(errors.New("BUG: replaycast requires a non-nil logger"))
	}

	s := &state[T]{
		log: log,

		replay: p,

		reg: rcstore.New[T](p),

		finished: make(chan struct{}),
	}

	s.fsm = fsm.NewFSM(
		stateAvailable,
		fsm.Events{
			{Name: eventFinish, Src: []string{stateAvailable}, Dst: stateFinished},
		},
		fsm.Callbacks{
			"enter_" + stateFinished: func(_ context.Context, _ *fsm.Event) {
				s.enterFinished()
			},
		},
	)

	c := &controller[T]{st: s}
	runtime.AddCleanup(c, (*state[T]).release, s)
	return c
}

// subscribe registers q as a new subscriber and replays the current history into it.
// After the broadcast has finished, q instead receives the frozen snapshot
// followed by completion, and is not registered.
//
// The returned identity is unique either way;
// registered reports whether the subscriber is tracked.
func (s *state[T]) subscribe(q *rcqueue.Queue[T]) (id uuid.UUID, registered bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.fsm.Is(stateAvailable) {
		// Registration and recital happen in the same critical section,
		// so no publish can land between them.
		id = s.reg.Register(q)
		s.reg.Recite(q)
		return id, true
	}

	for _, t := range s.snapshot {
		q.Push(t)
	}
	q.Finish()
	return uuid.New(), false
}

// unsubscribe removes and finishes the subscriber with the given id.
// Unknown ids and calls after finishing are ignored.
func (s *state[T]) unsubscribe(id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.fsm.Is(stateAvailable) {
		return
	}

	if s.reg.Remove(id) {
		s.log.Debug("Subscriber canceled", "id", id, "remaining", s.reg.Len())
	}
}

// publish records t in the replay history
// and delivers it to every registered subscriber.
// It is a no-op after finishing.
func (s *state[T]) publish(t T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.fsm.Is(stateAvailable) {
		return
	}

	s.reg.Remember(t)
	s.reg.Deliver(t)
}

// finish moves the state machine to stateFinished,
// reporting whether this call made the transition.
// Finishing twice is a no-op.
func (s *state[T]) finish() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.fsm.Event(context.Background(), eventFinish); err != nil {
		var invalid fsm.InvalidEventError
		if !errors.As(err, &invalid) {
			s.log.Warn("BUG: unexpected error finishing broadcast", "err", err)
		}
		return false
	}
	return true
}

// enterFinished runs as the fsm's enter callback,
// inside the critical section of finish.
func (s *state[T]) enterFinished() {
	s.snapshot = s.reg.Snapshot()

	// Log before any subscriber can observe completion.
	s.log.Debug(
		"Finishing broadcast",
		"subscribers", s.reg.Len(),
		"snapshot_len", len(s.snapshot),
	)

	s.reg.FinishAll()
	s.reg = nil

	close(s.finished)
}

func (s *state[T]) subscriberCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.reg == nil {
		return 0
	}
	return s.reg.Len()
}

// release is the runtime cleanup for a collected controller.
// Remaining subscribers observe completion,
// and an ingestion goroutine blocked on its producer is canceled.
func (s *state[T]) release() {
	if s.finish() {
		s.log.Debug("Released unreferenced broadcast before it finished")
	}

	if s.stopIngest != nil {
		s.stopIngest(errControllerReleased)
	}
}
