// Package rctest contains helpers for replaycast tests.
package rctest

import (
	"testing"
	"time"
)

// ScheduleTimeout is how long the "soon" helpers wait
// before failing the test.
const ScheduleTimeout = 2 * time.Second

// ReceiveSoon fails the test if a value is not received on ch
// within [ScheduleTimeout].
// A closed channel counts as a receive.
func ReceiveSoon[T any](t testing.TB, ch <-chan T) T {
	t.Helper()

	select {
	case v := <-ch:
		return v
	case <-time.After(ScheduleTimeout):
		t.Fatalf("did not receive value within %s", ScheduleTimeout)
	}

	panic("unreachable")
}

// SendSoon fails the test if v cannot be sent on ch
// within [ScheduleTimeout].
func SendSoon[T any](t testing.TB, ch chan<- T, v T) {
	t.Helper()

	select {
	case ch <- v:
		// Okay.
	case <-time.After(ScheduleTimeout):
		t.Fatalf("did not send value within %s", ScheduleTimeout)
	}
}

// IsSending fails the test if ch does not have a value ready immediately.
func IsSending[T any](t testing.TB, ch <-chan T) T {
	t.Helper()

	select {
	case v := <-ch:
		return v
	default:
		t.Fatal("channel was not ready to receive")
	}

	panic("unreachable")
}

// NotSending fails the test if ch has a value ready
// within a short delay.
func NotSending[T any](t testing.TB, ch <-chan T) {
	t.Helper()

	select {
	case <-ch:
		t.Fatal("channel was unexpectedly ready to receive")
	case <-time.After(5 * time.Millisecond):
		// Okay.
	}
}
