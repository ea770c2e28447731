package rcreplay

// Buffer is the replay history of a broadcast,
// trimmed according to its [Policy] after every [*Buffer.Remember].
//
// A Latest policy is backed by a ring that grows as values arrive
// and overwrites its oldest value once it holds the bound,
// so memory tracks what is retained rather than the bound itself.
//
// Buffer is not safe for concurrent use;
// the broadcast registry only touches it while holding its lock.
type Buffer[T any] struct {
	policy Policy

	// Ring storage for KindLatest; plain append storage for KindUnbounded.
	buf  []T
	head int
}

// NewBuffer returns an empty buffer governed by p.
func NewBuffer[T any](p Policy) *Buffer[T] {
	return &Buffer[T]{policy: p}
}

// Len reports the number of retained values.
func (b *Buffer[T]) Len() int {
	return len(b.buf)
}

// Remember appends t and then trims the history according to the policy.
func (b *Buffer[T]) Remember(t T) {
	switch b.policy.kind {
	case KindUnbounded:
		b.buf = append(b.buf, t)

	case KindLatest:
		if len(b.buf) < b.policy.limit {
			b.buf = append(b.buf, t)
			return
		}

		// Full: overwrite the oldest and advance head.
		b.buf[b.head] = t
		b.head++
		if b.head == len(b.buf) {
			b.head = 0
		}

	default:
		// KindNone retains nothing.
	}
}

// Each calls fn for every retained value, oldest first.
func (b *Buffer[T]) Each(fn func(T)) {
	for _, t := range b.buf[b.head:] {
		fn(t)
	}
	for _, t := range b.buf[:b.head] {
		fn(t)
	}
}

// Slice returns a copy of the retained values, oldest first.
// The result is nil when nothing is retained.
func (b *Buffer[T]) Slice() []T {
	if len(b.buf) == 0 {
		return nil
	}

	out := make([]T, 0, len(b.buf))
	out = append(out, b.buf[b.head:]...)
	out = append(out, b.buf[:b.head]...)
	return out
}

// Clear discards every retained value.
func (b *Buffer[T]) Clear() {
	clear(b.buf)
	b.buf = b.buf[:0]
	b.head = 0
}
