package replaycast

import (
	"context"
	"io"
	"iter"
)

// Producer is the upstream source of a broadcast started with [New].
//
// Next is called sequentially from a single goroutine
// and is never retried.
// Returning [io.EOF] completes the broadcast normally;
// any other error also completes it,
// and subscribers cannot tell the difference.
//
// If a Producer also has a Stop method,
// Stop is called once ingestion ends.
type Producer[T any] interface {
	Next(ctx context.Context) (T, error)
}

// ProducerFunc adapts a function to a [Producer].
type ProducerFunc[T any] func(ctx context.Context) (T, error)

// Next calls f(ctx).
func (f ProducerFunc[T]) Next(ctx context.Context) (T, error) {
	return f(ctx)
}

// FromChannel returns a [Producer] that receives from ch
// until ch is closed or the context is canceled.
func FromChannel[T any](ch <-chan T) Producer[T] {
	return chanProducer[T]{ch: ch}
}

type chanProducer[T any] struct {
	ch <-chan T
}

func (p chanProducer[T]) Next(ctx context.Context) (T, error) {
	select {
	case <-ctx.Done():
		var zero T
		return zero, context.Cause(ctx)
	case t, ok := <-p.ch:
		if !ok {
			return t, io.EOF
		}
		return t, nil
	}
}

// FromSeq returns a [Producer] that pulls values from seq.
//
// Context cancellation is only observed between values,
// so a seq that blocks indefinitely also blocks ingestion.
func FromSeq[T any](seq iter.Seq[T]) Producer[T] {
	next, stop := iter.Pull(seq)
	return &seqProducer[T]{next: next, stop: stop}
}

type seqProducer[T any] struct {
	next func() (T, bool)
	stop func()
}

func (p *seqProducer[T]) Next(ctx context.Context) (T, error) {
	if err := context.Cause(ctx); err != nil {
		var zero T
		return zero, err
	}

	t, ok := p.next()
	if !ok {
		return t, io.EOF
	}
	return t, nil
}

func (p *seqProducer[T]) Stop() {
	p.stop()
}

// FromSeq2 returns a [Producer] that pulls value and error pairs from seq.
// A non-nil error ends the broadcast, the same as the end of seq.
func FromSeq2[T any](seq iter.Seq2[T, error]) Producer[T] {
	next, stop := iter.Pull2(seq)
	return &seq2Producer[T]{next: next, stop: stop}
}

type seq2Producer[T any] struct {
	next func() (T, error, bool)
	stop func()
}

func (p *seq2Producer[T]) Next(ctx context.Context) (T, error) {
	if err := context.Cause(ctx); err != nil {
		var zero T
		return zero, err
	}

	t, err, ok := p.next()
	if !ok {
		return t, io.EOF
	}
	return t, err
}

func (p *seq2Producer[T]) Stop() {
	p.stop()
}
