package replaycast

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"weak"
)

// runIngest pulls from p and turns every value into a publish,
// and p's termination into a finish.
//
// It holds only a weak pointer to the controller,
// so it never keeps a broadcast alive by itself.
// Once the controller is gone it stops pulling.
func runIngest[T any](
	ctx context.Context,
	log *slog.Logger,
	ctl weak.Pointer[controller[T]],
	p Producer[T],
	stop context.CancelCauseFunc,
) {
	defer stop(nil)

	if s, ok := p.(interface{ Stop() }); ok {
		defer s.Stop()
	}

	for {
		t, err := p.Next(ctx)

		c := ctl.Value()
		if c == nil {
			log.Debug("Stopping ingestion; broadcast released")
			return
		}

		if err != nil {
			switch {
			case errors.Is(err, io.EOF):
				log.Debug("Upstream producer completed")
			case context.Cause(ctx) != nil:
				log.Debug(
					"Stopping ingestion due to context cancellation",
					"cause", context.Cause(ctx),
				)
			default:
				log.Info(
					"Upstream producer failed; finishing broadcast",
					"err", err,
				)
			}

			_ = c.st.finish()
			return
		}

		c.st.publish(t)
	}
}
