// Command rcdemo broadcasts the lines read from standard input
// to a set of subscribers, each of which writes what it observes
// to standard output with its own prefix.
//
// After the input ends, one more subscriber joins late
// to show what the configured replay policy retained.
//
// Flags may also be set through RCDEMO_ environment variables,
// for example RCDEMO_REPLAY=latest:3.
package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"sync"

	"github.com/gordian-engine/replaycast"
	"github.com/gordian-engine/replaycast/rcreplay"
	"github.com/peterbourgon/ff/v3"
	"golang.org/x/sync/errgroup"
)

type config struct {
	Replay      rcreplay.Policy
	Subscribers int
	Late        bool
	LogLevel    slog.Level
}

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func parseConfig(args []string, stderr io.Writer) (config, error) {
	cfg := config{
		Replay:      rcreplay.Latest(5),
		Subscribers: 2,
		Late:        true,
	}

	fs := flag.NewFlagSet("rcdemo", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.TextVar(&cfg.Replay, "replay", cfg.Replay, "replay policy: none, unbounded (or all), latest:N")
	fs.IntVar(&cfg.Subscribers, "subscribers", cfg.Subscribers, "number of subscribers joining before input is read")
	fs.BoolVar(&cfg.Late, "late", cfg.Late, "add a subscriber after input ends")
	fs.TextVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")

	if err := ff.Parse(fs, args, ff.WithEnvVarPrefix("RCDEMO")); err != nil {
		return cfg, err
	}

	if cfg.Subscribers < 0 {
		return cfg, fmt.Errorf("subscribers must not be negative (got %d)", cfg.Subscribers)
	}

	return cfg, nil
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	cfg, err := parseConfig(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return nil
		}
		return err
	}

	log := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: cfg.LogLevel}))

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	// Hold the first read until the initial subscribers have joined.
	start := make(chan struct{})

	b := replaycast.New(
		ctx, log,
		replaycast.Config{Replay: cfg.Replay},
		lineProducer(stdin, start),
	)

	out := &lockedWriter{w: stdout}

	var eg errgroup.Group
	for i := range cfg.Subscribers {
		c := b.Subscribe()
		eg.Go(func() error {
			return printAll(ctx, out, fmt.Sprintf("sub%d", i), c)
		})
	}
	close(start)

	select {
	case <-ctx.Done():
	case <-b.Finished():
	}

	if cfg.Late {
		late := b.Subscribe()
		eg.Go(func() error {
			return printAll(ctx, out, "late", late)
		})
	}

	return eg.Wait()
}

// lineProducer returns a producer yielding each line of r,
// once start is closed.
func lineProducer(r io.Reader, start <-chan struct{}) replaycast.Producer[string] {
	s := bufio.NewScanner(r)
	return replaycast.ProducerFunc[string](func(ctx context.Context) (string, error) {
		select {
		case <-ctx.Done():
			return "", context.Cause(ctx)
		case <-start:
			// Okay.
		}
		if !s.Scan() {
			if err := s.Err(); err != nil {
				return "", fmt.Errorf("failed to read input: %w", err)
			}
			return "", io.EOF
		}
		return s.Text(), nil
	})
}

func printAll(ctx context.Context, w io.Writer, name string, c *replaycast.Cursor[string]) error {
	for line := range c.All(ctx) {
		if _, err := fmt.Fprintf(w, "%s: %s\n", name, line); err != nil {
			c.Cancel()
			return fmt.Errorf("%s: failed to write output: %w", name, err)
		}
	}
	return nil
}

// lockedWriter serializes writes from the subscriber goroutines.
type lockedWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (lw *lockedWriter) Write(p []byte) (int, error) {
	lw.mu.Lock()
	defer lw.mu.Unlock()
	return lw.w.Write(p)
}
