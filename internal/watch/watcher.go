package watch

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/hupe1980/layoutfilter/internal/diff"
)

// initialTrigger labels the run performed when watching starts.
const initialTrigger = "(initial)"

// RunFunc is called each time the watcher triggers a filter run.
type RunFunc func(ctx context.Context) (*RunResult, error)

// RunResult holds the output of a single filter run.
type RunResult struct {
	// NodesIn is the number of mappings in the input document.
	NodesIn int
	// NodesOut is the number of mappings written.
	NodesOut int
	// Changes compares the output with the previous run's output. It is nil
	// on the first run.
	Changes []diff.Change
	// OutputPath is where the filtered document was written.
	OutputPath string
}

// Options configures the watch behaviour.
type Options struct {
	// Input is the document file to watch.
	Input string

	// Debounce is the quiet period before triggering a run.
	Debounce time.Duration

	// Logger is used for structured logging.
	Logger *slog.Logger

	// Out is the writer for user-facing status messages.
	Out io.Writer
}

// DefaultOptions returns sensible default watch options.
func DefaultOptions() Options {
	return Options{
		Debounce: 300 * time.Millisecond,
		Logger:   slog.Default(),
		Out:      os.Stderr,
	}
}

// Run starts the file watcher and blocks until the context is cancelled
// or a SIGINT/SIGTERM signal is received.
//
// The input's parent directory is watched rather than the file itself so
// that editors and dump tools replacing the file via rename keep being
// observed.
func Run(ctx context.Context, opts Options, runFn RunFunc) error {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	if opts.Out == nil {
		opts.Out = io.Discard
	}

	input, err := filepath.Abs(opts.Input)
	if err != nil {
		return fmt.Errorf("resolving input %q: %w", opts.Input, err)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(input)); err != nil {
		return fmt.Errorf("watching input directory: %w", err)
	}

	sigCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Fprintf(opts.Out, "watching %s (debounce=%s)\n", opts.Input, opts.Debounce)

	doRun(sigCtx, opts, runFn, initialTrigger)

	debouncer := NewDebouncer(opts.Debounce, func(trigger string) {
		doRun(sigCtx, opts, runFn, trigger)
	})
	defer debouncer.Stop()

	for {
		select {
		case <-sigCtx.Done():
			fmt.Fprintln(opts.Out, "\nshutting down watcher")
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if !isRelevant(event, input) {
				continue
			}

			opts.Logger.Debug("input changed",
				slog.String("path", event.Name),
				slog.String("op", event.Op.String()),
			)

			debouncer.Trigger(filepath.Base(event.Name))

		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}

			opts.Logger.Error("watcher error", slog.String("error", watchErr.Error()))
		}
	}
}

// doRun executes a single filter run and prints the status line.
func doRun(ctx context.Context, opts Options, runFn RunFunc, trigger string) {
	now := time.Now().Format("15:04:05")

	result, err := runFn(ctx)
	if err != nil {
		fmt.Fprintf(opts.Out, "[%s] %s → ERROR: %v\n", now, trigger, err)
		return
	}

	fmt.Fprintf(opts.Out, "[%s] %s → OK (%d nodes → %d nodes) %s\n",
		now, trigger, result.NodesIn, result.NodesOut, result.OutputPath)

	if trigger != initialTrigger {
		fmt.Fprintf(opts.Out, "  changes: %s\n", diff.Summary(result.Changes))
	}
}

// isRelevant reports whether event modifies the watched input file.
func isRelevant(event fsnotify.Event, input string) bool {
	if filepath.Clean(event.Name) != input {
		return false
	}

	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}
