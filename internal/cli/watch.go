package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/hupe1980/layoutfilter/internal/config"
	"github.com/hupe1980/layoutfilter/internal/diff"
	"github.com/hupe1980/layoutfilter/internal/document"
	"github.com/hupe1980/layoutfilter/internal/logging"
	"github.com/hupe1980/layoutfilter/internal/tree"
	"github.com/hupe1980/layoutfilter/internal/watch"
)

type watchOptions struct {
	ioOptions

	// Watch-specific options.
	debounce time.Duration
}

func newWatchCommand() *cobra.Command {
	opts := &watchOptions{}

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-filter a layout dump whenever it changes",
		Long: `Watch monitors the input layout dump and re-runs the filter each time
the file is written or replaced.

File changes are debounced to avoid rapid re-runs. Each run reports the
number of nodes read and written, and how the filtered output changed
compared to the previous run.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runWatch(cmd.Context(), cmd, opts)
		},
	}

	registerIOFlags(cmd, &opts.ioOptions)
	registerWhitelistFlags(cmd)

	cmd.Flags().DurationVar(&opts.debounce, "debounce", watch.DefaultOptions().Debounce, "debounce interval for file changes")

	return cmd
}

func runWatch(ctx context.Context, cmd *cobra.Command, opts *watchOptions) error {
	cfg := config.FromContext(ctx)
	logger := logging.ForCommand(ctx, "watch")

	if opts.input == stdioPath || opts.output == stdioPath {
		return usageError(fmt.Errorf("watch mode needs file paths for --input and --output"))
	}

	if opts.debounce <= 0 {
		return usageError(fmt.Errorf("invalid debounce %s: must be positive", opts.debounce))
	}

	inFormat, outFormat, err := opts.formats()
	if err != nil {
		return err
	}

	whitelist, err := resolveWhitelist(cfg, logger)
	if err != nil {
		return err
	}

	compared := attributeKeys(whitelist)
	encOpts := document.EncodeOptions{Format: outFormat, Indent: cfg.Indent}

	// Previous output for change detection across runs.
	var prev tree.Node

	runFn := func(_ context.Context) (*watch.RunResult, error) {
		res, err := filterFile(cmd, opts.input, inFormat, whitelist)
		if err != nil {
			return nil, err
		}

		if err := writeDocument(cmd, opts.output, res.output, encOpts, logger); err != nil {
			return nil, err
		}

		var changes []diff.Change
		if prev != nil {
			changes = diff.Trees(prev, res.output, compared)
		}

		prev = res.output

		return &watch.RunResult{
			NodesIn:    res.stats.NodesIn,
			NodesOut:   res.stats.NodesOut,
			Changes:    changes,
			OutputPath: opts.output,
		}, nil
	}

	watchOpts := watch.Options{
		Input:    opts.input,
		Debounce: opts.debounce,
		Logger:   logger,
		Out:      cmd.ErrOrStderr(),
	}

	return watch.Run(ctx, watchOpts, runFn)
}
