package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/hupe1980/layoutfilter/internal/config"
	"github.com/hupe1980/layoutfilter/internal/document"
	"github.com/hupe1980/layoutfilter/internal/filter"
	"github.com/hupe1980/layoutfilter/internal/logging"
	"github.com/hupe1980/layoutfilter/internal/tree"
)

func newFilterCommand() *cobra.Command {
	opts := &ioOptions{}

	cmd := &cobra.Command{
		Use:   "filter",
		Short: "Filter a layout dump down to whitelisted keys",
		Long: `Filter reads a layout dump, keeps only whitelisted keys at every depth
and writes the result.

By default layout.json is read and layoutFiltered.json is written in the
working directory, keeping the keys children, id, desc and text. Use "-"
as --input or --output to read from stdin or write to stdout.`,
		Example: `  layoutfilter filter
  layoutfilter filter -i dump.json -o - --keys children,id,bounds
  layoutfilter filter -i dump.yaml -o filtered.json --profile inspect`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runFilter(cmd.Context(), cmd, opts)
		},
	}

	registerIOFlags(cmd, opts)
	registerWhitelistFlags(cmd)

	return cmd
}

// filterResult describes one completed filter run.
type filterResult struct {
	output tree.Node
	stats  filter.Stats
}

func runFilter(ctx context.Context, cmd *cobra.Command, opts *ioOptions) error {
	cfg := config.FromContext(ctx)
	logger := logging.ForCommand(ctx, "filter")

	inFormat, outFormat, err := opts.formats()
	if err != nil {
		return err
	}

	whitelist, err := resolveWhitelist(cfg, logger)
	if err != nil {
		return err
	}

	res, err := filterFile(cmd, opts.input, inFormat, whitelist)
	if err != nil {
		return err
	}

	encOpts := document.EncodeOptions{Format: outFormat, Indent: cfg.Indent}
	if err := writeDocument(cmd, opts.output, res.output, encOpts, logger); err != nil {
		return err
	}

	logger.Debug("layout filtered",
		slog.String("input", opts.input),
		slog.String("output", opts.output),
		slog.Int("nodesIn", res.stats.NodesIn),
		slog.Int("nodesOut", res.stats.NodesOut),
	)

	if !cfg.Quiet && opts.output != stdioPath {
		_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "filtered layout written to %s\n", opts.output)
	}

	return nil
}

// filterFile loads path and filters it with w.
func filterFile(cmd *cobra.Command, path string, format document.Format, w filter.Whitelist) (*filterResult, error) {
	root, err := readDocument(cmd, path, format)
	if err != nil {
		return nil, err
	}

	out, stats := filter.Run(root, w)

	return &filterResult{output: out, stats: stats}, nil
}

// readDocument loads a document from path, or from stdin when path is "-".
func readDocument(cmd *cobra.Command, path string, format document.Format) (tree.Node, error) {
	var (
		n   tree.Node
		err error
	)

	switch {
	case path == stdioPath:
		n, err = document.Decode(cmd.InOrStdin(), format)
	case format == "":
		n, err = document.Load(path)
	default:
		n, err = document.LoadFormat(path, format)
	}

	if err != nil {
		return nil, runtimeError(err)
	}

	return n, nil
}

// writeDocument encodes n and writes it to path, or to stdout when path
// is "-".
func writeDocument(cmd *cobra.Command, path string, n tree.Node, opts document.EncodeOptions, logger *slog.Logger) error {
	data, err := document.Encode(n, opts)
	if err != nil {
		return runtimeError(fmt.Errorf("encoding %s: %w", path, err))
	}

	var w document.Writer
	if path == stdioPath {
		w = document.NewStdoutWriter(cmd.OutOrStdout())
	} else {
		w = document.NewFileWriter(path, document.WithLogger(logger))
	}

	if err := w.Write(data); err != nil {
		return runtimeError(err)
	}

	return nil
}
