package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/hupe1980/layoutfilter/internal/config"
	"github.com/hupe1980/layoutfilter/internal/diff"
	"github.com/hupe1980/layoutfilter/internal/document"
	"github.com/hupe1980/layoutfilter/internal/filter"
	"github.com/hupe1980/layoutfilter/internal/logging"
	"github.com/hupe1980/layoutfilter/internal/tree"
)

// Diff output formats.
const (
	diffFormatTree    = "tree"
	diffFormatUnified = "unified"
)

// compareProfile supplies the attributes compared when --compare is unset.
const compareProfile = "inspect"

type diffOptions struct {
	// Output format: "tree" (default) or "unified".
	format string

	// Filter both dumps with the effective whitelist before comparing.
	filtered bool

	// Attributes compared per node in tree format.
	compare []string

	// Return exit code 3 when differences are found.
	exitCode bool

	// Lines of context in unified format.
	context int
}

func newDiffCommand() *cobra.Command {
	opts := &diffOptions{}

	cmd := &cobra.Command{
		Use:   "diff <before> <after>",
		Short: "Compare two layout dumps",
		Long: `Diff compares two layout dumps node by node.

The tree format walks both dumps in parallel, matching children by index,
and reports added and removed nodes and changed attributes. The compared
attributes default to those of the "inspect" profile. The unified format
prints a line diff of both documents.

Exit codes:
  0  No differences, or differences without --exit-code
  1  Error
  2  Invalid arguments
  3  Differences found (with --exit-code)`,
		Example: `  layoutfilter diff before.json after.json
  layoutfilter diff before.json after.json --filtered --format unified
  layoutfilter diff a.json b.json --compare text,desc --exit-code`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDiff(cmd.Context(), cmd, args[0], args[1], opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.format, "format", diffFormatTree, "output format: tree, unified")
	f.BoolVar(&opts.filtered, "filtered", false, "filter both dumps before comparing")
	f.StringSliceVar(&opts.compare, "compare", nil, "attributes compared per node (default: inspect profile)")
	f.BoolVar(&opts.exitCode, "exit-code", false, "exit with code 3 when differences are found")
	f.IntVar(&opts.context, "context", diff.DefaultUnifiedOptions().Context, "lines of context in unified format")

	registerWhitelistFlags(cmd)

	return cmd
}

func runDiff(ctx context.Context, cmd *cobra.Command, beforePath, afterPath string, opts *diffOptions) error {
	cfg := config.FromContext(ctx)
	logger := logging.ForCommand(ctx, "diff")

	if opts.format != diffFormatTree && opts.format != diffFormatUnified {
		return usageError(fmt.Errorf("invalid format %q: must be one of tree, unified", opts.format))
	}

	if opts.context < 0 {
		return usageError(fmt.Errorf("invalid context %d: must not be negative", opts.context))
	}

	before, err := readDocument(cmd, beforePath, "")
	if err != nil {
		return err
	}

	after, err := readDocument(cmd, afterPath, "")
	if err != nil {
		return err
	}

	if opts.filtered {
		w, wErr := resolveWhitelist(cfg, logger)
		if wErr != nil {
			return wErr
		}

		before = filter.Filter(before, w)
		after = filter.Filter(after, w)
	}

	var differs bool

	switch opts.format {
	case diffFormatUnified:
		differs, err = writeUnifiedDiff(cmd, cfg, beforePath, afterPath, before, after, opts)
		if err != nil {
			return err
		}
	default:
		keys, kErr := compareKeys(cfg, opts)
		if kErr != nil {
			return kErr
		}

		changes := diff.Trees(before, after, keys)
		diff.WriteChanges(cmd.OutOrStdout(), changes)

		differs = len(changes) > 0
	}

	logger.Debug("diff complete", slog.Bool("differences", differs))

	if differs && opts.exitCode {
		return &ExitError{Code: exitDifferences}
	}

	return nil
}

// compareKeys returns the attributes compared per node.
func compareKeys(cfg *config.Config, opts *diffOptions) ([]string, error) {
	if len(opts.compare) > 0 {
		return opts.compare, nil
	}

	custom, err := customProfiles(cfg)
	if err != nil {
		return nil, err
	}

	profile, err := filter.ResolveProfile(compareProfile, custom)
	if err != nil {
		return nil, usageError(err)
	}

	return attributeKeys(profile.Whitelist()), nil
}

func writeUnifiedDiff(cmd *cobra.Command, cfg *config.Config, beforePath, afterPath string, before, after tree.Node, opts *diffOptions) (bool, error) {
	encOpts := document.EncodeOptions{Format: document.FormatJSON, Indent: cfg.Indent}

	beforeDoc, err := document.Encode(before, encOpts)
	if err != nil {
		return false, runtimeError(fmt.Errorf("encoding %s: %w", beforePath, err))
	}

	afterDoc, err := document.Encode(after, encOpts)
	if err != nil {
		return false, runtimeError(fmt.Errorf("encoding %s: %w", afterPath, err))
	}

	diffOpts := diff.DefaultUnifiedOptions()
	diffOpts.OldLabel = beforePath
	diffOpts.NewLabel = afterPath
	diffOpts.Context = opts.context

	result, err := diff.Unified(string(beforeDoc), string(afterDoc), diffOpts)
	if err != nil {
		return false, runtimeError(err)
	}

	out := cmd.OutOrStdout()
	diff.WriteUnified(out, result, colorEnabled(cfg, out))

	return result.HasDifferences, nil
}
