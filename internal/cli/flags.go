package cli

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/hupe1980/layoutfilter/internal/config"
	"github.com/hupe1980/layoutfilter/internal/document"
	"github.com/hupe1980/layoutfilter/internal/filter"
)

// Default file locations, relative to the working directory.
const (
	defaultInput  = "layout.json"
	defaultOutput = "layoutFiltered.json"
	stdioPath     = "-"
)

// ioOptions holds the input and output flags shared by filter and watch.
type ioOptions struct {
	input        string
	output       string
	inputFormat  string
	outputFormat string
}

// registerIOFlags adds the input/output flags to a cobra command.
func registerIOFlags(cmd *cobra.Command, opts *ioOptions) {
	f := cmd.Flags()
	f.StringVarP(&opts.input, "input", "i", defaultInput, "layout dump to read")
	f.StringVarP(&opts.output, "output", "o", defaultOutput, "file to write the filtered layout to")
	f.StringVar(&opts.inputFormat, "input-format", "", "input format: json, yaml (default: by extension)")
	f.StringVar(&opts.outputFormat, "format", "", "output format: json, yaml (default: by extension)")
}

// registerWhitelistFlags adds the key selection flags. Their values reach
// commands through config.Config so that env vars and the config file
// apply as well.
func registerWhitelistFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringSlice("keys", nil, "keys to keep (overrides --profile)")
	f.String("profile", "", fmt.Sprintf("key profile to filter with (default %q)", filter.DefaultProfile))
	f.Int("indent", config.DefaultIndent, "spaces per indentation level; 0 writes compact output")

	_ = cmd.RegisterFlagCompletionFunc("profile", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return filter.BuiltinProfileNames(), cobra.ShellCompDirectiveNoFileComp
	})
}

// formats resolves the input and output formats. Empty results mean the
// format follows the file extension.
func (o *ioOptions) formats() (in, out document.Format, err error) {
	in, err = document.ParseFormat(o.inputFormat)
	if err != nil {
		return "", "", usageError(fmt.Errorf("--input-format: %w", err))
	}

	out, err = document.ParseFormat(o.outputFormat)
	if err != nil {
		return "", "", usageError(fmt.Errorf("--format: %w", err))
	}

	if out == "" {
		out = document.FormatFromPath(o.output)
	}

	return in, out, nil
}

// customProfiles loads the profiles section of the config file in use.
func customProfiles(cfg *config.Config) (map[string]filter.ProfileConfig, error) {
	if cfg.ConfigFile == "" {
		return nil, nil
	}

	profiles, err := filter.LoadCustomProfiles(cfg.ConfigFile)
	if err != nil {
		return nil, usageError(err)
	}

	return profiles, nil
}

// resolveWhitelist returns the whitelist selected by cfg. Explicit keys win
// over a profile; without either the default profile applies.
func resolveWhitelist(cfg *config.Config, logger *slog.Logger) (filter.Whitelist, error) {
	if len(cfg.Keys) > 0 {
		if cfg.Profile != "" {
			logger.Debug("explicit keys override profile", slog.String("profile", cfg.Profile))
		}

		return filter.NewWhitelist(cfg.Keys...), nil
	}

	name := cfg.Profile
	if name == "" {
		name = filter.DefaultProfile
	}

	custom, err := customProfiles(cfg)
	if err != nil {
		return filter.Whitelist{}, err
	}

	profile, err := filter.ResolveProfile(name, custom)
	if err != nil {
		return filter.Whitelist{}, usageError(err)
	}

	logger.Debug("using profile", slog.String("profile", name), slog.Any("keys", profile.Keys))

	return profile.Whitelist(), nil
}

// attributeKeys returns the whitelisted keys compared on each node, i.e.
// every key except the child list, in declared order.
func attributeKeys(w filter.Whitelist) []string {
	return slices.DeleteFunc(w.Declared(), func(k string) bool { return k == filter.ChildrenKey })
}

// colorEnabled reports whether ANSI colors may be written to w. Colors
// need a terminal and are off with --no-color or NO_COLOR.
func colorEnabled(cfg *config.Config, w io.Writer) bool {
	if cfg.NoColor || os.Getenv("NO_COLOR") != "" {
		return false
	}

	f, ok := w.(*os.File)

	return ok && term.IsTerminal(int(f.Fd())) //nolint:gosec // file descriptors fit in int
}
