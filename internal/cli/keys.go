package cli

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hupe1980/layoutfilter/internal/config"
	"github.com/hupe1980/layoutfilter/internal/filter"
	"github.com/hupe1980/layoutfilter/internal/logging"
)

func newKeysCommand() *cobra.Command {
	var listProfiles bool

	cmd := &cobra.Command{
		Use:   "keys",
		Short: "Print the effective whitelist",
		Long: `Keys prints the keys the filter would keep, one per line, after applying
--keys, --profile, environment variables and the config file.

With --profiles, every available profile is listed with its keys instead.
Profiles defined in the config file are marked "(custom)".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if listProfiles {
				return runListProfiles(cmd.Context(), cmd)
			}

			return runKeys(cmd.Context(), cmd)
		},
	}

	registerWhitelistFlags(cmd)
	cmd.Flags().BoolVar(&listProfiles, "profiles", false, "list available profiles and their keys")

	return cmd
}

func runKeys(ctx context.Context, cmd *cobra.Command) error {
	w, err := resolveWhitelist(config.FromContext(ctx), logging.ForCommand(ctx, "keys"))
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for _, k := range w.Keys() {
		_, _ = fmt.Fprintln(out, k)
	}

	return nil
}

func runListProfiles(ctx context.Context, cmd *cobra.Command) error {
	custom, err := customProfiles(config.FromContext(ctx))
	if err != nil {
		return err
	}

	builtin := filter.BuiltinProfileNames()

	// Built-in profiles take precedence over custom ones of the same name.
	extra := slices.DeleteFunc(slices.Sorted(maps.Keys(custom)), func(name string) bool {
		return slices.Contains(builtin, name)
	})

	out := cmd.OutOrStdout()

	for _, name := range slices.Concat(builtin, extra) {
		p, err := filter.ResolveProfile(name, custom)
		if err != nil {
			return usageError(err)
		}

		marker := ""
		if !slices.Contains(builtin, name) {
			marker = " (custom)"
		}

		_, _ = fmt.Fprintf(out, "%s%s: %s\n", name, marker, strings.Join(p.Whitelist().Keys(), ", "))
	}

	return nil
}
