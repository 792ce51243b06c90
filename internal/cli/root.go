// Package cli implements the cobra command tree for layoutfilter.
package cli

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/hupe1980/layoutfilter/internal/config"
	"github.com/hupe1980/layoutfilter/internal/logging"
)

// Process exit codes.
const (
	exitOK          = 0
	exitRuntime     = 1
	exitUsage       = 2
	exitDifferences = 3
)

// ExitError wraps an error with a specific process exit code.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}

	return fmt.Sprintf("exit code %d", e.Code)
}

func (e *ExitError) Unwrap() error { return e.Err }

// usageError marks err as caused by invalid flags or configuration.
func usageError(err error) error {
	return &ExitError{Code: exitUsage, Err: err}
}

// runtimeError marks err as a failure while reading, parsing, or writing
// documents.
func runtimeError(err error) error {
	return &ExitError{Code: exitRuntime, Err: err}
}

// Execute builds the command tree, runs it, and returns the exit code.
func Execute() int {
	return executeRoot(NewRootCommand(), os.Stderr)
}

// executeRoot runs cmd and reports a failure once on errOut. An ExitError
// without a message only sets the exit code.
func executeRoot(cmd *cobra.Command, errOut io.Writer) int {
	err := cmd.Execute()
	if err == nil {
		return exitOK
	}

	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		if exitErr.Err != nil {
			_, _ = fmt.Fprintf(errOut, "Error: %v\n", exitErr.Err)
		}

		return exitErr.Code
	}

	_, _ = fmt.Fprintf(errOut, "Error: %v\n", err)

	return exitRuntime
}

// NewRootCommand constructs the top-level cobra.Command with all
// subcommands attached.
func NewRootCommand() *cobra.Command {
	var cfgFile string

	cmd := &cobra.Command{
		Use:   "layoutfilter",
		Short: "Reduce UI layout dumps to a whitelisted set of keys",
		Long: `layoutfilter reduces a hierarchical UI layout dump (JSON or YAML) to a
lighter tree that keeps only whitelisted keys.

Every node keeps its whitelisted keys; non-whitelisted mappings and lists
are kept only when something whitelisted survives inside them. The
"children" key is traversed recursively, so a whole view hierarchy is
pruned in one pass.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load(cmd, cfgFile)
			if err != nil {
				return usageError(err)
			}

			logger := logging.Setup(cfg)

			ctx := cmd.Context()
			ctx = config.NewContext(ctx, cfg)
			ctx = logging.NewContext(ctx, logger)
			cmd.SetContext(ctx)

			logger.Debug("configuration loaded",
				slog.String("logLevel", cfg.LogLevel),
				slog.String("logFormat", cfg.LogFormat),
				slog.String("configFile", cfg.ConfigFile),
			)

			return nil
		},
	}

	// Global persistent flags.
	pf := cmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "", "config file (default: .layoutfilter.yaml)")
	pf.String("log-level", "info", "log level: debug, info, warn, error")
	pf.String("log-format", "text", "log format: text, json")
	pf.Bool("no-color", false, "disable colored output")
	pf.BoolP("quiet", "q", false, "suppress non-essential output")

	// Flag parsing errors return exit code 2.
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return usageError(err)
	})

	cmd.AddCommand(
		newFilterCommand(),
		newDiffCommand(),
		newWatchCommand(),
		newKeysCommand(),
		newVersionCommand(),
		newCompletionCommand(),
	)

	return cmd
}
