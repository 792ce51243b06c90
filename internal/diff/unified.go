package diff

import (
	"fmt"
	"io"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// UnifiedResult holds the result of a unified diff computation.
type UnifiedResult struct {
	Unified        string
	HasDifferences bool
	Hunks          []string
	OldLabel       string
	NewLabel       string
}

// UnifiedOptions configures unified diff computation.
type UnifiedOptions struct {
	OldLabel string
	NewLabel string
	Context  int
}

// DefaultUnifiedOptions returns sensible default diff options.
func DefaultUnifiedOptions() UnifiedOptions {
	return UnifiedOptions{
		OldLabel: "before",
		NewLabel: "after",
		Context:  3,
	}
}

// Unified computes a line-based unified diff between two rendered documents.
func Unified(oldDoc, newDoc string, opts UnifiedOptions) (*UnifiedResult, error) {
	ud := difflib.UnifiedDiff{
		A:        splitLines(oldDoc),
		B:        splitLines(newDoc),
		FromFile: opts.OldLabel,
		ToFile:   opts.NewLabel,
		Context:  opts.Context,
	}

	unified, err := difflib.GetUnifiedDiffString(ud)
	if err != nil {
		return nil, fmt.Errorf("computing diff: %w", err)
	}

	result := &UnifiedResult{
		Unified:        unified,
		HasDifferences: unified != "",
		OldLabel:       opts.OldLabel,
		NewLabel:       opts.NewLabel,
	}

	if result.HasDifferences {
		result.Hunks = extractHunks(unified)
	}

	return result, nil
}

// extractHunks splits unified diff output into individual hunks. The file
// header is not part of any hunk.
func extractHunks(unified string) []string {
	var (
		hunks   []string
		current strings.Builder
		inHunk  bool
	)

	for _, line := range strings.Split(strings.TrimSuffix(unified, "\n"), "\n") {
		if strings.HasPrefix(line, "@@") {
			if inHunk {
				hunks = append(hunks, current.String())
				current.Reset()
			}

			inHunk = true
		}

		if !inHunk {
			continue
		}

		current.WriteString(line)
		current.WriteString("\n")
	}

	if inHunk {
		hunks = append(hunks, current.String())
	}

	return hunks
}

// WriteUnified writes a formatted diff to w with optional ANSI colors.
func WriteUnified(w io.Writer, result *UnifiedResult, color bool) {
	if !result.HasDifferences {
		_, _ = fmt.Fprintln(w, "No differences found.")
		return
	}

	for _, line := range strings.Split(strings.TrimSuffix(result.Unified, "\n"), "\n") {
		if color {
			writeColorLine(w, line)
		} else {
			_, _ = fmt.Fprintln(w, line)
		}
	}
}

// writeColorLine writes a single diff line with ANSI color codes.
func writeColorLine(w io.Writer, line string) {
	const (
		red   = "\033[31m"
		green = "\033[32m"
		cyan  = "\033[36m"
		bold  = "\033[1m"
		reset = "\033[0m"
	)

	switch {
	case strings.HasPrefix(line, "---"), strings.HasPrefix(line, "+++"):
		_, _ = fmt.Fprintf(w, "%s%s%s\n", bold, line, reset)
	case strings.HasPrefix(line, "@@"):
		_, _ = fmt.Fprintf(w, "%s%s%s\n", cyan, line, reset)
	case strings.HasPrefix(line, "-"):
		_, _ = fmt.Fprintf(w, "%s%s%s\n", red, line, reset)
	case strings.HasPrefix(line, "+"):
		_, _ = fmt.Fprintf(w, "%s%s%s\n", green, line, reset)
	default:
		_, _ = fmt.Fprintln(w, line)
	}
}

// splitLines splits a string into lines for diff processing.
// Each element includes a trailing newline for difflib compatibility.
func splitLines(s string) []string {
	if s == "" {
		return []string{""}
	}

	return strings.SplitAfter(s, "\n")
}
