// Package diff compares two document trees.
//
// [Trees] walks two UI dumps in parallel and reports node-level changes by
// position; [Unified] produces a line diff of two rendered documents.
package diff

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/hupe1980/layoutfilter/internal/document"
	"github.com/hupe1980/layoutfilter/internal/tree"
)

// RootPath is the path of the top-level node.
const RootPath = "root"

// childrenKey is the key holding a node's child list.
const childrenKey = "children"

// Kind classifies a change.
type Kind string

// Change kinds.
const (
	Added   Kind = "added"
	Removed Kind = "removed"
	Changed Kind = "changed"
)

// Change describes one difference between two trees.
type Change struct {
	Kind Kind `json:"kind"`
	// Path locates the node, e.g. "root.children[2].children[0]".
	Path string `json:"path"`
	// Key is the compared attribute for Changed; empty when the node as a
	// whole differs.
	Key string `json:"key,omitempty"`
	Old string `json:"old,omitempty"`
	New string `json:"new,omitempty"`
}

// String renders the change as a single line.
func (c Change) String() string {
	switch c.Kind {
	case Added:
		return fmt.Sprintf("added at [%s] => %s", c.Path, c.New)
	case Removed:
		return fmt.Sprintf("removed at [%s] => %s", c.Path, c.Old)
	default:
		if c.Key == "" {
			return fmt.Sprintf("changed at [%s]: %s => %s", c.Path, c.Old, c.New)
		}

		return fmt.Sprintf("changed at [%s] attribute [%s]: %s => %s", c.Path, c.Key, c.Old, c.New)
	}
}

// Trees compares before and after depth first. Children are matched by
// index only, so an inserted sibling shows up as a change of every later
// sibling. For mapping nodes only the given keys are compared.
func Trees(before, after tree.Node, keys []string) []Change {
	var changes []Change

	walk(before, after, RootPath, keys, &changes)

	return changes
}

func walk(before, after tree.Node, path string, keys []string, out *[]Change) {
	bAbsent, aAbsent := absent(before), absent(after)

	switch {
	case bAbsent && aAbsent:
		return
	case bAbsent:
		*out = append(*out, Change{Kind: Added, Path: path, New: render(after)})
		return
	case aAbsent:
		*out = append(*out, Change{Kind: Removed, Path: path, Old: render(before)})
		return
	}

	bm, bIsMap := before.(*tree.Map)
	am, aIsMap := after.(*tree.Map)

	if !bIsMap || !aIsMap {
		if !tree.Equal(before, after) {
			*out = append(*out, Change{Kind: Changed, Path: path, Old: render(before), New: render(after)})
		}

		return
	}

	for _, k := range keys {
		bv, _ := bm.Get(k)
		av, _ := am.Get(k)

		if !tree.Equal(bv, av) {
			*out = append(*out, Change{Kind: Changed, Path: path, Key: k, Old: render(bv), New: render(av)})
		}
	}

	bc, ac := children(bm), children(am)

	for i := range max(len(bc), len(ac)) {
		var bChild, aChild tree.Node

		if i < len(bc) {
			bChild = bc[i]
		}

		if i < len(ac) {
			aChild = ac[i]
		}

		walk(bChild, aChild, fmt.Sprintf("%s.%s[%d]", path, childrenKey, i), keys, out)
	}
}

func absent(n tree.Node) bool {
	if n == nil {
		return true
	}

	s, ok := n.(tree.Scalar)

	return ok && s.IsNull()
}

func children(m *tree.Map) tree.Seq {
	v, ok := m.Get(childrenKey)
	if !ok {
		return nil
	}

	s, _ := v.(tree.Seq)

	return s
}

// render returns the compact JSON form of n, or "<missing>" for nil.
func render(n tree.Node) string {
	if n == nil {
		return "<missing>"
	}

	data, err := document.Encode(n, document.EncodeOptions{Format: document.FormatJSON})
	if err != nil {
		return fmt.Sprintf("%v", n)
	}

	return string(bytes.TrimSuffix(data, []byte("\n")))
}

// Summary returns a human-readable one-line summary.
func Summary(changes []Change) string {
	var added, removed, changed int

	for _, c := range changes {
		switch c.Kind {
		case Added:
			added++
		case Removed:
			removed++
		case Changed:
			changed++
		}
	}

	if added == 0 && removed == 0 && changed == 0 {
		return "no differences"
	}

	parts := make([]string, 0, 3)

	if added > 0 {
		parts = append(parts, fmt.Sprintf("+%d node(s) added", added))
	}

	if removed > 0 {
		parts = append(parts, fmt.Sprintf("-%d node(s) removed", removed))
	}

	if changed > 0 {
		parts = append(parts, fmt.Sprintf("~%d attribute(s) changed", changed))
	}

	return strings.Join(parts, ", ")
}

// WriteChanges writes one line per change followed by the summary.
func WriteChanges(w io.Writer, changes []Change) {
	for _, c := range changes {
		_, _ = fmt.Fprintln(w, c.String())
	}

	_, _ = fmt.Fprintln(w, Summary(changes))
}
