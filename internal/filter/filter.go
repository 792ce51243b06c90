package filter

import (
	"github.com/hupe1980/layoutfilter/internal/tree"
)

// ChildrenKey is the whitelisted key whose sequence elements are filtered
// recursively instead of being copied verbatim.
const ChildrenKey = "children"

// Filter returns a new tree holding only the keys of node that are in w,
// plus the non-whitelisted wrappers that still contain whitelisted content.
//
// Only mappings are filtered. Any other node, including a sequence passed
// at the top level, is returned unchanged. node itself is never modified.
func Filter(node tree.Node, w Whitelist) tree.Node {
	m, ok := node.(*tree.Map)
	if !ok {
		return node
	}

	out := tree.NewMap(m.Len())

	for _, e := range m.Entries() {
		if w.Has(e.Key) {
			out.Set(e.Key, keepWhitelisted(e.Key, e.Value, w))
			continue
		}

		switch val := e.Value.(type) {
		case *tree.Map:
			if sub := Filter(val, w); !tree.IsEmpty(sub) {
				out.Set(e.Key, sub)
			}
		case tree.Seq:
			if sub := filterSeq(val, w); len(sub) > 0 {
				out.Set(e.Key, sub)
			}
		}
	}

	return out
}

// keepWhitelisted returns the output value of a whitelisted key. Children
// are filtered one to one; a children value that is not a sequence and any
// other whitelisted value are copied unchanged.
func keepWhitelisted(key string, value tree.Node, w Whitelist) tree.Node {
	if key != ChildrenKey {
		return value
	}

	children, ok := value.(tree.Seq)
	if !ok {
		return value
	}

	out := make(tree.Seq, len(children))
	for i, child := range children {
		out[i] = Filter(child, w)
	}

	return out
}

// filterSeq filters the container elements of a sequence found under a
// non-whitelisted key. Scalar elements and empty results are dropped.
func filterSeq(seq tree.Seq, w Whitelist) tree.Seq {
	var out tree.Seq

	for _, item := range seq {
		switch item.(type) {
		case *tree.Map, tree.Seq:
			if sub := Filter(item, w); !tree.IsEmpty(sub) {
				out = append(out, sub)
			}
		}
	}

	return out
}

// Stats summarises a filter run.
type Stats struct {
	// NodesIn is the number of mappings in the input tree.
	NodesIn int
	// NodesOut is the number of mappings in the filtered tree.
	NodesOut int
}

// Run filters node and reports how many mappings survived.
func Run(node tree.Node, w Whitelist) (tree.Node, Stats) {
	out := Filter(node, w)

	return out, Stats{NodesIn: tree.Count(node), NodesOut: tree.Count(out)}
}
