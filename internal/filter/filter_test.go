package filter

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/layoutfilter/internal/tree"
)

// ordered builds a mapping from alternating key/value arguments so tests can
// control key order.
func ordered(kv ...any) *tree.Map {
	m := tree.NewMap(len(kv) / 2)

	for i := 0; i < len(kv); i += 2 {
		m.Set(kv[i].(string), tree.MustFromGo(kv[i+1]))
	}

	return m
}

func assertTreeEqual(t *testing.T, want, got tree.Node) {
	t.Helper()
	assert.True(t, tree.Equal(want, got), "want %#v\ngot  %#v", want, got)
}

// ---------------------------------------------------------------------------
// Scenarios
// ---------------------------------------------------------------------------

func TestFilter_Scenarios(t *testing.T) {
	tests := []struct {
		name string
		in   tree.Node
		want tree.Node
	}{
		{
			name: "whitelisted scalar kept, children kept empty",
			in:   ordered("id", 1, "foo", "bar", "children", []any{}),
			want: ordered("id", 1, "children", []any{}),
		},
		{
			name: "wrapper survives with whitelisted content",
			in:   ordered("wrapper", ordered("id", 2, "junk", "x")),
			want: ordered("wrapper", ordered("id", 2)),
		},
		{
			name: "wrapper dropped when empty",
			in:   ordered("wrapper", ordered("junk", "x")),
			want: tree.NewMap(0),
		},
		{
			name: "non-whitelisted scalar dropped",
			in:   ordered("id", 5, "desc", "hello", "text", "world", "extra", 123),
			want: ordered("id", 5, "desc", "hello", "text", "world"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertTreeEqual(t, tt.want, Filter(tt.in, DefaultWhitelist()))
		})
	}
}

// ---------------------------------------------------------------------------
// Shape dispatch
// ---------------------------------------------------------------------------

func TestFilter_NonMappingReturnedUnchanged(t *testing.T) {
	inputs := []tree.Node{
		tree.String("x"),
		tree.Number("1"),
		tree.Bool(true),
		tree.Null(),
		// A root sequence of mappings is not filtered.
		tree.Seq{ordered("id", 1, "junk", 2)},
	}

	for _, in := range inputs {
		assert.Equal(t, in, Filter(in, DefaultWhitelist()))
	}
}

func TestFilter_WhitelistedValueCopiedVerbatim(t *testing.T) {
	in := ordered("desc", ordered("junk", "x", "nested", []any{1, 2}))

	got := Filter(in, DefaultWhitelist())
	assertTreeEqual(t, in, got)
}

func TestFilter_ChildrenFilteredPerElement(t *testing.T) {
	in := ordered("children", []any{
		ordered("id", "a", "className", "Button"),
		"loose",
		ordered("className", "View"),
		[]any{ordered("junk", 1)},
	})

	got := Filter(in, DefaultWhitelist()).(*tree.Map)

	children, ok := got.Get("children")
	require.True(t, ok)

	seq := children.(tree.Seq)
	require.Len(t, seq, 4)
	assertTreeEqual(t, ordered("id", "a"), seq[0])
	assertTreeEqual(t, tree.String("loose"), seq[1])
	assertTreeEqual(t, tree.NewMap(0), seq[2])
	assertTreeEqual(t, tree.Seq{ordered("junk", 1)}, seq[3])
}

func TestFilter_ChildrenNotSequenceCopied(t *testing.T) {
	in := ordered("children", "none")
	assertTreeEqual(t, in, Filter(in, DefaultWhitelist()))
}

func TestFilter_SequenceUnderNonWhitelistedKey(t *testing.T) {
	in := ordered("items", []any{
		"scalar",
		ordered("id", 1, "junk", true),
		ordered("junk", true),
		[]any{"nested", "list"},
		[]any{},
		nil,
	})

	want := ordered("items", []any{
		ordered("id", 1),
		[]any{"nested", "list"},
	})

	assertTreeEqual(t, want, Filter(in, DefaultWhitelist()))
}

func TestFilter_SequenceDroppedWhenNothingSurvives(t *testing.T) {
	in := ordered("items", []any{"a", ordered("junk", 1), []any{}}, "id", 7)
	assertTreeEqual(t, ordered("id", 7), Filter(in, DefaultWhitelist()))
}

func TestFilter_PreservesKeyOrder(t *testing.T) {
	in := ordered("text", "t", "zz", ordered("id", 1), "id", 2, "desc", "d")

	got := Filter(in, DefaultWhitelist()).(*tree.Map)
	assert.Equal(t, []string{"text", "zz", "id", "desc"}, got.Keys())
}

func TestFilter_DoesNotMutateInput(t *testing.T) {
	in := ordered(
		"junk", 1,
		"wrap", ordered("id", 1, "junk", 2),
		"children", []any{ordered("id", 3, "junk", 4)},
	)
	snapshot := tree.Clone(in)

	_ = Filter(in, DefaultWhitelist())

	assertTreeEqual(t, snapshot, in)
}

func TestFilter_CustomWhitelist(t *testing.T) {
	in := ordered("name", "n", "id", 1, "children", []any{ordered("name", "c", "id", 2)})

	// children is not whitelisted here, so it survives only as a wrapper
	// around the nested names.
	got := Filter(in, NewWhitelist("name"))
	assertTreeEqual(t, ordered("name", "n", "children", []any{ordered("name", "c")}), got)
}

func TestFilter_EmptyWhitelistKeepsNothing(t *testing.T) {
	in := ordered("id", 1, "wrap", ordered("id", 2))
	assertTreeEqual(t, tree.NewMap(0), Filter(in, Whitelist{}))
}

// ---------------------------------------------------------------------------
// Properties
// ---------------------------------------------------------------------------

func layoutDump() tree.Node {
	leaf := func(id string) *tree.Map {
		return ordered(
			"className", "android.widget.TextView",
			"id", id,
			"text", "文本 "+id,
			"desc", "",
			"bounds", "Rect(0, 0 - 10, 10)",
			"clickable", false,
			"children", []any{},
		)
	}

	return ordered(
		"className", "android.widget.FrameLayout",
		"id", "root",
		"meta", ordered("device", "pixel", "extras", ordered("id", "meta-id")),
		"windows", []any{
			ordered("title", "main", "root", ordered("children", []any{leaf("w1")})),
			"ignored",
		},
		"children", []any{
			leaf("a"),
			ordered("className", "LinearLayout", "children", []any{leaf("b"), leaf("c")}),
			ordered("bounds", "x"),
		},
	)
}

func TestFilter_Idempotent(t *testing.T) {
	w := DefaultWhitelist()
	once := Filter(layoutDump(), w)
	twice := Filter(once, w)

	assertTreeEqual(t, once, twice)
}

func TestFilter_KeyClosure(t *testing.T) {
	w := DefaultWhitelist()
	out := Filter(layoutDump(), w)

	// Every key is either whitelisted or a wrapper leading to one.
	var check func(n tree.Node)
	check = func(n tree.Node) {
		m, ok := n.(*tree.Map)
		if !ok {
			if s, isSeq := n.(tree.Seq); isSeq {
				for _, item := range s {
					check(item)
				}
			}

			return
		}

		for _, e := range m.Entries() {
			if w.Has(e.Key) {
				if e.Key == ChildrenKey {
					check(e.Value)
				}

				continue
			}

			assert.False(t, tree.IsEmpty(e.Value), "wrapper %q must not be empty", e.Key)

			var whitelisted int
			tree.WalkKeys(e.Value, func(k string) {
				if w.Has(k) {
					whitelisted++
				}
			})
			assert.Positive(t, whitelisted, "wrapper %q must contain whitelisted keys", e.Key)
			check(e.Value)
		}
	}

	check(out)
}

func TestFilter_ChildrenLengthInvariant(t *testing.T) {
	in := layoutDump()
	out := Filter(in, DefaultWhitelist())

	var walk func(a, b tree.Node)
	walk = func(a, b tree.Node) {
		am, ok := a.(*tree.Map)
		if !ok {
			return
		}

		bm := b.(*tree.Map)

		ac, ok := am.Get("children")
		if !ok {
			return
		}

		bc, ok := bm.Get("children")
		require.True(t, ok)
		require.Len(t, bc.(tree.Seq), len(ac.(tree.Seq)))

		for i := range ac.(tree.Seq) {
			walk(ac.(tree.Seq)[i], bc.(tree.Seq)[i])
		}
	}

	walk(in, out)
}

func TestFilter_EmptinessPruning(t *testing.T) {
	out := Filter(layoutDump(), DefaultWhitelist()).(*tree.Map)

	_, hasClass := out.Get("className")
	assert.False(t, hasClass)

	meta, ok := out.Get("meta")
	require.True(t, ok)
	assertTreeEqual(t, ordered("extras", ordered("id", "meta-id")), meta)

	windows, ok := out.Get("windows")
	require.True(t, ok)
	require.Len(t, windows.(tree.Seq), 1)
}

func TestRun_Stats(t *testing.T) {
	in := ordered("id", 1, "wrap", ordered("junk", 1), "children", []any{ordered("id", 2)})

	out, stats := Run(in, DefaultWhitelist())
	assertTreeEqual(t, ordered("id", 1, "children", []any{ordered("id", 2)}), out)
	assert.Equal(t, 3, stats.NodesIn)
	assert.Equal(t, 2, stats.NodesOut)
}
