package document

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/layoutfilter/internal/tree"
)

// writeTemp writes content to name inside a temporary directory and returns
// the path.
func writeTemp(t *testing.T, name, content string) string {
	t.Helper()

	p := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o600))

	return p
}

func TestLoad_JSONPreservesKeyOrder(t *testing.T) {
	p := writeTemp(t, "layout.json", `{"z": 1, "a": {"y": true, "b": null}, "m": ["x", 2.50]}`)

	n, err := Load(p)
	require.NoError(t, err)

	m := n.(*tree.Map)
	assert.Equal(t, []string{"z", "a", "m"}, m.Keys())

	a, _ := m.Get("a")
	assert.Equal(t, []string{"y", "b"}, a.(*tree.Map).Keys())

	seq, _ := m.Get("m")
	assert.True(t, tree.Equal(tree.Seq{tree.String("x"), tree.Number("2.50")}, seq))
}

func TestLoad_JSONScalarsAndRootSequence(t *testing.T) {
	n, err := Parse([]byte(`[1, "two", false, null, {}, []]`), FormatJSON)
	require.NoError(t, err)

	want := tree.Seq{
		tree.Number("1"),
		tree.String("two"),
		tree.Bool(false),
		tree.Null(),
		tree.NewMap(0),
		tree.Seq{},
	}
	assert.True(t, tree.Equal(want, n))
}

func TestLoad_JSONDuplicateKeyKeepsFirstPositionLastValue(t *testing.T) {
	n, err := Parse([]byte(`{"a": 1, "b": 2, "a": 3}`), FormatJSON)
	require.NoError(t, err)

	m := n.(*tree.Map)
	assert.Equal(t, []string{"a", "b"}, m.Keys())

	a, _ := m.Get("a")
	assert.Equal(t, tree.Number("3"), a)
}

func TestLoad_NonASCII(t *testing.T) {
	p := writeTemp(t, "layout.json", `{"text": "首页 ✓"}`)

	n, err := Load(p)
	require.NoError(t, err)

	v, _ := n.(*tree.Map).Get("text")
	assert.Equal(t, tree.String("首页 ✓"), v)
}

func TestLoad_SkipsByteOrderMark(t *testing.T) {
	p := writeTemp(t, "bom.json", "\ufeff"+`{"id": "x"}`)

	n, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, 1, n.(*tree.Map).Len())
}

func TestLoad_YAML(t *testing.T) {
	p := writeTemp(t, "layout.yaml", `
id: root
count: 3
ratio: 0.5
visible: yes-string
enabled: true
missing: ~
children:
  - id: a
    text: "007"
  - &shared
    id: b
  - *shared
`)

	n, err := Load(p)
	require.NoError(t, err)

	m := n.(*tree.Map)
	assert.Equal(t, []string{"id", "count", "ratio", "visible", "enabled", "missing", "children"}, m.Keys())

	count, _ := m.Get("count")
	assert.Equal(t, tree.Number("3"), count)

	ratio, _ := m.Get("ratio")
	assert.Equal(t, tree.Number("0.5"), ratio)

	visible, _ := m.Get("visible")
	assert.Equal(t, tree.String("yes-string"), visible)

	enabled, _ := m.Get("enabled")
	assert.Equal(t, tree.Bool(true), enabled)

	missing, _ := m.Get("missing")
	assert.Equal(t, tree.Null(), missing)

	children, _ := m.Get("children")
	require.Len(t, children.(tree.Seq), 3)

	text, _ := children.(tree.Seq)[0].(*tree.Map).Get("text")
	assert.Equal(t, tree.String("007"), text)
	assert.True(t, tree.Equal(children.(tree.Seq)[1], children.(tree.Seq)[2]))
}

func TestLoad_MissingFileIsIOError(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	require.Error(t, err)

	var ioErr *IOError
	require.ErrorAs(t, err, &ioErr)
	assert.Equal(t, "read", ioErr.Op)
	assert.True(t, errors.Is(err, fs.ErrNotExist))
}

func TestLoad_DirectoryIsIOError(t *testing.T) {
	_, err := Load(t.TempDir())

	var ioErr *IOError
	assert.ErrorAs(t, err, &ioErr)
}

func TestLoad_ParseErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"truncated object", "a.json", `{"id": 1`},
		{"trailing comma garbage", "b.json", `{"id": 1}}`},
		{"trailing value", "c.json", `{"id": 1} {"id": 2}`},
		{"bare word", "d.json", `layout`},
		{"empty", "e.json", ``},
		{"whitespace only", "f.json", "  \n"},
		{"invalid utf8", "g.json", "{\"text\": \"\xff\"}"},
		{"missing colon", "j.json", `{"a" 1}`},
		{"missing comma between members", "k.json", `{"a":1 "b":2}`},
		{"missing comma between elements", "l.json", `[1 2]`},
		{"comma instead of colon", "m.json", `{"a",1}`},
		{"double colon", "n.json", `{"a"::1}`},
		{"double comma", "o.json", `[1,,2]`},
		{"missing comma before children", "p.json", `{"id":1 "children":[]}`},
		{"number out of range", "q.json", `{"a":1e400}`},
		{"yaml syntax", "h.yaml", "a: [1, 2"},
		{"empty yaml", "i.yaml", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := writeTemp(t, tt.file, tt.content)

			_, err := Load(p)
			require.Error(t, err)

			var parseErr *ParseError
			require.ErrorAs(t, err, &parseErr)
			assert.Equal(t, p, parseErr.Path)
			assert.Equal(t, FormatFromPath(p), parseErr.Format)
			assert.Contains(t, err.Error(), p)
		})
	}
}

func TestDecode_Reader(t *testing.T) {
	n, err := Decode(strings.NewReader(`{"id": 1}`), "")
	require.NoError(t, err)
	assert.Equal(t, 1, n.(*tree.Map).Len())

	_, err = Decode(strings.NewReader(`{`), FormatJSON)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	assert.Empty(t, parseErr.Path)
	assert.True(t, strings.HasPrefix(err.Error(), "parsing json:"))
}

func TestFormatFromPath(t *testing.T) {
	assert.Equal(t, FormatJSON, FormatFromPath("layout.json"))
	assert.Equal(t, FormatJSON, FormatFromPath("layout"))
	assert.Equal(t, FormatYAML, FormatFromPath("dump.YAML"))
	assert.Equal(t, FormatYAML, FormatFromPath("dump.yml"))
}

func TestParseFormat(t *testing.T) {
	for in, want := range map[string]Format{"": "", "json": FormatJSON, "YAML": FormatYAML, "yml": FormatYAML} {
		got, err := ParseFormat(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := ParseFormat("xml")
	assert.ErrorContains(t, err, "invalid format")
}
