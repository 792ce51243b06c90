package document

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	gojson "github.com/goccy/go-json"
	"gopkg.in/yaml.v3"

	"github.com/hupe1980/layoutfilter/internal/tree"
)

// DefaultIndent is the number of spaces per indentation level.
const DefaultIndent = 4

// EncodeOptions configures document rendering.
type EncodeOptions struct {
	// Format selects the output format (default: JSON).
	Format Format
	// Indent is the number of spaces per indentation level. Zero renders
	// JSON on a single line; YAML always indents at least two spaces.
	Indent int
}

// DefaultEncodeOptions returns human-readable JSON settings.
func DefaultEncodeOptions() EncodeOptions {
	return EncodeOptions{
		Format: FormatJSON,
		Indent: DefaultIndent,
	}
}

// Encode renders n. Keys are written in insertion order and non-ASCII text
// is written literally. The output ends with a newline.
func Encode(n tree.Node, opts EncodeOptions) ([]byte, error) {
	if opts.Indent < 0 {
		return nil, fmt.Errorf("invalid indent %d", opts.Indent)
	}

	if opts.Format == FormatYAML {
		return encodeYAML(n, opts.Indent)
	}

	var buf bytes.Buffer

	w := &jsonWriter{buf: &buf, indent: strings.Repeat(" ", opts.Indent), pretty: opts.Indent > 0}
	if err := w.value(n, 0); err != nil {
		return nil, err
	}

	buf.WriteByte('\n')

	return buf.Bytes(), nil
}

// ---------------------------------------------------------------------------
// JSON
// ---------------------------------------------------------------------------

type jsonWriter struct {
	buf    *bytes.Buffer
	indent string
	pretty bool
}

func (w *jsonWriter) value(n tree.Node, level int) error {
	switch val := n.(type) {
	case nil:
		w.buf.WriteString("null")
	case tree.Scalar:
		return w.scalar(val)
	case *tree.Map:
		if val.Len() == 0 {
			w.buf.WriteString("{}")
			return nil
		}

		w.buf.WriteByte('{')

		for i, e := range val.Entries() {
			if i > 0 {
				w.buf.WriteByte(',')
			}

			w.newline(level + 1)

			if err := w.quote(e.Key); err != nil {
				return err
			}

			w.buf.WriteByte(':')

			if w.pretty {
				w.buf.WriteByte(' ')
			}

			if err := w.value(e.Value, level+1); err != nil {
				return err
			}
		}

		w.newline(level)
		w.buf.WriteByte('}')
	case tree.Seq:
		if len(val) == 0 {
			w.buf.WriteString("[]")
			return nil
		}

		w.buf.WriteByte('[')

		for i, item := range val {
			if i > 0 {
				w.buf.WriteByte(',')
			}

			w.newline(level + 1)

			if err := w.value(item, level+1); err != nil {
				return err
			}
		}

		w.newline(level)
		w.buf.WriteByte(']')
	default:
		return fmt.Errorf("unsupported node type %T", n)
	}

	return nil
}

func (w *jsonWriter) scalar(s tree.Scalar) error {
	switch v := s.Value().(type) {
	case nil:
		w.buf.WriteString("null")
	case bool:
		if v {
			w.buf.WriteString("true")
		} else {
			w.buf.WriteString("false")
		}
	case json.Number:
		if !gojson.Valid([]byte(v)) {
			return fmt.Errorf("invalid number literal %q", string(v))
		}

		w.buf.WriteString(string(v))
	case string:
		return w.quote(v)
	default:
		return fmt.Errorf("unsupported scalar type %T", v)
	}

	return nil
}

// quote writes s as a JSON string without escaping HTML characters or
// non-ASCII text, line and paragraph separators included.
func (w *jsonWriter) quote(s string) error {
	var b bytes.Buffer

	enc := gojson.NewEncoder(&b)
	enc.SetEscapeHTML(false)

	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encoding string: %w", err)
	}

	w.buf.Write(unescapeLineSeparators(bytes.TrimSuffix(b.Bytes(), []byte("\n"))))

	return nil
}

// unescapeLineSeparators writes U+2028 and U+2029 back as literal text in a
// quoted JSON string.
func unescapeLineSeparators(quoted []byte) []byte {
	if !bytes.Contains(quoted, []byte(`\u202`)) {
		return quoted
	}

	out := make([]byte, 0, len(quoted))

	for i := 0; i < len(quoted); i++ {
		if quoted[i] != '\\' {
			out = append(out, quoted[i])
			continue
		}

		if i+5 < len(quoted) {
			switch string(quoted[i+1 : i+6]) {
			case "u2028":
				out = append(out, "\u2028"...)
				i += 5

				continue
			case "u2029":
				out = append(out, "\u2029"...)
				i += 5

				continue
			}
		}

		// Other escapes are copied whole.
		out = append(out, quoted[i], quoted[i+1])
		i++
	}

	return out
}

func (w *jsonWriter) newline(level int) {
	if !w.pretty {
		return
	}

	w.buf.WriteByte('\n')

	for range level {
		w.buf.WriteString(w.indent)
	}
}

// ---------------------------------------------------------------------------
// YAML
// ---------------------------------------------------------------------------

func encodeYAML(n tree.Node, indent int) ([]byte, error) {
	if indent < 2 {
		indent = 2
	}

	node, err := toYAML(n)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(indent)

	if err := enc.Encode(node); err != nil {
		return nil, fmt.Errorf("serializing YAML: %w", err)
	}

	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("serializing YAML: %w", err)
	}

	return buf.Bytes(), nil
}

func toYAML(n tree.Node) (*yaml.Node, error) {
	switch val := n.(type) {
	case nil:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
	case *tree.Map:
		out := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}

		for _, e := range val.Entries() {
			v, err := toYAML(e.Value)
			if err != nil {
				return nil, err
			}

			out.Content = append(out.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.Key}, v)
		}

		return out, nil
	case tree.Seq:
		out := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}

		for _, item := range val {
			v, err := toYAML(item)
			if err != nil {
				return nil, err
			}

			out.Content = append(out.Content, v)
		}

		return out, nil
	case tree.Scalar:
		return yamlScalarNode(val)
	default:
		return nil, fmt.Errorf("unsupported node type %T", n)
	}
}

func yamlScalarNode(s tree.Scalar) (*yaml.Node, error) {
	switch v := s.Value().(type) {
	case nil:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!null", Value: "null"}, nil
	case bool:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!bool", Value: fmt.Sprint(v)}, nil
	case json.Number:
		tag := "!!int"
		if strings.ContainsAny(string(v), ".eE") {
			tag = "!!float"
		}

		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: string(v)}, nil
	case string:
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: v}, nil
	default:
		return nil, fmt.Errorf("unsupported scalar type %T", v)
	}
}
