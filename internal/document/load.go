package document

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"unicode/utf8"

	json "github.com/goccy/go-json"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
	"gopkg.in/yaml.v3"

	"github.com/hupe1980/layoutfilter/internal/tree"
)

var errEmptyDocument = errors.New("empty document")

// Load reads the document at path. The format is derived from the file
// extension.
func Load(path string) (tree.Node, error) {
	return LoadFormat(path, FormatFromPath(path))
}

// LoadFormat reads the document at path in the given format.
func LoadFormat(path string, format Format) (tree.Node, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path is user-provided input file
	if err != nil {
		return nil, &IOError{Op: "read", Path: path, Err: err}
	}

	n, err := Parse(data, format)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Path = path
		}

		return nil, err
	}

	return n, nil
}

// Decode reads a whole document from r.
func Decode(r io.Reader, format Format) (tree.Node, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &IOError{Op: "read", Path: "-", Err: err}
	}

	return Parse(data, format)
}

// Parse decodes a UTF-8 document. A leading byte order mark is skipped.
func Parse(data []byte, format Format) (tree.Node, error) {
	if format == "" {
		format = FormatJSON
	}

	if !utf8.Valid(data) {
		return nil, &ParseError{Format: format, Err: errors.New("input is not valid UTF-8")}
	}

	data, _, err := transform.Bytes(unicode.UTF8BOM.NewDecoder(), data)
	if err != nil {
		return nil, &ParseError{Format: format, Err: err}
	}

	var n tree.Node

	switch format {
	case FormatYAML:
		n, err = parseYAML(data)
	default:
		n, err = parseJSON(data)
	}

	if err != nil {
		return nil, &ParseError{Format: format, Err: err}
	}

	return n, nil
}

// ---------------------------------------------------------------------------
// JSON
// ---------------------------------------------------------------------------

func parseJSON(data []byte) (tree.Node, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errEmptyDocument
	}

	// The token stream below does not check separators, so the whole
	// document is validated first. Numbers must fit a float64.
	if err := validateJSON(data); err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errEmptyDocument
		}

		return nil, err
	}

	n, err := readJSONValue(dec, tok)
	if err != nil {
		return nil, err
	}

	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		if err != nil {
			return nil, err
		}

		return nil, errors.New("unexpected data after top-level value")
	}

	return n, nil
}

func validateJSON(data []byte) error {
	var v any

	return json.Unmarshal(data, &v)
}

func readJSONValue(dec *json.Decoder, tok json.Token) (tree.Node, error) {
	switch v := tok.(type) {
	case json.Delim:
		switch v {
		case '{':
			return readJSONObject(dec)
		case '[':
			return readJSONArray(dec)
		default:
			return nil, fmt.Errorf("unexpected delimiter %q", rune(v))
		}
	case string:
		return tree.String(v), nil
	case json.Number:
		return tree.Number(v), nil
	case float64:
		return tree.Number(json.Number(strconv.FormatFloat(v, 'g', -1, 64))), nil
	case bool:
		return tree.Bool(v), nil
	case nil:
		return tree.Null(), nil
	default:
		return nil, fmt.Errorf("unexpected token %v", tok)
	}
}

func readJSONObject(dec *json.Decoder) (tree.Node, error) {
	m := tree.NewMap(0)

	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return nil, err
		}

		key, ok := keyTok.(string)
		if !ok {
			return nil, fmt.Errorf("object key must be a string, got %v", keyTok)
		}

		valTok, err := dec.Token()
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", key, err)
		}

		val, err := readJSONValue(dec, valTok)
		if err != nil {
			return nil, err
		}

		// Duplicate keys keep their first position and the last value.
		m.Set(key, val)
	}

	if err := expectDelim(dec, '}'); err != nil {
		return nil, err
	}

	return m, nil
}

func readJSONArray(dec *json.Decoder) (tree.Node, error) {
	s := tree.Seq{}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return nil, err
		}

		val, err := readJSONValue(dec, tok)
		if err != nil {
			return nil, err
		}

		s = append(s, val)
	}

	if err := expectDelim(dec, ']'); err != nil {
		return nil, err
	}

	return s, nil
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return io.ErrUnexpectedEOF
		}

		return err
	}

	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("expected %q, got %v", rune(want), tok)
	}

	return nil
}

// ---------------------------------------------------------------------------
// YAML
// ---------------------------------------------------------------------------

func parseYAML(data []byte) (tree.Node, error) {
	var doc yaml.Node

	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, err
	}

	if doc.Kind == 0 || len(doc.Content) == 0 {
		return nil, errEmptyDocument
	}

	return fromYAML(doc.Content[0])
}

func fromYAML(n *yaml.Node) (tree.Node, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return tree.Null(), nil
		}

		return fromYAML(n.Content[0])
	case yaml.AliasNode:
		return fromYAML(n.Alias)
	case yaml.MappingNode:
		m := tree.NewMap(len(n.Content) / 2)

		for i := 0; i+1 < len(n.Content); i += 2 {
			k, v := n.Content[i], n.Content[i+1]
			if k.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("line %d: mapping key must be a scalar", k.Line)
			}

			val, err := fromYAML(v)
			if err != nil {
				return nil, err
			}

			m.Set(k.Value, val)
		}

		return m, nil
	case yaml.SequenceNode:
		s := make(tree.Seq, 0, len(n.Content))

		for _, item := range n.Content {
			val, err := fromYAML(item)
			if err != nil {
				return nil, err
			}

			s = append(s, val)
		}

		return s, nil
	case yaml.ScalarNode:
		return yamlScalar(n)
	default:
		return nil, fmt.Errorf("line %d: unsupported YAML node kind %d", n.Line, n.Kind)
	}
}

func yamlScalar(n *yaml.Node) (tree.Node, error) {
	switch n.ShortTag() {
	case "!!null":
		return tree.Null(), nil
	case "!!bool":
		var b bool
		if err := n.Decode(&b); err != nil {
			return nil, err
		}

		return tree.Bool(b), nil
	case "!!int":
		var i int64
		if err := n.Decode(&i); err != nil {
			return nil, err
		}

		return tree.Number(json.Number(strconv.FormatInt(i, 10))), nil
	case "!!float":
		var f float64
		if err := n.Decode(&f); err != nil {
			return nil, err
		}

		if math.IsInf(f, 0) || math.IsNaN(f) {
			return nil, fmt.Errorf("line %d: %s has no JSON representation", n.Line, n.Value)
		}

		return tree.Number(json.Number(strconv.FormatFloat(f, 'g', -1, 64))), nil
	default:
		return tree.String(n.Value), nil
	}
}
