// Package tree defines the untyped document model shared by the loader,
// the filter and the writer.
//
// A [Node] is exactly one of [*Map], [Seq] or [Scalar]. Mappings keep their
// keys in insertion order so that a document can be written back with the
// same key order it was read with.
package tree

import (
	"encoding/json"
)

// Node is a value in a document tree. The interface is sealed: the only
// implementations are *Map, Seq and Scalar.
type Node interface {
	node()
}

// Entry is a single key/value pair of a Map.
type Entry struct {
	Key   string
	Value Node
}

// Map is an insertion-ordered mapping from string keys to nodes.
type Map struct {
	entries []Entry
	index   map[string]int
}

// Seq is an ordered sequence of nodes.
type Seq []Node

// Scalar wraps a leaf value: string, json.Number, bool or nil.
type Scalar struct {
	v any
}

func (*Map) node() {}
func (Seq) node() {}
func (Scalar) node() {}

// NewMap returns an empty mapping with room for size entries.
func NewMap(size int) *Map {
	return &Map{
		entries: make([]Entry, 0, size),
		index:   make(map[string]int, size),
	}
}

// Set stores value under key. A new key is appended; an existing key keeps
// its position and has its value replaced.
func (m *Map) Set(key string, value Node) {
	if m.index == nil {
		m.index = make(map[string]int)
	}

	if i, ok := m.index[key]; ok {
		m.entries[i].Value = value
		return
	}

	m.index[key] = len(m.entries)
	m.entries = append(m.entries, Entry{Key: key, Value: value})
}

// Get returns the value stored under key.
func (m *Map) Get(key string) (Node, bool) {
	if m == nil {
		return nil, false
	}

	i, ok := m.index[key]
	if !ok {
		return nil, false
	}

	return m.entries[i].Value, true
}

// Len returns the number of entries.
func (m *Map) Len() int {
	if m == nil {
		return 0
	}

	return len(m.entries)
}

// Entries returns the entries in insertion order. The returned slice must
// not be modified.
func (m *Map) Entries() []Entry {
	if m == nil {
		return nil
	}

	return m.entries
}

// Keys returns the keys in insertion order.
func (m *Map) Keys() []string {
	keys := make([]string, 0, m.Len())
	for _, e := range m.Entries() {
		keys = append(keys, e.Key)
	}

	return keys
}

// String returns a string scalar.
func String(s string) Scalar { return Scalar{v: s} }

// Number returns a numeric scalar holding the literal verbatim.
func Number(n json.Number) Scalar { return Scalar{v: n} }

// Bool returns a boolean scalar.
func Bool(b bool) Scalar { return Scalar{v: b} }

// Null returns the null scalar.
func Null() Scalar { return Scalar{} }

// Value returns the wrapped Go value: string, json.Number, bool or nil.
func (s Scalar) Value() any { return s.v }

// IsNull reports whether s is the null scalar.
func (s Scalar) IsNull() bool { return s.v == nil }
