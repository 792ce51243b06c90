package tree

import (
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
)

// IsEmpty reports whether n is an empty mapping or an empty sequence.
// Scalars, including null, are never empty.
func IsEmpty(n Node) bool {
	switch val := n.(type) {
	case *Map:
		return val.Len() == 0
	case Seq:
		return len(val) == 0
	default:
		return false
	}
}

// Equal reports whether a and b are structurally equal. Mapping key order
// is significant.
func Equal(a, b Node) bool {
	switch av := a.(type) {
	case *Map:
		bv, ok := b.(*Map)
		if !ok || av.Len() != bv.Len() {
			return false
		}

		be := bv.Entries()
		for i, e := range av.Entries() {
			if e.Key != be[i].Key || !Equal(e.Value, be[i].Value) {
				return false
			}
		}

		return true
	case Seq:
		bv, ok := b.(Seq)
		if !ok || len(av) != len(bv) {
			return false
		}

		for i := range av {
			if !Equal(av[i], bv[i]) {
				return false
			}
		}

		return true
	case Scalar:
		bv, ok := b.(Scalar)
		return ok && av.v == bv.v
	case nil:
		return b == nil
	default:
		return false
	}
}

// WalkKeys calls fn for every mapping key at every depth, in document order.
func WalkKeys(n Node, fn func(key string)) {
	switch val := n.(type) {
	case *Map:
		for _, e := range val.Entries() {
			fn(e.Key)
			WalkKeys(e.Value, fn)
		}
	case Seq:
		for _, item := range val {
			WalkKeys(item, fn)
		}
	}
}

// Count returns the number of mapping nodes in n, including n itself.
func Count(n Node) int {
	total := 0

	switch val := n.(type) {
	case *Map:
		total++

		for _, e := range val.Entries() {
			total += Count(e.Value)
		}
	case Seq:
		for _, item := range val {
			total += Count(item)
		}
	}

	return total
}

// FromGo converts plain Go values into a Node. Map keys are sorted since Go
// maps carry no order. Supported leaves are string, bool, nil, json.Number
// and the built-in integer and float types.
func FromGo(v any) (Node, error) {
	switch val := v.(type) {
	case Node:
		return val, nil
	case map[string]any:
		keys := make([]string, 0, len(val))
		for k := range val {
			keys = append(keys, k)
		}

		sort.Strings(keys)

		m := NewMap(len(keys))

		for _, k := range keys {
			child, err := FromGo(val[k])
			if err != nil {
				return nil, fmt.Errorf("key %q: %w", k, err)
			}

			m.Set(k, child)
		}

		return m, nil
	case []any:
		s := make(Seq, len(val))

		for i, item := range val {
			child, err := FromGo(item)
			if err != nil {
				return nil, fmt.Errorf("index %d: %w", i, err)
			}

			s[i] = child
		}

		return s, nil
	case nil:
		return Null(), nil
	case string:
		return String(val), nil
	case bool:
		return Bool(val), nil
	case json.Number:
		return Number(val), nil
	case int:
		return Number(json.Number(strconv.Itoa(val))), nil
	case int64:
		return Number(json.Number(strconv.FormatInt(val, 10))), nil
	case float64:
		return Number(json.Number(strconv.FormatFloat(val, 'g', -1, 64))), nil
	default:
		return nil, fmt.Errorf("unsupported value of type %T", v)
	}
}

// MustFromGo is like FromGo but panics on unsupported values.
func MustFromGo(v any) Node {
	n, err := FromGo(v)
	if err != nil {
		panic(err)
	}

	return n
}
