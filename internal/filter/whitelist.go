package filter

import (
	"slices"

	"k8s.io/apimachinery/pkg/util/sets"
)

// DefaultKeys are the keys kept from a UI layout dump by default.
var DefaultKeys = []string{ChildrenKey, "id", "desc", "text"}

// Whitelist is an immutable set of keys. The zero value keeps nothing.
type Whitelist struct {
	keys sets.Set[string]
	// order holds the keys as first declared.
	order []string
}

// NewWhitelist returns a whitelist holding keys. Empty and repeated keys
// are ignored.
func NewWhitelist(keys ...string) Whitelist {
	s := sets.New[string]()
	order := make([]string, 0, len(keys))

	for _, k := range keys {
		if k != "" && !s.Has(k) {
			s.Insert(k)
			order = append(order, k)
		}
	}

	return Whitelist{keys: s, order: order}
}

// DefaultWhitelist returns the whitelist for [DefaultKeys].
func DefaultWhitelist() Whitelist {
	return NewWhitelist(DefaultKeys...)
}

// Has reports whether key is whitelisted.
func (w Whitelist) Has(key string) bool {
	return w.keys.Has(key)
}

// Len returns the number of whitelisted keys.
func (w Whitelist) Len() int {
	return w.keys.Len()
}

// Keys returns the whitelisted keys in sorted order.
func (w Whitelist) Keys() []string {
	return sets.List(w.keys)
}

// Declared returns the whitelisted keys in the order they were declared.
func (w Whitelist) Declared() []string {
	return slices.Clone(w.order)
}

// With returns a new whitelist extended by keys; w is left unchanged.
func (w Whitelist) With(keys ...string) Whitelist {
	return NewWhitelist(append(w.Declared(), keys...)...)
}
