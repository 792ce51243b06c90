package tree

// Clone performs a deep copy of n. Scalars are immutable and shared.
func Clone(n Node) Node {
	switch val := n.(type) {
	case *Map:
		if val == nil {
			return (*Map)(nil)
		}

		dst := NewMap(val.Len())
		for _, e := range val.Entries() {
			dst.Set(e.Key, Clone(e.Value))
		}

		return dst
	case Seq:
		if val == nil {
			return Seq(nil)
		}

		dst := make(Seq, len(val))
		for i, item := range val {
			dst[i] = Clone(item)
		}

		return dst
	default:
		return n
	}
}
