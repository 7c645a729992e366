package vm

// Sequence helpers shared by the primitives. They work on element
// slices; callers rebuild the result variant with m.factory.

// prefix returns vs[0...n]. A negative n counts from the end and
// anything out of range is clamped.
func prefix(vs []Value, n int) []Value {
	end := n
	if end < 0 {
		end += len(vs)
	}
	switch {
	case end < 0:
		return nil
	case end > len(vs):
		end = len(vs)
	}
	return vs[:end]
}

// suffix returns vs[max(n, -len)..-1]. A start past the end yields an
// empty sequence.
func suffix(vs []Value, n int) []Value {
	start := max(n, -len(vs))
	if start < 0 {
		start += len(vs)
	}
	if start >= len(vs) {
		return nil
	}
	return vs[start:]
}

// at returns vs[i], counting negative i from the end. ok is false when i
// is out of range.
func at(vs []Value, i int) (Value, bool) {
	if i < 0 {
		i += len(vs)
	}
	if i < 0 || i >= len(vs) {
		return nil, false
	}
	return vs[i], true
}

// chunks splits vs into runs of size n. A negative n reverses vs first.
func chunks(vs []Value, n int) [][]Value {
	if n < 0 {
		vs = reversed(vs)
		n = -n
	}
	var out [][]Value
	for i := 0; i < len(vs); i += n {
		out = append(out, vs[i:min(i+n, len(vs))])
	}
	return out
}

// every returns every nth element; a negative n walks from the end.
func every(vs []Value, n int) []Value {
	k := n
	if k < 0 {
		k = -k
	}
	count := floorDivInt(len(vs)-1, k) + 1
	out := make([]Value, 0, max(count, 0))
	for i := 0; i < count; i++ {
		idx := i * n
		if n < 0 {
			idx--
		}
		if v, ok := at(vs, idx); ok {
			out = append(out, v)
		}
	}
	return out
}

func floorDivInt(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func reversed(vs []Value) []Value {
	out := make([]Value, len(vs))
	for i, v := range vs {
		out[len(vs)-1-i] = v
	}
	return out
}

// split cuts vs at every occurrence of sep. Empty pieces are kept unless
// dropEmpty is set. An empty separator splits between every element.
func split(vs, sep []Value, dropEmpty bool) [][]Value {
	var out [][]Value
	if len(sep) == 0 {
		for i := range vs {
			out = append(out, vs[i:i+1])
		}
		return out
	}
	var cur []Value
	for j := 0; j < len(vs); {
		if hasPrefixAt(vs, sep, j) {
			if !dropEmpty || len(cur) > 0 {
				out = append(out, cur)
			}
			cur = nil
			j += len(sep)
			continue
		}
		cur = append(cur, vs[j])
		j++
	}
	if !dropEmpty || len(cur) > 0 {
		out = append(out, cur)
	}
	return out
}

func hasPrefixAt(vs, sep []Value, j int) bool {
	if j+len(sep) > len(vs) {
		return false
	}
	for k, s := range sep {
		if !Equal(vs[j+k], s) {
			return false
		}
	}
	return true
}

// indexOf returns the index of the first element equal to v, or -1.
func indexOf(vs []Value, v Value) int {
	for i, e := range vs {
		if Equal(e, v) {
			return i
		}
	}
	return -1
}

// Set operations. Results keep first-occurrence order.

func keySet(vs []Value) map[string]bool {
	set := make(map[string]bool, len(vs))
	for _, v := range vs {
		set[valueKey(v)] = true
	}
	return set
}

// difference removes every element of a that occurs in b.
func difference(a, b []Value) []Value {
	drop := keySet(b)
	out := make([]Value, 0, len(a))
	for _, v := range a {
		if !drop[valueKey(v)] {
			out = append(out, v)
		}
	}
	return out
}

// union returns the distinct elements of a then b.
func union(a, b []Value) []Value {
	seen := make(map[string]bool, len(a)+len(b))
	out := make([]Value, 0, len(a)+len(b))
	for _, vs := range [][]Value{a, b} {
		for _, v := range vs {
			k := valueKey(v)
			if !seen[k] {
				seen[k] = true
				out = append(out, v)
			}
		}
	}
	return out
}

// intersection returns the distinct elements of a that occur in b.
func intersection(a, b []Value) []Value {
	keep := keySet(b)
	seen := make(map[string]bool, len(a))
	var out []Value
	for _, v := range a {
		k := valueKey(v)
		if keep[k] && !seen[k] {
			seen[k] = true
			out = append(out, v)
		}
	}
	return out
}

// symmetricDifference returns (a-b) | (b-a).
func symmetricDifference(a, b []Value) []Value {
	return union(difference(a, b), difference(b, a))
}

// join concatenates vs with sep between elements. The first element is
// promoted to sep's variant when it ranks lower, so a one-element join
// still has the separator's type.
func (m *Machine) join(vs []Value, sep Value) Value {
	if len(vs) == 0 {
		return m.factory(sep, nil)
	}
	if r, ok := joinFlat(vs, sep); ok {
		return r
	}
	r := vs[0]
	if r.Rank() < sep.Rank() {
		r = m.promote(r, sep.Rank())
	}
	for _, e := range vs[1:] {
		r = m.add(r, sep)
		r = m.add(r, e)
	}
	return r
}

// joinFlat handles the joins whose result variant is the separator's:
// string separators with no block elements, and array separators over
// numbers and arrays.
func joinFlat(vs []Value, sep Value) (Value, bool) {
	switch s := sep.(type) {
	case ByteString:
		var out []byte
		for i, e := range vs {
			if _, ok := e.(*Block); ok {
				return nil, false
			}
			if i > 0 {
				out = append(out, s.bytes()...)
			}
			if n, ok := e.(Int); ok {
				out = append(out, renderNumber(n)...)
			} else {
				out = flattenBytes(out, e)
			}
		}
		return NewByteString(out), true
	case Array:
		var out []Value
		for i, e := range vs {
			if i > 0 {
				out = append(out, s.elems...)
			}
			switch x := e.(type) {
			case Int:
				out = append(out, x)
			case Array:
				out = append(out, x.elems...)
			default:
				return nil, false
			}
		}
		return NewArray(out...), true
	}
	return nil, false
}
