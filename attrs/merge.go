package attrs

import (
	"strings"
)

// Merge combines layers into a new mapping. Layers are ordered from lowest
// to highest precedence: a key in a later layer replaces the value from an
// earlier one. Nil layers are skipped.
func Merge(layers ...*Mapping) *Mapping {
	out := New()
	for _, l := range layers {
		l.Each(out.Set)
	}
	return out
}

// Normalize returns a copy of m where every key is also present in its
// lower-case and upper-case form. Original keys are retained.
//
// When two original keys fold to the same variant, the later key wins.
func Normalize(m *Mapping) *Mapping {
	out := m.Clone()
	m.Each(func(k string, v interface{}) {
		out.Set(strings.ToLower(k), v)
		out.Set(strings.ToUpper(k), v)
	})
	return out
}

// Build normalizes key case in each layer, merges the layers with the same
// precedence as Merge and freezes the result. Normalizing per layer keeps a
// higher layer's value for every case variant of its keys.
//
// The workload manager passes, lowest first: schema defaults, shell fields,
// construction overrides and per-run job attributes.
func Build(layers ...*Mapping) *Mapping {
	norm := make([]*Mapping, 0, len(layers))
	for _, l := range layers {
		norm = append(norm, Normalize(l))
	}
	return Merge(norm...).Freeze()
}
