// Package attrs contains the ordered attribute mapping that job scripts are
// rendered from, and the merge rules used to build it.
package attrs

import (
	"fmt"
	"sort"
)

// Mapping is an ordered string-keyed mapping. Keys keep their first-insertion
// order; setting an existing key replaces the value in place.
//
// A Mapping is mutable until Freeze is called. The zero value is ready to use.
type Mapping struct {
	keys   []string
	values map[string]interface{}
	frozen bool
}

// New returns an empty Mapping.
func New() *Mapping {
	return &Mapping{values: map[string]interface{}{}}
}

// FromMap builds a Mapping from a plain map. Keys are sorted so the
// result is deterministic.
func FromMap(in map[string]interface{}) *Mapping {
	m := New()
	keys := make([]string, 0, len(in))
	for k := range in {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		m.Set(k, in[k])
	}
	return m
}

// FromStrings builds a Mapping from a map of strings, e.g. parsed CLI vars.
func FromStrings(in map[string]string) *Mapping {
	conv := make(map[string]interface{}, len(in))
	for k, v := range in {
		conv[k] = v
	}
	return FromMap(conv)
}

// Set sets key to value. Set panics if the mapping is frozen.
func (m *Mapping) Set(key string, value interface{}) {
	if m.frozen {
		panic(fmt.Sprintf("attrs: set %q on frozen mapping", key))
	}
	if m.values == nil {
		m.values = map[string]interface{}{}
	}
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

// Get returns the value for key.
func (m *Mapping) Get(key string) (interface{}, bool) {
	if m == nil {
		return nil, false
	}
	v, ok := m.values[key]
	return v, ok
}

// GetString returns the value for key formatted as a string.
// Missing keys and nil values return "".
func (m *Mapping) GetString(key string) string {
	v, ok := m.Get(key)
	if !ok || v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Has reports whether key is present.
func (m *Mapping) Has(key string) bool {
	_, ok := m.Get(key)
	return ok
}

// Keys returns the keys in insertion order.
func (m *Mapping) Keys() []string {
	if m == nil {
		return nil
	}
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Len returns the number of keys.
func (m *Mapping) Len() int {
	if m == nil {
		return 0
	}
	return len(m.keys)
}

// Each calls fn for every key in order.
func (m *Mapping) Each(fn func(key string, value interface{})) {
	if m == nil {
		return
	}
	for _, k := range m.keys {
		fn(k, m.values[k])
	}
}

// Clone returns an unfrozen copy of the mapping. Values are copied shallowly.
func (m *Mapping) Clone() *Mapping {
	out := New()
	m.Each(out.Set)
	return out
}

// Freeze marks the mapping read-only and returns it.
func (m *Mapping) Freeze() *Mapping {
	m.frozen = true
	return m
}

// Frozen reports whether the mapping is read-only.
func (m *Mapping) Frozen() bool {
	return m != nil && m.frozen
}

// Map returns the mapping as a plain map, e.g. for template execution.
func (m *Mapping) Map() map[string]interface{} {
	out := make(map[string]interface{}, m.Len())
	m.Each(func(k string, v interface{}) {
		out[k] = v
	})
	return out
}
