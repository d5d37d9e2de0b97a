package attrs

import (
	"fmt"

	"gopkg.in/yaml.v2"
)

// ParseYAML decodes a YAML (or JSON) mapping document in document order.
// Integers stay integers, so large numbers render the way they were written.
func ParseYAML(raw []byte) (*Mapping, error) {
	var doc yaml.MapSlice
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, err
	}
	return FromMapSlice(doc), nil
}

// FromMapSlice returns a mapping holding the items of s in order. Nested
// mappings become string-keyed maps so templates can index them.
func FromMapSlice(s yaml.MapSlice) *Mapping {
	m := New()
	for _, item := range s {
		m.Set(fmt.Sprint(item.Key), yamlValue(item.Value))
	}
	return m
}

func yamlValue(v interface{}) interface{} {
	switch x := v.(type) {
	case yaml.MapSlice:
		out := make(map[string]interface{}, len(x))
		for _, item := range x {
			out[fmt.Sprint(item.Key)] = yamlValue(item.Value)
		}
		return out
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(x))
		for k, e := range x {
			out[fmt.Sprint(k)] = yamlValue(e)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(x))
		for i, e := range x {
			out[i] = yamlValue(e)
		}
		return out
	default:
		return v
	}
}
