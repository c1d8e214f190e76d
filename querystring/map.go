package querystring

import (
	"encoding/json"
	"fmt"
	"iter"
	"maps"
	"slices"

	"github.com/spf13/cast"
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Map is an insertion-ordered set of query parameters. Setting a key that
// already exists replaces its value but keeps its position.
// The zero value is ready to use.
type Map struct {
	om *orderedmap.OrderedMap[string, string]
}

// New returns an empty Map.
func New() *Map {
	return &Map{om: orderedmap.New[string, string]()}
}

// FromMap builds a Map from a Go map. Go maps carry no order, so keys are
// sorted to keep the encoded output stable.
func FromMap(params map[string]any) *Map {
	m := New()
	for _, k := range slices.Sorted(maps.Keys(params)) {
		m.SetAny(k, params[k])
	}

	return m
}

func (m *Map) init() {
	if m.om == nil {
		m.om = orderedmap.New[string, string]()
	}
}

// Set stores value under key.
func (m *Map) Set(key, value string) {
	m.init()
	m.om.Set(key, value)
}

// SetAny stores the string form of value under key.
func (m *Map) SetAny(key string, value any) {
	m.Set(key, stringify(value))
}

// Get returns the value stored under key.
func (m *Map) Get(key string) (string, bool) {
	if m == nil || m.om == nil {
		return "", false
	}

	return m.om.Get(key)
}

// Delete removes key, reporting whether it was present.
func (m *Map) Delete(key string) bool {
	if m == nil || m.om == nil {
		return false
	}

	_, ok := m.om.Delete(key)
	return ok
}

// Len returns the number of pairs.
func (m *Map) Len() int {
	if m == nil || m.om == nil {
		return 0
	}

	return m.om.Len()
}

// All iterates over the pairs in order.
func (m *Map) All() iter.Seq2[string, string] {
	return func(yield func(string, string) bool) {
		if m == nil || m.om == nil {
			return
		}
		for p := m.om.Oldest(); p != nil; p = p.Next() {
			if !yield(p.Key, p.Value) {
				return
			}
		}
	}
}

// Keys returns the keys in order.
func (m *Map) Keys() []string {
	keys := make([]string, 0, m.Len())
	for k := range m.All() {
		keys = append(keys, k)
	}

	return keys
}

// ToMap copies the pairs into a plain Go map, dropping the order.
func (m *Map) ToMap() map[string]string {
	out := make(map[string]string, m.Len())
	for k, v := range m.All() {
		out[k] = v
	}

	return out
}

// MarshalJSON encodes the Map as a JSON object, preserving key order.
func (m *Map) MarshalJSON() ([]byte, error) {
	if m == nil || m.om == nil {
		return []byte("{}"), nil
	}

	return m.om.MarshalJSON()
}

// stringify mirrors how a browser coerces a value before escaping it:
// null becomes "null", scalars use their natural text form and anything
// composite falls back to its JSON text.
func stringify(v any) string {
	switch val := v.(type) {
	case nil:
		return "null"
	case string:
		return val
	}

	if s, err := cast.ToStringE(v); err == nil {
		return s
	}

	b, err := json.Marshal(v)
	if err != nil {
		return fmt.Sprint(v)
	}

	return string(b)
}
