// Package ordmap provides a string-keyed map that remembers insertion
// order. Iteration and JSON encoding follow the order keys were first set,
// so encode/decode cycles are stable.
package ordmap

import (
	"bytes"
	"encoding/json"

	"campusreg/pkg/errors"
)

type Map[V any] struct {
	keys   []string
	values map[string]V
}

func New[V any]() *Map[V] {
	return &Map[V]{values: make(map[string]V)}
}

func (m *Map[V]) Len() int {
	return len(m.keys)
}

func (m *Map[V]) Has(key string) bool {
	_, ok := m.values[key]
	return ok
}

func (m *Map[V]) Get(key string) (V, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Set inserts or overwrites. An overwritten key keeps its original
// position.
func (m *Map[V]) Set(key string, value V) {
	if m.values == nil {
		m.values = make(map[string]V)
	}
	if _, ok := m.values[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.values[key] = value
}

func (m *Map[V]) Keys() []string {
	keys := make([]string, len(m.keys))
	copy(keys, m.keys)
	return keys
}

// Range calls fn for each entry in insertion order until fn returns false.
func (m *Map[V]) Range(fn func(key string, value V) bool) {
	for _, k := range m.keys {
		if !fn(k, m.values[k]) {
			return
		}
	}
}

func (m *Map[V]) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')

	for i, k := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}

		kb, err := json.Marshal(k)
		if err != nil {
			return nil, errors.WrapFailf(err, "marshal key %q", k)
		}
		buf.Write(kb)
		buf.WriteByte(':')

		vb, err := json.Marshal(m.values[k])
		if err != nil {
			return nil, errors.WrapFailf(err, "marshal value for key %q", k)
		}
		buf.Write(vb)
	}

	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (m *Map[V]) UnmarshalJSON(data []byte) error {
	m.keys = nil
	m.values = make(map[string]V)

	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return errors.WrapFail(err, "read object start")
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return errors.Errorf("expected JSON object, got token %v", tok)
	}

	for dec.More() {
		tok, err = dec.Token()
		if err != nil {
			return errors.WrapFail(err, "read object key")
		}

		key, ok := tok.(string)
		if !ok {
			return errors.Errorf("expected string key, got token %v", tok)
		}

		var value V
		err = dec.Decode(&value)
		if err != nil {
			return errors.WrapFailf(err, "decode value for key %q", key)
		}

		m.Set(key, value)
	}

	_, err = dec.Token()
	return errors.WrapFail(err, "read object end")
}
