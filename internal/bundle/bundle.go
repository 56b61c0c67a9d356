// Package bundle combines per-category directories of JSON files into one
// bundle file per category plus a single aggregate file.
//
// A root directory is laid out as
//
//	<root>/<category>/<item>.json
//
// and a run produces
//
//	<output>/<category>.json   one object per non-empty category, keyed by item stem
//	<output>/all.json          every bundle, keyed by category name
//
// Item values are re-encoded from their parsed form: strings carry only the
// mandatory escapes and a repeated object key keeps its last value. Key order
// follows the sorted file and directory names, nested objects keep the key
// order they had on disk, and number literals are kept as written, so
// rebuilding an unchanged tree yields byte-identical files.
package bundle

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Bundle maps item stems to their JSON values in insertion order.
type Bundle struct {
	keys   []string
	values map[string]json.RawMessage
}

// NewBundle returns an empty Bundle.
func NewBundle() *Bundle {
	return &Bundle{values: make(map[string]json.RawMessage)}
}

// Set stores value under key. Re-setting a key replaces the value but keeps
// the key's original position.
func (b *Bundle) Set(key string, value json.RawMessage) {
	if _, exists := b.values[key]; !exists {
		b.keys = append(b.keys, key)
	}
	b.values[key] = value
}

// Get returns the raw JSON stored under key.
func (b *Bundle) Get(key string) (json.RawMessage, bool) {
	v, ok := b.values[key]
	return v, ok
}

// Len returns the number of items.
func (b *Bundle) Len() int {
	return len(b.keys)
}

// Keys returns the item stems in insertion order.
func (b *Bundle) Keys() []string {
	return append([]string(nil), b.keys...)
}

// MarshalJSON emits a compact JSON object in insertion order.
func (b *Bundle) MarshalJSON() ([]byte, error) {
	return marshalOrdered(b.keys, func(key string) ([]byte, error) {
		return b.values[key], nil
	})
}

// MegaBundle maps category names to their bundles in insertion order.
type MegaBundle struct {
	names   []string
	bundles map[string]*Bundle
}

// NewMegaBundle returns an empty MegaBundle.
func NewMegaBundle() *MegaBundle {
	return &MegaBundle{bundles: make(map[string]*Bundle)}
}

// Add stores b under category.
func (m *MegaBundle) Add(category string, b *Bundle) {
	if _, exists := m.bundles[category]; !exists {
		m.names = append(m.names, category)
	}
	m.bundles[category] = b
}

// Get returns the bundle for category.
func (m *MegaBundle) Get(category string) (*Bundle, bool) {
	b, ok := m.bundles[category]
	return b, ok
}

// Len returns the number of categories.
func (m *MegaBundle) Len() int {
	return len(m.names)
}

// Categories returns the category names in insertion order.
func (m *MegaBundle) Categories() []string {
	return append([]string(nil), m.names...)
}

// TotalItems sums the item counts of every bundle.
func (m *MegaBundle) TotalItems() int {
	total := 0
	for _, b := range m.bundles {
		total += b.Len()
	}
	return total
}

// MarshalJSON emits a compact JSON object in insertion order.
func (m *MegaBundle) MarshalJSON() ([]byte, error) {
	return marshalOrdered(m.names, func(name string) ([]byte, error) {
		return m.bundles[name].MarshalJSON()
	})
}

func marshalOrdered(keys []string, value func(string) ([]byte, error)) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		writeString(&buf, key)
		buf.WriteByte(':')

		raw, err := value(key)
		if err != nil {
			return nil, fmt.Errorf("encode %q: %w", key, err)
		}
		buf.Write(raw)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Encode renders v as pretty JSON: two-space indent, keys in insertion order,
// non-ASCII kept literal, no trailing newline.
func Encode(v json.Marshaler) ([]byte, error) {
	raw, err := v.MarshalJSON()
	if err != nil {
		return nil, err
	}
	var out bytes.Buffer
	if err := json.Indent(&out, raw, "", "  "); err != nil {
		return nil, fmt.Errorf("indent output: %w", err)
	}
	return out.Bytes(), nil
}
