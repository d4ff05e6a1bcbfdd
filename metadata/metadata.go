// Package metadata holds the free-form metadata document stored alongside
// embeddings. Documents are serialized as TOML.
package metadata

import (
	"bytes"
	"fmt"

	"github.com/BurntSushi/toml"
)

// Metadata is a TOML document: tables are map[string]any, integers int64,
// floats float64, arrays []any.
type Metadata map[string]any

// Encode serializes m as TOML.
func (m Metadata) Encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(map[string]any(m)); err != nil {
		return nil, fmt.Errorf("metadata: encode: %w", err)
	}
	return buf.Bytes(), nil
}

// Decode parses a TOML document.
func Decode(data []byte) (Metadata, error) {
	m := make(Metadata)
	if _, err := toml.Decode(string(data), (*map[string]any)(&m)); err != nil {
		return nil, fmt.Errorf("metadata: decode: %w", err)
	}
	return m, nil
}

// Table returns the nested table at key.
func (m Metadata) Table(key string) (Metadata, bool) {
	v, ok := m[key].(map[string]any)
	return Metadata(v), ok
}
