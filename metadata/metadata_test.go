package metadata

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMetadata() Metadata {
	return Metadata{
		"hyperparameters": map[string]any{
			"dims": int64(300),
			"ns":   int64(5),
			"lr":   0.05,
		},
		"description": map[string]any{
			"description": "Test model",
			"language":    "de",
			"tags":        []any{"news", "web"},
		},
		"normalized": true,
	}
}

func TestMetadata_RoundTrip(t *testing.T) {
	md := testMetadata()

	data, err := md.Encode()
	require.NoError(t, err)

	decoded, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, md, decoded)
}

func TestMetadata_Table(t *testing.T) {
	md := testMetadata()

	hp, ok := md.Table("hyperparameters")
	require.True(t, ok)
	assert.Equal(t, int64(300), hp["dims"])

	_, ok = md.Table("normalized")
	assert.False(t, ok)
}

func TestMetadata_DecodeInvalid(t *testing.T) {
	_, err := Decode([]byte("[unterminated"))
	assert.Error(t, err)
}
