package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/wordvec"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "rust2vec", cfg.Input.Format)
	assert.Equal(t, 10, cfg.Query.K)
}

func TestLoad_YAML(t *testing.T) {
	path := writeFile(t, "wordvec.yaml", `
input:
  format: word2vec
  normalize: true
output:
  format: textdims
query:
  k: 25
log:
  level: debug
  format: json
`)

	cfg, err := Load(path, "")
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "word2vec", cfg.Input.Format)
	assert.True(t, cfg.Input.Normalize)
	assert.Equal(t, "textdims", cfg.Output.Format)
	assert.Equal(t, 25, cfg.Query.K)
	assert.Equal(t, 4, cfg.Query.Parallelism, "unset fields keep their defaults")

	level, err := cfg.LogLevel()
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	path := writeFile(t, "wordvec.yaml", "query:\n  k: 25\n")
	t.Setenv("WORDVEC_K", "3")
	t.Setenv("WORDVEC_INPUT_FORMAT", "text")

	cfg, err := Load(path, "")
	require.NoError(t, err)
	assert.Equal(t, 3, cfg.Query.K)
	assert.Equal(t, "text", cfg.Input.Format)
}

func TestLoad_DotEnv(t *testing.T) {
	envFile := writeFile(t, ".env", "WORDVEC_PARALLELISM=8\nWORDVEC_NORMALIZE=yes\n")
	t.Cleanup(func() {
		os.Unsetenv("WORDVEC_PARALLELISM")
		os.Unsetenv("WORDVEC_NORMALIZE")
	})

	cfg, err := Load("", envFile)
	require.NoError(t, err)
	assert.Equal(t, 8, cfg.Query.Parallelism)
	assert.True(t, cfg.Input.Normalize)
}

func TestLoad_MissingDotEnvIsIgnored(t *testing.T) {
	_, err := Load("", filepath.Join(t.TempDir(), ".env"))
	assert.NoError(t, err)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"), "")
	assert.Error(t, err)

	path := writeFile(t, "bad.yaml", "query: [")
	_, err = Load(path, "")
	assert.Error(t, err)

	t.Setenv("WORDVEC_K", "many")
	_, err = Load("", "")
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"UnknownInputFormat", func(c *Config) { c.Input.Format = "glove" }},
		{"UnknownOutputFormat", func(c *Config) { c.Output.Format = "" }},
		{"ZeroK", func(c *Config) { c.Query.K = 0 }},
		{"ZeroParallelism", func(c *Config) { c.Query.Parallelism = 0 }},
		{"NegativeCache", func(c *Config) { c.Query.CacheSize = -1 }},
		{"BadLevel", func(c *Config) { c.Log.Level = "loud" }},
		{"BadLogFormat", func(c *Config) { c.Log.Format = "xml" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}

	cfg := Default()
	cfg.Input.Format = "glove"
	assert.ErrorIs(t, cfg.Validate(), wordvec.ErrUnknownFormat)
}
