// Package config loads the wordvec CLI configuration.
//
// Values are layered: built-in defaults, then an optional YAML file, then
// an optional .env file, then WORDVEC_* environment variables. Command-line
// flags are applied last by the CLI itself.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/hupe1980/wordvec"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "WORDVEC_"

// Config is the CLI configuration.
type Config struct {
	Input  InputConfig  `yaml:"input"`
	Output OutputConfig `yaml:"output"`
	Query  QueryConfig  `yaml:"query"`
	Log    LogConfig    `yaml:"log"`
}

// InputConfig controls how embeddings are read.
type InputConfig struct {
	Format    string `yaml:"format"`
	Normalize bool   `yaml:"normalize"`
}

// OutputConfig controls how embeddings are written.
type OutputConfig struct {
	Format string `yaml:"format"`
}

// QueryConfig controls similarity queries.
type QueryConfig struct {
	K           int `yaml:"k"`
	Parallelism int `yaml:"parallelism"`
	CacheSize   int `yaml:"cache_size"`
}

// LogConfig controls diagnostic output.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // text or json
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Input: InputConfig{
			Format: "rust2vec",
		},
		Output: OutputConfig{
			Format: "rust2vec",
		},
		Query: QueryConfig{
			K:           10,
			Parallelism: 4,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// Load builds a configuration from defaults, the YAML file at path and the
// environment. An empty path skips the file. envFile names a dotenv file
// that is loaded when present; variables already set in the process
// environment take precedence over it.
func Load(path, envFile string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config: load %s: %w", envFile, err)
		}
	}

	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// ApplyEnv overrides c with WORDVEC_* environment variables.
func (c *Config) ApplyEnv() error {
	c.Input.Format = getEnv("INPUT_FORMAT", c.Input.Format)
	c.Output.Format = getEnv("OUTPUT_FORMAT", c.Output.Format)
	c.Log.Level = getEnv("LOG_LEVEL", c.Log.Level)
	c.Log.Format = getEnv("LOG_FORMAT", c.Log.Format)

	var err error
	if c.Input.Normalize, err = getEnvBool("NORMALIZE", c.Input.Normalize); err != nil {
		return err
	}
	if c.Query.K, err = getEnvInt("K", c.Query.K); err != nil {
		return err
	}
	if c.Query.Parallelism, err = getEnvInt("PARALLELISM", c.Query.Parallelism); err != nil {
		return err
	}
	if c.Query.CacheSize, err = getEnvInt("CACHE_SIZE", c.Query.CacheSize); err != nil {
		return err
	}
	return nil
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	var errs []error

	if _, err := wordvec.ParseFormat(c.Input.Format); err != nil {
		errs = append(errs, fmt.Errorf("input.format: %w", err))
	}
	if _, err := wordvec.ParseFormat(c.Output.Format); err != nil {
		errs = append(errs, fmt.Errorf("output.format: %w", err))
	}
	if c.Query.K <= 0 {
		errs = append(errs, fmt.Errorf("query.k must be positive, got %d", c.Query.K))
	}
	if c.Query.Parallelism <= 0 {
		errs = append(errs, fmt.Errorf("query.parallelism must be positive, got %d", c.Query.Parallelism))
	}
	if c.Query.CacheSize < 0 {
		errs = append(errs, fmt.Errorf("query.cache_size must not be negative, got %d", c.Query.CacheSize))
	}
	if _, err := c.LogLevel(); err != nil {
		errs = append(errs, err)
	}
	if f := strings.ToLower(c.Log.Format); f != "text" && f != "json" {
		errs = append(errs, fmt.Errorf("log.format must be text or json, got %q", c.Log.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

// LogLevel parses Log.Level.
func (c *Config) LogLevel() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Log.Level)); err != nil {
		return 0, fmt.Errorf("log.level: %w", err)
	}
	return level, nil
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(EnvPrefix + key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) (int, error) {
	val := os.Getenv(EnvPrefix + key)
	if val == "" {
		return defaultVal, nil
	}
	i, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("config: %s%s: %w", EnvPrefix, key, err)
	}
	return i, nil
}

func getEnvBool(key string, defaultVal bool) (bool, error) {
	val := os.Getenv(EnvPrefix + key)
	if val == "" {
		return defaultVal, nil
	}
	switch strings.ToLower(val) {
	case "true", "1", "yes", "on":
		return true, nil
	case "false", "0", "no", "off":
		return false, nil
	default:
		return false, fmt.Errorf("config: %s%s: invalid boolean %q", EnvPrefix, key, val)
	}
}
