package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hupe1980/wordvec"
	"github.com/hupe1980/wordvec/internal/config"
)

// app holds the state shared by all subcommands.
type app struct {
	configPath string
	envFile    string
	verbose    bool

	cfg    *config.Config
	logger *wordvec.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "wordvec",
		Short: "Convert and query word embeddings",
		Long: `wordvec reads word embeddings in the chunked container, word2vec, text
and fastText formats, converts between them and answers similarity and
analogy queries.

Files ending in .zst or .lz4 are decompressed transparently.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	rootCmd.PersistentFlags().StringVarP(&a.configPath, "config", "c", "", "Path to a YAML configuration file")
	rootCmd.PersistentFlags().StringVar(&a.envFile, "env-file", ".env", "Path to a dotenv file (ignored when missing)")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "Enable debug logging")

	rootCmd.AddCommand(
		newConvertCmd(a),
		newSimilarCmd(a),
		newAnalogyCmd(a),
		newInfoCmd(a),
		newMetadataCmd(a),
		newVersionCmd(),
	)

	return rootCmd
}

// setup loads and validates the configuration and builds the logger.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.configPath, a.envFile)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	level, _ := cfg.LogLevel()
	if a.verbose {
		level = slog.LevelDebug
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if strings.EqualFold(cfg.Log.Format, "json") {
		handler = slog.NewJSONHandler(cmd.ErrOrStderr(), opts)
	} else {
		handler = slog.NewTextHandler(cmd.ErrOrStderr(), opts)
	}

	a.cfg = cfg
	a.logger = wordvec.NewLogger(handler)
	return nil
}

// resolveFormat picks the format of path: the flag if set, then the file
// extension, then the configured fallback.
func resolveFormat(flag, path, fallback string) (wordvec.Format, error) {
	if flag != "" {
		return wordvec.ParseFormat(flag)
	}
	if f, ok := wordvec.FormatFromPath(path); ok {
		return f, nil
	}
	return wordvec.ParseFormat(fallback)
}

// load reads the embeddings at path with the configured options.
func (a *app) load(path, formatFlag string, normalize bool) (*wordvec.Embeddings, error) {
	format, err := resolveFormat(formatFlag, path, a.cfg.Input.Format)
	if err != nil {
		return nil, err
	}

	a.logger.Debug("loading embeddings", "path", path, "format", format.String())

	e, err := wordvec.ReadFile(path, format,
		wordvec.WithLogger(a.logger),
		wordvec.WithNormalize(normalize),
		wordvec.WithCache(a.cfg.Query.CacheSize),
		wordvec.WithParallelism(a.cfg.Query.Parallelism),
	)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return e, nil
}

// k returns the --k flag if it was given, else the configured default.
func (a *app) k(cmd *cobra.Command) int {
	if cmd.Flags().Changed("k") {
		k, _ := cmd.Flags().GetInt("k")
		return k
	}
	return a.cfg.Query.K
}
