package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hupe1980/wordvec"
)

// DefaultK is the default number of neighbors; the configuration may
// override it.
const DefaultK = 10

type queryFlags struct {
	format string
	json   bool
}

func (q *queryFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&q.format, "format", "f", "", "Embedding format ("+formatList()+")")
	cmd.Flags().Int("k", DefaultK, "Number of neighbors to return")
	cmd.Flags().BoolVar(&q.json, "json", false, "Output results as JSON")
}

func newSimilarCmd(a *app) *cobra.Command {
	q := &queryFlags{}

	cmd := &cobra.Command{
		Use:   "similar <embeddings> <word>...",
		Short: "Find the nearest neighbors of words",
		Long: `Find the nearest neighbors of words by cosine similarity.

Examples:
  wordvec similar vectors.r2v berlin
  wordvec similar -k 5 --json vectors.r2v berlin paris`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.load(args[0], q.format, a.cfg.Input.Normalize)
			if err != nil {
				return err
			}
			defer e.Close()

			words := args[1:]
			results, err := e.SimilarBatch(cmd.Context(), words, a.k(cmd))
			if err != nil {
				return err
			}

			if q.json {
				out := make(map[string][]wordvec.WordSimilarity, len(words))
				for i, w := range words {
					out[w] = results[i]
				}
				return writeJSON(cmd.OutOrStdout(), out)
			}

			for i, w := range words {
				fmt.Fprintf(cmd.OutOrStdout(), "%s:\n", w)
				printResults(cmd.OutOrStdout(), results[i])
			}
			return nil
		},
	}
	q.register(cmd)

	return cmd
}

func newAnalogyCmd(a *app) *cobra.Command {
	q := &queryFlags{}

	cmd := &cobra.Command{
		Use:   "analogy <embeddings> <a> <b> <c>",
		Short: "Answer \"a is to b as c is to ?\"",
		Long: `Answer analogy queries of the form "a is to b as c is to ?".

Examples:
  wordvec analogy vectors.r2v man king woman`,
		Args: cobra.ExactArgs(4),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.load(args[0], q.format, a.cfg.Input.Normalize)
			if err != nil {
				return err
			}
			defer e.Close()

			results, err := e.Analogy(args[1], args[2], args[3], a.k(cmd))
			if err != nil {
				return err
			}

			if q.json {
				return writeJSON(cmd.OutOrStdout(), results)
			}
			printResults(cmd.OutOrStdout(), results)
			return nil
		},
	}
	q.register(cmd)

	return cmd
}

func printResults(w io.Writer, results []wordvec.WordSimilarity) {
	for _, r := range results {
		fmt.Fprintf(w, "  %-20s %.4f\n", r.Word, r.Similarity)
	}
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatList() string {
	return strings.Join(wordvec.FormatNames(), ", ")
}
