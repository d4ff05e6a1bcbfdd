package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hupe1980/wordvec"
)

func newConvertCmd(a *app) *cobra.Command {
	var (
		from      string
		to        string
		normalize bool
	)

	cmd := &cobra.Command{
		Use:   "convert <input> <output>",
		Short: "Convert embeddings between formats",
		Long: `Convert embeddings between formats.

Formats are taken from the flags, else from the file extensions
(.r2v, .fifu, .w2v, .txt), else from the configuration.

Examples:
  wordvec convert vectors.txt vectors.r2v
  wordvec convert --from fasttext cc.de.300.bin cc.de.300.r2v.zst
  wordvec convert --normalize --to word2vec vectors.r2v vectors.w2v`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			input, output := args[0], args[1]

			if !cmd.Flags().Changed("normalize") {
				normalize = a.cfg.Input.Normalize
			}

			e, err := a.load(input, from, normalize)
			if err != nil {
				return err
			}
			defer e.Close()

			format, err := resolveFormat(to, output, a.cfg.Output.Format)
			if err != nil {
				return err
			}
			if format == wordvec.FormatRust2VecMmap {
				format = wordvec.FormatRust2Vec
			}

			if err := wordvec.WriteFile(output, format, e); err != nil {
				return fmt.Errorf("write %s: %w", output, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Converted %d words (%d dims) to %s\n", e.Len(), e.Dims(), format)
			return nil
		},
	}

	cmd.Flags().StringVarP(&from, "from", "f", "", "Input format ("+formatList()+")")
	cmd.Flags().StringVarP(&to, "to", "t", "", "Output format ("+formatList()+")")
	cmd.Flags().BoolVarP(&normalize, "normalize", "n", false, "Normalize embeddings before writing")

	return cmd
}
