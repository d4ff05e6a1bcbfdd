package main

import (
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	"github.com/hupe1980/wordvec/storage"
	"github.com/hupe1980/wordvec/subword"
	"github.com/hupe1980/wordvec/vocab"
)

func newInfoCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "info <embeddings>",
		Short: "Show vocabulary and matrix statistics",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.load(args[0], format, false)
			if err != nil {
				return err
			}
			defer e.Close()

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Words:      %d\n", e.Len())
			fmt.Fprintf(out, "Rows:       %d\n", storage.Rows(e.Storage()))
			fmt.Fprintf(out, "Dims:       %d\n", e.Dims())
			fmt.Fprintf(out, "Vocabulary: %s\n", describeVocab(e.Vocab()))
			fmt.Fprintf(out, "Storage:    %s\n", describeStorage(e.Storage()))
			fmt.Fprintf(out, "Normalized: %t\n", e.IsNormalized())

			if md := e.Metadata(); md != nil {
				keys := make([]string, 0, len(md))
				for k := range md {
					keys = append(keys, k)
				}
				slices.Sort(keys)
				fmt.Fprintf(out, "Metadata:   %v\n", keys)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "Embedding format ("+formatList()+")")

	return cmd
}

func newMetadataCmd(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "metadata <embeddings>",
		Short: "Print the metadata document as TOML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			e, err := a.load(args[0], format, false)
			if err != nil {
				return err
			}
			defer e.Close()

			md := e.Metadata()
			if md == nil {
				return fmt.Errorf("%s has no metadata", args[0])
			}

			data, err := md.Encode()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "Embedding format ("+formatList()+")")

	return cmd
}

func describeVocab(v vocab.Vocab) string {
	switch v := v.(type) {
	case *vocab.Simple:
		return "simple"
	case *vocab.Subword:
		switch idx := v.Indexer().(type) {
		case *subword.FastTextIndexer:
			return fmt.Sprintf("fasttext (n-grams %d-%d, %d buckets)", idx.MinN(), idx.MaxN(), idx.BucketCount())
		case *subword.BucketIndexer:
			return fmt.Sprintf("subword (n-grams %d-%d, 2^%d buckets)", idx.MinN(), idx.MaxN(), idx.BucketExp())
		default:
			return "subword"
		}
	default:
		return fmt.Sprintf("%T", v)
	}
}

func describeStorage(s storage.Storage) string {
	if _, ok := s.Mutable(); ok {
		return "in memory"
	}
	return "memory mapped"
}
