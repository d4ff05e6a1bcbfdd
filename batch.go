package wordvec

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// SimilarBatch runs SimilarWord for every word concurrently, with at most
// WithParallelism queries in flight. Results are in the order of words.
// The first failing query cancels the remaining ones.
func (e *Embeddings) SimilarBatch(ctx context.Context, words []string, k int) ([][]WordSimilarity, error) {
	if k <= 0 {
		return nil, ErrInvalidK
	}

	results := make([][]WordSimilarity, len(words))
	log := e.logger.WithK(k)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.parallelism)

	for i, w := range words {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			res, err := e.SimilarWord(w, k)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		log.DebugContext(ctx, "batch failed", "queries", len(words), "error", err)
		return nil, err
	}
	log.DebugContext(ctx, "batch completed", "queries", len(words))
	return results, nil
}
