package wordvec

import (
	"github.com/hupe1980/wordvec/metadata"
)

type options struct {
	logger           *Logger
	metricsCollector MetricsCollector
	normalize        bool
	cacheSize        int
	parallelism      int
	norms            []float32
	metadata         metadata.Metadata
}

func defaultOptions() options {
	return options{
		logger:           NoopLogger(),
		metricsCollector: NoopMetricsCollector{},
		parallelism:      4,
	}
}

func applyOptions(opts []Option) options {
	o := defaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

// Option configures construction and load behavior.
type Option func(*options)

// WithLogger sets the logger used for load and query diagnostics.
// If nil is passed, logging is disabled.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithMetricsCollector configures a metrics collector for monitoring loads
// and queries. Pass nil to disable metrics collection.
//
// Example with BasicMetricsCollector:
//
//	metrics := &wordvec.BasicMetricsCollector{}
//	e, _ := wordvec.ReadFile("vectors.r2v", wordvec.FormatRust2Vec, wordvec.WithMetricsCollector(metrics))
//	_, _ = e.SimilarWord("berlin", 10)
//	stats := metrics.GetStats()
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithNormalize normalizes all rows to unit length after loading.
// Loading mapped storage with normalization enabled fails with
// ErrMutationOnReadOnlyStorage.
func WithNormalize(normalize bool) Option {
	return func(o *options) {
		o.normalize = normalize
	}
}

// WithCache caches up to size embeddings of out-of-vocabulary words, which
// are otherwise summed from their subword rows on every lookup. Zero
// disables the cache.
func WithCache(size int) Option {
	return func(o *options) {
		o.cacheSize = max(size, 0)
	}
}

// WithParallelism bounds the number of concurrent queries of SimilarBatch.
func WithParallelism(n int) Option {
	return func(o *options) {
		o.parallelism = max(n, 1)
	}
}

// WithNorms attaches the norms the rows had before they were normalized.
// Rows are then treated as unit length.
func WithNorms(norms []float32) Option {
	return func(o *options) {
		o.norms = norms
	}
}

// WithMetadata attaches a metadata document.
func WithMetadata(md metadata.Metadata) Option {
	return func(o *options) {
		o.metadata = md
	}
}
