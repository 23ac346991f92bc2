package monitor

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// DefaultTopK is how many candidate monitors retrieval returns when the
// deployment does not configure its own K.
const DefaultTopK = 3

// Retriever maps article content to the monitors plausibly relevant to it.
// Its output is always a subset of the current store contents.
type Retriever struct {
	store *Store
	topK  int
	log   *zap.Logger
}

// NewRetriever creates a retriever over the given store. topK values outside
// (0, MaxSearchK] fall back to the default/cap.
func NewRetriever(store *Store, topK int, logger *zap.Logger) *Retriever {
	if topK <= 0 {
		topK = DefaultTopK
	}
	if topK > MaxSearchK {
		topK = MaxSearchK
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Retriever{store: store, topK: topK, log: logger}
}

// RetrieveRelevant returns the top-K monitors most semantically related to
// the article text. An empty store yields an empty result, which the pipeline
// treats as "nothing to classify".
func (r *Retriever) RetrieveRelevant(ctx context.Context, article ArticleContent) ([]Monitor, error) {
	monitors, err := r.store.Search(ctx, article.Text, r.topK)
	if err != nil {
		return nil, fmt.Errorf("monitor retrieval failed: %w", err)
	}

	labels := make([]string, len(monitors))
	for i, m := range monitors {
		labels[i] = m.Label
	}
	r.log.Debug("retrieved candidate monitors", zap.Strings("labels", labels))

	return monitors, nil
}
