package monitor

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// MaxSearchK caps how many monitors a single search may return.
const MaxSearchK = 10

// metadataLabelKey is the vector metadata field holding the monitor label.
const metadataLabelKey = "label"

// Store is the durable, queryable collection of monitors. Reads may run
// concurrently; Add is serialized against every other store operation so a
// reader never observes a partially written index.
type Store struct {
	mu        sync.RWMutex
	embedding EmbeddingClient
	index     VectorIndex
	log       *zap.Logger
}

// NewStore wraps an embedding client and a vector index into a monitor store.
func NewStore(embedding EmbeddingClient, index VectorIndex, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		embedding: embedding,
		index:     index,
		log:       logger,
	}
}

// Add embeds the label, appends the monitor to the index and persists it.
// The embedding is computed once here and is immutable afterwards.
func (s *Store) Add(ctx context.Context, label string) (Monitor, error) {
	label = strings.TrimSpace(label)
	if label == "" {
		return Monitor{}, &InputError{Msg: "monitor label must not be empty"}
	}

	vector, err := s.embedding.GenerateEmbedding(ctx, label)
	if err != nil {
		return Monitor{}, &UpstreamError{Op: "embedding service", Err: err}
	}

	m := Monitor{
		ID:    uuid.New().String(),
		Label: label,
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	metadata := map[string]any{metadataLabelKey: label}
	if err := s.index.Upsert(ctx, m.ID, vector, metadata); err != nil {
		return Monitor{}, fmt.Errorf("failed to add monitor %q: %w", label, err)
	}

	s.log.Info("added monitor", zap.String("id", m.ID), zap.String("label", label))
	return m, nil
}

// Seed adds each bootstrap label to the store. It is used when the index was
// rebuilt from scratch and a deployment ships initial monitors.
func (s *Store) Seed(ctx context.Context, labels []string) error {
	for _, label := range labels {
		if _, err := s.Add(ctx, label); err != nil {
			return fmt.Errorf("failed to seed monitor %q: %w", label, err)
		}
	}
	return nil
}

// Search returns the k monitors most similar to the query text, most similar
// first. An empty store yields an empty result. Results are deterministic for
// an unchanged store and embedding function.
func (s *Store) Search(ctx context.Context, query string, k int) ([]Monitor, error) {
	if k <= 0 {
		return nil, nil
	}
	if k > MaxSearchK {
		k = MaxSearchK
	}

	vector, err := s.embedding.GenerateEmbedding(ctx, query)
	if err != nil {
		return nil, &UpstreamError{Op: "embedding service", Err: err}
	}

	s.mu.RLock()
	matches, err := s.index.Search(ctx, vector, k)
	s.mu.RUnlock()
	if err != nil {
		return nil, fmt.Errorf("failed to search monitor index: %w", err)
	}

	monitors := make([]Monitor, 0, len(matches))
	for _, match := range matches {
		label, ok := match.Metadata[metadataLabelKey].(string)
		if !ok || label == "" {
			// A vector without a label is not a monitor we can report on.
			s.log.Warn("skipping index entry without label metadata", zap.String("id", match.ID))
			continue
		}
		monitors = append(monitors, Monitor{ID: match.ID, Label: label})
	}
	return monitors, nil
}
