package monitor

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"
)

// indexEntry is one persisted vector with its metadata.
type indexEntry struct {
	ID       string         `json:"id"`
	Values   []float32      `json:"values"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

// FileIndex is a file-backed VectorIndex. Vectors live in memory and every
// mutation is written through to disk; a failed write rolls the in-memory
// state back so readers never see entries that were not persisted.
type FileIndex struct {
	path    string
	entries []indexEntry
	log     *zap.Logger
}

var _ VectorIndex = (*FileIndex)(nil)

// OpenFileIndex loads the index at path, or creates a fresh empty one when
// the file is missing or unreadable. The returned IndexState tells the caller
// which happened; a rebuild is logged, never fatal.
func OpenFileIndex(path string, logger *zap.Logger) (*FileIndex, IndexState, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	idx := &FileIndex{path: path, log: logger}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		logger.Info("no monitor index found, creating a new one", zap.String("path", path))
		if err := idx.save(); err != nil {
			logger.Warn("could not persist fresh index, continuing in memory", zap.Error(err))
		}
		return idx, IndexRebuilt, nil
	}
	if err != nil {
		logger.Warn("monitor index is unreadable, rebuilding from scratch",
			zap.String("path", path), zap.Error(&StoreReadError{Err: err}))
		if err := idx.save(); err != nil {
			logger.Warn("could not persist fresh index, continuing in memory", zap.Error(err))
		}
		return idx, IndexRebuilt, nil
	}

	var entries []indexEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		logger.Warn("monitor index is corrupt, rebuilding from scratch",
			zap.String("path", path), zap.Error(err))
		if err := idx.save(); err != nil {
			logger.Warn("could not persist fresh index, continuing in memory", zap.Error(err))
		}
		return idx, IndexRebuilt, nil
	}

	idx.entries = entries
	logger.Info("loaded monitor index", zap.String("path", path), zap.Int("vectors", len(entries)))
	return idx, IndexLoaded, nil
}

// Search returns the topK nearest entries by cosine similarity, most similar
// first. The ordering is deterministic for an unchanged index: ties keep
// insertion order.
func (f *FileIndex) Search(_ context.Context, vector []float32, topK int) ([]VectorMatch, error) {
	if topK <= 0 || len(f.entries) == 0 {
		return nil, nil
	}

	matches := make([]VectorMatch, 0, len(f.entries))
	for _, e := range f.entries {
		matches = append(matches, VectorMatch{
			ID:       e.ID,
			Score:    cosineSimilarity(vector, e.Values),
			Metadata: e.Metadata,
		})
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	if len(matches) > topK {
		matches = matches[:topK]
	}
	return matches, nil
}

// Upsert inserts or replaces the vector with the given id and persists the
// index. On a write failure the in-memory change is undone and a
// StoreWriteError is returned.
func (f *FileIndex) Upsert(_ context.Context, id string, vector []float32, metadata map[string]any) error {
	prev := f.entries
	next := make([]indexEntry, 0, len(prev)+1)
	replaced := false
	for _, e := range prev {
		if e.ID == id {
			next = append(next, indexEntry{ID: id, Values: vector, Metadata: metadata})
			replaced = true
			continue
		}
		next = append(next, e)
	}
	if !replaced {
		next = append(next, indexEntry{ID: id, Values: vector, Metadata: metadata})
	}

	f.entries = next
	if err := f.save(); err != nil {
		f.entries = prev
		return &StoreWriteError{Err: err}
	}
	return nil
}

// Len returns the number of vectors currently in the index.
func (f *FileIndex) Len() int {
	return len(f.entries)
}

func (f *FileIndex) save() error {
	data, err := json.Marshal(f.entries)
	if err != nil {
		return fmt.Errorf("failed to marshal index: %w", err)
	}
	if dir := filepath.Dir(f.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create index directory: %w", err)
		}
	}
	if err := os.WriteFile(f.path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write index to %s: %w", f.path, err)
	}
	return nil
}

func cosineSimilarity(a, b []float32) float32 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
