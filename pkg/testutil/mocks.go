// Package testutil provides shared mock implementations of the monitor
// interfaces for tests.
package testutil

import (
	"context"
	"sync"

	"github.com/FrenchMajesty/pr-monitor/monitor"
)

// MockEmbeddingClient is a mock implementation of EmbeddingClient for testing
type MockEmbeddingClient struct {
	GenerateEmbeddingFunc func(ctx context.Context, text string) ([]float32, error)
	mu                    sync.Mutex
	CallCount             int
	LastText              string
}

func (m *MockEmbeddingClient) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	m.mu.Lock()
	m.CallCount++
	m.LastText = text
	m.mu.Unlock()

	if m.GenerateEmbeddingFunc != nil {
		return m.GenerateEmbeddingFunc(ctx, text)
	}
	// Default: return a simple embedding based on text length
	embedding := make([]float32, 10)
	for i := range embedding {
		embedding[i] = float32(len(text)) / 100.0
	}
	return embedding, nil
}

// MockVectorIndex is a mock implementation of VectorIndex for testing
type MockVectorIndex struct {
	SearchFunc func(ctx context.Context, vector []float32, topK int) ([]monitor.VectorMatch, error)
	UpsertFunc func(ctx context.Context, id string, vector []float32, metadata map[string]any) error

	mu          sync.Mutex
	SearchCount int
	UpsertCount int
	Storage     map[string]struct {
		Vector   []float32
		Metadata map[string]any
	}
}

func NewMockVectorIndex() *MockVectorIndex {
	return &MockVectorIndex{
		Storage: make(map[string]struct {
			Vector   []float32
			Metadata map[string]any
		}),
	}
}

func (m *MockVectorIndex) Search(ctx context.Context, vector []float32, topK int) ([]monitor.VectorMatch, error) {
	m.mu.Lock()
	m.SearchCount++
	m.mu.Unlock()

	if m.SearchFunc != nil {
		return m.SearchFunc(ctx, vector, topK)
	}

	// Default: no matches
	return []monitor.VectorMatch{}, nil
}

func (m *MockVectorIndex) Upsert(ctx context.Context, id string, vector []float32, metadata map[string]any) error {
	m.mu.Lock()
	m.UpsertCount++
	m.Storage[id] = struct {
		Vector   []float32
		Metadata map[string]any
	}{Vector: vector, Metadata: metadata}
	m.mu.Unlock()

	if m.UpsertFunc != nil {
		return m.UpsertFunc(ctx, id, vector, metadata)
	}

	return nil
}

// MockCompletionClient is a mock implementation of CompletionClient for testing
type MockCompletionClient struct {
	CompleteFunc func(ctx context.Context, messages []monitor.ChatMessage) (string, error)

	mu           sync.Mutex
	CallCount    int
	LastMessages []monitor.ChatMessage
}

func (m *MockCompletionClient) Complete(ctx context.Context, messages []monitor.ChatMessage) (string, error) {
	m.mu.Lock()
	m.CallCount++
	m.LastMessages = messages
	m.mu.Unlock()

	if m.CompleteFunc != nil {
		return m.CompleteFunc(ctx, messages)
	}

	// Default: everything is fine
	return `[]`, nil
}

// Calls returns how many times Complete was invoked.
func (m *MockCompletionClient) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.CallCount
}

// MockNotifier is a mock implementation of Notifier for testing
type MockNotifier struct {
	NotifyFunc func(ctx context.Context, content string) error

	mu        sync.Mutex
	CallCount int
	Messages  []string
}

func (m *MockNotifier) Notify(ctx context.Context, content string) error {
	m.mu.Lock()
	m.CallCount++
	m.Messages = append(m.Messages, content)
	m.mu.Unlock()

	if m.NotifyFunc != nil {
		return m.NotifyFunc(ctx, content)
	}

	return nil
}

// MockFetcher is a mock implementation of ArticleFetcher for testing
type MockFetcher struct {
	FetchFunc func(ctx context.Context, url string) (monitor.ArticleContent, error)

	mu        sync.Mutex
	CallCount int
	LastURL   string
}

func (m *MockFetcher) Fetch(ctx context.Context, url string) (monitor.ArticleContent, error) {
	m.mu.Lock()
	m.CallCount++
	m.LastURL = url
	m.mu.Unlock()

	if m.FetchFunc != nil {
		return m.FetchFunc(ctx, url)
	}

	return monitor.ArticleContent{Text: "fetched article", SourceURL: url}, nil
}
