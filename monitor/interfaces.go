package monitor

import "context"

// EmbeddingClient generates vector embeddings for text
type EmbeddingClient interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
}

// VectorMatch represents a single match from a vector search
type VectorMatch struct {
	ID       string
	Score    float32
	Metadata map[string]any
}

// VectorIndex performs vector similarity search and storage operations
type VectorIndex interface {
	Search(ctx context.Context, vector []float32, topK int) ([]VectorMatch, error)
	Upsert(ctx context.Context, id string, vector []float32, metadata map[string]any) error
}

// ChatRole identifies the author of a chat message.
type ChatRole string

const (
	RoleSystem    ChatRole = "system"
	RoleUser      ChatRole = "user"
	RoleAssistant ChatRole = "assistant"
)

// ChatMessage is one turn of a reasoning-engine conversation.
type ChatMessage struct {
	Role    ChatRole
	Content string
}

// CompletionClient sends a conversation to the reasoning engine and returns
// its raw text response. The response is untrusted input: the classifier
// validates it before anything downstream sees it.
type CompletionClient interface {
	Complete(ctx context.Context, messages []ChatMessage) (string, error)
}

// Notifier delivers an alert message to an external channel.
type Notifier interface {
	Notify(ctx context.Context, content string) error
}

// ArticleFetcher downloads a URL and extracts readable article content.
type ArticleFetcher interface {
	Fetch(ctx context.Context, url string) (ArticleContent, error)
}
