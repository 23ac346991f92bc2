package adapters

import (
	"context"
	"fmt"
	"strings"

	"github.com/FrenchMajesty/pr-monitor/adapters/openai"
	"github.com/FrenchMajesty/pr-monitor/monitor"
)

const defaultChatModel = "gpt-4.1-mini"

const defaultEmbeddingModel = "text-embedding-3-small"

// OpenAICompletionAdapter implements monitor.CompletionClient using the
// OpenAI chat completion endpoint.
type OpenAICompletionAdapter struct {
	client openai.LanguageModelClient
	model  string
}

// NewOpenAICompletionAdapter creates a completion client with the API key
// from the environment when none is provided.
func NewOpenAICompletionAdapter(apiKey *string, model string) (*OpenAICompletionAdapter, error) {
	key, err := loadEnvVar(apiKey, "OPENAI_API_KEY")
	if err != nil {
		return nil, err
	}

	if model == "" {
		model = defaultChatModel
	}

	return &OpenAICompletionAdapter{
		client: openai.NewClient(*key),
		model:  model,
	}, nil
}

// Complete sends the conversation and returns the raw assistant text.
func (a *OpenAICompletionAdapter) Complete(ctx context.Context, messages []monitor.ChatMessage) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:    a.model,
		Messages: make([]openai.ChatMessage, len(messages)),
	}
	for i, m := range messages {
		content := m.Content
		req.Messages[i] = openai.ChatMessage{
			Role:    openai.MessageRole(m.Role),
			Content: &content,
		}
	}

	resp, err := a.client.ChatCompletion(ctx, req)
	if err != nil {
		return "", fmt.Errorf("failed to get LLM response: %w", err)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == nil {
		return "", fmt.Errorf("no response from LLM")
	}

	return strings.TrimSpace(*resp.Choices[0].Message.Content), nil
}

// OpenAIEmbeddingAdapter implements monitor.EmbeddingClient using the OpenAI
// embeddings endpoint.
type OpenAIEmbeddingAdapter struct {
	client openai.LanguageModelClient
	model  string
}

// NewOpenAIEmbeddingAdapter creates an embedding client with the API key
// from the environment when none is provided.
func NewOpenAIEmbeddingAdapter(apiKey *string, model string) (*OpenAIEmbeddingAdapter, error) {
	key, err := loadEnvVar(apiKey, "OPENAI_API_KEY")
	if err != nil {
		return nil, err
	}

	if model == "" {
		model = defaultEmbeddingModel
	}

	return &OpenAIEmbeddingAdapter{
		client: openai.NewClient(*key),
		model:  model,
	}, nil
}

// GenerateEmbedding implements EmbeddingClient interface
func (a *OpenAIEmbeddingAdapter) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	resp, err := a.client.CreateEmbedding(ctx, openai.EmbeddingRequest{
		Model: a.model,
		Input: []string{text},
	})
	if err != nil {
		return nil, fmt.Errorf("could not get embedding: %w", err)
	}

	if len(resp.Data) == 0 {
		return nil, fmt.Errorf("no embedding in response")
	}

	return resp.Data[0].Embedding, nil
}
