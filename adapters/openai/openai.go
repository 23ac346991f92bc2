// Package openai is a minimal client for the OpenAI chat completion and
// embeddings endpoints.
package openai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/FrenchMajesty/pr-monitor/internal/retry"
)

const openaiBaseURL = "https://api.openai.com/v1"

// OpenAIClient is a minimal client for the OpenAI API
type OpenAIClient struct {
	APIKey      string
	BaseURL     string
	HTTPClient  *http.Client
	RetryConfig retry.Config
}

// LanguageModelClient is the surface the adapters depend on.
type LanguageModelClient interface {
	ChatCompletion(ctx context.Context, req ChatCompletionRequest) (*ChatCompletionResponse, error)
	CreateEmbedding(ctx context.Context, req EmbeddingRequest) (*EmbeddingResponse, error)
	SetBaseURL(baseUrl string)
}

// Creates a new OpenAIClient
func NewClient(apiKey string) *OpenAIClient {
	return &OpenAIClient{
		APIKey:      apiKey,
		BaseURL:     openaiBaseURL,
		HTTPClient:  http.DefaultClient,
		RetryConfig: retry.DefaultConfig(),
	}
}

var _ LanguageModelClient = (*OpenAIClient)(nil)

// Sends a chat completion request to OpenAI with retry logic
func (c *OpenAIClient) ChatCompletion(ctx context.Context, req ChatCompletionRequest) (*ChatCompletionResponse, error) {
	url := c.BaseURL + "/chat/completions"

	bodyBytes, err := c.createAndRunRetryableRequest(ctx, url, req, "chat")
	if err != nil {
		return nil, err
	}

	var chatResp ChatCompletionResponse
	if err := json.Unmarshal(bodyBytes, &chatResp); err != nil {
		return nil, &APIError{
			Message: fmt.Sprintf("failed to parse chat completion response: %v", err),
			RawBody: json.RawMessage(bodyBytes),
		}
	}

	return &chatResp, nil
}

// Sends an embedding request to OpenAI with retry logic
func (c *OpenAIClient) CreateEmbedding(ctx context.Context, req EmbeddingRequest) (*EmbeddingResponse, error) {
	url := c.BaseURL + "/embeddings"

	bodyBytes, err := c.createAndRunRetryableRequest(ctx, url, req, "embeddings")
	if err != nil {
		return nil, err
	}

	var embResp EmbeddingResponse
	if err := json.Unmarshal(bodyBytes, &embResp); err != nil {
		return nil, &APIError{
			Message: fmt.Sprintf("failed to parse embedding response: %v", err),
			RawBody: json.RawMessage(bodyBytes),
		}
	}

	return &embResp, nil
}

// Sets the base URL for the OpenAI client
func (c *OpenAIClient) SetBaseURL(baseUrl string) {
	c.BaseURL = baseUrl
}
