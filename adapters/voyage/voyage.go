// Package voyage wraps the VoyageAI SDK into an embedding service.
package voyage

import (
	"context"
	"fmt"
	"sync"

	"github.com/austinfhunter/voyageai"
)

var client *voyageai.VoyageClient
var once sync.Once

const EMBEDDING_DIMENSIONS = 1024

const VOYAGEAI_EMBEDDING_MODEL = "voyage-3.5-lite"

type VoyageEmbeddingType string

const (
	VoyageEmbeddingTypeDocument VoyageEmbeddingType = "document"
	VoyageEmbeddingTypeQuery    VoyageEmbeddingType = "query"
	VoyageEmbeddingTypeDefault  VoyageEmbeddingType = ""
)

// voyageService handles generating embeddings for text
type voyageService struct {
	dimensions int
	model      string
}

// NewEmbeddingService creates a new embedding service
func NewEmbeddingService(apiKey string) *voyageService {
	once.Do(func() {
		client = voyageai.NewClient(&voyageai.VoyageClientOpts{
			Key: apiKey,
		})
	})

	return &voyageService{
		dimensions: EMBEDDING_DIMENSIONS,
		model:      VOYAGEAI_EMBEDDING_MODEL,
	}
}

// SetDimensions sets the dimensions for the embedding model
func (es *voyageService) SetDimensions(dimensions int) {
	es.dimensions = dimensions
}

// SetModel sets the model for the embedding model
func (es *voyageService) SetModel(model string) {
	es.model = model
}

// GenerateEmbedding generates an embedding for a single text using VoyageAI
func (es *voyageService) GenerateEmbedding(ctx context.Context, text string, embeddingType VoyageEmbeddingType) ([]float32, error) {
	dimensions := es.dimensions
	inputType := parseEmbeddingType(embeddingType)

	embeddings, err := client.Embed(
		[]string{text},
		es.model,
		&voyageai.EmbeddingRequestOpts{
			InputType:       inputType,
			OutputDimension: &dimensions,
		},
	)

	if err != nil {
		return nil, fmt.Errorf("could not get embedding: %w", err)
	}

	return firstEmbedding(embeddings)
}

// firstEmbedding extracts the single embedding from a response. The API can
// answer 200 with an empty data list, which is still a failed embedding.
func firstEmbedding(resp *voyageai.EmbeddingResponse) ([]float32, error) {
	if resp == nil || len(resp.Data) == 0 {
		return nil, fmt.Errorf("no embedding in response")
	}
	return resp.Data[0].Embedding, nil
}

func parseEmbeddingType(embeddingType VoyageEmbeddingType) *string {
	if embeddingType != VoyageEmbeddingTypeDefault {
		value := string(embeddingType)
		return &value
	}
	return nil
}
