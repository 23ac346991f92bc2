package voyage

import (
	"testing"

	"github.com/austinfhunter/voyageai"
)

func TestNewEmbeddingService(t *testing.T) {
	service := NewEmbeddingService("test-api-key")

	if service == nil {
		t.Fatal("Expected non-nil service")
	}
	if service.dimensions != EMBEDDING_DIMENSIONS {
		t.Errorf("Expected dimensions %d, got %d", EMBEDDING_DIMENSIONS, service.dimensions)
	}
	if service.model != VOYAGEAI_EMBEDDING_MODEL {
		t.Errorf("Expected model %s, got %s", VOYAGEAI_EMBEDDING_MODEL, service.model)
	}
}

func TestSetDimensions(t *testing.T) {
	service := NewEmbeddingService("test-key")

	service.SetDimensions(512)
	if service.dimensions != 512 {
		t.Errorf("Expected dimensions 512, got %d", service.dimensions)
	}
}

func TestSetModel(t *testing.T) {
	service := NewEmbeddingService("test-key")

	service.SetModel("voyage-custom-model")
	if service.model != "voyage-custom-model" {
		t.Errorf("Expected model voyage-custom-model, got %s", service.model)
	}
}

func TestParseEmbeddingType(t *testing.T) {
	tests := []struct {
		name          string
		embeddingType VoyageEmbeddingType
		wantNil       bool
		wantValue     string
	}{
		{name: "default type returns nil", embeddingType: VoyageEmbeddingTypeDefault, wantNil: true},
		{name: "document type returns pointer", embeddingType: VoyageEmbeddingTypeDocument, wantValue: "document"},
		{name: "query type returns pointer", embeddingType: VoyageEmbeddingTypeQuery, wantValue: "query"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := parseEmbeddingType(tt.embeddingType)

			if tt.wantNil {
				if result != nil {
					t.Errorf("parseEmbeddingType() = %v, want nil", result)
				}
				return
			}
			if result == nil {
				t.Fatal("parseEmbeddingType() = nil, want non-nil")
			}
			if *result != tt.wantValue {
				t.Errorf("parseEmbeddingType() = %v, want %v", *result, tt.wantValue)
			}
		})
	}
}

func TestFirstEmbedding(t *testing.T) {
	resp := &voyageai.EmbeddingResponse{
		Data: []voyageai.EmbeddingObject{
			{Embedding: []float32{0.1, 0.2, 0.3}},
		},
	}

	embedding, err := firstEmbedding(resp)
	if err != nil {
		t.Fatalf("firstEmbedding failed: %v", err)
	}
	if len(embedding) != 3 {
		t.Errorf("Expected 3 dimensions, got %d", len(embedding))
	}
}

func TestFirstEmbedding_EmptyData(t *testing.T) {
	// A 200 response with no data must not panic the caller.
	if _, err := firstEmbedding(&voyageai.EmbeddingResponse{}); err == nil {
		t.Error("Expected an error for an empty data list")
	}
}

func TestFirstEmbedding_NilResponse(t *testing.T) {
	if _, err := firstEmbedding(nil); err == nil {
		t.Error("Expected an error for a nil response")
	}
}
