// Package pinecone provides a thin gateway to a hosted Pinecone index.
package pinecone

import (
	"context"
	"fmt"

	"github.com/pinecone-io/go-pinecone/pinecone"
	"google.golang.org/protobuf/types/known/structpb"
)

// NewPineconeService creates a new Pinecone service instance using the official SDK
func NewPineconeService(apiKey string) (*pineconeService, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("pinecone api key is required")
	}

	client, err := pinecone.NewClient(pinecone.NewClientParams{
		ApiKey: apiKey,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize pinecone client: %w", err)
	}

	return &pineconeService{client: client}, nil
}

// ForIndex returns an index gateway for the index behind host
func (ps *pineconeService) ForIndex(host, namespace string) (*indexOperations, error) {
	if host == "" {
		return nil, fmt.Errorf("pinecone index host is required")
	}

	conn, err := ps.client.Index(pinecone.NewIndexConnParams{
		Host:      host,
		Namespace: namespace,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to pinecone index: %w", err)
	}

	return &indexOperations{index: conn}, nil
}

// Search performs a vector similarity search in the index
func (idx *indexOperations) Search(ctx context.Context, queryVector []float32, topK int, filter map[string]any, includeMetadata bool) ([]QueryMatch, error) {
	var metadataFilter *structpb.Struct
	if filter != nil {
		f, err := structpb.NewStruct(filter)
		if err != nil {
			return nil, fmt.Errorf("failed to create metadata filter: %w", err)
		}
		metadataFilter = f
	}

	queryResponse, err := idx.index.QueryByVectorValues(ctx, &pinecone.QueryByVectorValuesRequest{
		Vector:          queryVector,
		TopK:            uint32(topK),
		IncludeValues:   false,
		IncludeMetadata: includeMetadata,
		MetadataFilter:  metadataFilter,
	})
	if err != nil {
		return nil, err
	}

	matches := make([]QueryMatch, len(queryResponse.Matches))
	for i, match := range queryResponse.Matches {
		matches[i] = *match
	}

	return matches, nil
}

// Upsert stores vectors in the index
func (idx *indexOperations) Upsert(ctx context.Context, vectors []Vector) error {
	pineconeVectors := make([]*pinecone.Vector, len(vectors))
	for i := range vectors {
		pineconeVectors[i] = &vectors[i]
	}

	_, err := idx.index.UpsertVectors(ctx, pineconeVectors)
	return err
}
