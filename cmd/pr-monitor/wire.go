package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/FrenchMajesty/pr-monitor/adapters"
	"github.com/FrenchMajesty/pr-monitor/adapters/fetch"
	"github.com/FrenchMajesty/pr-monitor/adapters/webhook"
	"github.com/FrenchMajesty/pr-monitor/internal/config"
	"github.com/FrenchMajesty/pr-monitor/monitor"
)

// buildPipeline assembles the configured backends into an evaluation
// pipeline and its monitor store.
func buildPipeline(ctx context.Context, cfg config.Config, logger *zap.Logger) (*monitor.Pipeline, *monitor.Store, error) {
	embedding, err := buildEmbedding(cfg)
	if err != nil {
		return nil, nil, err
	}

	index, state, err := buildIndex(cfg, logger)
	if err != nil {
		return nil, nil, err
	}

	store := monitor.NewStore(embedding, index, logger)
	if state == monitor.IndexRebuilt && len(cfg.Store.Bootstrap) > 0 {
		logger.Info("seeding bootstrap monitors", zap.Int("count", len(cfg.Store.Bootstrap)))
		if err := store.Seed(ctx, cfg.Store.Bootstrap); err != nil {
			return nil, nil, err
		}
	}

	llm, err := adapters.NewOpenAICompletionAdapter(nonEmpty(cfg.Chat.APIKey), cfg.Chat.Model)
	if err != nil {
		return nil, nil, err
	}

	pipeline, err := monitor.NewPipeline(monitor.PipelineConfig{
		Retriever:  monitor.NewRetriever(store, cfg.Pipeline.TopK, logger),
		Classifier: monitor.NewRiskClassifier(llm, cfg.Pipeline.FormatRetries, logger),
		Dispatcher: monitor.NewAlertDispatcher(webhook.NewNotifier(cfg.Alerts.WebhookURL), 0, logger),
		Fetcher:    fetch.NewArticleFetcher(0),
		Logger:     logger,
	})
	if err != nil {
		return nil, nil, err
	}

	return pipeline, store, nil
}

func buildEmbedding(cfg config.Config) (monitor.EmbeddingClient, error) {
	switch cfg.Embedding.Backend {
	case config.EmbeddingBackendVoyage:
		return adapters.NewVoyageEmbeddingAdapter(nonEmpty(cfg.Embedding.APIKey))
	case config.EmbeddingBackendOpenAI:
		return adapters.NewOpenAIEmbeddingAdapter(nonEmpty(cfg.Embedding.APIKey), cfg.Embedding.Model)
	default:
		return nil, fmt.Errorf("unknown embedding backend %q", cfg.Embedding.Backend)
	}
}

func buildIndex(cfg config.Config, logger *zap.Logger) (monitor.VectorIndex, monitor.IndexState, error) {
	switch cfg.Store.Backend {
	case config.VectorBackendLocal:
		return monitor.OpenFileIndex(cfg.Store.IndexPath, logger)
	case config.VectorBackendPinecone:
		idx, err := adapters.NewPineconeVectorAdapter(
			nonEmpty(cfg.Store.PineconeAPIKey),
			nonEmpty(cfg.Store.PineconeHost),
			cfg.Store.PineconeNamespace,
		)
		if err != nil {
			return nil, 0, err
		}
		// A hosted index persists on its own; there is nothing to rebuild.
		return idx, monitor.IndexLoaded, nil
	default:
		return nil, 0, fmt.Errorf("unknown vector backend %q", cfg.Store.Backend)
	}
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
