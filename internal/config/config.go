// Package config loads process configuration from an optional YAML file with
// environment-variable overrides.
package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

const (
	addrEnv          = "PR_MONITOR_ADDR"
	indexPathEnv     = "PR_MONITOR_INDEX_PATH"
	vectorBackendEnv = "PR_MONITOR_VECTOR_BACKEND"
	embeddingEnv     = "PR_MONITOR_EMBEDDING_BACKEND"
	topKEnv          = "PR_MONITOR_TOP_K"
	webhookURLEnv    = "ALERT_WEBHOOK_URL"
	openaiKeyEnv     = "OPENAI_API_KEY"
	voyageKeyEnv     = "VOYAGEAI_API_KEY"
	pineconeKeyEnv   = "PINECONE_API_KEY"
	pineconeHostEnv  = "PINECONE_HOST"
)

// Backend names accepted for the vector index and embedding provider.
const (
	VectorBackendLocal    = "local"
	VectorBackendPinecone = "pinecone"

	EmbeddingBackendVoyage = "voyage"
	EmbeddingBackendOpenAI = "openai"
)

// Config holds high-level settings required across the application.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Store     StoreConfig     `yaml:"store"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Chat      ChatConfig      `yaml:"chat"`
	Alerts    AlertConfig     `yaml:"alerts"`
	Pipeline  PipelineConfig  `yaml:"pipeline"`
}

// ServerConfig describes the HTTP listener.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// StoreConfig describes where monitors live.
type StoreConfig struct {
	// Backend selects the vector index: "local" (file-backed) or "pinecone".
	Backend string `yaml:"backend"`

	// IndexPath is the local index file, used by the local backend.
	IndexPath string `yaml:"indexPath"`

	// PineconeHost and PineconeNamespace configure the pinecone backend.
	PineconeHost      string `yaml:"pineconeHost"`
	PineconeNamespace string `yaml:"pineconeNamespace"`
	PineconeAPIKey    string `yaml:"pineconeApiKey"`

	// Bootstrap monitors seeded when the index is rebuilt from scratch.
	Bootstrap []string `yaml:"bootstrap"`
}

// EmbeddingConfig selects and configures the embedding provider.
type EmbeddingConfig struct {
	// Backend is "voyage" or "openai".
	Backend string `yaml:"backend"`
	APIKey  string `yaml:"apiKey"`
	Model   string `yaml:"model"`
}

// ChatConfig configures the reasoning engine.
type ChatConfig struct {
	APIKey string `yaml:"apiKey"`
	Model  string `yaml:"model"`
}

// AlertConfig configures the outbound notification channel.
type AlertConfig struct {
	WebhookURL string `yaml:"webhookUrl"`
}

// PipelineConfig tunes the evaluation flow.
type PipelineConfig struct {
	TopK          int `yaml:"topK"`
	FormatRetries int `yaml:"formatRetries"`
}

// Load reads YAML configuration from path (if non-empty) and applies
// environment overrides.
func Load(path string) (Config, error) {
	cfg := defaultConfig()

	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("config: cannot read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: cannot parse %s: %w", path, err)
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv(addrEnv); v != "" {
		c.Server.Addr = v
	}
	if v := os.Getenv(indexPathEnv); v != "" {
		c.Store.IndexPath = v
	}
	if v := os.Getenv(vectorBackendEnv); v != "" {
		c.Store.Backend = v
	}
	if v := os.Getenv(pineconeKeyEnv); v != "" {
		c.Store.PineconeAPIKey = v
	}
	if v := os.Getenv(pineconeHostEnv); v != "" {
		c.Store.PineconeHost = v
	}
	if v := os.Getenv(embeddingEnv); v != "" {
		c.Embedding.Backend = v
	}
	if v := os.Getenv(webhookURLEnv); v != "" {
		c.Alerts.WebhookURL = v
	}
	if v := os.Getenv(openaiKeyEnv); v != "" {
		if c.Chat.APIKey == "" {
			c.Chat.APIKey = v
		}
		if c.Embedding.Backend == EmbeddingBackendOpenAI && c.Embedding.APIKey == "" {
			c.Embedding.APIKey = v
		}
	}
	if v := os.Getenv(voyageKeyEnv); v != "" && c.Embedding.Backend == EmbeddingBackendVoyage && c.Embedding.APIKey == "" {
		c.Embedding.APIKey = v
	}
	if v := os.Getenv(topKEnv); v != "" {
		if k, err := strconv.Atoi(v); err == nil {
			c.Pipeline.TopK = k
		}
	}
}

// Validate rejects configurations the wiring cannot act on.
func (c *Config) Validate() error {
	switch c.Store.Backend {
	case VectorBackendLocal, VectorBackendPinecone:
	default:
		return fmt.Errorf("config: unknown vector backend %q", c.Store.Backend)
	}
	switch c.Embedding.Backend {
	case EmbeddingBackendVoyage, EmbeddingBackendOpenAI:
	default:
		return fmt.Errorf("config: unknown embedding backend %q", c.Embedding.Backend)
	}
	return nil
}

func defaultConfig() Config {
	return Config{
		Server: ServerConfig{Addr: ":8080"},
		Store: StoreConfig{
			Backend:           VectorBackendLocal,
			IndexPath:         "monitor_data/index.json",
			PineconeNamespace: "monitors",
		},
		Embedding: EmbeddingConfig{Backend: EmbeddingBackendVoyage},
		Chat:      ChatConfig{},
		Pipeline:  PipelineConfig{TopK: 3, FormatRetries: 1},
	}
}
