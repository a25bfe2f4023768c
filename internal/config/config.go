// Package config loads the typed application configuration.
//
// Every constant the pipeline depends on (file paths, service URLs, model
// identifiers, batch and retrieval sizes) lives here and is injected into
// components at construction. Nothing reads configuration from global
// state, so tests substitute values freely.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/halcyon-sec/attackrag/internal/core/domain"
)

// Default configuration values.
const (
	DefaultKnowledgeBasePath = "datasets/raw/mitre/enterprise-attack.json"
	DefaultChromaURL         = "http://localhost:8000"
	DefaultCollection        = "mitre_attack"
	DefaultOllamaURL         = "http://localhost:11434"
	DefaultEmbeddingModel    = "nomic-embed-text"
	DefaultChatModel         = "DeepHat/DeepHat-V1-7B"
	DefaultBatchSize         = 100
	DefaultTopK              = 3
	DefaultWorkers           = 1
)

// KnowledgeBaseConfig locates the raw corpus.
type KnowledgeBaseConfig struct {
	// Path is the STIX bundle file, relative to the working directory
	// unless absolute.
	Path string `toml:"path"`
}

// ChromaConfig holds vector store settings.
type ChromaConfig struct {
	// BaseURL is the Chroma server base URL.
	BaseURL string `toml:"base_url"`

	// Collection is the collection name used by ingest, chat and audit.
	Collection string `toml:"collection"`
}

// OllamaConfig holds embedding and chat model settings.
type OllamaConfig struct {
	// BaseURL is the Ollama API base URL.
	BaseURL string `toml:"base_url"`

	// EmbeddingModel embeds documents and queries. Both paths must use
	// the same model or similarity search is meaningless.
	EmbeddingModel string `toml:"embedding_model"`

	// ChatModel answers questions in the assistant loop.
	ChatModel string `toml:"chat_model"`
}

// IngestConfig holds ingestion pipeline settings.
type IngestConfig struct {
	// BatchSize is the number of entries per upsert call.
	BatchSize int `toml:"batch_size"`

	// Workers bounds concurrent embedding requests. 1 means strictly
	// sequential processing.
	Workers int `toml:"workers"`
}

// RetrievalConfig holds similarity search settings.
type RetrievalConfig struct {
	// TopK is the number of nearest documents to retrieve.
	TopK int `toml:"top_k"`
}

// LedgerConfig holds ingest-run ledger settings.
type LedgerConfig struct {
	// Path is the SQLite database file. Empty means
	// ~/.attackrag/runs.db.
	Path string `toml:"path"`
}

// Config holds all application settings.
type Config struct {
	// KnowledgeBase locates the raw corpus.
	KnowledgeBase KnowledgeBaseConfig `toml:"knowledge_base"`

	// Chroma holds vector store settings.
	Chroma ChromaConfig `toml:"chroma"`

	// Ollama holds embedding and chat model settings.
	Ollama OllamaConfig `toml:"ollama"`

	// Ingest holds ingestion pipeline settings.
	Ingest IngestConfig `toml:"ingest"`

	// Retrieval holds similarity search settings.
	Retrieval RetrievalConfig `toml:"retrieval"`

	// Ledger holds ingest-run ledger settings.
	Ledger LedgerConfig `toml:"ledger"`
}

// Default returns the configuration with every field at its default.
func Default() Config {
	return Config{
		KnowledgeBase: KnowledgeBaseConfig{
			Path: DefaultKnowledgeBasePath,
		},
		Chroma: ChromaConfig{
			BaseURL:    DefaultChromaURL,
			Collection: DefaultCollection,
		},
		Ollama: OllamaConfig{
			BaseURL:        DefaultOllamaURL,
			EmbeddingModel: DefaultEmbeddingModel,
			ChatModel:      DefaultChatModel,
		},
		Ingest: IngestConfig{
			BatchSize: DefaultBatchSize,
			Workers:   DefaultWorkers,
		},
		Retrieval: RetrievalConfig{
			TopK: DefaultTopK,
		},
		// Ledger path is resolved by the store when empty.
		Ledger: LedgerConfig{},
	}
}

// DefaultPath returns the default configuration file location,
// ~/.attackrag/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(home, ".attackrag", "config.toml"), nil
}

// Load reads the configuration file at path, or the default location when
// path is empty. A missing file yields the defaults; settings present in
// the file override defaults field by field.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		defaultPath, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = defaultPath
	}

	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return &cfg, nil
		}
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks the settings a run cannot proceed without.
func (c *Config) Validate() error {
	if c.KnowledgeBase.Path == "" {
		return fmt.Errorf("%w: knowledge_base.path must not be empty", domain.ErrInvalidInput)
	}
	if c.Chroma.Collection == "" {
		return fmt.Errorf("%w: chroma.collection must not be empty", domain.ErrInvalidInput)
	}
	if c.Ingest.BatchSize < 1 {
		return fmt.Errorf("%w: ingest.batch_size must be at least 1", domain.ErrInvalidInput)
	}
	if c.Ingest.Workers < 1 {
		return fmt.Errorf("%w: ingest.workers must be at least 1", domain.ErrInvalidInput)
	}
	if c.Retrieval.TopK < 1 {
		return fmt.Errorf("%w: retrieval.top_k must be at least 1", domain.ErrInvalidInput)
	}
	return nil
}
