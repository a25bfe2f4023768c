package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/halcyon-sec/attackrag/internal/core/domain"
)

// TestDefault tests the default configuration values
func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "datasets/raw/mitre/enterprise-attack.json", cfg.KnowledgeBase.Path)
	assert.Equal(t, "http://localhost:8000", cfg.Chroma.BaseURL)
	assert.Equal(t, "mitre_attack", cfg.Chroma.Collection)
	assert.Equal(t, "http://localhost:11434", cfg.Ollama.BaseURL)
	assert.Equal(t, "nomic-embed-text", cfg.Ollama.EmbeddingModel)
	assert.Equal(t, "DeepHat/DeepHat-V1-7B", cfg.Ollama.ChatModel)
	assert.Equal(t, 100, cfg.Ingest.BatchSize)
	assert.Equal(t, 1, cfg.Ingest.Workers)
	assert.Equal(t, 3, cfg.Retrieval.TopK)
	assert.Empty(t, cfg.Ledger.Path)
}

// TestLoad_FileOverridesDefaults tests that file settings win over defaults
func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[knowledge_base]
path = "/data/mitre/enterprise-attack.json"

[chroma]
collection = "mitre_test"

[ingest]
batch_size = 50
workers = 4

[retrieval]
top_k = 5
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "/data/mitre/enterprise-attack.json", cfg.KnowledgeBase.Path)
	assert.Equal(t, "mitre_test", cfg.Chroma.Collection)
	assert.Equal(t, 50, cfg.Ingest.BatchSize)
	assert.Equal(t, 4, cfg.Ingest.Workers)
	assert.Equal(t, 5, cfg.Retrieval.TopK)
	// Untouched sections keep their defaults
	assert.Equal(t, "http://localhost:8000", cfg.Chroma.BaseURL)
	assert.Equal(t, "nomic-embed-text", cfg.Ollama.EmbeddingModel)
}

// TestLoad_PartialSection tests that partial sections keep sibling defaults
func TestLoad_PartialSection(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[ollama]
chat_model = "llama3.2"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "llama3.2", cfg.Ollama.ChatModel)
	assert.Equal(t, "nomic-embed-text", cfg.Ollama.EmbeddingModel)
	assert.Equal(t, "http://localhost:11434", cfg.Ollama.BaseURL)
}

// TestLoad_ExplicitPathMissing tests that a named config file must exist
func TestLoad_ExplicitPathMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"))

	require.Error(t, err)
}

// TestLoad_InvalidTOML tests the parse error path
func TestLoad_InvalidTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("not = [valid"), 0600))

	_, err := Load(path)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

// TestValidate tests the settings invariants
func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults are valid", func(c *Config) {}, false},
		{"empty knowledge base path", func(c *Config) { c.KnowledgeBase.Path = "" }, true},
		{"empty collection", func(c *Config) { c.Chroma.Collection = "" }, true},
		{"zero batch size", func(c *Config) { c.Ingest.BatchSize = 0 }, true},
		{"negative batch size", func(c *Config) { c.Ingest.BatchSize = -10 }, true},
		{"zero workers", func(c *Config) { c.Ingest.Workers = 0 }, true},
		{"zero top k", func(c *Config) { c.Retrieval.TopK = 0 }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)

			err := cfg.Validate()

			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, domain.ErrInvalidInput)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

// TestLoad_RejectsInvalidValues tests that loading enforces validation
func TestLoad_RejectsInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
[ingest]
batch_size = 0
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	_, err := Load(path)

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
