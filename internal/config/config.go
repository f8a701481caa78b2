// Package config loads and persists the studyhall configuration file.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// Defaults applied when the config file is absent or partial.
const (
	DefaultChunkSize    = 800
	DefaultChunkOverlap = 100
	DefaultMaxResults   = 5
	DefaultMaxHistory   = 2

	DefaultCompletionModel = "claude-sonnet-4-20250514"
	DefaultEmbeddingModel  = "text-embedding-3-small"

	// DefaultEmbeddingRPS caps embedding requests per second during
	// bulk ingestion. Zero disables the limiter.
	DefaultEmbeddingRPS = 0
)

// Config is the full studyhall configuration, stored as TOML at
// ~/.studyhall/config.toml by default.
type Config struct {
	// DataDir is where the vector database persists. Empty means
	// ~/.studyhall/db.
	DataDir string `toml:"data_dir"`

	// ChunkSize and ChunkOverlap control transcript chunking, in
	// characters.
	ChunkSize    int `toml:"chunk_size"`
	ChunkOverlap int `toml:"chunk_overlap"`

	// MaxResults is the search result limit per query.
	MaxResults int `toml:"max_results"`

	// MaxHistory is the number of retained conversation exchanges.
	MaxHistory int `toml:"max_history"`

	// CourseMatchThreshold is the minimum similarity (0-1) for fuzzy
	// course name resolution. Zero means the best match always wins.
	CourseMatchThreshold float64 `toml:"course_match_threshold"`

	Completion CompletionConfig `toml:"completion"`
	Embedding  EmbeddingConfig  `toml:"embedding"`
}

// CompletionConfig configures the answer-generation service.
type CompletionConfig struct {
	// Model is the completion model name.
	Model string `toml:"model"`

	// BaseURL overrides the API endpoint, e.g. for a proxy.
	BaseURL string `toml:"base_url,omitempty"`

	// APIKey authenticates completion requests. The ANTHROPIC_API_KEY
	// environment variable takes precedence.
	APIKey string `toml:"api_key,omitempty"`
}

// EmbeddingConfig configures the embedding service behind the vector
// store.
type EmbeddingConfig struct {
	// Model is the embedding model name.
	Model string `toml:"model"`

	// BaseURL overrides the API endpoint.
	BaseURL string `toml:"base_url,omitempty"`

	// APIKey authenticates embedding requests. The OPENAI_API_KEY
	// environment variable takes precedence.
	APIKey string `toml:"api_key,omitempty"`

	// RequestsPerSecond rate-limits embedding calls during ingestion.
	// Zero disables the limiter.
	RequestsPerSecond float64 `toml:"requests_per_second,omitempty"`
}

// Default returns a config populated with defaults.
func Default() *Config {
	return &Config{
		ChunkSize:    DefaultChunkSize,
		ChunkOverlap: DefaultChunkOverlap,
		MaxResults:   DefaultMaxResults,
		MaxHistory:   DefaultMaxHistory,
		Completion:   CompletionConfig{Model: DefaultCompletionModel},
		Embedding: EmbeddingConfig{
			Model:             DefaultEmbeddingModel,
			RequestsPerSecond: DefaultEmbeddingRPS,
		},
	}
}

// DefaultDir returns the studyhall config directory (~/.studyhall).
func DefaultDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".studyhall"), nil
}

// DefaultPath returns the default config file path.
func DefaultPath() (string, error) {
	dir, err := DefaultDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load reads the config file at path, falling back to the default path
// when empty. A missing file yields the defaults. A .env file in the
// working directory is loaded first; ANTHROPIC_API_KEY and
// OPENAI_API_KEY environment variables override the file's keys.
func Load(path string) (*Config, error) {
	// Best effort: absent .env files are not an error.
	_ = godotenv.Load()

	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return nil, err
		}
	}

	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// No file yet: defaults plus environment.
	case err != nil:
		return nil, fmt.Errorf("read config %s: %w", path, err)
	default:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the config as TOML with restricted permissions, creating
// the parent directory if needed.
func (c *Config) Save(path string) error {
	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return err
		}
	}

	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	data, err := toml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}

	// Restricted permissions: the file may hold API keys.
	return os.WriteFile(path, data, 0600)
}

// Validate checks the config for values that cannot work.
func (c *Config) Validate() error {
	if c.ChunkSize <= 0 {
		return fmt.Errorf("chunk_size must be positive, got %d", c.ChunkSize)
	}
	if c.ChunkOverlap < 0 {
		return fmt.Errorf("chunk_overlap must not be negative, got %d", c.ChunkOverlap)
	}
	if c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("chunk_overlap (%d) must be smaller than chunk_size (%d)", c.ChunkOverlap, c.ChunkSize)
	}
	if c.MaxResults <= 0 {
		return fmt.Errorf("max_results must be positive, got %d", c.MaxResults)
	}
	if c.MaxHistory <= 0 {
		return fmt.Errorf("max_history must be positive, got %d", c.MaxHistory)
	}
	if c.CourseMatchThreshold < 0 || c.CourseMatchThreshold > 1 {
		return fmt.Errorf("course_match_threshold must be in [0, 1], got %g", c.CourseMatchThreshold)
	}
	if c.Embedding.RequestsPerSecond < 0 {
		return fmt.Errorf("embedding.requests_per_second must not be negative, got %g", c.Embedding.RequestsPerSecond)
	}
	return nil
}

// ResolveDataDir returns the configured data directory, defaulting to
// ~/.studyhall/db.
func (c *Config) ResolveDataDir() (string, error) {
	if c.DataDir != "" {
		return c.DataDir, nil
	}
	dir, err := DefaultDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "db"), nil
}

// applyEnv overrides file-sourced secrets with environment variables.
func (c *Config) applyEnv() {
	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		c.Completion.APIKey = key
	}
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		c.Embedding.APIKey = key
	}
}
