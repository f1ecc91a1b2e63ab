// Package config provides configuration loading for neusearch.
//
// Configuration is loaded from a YAML file and overridden by environment
// variables. Model names, API keys, timeouts, thresholds, and the lexical
// vocabularies used by the retrieval pipeline all live here so that no
// component reads global state ad hoc.
package config

import (
	"errors"
	"fmt"
	"time"
)

// Config holds the complete neusearch configuration.
type Config struct {
	Server     ServerConfig     `koanf:"server"`
	Logging    LoggingConfig    `koanf:"logging"`
	Store      StoreConfig      `koanf:"store"`
	Embeddings EmbeddingsConfig `koanf:"embeddings"`
	Chat       ChatConfig       `koanf:"chat"`
	Retrieval  RetrievalConfig  `koanf:"retrieval"`
	Intent     IntentConfig     `koanf:"intent"`
	Guard      GuardConfig      `koanf:"guard"`
	Ingest     IngestConfig     `koanf:"ingest"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Host            string        `koanf:"host"`
	Port            int           `koanf:"port"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	StaticDir       string        `koanf:"static_dir"`
}

// LoggingConfig holds logger configuration.
type LoggingConfig struct {
	Level  string `koanf:"level"`
	Format string `koanf:"format"`
}

// StoreConfig holds catalog store configuration.
type StoreConfig struct {
	Path string `koanf:"path"`
}

// EmbeddingsConfig holds embedding provider configuration.
type EmbeddingsConfig struct {
	BaseURL   string        `koanf:"base_url"`
	Model     string        `koanf:"model"`
	APIKey    Secret        `koanf:"api_key"`
	Timeout   time.Duration `koanf:"timeout"`
	Dimension int           `koanf:"dimension"`
}

// ChatConfig holds chat-completion collaborator configuration. The same
// endpoint serves intent classification, general replies, and grounded
// response generation.
type ChatConfig struct {
	BaseURL           string        `koanf:"base_url"`
	APIKey            Secret        `koanf:"api_key"`
	Model             string        `koanf:"model"`
	ClassifyTimeout   time.Duration `koanf:"classify_timeout"`
	GenerateTimeout   time.Duration `koanf:"generate_timeout"`
	ClassifyMaxTokens int           `koanf:"classify_max_tokens"`
	GeneralMaxTokens  int           `koanf:"general_max_tokens"`
	GenerateMaxTokens int           `koanf:"generate_max_tokens"`
}

// RetrievalConfig holds vector retrieval configuration.
type RetrievalConfig struct {
	MaxResults        int      `koanf:"max_results"`
	DistanceThreshold float64  `koanf:"distance_threshold"`
	ListAllPhrases    []string `koanf:"list_all_phrases"`
}

// IntentConfig holds the lexical fast-path phrase sets. Exact-match entries
// classify as general conversation without a remote call.
type IntentConfig struct {
	Greetings        []string `koanf:"greetings"`
	GeneralQuestions []string `koanf:"general_questions"`
}

// GuardConfig holds the keyword validation vocabulary in priority order.
type GuardConfig struct {
	Keywords []string `koanf:"keywords"`
}

// IngestConfig holds catalog ingestion configuration.
type IngestConfig struct {
	ChunkSize    int `koanf:"chunk_size"`
	ChunkOverlap int `koanf:"chunk_overlap"`
}

// applyDefaults sets default values for missing configuration fields.
func applyDefaults(cfg *Config) {
	if cfg.Server.Host == "" {
		cfg.Server.Host = "0.0.0.0"
	}
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8000
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = 10 * time.Second
	}
	if cfg.Server.StaticDir == "" {
		cfg.Server.StaticDir = "./static"
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "json"
	}

	if cfg.Store.Path == "" {
		cfg.Store.Path = "./data/catalog.db"
	}

	if cfg.Embeddings.BaseURL == "" {
		cfg.Embeddings.BaseURL = "https://api-inference.huggingface.co"
	}
	if cfg.Embeddings.Model == "" {
		cfg.Embeddings.Model = "sentence-transformers/all-MiniLM-L6-v2"
	}
	if cfg.Embeddings.Timeout == 0 {
		cfg.Embeddings.Timeout = 30 * time.Second
	}
	if cfg.Embeddings.Dimension == 0 {
		cfg.Embeddings.Dimension = 384
	}

	if cfg.Chat.BaseURL == "" {
		cfg.Chat.BaseURL = "https://api.groq.com/openai"
	}
	if cfg.Chat.Model == "" {
		cfg.Chat.Model = "llama3-8b-8192"
	}
	if cfg.Chat.ClassifyTimeout == 0 {
		cfg.Chat.ClassifyTimeout = 30 * time.Second
	}
	if cfg.Chat.GenerateTimeout == 0 {
		cfg.Chat.GenerateTimeout = 60 * time.Second
	}
	if cfg.Chat.ClassifyMaxTokens == 0 {
		cfg.Chat.ClassifyMaxTokens = 10
	}
	if cfg.Chat.GeneralMaxTokens == 0 {
		cfg.Chat.GeneralMaxTokens = 150
	}
	if cfg.Chat.GenerateMaxTokens == 0 {
		cfg.Chat.GenerateMaxTokens = 500
	}

	if cfg.Retrieval.MaxResults == 0 {
		cfg.Retrieval.MaxResults = 10
	}
	if cfg.Retrieval.DistanceThreshold == 0 {
		cfg.Retrieval.DistanceThreshold = 0.5
	}
	if len(cfg.Retrieval.ListAllPhrases) == 0 {
		cfg.Retrieval.ListAllPhrases = []string{"list all", "show all", "all products", "what do you have"}
	}

	if len(cfg.Intent.Greetings) == 0 {
		cfg.Intent.Greetings = []string{"hi", "hello", "hey"}
	}
	if len(cfg.Intent.GeneralQuestions) == 0 {
		cfg.Intent.GeneralQuestions = []string{"who are you", "what are you", "what do you do"}
	}

	if len(cfg.Guard.Keywords) == 0 {
		cfg.Guard.Keywords = []string{"shoe", "sneaker", "footwear", "laptop", "playstation", "coffee"}
	}

	if cfg.Ingest.ChunkSize == 0 {
		cfg.Ingest.ChunkSize = 500
	}
	if cfg.Ingest.ChunkOverlap == 0 {
		cfg.Ingest.ChunkOverlap = 50
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d (must be 1-65535)", c.Server.Port)
	}
	if c.Server.ShutdownTimeout <= 0 {
		return errors.New("shutdown timeout must be positive")
	}
	if c.Embeddings.Dimension <= 0 {
		return fmt.Errorf("invalid embedding dimension: %d", c.Embeddings.Dimension)
	}
	if c.Retrieval.MaxResults <= 0 {
		return fmt.Errorf("invalid retrieval max results: %d", c.Retrieval.MaxResults)
	}
	if c.Retrieval.DistanceThreshold <= 0 {
		return fmt.Errorf("invalid distance threshold: %f", c.Retrieval.DistanceThreshold)
	}
	if c.Ingest.ChunkSize <= 0 {
		return fmt.Errorf("invalid chunk size: %d", c.Ingest.ChunkSize)
	}
	if c.Ingest.ChunkOverlap < 0 || c.Ingest.ChunkOverlap >= c.Ingest.ChunkSize {
		return fmt.Errorf("chunk overlap %d must be non-negative and smaller than chunk size %d",
			c.Ingest.ChunkOverlap, c.Ingest.ChunkSize)
	}
	return nil
}
