// Package embeddings turns text into fixed-length vectors.
//
// The provider first tries a remote feature-extraction endpoint. On any
// failure (network error, non-200 status, malformed or truncated payload)
// it falls back to a deterministic local derivation, so callers always get
// a vector of exactly the configured dimension and never an error.
package embeddings

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
)

var (
	// ErrInvalidConfig indicates invalid configuration.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrRemoteFailed indicates remote embedding generation failure.
	ErrRemoteFailed = errors.New("remote embedding failed")
)

// Source identifies which generation path produced a vector.
type Source string

const (
	// SourceRemote means the remote inference endpoint produced the vector.
	SourceRemote Source = "remote"
	// SourceFallback means the local hash derivation produced the vector.
	SourceFallback Source = "fallback"
)

// Result is an embedding vector tagged with its generation path.
type Result struct {
	Vector []float32
	Source Source
}

// Config holds configuration for the embedding service.
type Config struct {
	// BaseURL is the base URL of the inference API.
	BaseURL string
	// Model is the embedding model name.
	Model string
	// APIKey is the bearer token for the inference API.
	APIKey string
	// Timeout bounds each remote call.
	Timeout time.Duration
	// Dimension is the vector length every result must have.
	Dimension int
}

// Validate validates the configuration.
func (c Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("%w: base URL required", ErrInvalidConfig)
	}
	if c.Model == "" {
		return fmt.Errorf("%w: model required", ErrInvalidConfig)
	}
	if c.Dimension <= 0 {
		return fmt.Errorf("%w: dimension must be positive", ErrInvalidConfig)
	}
	return nil
}

// Service provides embedding generation with a deterministic fallback.
type Service struct {
	config Config
	client *http.Client
	logger *zap.Logger
}

// NewService creates a new embedding service with the given configuration.
func NewService(config Config, logger *zap.Logger) (*Service, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}

	return &Service{
		config: config,
		client: &http.Client{Timeout: config.Timeout},
		logger: logger,
	}, nil
}

// Dimension returns the configured vector length.
func (s *Service) Dimension() int {
	return s.config.Dimension
}

// EmbedQuery generates a vector for text. It never fails: when the remote
// endpoint is unavailable the result carries a deterministic fallback
// vector. The returned vector always has exactly Dimension entries.
func (s *Service) EmbedQuery(ctx context.Context, text string) Result {
	start := time.Now()

	vector, err := s.remote(ctx, text)
	if err != nil {
		s.logger.Warn("remote embedding failed, using fallback",
			zap.String("model", s.config.Model),
			zap.Duration("duration", time.Since(start)),
			zap.Error(err),
		)
		recordEmbedding(SourceFallback, time.Since(start))
		return Result{Vector: FallbackVector(text, s.config.Dimension), Source: SourceFallback}
	}

	recordEmbedding(SourceRemote, time.Since(start))
	return Result{Vector: vector, Source: SourceRemote}
}

// remoteRequest is the request body for the feature-extraction endpoint.
type remoteRequest struct {
	Inputs string `json:"inputs"`
}

// remote calls the inference endpoint and normalizes its response to
// exactly Dimension values.
func (s *Service) remote(ctx context.Context, text string) ([]float32, error) {
	ctx, cancel := context.WithTimeout(ctx, s.config.Timeout)
	defer cancel()

	body, err := json.Marshal(remoteRequest{Inputs: text})
	if err != nil {
		return nil, fmt.Errorf("marshaling request: %w", err)
	}

	url := fmt.Sprintf("%s/pipeline/feature-extraction/%s", s.config.BaseURL, s.config.Model)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if s.config.APIKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+s.config.APIKey)
	}

	resp, err := s.client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRemoteFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("%w: status %d: %s", ErrRemoteFailed, resp.StatusCode, string(respBody))
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}

	vector, err := decodeVector(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRemoteFailed, err)
	}
	if len(vector) < s.config.Dimension {
		return nil, fmt.Errorf("%w: got %d values, need %d", ErrRemoteFailed, len(vector), s.config.Dimension)
	}

	return vector[:s.config.Dimension], nil
}

// decodeVector accepts the two response shapes the endpoint produces: a
// flat numeric sequence, or a sequence of sequences (first row taken).
func decodeVector(raw []byte) ([]float32, error) {
	var flat []float32
	if err := json.Unmarshal(raw, &flat); err == nil {
		return flat, nil
	}

	var nested [][]float32
	if err := json.Unmarshal(raw, &nested); err == nil {
		if len(nested) == 0 {
			return nil, errors.New("empty nested response")
		}
		return nested[0], nil
	}

	return nil, errors.New("unrecognized response shape")
}
