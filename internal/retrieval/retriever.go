// Package retrieval ranks catalog items by vector similarity to a query.
package retrieval

import (
	"context"
	"strings"

	"github.com/neusearch/neusearch/internal/catalog"
)

// Store is the slice of the catalog store the retriever needs.
type Store interface {
	SimilaritySearch(ctx context.Context, vector []float32, threshold float64, limit int) ([]catalog.Candidate, error)
	ListItems(ctx context.Context) ([]catalog.Item, error)
}

// Config holds retriever configuration.
type Config struct {
	// MaxResults caps the number of returned candidates.
	MaxResults int
	// DistanceThreshold is the exclusive upper bound on candidate distance.
	DistanceThreshold float64
	// ListAllPhrases trigger the list-all shortcut when present in a query.
	ListAllPhrases []string
}

// Retriever performs similarity search against the catalog store.
type Retriever struct {
	store          Store
	maxResults     int
	threshold      float64
	listAllPhrases []string
}

// NewRetriever creates a Retriever.
func NewRetriever(store Store, cfg Config) *Retriever {
	if cfg.MaxResults <= 0 {
		cfg.MaxResults = 10
	}
	if cfg.DistanceThreshold <= 0 {
		cfg.DistanceThreshold = 0.5
	}
	return &Retriever{
		store:          store,
		maxResults:     cfg.MaxResults,
		threshold:      cfg.DistanceThreshold,
		listAllPhrases: cfg.ListAllPhrases,
	}
}

// Retrieve returns candidates ordered ascending by distance, every distance
// strictly below the threshold, at most MaxResults entries.
func (r *Retriever) Retrieve(ctx context.Context, vector []float32) ([]catalog.Candidate, error) {
	candidates, err := r.store.SimilaritySearch(ctx, vector, r.threshold, r.maxResults)
	if err != nil {
		return nil, err
	}
	resultCount.Observe(float64(len(candidates)))
	return candidates, nil
}

// IsListAll reports whether query lexically asks for the whole catalog.
// This is an explicit shortcut past vector search, not a similarity result.
func (r *Retriever) IsListAll(query string) bool {
	q := strings.ToLower(query)
	for _, phrase := range r.listAllPhrases {
		if strings.Contains(q, phrase) {
			return true
		}
	}
	return false
}

// ListAll returns up to MaxResults items in stable store order with no
// distance filtering.
func (r *Retriever) ListAll(ctx context.Context) ([]catalog.Item, error) {
	items, err := r.store.ListItems(ctx)
	if err != nil {
		return nil, err
	}
	if len(items) > r.maxResults {
		items = items[:r.maxResults]
	}
	return items, nil
}
