package catalog

import (
	"context"
	"errors"
)

// Sentinel errors for catalog store operations.
var (
	// ErrEmptyCatalog is returned when an operation requires at least one item.
	ErrEmptyCatalog = errors.New("no products in catalog")

	// ErrInvalidItem indicates item validation failure.
	ErrInvalidItem = errors.New("invalid catalog item")
)

// Store is the interface for catalog persistence.
//
// The query pipeline only reads items and chunk vectors. Writes happen on
// two administrative paths: item creation and full re-ingestion, which
// clears every chunk row before regenerating them. The store is never asked
// to mutate an existing chunk in place.
type Store interface {
	// InsertItem persists a new item and assigns its ID.
	InsertItem(ctx context.Context, item *Item) error

	// ListItems returns all items in stable insertion order.
	ListItems(ctx context.Context) ([]Item, error)

	// CountItems returns the number of items.
	CountItems(ctx context.Context) (int, error)

	// CountChunks returns the number of stored chunk vectors.
	CountChunks(ctx context.Context) (int, error)

	// InsertChunk persists a content chunk with its embedding vector.
	InsertChunk(ctx context.Context, chunk Chunk) error

	// ClearChunks deletes all chunk rows in a single transaction.
	ClearChunks(ctx context.Context) error

	// SimilaritySearch returns candidates whose chunk vector distance to the
	// query vector is strictly below threshold, ordered ascending by
	// distance, at most limit rows. Items without a close-enough chunk are
	// absent from the result.
	SimilaritySearch(ctx context.Context, vector []float32, threshold float64, limit int) ([]Candidate, error)

	// Close releases the store's resources.
	Close() error
}
