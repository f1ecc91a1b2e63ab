package catalog

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func insertTestItem(t *testing.T, store *SQLiteStore, name string, price float64, desc, category string) Item {
	t.Helper()
	item := Item{Name: name, Price: price, Description: desc, Category: category}
	require.NoError(t, store.InsertItem(context.Background(), &item))
	return item
}

// unit vectors along different axes: distance 0 to themselves, 1 to each other.
func axisVector(axis, dim int) []float32 {
	v := make([]float32, dim)
	v[axis] = 1
	return v
}

func TestInsertItem(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("assigns sequential ids", func(t *testing.T) {
		a := insertTestItem(t, store, "Red Sneaker", 59.99, "running sneaker", "Footwear")
		b := insertTestItem(t, store, "Gaming Laptop", 1299, "fast laptop", "Electronics")
		assert.Positive(t, a.ID)
		assert.Greater(t, b.ID, a.ID)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		err := store.InsertItem(ctx, &Item{Price: 10})
		assert.ErrorIs(t, err, ErrInvalidItem)
	})

	t.Run("rejects negative price", func(t *testing.T) {
		err := store.InsertItem(ctx, &Item{Name: "Broken", Price: -1})
		assert.ErrorIs(t, err, ErrInvalidItem)
	})
}

func TestListAndCount(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	count, err := store.CountItems(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	insertTestItem(t, store, "Red Sneaker", 59.99, "running sneaker", "Footwear")
	insertTestItem(t, store, "Gaming Laptop", 1299, "fast laptop", "Electronics")

	items, err := store.ListItems(ctx)
	require.NoError(t, err)
	require.Len(t, items, 2)
	assert.Equal(t, "Red Sneaker", items[0].Name)
	assert.Equal(t, "Gaming Laptop", items[1].Name)

	count, err = store.CountItems(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestChunkLifecycle(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	item := insertTestItem(t, store, "Red Sneaker", 59.99, "running sneaker", "Footwear")

	require.NoError(t, store.InsertChunk(ctx, Chunk{
		ID:        uuid.NewString(),
		ItemID:    item.ID,
		Content:   "running sneaker",
		Embedding: axisVector(0, 8),
	}))

	count, err := store.CountChunks(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	require.NoError(t, store.ClearChunks(ctx))

	count, err = store.CountChunks(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestSimilaritySearch(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	sneaker := insertTestItem(t, store, "Red Sneaker", 59.99, "running sneaker", "Footwear")
	laptop := insertTestItem(t, store, "Gaming Laptop", 1299, "fast laptop", "Electronics")

	addChunk := func(itemID int64, embedding []float32) {
		require.NoError(t, store.InsertChunk(ctx, Chunk{
			ID:        uuid.NewString(),
			ItemID:    itemID,
			Content:   "chunk",
			Embedding: embedding,
		}))
	}

	// The sneaker chunk is identical to the query vector; the laptop chunk
	// is orthogonal (distance 1).
	addChunk(sneaker.ID, axisVector(0, 8))
	addChunk(laptop.ID, axisVector(1, 8))

	t.Run("filters by threshold and orders ascending", func(t *testing.T) {
		candidates, err := store.SimilaritySearch(ctx, axisVector(0, 8), 0.5, 10)
		require.NoError(t, err)
		require.Len(t, candidates, 1)
		assert.Equal(t, sneaker.ID, candidates[0].Item.ID)
		assert.Less(t, candidates[0].Distance, 0.5)
	})

	t.Run("threshold is exclusive", func(t *testing.T) {
		// Orthogonal vector has distance exactly 1; threshold 1 excludes it.
		candidates, err := store.SimilaritySearch(ctx, axisVector(0, 8), 1, 10)
		require.NoError(t, err)
		require.Len(t, candidates, 1)
	})

	t.Run("respects limit", func(t *testing.T) {
		for i := 0; i < 15; i++ {
			addChunk(sneaker.ID, axisVector(0, 8))
		}
		candidates, err := store.SimilaritySearch(ctx, axisVector(0, 8), 0.5, 10)
		require.NoError(t, err)
		assert.Len(t, candidates, 10)
	})

	t.Run("same item can appear once per matching chunk", func(t *testing.T) {
		candidates, err := store.SimilaritySearch(ctx, axisVector(0, 8), 0.5, 5)
		require.NoError(t, err)
		require.Len(t, candidates, 5)
		for _, c := range candidates {
			assert.Equal(t, sneaker.ID, c.Item.ID)
		}
	})

	t.Run("mismatched vector length matches nothing", func(t *testing.T) {
		candidates, err := store.SimilaritySearch(ctx, axisVector(0, 4), 0.5, 10)
		require.NoError(t, err)
		assert.Empty(t, candidates)
	})
}

func TestCosineDistance(t *testing.T) {
	t.Run("identical vectors have zero distance", func(t *testing.T) {
		v := []float32{0.5, 0.25, 0.75}
		assert.InDelta(t, 0, cosineDistance(v, v), 1e-6)
	})

	t.Run("orthogonal vectors have distance one", func(t *testing.T) {
		assert.InDelta(t, 1, cosineDistance(axisVector(0, 4), axisVector(1, 4)), 1e-6)
	})

	t.Run("zero vector gets maximum distance", func(t *testing.T) {
		assert.Equal(t, float64(1), cosineDistance(make([]float32, 4), axisVector(0, 4)))
	})
}
