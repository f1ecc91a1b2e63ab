package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"sync"

	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

// SQLiteStore implements Store with SQLite-based persistence. Chunk vectors
// are stored as JSON blobs and distances computed at query time; brute force
// is adequate for a modest single-process catalog.
type SQLiteStore struct {
	mu sync.RWMutex
	db *sql.DB
}

// NewSQLiteStore opens (or creates) the catalog database at path.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS products (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		price REAL NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		category TEXT NOT NULL DEFAULT ''
	);
	CREATE TABLE IF NOT EXISTS product_chunks (
		id TEXT PRIMARY KEY,
		product_id INTEGER NOT NULL REFERENCES products(id),
		content TEXT NOT NULL,
		embedding BLOB NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_product_chunks_product_id ON product_chunks(product_id);
	`
	_, err := s.db.Exec(schema)
	return err
}

// InsertItem persists a new item and assigns its ID.
func (s *SQLiteStore) InsertItem(ctx context.Context, item *Item) error {
	if item.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidItem)
	}
	if item.Price < 0 {
		return fmt.Errorf("%w: price cannot be negative", ErrInvalidItem)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO products (name, price, description, category) VALUES (?, ?, ?, ?)`,
		item.Name, item.Price, item.Description, item.Category,
	)
	if err != nil {
		return fmt.Errorf("inserting product: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("reading inserted id: %w", err)
	}
	item.ID = id
	return nil
}

// ListItems returns all items ordered by ID.
func (s *SQLiteStore) ListItems(ctx context.Context) ([]Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, price, description, category FROM products ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("querying products: %w", err)
	}
	defer rows.Close()

	var items []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.Name, &it.Price, &it.Description, &it.Category); err != nil {
			return nil, fmt.Errorf("scanning product: %w", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

// CountItems returns the number of items.
func (s *SQLiteStore) CountItems(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM products`).Scan(&count)
	return count, err
}

// CountChunks returns the number of stored chunk vectors.
func (s *SQLiteStore) CountChunks(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM product_chunks`).Scan(&count)
	return count, err
}

// InsertChunk persists a content chunk with its embedding vector.
func (s *SQLiteStore) InsertChunk(ctx context.Context, chunk Chunk) error {
	embeddingJSON, err := json.Marshal(chunk.Embedding)
	if err != nil {
		return fmt.Errorf("encoding embedding: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO product_chunks (id, product_id, content, embedding) VALUES (?, ?, ?, ?)`,
		chunk.ID, chunk.ItemID, chunk.Content, embeddingJSON,
	)
	if err != nil {
		return fmt.Errorf("inserting chunk: %w", err)
	}
	return nil
}

// ClearChunks deletes all chunk rows in a single transaction.
func (s *SQLiteStore) ClearChunks(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("starting transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM product_chunks`); err != nil {
		return fmt.Errorf("clearing chunks: %w", err)
	}
	return tx.Commit()
}

// SimilaritySearch scans all chunk vectors, joins them to their owning
// products, and returns candidates under the distance threshold ordered
// ascending, at most limit rows.
func (s *SQLiteStore) SimilaritySearch(ctx context.Context, vector []float32, threshold float64, limit int) ([]Candidate, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT p.id, p.name, p.price, p.description, p.category, c.embedding
		FROM products p
		JOIN product_chunks c ON p.id = c.product_id
		ORDER BY c.rowid`)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", err)
	}
	defer rows.Close()

	var candidates []Candidate
	for rows.Next() {
		var it Item
		var embeddingJSON []byte
		if err := rows.Scan(&it.ID, &it.Name, &it.Price, &it.Description, &it.Category, &embeddingJSON); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}

		var embedding []float32
		if err := json.Unmarshal(embeddingJSON, &embedding); err != nil {
			continue // skip corrupted embeddings
		}

		distance := cosineDistance(vector, embedding)
		if distance < threshold {
			candidates = append(candidates, Candidate{Item: it, Distance: distance})
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating rows: %w", err)
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Distance < candidates[j].Distance
	})
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	return candidates, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// cosineDistance computes 1 - cosine similarity. Smaller means more similar.
// Mismatched or zero vectors get the maximum distance so they never pass a
// sane threshold.
func cosineDistance(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 1
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 1
	}

	return 1 - dot/(math.Sqrt(normA)*math.Sqrt(normB))
}

var _ Store = (*SQLiteStore)(nil)
