// Package catalog defines the product catalog data model and store interface.
package catalog

// Item is a single catalog product. Items are created through the admin
// ingestion path and are read-only to the query pipeline.
type Item struct {
	ID          int64   `json:"id"`
	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
}

// Chunk is a bounded text fragment derived from an item's composed
// description. Each chunk owns exactly one embedding vector.
type Chunk struct {
	ID        string
	ItemID    int64
	Content   string
	Embedding []float32
}

// Candidate is a transient retrieval result: an item paired with the vector
// distance of one of its chunks. The same item can appear more than once
// when several of its chunks match; deduplication happens at response
// composition time.
type Candidate struct {
	Item     Item
	Distance float64
}
