package driven

import "context"

// Record is a row stored in a similarity-search collection. The engine
// embeds the content itself; callers never handle vectors directly.
type Record struct {
	// ID is the unique identifier within the collection.
	ID string

	// Content is the text to embed and store.
	Content string

	// Metadata contains exact-match filterable key-value pairs.
	Metadata map[string]string
}

// Hit is a ranked similarity-search result.
type Hit struct {
	// ID is the matched record's identifier.
	ID string

	// Content is the stored text.
	Content string

	// Metadata is the stored metadata.
	Metadata map[string]string

	// Similarity is the cosine similarity to the query (0-1, higher is
	// closer).
	Similarity float32
}

// SimilarityEngine is the opaque similarity-search service behind the
// semantic store. Collections are created lazily on first use.
//
// Implementations must return wrapped domain.ErrStoreUnavailable when
// the underlying engine cannot be reached, so query-path callers can
// render a clean failure message instead of an opaque fault.
type SimilarityEngine interface {
	// Upsert adds or replaces records in a collection, embedding their
	// content. Batched for throughput.
	Upsert(ctx context.Context, collection string, records []Record) error

	// Query performs similarity search over a collection, optionally
	// narrowed by exact-match metadata filters (all entries must match).
	// Results are ranked by descending similarity.
	Query(ctx context.Context, collection, text string, where map[string]string, limit int) ([]Hit, error)

	// Get retrieves a single record by ID.
	// Returns wrapped domain.ErrNotFound when the record does not exist.
	Get(ctx context.Context, collection, id string) (*Record, error)

	// Delete removes records matching the metadata filter and/or the
	// given IDs. A nil filter with no IDs is a no-op.
	Delete(ctx context.Context, collection string, where map[string]string, ids ...string) error

	// ListIDs returns all record IDs in a collection, in insertion order.
	ListIDs(ctx context.Context, collection string) ([]string, error)

	// Count returns the number of records in a collection.
	Count(ctx context.Context, collection string) (int, error)

	// Reset drops all collections. Used before a full re-ingestion.
	Reset(ctx context.Context) error

	// Close releases resources.
	Close() error
}
