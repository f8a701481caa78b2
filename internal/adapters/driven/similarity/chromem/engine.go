// Package chromem implements the similarity engine on top of the
// embedded chromem-go vector database.
package chromem

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	chromemgo "github.com/philippgille/chromem-go"

	"github.com/studyhall-labs/studyhall-cli/internal/core/domain"
	"github.com/studyhall-labs/studyhall-cli/internal/core/ports/driven"
	"github.com/studyhall-labs/studyhall-cli/internal/logger"
)

// Ensure Engine implements the interface.
var _ driven.SimilarityEngine = (*Engine)(nil)

// upsertConcurrency bounds parallel embedding calls per batch.
const upsertConcurrency = 4

// idsIndexFile is the sidecar file tracking record IDs per collection
// in insertion order. chromem-go has no enumeration API, so the engine
// keeps its own index alongside the database.
const idsIndexFile = "ids.json"

// Engine is a SimilarityEngine backed by chromem-go. With a data
// directory it persists across runs; without one it is purely
// in-memory, which the tests use.
type Engine struct {
	mu      sync.Mutex
	db      *chromemgo.DB
	dataDir string
	embedFn chromemgo.EmbeddingFunc
	ids     map[string][]string
}

// New opens (or creates) the vector database. An empty dataDir selects
// the in-memory database.
func New(dataDir string, embedFn chromemgo.EmbeddingFunc) (*Engine, error) {
	e := &Engine{
		dataDir: dataDir,
		embedFn: embedFn,
		ids:     make(map[string][]string),
	}

	if dataDir == "" {
		e.db = chromemgo.NewDB()
		return e, nil
	}

	if err := os.MkdirAll(dataDir, 0750); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	db, err := chromemgo.NewPersistentDB(dataDir, false)
	if err != nil {
		return nil, fmt.Errorf("open vector database: %w", err)
	}
	e.db = db

	if err := e.loadIndex(); err != nil {
		return nil, err
	}
	return e, nil
}

// collection returns the named collection, creating it on first use.
func (e *Engine) collection(name string) (*chromemgo.Collection, error) {
	col := e.db.GetCollection(name, e.embedFn)
	if col != nil {
		return col, nil
	}
	col, err := e.db.CreateCollection(name, nil, e.embedFn)
	if err != nil {
		return nil, fmt.Errorf("create collection %s: %w", name, err)
	}
	return col, nil
}

// Upsert embeds and stores a batch of records.
func (e *Engine) Upsert(ctx context.Context, collection string, records []driven.Record) error {
	if len(records) == 0 {
		return nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	col, err := e.collection(collection)
	if err != nil {
		return err
	}

	docs := make([]chromemgo.Document, len(records))
	for i, r := range records {
		docs[i] = chromemgo.Document{
			ID:       r.ID,
			Content:  r.Content,
			Metadata: r.Metadata,
		}
	}

	if err := col.AddDocuments(ctx, docs, upsertConcurrency); err != nil {
		return fmt.Errorf("%w: upsert into %s: %v", domain.ErrStoreUnavailable, collection, err)
	}

	known := make(map[string]bool, len(e.ids[collection]))
	for _, id := range e.ids[collection] {
		known[id] = true
	}
	for _, r := range records {
		if !known[r.ID] {
			e.ids[collection] = append(e.ids[collection], r.ID)
			known[r.ID] = true
		}
	}
	return e.saveIndex()
}

// Query runs similarity search, clamping the result count to the
// collection size (chromem rejects nResults above the document count).
func (e *Engine) Query(ctx context.Context, collection, text string, where map[string]string, limit int) ([]driven.Hit, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	col := e.db.GetCollection(collection, e.embedFn)
	if col == nil {
		return nil, nil
	}

	count := col.Count()
	if count == 0 {
		return nil, nil
	}
	if limit > count {
		limit = count
	}
	if limit <= 0 {
		limit = count
	}

	results, err := col.Query(ctx, text, limit, where, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: query %s: %v", domain.ErrStoreUnavailable, collection, err)
	}

	hits := make([]driven.Hit, len(results))
	for i, r := range results {
		hits[i] = driven.Hit{
			ID:         r.ID,
			Content:    r.Content,
			Metadata:   r.Metadata,
			Similarity: r.Similarity,
		}
	}
	logger.Debug("Query %s: %d/%d hits", collection, len(hits), count)
	return hits, nil
}

// Get retrieves one record by ID.
func (e *Engine) Get(ctx context.Context, collection, id string) (*driven.Record, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	col := e.db.GetCollection(collection, e.embedFn)
	if col == nil {
		return nil, fmt.Errorf("%w: collection %s", domain.ErrNotFound, collection)
	}

	doc, err := col.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%w: %s/%s", domain.ErrNotFound, collection, id)
	}
	return &driven.Record{
		ID:       doc.ID,
		Content:  doc.Content,
		Metadata: doc.Metadata,
	}, nil
}

// Delete removes records by metadata filter and/or IDs.
func (e *Engine) Delete(ctx context.Context, collection string, where map[string]string, ids ...string) error {
	if where == nil && len(ids) == 0 {
		return nil
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	col := e.db.GetCollection(collection, e.embedFn)
	if col == nil {
		return nil
	}

	if err := col.Delete(ctx, where, nil, ids...); err != nil {
		return fmt.Errorf("delete from %s: %w", collection, err)
	}

	// Rebuild the index from what actually survived the delete.
	var kept []string
	for _, id := range e.ids[collection] {
		if _, err := col.GetByID(ctx, id); err == nil {
			kept = append(kept, id)
		}
	}
	e.ids[collection] = kept
	return e.saveIndex()
}

// ListIDs returns all record IDs in insertion order.
func (e *Engine) ListIDs(_ context.Context, collection string) ([]string, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	ids := make([]string, len(e.ids[collection]))
	copy(ids, e.ids[collection])
	return ids, nil
}

// Count returns the number of stored records.
func (e *Engine) Count(_ context.Context, collection string) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	col := e.db.GetCollection(collection, e.embedFn)
	if col == nil {
		return 0, nil
	}
	return col.Count(), nil
}

// Reset drops all collections and the ID index.
func (e *Engine) Reset(_ context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.db.Reset(); err != nil {
		return fmt.Errorf("reset vector database: %w", err)
	}
	e.ids = make(map[string][]string)
	return e.saveIndex()
}

// Close persists the ID index. The database itself writes through on
// every mutation and needs no teardown.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.saveIndex()
}

// loadIndex reads the sidecar ID index (caller must hold the lock or
// be in the constructor).
func (e *Engine) loadIndex() error {
	if e.dataDir == "" {
		return nil
	}

	data, err := os.ReadFile(filepath.Join(e.dataDir, idsIndexFile))
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("read id index: %w", err)
	}
	if err := json.Unmarshal(data, &e.ids); err != nil {
		return fmt.Errorf("decode id index: %w", err)
	}
	return nil
}

// saveIndex writes the sidecar ID index (caller must hold the lock).
func (e *Engine) saveIndex() error {
	if e.dataDir == "" {
		return nil
	}

	data, err := json.Marshal(e.ids)
	if err != nil {
		return fmt.Errorf("encode id index: %w", err)
	}
	return os.WriteFile(filepath.Join(e.dataDir, idsIndexFile), data, 0640)
}
