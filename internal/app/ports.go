// Package app contains the pipeline services: ingestion, vectorization,
// retrieval, document management and chat. Services depend on the
// narrow capabilities below rather than on concrete clients, so tests
// substitute fakes and no state hides in package globals.
package app

import (
	"context"
	"errors"

	"knowledgebot/internal/model"
)

var (
	ErrInvalidInput     = errors.New("invalid input")
	ErrDocumentNotFound = errors.New("document not found")
	ErrDocumentEmpty    = errors.New("document has no text content")

	// ErrEmbedding is fatal for the operation that needed the vector:
	// the whole retrieval, or the single chunk inside the indexer.
	ErrEmbedding = errors.New("embedding generation failed")
	// ErrIndexQuery is fatal for the enclosing retrieval.
	ErrIndexQuery = errors.New("vector index query failed")
)

// DocumentStore is the key-value capability documents live in.
type DocumentStore interface {
	Get(ctx context.Context, key string) (*model.StoredDocument, error)
	Set(ctx context.Context, key string, doc *model.StoredDocument) error
	Delete(ctx context.Context, key string) error
	ListKeys(ctx context.Context, prefix string) ([]string, error)
	List(ctx context.Context) ([]model.StoredDocument, error)
}

// VectorIndex is the external nearest-neighbour index capability.
type VectorIndex interface {
	Upsert(ctx context.Context, rec model.VectorRecord) error
	Query(ctx context.Context, vector []float32, topK int) ([]model.VectorMatch, error)
	DeleteByPrefix(ctx context.Context, prefix string) (int, error)
}

// Embedder turns text into a fixed-dimension vector. Indexing and
// querying must share one implementation: vectors from different
// models or dimensions are not comparable.
type Embedder interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// EmbedderFunc adapts a function to the Embedder interface.
type EmbedderFunc func(ctx context.Context, text string) ([]float32, error)

func (f EmbedderFunc) Embed(ctx context.Context, text string) ([]float32, error) {
	return f(ctx, text)
}

// AuditPublisher records pipeline mutations. Publishing is best-effort;
// callers log failures and carry on.
type AuditPublisher interface {
	Publish(ctx context.Context, rec model.AuditRecord) error
}
