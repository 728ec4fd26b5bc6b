package app

import (
	"context"
	"fmt"
	"log"
	"time"

	"golang.org/x/sync/errgroup"

	"knowledgebot/internal/chunker"
	"knowledgebot/internal/model"
)

// chunkEmbedConcurrency bounds parallel embedding+upsert calls so a
// large document cannot flood the embedding API.
const chunkEmbedConcurrency = 8

// VectorizeService chunks a stored document and upserts one embedding
// per chunk into the vector index.
type VectorizeService struct {
	store    DocumentStore
	index    VectorIndex
	embedder Embedder
	chunker  *chunker.Chunker
	audit    AuditPublisher
}

func NewVectorizeService(docStore DocumentStore, index VectorIndex, embedder Embedder, c *chunker.Chunker, audit AuditPublisher) *VectorizeService {
	return &VectorizeService{
		store:    docStore,
		index:    index,
		embedder: embedder,
		chunker:  c,
		audit:    audit,
	}
}

// ChunkOutcome is the per-chunk result of an indexing run.
type ChunkOutcome struct {
	Success    bool   `json:"success"`
	ChunkID    string `json:"chunkId,omitempty"`
	ChunkIndex int    `json:"chunkIndex"`
	Error      string `json:"error,omitempty"`
}

// VectorizeResult summarises one indexing run. Partial success is a
// valid terminal state, not an error to retry.
type VectorizeResult struct {
	Success     bool           `json:"success"`
	TotalChunks int            `json:"totalChunks"`
	Successful  int            `json:"successful"`
	Failed      int            `json:"failed"`
	Document    DocumentRef    `json:"document"`
	Outcomes    []ChunkOutcome `json:"outcomes,omitempty"`
}

type DocumentRef struct {
	Key   string `json:"key"`
	Title string `json:"title"`
}

// Vectorize chunks the document under key and embeds and upserts every
// chunk. Chunks are processed concurrently and fail independently: one
// bad chunk never aborts its siblings. If at least one chunk lands, the
// document is marked vectorized with the success count.
func (s *VectorizeService) Vectorize(ctx context.Context, key string) (*VectorizeResult, error) {
	if key == "" {
		return nil, ErrInvalidInput
	}

	doc, err := s.store.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if doc == nil {
		return nil, ErrDocumentNotFound
	}
	if doc.Text == "" {
		return nil, ErrDocumentEmpty
	}

	chunks := s.chunker.Chunk(doc.Text)
	outcomes := make([]ChunkOutcome, len(chunks))

	var g errgroup.Group
	g.SetLimit(chunkEmbedConcurrency)
	for idx, chunk := range chunks {
		idx, chunk := idx, chunk
		g.Go(func() error {
			chunkID := ChunkID(key, idx)
			vector, err := s.embedder.Embed(ctx, chunk)
			if err != nil {
				outcomes[idx] = ChunkOutcome{ChunkIndex: idx, Error: fmt.Errorf("%w: %v", ErrEmbedding, err).Error()}
				return nil
			}

			rec := model.VectorRecord{
				ID:     chunkID,
				Vector: vector,
				Metadata: model.VectorMetadata{
					Text:       chunk,
					Source:     key,
					Title:      doc.Title,
					ChunkIndex: idx,
				},
			}
			if err := s.index.Upsert(ctx, rec); err != nil {
				outcomes[idx] = ChunkOutcome{ChunkIndex: idx, Error: err.Error()}
				return nil
			}

			outcomes[idx] = ChunkOutcome{Success: true, ChunkID: chunkID, ChunkIndex: idx}
			return nil
		})
	}
	_ = g.Wait()

	successful := 0
	for _, o := range outcomes {
		if o.Success {
			successful++
		}
	}

	if successful > 0 {
		now := time.Now().UTC()
		doc.Vectorized = true
		doc.VectorizedAt = &now
		doc.VectorChunks = successful
		if err := s.store.Set(ctx, key, doc); err != nil {
			return nil, err
		}
	}

	s.publishAudit(ctx, model.AuditRecord{
		Key:    key,
		Title:  doc.Title,
		Action: model.AuditActionVectorize,
		Detail: fmt.Sprintf("%d/%d chunks embedded", successful, len(chunks)),
	})

	return &VectorizeResult{
		Success:     true,
		TotalChunks: len(chunks),
		Successful:  successful,
		Failed:      len(chunks) - successful,
		Document:    DocumentRef{Key: key, Title: doc.Title},
		Outcomes:    outcomes,
	}, nil
}

func (s *VectorizeService) publishAudit(ctx context.Context, rec model.AuditRecord) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Publish(ctx, rec); err != nil {
		log.Printf("publish audit record failed: %v", err)
	}
}

// ChunkID derives the vector id for chunk idx of the document under
// key. Retrieval grouping and prefix deletion both rely on this shape.
func ChunkID(key string, idx int) string {
	return fmt.Sprintf("%s:chunk:%d", key, idx)
}

// ChunkIDPrefix is the id prefix shared by every chunk of a document.
func ChunkIDPrefix(key string) string {
	return key + ":chunk:"
}
