package app

import (
	"context"
	"fmt"
	"sort"

	"golang.org/x/sync/errgroup"

	"knowledgebot/internal/model"
)

const sourceFetchConcurrency = 8

// RetrievalService answers queries against the vector index: raw
// chunk-level search, and document-level retrieval that regroups chunk
// hits into ranked source documents.
type RetrievalService struct {
	store       DocumentStore
	index       VectorIndex
	embedder    Embedder
	defaultTopK int
}

func NewRetrievalService(docStore DocumentStore, index VectorIndex, embedder Embedder, defaultTopK int) *RetrievalService {
	if defaultTopK <= 0 {
		defaultTopK = 5
	}
	return &RetrievalService{
		store:       docStore,
		index:       index,
		embedder:    embedder,
		defaultTopK: defaultTopK,
	}
}

// RankedDocument is one source document reconstructed from chunk hits.
type RankedDocument struct {
	Document          model.StoredDocument `json:"document"`
	AverageScore      float64              `json:"averageScore"`
	MatchedChunkCount int                  `json:"matchedChunkCount"`
}

// Search embeds the query and returns the raw topK nearest chunks.
// Embedding or index failure is fatal for the whole call.
func (s *RetrievalService) Search(ctx context.Context, query string, topK int) ([]model.VectorMatch, error) {
	if query == "" {
		return nil, ErrInvalidInput
	}
	if topK <= 0 {
		topK = s.defaultTopK
	}

	vector, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrEmbedding, err)
	}

	matches, err := s.index.Query(ctx, vector, topK)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrIndexQuery, err)
	}
	return matches, nil
}

// Retrieve searches the index and folds chunk hits back into their
// source documents: per distinct source, the arithmetic mean of its
// chunk scores and the matched-chunk count, the full document fetched
// from the store. Sources whose document is missing or unreadable are
// dropped silently. The list is sorted by average score descending;
// equal scores keep first-hit order (the order the index returned each
// source's first matching chunk).
func (s *RetrievalService) Retrieve(ctx context.Context, query string, topK int) ([]RankedDocument, error) {
	matches, err := s.Search(ctx, query, topK)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return []RankedDocument{}, nil
	}

	type aggregate struct {
		scoreSum float64
		count    int
	}
	bySource := make(map[string]*aggregate)
	var order []string
	for _, m := range matches {
		src := m.Metadata.Source
		if src == "" {
			continue
		}
		agg, ok := bySource[src]
		if !ok {
			agg = &aggregate{}
			bySource[src] = agg
			order = append(order, src)
		}
		agg.scoreSum += m.Score
		agg.count++
	}

	docs := make([]*model.StoredDocument, len(order))
	var g errgroup.Group
	g.SetLimit(sourceFetchConcurrency)
	for i, src := range order {
		i, src := i, src
		g.Go(func() error {
			doc, err := s.store.Get(ctx, src)
			if err != nil {
				// One missing source never fails the retrieval.
				return nil
			}
			docs[i] = doc
			return nil
		})
	}
	_ = g.Wait()

	ranked := make([]RankedDocument, 0, len(order))
	for i, src := range order {
		if docs[i] == nil {
			continue
		}
		agg := bySource[src]
		ranked = append(ranked, RankedDocument{
			Document:          *docs[i],
			AverageScore:      agg.scoreSum / float64(agg.count),
			MatchedChunkCount: agg.count,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].AverageScore > ranked[j].AverageScore
	})
	return ranked, nil
}
