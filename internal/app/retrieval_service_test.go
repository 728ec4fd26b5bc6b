package app

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"knowledgebot/internal/model"
)

func match(source string, score float64) model.VectorMatch {
	return model.VectorMatch{
		ID:    source + ":chunk:0",
		Score: score,
		Metadata: model.VectorMetadata{
			Source: source,
			Text:   "chunk text",
		},
	}
}

func TestSearchRequiresQuery(t *testing.T) {
	svc := NewRetrievalService(newFakeDocStore(), newFakeIndex(), staticEmbedder([]float32{1}), 5)

	_, err := svc.Search(context.Background(), "", 5)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestSearchEmbeddingFailureIsFatal(t *testing.T) {
	svc := NewRetrievalService(newFakeDocStore(), newFakeIndex(), failingEmbedder(errors.New("api down")), 5)

	_, err := svc.Search(context.Background(), "anything", 5)
	assert.ErrorIs(t, err, ErrEmbedding)
}

func TestSearchIndexFailureIsFatal(t *testing.T) {
	index := newFakeIndex()
	index.queryErr = errors.New("index unreachable")
	svc := NewRetrievalService(newFakeDocStore(), index, staticEmbedder([]float32{1}), 5)

	_, err := svc.Search(context.Background(), "anything", 5)
	assert.ErrorIs(t, err, ErrIndexQuery)
}

func TestRetrieveNoMatchesReturnsEmptyList(t *testing.T) {
	svc := NewRetrievalService(newFakeDocStore(), newFakeIndex(), staticEmbedder([]float32{1}), 5)

	ranked, err := svc.Retrieve(context.Background(), "nothing indexed", 5)
	require.NoError(t, err)
	require.NotNil(t, ranked)
	assert.Empty(t, ranked)
}

func TestRetrieveGroupsChunksAndRanksByAverage(t *testing.T) {
	store := newFakeDocStore(
		model.StoredDocument{Key: "docs:alpha", Title: "Alpha"},
		model.StoredDocument{Key: "docs:beta", Title: "Beta"},
	)
	index := newFakeIndex()
	index.queryRes = []model.VectorMatch{
		match("docs:alpha", 0.9),
		match("docs:beta", 0.5),
		match("docs:alpha", 0.7),
	}
	svc := NewRetrievalService(store, index, staticEmbedder([]float32{1}), 5)

	ranked, err := svc.Retrieve(context.Background(), "query", 5)
	require.NoError(t, err)
	require.Len(t, ranked, 2)

	assert.Equal(t, "docs:alpha", ranked[0].Document.Key)
	assert.InDelta(t, 0.8, ranked[0].AverageScore, 1e-9)
	assert.Equal(t, 2, ranked[0].MatchedChunkCount)

	assert.Equal(t, "docs:beta", ranked[1].Document.Key)
	assert.InDelta(t, 0.5, ranked[1].AverageScore, 1e-9)
	assert.Equal(t, 1, ranked[1].MatchedChunkCount)
}

func TestRetrieveEqualScoresKeepFirstHitOrder(t *testing.T) {
	store := newFakeDocStore(
		model.StoredDocument{Key: "docs:first"},
		model.StoredDocument{Key: "docs:second"},
	)
	index := newFakeIndex()
	index.queryRes = []model.VectorMatch{
		match("docs:first", 0.5),
		match("docs:second", 0.5),
	}
	svc := NewRetrievalService(store, index, staticEmbedder([]float32{1}), 5)

	ranked, err := svc.Retrieve(context.Background(), "query", 5)
	require.NoError(t, err)
	require.Len(t, ranked, 2)
	assert.Equal(t, "docs:first", ranked[0].Document.Key)
	assert.Equal(t, "docs:second", ranked[1].Document.Key)
}

func TestRetrieveDropsSourcesWithoutDocument(t *testing.T) {
	store := newFakeDocStore(model.StoredDocument{Key: "docs:present"})
	index := newFakeIndex()
	index.queryRes = []model.VectorMatch{
		match("docs:vanished", 0.9),
		match("docs:present", 0.4),
	}
	svc := NewRetrievalService(store, index, staticEmbedder([]float32{1}), 5)

	ranked, err := svc.Retrieve(context.Background(), "query", 5)
	require.NoError(t, err)
	require.Len(t, ranked, 1)
	assert.Equal(t, "docs:present", ranked[0].Document.Key)
}

func TestRetrieveSkipsMatchesWithoutSource(t *testing.T) {
	store := newFakeDocStore(model.StoredDocument{Key: "docs:present"})
	index := newFakeIndex()
	index.queryRes = []model.VectorMatch{
		{ID: "stray", Score: 0.99},
		match("docs:present", 0.4),
	}
	svc := NewRetrievalService(store, index, staticEmbedder([]float32{1}), 5)

	ranked, err := svc.Retrieve(context.Background(), "query", 5)
	require.NoError(t, err)
	require.Len(t, ranked, 1)
	assert.Equal(t, "docs:present", ranked[0].Document.Key)
}
