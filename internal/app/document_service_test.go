package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"knowledgebot/internal/model"
)

func TestDocumentGet(t *testing.T) {
	store := newFakeDocStore(model.StoredDocument{Key: "docs:known", Title: "Known"})
	svc := NewDocumentService(store, newFakeIndex(), nil)

	doc, err := svc.Get(context.Background(), "docs:known")
	require.NoError(t, err)
	assert.Equal(t, "Known", doc.Title)

	_, err = svc.Get(context.Background(), "docs:unknown")
	assert.ErrorIs(t, err, ErrDocumentNotFound)

	_, err = svc.Get(context.Background(), "")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestDocumentSet(t *testing.T) {
	store := newFakeDocStore()
	svc := NewDocumentService(store, newFakeIndex(), nil)

	err := svc.Set(context.Background(), "docs:new", &model.StoredDocument{Title: "New", Text: "body"})
	require.NoError(t, err)

	stored, err := store.Get(context.Background(), "docs:new")
	require.NoError(t, err)
	assert.Equal(t, "docs:new", stored.Key)
	assert.Equal(t, "body", stored.Text)

	assert.ErrorIs(t, svc.Set(context.Background(), "", &model.StoredDocument{}), ErrInvalidInput)
	assert.ErrorIs(t, svc.Set(context.Background(), "docs:new", nil), ErrInvalidInput)
}

func TestDocumentDeleteRemovesVectors(t *testing.T) {
	store := newFakeDocStore(model.StoredDocument{Key: "docs:gone", Title: "Gone"})
	index := newFakeIndex()
	for i := 0; i < 3; i++ {
		require.NoError(t, index.Upsert(context.Background(), model.VectorRecord{
			ID: ChunkID("docs:gone", i),
		}))
	}
	require.NoError(t, index.Upsert(context.Background(), model.VectorRecord{
		ID: ChunkID("docs:kept", 0),
	}))
	audit := &fakeAudit{}
	svc := NewDocumentService(store, index, audit)

	require.NoError(t, svc.Delete(context.Background(), "docs:gone"))

	doc, err := store.Get(context.Background(), "docs:gone")
	require.NoError(t, err)
	assert.Nil(t, doc)

	require.Equal(t, []string{"docs:gone:chunk:"}, index.deletedPrefixes)
	assert.Len(t, index.records, 1)
	assert.Contains(t, index.records, "docs:kept:chunk:0")

	require.Len(t, audit.records, 1)
	assert.Equal(t, model.AuditActionDelete, audit.records[0].Action)
	assert.Equal(t, "docs:gone", audit.records[0].Key)
}

func TestDocumentDeleteUnknownKey(t *testing.T) {
	svc := NewDocumentService(newFakeDocStore(), newFakeIndex(), nil)
	assert.ErrorIs(t, svc.Delete(context.Background(), "docs:missing"), ErrDocumentNotFound)
}
