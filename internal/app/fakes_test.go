package app

import (
	"context"
	"errors"
	"strings"
	"sync"

	"knowledgebot/internal/model"
)

type fakeDocStore struct {
	mu   sync.Mutex
	docs map[string]model.StoredDocument

	getErr error
	setErr error
}

func newFakeDocStore(docs ...model.StoredDocument) *fakeDocStore {
	s := &fakeDocStore{docs: make(map[string]model.StoredDocument)}
	for _, doc := range docs {
		s.docs[doc.Key] = doc
	}
	return s
}

func (s *fakeDocStore) Get(_ context.Context, key string) (*model.StoredDocument, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.getErr != nil {
		return nil, s.getErr
	}
	doc, ok := s.docs[key]
	if !ok {
		return nil, nil
	}
	copied := doc
	return &copied, nil
}

func (s *fakeDocStore) Set(_ context.Context, key string, doc *model.StoredDocument) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.setErr != nil {
		return s.setErr
	}
	doc.Key = key
	s.docs[key] = *doc
	return nil
}

func (s *fakeDocStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.docs, key)
	return nil
}

func (s *fakeDocStore) ListKeys(_ context.Context, prefix string) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var keys []string
	for key := range s.docs {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

func (s *fakeDocStore) List(_ context.Context) ([]model.StoredDocument, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	docs := make([]model.StoredDocument, 0, len(s.docs))
	for _, doc := range s.docs {
		docs = append(docs, doc)
	}
	return docs, nil
}

type fakeIndex struct {
	mu       sync.Mutex
	records  map[string]model.VectorRecord
	failIDs  map[string]bool
	queryRes []model.VectorMatch
	queryErr error

	deletedPrefixes []string
}

func newFakeIndex() *fakeIndex {
	return &fakeIndex{
		records: make(map[string]model.VectorRecord),
		failIDs: make(map[string]bool),
	}
}

func (f *fakeIndex) Upsert(_ context.Context, rec model.VectorRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failIDs[rec.ID] {
		return errors.New("upsert rejected")
	}
	f.records[rec.ID] = rec
	return nil
}

func (f *fakeIndex) Query(_ context.Context, _ []float32, _ int) ([]model.VectorMatch, error) {
	if f.queryErr != nil {
		return nil, f.queryErr
	}
	return f.queryRes, nil
}

func (f *fakeIndex) DeleteByPrefix(_ context.Context, prefix string) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deletedPrefixes = append(f.deletedPrefixes, prefix)
	deleted := 0
	for id := range f.records {
		if strings.HasPrefix(id, prefix) {
			delete(f.records, id)
			deleted++
		}
	}
	return deleted, nil
}

type fakeAudit struct {
	mu      sync.Mutex
	records []model.AuditRecord
}

func (f *fakeAudit) Publish(_ context.Context, rec model.AuditRecord) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.records = append(f.records, rec)
	return nil
}

func staticEmbedder(vector []float32) Embedder {
	return EmbedderFunc(func(context.Context, string) ([]float32, error) {
		return vector, nil
	})
}

func failingEmbedder(err error) Embedder {
	return EmbedderFunc(func(context.Context, string) ([]float32, error) {
		return nil, err
	})
}
