package app

import (
	"context"
	"fmt"
	"log"

	"knowledgebot/internal/model"
	"knowledgebot/internal/store"
)

// DocumentService exposes CRUD over stored documents and keeps the
// vector index in step on delete.
type DocumentService struct {
	store DocumentStore
	index VectorIndex
	audit AuditPublisher
}

func NewDocumentService(docStore DocumentStore, index VectorIndex, audit AuditPublisher) *DocumentService {
	return &DocumentService{
		store: docStore,
		index: index,
		audit: audit,
	}
}

func (s *DocumentService) List(ctx context.Context) ([]model.StoredDocument, error) {
	return s.store.List(ctx)
}

func (s *DocumentService) Get(ctx context.Context, key string) (*model.StoredDocument, error) {
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
	return doc, nil
}

// Set writes a document under key. An edited document loses any claim
// its previous vectors had about its text, but re-vectorization is the
// caller's move; the flags are reset so the state is visible.
func (s *DocumentService) Set(ctx context.Context, key string, doc *model.StoredDocument) error {
	if key == "" || doc == nil {
		return ErrInvalidInput
	}
	return s.store.Set(ctx, key, doc)
}

// Delete removes the document record and then best-effort removes every
// vector whose id carries the document's chunk prefix. A failed vector
// cleanup is logged, not surfaced: the dangling records are invisible
// to document listing and a later vectorize of the same key overwrites
// them.
func (s *DocumentService) Delete(ctx context.Context, key string) error {
	if key == "" {
		return ErrInvalidInput
	}

	doc, err := s.store.Get(ctx, key)
	if err != nil {
		return err
	}
	if doc == nil {
		return ErrDocumentNotFound
	}

	if err := s.store.Delete(ctx, key); err != nil {
		return err
	}

	deleted, err := s.index.DeleteByPrefix(ctx, ChunkIDPrefix(key))
	if err != nil {
		log.Printf("delete vectors for %s failed: %v", key, err)
	}

	s.publishAudit(ctx, model.AuditRecord{
		Key:    key,
		Title:  doc.Title,
		Action: model.AuditActionDelete,
		Detail: fmt.Sprintf("removed document and %d vector records", deleted),
	})
	return nil
}

func (s *DocumentService) publishAudit(ctx context.Context, rec model.AuditRecord) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Publish(ctx, rec); err != nil {
		log.Printf("publish audit record failed: %v", err)
	}
}

// DeriveKey re-exports the store's key derivation for handlers that
// accept raw filenames.
func DeriveKey(filename string) string {
	return store.DeriveKey(filename)
}
