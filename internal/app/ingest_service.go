package app

import (
	"context"
	"fmt"
	"log"
	"strings"

	"knowledgebot/internal/extract"
	"knowledgebot/internal/model"
	"knowledgebot/internal/store"
)

// IngestService runs the upload half of the pipeline: extract text,
// store the document under its derived key, record the mutation.
type IngestService struct {
	store     DocumentStore
	extractor *extract.Extractor
	audit     AuditPublisher
}

func NewIngestService(docStore DocumentStore, extractor *extract.Extractor, audit AuditPublisher) *IngestService {
	return &IngestService{
		store:     docStore,
		extractor: extractor,
		audit:     audit,
	}
}

// IngestResult is the terminal payload of a successful ingestion.
type IngestResult struct {
	Success          bool   `json:"success"`
	Title            string `json:"title"`
	OriginalFilename string `json:"originalFilename"`
	Key              string `json:"key"`
}

// IngestFile extracts a raw upload (xlsx, docx, pdf) and stores it.
func (s *IngestService) IngestFile(ctx context.Context, filename, mimeType string, data []byte, progress extract.ProgressFunc) (*IngestResult, error) {
	filename = strings.TrimSpace(filename)
	if filename == "" || len(data) == 0 {
		return nil, ErrInvalidInput
	}
	emitProgress(progress, fmt.Sprintf("Received file: %s", filename))

	text, err := s.extractor.FromFile(ctx, filename, mimeType, data, progress)
	if err != nil {
		return nil, err
	}

	return s.storeDocument(ctx, filename, text, progress)
}

// IngestPages extracts pre-rasterized page images and stores the
// result. The original filename rides on the first page record.
func (s *IngestService) IngestPages(ctx context.Context, pages []extract.PageImage, progress extract.ProgressFunc) (*IngestResult, error) {
	if len(pages) == 0 || strings.TrimSpace(pages[0].OriginalFilename) == "" {
		return nil, fmt.Errorf("%w: missing page data or original filename", ErrInvalidInput)
	}
	filename := pages[0].OriginalFilename
	emitProgress(progress, fmt.Sprintf("Processing PDF: %s", filename))

	text, err := s.extractor.FromPages(ctx, pages, progress)
	if err != nil {
		return nil, err
	}

	return s.storeDocument(ctx, filename, text, progress)
}

func (s *IngestService) storeDocument(ctx context.Context, originalFilename, text string, progress extract.ProgressFunc) (*IngestResult, error) {
	emitProgress(progress, "Processing complete. Storing results...")

	key := store.DeriveKey(originalFilename)
	doc := &model.StoredDocument{
		Key:              key,
		Title:            originalFilename,
		Text:             text,
		OriginalFilename: originalFilename,
	}
	if err := s.store.Set(ctx, key, doc); err != nil {
		return nil, err
	}
	emitProgress(progress, fmt.Sprintf("Stored document with key: %s", key))

	s.publishAudit(ctx, model.AuditRecord{
		Key:    key,
		Title:  doc.Title,
		Action: model.AuditActionIngest,
		Detail: fmt.Sprintf("extracted %d characters from %s", len(text), originalFilename),
	})

	return &IngestResult{
		Success:          true,
		Title:            doc.Title,
		OriginalFilename: originalFilename,
		Key:              key,
	}, nil
}

func (s *IngestService) publishAudit(ctx context.Context, rec model.AuditRecord) {
	if s.audit == nil {
		return
	}
	if err := s.audit.Publish(ctx, rec); err != nil {
		log.Printf("publish audit record failed: %v", err)
	}
}

func emitProgress(progress extract.ProgressFunc, message string) {
	if progress != nil {
		progress(message)
	}
}
