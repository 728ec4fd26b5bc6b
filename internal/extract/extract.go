// Package extract converts uploaded files into plain/markdown text.
// Spreadsheets and word-processor files are parsed directly; PDFs use
// their embedded text layer when present; pre-rasterized page images go
// through a vision model.
package extract

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"knowledgebot/internal/ai"
)

// ErrUnsupportedFormat marks an upload whose type no extractor handles.
var ErrUnsupportedFormat = errors.New("unsupported file format")

const (
	mimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	mimeDOCX = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	mimePDF  = "application/pdf"
)

// ProgressFunc receives human-readable status messages during long
// extractions. Purely observational: dropping every message changes
// nothing about the result.
type ProgressFunc func(message string)

type Extractor struct {
	llmClient     *ai.Client
	visionConfig  ai.VisionConfig
	pageBatchSize int
}

func NewExtractor(llmClient *ai.Client, visionConfig ai.VisionConfig, pageBatchSize int) *Extractor {
	if pageBatchSize <= 0 {
		pageBatchSize = 20
	}
	return &Extractor{
		llmClient:     llmClient,
		visionConfig:  visionConfig,
		pageBatchSize: pageBatchSize,
	}
}

// FromFile extracts text from a raw uploaded file, dispatching on MIME
// type first and filename extension second.
func (e *Extractor) FromFile(ctx context.Context, filename, mimeType string, data []byte, progress ProgressFunc) (string, error) {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(filename)), ".")

	switch {
	case mimeType == mimeXLSX || ext == "xlsx":
		emit(progress, "Processing Excel file...")
		return extractXLSX(data)
	case mimeType == mimeDOCX || ext == "docx":
		emit(progress, "Processing Word document...")
		return extractDOCX(data)
	case mimeType == mimePDF || ext == "pdf":
		emit(progress, "Extracting PDF text layer...")
		return extractPDFText(data)
	default:
		offending := mimeType
		if offending == "" {
			offending = ext
		}
		return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, offending)
	}
}

func emit(progress ProgressFunc, message string) {
	if progress != nil {
		progress(message)
	}
}
