package model

import "time"

// StoredDocument is the canonical persisted record of one ingested file:
// its extracted text plus vectorization state. Documents live in the
// key-value store as JSON under their derived key.
type StoredDocument struct {
	Key              string     `json:"key"`
	Title            string     `json:"title"`
	Text             string     `json:"text"`
	OriginalFilename string     `json:"originalFilename"`
	Vectorized       bool       `json:"vectorized,omitempty"`
	VectorizedAt     *time.Time `json:"vectorizedAt,omitempty"`
	VectorChunks     int        `json:"vectorChunks,omitempty"`
}
