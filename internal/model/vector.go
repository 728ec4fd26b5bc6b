package model

// VectorMetadata travels with every chunk vector so retrieval can
// reconstruct the source document without a second lookup for the text.
type VectorMetadata struct {
	Text       string `json:"text"`
	Source     string `json:"source"`
	Title      string `json:"title"`
	ChunkIndex int    `json:"chunkIndex"`
}

// VectorRecord is one chunk embedding as stored in the vector index.
type VectorRecord struct {
	ID       string         `json:"id"`
	Vector   []float32      `json:"vector"`
	Metadata VectorMetadata `json:"metadata"`
}

// VectorMatch is one nearest-neighbour hit returned by an index query.
// Higher score means more similar.
type VectorMatch struct {
	ID       string         `json:"id"`
	Score    float64        `json:"score"`
	Metadata VectorMetadata `json:"metadata"`
}
