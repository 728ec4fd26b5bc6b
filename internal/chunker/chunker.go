// Package chunker splits extracted document text into overlapping
// fixed-size windows, the unit of embedding.
package chunker

import "strings"

const (
	DefaultChunkSize      = 2000
	DefaultOverlapPercent = 40
)

// Chunker produces deterministic overlapping chunks. Window width and
// stride are measured in runes so multi-byte text never splits mid-rune.
type Chunker struct {
	chunkSize      int
	overlapPercent int
}

// Option configures a Chunker.
type Option func(*Chunker)

// WithChunkSize sets the window width in runes.
func WithChunkSize(size int) Option {
	return func(c *Chunker) {
		if size > 0 {
			c.chunkSize = size
		}
	}
}

// WithOverlapPercent sets the overlap between consecutive windows as a
// percentage of the window width.
func WithOverlapPercent(percent int) Option {
	return func(c *Chunker) {
		if percent >= 0 && percent < 100 {
			c.overlapPercent = percent
		}
	}
}

func New(opts ...Option) *Chunker {
	c := &Chunker{
		chunkSize:      DefaultChunkSize,
		overlapPercent: DefaultOverlapPercent,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Chunk normalizes whitespace and slides a fixed window over the text.
// Text at most one window wide comes back as a single chunk. The slice
// order is window-emission order; a chunk's position in it is the index
// used in its vector id. Pure: identical input yields identical output.
func (c *Chunker) Chunk(text string) []string {
	cleaned := Normalize(text)
	if cleaned == "" {
		return nil
	}

	runes := []rune(cleaned)
	if len(runes) <= c.chunkSize {
		return []string{cleaned}
	}

	overlap := c.chunkSize * c.overlapPercent / 100
	stride := c.chunkSize - overlap

	var chunks []string
	for start := 0; start < len(runes); start += stride {
		end := start + c.chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[start:end]))
		if end == len(runes) {
			break
		}
	}
	return chunks
}

// Normalize collapses every run of whitespace to a single space and
// trims the ends.
func Normalize(text string) string {
	return strings.Join(strings.Fields(text), " ")
}
