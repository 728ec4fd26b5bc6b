package extract

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"
)

// PageImage is one pre-rasterized page supplied by the client. The
// rasterization step itself lives outside this service.
type PageImage struct {
	PageNum          int    `json:"pageNum"`
	ImageBase64      string `json:"image"`
	OriginalFilename string `json:"originalFilename"`
}

const pageInstruction = "Extract all text from this image, preserving formatting and structure. " +
	"Return ONLY the extracted text in a markdown format, no commentary. " +
	"For images or charts, do your best to describe the image or chart, maintaining as much information as possible. " +
	"For tables, you can describe the table in markdown format. " +
	"Do not prepend the markdown with ```markdown or ```."

// FromPages extracts text from rasterized pages with a vision model.
// Pages within a batch run concurrently; batches run sequentially to
// bound concurrent upstream calls. Every page in a batch settles before
// the batch is judged, but any page failure is fatal for the whole
// extraction: a partially extracted document is never stored.
func (e *Extractor) FromPages(ctx context.Context, pages []PageImage, progress ProgressFunc) (string, error) {
	if len(pages) == 0 {
		return "", fmt.Errorf("no page data received for extraction")
	}

	ordered := make([]PageImage, len(pages))
	copy(ordered, pages)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].PageNum < ordered[j].PageNum })

	emit(progress, fmt.Sprintf("Processing %d pages...", len(ordered)))

	contents := make([]string, len(ordered))
	for start := 0; start < len(ordered); start += e.pageBatchSize {
		end := start + e.pageBatchSize
		if end > len(ordered) {
			end = len(ordered)
		}
		emit(progress, fmt.Sprintf("Extracting text from pages %d-%d of %d...", start+1, end, len(ordered)))

		errs := make([]error, end-start)
		var g errgroup.Group
		for i := start; i < end; i++ {
			i := i
			g.Go(func() error {
				text, err := e.llmClient.ExtractImageText(ctx, e.visionConfig, pageInstruction, ordered[i].ImageBase64)
				if err != nil {
					// Recorded, not returned: siblings in the batch
					// must settle before the batch fails.
					errs[i-start] = fmt.Errorf("extract page %d failed: %w", ordered[i].PageNum, err)
					return nil
				}
				contents[i] = fmt.Sprintf("Page: %d\n\n%s", ordered[i].PageNum, text)
				return nil
			})
		}
		_ = g.Wait()

		for _, err := range errs {
			if err != nil {
				return "", err
			}
		}
	}

	emit(progress, "Combining extracted text...")
	return strings.Join(contents, "\n\n---\n\n"), nil
}
