package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"knowledgebot/internal/app"
	"knowledgebot/internal/extract"
)

// IngestHandler accepts uploads and streams extraction progress back as
// SSE events: any number of progress events, then exactly one terminal
// complete or error event.
type IngestHandler struct {
	ingestService  *app.IngestService
	maxUploadBytes int64
}

func NewIngestHandler(ingestService *app.IngestService, maxUploadMB int) *IngestHandler {
	if maxUploadMB <= 0 {
		maxUploadMB = 25
	}
	return &IngestHandler{
		ingestService:  ingestService,
		maxUploadBytes: int64(maxUploadMB) << 20,
	}
}

type sseEvent struct {
	Type    string `json:"type"`
	Message string `json:"message,omitempty"`
	Result  any    `json:"result,omitempty"`
}

// Ingest handles a multipart form carrying either a raw "file" part or
// repeated "pages" values (JSON records of pre-rasterized PDF pages).
func (h *IngestHandler) Ingest(c *gin.Context) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "stream not supported"})
		return
	}

	send := func(event sseEvent) {
		payload, err := json.Marshal(event)
		if err != nil {
			return
		}
		if _, err := c.Writer.Write([]byte("data: " + string(payload) + "\n\n")); err == nil {
			flusher.Flush()
		}
	}
	progress := func(message string) {
		send(sseEvent{Type: "progress", Message: message})
	}

	result, err := h.process(c, progress)
	if err != nil {
		send(sseEvent{Type: "error", Message: err.Error()})
		return
	}
	send(sseEvent{Type: "complete", Result: result})
}

func (h *IngestHandler) process(c *gin.Context, progress extract.ProgressFunc) (*app.IngestResult, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, errors.New("invalid multipart form")
	}

	if files := form.File["file"]; len(files) > 0 {
		file := files[0]
		if file.Size > h.maxUploadBytes {
			return nil, errors.New("file too large")
		}
		f, err := file.Open()
		if err != nil {
			return nil, errors.New("failed to read file")
		}
		defer f.Close()
		data, err := io.ReadAll(f)
		if err != nil {
			return nil, errors.New("failed to read file")
		}
		return h.ingestService.IngestFile(c.Request.Context(), file.Filename, file.Header.Get("Content-Type"), data, progress)
	}

	if raw := form.Value["pages"]; len(raw) > 0 {
		pages := make([]extract.PageImage, 0, len(raw))
		for _, entry := range raw {
			var page extract.PageImage
			if err := json.Unmarshal([]byte(entry), &page); err != nil {
				return nil, errors.New("invalid page data")
			}
			pages = append(pages, page)
		}
		return h.ingestService.IngestPages(c.Request.Context(), pages, progress)
	}

	return nil, errors.New("no file or page data provided in the request")
}
