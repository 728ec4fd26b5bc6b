package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"knowledgebot/internal/app"
	"knowledgebot/internal/model"
	"knowledgebot/internal/transport/http/response"
)

type DocumentsHandler struct {
	documentService *app.DocumentService
}

type SetDocumentRequest struct {
	Key      string                `json:"key" binding:"required"`
	Document *model.StoredDocument `json:"document" binding:"required"`
}

type DeleteDocumentRequest struct {
	Key string `json:"key" binding:"required"`
}

func NewDocumentsHandler(documentService *app.DocumentService) *DocumentsHandler {
	return &DocumentsHandler{documentService: documentService}
}

func (h *DocumentsHandler) List(c *gin.Context) {
	docs, err := h.documentService.List(c.Request.Context())
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "failed to load documents")
		return
	}
	response.OK(c, docs)
}

func (h *DocumentsHandler) Set(c *gin.Context) {
	var req SetDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "missing key or document")
		return
	}

	if err := h.documentService.Set(c.Request.Context(), req.Key, req.Document); err != nil {
		if errors.Is(err, app.ErrInvalidInput) {
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		} else {
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "failed to store document")
		}
		return
	}
	response.OK(c, gin.H{"key": req.Key})
}

// Delete removes a document record and, best-effort, every vector
// record whose source is that document.
func (h *DocumentsHandler) Delete(c *gin.Context) {
	var req DeleteDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "no key provided")
		return
	}

	if err := h.documentService.Delete(c.Request.Context(), req.Key); err != nil {
		switch {
		case errors.Is(err, app.ErrDocumentNotFound):
			response.Error(c, http.StatusNotFound, response.CodeNotFound, "document not found")
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "failed to delete document")
		}
		return
	}
	response.OK(c, gin.H{"deleted_key": req.Key})
}
