package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"knowledgebot/internal/app"
)

type VectorizeHandler struct {
	vectorizeService *app.VectorizeService
}

type VectorizeRequest struct {
	Key string `json:"key" binding:"required"`
}

func NewVectorizeHandler(vectorizeService *app.VectorizeService) *VectorizeHandler {
	return &VectorizeHandler{vectorizeService: vectorizeService}
}

// Vectorize chunks and embeds the document under the given key. Partial
// embedding failures come back inside the summary, not as an error.
func (h *VectorizeHandler) Vectorize(c *gin.Context) {
	var req VectorizeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "no document key provided"})
		return
	}

	result, err := h.vectorizeService.Vectorize(c.Request.Context(), req.Key)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrDocumentNotFound):
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": "document not found"})
		case errors.Is(err, app.ErrDocumentEmpty), errors.Is(err, app.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to vectorize document"})
		}
		return
	}

	c.JSON(http.StatusOK, result)
}
