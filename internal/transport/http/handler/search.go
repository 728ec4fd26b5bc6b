package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"knowledgebot/internal/app"
)

type SearchHandler struct {
	retrievalService *app.RetrievalService
}

func NewSearchHandler(retrievalService *app.RetrievalService) *SearchHandler {
	return &SearchHandler{retrievalService: retrievalService}
}

// Search returns raw chunk-level nearest-neighbour hits for a query.
func (h *SearchHandler) Search(c *gin.Context) {
	query := c.Query("query")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "no query provided"})
		return
	}

	topK := 0
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			topK = parsed
		}
	}

	matches, err := h.retrievalService.Search(c.Request.Context(), query, topK)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "results": matches})
}

type RetrieveRequest struct {
	Query string `json:"query" binding:"required"`
	TopK  int    `json:"topK"`
}

// Retrieve returns ranked source documents reconstructed from chunk
// hits: average similarity score and matched-chunk count per document.
func (h *SearchHandler) Retrieve(c *gin.Context) {
	var req RetrieveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "no query provided"})
		return
	}

	ranked, err := h.retrievalService.Retrieve(c.Request.Context(), req.Query, req.TopK)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "results": ranked})
}
