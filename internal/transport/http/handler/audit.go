package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"knowledgebot/internal/repository"
	"knowledgebot/internal/transport/http/response"
)

// AuditHandler exposes the persisted audit trail of one document key.
type AuditHandler struct {
	auditRepo *repository.AuditRepository
}

func NewAuditHandler(auditRepo *repository.AuditRepository) *AuditHandler {
	return &AuditHandler{auditRepo: auditRepo}
}

func (h *AuditHandler) ListByKey(c *gin.Context) {
	key := c.Query("key")
	if key == "" {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "no key provided")
		return
	}

	limit := 0
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}

	records, err := h.auditRepo.ListByKey(key, limit)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "failed to load audit records")
		return
	}
	response.OK(c, records)
}
