package handler

import (
	"crypto/subtle"
	"net/http"

	"github.com/gin-gonic/gin"
)

// AuthHandler verifies the shared access token. There are no accounts:
// a single secret gates the whole admin surface.
type AuthHandler struct {
	token string
}

type VerifyRequest struct {
	Password string `json:"password" binding:"required"`
}

func NewAuthHandler(token string) *AuthHandler {
	return &AuthHandler{token: token}
}

func (h *AuthHandler) Verify(c *gin.Context) {
	var req VerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "no password provided"})
		return
	}

	if subtle.ConstantTimeCompare([]byte(req.Password), []byte(h.token)) != 1 {
		c.JSON(http.StatusUnauthorized, gin.H{"success": false, "message": "invalid password"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true})
}
