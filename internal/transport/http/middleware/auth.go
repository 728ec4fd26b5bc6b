package middleware

import (
	"crypto/subtle"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"knowledgebot/internal/transport/http/response"
)

// AuthBearer guards mutating routes with the single shared bearer
// token. It fails closed with 401 before any handler side effect runs.
func AuthBearer(token string) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := strings.TrimSpace(c.GetHeader("Authorization"))
		if authHeader == "" {
			response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "missing authorization header")
			c.Abort()
			return
		}

		const prefix = "Bearer "
		if !strings.HasPrefix(authHeader, prefix) {
			response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid authorization scheme")
			c.Abort()
			return
		}

		presented := strings.TrimSpace(strings.TrimPrefix(authHeader, prefix))
		if subtle.ConstantTimeCompare([]byte(presented), []byte(token)) != 1 {
			response.Error(c, http.StatusUnauthorized, response.CodeUnauthorized, "invalid token")
			c.Abort()
			return
		}

		c.Next()
	}
}
