package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/AtRiskMedia/tractstack-builder/internal/infrastructure/observability/logging"
)

const roleKey = "editorRole"

// TokenValidator resolves a bearer token to a role.
type TokenValidator interface {
	Configured() bool
	ValidateToken(token string) (string, error)
}

// EditorAuthMiddleware requires a valid editor token. Websocket clients cannot
// set headers, so the token may also arrive as the "token" query parameter.
// When no credentials are configured every request is let through.
func EditorAuthMiddleware(validator TokenValidator, logger *logging.ChanneledLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !validator.Configured() {
			c.Next()
			return
		}

		token := ""
		authHeader := c.GetHeader("Authorization")
		if len(authHeader) > 7 && strings.HasPrefix(authHeader, "Bearer ") {
			token = authHeader[7:]
		} else {
			token = c.Query("token")
		}
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		role, err := validator.ValidateToken(token)
		if err != nil {
			logger.Auth().Debug("Rejected editor token", "path", c.Request.URL.Path, "error", err.Error())
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}
		c.Set(roleKey, role)
		c.Next()
	}
}

// GetEditorRole returns the role set by EditorAuthMiddleware.
func GetEditorRole(c *gin.Context) (string, bool) {
	role, ok := c.Get(roleKey)
	if !ok {
		return "", false
	}
	s, ok := role.(string)
	return s, ok
}
