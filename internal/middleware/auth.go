package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/salvex/salvex-api/pkg/auth"
	"github.com/salvex/salvex-api/pkg/logger"
	"go.uber.org/zap"
)

// AdminTokenHeader is the fallback header for the admin token
const AdminTokenHeader = "x-admin-token"

// AdminTokenMiddleware admits requests carrying the admin token in
// Authorization (Bearer or bare) or, when Authorization is absent,
// x-admin-token. An unconfigured token rejects everyone.
func AdminTokenMiddleware(authorizer auth.Authorizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := auth.ExtractToken(c.Request.Header, AdminTokenHeader)

		if token == "" || authorizer == nil || !authorizer.Authorize(token) {
			logger.Warn("Rejected admin request",
				zap.String("path", c.Request.URL.Path),
				zap.String("client_ip", c.ClientIP()),
				zap.Bool("token_present", token != ""),
			)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			c.Abort()
			return
		}

		c.Next()
	}
}
