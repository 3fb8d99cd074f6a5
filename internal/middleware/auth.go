// Package middleware holds the gin middleware chain: authentication,
// permission gates, request ids, logging, metrics and rate limiting.
package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yarachoice/clinic-api/internal/handler"
	"github.com/yarachoice/clinic-api/internal/model"
	"github.com/yarachoice/clinic-api/pkg/auth"
	apperrors "github.com/yarachoice/clinic-api/pkg/errors"
)

const claimsKey = "auth_claims"

// Authenticate validates the bearer token and stashes its claims on the
// request context.
func Authenticate(tokens auth.JWTService) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			// Browsers cannot set headers on websocket upgrades, so the
			// chat socket passes the token as a query parameter.
			token = c.Query("access_token")
		}
		if token == "" {
			handler.Error(c, apperrors.Unauthorized("missing authorization token"))
			c.Abort()
			return
		}

		claims, err := tokens.ValidateToken(token)
		if err != nil {
			handler.Error(c, apperrors.Unauthorized("invalid or expired token"))
			c.Abort()
			return
		}

		c.Set(claimsKey, claims)
		c.Next()
	}
}

// RequirePermission gates a route on the token's permission bitmask. A token
// without the permissions claim carries mask zero and is denied.
func RequirePermission(required model.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := Claims(c)
		if !ok {
			handler.Error(c, apperrors.Unauthorized("missing authorization token"))
			c.Abort()
			return
		}
		if !claims.Permissions.Has(required) {
			handler.Error(c, apperrors.Forbidden("insufficient permissions"))
			c.Abort()
			return
		}
		c.Next()
	}
}

// Claims returns the authenticated token claims, if any.
func Claims(c *gin.Context) (*auth.Claims, bool) {
	v, ok := c.Get(claimsKey)
	if !ok {
		return nil, false
	}
	claims, ok := v.(*auth.Claims)
	return claims, ok
}
