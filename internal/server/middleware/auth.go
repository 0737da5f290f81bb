package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"resumeforge/backend/internal/security"
)

const bearerPrefix = "bearer "

// AccessTokenCookie is the cookie carrying the signed access token.
const AccessTokenCookie = "auth_token"

// RequireAuth returns middleware that authenticates the request from the
// auth_token cookie or an Authorization Bearer header. Verification is pure
// token inspection; the session store is never consulted, so a revoked
// session's access token stays valid until it expires.
//
// Every failure mode — missing token, bad signature, expired — yields the
// same 401 so callers learn nothing about which check failed.
func RequireAuth(tokens *security.TokenProvider) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			unauthorized(c)
			return
		}
		userID, email, err := tokens.Verify(token)
		if err != nil {
			unauthorized(c)
			return
		}
		ctx := WithIdentity(c.Request.Context(), userID, email)
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func unauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
}

// extractToken returns the access token from the auth_token cookie, falling
// back to the Authorization header, or "" if neither carries one.
func extractToken(c *gin.Context) string {
	if cookie, err := c.Cookie(AccessTokenCookie); err == nil && cookie != "" {
		return cookie
	}
	v := strings.TrimSpace(c.GetHeader("Authorization"))
	if len(v) < len(bearerPrefix) {
		return ""
	}
	if !strings.EqualFold(v[:len(bearerPrefix)], bearerPrefix) {
		return ""
	}
	return strings.TrimSpace(v[len(bearerPrefix):])
}
