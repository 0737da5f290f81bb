// Package handler exposes the auth service over HTTP. Tokens travel in
// cookies: auth_token carries the signed access token, refresh_token the
// opaque session token.
package handler

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"resumeforge/backend/internal/identity/service"
	"resumeforge/backend/internal/rate"
	"resumeforge/backend/internal/server/middleware"
	sessionservice "resumeforge/backend/internal/session/service"
)

// AuthHandler handles signup, login, refresh, and logout requests.
type AuthHandler struct {
	auth       *service.AuthService
	accessTTL  time.Duration
	refreshTTL time.Duration
}

// NewAuthHandler returns an AuthHandler issuing cookies with the given TTLs.
func NewAuthHandler(auth *service.AuthService, accessTTL, refreshTTL time.Duration) *AuthHandler {
	return &AuthHandler{auth: auth, accessTTL: accessTTL, refreshTTL: refreshTTL}
}

type credentialsRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Signup handles POST /api/auth/signup. A successful signup logs the user in:
// both cookies are set on the response.
func (h *AuthHandler) Signup(c *gin.Context) {
	var body credentialsRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	res, err := h.auth.Register(c.Request.Context(), body.Email, body.Password, requestMetadata(c))
	if err != nil {
		if errors.Is(err, service.ErrEmailAlreadyRegistered) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email already registered"})
			return
		}
		h.fail(c, err)
		return
	}
	h.setCookies(c, res)
	c.JSON(http.StatusOK, gin.H{"ok": true, "email": res.Email})
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c *gin.Context) {
	var body credentialsRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	res, err := h.auth.Login(c.Request.Context(), body.Email, body.Password, requestMetadata(c))
	if err != nil {
		h.fail(c, err)
		return
	}
	h.setCookies(c, res)
	c.JSON(http.StatusOK, gin.H{"ok": true, "email": res.Email})
}

// Refresh handles POST /api/auth/refresh. The refresh token comes from the
// refresh_token cookie; on any rejection both cookies are cleared so the
// browser stops replaying a dead pair.
func (h *AuthHandler) Refresh(c *gin.Context) {
	token, _ := c.Cookie(middleware.RefreshTokenCookie)
	res, err := h.auth.Refresh(c.Request.Context(), token, requestMetadata(c))
	if err != nil {
		if errors.Is(err, service.ErrInvalidRefreshToken) {
			middleware.ClearAuthCookies(c)
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token"})
			return
		}
		h.fail(c, err)
		return
	}
	h.setCookies(c, res)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Logout handles POST /api/auth/logout. Always succeeds and always clears
// cookies, even when the refresh token is missing or garbage.
func (h *AuthHandler) Logout(c *gin.Context) {
	token, _ := c.Cookie(middleware.RefreshTokenCookie)
	if err := h.auth.Logout(c.Request.Context(), token, requestMetadata(c)); err != nil {
		log.Printf("auth: logout: %v", err)
	}
	middleware.ClearAuthCookies(c)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// LogoutAll handles POST /api/auth/logout_all. Requires authentication; revokes
// every session of the calling user.
func (h *AuthHandler) LogoutAll(c *gin.Context) {
	userID, ok := middleware.GetUserID(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	if err := h.auth.LogoutAll(c.Request.Context(), userID, requestMetadata(c)); err != nil {
		h.fail(c, err)
		return
	}
	middleware.ClearAuthCookies(c)
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *AuthHandler) setCookies(c *gin.Context, res *service.AuthResult) {
	middleware.SetAuthCookies(c, res.AccessToken, h.accessTTL, res.RefreshToken, h.refreshTTL)
}

// fail maps service errors to HTTP statuses. Unexpected errors are logged and
// come back as an opaque 500.
func (h *AuthHandler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
	case errors.Is(err, rate.ErrRateLimited):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "too many attempts, try again later"})
	case errors.Is(err, service.ErrInvalidRefreshToken):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid refresh token"})
	case errors.Is(err, service.ErrEmailInvalid), errors.Is(err, service.ErrPasswordTooShort):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		log.Printf("auth: internal error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func requestMetadata(c *gin.Context) sessionservice.Metadata {
	return sessionservice.Metadata{
		UserAgent: c.GetHeader("User-Agent"),
		IP:        c.ClientIP(),
	}
}
