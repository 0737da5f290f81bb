// Package handler exposes session management over HTTP: a user can list
// their active sessions and revoke one remotely.
package handler

import (
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"resumeforge/backend/internal/server/middleware"
	"resumeforge/backend/internal/session/service"
)

// SessionHandler handles the session management endpoints.
type SessionHandler struct {
	sessions *service.Manager
}

// NewSessionHandler returns a SessionHandler backed by the given manager.
func NewSessionHandler(sessions *service.Manager) *SessionHandler {
	return &SessionHandler{sessions: sessions}
}

type sessionResponse struct {
	ID        int64     `json:"id"`
	UserAgent string    `json:"user_agent,omitempty"`
	IPAddress string    `json:"ip_address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// List handles GET /api/auth/sessions: the calling user's active sessions.
func (h *SessionHandler) List(c *gin.Context) {
	userID, ok := middleware.GetUserID(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	list, err := h.sessions.ListActive(c.Request.Context(), userID)
	if err != nil {
		log.Printf("sessions: list for user %d: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	out := make([]sessionResponse, 0, len(list))
	for _, s := range list {
		out = append(out, sessionResponse{
			ID:        s.ID,
			UserAgent: s.UserAgent,
			IPAddress: s.IPAddress,
			CreatedAt: s.CreatedAt,
			ExpiresAt: s.ExpiresAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"sessions": out})
}

// Revoke handles DELETE /api/auth/sessions/:id. Only the owner may revoke a
// session; revoking someone else's (or a nonexistent one) is a 404 either way,
// so session ids cannot be probed.
func (h *SessionHandler) Revoke(c *gin.Context) {
	userID, ok := middleware.GetUserID(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	sessionID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	list, err := h.sessions.ListActive(c.Request.Context(), userID)
	if err != nil {
		log.Printf("sessions: list for user %d: %v", userID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	owned := false
	for _, s := range list {
		if s.ID == sessionID {
			owned = true
			break
		}
	}
	if !owned {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	if err := h.sessions.Revoke(c.Request.Context(), sessionID); err != nil {
		log.Printf("sessions: revoke %d: %v", sessionID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}
