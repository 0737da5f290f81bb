// Package handler exposes resume template CRUD over HTTP. All endpoints
// require authentication and operate only on the calling user's templates.
package handler

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"resumeforge/backend/internal/server/middleware"
	"resumeforge/backend/internal/template/domain"
	"resumeforge/backend/internal/template/repository"
)

// TemplateHandler handles the /api/templates endpoints.
type TemplateHandler struct {
	templates repository.Repository
}

// NewTemplateHandler returns a TemplateHandler backed by the given repository.
func NewTemplateHandler(templates repository.Repository) *TemplateHandler {
	return &TemplateHandler{templates: templates}
}

type templateRequest struct {
	Name    string          `json:"name" binding:"required"`
	Company string          `json:"company"`
	Content json.RawMessage `json:"content"`
}

type templateResponse struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Company   string          `json:"company,omitempty"`
	Content   json.RawMessage `json:"content"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// List handles GET /api/templates: the user's templates, most recently updated first.
func (h *TemplateHandler) List(c *gin.Context) {
	userID, ok := middleware.GetUserID(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	list, err := h.templates.ListByUser(c.Request.Context(), userID)
	if err != nil {
		h.internal(c, err)
		return
	}
	out := make([]templateResponse, 0, len(list))
	for _, t := range list {
		out = append(out, toResponse(t))
	}
	c.JSON(http.StatusOK, gin.H{"templates": out})
}

// Get handles GET /api/templates/:id.
func (h *TemplateHandler) Get(c *gin.Context) {
	userID, ok := middleware.GetUserID(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	tpl, err := h.templates.GetByID(c.Request.Context(), id, userID)
	if err != nil {
		h.internal(c, err)
		return
	}
	if tpl == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "template not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"template": toResponse(tpl)})
}

// Create handles POST /api/templates.
func (h *TemplateHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetUserID(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	var body templateRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	now := time.Now().UTC()
	tpl := &domain.Template{
		UserID:    userID,
		Name:      body.Name,
		Company:   body.Company,
		Content:   body.Content,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := tpl.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := h.templates.Create(c.Request.Context(), tpl); err != nil {
		h.internal(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"template": toResponse(tpl)})
}

// Update handles PUT /api/templates/:id.
func (h *TemplateHandler) Update(c *gin.Context) {
	userID, ok := middleware.GetUserID(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var body templateRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	tpl := &domain.Template{
		ID:        id,
		UserID:    userID,
		Name:      body.Name,
		Company:   body.Company,
		Content:   body.Content,
		UpdatedAt: time.Now().UTC(),
	}
	if err := tpl.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ok, err = h.templates.Update(c.Request.Context(), tpl)
	if err != nil {
		h.internal(c, err)
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "template not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

// Delete handles DELETE /api/templates/:id. Soft delete: the row survives with
// deleted_at set and disappears from every listing.
func (h *TemplateHandler) Delete(c *gin.Context) {
	userID, ok := middleware.GetUserID(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	id, err := parseID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	if _, err := h.templates.SoftDelete(c.Request.Context(), id, userID); err != nil {
		h.internal(c, err)
		return
	}
	// Deleting a missing or already-deleted template reports success, same
	// as deleting a live one. Idempotent from the client's point of view.
	c.JSON(http.StatusOK, gin.H{"ok": true})
}

func (h *TemplateHandler) internal(c *gin.Context, err error) {
	log.Printf("templates: %v", err)
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
}

func parseID(c *gin.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}

func toResponse(t *domain.Template) templateResponse {
	content := t.Content
	if len(content) == 0 {
		content = json.RawMessage(`{}`)
	}
	return templateResponse{
		ID:        t.ID,
		Name:      t.Name,
		Company:   t.Company,
		Content:   content,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}
