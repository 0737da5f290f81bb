package repository

import (
	"context"

	"resumeforge/backend/internal/template/domain"
)

// Repository defines persistence for resume templates. Deletes are soft:
// rows keep their data and get deleted_at set, and every read filters them out.
type Repository interface {
	// GetByID returns the template for id if it belongs to userID and is not
	// deleted, or nil otherwise.
	GetByID(ctx context.Context, id, userID int64) (*domain.Template, error)
	// ListByUser returns the user's live templates, most recently updated first.
	ListByUser(ctx context.Context, userID int64) ([]*domain.Template, error)
	// Create inserts the template and assigns its ID.
	Create(ctx context.Context, t *domain.Template) error
	// Update rewrites name, company, and content and bumps updated_at.
	// Returns false when no live row matched id+userID.
	Update(ctx context.Context, t *domain.Template) (bool, error)
	// SoftDelete marks the template deleted. Returns false when no live row
	// matched id+userID; deleting twice is not an error.
	SoftDelete(ctx context.Context, id, userID int64) (bool, error)
}
