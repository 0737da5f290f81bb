package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"resumeforge/backend/internal/template/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a template repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// GetByID returns the template for id if it belongs to userID and is not deleted, or nil otherwise.
func (r *PostgresRepository) GetByID(ctx context.Context, id, userID int64) (*domain.Template, error) {
	const q = `
SELECT id, user_id, name, company, content, created_at, updated_at
FROM templates
WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL`
	t, err := scanTemplate(r.db.QueryRowContext(ctx, q, id, userID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return t, nil
}

// ListByUser returns the user's live templates, most recently updated first.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID int64) ([]*domain.Template, error) {
	const q = `
SELECT id, user_id, name, company, content, created_at, updated_at
FROM templates
WHERE user_id = $1 AND deleted_at IS NULL
ORDER BY updated_at DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Template
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

// Create inserts the template and assigns the generated row id to t.ID.
func (r *PostgresRepository) Create(ctx context.Context, t *domain.Template) error {
	const q = `
INSERT INTO templates (user_id, name, company, content, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id`
	company := sql.NullString{String: t.Company, Valid: t.Company != ""}
	content := t.Content
	if len(content) == 0 {
		content = []byte(`{}`)
	}
	return r.db.QueryRowContext(ctx, q, t.UserID, t.Name, company, []byte(content), t.CreatedAt, t.UpdatedAt).
		Scan(&t.ID)
}

// Update rewrites name, company, and content and bumps updated_at.
// Returns false when no live row matched id+userID.
func (r *PostgresRepository) Update(ctx context.Context, t *domain.Template) (bool, error) {
	const q = `
UPDATE templates
SET name = $3, company = $4, content = $5, updated_at = $6
WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL`
	company := sql.NullString{String: t.Company, Valid: t.Company != ""}
	content := t.Content
	if len(content) == 0 {
		content = []byte(`{}`)
	}
	res, err := r.db.ExecContext(ctx, q, t.ID, t.UserID, t.Name, company, []byte(content), t.UpdatedAt)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// SoftDelete marks the template deleted. Returns false when no live row matched id+userID.
func (r *PostgresRepository) SoftDelete(ctx context.Context, id, userID int64) (bool, error) {
	const q = `
UPDATE templates
SET deleted_at = $3
WHERE id = $1 AND user_id = $2 AND deleted_at IS NULL`
	res, err := r.db.ExecContext(ctx, q, id, userID, time.Now().UTC())
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTemplate(row rowScanner) (*domain.Template, error) {
	var (
		t       domain.Template
		company sql.NullString
		content []byte
	)
	err := row.Scan(&t.ID, &t.UserID, &t.Name, &company, &content, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		return nil, err
	}
	t.Company = company.String
	t.Content = content
	return &t, nil
}
