package repository

import (
	"context"
	"database/sql"

	"resumeforge/backend/internal/audit/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns an audit log repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// Create persists the audit log. The log must have ID set; it is not assigned by this method.
func (r *PostgresRepository) Create(ctx context.Context, a *domain.AuditLog) error {
	const q = `
INSERT INTO audit_logs (id, user_id, session_id, action, ip_address, metadata, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`
	uid := sql.NullInt64{Int64: a.UserID, Valid: a.UserID != 0}
	sid := sql.NullInt64{Int64: a.SessionID, Valid: a.SessionID != 0}
	_, err := r.db.ExecContext(ctx, q, a.ID, uid, sid, a.Action, a.IP, a.Metadata, a.CreatedAt)
	return err
}

// ListByUser returns audit logs for the given user, newest first, paginated by limit and offset.
func (r *PostgresRepository) ListByUser(ctx context.Context, userID int64, limit, offset int32) ([]*domain.AuditLog, error) {
	const q = `
SELECT id, user_id, session_id, action, ip_address, metadata, created_at
FROM audit_logs
WHERE user_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, q, userID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.AuditLog
	for rows.Next() {
		var (
			a   domain.AuditLog
			uid sql.NullInt64
			sid sql.NullInt64
		)
		if err := rows.Scan(&a.ID, &uid, &sid, &a.Action, &a.IP, &a.Metadata, &a.CreatedAt); err != nil {
			return nil, err
		}
		a.UserID = uid.Int64
		a.SessionID = sid.Int64
		out = append(out, &a)
	}
	return out, rows.Err()
}
