package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"resumeforge/backend/internal/session/domain"
)

type PostgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository returns a session repository that uses the given db for persistence.
func NewPostgresRepository(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// GetByID returns the session for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id int64) (*domain.Session, error) {
	const q = `
SELECT id, user_id, secret_hash, expires_at, revoked_at, user_agent, ip_address, created_at
FROM sessions
WHERE id = $1`
	s, err := scanSession(r.db.QueryRowContext(ctx, q, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return s, nil
}

// Create inserts the session and assigns the generated row id to s.ID.
func (r *PostgresRepository) Create(ctx context.Context, s *domain.Session) error {
	const q = `
INSERT INTO sessions (user_id, secret_hash, expires_at, user_agent, ip_address, created_at)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id`
	ua := sql.NullString{String: s.UserAgent, Valid: s.UserAgent != ""}
	ip := sql.NullString{String: s.IPAddress, Valid: s.IPAddress != ""}
	return r.db.QueryRowContext(ctx, q, s.UserID, s.SecretHash, s.ExpiresAt, ua, ip, s.CreatedAt).Scan(&s.ID)
}

// RotateSecret performs the compare-and-swap update for rotation: the new hash
// and expiry are written only if secret_hash still equals currentHash and the
// session is not revoked. A single UPDATE keeps the check and the write in one
// atomic statement, so concurrent rotations cannot produce a lost update.
func (r *PostgresRepository) RotateSecret(ctx context.Context, id int64, currentHash, newHash string, newExpiry time.Time) (bool, error) {
	const q = `
UPDATE sessions
SET secret_hash = $3, expires_at = $4
WHERE id = $1 AND secret_hash = $2 AND revoked_at IS NULL`
	res, err := r.db.ExecContext(ctx, q, id, currentHash, newHash, newExpiry)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

// Revoke marks the session with the given id as revoked. Idempotent: a second
// call matches zero rows and succeeds.
func (r *PostgresRepository) Revoke(ctx context.Context, id int64) error {
	const q = `
UPDATE sessions
SET revoked_at = $2
WHERE id = $1 AND revoked_at IS NULL`
	_, err := r.db.ExecContext(ctx, q, id, time.Now().UTC())
	return err
}

// RevokeAllByUser revokes every non-revoked session for the given user.
func (r *PostgresRepository) RevokeAllByUser(ctx context.Context, userID int64) error {
	const q = `
UPDATE sessions
SET revoked_at = $2
WHERE user_id = $1 AND revoked_at IS NULL`
	_, err := r.db.ExecContext(ctx, q, userID, time.Now().UTC())
	return err
}

// ListActiveByUser returns the user's non-revoked, unexpired sessions, newest first.
func (r *PostgresRepository) ListActiveByUser(ctx context.Context, userID int64) ([]*domain.Session, error) {
	const q = `
SELECT id, user_id, secret_hash, expires_at, revoked_at, user_agent, ip_address, created_at
FROM sessions
WHERE user_id = $1 AND revoked_at IS NULL AND expires_at > now()
ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, q, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Session
	for rows.Next() {
		s, err := scanSession(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// DeleteExpired removes sessions whose expiry or revocation predates before.
// Returns the number of rows deleted.
func (r *PostgresRepository) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	const q = `
DELETE FROM sessions
WHERE expires_at < $1 OR revoked_at < $1`
	res, err := r.db.ExecContext(ctx, q, before)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSession(row rowScanner) (*domain.Session, error) {
	var (
		s         domain.Session
		revokedAt sql.NullTime
		userAgent sql.NullString
		ipAddress sql.NullString
	)
	err := row.Scan(&s.ID, &s.UserID, &s.SecretHash, &s.ExpiresAt, &revokedAt, &userAgent, &ipAddress, &s.CreatedAt)
	if err != nil {
		return nil, err
	}
	if revokedAt.Valid {
		t := revokedAt.Time
		s.RevokedAt = &t
	}
	s.UserAgent = userAgent.String
	s.IPAddress = ipAddress.String
	return &s, nil
}
