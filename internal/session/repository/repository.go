package repository

import (
	"context"
	"time"

	"resumeforge/backend/internal/session/domain"
)

// Repository defines persistence for sessions. The session row is the single
// shared mutable resource of the auth subsystem; every mutation goes through
// one of the operations below, each a single-row read-modify-write.
type Repository interface {
	// GetByID returns the session for id, or nil if not found.
	GetByID(ctx context.Context, id int64) (*domain.Session, error)
	// Create inserts the session and assigns its ID.
	Create(ctx context.Context, s *domain.Session) error
	// RotateSecret atomically replaces the secret hash and slides the expiry
	// forward, guarded by the hash read earlier: the update applies only while
	// secret_hash still equals currentHash and the session is not revoked.
	// Returns false when zero rows changed (a concurrent rotation or revocation
	// committed first).
	RotateSecret(ctx context.Context, id int64, currentHash, newHash string, newExpiry time.Time) (bool, error)
	// Revoke marks the session revoked. Idempotent: revoking an already-revoked
	// session is a no-op, not an error.
	Revoke(ctx context.Context, id int64) error
	// RevokeAllByUser revokes every non-revoked session belonging to the user.
	RevokeAllByUser(ctx context.Context, userID int64) error
	// ListActiveByUser returns the user's non-revoked, unexpired sessions, newest first.
	ListActiveByUser(ctx context.Context, userID int64) ([]*domain.Session, error)
	// DeleteExpired removes rows whose expiry or revocation predates before.
	// Intended for an externally scheduled retention sweep.
	DeleteExpired(ctx context.Context, before time.Time) (int64, error)
}
