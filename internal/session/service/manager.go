// Package service implements the session lifecycle: create, rotate, revoke.
//
// A session holds the bcrypt hash of its current refresh secret. The client
// holds the raw secret inside an opaque token ("<id>:<secret>"). Rotation
// exchanges the current secret for a fresh one and slides the expiry forward;
// presenting a secret that no longer matches the stored hash is treated as
// evidence of theft or replay and permanently revokes the session, including
// its legitimate current secret. Containment is chosen over availability.
package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"resumeforge/backend/internal/security"
	"resumeforge/backend/internal/session/domain"
	"resumeforge/backend/internal/session/repository"
)

// Sentinel errors; callers must not expose which one occurred to end users.
var (
	// ErrSessionNotFound is returned when no session row exists for the id.
	ErrSessionNotFound = errors.New("session not found")
	// ErrSessionInvalid is returned for revoked, expired, and secret-mismatched
	// sessions alike. The caller treats all three as "must re-authenticate".
	ErrSessionInvalid = errors.New("session invalid")
)

// Metadata is optional provenance recorded on the session row. Informational only.
type Metadata struct {
	UserAgent string
	IP        string
}

// Manager orchestrates the session lifecycle against the session store.
// Only the Manager mutates session rows, always through a single-row
// read-modify-write.
type Manager struct {
	sessions   repository.Repository
	hasher     *security.Hasher
	refreshTTL time.Duration
	now        func() time.Time
}

// NewManager returns a Manager persisting to sessions and hashing refresh
// secrets with hasher. refreshTTL is the sliding lifetime of each secret.
func NewManager(sessions repository.Repository, hasher *security.Hasher, refreshTTL time.Duration) *Manager {
	if refreshTTL <= 0 {
		refreshTTL = 720 * time.Hour
	}
	return &Manager{
		sessions:   sessions,
		hasher:     hasher,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}
}

// RefreshTTL returns the sliding refresh secret lifetime.
func (m *Manager) RefreshTTL() time.Duration {
	return m.refreshTTL
}

// Create generates a fresh refresh secret, stores its hash in a new session row,
// and returns the row plus the opaque token for the client. The raw secret
// exists only inside the returned token.
func (m *Manager) Create(ctx context.Context, userID int64, meta Metadata) (*domain.Session, string, error) {
	raw, err := security.NewRefreshSecret()
	if err != nil {
		return nil, "", err
	}
	hash, err := m.hasher.Hash([]byte(raw))
	if err != nil {
		return nil, "", err
	}
	now := m.now().UTC()
	sess := &domain.Session{
		UserID:     userID,
		SecretHash: hash,
		ExpiresAt:  now.Add(m.refreshTTL),
		UserAgent:  meta.UserAgent,
		IPAddress:  meta.IP,
		CreatedAt:  now,
	}
	if err := m.sessions.Create(ctx, sess); err != nil {
		return nil, "", fmt.Errorf("create session: %w", err)
	}
	return sess, FormatOpaqueToken(sess.ID, raw), nil
}

// Rotate exchanges the presented secret for a fresh one. On success the row
// keeps its id, gets a new secret hash, and its expiry slides forward by the
// refresh TTL. A mismatched secret revokes the session immediately: either a
// rotated-away secret is being replayed or someone is guessing, and in both
// cases the whole session is burned. A client retry that lost a rotation race
// pays the same price; clients should keep a single in-flight refresh.
func (m *Manager) Rotate(ctx context.Context, sessionID int64, rawSecret string) (*domain.Session, string, error) {
	sess, err := m.sessions.GetByID(ctx, sessionID)
	if err != nil {
		return nil, "", fmt.Errorf("get session: %w", err)
	}
	if sess == nil {
		return nil, "", ErrSessionNotFound
	}
	now := m.now().UTC()
	if !sess.Active(now) {
		// Expired sessions never rotate; the client must log in again.
		return nil, "", ErrSessionInvalid
	}

	if err := m.hasher.Compare(sess.SecretHash, []byte(rawSecret)); err != nil {
		if revokeErr := m.sessions.Revoke(ctx, sessionID); revokeErr != nil {
			return nil, "", fmt.Errorf("revoke on mismatch: %w", revokeErr)
		}
		return nil, "", ErrSessionInvalid
	}

	newRaw, err := security.NewRefreshSecret()
	if err != nil {
		return nil, "", err
	}
	newHash, err := m.hasher.Hash([]byte(newRaw))
	if err != nil {
		return nil, "", err
	}
	newExpiry := now.Add(m.refreshTTL)

	swapped, err := m.sessions.RotateSecret(ctx, sessionID, sess.SecretHash, newHash, newExpiry)
	if err != nil {
		return nil, "", fmt.Errorf("rotate session: %w", err)
	}
	if !swapped {
		// A concurrent rotation or revocation committed between our read and
		// this write. The secret we verified is no longer current, which is
		// indistinguishable from replay; apply the same fail-safe.
		if revokeErr := m.sessions.Revoke(ctx, sessionID); revokeErr != nil {
			return nil, "", fmt.Errorf("revoke on lost rotation: %w", revokeErr)
		}
		return nil, "", ErrSessionInvalid
	}

	updated := *sess
	updated.SecretHash = newHash
	updated.ExpiresAt = newExpiry
	return &updated, FormatOpaqueToken(sessionID, newRaw), nil
}

// Revoke marks the session revoked. Idempotent; double-revoke is not an error
// since logout races are harmless.
func (m *Manager) Revoke(ctx context.Context, sessionID int64) error {
	return m.sessions.Revoke(ctx, sessionID)
}

// RevokeAll revokes every session belonging to the user ("log out everywhere").
func (m *Manager) RevokeAll(ctx context.Context, userID int64) error {
	return m.sessions.RevokeAllByUser(ctx, userID)
}

// ListActive returns the user's active sessions for display. Secret hashes are
// cleared; they never leave this package.
func (m *Manager) ListActive(ctx context.Context, userID int64) ([]*domain.Session, error) {
	list, err := m.sessions.ListActiveByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	for _, s := range list {
		s.SecretHash = ""
	}
	return list, nil
}

// FormatOpaqueToken encodes the session id and raw secret as the cookie value.
func FormatOpaqueToken(sessionID int64, rawSecret string) string {
	return strconv.FormatInt(sessionID, 10) + ":" + rawSecret
}

// ParseOpaqueToken splits a cookie value into session id and raw secret.
// Pure parsing, no store access. Anything that is not two colon-delimited
// non-empty parts with a decimal id is "no token": ok is false and no error
// is reported.
func ParseOpaqueToken(value string) (sessionID int64, rawSecret string, ok bool) {
	id, secret, found := strings.Cut(value, ":")
	if !found || id == "" || secret == "" {
		return 0, "", false
	}
	sessionID, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return 0, "", false
	}
	return sessionID, secret, true
}
