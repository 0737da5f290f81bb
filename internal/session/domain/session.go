package domain

import "time"

// Session is one device/browser login. The row is mutated in place on every
// rotation: same id, new secret hash, expiry pushed forward. At most one raw
// secret is valid for a session at any instant.
type Session struct {
	ID         int64
	UserID     int64
	SecretHash string // bcrypt hash of the current raw refresh secret; the raw value is never stored
	ExpiresAt  time.Time
	RevokedAt  *time.Time // nil when not revoked; non-nil is terminal
	UserAgent  string
	IPAddress  string
	CreatedAt  time.Time
}

// Active reports whether the session can still rotate at the given instant:
// not revoked and not past expiry.
func (s *Session) Active(now time.Time) bool {
	return s.RevokedAt == nil && now.Before(s.ExpiresAt)
}
