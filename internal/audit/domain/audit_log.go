package domain

import "time"

// AuditLog represents one auth lifecycle event: a signup, login, refresh,
// logout, or a security-relevant failure such as a refresh token replay.
// UserID and SessionID are zero when the event has no authenticated subject
// (e.g. a failed login for an unknown email).
type AuditLog struct {
	ID        string
	UserID    int64
	SessionID int64
	Action    string
	IP        string
	Metadata  string
	CreatedAt time.Time
}
