// Package audit records auth lifecycle events to the audit_logs table.
package audit

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"resumeforge/backend/internal/audit/domain"
	auditrepo "resumeforge/backend/internal/audit/repository"
)

// Actions recorded by the auth code paths.
const (
	ActionSignup        = "signup"
	ActionLogin         = "login"
	ActionLoginFailure  = "login_failure"
	ActionRefresh       = "refresh"
	ActionRefreshReject = "refresh_reject"
	ActionLogout        = "logout"
	ActionLogoutAll     = "logout_all"
)

// Event describes one auth event to record. UserID and SessionID may be zero
// when the subject is unknown (e.g. a failed login).
type Event struct {
	UserID    int64
	SessionID int64
	Action    string
	IP        string
	Metadata  string
}

// AuditLogger writes a single audit event. Used by the auth and session code paths.
// LogEvent is best-effort: failures are logged and do not affect the caller.
type AuditLogger interface {
	LogEvent(ctx context.Context, e Event)
}

// Logger implements AuditLogger using the audit repository.
type Logger struct {
	repo auditrepo.Repository
}

// NewLogger returns an AuditLogger that persists to repo.
func NewLogger(repo auditrepo.Repository) *Logger {
	return &Logger{repo: repo}
}

// LogEvent writes one audit log entry. Best-effort: errors are logged and not returned.
func (l *Logger) LogEvent(ctx context.Context, e Event) {
	if l == nil || l.repo == nil {
		return
	}
	ip := e.IP
	if ip == "" {
		ip = "unknown"
	}
	entry := &domain.AuditLog{
		ID:        uuid.New().String(),
		UserID:    e.UserID,
		SessionID: e.SessionID,
		Action:    e.Action,
		IP:        ip,
		Metadata:  e.Metadata,
		CreatedAt: time.Now().UTC(),
	}
	if err := l.repo.Create(ctx, entry); err != nil {
		log.Printf("audit: failed to log event %s: %v", e.Action, err)
	}
}
