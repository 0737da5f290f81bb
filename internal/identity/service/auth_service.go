package service

import (
	"context"
	"errors"
	"log"
	"regexp"
	"strings"
	"time"

	"resumeforge/backend/internal/audit"
	"resumeforge/backend/internal/rate"
	"resumeforge/backend/internal/security"
	sessiondomain "resumeforge/backend/internal/session/domain"
	sessionservice "resumeforge/backend/internal/session/service"
	userdomain "resumeforge/backend/internal/user/domain"
)

// Sentinel errors for the auth service; the handler maps them to HTTP statuses.
var (
	ErrEmailAlreadyRegistered = errors.New("email already registered")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrInvalidRefreshToken    = errors.New("invalid or expired refresh token")
	ErrEmailInvalid           = errors.New("invalid email format")
	ErrPasswordTooShort       = errors.New("password must be at least 6 characters")
)

// AuthResult holds the outcome of Register, Login, or Refresh: the access
// token for the auth_token cookie and the opaque token for the refresh_token
// cookie.
type AuthResult struct {
	UserID          int64
	Email           string
	SessionID       int64
	AccessToken     string
	AccessExpiresAt time.Time
	RefreshToken    string
}

// UserRepo is the minimal user repository needed by the auth service.
type UserRepo interface {
	GetByID(ctx context.Context, id int64) (*userdomain.User, error)
	GetByEmail(ctx context.Context, email string) (*userdomain.User, error)
	Create(ctx context.Context, u *userdomain.User) error
}

// SessionManager is the slice of the session lifecycle used by the auth service.
type SessionManager interface {
	Create(ctx context.Context, userID int64, meta sessionservice.Metadata) (*sessiondomain.Session, string, error)
	Rotate(ctx context.Context, sessionID int64, rawSecret string) (*sessiondomain.Session, string, error)
	Revoke(ctx context.Context, sessionID int64) error
	RevokeAll(ctx context.Context, userID int64) error
}

// AuthService implements password register, login, refresh, and logout.
type AuthService struct {
	users    UserRepo
	sessions SessionManager
	hasher   *security.Hasher
	tokens   *security.TokenProvider
	limiter  *rate.Limiter
	auditor  audit.AuditLogger
}

// NewAuthService returns an AuthService with the given dependencies.
// limiter and auditor may be nil; then throttling and audit logging are skipped.
func NewAuthService(
	users UserRepo,
	sessions SessionManager,
	hasher *security.Hasher,
	tokens *security.TokenProvider,
	limiter *rate.Limiter,
	auditor audit.AuditLogger,
) *AuthService {
	return &AuthService{
		users:    users,
		sessions: sessions,
		hasher:   hasher,
		tokens:   tokens,
		limiter:  limiter,
		auditor:  auditor,
	}
}

// Register creates a user with the given email and password and logs it in:
// the result carries a fresh session and both tokens.
func (s *AuthService) Register(ctx context.Context, email, password string, meta sessionservice.Metadata) (*AuthResult, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if err := validateEmail(email); err != nil {
		return nil, err
	}
	if err := validatePassword(password); err != nil {
		return nil, err
	}
	existing, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, ErrEmailAlreadyRegistered
	}
	hashed, err := s.hasher.Hash([]byte(password))
	if err != nil {
		return nil, err
	}
	user := &userdomain.User{
		Email:        email,
		PasswordHash: hashed,
		CreatedAt:    time.Now().UTC(),
	}
	if err := user.Validate(); err != nil {
		return nil, err
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	result, err := s.issueTokens(ctx, user, meta)
	if err != nil {
		return nil, err
	}
	s.logEvent(ctx, audit.Event{UserID: user.ID, SessionID: result.SessionID, Action: audit.ActionSignup, IP: meta.IP})
	return result, nil
}

// Login authenticates with email and password, creates a session, and returns
// tokens. Unknown emails and wrong passwords are indistinguishable to the
// caller: both yield ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, email, password string, meta sessionservice.Metadata) (*AuthResult, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" || password == "" {
		return nil, ErrInvalidCredentials
	}
	if err := s.checkLoginBudget(ctx, email, meta.IP); err != nil {
		return nil, err
	}
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, s.failLogin(ctx, email, meta)
	}
	if err := s.hasher.Compare(user.PasswordHash, []byte(password)); err != nil {
		return nil, s.failLogin(ctx, email, meta)
	}
	if err := s.limiter.ResetLogin(ctx, email, meta.IP); err != nil {
		log.Printf("auth: reset login counter for %s: %v", email, err)
	}
	result, err := s.issueTokens(ctx, user, meta)
	if err != nil {
		return nil, err
	}
	s.logEvent(ctx, audit.Event{UserID: user.ID, SessionID: result.SessionID, Action: audit.ActionLogin, IP: meta.IP})
	return result, nil
}

// Refresh rotates the session behind the opaque token and returns a new token
// pair. Every failure mode — malformed token, unknown session, revoked,
// expired, stale secret — collapses to ErrInvalidRefreshToken; the caller
// clears cookies and re-authenticates.
func (s *AuthService) Refresh(ctx context.Context, opaqueToken string, meta sessionservice.Metadata) (*AuthResult, error) {
	sessionID, rawSecret, ok := sessionservice.ParseOpaqueToken(opaqueToken)
	if !ok {
		return nil, ErrInvalidRefreshToken
	}
	if err := s.checkRefreshBudget(ctx, sessionID); err != nil {
		return nil, err
	}
	sess, newToken, err := s.sessions.Rotate(ctx, sessionID, rawSecret)
	if err != nil {
		if errors.Is(err, sessionservice.ErrSessionNotFound) || errors.Is(err, sessionservice.ErrSessionInvalid) {
			s.logEvent(ctx, audit.Event{SessionID: sessionID, Action: audit.ActionRefreshReject, IP: meta.IP})
			return nil, ErrInvalidRefreshToken
		}
		return nil, err
	}
	user, err := s.users.GetByID(ctx, sess.UserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		// The user row is gone but the session survived. Kill it.
		_ = s.sessions.Revoke(ctx, sessionID)
		return nil, ErrInvalidRefreshToken
	}
	accessToken, accessExp, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	s.logEvent(ctx, audit.Event{UserID: user.ID, SessionID: sessionID, Action: audit.ActionRefresh, IP: meta.IP})
	return &AuthResult{
		UserID:          user.ID,
		Email:           user.Email,
		SessionID:       sessionID,
		AccessToken:     accessToken,
		AccessExpiresAt: accessExp,
		RefreshToken:    newToken,
	}, nil
}

// Logout revokes the session behind the opaque token. Forgiving: a missing or
// malformed token is not an error, since the caller clears cookies either way.
func (s *AuthService) Logout(ctx context.Context, opaqueToken string, meta sessionservice.Metadata) error {
	sessionID, _, ok := sessionservice.ParseOpaqueToken(opaqueToken)
	if !ok {
		return nil
	}
	if err := s.sessions.Revoke(ctx, sessionID); err != nil {
		return err
	}
	s.logEvent(ctx, audit.Event{SessionID: sessionID, Action: audit.ActionLogout, IP: meta.IP})
	return nil
}

// LogoutAll revokes every session belonging to the user.
func (s *AuthService) LogoutAll(ctx context.Context, userID int64, meta sessionservice.Metadata) error {
	if err := s.sessions.RevokeAll(ctx, userID); err != nil {
		return err
	}
	s.logEvent(ctx, audit.Event{UserID: userID, Action: audit.ActionLogoutAll, IP: meta.IP})
	return nil
}

func (s *AuthService) issueTokens(ctx context.Context, user *userdomain.User, meta sessionservice.Metadata) (*AuthResult, error) {
	sess, refreshToken, err := s.sessions.Create(ctx, user.ID, meta)
	if err != nil {
		return nil, err
	}
	accessToken, accessExp, err := s.tokens.Issue(user.ID, user.Email)
	if err != nil {
		return nil, err
	}
	return &AuthResult{
		UserID:          user.ID,
		Email:           user.Email,
		SessionID:       sess.ID,
		AccessToken:     accessToken,
		AccessExpiresAt: accessExp,
		RefreshToken:    refreshToken,
	}, nil
}

// failLogin charges one failed attempt and returns the collapsed credential error.
func (s *AuthService) failLogin(ctx context.Context, email string, meta sessionservice.Metadata) error {
	if err := s.limiter.IncrementLogin(ctx, email, meta.IP); err != nil {
		if errors.Is(err, rate.ErrRateLimited) {
			return rate.ErrRateLimited
		}
		log.Printf("auth: record failed login for %s: %v", email, err)
	}
	s.logEvent(ctx, audit.Event{Action: audit.ActionLoginFailure, IP: meta.IP, Metadata: email})
	return ErrInvalidCredentials
}

// checkLoginBudget fails open when Redis is down: losing throttling is better
// than losing logins.
func (s *AuthService) checkLoginBudget(ctx context.Context, email, ip string) error {
	err := s.limiter.CheckLogin(ctx, email, ip)
	if err == nil {
		return nil
	}
	if errors.Is(err, rate.ErrRateLimited) {
		return rate.ErrRateLimited
	}
	log.Printf("auth: login throttle check for %s: %v", email, err)
	return nil
}

func (s *AuthService) checkRefreshBudget(ctx context.Context, sessionID int64) error {
	err := s.limiter.CheckRefresh(ctx, sessionID)
	if err == nil {
		return nil
	}
	if errors.Is(err, rate.ErrRateLimited) {
		return rate.ErrRateLimited
	}
	log.Printf("auth: refresh throttle check for session %d: %v", sessionID, err)
	return nil
}

func (s *AuthService) logEvent(ctx context.Context, e audit.Event) {
	if s.auditor == nil {
		return
	}
	s.auditor.LogEvent(ctx, e)
}

var emailPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

func validateEmail(email string) error {
	if !emailPattern.MatchString(email) {
		return ErrEmailInvalid
	}
	return nil
}

func validatePassword(password string) error {
	if len(password) < 6 {
		return ErrPasswordTooShort
	}
	return nil
}
