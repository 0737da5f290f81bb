package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"resumeforge/backend/internal/identity/service"
	"resumeforge/backend/internal/security"
	sessiondomain "resumeforge/backend/internal/session/domain"
	sessionrepo "resumeforge/backend/internal/session/repository"
	sessionservice "resumeforge/backend/internal/session/service"
	userdomain "resumeforge/backend/internal/user/domain"
)

type memUserRepo struct {
	mu     sync.Mutex
	nextID int64
	m      map[int64]*userdomain.User
}

func (r *memUserRepo) GetByID(ctx context.Context, id int64) (*userdomain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.m[id]; ok {
		u2 := *u
		return &u2, nil
	}
	return nil, nil
}

func (r *memUserRepo) GetByEmail(ctx context.Context, email string) (*userdomain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.m {
		if u.Email == email {
			u2 := *u
			return &u2, nil
		}
	}
	return nil, nil
}

func (r *memUserRepo) Create(ctx context.Context, u *userdomain.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	u.ID = r.nextID
	u2 := *u
	r.m[u.ID] = &u2
	return nil
}

type memSessionRepo struct {
	mu     sync.Mutex
	nextID int64
	m      map[int64]*sessiondomain.Session
}

var _ sessionrepo.Repository = (*memSessionRepo)(nil)

func (r *memSessionRepo) GetByID(ctx context.Context, id int64) (*sessiondomain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.m[id]; ok {
		s2 := *s
		return &s2, nil
	}
	return nil, nil
}

func (r *memSessionRepo) Create(ctx context.Context, s *sessiondomain.Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.nextID++
	s.ID = r.nextID
	s2 := *s
	r.m[s.ID] = &s2
	return nil
}

func (r *memSessionRepo) RotateSecret(ctx context.Context, id int64, currentHash, newHash string, newExpiry time.Time) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.m[id]
	if !ok || s.RevokedAt != nil || s.SecretHash != currentHash {
		return false, nil
	}
	s.SecretHash = newHash
	s.ExpiresAt = newExpiry
	return true, nil
}

func (r *memSessionRepo) Revoke(ctx context.Context, id int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok := r.m[id]; ok && s.RevokedAt == nil {
		t := time.Now()
		s.RevokedAt = &t
	}
	return nil
}

func (r *memSessionRepo) RevokeAllByUser(ctx context.Context, userID int64) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	t := time.Now()
	for _, s := range r.m {
		if s.UserID == userID && s.RevokedAt == nil {
			s.RevokedAt = &t
		}
	}
	return nil
}

func (r *memSessionRepo) ListActiveByUser(ctx context.Context, userID int64) ([]*sessiondomain.Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*sessiondomain.Session
	for _, s := range r.m {
		if s.UserID == userID && s.Active(time.Now()) {
			s2 := *s
			out = append(out, &s2)
		}
	}
	return out, nil
}

func (r *memSessionRepo) DeleteExpired(ctx context.Context, before time.Time) (int64, error) {
	return 0, nil
}

func newAuthRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	hasher := security.NewHasher(4)
	sessions := sessionservice.NewManager(&memSessionRepo{m: map[int64]*sessiondomain.Session{}}, hasher, time.Hour)
	tokens := security.NewTokenProvider("handler-test-secret", 15*time.Minute)
	auth := service.NewAuthService(&memUserRepo{m: map[int64]*userdomain.User{}}, sessions, hasher, tokens, nil, nil)
	h := NewAuthHandler(auth, 15*time.Minute, time.Hour)

	r := gin.New()
	r.POST("/api/auth/signup", h.Signup)
	r.POST("/api/auth/login", h.Login)
	r.POST("/api/auth/refresh", h.Refresh)
	r.POST("/api/auth/logout", h.Logout)
	return r
}

func post(r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest("POST", path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestSignup_ValidationErrors(t *testing.T) {
	r := newAuthRouter(t)

	tests := []struct {
		name    string
		body    string
		wantMsg string
	}{
		{"missing fields", `{}`, "invalid body"},
		{"not json", `email=a@example.com`, "invalid body"},
		{"bad email", `{"email":"not-an-email","password":"secret1"}`, "invalid email format"},
		{"short password", `{"email":"a@example.com","password":"12345"}`, "password must be at least 6 characters"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := post(r, "/api/auth/signup", tc.body)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", w.Code)
			}
			if !strings.Contains(w.Body.String(), tc.wantMsg) {
				t.Errorf("body %q does not contain %q", w.Body.String(), tc.wantMsg)
			}
		})
	}
}

func TestSignup_DuplicateEmail(t *testing.T) {
	r := newAuthRouter(t)

	if w := post(r, "/api/auth/signup", `{"email":"a@example.com","password":"secret1"}`); w.Code != http.StatusOK {
		t.Fatalf("first signup: expected 200, got %d", w.Code)
	}
	w := post(r, "/api/auth/signup", `{"email":"A@Example.com","password":"secret1"}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("duplicate signup: expected 400, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "email already registered") {
		t.Errorf("unexpected body: %s", w.Body.String())
	}
}

func TestLogin_InvalidCredentials(t *testing.T) {
	r := newAuthRouter(t)
	post(r, "/api/auth/signup", `{"email":"a@example.com","password":"secret1"}`)

	// Wrong password and unknown account produce the same response.
	for _, body := range []string{
		`{"email":"a@example.com","password":"wrong-pass"}`,
		`{"email":"nobody@example.com","password":"secret1"}`,
	} {
		w := post(r, "/api/auth/login", body)
		if w.Code != http.StatusUnauthorized {
			t.Errorf("expected 401, got %d for %s", w.Code, body)
		}
		if !strings.Contains(w.Body.String(), "invalid credentials") {
			t.Errorf("unexpected body: %s", w.Body.String())
		}
	}
}

func TestRefresh_MissingCookie(t *testing.T) {
	r := newAuthRouter(t)

	w := post(r, "/api/auth/refresh", "")
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", w.Code)
	}
	// Both cookies must come back expired.
	res := http.Response{Header: w.Header()}
	cleared := map[string]bool{}
	for _, ck := range res.Cookies() {
		if ck.MaxAge < 0 && ck.Value == "" {
			cleared[ck.Name] = true
		}
	}
	if !cleared["auth_token"] || !cleared["refresh_token"] {
		t.Errorf("rejected refresh must clear both cookies, cleared: %v", cleared)
	}
}
