package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"resumeforge/backend/internal/session/domain"
)

func TestPostgresRepository_GetByID(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock: %s", err)
	}
	defer db.Close()

	repo := NewPostgresRepository(db)
	now := time.Now()

	rows := sqlmock.NewRows([]string{"id", "user_id", "secret_hash", "expires_at", "revoked_at", "user_agent", "ip_address", "created_at"}).
		AddRow(int64(5), int64(42), "$2a$12$hash", now.Add(time.Hour), nil, "UA", "127.0.0.1", now)

	mock.ExpectQuery("SELECT (.+) FROM sessions").
		WithArgs(int64(5)).
		WillReturnRows(rows)

	s, err := repo.GetByID(context.Background(), 5)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if s == nil {
		t.Fatal("expected a session, got nil")
	}
	if s.ID != 5 || s.UserID != 42 || s.SecretHash != "$2a$12$hash" {
		t.Errorf("unexpected session: %+v", s)
	}
	if s.RevokedAt != nil {
		t.Errorf("revoked_at should be nil, got %v", s.RevokedAt)
	}
}

func TestPostgresRepository_GetByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock: %s", err)
	}
	defer db.Close()

	repo := NewPostgresRepository(db)

	mock.ExpectQuery("SELECT (.+) FROM sessions").
		WithArgs(int64(999)).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "secret_hash", "expires_at", "revoked_at", "user_agent", "ip_address", "created_at"}))

	s, err := repo.GetByID(context.Background(), 999)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if s != nil {
		t.Errorf("expected nil for missing row, got %+v", s)
	}
}

func TestPostgresRepository_Create(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock: %s", err)
	}
	defer db.Close()

	repo := NewPostgresRepository(db)
	now := time.Now()
	s := &domain.Session{
		UserID:     42,
		SecretHash: "$2a$12$hash",
		ExpiresAt:  now.Add(720 * time.Hour),
		UserAgent:  "UA",
		IPAddress:  "127.0.0.1",
		CreatedAt:  now,
	}

	mock.ExpectQuery("INSERT INTO sessions").
		WithArgs(s.UserID, s.SecretHash, s.ExpiresAt, sqlmock.AnyArg(), sqlmock.AnyArg(), s.CreatedAt).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))

	if err := repo.Create(context.Background(), s); err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if s.ID != 7 {
		t.Errorf("ID = %d, want 7", s.ID)
	}
}

func TestPostgresRepository_RotateSecret(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock: %s", err)
	}
	defer db.Close()

	repo := NewPostgresRepository(db)
	newExpiry := time.Now().Add(720 * time.Hour)

	mock.ExpectExec("UPDATE sessions").
		WithArgs(int64(5), "oldhash", "newhash", newExpiry).
		WillReturnResult(sqlmock.NewResult(0, 1))

	swapped, err := repo.RotateSecret(context.Background(), 5, "oldhash", "newhash", newExpiry)
	if err != nil {
		t.Fatalf("RotateSecret failed: %v", err)
	}
	if !swapped {
		t.Error("expected swapped = true when one row was updated")
	}
}

func TestPostgresRepository_RotateSecret_LostRace(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock: %s", err)
	}
	defer db.Close()

	repo := NewPostgresRepository(db)
	newExpiry := time.Now().Add(720 * time.Hour)

	// secret_hash no longer matches: zero rows updated.
	mock.ExpectExec("UPDATE sessions").
		WithArgs(int64(5), "stalehash", "newhash", newExpiry).
		WillReturnResult(sqlmock.NewResult(0, 0))

	swapped, err := repo.RotateSecret(context.Background(), 5, "stalehash", "newhash", newExpiry)
	if err != nil {
		t.Fatalf("RotateSecret failed: %v", err)
	}
	if swapped {
		t.Error("expected swapped = false when the guard matched nothing")
	}
}

func TestPostgresRepository_Revoke(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock: %s", err)
	}
	defer db.Close()

	repo := NewPostgresRepository(db)

	mock.ExpectExec("UPDATE sessions").
		WithArgs(int64(5), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := repo.Revoke(context.Background(), 5); err != nil {
		t.Fatalf("Revoke failed: %v", err)
	}

	// Second revoke matches zero rows and still succeeds.
	mock.ExpectExec("UPDATE sessions").
		WithArgs(int64(5), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Revoke(context.Background(), 5); err != nil {
		t.Fatalf("second Revoke failed: %v", err)
	}
}

func TestPostgresRepository_RevokeAllByUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock: %s", err)
	}
	defer db.Close()

	repo := NewPostgresRepository(db)

	mock.ExpectExec("UPDATE sessions").
		WithArgs(int64(42), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 3))

	if err := repo.RevokeAllByUser(context.Background(), 42); err != nil {
		t.Fatalf("RevokeAllByUser failed: %v", err)
	}
}

func TestPostgresRepository_ListActiveByUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock: %s", err)
	}
	defer db.Close()

	repo := NewPostgresRepository(db)
	now := time.Now()

	rows := sqlmock.NewRows([]string{"id", "user_id", "secret_hash", "expires_at", "revoked_at", "user_agent", "ip_address", "created_at"}).
		AddRow(int64(2), int64(42), "h2", now.Add(time.Hour), nil, "UA2", "10.0.0.2", now).
		AddRow(int64(1), int64(42), "h1", now.Add(time.Hour), nil, nil, nil, now.Add(-time.Minute))

	mock.ExpectQuery("SELECT (.+) FROM sessions").
		WithArgs(int64(42)).
		WillReturnRows(rows)

	list, err := repo.ListActiveByUser(context.Background(), 42)
	if err != nil {
		t.Fatalf("ListActiveByUser failed: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("got %d sessions, want 2", len(list))
	}
	if list[0].ID != 2 || list[1].ID != 1 {
		t.Errorf("unexpected order: %d, %d", list[0].ID, list[1].ID)
	}
	if list[1].UserAgent != "" || list[1].IPAddress != "" {
		t.Errorf("null columns should scan as empty strings: %+v", list[1])
	}
}

func TestPostgresRepository_DeleteExpired(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to open sqlmock: %s", err)
	}
	defer db.Close()

	repo := NewPostgresRepository(db)
	cutoff := time.Now().Add(-90 * 24 * time.Hour)

	mock.ExpectExec("DELETE FROM sessions").
		WithArgs(cutoff).
		WillReturnResult(sqlmock.NewResult(0, 12))

	n, err := repo.DeleteExpired(context.Background(), cutoff)
	if err != nil {
		t.Fatalf("DeleteExpired failed: %v", err)
	}
	if n != 12 {
		t.Errorf("deleted = %d, want 12", n)
	}
}
