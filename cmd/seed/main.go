// seed inserts development sample data for local testing. Run via ./scripts/seed.sh.
// Idempotent: skips inserts if the dev user (dev@example.com) already exists.
package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"resumeforge/backend/internal/config"
	"resumeforge/backend/internal/db"
	"resumeforge/backend/internal/security"
	templatedomain "resumeforge/backend/internal/template/domain"
	templaterepo "resumeforge/backend/internal/template/repository"
	userdomain "resumeforge/backend/internal/user/domain"
	userrepo "resumeforge/backend/internal/user/repository"
)

const (
	devUserEmail = "dev@example.com"
	devPassword  = "password123"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set; create a .env from .env.example or set DATABASE_URL")
	}

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	users := userrepo.NewPostgresRepository(conn)
	existing, err := users.GetByEmail(ctx, devUserEmail)
	if err != nil {
		log.Fatalf("seed: query dev user: %v", err)
	}
	if existing != nil {
		fmt.Println("seed: dev user already exists, nothing to do")
		return
	}

	hasher := security.NewHasher(cfg.BcryptCost)
	hash, err := hasher.Hash([]byte(devPassword))
	if err != nil {
		log.Fatalf("seed: hash password: %v", err)
	}

	now := time.Now().UTC()
	user := &userdomain.User{
		Email:        devUserEmail,
		PasswordHash: hash,
		CreatedAt:    now,
	}
	if err := users.Create(ctx, user); err != nil {
		log.Fatalf("seed: create dev user: %v", err)
	}

	templates := templaterepo.NewPostgresRepository(conn)
	tpl := &templatedomain.Template{
		UserID:  user.ID,
		Name:    "Sample Resume",
		Company: "Acme Corp",
		Content: []byte(`{"sections":[{"title":"Experience","items":[]},{"title":"Education","items":[]}]}`),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := templates.Create(ctx, tpl); err != nil {
		log.Fatalf("seed: create sample template: %v", err)
	}

	fmt.Printf("seed: created %s (password %s) with template %q\n", devUserEmail, devPassword, tpl.Name)
}
