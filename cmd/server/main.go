package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"resumeforge/backend/internal/audit"
	auditrepo "resumeforge/backend/internal/audit/repository"
	"resumeforge/backend/internal/config"
	"resumeforge/backend/internal/db"
	identityservice "resumeforge/backend/internal/identity/service"
	"resumeforge/backend/internal/rate"
	"resumeforge/backend/internal/security"
	"resumeforge/backend/internal/server"
	sessionrepo "resumeforge/backend/internal/session/repository"
	sessionservice "resumeforge/backend/internal/session/service"
	"resumeforge/backend/internal/telemetry"
	telemetryotel "resumeforge/backend/internal/telemetry/otel"
	templaterepo "resumeforge/backend/internal/template/repository"
	userrepo "resumeforge/backend/internal/user/repository"
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

	ctx := context.Background()
	providers, err := telemetryotel.NewProviders(ctx, cfg.OTLPEndpoint, "resumeforge-server", cfg.OTLPInsecure)
	if err != nil {
		log.Fatalf("telemetry: %v", err)
	}
	providers.SetGlobal()
	emitter := telemetryotel.NewEventEmitter(providers.LoggerProvider)

	var limiter *rate.Limiter
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer redisClient.Close()
		limiter = rate.New(redisClient, rate.Config{
			MaxLoginAttempts:        cfg.MaxLoginAttempts,
			LoginCooldownDuration:   cfg.LoginCooldownDuration(),
			MaxRefreshAttempts:      cfg.MaxRefreshAttempts,
			RefreshCooldownDuration: cfg.RefreshCooldownDuration(),
		})
	}

	hasher := security.NewHasher(cfg.BcryptCost)
	tokens := security.NewTokenProvider(cfg.AuthSecret, cfg.AccessTTL())

	sessions := sessionservice.NewManager(sessionrepo.NewPostgresRepository(conn), hasher, cfg.RefreshTTL())
	auditor := audit.NewLogger(auditrepo.NewPostgresRepository(conn))
	users := userrepo.NewPostgresRepository(conn)
	auth := identityservice.NewAuthService(users, sessions, hasher, tokens, limiter, auditor)

	router := server.NewRouter(server.Deps{
		Auth:         auth,
		Sessions:     sessions,
		Tokens:       tokens,
		Templates:    templaterepo.NewPostgresRepository(conn),
		HealthPinger: conn,
		Emitter:      emitter,
		AccessTTL:    cfg.AccessTTL(),
		RefreshTTL:   cfg.RefreshTTL(),
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("HTTP server listening on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("serve: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("shutting down HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}

	// Give in-flight async telemetry emits time to land before the providers go away.
	time.Sleep(telemetry.ShutdownDrainDuration)
	if err := providers.Shutdown(shutdownCtx); err != nil {
		log.Printf("telemetry shutdown: %v", err)
	}
	log.Println("HTTP server stopped")
}
