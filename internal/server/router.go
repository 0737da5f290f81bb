// Package server wires handlers and middleware into the HTTP router.
package server

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	healthhandler "resumeforge/backend/internal/health/handler"
	identityhandler "resumeforge/backend/internal/identity/handler"
	identityservice "resumeforge/backend/internal/identity/service"
	"resumeforge/backend/internal/security"
	"resumeforge/backend/internal/server/middleware"
	sessionhandler "resumeforge/backend/internal/session/handler"
	sessionservice "resumeforge/backend/internal/session/service"
	"resumeforge/backend/internal/telemetry"
	templatehandler "resumeforge/backend/internal/template/handler"
	templaterepo "resumeforge/backend/internal/template/repository"
)

// Deps holds the dependencies the router wires into handlers.
type Deps struct {
	// Auth is the auth service behind /api/auth. Required.
	Auth *identityservice.AuthService
	// Sessions backs /api/auth/sessions. Required.
	Sessions *sessionservice.Manager
	// Tokens verifies access tokens for protected routes. Required.
	Tokens *security.TokenProvider
	// Templates backs /api/templates. Required.
	Templates templaterepo.Repository
	// HealthPinger is checked by /api/health (e.g. *sql.DB). May be nil.
	HealthPinger healthhandler.Pinger
	// Emitter receives per-request telemetry events. May be nil.
	Emitter telemetry.EventEmitter
	// AccessTTL and RefreshTTL size the auth cookie lifetimes.
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

// NewRouter builds the gin engine with all routes registered.
//
// Route map:
//   - POST /api/auth/{signup,login,refresh,logout}  public
//   - POST /api/auth/logout_all                     authenticated
//   - GET/DELETE /api/auth/sessions[...]            authenticated
//   - /api/templates CRUD                           authenticated
//   - GET /api/health                               public
func NewRouter(deps Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	// Spans and request metrics go through the global providers set at startup.
	r.Use(otelgin.Middleware("resumeforge-server", otelgin.WithGinFilter(func(c *gin.Context) bool {
		return c.FullPath() != "/api/health"
	})))
	r.Use(middleware.Telemetry(deps.Emitter, map[string]bool{"/api/health": true}))

	auth := identityhandler.NewAuthHandler(deps.Auth, deps.AccessTTL, deps.RefreshTTL)
	sessions := sessionhandler.NewSessionHandler(deps.Sessions)
	templates := templatehandler.NewTemplateHandler(deps.Templates)
	health := healthhandler.NewHealthHandler(deps.HealthPinger)

	requireAuth := middleware.RequireAuth(deps.Tokens)

	api := r.Group("/api")
	{
		api.GET("/health", health.Check)

		authGroup := api.Group("/auth")
		{
			authGroup.POST("/signup", auth.Signup)
			authGroup.POST("/login", auth.Login)
			authGroup.POST("/refresh", auth.Refresh)
			authGroup.POST("/logout", auth.Logout)
			authGroup.POST("/logout_all", requireAuth, auth.LogoutAll)

			authGroup.GET("/sessions", requireAuth, sessions.List)
			authGroup.DELETE("/sessions/:id", requireAuth, sessions.Revoke)
		}

		tplGroup := api.Group("/templates", requireAuth)
		{
			tplGroup.GET("", templates.List)
			tplGroup.POST("", templates.Create)
			tplGroup.GET("/:id", templates.Get)
			tplGroup.PUT("/:id", templates.Update)
			tplGroup.DELETE("/:id", templates.Delete)
		}
	}

	return r
}
