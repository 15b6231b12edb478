// Package server implements the HTTP server and routing logic.
package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/maruel/admindash/internal/server/handlers"
	"github.com/maruel/admindash/internal/server/ratelimit"
	"github.com/maruel/admindash/internal/storage"
	"github.com/maruel/admindash/internal/storage/entity"
	"github.com/rs/cors"
	sloghttp "github.com/samber/slog-http"
)

// Config holds the server configuration.
type Config struct {
	ServerConfig *storage.ServerConfig
	Version      string
	GoVersion    string
	Revision     string
	Dirty        bool
	// Logger is used for the access log. Defaults to slog.Default().
	Logger *slog.Logger
	// Now overrides the clock used for tokens and dashboard trends.
	Now func() time.Time
}

// Router is the HTTP handler of the API. Close it to stop the rate limiter
// background goroutines.
type Router struct {
	handler  http.Handler
	limiters *ratelimit.Config
	metrics  *metrics
}

// NewRouter creates and configures the HTTP router.
func NewRouter(svc *handlers.Services, cfg *Config) (*Router, error) {
	m := newMetrics(svc)
	limiters := ratelimit.NewConfig(cfg.ServerConfig.RateLimits)
	hcfg := &handlers.Config{
		ServerConfig: *cfg.ServerConfig,
		Version:      cfg.Version,
		Now:          cfg.Now,
		OnLogin:      m.loginAttempt,
	}
	sh, err := handlers.NewSchemaHandler()
	if err != nil {
		limiters.Close()
		return nil, fmt.Errorf("failed to build schemas: %w", err)
	}
	hh := handlers.NewHealthHandler(handlers.BuildInfo{
		Version:   cfg.Version,
		GoVersion: cfg.GoVersion,
		Revision:  cfg.Revision,
		Dirty:     cfg.Dirty,
	})
	ah := handlers.NewAuthHandler(svc, hcfg)
	uh := handlers.NewUserHandler(svc, hcfg)
	ph := handlers.NewProductHandler(svc, hcfg)
	dh := handlers.NewDashboardHandler(svc, hcfg)

	mux := http.NewServeMux()

	// Health check
	mux.Handle("GET /api/health", Wrap(hh.Health, svc, hcfg, limiters))

	// Auth endpoints
	mux.Handle("POST /api/auth/login", Wrap(ah.Login, svc, hcfg, limiters))
	mux.Handle("POST /api/auth/logout", WrapAuth(ah.Logout, svc, hcfg, entity.UserRoleViewer, limiters))
	mux.Handle("GET /api/auth/me", WrapAuth(ah.GetMe, svc, hcfg, entity.UserRoleViewer, limiters))

	// User endpoints
	mux.Handle("GET /api/users", WrapAuth(uh.List, svc, hcfg, entity.UserRoleViewer, limiters))
	mux.Handle("GET /api/users/{id}", WrapAuth(uh.Get, svc, hcfg, entity.UserRoleViewer, limiters))
	mux.Handle("POST /api/users", WrapAuth(uh.Create, svc, hcfg, entity.UserRoleAdmin, limiters))
	mux.Handle("PATCH /api/users/{id}", WrapAuth(uh.Update, svc, hcfg, entity.UserRoleAdmin, limiters))
	mux.Handle("DELETE /api/users/{id}", WrapAuth(uh.Delete, svc, hcfg, entity.UserRoleAdmin, limiters))

	// Product endpoints
	mux.Handle("GET /api/products", WrapAuth(ph.List, svc, hcfg, entity.UserRoleViewer, limiters))
	mux.Handle("GET /api/products/{id}", WrapAuth(ph.Get, svc, hcfg, entity.UserRoleViewer, limiters))
	mux.Handle("POST /api/products", WrapAuth(ph.Create, svc, hcfg, entity.UserRoleEditor, limiters))
	mux.Handle("PATCH /api/products/{id}", WrapAuth(ph.Update, svc, hcfg, entity.UserRoleEditor, limiters))
	mux.Handle("DELETE /api/products/{id}", WrapAuth(ph.Delete, svc, hcfg, entity.UserRoleEditor, limiters))

	// Dashboard and schema endpoints
	mux.Handle("GET /api/dashboard", WrapAuth(dh.Get, svc, hcfg, entity.UserRoleViewer, limiters))
	mux.Handle("GET /api/schema/{kind}", WrapAuth(sh.Get, svc, hcfg, entity.UserRoleViewer, limiters))

	mux.Handle("GET /metrics", m.handler())

	var h http.Handler = m.instrument(mux)
	h = requestID(h)
	h = sloghttp.Recovery(h)
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	h = sloghttp.NewWithConfig(logger, sloghttp.Config{
		DefaultLevel:     slog.LevelInfo,
		ClientErrorLevel: slog.LevelWarn,
		ServerErrorLevel: slog.LevelError,
		WithUserAgent:    true,
		Filters:          []sloghttp.Filter{sloghttp.IgnorePath("/metrics")},
	})(h)
	if origins := cfg.ServerConfig.CORS.AllowedOrigins; len(origins) > 0 {
		h = cors.New(cors.Options{
			AllowedOrigins: origins,
			AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete},
			AllowedHeaders: []string{"Authorization", "Content-Type", requestIDHeader},
			ExposedHeaders: []string{requestIDHeader, "X-RateLimit-Limit", "X-RateLimit-Remaining", "X-RateLimit-Reset", "Retry-After"},
			MaxAge:         600,
		}).Handler(h)
	}
	return &Router{handler: h, limiters: limiters, metrics: m}, nil
}

// ServeHTTP implements http.Handler.
func (rt *Router) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	rt.handler.ServeHTTP(w, r)
}

// Close stops the rate limiters.
func (rt *Router) Close() {
	rt.limiters.Close()
}
