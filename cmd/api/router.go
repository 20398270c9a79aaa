package main

import (
	"github.com/crucial707/blog-api/internal/auth"
	"github.com/crucial707/blog-api/internal/config"
	"github.com/crucial707/blog-api/internal/csrf"
	"github.com/crucial707/blog-api/internal/handlers"
	"github.com/crucial707/blog-api/internal/middleware"
	"github.com/crucial707/blog-api/internal/repo"
	"github.com/crucial707/blog-api/internal/session"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// stores is the storage the router serves from.
type stores struct {
	Users    repo.UserStore
	Articles repo.ArticleStore
	Comments repo.CommentStore
	Sessions repo.SessionStore

	// Backends are pinged by /ready.
	Backends []repo.Pinger
}

// newRouter builds the full HTTP handler. It fails only on an unusable CSRF secret.
func newRouter(cfg config.Config, st stores) (chi.Router, error) {
	issuer, err := csrf.NewIssuer([]byte(cfg.CSRFSecret))
	if err != nil {
		return nil, err
	}
	if cfg.CSRFTTL > 0 {
		issuer.TTL = cfg.CSRFTTL
	}
	issuer.Secure = cfg.CookieSecure

	sessions := session.NewManager(st.Sessions)
	if cfg.SessionTTL > 0 {
		sessions.TTL = cfg.SessionTTL
	}
	sessions.Secure = cfg.CookieSecure

	guard := &handlers.Guard{CSRF: issuer, Sessions: sessions}
	authHandler := &handlers.AuthHandler{
		Directory: auth.NewDirectory(st.Users, cfg.BcryptCost),
		Sessions:  sessions,
		CSRF:      issuer,
	}
	health := &handlers.HealthHandler{Backends: st.Backends}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestLog)
	r.Use(middleware.Prometheus)
	r.Use(middleware.SecurityHeaders(cfg.TLSCertFile != "" && cfg.TLSKeyFile != ""))
	r.Use(middleware.CORS(cfg.CORSAllowedOrigins))
	r.Use(middleware.BodyLimit(cfg.MaxBodyBytes))
	r.Use(chimw.StripSlashes)

	r.Get("/health", health.Health)
	r.Get("/ready", health.Ready)
	r.Handle("/metrics", promhttp.Handler())

	handlers.RegisterRoutes(r, guard, authHandler,
		&handlers.ArticleHandler{Articles: st.Articles, Comments: st.Comments},
		&handlers.CommentHandler{Comments: st.Comments},
	)
	return r, nil
}
