package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-otp-auth/internal/application/auth"
	"github.com/go-otp-auth/internal/application/detail"
	"github.com/go-otp-auth/internal/application/session"
	"github.com/go-otp-auth/internal/config"
	"github.com/go-otp-auth/internal/transport/http/handler"
	appmiddleware "github.com/go-otp-auth/internal/transport/http/middleware"
	"golang.org/x/time/rate"
)

// NewRouter builds and returns the application router. ctx bounds background
// work owned by the router, such as rate-limiter cleanup.
func NewRouter(ctx context.Context, cfg *config.Config, deps *Deps) http.Handler {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(appmiddleware.TrustedRealIP(cfg.TrustedProxies))
	r.Use(appmiddleware.RequestLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Applied to public endpoints that send email or check secrets.
	sensitiveRL := appmiddleware.NewRateLimiter(ctx, rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)

	authSvc := auth.NewService(auth.ServiceDeps{
		SignupCodes: deps.SignupCodes,
		ResetCodes:  deps.ResetCodes,
		UserRepo:    deps.UserRepo,
		Notifier:    deps.Notifier,
	})
	detailSvc := detail.NewService(deps.DetailRepo)

	healthH := handler.NewHealthHandler()
	signupH := handler.NewSignupHandler(authSvc)
	pwH := handler.NewPasswordRecoveryHandler(authSvc)
	detailH := handler.NewDetailHandler(detailSvc)

	r.Route("/v1", func(r chi.Router) {
		// ── Public routes (no auth) ──────────────────────────────────────────
		r.Get("/health-check/{action}", healthH.Ping)
		r.With(sensitiveRL.Limit).Post("/signup/{action}", signupH.Action)
		r.With(sensitiveRL.Limit).Post("/password-recovery/{action}", pwH.Action)
		r.Post("/details", detailH.Create)
		r.Get("/details", detailH.List)

		// Sessions need signing keys; without them the routes are not mounted.
		if deps.JWTProvider == nil {
			logger.Warn("JWT provider not configured, session routes disabled")
			return
		}
		sessionH := handler.NewSessionHandler(session.NewService(session.ServiceDeps{
			UserRepo:    deps.UserRepo,
			JWTProvider: deps.JWTProvider,
		}))
		r.With(sensitiveRL.Limit).Post("/sessions/login", sessionH.Login)

		// ── Authenticated routes ─────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(appmiddleware.Auth(deps.JWTProvider))
			r.Get("/sessions", sessionH.GetCurrent)
		})
	})

	return r
}
