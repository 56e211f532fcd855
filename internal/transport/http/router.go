package http

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-rider-auth/internal/application/auth"
	"github.com/go-rider-auth/internal/application/verification"
	"github.com/go-rider-auth/internal/config"
	"github.com/go-rider-auth/internal/domain"
	jwtinfra "github.com/go-rider-auth/internal/infrastructure/jwt"
	"github.com/go-rider-auth/internal/transport/http/handler"
	appmiddleware "github.com/go-rider-auth/internal/transport/http/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

// NewRouter builds and returns the application router. ctx bounds background work
// started by middleware.
func NewRouter(ctx context.Context, cfg *config.Config, deps *Deps) http.Handler {
	r := chi.NewRouter()
	if cfg.TrustProxyHeaders {
		r.Use(chimiddleware.RealIP)
	}
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	authMw := appmiddleware.Auth(deps.JWTProvider)
	// Also admits the verification-only token handed out by a login challenge.
	verifyMw := appmiddleware.Auth(deps.JWTProvider, jwtinfra.ScopeEmailVerification)

	// 5 requests/second, burst of 10, applied to public endpoints that take credentials or mail codes.
	sensitiveRL := appmiddleware.NewRateLimiter(ctx, rate.Limit(5), 10)

	svcDeps := auth.ServiceDeps{
		AccountRepo: deps.AccountRepo,
		CodeRepo:    deps.VerificationRepo,
		CodeIssuer:  verification.NewIssuer(deps.VerificationRepo),
		Hasher:      deps.Hasher,
		TokenSigner: deps.JWTProvider,
		Notifier:    deps.Notifier,
		Publisher:   deps.Publisher,
		CodeTTL:     cfg.CodeTTL,
		MaxAttempts: cfg.CodeMaxAttempts,
	}
	authSvc := auth.NewService(svcDeps)

	healthH := handler.NewHealthHandler()
	accountH := handler.NewAccountHandler(authSvc)
	sessionH := handler.NewSessionHandler(authSvc)
	emailH := handler.NewEmailConfirmHandler(authSvc)
	pwH := handler.NewPasswordRecoveryHandler(authSvc)

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/v1", func(r chi.Router) {
		// ── Public routes (no auth) ──────────────────────────────────────────
		r.Get("/health-check/{action}", healthH.Ping)
		r.With(sensitiveRL.Limit).Post("/accounts", accountH.Register)
		r.With(sensitiveRL.Limit).Post("/sessions/login", sessionH.Login)
		r.With(sensitiveRL.Limit).Post("/password-recovery/{action}", pwH.Action)

		// ── Email confirmation (session or verification token) ──────────────
		r.Group(func(r chi.Router) {
			r.Use(verifyMw)
			r.Use(appmiddleware.RequireRole(domain.RoleRider, domain.RoleDriver))

			r.With(sensitiveRL.Limit).Post("/confirm-email/{action}", emailH.Action)
		})

		// ── Authenticated routes ─────────────────────────────────────────────
		r.Group(func(r chi.Router) {
			r.Use(authMw)
			r.Use(appmiddleware.RequireRole(domain.RoleRider, domain.RoleDriver))

			r.Get("/accounts/me", accountH.Me)
			r.Delete("/accounts/me", accountH.Delete)
		})
	})

	return r
}
