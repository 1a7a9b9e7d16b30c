package http

import (
	"context"
	"net/http"

	"github.com/email-access-policy/internal/application/auth"
	"github.com/email-access-policy/internal/application/registration"
	"github.com/email-access-policy/internal/config"
	"github.com/email-access-policy/internal/domain"
	"github.com/email-access-policy/internal/metrics"
	"github.com/email-access-policy/internal/transport/http/handler"
	appmiddleware "github.com/email-access-policy/internal/transport/http/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"
)

// Deps holds all infrastructure dependencies for the router.
// Notifier, Metrics and Gatherer are optional. Admin routes are closed when
// TokenVerifier is nil, and /metrics is only mounted when Gatherer is set.
type Deps struct {
	Policy         PolicyStore
	AllowedDomains []string
	UserRepo       UserRepository
	SessionRepo    SessionRepository
	Notifier       AppealNotifier
	TokenVerifier  appmiddleware.TokenVerifier
	Metrics        *metrics.Metrics
	Gatherer       prometheus.Gatherer
}

// NewRouter builds and returns the application router. ctx bounds background
// work owned by the router, such as rate-limiter cleanup.
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
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	adminMw := appmiddleware.DenyAll
	if deps.TokenVerifier != nil {
		adminMw = appmiddleware.Auth(deps.TokenVerifier)
	}

	decisionRL := appmiddleware.NewRateLimiter(ctx, rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)

	regSvc := registration.NewService(registration.ServiceDeps{
		Policy:   deps.Policy,
		Users:    deps.UserRepo,
		Notifier: deps.Notifier,
		Metrics:  deps.Metrics,
	})
	authSvc := auth.NewService(auth.ServiceDeps{
		AllowedDomains: deps.AllowedDomains,
		Sessions:       deps.SessionRepo,
		Metrics:        deps.Metrics,
		DashboardURL:   cfg.DashboardURL,
		SupportContact: cfg.SupportContact,
	})

	healthH := handler.NewHealthHandler()
	regH := handler.NewRegistrationHandler(regSvc, cfg.SupportURL)
	sessionH := handler.NewSessionHandler(authSvc)

	if deps.Gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/v1", func(r chi.Router) {
		// ── Public routes ────────────────────────────────────────────────────
		r.Get("/health-check/{action}", healthH.Ping)
		r.Get("/policy/check", regH.Check)
		r.With(decisionRL.Limit).Post("/registrations", regH.Register)
		r.With(decisionRL.Limit).Post("/sessions/authenticate", sessionH.Authenticate)
		r.With(decisionRL.Limit).Post("/appeals", regH.SubmitAppeal)

		// ── Admin routes ─────────────────────────────────────────────────────
		r.Route("/admin", func(r chi.Router) {
			r.Use(adminMw)

			// Reviewers may read
			r.Group(func(r chi.Router) {
				r.Use(appmiddleware.RequireRole(domain.RoleAdmin, domain.RoleReviewer))
				r.Get("/appeals", regH.ListAppeals)
				r.Get("/appeals/{id}", regH.GetAppeal)
				r.Get("/sessions", sessionH.List)
				r.Get("/sessions/{id}", sessionH.Get)
			})

			// Admin-only routes
			r.Group(func(r chi.Router) {
				r.Use(appmiddleware.RequireRole(domain.RoleAdmin))
				r.Post("/whitelist", regH.Whitelist)
			})
		})
	})

	return r
}
