package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/quimal/dteledger/internal/adapter/http/handler"
	"github.com/quimal/dteledger/internal/adapter/http/middleware"
	"github.com/quimal/dteledger/internal/infrastructure/auth"
	"github.com/quimal/dteledger/internal/infrastructure/metrics"
	"github.com/quimal/dteledger/internal/tenant"
	"github.com/quimal/dteledger/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	InvoiceHandler *handler.InvoiceHandler
	EntryHandler   *handler.EntryHandler
	PeriodHandler  *handler.PeriodHandler
	ReportHandler  *handler.ReportHandler
	CAFHandler     *handler.CAFHandler
	StampHandler   *handler.StampHandler
	RuleHandler    *handler.RuleHandler
	SIIHandler     *handler.SIIHandler
	AuthHandler    *handler.AuthHandler
	HealthHandler  *handler.HealthHandler

	IdempotencyStore usecase.IdempotencyStore
	JWTManager       *auth.JWTManager
	Metrics          *metrics.Metrics
	Logger           zerolog.Logger
	RateLimit        float64
	RateBurst        int
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	if cfg.Metrics != nil {
		r.Use(middleware.NewMetricsMiddleware(cfg.Metrics).Wrap)
	}
	r.Use(middleware.Recovery)
	if cfg.RateLimit > 0 {
		r.Use(middleware.NewRateLimiter(cfg.RateLimit, cfg.RateBurst).Limit)
	}

	// Health and operational endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	if cfg.AuthHandler != nil {
		r.Post("/auth/token", cfg.AuthHandler.Token)
	}

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Company scoping: bearer tokens when auth is enabled, a plain
		// header for single-tenant deployments.
		if cfg.JWTManager != nil {
			r.Use(middleware.NewAuthMiddleware(cfg.JWTManager).Wrap)
		} else {
			r.Use(companyHeader)
		}

		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			r.Use(middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore).Wrap)
		}

		// Invoices and the ledger they post into
		r.Post("/invoices", cfg.InvoiceHandler.Post)
		r.Route("/entries", func(r chi.Router) {
			r.Get("/", cfg.EntryHandler.List)
			r.Get("/{id}", cfg.EntryHandler.Get)
		})

		// Period closing and reporting
		r.Route("/periods", func(r chi.Router) {
			r.Get("/{period}", cfg.PeriodHandler.Status)
			r.Post("/{period}/close", cfg.PeriodHandler.Close)
		})
		r.Get("/reports/f29/{period}", cfg.ReportHandler.F29)

		// Folio authorizations and stamps
		r.Post("/caf", cfg.CAFHandler.Upload)
		r.Route("/stamps", func(r chi.Router) {
			r.Post("/", cfg.StampHandler.Issue)
			r.Post("/barcode", cfg.StampHandler.Barcode)
		})

		// Classification rules
		r.Route("/rules", func(r chi.Router) {
			r.Post("/", cfg.RuleHandler.Record)
			r.Get("/", cfg.RuleHandler.List)
		})

		// Document signing
		if cfg.SIIHandler != nil {
			r.Route("/sii", func(r chi.Router) {
				r.Post("/sign-seed", cfg.SIIHandler.SignSeed)
				r.Post("/sign-envelope", cfg.SIIHandler.SignEnvelope)
			})
		}
	})

	return r
}

// companyHeader scopes requests by the X-Company-RUT header when token
// authentication is disabled.
func companyHeader(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rut := r.Header.Get("X-Company-RUT"); rut != "" {
			r = r.WithContext(tenant.WithCompany(r.Context(), rut))
		}

		next.ServeHTTP(w, r)
	})
}
