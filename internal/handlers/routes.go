package handlers

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/optima-platform/ledger/internal/api"
	"github.com/optima-platform/ledger/internal/auth"
	"github.com/optima-platform/ledger/internal/config"
	"github.com/optima-platform/ledger/internal/middleware"
)

// RouterDeps holds what NewRouter wires into the HTTP stack
type RouterDeps struct {
	Handler     *Handler
	Verifier    middleware.TokenVerifier
	Idempotency middleware.IdempotencyRepository
	Locker      middleware.IdempotencyLocker // nil when the backend has no lock
	Config      *config.Config
	Logger      *slog.Logger
}

// NewRouter creates and configures the HTTP router with all routes and middleware.
func NewRouter(deps RouterDeps) (http.Handler, error) {
	validate, err := api.RequestValidator(deps.Logger)
	if err != nil {
		return nil, err
	}
	doc, err := api.GetSwagger()
	if err != nil {
		return nil, err
	}

	h := deps.Handler
	authenticate := middleware.Authenticate(deps.Verifier, deps.Logger)
	idempotency := middleware.Idempotency(deps.Idempotency, deps.Locker, deps.Logger)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestLogger(deps.Logger))
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: deps.Config.CORS.AllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type", middleware.IdempotencyKeyHeader},
		ExposedHeaders: []string{"X-Idempotent-Replayed", chimw.RequestIDHeader},
		MaxAge:         300,
	}))
	r.Use(chimw.Timeout(deps.Config.Server.RequestTimeout))
	r.Use(middleware.FailureInjection(&deps.Config.App, deps.Logger))

	if err := api.RegisterDocsRoutes(r, doc); err != nil {
		return nil, err
	}
	r.Get("/health", h.GetHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(validate)
			r.Post("/auth/register", h.Register)
			r.Post("/auth/login", h.Login)
			r.Post("/auth/admin/login", h.AdminLogin)
		})

		r.Group(func(r chi.Router) {
			r.Use(authenticate, middleware.RequireRole(auth.RoleUser), validate, idempotency)

			r.Get("/me", h.GetMe)
			r.Get("/me/balance", h.GetMyBalance)
			r.Get("/me/transactions", h.ListMyTransactions)
			r.Post("/me/deposits", h.CreateDeposit)
			r.Post("/me/withdrawals", h.CreateWithdrawal)
			r.Post("/me/withdrawals/bank", h.CreateBankWithdrawal)
			r.Get("/fees/quote", h.QuoteFee)
		})

		r.Route("/admin", func(r chi.Router) {
			r.Use(authenticate, middleware.RequireRole(auth.RoleAdmin), validate, idempotency)

			r.Get("/accounts", h.AdminListAccounts)
			r.Get("/transactions", h.AdminListTransactions)
			r.Route("/accounts/{accountId}", func(r chi.Router) {
				r.Get("/", h.AdminGetAccount)
				r.Get("/balance", h.AdminGetBalance)
				r.Get("/transactions", h.AdminListAccountTransactions)
				r.Post("/transactions", h.AdminRecordTransaction)
				r.Post("/adjustments", h.AdminAdjust)
				r.Get("/reconciliation", h.AdminReconcile)
			})
		})
	})

	return r, nil
}
