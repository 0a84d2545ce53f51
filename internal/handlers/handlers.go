// Package handlers implements HTTP handlers for the ledger API.
package handlers

import (
	"log/slog"

	"github.com/go-playground/validator/v10"
	"github.com/optima-platform/ledger/internal/service"
)

// Handler serves every API endpoint on top of the service layer
type Handler struct {
	ledger        service.Ledger
	wallet        service.Wallet
	admin         service.Administrator
	authenticator service.Authenticator
	healthChecker service.HealthChecker
	validate      *validator.Validate
	logger        *slog.Logger
}

// NewHandler creates a new Handler with injected service dependencies.
func NewHandler(
	ledger service.Ledger,
	wallet service.Wallet,
	admin service.Administrator,
	authenticator service.Authenticator,
	healthChecker service.HealthChecker,
	logger *slog.Logger,
) *Handler {
	return &Handler{
		ledger:        ledger,
		wallet:        wallet,
		admin:         admin,
		authenticator: authenticator,
		healthChecker: healthChecker,
		validate:      validator.New(validator.WithRequiredStructEnabled()),
		logger:        logger,
	}
}
