package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/oapi-codegen/runtime"
	"github.com/optima-platform/ledger/internal/auth"
	"github.com/optima-platform/ledger/internal/middleware"
	"github.com/optima-platform/ledger/internal/models"
	"github.com/optima-platform/ledger/internal/service"
)

const (
	defaultPageSize = 50
	maxBodyBytes    = 1 << 20
)

// ErrorResponse is the body of every non-2xx response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	//nolint:errcheck // Best effort response writing
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: code, Message: message})
}

func writeValidationError(w http.ResponseWriter, message string) {
	writeError(w, http.StatusBadRequest, service.ErrCodeValidation, message)
}

// statusForCode maps service error codes to HTTP status codes
func statusForCode(code string) int {
	switch code {
	case service.ErrCodeValidation:
		return http.StatusBadRequest
	case service.ErrCodeAccountNotFound:
		return http.StatusNotFound
	case service.ErrCodeEmailTaken, service.ErrCodeIdempotencyConflict:
		return http.StatusConflict
	case service.ErrCodeInvalidCredentials:
		return http.StatusUnauthorized
	case service.ErrCodeStoreUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// writeServiceError maps service errors to appropriate HTTP responses. Store
// and ledger failures get a generic body so no partial-success detail leaks.
func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	code := service.ErrorCode(err)
	status := statusForCode(code)

	var message string
	switch code {
	case service.ErrCodeStoreUnavailable:
		message = "Service temporarily unavailable"
	case service.ErrCodeInconsistentLedgerState, service.ErrCodeInternalError:
		code = service.ErrCodeInternalError
		message = "The request could not be completed"
	default:
		var svcErr *service.ServiceError
		if errors.As(err, &svcErr) {
			message = svcErr.Message
		}
	}

	if status >= http.StatusInternalServerError {
		h.logger.ErrorContext(r.Context(), "request failed",
			"path", r.URL.Path,
			"code", service.ErrorCode(err),
			"error", err,
		)
	}

	writeError(w, status, code, message)
}

// decodeBody reads a JSON body into dst and runs its validate tags
func (h *Handler) decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	if err := h.validate.Struct(dst); err != nil {
		return describeValidation(err)
	}
	return nil
}

func describeValidation(err error) error {
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return fmt.Errorf("invalid request body: %w", err)
	}

	fe := fieldErrs[0]
	field := toSnake(fe.Field())
	switch fe.Tag() {
	case "required":
		return fmt.Errorf("invalid %s: required", field)
	case "email":
		return fmt.Errorf("invalid %s: must be an email address", field)
	case "min":
		return fmt.Errorf("invalid %s: at least %s characters", field, fe.Param())
	case "max":
		return fmt.Errorf("invalid %s: at most %s characters", field, fe.Param())
	case "oneof":
		return fmt.Errorf("invalid %s: must be one of %s", field, fe.Param())
	default:
		return fmt.Errorf("invalid %s: failed %s", field, fe.Tag())
	}
}

// toSnake turns a Go field name such as WalletAddress into wallet_address
func toSnake(name string) string {
	var b strings.Builder
	for i, r := range name {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			r += 'a' - 'A'
		}
		b.WriteRune(r)
	}
	return b.String()
}

func parseAccountID(r *http.Request) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, "accountId"))
	if err != nil {
		return uuid.Nil, fmt.Errorf("invalid account id: %w", err)
	}
	return id, nil
}

// callerAccountID returns the account of the authenticated user
func callerAccountID(r *http.Request) (uuid.UUID, bool) {
	id, ok := auth.IdentityFrom(r.Context())
	if !ok || id.Role != auth.RoleUser || id.AccountID == uuid.Nil {
		return uuid.Nil, false
	}
	return id.AccountID, true
}

func idempotencyKey(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get(middleware.IdempotencyKeyHeader))
}

// parseTransactionQuery binds the optional status, search, limit and offset
// query parameters
func parseTransactionQuery(r *http.Request) (service.TransactionQuery, error) {
	var (
		status, search *string
		limit, offset  *int
	)
	params := r.URL.Query()

	if err := runtime.BindQueryParameter("form", true, false, "status", params, &status); err != nil {
		return service.TransactionQuery{}, fmt.Errorf("invalid status: %w", err)
	}
	if err := runtime.BindQueryParameter("form", true, false, "search", params, &search); err != nil {
		return service.TransactionQuery{}, fmt.Errorf("invalid search: %w", err)
	}
	if err := runtime.BindQueryParameter("form", true, false, "limit", params, &limit); err != nil {
		return service.TransactionQuery{}, fmt.Errorf("invalid limit: %w", err)
	}
	if err := runtime.BindQueryParameter("form", true, false, "offset", params, &offset); err != nil {
		return service.TransactionQuery{}, fmt.Errorf("invalid offset: %w", err)
	}

	query := service.TransactionQuery{Limit: defaultPageSize}
	if status != nil {
		query.Status = models.TransactionStatus(*status)
	}
	if search != nil {
		query.Search = strings.TrimSpace(*search)
	}
	if limit != nil {
		query.Limit = *limit
	}
	if offset != nil {
		query.Offset = *offset
	}
	return query, nil
}

// recordStatus is 201 for a new transaction and 200 for a replay
func recordStatus(result *service.RecordResult) int {
	if result.Replayed {
		return http.StatusOK
	}
	return http.StatusCreated
}
