package service

import (
	"errors"
	"fmt"

	"github.com/optima-platform/ledger/internal/models"
	"github.com/shopspring/decimal"
)

// ServiceError represents a business logic error with a code
type ServiceError struct {
	Err     error
	Message string
	Code    string
}

func (e *ServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error for errors.Is/As support
func (e *ServiceError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	ErrCodeValidation              = "validation_error"
	ErrCodeAccountNotFound         = "account_not_found"
	ErrCodeStoreUnavailable        = "store_unavailable"
	ErrCodeInconsistentLedgerState = "inconsistent_ledger_state"
	ErrCodeEmailTaken              = "email_taken"
	ErrCodeIdempotencyConflict     = "idempotency_conflict"
	ErrCodeInvalidCredentials      = "invalid_credentials"
	ErrCodeInternalError           = "internal_error"
)

// ConditionInconsistentLedgerState tags log records and events for a
// transaction whose balance effect was not applied.
const ConditionInconsistentLedgerState = "InconsistentLedgerState"

// InconsistentStateError describes a stored transaction whose balance write
// failed. The account needs manual reconciliation.
type InconsistentStateError struct {
	Err         error
	Transaction *models.Transaction
	Delta       decimal.Decimal
}

func (e *InconsistentStateError) Error() string {
	return fmt.Sprintf("transaction %s stored but balance delta %s not applied: %v",
		e.Transaction.ID, e.Delta, e.Err)
}

func (e *InconsistentStateError) Unwrap() error {
	return e.Err
}

// ErrorCode returns the code of the ServiceError in err's chain, or
// ErrCodeInternalError when there is none.
func ErrorCode(err error) string {
	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return svcErr.Code
	}
	return ErrCodeInternalError
}

func validationError(format string, args ...any) *ServiceError {
	return &ServiceError{
		Code:    ErrCodeValidation,
		Message: fmt.Sprintf(format, args...),
	}
}

func storeUnavailable(message string, err error) *ServiceError {
	return &ServiceError{
		Code:    ErrCodeStoreUnavailable,
		Message: message,
		Err:     err,
	}
}

// accountLookupError maps a repository lookup failure to a ServiceError
func accountLookupError(err error) *ServiceError {
	if errors.Is(err, models.ErrNotFound) {
		return &ServiceError{
			Code:    ErrCodeAccountNotFound,
			Message: "account not found",
		}
	}
	return storeUnavailable("failed to read account", err)
}
