package service

import (
	"strings"

	"github.com/google/uuid"
	"github.com/optima-platform/ledger/internal/models"
	"github.com/shopspring/decimal"
)

const (
	maxDescriptionLength = 500
	maxPageSize          = 500
	minPasswordLength    = 8
)

// maxAmount keeps amounts inside NUMERIC(20,2)
var maxAmount = decimal.New(1, 17)

// ValidateAmount checks that amount is positive with at most two decimal places
func ValidateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return validationError("invalid amount: must be greater than 0")
	}
	if !amount.Equal(amount.Round(2)) {
		return validationError("invalid amount: at most 2 decimal places")
	}
	if amount.GreaterThanOrEqual(maxAmount) {
		return validationError("invalid amount: too large")
	}
	return nil
}

// ValidateDirection checks that direction is credit or debit
func ValidateDirection(direction models.Direction) error {
	if !direction.Valid() {
		return validationError("invalid direction %q: must be credit or debit", direction)
	}
	return nil
}

// ValidateStatus checks that status is pending, success or denied
func ValidateStatus(status models.TransactionStatus) error {
	if !status.Valid() {
		return validationError("invalid status %q: must be pending, success or denied", status)
	}
	return nil
}

// ValidateDescription checks that description is present and bounded
func ValidateDescription(description string) error {
	trimmed := strings.TrimSpace(description)
	if trimmed == "" {
		return validationError("invalid description: must not be blank")
	}
	if len(trimmed) > maxDescriptionLength {
		return validationError("invalid description: at most %d characters", maxDescriptionLength)
	}
	return nil
}

// ValidateAccountID rejects the nil UUID
func ValidateAccountID(id uuid.UUID) error {
	if id == uuid.Nil {
		return validationError("invalid account id: must not be empty")
	}
	return nil
}

// ValidateQuery checks listing filters
func ValidateQuery(q TransactionQuery) error {
	if q.Status != "" {
		if err := ValidateStatus(q.Status); err != nil {
			return err
		}
	}
	if q.Limit < 0 || q.Limit > maxPageSize {
		return validationError("invalid limit: must be between 0 and %d", maxPageSize)
	}
	if q.Offset < 0 {
		return validationError("invalid offset: must not be negative")
	}
	return nil
}

func requireText(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return validationError("invalid %s: must not be blank", field)
	}
	return nil
}
