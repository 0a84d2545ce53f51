package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Account is a user's balance-holding record
type Account struct {
	CreatedAt      time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at" db:"updated_at"`
	AvatarURL      *string         `json:"avatar_url,omitempty" db:"avatar_url"`
	Email          string          `json:"email" db:"email"`
	FirstName      string          `json:"first_name" db:"first_name"`
	LastName       string          `json:"last_name" db:"last_name"`
	PasswordHash   string          `json:"-" db:"password_hash"`
	Balance        decimal.Decimal `json:"balance" db:"balance"`
	InitialBalance decimal.Decimal `json:"initial_balance" db:"initial_balance"`
	ID             uuid.UUID       `json:"id" db:"id"`
}
