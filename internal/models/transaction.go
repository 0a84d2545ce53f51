package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Direction says whether a transaction increases or decreases balance
type Direction string

const (
	DirectionCredit Direction = "credit"
	DirectionDebit  Direction = "debit"
)

// Valid reports whether d is a known direction
func (d Direction) Valid() bool {
	return d == DirectionCredit || d == DirectionDebit
}

// TransactionStatus says whether a transaction's effect has been applied
type TransactionStatus string

const (
	TransactionStatusPending TransactionStatus = "pending"
	TransactionStatusSuccess TransactionStatus = "success"
	TransactionStatusDenied  TransactionStatus = "denied"
)

// Valid reports whether s is a known status
func (s TransactionStatus) Valid() bool {
	switch s {
	case TransactionStatusPending, TransactionStatusSuccess, TransactionStatusDenied:
		return true
	}
	return false
}

// Metadata keys for display-only transaction fields
const (
	MetaCurrency           = "currency"
	MetaWalletAddress      = "wallet_address"
	MetaBankName           = "bank_name"
	MetaAccountHolder      = "account_holder"
	MetaAccountNumberLast4 = "account_number_last4"
	MetaFee                = "fee"
	MetaFeePercent         = "fee_percent"
	MetaNetAmount          = "net_amount"
	MetaKind               = "kind"
	MetaChannel            = "channel"
	MetaSwiftCode          = "swift_code"
)

// Transaction is a single recorded credit or debit event against an Account.
// Amount, Direction and AccountID never change after creation.
type Transaction struct {
	CreatedAt      time.Time         `json:"created_at" db:"created_at"`
	Metadata       map[string]string `json:"metadata,omitempty" db:"metadata"`
	IdempotencyKey *string           `json:"-" db:"idempotency_key"`
	Description    string            `json:"description" db:"description"`
	Direction      Direction         `json:"direction" db:"direction"`
	Status         TransactionStatus `json:"status" db:"status"`
	Amount         decimal.Decimal   `json:"amount" db:"amount"`
	ID             uuid.UUID         `json:"id" db:"id"`
	AccountID      uuid.UUID         `json:"account_id" db:"account_id"`
}

// BalanceEffect is the signed amount this transaction contributes to its
// account's balance. Only successful transactions have an effect.
func (t *Transaction) BalanceEffect() decimal.Decimal {
	return BalanceEffect(t.Amount, t.Direction, t.Status)
}

// BalanceEffect computes the balance delta for the given fields
func BalanceEffect(amount decimal.Decimal, direction Direction, status TransactionStatus) decimal.Decimal {
	if status != TransactionStatusSuccess {
		return decimal.Zero
	}
	if direction == DirectionDebit {
		return amount.Neg()
	}
	return amount
}

// IdempotencyKey tracks processed requests to prevent duplicate transactions
type IdempotencyKey struct {
	CreatedAt      time.Time `db:"created_at"`
	Key            string    `db:"key"`
	RequestPath    string    `db:"request_path"`
	ResponseBody   string    `db:"response_body"`
	ResponseStatus int       `db:"response_status"`
}
