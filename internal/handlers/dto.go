package handlers

import (
	openapi_types "github.com/oapi-codegen/runtime/types"
	"github.com/optima-platform/ledger/internal/models"
	"github.com/shopspring/decimal"
)

type registerRequest struct {
	FirstName string              `json:"first_name" validate:"required,max=100"`
	LastName  string              `json:"last_name" validate:"required,max=100"`
	Email     openapi_types.Email `json:"email" validate:"required,email"`
	Password  string              `json:"password" validate:"required,min=8,max=128"`
}

type loginRequest struct {
	Email    openapi_types.Email `json:"email" validate:"required,email"`
	Password string              `json:"password" validate:"required"`
}

type depositRequest struct {
	Currency string          `json:"currency" validate:"required,max=10"`
	Amount   decimal.Decimal `json:"amount"`
}

type withdrawRequest struct {
	Currency      string          `json:"currency" validate:"required,max=10"`
	WalletAddress string          `json:"wallet_address" validate:"required,max=200"`
	Amount        decimal.Decimal `json:"amount"`
}

type bankWithdrawRequest struct {
	AccountHolder string          `json:"account_holder" validate:"required,max=200"`
	BankName      string          `json:"bank_name" validate:"required,max=200"`
	AccountNumber string          `json:"account_number" validate:"required,min=4,max=34"`
	SwiftCode     string          `json:"swift_code" validate:"max=11"`
	Amount        decimal.Decimal `json:"amount"`
}

type recordTransactionRequest struct {
	Metadata    map[string]string        `json:"metadata"`
	Description string                   `json:"description" validate:"required,max=500"`
	Direction   models.Direction         `json:"direction" validate:"required,oneof=credit debit"`
	Status      models.TransactionStatus `json:"status" validate:"required,oneof=pending success denied"`
	Amount      decimal.Decimal          `json:"amount"`
}

type adjustmentRequest struct {
	Kind          string                   `json:"kind" validate:"required,oneof=profit loss deposit withdrawal"`
	Status        models.TransactionStatus `json:"status" validate:"omitempty,oneof=pending success denied"`
	Description   string                   `json:"description" validate:"max=500"`
	Currency      string                   `json:"currency" validate:"max=10"`
	WalletAddress string                   `json:"wallet_address" validate:"max=200"`
	Amount        decimal.Decimal          `json:"amount"`
}

type transactionList struct {
	Transactions []models.Transaction `json:"transactions"`
	Limit        int                  `json:"limit"`
	Offset       int                  `json:"offset"`
}

type accountList struct {
	Accounts []models.Account `json:"accounts"`
}

type healthResponse struct {
	Status string `json:"status"`
}

func newTransactionList(txns []models.Transaction, limit, offset int) transactionList {
	if txns == nil {
		txns = []models.Transaction{}
	}
	return transactionList{Transactions: txns, Limit: limit, Offset: offset}
}
