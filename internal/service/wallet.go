package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/optima-platform/ledger/internal/models"
	"github.com/shopspring/decimal"
)

// WithdrawalMethod selects the fee rate of a withdrawal
type WithdrawalMethod string

const (
	WithdrawalMethodCrypto WithdrawalMethod = "crypto"
	WithdrawalMethodBank   WithdrawalMethod = "bank"
)

const channelWallet = "wallet"

// FeeSchedule holds withdrawal fee percentages and limits
type FeeSchedule struct {
	CryptoPercent     decimal.Decimal
	BankPercent       decimal.Decimal
	MinBankWithdrawal decimal.Decimal
}

// FeeQuote breaks an amount into fee and net payout
type FeeQuote struct {
	Method     WithdrawalMethod `json:"method"`
	Amount     decimal.Decimal  `json:"amount"`
	FeePercent decimal.Decimal  `json:"fee_percent"`
	Fee        decimal.Decimal  `json:"fee"`
	Net        decimal.Decimal  `json:"net"`
}

// DepositRequest asks to credit an account once funds arrive
type DepositRequest struct {
	Currency       string
	IdempotencyKey string
	Amount         decimal.Decimal
	AccountID      uuid.UUID
}

// WithdrawRequest asks to pay out to a crypto wallet
type WithdrawRequest struct {
	Currency       string
	WalletAddress  string
	IdempotencyKey string
	Amount         decimal.Decimal
	AccountID      uuid.UUID
}

// BankWithdrawRequest asks to pay out to a bank account
type BankWithdrawRequest struct {
	AccountHolder  string
	BankName       string
	AccountNumber  string
	SwiftCode      string
	IdempotencyKey string
	Amount         decimal.Decimal
	AccountID      uuid.UUID
}

// WalletService records user deposits and withdrawals as pending transactions.
// Settlement is an operator action outside this service.
type WalletService struct {
	ledger Ledger
	fees   FeeSchedule
	logger *slog.Logger
}

// NewWalletService creates a new WalletService
func NewWalletService(ledger Ledger, fees FeeSchedule, logger *slog.Logger) *WalletService {
	return &WalletService{ledger: ledger, fees: fees, logger: logger}
}

// QuoteFee computes the fee for a withdrawal of amount
func (s *WalletService) QuoteFee(method WithdrawalMethod, amount decimal.Decimal) (*FeeQuote, error) {
	if err := ValidateAmount(amount); err != nil {
		return nil, err
	}

	var percent decimal.Decimal
	switch method {
	case WithdrawalMethodCrypto:
		percent = s.fees.CryptoPercent
	case WithdrawalMethodBank:
		percent = s.fees.BankPercent
	default:
		return nil, validationError("invalid method %q: must be crypto or bank", method)
	}

	fee := amount.Mul(percent).Div(hundred).Round(2)
	return &FeeQuote{
		Method:     method,
		Amount:     amount,
		FeePercent: percent,
		Fee:        fee,
		Net:        amount.Sub(fee),
	}, nil
}

// Deposit records a pending credit
func (s *WalletService) Deposit(ctx context.Context, req DepositRequest) (*RecordResult, error) {
	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	if err := requireText("currency", currency); err != nil {
		return nil, err
	}
	if err := ValidateAmount(req.Amount); err != nil {
		return nil, err
	}

	return s.ledger.Record(ctx, RecordRequest{
		AccountID:   req.AccountID,
		Amount:      req.Amount,
		Direction:   models.DirectionCredit,
		Status:      models.TransactionStatusPending,
		Description: fmt.Sprintf("Deposit %s %s", formatAmount(req.Amount), currency),
		Metadata: map[string]string{
			models.MetaCurrency: currency,
			models.MetaChannel:  channelWallet,
			models.MetaKind:     "deposit",
		},
		IdempotencyKey: req.IdempotencyKey,
	})
}

// Withdraw records a pending debit to a crypto wallet
func (s *WalletService) Withdraw(ctx context.Context, req WithdrawRequest) (*RecordResult, error) {
	currency := strings.ToUpper(strings.TrimSpace(req.Currency))
	address := strings.TrimSpace(req.WalletAddress)
	if err := requireText("currency", currency); err != nil {
		return nil, err
	}
	if err := requireText("wallet address", address); err != nil {
		return nil, err
	}

	quote, err := s.QuoteFee(WithdrawalMethodCrypto, req.Amount)
	if err != nil {
		return nil, err
	}

	return s.ledger.Record(ctx, RecordRequest{
		AccountID:   req.AccountID,
		Amount:      req.Amount,
		Direction:   models.DirectionDebit,
		Status:      models.TransactionStatusPending,
		Description: fmt.Sprintf("Withdrawal %s %s to %s", formatAmount(req.Amount), currency, address),
		Metadata: map[string]string{
			models.MetaCurrency:      currency,
			models.MetaWalletAddress: address,
			models.MetaFee:           formatAmount(quote.Fee),
			models.MetaFeePercent:    quote.FeePercent.String(),
			models.MetaNetAmount:     formatAmount(quote.Net),
			models.MetaChannel:       channelWallet,
			models.MetaKind:          "withdrawal",
		},
		IdempotencyKey: req.IdempotencyKey,
	})
}

// BankWithdraw records a pending debit to a bank account. Only the last four
// digits of the account number are kept.
func (s *WalletService) BankWithdraw(ctx context.Context, req BankWithdrawRequest) (*RecordResult, error) {
	holder := strings.TrimSpace(req.AccountHolder)
	bank := strings.TrimSpace(req.BankName)
	number := strings.ReplaceAll(strings.TrimSpace(req.AccountNumber), " ", "")
	for _, field := range [][2]string{{"account holder", holder}, {"bank name", bank}, {"account number", number}} {
		if err := requireText(field[0], field[1]); err != nil {
			return nil, err
		}
	}
	if len(number) < 4 {
		return nil, validationError("invalid account number: at least 4 characters")
	}

	quote, err := s.QuoteFee(WithdrawalMethodBank, req.Amount)
	if err != nil {
		return nil, err
	}
	if req.Amount.LessThan(s.fees.MinBankWithdrawal) {
		s.logger.Debug("bank withdrawal below minimum",
			"account_id", req.AccountID,
			"amount", req.Amount,
			"minimum", s.fees.MinBankWithdrawal,
		)
		return nil, validationError("invalid amount: minimum bank withdrawal is %s", formatAmount(s.fees.MinBankWithdrawal))
	}

	metadata := map[string]string{
		models.MetaBankName:           bank,
		models.MetaAccountHolder:      holder,
		models.MetaAccountNumberLast4: number[len(number)-4:],
		models.MetaFee:                formatAmount(quote.Fee),
		models.MetaFeePercent:         quote.FeePercent.String(),
		models.MetaNetAmount:          formatAmount(quote.Net),
		models.MetaChannel:            channelWallet,
		models.MetaKind:               "bank_withdrawal",
	}
	if swift := strings.ToUpper(strings.TrimSpace(req.SwiftCode)); swift != "" {
		metadata[models.MetaSwiftCode] = swift
	}

	return s.ledger.Record(ctx, RecordRequest{
		AccountID:      req.AccountID,
		Amount:         req.Amount,
		Direction:      models.DirectionDebit,
		Status:         models.TransactionStatusPending,
		Description:    fmt.Sprintf("Bank withdrawal to %s - %s", bank, holder),
		Metadata:       metadata,
		IdempotencyKey: req.IdempotencyKey,
	})
}
