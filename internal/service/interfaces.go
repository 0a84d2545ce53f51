package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/optima-platform/ledger/internal/auth"
	"github.com/optima-platform/ledger/internal/models"
	"github.com/shopspring/decimal"
)

// HealthChecker validates system health.
type HealthChecker interface {
	PingContext(ctx context.Context) error
}

// Ledger records transactions and projects account balances
type Ledger interface {
	Record(ctx context.Context, req RecordRequest) (*RecordResult, error)
	GetAccount(ctx context.Context, accountID uuid.UUID) (*models.Account, error)
	GetBalance(ctx context.Context, accountID uuid.UUID) (*BalanceSummary, error)
	ListTransactions(ctx context.Context, accountID uuid.UUID, query TransactionQuery) ([]models.Transaction, error)
	Reconcile(ctx context.Context, accountID uuid.UUID) (*Reconciliation, error)
}

// Wallet handles user-initiated deposits and withdrawals
type Wallet interface {
	Deposit(ctx context.Context, req DepositRequest) (*RecordResult, error)
	Withdraw(ctx context.Context, req WithdrawRequest) (*RecordResult, error)
	BankWithdraw(ctx context.Context, req BankWithdrawRequest) (*RecordResult, error)
	QuoteFee(method WithdrawalMethod, amount decimal.Decimal) (*FeeQuote, error)
}

// Administrator handles operator views and manual balance adjustments
type Administrator interface {
	ListAccounts(ctx context.Context) ([]models.Account, error)
	GetAccount(ctx context.Context, accountID uuid.UUID) (*models.Account, error)
	ListTransactions(ctx context.Context, query TransactionQuery) ([]models.Transaction, error)
	Record(ctx context.Context, req RecordRequest) (*RecordResult, error)
	Adjust(ctx context.Context, req AdjustmentRequest) (*RecordResult, error)
}

// Authenticator registers users and exchanges credentials for sessions
type Authenticator interface {
	Register(ctx context.Context, req RegisterRequest) (*Session, error)
	Login(ctx context.Context, email, password string) (*Session, error)
	AdminLogin(ctx context.Context, email, password string) (*Session, error)
}

// RecordRequest is the input of a single ledger update
type RecordRequest struct {
	Metadata       map[string]string
	Description    string
	Direction      models.Direction
	Status         models.TransactionStatus
	IdempotencyKey string
	Amount         decimal.Decimal
	AccountID      uuid.UUID
}

// RecordResult is the stored transaction and the balance after it.
// Replayed is set when an idempotency key matched an earlier transaction.
type RecordResult struct {
	Transaction *models.Transaction `json:"transaction"`
	Balance     decimal.Decimal     `json:"balance"`
	Replayed    bool                `json:"replayed"`
}

// BalanceSummary is the dashboard projection of an account
type BalanceSummary struct {
	Balance        decimal.Decimal `json:"balance"`
	InitialBalance decimal.Decimal `json:"initial_balance"`
	PnLAmount      decimal.Decimal `json:"pnl_amount"`
	PnLPercentage  decimal.Decimal `json:"pnl_percentage"`
	AccountID      uuid.UUID       `json:"account_id"`
}

// TransactionQuery filters a history listing. Zero values mean no filter.
type TransactionQuery struct {
	Status models.TransactionStatus
	Search string
	Limit  int
	Offset int
}

// Reconciliation compares the stored balance with the transaction history
type Reconciliation struct {
	CheckedAt        time.Time       `json:"checked_at"`
	Balance          decimal.Decimal `json:"balance"`
	InitialBalance   decimal.Decimal `json:"initial_balance"`
	TransactionTotal decimal.Decimal `json:"transaction_total"`
	Expected         decimal.Decimal `json:"expected_balance"`
	Drift            decimal.Decimal `json:"drift"`
	AccountID        uuid.UUID       `json:"account_id"`
	Consistent       bool            `json:"consistent"`
}

// Session is an issued token and, for users, the account it belongs to
type Session struct {
	ExpiresAt time.Time       `json:"expires_at"`
	Account   *models.Account `json:"account,omitempty"`
	Token     string          `json:"token"`
	Role      auth.Role       `json:"role"`
}

// Ensure concrete types implement interfaces
var (
	_ Ledger        = (*LedgerService)(nil)
	_ Wallet        = (*WalletService)(nil)
	_ Administrator = (*AdminService)(nil)
	_ Authenticator = (*AuthService)(nil)
)
