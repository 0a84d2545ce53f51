package service

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/optima-platform/ledger/internal/models"
	"github.com/optima-platform/ledger/internal/repository"
	"github.com/shopspring/decimal"
)

// AdjustmentKind is the operator-facing reason for a manual balance change
type AdjustmentKind string

const (
	AdjustmentProfit     AdjustmentKind = "profit"
	AdjustmentLoss       AdjustmentKind = "loss"
	AdjustmentDeposit    AdjustmentKind = "deposit"
	AdjustmentWithdrawal AdjustmentKind = "withdrawal"
)

const channelAdmin = "admin"

var adjustmentKinds = map[AdjustmentKind]struct {
	direction   models.Direction
	description string
}{
	AdjustmentProfit:     {models.DirectionCredit, "Trading profit"},
	AdjustmentLoss:       {models.DirectionDebit, "Trading loss"},
	AdjustmentDeposit:    {models.DirectionCredit, "Deposit"},
	AdjustmentWithdrawal: {models.DirectionDebit, "Withdrawal"},
}

// AdjustmentRequest is an operator's manual credit or debit
type AdjustmentRequest struct {
	Kind           AdjustmentKind
	Description    string
	Status         models.TransactionStatus
	Currency       string
	WalletAddress  string
	IdempotencyKey string
	Amount         decimal.Decimal
	AccountID      uuid.UUID
}

// AdminService serves the operator console
type AdminService struct {
	ledger   Ledger
	accounts repository.AccountRepository
	txns     repository.TransactionRepository
	logger   *slog.Logger
}

// NewAdminService creates a new AdminService
func NewAdminService(
	ledger Ledger,
	accounts repository.AccountRepository,
	txns repository.TransactionRepository,
	logger *slog.Logger,
) *AdminService {
	return &AdminService{
		ledger:   ledger,
		accounts: accounts,
		txns:     txns,
		logger:   logger,
	}
}

// ListAccounts returns every account, newest first
func (s *AdminService) ListAccounts(ctx context.Context) ([]models.Account, error) {
	accounts, err := s.accounts.List(ctx)
	if err != nil {
		return nil, storeUnavailable("failed to list accounts", err)
	}
	return accounts, nil
}

func (s *AdminService) GetAccount(ctx context.Context, accountID uuid.UUID) (*models.Account, error) {
	return s.ledger.GetAccount(ctx, accountID)
}

// ListTransactions returns transactions across all accounts, newest first
func (s *AdminService) ListTransactions(ctx context.Context, query TransactionQuery) ([]models.Transaction, error) {
	if err := ValidateQuery(query); err != nil {
		return nil, err
	}

	txns, err := s.txns.List(ctx, toFilter(nil, query))
	if err != nil {
		return nil, storeUnavailable("failed to list transactions", err)
	}
	return txns, nil
}

// Record stores a raw ledger entry chosen by the operator. Entries are tagged
// with the admin channel unless the operator set one.
func (s *AdminService) Record(ctx context.Context, req RecordRequest) (*RecordResult, error) {
	metadata := make(map[string]string, len(req.Metadata)+1)
	for k, v := range req.Metadata {
		metadata[k] = v
	}
	if _, ok := metadata[models.MetaChannel]; !ok {
		metadata[models.MetaChannel] = channelAdmin
	}
	req.Metadata = metadata

	result, err := s.ledger.Record(ctx, req)
	if err != nil {
		return nil, err
	}

	s.logger.Info("manual ledger entry recorded",
		"account_id", req.AccountID,
		"direction", req.Direction,
		"status", req.Status,
		"transaction_id", result.Transaction.ID,
	)
	return result, nil
}

// Adjust maps an adjustment kind to a ledger entry and records it.
// Status defaults to success.
func (s *AdminService) Adjust(ctx context.Context, req AdjustmentRequest) (*RecordResult, error) {
	kind, ok := adjustmentKinds[req.Kind]
	if !ok {
		return nil, validationError("invalid kind %q: must be profit, loss, deposit or withdrawal", req.Kind)
	}

	status := req.Status
	if status == "" {
		status = models.TransactionStatusSuccess
	}
	description := strings.TrimSpace(req.Description)
	if description == "" {
		description = kind.description
	}

	metadata := map[string]string{
		models.MetaKind:    string(req.Kind),
		models.MetaChannel: channelAdmin,
	}
	if currency := strings.ToUpper(strings.TrimSpace(req.Currency)); currency != "" {
		metadata[models.MetaCurrency] = currency
	}
	if address := strings.TrimSpace(req.WalletAddress); address != "" {
		metadata[models.MetaWalletAddress] = address
	}

	result, err := s.ledger.Record(ctx, RecordRequest{
		AccountID:      req.AccountID,
		Amount:         req.Amount,
		Direction:      kind.direction,
		Status:         status,
		Description:    description,
		Metadata:       metadata,
		IdempotencyKey: req.IdempotencyKey,
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("manual adjustment applied",
		"account_id", req.AccountID,
		"kind", req.Kind,
		"status", status,
		"transaction_id", result.Transaction.ID,
	)
	return result, nil
}
