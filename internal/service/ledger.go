package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/optima-platform/ledger/internal/events"
	"github.com/optima-platform/ledger/internal/models"
	"github.com/optima-platform/ledger/internal/repository"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// LedgerService keeps transaction records and account balances in step
type LedgerService struct {
	uow       repository.UnitOfWork
	accounts  repository.AccountRepository
	txns      repository.TransactionRepository
	publisher events.Publisher
	logger    *slog.Logger
	now       func() time.Time

	// unapplied holds ids of stored transactions whose balance write failed
	// in non-atomic mode. Replays of those keys report the inconsistency
	// again instead of succeeding.
	unapplied sync.Map
}

var errBalanceNotApplied = errors.New("balance effect of the stored transaction was never applied")

// NewLedgerService creates a new LedgerService. accounts and txns serve reads
// outside a unit of work.
func NewLedgerService(
	uow repository.UnitOfWork,
	accounts repository.AccountRepository,
	txns repository.TransactionRepository,
	publisher events.Publisher,
	logger *slog.Logger,
) *LedgerService {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}
	return &LedgerService{
		uow:       uow,
		accounts:  accounts,
		txns:      txns,
		publisher: publisher,
		logger:    logger,
		now:       time.Now,
	}
}

// balanceWriteError marks a failure of the balance write that follows a
// successful transaction insert.
type balanceWriteError struct {
	err   error
	txn   *models.Transaction
	delta decimal.Decimal
}

func (e *balanceWriteError) Error() string { return e.err.Error() }
func (e *balanceWriteError) Unwrap() error { return e.err }

// Record stores a transaction and applies its balance effect
func (s *LedgerService) Record(ctx context.Context, req RecordRequest) (*RecordResult, error) {
	if err := validateRecordRequest(req); err != nil {
		return nil, err
	}

	var result *RecordResult
	err := s.uow.WithinTx(ctx, func(ctx context.Context, accounts repository.AccountRepository, txns repository.TransactionRepository) error {
		r, err := s.performRecord(ctx, accounts, txns, req)
		if err != nil {
			return err
		}
		result = r
		return nil
	})
	if err != nil {
		return nil, s.recordFailure(ctx, err)
	}

	if result.Replayed {
		s.logger.Info("replayed idempotent transaction",
			"transaction_id", result.Transaction.ID,
			"account_id", result.Transaction.AccountID,
		)
		return result, nil
	}

	s.logger.Info("transaction recorded",
		"transaction_id", result.Transaction.ID,
		"account_id", result.Transaction.AccountID,
		"direction", result.Transaction.Direction,
		"status", result.Transaction.Status,
		"amount", result.Transaction.Amount,
		"balance", result.Balance,
	)
	s.publish(ctx, events.TopicTransactionRecorded, result.Transaction.AccountID, events.TransactionRecorded{
		OccurredAt:    result.Transaction.CreatedAt,
		TransactionID: result.Transaction.ID.String(),
		AccountID:     result.Transaction.AccountID.String(),
		Direction:     string(result.Transaction.Direction),
		Status:        string(result.Transaction.Status),
		Amount:        result.Transaction.Amount,
		Balance:       result.Balance,
	})

	return result, nil
}

// performRecord contains the core ledger update logic
func (s *LedgerService) performRecord(
	ctx context.Context,
	accounts repository.AccountRepository,
	txns repository.TransactionRepository,
	req RecordRequest,
) (*RecordResult, error) {
	account, err := accounts.FindByID(ctx, req.AccountID)
	if err != nil {
		return nil, accountLookupError(err)
	}

	var key *string
	if k := strings.TrimSpace(req.IdempotencyKey); k != "" {
		existing, err := txns.FindByIdempotencyKey(ctx, account.ID, k)
		if err == nil {
			if _, missing := s.unapplied.Load(existing.ID); missing {
				return nil, &balanceWriteError{err: errBalanceNotApplied, txn: existing, delta: existing.BalanceEffect()}
			}
			return &RecordResult{Transaction: existing, Balance: account.Balance, Replayed: true}, nil
		}
		if !errors.Is(err, models.ErrNotFound) {
			return nil, storeUnavailable("failed to check idempotency key", err)
		}
		key = &k
	}

	txn := &models.Transaction{
		AccountID:      account.ID,
		Amount:         req.Amount,
		Direction:      req.Direction,
		Status:         req.Status,
		Description:    strings.TrimSpace(req.Description),
		Metadata:       req.Metadata,
		IdempotencyKey: key,
	}

	if err := txns.Create(ctx, txn); err != nil {
		if errors.Is(err, models.ErrDuplicateTransaction) {
			return nil, &ServiceError{
				Code:    ErrCodeIdempotencyConflict,
				Message: "a transaction with this idempotency key is already being recorded",
			}
		}
		return nil, storeUnavailable("failed to record transaction", err)
	}

	balance := account.Balance
	if delta := txn.BalanceEffect(); !delta.IsZero() {
		balance, err = accounts.AdjustBalance(ctx, account.ID, delta)
		if err != nil {
			return nil, &balanceWriteError{err: err, txn: txn, delta: delta}
		}
	}

	return &RecordResult{Transaction: txn, Balance: balance}, nil
}

// recordFailure turns an error from the unit of work into a ServiceError
func (s *LedgerService) recordFailure(ctx context.Context, err error) error {
	var bwErr *balanceWriteError
	if errors.As(err, &bwErr) {
		if s.uow.Atomic() {
			s.logger.Warn("balance update failed, transaction rolled back",
				"account_id", bwErr.txn.AccountID,
				"error", bwErr.err,
			)
			return storeUnavailable("failed to update balance", bwErr.err)
		}
		return s.reportInconsistency(ctx, bwErr)
	}

	var svcErr *ServiceError
	if errors.As(err, &svcErr) {
		return svcErr
	}
	return storeUnavailable("ledger store unavailable", err)
}

// reportInconsistency raises a stored transaction whose balance effect is
// missing to operators and to the caller.
func (s *LedgerService) reportInconsistency(ctx context.Context, bwErr *balanceWriteError) error {
	s.unapplied.Store(bwErr.txn.ID, struct{}{})
	s.logger.Error("transaction stored without balance update",
		"condition", ConditionInconsistentLedgerState,
		"transaction_id", bwErr.txn.ID,
		"account_id", bwErr.txn.AccountID,
		"delta", bwErr.delta,
		"error", bwErr.err,
	)
	s.publish(ctx, events.TopicInconsistency, bwErr.txn.AccountID, events.InconsistencyDetected{
		OccurredAt:    s.now(),
		Condition:     ConditionInconsistentLedgerState,
		TransactionID: bwErr.txn.ID.String(),
		AccountID:     bwErr.txn.AccountID.String(),
		Error:         bwErr.err.Error(),
		Delta:         bwErr.delta,
	})

	return &ServiceError{
		Code:    ErrCodeInconsistentLedgerState,
		Message: "transaction recorded but balance update failed",
		Err: &InconsistentStateError{
			Err:         bwErr.err,
			Transaction: bwErr.txn,
			Delta:       bwErr.delta,
		},
	}
}

func (s *LedgerService) publish(ctx context.Context, topic string, accountID uuid.UUID, event any) {
	if err := s.publisher.Publish(ctx, topic, accountID.String(), event); err != nil {
		s.logger.Warn("failed to publish event", "topic", topic, "account_id", accountID, "error", err)
	}
}

// GetAccount returns the account with the given id
func (s *LedgerService) GetAccount(ctx context.Context, accountID uuid.UUID) (*models.Account, error) {
	account, err := s.accounts.FindByID(ctx, accountID)
	if err != nil {
		return nil, accountLookupError(err)
	}
	return account, nil
}

// GetBalance returns the balance and profit and loss against the initial balance
func (s *LedgerService) GetBalance(ctx context.Context, accountID uuid.UUID) (*BalanceSummary, error) {
	account, err := s.GetAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	pnl := account.Balance.Sub(account.InitialBalance)
	percentage := decimal.Zero
	if !account.InitialBalance.IsZero() {
		percentage = pnl.Div(account.InitialBalance).Mul(hundred)
	}

	return &BalanceSummary{
		AccountID:      account.ID,
		Balance:        account.Balance,
		InitialBalance: account.InitialBalance,
		PnLAmount:      pnl,
		PnLPercentage:  percentage,
	}, nil
}

// ListTransactions returns the account's transactions, newest first
func (s *LedgerService) ListTransactions(ctx context.Context, accountID uuid.UUID, query TransactionQuery) ([]models.Transaction, error) {
	if err := ValidateQuery(query); err != nil {
		return nil, err
	}
	if _, err := s.GetAccount(ctx, accountID); err != nil {
		return nil, err
	}

	txns, err := s.txns.List(ctx, toFilter(&accountID, query))
	if err != nil {
		return nil, storeUnavailable("failed to list transactions", err)
	}
	return txns, nil
}

// Reconcile checks the stored balance against initial balance plus history
func (s *LedgerService) Reconcile(ctx context.Context, accountID uuid.UUID) (*Reconciliation, error) {
	account, err := s.GetAccount(ctx, accountID)
	if err != nil {
		return nil, err
	}

	total, err := s.txns.SumBalanceEffects(ctx, accountID)
	if err != nil {
		return nil, storeUnavailable("failed to sum transactions", err)
	}

	expected := account.InitialBalance.Add(total)
	drift := account.Balance.Sub(expected)
	report := &Reconciliation{
		CheckedAt:        s.now(),
		AccountID:        account.ID,
		Balance:          account.Balance,
		InitialBalance:   account.InitialBalance,
		TransactionTotal: total,
		Expected:         expected,
		Drift:            drift,
		Consistent:       drift.IsZero(),
	}

	if !report.Consistent {
		s.logger.Warn("balance drift detected",
			"account_id", account.ID,
			"balance", account.Balance,
			"expected", expected,
			"drift", drift,
		)
	}
	return report, nil
}

func validateRecordRequest(req RecordRequest) error {
	if err := ValidateAccountID(req.AccountID); err != nil {
		return err
	}
	if err := ValidateAmount(req.Amount); err != nil {
		return err
	}
	if err := ValidateDirection(req.Direction); err != nil {
		return err
	}
	if err := ValidateStatus(req.Status); err != nil {
		return err
	}
	if err := ValidateDescription(req.Description); err != nil {
		return err
	}
	if len(req.IdempotencyKey) > 255 {
		return validationError("invalid idempotency key: at most 255 characters")
	}
	return nil
}

func toFilter(accountID *uuid.UUID, q TransactionQuery) repository.TransactionFilter {
	return repository.TransactionFilter{
		AccountID: accountID,
		Status:    q.Status,
		Search:    q.Search,
		Limit:     q.Limit,
		Offset:    q.Offset,
	}
}

func formatAmount(amount decimal.Decimal) string {
	return amount.StringFixed(2)
}

