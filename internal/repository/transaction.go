package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/optima-platform/ledger/internal/db"
	"github.com/optima-platform/ledger/internal/models"
	"github.com/shopspring/decimal"
)

// TransactionFilter narrows a history query. Zero values mean no constraint.
type TransactionFilter struct {
	AccountID *uuid.UUID
	Status    models.TransactionStatus
	Search    string
	Limit     int
	Offset    int
}

// TransactionRepository defines the interface for transaction data access
type TransactionRepository interface {
	Create(ctx context.Context, txn *models.Transaction) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error)
	FindByIdempotencyKey(ctx context.Context, accountID uuid.UUID, key string) (*models.Transaction, error)
	List(ctx context.Context, filter TransactionFilter) ([]models.Transaction, error)
	// SumBalanceEffects folds the balance effect of every transaction on the account.
	SumBalanceEffects(ctx context.Context, accountID uuid.UUID) (decimal.Decimal, error)
}

type transactionRepository struct {
	db db.DBTX
}

// NewTransactionRepository creates a new TransactionRepository
func NewTransactionRepository(database db.DBTX) TransactionRepository {
	return &transactionRepository{db: database}
}

const transactionColumns = `id, account_id, amount, direction, description, status,
		       metadata, idempotency_key, created_at`

// Create appends a transaction. A repeated (account, idempotency key) pair
// yields models.ErrDuplicateTransaction.
func (r *transactionRepository) Create(ctx context.Context, txn *models.Transaction) error {
	if txn.ID == uuid.Nil {
		txn.ID = uuid.New()
	}

	var metadata []byte
	if len(txn.Metadata) > 0 {
		encoded, err := json.Marshal(txn.Metadata)
		if err != nil {
			return fmt.Errorf("failed to marshal metadata: %w", err)
		}
		metadata = encoded
	}

	query := `
		INSERT INTO transactions (id, account_id, amount, direction, description, status, metadata, idempotency_key)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at
	`

	err := r.db.QueryRowContext(ctx, query,
		txn.ID,
		txn.AccountID,
		txn.Amount,
		string(txn.Direction),
		txn.Description,
		string(txn.Status),
		metadata,
		txn.IdempotencyKey,
	).Scan(&txn.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("transaction for account %s: %w", txn.AccountID, models.ErrDuplicateTransaction)
		}
		return fmt.Errorf("failed to create transaction: %w", err)
	}

	return nil
}

// FindByID retrieves a transaction by its UUID
func (r *transactionRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE id = $1`

	txn, err := scanTransaction(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("transaction %s: %w", id, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find transaction by id: %w", err)
	}

	return txn, nil
}

// FindByIdempotencyKey retrieves the transaction first recorded under key
func (r *transactionRepository) FindByIdempotencyKey(ctx context.Context, accountID uuid.UUID, key string) (*models.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE account_id = $1 AND idempotency_key = $2`

	txn, err := scanTransaction(r.db.QueryRowContext(ctx, query, accountID, key))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("transaction with key %q: %w", key, models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find transaction by idempotency key: %w", err)
	}

	return txn, nil
}

// List returns matching transactions, newest first. Rows created in the same
// instant keep insertion order reversed through the seq column.
func (r *transactionRepository) List(ctx context.Context, filter TransactionFilter) ([]models.Transaction, error) {
	var (
		conds []string
		args  []any
	)
	if filter.AccountID != nil {
		args = append(args, *filter.AccountID)
		conds = append(conds, fmt.Sprintf("account_id = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, string(filter.Status))
		conds = append(conds, fmt.Sprintf("status = $%d", len(args)))
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		args = append(args, "%"+escapeLike(search)+"%")
		n := len(args)
		conds = append(conds, fmt.Sprintf(
			"(description ILIKE $%d OR id::text ILIKE $%d OR metadata->>'currency' ILIKE $%d)", n, n, n))
	}

	query := `SELECT ` + transactionColumns + ` FROM transactions`
	if len(conds) > 0 {
		query += ` WHERE ` + strings.Join(conds, " AND ")
	}
	query += ` ORDER BY created_at DESC, seq DESC`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		query += fmt.Sprintf(" OFFSET $%d", len(args))
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	transactions := []models.Transaction{}
	for rows.Next() {
		txn, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		transactions = append(transactions, *txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}

	return transactions, nil
}

func (r *transactionRepository) SumBalanceEffects(ctx context.Context, accountID uuid.UUID) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(CASE WHEN direction = 'credit' THEN amount ELSE -amount END), 0)
		FROM transactions
		WHERE account_id = $1 AND status = 'success'
	`

	var total decimal.Decimal
	if err := r.db.QueryRowContext(ctx, query, accountID).Scan(&total); err != nil {
		return decimal.Zero, fmt.Errorf("failed to sum transaction effects: %w", err)
	}
	return total, nil
}

func scanTransaction(row rowScanner) (*models.Transaction, error) {
	var (
		txn       models.Transaction
		direction string
		status    string
		metadata  []byte
		key       sql.NullString
	)
	err := row.Scan(
		&txn.ID,
		&txn.AccountID,
		&txn.Amount,
		&direction,
		&txn.Description,
		&status,
		&metadata,
		&key,
		&txn.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	txn.Direction = models.Direction(direction)
	txn.Status = models.TransactionStatus(status)
	if key.Valid {
		txn.IdempotencyKey = &key.String
	}
	if len(metadata) > 0 {
		if err := json.Unmarshal(metadata, &txn.Metadata); err != nil {
			return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
		}
	}
	return &txn, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
