package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"github.com/optima-platform/ledger/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func stringPtr(s string) *string { return &s }

func TestTransactionRepository_Create(t *testing.T) {
	accountID := uuid.New()

	tests := []struct {
		dbErr   error
		wantErr error
		txn     *models.Transaction
		name    string
	}{
		{
			name: "plain transaction",
			txn: &models.Transaction{
				AccountID:   accountID,
				Amount:      decimal.NewFromInt(100),
				Direction:   models.DirectionCredit,
				Status:      models.TransactionStatusSuccess,
				Description: "Deposit",
			},
		},
		{
			name: "with metadata and key",
			txn: &models.Transaction{
				AccountID:      accountID,
				Amount:         decimal.RequireFromString("12.5"),
				Direction:      models.DirectionDebit,
				Status:         models.TransactionStatusPending,
				Description:    "Crypto Withdrawal",
				Metadata:       map[string]string{models.MetaCurrency: "USDT"},
				IdempotencyKey: stringPtr("k-1"),
			},
		},
		{
			name: "duplicate key",
			txn: &models.Transaction{
				AccountID:      accountID,
				Amount:         decimal.NewFromInt(1),
				Direction:      models.DirectionCredit,
				Status:         models.TransactionStatusSuccess,
				Description:    "Deposit",
				IdempotencyKey: stringPtr("k-1"),
			},
			dbErr:   &pgconn.PgError{Code: "23505"},
			wantErr: models.ErrDuplicateTransaction,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			database, mock := setupMockDB(t)
			repo := NewTransactionRepository(database)

			expect := mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO transactions"))
			if tt.dbErr != nil {
				expect.WillReturnError(tt.dbErr)
			} else {
				expect.WillReturnRows(sqlmock.NewRows([]string{"created_at"}).AddRow(time.Now()))
			}

			err := repo.Create(context.Background(), tt.txn)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.NotEqual(t, uuid.Nil, tt.txn.ID)
			assert.False(t, tt.txn.CreatedAt.IsZero())
		})
	}
}

func TestTransactionRepository_FindByIdempotencyKey(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		database, mock := setupMockDB(t)
		repo := NewTransactionRepository(database)
		accountID, id := uuid.New(), uuid.New()

		mock.ExpectQuery(regexp.QuoteMeta("WHERE account_id = $1 AND idempotency_key = $2")).
			WithArgs(accountID, "k-1").
			WillReturnRows(sqlmock.NewRows(transactionRowColumns).
				AddRow(id.String(), accountID.String(), "40.00", "debit", "Bank Withdrawal", "pending",
					[]byte(`{"bank_name":"First Bank"}`), "k-1", time.Now()))

		txn, err := repo.FindByIdempotencyKey(context.Background(), accountID, "k-1")
		require.NoError(t, err)
		assert.Equal(t, id, txn.ID)
		assert.Equal(t, models.DirectionDebit, txn.Direction)
		assert.Equal(t, models.TransactionStatusPending, txn.Status)
		assert.Equal(t, "First Bank", txn.Metadata[models.MetaBankName])
		require.NotNil(t, txn.IdempotencyKey)
		assert.Equal(t, "k-1", *txn.IdempotencyKey)
	})

	t.Run("missing", func(t *testing.T) {
		database, mock := setupMockDB(t)
		repo := NewTransactionRepository(database)

		mock.ExpectQuery(regexp.QuoteMeta("idempotency_key = $2")).WillReturnError(sql.ErrNoRows)

		_, err := repo.FindByIdempotencyKey(context.Background(), uuid.New(), "k-2")
		assert.ErrorIs(t, err, models.ErrNotFound)
	})
}

func TestTransactionRepository_List(t *testing.T) {
	t.Run("all filters", func(t *testing.T) {
		database, mock := setupMockDB(t)
		repo := NewTransactionRepository(database)
		accountID := uuid.New()

		mock.ExpectQuery(regexp.QuoteMeta(
			"WHERE account_id = $1 AND status = $2 AND (description ILIKE $3 OR id::text ILIKE $3 OR metadata->>'currency' ILIKE $3) "+
				"ORDER BY created_at DESC, seq DESC LIMIT $4 OFFSET $5")).
			WithArgs(accountID, "success", `%50\%%`, 10, 20).
			WillReturnRows(sqlmock.NewRows(transactionRowColumns))

		txns, err := repo.List(context.Background(), TransactionFilter{
			AccountID: &accountID,
			Status:    models.TransactionStatusSuccess,
			Search:    " 50% ",
			Limit:     10,
			Offset:    20,
		})
		require.NoError(t, err)
		assert.Empty(t, txns)
	})

	t.Run("no filters", func(t *testing.T) {
		database, mock := setupMockDB(t)
		repo := NewTransactionRepository(database)
		now := time.Now()

		mock.ExpectQuery(regexp.QuoteMeta("FROM transactions ORDER BY created_at DESC, seq DESC")).
			WithArgs().
			WillReturnRows(sqlmock.NewRows(transactionRowColumns).
				AddRow(uuid.NewString(), uuid.NewString(), "5", "credit", "b", "success", nil, nil, now).
				AddRow(uuid.NewString(), uuid.NewString(), "3", "debit", "a", "denied", nil, nil, now))

		txns, err := repo.List(context.Background(), TransactionFilter{})
		require.NoError(t, err)
		require.Len(t, txns, 2)
		assert.Equal(t, "b", txns[0].Description)
		assert.Nil(t, txns[1].Metadata)
		assert.Nil(t, txns[1].IdempotencyKey)
	})
}

func TestTransactionRepository_SumBalanceEffects(t *testing.T) {
	database, mock := setupMockDB(t)
	repo := NewTransactionRepository(database)
	accountID := uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta("WHERE account_id = $1 AND status = 'success'")).
		WithArgs(accountID).
		WillReturnRows(sqlmock.NewRows([]string{"sum"}).AddRow("-12.25"))

	total, err := repo.SumBalanceEffects(context.Background(), accountID)
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.RequireFromString("-12.25")))
}
