package service

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/optima-platform/ledger/internal/events"
	"github.com/optima-platform/ledger/internal/models"
	"github.com/optima-platform/ledger/internal/repository"
	"github.com/optima-platform/ledger/internal/storage/memory"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func bufferLogger() (*slog.Logger, *syncBuffer) {
	buf := &syncBuffer{}
	return slog.New(slog.NewJSONHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug})), buf
}

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// decimalArg matches a decimal argument by value rather than representation
func decimalArg(s string) any {
	want := dec(s)
	return mock.MatchedBy(func(d decimal.Decimal) bool { return d.Equal(want) })
}

type memoryFixture struct {
	ledger    *LedgerService
	accounts  *memory.AccountStore
	txns      *memory.TransactionStore
	recorder  *events.Recorder
	logBuffer *syncBuffer
}

func newMemoryFixture(t *testing.T, decorate repository.AccountDecorator, opts ...memory.TransactionOption) *memoryFixture {
	t.Helper()
	accounts := memory.NewAccountStore()
	txns := memory.NewTransactionStore(opts...)
	recorder := &events.Recorder{}
	logger, buf := bufferLogger()

	uow := memory.NewUnitOfWork(accounts, txns, decorate)
	return &memoryFixture{
		ledger:    NewLedgerService(uow, accounts, txns, recorder, logger),
		accounts:  accounts,
		txns:      txns,
		recorder:  recorder,
		logBuffer: buf,
	}
}

func (f *memoryFixture) seedAccount(t *testing.T, initial string) *models.Account {
	t.Helper()
	account := &models.Account{
		Email:          fmt.Sprintf("user%d@example.com", len(f.mustList(t))),
		FirstName:      "Test",
		LastName:       "User",
		Balance:        dec(initial),
		InitialBalance: dec(initial),
	}
	require.NoError(t, f.accounts.Create(context.Background(), account))
	return account
}

func (f *memoryFixture) mustList(t *testing.T) []models.Account {
	t.Helper()
	accounts, err := f.accounts.List(context.Background())
	require.NoError(t, err)
	return accounts
}

func (f *memoryFixture) balance(t *testing.T, account *models.Account) decimal.Decimal {
	t.Helper()
	stored, err := f.accounts.FindByID(context.Background(), account.ID)
	require.NoError(t, err)
	return stored.Balance
}

// atomicUnit runs a TxFunc against fixed repositories and claims atomicity
type atomicUnit struct {
	accounts repository.AccountRepository
	txns     repository.TransactionRepository
}

func (u *atomicUnit) WithinTx(ctx context.Context, fn repository.TxFunc) error {
	return fn(ctx, u.accounts, u.txns)
}

func (u *atomicUnit) Atomic() bool { return true }
