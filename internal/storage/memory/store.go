// Package memory holds in-process stores used for local runs and tests.
// Account balances and transactions live in separate stores, so a unit of
// work over them is not atomic.
package memory

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/optima-platform/ledger/internal/models"
	"github.com/optima-platform/ledger/internal/repository"
	"github.com/shopspring/decimal"
)

// Clock returns the current time
type Clock func() time.Time

// AccountStore is an in-memory repository.AccountRepository
type AccountStore struct {
	mu       sync.Mutex
	accounts map[uuid.UUID]models.Account
	byEmail  map[string]uuid.UUID
	now      Clock
}

// NewAccountStore creates an empty AccountStore
func NewAccountStore() *AccountStore {
	return &AccountStore{
		accounts: make(map[uuid.UUID]models.Account),
		byEmail:  make(map[string]uuid.UUID),
		now:      time.Now,
	}
}

// PingContext always succeeds; the store lives in process
func (s *AccountStore) PingContext(_ context.Context) error {
	return nil
}

func (s *AccountStore) Create(_ context.Context, account *models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	account.Email = strings.ToLower(strings.TrimSpace(account.Email))
	if _, exists := s.byEmail[account.Email]; exists {
		return fmt.Errorf("account %s: %w", account.Email, models.ErrDuplicateAccount)
	}
	if account.ID == uuid.Nil {
		account.ID = uuid.New()
	}
	now := s.now()
	account.CreatedAt = now
	account.UpdatedAt = now

	s.accounts[account.ID] = *account
	s.byEmail[account.Email] = account.ID
	return nil
}

func (s *AccountStore) FindByID(_ context.Context, id uuid.UUID) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accounts[id]
	if !ok {
		return nil, fmt.Errorf("account %s: %w", id, models.ErrNotFound)
	}
	return &account, nil
}

func (s *AccountStore) FindByEmail(_ context.Context, email string) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id, ok := s.byEmail[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return nil, fmt.Errorf("account %s: %w", email, models.ErrNotFound)
	}
	account := s.accounts[id]
	return &account, nil
}

func (s *AccountStore) List(_ context.Context) ([]models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	accounts := make([]models.Account, 0, len(s.accounts))
	for _, account := range s.accounts {
		accounts = append(accounts, account)
	}
	sort.Slice(accounts, func(i, j int) bool {
		if accounts[i].CreatedAt.Equal(accounts[j].CreatedAt) {
			return accounts[i].Email < accounts[j].Email
		}
		return accounts[i].CreatedAt.After(accounts[j].CreatedAt)
	})
	return accounts, nil
}

// AdjustBalance applies delta under the store lock, so concurrent
// adjustments never lose an update.
func (s *AccountStore) AdjustBalance(_ context.Context, id uuid.UUID, delta decimal.Decimal) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	account, ok := s.accounts[id]
	if !ok {
		return decimal.Zero, fmt.Errorf("account %s: %w", id, models.ErrNotFound)
	}
	account.Balance = account.Balance.Add(delta)
	account.UpdatedAt = s.now()
	s.accounts[id] = account
	return account.Balance, nil
}

type storedTransaction struct {
	txn models.Transaction
	seq uint64
}

// TransactionStore is an append-only in-memory repository.TransactionRepository
type TransactionStore struct {
	mu      sync.Mutex
	entries []storedTransaction
	byID    map[uuid.UUID]int
	byKey   map[string]int
	seq     uint64
	now     Clock
}

// TransactionOption configures a TransactionStore
type TransactionOption func(*TransactionStore)

// WithClock overrides the clock used to stamp CreatedAt
func WithClock(clock Clock) TransactionOption {
	return func(s *TransactionStore) { s.now = clock }
}

// NewTransactionStore creates an empty TransactionStore
func NewTransactionStore(opts ...TransactionOption) *TransactionStore {
	s := &TransactionStore{
		byID:  make(map[uuid.UUID]int),
		byKey: make(map[string]int),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func idempotencyIndex(accountID uuid.UUID, key string) string {
	return accountID.String() + "/" + key
}

func (s *TransactionStore) Create(_ context.Context, txn *models.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if txn.IdempotencyKey != nil {
		if _, exists := s.byKey[idempotencyIndex(txn.AccountID, *txn.IdempotencyKey)]; exists {
			return fmt.Errorf("transaction for account %s: %w", txn.AccountID, models.ErrDuplicateTransaction)
		}
	}
	if txn.ID == uuid.Nil {
		txn.ID = uuid.New()
	}
	txn.CreatedAt = s.now()

	s.seq++
	stored := *txn
	stored.Metadata = copyMetadata(txn.Metadata)
	s.entries = append(s.entries, storedTransaction{txn: stored, seq: s.seq})
	idx := len(s.entries) - 1
	s.byID[txn.ID] = idx
	if txn.IdempotencyKey != nil {
		s.byKey[idempotencyIndex(txn.AccountID, *txn.IdempotencyKey)] = idx
	}
	return nil
}

func (s *TransactionStore) FindByID(_ context.Context, id uuid.UUID) (*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, ok := s.byID[id]
	if !ok {
		return nil, fmt.Errorf("transaction %s: %w", id, models.ErrNotFound)
	}
	return s.clone(idx), nil
}

func (s *TransactionStore) FindByIdempotencyKey(_ context.Context, accountID uuid.UUID, key string) (*models.Transaction, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	idx, ok := s.byKey[idempotencyIndex(accountID, key)]
	if !ok {
		return nil, fmt.Errorf("transaction with key %q: %w", key, models.ErrNotFound)
	}
	return s.clone(idx), nil
}

// List returns matching transactions ordered by CreatedAt descending, with
// later insertions first on ties.
func (s *TransactionStore) List(_ context.Context, filter repository.TransactionFilter) ([]models.Transaction, error) {
	s.mu.Lock()
	matched := make([]storedTransaction, 0, len(s.entries))
	search := strings.ToLower(strings.TrimSpace(filter.Search))
	for _, entry := range s.entries {
		if matches(entry.txn, filter, search) {
			matched = append(matched, entry)
		}
	}
	s.mu.Unlock()

	sort.SliceStable(matched, func(i, j int) bool {
		a, b := matched[i], matched[j]
		if !a.txn.CreatedAt.Equal(b.txn.CreatedAt) {
			return a.txn.CreatedAt.After(b.txn.CreatedAt)
		}
		return a.seq > b.seq
	})

	if filter.Offset > 0 {
		if filter.Offset >= len(matched) {
			matched = nil
		} else {
			matched = matched[filter.Offset:]
		}
	}
	if filter.Limit > 0 && filter.Limit < len(matched) {
		matched = matched[:filter.Limit]
	}

	out := make([]models.Transaction, 0, len(matched))
	for _, entry := range matched {
		txn := entry.txn
		txn.Metadata = copyMetadata(txn.Metadata)
		out = append(out, txn)
	}
	return out, nil
}

func (s *TransactionStore) SumBalanceEffects(_ context.Context, accountID uuid.UUID) (decimal.Decimal, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	total := decimal.Zero
	for _, entry := range s.entries {
		if entry.txn.AccountID == accountID {
			total = total.Add(entry.txn.BalanceEffect())
		}
	}
	return total, nil
}

func (s *TransactionStore) clone(idx int) *models.Transaction {
	txn := s.entries[idx].txn
	txn.Metadata = copyMetadata(txn.Metadata)
	return &txn
}

func matches(txn models.Transaction, filter repository.TransactionFilter, search string) bool {
	if filter.AccountID != nil && txn.AccountID != *filter.AccountID {
		return false
	}
	if filter.Status != "" && txn.Status != filter.Status {
		return false
	}
	if search == "" {
		return true
	}
	return strings.Contains(strings.ToLower(txn.Description), search) ||
		strings.Contains(txn.ID.String(), search) ||
		strings.Contains(strings.ToLower(txn.Metadata[models.MetaCurrency]), search)
}

func copyMetadata(in map[string]string) map[string]string {
	if in == nil {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

var (
	_ repository.AccountRepository     = (*AccountStore)(nil)
	_ repository.TransactionRepository = (*TransactionStore)(nil)
)
