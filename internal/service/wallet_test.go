package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/optima-platform/ledger/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testFees() FeeSchedule {
	return FeeSchedule{
		CryptoPercent:     dec("10"),
		BankPercent:       dec("2"),
		MinBankWithdrawal: dec("50"),
	}
}

func TestWalletService_QuoteFee(t *testing.T) {
	wallet := NewWalletService(nil, testFees(), testLogger())

	tests := []struct {
		name    string
		method  WithdrawalMethod
		amount  string
		fee     string
		net     string
		wantErr bool
	}{
		{name: "crypto", method: WithdrawalMethodCrypto, amount: "250", fee: "25", net: "225"},
		{name: "bank", method: WithdrawalMethodBank, amount: "1000", fee: "20", net: "980"},
		{name: "bank rounds to cents", method: WithdrawalMethodBank, amount: "50.55", fee: "1.01", net: "49.54"},
		{name: "unknown method", method: "card", amount: "10", wantErr: true},
		{name: "zero amount", method: WithdrawalMethodCrypto, amount: "0", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quote, err := wallet.QuoteFee(tt.method, dec(tt.amount))
			if tt.wantErr {
				assert.Equal(t, ErrCodeValidation, ErrorCode(err))
				return
			}
			require.NoError(t, err)
			assert.True(t, quote.Fee.Equal(dec(tt.fee)), "fee %s", quote.Fee)
			assert.True(t, quote.Net.Equal(dec(tt.net)), "net %s", quote.Net)
			assert.True(t, quote.Fee.Add(quote.Net).Equal(quote.Amount))
		})
	}
}

func TestWalletService_Deposit(t *testing.T) {
	ctx := context.Background()
	f := newMemoryFixture(t, nil)
	wallet := NewWalletService(f.ledger, testFees(), testLogger())
	account := f.seedAccount(t, "0")

	result, err := wallet.Deposit(ctx, DepositRequest{AccountID: account.ID, Amount: dec("150"), Currency: "usdt"})
	require.NoError(t, err)

	txn := result.Transaction
	assert.Equal(t, models.DirectionCredit, txn.Direction)
	assert.Equal(t, models.TransactionStatusPending, txn.Status)
	assert.Equal(t, "Deposit 150.00 USDT", txn.Description)
	assert.Equal(t, "USDT", txn.Metadata[models.MetaCurrency])
	assert.True(t, f.balance(t, account).IsZero(), "pending deposit has no effect")

	_, err = wallet.Deposit(ctx, DepositRequest{AccountID: account.ID, Amount: dec("1"), Currency: " "})
	assert.Equal(t, ErrCodeValidation, ErrorCode(err))
}

func TestWalletService_Withdraw(t *testing.T) {
	ctx := context.Background()
	f := newMemoryFixture(t, nil)
	wallet := NewWalletService(f.ledger, testFees(), testLogger())
	account := f.seedAccount(t, "0")

	result, err := wallet.Withdraw(ctx, WithdrawRequest{
		AccountID:     account.ID,
		Amount:        dec("200"),
		Currency:      "BTC",
		WalletAddress: "bc1qexample",
	})
	require.NoError(t, err)

	txn := result.Transaction
	assert.Equal(t, models.DirectionDebit, txn.Direction)
	assert.Equal(t, models.TransactionStatusPending, txn.Status)
	assert.Equal(t, "Withdrawal 200.00 BTC to bc1qexample", txn.Description)
	assert.Equal(t, "20.00", txn.Metadata[models.MetaFee])
	assert.Equal(t, "180.00", txn.Metadata[models.MetaNetAmount])
	assert.True(t, txn.Amount.Equal(dec("200")), "gross amount is recorded")
	assert.True(t, f.balance(t, account).IsZero())

	_, err = wallet.Withdraw(ctx, WithdrawRequest{AccountID: account.ID, Amount: dec("5"), Currency: "BTC"})
	assert.Equal(t, ErrCodeValidation, ErrorCode(err))
}

func TestWalletService_BankWithdraw(t *testing.T) {
	ctx := context.Background()
	f := newMemoryFixture(t, nil)
	wallet := NewWalletService(f.ledger, testFees(), testLogger())
	account := f.seedAccount(t, "0")

	t.Run("records pending debit with masked account number", func(t *testing.T) {
		result, err := wallet.BankWithdraw(ctx, BankWithdrawRequest{
			AccountID:     account.ID,
			Amount:        dec("500"),
			AccountHolder: "Ada Lovelace",
			BankName:      "First Bank",
			AccountNumber: "1234 5678 9012",
			SwiftCode:     "fbnkus33",
		})
		require.NoError(t, err)

		txn := result.Transaction
		assert.Equal(t, "Bank withdrawal to First Bank - Ada Lovelace", txn.Description)
		assert.Equal(t, "9012", txn.Metadata[models.MetaAccountNumberLast4])
		assert.Equal(t, "FBNKUS33", txn.Metadata[models.MetaSwiftCode])
		assert.Equal(t, "10.00", txn.Metadata[models.MetaFee])
		for _, v := range txn.Metadata {
			assert.NotContains(t, v, "123456789012")
		}
		assert.Equal(t, models.TransactionStatusPending, txn.Status)
	})

	t.Run("below minimum", func(t *testing.T) {
		_, err := wallet.BankWithdraw(ctx, BankWithdrawRequest{
			AccountID:     account.ID,
			Amount:        dec("49.99"),
			AccountHolder: "Ada Lovelace",
			BankName:      "First Bank",
			AccountNumber: "12345678",
		})
		assert.Equal(t, ErrCodeValidation, ErrorCode(err))
	})

	t.Run("missing bank name", func(t *testing.T) {
		_, err := wallet.BankWithdraw(ctx, BankWithdrawRequest{
			AccountID:     account.ID,
			Amount:        dec("60"),
			AccountHolder: "Ada Lovelace",
			AccountNumber: "12345678",
		})
		assert.Equal(t, ErrCodeValidation, ErrorCode(err))
	})

	t.Run("unknown account", func(t *testing.T) {
		_, err := wallet.BankWithdraw(ctx, BankWithdrawRequest{
			AccountID:     uuid.New(),
			Amount:        dec("60"),
			AccountHolder: "Ada Lovelace",
			BankName:      "First Bank",
			AccountNumber: "12345678",
		})
		assert.Equal(t, ErrCodeAccountNotFound, ErrorCode(err))
	})
}
