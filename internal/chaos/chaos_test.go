package chaos

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/optima-platform/ledger/internal/repository/mocks"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestRoll_Bounds(t *testing.T) {
	for i := 0; i < 100; i++ {
		assert.False(t, Roll(0))
		assert.False(t, Roll(-1))
		assert.True(t, Roll(1))
		assert.True(t, Roll(2))
	}
}

func TestLatency(t *testing.T) {
	assert.Zero(t, Latency(0, 0))
	assert.Equal(t, 5*time.Millisecond, Latency(5, 5))
	assert.Equal(t, 5*time.Millisecond, Latency(5, 1))

	for i := 0; i < 100; i++ {
		d := Latency(10, 20)
		assert.GreaterOrEqual(t, d, 10*time.Millisecond)
		assert.Less(t, d, 20*time.Millisecond)
	}
}

func TestSleep_HonoursContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	Sleep(ctx, 5000, 5000)
	assert.Less(t, time.Since(start), time.Second)
}

func TestWrapAccounts(t *testing.T) {
	ctx := context.Background()
	id := uuid.New()

	t.Run("zero rate returns nil decorator", func(t *testing.T) {
		assert.Nil(t, WrapAccounts(0))
	})

	t.Run("always fails at rate one", func(t *testing.T) {
		inner := mocks.NewMockAccountRepository(t)
		wrapped := WrapAccounts(1)(inner)

		_, err := wrapped.AdjustBalance(ctx, id, decimal.NewFromInt(1))
		assert.ErrorIs(t, err, ErrInjected)
		inner.AssertNotCalled(t, "AdjustBalance", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("passes other calls through", func(t *testing.T) {
		inner := mocks.NewMockAccountRepository(t)
		inner.On("FindByID", ctx, id).Return(nil, assert.AnError)
		wrapped := WrapAccounts(1)(inner)

		_, err := wrapped.FindByID(ctx, id)
		require.ErrorIs(t, err, assert.AnError)
	})
}
