// Package chaos injects latency and failures for resilience testing.
package chaos

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"

	"github.com/google/uuid"
	"github.com/optima-platform/ledger/internal/repository"
	"github.com/shopspring/decimal"
)

// ErrInjected marks a failure produced by fault injection
var ErrInjected = errors.New("injected failure")

// Roll reports true with the given probability
func Roll(rate float64) bool {
	if rate <= 0 {
		return false
	}
	if rate >= 1 {
		return true
	}

	const precision = 1000000
	n, err := rand.Int(rand.Reader, big.NewInt(precision))
	if err != nil {
		return false
	}

	return n.Int64() < int64(rate*precision)
}

// Latency picks a delay in [minMS, maxMS)
func Latency(minMS, maxMS int) time.Duration {
	if minMS <= 0 && maxMS <= 0 {
		return 0
	}

	rangeMS := maxMS - minMS
	if rangeMS <= 0 {
		return time.Duration(minMS) * time.Millisecond
	}

	offset, err := rand.Int(rand.Reader, big.NewInt(int64(rangeMS)))
	if err != nil {
		return time.Duration(minMS) * time.Millisecond
	}

	return time.Duration(minMS+int(offset.Int64())) * time.Millisecond
}

// Sleep waits for a random latency or until ctx is done
func Sleep(ctx context.Context, minMS, maxMS int) {
	d := Latency(minMS, maxMS)
	if d <= 0 {
		return
	}

	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

// FaultyAccounts fails AdjustBalance at the configured rate. Other calls pass
// through unchanged.
type FaultyAccounts struct {
	repository.AccountRepository
	rate float64
}

// WrapAccounts returns a repository.AccountDecorator failing balance writes at rate
func WrapAccounts(rate float64) repository.AccountDecorator {
	if rate <= 0 {
		return nil
	}
	return func(inner repository.AccountRepository) repository.AccountRepository {
		return &FaultyAccounts{AccountRepository: inner, rate: rate}
	}
}

func (f *FaultyAccounts) AdjustBalance(ctx context.Context, id uuid.UUID, delta decimal.Decimal) (decimal.Decimal, error) {
	if Roll(f.rate) {
		return decimal.Zero, fmt.Errorf("adjust balance for %s: %w", id, ErrInjected)
	}
	return f.AccountRepository.AdjustBalance(ctx, id, delta)
}
