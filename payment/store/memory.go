// Package store provides in-memory implementations of the payment
// engine's persistence seams, for testing and development.
package store

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"
	"github.com/warp/payables-engine/payment"
)

// =============================================================================
// MEMORY STORE - In-memory payment sink (for testing/dev)
// =============================================================================

type Memory struct {
	mu       sync.RWMutex
	payments []*payment.Payment
}

func NewMemory() *Memory {
	return &Memory{}
}

// Save appends the payment to the in-memory ledger.
func (m *Memory) Save(_ context.Context, p *payment.Payment) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.payments = append(m.payments, p)
	return nil
}

// Payments returns the saved payments in save order.
func (m *Memory) Payments() []*payment.Payment {
	m.mu.RLock()
	defer m.mu.RUnlock()
	result := make([]*payment.Payment, len(m.payments))
	copy(result, m.payments)
	return result
}

// =============================================================================
// TREASURY - In-memory balance source
// =============================================================================

// Treasury holds the payer's cash position behind a lock so reads are
// atomic snapshots, as the BalanceSource contract requires.
type Treasury struct {
	mu      sync.RWMutex
	balance decimal.Decimal
}

func NewTreasury(balance decimal.Decimal) *Treasury {
	return &Treasury{balance: balance}
}

func (t *Treasury) CurrentBalance(_ context.Context) (decimal.Decimal, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.balance, nil
}

func (t *Treasury) SetBalance(balance decimal.Decimal) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.balance = balance
}
