package invoicing_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/payables-engine/invoicing"
	"github.com/warp/payables-engine/payment"
	"github.com/warp/payables-engine/payment/store"
)

// =============================================================================
// TEST SETUP
// =============================================================================

func newTestService(balance decimal.Decimal) (*invoicing.Service, *invoicing.MemoryRepository, *store.Memory) {
	repo := invoicing.NewMemoryRepository()
	sink := store.NewMemory()
	svc := invoicing.NewService(
		repo,
		sink,
		store.NewTreasury(balance),
		payment.DefaultTerms(),
		payment.NewFixedClock(june1),
	)
	return svc, repo, sink
}

// =============================================================================
// PAY INVOICE
// =============================================================================

func TestService_PayInvoice_AutomotivePositiveBalance(t *testing.T) {
	// GIVEN: Clock fixed at 2025-06-01, invoice "124" for 1500, balance 1000
	// WHEN: Paying the invoice
	// THEN: One saved payment, recipient "Automotive Supplier", scheduled
	//       2025-06-20 (14 + 5 days)

	svc, repo, sink := newTestService(decimal.NewFromInt(1000))
	repo.Put(invoicing.New("124", decimal.NewFromInt(1500), june1, payment.DefaultTerms()))

	p, err := svc.PayInvoice(context.Background(), "124", "credit card")

	require.NoError(t, err)
	saved := sink.Payments()
	require.Len(t, saved, 1)
	assert.Same(t, p, saved[0])

	assert.Equal(t, "124", p.ID())
	assert.Equal(t, "credit card", p.Method())
	assert.Equal(t, "Automotive Supplier", p.Data().Recipient)
	assert.True(t, p.Data().Amount.Equal(decimal.NewFromInt(1500)))
	assert.Equal(t, time.Date(2025, time.June, 20, 0, 0, 0, 0, time.UTC), p.ScheduledAt())
	assert.False(t, p.Transmitted())
}

func TestService_PayInvoice_SoftwareNegativeBalance(t *testing.T) {
	// GIVEN: Clock fixed at 2025-06-01, invoice "123" for 600, balance -1200
	// WHEN: Paying the invoice
	// THEN: Base due 2025-06-15, remaining 14 days, scheduled 2025-06-29

	svc, repo, sink := newTestService(decimal.NewFromInt(-1200))
	repo.Put(invoicing.New("123", decimal.NewFromInt(600), june1, payment.DefaultTerms()))

	p, err := svc.PayInvoice(context.Background(), "123", "credit card")

	require.NoError(t, err)
	require.Len(t, sink.Payments(), 1)
	assert.Equal(t, "Software Supplier", p.Data().Recipient)
	assert.Equal(t, time.Date(2025, time.June, 29, 0, 0, 0, 0, time.UTC), p.ScheduledAt())
}

func TestService_PayInvoice_NotFound_NoSinkWrite(t *testing.T) {
	// GIVEN: An empty invoice repository
	// WHEN: Paying a missing invoice
	// THEN: The lookup error propagates unchanged and nothing is saved

	svc, _, sink := newTestService(decimal.NewFromInt(1000))

	p, err := svc.PayInvoice(context.Background(), "missing", "credit card")

	assert.Nil(t, p)
	assert.Error(t, err)
	assert.ErrorIs(t, err, payment.ErrPayeeNotFound)
	var nfErr *invoicing.InvoiceNotFoundError
	assert.ErrorAs(t, err, &nfErr)
	assert.Equal(t, "missing", nfErr.InvoiceID)
	assert.Empty(t, sink.Payments(), "no sink write on lookup failure")
}

func TestService_PayInvoice_BalanceReadPerCall(t *testing.T) {
	// GIVEN: A treasury whose balance flips negative between calls
	// WHEN: Paying the same kind of invoice twice
	// THEN: Each call schedules against the balance snapshot it took

	repo := invoicing.NewMemoryRepository()
	sink := store.NewMemory()
	treasury := store.NewTreasury(decimal.NewFromInt(1000))
	svc := invoicing.NewService(repo, sink, treasury, payment.DefaultTerms(), payment.NewFixedClock(june1))

	repo.Put(invoicing.New("123", decimal.NewFromInt(600), june1, payment.DefaultTerms()))
	repo.Put(invoicing.New("125", decimal.NewFromInt(600), june1, payment.DefaultTerms()))

	first, err := svc.PayInvoice(context.Background(), "123", "credit card")
	require.NoError(t, err)

	treasury.SetBalance(decimal.NewFromInt(-1200))

	second, err := svc.PayInvoice(context.Background(), "125", "credit card")
	require.NoError(t, err)

	assert.Equal(t, time.Date(2025, time.June, 15, 0, 0, 0, 0, time.UTC), first.ScheduledAt())
	assert.Equal(t, time.Date(2025, time.June, 29, 0, 0, 0, 0, time.UTC), second.ScheduledAt())
}
