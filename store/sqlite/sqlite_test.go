package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/payables-engine/invoicing"
	"github.com/warp/payables-engine/payment"
	"github.com/warp/payables-engine/payroll"
	"github.com/warp/payables-engine/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

var june1 = time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)

func newTestStore(t *testing.T) *sqlite.Store {
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

// =============================================================================
// INVOICES
// =============================================================================

func TestStore_Invoice_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	inv := invoicing.New("124", decimal.NewFromInt(1500), june1, payment.DefaultTerms())
	require.NoError(t, store.SaveInvoice(ctx, inv))

	got, err := store.GetInvoice(ctx, "124")
	require.NoError(t, err)

	assert.Equal(t, "124", got.ID)
	assert.True(t, got.Amount.Equal(decimal.NewFromInt(1500)))
	assert.Equal(t, invoicing.CategoryAutomotive, got.Category)
	assert.True(t, got.BaseDueDate.Equal(inv.BaseDueDate))
}

func TestStore_GetInvoice_Missing(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetInvoice(context.Background(), "missing")

	assert.ErrorIs(t, err, payment.ErrPayeeNotFound)
	var nfErr *invoicing.InvoiceNotFoundError
	assert.ErrorAs(t, err, &nfErr)
	assert.Equal(t, "missing", nfErr.InvoiceID)
}

func TestStore_ListInvoices_OrderedByID(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, id := range []string{"125", "123", "124"} {
		inv := invoicing.New(id, decimal.NewFromInt(600), june1, payment.DefaultTerms())
		require.NoError(t, store.SaveInvoice(ctx, inv))
	}

	invoices, err := store.ListInvoices(ctx)
	require.NoError(t, err)
	require.Len(t, invoices, 3)
	assert.Equal(t, "123", invoices[0].ID)
	assert.Equal(t, "125", invoices[2].ID)
}

// =============================================================================
// EMPLOYEES
// =============================================================================

func TestStore_Employee_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	emp := payroll.Employee{
		ID:          "124",
		TaxID:       "9900223341124",
		BankAccount: "1234000056780000124",
		BaseSalary:  decimal.NewFromInt(12000),
	}
	require.NoError(t, store.SaveEmployee(ctx, emp))

	got, err := store.GetEmployee(ctx, "124")
	require.NoError(t, err)

	assert.Equal(t, "9900223341124", got.TaxID)
	assert.Equal(t, "1234000056780000124", got.BankAccount)
	assert.True(t, got.BaseSalary.Equal(decimal.NewFromInt(12000)))
}

func TestStore_GetEmployee_Missing(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetEmployee(context.Background(), "missing")

	assert.ErrorIs(t, err, payment.ErrPayeeNotFound)
	var nfErr *payroll.EmployeeNotFoundError
	assert.ErrorAs(t, err, &nfErr)
}

// =============================================================================
// PAYMENTS + TRANSMISSIONS
// =============================================================================

// savedPayment saves a payment for invoice "124" and returns its stored
// record.
func savedPayment(t *testing.T, store *sqlite.Store) *sqlite.PaymentRecord {
	t.Helper()
	p := payment.New("124", "credit card", payment.Data{
		Amount:    decimal.NewFromInt(1500),
		Recipient: "Automotive Supplier",
	}, time.Date(2025, time.June, 20, 0, 0, 0, 0, time.UTC))
	require.NoError(t, store.Save(context.Background(), p))

	rec, err := store.LatestPayment(context.Background(), p.ID())
	require.NoError(t, err)
	return rec
}

func TestStore_Payment_RoundTrip(t *testing.T) {
	store := newTestStore(t)
	saved := savedPayment(t, store)

	rec, err := store.GetPayment(context.Background(), saved.ID)
	require.NoError(t, err)

	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, "124", rec.PaymentID)
	assert.Equal(t, "credit card", rec.PaymentMethod)
	assert.True(t, rec.Amount.Equal(decimal.NewFromInt(1500)))
	assert.Equal(t, "Automotive Supplier", rec.Recipient)
	assert.True(t, rec.ScheduledAt.Equal(time.Date(2025, time.June, 20, 0, 0, 0, 0, time.UTC)))
	assert.False(t, rec.Transmitted)
}

func TestStore_GetPayment_Missing(t *testing.T) {
	store := newTestStore(t)

	_, err := store.GetPayment(context.Background(), "missing")

	assert.ErrorIs(t, err, payment.ErrPaymentNotFound)
}

func TestStore_LatestPayment_Missing(t *testing.T) {
	store := newTestStore(t)

	_, err := store.LatestPayment(context.Background(), "missing")

	assert.ErrorIs(t, err, payment.ErrPaymentNotFound)
}

func TestStore_Save_RepeatPaymentsAppend(t *testing.T) {
	// GIVEN: The same invoice paid twice
	store := newTestStore(t)
	ctx := context.Background()
	first := savedPayment(t, store)
	second := savedPayment(t, store)

	// THEN: Both rows exist under their own record ids
	require.NotEqual(t, first.ID, second.ID)

	records, err := store.ListPayments(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "124", records[0].PaymentID)
	assert.Equal(t, "124", records[1].PaymentID)

	// AND: Each transmits independently, exactly once
	_, err = store.MarkTransmitted(ctx, first.ID)
	require.NoError(t, err)
	_, err = store.MarkTransmitted(ctx, second.ID)
	require.NoError(t, err)
	_, err = store.MarkTransmitted(ctx, first.ID)
	assert.ErrorIs(t, err, payment.ErrAlreadyTransmitted)

	receipts, err := store.ListTransmissions(ctx)
	require.NoError(t, err)
	assert.Len(t, receipts, 2)
}

func TestStore_MarkTransmitted_WritesReceipt(t *testing.T) {
	// GIVEN: A stored pending payment
	// WHEN: Marking it transmitted
	// THEN: A receipt with a fresh id mirrors the payment, and the stored
	//       flag flips

	store := newTestStore(t)
	saved := savedPayment(t, store)
	ctx := context.Background()

	receipt, err := store.MarkTransmitted(ctx, saved.ID)
	require.NoError(t, err)

	assert.NotEmpty(t, receipt.ID)
	assert.Equal(t, saved.ID, receipt.PaymentRecordID)
	assert.Equal(t, "124", receipt.PaymentID)
	assert.Equal(t, "credit card", receipt.PaymentMethod)
	assert.Equal(t, "Automotive Supplier", receipt.Recipient)
	assert.True(t, receipt.Amount.Equal(decimal.NewFromInt(1500)))

	rec, err := store.GetPayment(ctx, saved.ID)
	require.NoError(t, err)
	assert.True(t, rec.Transmitted)

	receipts, err := store.ListTransmissions(ctx)
	require.NoError(t, err)
	require.Len(t, receipts, 1)
	assert.Equal(t, receipt.ID, receipts[0].ID)
}

func TestStore_MarkTransmitted_SecondCallFails(t *testing.T) {
	// GIVEN: A payment that was already transmitted
	// WHEN: Marking it transmitted again
	// THEN: AlreadyTransmittedError, no second receipt, state unchanged

	store := newTestStore(t)
	saved := savedPayment(t, store)
	ctx := context.Background()

	_, err := store.MarkTransmitted(ctx, saved.ID)
	require.NoError(t, err)

	_, err = store.MarkTransmitted(ctx, saved.ID)
	assert.ErrorIs(t, err, payment.ErrAlreadyTransmitted)
	var atErr *payment.AlreadyTransmittedError
	assert.ErrorAs(t, err, &atErr)
	assert.Equal(t, "124", atErr.PaymentID)

	receipts, err := store.ListTransmissions(ctx)
	require.NoError(t, err)
	assert.Len(t, receipts, 1, "exactly one receipt after a double transmit attempt")
}

func TestStore_MarkTransmitted_MissingPayment(t *testing.T) {
	store := newTestStore(t)

	_, err := store.MarkTransmitted(context.Background(), "missing")

	assert.ErrorIs(t, err, payment.ErrPaymentNotFound)
}

// =============================================================================
// TREASURY
// =============================================================================

func TestStore_Treasury_DefaultsToZero(t *testing.T) {
	store := newTestStore(t)

	balance, err := store.CurrentBalance(context.Background())

	require.NoError(t, err)
	assert.True(t, balance.IsZero())
}

func TestStore_Treasury_SetAndRead(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SetBalance(ctx, decimal.NewFromInt(-1200)))

	balance, err := store.CurrentBalance(ctx)
	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.NewFromInt(-1200)))

	// Overwrite
	require.NoError(t, store.SetBalance(ctx, decimal.NewFromInt(1000)))
	balance, err = store.CurrentBalance(ctx)
	require.NoError(t, err)
	assert.True(t, balance.Equal(decimal.NewFromInt(1000)))
}

// =============================================================================
// RESET
// =============================================================================

func TestStore_Reset_ClearsEverything(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.SaveInvoice(ctx, invoicing.New("123", decimal.NewFromInt(600), june1, payment.DefaultTerms())))
	savedPayment(t, store)
	require.NoError(t, store.SetBalance(ctx, decimal.NewFromInt(500)))

	require.NoError(t, store.Reset(ctx))

	invoices, err := store.ListInvoices(ctx)
	require.NoError(t, err)
	assert.Empty(t, invoices)

	payments, err := store.ListPayments(ctx)
	require.NoError(t, err)
	assert.Empty(t, payments)

	balance, err := store.CurrentBalance(ctx)
	require.NoError(t, err)
	assert.True(t, balance.IsZero())
}
