package payroll_test

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/payables-engine/payment"
	"github.com/warp/payables-engine/payment/store"
	"github.com/warp/payables-engine/payroll"
)

// =============================================================================
// TEST SETUP
// =============================================================================

var june1 = time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)

func testEmployee(id string) payroll.Employee {
	return payroll.Employee{
		ID:          id,
		TaxID:       "9900223341" + id,
		BankAccount: "1234000056780000" + id,
		BaseSalary:  decimal.NewFromInt(12000),
	}
}

func newTestService() (*payroll.Service, *payroll.MemoryRepository, *store.Memory) {
	repo := payroll.NewMemoryRepository()
	sink := store.NewMemory()
	svc := payroll.NewService(repo, sink, payment.DefaultTerms(), payment.NewFixedClock(june1))
	return svc, repo, sink
}

// =============================================================================
// PAY EMPLOYEE
// =============================================================================

func TestService_PayEmployee_FixedDayOfMonth(t *testing.T) {
	// GIVEN: Clock fixed at 2025-06-01 and employee "124"
	// WHEN: Paying the employee
	// THEN: One saved payment keyed on the TAX identifier, recipient is
	//       the bank account, amount the base salary, scheduled on the 10th

	svc, repo, sink := newTestService()
	repo.Put(testEmployee("124"))

	p, err := svc.PayEmployee(context.Background(), "124", "bank transfer")

	require.NoError(t, err)
	saved := sink.Payments()
	require.Len(t, saved, 1)
	assert.Same(t, p, saved[0])

	assert.Equal(t, "9900223341124", p.ID(), "payment id is the tax identifier, not the employee id")
	assert.Equal(t, "bank transfer", p.Method())
	assert.Equal(t, "1234000056780000124", p.Data().Recipient)
	assert.True(t, p.Data().Amount.Equal(decimal.NewFromInt(12000)))
	assert.Equal(t, time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC), p.ScheduledAt())
	assert.False(t, p.Transmitted())
}

func TestService_PayEmployee_ScheduleIgnoresEmployeeData(t *testing.T) {
	// GIVEN: Two employees with very different salaries
	// WHEN: Paying both
	// THEN: Both land on the same fixed day

	svc, repo, _ := newTestService()
	repo.Put(testEmployee("123"))
	rich := testEmployee("125")
	rich.BaseSalary = decimal.NewFromInt(250000)
	repo.Put(rich)

	p1, err := svc.PayEmployee(context.Background(), "123", "bank transfer")
	require.NoError(t, err)
	p2, err := svc.PayEmployee(context.Background(), "125", "bank transfer")
	require.NoError(t, err)

	assert.Equal(t, p1.ScheduledAt(), p2.ScheduledAt())
	assert.Equal(t, time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC), p1.ScheduledAt())
}

func TestService_PayEmployee_NotFound_NoSinkWrite(t *testing.T) {
	// GIVEN: An empty employee repository
	// WHEN: Paying a missing employee
	// THEN: The lookup error propagates unchanged and nothing is saved

	svc, _, sink := newTestService()

	p, err := svc.PayEmployee(context.Background(), "missing", "bank transfer")

	assert.Nil(t, p)
	assert.ErrorIs(t, err, payment.ErrPayeeNotFound)
	var nfErr *payroll.EmployeeNotFoundError
	assert.ErrorAs(t, err, &nfErr)
	assert.Equal(t, "missing", nfErr.EmployeeID)
	assert.Empty(t, sink.Payments(), "no sink write on lookup failure")
}

// =============================================================================
// TRANSLATION
// =============================================================================

func TestToPaymentData_BankAccountAndSalary(t *testing.T) {
	emp := testEmployee("123")

	data := payroll.ToPaymentData(emp)

	assert.Equal(t, "1234000056780000123", data.Recipient)
	assert.True(t, data.Amount.Equal(decimal.NewFromInt(12000)))
}
