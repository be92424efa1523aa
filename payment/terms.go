/*
terms.go - Payment term policy

PURPOSE:
  Computes the scheduled date for a payment. This is the only decision
  logic in the engine: everything else is data lookup and plumbing.

THE RULES (invoices, applied in this order):
  1. Start from the base due date (invoice creation + standard term).
  2. Automotive-category suppliers get a fixed grace extension.
  3. If the payer's cash balance is negative, the grace result is
     discarded: the remaining runway to the ORIGINAL base due date is
     doubled, measured from now. Rule 3 wins outright over rule 2 -
     the two adjustments never compose.

PAYROLL:
  Employee payments ignore all of the above. They land on a fixed day
  of the current month, regardless of balance or category.

EDGE CASES:
  - Base due date already passed with a negative balance: the doubled
    runway is negative, so the schedule lands in the past. No clamping.
  - Balance exactly zero is non-negative; rule 3 does not trigger.

PURITY:
  ScheduleInvoice and SchedulePayroll are total functions of their
  arguments. The caller supplies "now" from an injected Clock, and the
  balance is a snapshot taken once at the start of term computation.

SEE ALSO:
  - factory/terms.go: JSON configuration for the knobs below
  - clock.go: The injected time source
*/
package payment

import (
	"time"

	"github.com/shopspring/decimal"
)

// =============================================================================
// TERMS - Configurable scheduling knobs
// =============================================================================

// Terms holds the payment-term policy configuration. The zero value is not
// useful; start from DefaultTerms or the factory package.
type Terms struct {
	// StandardTermDays is the interval between invoice creation and its
	// base due date.
	StandardTermDays int

	// AutomotiveGraceDays is the fixed extension granted to
	// automotive-category suppliers.
	AutomotiveGraceDays int

	// AutomotiveThreshold is the invoice amount above which a supplier is
	// categorized as automotive. The threshold is exclusive: an amount
	// equal to it stays in the software category.
	AutomotiveThreshold decimal.Decimal

	// PayrollDayOfMonth is the day of the current month payroll payments
	// are scheduled on.
	PayrollDayOfMonth int
}

// DefaultTerms returns the standard policy: net 14, 5 grace days for
// automotive suppliers above 1000, payroll on the 10th.
func DefaultTerms() Terms {
	return Terms{
		StandardTermDays:    14,
		AutomotiveGraceDays: 5,
		AutomotiveThreshold: decimal.NewFromInt(1000),
		PayrollDayOfMonth:   10,
	}
}

// StandardTerm returns the base term as a duration.
func (t Terms) StandardTerm() time.Duration {
	return time.Duration(t.StandardTermDays) * 24 * time.Hour
}

// AutomotiveGrace returns the grace extension as a duration.
func (t Terms) AutomotiveGrace() time.Duration {
	return time.Duration(t.AutomotiveGraceDays) * 24 * time.Hour
}

// Automotive reports whether an invoice amount falls in the automotive
// supplier category.
func (t Terms) Automotive(amount decimal.Decimal) bool {
	return amount.GreaterThan(t.AutomotiveThreshold)
}

// =============================================================================
// SCHEDULING
// =============================================================================

// ScheduleInvoice computes the scheduled date for an invoice payment.
//
// baseDue is the invoice's base due date, automotive the supplier category
// flag, balance the payer's cash position snapshot, and now the injected
// current time. See the file header for the rule ordering.
func (t Terms) ScheduleInvoice(baseDue time.Time, automotive bool, balance decimal.Decimal, now time.Time) time.Time {
	due := baseDue
	if automotive {
		due = baseDue.Add(t.AutomotiveGrace())
	}
	if balance.IsNegative() {
		// Doubled runway is measured against the original base due date,
		// not the grace-extended one. May land in the past; no clamping.
		remaining := baseDue.Sub(now)
		due = now.Add(2 * remaining)
	}
	return due
}

// SchedulePayroll computes the scheduled date for a payroll payment: the
// configured day of the current month, at midnight UTC. Balance and
// supplier category are deliberately not inputs.
func (t Terms) SchedulePayroll(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), t.PayrollDayOfMonth, 0, 0, 0, 0, time.UTC)
}
