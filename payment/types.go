/*
Package payment provides the core payables engine.

PURPOSE:
  This package contains payee-agnostic types and algorithms for scheduling
  outgoing payments. Whether paying a trade invoice or running payroll, the
  same engine computes the scheduled date, builds the payment intent, and
  guards the one-shot transmission to the external ledger.

KEY CONCEPTS IN THIS FILE (types.go):
  - Data: Normalized payment data (amount + recipient), the only thing the
    engine needs to know about a payee
  - Translator: How a payee variant becomes Data (one arm per variant,
    implemented in the domain packages)

DESIGN PRINCIPLES:
  1. Immutability: Payment fields are fixed at construction; only the
     transmitted flag ever changes, and only once
  2. Precision: Uses decimal.Decimal to avoid floating-point errors
  3. Purity: Term computation is a total function over its inputs; the
     clock is injected, never read from the wall
  4. Narrow coupling: Domain packages translate their payees into Data so
     downstream logic never sees invoice or employee field names

USAGE:
  data := invoicing.ToPaymentData(inv)
  due := terms.ScheduleInvoice(inv.BaseDueDate, inv.Category.Automotive(), balance, clock.Now())
  p := payment.New(inv.ID, "credit card", data, due)
  snapshot, err := p.Transmit()

SEE ALSO:
  - terms.go: Scheduled-date computation
  - payment.go: Payment entity and one-shot transmission
  - store.go: Sink and treasury interfaces
*/
package payment

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// DATA - Normalized payment data
// =============================================================================

// Data is what a payee variant normalizes to: how much, and to whom.
// Recipient semantics differ by variant (supplier display name for invoices,
// bank account identifier for employees). Produced once per payment and
// never mutated; Payment holds it by value.
type Data struct {
	Amount    decimal.Decimal
	Recipient string
}

// MustParseDecimal parses a decimal string, returning zero on failure.
// Use only for trusted literals (fixtures, defaults).
func MustParseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}
