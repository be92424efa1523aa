/*
service.go - Invoice payment orchestration

PURPOSE:
  Sequences the pay-invoice flow: lookup -> balance snapshot -> term
  computation -> translation -> payment construction -> sink save.

GUARANTEES:
  - Exactly one sink write per successful call
  - No sink write on any lookup or balance failure; those errors
    propagate unchanged
  - The balance is read once, before term computation, and treated as
    an atomic snapshot for the rest of the call

SEE ALSO:
  - payroll/service.go: The payroll counterpart (fixed-day rule)
  - payment/terms.go: The scheduling rules applied here
*/
package invoicing

import (
	"context"

	"github.com/warp/payables-engine/payment"
)

// Service orchestrates invoice payments.
type Service struct {
	Invoices Repository
	Payments payment.Store
	Treasury payment.BalanceSource
	Terms    payment.Terms
	Clock    payment.Clock
}

// NewService wires an invoice payment orchestrator.
func NewService(invoices Repository, payments payment.Store, treasury payment.BalanceSource, terms payment.Terms, clock payment.Clock) *Service {
	return &Service{
		Invoices: invoices,
		Payments: payments,
		Treasury: treasury,
		Terms:    terms,
		Clock:    clock,
	}
}

// PayInvoice schedules and records a payment for the given invoice.
// The payment id is the invoice id. The returned payment is pending;
// transmission is a separate, one-shot step.
func (s *Service) PayInvoice(ctx context.Context, invoiceID, method string) (*payment.Payment, error) {
	inv, err := s.Invoices.GetInvoice(ctx, invoiceID)
	if err != nil {
		return nil, err
	}

	balance, err := s.Treasury.CurrentBalance(ctx)
	if err != nil {
		return nil, err
	}

	scheduledAt := s.Terms.ScheduleInvoice(inv.BaseDueDate, inv.Category.Automotive(), balance, s.Clock.Now())

	p := payment.New(inv.ID, method, ToPaymentData(*inv), scheduledAt)
	if err := s.Payments.Save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}
