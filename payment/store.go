/*
store.go - Sink and treasury interfaces

PURPOSE:
  Defines the seams between the engine and its collaborators. The engine
  computes and constructs; persistence of payments and the payer's cash
  position live behind these interfaces.

IMPLEMENTATIONS:
  - store/sqlite: Production SQLite-backed store and treasury
  - payment/store: In-memory implementations for testing and demos

SEE ALSO:
  - invoicing/service.go, payroll/service.go: The orchestrators that
    call Save exactly once per successful pay operation
*/
package payment

import (
	"context"

	"github.com/shopspring/decimal"
)

// =============================================================================
// STORE - Payment sink
// =============================================================================

// Store is the external ledger a constructed payment is handed to.
// Save is expected to succeed synchronously from the engine's point of
// view; retry and backpressure are the sink's concern, not the engine's.
type Store interface {
	Save(ctx context.Context, p *Payment) error
}

// =============================================================================
// BALANCE SOURCE - Payer cash position
// =============================================================================

// BalanceSource supplies the payer's current cash balance. CurrentBalance
// must return an atomic snapshot: term computation reads it exactly once
// and never observes a partial update.
type BalanceSource interface {
	CurrentBalance(ctx context.Context) (decimal.Decimal, error)
}
