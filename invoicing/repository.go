package invoicing

import (
	"context"
	"fmt"
	"sync"

	"github.com/warp/payables-engine/payment"
)

// =============================================================================
// REPOSITORY - Invoice lookup seam
// =============================================================================

// Repository is the invoice lookup collaborator. A missing invoice is
// reported as InvoiceNotFoundError; the orchestrator propagates it
// unchanged with no sink write.
type Repository interface {
	GetInvoice(ctx context.Context, id string) (*Invoice, error)
}

// InvoiceNotFoundError reports a failed invoice lookup.
type InvoiceNotFoundError struct {
	InvoiceID string
}

func (e *InvoiceNotFoundError) Error() string {
	return fmt.Sprintf("invoice %s: %v", e.InvoiceID, payment.ErrPayeeNotFound)
}

func (e *InvoiceNotFoundError) Unwrap() error {
	return payment.ErrPayeeNotFound
}

// =============================================================================
// MEMORY REPOSITORY - For testing/dev
// =============================================================================

type MemoryRepository struct {
	mu       sync.RWMutex
	invoices map[string]Invoice
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{invoices: make(map[string]Invoice)}
}

func (r *MemoryRepository) Put(inv Invoice) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.invoices[inv.ID] = inv
}

func (r *MemoryRepository) GetInvoice(_ context.Context, id string) (*Invoice, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	inv, ok := r.invoices[id]
	if !ok {
		return nil, &InvoiceNotFoundError{InvoiceID: id}
	}
	return &inv, nil
}
