package payroll

import (
	"context"
	"fmt"
	"sync"

	"github.com/warp/payables-engine/payment"
)

// =============================================================================
// REPOSITORY - Employee lookup seam
// =============================================================================

// Repository is the employee lookup collaborator. A missing employee is
// reported as EmployeeNotFoundError; the orchestrator propagates it
// unchanged with no sink write.
type Repository interface {
	GetEmployee(ctx context.Context, id string) (*Employee, error)
}

// EmployeeNotFoundError reports a failed employee lookup.
type EmployeeNotFoundError struct {
	EmployeeID string
}

func (e *EmployeeNotFoundError) Error() string {
	return fmt.Sprintf("employee %s: %v", e.EmployeeID, payment.ErrPayeeNotFound)
}

func (e *EmployeeNotFoundError) Unwrap() error {
	return payment.ErrPayeeNotFound
}

// =============================================================================
// MEMORY REPOSITORY - For testing/dev
// =============================================================================

type MemoryRepository struct {
	mu        sync.RWMutex
	employees map[string]Employee
}

func NewMemoryRepository() *MemoryRepository {
	return &MemoryRepository{employees: make(map[string]Employee)}
}

func (r *MemoryRepository) Put(emp Employee) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.employees[emp.ID] = emp
}

func (r *MemoryRepository) GetEmployee(_ context.Context, id string) (*Employee, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	emp, ok := r.employees[id]
	if !ok {
		return nil, &EmployeeNotFoundError{EmployeeID: id}
	}
	return &emp, nil
}
