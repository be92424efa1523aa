package payroll

import (
	"context"

	"github.com/warp/payables-engine/payment"
)

// Service orchestrates payroll payments. It deliberately has no treasury
// dependency: the fixed-day rule does not look at the cash position.
type Service struct {
	Employees Repository
	Payments  payment.Store
	Terms     payment.Terms
	Clock     payment.Clock
}

// NewService wires a payroll payment orchestrator.
func NewService(employees Repository, payments payment.Store, terms payment.Terms, clock payment.Clock) *Service {
	return &Service{
		Employees: employees,
		Payments:  payments,
		Terms:     terms,
		Clock:     clock,
	}
}

// PayEmployee schedules and records a salary payment for the given
// employee. The payment id is the employee's tax identifier, not the raw
// employee id. Exactly one sink write on success, none on lookup failure.
func (s *Service) PayEmployee(ctx context.Context, employeeID, method string) (*payment.Payment, error) {
	emp, err := s.Employees.GetEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	scheduledAt := s.Terms.SchedulePayroll(s.Clock.Now())

	p := payment.New(emp.TaxID, method, ToPaymentData(*emp), scheduledAt)
	if err := s.Payments.Save(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}
