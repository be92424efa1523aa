// Package payroll implements the employee payee domain.
// Payroll payments bypass the invoice term rules entirely: they land on a
// fixed day of the current month, regardless of cash position.
package payroll

import (
	"github.com/shopspring/decimal"
)

// Employee is an immutable payee record for a salaried employee.
// TaxID is the natural identifier payroll payments are keyed on; the raw
// employee id is an internal handle only.
type Employee struct {
	ID          string
	TaxID       string
	BankAccount string
	BaseSalary  decimal.Decimal
}
