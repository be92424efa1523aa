/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the internal domain model from the external API contract, allowing:
  - Field renaming without breaking clients
  - API-specific validation
  - Version evolution

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients

AMOUNTS:
  Monetary values travel as decimal strings ("1500", "-1200.50") so the
  wire format stays exact; handlers parse them with shopspring/decimal.

VALIDATION:
  Validation is done in handlers, not in DTOs. DTOs are pure data carriers.

SEE ALSO:
  - handlers.go: Uses these types
*/
package api

import (
	"time"

	"github.com/warp/payables-engine/invoicing"
	"github.com/warp/payables-engine/payroll"
	"github.com/warp/payables-engine/store/sqlite"
)

// =============================================================================
// INVOICES
// =============================================================================

// InvoiceDTO represents an invoice in API responses.
type InvoiceDTO struct {
	ID          string `json:"id"`
	Amount      string `json:"amount"`
	Category    string `json:"category"`
	Supplier    string `json:"supplier"`
	BaseDueDate string `json:"base_due_date"`
}

// CreateInvoiceRequest creates an invoice. The category and base due date
// are derived server-side from the amount and the current terms.
type CreateInvoiceRequest struct {
	ID     string `json:"id"`
	Amount string `json:"amount"`
}

func toInvoiceDTO(inv invoicing.Invoice) InvoiceDTO {
	return InvoiceDTO{
		ID:          inv.ID,
		Amount:      inv.Amount.String(),
		Category:    string(inv.Category),
		Supplier:    inv.Category.DisplayName(),
		BaseDueDate: inv.BaseDueDate.UTC().Format(time.RFC3339),
	}
}

// =============================================================================
// EMPLOYEES
// =============================================================================

// EmployeeDTO represents an employee in API responses.
type EmployeeDTO struct {
	ID          string `json:"id"`
	TaxID       string `json:"tax_id"`
	BankAccount string `json:"bank_account"`
	BaseSalary  string `json:"base_salary"`
}

// CreateEmployeeRequest creates an employee payee record.
type CreateEmployeeRequest struct {
	ID          string `json:"id"`
	TaxID       string `json:"tax_id"`
	BankAccount string `json:"bank_account"`
	BaseSalary  string `json:"base_salary"`
}

func toEmployeeDTO(emp payroll.Employee) EmployeeDTO {
	return EmployeeDTO{
		ID:          emp.ID,
		TaxID:       emp.TaxID,
		BankAccount: emp.BankAccount,
		BaseSalary:  emp.BaseSalary.String(),
	}
}

// =============================================================================
// PAYMENTS
// =============================================================================

// PayRequest triggers a pay-invoice or pay-employee operation.
type PayRequest struct {
	PaymentMethod string `json:"payment_method"`
}

// PaymentDTO represents a payment intent in API responses. RecordID is
// the stored row id used to address the payment (get, transmit); ID is
// the domain payment id and repeats when the same payee is paid again.
type PaymentDTO struct {
	RecordID      string `json:"record_id"`
	ID            string `json:"id"`
	PaymentMethod string `json:"payment_method"`
	Amount        string `json:"amount"`
	Recipient     string `json:"recipient"`
	ScheduledAt   string `json:"scheduled_at"`
	Transmitted   bool   `json:"transmitted"`
}

func toPaymentRecordDTO(rec sqlite.PaymentRecord) PaymentDTO {
	return PaymentDTO{
		RecordID:      rec.ID,
		ID:            rec.PaymentID,
		PaymentMethod: rec.PaymentMethod,
		Amount:        rec.Amount.String(),
		Recipient:     rec.Recipient,
		ScheduledAt:   rec.ScheduledAt.UTC().Format(time.RFC3339),
		Transmitted:   rec.Transmitted,
	}
}

// TransmissionDTO represents a transmission receipt.
type TransmissionDTO struct {
	ID              string `json:"id"`
	PaymentRecordID string `json:"payment_record_id"`
	PaymentID       string `json:"payment_id"`
	PaymentMethod   string `json:"payment_method"`
	Amount          string `json:"amount"`
	Recipient       string `json:"recipient"`
	ScheduledAt     string `json:"scheduled_at"`
	TransmittedAt   string `json:"transmitted_at"`
}

func toTransmissionDTO(rec sqlite.TransmissionRecord) TransmissionDTO {
	return TransmissionDTO{
		ID:              rec.ID,
		PaymentRecordID: rec.PaymentRecordID,
		PaymentID:       rec.PaymentID,
		PaymentMethod:   rec.PaymentMethod,
		Amount:          rec.Amount.String(),
		Recipient:       rec.Recipient,
		ScheduledAt:     rec.ScheduledAt.UTC().Format(time.RFC3339),
		TransmittedAt:   rec.TransmittedAt.UTC().Format(time.RFC3339),
	}
}

// =============================================================================
// TREASURY
// =============================================================================

// TreasuryDTO represents the payer's cash position.
type TreasuryDTO struct {
	Balance string `json:"balance"`
}

// SetBalanceRequest replaces the payer's cash position.
type SetBalanceRequest struct {
	Balance string `json:"balance"`
}

// =============================================================================
// SCENARIOS
// =============================================================================

// ScenarioDTO describes a loadable demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// LoadScenarioRequest selects the scenario to load.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

// =============================================================================
// ERRORS
// =============================================================================

// ErrorResponse is the uniform error body.
type ErrorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}
