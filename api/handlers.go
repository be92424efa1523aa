/*
handlers.go - HTTP API handlers for the payables engine

PURPOSE:
  Exposes the payables engine via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to the orchestrators and store.

ENDPOINTS:
  Invoices:
    GET    /api/invoices               List all invoices
    POST   /api/invoices               Create invoice
    GET    /api/invoices/{id}          Get invoice details
    POST   /api/invoices/{id}/pay      Schedule a payment for the invoice

  Employees:
    GET    /api/employees              List all employees
    POST   /api/employees              Create employee
    GET    /api/employees/{id}         Get employee details
    POST   /api/employees/{id}/pay     Schedule a salary payment

  Payments (addressed by record id; the same payee paid twice yields
  two records sharing a payment id):
    GET    /api/payments               List payment intents
    GET    /api/payments/{id}          Get one payment intent
    POST   /api/payments/{id}/transmit One-shot transmission
    GET    /api/transmissions          List transmission receipts

  Treasury:
    GET    /api/treasury               Current cash position
    PUT    /api/treasury               Replace cash position

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Payee or payment not found
  - 409: Conflict (double transmission)
  - 500: Internal errors

SECURITY NOTE:
  Currently NO authentication or authorization. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo scenario loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"github.com/warp/payables-engine/invoicing"
	"github.com/warp/payables-engine/payment"
	"github.com/warp/payables-engine/payroll"
	"github.com/warp/payables-engine/store/sqlite"
)

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store *sqlite.Store
	Terms payment.Terms
	Clock payment.Clock

	invoices *invoicing.Service
	payroll  *payroll.Service

	// Track currently loaded scenario
	currentScenario string
}

// NewHandler creates a new handler. The store doubles as the payee
// repositories, the payment sink, and the treasury.
func NewHandler(store *sqlite.Store, terms payment.Terms, clock payment.Clock) *Handler {
	return &Handler{
		Store:    store,
		Terms:    terms,
		Clock:    clock,
		invoices: invoicing.NewService(store, store, store, terms, clock),
		payroll:  payroll.NewService(store, store, terms, clock),
	}
}

// =============================================================================
// INVOICE HANDLERS
// =============================================================================

// ListInvoices returns all invoices.
func (h *Handler) ListInvoices(w http.ResponseWriter, r *http.Request) {
	invoices, err := h.Store.ListInvoices(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list invoices", err)
		return
	}

	dtos := make([]InvoiceDTO, len(invoices))
	for i, inv := range invoices {
		dtos[i] = toInvoiceDTO(inv)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateInvoice creates a new invoice. Category and base due date are
// derived from the amount and the current terms.
func (h *Handler) CreateInvoice(w http.ResponseWriter, r *http.Request) {
	var req CreateInvoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.ID == "" {
		writeError(w, http.StatusBadRequest, "id is required", nil)
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid amount (use a decimal string)", err)
		return
	}
	if !amount.IsPositive() {
		writeError(w, http.StatusBadRequest, "Amount must be positive", nil)
		return
	}

	inv := invoicing.New(req.ID, amount, h.Clock.Now(), h.Terms)
	if err := h.Store.SaveInvoice(r.Context(), inv); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create invoice", err)
		return
	}
	writeJSON(w, http.StatusCreated, toInvoiceDTO(inv))
}

// GetInvoice returns a single invoice.
func (h *Handler) GetInvoice(w http.ResponseWriter, r *http.Request) {
	inv, err := h.Store.GetInvoice(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "Failed to get invoice", err)
		return
	}
	writeJSON(w, http.StatusOK, toInvoiceDTO(*inv))
}

// PayInvoice schedules a payment for an invoice.
func (h *Handler) PayInvoice(w http.ResponseWriter, r *http.Request) {
	method, ok := decodePayRequest(w, r)
	if !ok {
		return
	}

	p, err := h.invoices.PayInvoice(r.Context(), chi.URLParam(r, "id"), method)
	if err != nil {
		writeDomainError(w, "Failed to pay invoice", err)
		return
	}

	rec, err := h.Store.LatestPayment(r.Context(), p.ID())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load payment", err)
		return
	}
	writeJSON(w, http.StatusCreated, toPaymentRecordDTO(*rec))
}

// =============================================================================
// EMPLOYEE HANDLERS
// =============================================================================

// ListEmployees returns all employees.
func (h *Handler) ListEmployees(w http.ResponseWriter, r *http.Request) {
	employees, err := h.Store.ListEmployees(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list employees", err)
		return
	}

	dtos := make([]EmployeeDTO, len(employees))
	for i, emp := range employees {
		dtos[i] = toEmployeeDTO(emp)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateEmployee creates a new employee.
func (h *Handler) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	var req CreateEmployeeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.ID == "" || req.TaxID == "" || req.BankAccount == "" {
		writeError(w, http.StatusBadRequest, "id, tax_id and bank_account are required", nil)
		return
	}

	salary, err := decimal.NewFromString(req.BaseSalary)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid base_salary (use a decimal string)", err)
		return
	}
	if !salary.IsPositive() {
		writeError(w, http.StatusBadRequest, "base_salary must be positive", nil)
		return
	}

	emp := payroll.Employee{
		ID:          req.ID,
		TaxID:       req.TaxID,
		BankAccount: req.BankAccount,
		BaseSalary:  salary,
	}
	if err := h.Store.SaveEmployee(r.Context(), emp); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create employee", err)
		return
	}
	writeJSON(w, http.StatusCreated, toEmployeeDTO(emp))
}

// GetEmployee returns a single employee.
func (h *Handler) GetEmployee(w http.ResponseWriter, r *http.Request) {
	emp, err := h.Store.GetEmployee(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "Failed to get employee", err)
		return
	}
	writeJSON(w, http.StatusOK, toEmployeeDTO(*emp))
}

// PayEmployee schedules a salary payment for an employee.
func (h *Handler) PayEmployee(w http.ResponseWriter, r *http.Request) {
	method, ok := decodePayRequest(w, r)
	if !ok {
		return
	}

	p, err := h.payroll.PayEmployee(r.Context(), chi.URLParam(r, "id"), method)
	if err != nil {
		writeDomainError(w, "Failed to pay employee", err)
		return
	}

	rec, err := h.Store.LatestPayment(r.Context(), p.ID())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load payment", err)
		return
	}
	writeJSON(w, http.StatusCreated, toPaymentRecordDTO(*rec))
}

// =============================================================================
// PAYMENT HANDLERS
// =============================================================================

// ListPayments returns all payment intents, oldest first.
func (h *Handler) ListPayments(w http.ResponseWriter, r *http.Request) {
	records, err := h.Store.ListPayments(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list payments", err)
		return
	}

	dtos := make([]PaymentDTO, len(records))
	for i, rec := range records {
		dtos[i] = toPaymentRecordDTO(rec)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetPayment returns a single payment intent.
func (h *Handler) GetPayment(w http.ResponseWriter, r *http.Request) {
	rec, err := h.Store.GetPayment(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "Failed to get payment", err)
		return
	}
	writeJSON(w, http.StatusOK, toPaymentRecordDTO(*rec))
}

// TransmitPayment performs the one-shot transmission of a stored payment.
// A second call for the same payment gets 409 and changes nothing.
func (h *Handler) TransmitPayment(w http.ResponseWriter, r *http.Request) {
	receipt, err := h.Store.MarkTransmitted(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeDomainError(w, "Failed to transmit payment", err)
		return
	}
	writeJSON(w, http.StatusOK, toTransmissionDTO(*receipt))
}

// ListTransmissions returns all transmission receipts.
func (h *Handler) ListTransmissions(w http.ResponseWriter, r *http.Request) {
	receipts, err := h.Store.ListTransmissions(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list transmissions", err)
		return
	}

	dtos := make([]TransmissionDTO, len(receipts))
	for i, rec := range receipts {
		dtos[i] = toTransmissionDTO(rec)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// TREASURY HANDLERS
// =============================================================================

// GetBalance returns the payer's cash position.
func (h *Handler) GetBalance(w http.ResponseWriter, r *http.Request) {
	balance, err := h.Store.CurrentBalance(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to read balance", err)
		return
	}
	writeJSON(w, http.StatusOK, TreasuryDTO{Balance: balance.String()})
}

// SetBalance replaces the payer's cash position. Negative balances are
// legal; they trigger the runway-doubling rule on subsequent invoice
// payments.
func (h *Handler) SetBalance(w http.ResponseWriter, r *http.Request) {
	var req SetBalanceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	balance, err := decimal.NewFromString(req.Balance)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid balance (use a decimal string)", err)
		return
	}

	if err := h.Store.SetBalance(r.Context(), balance); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to set balance", err)
		return
	}
	writeJSON(w, http.StatusOK, TreasuryDTO{Balance: balance.String()})
}

// =============================================================================
// HELPERS
// =============================================================================

func decodePayRequest(w http.ResponseWriter, r *http.Request) (string, bool) {
	var req PayRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return "", false
	}
	if req.PaymentMethod == "" {
		writeError(w, http.StatusBadRequest, "payment_method is required", nil)
		return "", false
	}
	return req.PaymentMethod, true
}

// writeDomainError maps engine errors to HTTP statuses.
func writeDomainError(w http.ResponseWriter, message string, err error) {
	switch {
	case payment.IsNotFound(err):
		writeError(w, http.StatusNotFound, message, err)
	case errors.Is(err, payment.ErrAlreadyTransmitted):
		writeError(w, http.StatusConflict, message, err)
	case errors.Is(err, payment.ErrInvalidConfig):
		writeError(w, http.StatusBadRequest, message, err)
	default:
		writeError(w, http.StatusInternalServerError, message, err)
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Detail = err.Error()
	}
	writeJSON(w, status, resp)
}
