/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Provides pre-built scenarios that populate the database with realistic
	data for testing and demos. Each scenario resets the database, seeds
	payee records, and sets the treasury balance.

AVAILABLE SCENARIOS:

	trade-payables: Mixed invoice book, healthy cash position
	cash-crunch:    Same invoice book, negative balance (runway doubling)
	payroll-run:    Salaried employees, payroll fixed-day rule

FIXTURE SHAPES:

	Invoice amounts follow the demo convention: even invoice ids draw an
	automotive-sized amount (above the category threshold), odd ids a
	software-sized one. Employee fixtures use predictable tax ids and
	bank accounts derived from the employee id.

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "cash-crunch"}

NOTE:

	Scenarios reset the database. Only use in development/demo environments.

SEE ALSO:
  - handlers.go: writeJSON/writeError helpers
  - server.go: Scenario routes
*/
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"math/rand"
	"net/http"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/warp/payables-engine/invoicing"
	"github.com/warp/payables-engine/payroll"
)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

var scenarios = []ScenarioDTO{
	{
		ID:          "trade-payables",
		Name:        "Trade Payables",
		Description: "Mixed automotive/software invoices with a healthy cash position",
	},
	{
		ID:          "cash-crunch",
		Name:        "Cash Crunch",
		Description: "Same invoice book with a negative balance: remaining runway is doubled",
	},
	{
		ID:          "payroll-run",
		Name:        "Payroll Run",
		Description: "Salaried employees paid on the fixed day of the month",
	},
}

// =============================================================================
// SCENARIO HANDLERS
// =============================================================================

// ListScenarios returns the available demo scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scenarios)
}

// GetCurrentScenario returns the id of the last loaded scenario.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"scenario_id": h.currentScenario})
}

// LoadScenario resets the database and seeds the requested scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	ctx := r.Context()
	var err error
	switch req.ScenarioID {
	case "trade-payables":
		err = h.loadInvoiceScenario(ctx, decimal.NewFromInt(1000))
	case "cash-crunch":
		err = h.loadInvoiceScenario(ctx, decimal.NewFromInt(-1200))
	case "payroll-run":
		err = h.loadPayrollScenario(ctx)
	default:
		writeError(w, http.StatusBadRequest, fmt.Sprintf("Unknown scenario: %s", req.ScenarioID), nil)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to load scenario", err)
		return
	}

	h.currentScenario = req.ScenarioID
	writeJSON(w, http.StatusOK, map[string]string{"scenario_id": req.ScenarioID, "status": "loaded"})
}

// ResetDatabase clears all data.
func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Reset(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}
	h.currentScenario = ""
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

// =============================================================================
// SCENARIO LOADERS
// =============================================================================

func (h *Handler) loadInvoiceScenario(ctx context.Context, balance decimal.Decimal) error {
	if err := h.Store.Reset(ctx); err != nil {
		return err
	}
	if err := h.Store.SetBalance(ctx, balance); err != nil {
		return err
	}

	for _, id := range []string{"123", "124", "125", "126"} {
		inv := invoicing.New(id, demoInvoiceAmount(id), h.Clock.Now(), h.Terms)
		if err := h.Store.SaveInvoice(ctx, inv); err != nil {
			return err
		}
	}
	return nil
}

func (h *Handler) loadPayrollScenario(ctx context.Context) error {
	if err := h.Store.Reset(ctx); err != nil {
		return err
	}
	if err := h.Store.SetBalance(ctx, decimal.NewFromInt(1000)); err != nil {
		return err
	}

	for _, id := range []string{"123", "124", "125"} {
		if err := h.Store.SaveEmployee(ctx, demoEmployee(id)); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// FIXTURES
// =============================================================================

// demoInvoiceAmount draws a demo amount for an invoice id: even ids land
// above the automotive threshold, odd ids below it.
func demoInvoiceAmount(id string) decimal.Decimal {
	n, err := strconv.Atoi(id)
	if err != nil {
		n = len(id)
	}
	if n%2 == 0 {
		return decimal.NewFromInt(int64(rand.Intn(1000)) + 1001)
	}
	return decimal.NewFromInt(int64(rand.Intn(1000)) + 1)
}

// demoEmployee builds a predictable employee fixture for an id.
func demoEmployee(id string) payroll.Employee {
	return payroll.Employee{
		ID:          id,
		TaxID:       "9900223341" + id,
		BankAccount: "1234000056780000" + id,
		BaseSalary:  decimal.NewFromInt(12000),
	}
}
