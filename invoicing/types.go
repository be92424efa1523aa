// Package invoicing implements the trade-invoice payee domain.
// It feeds the payee-agnostic payment engine with invoice facts and the
// supplier-category flag the term policy needs.
package invoicing

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/payables-engine/payment"
)

// =============================================================================
// SUPPLIER CATEGORY
// =============================================================================

// Category is the supplier category an invoice amount resolves to.
// It is a pure function of the amount against the policy threshold.
type Category string

const (
	CategoryAutomotive Category = "Automotive"
	CategorySoftware   Category = "Software"
)

// Automotive reports whether the category carries the grace extension.
func (c Category) Automotive() bool { return c == CategoryAutomotive }

// DisplayName is the recipient string used in normalized payment data.
func (c Category) DisplayName() string {
	return string(c) + " Supplier"
}

// CategoryFor derives the category from an invoice amount. The threshold
// is exclusive: an amount equal to it resolves to software.
func CategoryFor(amount, threshold decimal.Decimal) Category {
	if amount.GreaterThan(threshold) {
		return CategoryAutomotive
	}
	return CategorySoftware
}

// =============================================================================
// INVOICE
// =============================================================================

// Invoice is an immutable payee record for a trade payable. Category and
// BaseDueDate are fixed at construction and never recomputed.
type Invoice struct {
	ID          string
	Amount      decimal.Decimal
	Category    Category
	BaseDueDate time.Time
}

// New builds an invoice created at createdAt under the given terms: the
// category follows from the amount, the base due date from the standard
// term.
func New(id string, amount decimal.Decimal, createdAt time.Time, terms payment.Terms) Invoice {
	return Invoice{
		ID:          id,
		Amount:      amount,
		Category:    CategoryFor(amount, terms.AutomotiveThreshold),
		BaseDueDate: createdAt.Add(terms.StandardTerm()),
	}
}
