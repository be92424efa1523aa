/*
Package factory provides JSON to Go terms conversion.

PURPOSE:
  Converts JSON term-policy definitions into payment.Terms. This enables
  terms configuration without code changes - finance can adjust the
  standard term, grace period, category threshold, or payroll day in a
  config file, and the factory creates the proper Go struct.

JSON SCHEMA:
  {
    "standard_term_days": 14,
    "automotive_grace_days": 5,
    "automotive_threshold": "1000",
    "payroll_day_of_month": 10
  }

  Every field is optional; omitted fields fall back to DefaultTerms.
  The threshold is a decimal string to keep amounts exact.

USAGE:
  terms, err := factory.ParseTerms(jsonString)
  if err != nil {
      // errors.Is(err, payment.ErrInvalidConfig)
  }

SEE ALSO:
  - payment/terms.go: Terms definition and scheduling rules
  - cmd/server/main.go: Loads a terms file at startup
*/
package factory

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
	"github.com/warp/payables-engine/payment"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// TermsJSON is the JSON representation of a term policy. Pointer fields
// distinguish "omitted" (use default) from an explicit zero.
type TermsJSON struct {
	StandardTermDays    *int    `json:"standard_term_days,omitempty"`
	AutomotiveGraceDays *int    `json:"automotive_grace_days,omitempty"`
	AutomotiveThreshold *string `json:"automotive_threshold,omitempty"`
	PayrollDayOfMonth   *int    `json:"payroll_day_of_month,omitempty"`
}

// =============================================================================
// PARSING
// =============================================================================

// ParseTerms converts a JSON term-policy definition into payment.Terms,
// applying defaults for omitted fields and validating ranges.
func ParseTerms(jsonStr string) (payment.Terms, error) {
	var tj TermsJSON
	if err := json.Unmarshal([]byte(jsonStr), &tj); err != nil {
		return payment.Terms{}, fmt.Errorf("%w: %v", payment.ErrInvalidConfig, err)
	}

	terms := payment.DefaultTerms()

	if tj.StandardTermDays != nil {
		if *tj.StandardTermDays < 0 {
			return payment.Terms{}, fmt.Errorf("%w: standard_term_days must not be negative", payment.ErrInvalidConfig)
		}
		terms.StandardTermDays = *tj.StandardTermDays
	}
	if tj.AutomotiveGraceDays != nil {
		if *tj.AutomotiveGraceDays < 0 {
			return payment.Terms{}, fmt.Errorf("%w: automotive_grace_days must not be negative", payment.ErrInvalidConfig)
		}
		terms.AutomotiveGraceDays = *tj.AutomotiveGraceDays
	}
	if tj.AutomotiveThreshold != nil {
		threshold, err := decimal.NewFromString(*tj.AutomotiveThreshold)
		if err != nil {
			return payment.Terms{}, fmt.Errorf("%w: automotive_threshold: %v", payment.ErrInvalidConfig, err)
		}
		terms.AutomotiveThreshold = threshold
	}
	if tj.PayrollDayOfMonth != nil {
		// 28 keeps the rule valid in every month, February included.
		if *tj.PayrollDayOfMonth < 1 || *tj.PayrollDayOfMonth > 28 {
			return payment.Terms{}, fmt.Errorf("%w: payroll_day_of_month must be between 1 and 28", payment.ErrInvalidConfig)
		}
		terms.PayrollDayOfMonth = *tj.PayrollDayOfMonth
	}

	return terms, nil
}

// =============================================================================
// PRESETS
// =============================================================================

// DefaultTermsJSON returns the JSON form of the default policy. Useful as
// a config-file starting point.
func DefaultTermsJSON() string {
	d := payment.DefaultTerms()
	threshold := d.AutomotiveThreshold.String()
	tj := TermsJSON{
		StandardTermDays:    &d.StandardTermDays,
		AutomotiveGraceDays: &d.AutomotiveGraceDays,
		AutomotiveThreshold: &threshold,
		PayrollDayOfMonth:   &d.PayrollDayOfMonth,
	}
	b, _ := json.MarshalIndent(tj, "", "  ")
	return string(b)
}

// NetTermsJSON returns JSON for a policy with the given net term and
// automotive grace, keeping the default threshold and payroll day.
func NetTermsJSON(termDays, graceDays int) string {
	tj := TermsJSON{
		StandardTermDays:    &termDays,
		AutomotiveGraceDays: &graceDays,
	}
	b, _ := json.MarshalIndent(tj, "", "  ")
	return string(b)
}
