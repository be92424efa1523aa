/*
errors.go - Centralized error types for the payables engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  Domain packages wrap these errors with additional context.

ERROR CATEGORIES:
  1. Lifecycle errors - Double transmission attempts
  2. Lookup errors - Missing payees or payments
  3. Config errors - Invalid term-policy configuration

USAGE:
  Domain packages wrap the sentinels:

    if errors.Is(err, payment.ErrPayeeNotFound) {
        // 404 territory
    }

SEE ALSO:
  - payment.go: Returns AlreadyTransmittedError
  - invoicing/repository.go, payroll/repository.go: Wrap ErrPayeeNotFound
*/
package payment

import (
	"errors"
	"fmt"
	"time"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrAlreadyTransmitted is returned when Transmit is called on a payment
	// that has already been transmitted. This signals an ordering bug in the
	// caller; it is never retried and the payment state is left unchanged.
	ErrAlreadyTransmitted = errors.New("payment already transmitted")

	// ErrPayeeNotFound is returned when a referenced invoice or employee
	// doesn't exist. Orchestrators propagate it unchanged, with no sink write.
	ErrPayeeNotFound = errors.New("payee not found")

	// ErrPaymentNotFound is returned when a referenced payment doesn't exist
	// in the ledger.
	ErrPaymentNotFound = errors.New("payment not found")

	// ErrInvalidConfig is returned when a term-policy configuration is
	// malformed or out of range.
	ErrInvalidConfig = errors.New("invalid terms configuration")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// AlreadyTransmittedError provides details about a double transmission attempt.
type AlreadyTransmittedError struct {
	PaymentID   string
	ScheduledAt time.Time
}

func (e *AlreadyTransmittedError) Error() string {
	return fmt.Sprintf("payment %s already transmitted (scheduled %s)",
		e.PaymentID, e.ScheduledAt.Format(time.RFC3339))
}

func (e *AlreadyTransmittedError) Unwrap() error {
	return ErrAlreadyTransmitted
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsNotFound returns true if the error indicates a missing payee or payment.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrPayeeNotFound) ||
		errors.Is(err, ErrPaymentNotFound)
}

// IsClientError returns true if the error is due to invalid caller behavior
// rather than an engine fault.
func IsClientError(err error) bool {
	return errors.Is(err, ErrAlreadyTransmitted) ||
		errors.Is(err, ErrInvalidConfig) ||
		IsNotFound(err)
}
