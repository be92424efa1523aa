/*
payment.go - The payment intent and its one-shot transmission

PURPOSE:
  Payment is the central entity: normalized data + computed schedule +
  a single lifecycle bit. It is built by an orchestrator after term
  computation and handed to the sink.

LIFECYCLE:
  Pending -> Transmitted. That's it. No rollback, no other states.
  Construction fixes every field except the transmitted flag; Transmit
  flips the flag exactly once. A second call fails with
  AlreadyTransmittedError and leaves state untouched.

CONCURRENCY:
  The transmit check-and-set is a single atomic compare-and-swap, so the
  once-only guarantee holds even under concurrent Transmit calls on the
  same instance. Everything else is immutable, so a Payment may be read
  from any goroutine.

SEE ALSO:
  - terms.go: Where the scheduled date comes from
  - store.go: The sink a transmitted payment is destined for
*/
package payment

import (
	"sync/atomic"
	"time"
)

// =============================================================================
// PAYMENT - Immutable intent with a one-shot transmission flag
// =============================================================================

// Payment is an intent to pay: who, how much, by what method, and when.
// All fields are fixed at construction; only the transmitted flag changes,
// once, via Transmit. Fields are unexported to keep it that way.
type Payment struct {
	id          string
	method      string
	data        Data
	scheduledAt time.Time
	transmitted atomic.Bool
}

// New builds a pending payment. id is the payee's natural identifier
// (invoice id, or the employee's tax identifier for payroll), method an
// opaque caller-supplied payment method, and scheduledAt the output of
// term computation.
func New(id, method string, data Data, scheduledAt time.Time) *Payment {
	return &Payment{
		id:          id,
		method:      method,
		data:        data,
		scheduledAt: scheduledAt,
	}
}

func (p *Payment) ID() string             { return p.id }
func (p *Payment) Method() string         { return p.method }
func (p *Payment) Data() Data             { return p.data }
func (p *Payment) ScheduledAt() time.Time { return p.scheduledAt }

// Transmitted reports whether the payment has been transmitted.
func (p *Payment) Transmitted() bool { return p.transmitted.Load() }

// =============================================================================
// TRANSMISSION
// =============================================================================

// Transmission is the by-value snapshot returned by a successful Transmit.
// Mutating it does not affect the Payment it came from.
type Transmission struct {
	PaymentMethod string
	Data          Data
	ScheduledAt   time.Time
}

// Transmit marks the payment as transmitted and returns the snapshot the
// external sink acts on. The flag flip is a single compare-and-swap: the
// first caller wins, every later caller gets AlreadyTransmittedError and
// the payment is left exactly as the first call left it.
func (p *Payment) Transmit() (Transmission, error) {
	if !p.transmitted.CompareAndSwap(false, true) {
		return Transmission{}, &AlreadyTransmittedError{
			PaymentID:   p.id,
			ScheduledAt: p.scheduledAt,
		}
	}
	return Transmission{
		PaymentMethod: p.method,
		Data:          p.data,
		ScheduledAt:   p.scheduledAt,
	}, nil
}
