/*
scheduler.go - Automated transmission scheduler

PURPOSE:
  Periodically checks for payment intents whose scheduled date has
  arrived and transmits them to the external ledger.

DESIGN:
  - Runs a background goroutine with configurable check interval
  - Detects stored payments with scheduled_at <= now and transmitted = 0
  - Relies on MarkTransmitted's conditional update for the once-only
    guarantee: a payment racing with a manual transmit is simply skipped
  - Uses the injected Clock, so tests can pin the date

CONFIGURATION:
  - CheckInterval: How often to check (default: 1 hour)
  - Enabled: Whether scheduler is active (default: true)

USAGE:
  scheduler := NewTransmissionScheduler(store, clock)
  scheduler.Start()
  // ... later
  scheduler.Stop()

SEE ALSO:
  - handlers.go: TransmitPayment endpoint (manual transmission)
  - store/sqlite: MarkTransmitted conditional update
*/
package api

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/warp/payables-engine/payment"
	"github.com/warp/payables-engine/store/sqlite"
)

// TransmissionScheduler handles automated transmission of due payments.
type TransmissionScheduler struct {
	Store         *sqlite.Store
	Clock         payment.Clock
	CheckInterval time.Duration
	Enabled       bool

	ticker *time.Ticker
	stop   chan bool
	wg     sync.WaitGroup
	mu     sync.Mutex
}

// NewTransmissionScheduler creates a new scheduler.
func NewTransmissionScheduler(store *sqlite.Store, clock payment.Clock) *TransmissionScheduler {
	return &TransmissionScheduler{
		Store:         store,
		Clock:         clock,
		CheckInterval: 1 * time.Hour,
		Enabled:       true,
		stop:          make(chan bool),
	}
}

// Start begins the scheduler.
func (ts *TransmissionScheduler) Start() {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	if !ts.Enabled {
		log.Println("[Scheduler] Disabled, not starting")
		return
	}

	ts.ticker = time.NewTicker(ts.CheckInterval)
	ts.wg.Add(1)

	go ts.run()

	log.Printf("[Scheduler] Started with check interval: %v (next check by %v)",
		ts.CheckInterval, ts.GetNextRunTime().Format(time.RFC3339))
}

// Stop stops the scheduler.
func (ts *TransmissionScheduler) Stop() {
	ts.mu.Lock()
	defer ts.mu.Unlock()

	if ts.ticker != nil {
		ts.ticker.Stop()
		close(ts.stop)
		ts.wg.Wait()
		log.Println("[Scheduler] Stopped")
	}
}

func (ts *TransmissionScheduler) run() {
	defer ts.wg.Done()

	// Run immediately on start
	ts.checkAndTransmit()

	for {
		select {
		case <-ts.ticker.C:
			ts.checkAndTransmit()
		case <-ts.stop:
			return
		}
	}
}

func (ts *TransmissionScheduler) checkAndTransmit() {
	ctx := context.Background()
	now := ts.Clock.Now()

	records, err := ts.Store.ListPayments(ctx)
	if err != nil {
		log.Printf("[Scheduler] Error listing payments: %v", err)
		return
	}

	transmittedCount := 0
	skippedCount := 0

	for _, rec := range records {
		if rec.Transmitted || rec.ScheduledAt.After(now) {
			continue
		}

		receipt, err := ts.Store.MarkTransmitted(ctx, rec.ID)
		if errors.Is(err, payment.ErrAlreadyTransmitted) {
			// Lost a race with a manual transmit; the invariant held.
			skippedCount++
			continue
		}
		if err != nil {
			log.Printf("[Scheduler] Error transmitting payment %s: %v", rec.ID, err)
			continue
		}

		transmittedCount++
		log.Printf("[Scheduler] Transmitted payment %s to %s (receipt %s)",
			rec.PaymentID, receipt.Recipient, receipt.ID)
	}

	if transmittedCount > 0 || skippedCount > 0 {
		log.Printf("[Scheduler] Completed: %d transmitted, %d skipped (already sent)", transmittedCount, skippedCount)
	}
}

// RunNow triggers an immediate check (for testing/admin).
func (ts *TransmissionScheduler) RunNow() {
	ts.checkAndTransmit()
}

// GetNextRunTime returns when the next scheduled check will occur,
// relative to the injected clock.
func (ts *TransmissionScheduler) GetNextRunTime() time.Time {
	return ts.Clock.Now().Add(ts.CheckInterval)
}
