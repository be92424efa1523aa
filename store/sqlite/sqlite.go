/*
Package sqlite provides a SQLite-backed implementation of the storage seams.

PURPOSE:
  Implements the engine's persistence interfaces using SQLite: the payment
  sink (payment.Store), the treasury (payment.BalanceSource), and the
  invoice/employee repositories. In production the same patterns apply to
  PostgreSQL - only minor SQL dialect differences.

INTERFACES IMPLEMENTED:
  payment.Store:         Payment persistence
  payment.BalanceSource: Payer cash position snapshot
  invoicing.Repository:  Invoice lookup
  payroll.Repository:    Employee lookup

TRANSMIT-ONCE ENFORCEMENT:
  The stored counterpart of the in-memory one-shot flag is a conditional
  UPDATE: transmitted flips 0 -> 1 only if it is still 0, inside a
  database transaction, so even two racing processes cannot both
  transmit. Every successful flip writes an append-only receipt row.

KEY TABLES:
  invoices:      Payee records for trade payables
  employees:     Payee records for payroll
  payments:      Payment intents with the transmitted flag
  transmissions: Append-only receipts, one per successful transmit
  treasury:      Single-row cash position

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  multiple readers don't block, single writer at a time.

USAGE:
  store, err := sqlite.New("./data/payables.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

  svc := invoicing.NewService(store, store, store, terms, clock)

SEE ALSO:
  - payment/store.go: Interface definitions
  - payment/store/memory.go: In-memory implementations for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"github.com/warp/payables-engine/invoicing"
	"github.com/warp/payables-engine/payment"
	"github.com/warp/payables-engine/payroll"
)

// Store implements all storage seams using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Payee records: trade payables
	CREATE TABLE IF NOT EXISTS invoices (
		id TEXT PRIMARY KEY,
		amount TEXT NOT NULL,
		category TEXT NOT NULL,
		base_due_date TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	-- Payee records: payroll
	CREATE TABLE IF NOT EXISTS employees (
		id TEXT PRIMARY KEY,
		tax_id TEXT NOT NULL,
		bank_account TEXT NOT NULL,
		base_salary TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_employees_tax_id
		ON employees(tax_id);

	-- Payment intents. Rows carry a surrogate id so repeat payments for
	-- the same payee append instead of colliding; payment_id is the
	-- domain payment id (invoice id or tax id). transmitted is the
	-- one-shot lifecycle flag.
	CREATE TABLE IF NOT EXISTS payments (
		id TEXT PRIMARY KEY,
		payment_id TEXT NOT NULL,
		payment_method TEXT NOT NULL,
		amount TEXT NOT NULL,
		recipient TEXT NOT NULL,
		scheduled_at TEXT NOT NULL,
		transmitted INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_payments_payment_id
		ON payments(payment_id);

	CREATE INDEX IF NOT EXISTS idx_payments_scheduled_at
		ON payments(scheduled_at);

	-- Append-only transmission receipts, one per successful transmit.
	-- payment_record_id is UNIQUE: the schema itself refuses a second
	-- receipt for the same payment row.
	CREATE TABLE IF NOT EXISTS transmissions (
		id TEXT PRIMARY KEY,
		payment_record_id TEXT NOT NULL UNIQUE REFERENCES payments(id),
		payment_id TEXT NOT NULL,
		payment_method TEXT NOT NULL,
		amount TEXT NOT NULL,
		recipient TEXT NOT NULL,
		scheduled_at TEXT NOT NULL,
		transmitted_at TEXT NOT NULL
	);

	-- Single-row payer cash position.
	CREATE TABLE IF NOT EXISTS treasury (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		balance TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// INVOICES - implements invoicing.Repository
// =============================================================================

// SaveInvoice persists an invoice record.
func (s *Store) SaveInvoice(ctx context.Context, inv invoicing.Invoice) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO invoices (id, amount, category, base_due_date, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		inv.ID,
		inv.Amount.String(),
		string(inv.Category),
		inv.BaseDueDate.UTC().Format(time.RFC3339Nano),
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	return err
}

// GetInvoice looks up an invoice by id.
func (s *Store) GetInvoice(ctx context.Context, id string) (*invoicing.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, amount, category, base_due_date FROM invoices WHERE id = ?`, id)

	inv, err := scanInvoice(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &invoicing.InvoiceNotFoundError{InvoiceID: id}
	}
	if err != nil {
		return nil, err
	}
	return inv, nil
}

// ListInvoices returns all invoices ordered by id.
func (s *Store) ListInvoices(ctx context.Context) ([]invoicing.Invoice, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, amount, category, base_due_date FROM invoices ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invoices []invoicing.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, *inv)
	}
	return invoices, rows.Err()
}

func scanInvoice(row interface{ Scan(dest ...any) error }) (*invoicing.Invoice, error) {
	var (
		inv         invoicing.Invoice
		amountStr   string
		categoryStr string
		baseDueStr  string
	)
	if err := row.Scan(&inv.ID, &amountStr, &categoryStr, &baseDueStr); err != nil {
		return nil, err
	}

	amount, err := decimal.NewFromString(amountStr)
	if err != nil {
		return nil, fmt.Errorf("invalid stored amount: %w", err)
	}
	baseDue, err := time.Parse(time.RFC3339Nano, baseDueStr)
	if err != nil {
		return nil, fmt.Errorf("invalid stored base due date: %w", err)
	}

	inv.Amount = amount
	inv.Category = invoicing.Category(categoryStr)
	inv.BaseDueDate = baseDue
	return &inv, nil
}

// =============================================================================
// EMPLOYEES - implements payroll.Repository
// =============================================================================

// SaveEmployee persists an employee record.
func (s *Store) SaveEmployee(ctx context.Context, emp payroll.Employee) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO employees (id, tax_id, bank_account, base_salary, created_at)
		VALUES (?, ?, ?, ?, ?)`,
		emp.ID,
		emp.TaxID,
		emp.BankAccount,
		emp.BaseSalary.String(),
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	return err
}

// GetEmployee looks up an employee by id.
func (s *Store) GetEmployee(ctx context.Context, id string) (*payroll.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		emp       payroll.Employee
		salaryStr string
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, tax_id, bank_account, base_salary FROM employees WHERE id = ?`, id).
		Scan(&emp.ID, &emp.TaxID, &emp.BankAccount, &salaryStr)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, &payroll.EmployeeNotFoundError{EmployeeID: id}
	}
	if err != nil {
		return nil, err
	}

	salary, err := decimal.NewFromString(salaryStr)
	if err != nil {
		return nil, fmt.Errorf("invalid stored salary: %w", err)
	}
	emp.BaseSalary = salary
	return &emp, nil
}

// ListEmployees returns all employees ordered by id.
func (s *Store) ListEmployees(ctx context.Context) ([]payroll.Employee, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, tax_id, bank_account, base_salary FROM employees ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var employees []payroll.Employee
	for rows.Next() {
		var (
			emp       payroll.Employee
			salaryStr string
		)
		if err := rows.Scan(&emp.ID, &emp.TaxID, &emp.BankAccount, &salaryStr); err != nil {
			return nil, err
		}
		salary, err := decimal.NewFromString(salaryStr)
		if err != nil {
			return nil, fmt.Errorf("invalid stored salary: %w", err)
		}
		emp.BaseSalary = salary
		employees = append(employees, emp)
	}
	return employees, rows.Err()
}

// =============================================================================
// PAYMENTS - implements payment.Store
// =============================================================================

// PaymentRecord is the stored form of a payment intent. ID is a surrogate
// row id; PaymentID is the domain payment id (invoice id or tax id), which
// repeats when the same payee is paid again.
type PaymentRecord struct {
	ID            string
	PaymentID     string
	PaymentMethod string
	Amount        decimal.Decimal
	Recipient     string
	ScheduledAt   time.Time
	Transmitted   bool
	CreatedAt     time.Time
}

const paymentColumns = `id, payment_id, payment_method, amount, recipient, scheduled_at, transmitted, created_at`

// Save persists a payment intent handed over by an orchestrator. Each call
// appends a new row, mirroring the in-memory sink: paying the same payee
// twice yields two payment records.
func (s *Store) Save(ctx context.Context, p *payment.Payment) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data := p.Data()
	transmitted := 0
	if p.Transmitted() {
		transmitted = 1
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO payments (`+paymentColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		uuid.NewString(),
		p.ID(),
		p.Method(),
		data.Amount.String(),
		data.Recipient,
		p.ScheduledAt().UTC().Format(time.RFC3339Nano),
		transmitted,
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	return err
}

// GetPayment looks up a stored payment by its record id.
func (s *Store) GetPayment(ctx context.Context, id string) (*PaymentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return getPayment(ctx, s.db, id)
}

// LatestPayment returns the most recently saved payment for a domain
// payment id. Repeat payments each have their own row; this picks the
// newest.
func (s *Store) LatestPayment(ctx context.Context, paymentID string) (*PaymentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT `+paymentColumns+`
		FROM payments WHERE payment_id = ?
		ORDER BY created_at DESC, rowid DESC LIMIT 1`, paymentID)

	rec, err := scanPayment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("payment %s: %w", paymentID, payment.ErrPaymentNotFound)
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func getPayment(ctx context.Context, db interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}, id string) (*PaymentRecord, error) {
	row := db.QueryRowContext(ctx, `
		SELECT `+paymentColumns+`
		FROM payments WHERE id = ?`, id)

	rec, err := scanPayment(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("payment %s: %w", id, payment.ErrPaymentNotFound)
	}
	if err != nil {
		return nil, err
	}
	return rec, nil
}

func scanPayment(row interface{ Scan(dest ...any) error }) (*PaymentRecord, error) {
	var (
		rec            PaymentRecord
		amountStr      string
		scheduledStr   string
		createdStr     string
		transmittedInt int
	)
	err := row.Scan(&rec.ID, &rec.PaymentID, &rec.PaymentMethod, &amountStr, &rec.Recipient, &scheduledStr, &transmittedInt, &createdStr)
	if err != nil {
		return nil, err
	}

	rec.Amount, err = decimal.NewFromString(amountStr)
	if err != nil {
		return nil, fmt.Errorf("invalid stored amount: %w", err)
	}
	rec.ScheduledAt, err = time.Parse(time.RFC3339Nano, scheduledStr)
	if err != nil {
		return nil, fmt.Errorf("invalid stored schedule: %w", err)
	}
	rec.CreatedAt, err = time.Parse(time.RFC3339Nano, createdStr)
	if err != nil {
		return nil, fmt.Errorf("invalid stored creation time: %w", err)
	}
	rec.Transmitted = transmittedInt != 0
	return &rec, nil
}

// ListPayments returns all stored payments, oldest first.
func (s *Store) ListPayments(ctx context.Context) ([]PaymentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+paymentColumns+`
		FROM payments ORDER BY created_at, rowid`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []PaymentRecord
	for rows.Next() {
		rec, err := scanPayment(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, *rec)
	}
	return records, rows.Err()
}

// =============================================================================
// TRANSMISSIONS - Stored one-shot enforcement + receipts
// =============================================================================

// TransmissionRecord is the append-only receipt written when a stored
// payment is transmitted. PaymentRecordID names the payment row; PaymentID
// is the domain payment id.
type TransmissionRecord struct {
	ID              string
	PaymentRecordID string
	PaymentID       string
	PaymentMethod   string
	Amount          decimal.Decimal
	Recipient       string
	ScheduledAt     time.Time
	TransmittedAt   time.Time
}

// MarkTransmitted flips a stored payment's transmitted flag and writes
// the receipt. The flip is a conditional UPDATE inside a transaction: if
// the flag is already set the call fails with AlreadyTransmittedError and
// nothing changes; if the record doesn't exist it fails with
// ErrPaymentNotFound.
func (s *Store) MarkTransmitted(ctx context.Context, recordID string) (*TransmissionRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	rec, err := getPayment(ctx, tx, recordID)
	if err != nil {
		return nil, err
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE payments SET transmitted = 1 WHERE id = ? AND transmitted = 0`, recordID)
	if err != nil {
		return nil, err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, &payment.AlreadyTransmittedError{
			PaymentID:   rec.PaymentID,
			ScheduledAt: rec.ScheduledAt,
		}
	}

	receipt := TransmissionRecord{
		ID:              uuid.NewString(),
		PaymentRecordID: rec.ID,
		PaymentID:       rec.PaymentID,
		PaymentMethod:   rec.PaymentMethod,
		Amount:          rec.Amount,
		Recipient:       rec.Recipient,
		ScheduledAt:     rec.ScheduledAt,
		TransmittedAt:   time.Now().UTC(),
	}
	_, err = tx.ExecContext(ctx, `
		INSERT INTO transmissions (id, payment_record_id, payment_id, payment_method, amount, recipient, scheduled_at, transmitted_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		receipt.ID,
		receipt.PaymentRecordID,
		receipt.PaymentID,
		receipt.PaymentMethod,
		receipt.Amount.String(),
		receipt.Recipient,
		receipt.ScheduledAt.UTC().Format(time.RFC3339Nano),
		receipt.TransmittedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return &receipt, nil
}

// ListTransmissions returns all receipts, oldest first.
func (s *Store) ListTransmissions(ctx context.Context) ([]TransmissionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, payment_record_id, payment_id, payment_method, amount, recipient, scheduled_at, transmitted_at
		FROM transmissions ORDER BY transmitted_at, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var receipts []TransmissionRecord
	for rows.Next() {
		var (
			rec          TransmissionRecord
			amountStr    string
			scheduledStr string
			transStr     string
		)
		if err := rows.Scan(&rec.ID, &rec.PaymentRecordID, &rec.PaymentID, &rec.PaymentMethod, &amountStr, &rec.Recipient, &scheduledStr, &transStr); err != nil {
			return nil, err
		}
		rec.Amount, err = decimal.NewFromString(amountStr)
		if err != nil {
			return nil, fmt.Errorf("invalid stored amount: %w", err)
		}
		rec.ScheduledAt, err = time.Parse(time.RFC3339Nano, scheduledStr)
		if err != nil {
			return nil, fmt.Errorf("invalid stored schedule: %w", err)
		}
		rec.TransmittedAt, err = time.Parse(time.RFC3339Nano, transStr)
		if err != nil {
			return nil, fmt.Errorf("invalid stored transmission time: %w", err)
		}
		receipts = append(receipts, rec)
	}
	return receipts, rows.Err()
}

// =============================================================================
// TREASURY - implements payment.BalanceSource
// =============================================================================

// CurrentBalance returns the payer's cash position. A missing row reads
// as zero: a fresh database is a payer with nothing in the bank.
func (s *Store) CurrentBalance(ctx context.Context) (decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var balanceStr string
	err := s.db.QueryRowContext(ctx, `SELECT balance FROM treasury WHERE id = 1`).Scan(&balanceStr)
	if errors.Is(err, sql.ErrNoRows) {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromString(balanceStr)
}

// SetBalance replaces the payer's cash position.
func (s *Store) SetBalance(ctx context.Context, balance decimal.Decimal) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO treasury (id, balance, updated_at) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET balance = excluded.balance, updated_at = excluded.updated_at`,
		balance.String(),
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	return err
}

// =============================================================================
// MAINTENANCE
// =============================================================================

// Reset clears all data. Development and demo use only.
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, table := range []string{"transmissions", "payments", "invoices", "employees", "treasury"} {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}
