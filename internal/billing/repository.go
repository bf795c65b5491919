package billing

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dairydesk/dairydesk/internal/platform/db"
)

var (
	ErrNotFound      = errors.New("billing: bill not found")
	ErrAlreadyBilled = errors.New("billing: customer already billed for period")
	ErrOverpayment   = errors.New("billing: payment exceeds outstanding amount")
)

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const billColumns = `b.id, b.customer_id, c.name, b.period, b.litres, b.rate_per_litre,
	b.amount, b.paid_amount, b.status, b.due_at, b.created_at, b.updated_at`

func scanBill(row pgx.Row) (Bill, error) {
	var b Bill
	err := row.Scan(&b.ID, &b.CustomerID, &b.CustomerName, &b.Period, &b.Litres, &b.RatePerLitre,
		&b.Amount, &b.PaidAmount, &b.Status, &b.DueAt, &b.CreatedAt, &b.UpdatedAt)
	return b, err
}

// CreateBill inserts a freshly generated bill. A second bill for the same
// customer and period trips the unique constraint and maps to ErrAlreadyBilled.
func (r *Repository) CreateBill(ctx context.Context, b Bill) (Bill, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO bills (customer_id, period, litres, rate_per_litre, amount, status, due_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at`,
		b.CustomerID, b.Period, b.Litres, b.RatePerLitre, b.Amount, StatusPending, b.DueAt,
	)
	if err := row.Scan(&b.ID, &b.CreatedAt, &b.UpdatedAt); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return Bill{}, ErrAlreadyBilled
		}
		return Bill{}, fmt.Errorf("billing: create bill: %w", err)
	}
	b.Status = StatusPending
	return b, nil
}

// GetBill loads a bill with its customer name.
func (r *Repository) GetBill(ctx context.Context, id int64) (Bill, error) {
	row := r.pool.QueryRow(ctx, `
		SELECT `+billColumns+`
		FROM bills b JOIN customers c ON c.id = b.customer_id
		WHERE b.id = $1`, id)
	b, err := scanBill(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Bill{}, ErrNotFound
	}
	if err != nil {
		return Bill{}, fmt.Errorf("billing: get bill: %w", err)
	}
	return b, nil
}

// ListBills filters by period, status and customer; empty values match all.
func (r *Repository) ListBills(ctx context.Context, period string, status BillStatus, customerID int64) ([]Bill, error) {
	query := `SELECT ` + billColumns + ` FROM bills b JOIN customers c ON c.id = b.customer_id WHERE 1=1`
	var args []any
	if period != "" {
		args = append(args, period)
		query += fmt.Sprintf(" AND b.period = $%d", len(args))
	}
	if status != "" {
		args = append(args, status)
		query += fmt.Sprintf(" AND b.status = $%d", len(args))
	}
	if customerID > 0 {
		args = append(args, customerID)
		query += fmt.Sprintf(" AND b.customer_id = $%d", len(args))
	}
	query += " ORDER BY b.period DESC, c.name"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("billing: list bills: %w", err)
	}
	defer rows.Close()

	var bills []Bill
	for rows.Next() {
		b, err := scanBill(rows)
		if err != nil {
			return nil, fmt.Errorf("billing: scan bill: %w", err)
		}
		bills = append(bills, b)
	}
	return bills, rows.Err()
}

// ExistingPeriods returns the customer ids already billed for the period, so a
// rerun only fills the gaps.
func (r *Repository) ExistingPeriods(ctx context.Context, period string) (map[int64]bool, error) {
	rows, err := r.pool.Query(ctx, `SELECT customer_id FROM bills WHERE period = $1`, period)
	if err != nil {
		return nil, fmt.Errorf("billing: existing bills: %w", err)
	}
	defer rows.Close()

	billed := make(map[int64]bool)
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		billed[id] = true
	}
	return billed, rows.Err()
}

// RecordPayment appends a payment and moves the bill's status inside one
// transaction. The row lock keeps concurrent collections from overpaying.
func (r *Repository) RecordPayment(ctx context.Context, billID int64, p Payment) (Payment, Bill, error) {
	var (
		payment Payment
		bill    Bill
	)
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx, `
			SELECT id, customer_id, period, amount, paid_amount, status
			FROM bills WHERE id = $1 FOR UPDATE`, billID)
		if err := row.Scan(&bill.ID, &bill.CustomerID, &bill.Period, &bill.Amount, &bill.PaidAmount, &bill.Status); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrNotFound
			}
			return fmt.Errorf("billing: lock bill: %w", err)
		}
		if p.Amount > bill.Outstanding()+1e-9 {
			return ErrOverpayment
		}

		var note pgtype.Text
		if p.Note != nil {
			note = pgtype.Text{String: *p.Note, Valid: true}
		}
		prow := tx.QueryRow(ctx, `
			INSERT INTO bill_payments (bill_id, amount, method, note, paid_at)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id, bill_id, amount, method, note, paid_at, created_at`,
			billID, p.Amount, p.Method, note, p.PaidAt,
		)
		var savedNote pgtype.Text
		if err := prow.Scan(&payment.ID, &payment.BillID, &payment.Amount, &payment.Method, &savedNote, &payment.PaidAt, &payment.CreatedAt); err != nil {
			return fmt.Errorf("billing: insert payment: %w", err)
		}
		if savedNote.Valid {
			payment.Note = &savedNote.String
		}

		newPaid := bill.PaidAmount + p.Amount
		status := StatusPartial
		if newPaid >= bill.Amount-1e-9 {
			status = StatusPaid
		}
		brow := tx.QueryRow(ctx, `
			UPDATE bills SET paid_amount = $2, status = $3, updated_at = now()
			WHERE id = $1
			RETURNING id, customer_id, period, litres, rate_per_litre, amount, paid_amount, status, due_at, created_at, updated_at`,
			billID, newPaid, status,
		)
		return brow.Scan(&bill.ID, &bill.CustomerID, &bill.Period, &bill.Litres, &bill.RatePerLitre,
			&bill.Amount, &bill.PaidAmount, &bill.Status, &bill.DueAt, &bill.CreatedAt, &bill.UpdatedAt)
	})
	if err != nil {
		return Payment{}, Bill{}, err
	}
	return payment, bill, nil
}

// PaymentsForBill lists collections in payment order.
func (r *Repository) PaymentsForBill(ctx context.Context, billID int64) ([]Payment, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, bill_id, amount, method, note, paid_at, created_at
		FROM bill_payments WHERE bill_id = $1 ORDER BY paid_at`, billID)
	if err != nil {
		return nil, fmt.Errorf("billing: list payments: %w", err)
	}
	defer rows.Close()

	var payments []Payment
	for rows.Next() {
		var (
			p    Payment
			note pgtype.Text
		)
		if err := rows.Scan(&p.ID, &p.BillID, &p.Amount, &p.Method, &note, &p.PaidAt, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("billing: scan payment: %w", err)
		}
		if note.Valid {
			p.Note = &note.String
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}
