package attendance

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dairydesk/dairydesk/internal/finance"
)

var ErrNotFound = errors.New("attendance: entry not found")

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const entryColumns = `id, customer_id, day, shift, quantity_l, delivered, note, created_at, updated_at`

func scanEntry(row pgx.Row) (Entry, error) {
	var (
		e    Entry
		note pgtype.Text
	)
	err := row.Scan(&e.ID, &e.CustomerID, &e.Day, &e.Shift, &e.Quantity, &e.Delivered, &note, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return Entry{}, err
	}
	if note.Valid {
		e.Note = &note.String
	}
	return e, nil
}

// Upsert writes the entry for (customer, day, shift), replacing a previous
// mark for the same slot so corrections do not pile up duplicate rows.
func (r *Repository) Upsert(ctx context.Context, e Entry) (Entry, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO attendance_entries (customer_id, day, shift, quantity_l, delivered, note)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (customer_id, day, shift) DO UPDATE SET
			quantity_l = EXCLUDED.quantity_l,
			delivered  = EXCLUDED.delivered,
			note       = EXCLUDED.note,
			updated_at = now()
		RETURNING `+entryColumns,
		e.CustomerID, e.Day, e.Shift, e.Quantity, e.Delivered, e.Note,
	)
	saved, err := scanEntry(row)
	if err != nil {
		return Entry{}, fmt.Errorf("attendance: upsert entry: %w", err)
	}
	return saved, nil
}

// ListByPeriod returns entries for the calendar month, optionally narrowed to
// one customer. Ordered by day then shift so the month sheet renders in order.
func (r *Repository) ListByPeriod(ctx context.Context, period finance.Period, customerID int64) ([]Entry, error) {
	start := period.Start()
	end := start.AddDate(0, 1, 0)

	query := `SELECT ` + entryColumns + ` FROM attendance_entries WHERE day >= $1 AND day < $2`
	args := []any{start, end}
	if customerID > 0 {
		query += ` AND customer_id = $3`
		args = append(args, customerID)
	}
	query += ` ORDER BY day, customer_id, shift`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("attendance: list entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("attendance: scan entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// MonthlyTotals aggregates delivered litres per customer for the period,
// priced at the customer's current rate. Customers with no entries in the
// month are absent from the result.
func (r *Repository) MonthlyTotals(ctx context.Context, period finance.Period) ([]MonthlyTotal, error) {
	start := period.Start()
	end := start.AddDate(0, 1, 0)

	rows, err := r.pool.Query(ctx, `
		SELECT c.id, c.name, c.rate_per_litre,
		       COALESCE(SUM(a.quantity_l) FILTER (WHERE a.delivered), 0),
		       COUNT(DISTINCT a.day) FILTER (WHERE a.delivered),
		       COUNT(DISTINCT a.day) FILTER (WHERE NOT a.delivered)
		FROM attendance_entries a
		JOIN customers c ON c.id = a.customer_id
		WHERE a.day >= $1 AND a.day < $2
		GROUP BY c.id, c.name, c.rate_per_litre
		ORDER BY c.name`,
		start, end,
	)
	if err != nil {
		return nil, fmt.Errorf("attendance: monthly totals: %w", err)
	}
	defer rows.Close()

	var totals []MonthlyTotal
	for rows.Next() {
		var t MonthlyTotal
		if err := rows.Scan(&t.CustomerID, &t.CustomerName, &t.RatePerLitre, &t.Litres, &t.DeliveredDays, &t.SkippedDays); err != nil {
			return nil, fmt.Errorf("attendance: scan total: %w", err)
		}
		t.Amount = t.Litres * t.RatePerLitre
		totals = append(totals, t)
	}
	return totals, rows.Err()
}

// CustomerTotal returns the period aggregate for a single customer.
func (r *Repository) CustomerTotal(ctx context.Context, period finance.Period, customerID int64) (MonthlyTotal, error) {
	start := period.Start()
	end := start.AddDate(0, 1, 0)

	row := r.pool.QueryRow(ctx, `
		SELECT c.id, c.name, c.rate_per_litre,
		       COALESCE(SUM(a.quantity_l) FILTER (WHERE a.delivered), 0),
		       COUNT(DISTINCT a.day) FILTER (WHERE a.delivered),
		       COUNT(DISTINCT a.day) FILTER (WHERE NOT a.delivered)
		FROM attendance_entries a
		JOIN customers c ON c.id = a.customer_id
		WHERE a.customer_id = $1 AND a.day >= $2 AND a.day < $3
		GROUP BY c.id, c.name, c.rate_per_litre`,
		customerID, start, end,
	)

	var t MonthlyTotal
	err := row.Scan(&t.CustomerID, &t.CustomerName, &t.RatePerLitre, &t.Litres, &t.DeliveredDays, &t.SkippedDays)
	if errors.Is(err, pgx.ErrNoRows) {
		return MonthlyTotal{}, ErrNotFound
	}
	if err != nil {
		return MonthlyTotal{}, fmt.Errorf("attendance: customer total: %w", err)
	}
	t.Amount = t.Litres * t.RatePerLitre
	return t, nil
}
