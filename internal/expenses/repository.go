package expenses

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dairydesk/dairydesk/internal/finance"
)

var ErrNotFound = errors.New("expenses: expense not found")

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const expenseColumns = `id, category, description, amount, spent_at, note, created_at, updated_at`

func scanExpense(row pgx.Row) (Expense, error) {
	var (
		e    Expense
		note pgtype.Text
	)
	err := row.Scan(&e.ID, &e.Category, &e.Description, &e.Amount, &e.SpentAt, &note, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return Expense{}, err
	}
	if note.Valid {
		e.Note = &note.String
	}
	return e, nil
}

func (r *Repository) Create(ctx context.Context, e Expense) (Expense, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO expenses (category, description, amount, spent_at, note)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING `+expenseColumns,
		e.Category, e.Description, e.Amount, e.SpentAt, e.Note,
	)
	saved, err := scanExpense(row)
	if err != nil {
		return Expense{}, fmt.Errorf("expenses: create expense: %w", err)
	}
	return saved, nil
}

func (r *Repository) Get(ctx context.Context, id int64) (Expense, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+expenseColumns+` FROM expenses WHERE id = $1`, id)
	e, err := scanExpense(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Expense{}, ErrNotFound
	}
	if err != nil {
		return Expense{}, fmt.Errorf("expenses: get expense: %w", err)
	}
	return e, nil
}

// ListByPeriod returns the month's expenses, optionally limited to a category.
func (r *Repository) ListByPeriod(ctx context.Context, period finance.Period, category Category) ([]Expense, error) {
	start := period.Start()
	end := start.AddDate(0, 1, 0)

	query := `SELECT ` + expenseColumns + ` FROM expenses WHERE spent_at >= $1 AND spent_at < $2`
	args := []any{start, end}
	if category != "" {
		query += ` AND category = $3`
		args = append(args, category)
	}
	query += ` ORDER BY spent_at DESC, id DESC`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("expenses: list expenses: %w", err)
	}
	defer rows.Close()

	var list []Expense
	for rows.Next() {
		e, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("expenses: scan expense: %w", err)
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

// CategoryBreakdown sums the month's spend per category.
func (r *Repository) CategoryBreakdown(ctx context.Context, period finance.Period) ([]CategoryTotal, error) {
	start := period.Start()
	end := start.AddDate(0, 1, 0)

	rows, err := r.pool.Query(ctx, `
		SELECT category, COALESCE(SUM(amount), 0), COUNT(*)
		FROM expenses
		WHERE spent_at >= $1 AND spent_at < $2
		GROUP BY category
		ORDER BY 2 DESC`, start, end)
	if err != nil {
		return nil, fmt.Errorf("expenses: category breakdown: %w", err)
	}
	defer rows.Close()

	var totals []CategoryTotal
	for rows.Next() {
		var t CategoryTotal
		if err := rows.Scan(&t.Category, &t.Amount, &t.Count); err != nil {
			return nil, fmt.Errorf("expenses: scan breakdown: %w", err)
		}
		totals = append(totals, t)
	}
	return totals, rows.Err()
}

func (r *Repository) Update(ctx context.Context, id int64, input UpdateExpenseRequest, spentAt *time.Time) (Expense, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE expenses SET
			category    = COALESCE($2, category),
			description = COALESCE($3, description),
			amount      = COALESCE($4, amount),
			spent_at    = COALESCE($5, spent_at),
			note        = COALESCE($6, note),
			updated_at  = now()
		WHERE id = $1
		RETURNING `+expenseColumns,
		id, input.Category, input.Description, input.Amount, spentAt, input.Note,
	)
	e, err := scanExpense(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Expense{}, ErrNotFound
	}
	if err != nil {
		return Expense{}, fmt.Errorf("expenses: update expense: %w", err)
	}
	return e, nil
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM expenses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("expenses: delete expense: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
