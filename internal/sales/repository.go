package sales

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dairydesk/dairydesk/internal/finance"
)

var ErrNotFound = errors.New("sales: sale not found")

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const saleColumns = `id, product, quantity, unit, unit_price, amount, customer_id, buyer, sold_at, note, created_at`

func scanSale(row pgx.Row) (Sale, error) {
	var (
		s          Sale
		customerID pgtype.Int8
		buyer      pgtype.Text
		note       pgtype.Text
	)
	err := row.Scan(&s.ID, &s.Product, &s.Quantity, &s.Unit, &s.UnitPrice, &s.Amount,
		&customerID, &buyer, &s.SoldAt, &note, &s.CreatedAt)
	if err != nil {
		return Sale{}, err
	}
	if customerID.Valid {
		s.CustomerID = &customerID.Int64
	}
	if buyer.Valid {
		s.Buyer = &buyer.String
	}
	if note.Valid {
		s.Note = &note.String
	}
	return s, nil
}

func (r *Repository) Create(ctx context.Context, s Sale) (Sale, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO sales (product, quantity, unit, unit_price, amount, customer_id, buyer, sold_at, note)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING `+saleColumns,
		s.Product, s.Quantity, s.Unit, s.UnitPrice, s.Amount, s.CustomerID, s.Buyer, s.SoldAt, s.Note,
	)
	saved, err := scanSale(row)
	if err != nil {
		return Sale{}, fmt.Errorf("sales: create sale: %w", err)
	}
	return saved, nil
}

func (r *Repository) Get(ctx context.Context, id int64) (Sale, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+saleColumns+` FROM sales WHERE id = $1`, id)
	s, err := scanSale(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Sale{}, ErrNotFound
	}
	if err != nil {
		return Sale{}, fmt.Errorf("sales: get sale: %w", err)
	}
	return s, nil
}

// ListByPeriod returns the month's sales, newest first.
func (r *Repository) ListByPeriod(ctx context.Context, period finance.Period) ([]Sale, error) {
	start := period.Start()
	end := start.AddDate(0, 1, 0)

	rows, err := r.pool.Query(ctx, `
		SELECT `+saleColumns+` FROM sales
		WHERE sold_at >= $1 AND sold_at < $2
		ORDER BY sold_at DESC, id DESC`, start, end)
	if err != nil {
		return nil, fmt.Errorf("sales: list sales: %w", err)
	}
	defer rows.Close()

	var list []Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, fmt.Errorf("sales: scan sale: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM sales WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("sales: delete sale: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
