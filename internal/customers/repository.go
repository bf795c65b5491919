package customers

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// ErrNotFound indicates the customer does not exist.
var ErrNotFound = errors.New("customers: not found")

// ErrAlreadyExists indicates a registration conflict.
var ErrAlreadyExists = errors.New("customers: already exists")

// Repository provides PostgreSQL backed persistence for customers.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const customerColumns = `id, name, phone, address, daily_quantity_l, rate_per_litre, is_active, notes, created_at, updated_at`

func scanCustomer(row pgx.Row) (*Customer, error) {
	var c Customer
	err := row.Scan(
		&c.ID,
		&c.Name,
		&c.Phone,
		&c.Address,
		&c.DailyQuantity,
		&c.RatePerLitre,
		&c.IsActive,
		&c.Notes,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}

// Create inserts a new customer.
func (r *Repository) Create(ctx context.Context, input CreateCustomerRequest) (*Customer, error) {
	query := `
		INSERT INTO customers (name, phone, address, daily_quantity_l, rate_per_litre, is_active, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, TRUE, $6, NOW(), NOW())
		RETURNING ` + customerColumns

	customer, err := scanCustomer(r.pool.QueryRow(ctx, query,
		input.Name,
		input.Phone,
		input.Address,
		input.DailyQuantity,
		input.RatePerLitre,
		input.Notes,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			return nil, ErrAlreadyExists
		}
		return nil, fmt.Errorf("customers: create: %w", err)
	}
	return customer, nil
}

// Get fetches a customer by id.
func (r *Repository) Get(ctx context.Context, id int64) (*Customer, error) {
	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`
	return scanCustomer(r.pool.QueryRow(ctx, query, id))
}

// List returns customers matching the filter plus the total count.
func (r *Repository) List(ctx context.Context, req ListCustomersRequest) ([]Customer, int, error) {
	conds := []string{"TRUE"}
	args := []any{}
	idx := 1
	if req.ActiveOnly {
		conds = append(conds, "is_active")
	}
	if req.Search != "" {
		conds = append(conds, fmt.Sprintf("(name ILIKE $%d OR phone ILIKE $%d)", idx, idx))
		args = append(args, "%"+req.Search+"%")
		idx++
	}
	where := strings.Join(conds, " AND ")

	var total int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM customers WHERE `+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("customers: count: %w", err)
	}

	perPage := req.PerPage
	if perPage <= 0 {
		perPage = 20
	}
	page := req.Page
	if page <= 0 {
		page = 1
	}
	query := fmt.Sprintf(`SELECT %s FROM customers WHERE %s ORDER BY name LIMIT $%d OFFSET $%d`,
		customerColumns, where, idx, idx+1)
	args = append(args, perPage, (page-1)*perPage)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("customers: list: %w", err)
	}
	defer rows.Close()

	var out []Customer
	for rows.Next() {
		var c Customer
		if err := rows.Scan(
			&c.ID, &c.Name, &c.Phone, &c.Address, &c.DailyQuantity,
			&c.RatePerLitre, &c.IsActive, &c.Notes, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, 0, err
		}
		out = append(out, c)
	}
	return out, total, rows.Err()
}

// ListActive returns all active customers, unpaginated, for billing runs.
func (r *Repository) ListActive(ctx context.Context) ([]Customer, error) {
	all, _, err := r.List(ctx, ListCustomersRequest{ActiveOnly: true, PerPage: 10000})
	return all, err
}

// Update applies partial changes to a customer.
func (r *Repository) Update(ctx context.Context, id int64, input UpdateCustomerRequest) (*Customer, error) {
	query := `
		UPDATE customers SET
			name = COALESCE($2, name),
			phone = COALESCE($3, phone),
			address = COALESCE($4, address),
			daily_quantity_l = COALESCE($5, daily_quantity_l),
			rate_per_litre = COALESCE($6, rate_per_litre),
			is_active = COALESCE($7, is_active),
			notes = COALESCE($8, notes),
			updated_at = NOW()
		WHERE id = $1
		RETURNING ` + customerColumns

	return scanCustomer(r.pool.QueryRow(ctx, query,
		id,
		input.Name,
		input.Phone,
		input.Address,
		input.DailyQuantity,
		input.RatePerLitre,
		input.IsActive,
		input.Notes,
	))
}
