package analytics

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dairydesk/dairydesk/internal/finance"
)

// Repository loads the raw collections the dashboards aggregate over.
type Repository interface {
	Sales(ctx context.Context) ([]finance.Sale, error)
	Payments(ctx context.Context) ([]finance.Payment, error)
	Bills(ctx context.Context) ([]finance.Bill, error)
	Expenses(ctx context.Context) ([]finance.Expense, error)
	Payables(ctx context.Context) ([]finance.AgingEntry, error)
	Receivables(ctx context.Context) ([]finance.AgingEntry, error)
	Loans(ctx context.Context) ([]finance.Loan, error)
	BankBalance(ctx context.Context) (float64, error)
}

// PGRepository reads dashboard inputs straight from the operational tables.
// The dataset for a single dairy stays small enough to aggregate in memory.
type PGRepository struct {
	pool *pgxpool.Pool
}

func NewPGRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

func (r *PGRepository) Sales(ctx context.Context) ([]finance.Sale, error) {
	rows, err := r.pool.Query(ctx, `SELECT sold_at, product, quantity, unit_price, amount FROM sales`)
	if err != nil {
		return nil, fmt.Errorf("analytics: load sales: %w", err)
	}
	defer rows.Close()

	var sales []finance.Sale
	for rows.Next() {
		var s finance.Sale
		if err := rows.Scan(&s.Date, &s.ProductType, &s.Quantity, &s.UnitPrice, &s.TotalAmount); err != nil {
			return nil, fmt.Errorf("analytics: scan sale: %w", err)
		}
		// Counter sales are settled on the spot.
		s.Paid = true
		sales = append(sales, s)
	}
	return sales, rows.Err()
}

func (r *PGRepository) Payments(ctx context.Context) ([]finance.Payment, error) {
	rows, err := r.pool.Query(ctx, `SELECT paid_at, amount, method FROM bill_payments`)
	if err != nil {
		return nil, fmt.Errorf("analytics: load payments: %w", err)
	}
	defer rows.Close()

	var payments []finance.Payment
	for rows.Next() {
		var p finance.Payment
		if err := rows.Scan(&p.Date, &p.Amount, &p.Method); err != nil {
			return nil, fmt.Errorf("analytics: scan payment: %w", err)
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}

func (r *PGRepository) Bills(ctx context.Context) ([]finance.Bill, error) {
	rows, err := r.pool.Query(ctx, `SELECT period, amount, created_at FROM bills`)
	if err != nil {
		return nil, fmt.Errorf("analytics: load bills: %w", err)
	}
	defer rows.Close()

	var bills []finance.Bill
	for rows.Next() {
		var b finance.Bill
		if err := rows.Scan(&b.BillingPeriod, &b.TotalAmount, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("analytics: scan bill: %w", err)
		}
		bills = append(bills, b)
	}
	return bills, rows.Err()
}

func (r *PGRepository) Expenses(ctx context.Context) ([]finance.Expense, error) {
	rows, err := r.pool.Query(ctx, `SELECT spent_at, category, amount FROM expenses`)
	if err != nil {
		return nil, fmt.Errorf("analytics: load expenses: %w", err)
	}
	defer rows.Close()

	var expenses []finance.Expense
	for rows.Next() {
		var e finance.Expense
		if err := rows.Scan(&e.Date, &e.Category, &e.Amount); err != nil {
			return nil, fmt.Errorf("analytics: scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	return expenses, rows.Err()
}

func (r *PGRepository) agingEntries(ctx context.Context, table string) ([]finance.AgingEntry, error) {
	rows, err := r.pool.Query(ctx, `SELECT name, category, amount, settled, due_at FROM `+table)
	if err != nil {
		return nil, fmt.Errorf("analytics: load %s: %w", table, err)
	}
	defer rows.Close()

	var entries []finance.AgingEntry
	for rows.Next() {
		var (
			e     finance.AgingEntry
			dueAt pgtype.Timestamptz
		)
		if err := rows.Scan(&e.Name, &e.Category, &e.Amount, &e.Settled, &dueAt); err != nil {
			return nil, fmt.Errorf("analytics: scan %s: %w", table, err)
		}
		if dueAt.Valid {
			e.DueAt = dueAt.Time
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

func (r *PGRepository) Payables(ctx context.Context) ([]finance.AgingEntry, error) {
	return r.agingEntries(ctx, "payables")
}

func (r *PGRepository) Receivables(ctx context.Context) ([]finance.AgingEntry, error) {
	return r.agingEntries(ctx, "receivables")
}

func (r *PGRepository) Loans(ctx context.Context) ([]finance.Loan, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT lender, principal, annual_rate_pct, tenure_months, frequency, started_at, repaid
		FROM loans`)
	if err != nil {
		return nil, fmt.Errorf("analytics: load loans: %w", err)
	}
	defer rows.Close()

	var loans []finance.Loan
	for rows.Next() {
		var (
			l      finance.Loan
			repaid float64
		)
		if err := rows.Scan(&l.Lender, &l.Principal, &l.AnnualRatePct, &l.TenureMonths, &l.Frequency, &l.StartedAt, &repaid); err != nil {
			return nil, fmt.Errorf("analytics: scan loan: %w", err)
		}
		l.Name = l.Lender
		l.Outstanding = finance.TotalAmount(l.Principal, l.AnnualRatePct, l.TenureMonths, l.Frequency) - repaid
		if l.Outstanding < 0 {
			l.Outstanding = 0
		}
		loans = append(loans, l)
	}
	return loans, rows.Err()
}

func (r *PGRepository) BankBalance(ctx context.Context) (float64, error) {
	var balance float64
	err := r.pool.QueryRow(ctx, `SELECT COALESCE(SUM(balance), 0) FROM bank_accounts`).Scan(&balance)
	if err != nil {
		return 0, fmt.Errorf("analytics: bank balance: %w", err)
	}
	return balance, nil
}
