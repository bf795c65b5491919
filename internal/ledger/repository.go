package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dairydesk/dairydesk/internal/platform/db"
)

var (
	ErrNotFound       = errors.New("ledger: entry not found")
	ErrOverSettlement = errors.New("ledger: settlement exceeds outstanding amount")
	ErrOverRepayment  = errors.New("ledger: repayment exceeds loan outstanding")
)

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// settleEpsilon guards float comparisons on money columns.
const settleEpsilon = 1e-9

// --- suppliers ---

const supplierColumns = `id, name, phone, category, notes, created_at, updated_at`

func scanSupplier(row pgx.Row) (Supplier, error) {
	var (
		s     Supplier
		phone pgtype.Text
		notes pgtype.Text
	)
	err := row.Scan(&s.ID, &s.Name, &phone, &s.Category, &notes, &s.CreatedAt, &s.UpdatedAt)
	if err != nil {
		return Supplier{}, err
	}
	if phone.Valid {
		s.Phone = &phone.String
	}
	if notes.Valid {
		s.Notes = &notes.String
	}
	return s, nil
}

func (r *Repository) CreateSupplier(ctx context.Context, s Supplier) (Supplier, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO suppliers (name, phone, category, notes)
		VALUES ($1, $2, $3, $4)
		RETURNING `+supplierColumns,
		s.Name, s.Phone, s.Category, s.Notes,
	)
	saved, err := scanSupplier(row)
	if err != nil {
		return Supplier{}, fmt.Errorf("ledger: create supplier: %w", err)
	}
	return saved, nil
}

func (r *Repository) ListSuppliers(ctx context.Context) ([]Supplier, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+supplierColumns+` FROM suppliers ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("ledger: list suppliers: %w", err)
	}
	defer rows.Close()

	var list []Supplier
	for rows.Next() {
		s, err := scanSupplier(rows)
		if err != nil {
			return nil, fmt.Errorf("ledger: scan supplier: %w", err)
		}
		list = append(list, s)
	}
	return list, rows.Err()
}

// --- payables ---

const payableColumns = `id, supplier_id, name, category, amount, settled, due_at, note, created_at, updated_at`

func scanPayable(row pgx.Row) (Payable, error) {
	var (
		p          Payable
		supplierID pgtype.Int8
		dueAt      pgtype.Timestamptz
		note       pgtype.Text
	)
	err := row.Scan(&p.ID, &supplierID, &p.Name, &p.Category, &p.Amount, &p.Settled, &dueAt, &note, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return Payable{}, err
	}
	if supplierID.Valid {
		p.SupplierID = &supplierID.Int64
	}
	if dueAt.Valid {
		p.DueAt = &dueAt.Time
	}
	if note.Valid {
		p.Note = &note.String
	}
	return p, nil
}

func (r *Repository) CreatePayable(ctx context.Context, p Payable) (Payable, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO payables (supplier_id, name, category, amount, due_at, note)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+payableColumns,
		p.SupplierID, p.Name, p.Category, p.Amount, p.DueAt, p.Note,
	)
	saved, err := scanPayable(row)
	if err != nil {
		return Payable{}, fmt.Errorf("ledger: create payable: %w", err)
	}
	return saved, nil
}

// ListPayables returns open entries first; settled entries stay available
// behind includeSettled for the history view.
func (r *Repository) ListPayables(ctx context.Context, includeSettled bool) ([]Payable, error) {
	query := `SELECT ` + payableColumns + ` FROM payables`
	if !includeSettled {
		query += ` WHERE amount - settled > $1`
	}
	query += ` ORDER BY due_at NULLS LAST, id`

	var (
		rows pgx.Rows
		err  error
	)
	if includeSettled {
		rows, err = r.pool.Query(ctx, query)
	} else {
		rows, err = r.pool.Query(ctx, query, settleEpsilon)
	}
	if err != nil {
		return nil, fmt.Errorf("ledger: list payables: %w", err)
	}
	defer rows.Close()

	var list []Payable
	for rows.Next() {
		p, err := scanPayable(rows)
		if err != nil {
			return nil, fmt.Errorf("ledger: scan payable: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

// SettlePayable adds to the settled amount under a row lock, rejecting
// settlements beyond the outstanding balance.
func (r *Repository) SettlePayable(ctx context.Context, id int64, amount float64) (Payable, error) {
	var settled Payable
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx, `SELECT amount, settled FROM payables WHERE id = $1 FOR UPDATE`, id)
		var total, already float64
		if err := row.Scan(&total, &already); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrNotFound
			}
			return fmt.Errorf("ledger: lock payable: %w", err)
		}
		if amount > total-already+settleEpsilon {
			return ErrOverSettlement
		}
		urow := tx.QueryRow(ctx, `
			UPDATE payables SET settled = settled + $2, updated_at = now()
			WHERE id = $1
			RETURNING `+payableColumns, id, amount)
		var err error
		settled, err = scanPayable(urow)
		return err
	})
	if err != nil {
		return Payable{}, err
	}
	return settled, nil
}

// --- receivables ---

const receivableColumns = `id, customer_id, name, category, amount, settled, due_at, note, created_at, updated_at`

func scanReceivable(row pgx.Row) (Receivable, error) {
	var (
		rc         Receivable
		customerID pgtype.Int8
		dueAt      pgtype.Timestamptz
		note       pgtype.Text
	)
	err := row.Scan(&rc.ID, &customerID, &rc.Name, &rc.Category, &rc.Amount, &rc.Settled, &dueAt, &note, &rc.CreatedAt, &rc.UpdatedAt)
	if err != nil {
		return Receivable{}, err
	}
	if customerID.Valid {
		rc.CustomerID = &customerID.Int64
	}
	if dueAt.Valid {
		rc.DueAt = &dueAt.Time
	}
	if note.Valid {
		rc.Note = &note.String
	}
	return rc, nil
}

func (r *Repository) CreateReceivable(ctx context.Context, rc Receivable) (Receivable, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO receivables (customer_id, name, category, amount, due_at, note)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+receivableColumns,
		rc.CustomerID, rc.Name, rc.Category, rc.Amount, rc.DueAt, rc.Note,
	)
	saved, err := scanReceivable(row)
	if err != nil {
		return Receivable{}, fmt.Errorf("ledger: create receivable: %w", err)
	}
	return saved, nil
}

func (r *Repository) ListReceivables(ctx context.Context, includeSettled bool) ([]Receivable, error) {
	query := `SELECT ` + receivableColumns + ` FROM receivables`
	if !includeSettled {
		query += ` WHERE amount - settled > $1`
	}
	query += ` ORDER BY due_at NULLS LAST, id`

	var (
		rows pgx.Rows
		err  error
	)
	if includeSettled {
		rows, err = r.pool.Query(ctx, query)
	} else {
		rows, err = r.pool.Query(ctx, query, settleEpsilon)
	}
	if err != nil {
		return nil, fmt.Errorf("ledger: list receivables: %w", err)
	}
	defer rows.Close()

	var list []Receivable
	for rows.Next() {
		rc, err := scanReceivable(rows)
		if err != nil {
			return nil, fmt.Errorf("ledger: scan receivable: %w", err)
		}
		list = append(list, rc)
	}
	return list, rows.Err()
}

func (r *Repository) SettleReceivable(ctx context.Context, id int64, amount float64) (Receivable, error) {
	var settled Receivable
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx, `SELECT amount, settled FROM receivables WHERE id = $1 FOR UPDATE`, id)
		var total, already float64
		if err := row.Scan(&total, &already); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrNotFound
			}
			return fmt.Errorf("ledger: lock receivable: %w", err)
		}
		if amount > total-already+settleEpsilon {
			return ErrOverSettlement
		}
		urow := tx.QueryRow(ctx, `
			UPDATE receivables SET settled = settled + $2, updated_at = now()
			WHERE id = $1
			RETURNING `+receivableColumns, id, amount)
		var err error
		settled, err = scanReceivable(urow)
		return err
	})
	if err != nil {
		return Receivable{}, err
	}
	return settled, nil
}

// --- loans ---

const loanColumns = `id, lender, principal, annual_rate_pct, tenure_months, frequency, started_at, repaid, note, created_at, updated_at`

func scanLoan(row pgx.Row) (Loan, error) {
	var (
		l    Loan
		note pgtype.Text
	)
	err := row.Scan(&l.ID, &l.Lender, &l.Principal, &l.AnnualRatePct, &l.TenureMonths, &l.Frequency,
		&l.StartedAt, &l.Repaid, &note, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return Loan{}, err
	}
	if note.Valid {
		l.Note = &note.String
	}
	return l, nil
}

func (r *Repository) CreateLoan(ctx context.Context, l Loan) (Loan, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO loans (lender, principal, annual_rate_pct, tenure_months, frequency, started_at, note)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+loanColumns,
		l.Lender, l.Principal, l.AnnualRatePct, l.TenureMonths, l.Frequency, l.StartedAt, l.Note,
	)
	saved, err := scanLoan(row)
	if err != nil {
		return Loan{}, fmt.Errorf("ledger: create loan: %w", err)
	}
	return saved, nil
}

func (r *Repository) GetLoan(ctx context.Context, id int64) (Loan, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+loanColumns+` FROM loans WHERE id = $1`, id)
	l, err := scanLoan(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return Loan{}, ErrNotFound
	}
	if err != nil {
		return Loan{}, fmt.Errorf("ledger: get loan: %w", err)
	}
	return l, nil
}

func (r *Repository) ListLoans(ctx context.Context) ([]Loan, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+loanColumns+` FROM loans ORDER BY started_at, id`)
	if err != nil {
		return nil, fmt.Errorf("ledger: list loans: %w", err)
	}
	defer rows.Close()

	var list []Loan
	for rows.Next() {
		l, err := scanLoan(rows)
		if err != nil {
			return nil, fmt.Errorf("ledger: scan loan: %w", err)
		}
		list = append(list, l)
	}
	return list, rows.Err()
}

// RepayLoan records an installment payment against the loan's total payable.
func (r *Repository) RepayLoan(ctx context.Context, id int64, amount float64) (Loan, error) {
	var repaid Loan
	err := db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx, `SELECT `+loanColumns+` FROM loans WHERE id = $1 FOR UPDATE`, id)
		current, err := scanLoan(row)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return ErrNotFound
			}
			return fmt.Errorf("ledger: lock loan: %w", err)
		}
		if amount > current.Outstanding()+settleEpsilon {
			return ErrOverRepayment
		}
		urow := tx.QueryRow(ctx, `
			UPDATE loans SET repaid = repaid + $2, updated_at = now()
			WHERE id = $1
			RETURNING `+loanColumns, id, amount)
		repaid, err = scanLoan(urow)
		return err
	})
	if err != nil {
		return Loan{}, err
	}
	return repaid, nil
}

// --- bank accounts ---

const bankColumns = `id, name, bank, balance, as_of, created_at, updated_at`

func scanBank(row pgx.Row) (BankAccount, error) {
	var b BankAccount
	err := row.Scan(&b.ID, &b.Name, &b.Bank, &b.Balance, &b.AsOf, &b.CreatedAt, &b.UpdatedAt)
	return b, err
}

func (r *Repository) CreateBankAccount(ctx context.Context, b BankAccount) (BankAccount, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO bank_accounts (name, bank, balance, as_of)
		VALUES ($1, $2, $3, $4)
		RETURNING `+bankColumns,
		b.Name, b.Bank, b.Balance, b.AsOf,
	)
	saved, err := scanBank(row)
	if err != nil {
		return BankAccount{}, fmt.Errorf("ledger: create bank account: %w", err)
	}
	return saved, nil
}

func (r *Repository) ListBankAccounts(ctx context.Context) ([]BankAccount, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+bankColumns+` FROM bank_accounts ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("ledger: list bank accounts: %w", err)
	}
	defer rows.Close()

	var list []BankAccount
	for rows.Next() {
		b, err := scanBank(rows)
		if err != nil {
			return nil, fmt.Errorf("ledger: scan bank account: %w", err)
		}
		list = append(list, b)
	}
	return list, rows.Err()
}

func (r *Repository) UpdateBankBalance(ctx context.Context, id int64, balance float64, asOf time.Time) (BankAccount, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE bank_accounts SET balance = $2, as_of = $3, updated_at = now()
		WHERE id = $1
		RETURNING `+bankColumns, id, balance, asOf)
	b, err := scanBank(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return BankAccount{}, ErrNotFound
	}
	if err != nil {
		return BankAccount{}, fmt.Errorf("ledger: update bank balance: %w", err)
	}
	return b, nil
}
