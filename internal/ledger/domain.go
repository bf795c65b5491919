package ledger

import (
	"time"

	"github.com/dairydesk/dairydesk/internal/finance"
)

// Supplier is a vendor the dairy buys from, typically feed and equipment.
type Supplier struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Phone     *string   `json:"phone,omitempty" db:"phone"`
	Category  string    `json:"category" db:"category"`
	Notes     *string   `json:"notes,omitempty" db:"notes"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Payable is money the dairy owes. Settled accumulates partial payments;
// the row is never deleted so the settlement trail stays auditable.
type Payable struct {
	ID         int64      `json:"id" db:"id"`
	SupplierID *int64     `json:"supplier_id,omitempty" db:"supplier_id"`
	Name       string     `json:"name" db:"name"`
	Category   string     `json:"category" db:"category"`
	Amount     float64    `json:"amount" db:"amount"`
	Settled    float64    `json:"settled" db:"settled"`
	DueAt      *time.Time `json:"due_at,omitempty" db:"due_at"`
	Note       *string    `json:"note,omitempty" db:"note"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at" db:"updated_at"`
}

// Outstanding is the unsettled remainder.
func (p Payable) Outstanding() float64 { return p.Amount - p.Settled }

// AgingEntry converts the payable for bucket analysis.
func (p Payable) AgingEntry() finance.AgingEntry {
	e := finance.AgingEntry{Name: p.Name, Category: p.Category, Amount: p.Amount, Settled: p.Settled}
	if p.DueAt != nil {
		e.DueAt = *p.DueAt
	}
	return e
}

// Receivable is money owed to the dairy outside the monthly billing cycle,
// such as an advance given to a customer or a bulk order on credit.
type Receivable struct {
	ID         int64      `json:"id" db:"id"`
	CustomerID *int64     `json:"customer_id,omitempty" db:"customer_id"`
	Name       string     `json:"name" db:"name"`
	Category   string     `json:"category" db:"category"`
	Amount     float64    `json:"amount" db:"amount"`
	Settled    float64    `json:"settled" db:"settled"`
	DueAt      *time.Time `json:"due_at,omitempty" db:"due_at"`
	Note       *string    `json:"note,omitempty" db:"note"`
	CreatedAt  time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at" db:"updated_at"`
}

func (r Receivable) Outstanding() float64 { return r.Amount - r.Settled }

func (r Receivable) AgingEntry() finance.AgingEntry {
	e := finance.AgingEntry{Name: r.Name, Category: r.Category, Amount: r.Amount, Settled: r.Settled}
	if r.DueAt != nil {
		e.DueAt = *r.DueAt
	}
	return e
}

// Loan is a borrowing with an EMI obligation.
type Loan struct {
	ID            int64             `json:"id" db:"id"`
	Lender        string            `json:"lender" db:"lender"`
	Principal     float64           `json:"principal" db:"principal"`
	AnnualRatePct float64           `json:"annual_rate_pct" db:"annual_rate_pct"`
	TenureMonths  int               `json:"tenure_months" db:"tenure_months"`
	Frequency     finance.Frequency `json:"frequency" db:"frequency"`
	StartedAt     time.Time         `json:"started_at" db:"started_at"`
	Repaid        float64           `json:"repaid" db:"repaid"`
	Note          *string           `json:"note,omitempty" db:"note"`
	CreatedAt     time.Time         `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at" db:"updated_at"`
}

// EMI is the per-installment obligation for this loan's frequency.
func (l Loan) EMI() float64 {
	return finance.EMI(l.Principal, l.AnnualRatePct, l.TenureMonths, l.Frequency)
}

// TotalPayable is principal plus interest over the full tenure.
func (l Loan) TotalPayable() float64 {
	return finance.TotalAmount(l.Principal, l.AnnualRatePct, l.TenureMonths, l.Frequency)
}

// Outstanding is what remains of the total obligation after repayments.
func (l Loan) Outstanding() float64 {
	remaining := l.TotalPayable() - l.Repaid
	if remaining < 0 {
		return 0
	}
	return remaining
}

// BankAccount tracks one account's running balance, updated manually from
// statements rather than reconciled transaction by transaction.
type BankAccount struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Bank      string    `json:"bank" db:"bank"`
	Balance   float64   `json:"balance" db:"balance"`
	AsOf      time.Time `json:"as_of" db:"as_of"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}
