package ledger

import "github.com/dairydesk/dairydesk/internal/finance"

type CreateSupplierRequest struct {
	Name     string  `json:"name" validate:"required,min=2,max=120"`
	Phone    *string `json:"phone,omitempty" validate:"omitempty,min=6,max=20"`
	Category string  `json:"category" validate:"required,min=2,max=60"`
	Notes    *string `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

// CreateObligationRequest covers both payables and receivables; the route
// decides which side of the ledger it lands on.
type CreateObligationRequest struct {
	PartyID  *int64  `json:"party_id,omitempty" validate:"omitempty,gt=0"`
	Name     string  `json:"name" validate:"required,min=2,max=120"`
	Category string  `json:"category" validate:"required,min=2,max=60"`
	Amount   float64 `json:"amount" validate:"required,gt=0"`
	DueAt    *string `json:"due_at,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Note     *string `json:"note,omitempty" validate:"omitempty,max=500"`
}

type SettleRequest struct {
	Amount float64 `json:"amount" validate:"required,gt=0"`
	Note   *string `json:"note,omitempty" validate:"omitempty,max=500"`
}

type CreateLoanRequest struct {
	Lender        string            `json:"lender" validate:"required,min=2,max=120"`
	Principal     float64           `json:"principal" validate:"required,gt=0"`
	AnnualRatePct float64           `json:"annual_rate_pct" validate:"gte=0"`
	TenureMonths  int               `json:"tenure_months" validate:"required,gt=1"`
	Frequency     finance.Frequency `json:"frequency" validate:"required,oneof=monthly quarterly half_yearly yearly"`
	StartedAt     string            `json:"started_at" validate:"required,datetime=2006-01-02"`
	Note          *string           `json:"note,omitempty" validate:"omitempty,max=500"`
}

type UpdateBankAccountRequest struct {
	Balance float64 `json:"balance"`
	AsOf    string  `json:"as_of,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

type CreateBankAccountRequest struct {
	Name    string  `json:"name" validate:"required,min=2,max=120"`
	Bank    string  `json:"bank" validate:"required,min=2,max=120"`
	Balance float64 `json:"balance"`
}
