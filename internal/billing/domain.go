package billing

import "time"

// BillStatus tracks how much of a bill has been collected.
type BillStatus string

const (
	StatusPending BillStatus = "pending"
	StatusPartial BillStatus = "partial"
	StatusPaid    BillStatus = "paid"
)

// Bill is one customer's charge for a billing period. Amount is frozen at
// generation time; later rate changes do not rewrite issued bills.
type Bill struct {
	ID           int64      `json:"id" db:"id"`
	CustomerID   int64      `json:"customer_id" db:"customer_id"`
	CustomerName string     `json:"customer_name" db:"customer_name"`
	Period       string     `json:"period" db:"period"`
	Litres       float64    `json:"litres" db:"litres"`
	RatePerLitre float64    `json:"rate_per_litre" db:"rate_per_litre"`
	Amount       float64    `json:"amount" db:"amount"`
	PaidAmount   float64    `json:"paid_amount" db:"paid_amount"`
	Status       BillStatus `json:"status" db:"status"`
	DueAt        time.Time  `json:"due_at" db:"due_at"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

// Outstanding is the unpaid remainder of the bill.
func (b Bill) Outstanding() float64 {
	return b.Amount - b.PaidAmount
}

// Payment is one collection against a bill.
type Payment struct {
	ID        int64     `json:"id" db:"id"`
	BillID    int64     `json:"bill_id" db:"bill_id"`
	Amount    float64   `json:"amount" db:"amount"`
	Method    string    `json:"method" db:"method"`
	Note      *string   `json:"note,omitempty" db:"note"`
	PaidAt    time.Time `json:"paid_at" db:"paid_at"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// GenerateResult reports what one billing run produced.
type GenerateResult struct {
	Period  string `json:"period"`
	Created int    `json:"created"`
	Skipped int    `json:"skipped"`
}
