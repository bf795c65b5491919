package attendance

import "time"

// Shift identifies the delivery round an entry belongs to.
type Shift string

const (
	ShiftMorning Shift = "morning"
	ShiftEvening Shift = "evening"
)

// Valid reports whether the shift is a known round.
func (s Shift) Valid() bool {
	return s == ShiftMorning || s == ShiftEvening
}

// Entry is one customer's attendance record for a day and shift. Quantity is
// litres actually delivered; a skipped day keeps the row with Delivered false
// so the month view can show the gap.
type Entry struct {
	ID         int64     `json:"id" db:"id"`
	CustomerID int64     `json:"customer_id" db:"customer_id"`
	Day        time.Time `json:"day" db:"day"`
	Shift      Shift     `json:"shift" db:"shift"`
	Quantity   float64   `json:"quantity_l" db:"quantity_l"`
	Delivered  bool      `json:"delivered" db:"delivered"`
	Note       *string   `json:"note,omitempty" db:"note"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// MonthlyTotal aggregates one customer's deliveries over a billing period.
type MonthlyTotal struct {
	CustomerID    int64   `json:"customer_id"`
	CustomerName  string  `json:"customer_name"`
	RatePerLitre  float64 `json:"rate_per_litre"`
	Litres        float64 `json:"litres"`
	Amount        float64 `json:"amount"`
	DeliveredDays int     `json:"delivered_days"`
	SkippedDays   int     `json:"skipped_days"`
}

// MarkRequest records or corrects one attendance entry.
type MarkRequest struct {
	CustomerID int64   `json:"customer_id" validate:"required,gt=0"`
	Day        string  `json:"day" validate:"required,datetime=2006-01-02"`
	Shift      Shift   `json:"shift" validate:"required"`
	Quantity   float64 `json:"quantity_l" validate:"gte=0"`
	Delivered  bool    `json:"delivered"`
	Note       *string `json:"note,omitempty" validate:"omitempty,max=500"`
}
