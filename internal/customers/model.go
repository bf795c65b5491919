package customers

import "time"

// Customer is a milk-delivery customer registration.
type Customer struct {
	ID            int64     `json:"id" db:"id"`
	Name          string    `json:"name" db:"name"`
	Phone         *string   `json:"phone,omitempty" db:"phone"`
	Address       *string   `json:"address,omitempty" db:"address"`
	DailyQuantity float64   `json:"daily_quantity_l" db:"daily_quantity_l"`
	RatePerLitre  float64   `json:"rate_per_litre" db:"rate_per_litre"`
	IsActive      bool      `json:"is_active" db:"is_active"`
	Notes         *string   `json:"notes,omitempty" db:"notes"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}
