package sales

import "time"

// Sale is a one-off counter sale of a dairy product, separate from the
// monthly milk billing cycle. Paid sales count as income immediately.
type Sale struct {
	ID         int64     `json:"id" db:"id"`
	Product    string    `json:"product" db:"product"`
	Quantity   float64   `json:"quantity" db:"quantity"`
	Unit       string    `json:"unit" db:"unit"`
	UnitPrice  float64   `json:"unit_price" db:"unit_price"`
	Amount     float64   `json:"amount" db:"amount"`
	CustomerID *int64    `json:"customer_id,omitempty" db:"customer_id"`
	Buyer      *string   `json:"buyer,omitempty" db:"buyer"`
	SoldAt     time.Time `json:"sold_at" db:"sold_at"`
	Note       *string   `json:"note,omitempty" db:"note"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// CreateSaleRequest records a counter sale. Amount is derived server side
// from quantity and unit price.
type CreateSaleRequest struct {
	Product    string  `json:"product" validate:"required,min=2,max=120"`
	Quantity   float64 `json:"quantity" validate:"required,gt=0"`
	Unit       string  `json:"unit" validate:"required,oneof=l kg piece packet"`
	UnitPrice  float64 `json:"unit_price" validate:"required,gt=0"`
	CustomerID *int64  `json:"customer_id,omitempty" validate:"omitempty,gt=0"`
	Buyer      *string `json:"buyer,omitempty" validate:"omitempty,max=120"`
	SoldAt     string  `json:"sold_at,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Note       *string `json:"note,omitempty" validate:"omitempty,max=500"`
}
