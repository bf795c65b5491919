package customers

// CreateCustomerRequest carries the fields accepted on registration.
type CreateCustomerRequest struct {
	Name          string  `json:"name" validate:"required,min=2,max=120"`
	Phone         *string `json:"phone,omitempty" validate:"omitempty,min=6,max=20"`
	Address       *string `json:"address,omitempty" validate:"omitempty,max=500"`
	DailyQuantity float64 `json:"daily_quantity_l" validate:"gte=0"`
	RatePerLitre  float64 `json:"rate_per_litre" validate:"gt=0"`
	Notes         *string `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

// UpdateCustomerRequest carries the updatable fields; nil means unchanged.
type UpdateCustomerRequest struct {
	Name          *string  `json:"name,omitempty" validate:"omitempty,min=2,max=120"`
	Phone         *string  `json:"phone,omitempty" validate:"omitempty,min=6,max=20"`
	Address       *string  `json:"address,omitempty" validate:"omitempty,max=500"`
	DailyQuantity *float64 `json:"daily_quantity_l,omitempty" validate:"omitempty,gte=0"`
	RatePerLitre  *float64 `json:"rate_per_litre,omitempty" validate:"omitempty,gt=0"`
	IsActive      *bool    `json:"is_active,omitempty"`
	Notes         *string  `json:"notes,omitempty" validate:"omitempty,max=1000"`
}

// ListCustomersRequest filters the customer listing.
type ListCustomersRequest struct {
	ActiveOnly bool
	Search     string
	Page       int
	PerPage    int
}
