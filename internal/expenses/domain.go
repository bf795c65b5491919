package expenses

import "time"

// Category groups expenses for the monthly breakdown.
type Category string

const (
	CategoryFeed      Category = "feed"
	CategoryVet       Category = "veterinary"
	CategoryLabour    Category = "labour"
	CategoryTransport Category = "transport"
	CategoryEquipment Category = "equipment"
	CategoryUtility   Category = "utility"
	CategoryOther     Category = "other"
)

// Categories lists every known category, used for validation and reporting.
var Categories = []Category{
	CategoryFeed, CategoryVet, CategoryLabour, CategoryTransport,
	CategoryEquipment, CategoryUtility, CategoryOther,
}

func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// Expense is one operating cost entry.
type Expense struct {
	ID          int64     `json:"id" db:"id"`
	Category    Category  `json:"category" db:"category"`
	Description string    `json:"description" db:"description"`
	Amount      float64   `json:"amount" db:"amount"`
	SpentAt     time.Time `json:"spent_at" db:"spent_at"`
	Note        *string   `json:"note,omitempty" db:"note"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// CategoryTotal is one slice of the month's expense breakdown.
type CategoryTotal struct {
	Category Category `json:"category"`
	Amount   float64  `json:"amount"`
	Count    int      `json:"count"`
}

type CreateExpenseRequest struct {
	Category    Category `json:"category" validate:"required"`
	Description string   `json:"description" validate:"required,min=2,max=250"`
	Amount      float64  `json:"amount" validate:"required,gt=0"`
	SpentAt     string   `json:"spent_at" validate:"required,datetime=2006-01-02"`
	Note        *string  `json:"note,omitempty" validate:"omitempty,max=500"`
}

// UpdateExpenseRequest carries partial changes; nil fields stay untouched.
type UpdateExpenseRequest struct {
	Category    *Category `json:"category,omitempty"`
	Description *string   `json:"description,omitempty" validate:"omitempty,min=2,max=250"`
	Amount      *float64  `json:"amount,omitempty" validate:"omitempty,gt=0"`
	SpentAt     *string   `json:"spent_at,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Note        *string   `json:"note,omitempty" validate:"omitempty,max=500"`
}
