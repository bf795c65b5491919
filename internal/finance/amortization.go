package finance

import (
	"math"
	"time"
)

// Frequency enumerates loan repayment cadences.
type Frequency string

const (
	FrequencyMonthly    Frequency = "monthly"
	FrequencyQuarterly  Frequency = "quarterly"
	FrequencyHalfYearly Frequency = "half_yearly"
	FrequencyYearly     Frequency = "yearly"
)

// PeriodMonths returns the installment length in months, 0 for an unknown
// cadence.
func (f Frequency) PeriodMonths() int {
	switch f {
	case FrequencyMonthly:
		return 1
	case FrequencyQuarterly:
		return 3
	case FrequencyHalfYearly:
		return 6
	case FrequencyYearly:
		return 12
	}
	return 0
}

// EMI computes the fixed installment for a reducing-balance loan, rounded to
// the nearest rupee. Degenerate inputs (non-positive principal, negative rate,
// tenure of at most one month, unknown frequency) yield 0 instead of an error;
// a zero rate falls back to straight division of the principal.
func EMI(principal, annualRatePct float64, tenureMonths int, freq Frequency) float64 {
	period := freq.PeriodMonths()
	if period == 0 || principal <= 0 || annualRatePct < 0 || tenureMonths <= 1 {
		return 0
	}
	monthlyRate := annualRatePct / 100 / 12
	if monthlyRate == 0 {
		return math.Round(principal / float64(tenureMonths) * float64(period))
	}
	growth := math.Pow(1+monthlyRate, float64(tenureMonths))
	monthly := principal * monthlyRate * growth / (growth - 1)
	return math.Round(monthly * float64(period))
}

// TotalAmount computes the total repaid over the life of the loan.
func TotalAmount(principal, annualRatePct float64, tenureMonths int, freq Frequency) float64 {
	emi := EMI(principal, annualRatePct, tenureMonths, freq)
	if emi == 0 {
		return 0
	}
	payments := numberOfPayments(tenureMonths, freq)
	return emi * float64(payments)
}

// TotalInterest computes interest paid over the life of the loan.
func TotalInterest(principal, annualRatePct float64, tenureMonths int, freq Frequency) float64 {
	total := TotalAmount(principal, annualRatePct, tenureMonths, freq)
	if total == 0 {
		return 0
	}
	return total - principal
}

func numberOfPayments(tenureMonths int, freq Frequency) int {
	period := freq.PeriodMonths()
	if period == 0 {
		return 0
	}
	return int(math.Ceil(float64(tenureMonths) / float64(period)))
}

// Installment is one row of a reducing-balance repayment schedule.
type Installment struct {
	Number        int       `json:"number"`
	DueAt         time.Time `json:"dueAt"`
	Payment       float64   `json:"payment"`
	PrincipalPart float64   `json:"principalPart"`
	InterestPart  float64   `json:"interestPart"`
	Balance       float64   `json:"balance"`
}

// Schedule expands a loan into its installment rows starting from the loan
// date. Interest each period is charged on the outstanding balance; the final
// installment absorbs rounding drift so the closing balance lands on zero.
func Schedule(principal, annualRatePct float64, tenureMonths int, freq Frequency, start time.Time) []Installment {
	emi := EMI(principal, annualRatePct, tenureMonths, freq)
	if emi == 0 {
		return nil
	}
	period := freq.PeriodMonths()
	periodRate := annualRatePct / 100 / 12 * float64(period)
	payments := numberOfPayments(tenureMonths, freq)

	rows := make([]Installment, 0, payments)
	balance := principal
	for i := 1; i <= payments; i++ {
		interest := balance * periodRate
		payment := emi
		principalPart := payment - interest
		if i == payments || principalPart > balance {
			principalPart = balance
			payment = principalPart + interest
		}
		balance -= principalPart
		rows = append(rows, Installment{
			Number:        i,
			DueAt:         start.AddDate(0, period*i, 0),
			Payment:       payment,
			PrincipalPart: principalPart,
			InterestPart:  interest,
			Balance:       balance,
		})
	}
	return rows
}
