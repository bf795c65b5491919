package finance

import (
	"encoding/json"
	"fmt"
	"math"
)

// Ratio is a display ratio that may be undefined for the given inputs. The
// zero value is the undefined sentinel and marshals as "N/A".
type Ratio struct {
	value float64
	valid bool
}

func ratioOf(v float64) Ratio {
	return Ratio{value: round2(v), valid: true}
}

// Valid reports whether the ratio is defined.
func (r Ratio) Valid() bool { return r.valid }

// Value returns the rounded ratio; only meaningful when Valid.
func (r Ratio) Value() float64 { return r.value }

// MarshalJSON emits the 2-decimal value, or "N/A" when undefined.
func (r Ratio) MarshalJSON() ([]byte, error) {
	if !r.valid {
		return json.Marshal("N/A")
	}
	return json.Marshal(r.value)
}

// UnmarshalJSON accepts the two shapes MarshalJSON produces. Ratios travel
// through the Redis dashboard cache as JSON, so the type must round-trip.
func (r *Ratio) UnmarshalJSON(data []byte) error {
	var value float64
	if err := json.Unmarshal(data, &value); err == nil {
		*r = Ratio{value: value, valid: true}
		return nil
	}
	var sentinel string
	if err := json.Unmarshal(data, &sentinel); err != nil {
		return fmt.Errorf("finance: ratio: %s", data)
	}
	if sentinel != "N/A" {
		return fmt.Errorf("finance: ratio: %q", sentinel)
	}
	*r = Ratio{}
	return nil
}

// Ratios are the solvency indicators surfaced on the reports view.
type Ratios struct {
	CurrentRatio Ratio `json:"currentRatio"`
	DebtToEquity Ratio `json:"debtToEquityRatio"`
	CashReserve  Ratio `json:"cashReserveRatio"`
}

// ComputeRatios derives solvency ratios from aggregated totals. Inputs are the
// raw outstanding figures, not display-clamped values. A debt-to-equity
// denominator at or below zero yields the undefined sentinel rather than an
// infinite or negative percentage (see DESIGN.md).
func ComputeRatios(receivables, payables, bankBalance, loans float64) Ratios {
	currentAssets := receivables + bankBalance
	currentLiabilities := payables + loans

	var out Ratios
	if currentLiabilities > 0 {
		out.CurrentRatio = ratioOf(currentAssets / currentLiabilities)
	}
	switch {
	case loans <= 0:
		out.DebtToEquity = ratioOf(0)
	case currentAssets-loans > 0:
		out.DebtToEquity = ratioOf(loans / (currentAssets - loans) * 100)
	}
	if payables > 0 {
		out.CashReserve = ratioOf(bankBalance / payables * 100)
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
