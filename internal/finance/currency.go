// Package finance holds the pure computation layer behind the dashboard and
// report views: period bucketing, aging analysis, loan amortization, income
// aggregation and ratio derivation. Nothing in this package performs I/O; every
// function is a deterministic transformation of the collections it is handed.
package finance

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Formatter renders rupee amounts with Indian digit grouping for display.
type Formatter struct {
	printer *message.Printer
}

// NewFormatter constructs a Formatter using the en-IN locale.
func NewFormatter() *Formatter {
	return &Formatter{printer: message.NewPrinter(language.MustParse("en-IN"))}
}

// Format renders an amount as a currency string, e.g. "₹1,00,000.00".
// Non-finite inputs render as zero rather than propagating NaN into the view.
func (f *Formatter) Format(amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		amount = 0
	}
	return f.printer.Sprintf("₹%v", number.Decimal(amount,
		number.MinFractionDigits(2),
		number.MaxFractionDigits(2),
	))
}
