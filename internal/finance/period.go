package finance

import (
	"fmt"
	"time"
)

// Period identifies a calendar month. Billing periods stored as "YYYY-MM"
// strings and record timestamps both resolve into a Period, so every monthly
// comparison in the aggregator goes through the same type and the same local
// calendar interpretation.
type Period struct {
	Year  int
	Month time.Month
}

// PeriodOf extracts the period a timestamp falls in, using local calendar
// semantics. All callers must bucket dates through this function; mixing UTC
// and local extraction produces off-by-one-day boundary bugs.
func PeriodOf(t time.Time) Period {
	return Period{Year: t.Year(), Month: t.Month()}
}

// ParsePeriod parses a "YYYY-MM" billing period string.
func ParsePeriod(s string) (Period, error) {
	t, err := time.ParseInLocation("2006-01", s, time.Local)
	if err != nil {
		return Period{}, fmt.Errorf("finance: parse period %q: %w", s, err)
	}
	return PeriodOf(t), nil
}

// String renders the period in the stored "YYYY-MM" form.
func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}

// IsZero reports whether the period is unset.
func (p Period) IsZero() bool {
	return p.Year == 0 && p.Month == 0
}

// Start returns midnight local time on the first day of the period.
func (p Period) Start() time.Time {
	return time.Date(p.Year, p.Month, 1, 0, 0, 0, 0, time.Local)
}

// Next returns the following calendar month.
func (p Period) Next() Period {
	return PeriodOf(p.Start().AddDate(0, 1, 0))
}

// Previous returns the preceding calendar month.
func (p Period) Previous() Period {
	return PeriodOf(p.Start().AddDate(0, -1, 0))
}
