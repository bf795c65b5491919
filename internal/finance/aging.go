package finance

import (
	"math"
	"time"
)

// Bucket classifies an outstanding balance by how many days past due it is.
type Bucket string

const (
	BucketCurrent Bucket = "current"
	Bucket1To30   Bucket = "1-30"
	Bucket31To60  Bucket = "31-60"
	Bucket61To90  Bucket = "61-90"
	BucketOver90  Bucket = "90+"
	// BucketUnscheduled collects entries with a missing due date. Those entries
	// are reported separately, never silently folded into an overdue bucket.
	BucketUnscheduled Bucket = "unscheduled"
)

// Buckets lists every bucket in report order.
var Buckets = []Bucket{
	BucketCurrent,
	Bucket1To30,
	Bucket31To60,
	Bucket61To90,
	BucketOver90,
	BucketUnscheduled,
}

// BucketOf classifies a due date relative to asOf. A zero due date maps to
// BucketUnscheduled; anything due today or later is current.
func BucketOf(due, asOf time.Time) Bucket {
	if due.IsZero() {
		return BucketUnscheduled
	}
	days := int(math.Floor(asOf.Sub(due).Hours() / 24))
	switch {
	case days <= 0:
		return BucketCurrent
	case days <= 30:
		return Bucket1To30
	case days <= 60:
		return Bucket31To60
	case days <= 90:
		return Bucket61To90
	default:
		return BucketOver90
	}
}

// AgingEntry is one payable or receivable as seen by the analyzer.
type AgingEntry struct {
	Name     string
	Category string
	Amount   float64
	Settled  float64
	DueAt    time.Time
}

// Outstanding returns the unsettled balance. The raw difference is preserved
// even when negative; display layers clamp, ratio inputs do not.
func (e AgingEntry) Outstanding() float64 {
	return e.Amount - e.Settled
}

// AgingReport partitions entries into buckets with per-bucket totals.
type AgingReport struct {
	Entries          map[Bucket][]AgingEntry
	Totals           map[Bucket]float64
	TotalOutstanding float64
}

// AnalyzeAging places every entry into exactly one bucket as of the given
// instant. A zero asOf falls back to the current time; callers wanting
// deterministic output pass it explicitly.
func AnalyzeAging(entries []AgingEntry, asOf time.Time) AgingReport {
	if asOf.IsZero() {
		asOf = time.Now()
	}
	report := AgingReport{
		Entries: make(map[Bucket][]AgingEntry),
		Totals:  make(map[Bucket]float64),
	}
	for _, entry := range entries {
		bucket := BucketOf(entry.DueAt, asOf)
		report.Entries[bucket] = append(report.Entries[bucket], entry)
		report.Totals[bucket] += entry.Outstanding()
		report.TotalOutstanding += entry.Outstanding()
	}
	return report
}
