package finance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestBuildReports(t *testing.T) {
	asOf := time.Date(2025, time.June, 15, 0, 0, 0, 0, time.Local)
	in := Inputs{
		Payables: []AgingEntry{
			{Name: "Feed co-op", Amount: 30000, Settled: 10000, DueAt: asOf.AddDate(0, 0, -45)},
		},
		Receivables: []AgingEntry{
			{Name: "Hotel Annapurna", Amount: 60000, Settled: 10000, DueAt: asOf.AddDate(0, 0, 10)},
		},
		Loans: []Loan{
			{
				Name:          "Tempo loan",
				Lender:        "Gramin Bank",
				Principal:     100000,
				Outstanding:   40000,
				AnnualRatePct: 12,
				TenureMonths:  12,
				Frequency:     FrequencyMonthly,
				StartedAt:     asOf.AddDate(-1, 0, 0),
			},
		},
		BankBalance: 10000,
	}

	reports := BuildReports(in, asOf)

	require.Equal(t, asOf, reports.AsOf)
	require.Equal(t, float64(20000), reports.PayableAging.Totals[Bucket31To60])
	require.Equal(t, float64(50000), reports.ReceivableAging.Totals[BucketCurrent])

	require.Len(t, reports.Loans, 1)
	require.Equal(t, float64(8885), reports.Loans[0].EMI)
	require.Equal(t, reports.Loans[0].TotalPayable-100000, reports.Loans[0].TotalInterest)

	require.Equal(t, float64(40000), reports.Cash.Loans)
	require.Equal(t, float64(10000+50000-20000-40000), reports.Cash.NetPosition)
	require.Equal(t, float64(8885), reports.Cash.MonthlyEMILoad)

	// assets 60000, liabilities 60000 -> current ratio 1.00
	require.Equal(t, 1.00, reports.Ratios.CurrentRatio.Value())
}

func TestBuildReportsDoesNotMutateInputs(t *testing.T) {
	asOf := time.Now()
	payables := []AgingEntry{{Name: "A", Amount: 100, DueAt: asOf.AddDate(0, 0, -5)}}
	in := Inputs{Payables: payables}

	_ = BuildReports(in, asOf)

	require.Equal(t, "A", payables[0].Name)
	require.Equal(t, float64(100), payables[0].Amount)
	require.Zero(t, payables[0].Settled)
}
