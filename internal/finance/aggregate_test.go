package finance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func localDate(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.Local)
}

func TestParsePeriodRoundTrip(t *testing.T) {
	period, err := ParsePeriod("2025-11")
	require.NoError(t, err)
	require.Equal(t, Period{Year: 2025, Month: time.November}, period)
	require.Equal(t, "2025-11", period.String())

	// A billing period and a date inside that month land in the same bucket.
	require.Equal(t, period, PeriodOf(localDate(2025, time.November, 15)))
}

func TestParsePeriodRejectsGarbage(t *testing.T) {
	for _, input := range []string{"", "2025", "2025-13", "25-01", "2025/01"} {
		_, err := ParsePeriod(input)
		require.Error(t, err, "input %q", input)
	}
}

func TestPeriodNavigation(t *testing.T) {
	jan := Period{Year: 2025, Month: time.January}
	require.Equal(t, Period{Year: 2024, Month: time.December}, jan.Previous())
	require.Equal(t, Period{Year: 2025, Month: time.February}, jan.Next())
}

func TestAggregateMonthly(t *testing.T) {
	sales := []Sale{
		{Date: localDate(2025, time.March, 5), TotalAmount: 500},
		{Date: localDate(2025, time.April, 2), TotalAmount: 999}, // other month
	}
	bills := []Bill{
		{BillingPeriod: "2025-03", TotalAmount: 1200},
		{BillingPeriod: "2025-02", TotalAmount: 800},
		{BillingPeriod: "garbage", TotalAmount: 400}, // never matches
	}
	expenses := []Expense{
		{Date: localDate(2025, time.March, 10), Amount: 300},
	}
	payments := []Payment{
		{Date: localDate(2025, time.March, 20), Amount: 250},
	}

	summary := AggregateMonthly(sales, payments, bills, expenses, Period{Year: 2025, Month: time.March})

	require.Equal(t, float64(500), summary.SalesIncome)
	require.Equal(t, float64(1200), summary.BillsGenerated)
	require.Equal(t, float64(300), summary.Expenses)
	require.Equal(t, float64(250), summary.PaymentsCollected)

	// Collections are not double-counted into monthly income.
	require.Equal(t, float64(1700), summary.TotalIncome)
	require.Equal(t, float64(1400), summary.NetProfit)

	require.Equal(t, 1, summary.SalesCount)
	require.Equal(t, 1, summary.BillsCount)
	require.Equal(t, 1, summary.ExpensesCount)
	require.Equal(t, 1, summary.PaymentsCount)
}

func TestAggregateMonthlyIsPure(t *testing.T) {
	sales := []Sale{{Date: localDate(2025, time.March, 5), TotalAmount: 500}}
	period := Period{Year: 2025, Month: time.March}

	first := AggregateMonthly(sales, nil, nil, nil, period)
	second := AggregateMonthly(sales, nil, nil, nil, period)
	require.Equal(t, first, second)
}

func TestAggregateAllTimeIncludesPayments(t *testing.T) {
	sales := []Sale{
		{Date: localDate(2025, time.January, 5), TotalAmount: 500},
		{Date: localDate(2025, time.February, 5), TotalAmount: 700},
	}
	payments := []Payment{
		{Date: localDate(2025, time.January, 7), Amount: 300},
	}
	expenses := []Expense{
		{Date: localDate(2025, time.January, 9), Amount: 400},
	}

	summary := AggregateAllTime(sales, payments, expenses)

	require.Equal(t, float64(1500), summary.TotalIncome)
	require.Equal(t, float64(400), summary.TotalExpenses)
	require.Equal(t, float64(1100), summary.NetProfit)
	require.Equal(t, 2, summary.SalesCount)
	require.Equal(t, 1, summary.PaymentsCount)
}

func TestBuildOverviewFormatsDisplayFigures(t *testing.T) {
	in := Inputs{
		Bills:    []Bill{{BillingPeriod: "2025-03", TotalAmount: 100000}},
		Expenses: []Expense{{Date: localDate(2025, time.March, 3), Amount: 25000}},
	}
	overview := BuildOverview(in, Period{Year: 2025, Month: time.March}, NewFormatter())

	require.Equal(t, float64(100000), overview.Monthly.TotalIncome)
	require.Equal(t, float64(75000), overview.Monthly.NetProfit)
	require.Equal(t, "₹1,00,000.00", overview.Display.MonthlyIncome)
	require.Equal(t, "₹75,000.00", overview.Display.MonthlyNetProfit)
}
