package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/dairydesk/dairydesk/internal/analytics"
	"github.com/dairydesk/dairydesk/internal/finance"
)

// WriteOverviewCSV serialises the overview summary to CSV for spreadsheets.
func WriteOverviewCSV(w io.Writer, summary finance.OverviewSummary) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()

	if err := writer.Write([]string{"Metric", "Value"}); err != nil {
		return err
	}
	records := [][]string{
		{"Period", summary.Monthly.Period.String()},
		{"Sales Income", formatFloat(summary.Monthly.SalesIncome)},
		{"Bills Generated", formatFloat(summary.Monthly.BillsGenerated)},
		{"Payments Collected", formatFloat(summary.Monthly.PaymentsCollected)},
		{"Monthly Income", formatFloat(summary.Monthly.TotalIncome)},
		{"Monthly Expenses", formatFloat(summary.Monthly.Expenses)},
		{"Monthly Net Profit", formatFloat(summary.Monthly.NetProfit)},
		{"All Time Income", formatFloat(summary.AllTime.TotalIncome)},
		{"All Time Net Profit", formatFloat(summary.AllTime.NetProfit)},
	}
	for _, record := range records {
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteTrendCSV emits the monthly income movement as CSV.
func WriteTrendCSV(w io.Writer, points []analytics.TrendPoint) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()
	if err := writer.Write([]string{"Period", "Income", "Expense", "Net"}); err != nil {
		return err
	}
	for _, point := range points {
		if err := writer.Write([]string{
			point.Period,
			formatFloat(point.Income),
			formatFloat(point.Expense),
			formatFloat(point.Net),
		}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// WriteAgingCSV prints aging bucket totals in display order.
func WriteAgingCSV(w io.Writer, report finance.AgingReport) error {
	writer := csv.NewWriter(w)
	defer writer.Flush()
	if err := writer.Write([]string{"Bucket", "Amount"}); err != nil {
		return err
	}
	for _, bucket := range finance.Buckets {
		if err := writer.Write([]string{string(bucket), formatFloat(report.Totals[bucket])}); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
