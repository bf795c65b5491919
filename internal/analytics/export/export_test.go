package export

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dairydesk/dairydesk/internal/analytics"
	"github.com/dairydesk/dairydesk/internal/finance"
)

func TestWriteTrendCSV(t *testing.T) {
	var buf bytes.Buffer
	err := WriteTrendCSV(&buf, []analytics.TrendPoint{
		{Period: "2025-10", Income: 4200, Expense: 1800, Net: 2400},
		{Period: "2025-11", Income: 3500, Expense: 1000, Net: 2500},
	})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	require.Equal(t, "Period,Income,Expense,Net", lines[0])
	require.Equal(t, "2025-11,3500.00,1000.00,2500.00", lines[2])
}

func TestWriteAgingCSVKeepsBucketOrder(t *testing.T) {
	asOf := time.Date(2025, time.November, 30, 0, 0, 0, 0, time.Local)
	report := finance.AnalyzeAging([]finance.AgingEntry{
		{Name: "Feed Traders", Amount: 5000, Settled: 2000, DueAt: asOf.AddDate(0, 0, -40)},
		{Name: "No due date", Amount: 700},
	}, asOf)

	var buf bytes.Buffer
	require.NoError(t, WriteAgingCSV(&buf, report))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Equal(t, "Bucket,Amount", lines[0])
	require.Equal(t, "current,0.00", lines[1])
	require.Contains(t, buf.String(), "31-60,3000.00")
	require.Contains(t, buf.String(), "unscheduled,700.00")
}
