package finance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParsePeriod(t *testing.T) {
	p, err := ParsePeriod("2025-11")
	require.NoError(t, err)
	require.Equal(t, Period{Year: 2025, Month: time.November}, p)
	require.Equal(t, "2025-11", p.String())

	_, err = ParsePeriod("november 2025")
	require.Error(t, err)
	_, err = ParsePeriod("2025-13")
	require.Error(t, err)
}

func TestPeriodOfBucketsBoundaries(t *testing.T) {
	lastInstant := time.Date(2025, time.November, 30, 23, 59, 59, 0, time.Local)
	require.Equal(t, Period{Year: 2025, Month: time.November}, PeriodOf(lastInstant))

	firstInstant := time.Date(2025, time.December, 1, 0, 0, 0, 0, time.Local)
	require.Equal(t, Period{Year: 2025, Month: time.December}, PeriodOf(firstInstant))
}

func TestPeriodNextPreviousAcrossYear(t *testing.T) {
	dec := Period{Year: 2025, Month: time.December}
	require.Equal(t, Period{Year: 2026, Month: time.January}, dec.Next())

	jan := Period{Year: 2026, Month: time.January}
	require.Equal(t, dec, jan.Previous())
}

func TestPeriodStart(t *testing.T) {
	p := Period{Year: 2025, Month: time.February}
	start := p.Start()
	require.Equal(t, 1, start.Day())
	require.Equal(t, time.February, start.Month())
	require.True(t, p.Next().Start().After(start.AddDate(0, 0, 27)))
}
