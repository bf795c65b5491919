package attendance

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dairydesk/dairydesk/internal/finance"
)

type memRepo struct {
	entries map[string]Entry
	nextID  int64
	rates   map[int64]float64
	names   map[int64]string
}

func newMemRepo() *memRepo {
	return &memRepo{
		entries: make(map[string]Entry),
		rates:   map[int64]float64{1: 60, 2: 55},
		names:   map[int64]string{1: "Sharma Family", 2: "Gupta Household"},
	}
}

func (m *memRepo) key(e Entry) string {
	return fmt.Sprintf("%d/%s/%s", e.CustomerID, e.Day.Format("2006-01-02"), e.Shift)
}

func (m *memRepo) Upsert(_ context.Context, e Entry) (Entry, error) {
	k := m.key(e)
	if prev, ok := m.entries[k]; ok {
		e.ID = prev.ID
		e.CreatedAt = prev.CreatedAt
	} else {
		m.nextID++
		e.ID = m.nextID
		e.CreatedAt = time.Now()
	}
	e.UpdatedAt = time.Now()
	m.entries[k] = e
	return e, nil
}

func (m *memRepo) ListByPeriod(_ context.Context, period finance.Period, customerID int64) ([]Entry, error) {
	start := period.Start()
	end := start.AddDate(0, 1, 0)
	var out []Entry
	for _, e := range m.entries {
		if e.Day.Before(start) || !e.Day.Before(end) {
			continue
		}
		if customerID > 0 && e.CustomerID != customerID {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (m *memRepo) MonthlyTotals(ctx context.Context, period finance.Period) ([]MonthlyTotal, error) {
	byCustomer := map[int64]*MonthlyTotal{}
	entries, _ := m.ListByPeriod(ctx, period, 0)
	for _, e := range entries {
		t, ok := byCustomer[e.CustomerID]
		if !ok {
			t = &MonthlyTotal{
				CustomerID:   e.CustomerID,
				CustomerName: m.names[e.CustomerID],
				RatePerLitre: m.rates[e.CustomerID],
			}
			byCustomer[e.CustomerID] = t
		}
		if e.Delivered {
			t.Litres += e.Quantity
			t.DeliveredDays++
		} else {
			t.SkippedDays++
		}
	}
	var out []MonthlyTotal
	for _, t := range byCustomer {
		t.Amount = t.Litres * t.RatePerLitre
		out = append(out, *t)
	}
	return out, nil
}

func (m *memRepo) CustomerTotal(ctx context.Context, period finance.Period, customerID int64) (MonthlyTotal, error) {
	totals, _ := m.MonthlyTotals(ctx, period)
	for _, t := range totals {
		if t.CustomerID == customerID {
			return t, nil
		}
	}
	return MonthlyTotal{}, ErrNotFound
}

func TestMarkUpsertsSameSlot(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)
	ctx := context.Background()

	first, err := svc.Mark(ctx, MarkRequest{
		CustomerID: 1, Day: "2025-11-03", Shift: ShiftMorning, Quantity: 1.5, Delivered: true,
	})
	require.NoError(t, err)
	require.Equal(t, 1.5, first.Quantity)

	corrected, err := svc.Mark(ctx, MarkRequest{
		CustomerID: 1, Day: "2025-11-03", Shift: ShiftMorning, Quantity: 2.0, Delivered: true,
	})
	require.NoError(t, err)
	require.Equal(t, first.ID, corrected.ID, "correction must overwrite, not duplicate")
	require.Equal(t, 2.0, corrected.Quantity)
	require.Len(t, repo.entries, 1)
}

func TestMarkSkippedDropsQuantity(t *testing.T) {
	svc := NewService(newMemRepo())

	entry, err := svc.Mark(context.Background(), MarkRequest{
		CustomerID: 1, Day: "2025-11-04", Shift: ShiftEvening, Quantity: 1.5, Delivered: false,
	})
	require.NoError(t, err)
	require.False(t, entry.Delivered)
	require.Zero(t, entry.Quantity)
}

func TestMarkRejectsBadInput(t *testing.T) {
	svc := NewService(newMemRepo())
	ctx := context.Background()

	_, err := svc.Mark(ctx, MarkRequest{CustomerID: 1, Day: "2025-11-04", Shift: "noon", Quantity: 1})
	require.Error(t, err)

	_, err = svc.Mark(ctx, MarkRequest{CustomerID: 1, Day: "04-11-2025", Shift: ShiftMorning, Quantity: 1})
	require.Error(t, err)
}

func TestMonthlyTotalsPriceAtCustomerRate(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo)
	ctx := context.Background()

	// Customer 1: 1.5 L on three days, one skip. Customer 2: 2 L on one day.
	for _, day := range []string{"2025-11-01", "2025-11-02", "2025-11-03"} {
		_, err := svc.Mark(ctx, MarkRequest{CustomerID: 1, Day: day, Shift: ShiftMorning, Quantity: 1.5, Delivered: true})
		require.NoError(t, err)
	}
	_, err := svc.Mark(ctx, MarkRequest{CustomerID: 1, Day: "2025-11-04", Shift: ShiftMorning, Delivered: false})
	require.NoError(t, err)
	_, err = svc.Mark(ctx, MarkRequest{CustomerID: 2, Day: "2025-11-01", Shift: ShiftMorning, Quantity: 2, Delivered: true})
	require.NoError(t, err)

	period, err := finance.ParsePeriod("2025-11")
	require.NoError(t, err)

	totals, err := svc.MonthlyTotals(ctx, period)
	require.NoError(t, err)
	require.Len(t, totals, 2)

	byID := map[int64]MonthlyTotal{}
	for _, tt := range totals {
		byID[tt.CustomerID] = tt
	}
	require.InDelta(t, 4.5, byID[1].Litres, 1e-9)
	require.InDelta(t, 270.0, byID[1].Amount, 1e-9) // 4.5 L at 60/L
	require.Equal(t, 3, byID[1].DeliveredDays)
	require.Equal(t, 1, byID[1].SkippedDays)
	require.InDelta(t, 110.0, byID[2].Amount, 1e-9)

	// Entries from another month stay out of the aggregate.
	_, err = svc.Mark(ctx, MarkRequest{CustomerID: 1, Day: "2025-12-01", Shift: ShiftMorning, Quantity: 1.5, Delivered: true})
	require.NoError(t, err)
	again, err := svc.MonthlyTotals(ctx, period)
	require.NoError(t, err)
	for _, tt := range again {
		if tt.CustomerID == 1 {
			require.InDelta(t, 4.5, tt.Litres, 1e-9)
		}
	}
}

func TestCustomerTotalNotFound(t *testing.T) {
	svc := NewService(newMemRepo())
	period, err := finance.ParsePeriod("2025-11")
	require.NoError(t, err)

	_, err = svc.CustomerTotal(context.Background(), period, 99)
	require.ErrorIs(t, err, ErrNotFound)
}
