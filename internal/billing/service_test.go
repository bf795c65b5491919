package billing

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dairydesk/dairydesk/internal/attendance"
	"github.com/dairydesk/dairydesk/internal/finance"
)

type memRepo struct {
	bills    map[int64]*Bill
	payments map[int64][]Payment
	nextID   int64
}

func newMemRepo() *memRepo {
	return &memRepo{bills: make(map[int64]*Bill), payments: make(map[int64][]Payment)}
}

func (m *memRepo) CreateBill(_ context.Context, b Bill) (Bill, error) {
	for _, existing := range m.bills {
		if existing.CustomerID == b.CustomerID && existing.Period == b.Period {
			return Bill{}, ErrAlreadyBilled
		}
	}
	m.nextID++
	b.ID = m.nextID
	b.Status = StatusPending
	b.CreatedAt = time.Now()
	b.UpdatedAt = b.CreatedAt
	m.bills[b.ID] = &b
	return b, nil
}

func (m *memRepo) GetBill(_ context.Context, id int64) (Bill, error) {
	b, ok := m.bills[id]
	if !ok {
		return Bill{}, ErrNotFound
	}
	return *b, nil
}

func (m *memRepo) ListBills(_ context.Context, period string, status BillStatus, customerID int64) ([]Bill, error) {
	var out []Bill
	for _, b := range m.bills {
		if period != "" && b.Period != period {
			continue
		}
		if status != "" && b.Status != status {
			continue
		}
		if customerID > 0 && b.CustomerID != customerID {
			continue
		}
		out = append(out, *b)
	}
	return out, nil
}

func (m *memRepo) ExistingPeriods(_ context.Context, period string) (map[int64]bool, error) {
	billed := make(map[int64]bool)
	for _, b := range m.bills {
		if b.Period == period {
			billed[b.CustomerID] = true
		}
	}
	return billed, nil
}

func (m *memRepo) RecordPayment(_ context.Context, billID int64, p Payment) (Payment, Bill, error) {
	b, ok := m.bills[billID]
	if !ok {
		return Payment{}, Bill{}, ErrNotFound
	}
	if p.Amount > b.Outstanding()+1e-9 {
		return Payment{}, Bill{}, ErrOverpayment
	}
	m.nextID++
	p.ID = m.nextID
	p.BillID = billID
	p.CreatedAt = time.Now()
	m.payments[billID] = append(m.payments[billID], p)

	b.PaidAmount += p.Amount
	if b.PaidAmount >= b.Amount-1e-9 {
		b.Status = StatusPaid
	} else {
		b.Status = StatusPartial
	}
	return p, *b, nil
}

func (m *memRepo) PaymentsForBill(_ context.Context, billID int64) ([]Payment, error) {
	return m.payments[billID], nil
}

type stubDeliveries struct {
	totals []attendance.MonthlyTotal
}

func (s stubDeliveries) MonthlyTotals(context.Context, finance.Period) ([]attendance.MonthlyTotal, error) {
	return s.totals, nil
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func mustPeriod(t *testing.T, s string) finance.Period {
	t.Helper()
	p, err := finance.ParsePeriod(s)
	require.NoError(t, err)
	return p
}

func TestGeneratePeriod(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo, stubDeliveries{totals: []attendance.MonthlyTotal{
		{CustomerID: 1, CustomerName: "Sharma Family", RatePerLitre: 60, Litres: 45, Amount: 2700},
		{CustomerID: 2, CustomerName: "Gupta Household", RatePerLitre: 55, Litres: 30, Amount: 1650},
		{CustomerID: 3, CustomerName: "Vacant Flat", RatePerLitre: 60, Litres: 0, Amount: 0},
	}}, testLogger())

	result, err := svc.GeneratePeriod(context.Background(), mustPeriod(t, "2025-11"))
	require.NoError(t, err)
	require.Equal(t, 2, result.Created)
	require.Equal(t, 1, result.Skipped, "zero-litre month produces no bill")

	bills, err := svc.List(context.Background(), "2025-11", "", 0)
	require.NoError(t, err)
	require.Len(t, bills, 2)
	for _, b := range bills {
		require.Equal(t, StatusPending, b.Status)
		if b.CustomerID == 1 {
			require.InDelta(t, 2700.0, b.Amount, 1e-9)
		}
	}
}

func TestGeneratePeriodIsIdempotent(t *testing.T) {
	repo := newMemRepo()
	totals := []attendance.MonthlyTotal{
		{CustomerID: 1, RatePerLitre: 60, Litres: 45, Amount: 2700},
	}
	svc := NewService(repo, stubDeliveries{totals: totals}, testLogger())
	ctx := context.Background()
	period := mustPeriod(t, "2025-11")

	first, err := svc.GeneratePeriod(ctx, period)
	require.NoError(t, err)
	require.Equal(t, 1, first.Created)

	second, err := svc.GeneratePeriod(ctx, period)
	require.NoError(t, err)
	require.Zero(t, second.Created)
	require.Equal(t, 1, second.Skipped)
	require.Len(t, repo.bills, 1)
}

func TestCollectTransitionsStatus(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo, stubDeliveries{totals: []attendance.MonthlyTotal{
		{CustomerID: 1, RatePerLitre: 60, Litres: 45, Amount: 2700},
	}}, testLogger())
	ctx := context.Background()

	_, err := svc.GeneratePeriod(ctx, mustPeriod(t, "2025-11"))
	require.NoError(t, err)

	_, bill, err := svc.Collect(ctx, 1, 1000, "cash", nil, time.Time{})
	require.NoError(t, err)
	require.Equal(t, StatusPartial, bill.Status)
	require.InDelta(t, 1700.0, bill.Outstanding(), 1e-9)

	_, bill, err = svc.Collect(ctx, 1, 1700, "upi", nil, time.Time{})
	require.NoError(t, err)
	require.Equal(t, StatusPaid, bill.Status)
	require.InDelta(t, 0.0, bill.Outstanding(), 1e-9)
}

func TestCollectRejectsOverpayment(t *testing.T) {
	repo := newMemRepo()
	svc := NewService(repo, stubDeliveries{totals: []attendance.MonthlyTotal{
		{CustomerID: 1, RatePerLitre: 60, Litres: 10, Amount: 600},
	}}, testLogger())
	ctx := context.Background()

	_, err := svc.GeneratePeriod(ctx, mustPeriod(t, "2025-11"))
	require.NoError(t, err)

	_, _, err = svc.Collect(ctx, 1, 700, "cash", nil, time.Time{})
	require.ErrorIs(t, err, ErrOverpayment)

	_, _, err = svc.Collect(ctx, 1, -5, "cash", nil, time.Time{})
	require.Error(t, err)
}

func TestCollectMissingBill(t *testing.T) {
	svc := NewService(newMemRepo(), stubDeliveries{}, testLogger())
	_, _, err := svc.Collect(context.Background(), 42, 100, "cash", nil, time.Time{})
	require.ErrorIs(t, err, ErrNotFound)
}
