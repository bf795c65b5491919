package expenses

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dairydesk/dairydesk/internal/finance"
)

type memRepo struct {
	expenses map[int64]Expense
	nextID   int64
}

func newMemRepo() *memRepo {
	return &memRepo{expenses: make(map[int64]Expense)}
}

func (m *memRepo) Create(_ context.Context, e Expense) (Expense, error) {
	m.nextID++
	e.ID = m.nextID
	e.CreatedAt = time.Now()
	e.UpdatedAt = e.CreatedAt
	m.expenses[e.ID] = e
	return e, nil
}

func (m *memRepo) Get(_ context.Context, id int64) (Expense, error) {
	e, ok := m.expenses[id]
	if !ok {
		return Expense{}, ErrNotFound
	}
	return e, nil
}

func (m *memRepo) ListByPeriod(_ context.Context, period finance.Period, category Category) ([]Expense, error) {
	start := period.Start()
	end := start.AddDate(0, 1, 0)
	var out []Expense
	for _, e := range m.expenses {
		if e.SpentAt.Before(start) || !e.SpentAt.Before(end) {
			continue
		}
		if category != "" && e.Category != category {
			continue
		}
		out = append(out, e)
	}
	return out, nil
}

func (m *memRepo) CategoryBreakdown(ctx context.Context, period finance.Period) ([]CategoryTotal, error) {
	list, _ := m.ListByPeriod(ctx, period, "")
	byCat := map[Category]*CategoryTotal{}
	for _, e := range list {
		t, ok := byCat[e.Category]
		if !ok {
			t = &CategoryTotal{Category: e.Category}
			byCat[e.Category] = t
		}
		t.Amount += e.Amount
		t.Count++
	}
	var out []CategoryTotal
	for _, t := range byCat {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Amount > out[j].Amount })
	return out, nil
}

func (m *memRepo) Update(_ context.Context, id int64, input UpdateExpenseRequest, spentAt *time.Time) (Expense, error) {
	e, ok := m.expenses[id]
	if !ok {
		return Expense{}, ErrNotFound
	}
	if input.Category != nil {
		e.Category = *input.Category
	}
	if input.Description != nil {
		e.Description = *input.Description
	}
	if input.Amount != nil {
		e.Amount = *input.Amount
	}
	if spentAt != nil {
		e.SpentAt = *spentAt
	}
	e.UpdatedAt = time.Now()
	m.expenses[id] = e
	return e, nil
}

func (m *memRepo) Delete(_ context.Context, id int64) error {
	if _, ok := m.expenses[id]; !ok {
		return ErrNotFound
	}
	delete(m.expenses, id)
	return nil
}

func record(t *testing.T, svc *Service, cat Category, desc string, amount float64, day string) Expense {
	t.Helper()
	e, err := svc.Record(context.Background(), CreateExpenseRequest{
		Category: cat, Description: desc, Amount: amount, SpentAt: day,
	})
	require.NoError(t, err)
	return e
}

func TestRecordValidatesCategory(t *testing.T) {
	svc := NewService(newMemRepo())
	_, err := svc.Record(context.Background(), CreateExpenseRequest{
		Category: "entertainment", Description: "cinema", Amount: 500, SpentAt: "2025-11-01",
	})
	require.Error(t, err)
}

func TestListFiltersByCategory(t *testing.T) {
	svc := NewService(newMemRepo())
	record(t, svc, CategoryFeed, "Cattle feed bags", 4000, "2025-11-02")
	record(t, svc, CategoryFeed, "Mineral mix", 800, "2025-11-10")
	record(t, svc, CategoryLabour, "Helper wages", 6000, "2025-11-28")
	record(t, svc, CategoryFeed, "December feed", 4200, "2025-12-01")

	period, err := finance.ParsePeriod("2025-11")
	require.NoError(t, err)

	feed, err := svc.ListByPeriod(context.Background(), period, CategoryFeed)
	require.NoError(t, err)
	require.Len(t, feed, 2)

	all, err := svc.ListByPeriod(context.Background(), period, "")
	require.NoError(t, err)
	require.Len(t, all, 3)

	_, err = svc.ListByPeriod(context.Background(), period, "entertainment")
	require.Error(t, err)
}

func TestCategoryBreakdown(t *testing.T) {
	svc := NewService(newMemRepo())
	record(t, svc, CategoryFeed, "Cattle feed bags", 4000, "2025-11-02")
	record(t, svc, CategoryFeed, "Mineral mix", 800, "2025-11-10")
	record(t, svc, CategoryLabour, "Helper wages", 6000, "2025-11-28")

	period, err := finance.ParsePeriod("2025-11")
	require.NoError(t, err)

	totals, err := svc.CategoryBreakdown(context.Background(), period)
	require.NoError(t, err)
	require.Len(t, totals, 2)
	require.Equal(t, CategoryLabour, totals[0].Category, "largest spend first")
	require.InDelta(t, 6000.0, totals[0].Amount, 1e-9)
	require.InDelta(t, 4800.0, totals[1].Amount, 1e-9)
	require.Equal(t, 2, totals[1].Count)
}

func TestUpdateAndRemove(t *testing.T) {
	svc := NewService(newMemRepo())
	ctx := context.Background()
	e := record(t, svc, CategoryVet, "Vaccination", 1200, "2025-11-05")

	newAmount := 1500.0
	updated, err := svc.Update(ctx, e.ID, UpdateExpenseRequest{Amount: &newAmount})
	require.NoError(t, err)
	require.Equal(t, 1500.0, updated.Amount)
	require.Equal(t, CategoryVet, updated.Category)

	bad := Category("entertainment")
	_, err = svc.Update(ctx, e.ID, UpdateExpenseRequest{Category: &bad})
	require.Error(t, err)

	require.NoError(t, svc.Remove(ctx, e.ID))
	_, err = svc.Get(ctx, e.ID)
	require.ErrorIs(t, err, ErrNotFound)
}
