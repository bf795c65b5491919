package attendance

import (
	"context"
	"fmt"
	"time"

	"github.com/dairydesk/dairydesk/internal/finance"
)

// RepositoryPort is the storage contract the service depends on.
type RepositoryPort interface {
	Upsert(ctx context.Context, e Entry) (Entry, error)
	ListByPeriod(ctx context.Context, period finance.Period, customerID int64) ([]Entry, error)
	MonthlyTotals(ctx context.Context, period finance.Period) ([]MonthlyTotal, error)
	CustomerTotal(ctx context.Context, period finance.Period, customerID int64) (MonthlyTotal, error)
}

type Service struct {
	repo RepositoryPort
}

func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// Mark records one delivery slot. Re-marking the same customer, day and shift
// overwrites the earlier entry.
func (s *Service) Mark(ctx context.Context, req MarkRequest) (Entry, error) {
	if !req.Shift.Valid() {
		return Entry{}, fmt.Errorf("attendance: unknown shift %q", req.Shift)
	}
	day, err := time.ParseInLocation("2006-01-02", req.Day, time.Local)
	if err != nil {
		return Entry{}, fmt.Errorf("attendance: parse day: %w", err)
	}
	entry := Entry{
		CustomerID: req.CustomerID,
		Day:        day,
		Shift:      req.Shift,
		Quantity:   req.Quantity,
		Delivered:  req.Delivered,
		Note:       req.Note,
	}
	// A skipped delivery keeps the row but carries no litres.
	if !entry.Delivered {
		entry.Quantity = 0
	}
	return s.repo.Upsert(ctx, entry)
}

func (s *Service) MonthSheet(ctx context.Context, period finance.Period, customerID int64) ([]Entry, error) {
	return s.repo.ListByPeriod(ctx, period, customerID)
}

func (s *Service) MonthlyTotals(ctx context.Context, period finance.Period) ([]MonthlyTotal, error) {
	return s.repo.MonthlyTotals(ctx, period)
}

func (s *Service) CustomerTotal(ctx context.Context, period finance.Period, customerID int64) (MonthlyTotal, error) {
	return s.repo.CustomerTotal(ctx, period, customerID)
}
