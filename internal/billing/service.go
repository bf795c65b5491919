package billing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dairydesk/dairydesk/internal/attendance"
	"github.com/dairydesk/dairydesk/internal/finance"
)

// RepositoryPort is the bill storage contract.
type RepositoryPort interface {
	CreateBill(ctx context.Context, b Bill) (Bill, error)
	GetBill(ctx context.Context, id int64) (Bill, error)
	ListBills(ctx context.Context, period string, status BillStatus, customerID int64) ([]Bill, error)
	ExistingPeriods(ctx context.Context, period string) (map[int64]bool, error)
	RecordPayment(ctx context.Context, billID int64, p Payment) (Payment, Bill, error)
	PaymentsForBill(ctx context.Context, billID int64) ([]Payment, error)
}

// AttendanceSource supplies the month's delivery totals to bill against.
type AttendanceSource interface {
	MonthlyTotals(ctx context.Context, period finance.Period) ([]attendance.MonthlyTotal, error)
}

type Service struct {
	repo       RepositoryPort
	deliveries AttendanceSource
	logger     *slog.Logger
}

func NewService(repo RepositoryPort, deliveries AttendanceSource, logger *slog.Logger) *Service {
	return &Service{repo: repo, deliveries: deliveries, logger: logger}
}

// dueDays is how long after month end a bill stays current.
const dueDays = 10

// GeneratePeriod creates bills for every customer with deliveries in the
// period. Reruns are safe: customers already billed are skipped, as are
// customers whose month totalled zero.
func (s *Service) GeneratePeriod(ctx context.Context, period finance.Period) (GenerateResult, error) {
	result := GenerateResult{Period: period.String()}

	totals, err := s.deliveries.MonthlyTotals(ctx, period)
	if err != nil {
		return result, fmt.Errorf("billing: load delivery totals: %w", err)
	}
	billed, err := s.repo.ExistingPeriods(ctx, period.String())
	if err != nil {
		return result, err
	}

	dueAt := period.Start().AddDate(0, 1, dueDays)
	for _, t := range totals {
		if billed[t.CustomerID] {
			result.Skipped++
			continue
		}
		if t.Amount <= 0 {
			result.Skipped++
			continue
		}
		bill := Bill{
			CustomerID:   t.CustomerID,
			Period:       period.String(),
			Litres:       t.Litres,
			RatePerLitre: t.RatePerLitre,
			Amount:       t.Amount,
			DueAt:        dueAt,
		}
		if _, err := s.repo.CreateBill(ctx, bill); err != nil {
			// A concurrent run may have billed this customer between the
			// gap check and the insert; count it as skipped and move on.
			if errors.Is(err, ErrAlreadyBilled) {
				result.Skipped++
				continue
			}
			return result, err
		}
		result.Created++
	}

	s.logger.Info("billing run complete",
		"period", period.String(), "created", result.Created, "skipped", result.Skipped)
	return result, nil
}

func (s *Service) Get(ctx context.Context, id int64) (Bill, []Payment, error) {
	bill, err := s.repo.GetBill(ctx, id)
	if err != nil {
		return Bill{}, nil, err
	}
	payments, err := s.repo.PaymentsForBill(ctx, id)
	if err != nil {
		return Bill{}, nil, err
	}
	return bill, payments, nil
}

func (s *Service) List(ctx context.Context, period string, status BillStatus, customerID int64) ([]Bill, error) {
	return s.repo.ListBills(ctx, period, status, customerID)
}

// Collect records a payment against a bill. Amounts beyond the outstanding
// balance are rejected rather than carried as credit.
func (s *Service) Collect(ctx context.Context, billID int64, amount float64, method string, note *string, paidAt time.Time) (Payment, Bill, error) {
	if amount <= 0 {
		return Payment{}, Bill{}, fmt.Errorf("billing: payment amount must be positive")
	}
	if paidAt.IsZero() {
		paidAt = time.Now()
	}
	return s.repo.RecordPayment(ctx, billID, Payment{
		Amount: amount,
		Method: method,
		Note:   note,
		PaidAt: paidAt,
	})
}
