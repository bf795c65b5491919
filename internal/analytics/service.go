package analytics

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dairydesk/dairydesk/internal/finance"
)

// Service coordinates dashboard assembly with the cache layer. The heavy
// lifting lives in the finance package; this layer owns data loading and
// cache keys.
type Service struct {
	repo      Repository
	cache     *Cache
	formatter *finance.Formatter
	now       func() time.Time
}

func NewService(repo Repository, cache *Cache) *Service {
	return &Service{
		repo:      repo,
		cache:     cache,
		formatter: finance.NewFormatter(),
		now:       time.Now,
	}
}

// WithNow overrides the service clock for testing.
func (s *Service) WithNow(fn func() time.Time) {
	if fn != nil {
		s.now = fn
	}
}

// snapshot loads every dashboard input in parallel. All collections come
// from the same request cycle so the views stay mutually consistent.
func (s *Service) snapshot(ctx context.Context) (finance.Inputs, error) {
	var in finance.Inputs
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() (err error) { in.Sales, err = s.repo.Sales(ctx); return })
	g.Go(func() (err error) { in.Payments, err = s.repo.Payments(ctx); return })
	g.Go(func() (err error) { in.Bills, err = s.repo.Bills(ctx); return })
	g.Go(func() (err error) { in.Expenses, err = s.repo.Expenses(ctx); return })
	g.Go(func() (err error) { in.Payables, err = s.repo.Payables(ctx); return })
	g.Go(func() (err error) { in.Receivables, err = s.repo.Receivables(ctx); return })
	g.Go(func() (err error) { in.Loans, err = s.repo.Loans(ctx); return })
	g.Go(func() (err error) { in.BankBalance, err = s.repo.BankBalance(ctx); return })

	if err := g.Wait(); err != nil {
		return finance.Inputs{}, err
	}
	return in, nil
}

// Overview returns the monthly plus all-time summary for the period.
func (s *Service) Overview(ctx context.Context, period finance.Period) (finance.OverviewSummary, error) {
	var summary finance.OverviewSummary
	key, err := s.cache.BuildKey(ctx, keyOverview(period.String()))
	if err != nil {
		return summary, err
	}
	err = s.cache.FetchJSON(ctx, key, &summary, func(ctx context.Context) (interface{}, error) {
		in, err := s.snapshot(ctx)
		if err != nil {
			return nil, err
		}
		return finance.BuildOverview(in, period, s.formatter), nil
	})
	return summary, err
}

// Reports returns aging, ratios and the cash position as of the given day.
func (s *Service) Reports(ctx context.Context, asOf time.Time) (finance.ReportsSummary, error) {
	if asOf.IsZero() {
		asOf = s.now()
	}
	var summary finance.ReportsSummary
	key, err := s.cache.BuildKey(ctx, keyReports(asOf))
	if err != nil {
		return summary, err
	}
	err = s.cache.FetchJSON(ctx, key, &summary, func(ctx context.Context) (interface{}, error) {
		in, err := s.snapshot(ctx)
		if err != nil {
			return nil, err
		}
		return finance.BuildReports(in, asOf), nil
	})
	return summary, err
}

// TrendPoint is one month of the income and expense movement.
type TrendPoint struct {
	Period  string  `json:"period"`
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
	Net     float64 `json:"net"`
}

// Trend walks the months from from to to inclusive and aggregates each one.
func (s *Service) Trend(ctx context.Context, from, to finance.Period) ([]TrendPoint, error) {
	var points []TrendPoint
	key, err := s.cache.BuildKey(ctx, keyTrend(from.String(), to.String()))
	if err != nil {
		return nil, err
	}
	err = s.cache.FetchJSON(ctx, key, &points, func(ctx context.Context) (interface{}, error) {
		in, err := s.snapshot(ctx)
		if err != nil {
			return nil, err
		}
		out := make([]TrendPoint, 0, 12)
		for p := from; !p.Start().After(to.Start()); p = p.Next() {
			monthly := finance.AggregateMonthly(in.Sales, in.Payments, in.Bills, in.Expenses, p)
			out = append(out, TrendPoint{
				Period:  p.String(),
				Income:  monthly.TotalIncome,
				Expense: monthly.Expenses,
				Net:     monthly.NetProfit,
			})
		}
		return out, nil
	})
	return points, err
}

// Invalidate retires every cached dashboard after a bookkeeping write.
func (s *Service) Invalidate(ctx context.Context) error {
	return s.cache.Bump(ctx)
}

// Warmup precomputes the current period's dashboards so the first morning
// request hits warm cache.
func (s *Service) Warmup(ctx context.Context) error {
	period := finance.PeriodOf(s.now())
	if _, err := s.Overview(ctx, period); err != nil {
		return err
	}
	_, err := s.Reports(ctx, s.now())
	return err
}
