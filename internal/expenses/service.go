package expenses

import (
	"context"
	"fmt"
	"time"

	"github.com/dairydesk/dairydesk/internal/finance"
)

type RepositoryPort interface {
	Create(ctx context.Context, e Expense) (Expense, error)
	Get(ctx context.Context, id int64) (Expense, error)
	ListByPeriod(ctx context.Context, period finance.Period, category Category) ([]Expense, error)
	CategoryBreakdown(ctx context.Context, period finance.Period) ([]CategoryTotal, error)
	Update(ctx context.Context, id int64, input UpdateExpenseRequest, spentAt *time.Time) (Expense, error)
	Delete(ctx context.Context, id int64) error
}

type Service struct {
	repo RepositoryPort
}

func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

func (s *Service) Record(ctx context.Context, req CreateExpenseRequest) (Expense, error) {
	if !req.Category.Valid() {
		return Expense{}, fmt.Errorf("expenses: unknown category %q", req.Category)
	}
	spentAt, err := time.ParseInLocation("2006-01-02", req.SpentAt, time.Local)
	if err != nil {
		return Expense{}, fmt.Errorf("expenses: parse spent_at: %w", err)
	}
	return s.repo.Create(ctx, Expense{
		Category:    req.Category,
		Description: req.Description,
		Amount:      req.Amount,
		SpentAt:     spentAt,
		Note:        req.Note,
	})
}

func (s *Service) Get(ctx context.Context, id int64) (Expense, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) ListByPeriod(ctx context.Context, period finance.Period, category Category) ([]Expense, error) {
	if category != "" && !category.Valid() {
		return nil, fmt.Errorf("expenses: unknown category %q", category)
	}
	return s.repo.ListByPeriod(ctx, period, category)
}

func (s *Service) CategoryBreakdown(ctx context.Context, period finance.Period) ([]CategoryTotal, error) {
	return s.repo.CategoryBreakdown(ctx, period)
}

func (s *Service) Update(ctx context.Context, id int64, req UpdateExpenseRequest) (Expense, error) {
	if req.Category != nil && !req.Category.Valid() {
		return Expense{}, fmt.Errorf("expenses: unknown category %q", *req.Category)
	}
	var spentAt *time.Time
	if req.SpentAt != nil {
		parsed, err := time.ParseInLocation("2006-01-02", *req.SpentAt, time.Local)
		if err != nil {
			return Expense{}, fmt.Errorf("expenses: parse spent_at: %w", err)
		}
		spentAt = &parsed
	}
	return s.repo.Update(ctx, id, req, spentAt)
}

func (s *Service) Remove(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
