package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/dairydesk/dairydesk/internal/finance"
)

type RepositoryPort interface {
	Create(ctx context.Context, s Sale) (Sale, error)
	Get(ctx context.Context, id int64) (Sale, error)
	ListByPeriod(ctx context.Context, period finance.Period) ([]Sale, error)
	Delete(ctx context.Context, id int64) error
}

type Service struct {
	repo RepositoryPort
}

func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// Record stores a counter sale, deriving the amount from quantity and price.
func (s *Service) Record(ctx context.Context, req CreateSaleRequest) (Sale, error) {
	soldAt := time.Now()
	if req.SoldAt != "" {
		parsed, err := time.ParseInLocation("2006-01-02", req.SoldAt, time.Local)
		if err != nil {
			return Sale{}, fmt.Errorf("sales: parse sold_at: %w", err)
		}
		soldAt = parsed
	}
	return s.repo.Create(ctx, Sale{
		Product:    req.Product,
		Quantity:   req.Quantity,
		Unit:       req.Unit,
		UnitPrice:  req.UnitPrice,
		Amount:     req.Quantity * req.UnitPrice,
		CustomerID: req.CustomerID,
		Buyer:      req.Buyer,
		SoldAt:     soldAt,
		Note:       req.Note,
	})
}

func (s *Service) Get(ctx context.Context, id int64) (Sale, error) {
	return s.repo.Get(ctx, id)
}

func (s *Service) ListByPeriod(ctx context.Context, period finance.Period) ([]Sale, error) {
	return s.repo.ListByPeriod(ctx, period)
}

// Remove deletes a mistaken entry. Sales have no settlement trail, so a hard
// delete is acceptable here unlike bills.
func (s *Service) Remove(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}
