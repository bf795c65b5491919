package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/dairydesk/dairydesk/internal/finance"
)

// RepositoryPort is the full ledger storage contract.
type RepositoryPort interface {
	CreateSupplier(ctx context.Context, s Supplier) (Supplier, error)
	ListSuppliers(ctx context.Context) ([]Supplier, error)

	CreatePayable(ctx context.Context, p Payable) (Payable, error)
	ListPayables(ctx context.Context, includeSettled bool) ([]Payable, error)
	SettlePayable(ctx context.Context, id int64, amount float64) (Payable, error)

	CreateReceivable(ctx context.Context, rc Receivable) (Receivable, error)
	ListReceivables(ctx context.Context, includeSettled bool) ([]Receivable, error)
	SettleReceivable(ctx context.Context, id int64, amount float64) (Receivable, error)

	CreateLoan(ctx context.Context, l Loan) (Loan, error)
	GetLoan(ctx context.Context, id int64) (Loan, error)
	ListLoans(ctx context.Context) ([]Loan, error)
	RepayLoan(ctx context.Context, id int64, amount float64) (Loan, error)

	CreateBankAccount(ctx context.Context, b BankAccount) (BankAccount, error)
	ListBankAccounts(ctx context.Context) ([]BankAccount, error)
	UpdateBankBalance(ctx context.Context, id int64, balance float64, asOf time.Time) (BankAccount, error)
}

type Service struct {
	repo RepositoryPort
}

func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

func (s *Service) AddSupplier(ctx context.Context, req CreateSupplierRequest) (Supplier, error) {
	return s.repo.CreateSupplier(ctx, Supplier{
		Name:     req.Name,
		Phone:    req.Phone,
		Category: req.Category,
		Notes:    req.Notes,
	})
}

func (s *Service) Suppliers(ctx context.Context) ([]Supplier, error) {
	return s.repo.ListSuppliers(ctx)
}

func parseDueAt(raw *string) (*time.Time, error) {
	if raw == nil || *raw == "" {
		return nil, nil
	}
	due, err := time.ParseInLocation("2006-01-02", *raw, time.Local)
	if err != nil {
		return nil, fmt.Errorf("ledger: parse due_at: %w", err)
	}
	return &due, nil
}

func (s *Service) AddPayable(ctx context.Context, req CreateObligationRequest) (Payable, error) {
	dueAt, err := parseDueAt(req.DueAt)
	if err != nil {
		return Payable{}, err
	}
	return s.repo.CreatePayable(ctx, Payable{
		SupplierID: req.PartyID,
		Name:       req.Name,
		Category:   req.Category,
		Amount:     req.Amount,
		DueAt:      dueAt,
		Note:       req.Note,
	})
}

func (s *Service) Payables(ctx context.Context, includeSettled bool) ([]Payable, error) {
	return s.repo.ListPayables(ctx, includeSettled)
}

func (s *Service) SettlePayable(ctx context.Context, id int64, amount float64) (Payable, error) {
	if amount <= 0 {
		return Payable{}, fmt.Errorf("ledger: settlement amount must be positive")
	}
	return s.repo.SettlePayable(ctx, id, amount)
}

func (s *Service) AddReceivable(ctx context.Context, req CreateObligationRequest) (Receivable, error) {
	dueAt, err := parseDueAt(req.DueAt)
	if err != nil {
		return Receivable{}, err
	}
	return s.repo.CreateReceivable(ctx, Receivable{
		CustomerID: req.PartyID,
		Name:       req.Name,
		Category:   req.Category,
		Amount:     req.Amount,
		DueAt:      dueAt,
		Note:       req.Note,
	})
}

func (s *Service) Receivables(ctx context.Context, includeSettled bool) ([]Receivable, error) {
	return s.repo.ListReceivables(ctx, includeSettled)
}

func (s *Service) SettleReceivable(ctx context.Context, id int64, amount float64) (Receivable, error) {
	if amount <= 0 {
		return Receivable{}, fmt.Errorf("ledger: settlement amount must be positive")
	}
	return s.repo.SettleReceivable(ctx, id, amount)
}

func (s *Service) AddLoan(ctx context.Context, req CreateLoanRequest) (Loan, error) {
	startedAt, err := time.ParseInLocation("2006-01-02", req.StartedAt, time.Local)
	if err != nil {
		return Loan{}, fmt.Errorf("ledger: parse started_at: %w", err)
	}
	return s.repo.CreateLoan(ctx, Loan{
		Lender:        req.Lender,
		Principal:     req.Principal,
		AnnualRatePct: req.AnnualRatePct,
		TenureMonths:  req.TenureMonths,
		Frequency:     req.Frequency,
		StartedAt:     startedAt,
		Note:          req.Note,
	})
}

func (s *Service) Loans(ctx context.Context) ([]Loan, error) {
	return s.repo.ListLoans(ctx)
}

func (s *Service) Loan(ctx context.Context, id int64) (Loan, error) {
	return s.repo.GetLoan(ctx, id)
}

// LoanSchedule projects the installment plan from the loan's start date.
func (s *Service) LoanSchedule(ctx context.Context, id int64) (Loan, []finance.Installment, error) {
	loan, err := s.repo.GetLoan(ctx, id)
	if err != nil {
		return Loan{}, nil, err
	}
	schedule := finance.Schedule(loan.Principal, loan.AnnualRatePct, loan.TenureMonths, loan.Frequency, loan.StartedAt)
	return loan, schedule, nil
}

func (s *Service) RepayLoan(ctx context.Context, id int64, amount float64) (Loan, error) {
	if amount <= 0 {
		return Loan{}, fmt.Errorf("ledger: repayment amount must be positive")
	}
	return s.repo.RepayLoan(ctx, id, amount)
}

func (s *Service) AddBankAccount(ctx context.Context, req CreateBankAccountRequest) (BankAccount, error) {
	return s.repo.CreateBankAccount(ctx, BankAccount{
		Name:    req.Name,
		Bank:    req.Bank,
		Balance: req.Balance,
		AsOf:    time.Now(),
	})
}

func (s *Service) BankAccounts(ctx context.Context) ([]BankAccount, error) {
	return s.repo.ListBankAccounts(ctx)
}

func (s *Service) UpdateBankBalance(ctx context.Context, id int64, req UpdateBankAccountRequest) (BankAccount, error) {
	asOf := time.Now()
	if req.AsOf != "" {
		parsed, err := time.ParseInLocation("2006-01-02", req.AsOf, time.Local)
		if err != nil {
			return BankAccount{}, fmt.Errorf("ledger: parse as_of: %w", err)
		}
		asOf = parsed
	}
	return s.repo.UpdateBankBalance(ctx, id, req.Balance, asOf)
}
