package ledger

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/dairydesk/dairydesk/internal/finance"
)

type memRepo struct {
	suppliers   map[int64]Supplier
	payables    map[int64]*Payable
	receivables map[int64]*Receivable
	loans       map[int64]*Loan
	banks       map[int64]*BankAccount
	nextID      int64
}

func newMemRepo() *memRepo {
	return &memRepo{
		suppliers:   make(map[int64]Supplier),
		payables:    make(map[int64]*Payable),
		receivables: make(map[int64]*Receivable),
		loans:       make(map[int64]*Loan),
		banks:       make(map[int64]*BankAccount),
	}
}

func (m *memRepo) id() int64 { m.nextID++; return m.nextID }

func (m *memRepo) CreateSupplier(_ context.Context, s Supplier) (Supplier, error) {
	s.ID = m.id()
	m.suppliers[s.ID] = s
	return s, nil
}

func (m *memRepo) ListSuppliers(context.Context) ([]Supplier, error) {
	var out []Supplier
	for _, s := range m.suppliers {
		out = append(out, s)
	}
	return out, nil
}

func (m *memRepo) CreatePayable(_ context.Context, p Payable) (Payable, error) {
	p.ID = m.id()
	m.payables[p.ID] = &p
	return p, nil
}

func (m *memRepo) ListPayables(_ context.Context, includeSettled bool) ([]Payable, error) {
	var out []Payable
	for _, p := range m.payables {
		if !includeSettled && p.Outstanding() <= settleEpsilon {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

func (m *memRepo) SettlePayable(_ context.Context, id int64, amount float64) (Payable, error) {
	p, ok := m.payables[id]
	if !ok {
		return Payable{}, ErrNotFound
	}
	if amount > p.Outstanding()+settleEpsilon {
		return Payable{}, ErrOverSettlement
	}
	p.Settled += amount
	return *p, nil
}

func (m *memRepo) CreateReceivable(_ context.Context, rc Receivable) (Receivable, error) {
	rc.ID = m.id()
	m.receivables[rc.ID] = &rc
	return rc, nil
}

func (m *memRepo) ListReceivables(_ context.Context, includeSettled bool) ([]Receivable, error) {
	var out []Receivable
	for _, rc := range m.receivables {
		if !includeSettled && rc.Outstanding() <= settleEpsilon {
			continue
		}
		out = append(out, *rc)
	}
	return out, nil
}

func (m *memRepo) SettleReceivable(_ context.Context, id int64, amount float64) (Receivable, error) {
	rc, ok := m.receivables[id]
	if !ok {
		return Receivable{}, ErrNotFound
	}
	if amount > rc.Outstanding()+settleEpsilon {
		return Receivable{}, ErrOverSettlement
	}
	rc.Settled += amount
	return *rc, nil
}

func (m *memRepo) CreateLoan(_ context.Context, l Loan) (Loan, error) {
	l.ID = m.id()
	m.loans[l.ID] = &l
	return l, nil
}

func (m *memRepo) GetLoan(_ context.Context, id int64) (Loan, error) {
	l, ok := m.loans[id]
	if !ok {
		return Loan{}, ErrNotFound
	}
	return *l, nil
}

func (m *memRepo) ListLoans(context.Context) ([]Loan, error) {
	var out []Loan
	for _, l := range m.loans {
		out = append(out, *l)
	}
	return out, nil
}

func (m *memRepo) RepayLoan(_ context.Context, id int64, amount float64) (Loan, error) {
	l, ok := m.loans[id]
	if !ok {
		return Loan{}, ErrNotFound
	}
	if amount > l.Outstanding()+settleEpsilon {
		return Loan{}, ErrOverRepayment
	}
	l.Repaid += amount
	return *l, nil
}

func (m *memRepo) CreateBankAccount(_ context.Context, b BankAccount) (BankAccount, error) {
	b.ID = m.id()
	m.banks[b.ID] = &b
	return b, nil
}

func (m *memRepo) ListBankAccounts(context.Context) ([]BankAccount, error) {
	var out []BankAccount
	for _, b := range m.banks {
		out = append(out, *b)
	}
	return out, nil
}

func (m *memRepo) UpdateBankBalance(_ context.Context, id int64, balance float64, asOf time.Time) (BankAccount, error) {
	b, ok := m.banks[id]
	if !ok {
		return BankAccount{}, ErrNotFound
	}
	b.Balance = balance
	b.AsOf = asOf
	return *b, nil
}

func TestSettlePayable(t *testing.T) {
	svc := NewService(newMemRepo())
	ctx := context.Background()
	due := "2025-11-30"

	p, err := svc.AddPayable(ctx, CreateObligationRequest{
		Name: "Feed Traders", Category: "feed", Amount: 5000, DueAt: &due,
	})
	require.NoError(t, err)
	require.NotNil(t, p.DueAt)

	p, err = svc.SettlePayable(ctx, p.ID, 2000)
	require.NoError(t, err)
	require.InDelta(t, 3000.0, p.Outstanding(), 1e-9)

	_, err = svc.SettlePayable(ctx, p.ID, 3500)
	require.ErrorIs(t, err, ErrOverSettlement)

	_, err = svc.SettlePayable(ctx, p.ID, -10)
	require.Error(t, err)

	p, err = svc.SettlePayable(ctx, p.ID, 3000)
	require.NoError(t, err)
	require.InDelta(t, 0.0, p.Outstanding(), 1e-9)

	open, err := svc.Payables(ctx, false)
	require.NoError(t, err)
	require.Empty(t, open, "fully settled payables leave the open list")

	all, err := svc.Payables(ctx, true)
	require.NoError(t, err)
	require.Len(t, all, 1)
}

func TestSettleReceivable(t *testing.T) {
	svc := NewService(newMemRepo())
	ctx := context.Background()

	rc, err := svc.AddReceivable(ctx, CreateObligationRequest{
		Name: "Wedding bulk order", Category: "bulk", Amount: 8000,
	})
	require.NoError(t, err)
	require.Nil(t, rc.DueAt, "due date is optional")

	rc, err = svc.SettleReceivable(ctx, rc.ID, 8000)
	require.NoError(t, err)
	require.InDelta(t, 0.0, rc.Outstanding(), 1e-9)

	_, err = svc.SettleReceivable(ctx, 99, 100)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestLoanScheduleAndRepay(t *testing.T) {
	svc := NewService(newMemRepo())
	ctx := context.Background()

	loan, err := svc.AddLoan(ctx, CreateLoanRequest{
		Lender:        "District Co-op Bank",
		Principal:     100000,
		AnnualRatePct: 12,
		TenureMonths:  12,
		Frequency:     finance.FrequencyMonthly,
		StartedAt:     "2025-01-15",
	})
	require.NoError(t, err)
	require.InDelta(t, 8885.0, loan.EMI(), 1e-9)
	require.InDelta(t, 106620.0, loan.TotalPayable(), 1e-9)

	got, schedule, err := svc.LoanSchedule(ctx, loan.ID)
	require.NoError(t, err)
	require.Equal(t, loan.ID, got.ID)
	require.Len(t, schedule, 12)
	require.Equal(t, 1, schedule[0].Number)
	require.InDelta(t, 0.0, schedule[len(schedule)-1].Balance, 1e-9)

	loan, err = svc.RepayLoan(ctx, loan.ID, 8885)
	require.NoError(t, err)
	require.InDelta(t, 106620.0-8885.0, loan.Outstanding(), 1e-9)

	_, err = svc.RepayLoan(ctx, loan.ID, 1e9)
	require.ErrorIs(t, err, ErrOverRepayment)
}

func TestBankBalanceUpdate(t *testing.T) {
	svc := NewService(newMemRepo())
	ctx := context.Background()

	account, err := svc.AddBankAccount(ctx, CreateBankAccountRequest{
		Name: "Operating", Bank: "SBI", Balance: 25000,
	})
	require.NoError(t, err)

	account, err = svc.UpdateBankBalance(ctx, account.ID, UpdateBankAccountRequest{
		Balance: 31000, AsOf: "2025-11-30",
	})
	require.NoError(t, err)
	require.InDelta(t, 31000.0, account.Balance, 1e-9)
	require.Equal(t, time.November, account.AsOf.Month())

	_, err = svc.UpdateBankBalance(ctx, 99, UpdateBankAccountRequest{Balance: 1})
	require.ErrorIs(t, err, ErrNotFound)
}
