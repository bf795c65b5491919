package finance

import "time"

// Loan carries the fields the report views derive from.
type Loan struct {
	Name          string
	Lender        string
	Principal     float64
	Outstanding   float64
	AnnualRatePct float64
	TenureMonths  int
	Frequency     Frequency
	StartedAt     time.Time
}

// Inputs is a consistent snapshot of the raw collections feeding the
// dashboards. The caller owns fetching; all collections must come from the
// same request cycle.
type Inputs struct {
	Sales       []Sale
	Payments    []Payment
	Bills       []Bill
	Expenses    []Expense
	Payables    []AgingEntry
	Receivables []AgingEntry
	Loans       []Loan
	BankBalance float64
}

// OverviewDisplay holds pre-formatted figures for the overview cards.
type OverviewDisplay struct {
	MonthlyIncome    string `json:"monthlyIncome"`
	MonthlyExpenses  string `json:"monthlyExpenses"`
	MonthlyNetProfit string `json:"monthlyNetProfit"`
	AllTimeIncome    string `json:"allTimeIncome"`
	AllTimeNetProfit string `json:"allTimeNetProfit"`
}

// OverviewSummary is the monthly plus all-time dashboard view-model.
type OverviewSummary struct {
	Monthly MonthlySummary  `json:"monthly"`
	AllTime AllTimeSummary  `json:"allTime"`
	Display OverviewDisplay `json:"display"`
}

// BuildOverview assembles the overview view-model for one period. The inputs
// are never mutated.
func BuildOverview(in Inputs, period Period, formatter *Formatter) OverviewSummary {
	if formatter == nil {
		formatter = NewFormatter()
	}
	monthly := AggregateMonthly(in.Sales, in.Payments, in.Bills, in.Expenses, period)
	allTime := AggregateAllTime(in.Sales, in.Payments, in.Expenses)
	return OverviewSummary{
		Monthly: monthly,
		AllTime: allTime,
		Display: OverviewDisplay{
			MonthlyIncome:    formatter.Format(monthly.TotalIncome),
			MonthlyExpenses:  formatter.Format(monthly.Expenses),
			MonthlyNetProfit: formatter.Format(monthly.NetProfit),
			AllTimeIncome:    formatter.Format(allTime.TotalIncome),
			AllTimeNetProfit: formatter.Format(allTime.NetProfit),
		},
	}
}

// LoanObligation summarises one loan for the reports view.
type LoanObligation struct {
	Name          string  `json:"name"`
	Lender        string  `json:"lender"`
	Outstanding   float64 `json:"outstanding"`
	EMI           float64 `json:"emi"`
	TotalPayable  float64 `json:"totalPayable"`
	TotalInterest float64 `json:"totalInterest"`
}

// CashPosition is the cash-flow snapshot on the reports view.
type CashPosition struct {
	BankBalance    float64 `json:"bankBalance"`
	Receivables    float64 `json:"receivables"`
	Payables       float64 `json:"payables"`
	Loans          float64 `json:"loans"`
	NetPosition    float64 `json:"netPosition"`
	MonthlyEMILoad float64 `json:"monthlyEmiLoad"`
}

// ReportsSummary is the aging, ratio and cash-flow view-model.
type ReportsSummary struct {
	AsOf            time.Time        `json:"asOf"`
	PayableAging    AgingReport      `json:"payableAging"`
	ReceivableAging AgingReport      `json:"receivableAging"`
	Ratios          Ratios           `json:"ratios"`
	Cash            CashPosition     `json:"cash"`
	Loans           []LoanObligation `json:"loans"`
}

// BuildReports assembles the reports view-model as of the given instant. A
// zero asOf falls back to the current time.
func BuildReports(in Inputs, asOf time.Time) ReportsSummary {
	if asOf.IsZero() {
		asOf = time.Now()
	}
	payableAging := AnalyzeAging(in.Payables, asOf)
	receivableAging := AnalyzeAging(in.Receivables, asOf)

	var loansOutstanding, emiLoad float64
	obligations := make([]LoanObligation, 0, len(in.Loans))
	for _, loan := range in.Loans {
		loansOutstanding += loan.Outstanding
		emi := EMI(loan.Principal, loan.AnnualRatePct, loan.TenureMonths, loan.Frequency)
		if months := loan.Frequency.PeriodMonths(); months > 0 {
			emiLoad += emi / float64(months)
		}
		obligations = append(obligations, LoanObligation{
			Name:          loan.Name,
			Lender:        loan.Lender,
			Outstanding:   loan.Outstanding,
			EMI:           emi,
			TotalPayable:  TotalAmount(loan.Principal, loan.AnnualRatePct, loan.TenureMonths, loan.Frequency),
			TotalInterest: TotalInterest(loan.Principal, loan.AnnualRatePct, loan.TenureMonths, loan.Frequency),
		})
	}

	ratios := ComputeRatios(receivableAging.TotalOutstanding, payableAging.TotalOutstanding, in.BankBalance, loansOutstanding)

	return ReportsSummary{
		AsOf:            asOf,
		PayableAging:    payableAging,
		ReceivableAging: receivableAging,
		Ratios:          ratios,
		Cash: CashPosition{
			BankBalance:    in.BankBalance,
			Receivables:    receivableAging.TotalOutstanding,
			Payables:       payableAging.TotalOutstanding,
			Loans:          loansOutstanding,
			NetPosition:    in.BankBalance + receivableAging.TotalOutstanding - payableAging.TotalOutstanding - loansOutstanding,
			MonthlyEMILoad: emiLoad,
		},
		Loans: obligations,
	}
}
