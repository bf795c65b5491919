package finance

import "time"

// Sale is a one-off product sale snapshot.
type Sale struct {
	Date        time.Time
	ProductType string
	Quantity    float64
	UnitPrice   float64
	TotalAmount float64
	Paid        bool
}

// Payment is cash actually received, either against a bill or from direct
// collection.
type Payment struct {
	Date   time.Time
	Amount float64
	Method string
}

// Bill is a periodic milk-delivery invoice. Revenue is recognised in the
// billing period the invoice covers, not when it is paid.
type Bill struct {
	BillingPeriod string
	TotalAmount   float64
	CreatedAt     time.Time
}

// Expense is an operating cost.
type Expense struct {
	Date     time.Time
	Category string
	Amount   float64
}

// MonthlySummary holds derived figures for a single period.
type MonthlySummary struct {
	Period            Period  `json:"period"`
	SalesIncome       float64 `json:"salesIncome"`
	PaymentsCollected float64 `json:"paymentsCollected"`
	BillsGenerated    float64 `json:"billsGenerated"`
	Expenses          float64 `json:"expenses"`
	TotalIncome       float64 `json:"totalIncome"`
	NetProfit         float64 `json:"netProfit"`
	SalesCount        int     `json:"salesCount"`
	PaymentsCount     int     `json:"paymentsCount"`
	BillsCount        int     `json:"billsCount"`
	ExpensesCount     int     `json:"expensesCount"`
}

// AggregateMonthly folds the collections into a single-period summary.
// Monthly income counts sales and generated bills; collections are tracked
// separately for collection-rate displays but are NOT part of TotalIncome,
// since the amounts they cover were already recognised when billed.
func AggregateMonthly(sales []Sale, payments []Payment, bills []Bill, expenses []Expense, period Period) MonthlySummary {
	summary := MonthlySummary{Period: period}
	for _, sale := range sales {
		if PeriodOf(sale.Date) != period {
			continue
		}
		summary.SalesIncome += sale.TotalAmount
		summary.SalesCount++
	}
	for _, payment := range payments {
		if PeriodOf(payment.Date) != period {
			continue
		}
		summary.PaymentsCollected += payment.Amount
		summary.PaymentsCount++
	}
	for _, bill := range bills {
		billPeriod, err := ParsePeriod(bill.BillingPeriod)
		if err != nil || billPeriod != period {
			continue
		}
		summary.BillsGenerated += bill.TotalAmount
		summary.BillsCount++
	}
	for _, expense := range expenses {
		if PeriodOf(expense.Date) != period {
			continue
		}
		summary.Expenses += expense.Amount
		summary.ExpensesCount++
	}
	summary.TotalIncome = summary.SalesIncome + summary.BillsGenerated
	summary.NetProfit = summary.TotalIncome - summary.Expenses
	return summary
}

// AllTimeSummary holds figures over the unfiltered collections.
type AllTimeSummary struct {
	TotalIncome   float64 `json:"totalIncome"`
	TotalExpenses float64 `json:"totalExpenses"`
	NetProfit     float64 `json:"netProfit"`
	SalesCount    int     `json:"salesCount"`
	PaymentsCount int     `json:"paymentsCount"`
	ExpensesCount int     `json:"expensesCount"`
}

// AggregateAllTime folds the full collections into lifetime totals. Unlike the
// monthly view, all-time income counts collected payments as well as sales;
// the asymmetry mirrors how the business reads the two figures and is kept
// deliberately (see DESIGN.md).
func AggregateAllTime(sales []Sale, payments []Payment, expenses []Expense) AllTimeSummary {
	var summary AllTimeSummary
	for _, sale := range sales {
		summary.TotalIncome += sale.TotalAmount
		summary.SalesCount++
	}
	for _, payment := range payments {
		summary.TotalIncome += payment.Amount
		summary.PaymentsCount++
	}
	for _, expense := range expenses {
		summary.TotalExpenses += expense.Amount
		summary.ExpensesCount++
	}
	summary.NetProfit = summary.TotalIncome - summary.TotalExpenses
	return summary
}
