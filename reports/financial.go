package reports

import (
	"context"
	"time"

	"ledger-backend/models"
	"ledger-backend/utils"

	"github.com/shopspring/decimal"
)

const otherLabel = "Other"

// Dataset is the raw material of a financial report. A Loader is expected to
// fetch it already scoped to one owner and window; Build filters again.
type Dataset struct {
	Transactions []models.Transaction
	Bills        []models.Bill
	Receivables  []models.Receivable
}

// Loader fetches the entities of one owner that may fall into a window.
type Loader interface {
	LoadDataset(ctx context.Context, ownerID string, w Window) (Dataset, error)
}

type Summary struct {
	TotalIncome             decimal.Decimal `json:"total_income"`
	TotalExpenses           decimal.Decimal `json:"total_expenses"`
	NetProfit               decimal.Decimal `json:"net_profit"`
	ProfitMargin            decimal.Decimal `json:"profit_margin"`
	TransactionCount        int             `json:"transaction_count"`
	IncomeTransactionCount  int             `json:"income_transaction_count"`
	ExpenseTransactionCount int             `json:"expense_transaction_count"`
}

type BillFigures struct {
	TotalPending decimal.Decimal `json:"total_pending"`
	TotalPaid    decimal.Decimal `json:"total_paid"`
	PendingCount int             `json:"pending_count"`
	PaidCount    int             `json:"paid_count"`
	OverdueBills int             `json:"overdue_bills"`
}

type ReceivableFigures struct {
	TotalPending  decimal.Decimal `json:"total_pending"`
	TotalReceived decimal.Decimal `json:"total_received"`
	TotalOverdue  decimal.Decimal `json:"total_overdue"`
	PendingCount  int             `json:"pending_count"`
	PaidCount     int             `json:"paid_count"`
	OverdueCount  int             `json:"overdue_count"`
}

type Categories struct {
	Income   map[string]decimal.Decimal `json:"income"`
	Expenses map[string]decimal.Decimal `json:"expenses"`
}

type MethodFigures struct {
	Count int             `json:"count"`
	Total decimal.Decimal `json:"total"`
	Fees  decimal.Decimal `json:"fees"`
}

type CashFlow struct {
	OperationalCashFlow decimal.Decimal `json:"operational_cash_flow"`
	AccountsReceivable  decimal.Decimal `json:"accounts_receivable"`
	AccountsPayable     decimal.Decimal `json:"accounts_payable"`
	NetCashPosition     decimal.Decimal `json:"net_cash_position"`
}

// FinancialReport aggregates one owner's activity over a period. Transaction
// figures are gross amounts.
type FinancialReport struct {
	Period         string                    `json:"period"`
	Days           int                       `json:"days"`
	DateRange      DateRange                 `json:"date_range"`
	Summary        Summary                   `json:"summary"`
	Bills          BillFigures               `json:"bills"`
	Receivables    ReceivableFigures         `json:"receivables"`
	Categories     Categories                `json:"categories"`
	PaymentMethods map[string]*MethodFigures `json:"payment_methods"`
	CashFlow       CashFlow                  `json:"cash_flow"`
}

// BuildFinancialReport loads the owner's dataset for the period and builds the report.
func BuildFinancialReport(ctx context.Context, source Loader, ownerID string, period Period, today time.Time) (*FinancialReport, error) {
	w := period.Window(today)
	ds, err := source.LoadDataset(ctx, ownerID, w)
	if err != nil {
		return nil, err
	}
	return Build(ds, period, today), nil
}

// Build computes the report at full precision and rounds every figure to
// cents on the way out.
func Build(ds Dataset, period Period, today time.Time) *FinancialReport {
	w := period.Window(today)
	rep := &FinancialReport{
		Period:         period.Label(),
		Days:           period.Days(),
		DateRange:      w.Range(),
		Categories:     Categories{Income: map[string]decimal.Decimal{}, Expenses: map[string]decimal.Decimal{}},
		PaymentMethods: map[string]*MethodFigures{},
	}

	for i := range ds.Transactions {
		t := &ds.Transactions[i]
		if !w.Contains(t.Date) {
			continue
		}
		rep.Summary.TransactionCount++
		category := labelOr(t.Category)
		switch t.Kind {
		case models.KindIncome:
			rep.Summary.IncomeTransactionCount++
			rep.Summary.TotalIncome = rep.Summary.TotalIncome.Add(t.Amount)
			rep.Categories.Income[category] = rep.Categories.Income[category].Add(t.Amount)
		case models.KindExpense:
			rep.Summary.ExpenseTransactionCount++
			rep.Summary.TotalExpenses = rep.Summary.TotalExpenses.Add(t.Amount)
			rep.Categories.Expenses[category] = rep.Categories.Expenses[category].Add(t.Amount)
		}

		method := labelOr(t.PaymentMethod)
		m, ok := rep.PaymentMethods[method]
		if !ok {
			m = &MethodFigures{}
			rep.PaymentMethods[method] = m
		}
		m.Count++
		m.Total = m.Total.Add(t.Amount)
		m.Fees = m.Fees.Add(t.FeeAmount)
	}
	rep.Summary.NetProfit = rep.Summary.TotalIncome.Sub(rep.Summary.TotalExpenses)
	rep.Summary.ProfitMargin = utils.Percent(rep.Summary.NetProfit, rep.Summary.TotalIncome)

	for i := range ds.Bills {
		b := &ds.Bills[i]
		if !w.Contains(b.DueDate) {
			continue
		}
		switch b.Status {
		case models.BillPending, models.BillOverdue:
			rep.Bills.PendingCount++
			rep.Bills.TotalPending = rep.Bills.TotalPending.Add(b.FinalAmount)
		case models.BillPaid:
			rep.Bills.PaidCount++
			rep.Bills.TotalPaid = rep.Bills.TotalPaid.Add(b.FinalAmount)
		}
		if b.Status != models.BillCancelled && b.IsOverdue(today) {
			rep.Bills.OverdueBills++
		}
	}

	for i := range ds.Receivables {
		r := &ds.Receivables[i]
		if !w.StartsBefore(r.IssueDate) {
			continue
		}
		switch r.Status {
		case models.ReceivablePending, models.ReceivablePartial:
			rep.Receivables.PendingCount++
			rep.Receivables.TotalPending = rep.Receivables.TotalPending.Add(r.RemainingAmount)
		case models.ReceivablePaid:
			rep.Receivables.PaidCount++
		}
		rep.Receivables.TotalReceived = rep.Receivables.TotalReceived.Add(r.PaidAmount)
		if r.IsOverdue(today) {
			rep.Receivables.OverdueCount++
			rep.Receivables.TotalOverdue = rep.Receivables.TotalOverdue.Add(r.RemainingAmount)
		}
	}

	rep.CashFlow.OperationalCashFlow = rep.Summary.NetProfit
	rep.CashFlow.AccountsReceivable = rep.Receivables.TotalPending
	rep.CashFlow.AccountsPayable = rep.Bills.TotalPending
	rep.CashFlow.NetCashPosition = rep.CashFlow.OperationalCashFlow.
		Add(rep.CashFlow.AccountsReceivable).
		Sub(rep.CashFlow.AccountsPayable)

	rep.round()
	return rep
}

func (r *FinancialReport) round() {
	s := &r.Summary
	s.TotalIncome, s.TotalExpenses = utils.Round2(s.TotalIncome), utils.Round2(s.TotalExpenses)
	s.NetProfit, s.ProfitMargin = utils.Round2(s.NetProfit), utils.Round2(s.ProfitMargin)

	r.Bills.TotalPending, r.Bills.TotalPaid = utils.Round2(r.Bills.TotalPending), utils.Round2(r.Bills.TotalPaid)

	rf := &r.Receivables
	rf.TotalPending = utils.Round2(rf.TotalPending)
	rf.TotalReceived = utils.Round2(rf.TotalReceived)
	rf.TotalOverdue = utils.Round2(rf.TotalOverdue)

	roundMap(r.Categories.Income)
	roundMap(r.Categories.Expenses)
	for _, m := range r.PaymentMethods {
		m.Total, m.Fees = utils.Round2(m.Total), utils.Round2(m.Fees)
	}

	c := &r.CashFlow
	c.OperationalCashFlow = utils.Round2(c.OperationalCashFlow)
	c.AccountsReceivable = utils.Round2(c.AccountsReceivable)
	c.AccountsPayable = utils.Round2(c.AccountsPayable)
	c.NetCashPosition = utils.Round2(c.NetCashPosition)
}

func roundMap(m map[string]decimal.Decimal) {
	for k, v := range m {
		m[k] = utils.Round2(v)
	}
}

func labelOr(s string) string {
	if s == "" {
		return otherLabel
	}
	return s
}
