package reports

import (
	"sort"
	"time"

	"ledger-backend/models"
	"ledger-backend/utils"

	"github.com/shopspring/decimal"
)

const topCustomers = 10

type DashboardTotals struct {
	TotalIncome      decimal.Decimal `json:"total_income"`
	TotalExpenses    decimal.Decimal `json:"total_expenses"`
	NetProfit        decimal.Decimal `json:"net_profit"`
	TotalFees        decimal.Decimal `json:"total_fees"`
	TransactionCount int             `json:"transaction_count"`
}

type MethodBreakdown struct {
	Amount decimal.Decimal `json:"amount"`
	Count  int             `json:"count"`
	Fees   decimal.Decimal `json:"fees"`
}

type CategoryBreakdown struct {
	Income  decimal.Decimal `json:"income"`
	Expense decimal.Decimal `json:"expense"`
	Count   int             `json:"count"`
}

// DashboardSummary is the net-amount view of a set of transactions.
type DashboardSummary struct {
	Summary        DashboardTotals               `json:"summary"`
	PaymentMethods map[string]*MethodBreakdown   `json:"payment_methods"`
	Categories     map[string]*CategoryBreakdown `json:"categories"`
}

// Dashboard sums net amounts, unlike Build which reports gross amounts.
// Transactions without a payment method are left out of the method breakdown.
func Dashboard(transactions []models.Transaction) *DashboardSummary {
	d := &DashboardSummary{
		PaymentMethods: map[string]*MethodBreakdown{},
		Categories:     map[string]*CategoryBreakdown{},
	}
	for i := range transactions {
		t := &transactions[i]
		d.Summary.TransactionCount++
		d.Summary.TotalFees = d.Summary.TotalFees.Add(t.FeeAmount)

		c, ok := d.Categories[t.Category]
		if !ok {
			c = &CategoryBreakdown{}
			d.Categories[t.Category] = c
		}
		c.Count++
		switch t.Kind {
		case models.KindIncome:
			d.Summary.TotalIncome = d.Summary.TotalIncome.Add(t.NetAmount)
			c.Income = c.Income.Add(t.NetAmount)
		case models.KindExpense:
			d.Summary.TotalExpenses = d.Summary.TotalExpenses.Add(t.NetAmount)
			c.Expense = c.Expense.Add(t.NetAmount)
		}

		if t.PaymentMethod == "" {
			continue
		}
		m, ok := d.PaymentMethods[t.PaymentMethod]
		if !ok {
			m = &MethodBreakdown{}
			d.PaymentMethods[t.PaymentMethod] = m
		}
		m.Count++
		m.Amount = m.Amount.Add(t.NetAmount)
		m.Fees = m.Fees.Add(t.FeeAmount)
	}
	s := &d.Summary
	s.NetProfit = utils.Round2(s.TotalIncome.Sub(s.TotalExpenses))
	s.TotalIncome, s.TotalExpenses, s.TotalFees = utils.Round2(s.TotalIncome), utils.Round2(s.TotalExpenses), utils.Round2(s.TotalFees)
	for _, m := range d.PaymentMethods {
		m.Amount, m.Fees = utils.Round2(m.Amount), utils.Round2(m.Fees)
	}
	for _, c := range d.Categories {
		c.Income, c.Expense = utils.Round2(c.Income), utils.Round2(c.Expense)
	}
	return d
}

type GroupFigures struct {
	Count         int             `json:"count"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	PendingAmount decimal.Decimal `json:"pending_amount"`
}

type BillsOverview struct {
	TotalBills         int                      `json:"total_bills"`
	PendingBills       int                      `json:"pending_bills"`
	PaidBills          int                      `json:"paid_bills"`
	OverdueBills       int                      `json:"overdue_bills"`
	BillsDueThisWeek   int                      `json:"bills_due_this_week"`
	TotalPendingAmount decimal.Decimal          `json:"total_pending_amount"`
	TotalPaidAmount    decimal.Decimal          `json:"total_paid_amount"`
	TotalOverdueAmount decimal.Decimal          `json:"total_overdue_amount"`
	Categories         map[string]*GroupFigures `json:"categories"`
}

// BillsSummary counts overdue bills by the IsOverdue predicate. Cancelled
// bills count toward the total only.
func BillsSummary(bills []models.Bill, today time.Time) *BillsOverview {
	o := &BillsOverview{Categories: map[string]*GroupFigures{}}
	day := utils.DateOnly(today)
	weekEnd := day.AddDate(0, 0, 7)
	for i := range bills {
		b := &bills[i]
		o.TotalBills++
		g, ok := o.Categories[b.Category]
		if !ok {
			g = &GroupFigures{}
			o.Categories[b.Category] = g
		}
		g.Count++
		g.TotalAmount = g.TotalAmount.Add(b.FinalAmount)

		switch b.Status {
		case models.BillPending:
			o.PendingBills++
			o.TotalPendingAmount = o.TotalPendingAmount.Add(b.FinalAmount)
			g.PendingAmount = g.PendingAmount.Add(b.FinalAmount)
			due := utils.DateOnly(b.DueDate)
			if !due.Before(day) && !due.After(weekEnd) {
				o.BillsDueThisWeek++
			}
		case models.BillPaid:
			o.PaidBills++
			o.TotalPaidAmount = o.TotalPaidAmount.Add(b.FinalAmount)
		}
		if b.Status != models.BillCancelled && b.IsOverdue(today) {
			o.OverdueBills++
			o.TotalOverdueAmount = o.TotalOverdueAmount.Add(b.FinalAmount)
		}
	}
	o.TotalPendingAmount = utils.Round2(o.TotalPendingAmount)
	o.TotalPaidAmount = utils.Round2(o.TotalPaidAmount)
	o.TotalOverdueAmount = utils.Round2(o.TotalOverdueAmount)
	roundGroups(o.Categories)
	return o
}

type CustomerFigures struct {
	Name          string          `json:"name"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	PendingAmount decimal.Decimal `json:"pending_amount"`
	Count         int             `json:"count"`
}

type ReceivablesOverview struct {
	TotalReceivables       int                      `json:"total_receivables"`
	PendingReceivables     int                      `json:"pending_receivables"`
	PartialReceivables     int                      `json:"partial_receivables"`
	PaidReceivables        int                      `json:"paid_receivables"`
	OverdueReceivables     int                      `json:"overdue_receivables"`
	ReceivablesDueThisWeek int                      `json:"receivables_due_this_week"`
	TotalAmount            decimal.Decimal          `json:"total_amount"`
	TotalPendingAmount     decimal.Decimal          `json:"total_pending_amount"`
	TotalPaidAmount        decimal.Decimal          `json:"total_paid_amount"`
	TotalOverdueAmount     decimal.Decimal          `json:"total_overdue_amount"`
	Types                  map[string]*GroupFigures `json:"types"`
	TopCustomers           []CustomerFigures        `json:"top_customers"`
}

// ReceivablesSummary rolls receivables up by status, type and customer.
// Pending amounts leave out paid and cancelled receivables.
func ReceivablesSummary(receivables []models.Receivable, today time.Time) *ReceivablesOverview {
	o := &ReceivablesOverview{Types: map[string]*GroupFigures{}}
	day := utils.DateOnly(today)
	weekEnd := day.AddDate(0, 0, 7)
	customers := map[string]*CustomerFigures{}
	for i := range receivables {
		r := &receivables[i]
		o.TotalReceivables++
		switch r.Status {
		case models.ReceivablePending:
			o.PendingReceivables++
		case models.ReceivablePartial:
			o.PartialReceivables++
		case models.ReceivablePaid:
			o.PaidReceivables++
		}
		if r.IsOverdue(today) {
			o.OverdueReceivables++
			o.TotalOverdueAmount = o.TotalOverdueAmount.Add(r.RemainingAmount)
		}
		if r.Status == models.ReceivablePending || r.Status == models.ReceivablePartial {
			due := utils.DateOnly(r.DueDate)
			if !due.Before(day) && !due.After(weekEnd) {
				o.ReceivablesDueThisWeek++
			}
		}

		pending := decimal.Zero
		if r.Status != models.ReceivablePaid && r.Status != models.ReceivableCancelled {
			pending = r.RemainingAmount
		}
		o.TotalAmount = o.TotalAmount.Add(r.OriginalAmount)
		o.TotalPaidAmount = o.TotalPaidAmount.Add(r.PaidAmount)
		o.TotalPendingAmount = o.TotalPendingAmount.Add(pending)

		g, ok := o.Types[string(r.Type)]
		if !ok {
			g = &GroupFigures{}
			o.Types[string(r.Type)] = g
		}
		g.Count++
		g.TotalAmount = g.TotalAmount.Add(r.OriginalAmount)
		g.PendingAmount = g.PendingAmount.Add(pending)

		c, ok := customers[r.CustomerName]
		if !ok {
			c = &CustomerFigures{Name: r.CustomerName}
			customers[r.CustomerName] = c
		}
		c.Count++
		c.TotalAmount = c.TotalAmount.Add(r.OriginalAmount)
		c.PendingAmount = c.PendingAmount.Add(pending)
	}

	o.TopCustomers = make([]CustomerFigures, 0, len(customers))
	for _, c := range customers {
		c.TotalAmount, c.PendingAmount = utils.Round2(c.TotalAmount), utils.Round2(c.PendingAmount)
		o.TopCustomers = append(o.TopCustomers, *c)
	}
	sort.Slice(o.TopCustomers, func(i, j int) bool {
		a, b := o.TopCustomers[i], o.TopCustomers[j]
		if !a.TotalAmount.Equal(b.TotalAmount) {
			return a.TotalAmount.GreaterThan(b.TotalAmount)
		}
		return a.Name < b.Name
	})
	if len(o.TopCustomers) > topCustomers {
		o.TopCustomers = o.TopCustomers[:topCustomers]
	}

	o.TotalAmount = utils.Round2(o.TotalAmount)
	o.TotalPendingAmount = utils.Round2(o.TotalPendingAmount)
	o.TotalPaidAmount = utils.Round2(o.TotalPaidAmount)
	o.TotalOverdueAmount = utils.Round2(o.TotalOverdueAmount)
	roundGroups(o.Types)
	return o
}

func roundGroups(m map[string]*GroupFigures) {
	for _, g := range m {
		g.TotalAmount, g.PendingAmount = utils.Round2(g.TotalAmount), utils.Round2(g.PendingAmount)
	}
}
