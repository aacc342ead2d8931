package narrative

import (
	"context"
	"strings"
	"time"

	"ledger-backend/reports"
	"ledger-backend/utils"

	"github.com/shopspring/decimal"
)

var (
	twentyPercent = decimal.RequireFromString("0.2")
	fivePercent   = decimal.RequireFromString("0.05")
	tenPercent    = decimal.RequireFromString("0.1")
	eightyPercent = decimal.RequireFromString("0.8")
	growth        = decimal.RequireFromString("1.1")
	costCut       = decimal.RequireFromString("0.95")
	marginTarget  = decimal.NewFromInt(15)
	thirtyDays    = decimal.NewFromInt(30)
)

// TemplateAuthor fills fixed prose templates with report figures.
type TemplateAuthor struct {
	now func() time.Time
}

func NewTemplateAuthor() *TemplateAuthor {
	return &TemplateAuthor{now: time.Now}
}

func (a *TemplateAuthor) Generative() bool { return false }

func (a *TemplateAuthor) Write(_ context.Context, req Request) *Document {
	rep := req.Report
	var doc *Document
	switch req.Kind {
	case FinancialSummary:
		doc = financialSummary(rep)
	case CashFlowAnalysis:
		doc = cashFlowAnalysis(rep)
	case PerformanceInsights:
		doc = performanceInsights(rep)
	default:
		doc = customReport(rep, req.CustomPrompt)
	}
	doc.GeneratedAt = a.now()
	doc.Period = rep.Period
	return doc
}

func lines(ls ...string) string {
	return strings.Join(ls, "\n")
}

func pick(cond bool, yes, no string) string {
	if cond {
		return yes
	}
	return no
}

func financialSummary(rep *reports.FinancialReport) *Document {
	s, cf := rep.Summary, rep.CashFlow
	profitable := s.NetProfit.IsPositive()

	executive := lines(
		"Your business performance in this period "+pick(profitable, "was positive.", "needs attention."),
		"",
		"**Key indicators:**",
		"• Total income: "+money(s.TotalIncome),
		"• Total expenses: "+money(s.TotalExpenses),
		"• Net profit: "+money(s.NetProfit),
		"• Profit margin: "+pct(s.ProfitMargin),
		sprintf("• Transactions: %d", s.TransactionCount),
		"",
		pick(profitable, "✅ Congratulations! Your business is making a profit.", "⚠️ Warning: your expenses exceed your income."),
	)

	cash := lines(
		"**Current cash position:**",
		"• Operational cash flow: "+money(cf.OperationalCashFlow),
		"• Accounts receivable: "+money(rep.Receivables.TotalPending),
		"• Accounts payable: "+money(rep.Bills.TotalPending),
		"• Net position: "+money(cf.NetCashPosition),
		"",
		"**Recommendations:**",
		pick(cf.NetCashPosition.IsPositive(),
			"• Excellent cash management! Keep monitoring.",
			"• Focus on collecting receivables and negotiate terms with suppliers."),
		pick(cf.OperationalCashFlow.GreaterThan(s.TotalIncome.Mul(twentyPercent)),
			"• Consider investing the excess cash.",
			"• Keep an emergency reserve."),
	)

	var income, expenses []string
	for _, e := range topN(rep.Categories.Income, 3) {
		income = append(income, "• "+e.label+": "+money(e.value)+" ("+pct(utils.Percent(e.value, s.TotalIncome))+")")
	}
	for _, e := range topN(rep.Categories.Expenses, 3) {
		expenses = append(expenses, "• "+e.label+": "+money(e.value)+" ("+pct(utils.Percent(e.value, s.TotalExpenses))+")")
	}
	categories := lines(
		"**Main income sources:**",
		strings.Join(income, "\n"),
		"",
		"**Largest expenses:**",
		strings.Join(expenses, "\n"),
		"",
		"**Insights:**",
		"• Diversify your income sources to reduce risk",
		"• Check that expenses are in line with business growth",
	)

	totals := make(map[string]decimal.Decimal, len(rep.PaymentMethods))
	fees := decimal.Zero
	for name, m := range rep.PaymentMethods {
		totals[name] = m.Total
		fees = fees.Add(m.Fees)
	}
	var methods []string
	for _, e := range topN(totals, 5) {
		m := rep.PaymentMethods[e.label]
		methods = append(methods, sprintf("• %s: %s (%d transactions, %s in fees)", e.label, money(m.Total), m.Count, money(m.Fees)))
	}
	payments := lines(
		"**Performance by method:**",
		strings.Join(methods, "\n"),
		"",
		"**Fee optimisation:**",
		"• Total paid in fees: "+money(fees),
		"• Encourage PIX payments to cut costs",
		"• Consider renegotiating card rates if volume is high",
	)

	strategy := lines(
		"**Immediate actions:**",
		pick(profitable,
			"• Keep up the good performance and focus on sustainable growth",
			"• Review expenses and look for cost reduction opportunities"),
		"• Closely monitor receivables ("+money(rep.Receivables.TotalPending)+" pending)",
		pick(rep.Receivables.TotalOverdue.IsPositive(),
			"• Pay special attention to overdue accounts ("+money(rep.Receivables.TotalOverdue)+")",
			"• Excellent receivables management!"),
		"",
		"**Planning:**",
		"• Set monthly targets based on current performance",
		"• Consider investing in marketing if the margin allows",
		"• Keep a reserve worth 3 months of expenses",
	)

	return &Document{
		Title:   "Financial Report - " + rep.Period,
		Summary: "Analysis of the period from " + rep.DateRange.Start + " to " + rep.DateRange.End,
		Sections: []Section{
			{"📊 Executive summary", executive},
			{"💰 Cash flow analysis", cash},
			{"📈 Category analysis", categories},
			{"💳 Payment methods", payments},
			{"🎯 Strategic recommendations", strategy},
		},
	}
}

func cashFlowAnalysis(rep *reports.FinancialReport) *Document {
	s, b, r := rep.Summary, rep.Bills, rep.Receivables

	operational := lines(
		"**Cash in:**",
		"• Operating income: "+money(s.TotalIncome),
		"• Customer collections: "+money(r.TotalReceived),
		"• Total in: "+money(s.TotalIncome.Add(r.TotalReceived)),
		"",
		"**Cash out:**",
		"• Operating expenses: "+money(s.TotalExpenses),
		"• Bills paid: "+money(b.TotalPaid),
		"• Total out: "+money(s.TotalExpenses.Add(b.TotalPaid)),
		"",
		"**Net flow:** "+money(rep.CashFlow.OperationalCashFlow),
	)

	receivables := lines(
		"**Current situation:**",
		"• Total receivable: "+money(r.TotalPending),
		sprintf("• Overdue: %s (%d accounts)", money(r.TotalOverdue), r.OverdueCount),
		"• Default rate: "+pct(utils.Percent(r.TotalOverdue, r.TotalPending)),
		"",
		"**Recommendations:**",
		pick(r.TotalOverdue.LessThan(r.TotalPending.Mul(fivePercent)),
			"• Excellent receivables management!",
			"• Enforce stricter collection policies"),
		"• Consider offering a discount for upfront payment",
		"• Track the average collection period",
	)

	payables := lines(
		"**Accounts payable:**",
		sprintf("• Pending: %s (%d bills)", money(b.TotalPending), b.PendingCount),
		"• Paid in period: "+money(b.TotalPaid),
		sprintf("• Overdue: %d bills", b.OverdueBills),
		"",
		"**Strategies:**",
		"• Negotiate longer terms with suppliers",
		"• Take advantage of early payment discounts",
		"• Keep a calendar of due dates",
	)

	return &Document{
		Title:   "Cash Flow Analysis - " + rep.Period,
		Summary: "Detailed analysis of cash movement and projections",
		Sections: []Section{
			{"💧 Operational cash flow", operational},
			{"📊 Receivables", receivables},
			{"💸 Payables", payables},
		},
	}
}

func performanceInsights(rep *reports.FinancialReport) *Document {
	s, r := rep.Summary, rep.Receivables

	roi := utils.Percent(s.NetProfit, s.TotalExpenses)
	ticket := decimal.Zero
	if s.IncomeTransactionCount > 0 {
		ticket = s.TotalIncome.Div(decimal.NewFromInt(int64(s.IncomeTransactionCount)))
	}
	frequency := decimal.Zero
	if rep.Days > 0 {
		frequency = decimal.NewFromInt(int64(s.TransactionCount)).Mul(thirtyDays).Div(decimal.NewFromInt(int64(rep.Days)))
	}
	collection := utils.Percent(r.TotalReceived, r.TotalReceived.Add(r.TotalPending))

	kpis := lines(
		"**Performance indicators:**",
		"• Operating ROI: "+pct(roi),
		"• Average ticket: "+money(ticket),
		sprintf("• Transaction frequency: %.1f per month", frequency.InexactFloat64()),
		"• Collection efficiency: "+pct(collection),
		"",
		"**Benchmarks:**",
		pick(s.ProfitMargin.GreaterThan(marginTarget), "✅ Above-average performance", "⚠️ Below expected performance"),
	)

	trends := lines(
		"**Patterns found:**",
		"• Income concentration: "+pick(len(rep.Categories.Income) > 3, "Diversified", "Concentrated"),
		"• Expense control: "+pick(s.TotalExpenses.LessThan(s.TotalIncome.Mul(eightyPercent)), "Efficient", "Needs attention"),
		"• Receivables management: "+pick(
			decimal.NewFromInt(int64(r.OverdueCount)).LessThan(decimal.NewFromInt(int64(r.PendingCount)).Mul(tenPercent)),
			"Excellent", "Improve"),
		"",
		"**Opportunities:**",
		"• Automate collection processes",
		"• Run a loyalty programme",
		"• Optimise the product and service mix",
	)

	projections := lines(
		"**Next period projection:**",
		"• Projected income: "+money(s.TotalIncome.Mul(growth))+" (+10%)",
		"• Cost reduction target: "+money(s.TotalExpenses.Mul(fivePercent))+" (-5%)",
		"• Projected profit: "+money(s.TotalIncome.Mul(growth).Sub(s.TotalExpenses.Mul(costCut))),
		"",
		"**Recommended targets:**",
		"• Raise the profit margin to "+pct(s.ProfitMargin.Add(decimal.NewFromInt(5))),
		"• Bring defaults below 3%",
		"• Diversify income sources",
	)

	return &Document{
		Title:   "Performance Insights - " + rep.Period,
		Summary: "Advanced performance analysis and improvement opportunities",
		Sections: []Section{
			{"🎯 Key KPIs", kpis},
			{"🔍 Trend analysis", trends},
			{"📈 Projections and targets", projections},
		},
	}
}

func customReport(rep *reports.FinancialReport, prompt string) *Document {
	content := "Analysis of the last " + rep.Period + " focused on performance and opportunities."
	if p := strings.TrimSpace(prompt); p != "" {
		content += "\n\nRequested focus: " + p
	}
	return &Document{
		Title:    "Custom Report",
		Summary:  "Custom financial analysis",
		Sections: []Section{{"📋 Overview", content}},
	}
}
