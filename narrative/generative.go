package narrative

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"ledger-backend/logger"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// Completer turns a prompt into free text.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

var errNoJSON = errors.New("no JSON object in completion")

// GenerativeAuthor asks a Completer for the document and falls back to the
// templates whenever the completion fails or cannot be decoded.
type GenerativeAuthor struct {
	completer Completer
	fallback  *TemplateAuthor
	log       zerolog.Logger
}

func NewGenerativeAuthor(c Completer) *GenerativeAuthor {
	return &GenerativeAuthor{
		completer: c,
		fallback:  NewTemplateAuthor(),
		log:       logger.WithComponent("narrative"),
	}
}

func (a *GenerativeAuthor) Generative() bool { return true }

func (a *GenerativeAuthor) Write(ctx context.Context, req Request) *Document {
	text, err := a.completer.Complete(ctx, Prompt(req))
	if err != nil {
		a.log.Warn().Err(err).Str("report_type", string(req.Kind)).Msg("completion failed, using template")
		return a.fallback.Write(ctx, req)
	}

	doc, err := parseCompletion(text)
	switch {
	case errors.Is(err, errNoJSON):
		doc = &Document{
			Title:    "Financial Report - " + req.Report.Period,
			Summary:  "AI-generated report based on your financial data",
			Sections: []Section{{Title: "🤖 AI analysis", Content: strings.TrimSpace(text)}},
		}
	case err != nil:
		a.log.Warn().Err(err).Str("report_type", string(req.Kind)).Msg("unreadable completion, using template")
		return a.fallback.Write(ctx, req)
	}
	doc.GeneratedAt = a.fallback.now()
	doc.Period = req.Report.Period
	return doc
}

// parseCompletion decodes the span from the first '{' to the last '}'.
func parseCompletion(text string) (*Document, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil, errNoJSON
	}
	var raw struct {
		Title    string    `json:"title"`
		Summary  string    `json:"summary"`
		Sections []Section `json:"sections"`
	}
	if err := json.Unmarshal([]byte(text[start:end+1]), &raw); err != nil {
		return nil, fmt.Errorf("decode completion: %w", err)
	}
	return &Document{Title: raw.Title, Summary: raw.Summary, Sections: raw.Sections}, nil
}

var kindBriefs = map[Kind]string{
	FinancialSummary: `REPORT TYPE: Executive financial summary

Produce a structured report with these sections:
1. Executive summary (overall situation, key indicators)
2. Performance analysis (income, expenses, profitability)
3. Cash flow (in, out, net position)
4. Category analysis (main income sources and expenses)
5. Strategic recommendations (immediate actions and planning)

Use professional but accessible language. Include practical insights and specific recommendations.`,
	CashFlowAnalysis: `REPORT TYPE: Cash flow analysis

Focus on:
1. Operational cash flow (in and out)
2. Receivables (terms, defaults, opportunities)
3. Payables (bills, payment strategies)
4. Cash projections (trends and forecasts)
5. Financial management recommendations

Emphasise the financial health and liquidity of the business.`,
	PerformanceInsights: `REPORT TYPE: Performance insights

Analyse:
1. KPIs and performance indicators
2. Benchmarks and comparisons
3. Trends and patterns
4. Optimisation opportunities
5. Targets and projections

Provide advanced insights and strategic recommendations for growth.`,
}

const responseFormat = `

RESPONSE FORMAT:
Return JSON with this structure:
{
    "title": "Report title",
    "summary": "One-sentence summary",
    "sections": [
        {
            "title": "Section title",
            "content": "Detailed section content with insights and recommendations"
        }
    ]
}

Use fitting emojis in section titles. Be specific, practical and results-oriented.`

// Prompt renders the report figures and the brief for the requested kind.
func Prompt(req Request) string {
	rep := req.Report
	s, b, r := rep.Summary, rep.Bills, rep.Receivables

	var sb strings.Builder
	sb.WriteString("You are a financial consultant for small and medium Brazilian businesses.\n")
	sb.WriteString("Analyse the financial data below and write a detailed, professional report.\n\n")
	sb.WriteString(sprintf("FINANCIAL DATA (%s):\n", rep.Period))
	sb.WriteString(sprintf("- Period: %s to %s\n", rep.DateRange.Start, rep.DateRange.End))
	sb.WriteString("- Total income: " + money(s.TotalIncome) + "\n")
	sb.WriteString("- Total expenses: " + money(s.TotalExpenses) + "\n")
	sb.WriteString("- Net profit: " + money(s.NetProfit) + "\n")
	sb.WriteString("- Profit margin: " + pct(s.ProfitMargin) + "\n")
	sb.WriteString(sprintf("- Transactions: %d\n\n", s.TransactionCount))

	sb.WriteString("ACCOUNTS PAYABLE:\n")
	sb.WriteString(sprintf("- Pending: %s (%d bills)\n", money(b.TotalPending), b.PendingCount))
	sb.WriteString(sprintf("- Paid: %s (%d bills)\n\n", money(b.TotalPaid), b.PaidCount))

	sb.WriteString("ACCOUNTS RECEIVABLE:\n")
	sb.WriteString(sprintf("- Pending: %s (%d accounts)\n", money(r.TotalPending), r.PendingCount))
	sb.WriteString(sprintf("- Received: %s (%d accounts)\n", money(r.TotalReceived), r.PaidCount))
	sb.WriteString(sprintf("- Overdue: %s (%d accounts)\n\n", money(r.TotalOverdue), r.OverdueCount))

	writeCategory(&sb, "INCOME BY CATEGORY:", rep.Categories.Income)
	writeCategory(&sb, "EXPENSES BY CATEGORY:", rep.Categories.Expenses)

	sb.WriteString("PAYMENT METHODS:\n")
	names := make([]string, 0, len(rep.PaymentMethods))
	for name := range rep.PaymentMethods {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		m := rep.PaymentMethods[name]
		sb.WriteString(sprintf("- %s: %s (%d transactions, %s in fees)\n", name, money(m.Total), m.Count, money(m.Fees)))
	}
	sb.WriteString("\n")

	brief, ok := kindBriefs[req.Kind]
	if !ok {
		brief = strings.TrimSpace(req.CustomPrompt)
		if brief == "" {
			brief = "Write a comprehensive financial report with insights and recommendations."
		}
	}
	sb.WriteString(brief)
	sb.WriteString(responseFormat)
	return sb.String()
}

func writeCategory(sb *strings.Builder, heading string, m map[string]decimal.Decimal) {
	sb.WriteString(heading + "\n")
	for _, e := range topN(m, len(m)) {
		sb.WriteString("- " + e.label + ": " + money(e.value) + "\n")
	}
	sb.WriteString("\n")
}
