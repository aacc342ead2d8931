// Package narrative turns a financial report into a titled, sectioned
// document, either from fixed templates or from a text-generation backend.
package narrative

import (
	"context"
	"strings"
	"time"

	"ledger-backend/models"
	"ledger-backend/reports"
)

type Kind string

const (
	FinancialSummary    Kind = "financial_summary"
	CashFlowAnalysis    Kind = "cash_flow_analysis"
	PerformanceInsights Kind = "performance_insights"
	Custom              Kind = "custom"
)

type KindInfo struct {
	ID          Kind   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// Kinds is the catalogue served to clients, in display order.
var Kinds = []KindInfo{
	{FinancialSummary, "Financial summary", "Executive overview of financial performance", "📊"},
	{CashFlowAnalysis, "Cash flow analysis", "Detailed look at money coming in and going out", "💰"},
	{PerformanceInsights, "Performance insights", "KPIs and improvement opportunities", "🎯"},
	{Custom, "Custom report", "Report shaped by your own prompt", "🔧"},
}

// ParseKind defaults an empty kind to a financial summary.
func ParseKind(s string) (Kind, error) {
	k := Kind(strings.TrimSpace(s))
	if k == "" {
		return FinancialSummary, nil
	}
	for _, info := range Kinds {
		if info.ID == k {
			return k, nil
		}
	}
	return "", models.NewValidationError("report_type", s, "invalid report type")
}

type Section struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

type Document struct {
	Title       string    `json:"title"`
	Summary     string    `json:"summary"`
	Sections    []Section `json:"sections"`
	GeneratedAt time.Time `json:"generated_at"`
	Period      string    `json:"period"`
}

type Request struct {
	Report       *reports.FinancialReport
	Kind         Kind
	CustomPrompt string
}

// Author writes a document for a report. Write never fails; Generative
// reports whether a text-generation backend is configured.
type Author interface {
	Write(ctx context.Context, req Request) *Document
	Generative() bool
}

// New picks the generative author when a completer is available and the
// template author otherwise.
func New(c Completer) Author {
	if c == nil {
		return NewTemplateAuthor()
	}
	return NewGenerativeAuthor(c)
}
