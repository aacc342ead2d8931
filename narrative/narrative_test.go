package narrative

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ledger-backend/models"
	"ledger-backend/reports"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var today = time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

func sampleReport(income, expense string) *reports.FinancialReport {
	ds := reports.Dataset{Transactions: []models.Transaction{
		{Kind: models.KindIncome, Amount: decimal.RequireFromString(income), Category: "sales", PaymentMethod: "pix", Date: today},
		{Kind: models.KindExpense, Amount: decimal.RequireFromString(expense), Category: "rent", PaymentMethod: "boleto", Date: today},
	}}
	return reports.Build(ds, 30, today)
}

type fakeCompleter struct {
	reply  string
	err    error
	prompt string
}

func (f *fakeCompleter) Complete(_ context.Context, prompt string) (string, error) {
	f.prompt = prompt
	return f.reply, f.err
}

func TestTemplate_SectionCounts(t *testing.T) {
	author := NewTemplateAuthor()
	rep := sampleReport("150", "30")
	want := map[Kind]int{FinancialSummary: 5, CashFlowAnalysis: 3, PerformanceInsights: 3, Custom: 1}
	for kind, n := range want {
		doc := author.Write(context.Background(), Request{Report: rep, Kind: kind})
		assert.Len(t, doc.Sections, n, kind)
		assert.Equal(t, "30 days", doc.Period)
		assert.NotEmpty(t, doc.Title)
		assert.False(t, doc.GeneratedAt.IsZero())
	}
}

func TestTemplate_ProfitWording(t *testing.T) {
	author := NewTemplateAuthor()

	good := author.Write(context.Background(), Request{Report: sampleReport("150", "30"), Kind: FinancialSummary})
	exec := good.Sections[0].Content
	assert.Contains(t, exec, "was positive")
	assert.Contains(t, exec, "R$ 150.00")
	assert.Contains(t, exec, "R$ 120.00")
	assert.Contains(t, exec, "80.0%")
	assert.Contains(t, exec, "Congratulations")

	bad := author.Write(context.Background(), Request{Report: sampleReport("30", "150"), Kind: FinancialSummary})
	assert.Contains(t, bad.Sections[0].Content, "needs attention")
	assert.Contains(t, bad.Sections[0].Content, "Warning")
	assert.Contains(t, bad.Sections[4].Content, "Review expenses")
}

func TestTemplate_PerformanceBenchmarks(t *testing.T) {
	author := NewTemplateAuthor()
	doc := author.Write(context.Background(), Request{Report: sampleReport("150", "30"), Kind: PerformanceInsights})
	assert.Contains(t, doc.Sections[0].Content, "Above-average")
	assert.Contains(t, doc.Sections[1].Content, "Expense control: Efficient")
	// 150 * 1.1 - 30 * 0.95
	assert.Contains(t, doc.Sections[2].Content, "Projected profit: R$ 136.50")
}

func TestTemplate_CustomPrompt(t *testing.T) {
	doc := NewTemplateAuthor().Write(context.Background(), Request{Report: sampleReport("1", "1"), Kind: Custom, CustomPrompt: "seasonality"})
	assert.Contains(t, doc.Sections[0].Content, "Requested focus: seasonality")
}

func TestGenerative_UsesJSONReply(t *testing.T) {
	fc := &fakeCompleter{reply: "```json\n{\"title\":\"Q1\",\"summary\":\"ok\",\"sections\":[{\"title\":\"A\",\"content\":\"b\"}]}\n```"}
	author := New(fc)
	require.True(t, author.Generative())

	doc := author.Write(context.Background(), Request{Report: sampleReport("150", "30"), Kind: CashFlowAnalysis})
	assert.Equal(t, "Q1", doc.Title)
	assert.Equal(t, []Section{{Title: "A", Content: "b"}}, doc.Sections)
	assert.Equal(t, "30 days", doc.Period)

	assert.Contains(t, fc.prompt, "Cash flow analysis")
	assert.Contains(t, fc.prompt, "Total income: R$ 150.00")
	assert.Contains(t, fc.prompt, "RESPONSE FORMAT")
}

func TestGenerative_WrapsPlainText(t *testing.T) {
	fc := &fakeCompleter{reply: "  Sales are up, keep going.  "}
	doc := New(fc).Write(context.Background(), Request{Report: sampleReport("150", "30"), Kind: FinancialSummary})
	require.Len(t, doc.Sections, 1)
	assert.Equal(t, "Sales are up, keep going.", doc.Sections[0].Content)
}

func TestGenerative_FallsBackToTemplate(t *testing.T) {
	for name, fc := range map[string]*fakeCompleter{
		"error":    {err: errors.New("rate limited")},
		"bad json": {reply: "{not json}"},
	} {
		t.Run(name, func(t *testing.T) {
			doc := New(fc).Write(context.Background(), Request{Report: sampleReport("150", "30"), Kind: FinancialSummary})
			assert.Len(t, doc.Sections, 5)
			assert.Equal(t, "Financial Report - 30 days", doc.Title)
		})
	}
}

func TestGenerative_CustomBrief(t *testing.T) {
	fc := &fakeCompleter{reply: "text"}
	New(fc).Write(context.Background(), Request{Report: sampleReport("1", "1"), Kind: Custom, CustomPrompt: "Compare weekdays"})
	assert.Contains(t, fc.prompt, "Compare weekdays")
}

func TestNew_TemplateWhenNoCompleter(t *testing.T) {
	assert.False(t, New(nil).Generative())
	assert.Nil(t, NewOpenAICompleter("", "", ""))
}

func TestParseKind(t *testing.T) {
	k, err := ParseKind("")
	require.NoError(t, err)
	assert.Equal(t, FinancialSummary, k)

	k, err = ParseKind("performance_insights")
	require.NoError(t, err)
	assert.Equal(t, PerformanceInsights, k)

	_, err = ParseKind("horoscope")
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestOpenAICompleter(t *testing.T) {
	var got struct {
		Model    string `json:"model"`
		Messages []struct {
			Content string `json:"content"`
		} `json:"messages"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/chat/completions"))
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"c1","object":"chat.completion","created":1,"model":"gpt-4o-mini",
			"choices":[{"index":0,"message":{"role":"assistant","content":"hello"},"finish_reason":"stop"}]}`))
	}))
	defer srv.Close()

	c := NewOpenAICompleter("test-key", srv.URL+"/v1", "")
	require.NotNil(t, c)
	out, err := c.Complete(context.Background(), "ping")
	require.NoError(t, err)
	assert.Equal(t, "hello", out)
	assert.Equal(t, "gpt-4o-mini", got.Model)
	require.Len(t, got.Messages, 1)
	assert.Equal(t, "ping", got.Messages[0].Content)
}
