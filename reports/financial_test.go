package reports

import (
	"context"
	"errors"
	"testing"
	"time"

	"ledger-backend/fees"
	"ledger-backend/models"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var today = time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func assertMoney(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), append([]interface{}{"want %s, got %s", want, got.String()}, msgAndArgs...)...)
}

func tx(kind models.TransactionKind, amount, category, method string, daysAgo int) models.Transaction {
	t := models.Transaction{
		Kind:          kind,
		Amount:        dec(amount),
		Category:      category,
		PaymentMethod: method,
		Date:          today.AddDate(0, 0, -daysAgo).Add(14 * time.Hour),
	}
	t.ApplyFees(fees.NewCalculator(fees.DefaultRates()))
	return t
}

func TestBuild_ScenarioF(t *testing.T) {
	ds := Dataset{Transactions: []models.Transaction{
		tx(models.KindIncome, "100", "sales", "pix", 1),
		tx(models.KindIncome, "50", "sales", "pix", 10),
		tx(models.KindExpense, "30", "rent", "pix", 20),
	}}
	rep := Build(ds, 30, today)

	assertMoney(t, "150", rep.Summary.TotalIncome)
	assertMoney(t, "30", rep.Summary.TotalExpenses)
	assertMoney(t, "120", rep.Summary.NetProfit)
	assertMoney(t, "80", rep.Summary.ProfitMargin)
	assert.Equal(t, 3, rep.Summary.TransactionCount)
	assert.Equal(t, 2, rep.Summary.IncomeTransactionCount)
	assert.Equal(t, 1, rep.Summary.ExpenseTransactionCount)
	assert.Equal(t, "30 days", rep.Period)
	assert.Equal(t, DateRange{Start: "2026-02-13", End: "2026-03-15"}, rep.DateRange)
}

func TestBuild_WindowBoundaries(t *testing.T) {
	ds := Dataset{Transactions: []models.Transaction{
		tx(models.KindIncome, "10", "a", "", 0),
		tx(models.KindIncome, "20", "a", "", 7),
		tx(models.KindIncome, "40", "a", "", 8),
		tx(models.KindIncome, "80", "a", "", -1),
	}}
	rep := Build(ds, 7, today)
	assertMoney(t, "30", rep.Summary.TotalIncome, "window is [today-7, today] inclusive")
}

func TestBuild_GrossCategoriesAndMethods(t *testing.T) {
	ds := Dataset{Transactions: []models.Transaction{
		tx(models.KindIncome, "200", "sales", "credito", 1),
		tx(models.KindIncome, "100", "", "debito", 2),
		tx(models.KindExpense, "40", "supplies", "", 3),
	}}
	rep := Build(ds, 30, today)

	assertMoney(t, "300", rep.Summary.TotalIncome, "gross, not net")
	assertMoney(t, "200", rep.Categories.Income["sales"])
	assertMoney(t, "100", rep.Categories.Income["Other"])
	assertMoney(t, "40", rep.Categories.Expenses["supplies"])

	require.Contains(t, rep.PaymentMethods, "credito")
	assert.Equal(t, 1, rep.PaymentMethods["credito"].Count)
	assertMoney(t, "200", rep.PaymentMethods["credito"].Total)
	assertMoney(t, "7", rep.PaymentMethods["credito"].Fees)
	assertMoney(t, "1.5", rep.PaymentMethods["debito"].Fees)
	assertMoney(t, "0", rep.PaymentMethods["Other"].Fees)
}

func TestBuild_ZeroIncomeMargin(t *testing.T) {
	rep := Build(Dataset{Transactions: []models.Transaction{tx(models.KindExpense, "30", "rent", "", 1)}}, 30, today)
	assertMoney(t, "0", rep.Summary.ProfitMargin)
	assertMoney(t, "-30", rep.Summary.NetProfit)
}

func TestBuild_BillsReceivablesAndCashFlow(t *testing.T) {
	ds := Dataset{
		Transactions: []models.Transaction{
			tx(models.KindIncome, "1000", "sales", "pix", 1),
			tx(models.KindExpense, "400", "rent", "pix", 1),
		},
		Bills: []models.Bill{
			{Status: models.BillPending, FinalAmount: dec("100"), DueDate: today.AddDate(0, 0, -3)},
			{Status: models.BillPending, FinalAmount: dec("50"), DueDate: today},
			{Status: models.BillPaid, FinalAmount: dec("70"), DueDate: today.AddDate(0, 0, -5)},
			{Status: models.BillCancelled, FinalAmount: dec("999"), DueDate: today.AddDate(0, 0, -5)},
			{Status: models.BillPending, FinalAmount: dec("999"), DueDate: today.AddDate(0, 0, -60)},
		},
		Receivables: []models.Receivable{
			{Status: models.ReceivableOverdue, OriginalAmount: dec("200"), RemainingAmount: dec("200"), IssueDate: today.AddDate(0, 0, -20), DueDate: today.AddDate(0, 0, -2)},
			{Status: models.ReceivablePartial, OriginalAmount: dec("100"), PaidAmount: dec("40"), RemainingAmount: dec("60"), IssueDate: today.AddDate(0, 0, -5), DueDate: today.AddDate(0, 0, 5)},
			{Status: models.ReceivablePaid, OriginalAmount: dec("30"), PaidAmount: dec("30"), IssueDate: today.AddDate(0, 0, -5), DueDate: today.AddDate(0, 0, -1)},
			{Status: models.ReceivablePending, OriginalAmount: dec("500"), RemainingAmount: dec("500"), IssueDate: today.AddDate(0, 0, -90), DueDate: today},
		},
	}
	rep := Build(ds, 30, today)

	assert.Equal(t, 2, rep.Bills.PendingCount)
	assertMoney(t, "150", rep.Bills.TotalPending)
	assert.Equal(t, 1, rep.Bills.PaidCount)
	assertMoney(t, "70", rep.Bills.TotalPaid)
	assert.Equal(t, 1, rep.Bills.OverdueBills)

	// The stored-overdue receivable only counts as overdue.
	assert.Equal(t, 1, rep.Receivables.PendingCount)
	assertMoney(t, "60", rep.Receivables.TotalPending)
	assert.Equal(t, 1, rep.Receivables.PaidCount)
	assertMoney(t, "70", rep.Receivables.TotalReceived)
	assert.Equal(t, 1, rep.Receivables.OverdueCount)
	assertMoney(t, "200", rep.Receivables.TotalOverdue)

	assertMoney(t, "600", rep.CashFlow.OperationalCashFlow)
	assertMoney(t, "60", rep.CashFlow.AccountsReceivable)
	assertMoney(t, "150", rep.CashFlow.AccountsPayable)
	assertMoney(t, "510", rep.CashFlow.NetCashPosition)
}

func TestBuild_OverdueReceivableLeavesAccountsReceivable(t *testing.T) {
	ds := Dataset{Receivables: []models.Receivable{{
		Status:          models.ReceivableOverdue,
		OriginalAmount:  dec("100"),
		RemainingAmount: dec("100"),
		IssueDate:       today.AddDate(0, 0, -10),
		DueDate:         today.AddDate(0, 0, -1),
	}}}
	rep := Build(ds, 30, today)

	assert.Equal(t, 0, rep.Receivables.PendingCount)
	assertMoney(t, "0", rep.Receivables.TotalPending)
	assert.Equal(t, 1, rep.Receivables.OverdueCount)
	assertMoney(t, "100", rep.Receivables.TotalOverdue)
	assertMoney(t, "0", rep.CashFlow.AccountsReceivable)
	assertMoney(t, "0", rep.CashFlow.NetCashPosition)
}

func TestBuild_RoundsOnlyAtTheEnd(t *testing.T) {
	ds := Dataset{Transactions: []models.Transaction{
		tx(models.KindIncome, "0.004", "a", "", 1),
		tx(models.KindIncome, "0.004", "a", "", 1),
		tx(models.KindIncome, "3", "b", "", 1),
		tx(models.KindExpense, "1", "c", "", 1),
	}}
	rep := Build(ds, 30, today)
	assertMoney(t, "3.01", rep.Summary.TotalIncome)
	// 2.008 / 3.008 * 100 = 66.755...
	assertMoney(t, "66.76", rep.Summary.ProfitMargin)
}

type stubLoader struct {
	ds     Dataset
	err    error
	window Window
	owner  string
}

func (s *stubLoader) LoadDataset(_ context.Context, ownerID string, w Window) (Dataset, error) {
	s.owner, s.window = ownerID, w
	return s.ds, s.err
}

func TestBuildFinancialReport(t *testing.T) {
	src := &stubLoader{ds: Dataset{Transactions: []models.Transaction{tx(models.KindIncome, "10", "a", "", 1)}}}
	rep, err := BuildFinancialReport(context.Background(), src, "owner-1", 7, today)
	require.NoError(t, err)
	assert.Equal(t, "owner-1", src.owner)
	assert.True(t, src.window.Start.Equal(today.AddDate(0, 0, -7)))
	assertMoney(t, "10", rep.Summary.TotalIncome)

	src.err = errors.New("db down")
	_, err = BuildFinancialReport(context.Background(), src, "owner-1", 7, today)
	assert.EqualError(t, err, "db down")
}

func TestParsePeriod(t *testing.T) {
	assert.Equal(t, Period(7), ParsePeriod("7"))
	assert.Equal(t, Period(365), ParsePeriod(" 365 "))
	assert.Equal(t, DefaultPeriod, ParsePeriod("14"))
	assert.Equal(t, DefaultPeriod, ParsePeriod(""))
}
