package models

import (
	"testing"
	"time"

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

func TestBill_ScenarioE(t *testing.T) {
	b := Bill{
		Title:          "Energy",
		Category:       "utilities",
		OriginalAmount: dec("200"),
		DiscountAmount: dec("20"),
		InterestAmount: dec("5"),
		DueDate:        today.AddDate(0, 0, 3),
		Status:         BillPending,
	}
	assertMoney(t, "185", b.CalculateFinalAmount())
	assertMoney(t, "185", b.FinalAmount)

	require.NoError(t, b.MarkAsPaid("pix", decimal.Zero, today))
	assert.Equal(t, BillPaid, b.Status)
	assertMoney(t, "0", b.PaymentFee)
	assert.Equal(t, "pix", b.PaymentMethod)
	require.NotNil(t, b.PaymentDate)
	assert.True(t, b.PaymentDate.Equal(today))

	err := b.MarkAsPaid("credito", dec("3"), today.AddDate(0, 0, 1))
	assert.ErrorIs(t, err, ErrAlreadyPaid)
	assert.Equal(t, "pix", b.PaymentMethod, "second payment must not mutate the bill")
	assert.True(t, b.PaymentDate.Equal(today))
}

func TestBill_FinalAmountFollowsEveryEdit(t *testing.T) {
	b := Bill{OriginalAmount: dec("100")}
	edits := []func(){
		func() { b.DiscountAmount = dec("10") },
		func() { b.InterestAmount = dec("2.5") },
		func() { b.OriginalAmount = dec("80") },
		func() { b.DiscountAmount = dec("95") },
	}
	for _, edit := range edits {
		edit()
		b.CalculateFinalAmount()
		assert.True(t, b.OriginalAmount.Sub(b.DiscountAmount).Add(b.InterestAmount).Equal(b.FinalAmount))
	}
	assertMoney(t, "-12.5", b.FinalAmount, "negative finals are kept as-is")
}

func TestBill_OverdueIsDerived(t *testing.T) {
	b := Bill{Status: BillPending, DueDate: today.AddDate(0, 0, -2)}
	assert.True(t, b.IsOverdue(today))
	assert.Equal(t, BillOverdue, b.EffectiveStatus(today))
	assert.Equal(t, BillPending, b.Status, "overdue is never stored")
	assert.Equal(t, -2, b.DaysUntilDue(today))

	b.DueDate = today
	assert.False(t, b.IsOverdue(today), "due today is not overdue")
	assert.Equal(t, 0, b.DaysUntilDue(today))

	b.DueDate = today.AddDate(0, 0, 10)
	assert.Equal(t, 10, b.DaysUntilDue(today))

	b.DueDate = today.AddDate(0, 0, -30)
	require.NoError(t, b.MarkAsPaid("pix", decimal.Zero, today))
	assert.False(t, b.IsOverdue(today))
	assert.Equal(t, 0, b.DaysUntilDue(today))
	assert.Equal(t, BillPaid, b.EffectiveStatus(today))
}

func TestBill_Validate(t *testing.T) {
	b := Bill{Title: "Rent", Category: "housing", DueDate: today, OriginalAmount: dec("10")}
	require.NoError(t, b.Validate())

	b.DiscountAmount = dec("-1")
	err := b.Validate()
	assert.ErrorIs(t, err, ErrValidation)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "discount_amount", ve.Field)

	assert.ErrorIs(t, (&Bill{Category: "x", DueDate: today}).Validate(), ErrValidation)
}
