package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCustomer_ApplyStats(t *testing.T) {
	c := Customer{OwnerID: "o1", Name: "Maria"}
	rs := []Receivable{
		{OwnerID: "o1", CustomerName: "Maria", OriginalAmount: dec("100"), PaidAmount: dec("40"), RemainingAmount: dec("60"), Status: ReceivablePartial},
		{OwnerID: "o1", CustomerName: " Maria ", OriginalAmount: dec("50"), PaidAmount: dec("50"), RemainingAmount: dec("0"), Status: ReceivablePaid},
		{OwnerID: "o1", CustomerName: "Maria", OriginalAmount: dec("30"), PaidAmount: dec("0"), RemainingAmount: dec("30"), Status: ReceivableCancelled},
		{OwnerID: "o1", CustomerName: "João", OriginalAmount: dec("999"), RemainingAmount: dec("999"), Status: ReceivablePending},
		{OwnerID: "o2", CustomerName: "Maria", OriginalAmount: dec("999"), RemainingAmount: dec("999"), Status: ReceivablePending},
	}
	c.ApplyStats(rs)
	assertMoney(t, "180", c.TotalPurchases)
	assertMoney(t, "90", c.TotalPaid)
	assertMoney(t, "60", c.TotalPending, "cancelled receivables are not pending")

	// full recompute, not incremental
	c.ApplyStats(rs[:1])
	assertMoney(t, "100", c.TotalPurchases)
	assertMoney(t, "40", c.TotalPaid)
	assertMoney(t, "60", c.TotalPending)
}

func TestCustomer_MergeContact(t *testing.T) {
	c := Customer{Phone: "111", Email: "a@b.c"}
	c.MergeContact("", "new@b.c", "  Rua 1 ")
	assert.Equal(t, "111", c.Phone)
	assert.Equal(t, "new@b.c", c.Email)
	assert.Equal(t, "Rua 1", c.Address)
}

func TestTags(t *testing.T) {
	tags := NewTags("vip", " weekly ", "", "vip", "a,b")
	assert.Equal(t, Tags{"vip", "weekly", "a b"}, tags)
	assert.True(t, tags.Has("weekly"))

	v, err := tags.Value()
	assert.NoError(t, err)
	assert.Equal(t, "vip,weekly,a b", v)

	var back Tags
	assert.NoError(t, back.Scan("vip,weekly,a b"))
	assert.Equal(t, tags, back)

	assert.NoError(t, back.Scan(nil))
	assert.Empty(t, back)

	v, err = Tags{}.Value()
	assert.NoError(t, err)
	assert.Nil(t, v)
}
