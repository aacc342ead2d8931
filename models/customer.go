package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type CustomerStatus string

const (
	CustomerActive   CustomerStatus = "active"
	CustomerInactive CustomerStatus = "inactive"
	CustomerBlocked  CustomerStatus = "blocked"
)

// CustomerKey identifies a customer rollup. Receivables join to customers by
// (owner, name); the name is trimmed but otherwise matched exactly.
type CustomerKey struct {
	OwnerID string
	Name    string
}

func NewCustomerKey(ownerID, name string) CustomerKey {
	return CustomerKey{OwnerID: ownerID, Name: strings.TrimSpace(name)}
}

func (k CustomerKey) Valid() bool {
	return k.OwnerID != "" && k.Name != ""
}

// Customer is a denormalized rollup over the owner's receivables for one name.
type Customer struct {
	ID       string `json:"id" gorm:"primaryKey;size:36"`
	OwnerID  string `json:"user_id" gorm:"size:36;not null;uniqueIndex:idx_customers_owner_name,priority:1"`
	Name     string `json:"name" gorm:"size:200;not null;uniqueIndex:idx_customers_owner_name,priority:2"`
	Phone    string `json:"phone" gorm:"size:20"`
	Email    string `json:"email" gorm:"size:200"`
	Address  string `json:"address"`
	Document string `json:"document" gorm:"size:20"` // CPF/CNPJ

	TotalPurchases decimal.Decimal `json:"total_purchases" gorm:"type:numeric(12,2);not null;default:0"`
	TotalPaid      decimal.Decimal `json:"total_paid" gorm:"type:numeric(12,2);not null;default:0"`
	TotalPending   decimal.Decimal `json:"total_pending" gorm:"type:numeric(12,2);not null;default:0"`

	Status      CustomerStatus  `json:"status" gorm:"size:20;not null;default:active"`
	CreditLimit decimal.Decimal `json:"credit_limit" gorm:"type:numeric(12,2);not null;default:0"`
	Notes       string          `json:"notes"`
	Tags        Tags            `json:"tags" gorm:"size:500"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Customer) BeforeCreate(tx *gorm.DB) (err error) {
	newID(&c.ID)
	if c.Status == "" {
		c.Status = CustomerActive
	}
	return
}

func (c *Customer) Key() CustomerKey {
	return NewCustomerKey(c.OwnerID, c.Name)
}

// ApplyStats recomputes the rollup from every receivable carrying this
// customer's key. Receivables for other names are ignored.
func (c *Customer) ApplyStats(receivables []Receivable) {
	key := c.Key()
	purchases, paid, pending := decimal.Zero, decimal.Zero, decimal.Zero
	for i := range receivables {
		r := &receivables[i]
		if NewCustomerKey(r.OwnerID, r.CustomerName) != key {
			continue
		}
		purchases = purchases.Add(r.OriginalAmount)
		paid = paid.Add(r.PaidAmount)
		if r.Status != ReceivableCancelled {
			pending = pending.Add(r.RemainingAmount)
		}
	}
	c.TotalPurchases = purchases
	c.TotalPaid = paid
	c.TotalPending = pending
}

// MergeContact overwrites contact fields with the non-empty values given.
func (c *Customer) MergeContact(phone, email, address string) {
	if v := strings.TrimSpace(phone); v != "" {
		c.Phone = v
	}
	if v := strings.TrimSpace(email); v != "" {
		c.Email = v
	}
	if v := strings.TrimSpace(address); v != "" {
		c.Address = v
	}
}

// ParseCustomerStatus defaults an empty status to active.
func ParseCustomerStatus(s string) (CustomerStatus, error) {
	switch st := CustomerStatus(strings.ToLower(strings.TrimSpace(s))); st {
	case "":
		return CustomerActive, nil
	case CustomerActive, CustomerInactive, CustomerBlocked:
		return st, nil
	}
	return "", NewValidationError("status", s, "must be active, inactive or blocked")
}
