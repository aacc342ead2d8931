package models

import (
	"strings"
	"time"

	"ledger-backend/fees"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type TransactionKind string

const (
	KindIncome  TransactionKind = "income"
	KindExpense TransactionKind = "expense"
)

// ParseTransactionKind accepts "income" or "expense" in any case.
func ParseTransactionKind(s string) (TransactionKind, error) {
	switch k := TransactionKind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindIncome, KindExpense:
		return k, nil
	}
	return "", NewValidationError("type", s, "must be income or expense")
}

type Transaction struct {
	ID            string          `json:"id" gorm:"primaryKey;size:36"`
	OwnerID       string          `json:"user_id" gorm:"size:36;not null;index:idx_transactions_owner_date,priority:1"`
	Kind          TransactionKind `json:"type" gorm:"column:type;size:20;not null"`
	Amount        decimal.Decimal `json:"amount" gorm:"type:numeric(12,2);not null"`
	Description   string          `json:"description" gorm:"size:255;not null"`
	Category      string          `json:"category" gorm:"size:100;not null;index"`
	PaymentMethod string          `json:"payment_method" gorm:"size:50"`
	FeeAmount     decimal.Decimal `json:"card_fee" gorm:"type:numeric(12,2);not null;default:0"`
	NetAmount     decimal.Decimal `json:"net_amount" gorm:"type:numeric(12,2);not null"`
	Date          time.Time       `json:"date" gorm:"not null;index:idx_transactions_owner_date,priority:2"`
	Notes         string          `json:"notes"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func (t *Transaction) BeforeCreate(tx *gorm.DB) (err error) {
	newID(&t.ID)
	return
}

// ApplyFees derives FeeAmount and NetAmount from Amount and PaymentMethod.
// The fee is rounded to cents because it is persisted; net is exact against that fee.
func (t *Transaction) ApplyFees(calc *fees.Calculator) {
	fee, _ := calc.Compute(t.Amount, t.PaymentMethod)
	t.FeeAmount = fee.Round(2)
	t.NetAmount = t.Amount.Sub(t.FeeAmount)
}

// Validate checks the fields a transaction cannot exist without.
func (t *Transaction) Validate() error {
	if _, err := ParseTransactionKind(string(t.Kind)); err != nil {
		return err
	}
	if t.Amount.IsNegative() {
		return NewValidationError("amount", t.Amount, "must not be negative")
	}
	if strings.TrimSpace(t.Description) == "" {
		return NewValidationError("description", nil, "is required")
	}
	if strings.TrimSpace(t.Category) == "" {
		return NewValidationError("category", nil, "is required")
	}
	return nil
}
