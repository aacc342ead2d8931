package models

import (
	"time"

	"ledger-backend/utils"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type BillStatus string

const (
	BillPending   BillStatus = "pending"
	BillPaid      BillStatus = "paid"
	BillOverdue   BillStatus = "overdue" // read-time view only, see EffectiveStatus
	BillCancelled BillStatus = "cancelled"
)

// Bill is money the business owes to a third party.
type Bill struct {
	ID      string `json:"id" gorm:"primaryKey;size:36"`
	OwnerID string `json:"user_id" gorm:"size:36;not null;index:idx_bills_owner_due,priority:1"`

	Barcode  string `json:"barcode" gorm:"size:48"`
	LineCode string `json:"line_code" gorm:"size:48"`
	Title    string `json:"title" gorm:"size:200;not null"`
	Company  string `json:"company" gorm:"size:200"`
	Category string `json:"category" gorm:"size:100;not null;index"`

	OriginalAmount decimal.Decimal `json:"original_amount" gorm:"type:numeric(12,2);not null"`
	DiscountAmount decimal.Decimal `json:"discount_amount" gorm:"type:numeric(12,2);not null;default:0"`
	InterestAmount decimal.Decimal `json:"interest_amount" gorm:"type:numeric(12,2);not null;default:0"`
	FinalAmount    decimal.Decimal `json:"final_amount" gorm:"type:numeric(12,2);not null"`

	DueDate     time.Time  `json:"due_date" gorm:"type:date;not null;index:idx_bills_owner_due,priority:2"`
	PaymentDate *time.Time `json:"payment_date" gorm:"type:date"`

	Status        BillStatus      `json:"status" gorm:"size:20;not null;default:pending;index"`
	PaymentMethod string          `json:"payment_method" gorm:"size:50"`
	PaymentFee    decimal.Decimal `json:"payment_fee" gorm:"type:numeric(12,2);not null;default:0"`

	Notes      string    `json:"notes"`
	ReceiptURL string    `json:"receipt_url" gorm:"size:500"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func (b *Bill) BeforeCreate(tx *gorm.DB) (err error) {
	newID(&b.ID)
	if b.Status == "" {
		b.Status = BillPending
	}
	return
}

// CalculateFinalAmount sets final = original - discount + interest. No clamping: a discount larger
// than the rest legitimately yields a negative final amount.
func (b *Bill) CalculateFinalAmount() decimal.Decimal {
	b.FinalAmount = b.OriginalAmount.Sub(b.DiscountAmount).Add(b.InterestAmount)
	return b.FinalAmount
}

// MarkAsPaid moves the bill to paid. It is one-way.
func (b *Bill) MarkAsPaid(method string, fee decimal.Decimal, today time.Time) error {
	if b.Status == BillPaid {
		return ErrAlreadyPaid
	}
	paidOn := utils.DateOnly(today)
	b.Status = BillPaid
	b.PaymentDate = &paidOn
	b.PaymentMethod = method
	b.PaymentFee = fee
	return nil
}

func (b *Bill) IsOverdue(today time.Time) bool {
	if b.Status == BillPaid {
		return false
	}
	return utils.DateOnly(b.DueDate).Before(utils.DateOnly(today))
}

func (b *Bill) DaysUntilDue(today time.Time) int {
	if b.Status == BillPaid {
		return 0
	}
	return utils.DaysBetween(today, b.DueDate)
}

// EffectiveStatus is the status as seen on read: overdue is derived, never stored.
func (b *Bill) EffectiveStatus(today time.Time) BillStatus {
	if b.IsOverdue(today) {
		return BillOverdue
	}
	return b.Status
}

// Validate checks required fields and non-negative operands.
func (b *Bill) Validate() error {
	if b.Title == "" {
		return NewValidationError("title", nil, "is required")
	}
	if b.Category == "" {
		return NewValidationError("category", nil, "is required")
	}
	if b.DueDate.IsZero() {
		return NewValidationError("due_date", nil, "is required")
	}
	operands := []struct {
		field string
		value decimal.Decimal
	}{
		{"original_amount", b.OriginalAmount},
		{"discount_amount", b.DiscountAmount},
		{"interest_amount", b.InterestAmount},
	}
	for _, op := range operands {
		if op.value.IsNegative() {
			return NewValidationError(op.field, op.value, "must not be negative")
		}
	}
	return nil
}

// BillView is a bill plus its read-time fields.
type BillView struct {
	Bill
	IsOverdue    bool `json:"is_overdue"`
	DaysUntilDue int  `json:"days_until_due"`
}

func (b *Bill) View(today time.Time) BillView {
	return BillView{
		Bill:         *b,
		IsOverdue:    b.IsOverdue(today),
		DaysUntilDue: b.DaysUntilDue(today),
	}
}
