package models

import (
	"errors"
	"strings"
	"time"

	"ledger-backend/utils"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ReceivableType string

const (
	ReceivableFiado          ReceivableType = "fiado"
	ReceivableMachineReceipt ReceivableType = "machine_receipt"
	ReceivableInvoice        ReceivableType = "invoice"
	ReceivableOther          ReceivableType = "other"
)

// ParseReceivableType defaults an empty type to fiado.
func ParseReceivableType(s string) (ReceivableType, error) {
	switch t := ReceivableType(strings.ToLower(strings.TrimSpace(s))); t {
	case "":
		return ReceivableFiado, nil
	case ReceivableFiado, ReceivableMachineReceipt, ReceivableInvoice, ReceivableOther:
		return t, nil
	}
	return "", NewValidationError("type", s, "must be fiado, machine_receipt, invoice or other")
}

type ReceivableStatus string

const (
	ReceivablePending   ReceivableStatus = "pending"
	ReceivablePartial   ReceivableStatus = "partial"
	ReceivablePaid      ReceivableStatus = "paid"
	ReceivableOverdue   ReceivableStatus = "overdue"
	ReceivableCancelled ReceivableStatus = "cancelled"
)

var hundred = decimal.NewFromInt(100)
var daysPerMonth = decimal.NewFromInt(30)

// Receivable is money a customer owes the business. Status, PaidAmount and
// RemainingAmount are only ever written by UpdateRemainingAmount.
type Receivable struct {
	ID      string `json:"id" gorm:"primaryKey;size:36"`
	OwnerID string `json:"user_id" gorm:"size:36;not null;index:idx_receivables_owner_customer,priority:1"`

	CustomerName    string `json:"customer_name" gorm:"size:200;not null;index:idx_receivables_owner_customer,priority:2"`
	CustomerPhone   string `json:"customer_phone" gorm:"size:20"`
	CustomerEmail   string `json:"customer_email" gorm:"size:200"`
	CustomerAddress string `json:"customer_address"`

	Type            ReceivableType `json:"type" gorm:"size:50;not null;index"`
	Description     string         `json:"description" gorm:"size:500;not null"`
	ReferenceNumber string         `json:"reference_number" gorm:"size:100"`

	OriginalAmount  decimal.Decimal `json:"original_amount" gorm:"type:numeric(12,2);not null"`
	PaidAmount      decimal.Decimal `json:"paid_amount" gorm:"type:numeric(12,2);not null;default:0"`
	RemainingAmount decimal.Decimal `json:"remaining_amount" gorm:"type:numeric(12,2);not null"`
	InterestRate    decimal.Decimal `json:"interest_rate" gorm:"type:numeric(5,2);not null;default:0"` // monthly, percent
	LateFee         decimal.Decimal `json:"late_fee" gorm:"type:numeric(12,2);not null;default:0"`

	IssueDate       time.Time  `json:"issue_date" gorm:"type:date;not null;index"`
	DueDate         time.Time  `json:"due_date" gorm:"type:date;not null;index"`
	LastPaymentDate *time.Time `json:"last_payment_date" gorm:"type:date"`

	Status       ReceivableStatus `json:"status" gorm:"size:20;not null;default:pending;index"`
	PaymentTerms string           `json:"payment_terms" gorm:"size:200"`

	Notes string `json:"notes"`
	Tags  Tags   `json:"tags" gorm:"size:500"`

	MachineID       string `json:"machine_id" gorm:"size:100"`
	MachineLocation string `json:"machine_location" gorm:"size:200"`

	Payments []Payment `json:"payments" gorm:"foreignKey:ReceivableID;constraint:OnDelete:CASCADE"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (r *Receivable) BeforeCreate(tx *gorm.DB) (err error) {
	newID(&r.ID)
	return
}

// Validate checks required fields and amount ranges.
func (r *Receivable) Validate() error {
	if strings.TrimSpace(r.CustomerName) == "" {
		return NewValidationError("customer_name", nil, "is required")
	}
	if strings.TrimSpace(r.Description) == "" {
		return NewValidationError("description", nil, "is required")
	}
	if r.DueDate.IsZero() {
		return NewValidationError("due_date", nil, "is required")
	}
	if r.OriginalAmount.IsNegative() {
		return NewValidationError("original_amount", r.OriginalAmount, "must not be negative")
	}
	if r.InterestRate.IsNegative() {
		return NewValidationError("interest_rate", r.InterestRate, "must not be negative")
	}
	if r.LateFee.IsNegative() {
		return NewValidationError("late_fee", r.LateFee, "must not be negative")
	}
	return nil
}

func (r *Receivable) totalPaid() decimal.Decimal {
	paid := decimal.Zero
	for _, p := range r.Payments {
		paid = paid.Add(p.Amount)
	}
	return paid
}

// UpdateRemainingAmount recomputes paid and remaining from the payment set and
// derives status with precedence paid > partial > overdue > pending. A
// cancelled receivable keeps its status; only the amounts are refreshed.
func (r *Receivable) UpdateRemainingAmount(today time.Time) {
	paid := r.totalPaid()
	remaining := r.OriginalAmount.Sub(paid)
	if !remaining.IsPositive() {
		remaining = decimal.Zero
	}
	r.PaidAmount = paid
	r.RemainingAmount = remaining

	if r.Status == ReceivableCancelled {
		return
	}
	switch {
	case !remaining.IsPositive():
		r.Status = ReceivablePaid
	case paid.IsPositive():
		r.Status = ReceivablePartial
	case utils.DateOnly(r.DueDate).Before(utils.DateOnly(today)):
		r.Status = ReceivableOverdue
	default:
		r.Status = ReceivablePending
	}
}

// AddPayment records a payment and recomputes the receivable. On error the
// receivable is left exactly as it was.
func (r *Receivable) AddPayment(amount decimal.Decimal, method, notes string, today time.Time) (*Payment, error) {
	if r.Status == ReceivableCancelled {
		return nil, NewValidationError("status", r.Status, "receivable is cancelled")
	}
	if !amount.IsPositive() {
		return nil, ErrInvalidAmount
	}
	outstanding := r.OriginalAmount.Sub(r.totalPaid())
	if r.Status == ReceivablePaid || !outstanding.IsPositive() {
		return nil, ErrAlreadyFullyPaid
	}
	if amount.GreaterThan(outstanding) {
		return nil, ErrOverpayment
	}

	day := utils.DateOnly(today)
	r.Payments = append(r.Payments, Payment{
		ReceivableID:  r.ID,
		Amount:        amount,
		PaymentMethod: method,
		PaymentDate:   day,
		Notes:         notes,
	})
	r.LastPaymentDate = &day
	r.UpdateRemainingAmount(today)
	return &r.Payments[len(r.Payments)-1], nil
}

// Cancel writes off an unpaid receivable.
func (r *Receivable) Cancel() error {
	switch r.Status {
	case ReceivablePaid:
		return ErrAlreadyFullyPaid
	case ReceivableCancelled:
		return NewValidationError("status", r.Status, "receivable is already cancelled")
	}
	r.Status = ReceivableCancelled
	return nil
}

func (r *Receivable) settled() bool {
	return r.Status == ReceivablePaid || r.Status == ReceivableCancelled
}

func (r *Receivable) IsOverdue(today time.Time) bool {
	if r.settled() {
		return false
	}
	return utils.DateOnly(r.DueDate).Before(utils.DateOnly(today))
}

func (r *Receivable) DaysOverdue(today time.Time) int {
	if !r.IsOverdue(today) {
		return 0
	}
	return utils.DaysBetween(r.DueDate, today)
}

func (r *Receivable) DaysUntilDue(today time.Time) int {
	if r.settled() {
		return 0
	}
	return utils.DaysBetween(today, r.DueDate)
}

// CalculateTotalWithFees projects what the customer owes today: simple daily
// interest on the remaining balance while overdue, plus the flat late fee.
// Nothing is persisted.
func (r *Receivable) CalculateTotalWithFees(today time.Time) decimal.Decimal {
	total := r.RemainingAmount
	if r.IsOverdue(today) && r.InterestRate.IsPositive() {
		daily := r.InterestRate.Div(hundred).Div(daysPerMonth)
		interest := total.Mul(daily).Mul(decimal.NewFromInt(int64(r.DaysOverdue(today))))
		total = total.Add(interest)
	}
	return total.Add(r.LateFee).Round(2)
}

// ReceivableView is a receivable plus its read-time projections.
type ReceivableView struct {
	Receivable
	IsOverdue     bool            `json:"is_overdue"`
	DaysOverdue   int             `json:"days_overdue"`
	DaysUntilDue  int             `json:"days_until_due"`
	TotalWithFees decimal.Decimal `json:"total_with_fees"`
}

func (r *Receivable) View(today time.Time) ReceivableView {
	return ReceivableView{
		Receivable:    *r,
		IsOverdue:     r.IsOverdue(today),
		DaysOverdue:   r.DaysOverdue(today),
		DaysUntilDue:  r.DaysUntilDue(today),
		TotalWithFees: r.CalculateTotalWithFees(today),
	}
}

var errPaymentImmutable = errors.New("payments are immutable")

// Payment is one installment against a receivable. It is never updated and
// only disappears with its parent.
type Payment struct {
	ID            string          `json:"id" gorm:"primaryKey;size:36"`
	ReceivableID  string          `json:"receivable_id" gorm:"size:36;not null;index:idx_payments_receivable_date,priority:1"`
	Amount        decimal.Decimal `json:"amount" gorm:"type:numeric(12,2);not null"`
	PaymentMethod string          `json:"payment_method" gorm:"size:50;not null"`
	PaymentDate   time.Time       `json:"payment_date" gorm:"type:date;not null;index:idx_payments_receivable_date,priority:2"`
	Notes         string          `json:"notes"`
	ReceiptNumber string          `json:"receipt_number" gorm:"size:100"`
	CreatedAt     time.Time       `json:"created_at"`
}

func (Payment) TableName() string {
	return "receivable_payments"
}

func (p *Payment) BeforeCreate(tx *gorm.DB) (err error) {
	newID(&p.ID)
	return
}

func (p *Payment) BeforeUpdate(tx *gorm.DB) (err error) {
	return errPaymentImmutable
}
