package database

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"ledger-backend/models"
	"ledger-backend/utils"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Owned scopes a query to one owner.
func Owned(ownerID string) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Where("owner_id = ?", ownerID)
	}
}

// Page is a limit/offset window over a list.
type Page struct {
	Limit  int
	Offset int
}

func Paginate(p Page) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if p.Limit > 0 {
			db = db.Limit(p.Limit)
		}
		if p.Offset > 0 {
			db = db.Offset(p.Offset)
		}
		return db
	}
}

// ForUpdate adds a row lock where the dialect supports one.
func ForUpdate(db *gorm.DB) *gorm.DB {
	switch dialect(db) {
	case "postgres", "mysql":
		return db.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return db
}

// FindOwned loads the row with id belonging to ownerID into dest. Rows of
// other owners are reported as models.ErrNotFound.
func FindOwned(db *gorm.DB, ownerID, id string, dest interface{}) error {
	err := db.Scopes(Owned(ownerID)).Where("id = ?", id).First(dest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.ErrNotFound
	}
	return err
}

// FindReceivable loads a receivable with its payments. With lock set the
// receivable row stays locked until the surrounding transaction ends.
func FindReceivable(db *gorm.DB, ownerID, id string, lock bool) (*models.Receivable, error) {
	q := db
	if lock {
		q = ForUpdate(q)
	}
	var r models.Receivable
	if err := FindOwned(q, ownerID, id, &r); err != nil {
		return nil, err
	}
	if err := db.Where("receivable_id = ?", r.ID).Order("payment_date, created_at").Find(&r.Payments).Error; err != nil {
		return nil, fmt.Errorf("load payments: %w", err)
	}
	return &r, nil
}

// SaveReceivable writes the receivable row only; payments are inserted
// separately because they are immutable.
func SaveReceivable(db *gorm.DB, r *models.Receivable) error {
	return db.Omit(clause.Associations).Save(r).Error
}

// DeleteReceivable removes the receivable together with its payments.
func DeleteReceivable(db *gorm.DB, r *models.Receivable) error {
	if err := db.Where("receivable_id = ?", r.ID).Delete(&models.Payment{}).Error; err != nil {
		return fmt.Errorf("delete payments: %w", err)
	}
	return db.Omit(clause.Associations).Delete(r).Error
}

// PaymentInput is a payment as submitted by a client.
type PaymentInput struct {
	Amount        decimal.Decimal
	Method        string
	Notes         string
	ReceiptNumber string
	Date          *time.Time // defaults to today
}

// RecordPayment locks the receivable, applies the payment, inserts it and
// saves the recomputed receivable. Run it inside a transaction.
func RecordPayment(db *gorm.DB, ownerID, id string, in PaymentInput, today time.Time) (*models.Receivable, *models.Payment, error) {
	r, err := FindReceivable(db, ownerID, id, true)
	if err != nil {
		return nil, nil, err
	}
	p, err := r.AddPayment(in.Amount, in.Method, in.Notes, today)
	if err != nil {
		return nil, nil, err
	}
	p.ReceiptNumber = in.ReceiptNumber
	if in.Date != nil {
		paidOn := utils.DateOnly(*in.Date)
		p.PaymentDate = paidOn
		r.LastPaymentDate = &paidOn
	}
	if err := db.Create(p).Error; err != nil {
		return nil, nil, fmt.Errorf("insert payment: %w", err)
	}
	if err := SaveReceivable(db, r); err != nil {
		return nil, nil, fmt.Errorf("save receivable: %w", err)
	}
	return r, p, nil
}

// Contact carries optional customer contact details seen on a receivable.
type Contact struct {
	Phone   string
	Email   string
	Address string
}

// RefreshCustomerStats upserts the customer for key, merges any non-empty
// contact fields and recomputes the rollup from every receivable of that name.
func RefreshCustomerStats(db *gorm.DB, key models.CustomerKey, contact Contact) (*models.Customer, error) {
	if !key.Valid() {
		return nil, nil
	}
	var c models.Customer
	err := db.Where("owner_id = ? AND name = ?", key.OwnerID, key.Name).First(&c).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		c = models.Customer{OwnerID: key.OwnerID, Name: key.Name}
	case err != nil:
		return nil, fmt.Errorf("load customer: %w", err)
	}
	c.MergeContact(contact.Phone, contact.Email, contact.Address)

	var rs []models.Receivable
	if err := db.Where("owner_id = ? AND customer_name = ?", key.OwnerID, key.Name).Find(&rs).Error; err != nil {
		return nil, fmt.Errorf("load receivables for customer: %w", err)
	}
	c.ApplyStats(rs)

	if err := db.Save(&c).Error; err != nil {
		return nil, fmt.Errorf("save customer: %w", err)
	}
	return &c, nil
}

// FindUserByLogin matches either username or email. Emails are stored lower-cased.
func FindUserByLogin(db *gorm.DB, login string) (*models.User, error) {
	login = strings.TrimSpace(login)
	var u models.User
	err := db.Where("username = ? OR email = ?", login, strings.ToLower(login)).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
