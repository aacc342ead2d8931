package controllers

import (
	"strings"

	"ledger-backend/database"
	"ledger-backend/middlewares"
	"ledger-backend/models"
	"ledger-backend/reports"
	"ledger-backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type ReceivableCreateDTO struct {
	CustomerName    string           `json:"customer_name" validate:"required,max=200"`
	CustomerPhone   string           `json:"customer_phone" validate:"omitempty,max=20"`
	CustomerEmail   string           `json:"customer_email" validate:"omitempty,email,max=200"`
	CustomerAddress string           `json:"customer_address" validate:"omitempty"`
	Type            string           `json:"type" validate:"omitempty"`
	Description     string           `json:"description" validate:"required,max=500"`
	ReferenceNumber string           `json:"reference_number" validate:"omitempty,max=100"`
	OriginalAmount  *decimal.Decimal `json:"original_amount" validate:"required"`
	InterestRate    decimal.Decimal  `json:"interest_rate"`
	LateFee         decimal.Decimal  `json:"late_fee"`
	IssueDate       string           `json:"issue_date" validate:"omitempty"`
	DueDate         string           `json:"due_date" validate:"required"`
	PaymentTerms    string           `json:"payment_terms" validate:"omitempty,max=200"`
	Notes           string           `json:"notes" validate:"omitempty"`
	Tags            []string         `json:"tags" validate:"omitempty"`
	MachineID       string           `json:"machine_id" validate:"omitempty,max=100"`
	MachineLocation string           `json:"machine_location" validate:"omitempty,max=200"`
}

type ReceivableUpdateDTO struct {
	CustomerName    *string          `json:"customer_name" validate:"omitempty,max=200"`
	CustomerPhone   *string          `json:"customer_phone" validate:"omitempty,max=20"`
	CustomerEmail   *string          `json:"customer_email" validate:"omitempty,email,max=200"`
	CustomerAddress *string          `json:"customer_address"`
	Description     *string          `json:"description" validate:"omitempty,max=500"`
	ReferenceNumber *string          `json:"reference_number" validate:"omitempty,max=100"`
	OriginalAmount  *decimal.Decimal `json:"original_amount"`
	InterestRate    *decimal.Decimal `json:"interest_rate"`
	LateFee         *decimal.Decimal `json:"late_fee"`
	DueDate         *string          `json:"due_date"`
	PaymentTerms    *string          `json:"payment_terms" validate:"omitempty,max=200"`
	Notes           *string          `json:"notes"`
	Tags            *[]string        `json:"tags"`
}

type PaymentCreateDTO struct {
	Amount        *decimal.Decimal `json:"amount" validate:"required"`
	PaymentMethod string           `json:"payment_method" validate:"required,max=50"`
	PaymentDate   string           `json:"payment_date" validate:"omitempty"`
	Notes         string           `json:"notes" validate:"omitempty"`
	ReceiptNumber string           `json:"receipt_number" validate:"omitempty,max=100"`
}

func contactOf(r *models.Receivable) database.Contact {
	return database.Contact{Phone: r.CustomerPhone, Email: r.CustomerEmail, Address: r.CustomerAddress}
}

// GET /api/receivables
func GetReceivables(c *fiber.Ctx) error {
	db, ownerID, err := scope(c)
	if err != nil {
		return err
	}
	today := clock()

	q := db.Model(&models.Receivable{}).Scopes(database.Owned(ownerID))
	status := strings.ToLower(strings.TrimSpace(c.Query("status")))
	switch models.ReceivableStatus(status) {
	case "", "all":
	case models.ReceivableOverdue:
		q = q.Where("status IN ? AND due_date < ?", []models.ReceivableStatus{
			models.ReceivablePending, models.ReceivablePartial, models.ReceivableOverdue,
		}, today)
	case models.ReceivablePending, models.ReceivablePartial, models.ReceivablePaid, models.ReceivableCancelled:
		q = q.Where("status = ?", status)
	default:
		return models.NewValidationError("status", status, "must be pending, partial, paid, overdue, cancelled or all")
	}
	if t := strings.TrimSpace(c.Query("type")); t != "" {
		typ, err := models.ParseReceivableType(t)
		if err != nil {
			return err
		}
		q = q.Where("type = ?", typ)
	}
	if name := strings.TrimSpace(c.Query("customer")); name != "" {
		q = q.Where("LOWER(customer_name) LIKE ?", "%"+strings.ToLower(name)+"%")
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return err
	}

	if models.ReceivableStatus(status) == models.ReceivablePaid {
		q = q.Order("last_payment_date DESC")
	} else {
		q = q.Order("due_date ASC")
	}
	p := page(c)
	var rs []models.Receivable
	if err := q.Scopes(database.Paginate(p)).Preload("Payments", func(db *gorm.DB) *gorm.DB {
		return db.Order("payment_date, created_at")
	}).Find(&rs).Error; err != nil {
		return err
	}

	views := make([]models.ReceivableView, 0, len(rs))
	for i := range rs {
		views = append(views, rs[i].View(today))
	}
	return c.JSON(fiber.Map{
		"receivables": views,
		"total_count": total,
		"has_more":    int64(p.Offset+p.Limit) < total,
	})
}

// POST /api/receivables
func CreateReceivable(c *fiber.Ctx) error {
	var in ReceivableCreateDTO
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}
	utils.NormalizeDTO(&in)

	db, ownerID, err := scope(c)
	if err != nil {
		return err
	}

	typ, err := models.ParseReceivableType(in.Type)
	if err != nil {
		return err
	}
	due, err := parseDate("due_date", in.DueDate)
	if err != nil {
		return err
	}
	today := clock()
	issued := today
	if in.IssueDate != "" {
		if issued, err = parseDate("issue_date", in.IssueDate); err != nil {
			return err
		}
	}

	r := models.Receivable{
		OwnerID:         ownerID,
		CustomerName:    in.CustomerName,
		CustomerPhone:   in.CustomerPhone,
		CustomerEmail:   in.CustomerEmail,
		CustomerAddress: in.CustomerAddress,
		Type:            typ,
		Description:     in.Description,
		ReferenceNumber: in.ReferenceNumber,
		OriginalAmount:  utils.Round2(*in.OriginalAmount),
		InterestRate:    in.InterestRate,
		LateFee:         in.LateFee,
		IssueDate:       issued,
		DueDate:         due,
		PaymentTerms:    in.PaymentTerms,
		Notes:           in.Notes,
		Tags:            models.NewTags(in.Tags...),
		MachineID:       in.MachineID,
		MachineLocation: in.MachineLocation,
	}
	if err := r.Validate(); err != nil {
		return err
	}
	if !r.OriginalAmount.IsPositive() {
		return models.NewValidationError("original_amount", r.OriginalAmount, "must be positive")
	}
	r.UpdateRemainingAmount(today)

	if err := db.Omit("Payments").Create(&r).Error; err != nil {
		return err
	}
	if _, err := database.RefreshCustomerStats(db, models.NewCustomerKey(ownerID, r.CustomerName), contactOf(&r)); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":    "receivable created",
		"receivable": r.View(today),
	})
}

// GET /api/receivables/summary
func GetReceivablesSummary(c *fiber.Ctx) error {
	db, ownerID, err := scope(c)
	if err != nil {
		return err
	}
	var rs []models.Receivable
	if err := db.Scopes(database.Owned(ownerID)).Find(&rs).Error; err != nil {
		return err
	}
	return c.JSON(reports.ReceivablesSummary(rs, clock()))
}

// GET /api/receivables/:id
func GetReceivable(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	db, ownerID, err := scope(c)
	if err != nil {
		return err
	}

	r, err := database.FindReceivable(db, ownerID, id, false)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"receivable": r.View(clock())})
}

// PUT /api/receivables/:id
func UpdateReceivable(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var in ReceivableUpdateDTO
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}
	utils.NormalizePtrDTO(&in)

	db, ownerID, err := scope(c)
	if err != nil {
		return err
	}

	r, err := database.FindReceivable(db, ownerID, id, true)
	if err != nil {
		return err
	}
	previousName := r.CustomerName

	if in.CustomerName != nil {
		r.CustomerName = *in.CustomerName
	}
	if in.CustomerPhone != nil {
		r.CustomerPhone = *in.CustomerPhone
	}
	if in.CustomerEmail != nil {
		r.CustomerEmail = *in.CustomerEmail
	}
	if in.CustomerAddress != nil {
		r.CustomerAddress = *in.CustomerAddress
	}
	if in.Description != nil {
		r.Description = *in.Description
	}
	if in.ReferenceNumber != nil {
		r.ReferenceNumber = *in.ReferenceNumber
	}
	if in.OriginalAmount != nil {
		if !in.OriginalAmount.IsPositive() {
			return models.NewValidationError("original_amount", *in.OriginalAmount, "must be positive")
		}
		r.OriginalAmount = utils.Round2(*in.OriginalAmount)
	}
	if in.InterestRate != nil {
		r.InterestRate = utils.Round2(*in.InterestRate)
	}
	if in.LateFee != nil {
		r.LateFee = utils.Round2(*in.LateFee)
	}
	if in.DueDate != nil {
		if r.DueDate, err = parseDate("due_date", *in.DueDate); err != nil {
			return err
		}
	}
	if in.PaymentTerms != nil {
		r.PaymentTerms = *in.PaymentTerms
	}
	if in.Notes != nil {
		r.Notes = *in.Notes
	}
	if in.Tags != nil {
		r.Tags = models.NewTags(*in.Tags...)
	}
	if err := r.Validate(); err != nil {
		return err
	}

	today := clock()
	r.UpdateRemainingAmount(today)
	if err := database.SaveReceivable(db, r); err != nil {
		return err
	}

	if previousName != r.CustomerName {
		if _, err := database.RefreshCustomerStats(db, models.NewCustomerKey(ownerID, previousName), database.Contact{}); err != nil {
			return err
		}
	}
	if _, err := database.RefreshCustomerStats(db, models.NewCustomerKey(ownerID, r.CustomerName), contactOf(r)); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message":    "receivable updated",
		"receivable": r.View(today),
	})
}

// POST /api/receivables/:id/payments
func AddPayment(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var in PaymentCreateDTO
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}
	utils.NormalizeDTO(&in)

	db, ownerID, err := scope(c)
	if err != nil {
		return err
	}

	today := clock()
	paidOn, err := parsePastDate("payment_date", in.PaymentDate, today)
	if err != nil {
		return err
	}

	r, p, err := database.RecordPayment(db, ownerID, id, database.PaymentInput{
		Amount:        utils.Round2(*in.Amount),
		Method:        in.PaymentMethod,
		Notes:         in.Notes,
		ReceiptNumber: in.ReceiptNumber,
		Date:          paidOn,
	}, today)
	if err != nil {
		return err
	}
	if _, err := database.RefreshCustomerStats(db, models.NewCustomerKey(ownerID, r.CustomerName), database.Contact{}); err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":    "payment added",
		"payment":    p,
		"receivable": r.View(today),
	})
}

// POST /api/receivables/:id/cancel
func CancelReceivable(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	db, ownerID, err := scope(c)
	if err != nil {
		return err
	}

	r, err := database.FindReceivable(db, ownerID, id, true)
	if err != nil {
		return err
	}
	if err := r.Cancel(); err != nil {
		return err
	}
	today := clock()
	r.UpdateRemainingAmount(today)
	if err := database.SaveReceivable(db, r); err != nil {
		return err
	}
	if _, err := database.RefreshCustomerStats(db, models.NewCustomerKey(ownerID, r.CustomerName), database.Contact{}); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message":    "receivable cancelled",
		"receivable": r.View(today),
	})
}

// DELETE /api/receivables/:id
func DeleteReceivable(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	db, ownerID, err := scope(c)
	if err != nil {
		return err
	}

	r, err := database.FindReceivable(db, ownerID, id, true)
	if err != nil {
		return err
	}
	if err := database.DeleteReceivable(db, r); err != nil {
		return err
	}
	if _, err := database.RefreshCustomerStats(db, models.NewCustomerKey(ownerID, r.CustomerName), database.Contact{}); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "receivable deleted"})
}
