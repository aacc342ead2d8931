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

type BillCreateDTO struct {
	Barcode        string           `json:"barcode" validate:"omitempty,max=48"`
	LineCode       string           `json:"line_code" validate:"omitempty,max=48"`
	Title          string           `json:"title" validate:"required,max=200"`
	Company        string           `json:"company" validate:"omitempty,max=200"`
	Category       string           `json:"category" validate:"required,max=100"`
	OriginalAmount *decimal.Decimal `json:"original_amount" validate:"required"`
	DiscountAmount decimal.Decimal  `json:"discount_amount"`
	InterestAmount decimal.Decimal  `json:"interest_amount"`
	DueDate        string           `json:"due_date" validate:"required"`
	Notes          string           `json:"notes" validate:"omitempty"`
	ReceiptURL     string           `json:"receipt_url" validate:"omitempty,url,max=500"`
}

type BillUpdateDTO struct {
	Barcode        *string          `json:"barcode" validate:"omitempty,max=48"`
	LineCode       *string          `json:"line_code" validate:"omitempty,max=48"`
	Title          *string          `json:"title" validate:"omitempty,max=200"`
	Company        *string          `json:"company" validate:"omitempty,max=200"`
	Category       *string          `json:"category" validate:"omitempty,max=100"`
	OriginalAmount *decimal.Decimal `json:"original_amount"`
	DiscountAmount *decimal.Decimal `json:"discount_amount"`
	InterestAmount *decimal.Decimal `json:"interest_amount"`
	DueDate        *string          `json:"due_date"`
	Notes          *string          `json:"notes"`
	ReceiptURL     *string          `json:"receipt_url" validate:"omitempty,url,max=500"`
}

type PayBillDTO struct {
	PaymentMethod string           `json:"payment_method" validate:"required,max=50"`
	PaymentFee    *decimal.Decimal `json:"payment_fee"`
}

// GET /api/bills
func GetBills(c *fiber.Ctx) error {
	db, ownerID, err := scope(c)
	if err != nil {
		return err
	}
	today := clock()

	q := db.Model(&models.Bill{}).Scopes(database.Owned(ownerID))
	status := strings.ToLower(strings.TrimSpace(c.Query("status")))
	switch models.BillStatus(status) {
	case "", "all":
	case models.BillOverdue:
		q = q.Where("status = ? AND due_date < ?", models.BillPending, today)
	case models.BillPending, models.BillPaid, models.BillCancelled:
		q = q.Where("status = ?", status)
	default:
		return models.NewValidationError("status", status, "must be pending, paid, overdue, cancelled or all")
	}
	if cat := strings.TrimSpace(c.Query("category")); cat != "" {
		q = q.Where("category = ?", cat)
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return err
	}

	if models.BillStatus(status) == models.BillPaid {
		q = q.Order("payment_date DESC")
	} else {
		q = q.Order("due_date ASC")
	}
	p := page(c)
	var bills []models.Bill
	if err := q.Scopes(database.Paginate(p)).Find(&bills).Error; err != nil {
		return err
	}

	views := make([]models.BillView, 0, len(bills))
	for i := range bills {
		views = append(views, bills[i].View(today))
	}
	return c.JSON(fiber.Map{
		"bills":       views,
		"total_count": total,
		"has_more":    int64(p.Offset+p.Limit) < total,
	})
}

// POST /api/bills
func CreateBill(c *fiber.Ctx) error {
	var in BillCreateDTO
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}
	utils.NormalizeDTO(&in)

	db, ownerID, err := scope(c)
	if err != nil {
		return err
	}

	due, err := parseDate("due_date", in.DueDate)
	if err != nil {
		return err
	}

	bill := models.Bill{
		OwnerID:        ownerID,
		Barcode:        in.Barcode,
		LineCode:       in.LineCode,
		Title:          in.Title,
		Company:        in.Company,
		Category:       in.Category,
		OriginalAmount: utils.Round2(*in.OriginalAmount),
		DiscountAmount: in.DiscountAmount,
		InterestAmount: in.InterestAmount,
		DueDate:        due,
		Status:         models.BillPending,
		Notes:          in.Notes,
		ReceiptURL:     in.ReceiptURL,
	}
	if err := bill.Validate(); err != nil {
		return err
	}
	bill.CalculateFinalAmount()

	if err := db.Create(&bill).Error; err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "bill created",
		"bill":    bill.View(clock()),
	})
}

// GET /api/bills/summary
func GetBillsSummary(c *fiber.Ctx) error {
	db, ownerID, err := scope(c)
	if err != nil {
		return err
	}
	var bills []models.Bill
	if err := db.Scopes(database.Owned(ownerID)).Find(&bills).Error; err != nil {
		return err
	}
	return c.JSON(reports.BillsSummary(bills, clock()))
}

// GET /api/bills/:id
func GetBill(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	db, ownerID, err := scope(c)
	if err != nil {
		return err
	}

	var bill models.Bill
	if err := database.FindOwned(db, ownerID, id, &bill); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"bill": bill.View(clock())})
}

// PUT /api/bills/:id
func UpdateBill(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var in BillUpdateDTO
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}
	utils.NormalizePtrDTO(&in)

	db, ownerID, err := scope(c)
	if err != nil {
		return err
	}

	var bill models.Bill
	if err := database.FindOwned(db, ownerID, id, &bill); err != nil {
		return err
	}

	if in.Barcode != nil {
		bill.Barcode = *in.Barcode
	}
	if in.LineCode != nil {
		bill.LineCode = *in.LineCode
	}
	if in.Title != nil {
		bill.Title = *in.Title
	}
	if in.Company != nil {
		bill.Company = *in.Company
	}
	if in.Category != nil {
		bill.Category = *in.Category
	}
	if in.OriginalAmount != nil {
		bill.OriginalAmount = utils.Round2(*in.OriginalAmount)
	}
	if in.DiscountAmount != nil {
		bill.DiscountAmount = utils.Round2(*in.DiscountAmount)
	}
	if in.InterestAmount != nil {
		bill.InterestAmount = utils.Round2(*in.InterestAmount)
	}
	if in.DueDate != nil {
		if bill.DueDate, err = parseDate("due_date", *in.DueDate); err != nil {
			return err
		}
	}
	if in.Notes != nil {
		bill.Notes = *in.Notes
	}
	if in.ReceiptURL != nil {
		bill.ReceiptURL = *in.ReceiptURL
	}
	if err := bill.Validate(); err != nil {
		return err
	}
	bill.CalculateFinalAmount()

	if err := db.Save(&bill).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "bill updated",
		"bill":    bill.View(clock()),
	})
}

// POST /api/bills/:id/pay
func PayBill(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var in PayBillDTO
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}

	db, ownerID, err := scope(c)
	if err != nil {
		return err
	}

	var bill models.Bill
	if err := database.FindOwned(database.ForUpdate(db), ownerID, id, &bill); err != nil {
		return err
	}

	method := strings.TrimSpace(in.PaymentMethod)
	var fee decimal.Decimal
	if in.PaymentFee != nil {
		if in.PaymentFee.IsNegative() {
			return models.NewValidationError("payment_fee", *in.PaymentFee, "must not be negative")
		}
		fee = utils.Round2(*in.PaymentFee)
	} else {
		fee, _ = feeCalc.Compute(bill.FinalAmount, method)
		fee = utils.Round2(fee)
	}

	today := clock()
	if err := bill.MarkAsPaid(method, fee, today); err != nil {
		return err
	}
	if err := db.Save(&bill).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message": "bill paid",
		"bill":    bill.View(today),
	})
}

// DELETE /api/bills/:id
func DeleteBill(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	db, ownerID, err := scope(c)
	if err != nil {
		return err
	}

	var bill models.Bill
	if err := database.FindOwned(db, ownerID, id, &bill); err != nil {
		return err
	}
	if err := db.Delete(&bill).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "bill deleted"})
}
