package controllers

import (
	"strings"
	"time"

	"ledger-backend/database"
	"ledger-backend/middlewares"
	"ledger-backend/models"
	"ledger-backend/reports"
	"ledger-backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type TransactionCreateDTO struct {
	Type          string           `json:"type" validate:"required"`
	Amount        *decimal.Decimal `json:"amount" validate:"required"`
	Description   string           `json:"description" validate:"required,max=255"`
	Category      string           `json:"category" validate:"required,max=100"`
	PaymentMethod string           `json:"payment_method" validate:"omitempty,max=50"`
	Date          string           `json:"date" validate:"omitempty"`
	Notes         string           `json:"notes" validate:"omitempty"`
}

type TransactionUpdateDTO struct {
	Amount        *decimal.Decimal `json:"amount" validate:"omitempty"`
	Description   *string          `json:"description" validate:"omitempty,max=255"`
	Category      *string          `json:"category" validate:"omitempty,max=100"`
	PaymentMethod *string          `json:"payment_method" validate:"omitempty,max=50"`
	Date          *string          `json:"date" validate:"omitempty"`
	Notes         *string          `json:"notes" validate:"omitempty"`
}

// dateFilter narrows q to [start_date, end_date]. A bare end date covers the whole day.
func dateFilter(c *fiber.Ctx, q *gorm.DB) (*gorm.DB, error) {
	if s := strings.TrimSpace(c.Query("start_date")); s != "" {
		start, err := parseDateTime("start_date", s)
		if err != nil {
			return nil, err
		}
		q = q.Where("date >= ?", start)
	}
	if s := strings.TrimSpace(c.Query("end_date")); s != "" {
		end, err := parseDateTime("end_date", s)
		if err != nil {
			return nil, err
		}
		if len(s) == len(utils.DateLayout) {
			q = q.Where("date < ?", end.AddDate(0, 0, 1))
		} else {
			q = q.Where("date <= ?", end)
		}
	}
	return q, nil
}

// GET /api/transactions
func GetTransactions(c *fiber.Ctx) error {
	db, ownerID, err := scope(c)
	if err != nil {
		return err
	}

	pageNo := utils.ParseIntDefault(c.Query("page"), 1)
	if pageNo < 1 {
		pageNo = 1
	}
	perPage := utils.ParseIntDefault(c.Query("per_page"), 20)
	if perPage < 1 || perPage > maxLimit {
		perPage = 20
	}

	q := db.Model(&models.Transaction{}).Scopes(database.Owned(ownerID))
	if t := strings.TrimSpace(c.Query("type")); t != "" {
		kind, err := models.ParseTransactionKind(t)
		if err != nil {
			return err
		}
		q = q.Where("type = ?", kind)
	}
	if cat := strings.TrimSpace(c.Query("category")); cat != "" {
		q = q.Where("category = ?", cat)
	}
	if q, err = dateFilter(c, q); err != nil {
		return err
	}

	var total int64
	if err := q.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return err
	}

	var out []models.Transaction
	if err := q.Order("date DESC").
		Scopes(database.Paginate(database.Page{Limit: perPage, Offset: (pageNo - 1) * perPage})).
		Find(&out).Error; err != nil {
		return err
	}

	pages := int((total + int64(perPage) - 1) / int64(perPage))
	return c.JSON(fiber.Map{
		"transactions": out,
		"total":        total,
		"pages":        pages,
		"current_page": pageNo,
		"per_page":     perPage,
	})
}

// POST /api/transactions
func CreateTransaction(c *fiber.Ctx) error {
	var in TransactionCreateDTO
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}
	utils.NormalizeDTO(&in)

	db, ownerID, err := scope(c)
	if err != nil {
		return err
	}

	kind, err := models.ParseTransactionKind(in.Type)
	if err != nil {
		return err
	}
	date := time.Now().UTC()
	if in.Date != "" {
		if date, err = parseDateTime("date", in.Date); err != nil {
			return err
		}
	}

	tx := models.Transaction{
		OwnerID:       ownerID,
		Kind:          kind,
		Amount:        utils.Round2(*in.Amount),
		Description:   in.Description,
		Category:      in.Category,
		PaymentMethod: in.PaymentMethod,
		Date:          date,
		Notes:         in.Notes,
	}
	if err := tx.Validate(); err != nil {
		return err
	}
	tx.ApplyFees(feeCalc)

	if err := db.Create(&tx).Error; err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":     "transaction created",
		"transaction": tx,
	})
}

// GET /api/transactions/:id
func GetTransaction(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	db, ownerID, err := scope(c)
	if err != nil {
		return err
	}

	var tx models.Transaction
	if err := database.FindOwned(db, ownerID, id, &tx); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"transaction": tx})
}

// PUT /api/transactions/:id
func UpdateTransaction(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var in TransactionUpdateDTO
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}
	utils.NormalizePtrDTO(&in)

	db, ownerID, err := scope(c)
	if err != nil {
		return err
	}

	var tx models.Transaction
	if err := database.FindOwned(db, ownerID, id, &tx); err != nil {
		return err
	}

	if in.Amount != nil {
		tx.Amount = *in.Amount
	}
	if in.PaymentMethod != nil {
		tx.PaymentMethod = *in.PaymentMethod
	}
	if in.Description != nil {
		tx.Description = *in.Description
	}
	if in.Category != nil {
		tx.Category = *in.Category
	}
	if in.Notes != nil {
		tx.Notes = *in.Notes
	}
	if in.Date != nil && *in.Date != "" {
		if tx.Date, err = parseDateTime("date", *in.Date); err != nil {
			return err
		}
	}
	if err := tx.Validate(); err != nil {
		return err
	}
	if in.Amount != nil || in.PaymentMethod != nil {
		tx.ApplyFees(feeCalc)
	}

	if err := db.Save(&tx).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message":     "transaction updated",
		"transaction": tx,
	})
}

// DELETE /api/transactions/:id
func DeleteTransaction(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	db, ownerID, err := scope(c)
	if err != nil {
		return err
	}

	var tx models.Transaction
	if err := database.FindOwned(db, ownerID, id, &tx); err != nil {
		return err
	}
	if err := db.Delete(&tx).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"message": "transaction deleted"})
}

// GET /api/dashboard/summary
func GetDashboardSummary(c *fiber.Ctx) error {
	db, ownerID, err := scope(c)
	if err != nil {
		return err
	}

	q := db.Model(&models.Transaction{}).Scopes(database.Owned(ownerID))
	if q, err = dateFilter(c, q); err != nil {
		return err
	}
	var txs []models.Transaction
	if err := q.Find(&txs).Error; err != nil {
		return err
	}
	return c.JSON(reports.Dashboard(txs))
}
