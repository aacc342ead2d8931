package controllers

import (
	"strings"

	"ledger-backend/database"
	"ledger-backend/middlewares"
	"ledger-backend/models"
	"ledger-backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type CustomerCreateDTO struct {
	Name        string          `json:"name" validate:"required,max=200"`
	Phone       string          `json:"phone" validate:"omitempty,max=20"`
	Email       string          `json:"email" validate:"omitempty,email,max=200"`
	Address     string          `json:"address" validate:"omitempty"`
	Document    string          `json:"document" validate:"omitempty,max=20"`
	Status      string          `json:"status" validate:"omitempty"`
	CreditLimit decimal.Decimal `json:"credit_limit"`
	Notes       string          `json:"notes" validate:"omitempty"`
	Tags        []string        `json:"tags" validate:"omitempty"`
}

// The name is the join key to receivables and cannot be patched.
type CustomerUpdateDTO struct {
	Phone       *string          `json:"phone" validate:"omitempty,max=20"`
	Email       *string          `json:"email" validate:"omitempty,email,max=200"`
	Address     *string          `json:"address" validate:"omitempty"`
	Document    *string          `json:"document" validate:"omitempty,max=20"`
	Status      *string          `json:"status" validate:"omitempty"`
	CreditLimit *decimal.Decimal `json:"credit_limit" validate:"omitempty"`
	Notes       *string          `json:"notes" validate:"omitempty"`
	Tags        *models.Tags     `json:"tags" validate:"omitempty"`
}

// GET /api/customers
func GetCustomers(c *fiber.Ctx) error {
	db, ownerID, err := scope(c)
	if err != nil {
		return err
	}

	q := db.Model(&models.Customer{}).Scopes(database.Owned(ownerID))
	if s := strings.TrimSpace(c.Query("search")); s != "" {
		q = q.Where("LOWER(name) LIKE ?", "%"+strings.ToLower(s)+"%")
	}
	if st := strings.TrimSpace(c.Query("status")); st != "" {
		status, err := models.ParseCustomerStatus(st)
		if err != nil {
			return err
		}
		q = q.Where("status = ?", status)
	}

	var customers []models.Customer
	if err := q.Order("name").Scopes(database.Paginate(page(c))).Find(&customers).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"customers": customers,
		"message":   "success",
	})
}

// POST /api/customers
func CreateCustomer(c *fiber.Ctx) error {
	var in CustomerCreateDTO
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}
	utils.NormalizeDTO(&in)

	db, ownerID, err := scope(c)
	if err != nil {
		return err
	}

	status, err := models.ParseCustomerStatus(in.Status)
	if err != nil {
		return err
	}
	if in.CreditLimit.IsNegative() {
		return models.NewValidationError("credit_limit", in.CreditLimit, "must not be negative")
	}

	var count int64
	if err := db.Model(&models.Customer{}).Scopes(database.Owned(ownerID)).
		Where("name = ?", in.Name).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return fiber.NewError(fiber.StatusBadRequest, "customer already exists")
	}

	customer := models.Customer{
		OwnerID:     ownerID,
		Name:        in.Name,
		Phone:       in.Phone,
		Email:       in.Email,
		Address:     in.Address,
		Document:    in.Document,
		Status:      status,
		CreditLimit: in.CreditLimit,
		Notes:       in.Notes,
		Tags:        models.NewTags(in.Tags...),
	}
	if err := db.Create(&customer).Error; err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "could not create customer")
	}

	// Pick up receivables already recorded under this name.
	out, err := database.RefreshCustomerStats(db, customer.Key(), database.Contact{})
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "customer created",
		"customer": out,
	})
}

// GET /api/customers/:id
func GetCustomer(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}
	db, ownerID, err := scope(c)
	if err != nil {
		return err
	}

	var customer models.Customer
	if err := database.FindOwned(db, ownerID, id, &customer); err != nil {
		return err
	}
	out, err := database.RefreshCustomerStats(db, customer.Key(), database.Contact{})
	if err != nil {
		return err
	}

	var rs []models.Receivable
	if err := db.Scopes(database.Owned(ownerID)).Where("customer_name = ?", customer.Name).
		Order("due_date ASC").Find(&rs).Error; err != nil {
		return err
	}
	today := clock()
	views := make([]models.ReceivableView, 0, len(rs))
	for i := range rs {
		views = append(views, rs[i].View(today))
	}
	return c.JSON(fiber.Map{
		"customer":    out,
		"receivables": views,
	})
}

// PUT /api/customers/:id
func UpdateCustomer(c *fiber.Ctx) error {
	id, err := pathID(c)
	if err != nil {
		return err
	}

	var in CustomerUpdateDTO
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}
	utils.NormalizePtrDTO(&in)

	db, ownerID, err := scope(c)
	if err != nil {
		return err
	}

	// Ensure exists
	var existing models.Customer
	if err := database.FindOwned(db, ownerID, id, &existing); err != nil {
		return err
	}

	if in.Status != nil {
		status, err := models.ParseCustomerStatus(*in.Status)
		if err != nil {
			return err
		}
		*in.Status = string(status)
	}
	if in.CreditLimit != nil && in.CreditLimit.IsNegative() {
		return models.NewValidationError("credit_limit", *in.CreditLimit, "must not be negative")
	}
	if in.Tags != nil {
		*in.Tags = models.NewTags(*in.Tags...)
	}

	updates := utils.PatchColumns(&in)
	if len(updates) > 0 {
		if err := db.Model(&existing).Updates(updates).Error; err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "could not update customer")
		}
	}

	var out models.Customer
	if err := database.FindOwned(db, ownerID, id, &out); err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"message":  "customer updated",
		"customer": out,
	})
}
