package controllers

import (
	"strings"

	"ledger-backend/database"
	"ledger-backend/middlewares"
	"ledger-backend/models"
	"ledger-backend/utils"

	"github.com/gofiber/fiber/v2"
)

type CategoryCreateDTO struct {
	Name  string `json:"name" validate:"required,max=100"`
	Type  string `json:"type" validate:"required"`
	Color string `json:"color" validate:"omitempty,hexcolor"`
	Icon  string `json:"icon" validate:"omitempty,max=50"`
}

// GET /api/categories
func GetCategories(c *fiber.Ctx) error {
	db, ownerID, err := scope(c)
	if err != nil {
		return err
	}

	q := db.Scopes(database.Owned(ownerID))
	if t := strings.TrimSpace(c.Query("type")); t != "" {
		kind, err := models.ParseTransactionKind(t)
		if err != nil {
			return err
		}
		q = q.Where("type = ?", kind)
	}

	var out []models.Category
	if err := q.Order("name").Find(&out).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"categories": out})
}

// POST /api/categories
func CreateCategory(c *fiber.Ctx) error {
	var in CategoryCreateDTO
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

	var count int64
	if err := db.Model(&models.Category{}).Scopes(database.Owned(ownerID)).
		Where("name = ? AND type = ?", in.Name, kind).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return fiber.NewError(fiber.StatusBadRequest, "category already exists")
	}

	cat := models.Category{
		OwnerID: ownerID,
		Name:    in.Name,
		Kind:    kind,
		Color:   in.Color,
		Icon:    in.Icon,
	}
	if err := db.Create(&cat).Error; err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "could not create category")
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message":  "category created",
		"category": cat,
	})
}
