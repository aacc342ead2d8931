package controllers

import (
	"strings"
	"time"

	"ledger-backend/database"
	"ledger-backend/fees"
	"ledger-backend/middlewares"
	"ledger-backend/models"
	"ledger-backend/narrative"
	"ledger-backend/utils"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

var (
	feeCalc                  = fees.NewCalculator(fees.DefaultRates())
	author  narrative.Author = narrative.NewTemplateAuthor()
	clock                    = utils.Today
)

// Configure swaps the fee table and the report author used by the handlers.
// Call it once at startup, before the app starts serving.
func Configure(calc *fees.Calculator, a narrative.Author) {
	if calc != nil {
		feeCalc = calc
	}
	if a != nil {
		author = a
	}
}

const (
	defaultLimit = 50
	maxLimit     = 500
)

// scope returns the request DB and the authenticated owner.
func scope(c *fiber.Ctx) (*gorm.DB, string, error) {
	ownerID := middlewares.OwnerID(c)
	if ownerID == "" {
		return nil, "", fiber.NewError(fiber.StatusUnauthorized, "auth context missing")
	}
	db, err := database.GetDB(c)
	if err != nil {
		return nil, "", fiber.NewError(fiber.StatusInternalServerError, "db unavailable")
	}
	return db, ownerID, nil
}

func pathID(c *fiber.Ctx) (string, error) {
	id := strings.TrimSpace(c.Params("id"))
	if id == "" {
		return "", fiber.NewError(fiber.StatusBadRequest, "missing id in path")
	}
	return id, nil
}

// page reads ?limit=&offset= with the usual defaults.
func page(c *fiber.Ctx) database.Page {
	limit := utils.ParseIntDefault(c.Query("limit"), defaultLimit)
	if limit == 0 || limit > maxLimit {
		limit = defaultLimit
	}
	return database.Page{Limit: limit, Offset: utils.ParseIntDefault(c.Query("offset"), 0)}
}

func parseDate(field, s string) (time.Time, error) {
	t, err := utils.ParseDate(s)
	if err != nil {
		return time.Time{}, models.NewValidationError(field, s, "invalid date format, use YYYY-MM-DD")
	}
	return t, nil
}

// parseOptionalDate returns nil for an empty string.
func parseOptionalDate(field, s string) (*time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	t, err := parseDate(field, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// parsePastDate is parseOptionalDate that also rejects dates after today.
func parsePastDate(field, s string, today time.Time) (*time.Time, error) {
	t, err := parseOptionalDate(field, s)
	if err != nil || t == nil {
		return t, err
	}
	if t.After(today) {
		return nil, models.NewValidationError(field, s, "must not be in the future")
	}
	return t, nil
}

func parseDateTime(field, s string) (time.Time, error) {
	t, err := utils.ParseDateTime(s)
	if err != nil {
		return time.Time{}, models.NewValidationError(field, s, "invalid date")
	}
	return t, nil
}
