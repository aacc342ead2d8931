package controllers

import (
	"encoding/json"
	"strconv"

	"ledger-backend/database"
	"ledger-backend/logger"
	"ledger-backend/middlewares"
	"ledger-backend/models"
	"ledger-backend/narrative"
	"ledger-backend/reports"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type GenerateReportDTO struct {
	ReportType   string      `json:"report_type" validate:"omitempty"`
	Period       json.Number `json:"period"`
	CustomPrompt string      `json:"custom_prompt" validate:"omitempty,max=2000"`
}

type periodInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

func financialReport(c *fiber.Ctx, db *gorm.DB, ownerID string, period reports.Period) (*reports.FinancialReport, error) {
	return reports.BuildFinancialReport(c.UserContext(), database.ReportLoader{DB: db}, ownerID, period, clock())
}

// GET /api/reports/financial
func GetFinancialReport(c *fiber.Ctx) error {
	db, ownerID, err := scope(c)
	if err != nil {
		return err
	}
	rep, err := financialReport(c, db, ownerID, reports.ParsePeriod(c.Query("period")))
	if err != nil {
		return err
	}
	return c.JSON(rep)
}

// GET /api/ai-reports/types
func GetReportTypes(c *fiber.Ctx) error {
	periods := make([]periodInfo, 0, len(reports.Periods))
	for _, p := range reports.Periods {
		periods = append(periods, periodInfo{ID: strconv.Itoa(p.Days()), Name: "Last " + p.Label()})
	}
	return c.JSON(fiber.Map{
		"report_types": narrative.Kinds,
		"periods":      periods,
	})
}

// POST /api/ai-reports/generate
func GenerateReport(c *fiber.Ctx) error {
	var in GenerateReportDTO
	if err := middlewares.BindAndValidate(c, &in); err != nil {
		return err
	}

	db, ownerID, err := scope(c)
	if err != nil {
		return err
	}

	kind, err := narrative.ParseKind(in.ReportType)
	if err != nil {
		return err
	}
	period := reports.ParsePeriod(in.Period.String())

	rep, err := financialReport(c, db, ownerID, period)
	if err != nil {
		return err
	}
	doc := author.Write(c.UserContext(), narrative.Request{
		Report:       rep,
		Kind:         kind,
		CustomPrompt: in.CustomPrompt,
	})

	docJSON, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	figures, err := json.Marshal(rep)
	if err != nil {
		return err
	}
	entry := models.Report{
		OwnerID:    ownerID,
		ReportType: string(kind),
		Period:     period.Days(),
		AIPowered:  author.Generative(),
		Title:      doc.Title,
		Document:   datatypes.JSON(docJSON),
		Figures:    datatypes.JSON(figures),
	}
	if err := db.Create(&entry).Error; err != nil {
		return err
	}

	log := logger.WithOwner(ownerID)
	log.Info().Str("report_type", string(kind)).Int("period", period.Days()).
		Bool("ai_powered", entry.AIPowered).Msg("report generated")

	return c.JSON(fiber.Map{
		"success":        true,
		"id":             entry.ID,
		"report":         doc,
		"financial_data": rep,
		"ai_powered":     entry.AIPowered,
	})
}

// GET /api/ai-reports
func GetReportHistory(c *fiber.Ctx) error {
	db, ownerID, err := scope(c)
	if err != nil {
		return err
	}

	var out []models.Report
	if err := db.Scopes(database.Owned(ownerID)).Order("created_at DESC").
		Scopes(database.Paginate(page(c))).Find(&out).Error; err != nil {
		return err
	}
	return c.JSON(fiber.Map{"reports": out})
}

// GET /api/ai-reports/health
func GetReportHealth(c *fiber.Ctx) error {
	status := "template_mode"
	if author.Generative() {
		status = "healthy"
	}
	return c.JSON(fiber.Map{
		"ai_available": author.Generative(),
		"status":       status,
	})
}
