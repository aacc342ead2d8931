package routes

import (
	"github.com/gofiber/fiber/v2"

	"ledger-backend/controllers"
	"ledger-backend/middlewares"
)

// Register wires all HTTP routes.
func Register(app *fiber.App) {
	api := app.Group("/api")

	// Public auth endpoints
	api.Post("/auth/register", controllers.Register)
	api.Post("/auth/login", controllers.Login)
	api.Get("/ai-reports/types", controllers.GetReportTypes)

	// Protected endpoints (Bearer JWT or Basic)
	protected := api.Group("")
	protected.Use(middlewares.Authenticate())

	// Idempotency guard FIRST (not tied to request TX)
	protected.Use(middlewares.Idempotency())

	// Then the per-request transaction (commits or rolls back)
	protected.Use(middlewares.OwnerTx())

	// Transactions
	protected.Get("/transactions", controllers.GetTransactions)
	protected.Post("/transactions", controllers.CreateTransaction)
	protected.Get("/transactions/:id", controllers.GetTransaction)
	protected.Put("/transactions/:id", controllers.UpdateTransaction)
	protected.Delete("/transactions/:id", controllers.DeleteTransaction)

	// Categories
	protected.Get("/categories", controllers.GetCategories)
	protected.Post("/categories", controllers.CreateCategory)

	protected.Get("/dashboard/summary", controllers.GetDashboardSummary)

	// Bills
	protected.Get("/bills", controllers.GetBills)
	protected.Post("/bills", controllers.CreateBill)
	protected.Get("/bills/summary", controllers.GetBillsSummary)
	protected.Get("/bills/:id", controllers.GetBill)
	protected.Put("/bills/:id", controllers.UpdateBill)
	protected.Delete("/bills/:id", controllers.DeleteBill)
	protected.Post("/bills/:id/pay", controllers.PayBill)

	// Receivables (payments are append-only)
	protected.Get("/receivables", controllers.GetReceivables)
	protected.Post("/receivables", controllers.CreateReceivable)
	protected.Get("/receivables/summary", controllers.GetReceivablesSummary)
	protected.Get("/receivables/:id", controllers.GetReceivable)
	protected.Put("/receivables/:id", controllers.UpdateReceivable)
	protected.Delete("/receivables/:id", controllers.DeleteReceivable)
	protected.Post("/receivables/:id/payments", controllers.AddPayment)
	protected.Post("/receivables/:id/cancel", controllers.CancelReceivable)

	// Customers
	protected.Get("/customers", controllers.GetCustomers)
	protected.Post("/customers", controllers.CreateCustomer)
	protected.Get("/customers/:id", controllers.GetCustomer)
	protected.Put("/customers/:id", controllers.UpdateCustomer)

	// Reports
	protected.Get("/reports/financial", controllers.GetFinancialReport)
	protected.Get("/ai-reports", controllers.GetReportHistory)
	protected.Post("/ai-reports/generate", controllers.GenerateReport)
	protected.Get("/ai-reports/health", controllers.GetReportHealth)
}
