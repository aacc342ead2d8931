package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"ledger-backend/config"
	"ledger-backend/controllers"
	"ledger-backend/database"
	"ledger-backend/logger"
	"ledger-backend/middlewares"
	"ledger-backend/routes"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Connect to the configured database, apply migrations and serve the
JSON API under /api.

Required environment variables:
  JWT_SECRET_KEY (or JWT_SECRET) - HMAC secret for bearer tokens
  DB_DRIVER                      - postgres (default) or mysql
  DATABASE_URL or DB_HOST/DB_USER/DB_PASSWORD/DB_NAME

Optional:
  OPENAI_API_KEY - enables generated narrative reports
  FEE_RATES      - fee overrides, e.g. credito=0.04,boleto=0.025`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().Bool("skip-migrate", false, "Do not run schema migrations on startup")
	rootCmd.AddCommand(serveCmd)
}

// newApp builds the Fiber app with the global error handler, body limit,
// access log, CORS and rate limiting in place.
func newApp(cfg *config.Config) *fiber.App {
	app := fiber.New(fiber.Config{
		ErrorHandler: middlewares.ErrorHandler,
		BodyLimit:    cfg.BodyLimitBytes,
	})

	app.Use(middlewares.RequestLogger())

	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins,
		AllowCredentials: false, // using Bearer/Basic headers, not cookies
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, Idempotency-Key",
	}))

	// Default KeyGenerator = client IP; default 429 handler is fine.
	app.Use(limiter.New(limiter.Config{
		Max:        cfg.RateLimitMax,
		Expiration: cfg.RateLimitWindow,
	}))

	routes.Register(app)
	return app
}

func runServe(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("serve")

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := database.Connect(cfg); err != nil {
		return err
	}
	if skip, _ := cmd.Flags().GetBool("skip-migrate"); !skip {
		if err := database.Migrate(database.DB); err != nil {
			return err
		}
	}

	author := newAuthor(cfg)
	controllers.Configure(newFeeCalculator(cfg), author)

	app := newApp(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	go func() {
		<-ctx.Done()
		log.Info().Msg("Shutting down")
		if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
			log.Error().Err(err).Msg("Shutdown failed")
		}
	}()

	log.Info().
		Str("port", cfg.Port).
		Str("db_driver", cfg.DBDriver).
		Bool("ai_reports", author.Generative()).
		Msg("API server starting")
	return app.Listen(":" + cfg.Port)
}
