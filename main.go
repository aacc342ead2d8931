package main

import (
	"log"

	"ledger-backend/cmd"
	"ledger-backend/config"
	"ledger-backend/logger"

	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables; a missing .env is fine.
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: Could not load .env file: %v", err)
	}

	lcfg := logger.DefaultConfig()
	if cfg, err := config.Load(); err == nil {
		lcfg = cfg.GetLoggerConfig()
	}
	closeLog, err := logger.Setup(lcfg)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer closeLog()

	cmd.Execute()
}
