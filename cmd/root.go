package cmd

import (
	"fmt"
	"os"

	"ledger-backend/config"
	"ledger-backend/fees"
	"ledger-backend/logger"
	"ledger-backend/narrative"

	"github.com/spf13/cobra"
)

var version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:   "ledger",
	Short: "Ledger - personal and small-business finance backend",
	Long: `Ledger records income and expense transactions, payable bills and
receivables owed by customers, and serves summaries, period reports and
narrative reports over a JSON API.

Run "ledger serve" to start the API.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	log := logger.WithComponent("cmd")

	if err := rootCmd.Execute(); err != nil {
		log.Error().
			Err(err).
			Msg("Command execution failed")
		fmt.Fprintf(os.Stderr, "Error executing command: %v\n", err)
		os.Exit(1)
	}
}

// newAuthor returns the generative author when an OpenAI key is configured.
func newAuthor(cfg *config.Config) narrative.Author {
	var completer narrative.Completer
	if c := narrative.NewOpenAICompleter(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.OpenAIModel); c != nil {
		completer = c
	}
	return narrative.New(completer)
}

func newFeeCalculator(cfg *config.Config) *fees.Calculator {
	return fees.NewCalculator(cfg.FeeRates)
}
