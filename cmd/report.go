package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"ledger-backend/config"
	"ledger-backend/database"
	"ledger-backend/logger"
	"ledger-backend/models"
	"ledger-backend/narrative"
	"ledger-backend/reports"
	"ledger-backend/utils"

	"github.com/spf13/cobra"
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Print a narrative financial report as JSON",
	Long: `Build the period report for one user and write the narrative document,
together with the figures it was built from, as JSON.

The document is generated with OpenAI when OPENAI_API_KEY is set and from
templates otherwise.`,
	Example: `  # Last 30 days for a user, financial summary
  ledger report --owner alice

  # Cash flow over the last quarter, written to a file
  ledger report --owner alice --period 90 --type cash_flow_analysis -o q.json`,
	RunE: runReport,
}

type reportOutput struct {
	Report        *narrative.Document      `json:"report"`
	FinancialData *reports.FinancialReport `json:"financial_data"`
	AIPowered     bool                     `json:"ai_powered"`
}

func init() {
	reportCmd.Flags().String("owner", "", "User id, username or email (required)")
	reportCmd.Flags().String("period", "30", "Window in days: 7, 30, 90 or 365")
	reportCmd.Flags().String("type", string(narrative.FinancialSummary), "financial_summary, cash_flow_analysis, performance_insights or custom")
	reportCmd.Flags().String("prompt", "", "Focus for a custom report")
	reportCmd.Flags().StringP("output", "o", "", "Write to file instead of stdout")
	reportCmd.Flags().Duration("timeout", 2*time.Minute, "Overall timeout")
	_ = reportCmd.MarkFlagRequired("owner")
	rootCmd.AddCommand(reportCmd)
}

func runReport(cmd *cobra.Command, args []string) error {
	log := logger.WithComponent("report")

	owner, _ := cmd.Flags().GetString("owner")
	periodFlag, _ := cmd.Flags().GetString("period")
	typeFlag, _ := cmd.Flags().GetString("type")
	prompt, _ := cmd.Flags().GetString("prompt")
	output, _ := cmd.Flags().GetString("output")
	timeout, _ := cmd.Flags().GetDuration("timeout")

	kind, err := narrative.ParseKind(typeFlag)
	if err != nil {
		return err
	}
	period := reports.ParsePeriod(periodFlag)

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := database.Connect(cfg); err != nil {
		return err
	}

	ownerID := owner
	user, err := database.FindUserByLogin(database.DB, owner)
	switch {
	case err == nil:
		ownerID = user.ID
	case !errors.Is(err, models.ErrNotFound):
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	rep, err := reports.BuildFinancialReport(ctx, database.ReportLoader{DB: database.DB}, ownerID, period, utils.Today())
	if err != nil {
		return err
	}
	author := newAuthor(cfg)
	doc := author.Write(ctx, narrative.Request{Report: rep, Kind: kind, CustomPrompt: prompt})

	data, err := json.MarshalIndent(reportOutput{Report: doc, FinancialData: rep, AIPowered: author.Generative()}, "", "  ")
	if err != nil {
		return fmt.Errorf("encode report: %w", err)
	}

	if output == "" {
		fmt.Println(string(data))
		return nil
	}
	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", output, err)
	}
	log.Info().Str("file", output).Str("report_type", string(kind)).Msg("Report written")
	return nil
}
