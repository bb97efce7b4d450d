package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/concertbot/concertbot/internal/history"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent ingestion and answer outcomes",
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().Int("limit", 20, "maximum number of entries")
	historyCmd.Flags().String("kind", "", "filter by kind: ingest, answer")
	rootCmd.AddCommand(historyCmd)
}

func runHistory(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	limit, _ := cmd.Flags().GetInt("limit")
	kind, _ := cmd.Flags().GetString("kind")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	hist, closeHist, err := openHistory(cfg)
	if err != nil {
		return err
	}
	defer closeHist()

	entries, err := hist.Query(ctx, history.QueryFilter{
		Kind:  history.Kind(kind),
		Limit: limit,
	})
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		fmt.Println("No history yet.")
		return nil
	}

	for _, e := range entries {
		fmt.Printf("%s  %-6s  %-22s  %s\n",
			e.Timestamp.Format(time.DateTime), e.Kind, e.Outcome, truncate(e.Subject, 60))
		if verbose && e.Detail != "" {
			fmt.Printf("    %s\n", truncate(strings.ReplaceAll(e.Detail, "\n", " "), 120))
		}
	}
	return nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
