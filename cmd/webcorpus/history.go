package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/webcorpus/internal/config"
	"github.com/nao1215/webcorpus/internal/database"
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show past crawl runs recorded in the local database",
		Long: `History lists the crawl runs recorded in the local database,
newest first. Each row shows when the run started, how many pages were
crawled and failed, and why the run stopped.

Runs are recorded automatically unless crawl is invoked with --no-db.`,
		RunE: runHistoryCmd,
	}

	cmd.Flags().IntP("limit", "l", 10, "Maximum number of runs to show")
	cmd.Flags().Int64("id", 0, "Show a single run in detail by its ID")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, _ []string) error {
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	id, err := cmd.Flags().GetInt64("id")
	if err != nil {
		return err
	}

	db, err := database.Open(config.XDGDataDir(), database.Options{
		CreateIfNotExists: false,
		EnableWAL:         true,
	})
	if err != nil {
		fmt.Fprintln(cmd.OutOrStdout(), "No crawl history yet. Run 'webcorpus crawl' first.")
		return nil
	}
	defer db.Close()

	if id != 0 {
		return showRun(cmd, db, id)
	}
	return listRuns(cmd, db, limit)
}

// listRuns prints a table of recent runs.
func listRuns(cmd *cobra.Command, db *database.CrawlDB, limit int) error {
	records, err := db.ListRunSummaries(cmd.Context(), limit)
	if err != nil {
		return fmt.Errorf("failed to list crawl history: %w", err)
	}
	if len(records) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No crawl history yet. Run 'webcorpus crawl' first.")
		return nil
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%-5s %-20s %-8s %-8s %-8s %-16s %s\n",
		"ID", "STARTED", "CRAWLED", "FAILED", "LINKS", "STOP REASON", "ELAPSED")
	fmt.Fprintln(out, strings.Repeat("-", 80))

	for _, rec := range records {
		s := rec.Summary
		fmt.Fprintf(out, "%-5d %-20s %-8d %-8d %-8d %-16s %s\n",
			rec.ID,
			s.StartedAt.Local().Format("2006-01-02 15:04:05"),
			s.PagesCrawled,
			s.PagesFailed,
			s.LinksDiscovered,
			s.StopReason.String(),
			s.Elapsed.Round(time.Millisecond),
		)
	}
	return nil
}

// showRun prints the full detail of one recorded run.
func showRun(cmd *cobra.Command, db *database.CrawlDB, id int64) error {
	summary, err := db.GetRunSummaryByID(cmd.Context(), id)
	if err != nil {
		return fmt.Errorf("failed to load run %d: %w", id, err)
	}
	if summary == nil {
		return fmt.Errorf("no run with ID %d", id)
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Run %d\n", id)
	fmt.Fprintf(out, "  Started:          %s\n", summary.StartedAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(out, "  Elapsed:          %s\n", summary.Elapsed.Round(time.Millisecond))
	fmt.Fprintf(out, "  Seeds:            %d\n", summary.Seeds)
	fmt.Fprintf(out, "  Pages crawled:    %d\n", summary.PagesCrawled)
	fmt.Fprintf(out, "  Pages failed:     %d\n", summary.PagesFailed)
	fmt.Fprintf(out, "  Links discovered: %d\n", summary.LinksDiscovered)
	fmt.Fprintf(out, "  Unique URLs:      %d\n", summary.UniqueURLs)
	fmt.Fprintf(out, "  Stop reason:      %s\n", summary.StopReason.String())
	return nil
}
