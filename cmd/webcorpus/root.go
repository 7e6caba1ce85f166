// Package main provides the entry point for the webcorpus CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for webcorpus.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "webcorpus",
		Short: "Bounded parallel web crawler for offline corpus collection",
		Long: `Webcorpus crawls the web breadth-first from a set of seed URLs and
collects page snapshots into newline-delimited JSON files for offline analysis.

Every run is bounded three ways at once: a page budget, a link-following hop
limit, and an optional wall-clock deadline. The crawl stops as soon as any
bound is hit, or earlier if all reachable pages have been attempted.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewCrawlCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
