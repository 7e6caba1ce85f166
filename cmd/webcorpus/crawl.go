package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/webcorpus/internal/config"
	"github.com/nao1215/webcorpus/internal/crawler"
	"github.com/nao1215/webcorpus/internal/database"
	"github.com/nao1215/webcorpus/internal/log"
	"github.com/nao1215/webcorpus/internal/model"
	"github.com/nao1215/webcorpus/internal/report"
	"github.com/nao1215/webcorpus/internal/sink"
)

// NewCrawlCmd creates the crawl command.
func NewCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl [url...]",
		Short: "Crawl the web from seed URLs and collect a page corpus",
		Long: `Crawl fetches pages breadth-first from the given seed URLs and writes
page snapshots as newline-delimited JSON files into the output directory.
Output files rotate at 10 MB (corpus_0.jsonl, corpus_1.jsonl, ...).

The run is bounded by a page budget (--num-pages), a link-following hop
limit (--hops-away), and an optional wall-clock deadline (--deadline).
Failed fetch attempts consume page budget just like successful ones.

Examples:
  # Crawl from a seed file, default bounds
  webcorpus crawl --seed-file seeds.txt

  # Crawl a single site two hops deep, at most 500 pages
  webcorpus crawl https://example.com --hops-away 2 --num-pages 500

  # Stay on the seed hosts and stop after five minutes
  webcorpus crawl --seed-file seeds.txt --same-host --deadline 5m

  # Output a Markdown run report to a file
  webcorpus crawl --seed-file seeds.txt --markdown --output report.md

Configuration file (.webcorpus) example:
  hosts:
    example.com:
      cookie: "session_id=abc123"
      headers:
        Authorization: "Bearer token"
      ignorePatterns:
        - "/logout*"`,
		Args: cobra.ArbitraryArgs,
		RunE: runCrawlCmd,
	}

	// Seed flags
	cmd.Flags().StringP("seed-file", "s", "",
		"File of seed URLs, one per line ('#' starts a comment)")

	// Bound flags
	cmd.Flags().IntP("num-pages", "p", config.DefaultMaxPages,
		"Page budget: maximum fetch attempts per run, counting failures")
	cmd.Flags().IntP("hops-away", "d", config.DefaultMaxHops,
		"Maximum link-following distance from the seeds (0 = seeds only)")
	cmd.Flags().Duration("deadline", config.DefaultDeadline,
		"Overall wall-clock bound for the run (0 = unbounded)")

	// Fetch behavior flags
	cmd.Flags().IntP("num-procs", "n", config.DefaultWorkers,
		"Number of concurrent fetches")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Per-request fetch timeout")
	cmd.Flags().Bool("same-host", false,
		"Only follow links to the hosts of the seed URLs")
	cmd.Flags().Bool("debug", false,
		"Enable verbose per-page logging (alias of --verbose)")
	cmd.Flags().String("user-agent", config.DefaultUserAgent,
		"User-Agent header sent with every request")

	// Output flags
	cmd.Flags().String("output-dir", config.DefaultOutputDir,
		"Directory for corpus output files")
	cmd.Flags().Bool("no-db", false,
		"Do not record results and run history in the local database")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .webcorpus in current or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Output JSON run report (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown run report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write the run report to specified file path (creates directories if needed)")

	return cmd
}

// runCrawlCmd executes the crawl command.
func runCrawlCmd(cmd *cobra.Command, args []string) error {
	// Build config from flags
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	// Set up structured logging with credential sanitization
	logger := log.NewSecureLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	// Set up context with signal handling for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle interrupt signals
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runCrawl(ctx, cfg, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildConfig creates a Config from cobra command flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	cfg.Verbose = getVerboseFlag(cmd)
	if debug, err := cmd.Flags().GetBool("debug"); err == nil && debug {
		cfg.Verbose = true
	}

	var err error

	cfg.SeedFile, err = cmd.Flags().GetString("seed-file")
	if err != nil {
		return nil, err
	}

	cfg.MaxPages, err = cmd.Flags().GetInt("num-pages")
	if err != nil {
		return nil, err
	}

	cfg.MaxHops, err = cmd.Flags().GetInt("hops-away")
	if err != nil {
		return nil, err
	}

	cfg.Deadline, err = cmd.Flags().GetDuration("deadline")
	if err != nil {
		return nil, err
	}

	cfg.Workers, err = cmd.Flags().GetInt("num-procs")
	if err != nil {
		return nil, err
	}

	cfg.Timeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, err
	}

	cfg.SameHostOnly, err = cmd.Flags().GetBool("same-host")
	if err != nil {
		return nil, err
	}

	cfg.UserAgent, err = cmd.Flags().GetString("user-agent")
	if err != nil {
		return nil, err
	}

	cfg.OutputDir, err = cmd.Flags().GetString("output-dir")
	if err != nil {
		return nil, err
	}

	noDB, err := cmd.Flags().GetBool("no-db")
	if err != nil {
		return nil, err
	}
	cfg.SaveToDB = !noDB
	cfg.DBDir = config.XDGDataDir()

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// Load per-host configurations from config file.
	// If user explicitly specified a config file path, error if not found.
	// If no path specified, silently use empty config if no file found.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		cfg.HostConfigs, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	} else if explicitConfigPath {
		// User explicitly specified a config file that doesn't exist
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	} else {
		// Use empty config if no file found and user didn't explicitly specify one
		cfg.HostConfigs = &config.File{
			Hosts: make(map[string]config.HostConfig),
		}
	}

	cfg.JSONReport, err = cmd.Flags().GetBool("json")
	if err != nil {
		return nil, err
	}

	cfg.MarkdownReport, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return nil, err
	}

	cfg.ReportFile, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	// Collect seeds: positional arguments plus the seed file
	cfg.Seeds = args
	if cfg.SeedFile != "" {
		fileSeeds, err := config.LoadSeeds(cfg.SeedFile)
		if err != nil {
			return nil, err
		}
		cfg.Seeds = append(cfg.Seeds, fileSeeds...)
	}

	return cfg, nil
}

// runCrawl executes the crawl.
func runCrawl(ctx context.Context, cfg *config.Config, logger *slog.Logger) error {
	logger.Info("starting crawl",
		"seeds", len(cfg.Seeds),
		"numPages", cfg.MaxPages,
		"hopsAway", cfg.MaxHops,
		"workers", cfg.Workers,
		"outputDir", cfg.OutputDir,
		"saveToDB", cfg.SaveToDB,
	)

	// Open database connection if saving is enabled
	var db *database.CrawlDB
	if cfg.SaveToDB {
		var err error
		db, err = database.Open(cfg.DBDir, database.DefaultOptions())
		if err != nil {
			return fmt.Errorf("failed to open database: %w", err)
		}
		defer db.Close()
		logger.Info("database opened", "dir", cfg.DBDir)
	}

	// Always write the JSONL corpus; add the database sink when enabled
	jsonlSink, err := sink.NewJSONLSink(cfg.OutputDir)
	if err != nil {
		return fmt.Errorf("failed to open output directory: %w", err)
	}

	var out sink.Sink = jsonlSink
	if db != nil {
		out = sink.NewMultiSink(jsonlSink, database.NewDBSink(db))
	}
	defer func() {
		if err := out.Close(); err != nil {
			logger.Error("failed to close corpus output", "error", err)
		}
	}()

	// Build the crawler with per-host overrides from the config file
	c := crawler.New(buildCrawlerOptions(cfg, out, logger)...)

	fmt.Printf("Crawling %d seed(s)...\n", len(cfg.Seeds))
	summary, err := c.Crawl(ctx, cfg.Seeds)
	if err != nil {
		return fmt.Errorf("crawl failed: %w", err)
	}

	fmt.Printf("Crawl stopped: %s (%d pages in %s)\n\n",
		summary.StopReason.String(), summary.Attempts(), summary.Elapsed.Round(10*time.Millisecond))

	// Output the run report
	if err := outputReport(cfg, summary); err != nil {
		logger.Error("report failed", "error", err)
	}

	// Record the run for the history command
	if db != nil {
		if err := db.SaveRunSummary(ctx, summary); err != nil {
			logger.Error("failed to save run summary", "error", err)
		} else {
			logger.Info("run summary saved to database")
		}
	}

	return nil
}

// buildCrawlerOptions translates the CLI configuration into engine options.
// Per-host overrides (cookie, headers, patterns) come from the host config
// of the first seed's host; the engine applies one policy per run.
func buildCrawlerOptions(cfg *config.Config, out sink.Sink, logger *slog.Logger) []crawler.Option {
	opts := []crawler.Option{
		crawler.WithMaxPages(cfg.MaxPages),
		crawler.WithMaxHops(cfg.MaxHops),
		crawler.WithWorkers(cfg.Workers),
		crawler.WithRequestTimeout(cfg.Timeout),
		crawler.WithDeadline(cfg.Deadline),
		crawler.WithUserAgent(cfg.UserAgent),
		crawler.WithMaxBodySize(cfg.MaxBodySize),
		crawler.WithSameHostOnly(cfg.SameHostOnly),
		crawler.WithSink(out),
		crawler.WithLogger(logger),
	}

	if cfg.HostConfigs == nil {
		return opts
	}

	hc := cfg.HostConfigs.GetHostConfig(firstSeedHost(cfg.Seeds))
	if hc.Cookie != "" {
		opts = append(opts, crawler.WithCookie(hc.Cookie))
	}
	if len(hc.Headers) > 0 {
		opts = append(opts, crawler.WithHeaders(hc.Headers))
	}
	if hc.MaxHops > 0 {
		opts = append(opts, crawler.WithMaxHops(hc.MaxHops))
	}
	if len(hc.IgnorePatterns) > 0 {
		opts = append(opts, crawler.WithIgnorePatterns(hc.IgnorePatterns))
	}
	if len(hc.FollowPatterns) > 0 {
		opts = append(opts, crawler.WithFollowPatterns(hc.FollowPatterns))
	}

	return opts
}

// firstSeedHost returns the hostname of the first parseable seed URL.
func firstSeedHost(seeds []string) string {
	for _, seed := range seeds {
		if u, err := url.Parse(seed); err == nil && u.Hostname() != "" {
			return u.Hostname()
		}
	}
	return ""
}

// outputReport outputs the run report in the requested format.
func outputReport(cfg *config.Config, summary *model.RunSummary) error {
	// Determine output destination
	var output *os.File
	if cfg.ReportFile != "" {
		// Create directories if they don't exist
		dir := filepath.Dir(cfg.ReportFile)
		if dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0750); err != nil {
				return fmt.Errorf("failed to create output directory: %w", err)
			}
		}

		// Create/overwrite the output file with owner-only permissions
		f, err := os.OpenFile(cfg.ReportFile, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0600)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer f.Close()
		output = f
	} else {
		output = os.Stdout
	}

	// JSON output with version metadata
	if cfg.JSONReport {
		writer := report.NewFullJSONWriter(output, getVersion(), report.WithPrettyPrint())
		_, err := writer.Write(summary)
		return err
	}

	// Markdown output
	if cfg.MarkdownReport {
		writer := report.NewMarkdownWriter(output)
		_, err := writer.Write(summary)
		return err
	}

	// Human-readable report (default)
	writer := report.NewSimpleWriter(output, report.WithVerbose(cfg.Verbose))
	_, err := writer.Write(summary)
	return err
}
