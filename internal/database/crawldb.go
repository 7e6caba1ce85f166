package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/nao1215/webcorpus/internal/model"
)

// CrawlDB provides SQLite-based storage for crawl results and run
// summaries. It manages connection pooling and provides methods for CRUD
// operations.
//
// Design decision: We use a single database file for all runs rather than
// one file per run. This keeps the history command a simple query and
// makes backup/restore a one-file operation.
type CrawlDB struct {
	// db is the underlying SQL database connection.
	db *sql.DB

	// dbPath is the path to the SQLite database file.
	dbPath string
}

// Options configures CrawlDB behavior.
type Options struct {
	// CreateIfNotExists creates the database file if it doesn't exist.
	CreateIfNotExists bool

	// EnableWAL enables Write-Ahead Logging for better concurrent performance.
	// This is recommended for most use cases.
	EnableWAL bool
}

// DefaultOptions returns the default database options.
func DefaultOptions() Options {
	return Options{
		CreateIfNotExists: true,
		EnableWAL:         true,
	}
}

// Open opens or creates a CrawlDB at the specified path.
// If CreateIfNotExists is true, the directory and database file are created.
// If CreateIfNotExists is false and the database doesn't exist, an error is returned.
func Open(dbDir string, opts Options) (*CrawlDB, error) {
	dbPath := filepath.Join(dbDir, "webcorpus.db")

	// Check if we should create the database or require it to exist
	if !opts.CreateIfNotExists {
		// Check if database file exists
		if _, err := os.Stat(dbPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("database not found at %s (use CreateIfNotExists option to create)", dbPath)
		} else if err != nil {
			return nil, fmt.Errorf("failed to check database path: %w", err)
		}
	} else {
		// Ensure directory exists
		if err := os.MkdirAll(dbDir, 0750); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}

	// Build connection string
	// We use modernc.org/sqlite which uses a different connection string format.
	// When CreateIfNotExists is false, we use mode=rw to prevent creating new files.
	// When CreateIfNotExists is true, we use mode=rwc to allow creation.
	var dsn string
	if opts.CreateIfNotExists {
		dsn = dbPath + "?mode=rwc"
	} else {
		dsn = dbPath + "?mode=rw"
	}

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// Configure connection pool
	// SQLite doesn't benefit from multiple connections for writes,
	// and crawl workers write concurrently through this one connection
	db.SetMaxOpenConns(1) // SQLite only supports one writer
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	cdb := &CrawlDB{
		db:     db,
		dbPath: dbPath,
	}

	// Enable WAL mode if requested
	if opts.EnableWAL {
		if _, err := db.ExecContext(context.Background(), "PRAGMA journal_mode=WAL"); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
		}
	}

	// Create tables
	if err := cdb.createTables(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	return cdb, nil
}

// Close closes the database connection.
func (cdb *CrawlDB) Close() error {
	return cdb.db.Close()
}

// createTables creates the database schema if it doesn't exist.
func (cdb *CrawlDB) createTables() error {
	schema := `
	-- Crawl results store individual page fetches, keyed by the
	-- normalized URL identity so re-crawls update in place
	CREATE TABLE IF NOT EXISTS crawl_results (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		identity TEXT NOT NULL UNIQUE,
		url TEXT NOT NULL,
		hop INTEGER NOT NULL DEFAULT 0,
		discovered_from TEXT,
		status TEXT NOT NULL,
		failure_reason TEXT,
		status_code INTEGER,
		content_type TEXT,
		title TEXT,
		snapshot TEXT,
		hash TEXT,
		link_count INTEGER NOT NULL DEFAULT 0,
		fetched_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_results_url ON crawl_results(url);
	CREATE INDEX IF NOT EXISTS idx_results_status ON crawl_results(status);
	CREATE INDEX IF NOT EXISTS idx_results_fetched_at ON crawl_results(fetched_at);

	-- Run summaries store one row per completed crawl
	CREATE TABLE IF NOT EXISTS run_summaries (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		started_at DATETIME NOT NULL,
		seeds INTEGER NOT NULL,
		pages_crawled INTEGER NOT NULL,
		pages_failed INTEGER NOT NULL,
		links_discovered INTEGER NOT NULL,
		unique_urls INTEGER NOT NULL,
		stop_reason TEXT NOT NULL,
		elapsed_ms INTEGER NOT NULL,
		summary_json TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_summaries_started_at ON run_summaries(started_at);
	`

	_, err := cdb.db.ExecContext(context.Background(), schema)
	return err
}

// InsertResult inserts or updates a crawl result.
// Uses UPSERT keyed on the URL identity so a later run that re-fetches the
// same page replaces the stale row.
func (cdb *CrawlDB) InsertResult(ctx context.Context, result *model.CrawlResult) (int64, error) {
	query := `
	INSERT INTO crawl_results (identity, url, hop, discovered_from, status, failure_reason,
		status_code, content_type, title, snapshot, hash, link_count, fetched_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(identity) DO UPDATE SET
		url = excluded.url,
		hop = excluded.hop,
		discovered_from = excluded.discovered_from,
		status = excluded.status,
		failure_reason = excluded.failure_reason,
		status_code = excluded.status_code,
		content_type = excluded.content_type,
		title = excluded.title,
		snapshot = excluded.snapshot,
		hash = excluded.hash,
		link_count = excluded.link_count,
		fetched_at = excluded.fetched_at
	`

	res, err := cdb.db.ExecContext(ctx, query,
		result.Identity,
		result.URL,
		result.Hop,
		result.DiscoveredFrom,
		string(result.Status),
		result.FailureReason,
		result.StatusCode,
		result.ContentType,
		result.Title,
		result.Snapshot,
		result.Hash,
		len(result.Links),
		result.FetchedAt.UTC().Format("2006-01-02 15:04:05"),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert crawl result: %w", err)
	}

	return res.LastInsertId()
}

// GetResult retrieves a stored crawl result by its URL identity.
// Returns nil without error when no row exists.
func (cdb *CrawlDB) GetResult(ctx context.Context, identity string) (*model.CrawlResult, error) {
	query := `
	SELECT identity, url, hop, discovered_from, status, failure_reason,
		status_code, content_type, title, snapshot, hash, fetched_at
	FROM crawl_results
	WHERE identity = ?
	`

	var result model.CrawlResult
	var status, fetchedAt string

	err := cdb.db.QueryRowContext(ctx, query, identity).Scan(
		&result.Identity,
		&result.URL,
		&result.Hop,
		&result.DiscoveredFrom,
		&status,
		&result.FailureReason,
		&result.StatusCode,
		&result.ContentType,
		&result.Title,
		&result.Snapshot,
		&result.Hash,
		&fetchedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get crawl result: %w", err)
	}

	result.Status = model.CrawlStatus(status)
	result.FetchedAt = parseTimestamp(fetchedAt)

	return &result, nil
}

// CountResults returns the number of stored crawl results.
func (cdb *CrawlDB) CountResults(ctx context.Context) (int, error) {
	var count int
	err := cdb.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM crawl_results").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count crawl results: %w", err)
	}
	return count, nil
}

// SaveRunSummary stores one completed run.
// The full summary is kept as JSON alongside the indexed columns so future
// fields survive without schema migrations.
func (cdb *CrawlDB) SaveRunSummary(ctx context.Context, summary *model.RunSummary) error {
	summaryJSON, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to serialize run summary: %w", err)
	}

	query := `
	INSERT INTO run_summaries (started_at, seeds, pages_crawled, pages_failed,
		links_discovered, unique_urls, stop_reason, elapsed_ms, summary_json)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = cdb.db.ExecContext(ctx, query,
		summary.StartedAt.UTC().Format("2006-01-02 15:04:05"),
		summary.Seeds,
		summary.PagesCrawled,
		summary.PagesFailed,
		summary.LinksDiscovered,
		summary.UniqueURLs,
		summary.StopReason.String(),
		summary.Elapsed.Milliseconds(),
		string(summaryJSON),
	)
	if err != nil {
		return fmt.Errorf("failed to save run summary: %w", err)
	}

	return nil
}

// RunRecord contains one stored run summary with its database ID.
type RunRecord struct {
	// ID is the unique identifier of the run in the database.
	ID int64

	// Summary is the stored run summary.
	Summary *model.RunSummary
}

// ListRunSummaries retrieves stored run summaries, newest first.
// limit <= 0 means no limit.
func (cdb *CrawlDB) ListRunSummaries(ctx context.Context, limit int) ([]RunRecord, error) {
	query := `
	SELECT id, summary_json FROM run_summaries
	ORDER BY started_at DESC, id DESC
	`
	args := make([]any, 0, 1)
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := cdb.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list run summaries: %w", err)
	}
	defer rows.Close()

	var records []RunRecord
	for rows.Next() {
		var id int64
		var summaryJSON string
		if err := rows.Scan(&id, &summaryJSON); err != nil {
			return nil, fmt.Errorf("failed to scan run summary: %w", err)
		}

		var summary model.RunSummary
		if err := json.Unmarshal([]byte(summaryJSON), &summary); err != nil {
			continue // Skip malformed summaries
		}
		records = append(records, RunRecord{ID: id, Summary: &summary})
	}

	return records, rows.Err()
}

// GetRunSummaryByID retrieves a run summary by its database ID.
// Returns nil without error when no row exists.
func (cdb *CrawlDB) GetRunSummaryByID(ctx context.Context, id int64) (*model.RunSummary, error) {
	query := `
	SELECT summary_json FROM run_summaries
	WHERE id = ?
	`

	var summaryJSON string
	err := cdb.db.QueryRowContext(ctx, query, id).Scan(&summaryJSON)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run summary: %w", err)
	}

	var summary model.RunSummary
	if err := json.Unmarshal([]byte(summaryJSON), &summary); err != nil {
		return nil, fmt.Errorf("failed to parse run summary: %w", err)
	}

	return &summary, nil
}

// timestampFormats contains the timestamp formats that SQLite may return.
// The order matters: more specific formats should come first.
var timestampFormats = []string{
	"2006-01-02 15:04:05",     // SQLite default datetime format
	"2006-01-02T15:04:05Z",    // ISO 8601 with Z suffix
	"2006-01-02T15:04:05",     // ISO 8601 without timezone
	time.RFC3339,              // Full RFC3339 format
	time.RFC3339Nano,          // RFC3339 with nanoseconds
	"2006-01-02 15:04:05.999", // SQLite with milliseconds
}

// parseTimestamp attempts to parse a timestamp string using multiple formats.
// SQLite may return timestamps in different formats depending on configuration.
// If parsing fails with all formats, returns zero time.
func parseTimestamp(s string) time.Time {
	for _, format := range timestampFormats {
		if t, err := time.Parse(format, s); err == nil {
			return t
		}
	}
	// Return zero time if no format matches
	// This is a fallback to avoid breaking functionality for edge cases
	return time.Time{}
}
