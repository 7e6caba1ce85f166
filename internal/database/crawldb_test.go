package database

import (
	"context"
	"testing"
	"time"

	"github.com/nao1215/webcorpus/internal/model"
)

func openTestDB(t *testing.T) *CrawlDB {
	t.Helper()

	db, err := Open(t.TempDir(), DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() {
		if err := db.Close(); err != nil {
			t.Errorf("failed to close database: %v", err)
		}
	})
	return db
}

func sampleResult(identity string) *model.CrawlResult {
	return &model.CrawlResult{
		Identity:       identity,
		URL:            identity,
		Hop:            1,
		DiscoveredFrom: "http://example.com/",
		Status:         model.StatusSuccess,
		StatusCode:     200,
		ContentType:    "text/html",
		Title:          "Sample Page",
		Snapshot:       "<html><body>sample</body></html>",
		Hash:           "abc123",
		Links:          []string{"http://example.com/a", "http://example.com/b"},
		FetchedAt:      time.Now(),
	}
}

// TestOpen tests database creation semantics.
func TestOpen(t *testing.T) {
	t.Parallel()

	t.Run("creates database with default options", func(t *testing.T) {
		t.Parallel()

		db := openTestDB(t)
		if db == nil {
			t.Fatal("expected a database")
		}
	})

	t.Run("fails when database missing and creation disabled", func(t *testing.T) {
		t.Parallel()

		opts := Options{CreateIfNotExists: false}
		if _, err := Open(t.TempDir(), opts); err == nil {
			t.Error("expected an error for a missing database")
		}
	})
}

// TestInsertResult tests result storage and the identity UPSERT.
func TestInsertResult(t *testing.T) {
	t.Parallel()

	t.Run("stores and retrieves a result", func(t *testing.T) {
		t.Parallel()

		db := openTestDB(t)
		ctx := context.Background()

		want := sampleResult("http://example.com/page")
		if _, err := db.InsertResult(ctx, want); err != nil {
			t.Fatalf("failed to insert result: %v", err)
		}

		got, err := db.GetResult(ctx, want.Identity)
		if err != nil {
			t.Fatalf("failed to get result: %v", err)
		}
		if got == nil {
			t.Fatal("result not found")
		}

		if got.URL != want.URL {
			t.Errorf("url = %q, want %q", got.URL, want.URL)
		}
		if got.Hop != want.Hop {
			t.Errorf("hop = %d, want %d", got.Hop, want.Hop)
		}
		if got.Status != model.StatusSuccess {
			t.Errorf("status = %q, want success", got.Status)
		}
		if got.Title != want.Title {
			t.Errorf("title = %q, want %q", got.Title, want.Title)
		}
		if got.Hash != want.Hash {
			t.Errorf("hash = %q, want %q", got.Hash, want.Hash)
		}
		if got.FetchedAt.IsZero() {
			t.Error("fetched_at not restored")
		}
	})

	t.Run("duplicate identity updates in place", func(t *testing.T) {
		t.Parallel()

		db := openTestDB(t)
		ctx := context.Background()

		first := sampleResult("http://example.com/page")
		if _, err := db.InsertResult(ctx, first); err != nil {
			t.Fatalf("failed to insert result: %v", err)
		}

		second := sampleResult("http://example.com/page")
		second.Title = "Updated Title"
		second.Hash = "def456"
		if _, err := db.InsertResult(ctx, second); err != nil {
			t.Fatalf("failed to upsert result: %v", err)
		}

		count, err := db.CountResults(ctx)
		if err != nil {
			t.Fatalf("failed to count results: %v", err)
		}
		if count != 1 {
			t.Errorf("count = %d, want 1 after upsert", count)
		}

		got, err := db.GetResult(ctx, first.Identity)
		if err != nil {
			t.Fatalf("failed to get result: %v", err)
		}
		if got.Title != "Updated Title" {
			t.Errorf("title = %q, want updated value", got.Title)
		}
	})

	t.Run("stores failed results", func(t *testing.T) {
		t.Parallel()

		db := openTestDB(t)
		ctx := context.Background()

		r := &model.CrawlResult{
			Identity:      "http://example.com/broken",
			URL:           "http://example.com/broken",
			Status:        model.StatusFailed,
			FailureReason: "timeout",
			FetchedAt:     time.Now(),
		}
		if _, err := db.InsertResult(ctx, r); err != nil {
			t.Fatalf("failed to insert result: %v", err)
		}

		got, err := db.GetResult(ctx, r.Identity)
		if err != nil {
			t.Fatalf("failed to get result: %v", err)
		}
		if got.Status != model.StatusFailed {
			t.Errorf("status = %q, want failed", got.Status)
		}
		if got.FailureReason != "timeout" {
			t.Errorf("failure reason = %q, want timeout", got.FailureReason)
		}
	})

	t.Run("unknown identity returns nil", func(t *testing.T) {
		t.Parallel()

		db := openTestDB(t)

		got, err := db.GetResult(context.Background(), "http://example.com/absent")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != nil {
			t.Errorf("expected nil for missing row, got %+v", got)
		}
	})
}

// TestRunSummaries tests run history storage.
func TestRunSummaries(t *testing.T) {
	t.Parallel()

	t.Run("stores and lists runs newest first", func(t *testing.T) {
		t.Parallel()

		db := openTestDB(t)
		ctx := context.Background()

		old := &model.RunSummary{
			Seeds:        1,
			PagesCrawled: 10,
			StopReason:   model.StopExhausted,
			StartedAt:    time.Now().Add(-time.Hour),
			Elapsed:      30 * time.Second,
		}
		recent := &model.RunSummary{
			Seeds:        2,
			PagesCrawled: 50,
			PagesFailed:  3,
			StopReason:   model.StopBudget,
			StartedAt:    time.Now(),
			Elapsed:      2 * time.Minute,
		}

		for _, s := range []*model.RunSummary{old, recent} {
			if err := db.SaveRunSummary(ctx, s); err != nil {
				t.Fatalf("failed to save run summary: %v", err)
			}
		}

		records, err := db.ListRunSummaries(ctx, 0)
		if err != nil {
			t.Fatalf("failed to list run summaries: %v", err)
		}
		if len(records) != 2 {
			t.Fatalf("got %d records, want 2", len(records))
		}
		if records[0].Summary.PagesCrawled != 50 {
			t.Errorf("newest run first: got PagesCrawled = %d, want 50", records[0].Summary.PagesCrawled)
		}
		if records[0].Summary.StopReason != model.StopBudget {
			t.Errorf("stop reason = %v, want budget", records[0].Summary.StopReason)
		}
	})

	t.Run("limit caps the listing", func(t *testing.T) {
		t.Parallel()

		db := openTestDB(t)
		ctx := context.Background()

		for i := 0; i < 5; i++ {
			s := &model.RunSummary{
				Seeds:     1,
				StartedAt: time.Now().Add(time.Duration(i) * time.Minute),
			}
			if err := db.SaveRunSummary(ctx, s); err != nil {
				t.Fatalf("failed to save run summary: %v", err)
			}
		}

		records, err := db.ListRunSummaries(ctx, 3)
		if err != nil {
			t.Fatalf("failed to list run summaries: %v", err)
		}
		if len(records) != 3 {
			t.Errorf("got %d records, want 3", len(records))
		}
	})

	t.Run("fetches a run by id", func(t *testing.T) {
		t.Parallel()

		db := openTestDB(t)
		ctx := context.Background()

		s := &model.RunSummary{Seeds: 4, PagesCrawled: 7, StartedAt: time.Now()}
		if err := db.SaveRunSummary(ctx, s); err != nil {
			t.Fatalf("failed to save run summary: %v", err)
		}

		records, err := db.ListRunSummaries(ctx, 1)
		if err != nil || len(records) != 1 {
			t.Fatalf("listing failed: %v (%d records)", err, len(records))
		}

		got, err := db.GetRunSummaryByID(ctx, records[0].ID)
		if err != nil {
			t.Fatalf("failed to get run summary: %v", err)
		}
		if got == nil || got.PagesCrawled != 7 {
			t.Errorf("got %+v, want PagesCrawled = 7", got)
		}
	})

	t.Run("unknown id returns nil", func(t *testing.T) {
		t.Parallel()

		db := openTestDB(t)

		got, err := db.GetRunSummaryByID(context.Background(), 9999)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != nil {
			t.Errorf("expected nil for missing row, got %+v", got)
		}
	})
}

// TestDBSink tests the crawl sink adapter.
func TestDBSink(t *testing.T) {
	t.Parallel()

	db := openTestDB(t)
	s := NewDBSink(db)

	if err := s.Write(sampleResult("http://example.com/via-sink")); err != nil {
		t.Fatalf("sink write failed: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("sink close failed: %v", err)
	}

	got, err := db.GetResult(context.Background(), "http://example.com/via-sink")
	if err != nil {
		t.Fatalf("failed to get result: %v", err)
	}
	if got == nil {
		t.Fatal("result written through sink not found")
	}
}

// TestParseTimestamp tests the multi-format timestamp parser.
func TestParseTimestamp(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in       string
		wantZero bool
	}{
		{"2026-08-25 10:30:00", false},
		{"2026-08-25T10:30:00Z", false},
		{"2026-08-25T10:30:00", false},
		{"not a timestamp", true},
		{"", true},
	}

	for _, tt := range tests {
		got := parseTimestamp(tt.in)
		if got.IsZero() != tt.wantZero {
			t.Errorf("parseTimestamp(%q).IsZero() = %v, want %v", tt.in, got.IsZero(), tt.wantZero)
		}
	}
}
