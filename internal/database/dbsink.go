package database

import (
	"context"

	"github.com/nao1215/webcorpus/internal/model"
)

// DBSink adapts a CrawlDB to the crawl engine's result sink contract so
// pages land in SQLite as they are fetched. It satisfies sink.Sink.
//
// Close is a no-op: the CrawlDB outlives the crawl because the history
// data is read back after the run, so ownership stays with the caller.
type DBSink struct {
	db *CrawlDB
}

// NewDBSink creates a sink writing crawl results into db.
func NewDBSink(db *CrawlDB) *DBSink {
	return &DBSink{db: db}
}

// Write stores one crawl result.
func (s *DBSink) Write(result *model.CrawlResult) error {
	_, err := s.db.InsertResult(context.Background(), result)
	return err
}

// Close is a no-op; the underlying CrawlDB is closed by its owner.
func (s *DBSink) Close() error { return nil }
