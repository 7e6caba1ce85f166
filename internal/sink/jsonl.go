package sink

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/nao1215/webcorpus/internal/model"
)

// DefaultMaxFileSize is the size at which a corpus file is rotated.
// 10 MB chunks keep individual files small enough for line-oriented
// tooling while avoiding a flood of tiny files.
const DefaultMaxFileSize = 10 * 1024 * 1024

// filePrefix is the base name of corpus files: corpus_0.jsonl,
// corpus_1.jsonl, and so on.
const filePrefix = "corpus"

// JSONLSink writes crawl results as newline-delimited JSON files under an
// output directory, rotating to the next numbered file once the current
// one reaches the size limit. Reopening an existing output directory
// appends to the first file that still has room, so successive runs into
// the same directory keep accumulating.
type JSONLSink struct {
	// mu serializes writes; pool workers call Write concurrently.
	mu sync.Mutex

	// dir is the output directory.
	dir string

	// maxFileSize is the rotation threshold in bytes.
	maxFileSize int64

	// file is the currently open corpus file.
	file *os.File

	// index is the numeric suffix of the current file.
	index int

	// size is the current file's size in bytes.
	size int64
}

// JSONLOption configures a JSONLSink.
type JSONLOption func(*JSONLSink)

// WithMaxFileSize overrides the rotation threshold.
func WithMaxFileSize(n int64) JSONLOption {
	return func(s *JSONLSink) {
		if n > 0 {
			s.maxFileSize = n
		}
	}
}

// NewJSONLSink creates the output directory if needed and opens the
// first corpus file with room to spare.
func NewJSONLSink(dir string, opts ...JSONLOption) (*JSONLSink, error) {
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	s := &JSONLSink{
		dir:         dir,
		maxFileSize: DefaultMaxFileSize,
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := s.openCurrent(); err != nil {
		return nil, err
	}
	return s, nil
}

// openCurrent finds the first file index that is absent or below the
// rotation threshold and opens it for appending.
func (s *JSONLSink) openCurrent() error {
	for {
		path := s.path(s.index)
		info, err := os.Stat(path)
		switch {
		case err == nil && info.Size() >= s.maxFileSize:
			s.index++
			continue
		case err != nil && !os.IsNotExist(err):
			return fmt.Errorf("stat corpus file: %w", err)
		}

		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
		if err != nil {
			return fmt.Errorf("open corpus file: %w", err)
		}
		s.file = f
		if info != nil {
			s.size = info.Size()
		} else {
			s.size = 0
		}
		return nil
	}
}

// path returns the corpus file path for an index.
func (s *JSONLSink) path(index int) string {
	return filepath.Join(s.dir, fmt.Sprintf("%s_%d.jsonl", filePrefix, index))
}

// Write appends one result as a JSON line, rotating first if the current
// file is full.
func (s *JSONLSink) Write(result *model.CrawlResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("serialize crawl result: %w", err)
	}
	data = append(data, '\n')

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.size >= s.maxFileSize {
		if err := s.rotateLocked(); err != nil {
			return err
		}
	}

	n, err := s.file.Write(data)
	s.size += int64(n)
	if err != nil {
		return fmt.Errorf("write crawl result: %w", err)
	}
	return nil
}

// rotateLocked closes the current file and opens the next index.
// Callers must hold s.mu.
func (s *JSONLSink) rotateLocked() error {
	if err := s.file.Close(); err != nil {
		return fmt.Errorf("close corpus file: %w", err)
	}
	s.index++
	s.size = 0

	f, err := os.OpenFile(s.path(s.index), os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0600)
	if err != nil {
		return fmt.Errorf("open corpus file: %w", err)
	}
	s.file = f
	return nil
}

// Close closes the current corpus file.
func (s *JSONLSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.file == nil {
		return nil
	}
	err := s.file.Close()
	s.file = nil
	return err
}
