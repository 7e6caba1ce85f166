package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/nao1215/webcorpus/internal/model"
)

// SimpleWriter outputs human-readable text reports.
// This format is designed for terminal display with clear section
// formatting.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors by default because:
// 1. It works in all terminals without compatibility issues
// 2. It's easier to pipe to files or other tools
// 3. Color can be added as an option later if needed
type SimpleWriter struct {
	baseWriter

	// verbose enables additional detail in the output.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
		verbose:    false,
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the run summary in human-readable format.
func (w *SimpleWriter) Write(summary *model.RunSummary) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, summary)
	w.writeCounts(&sb, summary)
	w.writeFooter(&sb)

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the report header with run information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, summary *model.RunSummary) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                        WEBCORPUS CRAWL REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("Started:      %s\n", summary.StartedAt.Format("2006-01-02 15:04:05 MST")))
	sb.WriteString(fmt.Sprintf("Elapsed:      %s\n", summary.Elapsed.Round(10*time.Millisecond)))
	sb.WriteString(fmt.Sprintf("Stop Reason:  %s\n", summary.StopReason.String()))
	sb.WriteString("\n")
}

// writeCounts writes the crawl counters section.
func (w *SimpleWriter) writeCounts(sb *strings.Builder, summary *model.RunSummary) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString("CRAWL SUMMARY\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")

	sb.WriteString(fmt.Sprintf("  Seeds:            %d\n", summary.Seeds))
	sb.WriteString(fmt.Sprintf("  Pages crawled:    %d\n", summary.PagesCrawled))
	sb.WriteString(fmt.Sprintf("  Pages failed:     %d\n", summary.PagesFailed))
	sb.WriteString(fmt.Sprintf("  Total attempts:   %d\n", summary.Attempts()))
	sb.WriteString("\n")
	sb.WriteString(fmt.Sprintf("  Links discovered: %d\n", summary.LinksDiscovered))
	sb.WriteString(fmt.Sprintf("  Unique URLs seen: %d\n", summary.UniqueURLs))

	if w.verbose && summary.Elapsed > 0 && summary.Attempts() > 0 {
		perPage := summary.Elapsed / time.Duration(summary.Attempts())
		sb.WriteString(fmt.Sprintf("  Avg per page:     %s\n", perPage.Round(10*time.Millisecond)))
	}
	sb.WriteString("\n")
}

// writeFooter writes the report footer.
func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("Report generated by webcorpus\n")
	sb.WriteString("https://github.com/nao1215/webcorpus\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}
