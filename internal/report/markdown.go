package report

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
	"github.com/nao1215/webcorpus/internal/model"
)

// MarkdownWriter outputs run summaries in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
// 1. Type-safe markdown generation
// 2. Support for tables, lists, and code blocks
// 3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the run summary in Markdown format.
func (w *MarkdownWriter) Write(summary *model.RunSummary) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, summary)
	w.writeCounts(md, summary)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with run information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, summary *model.RunSummary) {
	md.H1("Webcorpus Crawl Report")
	md.PlainText("")

	// Basic info table
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Started", summary.StartedAt.Format("2006-01-02 15:04:05 MST")},
			{"Elapsed", summary.Elapsed.Round(10 * time.Millisecond).String()},
			{"Stop Reason", w.getStopText(summary)},
			{"Seeds", strconv.Itoa(summary.Seeds)},
		},
	})
	md.PlainText("")
}

// getStopText returns a decorated stop reason.
func (w *MarkdownWriter) getStopText(summary *model.RunSummary) string {
	switch summary.StopReason {
	case model.StopBudget:
		return "📦 Page budget reached"
	case model.StopDeadline:
		return "⏰ Deadline reached"
	case model.StopExhausted:
		return "✅ Frontier exhausted"
	case model.StopCanceled:
		return "🛑 Canceled"
	default:
		return summary.StopReason.String()
	}
}

// writeCounts writes the crawl counters section.
func (w *MarkdownWriter) writeCounts(md *markdown.Markdown, summary *model.RunSummary) {
	md.H2("Crawl Summary")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Metric", "Count"},
		Rows: [][]string{
			{"🟢 Pages crawled", strconv.Itoa(summary.PagesCrawled)},
			{"🔴 Pages failed", strconv.Itoa(summary.PagesFailed)},
			{"**Total attempts**", "**" + strconv.Itoa(summary.Attempts()) + "**"},
			{"Links discovered", strconv.Itoa(summary.LinksDiscovered)},
			{"Unique URLs seen", strconv.Itoa(summary.UniqueURLs)},
		},
	})
	md.PlainText("")

	// Add pie chart if any attempts completed
	if summary.Attempts() > 0 {
		w.writePieChart(md, summary)
	}

	// Add alert based on the failure rate
	w.writeAlert(md, summary)
}

// writePieChart writes a mermaid pie chart for the success/failure split.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, summary *model.RunSummary) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Fetch Outcomes"),
		piechart.WithShowData(true),
	)

	if summary.PagesCrawled > 0 {
		chart.LabelAndIntValue("Crawled", uint64(summary.PagesCrawled))
	}
	if summary.PagesFailed > 0 {
		chart.LabelAndIntValue("Failed", uint64(summary.PagesFailed))
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeAlert writes an appropriate alert based on the run outcome.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, summary *model.RunSummary) {
	switch {
	case summary.Attempts() == 0:
		md.Warningf("No pages were fetched. Check the seed URLs and network connectivity.")
	case summary.PagesFailed > summary.PagesCrawled:
		md.Warningf(
			"More fetches failed (%d) than succeeded (%d). The crawled hosts may be rate limiting or unreachable.",
			summary.PagesFailed, summary.PagesCrawled,
		)
	case summary.PagesFailed > 0:
		md.Note(fmt.Sprintf("%d fetch attempt(s) failed and consumed page budget.", summary.PagesFailed))
	default:
		md.Tip("All fetch attempts succeeded.")
	}
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [webcorpus](https://github.com/nao1215/webcorpus)*")
}
