package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/ironsheep/xai-saliency-mcp/internal/experiment"
)

// SummaryFileName is the Markdown summary written next to the CSV files.
const SummaryFileName = "summary.md"

// MarkdownWriter renders a run summary as GitHub flavoured Markdown.
type MarkdownWriter struct {
	output io.Writer
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to w.
func NewMarkdownWriter(w io.Writer) *MarkdownWriter {
	return &MarkdownWriter{output: w}
}

// Write renders the summary of run.
func (w *MarkdownWriter) Write(run *experiment.Run) error {
	md := markdown.NewMarkdown(w.output)
	summaries := run.Summaries()

	md.H1("XAI Saliency Evaluation")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Started", run.Started.Format("2006-01-02 15:04:05 MST")},
			{"Duration", run.Finished.Sub(run.Started).Round(time.Millisecond).String()},
			{"Slices", strconv.Itoa(len(run.Outcomes))},
			{"Tumours located", strconv.Itoa(tumoursLocated(run))},
		},
	})
	md.PlainText("")

	md.H2("Scores")
	md.PlainText("")
	rows := make([][]string, 0, len(summaries))
	for _, s := range summaries {
		rows = append(rows, []string{
			s.Method.DisplayName(),
			strconv.Itoa(s.Scored),
			strconv.Itoa(s.Failed),
			formatStat(s.Accuracy),
			formatStat(s.Precision),
			formatStat(s.Recall),
			formatStat(s.F1),
		})
	}
	md.Table(markdown.TableSet{
		Header: []string{"Method", "Scored", "Failed", "Accuracy", "Precision", "Recall", "F1"},
		Rows:   rows,
	})
	md.PlainText("")
	md.PlainText("Values are mean ± sample standard deviation.")
	md.PlainText("")

	w.writeDetectionChart(md, run)

	if failed := failedSlices(run); len(failed) > 0 {
		md.H2("Failed Slices")
		md.PlainText("")
		md.BulletList(failed...)
		md.PlainText("")
	}

	return md.Build()
}

func (w *MarkdownWriter) writeDetectionChart(md *markdown.Markdown, run *experiment.Run) {
	found := tumoursLocated(run)
	missed := 0
	for _, o := range run.Outcomes {
		if o.Err == nil && !o.Location.Found {
			missed++
		}
	}
	if found+missed == 0 {
		return
	}

	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Tumour Localisation"),
		piechart.WithShowData(true),
	)
	if found > 0 {
		chart.LabelAndIntValue("Located", uint64(found))
	}
	if missed > 0 {
		chart.LabelAndIntValue("Not located", uint64(missed))
	}

	md.H2("Localisation")
	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
	if missed > 0 {
		md.Note("Slices without a located tumour are scored on whole-image counts.")
		md.PlainText("")
	}
}

// WriteMarkdownFile writes the summary to dir/summary.md and returns its path.
func WriteMarkdownFile(dir string, run *experiment.Run) (path string, err error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return "", err
	}
	path = filepath.Join(dir, SummaryFileName)
	f, err := os.Create(path) //nolint:gosec // output path comes from configuration
	if err != nil {
		return "", err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return path, NewMarkdownWriter(f).Write(run)
}

func formatStat(s experiment.Stat) string {
	return fmt.Sprintf("%.4f ± %.4f", s.Mean, s.StdDev)
}

func tumoursLocated(run *experiment.Run) int {
	n := 0
	for _, o := range run.Outcomes {
		if o.Err == nil && o.Location.Found {
			n++
		}
	}
	return n
}

func failedSlices(run *experiment.Run) []string {
	var out []string
	for _, o := range run.Outcomes {
		if o.Err != nil {
			out = append(out, fmt.Sprintf("`%s`: %v", o.Sample.ID, o.Err))
			continue
		}
		for _, mo := range o.Methods {
			if mo.Err != nil {
				out = append(out, fmt.Sprintf("`%s` (%s): %v", o.Sample.ID, mo.Method.DisplayName(), mo.Err))
			}
		}
	}
	return out
}
