package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/ironsheep/xai-saliency-mcp/internal/experiment"
	"github.com/ironsheep/xai-saliency-mcp/internal/saliency"
)

// CSVHeader is the column layout of per-method result files.
var CSVHeader = []string{"id", "accuracy", "precision", "recall", "f1", "tumour_present"}

// csvTimestamp is dd-mm-yyyy-HH-MM-SS.
const csvTimestamp = "02-01-2006-15-04-05"

// CSVFileName returns <method>-<dd-mm-yyyy-HH-MM-SS>.csv.
func CSVFileName(m saliency.Method, at time.Time) string {
	return fmt.Sprintf("%s-%s.csv", m, at.Format(csvTimestamp))
}

// WriteCSV writes the header and one row per scored slice.
func WriteCSV(w io.Writer, rows []experiment.Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for _, r := range rows {
		record := []string{
			r.ID,
			formatScore(r.Scores.Accuracy),
			formatScore(r.Scores.Precision),
			formatScore(r.Scores.Recall),
			formatScore(r.Scores.F1),
			strconv.FormatBool(r.TumourPresent),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteCSVFiles writes one CSV per method of run into dir and returns the
// paths written. The run start time stamps the file names.
func WriteCSVFiles(dir string, run *experiment.Run) ([]string, error) {
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(run.Methods))
	for _, m := range run.Methods {
		path := filepath.Join(dir, CSVFileName(m, run.Started))
		if err := writeCSVFile(path, run.Rows(m)); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func writeCSVFile(path string, rows []experiment.Row) (err error) {
	f, err := os.Create(path) //nolint:gosec // output path comes from configuration
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	return WriteCSV(f, rows)
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
