package report

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ironsheep/xai-saliency-mcp/internal/experiment"
)

// WriteConsole prints the mean scores of each method:
//
//	Lime:
//	     Accuracy Score: 0.61
//	     Precision Score: 0.42
//	     ...
func WriteConsole(w io.Writer, run *experiment.Run) error {
	title := cases.Title(language.English)
	indent := strings.Repeat(" ", 5)

	var b strings.Builder
	for _, s := range run.Summaries() {
		fmt.Fprintf(&b, "%s:\n", title.String(s.Method.String()))
		fmt.Fprintf(&b, "%sAccuracy Score: %v\n", indent, s.Accuracy.Mean)
		fmt.Fprintf(&b, "%sPrecision Score: %v\n", indent, s.Precision.Mean)
		fmt.Fprintf(&b, "%sRecall Score: %v\n", indent, s.Recall.Mean)
		fmt.Fprintf(&b, "%sF1 Score: %v\n", indent, s.F1.Mean)
	}
	_, err := io.WriteString(w, b.String())
	return err
}
