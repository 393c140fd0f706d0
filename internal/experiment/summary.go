package experiment

import (
	"gonum.org/v1/gonum/stat"

	"github.com/ironsheep/xai-saliency-mcp/internal/saliency"
)

// Stat is the mean and sample standard deviation of one score.
type Stat struct {
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"std_dev"`
}

// MethodSummary aggregates the scores of one method over a run.
type MethodSummary struct {
	Method saliency.Method `json:"method"`

	// Scored counts slices that produced a score; failed ones are excluded
	// from every statistic.
	Scored       int `json:"scored"`
	Failed       int `json:"failed"`
	TumoursFound int `json:"tumours_found"`

	Precision Stat `json:"precision"`
	Recall    Stat `json:"recall"`
	Accuracy  Stat `json:"accuracy"`
	F1        Stat `json:"f1"`
}

// Rows returns the scored outcomes of m in run order.
func (r *Run) Rows(m saliency.Method) []Row {
	var rows []Row
	for _, o := range r.Outcomes {
		if o.Err != nil {
			continue
		}
		for _, mo := range o.Methods {
			if mo.Method == m && mo.Err == nil {
				rows = append(rows, Row{ID: o.Sample.ID, Scores: mo.Scores, TumourPresent: o.Location.Found})
			}
		}
	}
	return rows
}

// Row is one scored slice for one method.
type Row struct {
	ID            string
	Scores        saliency.ScoreSet
	TumourPresent bool
}

// Summaries aggregates every method of the run, in run method order.
func (r *Run) Summaries() []MethodSummary {
	out := make([]MethodSummary, 0, len(r.Methods))
	for _, m := range r.Methods {
		out = append(out, r.summarize(m))
	}
	return out
}

func (r *Run) summarize(m saliency.Method) MethodSummary {
	s := MethodSummary{Method: m}
	for _, o := range r.Outcomes {
		if o.Err != nil {
			s.Failed++
			continue
		}
		for _, mo := range o.Methods {
			if mo.Method == m && mo.Err != nil {
				s.Failed++
			}
		}
	}

	rows := r.Rows(m)
	s.Scored = len(rows)
	if len(rows) == 0 {
		return s
	}

	precision := make([]float64, len(rows))
	recall := make([]float64, len(rows))
	accuracy := make([]float64, len(rows))
	f1 := make([]float64, len(rows))
	for i, row := range rows {
		precision[i] = row.Scores.Precision
		recall[i] = row.Scores.Recall
		accuracy[i] = row.Scores.Accuracy
		f1[i] = row.Scores.F1
		if row.TumourPresent {
			s.TumoursFound++
		}
	}
	s.Precision = describe(precision)
	s.Recall = describe(recall)
	s.Accuracy = describe(accuracy)
	s.F1 = describe(f1)
	return s
}

func describe(x []float64) Stat {
	if len(x) == 1 {
		return Stat{Mean: x[0]}
	}
	mean, std := stat.MeanStdDev(x, nil)
	return Stat{Mean: mean, StdDev: std}
}
