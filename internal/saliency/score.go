package saliency

import (
	"fmt"
	"strings"
)

// ScoreSet is the outcome of scoring one explanation against one scan.
type ScoreSet struct {
	TruePositive  int     `json:"true_positive"`
	TrueNegative  int     `json:"true_negative"`
	FalsePositive int     `json:"false_positive"`
	FalseNegative int     `json:"false_negative"`
	Precision     float64 `json:"precision"`
	Recall        float64 `json:"recall"`
	Accuracy      float64 `json:"accuracy"`
	F1            float64 `json:"f1"`
}

// Score derives a ScoreSet from whole-image counts and, when a tumour was
// located, the counts inside its region.
//
// With a region:
//
//	tp = region.Total - region.Negative
//	tn = region.Total - region.Positive
//	fp = |whole.Positive - tp|
//	fn = |whole.Negative - tn|
//
// Without one, the whole-image counts stand in for all four values:
// tp = tn = whole.Positive and fp = fn = whole.Negative.
//
// Any ratio with a zero denominator is 0.
func Score(whole ConfusionCounts, region *ConfusionCounts) ScoreSet {
	var s ScoreSet
	if region != nil {
		s.TruePositive = region.Total - region.Negative
		s.TrueNegative = region.Total - region.Positive
		s.FalsePositive = absInt(whole.Positive - s.TruePositive)
		s.FalseNegative = absInt(whole.Negative - s.TrueNegative)
	} else {
		// NOTE: tn mirrors tp here, which is almost certainly not the
		// intended definition of a true negative. Kept so scores stay
		// comparable with earlier result sets.
		s.TruePositive = whole.Positive
		s.TrueNegative = whole.Positive
		s.FalsePositive = whole.Negative
		s.FalseNegative = whole.Negative
	}

	tp := float64(s.TruePositive)
	tn := float64(s.TrueNegative)
	fp := float64(s.FalsePositive)
	fn := float64(s.FalseNegative)

	s.Precision = ratio(tp, tp+fp)
	s.Recall = ratio(tp, tp+fn)
	s.Accuracy = ratio(tp+tn, tp+tn+fp+fn)
	s.F1 = ratio(2*s.Precision*s.Recall, s.Precision+s.Recall)
	return s
}

// Summary renders the scores as a framed multi-line block.
func (s ScoreSet) Summary() string {
	header := strings.Repeat("*", 10)
	var b strings.Builder
	fmt.Fprintf(&b, "%s\nResults\n%s\n", header, header)
	fmt.Fprintf(&b, "Precision Score: %.4f\n", s.Precision)
	fmt.Fprintf(&b, "Recall Score: %.4f\n", s.Recall)
	fmt.Fprintf(&b, "Accuracy Score: %.4f\n", s.Accuracy)
	fmt.Fprintf(&b, "F1 Score: %.4f\n", s.F1)
	b.WriteString(header)
	return b.String()
}

func ratio(num, den float64) float64 {
	if den == 0 {
		return 0
	}
	return num / den
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
