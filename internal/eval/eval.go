// Package eval scores predicted hit sets against ground-truth labels.
//
// Everything here is set algebra over canonical identifiers. The engine is
// pure: no I/O, no clock, no state, so the same cohorts always score to the
// same result.
package eval

import (
	"github.com/vanessaxdebs/kunitzdomain/internal/labels"
	"github.com/vanessaxdebs/kunitzdomain/internal/seqid"
)

// Cohort pairs one search's hit set with its ground truth. A nil Labels
// marks a database-scan cohort: its hits join the predicted set but it
// contributes nothing to either side of the truth. Hits that no labeled
// cohort claims are counted nowhere in the matrix.
type Cohort struct {
	Name   string
	Hits   seqid.Set
	Labels *labels.Set
}

// Labeled reports whether the cohort carries ground truth.
func (c Cohort) Labeled() bool {
	return c.Labels != nil
}

// Matrix is a confusion matrix with its derived ratios. The ratios are
// fixed at construction and never recomputed; a zero denominator yields 0
// rather than an error, so a degenerate evaluation scores all zeros.
type Matrix struct {
	TP int `json:"tp"`
	FP int `json:"fp"`
	FN int `json:"fn"`
	TN int `json:"tn"`

	Accuracy  float64 `json:"accuracy"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
}

// NewMatrix derives the ratio fields from raw counts.
func NewMatrix(tp, fp, fn, tn int) Matrix {
	m := Matrix{TP: tp, FP: fp, FN: fn, TN: tn}
	if total := tp + tn + fp + fn; total > 0 {
		m.Accuracy = float64(tp+tn) / float64(total)
	}
	if tp+fp > 0 {
		m.Precision = float64(tp) / float64(tp+fp)
	}
	if tp+fn > 0 {
		m.Recall = float64(tp) / float64(tp+fn)
	}
	if m.Precision+m.Recall > 0 {
		m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
	}
	return m
}

// Result is a scored evaluation. The identifier sets behind the FP and FN
// counts survive here because knowing which sequences were misclassified
// is worth more than how many.
type Result struct {
	Matrix         Matrix
	Predicted      seqid.Set
	FalsePositives seqid.Set
	FalseNegatives seqid.Set
}

// Evaluate combines cohorts into one score:
//
//	predicted = union of every cohort's hits
//	positives, negatives = unions over labeled cohorts only
//	TP = predicted.Intersect(positives)   FP = predicted.Intersect(negatives)
//	FN = positives.Subtract(predicted)    TN = negatives.Subtract(predicted)
//
// An identifier labeled positive by one cohort and negative by another is
// a contradiction in the ground truth, not a judgment call; Evaluate
// refuses with a *labels.ConflictError before computing anything.
func Evaluate(cohorts []Cohort) (*Result, error) {
	predicted := seqid.NewSet()
	positives := seqid.NewSet()
	negatives := seqid.NewSet()
	for _, c := range cohorts {
		predicted = predicted.Union(c.Hits)
		if c.Labels != nil {
			positives = positives.Union(c.Labels.Positives)
			negatives = negatives.Union(c.Labels.Negatives)
		}
	}

	if both := positives.Intersect(negatives); len(both) > 0 {
		return nil, &labels.ConflictError{IDs: both.Sorted()}
	}

	tp := predicted.Intersect(positives)
	fp := predicted.Intersect(negatives)
	fn := positives.Subtract(predicted)
	tn := negatives.Subtract(predicted)

	return &Result{
		Matrix:         NewMatrix(len(tp), len(fp), len(fn), len(tn)),
		Predicted:      predicted,
		FalsePositives: fp,
		FalseNegatives: fn,
	}, nil
}
