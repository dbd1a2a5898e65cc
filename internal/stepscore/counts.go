// Package stepscore scores predicted synthesis step sequences against
// ground truth: entity matching, step alignment, field-level comparison,
// and aggregation into precision/recall/F1 with per-field error breakdowns.
package stepscore

import "sort"

// Counts is the accumulating true-positive / false-positive / false-negative
// triple. Counts compose hierarchically: field, step, entity, file, run.
type Counts struct {
	TP int
	FP int
	FN int
}

func (c *Counts) Add(o Counts) {
	c.TP += o.TP
	c.FP += o.FP
	c.FN += o.FN
}

// Metrics derives precision, recall, and F1 from the counts. Zero
// denominators yield zero, never a division error.
func (c Counts) Metrics() (precision, recall, f1 float64) {
	return PrecisionRecallF1(c.TP, c.FP, c.FN)
}

func PrecisionRecallF1(tp, fp, fn int) (precision, recall, f1 float64) {
	if tp+fp > 0 {
		precision = float64(tp) / float64(tp+fp)
	}
	if tp+fn > 0 {
		recall = float64(tp) / float64(tp+fn)
	}
	if precision+recall > 0 {
		f1 = 2 * precision * recall / (precision + recall)
	}
	return precision, recall, f1
}

// Options selects the scoring policy for one run.
type Options struct {
	// IgnoreVessel drops usedVesselName/usedVesselType from comparison.
	IgnoreVessel bool
	// SkipOrder aligns non-Add steps by best field agreement among
	// same-type candidates instead of positionally.
	SkipOrder bool
	// NoAnchor disables the CCDC-number fallback during entity matching.
	NoAnchor bool
	// IgnoreProduct drops entities carrying this product name from both
	// sides before scoring.
	IgnoreProduct string
}

// FieldError is one recorded scoring disagreement, for the error_details
// listings.
type FieldError struct {
	File     string
	Entity   string
	StepType string
	Field    string
	GTValue  string
	Pred     string
	Kind     string // "missing", "extra", or "mismatch"
}

// FieldErrors accumulates per-field error counts and detailed listings
// across a run. A nil *FieldErrors is a valid no-op collector.
type FieldErrors struct {
	ByField map[string]*Counts
	Details []FieldError
}

func NewFieldErrors() *FieldErrors {
	return &FieldErrors{ByField: map[string]*Counts{}}
}

func (e *FieldErrors) count(field string, dFP, dFN int) {
	if e == nil {
		return
	}
	c, ok := e.ByField[field]
	if !ok {
		c = &Counts{}
		e.ByField[field] = c
	}
	c.FP += dFP
	c.FN += dFN
}

func (e *FieldErrors) record(err FieldError) {
	if e == nil {
		return
	}
	e.Details = append(e.Details, err)
}

// FieldErrorRank is one row of the per-field error ranking.
type FieldErrorRank struct {
	Field string
	FP    int
	FN    int
}

// RankFieldErrors orders fields by total error contribution, largest first;
// ties break alphabetically so reports are stable.
func RankFieldErrors(e *FieldErrors) []FieldErrorRank {
	if e == nil {
		return nil
	}
	ranked := make([]FieldErrorRank, 0, len(e.ByField))
	for field, c := range e.ByField {
		if c.FP+c.FN == 0 {
			continue
		}
		ranked = append(ranked, FieldErrorRank{Field: field, FP: c.FP, FN: c.FN})
	}
	sort.Slice(ranked, func(i, j int) bool {
		ti, tj := ranked[i].FP+ranked[i].FN, ranked[j].FP+ranked[j].FN
		if ti != tj {
			return ti > tj
		}
		return ranked[i].Field < ranked[j].Field
	})
	return ranked
}

// Hypothetical is a what-if projection: the global metrics recomputed as if
// every error on the named field (and all fields ranked above it) were
// fixed, converting its false negatives into true positives and discarding
// its false positives.
type Hypothetical struct {
	Field     string
	Counts    Counts
	Precision float64
	Recall    float64
	F1        float64
}

// CumulativeHypotheticals walks the ranked error fields and projects the
// run metrics after fixing the top 1..N of them.
func CumulativeHypotheticals(total Counts, ranked []FieldErrorRank) []Hypothetical {
	out := make([]Hypothetical, 0, len(ranked))
	c := total
	for _, r := range ranked {
		c.TP += r.FN
		c.FN -= r.FN
		c.FP -= r.FP
		h := Hypothetical{Field: r.Field, Counts: c}
		h.Precision, h.Recall, h.F1 = c.Metrics()
		out = append(out, h)
	}
	return out
}
