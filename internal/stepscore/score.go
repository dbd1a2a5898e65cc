package stepscore

import (
	"github.com/theworldavatar/mop-synthesis-eval/internal/synthesis"
)

// FileScore is the outcome of scoring one prediction file against one
// ground-truth file.
type FileScore struct {
	Counts          Counts
	TypeCounts      Counts
	PredMissingCCDC bool
	MissingEntities []string
}

// ScoreFile drives entity matching, step alignment, and field comparison
// across every entity of a file pair. Both documents must be normalized;
// Add expansion happens here. Unmatched ground-truth entities contribute
// their entire presence as false negatives, never-selected predictions as
// false positives.
func ScoreFile(gtDoc, predDoc *synthesis.Document, fileName string, opts Options, errs *FieldErrors) FileScore {
	gt := filterIgnored(gtDoc.Synthesis, opts)
	pred := filterIgnored(predDoc.Synthesis, opts)
	expandAll(gt)
	expandAll(pred)

	score := FileScore{PredMissingCCDC: missingAnchor(gt, pred)}
	matches, spurious := MatchEntities(gt, pred, opts)

	for _, m := range matches {
		if m.Pred == nil {
			score.MissingEntities = append(score.MissingEntities, m.MatchKey)
			for si := range m.GT.Steps {
				score.Counts.Add(countPresence(&m.GT.Steps[si], opts, errs, true, fileName, m.MatchKey))
			}
			continue
		}
		for _, pair := range AlignSteps(m.GT.Steps, m.Pred.Steps, opts) {
			switch {
			case pair.TypesMatch:
				score.Counts.Add(CompareStepFields(pair.GT, pair.Pred, opts, errs, fileName, m.MatchKey))
			case pair.GT != nil && pair.Pred != nil:
				// type mismatch: no field comparison, both sides count
				score.Counts.Add(countPresence(pair.GT, opts, errs, true, fileName, m.MatchKey))
				score.Counts.Add(countPresence(pair.Pred, opts, errs, false, fileName, m.MatchKey))
			case pair.GT != nil:
				score.Counts.Add(countPresence(pair.GT, opts, errs, true, fileName, m.MatchKey))
			default:
				score.Counts.Add(countPresence(pair.Pred, opts, errs, false, fileName, m.MatchKey))
			}
		}
	}

	for _, p := range spurious {
		key := MatchKey(p)
		for si := range p.Steps {
			score.Counts.Add(countPresence(&p.Steps[si], opts, errs, false, fileName, key))
		}
	}

	score.TypeCounts = typeCounts(gt, pred, opts)
	return score
}

// TypeCounts scores only whether the step-type sequences line up
// positionally after Add expansion, ignoring field content. Reported as a
// coarser secondary metric alongside the field-level one.
func TypeCounts(gtDoc, predDoc *synthesis.Document, opts Options) Counts {
	gt := filterIgnored(gtDoc.Synthesis, opts)
	pred := filterIgnored(predDoc.Synthesis, opts)
	expandAll(gt)
	expandAll(pred)
	return typeCounts(gt, pred, opts)
}

func typeCounts(gt, pred []synthesis.SynthesisRecord, opts Options) Counts {
	var c Counts
	matches, spurious := MatchEntities(gt, pred, opts)
	for _, m := range matches {
		if m.Pred == nil {
			c.FN += len(m.GT.Steps)
			continue
		}
		a, b := m.GT.Steps, m.Pred.Steps
		n := len(a)
		if len(b) < n {
			n = len(b)
		}
		for i := 0; i < n; i++ {
			if a[i].Type == b[i].Type {
				c.TP++
			} else {
				c.FP++
				c.FN++
			}
		}
		c.FN += len(a) - n
		c.FP += len(b) - n
	}
	for _, p := range spurious {
		c.FP += len(p.Steps)
	}
	return c
}

// filterIgnored drops entities carrying the ignored product name. The
// records are copied so scoring never mutates the caller's documents.
func filterIgnored(records []synthesis.SynthesisRecord, opts Options) []synthesis.SynthesisRecord {
	out := make([]synthesis.SynthesisRecord, 0, len(records))
	for _, rec := range records {
		if opts.IgnoreProduct != "" && hasProductName(&rec, opts.IgnoreProduct) {
			continue
		}
		out = append(out, rec)
	}
	return out
}

func hasProductName(rec *synthesis.SynthesisRecord, name string) bool {
	target := matchNames([]string{name})
	return anyNameMatch(matchNames(rec.ProductNames), target)
}

func expandAll(records []synthesis.SynthesisRecord) {
	for i := range records {
		records[i].Steps = synthesis.ExpandAddSteps(records[i].Steps)
	}
}

// missingAnchor reports a prediction file that carries no usable CCDC
// number even though the ground truth anchors on one.
func missingAnchor(gt, pred []synthesis.SynthesisRecord) bool {
	gtHas := false
	for i := range gt {
		if anchorValue(&gt[i]) != "" {
			gtHas = true
			break
		}
	}
	if !gtHas {
		return false
	}
	for i := range pred {
		if anchorValue(&pred[i]) != "" {
			return false
		}
	}
	return true
}
