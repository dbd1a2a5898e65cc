package stepscore

import (
	"strings"

	"github.com/theworldavatar/mop-synthesis-eval/internal/normalize"
	"github.com/theworldavatar/mop-synthesis-eval/internal/synthesis"
)

// minSubstringLen suppresses substring name matching for short strings so
// that aliases like "i" cannot claim "nanocapsule ii".
const minSubstringLen = 5

// MatchResult pairs one ground-truth entity with its best prediction, or
// with nil when nothing matched. Created fresh per scoring run.
type MatchResult struct {
	GT       *synthesis.SynthesisRecord
	Pred     *synthesis.SynthesisRecord
	MatchKey string
}

// MatchEntities assigns predictions to ground-truth entities, consuming
// each prediction at most once, ground-truth-first. Name matching runs
// first; the CCDC anchor is the fallback (suppressed by Options.NoAnchor).
// Multi-candidate ties break on positional step-type overlap. The second
// return value lists predictions never selected: entirely spurious output.
// Absence of a match is a normal outcome, not an error.
func MatchEntities(gt, pred []synthesis.SynthesisRecord, opts Options) ([]MatchResult, []*synthesis.SynthesisRecord) {
	used := make([]bool, len(pred))
	results := make([]MatchResult, 0, len(gt))

	for gi := range gt {
		g := &gt[gi]
		res := MatchResult{GT: g, MatchKey: MatchKey(g)}

		candidates := nameCandidates(g, pred, used)
		if len(candidates) == 0 && !opts.NoAnchor {
			candidates = ccdcCandidates(g, pred, used)
		}
		if pi := pickCandidate(g, pred, candidates); pi >= 0 {
			used[pi] = true
			res.Pred = &pred[pi]
		}
		results = append(results, res)
	}

	var spurious []*synthesis.SynthesisRecord
	for pi := range pred {
		if !used[pi] {
			spurious = append(spurious, &pred[pi])
		}
	}
	return results, spurious
}

// MatchKey derives the identity used in the missing-entities report: the
// CCDC number when present, otherwise the first product name.
func MatchKey(rec *synthesis.SynthesisRecord) string {
	if ccdc := anchorValue(rec); ccdc != "" {
		return ccdc
	}
	for _, name := range rec.ProductNames {
		if strings.TrimSpace(name) != "" {
			return "NAME:" + name
		}
	}
	return "NAME:<unnamed>"
}

func nameCandidates(g *synthesis.SynthesisRecord, pred []synthesis.SynthesisRecord, used []bool) []int {
	gtNames := matchNames(g.ProductNames)
	var out []int
	for pi := range pred {
		if used[pi] {
			continue
		}
		if anyNameMatch(gtNames, matchNames(pred[pi].ProductNames)) {
			out = append(out, pi)
		}
	}
	return out
}

func ccdcCandidates(g *synthesis.SynthesisRecord, pred []synthesis.SynthesisRecord, used []bool) []int {
	anchor := anchorValue(g)
	if anchor == "" {
		return nil
	}
	var out []int
	for pi := range pred {
		if used[pi] {
			continue
		}
		if anchorValue(&pred[pi]) == anchor {
			out = append(out, pi)
		}
	}
	return out
}

// pickCandidate resolves multi-candidate ties by step-type-sequence
// overlap, first found winning residual ties.
func pickCandidate(g *synthesis.SynthesisRecord, pred []synthesis.SynthesisRecord, candidates []int) int {
	switch len(candidates) {
	case 0:
		return -1
	case 1:
		return candidates[0]
	}
	best, bestOverlap := candidates[0], -1
	for _, pi := range candidates {
		if ov := typeOverlap(g.Steps, pred[pi].Steps); ov > bestOverlap {
			best, bestOverlap = pi, ov
		}
	}
	return best
}

// typeOverlap counts index-for-index step-type agreement after expansion.
func typeOverlap(gtSteps, predSteps []synthesis.Step) int {
	a := synthesis.ExpandAddSteps(gtSteps)
	b := synthesis.ExpandAddSteps(predSteps)
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	overlap := 0
	for i := 0; i < n; i++ {
		if a[i].Type == b[i].Type {
			overlap++
		}
	}
	return overlap
}

// anchorValue returns the normalized CCDC number, or "" for placeholders.
func anchorValue(rec *synthesis.SynthesisRecord) string {
	s := strings.ToLower(strings.TrimSpace(string(rec.ProductCCDCNumber)))
	s = strings.Join(strings.Fields(s), "")
	switch s {
	case "", "n/a", "na":
		return ""
	}
	return s
}

// matchNames maps product names to match-normalized form: folded,
// lowercased, underscores and hyphens as spaces, whitespace collapsed.
// Ground-truth files spell product names with hyphens where prediction
// stems use underscores.
func matchNames(names []string) []string {
	out := make([]string, 0, len(names))
	for _, name := range names {
		s := normalize.Fold(name)
		s = strings.ToLower(s)
		s = strings.ReplaceAll(s, "_", " ")
		s = strings.ReplaceAll(s, "-", " ")
		s = strings.Join(strings.Fields(s), " ")
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

func anyNameMatch(gtNames, predNames []string) bool {
	for _, g := range gtNames {
		for _, p := range predNames {
			if namesMatch(g, p) {
				return true
			}
		}
	}
	return false
}

// namesMatch accepts exact equality always; substring containment only when
// both names are long enough to be meaningful.
func namesMatch(a, b string) bool {
	if a == b {
		return true
	}
	if len(a) < minSubstringLen || len(b) < minSubstringLen {
		return false
	}
	return strings.Contains(a, b) || strings.Contains(b, a)
}
