package stepscore

import "github.com/theworldavatar/mop-synthesis-eval/internal/synthesis"

// AlignedPair is one slot of an alignment: a ground-truth step, a
// prediction step, or both. TypesMatch is false whenever a side is missing
// or the declared types differ.
type AlignedPair struct {
	GT         *synthesis.Step
	Pred       *synthesis.Step
	TypesMatch bool
}

// AlignSteps pairs ground-truth and prediction steps, consuming each
// prediction at most once. Add steps are matched non-positionally by
// chemical-name overlap. Other step types are consumed positionally, or,
// with Options.SkipOrder, by best field agreement among remaining
// same-type predictions. Both sides must already be Add-expanded.
func AlignSteps(gtSteps, predSteps []synthesis.Step, opts Options) []AlignedPair {
	used := make([]bool, len(predSteps))
	pairs := make([]AlignedPair, 0, len(gtSteps))

	for gi := range gtSteps {
		g := &gtSteps[gi]
		var pi int
		if g.Type == synthesis.StepAdd {
			pi = bestAddMatch(g, predSteps, used)
		} else if opts.SkipOrder {
			pi = bestTypeMatch(g, predSteps, used, opts)
		} else {
			pi = nextUnused(used)
		}
		if pi < 0 {
			pairs = append(pairs, AlignedPair{GT: g})
			continue
		}
		used[pi] = true
		p := &predSteps[pi]
		pairs = append(pairs, AlignedPair{GT: g, Pred: p, TypesMatch: g.Type == p.Type})
	}

	for pi := range predSteps {
		if !used[pi] {
			pairs = append(pairs, AlignedPair{Pred: &predSteps[pi]})
		}
	}
	return pairs
}

// bestAddMatch scans every remaining unmatched Add prediction for the one
// sharing the most normalized chemical names with the ground-truth step.
func bestAddMatch(g *synthesis.Step, preds []synthesis.Step, used []bool) int {
	gtNames := addChemicalNames(g)
	best, bestOverlap := -1, -1
	for pi := range preds {
		if used[pi] || preds[pi].Type != synthesis.StepAdd {
			continue
		}
		overlap := intersectionSize(gtNames, addChemicalNames(&preds[pi]))
		if overlap > bestOverlap {
			best, bestOverlap = pi, overlap
		}
	}
	return best
}

// bestTypeMatch scans remaining unmatched predictions of the same declared
// type and selects the one agreeing on the most fields (dry-run compare).
func bestTypeMatch(g *synthesis.Step, preds []synthesis.Step, used []bool, opts Options) int {
	best, bestScore := -1, -1
	for pi := range preds {
		if used[pi] || preds[pi].Type != g.Type {
			continue
		}
		score := CompareStepFields(g, &preds[pi], opts, nil, "", "").TP
		if score > bestScore {
			best, bestScore = pi, score
		}
	}
	return best
}

func nextUnused(used []bool) int {
	for i, u := range used {
		if !u {
			return i
		}
	}
	return -1
}

func addChemicalNames(s *synthesis.Step) map[string]bool {
	add, ok := s.Data.(*synthesis.AddData)
	if !ok {
		return nil
	}
	return synthesis.ChemicalNameSet(add.AddedChemical)
}

func intersectionSize(a, b map[string]bool) int {
	n := 0
	for k := range a {
		if b[k] {
			n++
		}
	}
	return n
}
