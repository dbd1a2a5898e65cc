package stepscore

import (
	"sort"
	"strings"

	"github.com/theworldavatar/mop-synthesis-eval/internal/synthesis"
)

// CompareStepFields scores one aligned step pair field by field. Both steps
// must share a type and be normalized. comment and stepNumber are never
// scored; the vessel fields are skipped under Options.IgnoreVessel. The
// collector may be nil for dry-run comparisons.
func CompareStepFields(gt, pred *synthesis.Step, opts Options, errs *FieldErrors, file, entity string) Counts {
	var c Counts
	predFields := fieldMap(pred)
	for _, gf := range gt.Data.Fields() {
		if skipField(gf.Name, opts) {
			continue
		}
		pf := predFields[gf.Name]
		switch gf.Kind {
		case synthesis.FieldChemicals:
			c.Add(compareChemicalLists(gf, pf, string(gt.Type), errs, file, entity))
		case synthesis.FieldPH:
			c.Add(comparePH(gf, pf, string(gt.Type), errs, file, entity))
		default:
			c.Add(compareScalar(gf, pf, string(gt.Type), errs, file, entity))
		}
	}
	return c
}

// compareChemicalLists scores the name and amount sets of a chemical-list
// field. Missing names are penalized; extra predicted names are not: a
// verbose prediction that still covers the ground truth costs nothing.
// Amounts are penalized symmetrically in both directions.
func compareChemicalLists(gf, pf synthesis.Field, stepType string, errs *FieldErrors, file, entity string) Counts {
	var c Counts
	gtNames := synthesis.ChemicalNameSet(gf.Chemicals)
	predNames := synthesis.ChemicalNameSet(pf.Chemicals)
	if len(gtNames) == 0 && len(predNames) == 0 {
		c.TP++
	} else {
		for name := range gtNames {
			if predNames[name] {
				c.TP++
				continue
			}
			c.FN++
			errs.count(gf.Name, 0, 1)
			errs.record(FieldError{File: file, Entity: entity, StepType: stepType, Field: gf.Name, GTValue: name, Pred: joinSet(predNames), Kind: "missing"})
		}
	}

	gtAmounts := synthesis.ChemicalAmountSet(gf.Chemicals)
	predAmounts := synthesis.ChemicalAmountSet(pf.Chemicals)
	if len(gtAmounts) == 0 && len(predAmounts) == 0 {
		c.TP++
		return c
	}
	for amount := range gtAmounts {
		if predAmounts[amount] {
			c.TP++
			continue
		}
		c.FN++
		errs.count(gf.Name, 0, 1)
		errs.record(FieldError{File: file, Entity: entity, StepType: stepType, Field: gf.Name, GTValue: amount, Pred: joinSet(predAmounts), Kind: "missing"})
	}
	for amount := range predAmounts {
		if gtAmounts[amount] {
			continue
		}
		c.FP++
		errs.count(gf.Name, 1, 0)
		errs.record(FieldError{File: file, Entity: entity, StepType: stepType, Field: gf.Name, GTValue: joinSet(gtAmounts), Pred: amount, Kind: "extra"})
	}
	return c
}

// comparePH scores the targetPH field. Predicting nothing when nothing was
// expected is agreement; a one-sided "n/a" costs only the non-absent side.
func comparePH(gf, pf synthesis.Field, stepType string, errs *FieldErrors, file, entity string) Counts {
	var c Counts
	g, p := gf.Text, pf.Text
	if g == "" {
		g = "n/a"
	}
	if p == "" {
		p = "n/a"
	}
	if g == p {
		c.TP++
		return c
	}
	if g != "n/a" {
		c.FN++
		errs.count(gf.Name, 0, 1)
	}
	if p != "n/a" {
		c.FP++
		errs.count(gf.Name, 1, 0)
	}
	errs.record(FieldError{File: file, Entity: entity, StepType: stepType, Field: gf.Name, GTValue: g, Pred: p, Kind: "mismatch"})
	return c
}

// compareScalar scores a plain scalar field: both absent is agreement, one
// wrong value costs both a false positive and a false negative.
func compareScalar(gf, pf synthesis.Field, stepType string, errs *FieldErrors, file, entity string) Counts {
	var c Counts
	g, p := gf.Text, pf.Text
	switch {
	case g == p:
		c.TP++
	case g != "" && p != "":
		c.FP++
		c.FN++
		errs.count(gf.Name, 1, 1)
		errs.record(FieldError{File: file, Entity: entity, StepType: stepType, Field: gf.Name, GTValue: g, Pred: p, Kind: "mismatch"})
	case g != "":
		c.FN++
		errs.count(gf.Name, 0, 1)
		errs.record(FieldError{File: file, Entity: entity, StepType: stepType, Field: gf.Name, GTValue: g, Pred: "", Kind: "missing"})
	default:
		c.FP++
		errs.count(gf.Name, 1, 0)
		errs.record(FieldError{File: file, Entity: entity, StepType: stepType, Field: gf.Name, GTValue: "", Pred: p, Kind: "extra"})
	}
	return c
}

// countPresence counts a step's present field values: one per non-absent
// scalar, one per chemical name, one per amount. Used when an entire step
// lands on one side only (type mismatch, unmatched entity, extra step).
func countPresence(s *synthesis.Step, opts Options, errs *FieldErrors, asFalseNegative bool, file, entity string) Counts {
	var c Counts
	for _, f := range s.Data.Fields() {
		if skipField(f.Name, opts) {
			continue
		}
		n := 0
		switch f.Kind {
		case synthesis.FieldChemicals:
			n = len(synthesis.ChemicalNameSet(f.Chemicals)) + len(synthesis.ChemicalAmountSet(f.Chemicals))
		case synthesis.FieldPH:
			if f.Text != "" && f.Text != "n/a" {
				n = 1
			}
		default:
			if f.Text != "" {
				n = 1
			}
		}
		if n == 0 {
			continue
		}
		if asFalseNegative {
			c.FN += n
			errs.count(f.Name, 0, n)
			errs.record(FieldError{File: file, Entity: entity, StepType: string(s.Type), Field: f.Name, GTValue: fieldSummary(f), Pred: "", Kind: "missing"})
		} else {
			c.FP += n
			errs.count(f.Name, n, 0)
			errs.record(FieldError{File: file, Entity: entity, StepType: string(s.Type), Field: f.Name, GTValue: "", Pred: fieldSummary(f), Kind: "extra"})
		}
	}
	return c
}

func fieldMap(s *synthesis.Step) map[string]synthesis.Field {
	fields := s.Data.Fields()
	out := make(map[string]synthesis.Field, len(fields))
	for _, f := range fields {
		out[f.Name] = f
	}
	return out
}

func skipField(name string, opts Options) bool {
	switch name {
	case "comment", "stepNumber":
		return true
	case "usedVesselName", "usedVesselType":
		return opts.IgnoreVessel
	}
	return false
}

func fieldSummary(f synthesis.Field) string {
	if f.Kind != synthesis.FieldChemicals {
		return f.Text
	}
	parts := joinSet(synthesis.ChemicalNameSet(f.Chemicals))
	if amounts := joinSet(synthesis.ChemicalAmountSet(f.Chemicals)); amounts != "" {
		parts += " [" + amounts + "]"
	}
	return parts
}

func joinSet(set map[string]bool) string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return strings.Join(keys, "; ")
}
