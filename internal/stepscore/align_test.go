package stepscore

import (
	"testing"

	"github.com/theworldavatar/mop-synthesis-eval/internal/synthesis"
)

func TestAlignStepsPositional(t *testing.T) {
	gt := []synthesis.Step{stir(), heatChill("100 degree celsius"), stir()}
	pred := []synthesis.Step{stir(), heatChill("100 degree celsius"), stir()}
	pairs := AlignSteps(gt, pred, Options{})
	if len(pairs) != 3 {
		t.Fatalf("pairs = %d, want 3", len(pairs))
	}
	for i, p := range pairs {
		if p.GT == nil || p.Pred == nil || !p.TypesMatch {
			t.Errorf("pair %d: GT=%v Pred=%v TypesMatch=%v", i, p.GT != nil, p.Pred != nil, p.TypesMatch)
		}
	}
}

func TestAlignStepsAddByChemicalOverlap(t *testing.T) {
	gt := []synthesis.Step{addWith("chemical a"), addWith("chemical b")}
	pred := []synthesis.Step{addWith("chemical b"), addWith("chemical a")}
	pairs := AlignSteps(gt, pred, Options{})
	if len(pairs) != 2 {
		t.Fatalf("pairs = %d, want 2", len(pairs))
	}
	for i, p := range pairs {
		gtNames := addChemicalNames(p.GT)
		predNames := addChemicalNames(p.Pred)
		if intersectionSize(gtNames, predNames) != 1 {
			t.Errorf("pair %d matched across chemicals: gt=%v pred=%v", i, gtNames, predNames)
		}
	}
}

func TestAlignStepsTypeMismatchPositional(t *testing.T) {
	gt := []synthesis.Step{stir()}
	pred := []synthesis.Step{heatChill("100 degree celsius")}
	pairs := AlignSteps(gt, pred, Options{})
	if len(pairs) != 1 {
		t.Fatalf("pairs = %d, want 1", len(pairs))
	}
	if pairs[0].TypesMatch {
		t.Error("Stir vs HeatChill must not type-match")
	}
}

func TestAlignStepsLeftoverPredictions(t *testing.T) {
	gt := []synthesis.Step{stir()}
	pred := []synthesis.Step{stir(), heatChill("100 degree celsius")}
	pairs := AlignSteps(gt, pred, Options{})
	if len(pairs) != 2 {
		t.Fatalf("pairs = %d, want 2", len(pairs))
	}
	last := pairs[1]
	if last.GT != nil || last.Pred == nil || last.TypesMatch {
		t.Errorf("leftover pair = %+v", last)
	}
}

func TestAlignStepsSkipOrder(t *testing.T) {
	gt := []synthesis.Step{heatChill("100 degree celsius"), stir()}
	pred := []synthesis.Step{stir(), heatChill("100 degree celsius")}

	// positionally every pair is a type mismatch
	pairs := AlignSteps(gt, pred, Options{})
	for i, p := range pairs {
		if p.TypesMatch {
			t.Errorf("positional pair %d unexpectedly type-matched", i)
		}
	}

	// SkipOrder recovers the swap
	pairs = AlignSteps(gt, pred, Options{SkipOrder: true})
	if len(pairs) != 2 {
		t.Fatalf("pairs = %d, want 2", len(pairs))
	}
	for i, p := range pairs {
		if !p.TypesMatch {
			t.Errorf("skip-order pair %d: types should match", i)
		}
	}
}

func TestAlignStepsSkipOrderPrefersAgreeingFields(t *testing.T) {
	gt := []synthesis.Step{heatChill("100 degree celsius")}
	pred := []synthesis.Step{heatChill("25 degree celsius"), heatChill("100 degree celsius")}
	pairs := AlignSteps(gt, pred, Options{SkipOrder: true})
	matched := pairs[0].Pred.Data.(*synthesis.HeatChillData)
	if string(matched.TargetTemperature) != "100 degree celsius" {
		t.Errorf("matched temperature %q, want the agreeing prediction", matched.TargetTemperature)
	}
}
