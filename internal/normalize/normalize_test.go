package normalize

import (
	"strconv"
	"strings"
	"testing"
)

func TestStringPlaceholdersCollapse(t *testing.T) {
	n := Default()
	for _, in := range []string{"", "N/A", "n/a", "na", "NA", " -1 ", "-1.0", "-1e+00", "  "} {
		if got := n.String(in); got != "" {
			t.Errorf("String(%q) = %q, want empty", in, got)
		}
	}
}

func TestStringIdempotent(t *testing.T) {
	n := Default()
	inputs := []string{
		"Room Temperature",
		"160.0 Degree Celsius",
		"24 hours",
		"overnight stirring",
		"Cu(NO₃)₂·3H₂O",
		"α-phase crystals",
		"0.045 g (0.276 mmol)",
		"under N2",
		"100 ℃",
		"n/a",
	}
	for _, in := range inputs {
		once := n.String(in)
		twice := n.String(once)
		if once != twice {
			t.Errorf("String not idempotent for %q: %q -> %q", in, once, twice)
		}
	}
}

func TestStringMapping(t *testing.T) {
	n := Default()
	cases := []struct{ in, want string }{
		{"rt", "25 degree celsius"},
		{"Room Temperature", "25 degree celsius"},
		{"24 hours", "24 h"},
		{"30 mins", "30 min"},
		{"160.0", "160"},
		{"under N2", "under nitrogen"},
		{"2 drops", "2 drop"},
		{"5 equivalents", "5 equiv"},
	}
	for _, c := range cases {
		if got := n.String(c.in); got != c.want {
			t.Errorf("String(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestStringLargeNumbers(t *testing.T) {
	n := Default()
	got := n.String("1e300")
	f, err := strconv.ParseFloat(got, 64)
	if err != nil || f != 1e300 {
		t.Errorf("String(1e300) = %q, does not round-trip (%v)", got, err)
	}
	if strings.HasPrefix(got, "-") {
		t.Errorf("String(1e300) = %q, overflowed to a negative value", got)
	}
	if again := n.String(got); again != got {
		t.Errorf("large number not idempotent: %q -> %q", got, again)
	}
}

func TestFoldUnicode(t *testing.T) {
	cases := []struct{ in, want string }{
		{"Cu(NO₃)₂", "Cu(NO3)2"},
		{"H₂O", "H2O"},
		{"·3H₂O", ".3H2O"},
		{"α-form", "alpha-form"},
		{"μL", "muL"},
		{"‘quoted’", "'quoted'"},
	}
	for _, c := range cases {
		if got := Fold(c.in); got != c.want {
			t.Errorf("Fold(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestChemicalAmountReordering(t *testing.T) {
	n := Default()
	a := n.ChemicalAmount("0.276 mmol (0.045 g)")
	b := n.ChemicalAmount("0.045 g (0.276 mmol)")
	if a != b {
		t.Fatalf("amount order should not matter: %q vs %q", a, b)
	}
	if a != "0.276 mmol, 0.045 g" {
		t.Fatalf("unexpected canonical amount: %q", a)
	}
}

func TestChemicalAmountForms(t *testing.T) {
	n := Default()
	cases := []struct{ in, want string }{
		{"0.045 g; 0.276 mmol", "0.276 mmol, 0.045 g"},
		{"5.0 mL", "5 ml"},
		{"0.276mmol", "0.276 mmol"},
		{"2 drops", "2 drop"},
		{"10 mL (0.12 mol)", "0.12 mol, 10 ml"},
		{"n/a", ""},
	}
	for _, c := range cases {
		if got := n.ChemicalAmount(c.in); got != c.want {
			t.Errorf("ChemicalAmount(%q) = %q, want %q", c.in, got, c.want)
		}
	}
	if once := n.ChemicalAmount("0.045 g (0.276 mmol)"); n.ChemicalAmount(once) != once {
		t.Errorf("ChemicalAmount not idempotent: %q -> %q", once, n.ChemicalAmount(once))
	}
}

func TestChemicalNameSynonymClosure(t *testing.T) {
	n := Default()
	for canonical, aliases := range chemicalSynonyms {
		want := n.ChemicalName(canonical)
		if want != canonical {
			t.Errorf("canonical %q does not normalize to itself: %q", canonical, want)
		}
		for _, alias := range aliases {
			if got := n.ChemicalName(alias); got != want {
				t.Errorf("ChemicalName(%q) = %q, want %q", alias, got, want)
			}
		}
	}
}

func TestChemicalNameCaseAndFold(t *testing.T) {
	n := Default()
	if got := n.ChemicalName("DMF"); got != "n,n-dimethylformamide" {
		t.Errorf("ChemicalName(DMF) = %q", got)
	}
	if got := n.ChemicalName("H₂O"); got != "water" {
		t.Errorf("ChemicalName(H₂O) = %q", got)
	}
}

func TestPH(t *testing.T) {
	n := Default()
	cases := []struct{ in, want string }{
		{"", "n/a"},
		{"-1", "n/a"},
		{"-1.0", "n/a"},
		{"N/A", "n/a"},
		{"7", "7"},
		{"7.5", "7.5"},
	}
	for _, c := range cases {
		if got := n.PH(c.in); got != c.want {
			t.Errorf("PH(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestTreeDispatchesOnParentKey(t *testing.T) {
	n := Default()
	in := map[string]any{
		"Synthesis": []any{
			map[string]any{
				"productNames": []any{"MOP_1"},
				"inputChemicals": []any{
					map[string]any{
						"chemicalName":   []any{"DMF"},
						"chemicalAmount": "0.276 mmol (0.045 g)",
					},
				},
				"duration": "24 hours",
				"count":    3.0,
			},
		},
	}
	out, ok := n.Tree(in, "").(map[string]any)
	if !ok {
		t.Fatal("Tree did not return a map")
	}
	rec := out["Synthesis"].([]any)[0].(map[string]any)
	chem := rec["inputChemicals"].([]any)[0].(map[string]any)
	if got := chem["chemicalName"].([]any)[0]; got != "n,n-dimethylformamide" {
		t.Errorf("chemicalName = %v", got)
	}
	if got := chem["chemicalAmount"]; got != "0.276 mmol, 0.045 g" {
		t.Errorf("chemicalAmount = %v", got)
	}
	if got := rec["duration"]; got != "24 h" {
		t.Errorf("duration = %v", got)
	}
	if got := rec["count"]; got != 3.0 {
		t.Errorf("non-string leaf changed: %v", got)
	}
}
