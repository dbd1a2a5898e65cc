package report

import (
	"strings"
	"testing"

	"github.com/theworldavatar/mop-synthesis-eval/internal/stepscore"
)

func TestMetricsTable(t *testing.T) {
	var b strings.Builder
	MetricsTable(&b, []Row{
		{Name: "a.json", Counts: stepscore.Counts{TP: 8, FP: 2, FN: 0}},
		{Name: "b.json", Counts: stepscore.Counts{TP: 2, FP: 0, FN: 8}},
	})
	out := b.String()
	if !strings.Contains(out, "| a.json | 8 | 2 | 0 | 0.800 | 1.000 | 0.889 |") {
		t.Errorf("per-file row missing or wrong:\n%s", out)
	}
	if !strings.Contains(out, "| **Total** | **10** | **2** | **8** |") {
		t.Errorf("totals row missing:\n%s", out)
	}
}

func TestMetricsTableZeroCounts(t *testing.T) {
	var b strings.Builder
	MetricsTable(&b, []Row{{Name: "empty.json"}})
	out := b.String()
	if !strings.Contains(out, "| empty.json | 0 | 0 | 0 | 0.000 | 0.000 | 0.000 |") {
		t.Errorf("zero-count row should render zero metrics:\n%s", out)
	}
}

func TestCountsTable(t *testing.T) {
	var b strings.Builder
	CountsTable(&b, []Row{
		{Name: "a.json", Counts: stepscore.Counts{TP: 3, FP: 1, FN: 2}},
	})
	out := b.String()
	if !strings.Contains(out, "| a.json | 3 | 1 | 2 |") {
		t.Errorf("row missing:\n%s", out)
	}
	if strings.Contains(out, "Precision") {
		t.Errorf("counts-only table should not carry derived metrics:\n%s", out)
	}
	if !strings.Contains(out, "| **Total** | **3** | **1** | **2** |") {
		t.Errorf("totals row missing:\n%s", out)
	}
}

func TestFileReport(t *testing.T) {
	score := stepscore.FileScore{
		Counts:          stepscore.Counts{TP: 5, FP: 1, FN: 2},
		TypeCounts:      stepscore.Counts{TP: 3},
		PredMissingCCDC: true,
		MissingEntities: []string{"228811"},
	}
	out := FileReport("mop1.json", score)
	for _, want := range []string{
		"# Steps Scoring — mop1.json",
		"no CCDC number",
		"## Field-Level Scores",
		"## Step-Type-Only Scores",
		"## Missing Entities",
		"- `228811`",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report lacks %q:\n%s", want, out)
		}
	}
}

func TestOverallReportSections(t *testing.T) {
	rows := []Row{{Name: "a.json", Counts: stepscore.Counts{TP: 1}}}
	ranked := []stepscore.FieldErrorRank{{Field: "duration", FP: 1, FN: 2}}
	hyps := stepscore.CumulativeHypotheticals(stepscore.Counts{TP: 1, FP: 1, FN: 2}, ranked)
	out := OverallReport("Steps Scoring", rows, rows, ranked, hyps)
	for _, want := range []string{
		"# Steps Scoring",
		"- Files scored: 1",
		"## Field Error Ranking",
		"| duration | 1 | 2 | 3 |",
		"## Hypothetical Improvements",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("report lacks %q:\n%s", want, out)
		}
	}
}

func TestOverallReportOmitsEmptySections(t *testing.T) {
	out := OverallReport("Steps Scoring", nil, nil, nil, nil)
	if strings.Contains(out, "Field Error Ranking") || strings.Contains(out, "Hypothetical") {
		t.Errorf("empty sections should be omitted:\n%s", out)
	}
}

func TestMissingEntitiesReport(t *testing.T) {
	out := MissingEntitiesReport(nil)
	if !strings.Contains(out, "Every ground-truth entity found a matching prediction.") {
		t.Errorf("empty report wrong:\n%s", out)
	}

	out = MissingEntitiesReport(map[string][]string{
		"b.json": {"NAME:cage b"},
		"a.json": {"228811"},
	})
	ia, ib := strings.Index(out, "## a.json"), strings.Index(out, "## b.json")
	if ia < 0 || ib < 0 || ia > ib {
		t.Errorf("files should be listed in sorted order:\n%s", out)
	}
}

func TestFieldErrorDetailsSanitizesCells(t *testing.T) {
	out := FieldErrorDetails("duration", []stepscore.FieldError{
		{File: "a.json", Entity: "228811", StepType: "Stir", Field: "duration", GTValue: "12 h | overnight", Pred: "", Kind: "missing"},
	})
	if !strings.Contains(out, `12 h \| overnight`) {
		t.Errorf("pipe not escaped:\n%s", out)
	}
	if !strings.Contains(out, "| - |") {
		t.Errorf("empty cell should render as dash:\n%s", out)
	}
}
