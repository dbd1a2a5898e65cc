package evalrun

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/theworldavatar/mop-synthesis-eval/internal/runstore"
)

const runDoc = `{
  "Synthesis": [
    {
      "productNames": ["MOP-1"],
      "productCCDCNumber": "228811",
      "steps": [
        {"Add": {
          "addedChemical": [{"chemicalName": ["Cu(NO3)2"], "chemicalAmount": "0.5 mmol"}],
          "stir": "yes"
        }},
        {"Stir": {"duration": "12 h"}}
      ]
    }
  ]
}`

const runDocWrongDuration = `{
  "Synthesis": [
    {
      "productNames": ["MOP-1"],
      "productCCDCNumber": "228811",
      "steps": [
        {"Add": {
          "addedChemical": [{"chemicalName": ["Cu(NO3)2"], "chemicalAmount": "0.5 mmol"}],
          "stir": "yes"
        }},
        {"Stir": {"duration": "24 h"}}
      ]
    }
  ]
}`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunEndToEnd(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out")
	cfg := Config{
		Pairs: []FilePair{{
			Stem:     "mop1",
			GTPath:   writeFile(t, dir, "gt.json", runDoc),
			PredPath: writeFile(t, dir, "pred.json", runDocWrongDuration),
		}},
		OutDir:     out,
		ScorerName: "score-steps",
	}
	sum, err := Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if sum.Files != 1 || len(sum.Skipped) != 0 {
		t.Errorf("files=%d skipped=%v", sum.Files, sum.Skipped)
	}
	// the duration mismatch costs one in each direction
	if sum.Total.FP != 1 || sum.Total.FN != 1 {
		t.Errorf("total = %+v, want FP=1 FN=1", sum.Total)
	}

	for _, name := range []string{"mop1.md", "_overall.md", "_missing_gt_entities.md"} {
		if _, err := os.Stat(filepath.Join(out, name)); err != nil {
			t.Errorf("missing report %s: %v", name, err)
		}
	}
	details, err := os.ReadFile(filepath.Join(out, "error_details", "duration.md"))
	if err != nil {
		t.Fatalf("error details: %v", err)
	}
	if !strings.Contains(string(details), "12 h") || !strings.Contains(string(details), "24 h") {
		t.Errorf("duration details lack the mismatched values:\n%s", details)
	}

	overall, err := os.ReadFile(filepath.Join(out, "_overall.md"))
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(overall), "| duration | 1 | 1 | 2 |") {
		t.Errorf("overall report lacks the duration error row:\n%s", overall)
	}
}

func TestRunShortSkipsErrorDetails(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out")
	cfg := Config{
		Pairs: []FilePair{{
			Stem:     "mop1",
			GTPath:   writeFile(t, dir, "gt.json", runDoc),
			PredPath: writeFile(t, dir, "pred.json", runDocWrongDuration),
		}},
		OutDir: out,
		Short:  true,
	}
	if _, err := Run(context.Background(), cfg); err != nil {
		t.Fatalf("run: %v", err)
	}
	if _, err := os.Stat(filepath.Join(out, "error_details")); !os.IsNotExist(err) {
		t.Errorf("error_details should not exist under -short, stat err = %v", err)
	}
}

func TestRunSkipsMissingAndMalformedPairs(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out")
	cfg := Config{
		Pairs: []FilePair{
			{Stem: "absent", GTPath: filepath.Join(dir, "nope.json"), PredPath: filepath.Join(dir, "nope.json")},
			{Stem: "broken", GTPath: writeFile(t, dir, "broken.json", "{not json"), PredPath: writeFile(t, dir, "pred0.json", runDoc)},
			{Stem: "good", GTPath: writeFile(t, dir, "gt.json", runDoc), PredPath: writeFile(t, dir, "pred.json", runDoc)},
		},
		OutDir: out,
	}
	sum, err := Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if sum.Files != 1 {
		t.Errorf("files = %d, want 1", sum.Files)
	}
	if len(sum.Skipped) != 2 {
		t.Errorf("skipped = %v, want 2 entries", sum.Skipped)
	}
	if sum.Total.FP != 0 || sum.Total.FN != 0 {
		t.Errorf("identical pair scored errors: %+v", sum.Total)
	}
}

func TestRunRecordsHistory(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "history.db")
	cfg := Config{
		Pairs: []FilePair{{
			Stem:     "mop1",
			GTPath:   writeFile(t, dir, "gt.json", runDoc),
			PredPath: writeFile(t, dir, "pred.json", runDoc),
		}},
		OutDir:     filepath.Join(dir, "out"),
		HistoryDB:  db,
		ScorerName: "score-steps",
		Flags:      "-no-vessel",
	}
	if _, err := Run(context.Background(), cfg); err != nil {
		t.Fatalf("run: %v", err)
	}

	store, err := runstore.Open(db)
	if err != nil {
		t.Fatalf("open history: %v", err)
	}
	defer store.Close()
	runs, err := store.ListRuns(10)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(runs) != 1 {
		t.Fatalf("runs = %d, want 1", len(runs))
	}
	r := runs[0]
	if r.Scorer != "score-steps" || r.Flags != "-no-vessel" || r.Files != 1 {
		t.Errorf("run = %+v", r)
	}
	if r.FP != 0 || r.FN != 0 || r.F1 != 1.0 {
		t.Errorf("identical pair history = %+v", r)
	}
	files, err := store.ListRunFiles(r.RunID)
	if err != nil {
		t.Fatalf("list files: %v", err)
	}
	if len(files) != 1 || files[0].File != "mop1" {
		t.Errorf("file rows = %+v", files)
	}
}
