package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/theworldavatar/mop-synthesis-eval/internal/chemscore"
	"github.com/theworldavatar/mop-synthesis-eval/internal/normalize"
	"github.com/theworldavatar/mop-synthesis-eval/internal/report"
	"github.com/theworldavatar/mop-synthesis-eval/internal/stepscore"
)

func main() {
	gtDir := flag.String("gt", "data/ground_truth_chemicals", "Ground-truth chemicals JSON directory")
	predDir := flag.String("pred", "data/predictions_chemicals", "Prediction chemicals JSON directory")
	outPath := flag.String("out", "results/chemicals.md", "Report output path")
	flag.Parse()

	entries, err := os.ReadDir(*gtDir)
	if err != nil {
		log.Fatalf("read ground-truth dir: %v", err)
	}

	norm := normalize.Default()
	var rows []report.Row
	var total stepscore.Counts
	skipped := 0

	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		stem := strings.TrimSuffix(e.Name(), ".json")
		gt, err := chemscore.LoadFile(filepath.Join(*gtDir, e.Name()), norm)
		if err != nil {
			log.Printf("skipping %s: %v", stem, err)
			skipped++
			continue
		}
		pred, err := chemscore.LoadFile(filepath.Join(*predDir, e.Name()), norm)
		if err != nil {
			log.Printf("skipping %s: %v", stem, err)
			skipped++
			continue
		}
		counts := chemscore.ScoreFile(gt, pred)
		rows = append(rows, report.Row{Name: stem, Counts: counts})
		total.Add(counts)
	}

	if len(rows) == 0 {
		log.Fatal("no chemicals files scored")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "# Chemicals Scoring\n\n")
	report.MetricsTable(&b, rows)
	if err := os.MkdirAll(filepath.Dir(*outPath), 0o755); err != nil {
		log.Fatalf("create output dir: %v", err)
	}
	if err := os.WriteFile(*outPath, []byte(b.String()), 0o644); err != nil {
		log.Fatalf("write report: %v", err)
	}

	p, r, f1 := total.Metrics()
	log.Printf("scored %d files (%d skipped): precision=%.3f recall=%.3f f1=%.3f", len(rows), skipped, p, r, f1)
}
