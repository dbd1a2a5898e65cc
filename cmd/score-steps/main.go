package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/theworldavatar/mop-synthesis-eval/internal/evalrun"
	"github.com/theworldavatar/mop-synthesis-eval/internal/stepscore"
	"github.com/theworldavatar/mop-synthesis-eval/internal/telemetry"
)

// curatedStems is the default ground-truth subset: the manually curated
// papers every extraction run is compared on.
var curatedStems = []string{
	"10.1021_acs.inorgchem.0c00019",
	"10.1021_acs.inorgchem.1c01497",
	"10.1021_jacs.0c05526",
	"10.1021_jacs.1c02839",
	"10.1039_c8sc03420f",
	"10.1039_d0sc03691a",
	"10.1002_anie.201811027",
	"10.1002_anie.202000723",
	"10.1002_chem.201902677",
}

func main() {
	gtDir := flag.String("gt", "data/ground_truth", "Ground-truth JSON directory (curated subset)")
	gtFullDir := flag.String("gt-full", "data/ground_truth_full", "Full ground-truth directory (-full)")
	gtNewDir := flag.String("gt-new", "data/ground_truth_new", "Per-source ground-truth directories (-new)")
	predDir := flag.String("pred", "data/predictions", "Prediction JSON directory")
	predPrevDir := flag.String("pred-previous", "data/predictions_previous", "Legacy prediction directory (-previous)")
	outDir := flag.String("out", "results/steps", "Report output directory")
	historyDB := flag.String("history-db", "results/history.db", "SQLite run-history database (empty disables)")

	previous := flag.Bool("previous", false, "Score the legacy prediction source")
	noAnchor := flag.Bool("no-anchor", false, "Disable CCDC-number fallback matching")
	noVessel := flag.Bool("no-vessel", false, "Skip vessel name/type fields")
	short := flag.Bool("short", false, "Skip the error_details listings")
	skipOrder := flag.Bool("skip-order", false, "Align non-Add steps by best field agreement instead of position")
	ignore := flag.String("ignore", "", "Drop this product name from both sides and ignore vessel names")
	newGT := flag.Bool("new", false, "Score against the per-source ground-truth directories")
	fullGT := flag.Bool("full", false, "Score against the full ground-truth set")
	flag.Parse()

	if *newGT && *fullGT {
		log.Fatal("-new and -full are mutually exclusive")
	}

	opts := stepscore.Options{
		IgnoreVessel:  *noVessel,
		SkipOrder:     *skipOrder,
		NoAnchor:      *noAnchor,
		IgnoreProduct: *ignore,
	}
	if *ignore != "" {
		opts.IgnoreVessel = true
	}

	predictions := *predDir
	if *previous {
		predictions = *predPrevDir
	}

	var pairs []evalrun.FilePair
	var err error
	switch {
	case *newGT:
		pairs, err = perSourcePairs(*gtNewDir, predictions)
	case *fullGT:
		pairs, err = directoryPairs(*gtFullDir, predictions)
	default:
		pairs = subsetPairs(*gtDir, predictions, curatedStems)
	}
	if err != nil {
		log.Fatal(err)
	}
	if len(pairs) == 0 {
		log.Fatal("no ground-truth files to score")
	}

	ctx := context.Background()
	shutdown, err := telemetry.Setup(ctx, "score-steps")
	if err != nil {
		log.Fatal(err)
	}
	defer shutdown(ctx)

	sum, err := evalrun.Run(ctx, evalrun.Config{
		Pairs:      pairs,
		OutDir:     *outDir,
		Opts:       opts,
		Short:      *short,
		HistoryDB:  *historyDB,
		ScorerName: "steps",
		Flags:      flagSummary(),
	})
	if err != nil {
		log.Fatal(err)
	}

	p, r, f1 := sum.Total.Metrics()
	log.Printf("scored %d files (%d skipped): tp=%d fp=%d fn=%d precision=%.3f recall=%.3f f1=%.3f",
		sum.Files, len(sum.Skipped), sum.Total.TP, sum.Total.FP, sum.Total.FN, p, r, f1)
	log.Printf("reports written to %s", *outDir)
}

func subsetPairs(gtDir, predDir string, stems []string) []evalrun.FilePair {
	pairs := make([]evalrun.FilePair, 0, len(stems))
	for _, stem := range stems {
		pairs = append(pairs, evalrun.FilePair{
			Stem:     stem,
			GTPath:   filepath.Join(gtDir, stem+".json"),
			PredPath: filepath.Join(predDir, stem+".json"),
		})
	}
	return pairs
}

func directoryPairs(gtDir, predDir string) ([]evalrun.FilePair, error) {
	entries, err := os.ReadDir(gtDir)
	if err != nil {
		return nil, fmt.Errorf("read ground-truth dir: %w", err)
	}
	var pairs []evalrun.FilePair
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".json") {
			continue
		}
		stem := strings.TrimSuffix(e.Name(), ".json")
		pairs = append(pairs, evalrun.FilePair{
			Stem:     stem,
			GTPath:   filepath.Join(gtDir, e.Name()),
			PredPath: filepath.Join(predDir, stem+".json"),
		})
	}
	return pairs, nil
}

// perSourcePairs walks one ground-truth directory per extraction source and
// prefixes each stem with its source name.
func perSourcePairs(gtDir, predDir string) ([]evalrun.FilePair, error) {
	sources, err := os.ReadDir(gtDir)
	if err != nil {
		return nil, fmt.Errorf("read ground-truth dir: %w", err)
	}
	var pairs []evalrun.FilePair
	for _, src := range sources {
		if !src.IsDir() {
			continue
		}
		files, err := os.ReadDir(filepath.Join(gtDir, src.Name()))
		if err != nil {
			return nil, fmt.Errorf("read source dir %s: %w", src.Name(), err)
		}
		for _, f := range files {
			if f.IsDir() || !strings.HasSuffix(f.Name(), ".json") {
				continue
			}
			stem := strings.TrimSuffix(f.Name(), ".json")
			pairs = append(pairs, evalrun.FilePair{
				Stem:     src.Name() + "_" + stem,
				GTPath:   filepath.Join(gtDir, src.Name(), f.Name()),
				PredPath: filepath.Join(predDir, src.Name(), f.Name()),
			})
		}
	}
	return pairs, nil
}

func flagSummary() string {
	var parts []string
	flag.Visit(func(f *flag.Flag) {
		parts = append(parts, fmt.Sprintf("-%s=%s", f.Name, f.Value))
	})
	return strings.Join(parts, " ")
}
