// Package evalrun drives a scoring run over a static set of ground-truth /
// prediction file pairs: load, normalize, score, report, record.
package evalrun

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/theworldavatar/mop-synthesis-eval/internal/normalize"
	"github.com/theworldavatar/mop-synthesis-eval/internal/report"
	"github.com/theworldavatar/mop-synthesis-eval/internal/runstore"
	"github.com/theworldavatar/mop-synthesis-eval/internal/stepscore"
	"github.com/theworldavatar/mop-synthesis-eval/internal/synthesis"
)

// FilePair names one ground-truth file and the prediction scored against it.
type FilePair struct {
	Stem     string
	GTPath   string
	PredPath string
}

// Config selects the file pairs, scoring policy, and output locations of
// one run.
type Config struct {
	Pairs      []FilePair
	OutDir     string
	Opts       stepscore.Options
	Short      bool // skip the error_details listings
	HistoryDB  string
	ScorerName string
	Flags      string
}

// Summary is what a run hands back to the CLI.
type Summary struct {
	Total     stepscore.Counts
	TypeTotal stepscore.Counts
	Files     int
	Skipped   []string
}

// Run scores every configured file pair and writes the Markdown report
// tree. Missing or malformed inputs skip their pair without aborting the
// run; each file's scoring is independent.
func Run(ctx context.Context, cfg Config) (Summary, error) {
	if err := os.MkdirAll(cfg.OutDir, 0o755); err != nil {
		return Summary{}, fmt.Errorf("create output dir: %w", err)
	}

	tracer := otel.Tracer("evalrun")
	norm := normalize.Default()
	errs := stepscore.NewFieldErrors()

	var sum Summary
	var fileRows, typeRows []report.Row
	missing := map[string][]string{}

	for _, pair := range cfg.Pairs {
		_, span := tracer.Start(ctx, "score_file", trace.WithAttributes(attribute.String("file", pair.Stem)))

		gtDoc, err := loadDocument(pair.GTPath)
		if err != nil {
			log.Printf("skipping %s: %v", pair.Stem, err)
			sum.Skipped = append(sum.Skipped, pair.Stem)
			span.End()
			continue
		}
		predDoc, err := loadDocument(pair.PredPath)
		if err != nil {
			log.Printf("skipping %s: %v", pair.Stem, err)
			sum.Skipped = append(sum.Skipped, pair.Stem)
			span.End()
			continue
		}

		synthesis.NormalizeDocument(gtDoc, norm)
		synthesis.NormalizeDocument(predDoc, norm)

		score := stepscore.ScoreFile(gtDoc, predDoc, pair.Stem, cfg.Opts, errs)
		span.SetAttributes(
			attribute.Int("tp", score.Counts.TP),
			attribute.Int("fp", score.Counts.FP),
			attribute.Int("fn", score.Counts.FN),
		)
		span.End()

		sum.Total.Add(score.Counts)
		sum.TypeTotal.Add(score.TypeCounts)
		sum.Files++
		fileRows = append(fileRows, report.Row{Name: pair.Stem, Counts: score.Counts})
		typeRows = append(typeRows, report.Row{Name: pair.Stem, Counts: score.TypeCounts})
		if len(score.MissingEntities) > 0 {
			missing[pair.Stem] = score.MissingEntities
		}

		path := filepath.Join(cfg.OutDir, pair.Stem+".md")
		if err := os.WriteFile(path, []byte(report.FileReport(pair.Stem, score)), 0o644); err != nil {
			return sum, fmt.Errorf("write %s: %w", path, err)
		}
	}

	ranked := stepscore.RankFieldErrors(errs)
	hyps := stepscore.CumulativeHypotheticals(sum.Total, ranked)

	overall := report.OverallReport("Steps Scoring — Overall", fileRows, typeRows, ranked, hyps)
	if err := os.WriteFile(filepath.Join(cfg.OutDir, "_overall.md"), []byte(overall), 0o644); err != nil {
		return sum, fmt.Errorf("write overall report: %w", err)
	}
	missingReport := report.MissingEntitiesReport(missing)
	if err := os.WriteFile(filepath.Join(cfg.OutDir, "_missing_gt_entities.md"), []byte(missingReport), 0o644); err != nil {
		return sum, fmt.Errorf("write missing entities report: %w", err)
	}
	if !cfg.Short {
		if err := writeErrorDetails(cfg.OutDir, errs); err != nil {
			return sum, err
		}
	}
	if cfg.HistoryDB != "" {
		if err := recordRun(cfg, sum, fileRows); err != nil {
			log.Printf("recording run history: %v", err)
		}
	}
	return sum, nil
}

func loadDocument(path string) (*synthesis.Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc synthesis.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return &doc, nil
}

func writeErrorDetails(outDir string, errs *stepscore.FieldErrors) error {
	byField := map[string][]stepscore.FieldError{}
	for _, d := range errs.Details {
		byField[d.Field] = append(byField[d.Field], d)
	}
	if len(byField) == 0 {
		return nil
	}
	dir := filepath.Join(outDir, "error_details")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create error_details dir: %w", err)
	}
	for field, details := range byField {
		path := filepath.Join(dir, field+".md")
		if err := os.WriteFile(path, []byte(report.FieldErrorDetails(field, details)), 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
	}
	return nil
}

func recordRun(cfg Config, sum Summary, fileRows []report.Row) error {
	store, err := runstore.Open(cfg.HistoryDB)
	if err != nil {
		return err
	}
	defer store.Close()

	started := time.Now()
	run := runstore.Run{
		RunID:     fmt.Sprintf("%s-%s", cfg.ScorerName, started.UTC().Format("20060102T150405Z")),
		Scorer:    cfg.ScorerName,
		Flags:     cfg.Flags,
		StartedAt: started,
		Files:     sum.Files,
		TP:        sum.Total.TP,
		FP:        sum.Total.FP,
		FN:        sum.Total.FN,
	}
	run.Precision, run.Recall, run.F1 = sum.Total.Metrics()

	files := make([]runstore.FileRow, 0, len(fileRows))
	for _, r := range fileRows {
		files = append(files, runstore.FileRow{
			RunID: run.RunID,
			File:  r.Name,
			TP:    r.Counts.TP,
			FP:    r.Counts.FP,
			FN:    r.Counts.FN,
		})
	}
	return store.RecordRun(run, files)
}
