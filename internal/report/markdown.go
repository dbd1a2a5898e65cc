// Package report formats scoring results as Markdown, HTML, and PDF. It
// consumes plain counts and rows from the scorers and holds no scoring
// logic of its own.
package report

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/theworldavatar/mop-synthesis-eval/internal/stepscore"
)

// Row is one line of a metrics table.
type Row struct {
	Name   string
	Counts stepscore.Counts
}

// MetricsTable renders rows as a Markdown table with derived
// precision/recall/F1 columns and a trailing bolded totals row.
func MetricsTable(b *strings.Builder, rows []Row) {
	fmt.Fprintf(b, "| Name | TP | FP | FN | Precision | Recall | F1 |\n|---|---:|---:|---:|---:|---:|---:|\n")
	var total stepscore.Counts
	for _, r := range rows {
		p, rec, f1 := r.Counts.Metrics()
		fmt.Fprintf(b, "| %s | %d | %d | %d | %.3f | %.3f | %.3f |\n", r.Name, r.Counts.TP, r.Counts.FP, r.Counts.FN, p, rec, f1)
		total.Add(r.Counts)
	}
	p, rec, f1 := total.Metrics()
	fmt.Fprintf(b, "| **Total** | **%d** | **%d** | **%d** | **%.3f** | **%.3f** | **%.3f** |\n\n", total.TP, total.FP, total.FN, p, rec, f1)
}

// CountsTable is the variant without derived metrics.
func CountsTable(b *strings.Builder, rows []Row) {
	fmt.Fprintf(b, "| Name | TP | FP | FN |\n|---|---:|---:|---:|\n")
	var total stepscore.Counts
	for _, r := range rows {
		fmt.Fprintf(b, "| %s | %d | %d | %d |\n", r.Name, r.Counts.TP, r.Counts.FP, r.Counts.FN)
		total.Add(r.Counts)
	}
	fmt.Fprintf(b, "| **Total** | **%d** | **%d** | **%d** |\n\n", total.TP, total.FP, total.FN)
}

// FileReport renders the per-file Markdown report.
func FileReport(fileName string, score stepscore.FileScore) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Steps Scoring — %s\n\n", fileName)
	fmt.Fprintf(&b, "- Date: %s\n", time.Now().Format(time.RFC3339))
	if score.PredMissingCCDC {
		fmt.Fprintf(&b, "- Warning: prediction carries no CCDC number; matching fell back to product names\n")
	}
	b.WriteString("\n## Field-Level Scores\n\n")
	MetricsTable(&b, []Row{{Name: fileName, Counts: score.Counts}})
	b.WriteString("## Step-Type-Only Scores\n\n")
	MetricsTable(&b, []Row{{Name: fileName, Counts: score.TypeCounts}})
	if len(score.MissingEntities) > 0 {
		b.WriteString("## Missing Entities\n\n")
		for _, key := range score.MissingEntities {
			fmt.Fprintf(&b, "- `%s`\n", key)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// OverallReport renders the run summary: per-file tables, the coarser
// type-only table, the per-field error ranking and the cumulative
// hypothetical projections.
func OverallReport(title string, fileRows, typeRows []Row, ranked []stepscore.FieldErrorRank, hyps []stepscore.Hypothetical) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", title)
	fmt.Fprintf(&b, "- Date: %s\n- Files scored: %d\n\n", time.Now().Format(time.RFC3339), len(fileRows))

	b.WriteString("## Field-Level Scores\n\n")
	MetricsTable(&b, fileRows)

	b.WriteString("## Step-Type-Only Scores\n\n")
	MetricsTable(&b, typeRows)

	if len(ranked) > 0 {
		b.WriteString("## Field Error Ranking\n\n")
		fmt.Fprintf(&b, "| Field | FP | FN | Total |\n|---|---:|---:|---:|\n")
		for _, r := range ranked {
			fmt.Fprintf(&b, "| %s | %d | %d | %d |\n", r.Field, r.FP, r.FN, r.FP+r.FN)
		}
		b.WriteString("\n")
	}

	if len(hyps) > 0 {
		b.WriteString("## Hypothetical Improvements\n\n")
		b.WriteString("Projected run metrics after fixing the top-N error fields cumulatively.\n\n")
		fmt.Fprintf(&b, "| Fixed Through | TP | FP | FN | Precision | Recall | F1 |\n|---|---:|---:|---:|---:|---:|---:|\n")
		for _, h := range hyps {
			fmt.Fprintf(&b, "| %s | %d | %d | %d | %.3f | %.3f | %.3f |\n", h.Field, h.Counts.TP, h.Counts.FP, h.Counts.FN, h.Precision, h.Recall, h.F1)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// MissingEntitiesReport lists every ground-truth entity that found no
// matching prediction, grouped by file.
func MissingEntitiesReport(missing map[string][]string) string {
	var b strings.Builder
	b.WriteString("# Missing Ground-Truth Entities\n\n")
	if len(missing) == 0 {
		b.WriteString("Every ground-truth entity found a matching prediction.\n")
		return b.String()
	}
	files := make([]string, 0, len(missing))
	for f := range missing {
		files = append(files, f)
	}
	sort.Strings(files)
	for _, f := range files {
		fmt.Fprintf(&b, "## %s\n\n", f)
		for _, key := range missing[f] {
			fmt.Fprintf(&b, "- `%s`\n", key)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// FieldErrorDetails renders one error_details file for a single field.
func FieldErrorDetails(field string, details []stepscore.FieldError) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# Error Details — %s\n\n", field)
	fmt.Fprintf(&b, "| File | Entity | Step | Kind | Ground Truth | Prediction |\n|---|---|---|---|---|---|\n")
	for _, d := range details {
		fmt.Fprintf(&b, "| %s | %s | %s | %s | %s | %s |\n",
			d.File, sanitizeCell(d.Entity), d.StepType, d.Kind, sanitizeCell(d.GTValue), sanitizeCell(d.Pred))
	}
	b.WriteString("\n")
	return b.String()
}

func sanitizeCell(s string) string {
	s = strings.TrimSpace(strings.ReplaceAll(s, "\n", " "))
	s = strings.ReplaceAll(s, "|", "\\|")
	if s == "" {
		return "-"
	}
	return s
}
