package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/theworldavatar/mop-synthesis-eval/internal/runstore"
)

func main() {
	dbPath := flag.String("db", "results/history.db", "SQLite run-history database")
	limit := flag.Int("limit", 20, "Maximum runs to list")
	runID := flag.String("run", "", "Show the per-file breakdown of one run")
	flag.Parse()

	store, err := runstore.Open(*dbPath)
	if err != nil {
		log.Fatal(err)
	}
	defer store.Close()

	if *runID != "" {
		files, err := store.ListRunFiles(*runID)
		if err != nil {
			log.Fatal(err)
		}
		for _, f := range files {
			fmt.Printf("%-50s tp=%-5d fp=%-5d fn=%-5d\n", f.File, f.TP, f.FP, f.FN)
		}
		return
	}

	runs, err := store.ListRuns(*limit)
	if err != nil {
		log.Fatal(err)
	}
	for _, r := range runs {
		fmt.Printf("%-40s %-10s %s files=%-3d tp=%-5d fp=%-5d fn=%-5d f1=%.3f %s\n",
			r.RunID, r.Scorer, r.StartedAt.Format(time.DateOnly), r.Files, r.TP, r.FP, r.FN, r.F1, r.Flags)
	}
}
