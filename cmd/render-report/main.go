package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/theworldavatar/mop-synthesis-eval/internal/report"
)

func main() {
	inputPath := flag.String("input", "", "Path to a Markdown scoring report")
	htmlPath := flag.String("html", "", "Path to write rendered HTML (defaults to stdout when no -pdf)")
	pdfPath := flag.String("pdf", "", "Optional path to write a PDF rendering")
	flag.Parse()

	if *inputPath == "" {
		log.Fatal("missing required -input")
	}

	md, err := os.ReadFile(*inputPath)
	if err != nil {
		log.Fatalf("read input: %v", err)
	}

	htmlDoc, err := report.RenderHTML(string(md))
	if err != nil {
		log.Fatalf("render html: %v", err)
	}

	switch {
	case *htmlPath != "":
		if err := os.WriteFile(*htmlPath, []byte(htmlDoc), 0o644); err != nil {
			log.Fatalf("write html: %v", err)
		}
	case *pdfPath == "":
		fmt.Print(htmlDoc)
	}

	if *pdfPath != "" {
		pdf, err := report.RenderPDF(context.Background(), htmlDoc)
		if err != nil {
			log.Fatalf("render pdf: %v", err)
		}
		if err := os.WriteFile(*pdfPath, pdf, 0o644); err != nil {
			log.Fatalf("write pdf: %v", err)
		}
	}
}
