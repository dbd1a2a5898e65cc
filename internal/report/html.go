package report

import (
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

const styleCSS = `
body { font-family: -apple-system, "Segoe UI", Roboto, sans-serif; color: #1f2937; max-width: 960px; margin: 0 auto; padding: 1.5rem; }
h1 { border-bottom: 2px solid #92400e; padding-bottom: 0.3rem; }
h2 { border-bottom: 1px solid #e5e7eb; padding-bottom: 0.2rem; }
table { border-collapse: collapse; width: 100%; margin: 0.75rem 0; }
th, td { border: 1px solid #d1d5db; padding: 0.35rem 0.6rem; font-size: 0.9rem; }
th { background: #f3f4f6; text-align: left; }
code { background: #f3f4f6; padding: 0.1rem 0.3rem; border-radius: 3px; }
`

// RenderHTML converts a Markdown report into a standalone styled HTML
// document (GFM tables enabled).
func RenderHTML(markdown string) (string, error) {
	var content strings.Builder
	md := goldmark.New(goldmark.WithExtensions(extension.GFM))
	if err := md.Convert([]byte(markdown), &content); err != nil {
		return "", fmt.Errorf("markdown convert: %w", err)
	}
	return "<!doctype html><html><head><meta charset='utf-8'><title>Scoring Report</title>" +
		"<style>" + styleCSS + "</style></head><body>" + content.String() + "</body></html>", nil
}
