// Package chemscore scores extracted input-chemical lists against ground
// truth. It is the lower-complexity sibling of stepscore: the same entity
// matching and set-scoring rules, applied to one chemical list per product
// instead of a step sequence.
package chemscore

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/theworldavatar/mop-synthesis-eval/internal/normalize"
	"github.com/theworldavatar/mop-synthesis-eval/internal/stepscore"
)

// Record is one product entity with its flattened chemical name and amount
// sets. Every field absent from the input decodes as empty, never as an
// error.
type Record struct {
	Names   []string
	CCDC    string
	NameSet map[string]bool
	Amounts map[string]bool
}

// LoadFile reads and normalizes one chemicals JSON file.
func LoadFile(path string, n *normalize.Normalizer) ([]Record, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	normalized, _ := n.Tree(doc, "").(map[string]any)
	return ParseRecords(normalized), nil
}

// ParseRecords extracts entity records from a normalized document tree.
func ParseRecords(doc map[string]any) []Record {
	var out []Record
	for _, entry := range asList(doc["Synthesis"]) {
		m, ok := entry.(map[string]any)
		if !ok {
			continue
		}
		rec := Record{
			CCDC:    asString(m["productCCDCNumber"]),
			NameSet: map[string]bool{},
			Amounts: map[string]bool{},
		}
		for _, v := range asList(m["productNames"]) {
			if s := asString(v); s != "" {
				rec.Names = append(rec.Names, s)
			}
		}
		for _, v := range asList(m["inputChemicals"]) {
			chem, ok := v.(map[string]any)
			if !ok {
				continue
			}
			for _, nameVal := range asStringOrList(chem["chemicalName"]) {
				if nameVal != "" {
					rec.NameSet[nameVal] = true
				}
			}
			if amount := asString(chem["chemicalAmount"]); amount != "" {
				rec.Amounts[amount] = true
			}
		}
		out = append(out, rec)
	}
	return out
}

// ScoreFile matches prediction entities to ground-truth entities (names
// first, CCDC fallback, one-to-one) and scores each pair's chemical sets:
// missing names penalized, extra names not, amounts symmetric.
func ScoreFile(gt, pred []Record) stepscore.Counts {
	var c stepscore.Counts
	used := make([]bool, len(pred))
	for _, g := range gt {
		pi := findMatch(g, pred, used)
		if pi < 0 {
			c.FN += len(g.NameSet) + len(g.Amounts)
			continue
		}
		used[pi] = true
		c.Add(scorePair(g, pred[pi]))
	}
	for pi, p := range pred {
		if !used[pi] {
			c.FP += len(p.NameSet) + len(p.Amounts)
		}
	}
	return c
}

func scorePair(g, p Record) stepscore.Counts {
	var c stepscore.Counts
	if len(g.NameSet) == 0 && len(p.NameSet) == 0 {
		c.TP++
	}
	for name := range g.NameSet {
		if p.NameSet[name] {
			c.TP++
		} else {
			c.FN++
		}
	}
	if len(g.Amounts) == 0 && len(p.Amounts) == 0 {
		c.TP++
		return c
	}
	for amount := range g.Amounts {
		if p.Amounts[amount] {
			c.TP++
		} else {
			c.FN++
		}
	}
	for amount := range p.Amounts {
		if !g.Amounts[amount] {
			c.FP++
		}
	}
	return c
}

func findMatch(g Record, pred []Record, used []bool) int {
	for pi, p := range pred {
		if !used[pi] && namesOverlap(g.Names, p.Names) {
			return pi
		}
	}
	if g.CCDC == "" {
		return -1
	}
	for pi, p := range pred {
		if !used[pi] && p.CCDC == g.CCDC {
			return pi
		}
	}
	return -1
}

func namesOverlap(a, b []string) bool {
	for _, x := range a {
		for _, y := range b {
			if x == y {
				return true
			}
			if len(x) >= 5 && len(y) >= 5 && (strings.Contains(x, y) || strings.Contains(y, x)) {
				return true
			}
		}
	}
	return false
}

func asList(v any) []any {
	list, _ := v.([]any)
	return list
}

func asString(v any) string {
	s, _ := v.(string)
	return s
}

func asStringOrList(v any) []string {
	if s, ok := v.(string); ok {
		return []string{s}
	}
	var out []string
	for _, item := range asList(v) {
		out = append(out, asString(item))
	}
	return out
}
