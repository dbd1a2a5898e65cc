// Package normalize canonicalizes scalar values extracted from synthesis
// papers so that fuzzy-equal spellings compare as identical strings. All
// comparisons in the scorers operate on normalized values, never raw ones.
package normalize

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// Normalizer applies a frozen value-mapping table and chemical synonym table.
// It is a pure function of (input, tables); the zero value is not usable,
// construct via Default or NewWithTables.
type Normalizer struct {
	mapping  map[string]string
	synonyms map[string]string // alias -> canonical
}

// Default returns a Normalizer backed by the built-in tables.
func Default() *Normalizer {
	return NewWithTables(valueMapping, chemicalSynonyms)
}

// NewWithTables builds a Normalizer from a value mapping and synonym groups
// (canonical name -> alias spellings). The tables are copied.
func NewWithTables(mapping map[string]string, synonymGroups map[string][]string) *Normalizer {
	n := &Normalizer{
		mapping:  make(map[string]string, len(mapping)+1),
		synonyms: make(map[string]string),
	}
	for k, v := range mapping {
		n.mapping[k] = v
	}
	// canonical phrases must survive re-normalization unchanged
	n.mapping["degree celsius"] = "degree celsius"
	for canonical, aliases := range synonymGroups {
		for _, a := range aliases {
			n.synonyms[a] = canonical
		}
	}
	return n
}

// String canonicalizes an arbitrary scalar value. It is total and
// idempotent; placeholder spellings collapse to the empty string.
func (n *Normalizer) String(v string) string {
	s := Fold(v)
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.Join(strings.Fields(s), " ")
	if isPlaceholder(s) {
		return ""
	}
	if mapped, ok := n.mapping[s]; ok {
		return mapped
	}
	return n.mapPhrases(s)
}

// ChemicalName canonicalizes a chemical name, resolving alias spellings
// through the synonym table after generic normalization.
func (n *Normalizer) ChemicalName(v string) string {
	s := n.String(v)
	if canonical, ok := n.synonyms[s]; ok {
		return canonical
	}
	return s
}

// ChemicalAmount canonicalizes an amount string, splitting compound forms
// like "0.045 g (0.276 mmol)" into parts and re-joining them comma-separated
// in unit-rank order: amount of substance, then mass, then volume, then the
// rest. Ties keep their original relative order.
func (n *Normalizer) ChemicalAmount(v string) string {
	s := n.String(v)
	if s == "" {
		return ""
	}
	r := strings.NewReplacer("(", ",", ")", ",", ";", ",")
	raw := strings.Split(r.Replace(s), ",")
	type part struct {
		text string
		rank int
	}
	parts := make([]part, 0, len(raw))
	for _, p := range raw {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		p = n.normalizeAmountPart(p)
		if p == "" {
			continue
		}
		parts = append(parts, part{text: p, rank: unitRank(p)})
	}
	if len(parts) == 0 {
		return ""
	}
	sort.SliceStable(parts, func(i, j int) bool { return parts[i].rank < parts[j].rank })
	out := make([]string, len(parts))
	for i, p := range parts {
		out[i] = p.text
	}
	return strings.Join(out, ", ")
}

// PH canonicalizes a target-pH value; every absent spelling folds to the
// "n/a" sentinel so the comparator can treat not-predicted as not-expected.
func (n *Normalizer) PH(v string) string {
	s := n.String(v)
	if s == "" {
		return "n/a"
	}
	return s
}

// Tree walks a decoded JSON structure and replaces every string leaf with
// its normalized form, dispatching on the immediate parent key: amounts go
// through ChemicalAmount, names through ChemicalName, everything else
// through String. Non-string leaves pass through untouched.
func (n *Normalizer) Tree(v any, parentKey string) any {
	switch t := v.(type) {
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, child := range t {
			out[k] = n.Tree(child, k)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, child := range t {
			out[i] = n.Tree(child, parentKey)
		}
		return out
	case string:
		switch parentKey {
		case "chemicalAmount", "amount":
			return n.ChemicalAmount(t)
		case "chemicalName":
			return n.ChemicalName(t)
		default:
			return n.String(t)
		}
	default:
		return v
	}
}

// normalizeAmountPart rewrites one "<number> <unit>" fragment, splitting a
// glued numeral from its unit ("0.045g") and reformatting the numeral.
func (n *Normalizer) normalizeAmountPart(p string) string {
	p = splitGluedUnit(p)
	tokens := strings.Fields(p)
	for i, tok := range tokens {
		if f, err := strconv.ParseFloat(tok, 64); err == nil {
			tokens[i] = formatNumber(f)
			continue
		}
		if mapped, ok := n.mapping[tok]; ok {
			tokens[i] = mapped
		}
	}
	return strings.Join(tokens, " ")
}

// mapPhrases rewrites mapped phrases token by token, longest match first
// (up to three tokens), leaving unknown tokens alone. Plain numeric tokens
// are reformatted so "160.0" and "160" compare equal.
func (n *Normalizer) mapPhrases(s string) string {
	tokens := strings.Fields(s)
	var out []string
	for i := 0; i < len(tokens); {
		matched := false
		for width := 3; width >= 1; width-- {
			if i+width > len(tokens) {
				continue
			}
			phrase := strings.Join(tokens[i:i+width], " ")
			if mapped, ok := n.mapping[phrase]; ok {
				out = append(out, mapped)
				i += width
				matched = true
				break
			}
		}
		if matched {
			continue
		}
		tok := tokens[i]
		if f, err := strconv.ParseFloat(tok, 64); err == nil {
			tok = formatNumber(f)
		}
		out = append(out, tok)
		i++
	}
	return strings.Join(out, " ")
}

// Fold rewrites Unicode subscripts, superscripts, middle dots, Greek
// letters, and curly quotes to their ASCII forms.
func Fold(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if repl, ok := runeFolds[r]; ok {
			b.WriteString(repl)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isPlaceholder(s string) bool {
	switch s {
	case "", "n/a", "na":
		return true
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && f == -1 {
		return true
	}
	return false
}

// formatNumber prints whole values without a fractional part and everything
// else with the shortest decimal form that round-trips. Magnitudes past
// exact integer representation stay on the float path so the int64
// conversion cannot overflow.
func formatNumber(f float64) string {
	if math.Abs(f) < 1<<53 && math.Abs(f-math.Round(f)) < 1e-9 {
		return strconv.FormatInt(int64(math.Round(f)), 10)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// splitGluedUnit inserts a space between a leading numeral and a trailing
// unit ("0.276mmol" -> "0.276 mmol"). Only used inside amount parsing where
// tokens are known to be number-unit pairs.
func splitGluedUnit(p string) string {
	for i, r := range p {
		if i > 0 && isLetter(r) && isDigitOrDot(rune(p[i-1])) {
			if _, err := strconv.ParseFloat(p[:i], 64); err == nil {
				return p[:i] + " " + p[i:]
			}
		}
	}
	return p
}

func isLetter(r rune) bool   { return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') }
func isDigitOrDot(r rune) bool { return (r >= '0' && r <= '9') || r == '.' }

func unitRank(part string) int {
	tokens := strings.Fields(part)
	for _, tok := range tokens {
		switch {
		case substanceUnits[tok]:
			return 0
		case massUnits[tok]:
			return 1
		case volumeUnits[tok]:
			return 2
		}
	}
	return 3
}
