// Package facets matches free-text facet names (category, style, color,
// occasion, tag) against the reference tables.
package facets

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// strokes are letters whose diacritic is not a combining mark under NFD.
var strokes = map[rune]rune{
	'đ': 'd', 'Đ': 'D',
	'ł': 'l', 'Ł': 'L',
	'ø': 'o', 'Ø': 'O',
}

// Normalize returns the matching key for a facet name: whitespace trimmed
// and collapsed, diacritics stripped, case folded.
// Normalize("Hoa Hồng") == Normalize(" HOA   HONG ") == "hoa hong".
func Normalize(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return ""
	}
	// Transformers keep state, so the chain is built per call.
	t := transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)),
		runes.Map(func(r rune) rune {
			if m, ok := strokes[r]; ok {
				return m
			}
			return r
		}),
		norm.NFC,
	)
	stripped, _, err := transform.String(t, s)
	if err != nil {
		stripped = s
	}
	return cases.Fold().String(stripped)
}

// Slugify turns a display name into a URL slug: "Sinh Nhật" -> "sinh-nhat".
func Slugify(s string) string {
	n := Normalize(s)
	var b strings.Builder
	b.Grow(len(n))
	for _, r := range n {
		switch {
		case r == ' ':
			b.WriteByte('-')
		case r == '-' || r == '_' || (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9'):
			b.WriteRune(r)
		}
	}
	return b.String()
}
