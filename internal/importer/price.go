package importer

import (
	"strconv"
	"strings"
)

// ParsePrice reads a shop-formatted price such as "250,000", "1.250.000đ" or
// "12.5". Currency symbols and spaces are ignored. A separator that repeats,
// or that appears once followed by exactly three digits, groups thousands;
// when both '.' and ',' appear the last one is the decimal point.
// An empty value is 0. Anything unparseable, negative or containing a '-'
// reports false.
func ParsePrice(raw string) (float64, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, true
	}

	var b strings.Builder
	for _, r := range raw {
		switch {
		case r >= '0' && r <= '9', r == '.', r == ',':
			b.WriteRune(r)
		case r == '-':
			// negative, or a range such as "100-200"
			return 0, false
		}
	}
	s := b.String()
	if !strings.ContainsAny(s, "0123456789") {
		return 0, false
	}

	s = normalizeSeparators(s)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0, false
	}
	return v, true
}

func normalizeSeparators(s string) string {
	lastDot := strings.LastIndexByte(s, '.')
	lastComma := strings.LastIndexByte(s, ',')

	switch {
	case lastDot >= 0 && lastComma >= 0:
		decimal, group := ".", ","
		if lastComma > lastDot {
			decimal, group = ",", "."
		}
		s = strings.ReplaceAll(s, group, "")
		return strings.Replace(s, decimal, ".", 1)
	case lastDot >= 0:
		return resolveSingle(s, ".")
	case lastComma >= 0:
		return resolveSingle(s, ",")
	}
	return s
}

func resolveSingle(s, sep string) string {
	if strings.Count(s, sep) > 1 {
		return strings.ReplaceAll(s, sep, "")
	}
	i := strings.Index(s, sep)
	if len(s)-i-1 == 3 && i > 0 {
		return strings.ReplaceAll(s, sep, "")
	}
	return strings.Replace(s, sep, ".", 1)
}
