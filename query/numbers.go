package query

import (
	"strconv"
	"strings"
)

// parseAmount converts a matched numeric token into a float, tolerating
// "." or "," as either thousands or decimal separators.
func parseAmount(s string) (float64, bool) {
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return 0, false
	}

	dots := strings.Count(s, ".")
	commas := strings.Count(s, ",")

	switch {
	case dots > 0 && commas > 0:
		// The rightmost separator is the decimal one.
		if strings.LastIndex(s, ".") > strings.LastIndex(s, ",") {
			s = strings.ReplaceAll(s, ",", "")
		} else {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		}
	case commas > 1:
		s = strings.ReplaceAll(s, ",", "")
	case dots > 1:
		s = strings.ReplaceAll(s, ".", "")
	case commas == 1:
		// "30,000" is a thousands separator, "30,5" a decimal.
		if isThousandsGroup(s, ",") {
			s = strings.ReplaceAll(s, ",", "")
		} else {
			s = strings.Replace(s, ",", ".", 1)
		}
	case dots == 1:
		if isThousandsGroup(s, ".") {
			s = strings.ReplaceAll(s, ".", "")
		}
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func isThousandsGroup(s, sep string) bool {
	idx := strings.Index(s, sep)
	return len(s)-idx-1 == 3
}

// scaleSuffix applies the magnitude suffix to an amount: "k" and "thousand"
// scale by a thousand, "mil" and "million" by a million.
func scaleSuffix(amount float64, suffix string) float64 {
	switch strings.ToLower(strings.TrimSpace(suffix)) {
	case "k", "thousand":
		return amount * 1_000
	case "mil", "million":
		return amount * 1_000_000
	default:
		return amount
	}
}
