package query

import (
	"regexp"
	"strings"

	"github.com/casaseek/casaseek/core"
)

// Rule is one entry of a declarative keyword table: a label, the patterns
// that select it and the anti-patterns that veto it. Rule sets are data, not
// control flow, so each rule can be unit-tested on its own.
type Rule[T ~string] struct {
	Label        T
	Patterns     []*regexp.Regexp
	AntiPatterns []*regexp.Regexp
}

// FirstMatch evaluates rules in order and returns the label of the first
// rule with a matching pattern and no matching anti-pattern.
func FirstMatch[T ~string](text string, rules []Rule[T]) (T, bool) {
	for _, rule := range rules {
		if rule.matches(text) {
			return rule.Label, true
		}
	}
	var zero T
	return zero, false
}

func (r Rule[T]) matches(text string) bool {
	matched := false
	for _, p := range r.Patterns {
		if p.MatchString(text) {
			matched = true
			break
		}
	}
	if !matched {
		return false
	}
	for _, anti := range r.AntiPatterns {
		if anti.MatchString(text) {
			return false
		}
	}
	return true
}

func compile(patterns ...string) []*regexp.Regexp {
	compiled := make([]*regexp.Regexp, len(patterns))
	for i, p := range patterns {
		compiled[i] = regexp.MustCompile(`(?i)` + p)
	}
	return compiled
}

// propertyTypeRules detect the desired property type, English and Portuguese,
// in priority order. Room goes first so "quarto para alugar" is not swallowed
// by the apartment rule; mobile-home anti-patterns keep "casa móvel" out of
// the house rule.
var propertyTypeRules = []Rule[core.PropertyType]{
	{
		Label:        core.PropertyRoom,
		Patterns:     compile(`\broom\b`, `\brooms\b`, `\bquarto\b`, `\bquartos\b`),
		AntiPatterns: compile(`\bapartments?\b`, `\bapartamentos?\b`, `\bhouses?\b`, `\bcasas?\b`, `\bmoradias?\b`, `\bflats?\b`, `\bvillas?\b`, `\bt\d\b`),
	},
	{
		Label:    core.PropertyApartment,
		Patterns: compile(`\bapartments?\b`, `\bapartamentos?\b`, `\bflats?\b`, `\bstudios?\b`, `\best[úu]dios?\b`, `\bcondos?\b`, `\bt\d\b`, `\bduplex\b`),
	},
	{
		Label:        core.PropertyHouse,
		Patterns:     compile(`\bhouses?\b`, `\bcasas?\b`, `\bmoradias?\b`, `\bvillas?\b`, `\bvivendas?\b`, `\btownhouses?\b`, `\bchalets?\b`, `\bv\d\b`),
		AntiPatterns: compile(`\bm[óo]vel\b`, `\bmobile\b`),
	},
	{
		Label:    core.PropertyLand,
		Patterns: compile(`\bland\b`, `\bplot\b`, `\bterreno\b`, `\bterrenos\b`, `\blote\b`, `\br[úu]stico\b`),
	},
	{
		Label:    core.PropertyCommercial,
		Patterns: compile(`\bcommercial\b`, `\bcomercial\b`, `\bloja\b`, `\bshop\b`, `\boffice\b`, `\bescrit[óo]rio\b`, `\bwarehouse\b`, `\barmaz[ée]m\b`, `\brestaurant\b`, `\brestaurante\b`),
	},
	{
		Label:    core.PropertyMobileHome,
		Patterns: compile(`\bmobile\s+home\b`, `\bcasa\s+m[óo]vel\b`, `\bcaravan\b`, `\bcaravana\b`, `\bbungalow\b`),
	},
}

// listingTypeRules detect sale vs rent intent. Rent goes first: "for rent"
// phrasings are more specific than the bare sale keywords.
var listingTypeRules = []Rule[core.ListingType]{
	{
		Label:    core.ListingRent,
		Patterns: compile(`\brent\b`, `\brental\b`, `\brenting\b`, `\barrendar\b`, `\barrendamento\b`, `\balugar\b`, `\baluguel\b`, `\bper\s+month\b`, `/m[êe]s\b`, `/month\b`, `\bmensal\b`, `\bmonthly\b`),
	},
	{
		Label:    core.ListingSale,
		Patterns: compile(`\bbuy\b`, `\bbuying\b`, `\bpurchase\b`, `\bsale\b`, `\bcomprar\b`, `\bvenda\b`, `\bvender\b`),
	},
}

// DetectPropertyType returns the property type implied by the text, if any.
func DetectPropertyType(text string) (core.PropertyType, bool) {
	return FirstMatch(text, propertyTypeRules)
}

// DetectListingType returns the sale/rent intent implied by the text, if any.
func DetectListingType(text string) (core.ListingType, bool) {
	return FirstMatch(text, listingTypeRules)
}

var locationRe = regexp.MustCompile(`(?i)\b(?:near|in|at|perto\s+de|pr[óo]ximo\s+de|junto\s+a|em|zona\s+de)\s+([\p{L}][\p{L}\s-]{1,40})`)

// locationCutSet stops the location capture before a trailing intent keyword.
var locationCutSet = map[string]bool{
	"under": true, "over": true, "below": true, "above": true, "between": true,
	"for": true, "with": true, "and": true, "or": true,
	"around": true, "about": true,
	"até": true, "abaixo": true, "acima": true, "entre": true, "por": true,
	"com": true, "para": true, "menos": true, "mais": true, "cerca": true,
}

// DetectLocation returns a best-effort free-text location hint from the
// query, or an empty string.
func DetectLocation(text string) string {
	m := locationRe.FindStringSubmatch(text)
	if m == nil {
		return ""
	}

	words := strings.Fields(m[1])
	kept := make([]string, 0, len(words))
	for _, w := range words {
		if locationCutSet[strings.ToLower(w)] {
			break
		}
		kept = append(kept, w)
		if len(kept) == 3 {
			break
		}
	}
	return strings.Join(kept, " ")
}
