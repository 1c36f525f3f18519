package rank

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/casaseek/casaseek/core"
)

const descriptionLimit = 200

const rankSystemPrompt = `You rate property listings against a buyer's search query and return JSON.

Output ONLY a valid JSON array. Do not include any preamble, explanation, greeting, or acknowledgment.
Start your response directly with the opening bracket [ and end with the closing bracket ].
One element per listing, in any order:

[{"id": "<listing id>", "relevant": true, "score": 0-100, "reasoning": "<one short sentence>"}]

Rules:
- "score" reflects how well the listing satisfies the query: property type, sale vs rent, location, size, budget fit.
- "relevant" is false only for listings that clearly contradict the query (wrong property category, rental when buying).
- Include every listing exactly once. Never invent listings.
- The JSON must parse without errors; no trailing commas and no text outside the array.`

// buildRankPrompt summarizes the candidate batch for a single completion.
func buildRankPrompt(queryText string, listings []core.Listing) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Search query: %q\n\nListings:\n", queryText)

	for _, l := range listings {
		fmt.Fprintf(&b, "- id: %s\n  title: %s\n  price: %.0f %s\n", l.Ref(), l.Title, l.Price.Amount, l.Price.Currency)
		if l.PropertyType != "" {
			fmt.Fprintf(&b, "  type: %s\n", l.PropertyType)
		}
		if l.ListingType != core.ListingUnknown {
			fmt.Fprintf(&b, "  offer: %s\n", l.ListingType)
		}
		if l.Beds != nil {
			fmt.Fprintf(&b, "  beds: %d\n", *l.Beds)
		}
		if l.AreaSqm != nil {
			fmt.Fprintf(&b, "  area: %.0f sqm\n", *l.AreaSqm)
		}
		if l.Location != "" {
			fmt.Fprintf(&b, "  location: %s\n", l.Location)
		}
		if l.Description != "" {
			fmt.Fprintf(&b, "  description: %s\n", truncate(l.Description, descriptionLimit))
		}
	}
	return b.String()
}

// truncate cuts s to at most limit bytes without splitting a rune.
func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	cut := limit
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}
