// Copyright 2025 Casaseek Labs
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package rank

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/casaseek/casaseek/core"
	"github.com/casaseek/casaseek/query"
)

// Scoring constants for the deterministic ranker. Scores start at the base
// and are clamped to [minScore, maxScore] after all adjustments.
const (
	baseScore = 50
	minScore  = 10
	maxScore  = 95

	typeMatchBonus     = 35
	typeConflictMalus  = -35
	saleWantedRentHit  = -30
	rentWantedSaleHit  = -15
	locationMatchBonus = 15
	areaMatchBonus     = 20

	// areaTolerance is the relative slack around a requested area.
	areaTolerance = 0.20

	// lowRentCutoff marks a price as clearly a monthly rent rather than a
	// purchase price.
	lowRentCutoff = 5000
)

var areaRe = regexp.MustCompile(`(?i)(\d+(?:[.,]\d+)?)\s*(?:m2|m²|sqm|square\s+met(?:er|re)s?|metros(?:\s+quadrados)?)`)

// Heuristic scores listings against a query without any AI call. It is pure,
// never errors, and serves as the ultimate ranking fallback.
type Heuristic struct{}

// NewHeuristic creates the deterministic ranker.
func NewHeuristic() *Heuristic {
	return &Heuristic{}
}

// adjustment is one scoring rule outcome. A hard conflict marks the listing
// irrelevant regardless of the final score.
type adjustment struct {
	delta        int
	reason       string
	hardConflict bool
}

// Rank scores every listing exactly once. Listings stay in input order; the
// caller sorts relevant results by score.
func (h *Heuristic) Rank(queryText string, listings []core.Listing) []core.RelevanceResult {
	wantType, _ := query.DetectPropertyType(queryText)
	wantListing, _ := query.DetectListingType(queryText)
	wantLocation := strings.ToLower(query.DetectLocation(queryText))
	wantArea := detectArea(queryText)

	results := make([]core.RelevanceResult, len(listings))
	for i, l := range listings {
		results[i] = h.score(l, wantType, wantListing, wantLocation, wantArea)
	}
	return results
}

func (h *Heuristic) score(l core.Listing, wantType core.PropertyType, wantListing core.ListingType, wantLocation string, wantArea float64) core.RelevanceResult {
	var adjustments []adjustment

	if wantType != "" && l.PropertyType != "" {
		switch {
		case l.PropertyType == wantType:
			adjustments = append(adjustments, adjustment{typeMatchBonus, "property type matches", false})
		case l.PropertyType == core.PropertyCommercial && isResidential(wantType):
			adjustments = append(adjustments, adjustment{typeConflictMalus, "commercial listing for a residential query", true})
		default:
			adjustments = append(adjustments, adjustment{typeConflictMalus, "property type differs from query", false})
		}
	}

	if wantListing != core.ListingUnknown && l.ListingType != core.ListingUnknown && l.ListingType != wantListing {
		switch wantListing {
		case core.ListingSale:
			hard := l.Price.Amount > 0 && l.Price.Amount < lowRentCutoff
			adjustments = append(adjustments, adjustment{saleWantedRentHit, "rental listing for a purchase query", hard})
		case core.ListingRent:
			adjustments = append(adjustments, adjustment{rentWantedSaleHit, "sale listing for a rental query", false})
		}
	}

	if wantLocation != "" && matchesLocation(l, wantLocation) {
		adjustments = append(adjustments, adjustment{locationMatchBonus, "location matches", false})
	}

	if wantArea > 0 && l.AreaSqm != nil {
		lo, hi := wantArea*(1-areaTolerance), wantArea*(1+areaTolerance)
		if *l.AreaSqm >= lo && *l.AreaSqm <= hi {
			adjustments = append(adjustments, adjustment{areaMatchBonus, "area within requested range", false})
		}
	}

	score := baseScore
	relevant := true
	reasons := make([]string, 0, len(adjustments))
	for _, a := range adjustments {
		score += a.delta
		reasons = append(reasons, a.reason)
		if a.hardConflict {
			relevant = false
		}
	}
	if score < minScore {
		score = minScore
	}
	if score > maxScore {
		score = maxScore
	}

	reasoning := "matches general search criteria"
	if len(reasons) > 0 {
		reasoning = strings.Join(reasons, "; ")
	}

	return core.RelevanceResult{
		ListingID: l.Ref(),
		Relevant:  relevant,
		Score:     score,
		Reasoning: reasoning,
	}
}

func isResidential(t core.PropertyType) bool {
	switch t {
	case core.PropertyRoom, core.PropertyApartment, core.PropertyHouse, core.PropertyMobileHome:
		return true
	}
	return false
}

func matchesLocation(l core.Listing, wantLocation string) bool {
	for _, field := range []string{l.Location, l.Title, l.Description} {
		if strings.Contains(strings.ToLower(field), wantLocation) {
			return true
		}
	}
	return false
}

// detectArea returns the square-meter figure mentioned in the query, or 0.
func detectArea(text string) float64 {
	m := areaRe.FindStringSubmatch(text)
	if m == nil {
		return 0
	}
	v, err := strconv.ParseFloat(strings.Replace(m[1], ",", ".", 1), 64)
	if err != nil {
		return 0
	}
	return v
}
