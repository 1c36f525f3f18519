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
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/casaseek/casaseek/ai"
	"github.com/casaseek/casaseek/core"
)

// Defaults applied to listings the model forgot to mention.
const (
	defaultScore     = 60
	defaultReasoning = "included based on search criteria"
)

// rawVerdict tolerates the field-name variants models actually emit.
type rawVerdict struct {
	ID             any    `json:"id"`
	ListingID      any    `json:"listingId"`
	Relevant       *bool  `json:"relevant"`
	IsRelevant     *bool  `json:"isRelevant"`
	Score          *int   `json:"score"`
	RelevanceScore *int   `json:"relevanceScore"`
	Reason         string `json:"reason"`
	Reasoning      string `json:"reasoning"`
}

// parseVerdicts extracts the verdict array from a model response. The array
// may sit inside a code fence or be surrounded by prose.
func parseVerdicts(response string) ([]rawVerdict, error) {
	text := ai.ExtractJSONArray(response)
	if text == "" {
		return nil, fmt.Errorf("%w: no JSON array found", ErrMalformedResponse)
	}

	var verdicts []rawVerdict
	if err := json.Unmarshal([]byte(ai.RepairJSON(text)), &verdicts); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	return verdicts, nil
}

// mapVerdicts produces exactly one result per input listing, in input order.
// Verdicts are matched by the site-scoped reference handed to the model; a
// bare source ID is accepted only while it names exactly one listing in the
// batch, so an ID shared across sites can never leak one listing's verdict
// onto another. Listings absent from the verdict set get a safe default.
func mapVerdicts(listings []core.Listing, verdicts []rawVerdict) []core.RelevanceResult {
	byID := make(map[string]rawVerdict, len(verdicts))
	for _, v := range verdicts {
		if id := idText(v.ID); id != "" {
			byID[id] = v
		} else if id := idText(v.ListingID); id != "" {
			byID[id] = v
		}
	}

	bareCount := make(map[string]int, len(listings))
	for _, l := range listings {
		bareCount[l.ID]++
	}

	results := make([]core.RelevanceResult, len(listings))
	for i, l := range listings {
		ref := l.Ref()
		v, ok := byID[ref]
		if !ok && bareCount[l.ID] == 1 {
			v, ok = byID[l.ID]
		}
		if !ok {
			results[i] = core.RelevanceResult{
				ListingID: ref,
				Relevant:  true,
				Score:     defaultScore,
				Reasoning: defaultReasoning,
			}
			continue
		}
		results[i] = v.toResult(ref)
	}
	return results
}

func (v rawVerdict) toResult(listingID string) core.RelevanceResult {
	relevant := true
	if v.Relevant != nil {
		relevant = *v.Relevant
	} else if v.IsRelevant != nil {
		relevant = *v.IsRelevant
	}

	score := defaultScore
	if v.Score != nil {
		score = *v.Score
	} else if v.RelevanceScore != nil {
		score = *v.RelevanceScore
	}
	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	reasoning := v.Reasoning
	if reasoning == "" {
		reasoning = v.Reason
	}
	if reasoning == "" {
		reasoning = defaultReasoning
	}

	return core.RelevanceResult{
		ListingID: listingID,
		Relevant:  relevant,
		Score:     score,
		Reasoning: reasoning,
	}
}

// idText normalizes an id that may arrive as a string or a number.
func idText(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	default:
		return ""
	}
}
