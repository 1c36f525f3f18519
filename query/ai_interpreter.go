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


package query

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/casaseek/casaseek/ai"
	"github.com/casaseek/casaseek/core"
	"github.com/casaseek/casaseek/currency"
)

// AIInterpreter extracts structured intent with an LLM and falls back to the
// deterministic interpreter whenever the model is unreachable, times out, or
// returns an intent that does not validate. A query therefore always yields a
// usable intent.
type AIInterpreter struct {
	gateway  *ai.Gateway
	fallback *Interpreter
	logger   *slog.Logger
}

// pricePayload and intentPayload match the JSON shape requested from the model.
type pricePayload struct {
	Kind     string  `json:"kind"`
	Min      float64 `json:"min"`
	Max      float64 `json:"max"`
	Target   float64 `json:"target"`
	Currency string  `json:"currency"`
}

type intentPayload struct {
	PropertyType string       `json:"property_type"`
	ListingType  string       `json:"listing_type"`
	Location     string       `json:"location"`
	Price        pricePayload `json:"price"`
}

// NewAIInterpreter creates an interpreter backed by the AI gateway.
func NewAIInterpreter(gateway *ai.Gateway) *AIInterpreter {
	return &AIInterpreter{
		gateway:  gateway,
		fallback: NewInterpreter(),
		logger:   slog.Default().With("component", "query-interpreter"),
	}
}

// Parse extracts the structured intent from the query. It never fails: any
// gateway or parse error downgrades to the pattern-based interpreter.
func (a *AIInterpreter) Parse(ctx context.Context, query string) core.Intent {
	if a.gateway == nil {
		return a.fallback.Parse(query)
	}

	payload, err := a.extract(ctx, query)
	if err != nil {
		a.logger.Warn("falling back to pattern interpreter", "err", err)
		return a.fallback.Parse(query)
	}

	intent, err := payload.toIntent()
	if err != nil {
		a.logger.Warn("model returned invalid intent, falling back",
			"kind", payload.Price.Kind,
			"err", err)
		return a.fallback.Parse(query)
	}
	return intent
}

// extract runs the completion and parses the JSON response, retrying the
// parse loop in case of malformed output.
func (a *AIInterpreter) extract(ctx context.Context, query string) (*intentPayload, error) {
	req := ai.Request{
		System:   fmt.Sprintf(intentPromptTemplate, intentResponseSchema),
		Prompt:   query,
		JSONMode: true,
	}

	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		response, err := a.gateway.Complete(ctx, req)
		if err != nil {
			return nil, err
		}

		text := ai.RepairJSON(ai.StripFences(response))

		var payload intentPayload
		if err := json.Unmarshal([]byte(text), &payload); err != nil {
			lastErr = err
			a.logger.Warn("error parsing intent response",
				"attempt", attempt+1,
				"response", text,
				"err", err)
			continue
		}
		return &payload, nil
	}
	return nil, lastErr
}

// toIntent converts the wire payload into a validated domain intent.
func (p *intentPayload) toIntent() (core.Intent, error) {
	price, err := p.Price.toPriceIntent()
	if err != nil {
		return core.Intent{}, err
	}

	intent := core.Intent{
		Price:    price,
		Location: strings.TrimSpace(p.Location),
	}

	switch pt := core.PropertyType(strings.ToLower(strings.TrimSpace(p.PropertyType))); pt {
	case "":
	case core.PropertyRoom, core.PropertyApartment, core.PropertyHouse,
		core.PropertyLand, core.PropertyCommercial, core.PropertyMobileHome:
		intent.PropertyType = pt
	default:
		return core.Intent{}, fmt.Errorf("unknown property type %q", p.PropertyType)
	}

	switch lt := core.ListingType(strings.ToLower(strings.TrimSpace(p.ListingType))); lt {
	case core.ListingUnknown, core.ListingSale, core.ListingRent:
		intent.ListingType = lt
	default:
		return core.Intent{}, fmt.Errorf("unknown listing type %q", p.ListingType)
	}

	return intent, nil
}

func (p pricePayload) toPriceIntent() (core.PriceIntent, error) {
	var intent core.PriceIntent
	switch strings.ToLower(strings.TrimSpace(p.Kind)) {
	case "", "none":
		return core.NoPriceIntent(), nil
	case "under":
		intent = core.Under(p.Max)
	case "over":
		intent = core.Over(p.Min)
	case "between":
		intent = core.Between(p.Min, p.Max)
	case "around":
		intent = core.Around(p.Target)
	default:
		return core.PriceIntent{}, fmt.Errorf("unknown price intent kind %q", p.Kind)
	}

	intent.Currency = strings.ToUpper(strings.TrimSpace(p.Currency))
	if intent.Currency == "" {
		intent.Currency = currency.EUR
	}
	if err := core.ValidatePriceIntent(intent); err != nil {
		return core.PriceIntent{}, err
	}
	return intent, nil
}
