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


// Package pricing derives strict and near-miss price windows from a parsed
// price intent. Both derivations are deterministic; the near-miss window
// always contains the strict window.
package pricing

import (
	"github.com/casaseek/casaseek/core"
	"github.com/casaseek/casaseek/currency"
)

// Tolerances holds the window-derivation constants.
type Tolerances struct {
	// ExactPct and ExactAbsCapEUR bound the strict window around an
	// "around" target: delta = min(target*ExactPct, ExactAbsCapEUR).
	ExactPct       float64
	ExactAbsCapEUR float64

	// NearMissPct and NearMissAbsFloorEUR widen the strict bounds outward:
	// delta = max(bound*NearMissPct, NearMissAbsFloorEUR).
	NearMissPct         float64
	NearMissAbsFloorEUR float64

	// Search radii applied alongside the respective price windows.
	StrictRadiusKm   float64
	NearMissRadiusKm float64
}

// DefaultTolerances returns the standard tolerance rule set.
func DefaultTolerances() Tolerances {
	return Tolerances{
		ExactPct:            0.02,
		ExactAbsCapEUR:      50,
		NearMissPct:         0.10,
		NearMissAbsFloorEUR: 200,
		StrictRadiusKm:      50,
		NearMissRadiusKm:    50,
	}
}

// Builder computes strict and near-miss price ranges from a price intent,
// normalizing the intent's source currency to EUR first.
type Builder struct {
	converter  *currency.Converter
	tolerances Tolerances
}

// Option configures a Builder.
type Option func(*Builder)

// WithTolerances overrides the default tolerance rule set.
func WithTolerances(t Tolerances) Option {
	return func(b *Builder) {
		b.tolerances = t
	}
}

// NewBuilder creates a price range builder. A nil converter uses the
// default static rates.
func NewBuilder(converter *currency.Converter, opts ...Option) *Builder {
	if converter == nil {
		converter = currency.NewConverter(currency.DefaultRates())
	}
	b := &Builder{
		converter:  converter,
		tolerances: DefaultTolerances(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Tolerances returns the active tolerance rule set.
func (b *Builder) Tolerances() Tolerances { return b.tolerances }

// Build returns the strict and near-miss windows for the intent, both in EUR.
// An unsupported explicit source currency fails the call; this is a mandatory
// subsystem and the error propagates to the caller.
func (b *Builder) Build(intent core.PriceIntent) (strict, nearMiss core.PriceRange, err error) {
	intent, err = b.toEUR(intent)
	if err != nil {
		return core.PriceRange{}, core.PriceRange{}, err
	}

	strict = b.Strict(intent)
	nearMiss = b.NearMiss(intent)
	return strict, nearMiss, nil
}

// Strict derives the tight window directly from the intent.
// The intent must already be in EUR.
func (b *Builder) Strict(intent core.PriceIntent) core.PriceRange {
	r := core.PriceRange{Currency: currency.EUR}
	switch intent.Kind {
	case core.IntentUnder:
		r.Max = ptr(intent.Max)
	case core.IntentOver:
		r.Min = ptr(intent.Min)
	case core.IntentBetween:
		r.Min = ptr(intent.Min)
		r.Max = ptr(intent.Max)
	case core.IntentAround:
		delta := intent.Target * b.tolerances.ExactPct
		if delta > b.tolerances.ExactAbsCapEUR {
			delta = b.tolerances.ExactAbsCapEUR
		}
		r.Min = ptr(clampZero(intent.Target - delta))
		r.Max = ptr(intent.Target + delta)
	}
	return r
}

// NearMiss derives the widened window: each strict bound moves outward by
// max(bound*NearMissPct, NearMissAbsFloorEUR). For "around" intents the
// delta is computed from the target so both bounds widen symmetrically.
// The result always contains the strict window; the lower bound is clamped
// at zero.
func (b *Builder) NearMiss(intent core.PriceIntent) core.PriceRange {
	strict := b.Strict(intent)
	r := core.PriceRange{Currency: currency.EUR}

	if intent.Kind == core.IntentAround {
		delta := b.nearMissDelta(intent.Target)
		r.Min = ptr(clampZero(*strict.Min - delta))
		r.Max = ptr(*strict.Max + delta)
		return r
	}

	if strict.Min != nil {
		r.Min = ptr(clampZero(*strict.Min - b.nearMissDelta(*strict.Min)))
	}
	if strict.Max != nil {
		r.Max = ptr(*strict.Max + b.nearMissDelta(*strict.Max))
	}
	return r
}

func (b *Builder) nearMissDelta(base float64) float64 {
	delta := base * b.tolerances.NearMissPct
	if delta < b.tolerances.NearMissAbsFloorEUR {
		delta = b.tolerances.NearMissAbsFloorEUR
	}
	return delta
}

// toEUR converts the intent's bounds to EUR. An empty source currency is
// treated as already-EUR.
func (b *Builder) toEUR(intent core.PriceIntent) (core.PriceIntent, error) {
	if intent.Currency == "" || intent.Currency == currency.EUR {
		intent.Currency = currency.EUR
		return intent, nil
	}

	var err error
	convert := func(v float64) float64 {
		if err != nil {
			return 0
		}
		var out float64
		out, err = b.converter.ToEUR(v, intent.Currency)
		return out
	}

	intent.Min = convert(intent.Min)
	intent.Max = convert(intent.Max)
	intent.Target = convert(intent.Target)
	if err != nil {
		return core.PriceIntent{}, err
	}
	intent.Currency = currency.EUR
	return intent, nil
}

func ptr(v float64) *float64 { return &v }

func clampZero(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}
