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


// Package query turns a free-text property query into a structured intent:
// property type, price constraint and sale/rent intent, in English and
// Portuguese. The deterministic interpreter needs no AI call; the AI-backed
// interpreter upgrades it and fails closed to it on any error.
package query

import (
	"regexp"

	"github.com/casaseek/casaseek/core"
	"github.com/casaseek/casaseek/currency"
)

const (
	numPat = `(\d+(?:[.,]\d{3})*(?:[.,]\d+)?)`
	sufPat = `\s*(k\b|thousand\b|million\b|mil\b)?`
	symPat = `[€$£]?\s*`
)

// Ordered price regex families. Between wins over under/over so "between
// 10k and 20k" is not read as "under 20k"; a bare price-like number is the
// last resort and becomes an "around" intent.
var (
	reBetween = regexp.MustCompile(`(?i)\b(?:between|entre|from|desde)\s+` + symPat + numPat + sufPat + `\s*(?:euros?|eur|dollars?|usd|pounds?|gbp)?\s*(?:and|to|e|a)\s+` + symPat + numPat + sufPat)
	reUnder   = regexp.MustCompile(`(?i)\b(?:under|below|less\s+than|up\s+to|max(?:imum)?|at\s+most|abaixo\s+de|at[ée]|menos\s+de|no\s+m[áa]ximo)\s+` + symPat + numPat + sufPat)
	reOver    = regexp.MustCompile(`(?i)\b(?:over|above|more\s+than|at\s+least|min(?:imum)?|acima\s+de|mais\s+de|a\s+partir\s+de|pelo\s+menos)\s+` + symPat + numPat + sufPat)
	reAround  = regexp.MustCompile(`(?i)\b(?:around|about|approx(?:imately)?|roughly|cerca\s+de|por\s+volta\s+de|aproximadamente)\s+` + symPat + numPat + sufPat)

	reNumber      = regexp.MustCompile(`([€$£])?\s*` + numPat + sufPat)
	reCurWordNext = regexp.MustCompile(`(?i)^\s*(?:euros?|eur|dollars?|usd|pounds?|gbp|libras?|d[óo]lares?)\b`)
)

// Interpreter extracts a structured intent from free text via pattern
// matching. It is pure and never fails; an unparseable query yields an
// intent with no price constraint.
type Interpreter struct{}

// NewInterpreter creates a deterministic query interpreter.
func NewInterpreter() *Interpreter {
	return &Interpreter{}
}

// Parse extracts property type, price intent, sale/rent intent and a
// location hint from the query.
func (i *Interpreter) Parse(query string) core.Intent {
	intent := core.Intent{Price: i.parsePrice(query)}

	if pt, ok := DetectPropertyType(query); ok {
		intent.PropertyType = pt
	}
	if lt, ok := DetectListingType(query); ok {
		intent.ListingType = lt
	}
	intent.Location = DetectLocation(query)

	return intent
}

func (i *Interpreter) parsePrice(query string) core.PriceIntent {
	price := core.NoPriceIntent()

	if m := reBetween.FindStringSubmatch(query); m != nil {
		lo, okLo := parseAmount(m[1])
		hi, okHi := parseAmount(m[3])
		if okLo && okHi {
			lo = scaleSuffix(lo, m[2])
			hi = scaleSuffix(hi, m[4])
			if lo > hi {
				lo, hi = hi, lo
			}
			price = core.Between(lo, hi)
		}
	} else if m := reUnder.FindStringSubmatch(query); m != nil {
		if v, ok := parseAmount(m[1]); ok {
			price = core.Under(scaleSuffix(v, m[2]))
		}
	} else if m := reOver.FindStringSubmatch(query); m != nil {
		if v, ok := parseAmount(m[1]); ok {
			price = core.Over(scaleSuffix(v, m[2]))
		}
	} else if m := reAround.FindStringSubmatch(query); m != nil {
		if v, ok := parseAmount(m[1]); ok {
			price = core.Around(scaleSuffix(v, m[2]))
		}
	} else if v, ok := i.plainPrice(query); ok {
		price = core.Around(v)
	}

	if price.Kind != core.IntentNone {
		price.Currency = currency.GuessCurrency(query)
	}
	return price
}

// plainPrice finds the first number that looks like a price: scaled value of
// at least 1000, or bearing a currency symbol, magnitude suffix or currency
// word. Small bare integers (bedroom counts, T2 typologies) never qualify.
func (i *Interpreter) plainPrice(query string) (float64, bool) {
	for _, idx := range reNumber.FindAllStringSubmatchIndex(query, -1) {
		sym := group(query, idx, 1)
		num := group(query, idx, 2)
		suf := group(query, idx, 3)

		v, ok := parseAmount(num)
		if !ok {
			continue
		}
		v = scaleSuffix(v, suf)

		following := query[idx[1]:]
		priceLike := sym != "" || suf != "" || reCurWordNext.MatchString(following) || v >= 1000
		if priceLike {
			return v, true
		}
	}
	return 0, false
}

// group returns the text of the n-th submatch from a FindStringSubmatchIndex
// result, or empty when the group did not participate.
func group(s string, idx []int, n int) string {
	lo, hi := idx[2*n], idx[2*n+1]
	if lo < 0 {
		return ""
	}
	return s[lo:hi]
}
