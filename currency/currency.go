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


// Package currency converts supported currency amounts to canonical EUR
// using static exchange rates. It is pure and performs no I/O.
package currency

import (
	"fmt"
	"strings"
)

// Supported currency codes.
const (
	EUR = "EUR"
	USD = "USD"
	GBP = "GBP"
)

// Rates holds static conversion rates into EUR.
type Rates struct {
	USDToEUR float64
	GBPToEUR float64
}

// DefaultRates returns the built-in static rates.
func DefaultRates() Rates {
	return Rates{
		USDToEUR: 0.92,
		GBPToEUR: 1.17,
	}
}

// Converter converts amounts between supported currencies and EUR.
type Converter struct {
	rates Rates
}

// NewConverter creates a converter with the given rates.
// Zero-valued rate fields fall back to the defaults.
func NewConverter(rates Rates) *Converter {
	def := DefaultRates()
	if rates.USDToEUR <= 0 {
		rates.USDToEUR = def.USDToEUR
	}
	if rates.GBPToEUR <= 0 {
		rates.GBPToEUR = def.GBPToEUR
	}
	return &Converter{rates: rates}
}

// ToEUR converts amount from the given currency code to EUR.
// EUR is identity. Unsupported codes return UnsupportedCurrencyError.
func (c *Converter) ToEUR(amount float64, code string) (float64, error) {
	switch strings.ToUpper(strings.TrimSpace(code)) {
	case EUR:
		return amount, nil
	case USD:
		return amount * c.rates.USDToEUR, nil
	case GBP:
		return amount * c.rates.GBPToEUR, nil
	default:
		return 0, &UnsupportedCurrencyError{Code: code}
	}
}

// GuessCurrency returns a best-effort currency code detected from symbols or
// words in text, or an empty string when nothing matches.
func GuessCurrency(text string) string {
	lower := strings.ToLower(text)
	switch {
	case strings.ContainsRune(text, '€'), strings.Contains(lower, "eur"), strings.Contains(lower, "euro"):
		return EUR
	case strings.ContainsRune(text, '$'), strings.Contains(lower, "usd"), strings.Contains(lower, "dollar"), strings.Contains(lower, "dólar"), strings.Contains(lower, "dolar"):
		return USD
	case strings.ContainsRune(text, '£'), strings.Contains(lower, "gbp"), strings.Contains(lower, "pound"), strings.Contains(lower, "libra"):
		return GBP
	}
	return ""
}

// UnsupportedCurrencyError reports a currency code outside the supported set.
type UnsupportedCurrencyError struct {
	Code string
}

func (e *UnsupportedCurrencyError) Error() string {
	return fmt.Sprintf("unsupported currency %q", e.Code)
}
