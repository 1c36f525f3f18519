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


package core

// ValidateListing checks that a listing satisfies domain constraints.
// Returns the first violated constraint, or nil if the listing is valid.
func ValidateListing(l *Listing) error {
	if l.ID == "" {
		return ErrEmptyListingID
	}
	if l.Title == "" {
		return ErrEmptyListingTitle
	}
	if l.Price.Amount < 0 {
		return ErrNegativePrice
	}
	switch l.ListingType {
	case ListingUnknown, ListingSale, ListingRent:
	default:
		return ErrInvalidListingType
	}
	if c := l.Coordinates; c != nil {
		if c.Lat < -90 || c.Lat > 90 || c.Lng < -180 || c.Lng > 180 {
			return ErrInvalidCoordinates
		}
	}
	return nil
}

// ValidatePriceIntent checks that a price intent's bounds are consistent
// for its kind.
func ValidatePriceIntent(p PriceIntent) error {
	switch p.Kind {
	case IntentNone:
		return nil
	case IntentUnder:
		if p.Max <= 0 {
			return ErrInvalidPriceIntent
		}
	case IntentOver:
		if p.Min < 0 {
			return ErrInvalidPriceIntent
		}
	case IntentBetween:
		if p.Min < 0 || p.Max <= 0 || p.Min > p.Max {
			return ErrInvalidPriceIntent
		}
	case IntentAround:
		if p.Target <= 0 {
			return ErrInvalidPriceIntent
		}
	default:
		return ErrInvalidPriceIntent
	}
	return nil
}
