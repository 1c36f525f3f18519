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


package search

import (
	"github.com/casaseek/casaseek/core"
	"github.com/casaseek/casaseek/geo"
)

// applyFilters narrows fetched listings to the active price window, radius
// and sale/rent intent. A listing whose sale/rent status is unknown is never
// excluded for ambiguity.
func applyFilters(listings []core.Listing, priceRange core.PriceRange, userLocation *core.Coordinates, radiusKm float64, wantListing core.ListingType) []core.Listing {
	kept := make([]core.Listing, 0, len(listings))
	for _, l := range listings {
		if !priceRange.Contains(l.Price.Amount) {
			continue
		}
		if userLocation != nil && !geo.ListingWithinRadius(&l, *userLocation, radiusKm) {
			continue
		}
		if wantListing != core.ListingUnknown &&
			l.ListingType != core.ListingUnknown &&
			l.ListingType != wantListing {
			continue
		}
		kept = append(kept, l)
	}
	return kept
}
