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


// Package listing defines the listing-source capability consumed by the
// search orchestrator, plus the per-site access policy table.
package listing

import (
	"context"

	"github.com/casaseek/casaseek/core"
)

// Request describes one listing fetch.
type Request struct {
	// Query is the user's raw query, for sources that do their own matching.
	Query string

	// PriceRange is the canonical-currency window the source should honor.
	PriceRange core.PriceRange

	// UserLocation is the search center, when known.
	UserLocation *core.Coordinates

	// PropertyType narrows the fetch, when detected. Empty means all types.
	PropertyType core.PropertyType
}

// Source is an external listing provider. A failing source contributes zero
// results to a search; the orchestrator logs and continues.
type Source interface {
	// Name identifies the source in logs and results.
	Name() string

	// Search returns listings matching the request.
	Search(ctx context.Context, req Request) ([]core.Listing, error)
}

// StaticSource serves a fixed in-memory set, filtered by the request. It
// backs tests and seeded deployments.
type StaticSource struct {
	name     string
	listings []core.Listing
}

// NewStaticSource creates a static source over the given listings.
func NewStaticSource(name string, listings []core.Listing) *StaticSource {
	return &StaticSource{name: name, listings: listings}
}

// Name implements Source.
func (s *StaticSource) Name() string { return s.name }

// Search filters the fixed set by price range and property type.
func (s *StaticSource) Search(ctx context.Context, req Request) ([]core.Listing, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	matches := make([]core.Listing, 0, len(s.listings))
	for _, l := range s.listings {
		if !req.PriceRange.Contains(l.Price.Amount) {
			continue
		}
		if req.PropertyType != "" && l.PropertyType != "" && l.PropertyType != req.PropertyType {
			continue
		}
		matches = append(matches, l)
	}
	return matches, nil
}
