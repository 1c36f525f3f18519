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


// Package search ties the pipeline together: parse the query, fetch and
// filter listings against the strict price window, widen to the near-miss
// window only when the strict pass comes up empty, then rank. A search never
// fails because AI is unavailable; it degrades to pattern parsing and
// heuristic ranking and flags the degradation on the result.
package search

import (
	"context"
	"log/slog"

	"github.com/casaseek/casaseek/ai"
	"github.com/casaseek/casaseek/core"
	"github.com/casaseek/casaseek/geo"
	"github.com/casaseek/casaseek/listing"
	"github.com/casaseek/casaseek/pricing"
	"github.com/casaseek/casaseek/rank"
	"github.com/google/uuid"
)

const (
	defaultStrictRadiusKm   = 50
	defaultNearMissRadiusKm = 50

	nearMissNote = "No exact matches found; showing close alternatives."
)

// IntentParser turns a raw query into a structured intent.
type IntentParser interface {
	Parse(ctx context.Context, query string) core.Intent
}

// Ingestor receives the listings a search produced. Implementations index
// asynchronously and never fail the search.
type Ingestor interface {
	IngestListings(ctx context.Context, listings []core.Listing) error
}

// Orchestrator runs the end-to-end search pipeline.
type Orchestrator struct {
	sources  []listing.Source
	parser   IntentParser
	prices   *pricing.Builder
	ranker   *rank.Ranker
	gateway  *ai.Gateway
	policy   *listing.Policy
	ingestor Ingestor
	results  *ResultStore

	strictRadiusKm   float64
	nearMissRadiusKm float64
	logger           *slog.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithGateway wires the AI gateway used for the availability flag.
func WithGateway(gateway *ai.Gateway) Option {
	return func(o *Orchestrator) { o.gateway = gateway }
}

// WithPolicy sets the site access policy surfaced as blocked-sites metadata.
func WithPolicy(policy *listing.Policy) Option {
	return func(o *Orchestrator) { o.policy = policy }
}

// WithIngestor wires the pipeline that persists and indexes search results.
func WithIngestor(ingestor Ingestor) Option {
	return func(o *Orchestrator) { o.ingestor = ingestor }
}

// WithRadii overrides the strict and near-miss search radii in kilometers.
func WithRadii(strictKm, nearMissKm float64) Option {
	return func(o *Orchestrator) {
		if strictKm > 0 {
			o.strictRadiusKm = strictKm
		}
		if nearMissKm > 0 {
			o.nearMissRadiusKm = nearMissKm
		}
	}
}

// WithResultStore replaces the default result store.
func WithResultStore(store *ResultStore) Option {
	return func(o *Orchestrator) {
		if store != nil {
			o.results = store
		}
	}
}

// NewOrchestrator creates the search pipeline over the given sources.
func NewOrchestrator(sources []listing.Source, parser IntentParser, prices *pricing.Builder, ranker *rank.Ranker, opts ...Option) (*Orchestrator, error) {
	if len(sources) == 0 {
		return nil, ErrSourceRequired
	}
	if parser == nil {
		return nil, ErrParserRequired
	}
	if ranker == nil {
		return nil, ErrRankerRequired
	}
	if prices == nil {
		prices = pricing.NewBuilder(nil)
	}

	o := &Orchestrator{
		sources:          sources,
		parser:           parser,
		prices:           prices,
		ranker:           ranker,
		results:          NewResultStore(),
		strictRadiusKm:   defaultStrictRadiusKm,
		nearMissRadiusKm: defaultNearMissRadiusKm,
		logger:           slog.Default().With("component", "search"),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o, nil
}

// Results exposes the store retaining recent search results for follow-ups.
func (o *Orchestrator) Results() *ResultStore {
	return o.results
}

// Search runs the full pipeline for one query. The context is checked
// between pipeline states; cancellation aborts before ranking and ingestion
// side effects.
func (o *Orchestrator) Search(ctx context.Context, query string, userLocation *core.Coordinates) (*core.SearchResult, error) {
	return o.SearchWithMonitor(ctx, query, userLocation, nil)
}

// SearchWithMonitor runs Search with stage callbacks.
func (o *Orchestrator) SearchWithMonitor(ctx context.Context, query string, userLocation *core.Coordinates, monitor Monitor) (*core.SearchResult, error) {
	if monitor == nil {
		monitor = &noopMonitor{}
	}
	monitor.Start(query)

	// PARSE
	intent := o.parser.Parse(ctx, query)
	monitor.AfterParse(intent)

	strict, nearMiss, err := o.prices.Build(intent.Price)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// STRICT_SEARCH + STRICT_FILTER
	fetched := o.fetch(ctx, query, strict, userLocation, intent.PropertyType)
	monitor.AfterSearch(core.MatchExact, len(fetched))

	matchType := core.MatchExact
	applied := strict
	radius := o.strictRadiusKm
	note := ""

	filtered := applyFilters(fetched, strict, userLocation, o.strictRadiusKm, intent.ListingType)
	monitor.AfterFilter(core.MatchExact, len(filtered))

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// Escalate to the near-miss window only when strict found nothing.
	if len(filtered) == 0 {
		matchType = core.MatchNearMiss
		applied = nearMiss
		radius = o.nearMissRadiusKm
		note = nearMissNote
		monitor.Escalated(nearMiss)

		fetched = o.fetch(ctx, query, nearMiss, userLocation, intent.PropertyType)
		monitor.AfterSearch(core.MatchNearMiss, len(fetched))

		filtered = applyFilters(fetched, nearMiss, userLocation, o.nearMissRadiusKm, intent.ListingType)
		monitor.AfterFilter(core.MatchNearMiss, len(filtered))
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	// RANK
	verdicts, err := o.ranker.Rank(ctx, query, filtered)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	monitor.AfterRank(verdicts)
	ranked := rank.Order(filtered, verdicts)
	o.annotateDistances(ranked, userLocation)

	result := &core.SearchResult{
		SearchID:          uuid.NewString(),
		MatchType:         matchType,
		Note:              note,
		AppliedPriceRange: applied,
		AppliedRadiusKm:   radius,
		Listings:          ranked,
		AIAvailable:       o.aiAvailable(ctx),
	}
	if o.policy != nil {
		result.BlockedSites = o.policy.Blocked()
	}

	o.results.Save(result)
	if o.ingestor != nil && len(filtered) > 0 {
		if err := o.ingestor.IngestListings(ctx, filtered); err != nil {
			o.logger.Error("error ingesting search results", "err", err)
		}
	}

	monitor.Finish(result)
	return result, nil
}

// fetch queries every source with the active window. A failing source
// contributes zero results and is logged, never aborting the search.
// Listings are deduplicated by content ID, first source wins.
func (o *Orchestrator) fetch(ctx context.Context, query string, priceRange core.PriceRange, userLocation *core.Coordinates, propertyType core.PropertyType) []core.Listing {
	req := listing.Request{
		Query:        query,
		PriceRange:   priceRange,
		UserLocation: userLocation,
		PropertyType: propertyType,
	}

	seen := make(map[core.ID]bool)
	var all []core.Listing
	for _, source := range o.sources {
		results, err := source.Search(ctx, req)
		if err != nil {
			o.logger.Warn("listing source failed", "source", source.Name(), "err", err)
			continue
		}
		for _, l := range results {
			id := l.ContentID()
			if seen[id] {
				continue
			}
			seen[id] = true
			all = append(all, l)
		}
	}
	return all
}

func (o *Orchestrator) annotateDistances(ranked []core.RankedListing, userLocation *core.Coordinates) {
	if userLocation == nil {
		return
	}
	for i := range ranked {
		if c := ranked[i].Coordinates; c != nil {
			d := geo.DistanceKm(*userLocation, *c)
			ranked[i].DistanceKm = &d
		}
	}
}

func (o *Orchestrator) aiAvailable(ctx context.Context) bool {
	if o.gateway == nil {
		return false
	}
	return o.gateway.Available(ctx)
}
