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


// Package rank scores candidate listings against the user's query. The AI
// strategy asks the gateway for a batch verdict; the heuristic strategy is a
// pure local scorer. Any AI problem downgrades the whole batch to the
// heuristic; only cancellation of the caller's context surfaces as an error.
package rank

import (
	"context"
	"log/slog"
	"sort"
	"time"

	"github.com/casaseek/casaseek/ai"
	"github.com/casaseek/casaseek/core"
)

// Strategy selects how a batch is ranked.
type Strategy int

const (
	// StrategyAuto uses AI when the gateway is available and the batch is
	// small enough, otherwise the heuristic.
	StrategyAuto Strategy = iota
	// StrategyAI forces the AI path (still falls back on failure).
	StrategyAI
	// StrategyHeuristic forces the local scorer.
	StrategyHeuristic
)

const (
	defaultMaxAIBatch = 25
	defaultAITimeout  = 60 * time.Second
)

// Ranker produces one RelevanceResult per candidate listing.
type Ranker struct {
	gateway    *ai.Gateway
	heuristic  *Heuristic
	strategy   Strategy
	maxAIBatch int
	aiTimeout  time.Duration
	logger     *slog.Logger
}

// Option configures a Ranker.
type Option func(*Ranker)

// WithStrategy overrides automatic strategy selection.
func WithStrategy(s Strategy) Option {
	return func(r *Ranker) { r.strategy = s }
}

// WithMaxAIBatch sets the largest batch handed to the AI path.
func WithMaxAIBatch(n int) Option {
	return func(r *Ranker) {
		if n > 0 {
			r.maxAIBatch = n
		}
	}
}

// WithAITimeout bounds the AI ranking call.
func WithAITimeout(d time.Duration) Option {
	return func(r *Ranker) {
		if d > 0 {
			r.aiTimeout = d
		}
	}
}

// NewRanker creates a ranker. A nil gateway is valid and pins the ranker to
// the heuristic strategy.
func NewRanker(gateway *ai.Gateway, opts ...Option) *Ranker {
	r := &Ranker{
		gateway:    gateway,
		heuristic:  NewHeuristic(),
		maxAIBatch: defaultMaxAIBatch,
		aiTimeout:  defaultAITimeout,
		logger:     slog.Default().With("component", "ranker"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Rank scores every listing exactly once, in input order. An AI failure
// downgrades the whole batch to the heuristic; cancellation of the caller's
// context is not a downgrade and propagates as an error instead.
func (r *Ranker) Rank(ctx context.Context, queryText string, listings []core.Listing) ([]core.RelevanceResult, error) {
	if len(listings) == 0 {
		return []core.RelevanceResult{}, nil
	}

	if r.useAI(ctx, len(listings)) {
		results, err := r.rankAI(ctx, queryText, listings)
		if err == nil {
			return results, nil
		}
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		r.logger.Warn("ai ranking failed, using heuristic", "count", len(listings), "err", err)
	}
	return r.heuristic.Rank(queryText, listings), nil
}

func (r *Ranker) useAI(ctx context.Context, count int) bool {
	switch r.strategy {
	case StrategyAI:
		return r.gateway != nil
	case StrategyHeuristic:
		return false
	}
	return r.gateway != nil && count <= r.maxAIBatch && r.gateway.Available(ctx)
}

func (r *Ranker) rankAI(ctx context.Context, queryText string, listings []core.Listing) ([]core.RelevanceResult, error) {
	ctx, cancel := context.WithTimeout(ctx, r.aiTimeout)
	defer cancel()

	response, err := r.gateway.Complete(ctx, ai.Request{
		System:   rankSystemPrompt,
		Prompt:   buildRankPrompt(queryText, listings),
		JSONMode: true,
	})
	if err != nil {
		return nil, err
	}

	verdicts, err := parseVerdicts(response)
	if err != nil {
		return nil, err
	}
	return mapVerdicts(listings, verdicts), nil
}

// Order joins listings with their verdicts by site-scoped reference, drops
// irrelevant ones and sorts the rest by descending score. Ties keep input
// order.
func Order(listings []core.Listing, results []core.RelevanceResult) []core.RankedListing {
	byRef := make(map[string]core.RelevanceResult, len(results))
	for _, res := range results {
		byRef[res.ListingID] = res
	}

	ranked := make([]core.RankedListing, 0, len(listings))
	for _, l := range listings {
		res, ok := byRef[l.Ref()]
		if !ok || !res.Relevant {
			continue
		}
		ranked = append(ranked, core.RankedListing{
			Listing:     l,
			MatchScore:  res.Score,
			AIReasoning: res.Reasoning,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].MatchScore > ranked[j].MatchScore
	})
	return ranked
}
