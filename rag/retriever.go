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


// Package rag retrieves stored context for AI prompts: knowledge documents,
// similar listings and prior conversation turns, assembled under a token
// budget.
package rag

import (
	"context"
	"log/slog"

	"github.com/casaseek/casaseek/embed"
	"github.com/casaseek/casaseek/vectorstore"
)

// Collection names used by the retriever.
const (
	CollectionKnowledge     = "knowledge"
	CollectionListings      = "listings"
	CollectionConversations = "conversations"
)

const (
	defaultTopK     = 5
	defaultMinScore = 0.25
)

// Retrieved holds per-source retrieval results, each sorted by descending
// similarity.
type Retrieved struct {
	Knowledge     []vectorstore.SearchResult
	Listings      []vectorstore.SearchResult
	Conversations []vectorstore.SearchResult
}

// Retriever embeds a query and pulls the closest documents from each source
// collection.
type Retriever struct {
	store    *vectorstore.Store
	embedder *embed.Service
	topK     int
	minScore float64
	logger   *slog.Logger
}

// RetrieverOption configures a Retriever.
type RetrieverOption func(*Retriever)

// WithTopK sets how many documents are pulled per collection.
func WithTopK(k int) RetrieverOption {
	return func(r *Retriever) {
		if k > 0 {
			r.topK = k
		}
	}
}

// WithMinScore sets the similarity floor below which documents are ignored.
func WithMinScore(score float64) RetrieverOption {
	return func(r *Retriever) { r.minScore = score }
}

// NewRetriever creates a retriever over the store and embedding service.
func NewRetriever(store *vectorstore.Store, embedder *embed.Service, opts ...RetrieverOption) *Retriever {
	r := &Retriever{
		store:    store,
		embedder: embedder,
		topK:     defaultTopK,
		minScore: defaultMinScore,
		logger:   slog.Default().With("component", "retriever"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Retrieve embeds the query once and searches all three collections.
func (r *Retriever) Retrieve(ctx context.Context, query string) (*Retrieved, error) {
	vector, err := r.embedder.Embed(ctx, query)
	if err != nil {
		return nil, err
	}

	retrieved := &Retrieved{
		Knowledge:     r.store.Search(CollectionKnowledge, vector, r.topK, r.minScore),
		Listings:      r.store.Search(CollectionListings, vector, r.topK, r.minScore),
		Conversations: r.store.Search(CollectionConversations, vector, r.topK, r.minScore),
	}
	r.logger.Debug("retrieved context",
		"knowledge", len(retrieved.Knowledge),
		"listings", len(retrieved.Listings),
		"conversations", len(retrieved.Conversations))
	return retrieved, nil
}
