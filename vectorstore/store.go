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


// Package vectorstore keeps named collections of embedded documents in
// memory and answers cosine-similarity queries over them. The whole store is
// snapshotted to a single JSON file after every mutation and reloaded on
// construction. Full-file rewrites are O(store size) per write, which is the
// accepted trade-off at the scale this store serves.
package vectorstore

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"unicode"
)

// Document is one embedded entry in a collection.
type Document struct {
	ID        string            `json:"id"`
	Content   string            `json:"content"`
	Metadata  map[string]string `json:"metadata,omitempty"`
	Embedding []float32         `json:"embedding,omitempty"`
}

// SearchResult pairs a document with its similarity score.
type SearchResult struct {
	Document Document
	Score    float64
}

// Store holds the collections. All methods are safe for concurrent use;
// mutations perform an atomic read-modify-write under one lock, so the last
// writer wins.
type Store struct {
	mu          sync.Mutex
	path        string
	collections map[string]map[string]Document
	logger      *slog.Logger
}

// NewStore creates a store snapshotted at path. An existing snapshot is
// loaded; an empty path keeps the store memory-only.
func NewStore(path string) (*Store, error) {
	s := &Store{
		path:        path,
		collections: make(map[string]map[string]Document),
		logger:      slog.Default().With("component", "vectorstore"),
	}
	if path != "" {
		if err := s.load(); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// AddDocuments upserts documents by ID into the collection and persists the
// store.
func (s *Store) AddDocuments(collection string, docs []Document) error {
	if collection == "" {
		return ErrEmptyCollectionName
	}
	for _, doc := range docs {
		if doc.ID == "" {
			return ErrEmptyDocumentID
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	coll := s.collections[collection]
	if coll == nil {
		coll = make(map[string]Document)
		s.collections[collection] = coll
	}
	for _, doc := range docs {
		coll[doc.ID] = doc
	}
	return s.snapshot()
}

// Search returns up to topK documents with cosine similarity ≥ minScore,
// sorted descending.
func (s *Store) Search(collection string, query []float32, topK int, minScore float64) []SearchResult {
	s.mu.Lock()
	defer s.mu.Unlock()

	results := make([]SearchResult, 0, len(s.collections[collection]))
	for _, doc := range s.collections[collection] {
		score := CosineSimilarity(query, doc.Embedding)
		if score >= minScore {
			results = append(results, SearchResult{Document: doc, Score: score})
		}
	}
	return top(results, topK)
}

// SearchByKeywords is a term-frequency fallback for documents that lack
// embeddings. Scores are the fraction of document tokens matching a query
// token.
func (s *Store) SearchByKeywords(collection, query string, topK int) []SearchResult {
	terms := make(map[string]bool)
	for _, term := range tokenize(query) {
		terms[term] = true
	}
	if len(terms) == 0 {
		return []SearchResult{}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	results := make([]SearchResult, 0, len(s.collections[collection]))
	for _, doc := range s.collections[collection] {
		tokens := tokenize(doc.Content)
		if len(tokens) == 0 {
			continue
		}
		hits := 0
		for _, token := range tokens {
			if terms[token] {
				hits++
			}
		}
		if hits > 0 {
			results = append(results, SearchResult{
				Document: doc,
				Score:    float64(hits) / float64(len(tokens)),
			})
		}
	}
	return top(results, topK)
}

// DeleteDocuments removes the given IDs from the collection and persists.
// Unknown IDs are ignored.
func (s *Store) DeleteDocuments(collection string, ids []string) error {
	if collection == "" {
		return ErrEmptyCollectionName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	coll := s.collections[collection]
	for _, id := range ids {
		delete(coll, id)
	}
	return s.snapshot()
}

// ClearCollection drops a whole collection and persists.
func (s *Store) ClearCollection(collection string) error {
	if collection == "" {
		return ErrEmptyCollectionName
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.collections, collection)
	return s.snapshot()
}

// Stats returns the document count per collection.
func (s *Store) Stats() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()

	stats := make(map[string]int, len(s.collections))
	for name, coll := range s.collections {
		stats[name] = len(coll)
	}
	return stats
}

// CosineSimilarity returns the cosine of the angle between a and b, or 0
// when dimensions mismatch or either vector has zero magnitude.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// snapshot writes the whole store to the snapshot file via a temp file and
// rename, so readers never observe a partial write. Caller holds the lock.
func (s *Store) snapshot() error {
	if s.path == "" {
		return nil
	}

	// Arrays sorted by ID keep snapshots diffable.
	out := make(map[string][]Document, len(s.collections))
	for name, coll := range s.collections {
		docs := make([]Document, 0, len(coll))
		for _, doc := range coll {
			docs = append(docs, doc)
		}
		sort.Slice(docs, func(i, j int) bool { return docs[i].ID < docs[j].ID })
		out[name] = docs
	}

	data, err := json.Marshal(out)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("failed to commit snapshot: %w", err)
	}
	return nil
}

func (s *Store) load() error {
	data, err := os.ReadFile(s.path)
	if os.IsNotExist(err) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read snapshot: %w", err)
	}

	var in map[string][]Document
	if err := json.Unmarshal(data, &in); err != nil {
		return fmt.Errorf("failed to decode snapshot: %w", err)
	}

	for name, docs := range in {
		coll := make(map[string]Document, len(docs))
		for _, doc := range docs {
			coll[doc.ID] = doc
		}
		s.collections[name] = coll
	}
	s.logger.Debug("snapshot loaded", "path", s.path, "collections", len(in))
	return nil
}

func top(results []SearchResult, topK int) []SearchResult {
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score == results[j].Score {
			return results[i].Document.ID < results[j].Document.ID
		}
		return results[i].Score > results[j].Score
	})
	if topK > 0 && len(results) > topK {
		results = results[:topK]
	}
	return results
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
