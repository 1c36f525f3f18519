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
	"sync"

	"github.com/casaseek/casaseek/core"
)

// ResultStore retains recent search results so a follow-up request can
// reference listings by search ID and position.
type ResultStore struct {
	mu      sync.Mutex
	results map[string]*core.SearchResult
}

// NewResultStore creates an empty result store.
func NewResultStore() *ResultStore {
	return &ResultStore{results: make(map[string]*core.SearchResult)}
}

// Save retains a result under its search ID. A nil result is ignored.
func (s *ResultStore) Save(result *core.SearchResult) {
	if result == nil || result.SearchID == "" {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[result.SearchID] = result
}

// Get returns the result saved under searchID.
func (s *ResultStore) Get(searchID string) (*core.SearchResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, ok := s.results[searchID]
	if !ok {
		return nil, ErrResultNotFound
	}
	return result, nil
}

// Pick resolves zero-based listing positions within a saved result. All
// indices must be valid; a single out-of-range index fails the whole pick.
func (s *ResultStore) Pick(searchID string, indices ...int) ([]core.RankedListing, error) {
	result, err := s.Get(searchID)
	if err != nil {
		return nil, err
	}

	picked := make([]core.RankedListing, 0, len(indices))
	for _, idx := range indices {
		if idx < 0 || idx >= len(result.Listings) {
			return nil, ErrIndexOutOfRange
		}
		picked = append(picked, result.Listings[idx])
	}
	return picked, nil
}
