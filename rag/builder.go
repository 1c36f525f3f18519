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


package rag

import (
	"strings"

	"github.com/casaseek/casaseek/vectorstore"
)

// DefaultTokenBudget bounds the assembled context block.
const DefaultTokenBudget = 2000

// EstimateTokens approximates the token count of text as ceil(len/4).
func EstimateTokens(text string) int {
	return (len(text) + 3) / 4
}

// ContextBuilder assembles retrieval results into one prompt block. Sources
// are appended in fixed order (knowledge, listings, conversations); each
// document is admitted whole or not at all, and the first document that
// would exceed the budget stops admission entirely.
type ContextBuilder struct {
	budget int
}

// NewContextBuilder creates a builder with the given token budget; zero or
// negative budgets fall back to the default.
func NewContextBuilder(budget int) *ContextBuilder {
	if budget <= 0 {
		budget = DefaultTokenBudget
	}
	return &ContextBuilder{budget: budget}
}

type section struct {
	header string
	docs   []vectorstore.SearchResult
}

// Build renders the context block. Returns an empty string when nothing was
// retrieved or nothing fits.
func (b *ContextBuilder) Build(retrieved *Retrieved) string {
	if retrieved == nil {
		return ""
	}

	sections := []section{
		{"Relevant knowledge:", retrieved.Knowledge},
		{"Similar listings:", retrieved.Listings},
		{"Previous conversation:", retrieved.Conversations},
	}

	var parts []string
	total := 0
	for _, sec := range sections {
		headerAdded := false
		for _, result := range sec.docs {
			cost := EstimateTokens(result.Document.Content)
			if !headerAdded {
				cost += EstimateTokens(sec.header)
			}
			if total+cost > b.budget {
				return strings.Join(parts, "\n")
			}
			if !headerAdded {
				parts = append(parts, sec.header)
				headerAdded = true
			}
			parts = append(parts, result.Document.Content)
			total += cost
		}
	}
	return strings.Join(parts, "\n")
}
