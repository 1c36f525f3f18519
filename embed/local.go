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


// Package embed maps text to fixed-width vectors. The default backend is a
// local hashed term-frequency method that performs no I/O, so retrieval
// keeps working offline; a remote langchaingo-backed embedder can be plugged
// in where higher quality matters.
package embed

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
	"unicode"
)

// LocalDimensions is the vector width of the local embedder.
const LocalDimensions = 256

// Local is a corpus-statistics embedder: tokens are hashed into a fixed
// number of buckets weighted by term frequency, and the vector is
// L2-normalized. Deterministic, no network, never fails on non-empty input.
type Local struct {
	dims int
}

// NewLocal creates the local embedder.
func NewLocal() *Local {
	return &Local{dims: LocalDimensions}
}

// EmbedText embeds a single text.
func (l *Local) EmbedText(_ context.Context, text string) ([]float32, error) {
	if strings.TrimSpace(text) == "" {
		return nil, ErrEmptyText
	}
	return l.embed(text), nil
}

// EmbedTexts embeds a batch. Each vector equals what EmbedText would return
// for the same item.
func (l *Local) EmbedTexts(_ context.Context, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))
	for i, text := range texts {
		if strings.TrimSpace(text) == "" {
			return nil, ErrEmptyText
		}
		vectors[i] = l.embed(text)
	}
	return vectors, nil
}

func (l *Local) embed(text string) []float32 {
	tokens := tokenize(text)
	vector := make([]float32, l.dims)
	if len(tokens) == 0 {
		return vector
	}

	weight := 1.0 / float32(len(tokens))
	for _, token := range tokens {
		vector[bucket(token, l.dims)] += weight
	}

	var sumSquares float64
	for _, v := range vector {
		sumSquares += float64(v) * float64(v)
	}
	if sumSquares > 0 {
		norm := float32(1.0 / math.Sqrt(sumSquares))
		for i := range vector {
			vector[i] *= norm
		}
	}
	return vector
}

func bucket(token string, dims int) int {
	h := fnv.New32a()
	h.Write([]byte(token))
	return int(h.Sum32() % uint32(dims))
}

// tokenize lowercases and splits on anything that is not a letter or digit.
func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
