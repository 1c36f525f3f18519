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


package ai

import "errors"

var (
	// ErrNoBackends is returned when a gateway is constructed without backends.
	ErrNoBackends = errors.New("at least one AI backend required")

	// ErrAllBackendsFailed is returned when every backend in the chain has
	// been exhausted. Callers treat this as "AI unavailable" and fall back
	// to their deterministic path; it is never surfaced to the end user.
	ErrAllBackendsFailed = errors.New("all AI backends failed")

	// ErrUnknownBackend is returned when switching to a backend that is not
	// part of the chain.
	ErrUnknownBackend = errors.New("unknown AI backend")

	// ErrInvalidMaxAttempts is returned when a retry is configured with a
	// non-positive attempt budget.
	ErrInvalidMaxAttempts = errors.New("max attempts must be greater than zero")
)
