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

import "errors"

var (
	// ErrSourceRequired indicates the orchestrator was built without any
	// listing source.
	ErrSourceRequired = errors.New("at least one listing source is required")

	// ErrParserRequired indicates the orchestrator was built without an
	// intent parser.
	ErrParserRequired = errors.New("intent parser is required")

	// ErrRankerRequired indicates the orchestrator was built without a ranker.
	ErrRankerRequired = errors.New("ranker is required")

	// ErrResultNotFound indicates an unknown or expired search ID.
	ErrResultNotFound = errors.New("search result not found")

	// ErrIndexOutOfRange indicates a pick referenced a listing position that
	// does not exist.
	ErrIndexOutOfRange = errors.New("listing index out of range")
)
