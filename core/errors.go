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


package core

import "errors"

// Domain validation errors
var (
	// ErrEmptyListingID indicates the listing ID field is empty.
	ErrEmptyListingID = errors.New("listing id cannot be empty")

	// ErrEmptyListingTitle indicates the listing Title field is empty.
	ErrEmptyListingTitle = errors.New("listing title cannot be empty")

	// ErrNegativePrice indicates a listing price below zero.
	ErrNegativePrice = errors.New("listing price cannot be negative")

	// ErrInvalidListingType indicates a ListingType outside sale/rent/unknown.
	ErrInvalidListingType = errors.New("invalid listing type")

	// ErrInvalidCoordinates indicates coordinates outside valid lat/lng bounds.
	ErrInvalidCoordinates = errors.New("coordinates out of range")

	// ErrInvalidPriceIntent indicates a PriceIntent whose bounds are inconsistent.
	ErrInvalidPriceIntent = errors.New("invalid price intent")
)
