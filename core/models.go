package core

import (
	"encoding/binary"
	"time"

	"github.com/go-crypt/x/blake2b"
)

// ID is a unique identifier for domain entities.
// It is generated using content-based hashing so that the same listing or
// document always maps to the same identity across stores and snapshots.
type ID uint64

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// This ensures that identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// PropertyType classifies what kind of property a listing offers.
type PropertyType string

const (
	PropertyRoom       PropertyType = "room"
	PropertyApartment  PropertyType = "apartment"
	PropertyHouse      PropertyType = "house"
	PropertyLand       PropertyType = "land"
	PropertyCommercial PropertyType = "commercial"
	PropertyMobileHome PropertyType = "mobile-home"
)

// ListingType distinguishes sale listings from rentals.
// The zero value means the status could not be determined.
type ListingType string

const (
	ListingUnknown ListingType = ""
	ListingSale    ListingType = "sale"
	ListingRent    ListingType = "rent"
)

// Coordinates is a WGS84 latitude/longitude pair.
type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Price is a currency-tagged amount as advertised by the source site.
type Price struct {
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

// Listing is a normalized property record produced by a listing source.
// It is immutable once constructed for a given search.
type Listing struct {
	ID           string       `json:"id"`   // source-scoped identifier
	Site         string       `json:"site"` // source site name
	URL          string       `json:"url"`
	Title        string       `json:"title"`
	Price        Price        `json:"price"`
	Beds         *int         `json:"beds,omitempty"`
	Baths        *int         `json:"baths,omitempty"`
	AreaSqm      *float64     `json:"areaSqm,omitempty"`
	Location     string       `json:"location,omitempty"`
	Coordinates  *Coordinates `json:"coordinates,omitempty"`
	PropertyType PropertyType `json:"propertyType,omitempty"`
	ListingType  ListingType  `json:"listingType,omitempty"`
	Photos       []string     `json:"photos,omitempty"`
	Description  string       `json:"description,omitempty"`
	LastSeen     time.Time    `json:"lastSeen"`
}

// Ref returns the site-scoped reference "site/id". Source-scoped IDs may
// collide across sites; the reference never does.
func (l *Listing) Ref() string {
	return l.Site + "/" + l.ID
}

// ContentID returns the stable identity of the listing, derived from its
// site-scoped reference.
func (l *Listing) ContentID() ID {
	return IDFromContent(l.Ref())
}

// PriceIntentKind tags the shape of a parsed price constraint.
type PriceIntentKind int

const (
	// IntentNone means the query carried no price constraint.
	IntentNone PriceIntentKind = iota
	// IntentUnder caps the price at Max.
	IntentUnder
	// IntentOver floors the price at Min.
	IntentOver
	// IntentBetween bounds the price to [Min, Max].
	IntentBetween
	// IntentAround centers the price on Target with a tolerance window.
	IntentAround
)

// PriceIntent is the price constraint extracted from a query.
// Created once per query by the interpreter and never mutated.
// Min, Max and Target are meaningful only for the kinds that use them.
type PriceIntent struct {
	Kind     PriceIntentKind
	Min      float64
	Max      float64
	Target   float64
	Currency string // source currency, empty when unknown
}

// NoPriceIntent returns the intent for a query without a price constraint.
func NoPriceIntent() PriceIntent { return PriceIntent{Kind: IntentNone} }

// Under returns an intent capping the price at max.
func Under(max float64) PriceIntent { return PriceIntent{Kind: IntentUnder, Max: max} }

// Over returns an intent flooring the price at min.
func Over(min float64) PriceIntent { return PriceIntent{Kind: IntentOver, Min: min} }

// Between returns an intent bounding the price to [min, max].
func Between(min, max float64) PriceIntent {
	return PriceIntent{Kind: IntentBetween, Min: min, Max: max}
}

// Around returns an intent centered on target.
func Around(target float64) PriceIntent { return PriceIntent{Kind: IntentAround, Target: target} }

// PriceRange is a canonical-currency price window. A nil bound is open.
type PriceRange struct {
	Min      *float64 `json:"min,omitempty"`
	Max      *float64 `json:"max,omitempty"`
	Currency string   `json:"currency"`
}

// Contains reports whether amount falls within the range.
func (r PriceRange) Contains(amount float64) bool {
	if r.Min != nil && amount < *r.Min {
		return false
	}
	if r.Max != nil && amount > *r.Max {
		return false
	}
	return true
}

// Intent is the structured interpretation of a free-text query.
type Intent struct {
	PropertyType PropertyType // empty when not detected
	Price        PriceIntent
	ListingType  ListingType // sale/rent, empty when not detected
	Location     string      // free-text location hint, empty when not detected
}

// RelevanceResult is the ranker's verdict for a single listing.
// ListingID is the listing's site-scoped reference (Listing.Ref);
// Score is in [0, 100].
type RelevanceResult struct {
	ListingID string
	Relevant  bool
	Score     int
	Reasoning string
}

// MatchType records which search tier produced the results.
type MatchType string

const (
	MatchExact    MatchType = "exact"
	MatchNearMiss MatchType = "near-miss"
)

// RankedListing is a listing annotated with ranking output.
type RankedListing struct {
	Listing
	DistanceKm  *float64 `json:"distanceKm,omitempty"`
	MatchScore  int      `json:"matchScore"`
	AIReasoning string   `json:"aiReasoning,omitempty"`
}

// SearchResult is the outcome of one orchestrated search.
type SearchResult struct {
	SearchID          string          `json:"searchId"`
	MatchType         MatchType       `json:"matchType"`
	Note              string          `json:"note,omitempty"`
	AppliedPriceRange PriceRange      `json:"appliedPriceRange"`
	AppliedRadiusKm   float64         `json:"appliedRadiusKm"`
	Listings          []RankedListing `json:"listings"`
	BlockedSites      []string        `json:"blockedSites,omitempty"`
	AIAvailable       bool            `json:"aiAvailable"`
}
