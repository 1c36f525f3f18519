package core

import (
	"testing"
)

func TestIDFromContent(t *testing.T) {
	t.Run("deterministic", func(t *testing.T) {
		a := IDFromContent("idealista/abc-123")
		b := IDFromContent("idealista/abc-123")
		if a != b {
			t.Errorf("same content produced different IDs: %d != %d", a, b)
		}
	})

	t.Run("distinct content distinct IDs", func(t *testing.T) {
		a := IDFromContent("idealista/abc-123")
		b := IDFromContent("idealista/abc-124")
		if a == b {
			t.Errorf("different content produced same ID: %d", a)
		}
	})

	t.Run("empty content", func(t *testing.T) {
		// Still a valid, stable ID.
		a := IDFromContent("")
		b := IDFromContent("")
		if a != b {
			t.Errorf("empty content not stable: %d != %d", a, b)
		}
	})
}

func TestListingContentID(t *testing.T) {
	l1 := &Listing{ID: "42", Site: "idealista"}
	l2 := &Listing{ID: "42", Site: "imovirtual"}

	if l1.ContentID() == l2.ContentID() {
		t.Error("same source ID on different sites must yield different content IDs")
	}
	if l1.ContentID() != IDFromContent("idealista/42") {
		t.Error("content ID must derive from site and source ID")
	}
}

func TestPriceRangeContains(t *testing.T) {
	min := 10000.0
	max := 30000.0

	tests := []struct {
		name   string
		r      PriceRange
		amount float64
		want   bool
	}{
		{"open range contains anything", PriceRange{Currency: "EUR"}, 1e9, true},
		{"within both bounds", PriceRange{Min: &min, Max: &max, Currency: "EUR"}, 20000, true},
		{"at min bound", PriceRange{Min: &min, Max: &max, Currency: "EUR"}, 10000, true},
		{"at max bound", PriceRange{Min: &min, Max: &max, Currency: "EUR"}, 30000, true},
		{"below min", PriceRange{Min: &min, Max: &max, Currency: "EUR"}, 9999.99, false},
		{"above max", PriceRange{Min: &min, Max: &max, Currency: "EUR"}, 30000.01, false},
		{"max only", PriceRange{Max: &max, Currency: "EUR"}, 0, true},
		{"min only", PriceRange{Min: &min, Currency: "EUR"}, 9000, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.r.Contains(tt.amount); got != tt.want {
				t.Errorf("Contains(%v) = %v, want %v", tt.amount, got, tt.want)
			}
		})
	}
}

func TestPriceIntentConstructors(t *testing.T) {
	if got := NoPriceIntent(); got.Kind != IntentNone {
		t.Errorf("NoPriceIntent kind = %v", got.Kind)
	}
	if got := Under(30000); got.Kind != IntentUnder || got.Max != 30000 {
		t.Errorf("Under = %+v", got)
	}
	if got := Over(500); got.Kind != IntentOver || got.Min != 500 {
		t.Errorf("Over = %+v", got)
	}
	if got := Between(100, 200); got.Kind != IntentBetween || got.Min != 100 || got.Max != 200 {
		t.Errorf("Between = %+v", got)
	}
	if got := Around(150000); got.Kind != IntentAround || got.Target != 150000 {
		t.Errorf("Around = %+v", got)
	}
}
