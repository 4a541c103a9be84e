package catalog

import (
	"testing"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/wafarle/wafarle-backend/pkg/db/models"
	"github.com/wafarle/wafarle-backend/pkg/enums"
)

func strPtr(s string) *string { return &s }

func intPtr(i int) *int { return &i }

func floatPtr(f float64) *float64 { return &f }

func fixtureProducts() []models.Product {
	return []models.Product{
		{
			ID:          uuid.New(),
			Name:        "Netflix Premium",
			Description: "4K streaming subscription",
			PriceCents:  1299,
			Rating:      4.5,
			Categories:  pq.StringArray{"streaming", "entertainment"},
			Type:        enums.ProductTypeDigital,
			Discount:    strPtr("20%"),
			InStock:     true,
		},
		{
			ID:          uuid.New(),
			Name:        "Office 365 Family",
			Description: "Productivity suite for six users",
			PriceCents:  999,
			Rating:      4.8,
			Categories:  pq.StringArray{"productivity"},
			Type:        enums.ProductTypeDigital,
			InStock:     true,
		},
		{
			ID:          uuid.New(),
			Name:        "Branded Hoodie",
			Description: "Cotton hoodie with logo",
			PriceCents:  4500,
			Rating:      3.9,
			Category:    strPtr("merch"),
			Type:        enums.ProductTypePhysical,
			InStock:     true,
			Stock:       12,
			Discount:    strPtr("5% off"),
		},
		{
			ID:          uuid.New(),
			Name:        "Sold Out Poster",
			Description: "Limited print",
			PriceCents:  1500,
			Category:    strPtr("merch"),
			Type:        enums.ProductTypePhysical,
			InStock:     false,
			Stock:       0,
		},
	}
}

func TestFilterByQuery(t *testing.T) {
	products := fixtureProducts()

	got := Filter(products, FilterSpec{Query: "netflix"})
	if len(got) != 1 || got[0].Name != "Netflix Premium" {
		t.Fatalf("expected only Netflix match, got %d rows", len(got))
	}

	// query also matches category labels
	got = Filter(products, FilterSpec{Query: "MERCH"})
	if len(got) != 2 {
		t.Fatalf("expected 2 merch matches, got %d", len(got))
	}

	// empty query matches everything
	got = Filter(products, FilterSpec{Query: "   "})
	if len(got) != len(products) {
		t.Fatalf("expected all products, got %d", len(got))
	}
}

func TestFilterByCategoryIntersection(t *testing.T) {
	products := fixtureProducts()

	got := Filter(products, FilterSpec{Categories: []string{"streaming", "productivity"}})
	if len(got) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(got))
	}

	// legacy single category field still counts
	got = Filter(products, FilterSpec{Categories: []string{"merch"}})
	if len(got) != 2 {
		t.Fatalf("expected 2 legacy-category matches, got %d", len(got))
	}

	got = Filter(products, FilterSpec{Categories: []string{"missing"}})
	if len(got) != 0 {
		t.Fatalf("expected no matches, got %d", len(got))
	}
}

func TestFilterByPriceBounds(t *testing.T) {
	products := fixtureProducts()

	got := Filter(products, FilterSpec{PriceMinCents: intPtr(999), PriceMaxCents: intPtr(1500)})
	if len(got) != 3 {
		t.Fatalf("expected 3 matches in [999,1500], got %d", len(got))
	}

	// bounds are inclusive
	got = Filter(products, FilterSpec{PriceMinCents: intPtr(4500)})
	if len(got) != 1 || got[0].Name != "Branded Hoodie" {
		t.Fatalf("expected hoodie at exact min bound")
	}
}

func TestFilterByRatingFloor(t *testing.T) {
	products := fixtureProducts()

	got := Filter(products, FilterSpec{MinRating: floatPtr(4.0)})
	if len(got) != 2 {
		t.Fatalf("expected 2 matches >= 4.0, got %d", len(got))
	}

	// absent rating compares as 0
	got = Filter(products, FilterSpec{MinRating: floatPtr(0.1)})
	for _, p := range got {
		if p.Name == "Sold Out Poster" {
			t.Fatal("unrated product should not pass a positive rating floor")
		}
	}
}

func TestFilterByType(t *testing.T) {
	products := fixtureProducts()

	got := Filter(products, FilterSpec{Type: enums.ProductTypePhysical})
	if len(got) != 2 {
		t.Fatalf("expected 2 physical products, got %d", len(got))
	}

	// "all" disables the type filter
	got = Filter(products, FilterSpec{Type: enums.ProductTypeAll})
	if len(got) != len(products) {
		t.Fatalf("expected all products for type=all, got %d", len(got))
	}
}

func TestFilterInStock(t *testing.T) {
	products := fixtureProducts()

	got := Filter(products, FilterSpec{InStock: true})
	for _, p := range got {
		if p.Name == "Sold Out Poster" {
			t.Fatal("out-of-stock physical product should be excluded")
		}
	}
	// digital products always pass the stock check
	found := false
	for _, p := range got {
		if p.Name == "Netflix Premium" {
			found = true
		}
	}
	if !found {
		t.Fatal("digital product should pass in-stock filter")
	}
}

func TestFilterHasDiscount(t *testing.T) {
	got := Filter(fixtureProducts(), FilterSpec{HasDiscount: true})
	if len(got) != 2 {
		t.Fatalf("expected 2 discounted products, got %d", len(got))
	}
}

func TestFilterCombinedPredicatesAND(t *testing.T) {
	got := Filter(fixtureProducts(), FilterSpec{
		Query:         "hoodie",
		Categories:    []string{"merch"},
		PriceMinCents: intPtr(1000),
		Type:          enums.ProductTypePhysical,
		InStock:       true,
		HasDiscount:   true,
	})
	if len(got) != 1 || got[0].Name != "Branded Hoodie" {
		t.Fatalf("expected exactly the hoodie, got %d rows", len(got))
	}
}

func TestFilterDoesNotMutateInput(t *testing.T) {
	products := fixtureProducts()
	before := products[0].Name
	_ = Filter(products, FilterSpec{Query: "zzz"})
	if products[0].Name != before {
		t.Fatal("input slice mutated")
	}
}

func TestDiscountPercentParsing(t *testing.T) {
	cases := []struct {
		raw  *string
		want float64
	}{
		{strPtr("20%"), 20},
		{strPtr("15% off"), 15},
		{strPtr("7.5%"), 7.5},
		{strPtr("save 30%"), 30},
		{strPtr("none"), 0},
		{strPtr(""), 0},
		{nil, 0},
	}
	for _, tc := range cases {
		if got := DiscountPercent(tc.raw); got != tc.want {
			t.Fatalf("DiscountPercent(%v) = %v, want %v", tc.raw, got, tc.want)
		}
	}
}

func TestSortByDiscountDescCapsResults(t *testing.T) {
	var products []models.Product
	labels := []string{"5%", "25%", "10%", "40%", "15%", "30%", "20%", "35%", "45%", "50%"}
	for _, label := range labels {
		products = append(products, models.Product{ID: uuid.New(), Discount: strPtr(label)})
	}

	got := SortByDiscountDesc(products, 0)
	if len(got) != DefaultDealsCap {
		t.Fatalf("expected cap of %d, got %d", DefaultDealsCap, len(got))
	}
	for i := 1; i < len(got); i++ {
		if DiscountPercent(got[i-1].Discount) < DiscountPercent(got[i].Discount) {
			t.Fatalf("results not sorted descending at %d", i)
		}
	}
	if DiscountPercent(got[0].Discount) != 50 {
		t.Fatalf("expected 50%% first, got %v", DiscountPercent(got[0].Discount))
	}
}
