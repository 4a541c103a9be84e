package catalog

import (
	"sort"
	"strconv"
	"strings"

	"github.com/wafarle/wafarle-backend/pkg/db/models"
	"github.com/wafarle/wafarle-backend/pkg/enums"
)

// DefaultDealsCap bounds the deals-page listing.
const DefaultDealsCap = 8

// FilterSpec describes the storefront browse filters. All fields are
// optional and combine with logical AND.
type FilterSpec struct {
	Query         string            `json:"query,omitempty"`
	Categories    []string          `json:"categories,omitempty"`
	PriceMinCents *int              `json:"price_min_cents,omitempty"`
	PriceMaxCents *int              `json:"price_max_cents,omitempty"`
	MinRating     *float64          `json:"min_rating,omitempty"`
	Type          enums.ProductType `json:"type,omitempty"`
	InStock       bool              `json:"in_stock,omitempty"`
	HasDiscount   bool              `json:"has_discount,omitempty"`
}

// Filter returns the products matching every predicate in spec. The input
// slice is never mutated.
func Filter(products []models.Product, spec FilterSpec) []models.Product {
	out := make([]models.Product, 0, len(products))
	for _, p := range products {
		if matches(p, spec) {
			out = append(out, p)
		}
	}
	return out
}

func matches(p models.Product, spec FilterSpec) bool {
	if !matchesQuery(p, spec.Query) {
		return false
	}
	if !matchesCategories(p, spec.Categories) {
		return false
	}
	if spec.PriceMinCents != nil && p.PriceCents < *spec.PriceMinCents {
		return false
	}
	if spec.PriceMaxCents != nil && p.PriceCents > *spec.PriceMaxCents {
		return false
	}
	if spec.MinRating != nil && p.Rating < *spec.MinRating {
		return false
	}
	if spec.Type != "" && spec.Type != enums.ProductTypeAll && p.Type != spec.Type {
		return false
	}
	if spec.InStock && p.Type.RequiresShipping() && !(p.InStock && p.Stock > 0) {
		return false
	}
	if spec.HasDiscount && discountValue(p.Discount) == "" {
		return false
	}
	return true
}

// matchesQuery is a case-insensitive substring match against name,
// description, and every category label. An empty query matches everything.
func matchesQuery(p models.Product, query string) bool {
	needle := strings.ToLower(strings.TrimSpace(query))
	if needle == "" {
		return true
	}
	if strings.Contains(strings.ToLower(p.Name), needle) {
		return true
	}
	if strings.Contains(strings.ToLower(p.Description), needle) {
		return true
	}
	for _, cat := range productCategories(p) {
		if strings.Contains(strings.ToLower(cat), needle) {
			return true
		}
	}
	return false
}

// matchesCategories passes when any of the product's categories intersects
// the requested set. Both the categories array and the legacy single field
// count.
func matchesCategories(p models.Product, requested []string) bool {
	if len(requested) == 0 {
		return true
	}
	have := map[string]struct{}{}
	for _, cat := range productCategories(p) {
		have[strings.ToLower(strings.TrimSpace(cat))] = struct{}{}
	}
	for _, want := range requested {
		if _, ok := have[strings.ToLower(strings.TrimSpace(want))]; ok {
			return true
		}
	}
	return false
}

func productCategories(p models.Product) []string {
	cats := make([]string, 0, len(p.Categories)+1)
	cats = append(cats, p.Categories...)
	if p.Category != nil && *p.Category != "" {
		cats = append(cats, *p.Category)
	}
	return cats
}

func discountValue(discount *string) string {
	if discount == nil {
		return ""
	}
	return strings.TrimSpace(*discount)
}

// DiscountPercent parses the numeric percentage out of a discount label
// such as "20%" or "15% off". Products without a parseable discount
// yield 0.
func DiscountPercent(discount *string) float64 {
	raw := discountValue(discount)
	if raw == "" {
		return 0
	}
	var digits strings.Builder
	for _, r := range raw {
		if (r >= '0' && r <= '9') || r == '.' {
			digits.WriteRune(r)
			continue
		}
		if digits.Len() > 0 {
			break
		}
	}
	value, err := strconv.ParseFloat(digits.String(), 64)
	if err != nil {
		return 0
	}
	return value
}

// SortByDiscountDesc orders products by parsed discount percentage
// descending and caps the result. A cap <= 0 falls back to DefaultDealsCap.
func SortByDiscountDesc(products []models.Product, cap int) []models.Product {
	if cap <= 0 {
		cap = DefaultDealsCap
	}
	sorted := make([]models.Product, len(products))
	copy(sorted, products)
	sort.SliceStable(sorted, func(i, j int) bool {
		return DiscountPercent(sorted[i].Discount) > DiscountPercent(sorted[j].Discount)
	})
	if len(sorted) > cap {
		sorted = sorted[:cap]
	}
	return sorted
}
