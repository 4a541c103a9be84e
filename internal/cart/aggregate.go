package cart

import (
	"github.com/wafarle/wafarle-backend/pkg/db/models"
)

// Subtotal sums effective unit price times quantity over all lines.
func Subtotal(items []models.CartItem) int {
	total := 0
	for _, item := range items {
		total += item.UnitPriceCents * item.Qty
	}
	return total
}

// HasPhysical reports whether any line needs shipping.
func HasPhysical(items []models.CartItem) bool {
	for _, item := range items {
		if item.ProductType.RequiresShipping() {
			return true
		}
	}
	return false
}

// ItemCount sums line quantities.
func ItemCount(items []models.CartItem) int {
	count := 0
	for _, item := range items {
		count += item.Qty
	}
	return count
}

// findLine returns the index of the line occupying the variant key, or -1.
func findLine(items []models.CartItem, key LineKey) int {
	for i, item := range items {
		if item.SameLine(key.ProductID, key.PriceOptionID, key.Color, key.Size) {
			return i
		}
	}
	return -1
}
