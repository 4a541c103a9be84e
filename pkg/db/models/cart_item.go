package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/wafarle/wafarle-backend/pkg/enums"
)

// CartItem is one distinct (product, price option, color, size) line with
// its own quantity. The four-part key is the line's identity: quantity
// changes and removals address exactly one combination.
type CartItem struct {
	ID             uuid.UUID         `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CartID         uuid.UUID         `gorm:"column:cart_id;type:uuid;not null"`
	ProductID      uuid.UUID         `gorm:"column:product_id;type:uuid;not null"`
	PriceOptionID  *uuid.UUID        `gorm:"column:price_option_id;type:uuid"`
	Color          *string           `gorm:"column:color"`
	Size           *string           `gorm:"column:size"`
	Qty            int               `gorm:"column:qty;not null;default:1"`
	ProductName    string            `gorm:"column:product_name;not null"`
	ProductType    enums.ProductType `gorm:"column:product_type;type:product_type;not null"`
	UnitPriceCents int               `gorm:"column:unit_price_cents;not null"`
	OptionName     *string           `gorm:"column:option_name"`
	CreatedAt      time.Time         `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time         `gorm:"column:updated_at;autoUpdateTime"`
}

// SameLine reports whether the item occupies the given variant key.
func (c CartItem) SameLine(productID uuid.UUID, priceOptionID *uuid.UUID, color, size *string) bool {
	if c.ProductID != productID {
		return false
	}
	if !equalUUIDPtr(c.PriceOptionID, priceOptionID) {
		return false
	}
	return equalStringPtr(c.Color, color) && equalStringPtr(c.Size, size)
}

func equalUUIDPtr(a, b *uuid.UUID) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func equalStringPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
