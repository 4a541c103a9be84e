package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/wafarle/wafarle-backend/pkg/enums"
)

// CheckoutGroup ties together the orders created by one checkout
// submission, with the totals quoted to the shopper at submit time.
type CheckoutGroup struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CustomerID    *uuid.UUID          `gorm:"column:customer_id;type:uuid"`
	CartID        *uuid.UUID          `gorm:"column:cart_id;type:uuid"`
	SubtotalCents int                 `gorm:"column:subtotal_cents;not null"`
	ShippingCents int                 `gorm:"column:shipping_cents;not null;default:0"`
	TaxCents      int                 `gorm:"column:tax_cents;not null;default:0"`
	TotalCents    int                 `gorm:"column:total_cents;not null"`
	PaymentMethod enums.PaymentMethod `gorm:"column:payment_method;type:payment_method;not null"`
	Orders        []Order             `gorm:"foreignKey:CheckoutGroupID"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
}
