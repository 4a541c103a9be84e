package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/wafarle/wafarle-backend/pkg/enums"
)

// Order is one cart line item at checkout time. Product name and price are
// snapshots, not live references; TotalCents = UnitPriceCents * Qty at
// creation.
type Order struct {
	ID              uuid.UUID             `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	CheckoutGroupID *uuid.UUID            `gorm:"column:checkout_group_id;type:uuid"`
	CustomerID      *uuid.UUID            `gorm:"column:customer_id;type:uuid"`
	CustomerName    string                `gorm:"column:customer_name;not null"`
	CustomerEmail   string                `gorm:"column:customer_email;not null"`
	CustomerPhone   string                `gorm:"column:customer_phone;not null"`
	ProductID       *uuid.UUID            `gorm:"column:product_id;type:uuid"`
	ProductName     string                `gorm:"column:product_name;not null"`
	ProductType     enums.ProductType     `gorm:"column:product_type;type:product_type;not null"`
	UnitPriceCents  int                   `gorm:"column:unit_price_cents;not null"`
	Qty             int                   `gorm:"column:qty;not null"`
	TotalCents      int                   `gorm:"column:total_cents;not null"`
	Status          enums.OrderStatus     `gorm:"column:status;type:order_status;not null;default:'pending'"`
	PaymentStatus   enums.PaymentStatus   `gorm:"column:payment_status;type:payment_status;not null;default:'unpaid'"`
	PaymentMethod   enums.PaymentMethod   `gorm:"column:payment_method;type:payment_method;not null"`
	ShippingStatus  *enums.ShippingStatus `gorm:"column:shipping_status;type:shipping_status"`
	ShippingAddress *string               `gorm:"column:shipping_address"`
	City            *string               `gorm:"column:city"`
	TrackingNumber  *string               `gorm:"column:tracking_number"`
	Notes           *string               `gorm:"column:notes"`
	CreatedAt       time.Time             `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt       time.Time             `gorm:"column:updated_at;autoUpdateTime"`
}
