package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/wafarle/wafarle-backend/pkg/enums"
)

// Product represents a catalog listing. Rating and ReviewCount are
// aggregates recomputed from approved reviews, never written directly.
type Product struct {
	ID           uuid.UUID            `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name         string               `gorm:"column:name;not null"`
	Description  string               `gorm:"column:description;not null;default:''"`
	PriceCents   int                  `gorm:"column:price_cents;not null"`
	Discount     *string              `gorm:"column:discount"`
	Rating       float64              `gorm:"column:rating;type:numeric(3,2);not null;default:0"`
	ReviewCount  int                  `gorm:"column:review_count;not null;default:0"`
	Categories   pq.StringArray       `gorm:"column:categories;type:text[];not null;default:ARRAY[]::text[]"`
	Category     *string              `gorm:"column:category"` // legacy single-category field, still honored by filters
	Type         enums.ProductType    `gorm:"column:type;type:product_type;not null"`
	InStock      bool                 `gorm:"column:in_stock;not null;default:true"`
	Stock        int                  `gorm:"column:stock;not null;default:0"`
	Images       pq.StringArray       `gorm:"column:images;type:text[];not null;default:ARRAY[]::text[]"`
	IsActive     bool                 `gorm:"column:is_active;not null;default:true"`
	PriceOptions []ProductPriceOption `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time            `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time            `gorm:"column:updated_at;autoUpdateTime"`
}

// ProductPriceOption is a named variant of a product with its own price,
// e.g. a subscription tier.
type ProductPriceOption struct {
	ID         uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID  uuid.UUID `gorm:"column:product_id;type:uuid;not null"`
	Name       string    `gorm:"column:name;not null"`
	PriceCents int       `gorm:"column:price_cents;not null"`
	Position   int       `gorm:"column:position;not null;default:0"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}
