package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/wafarle/wafarle-backend/pkg/enums"
)

// License gates feature/usage limits for one deployed storefront instance.
// When IsPermanent is set, ExpiryDate is ignored for remaining-days math.
// MaxProducts/MaxOrders of 0 mean unlimited.
type License struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Key           string              `gorm:"column:key;uniqueIndex;not null"`
	CustomerID    *uuid.UUID          `gorm:"column:customer_id;type:uuid"`
	CustomerName  string              `gorm:"column:customer_name;not null"`
	CustomerEmail string              `gorm:"column:customer_email;not null"`
	Domain        string              `gorm:"column:domain;not null"`
	ExtraDomains  pq.StringArray      `gorm:"column:extra_domains;type:text[];not null;default:ARRAY[]::text[]"`
	Type          enums.LicenseType   `gorm:"column:type;type:license_type;not null"`
	Status        enums.LicenseStatus `gorm:"column:status;type:license_status;not null;default:'trial'"`
	IsPermanent   bool                `gorm:"column:is_permanent;not null;default:false"`
	ExpiryDate    *time.Time          `gorm:"column:expiry_date"`
	MaxProducts   int                 `gorm:"column:max_products;not null;default:0"`
	MaxOrders     int                 `gorm:"column:max_orders;not null;default:0"`
	Features      pq.StringArray      `gorm:"column:features;type:text[];not null;default:ARRAY[]::text[]"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
