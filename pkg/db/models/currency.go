package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Currency is a display currency with a conversion rate relative to the
// base. Exactly one active currency is the default at any time; the swap
// is enforced transactionally by the currencies repository.
type Currency struct {
	ID        uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Code      string          `gorm:"column:code;not null"`
	Symbol    string          `gorm:"column:symbol;not null"`
	Rate      decimal.Decimal `gorm:"column:rate;type:numeric(18,8);not null"`
	IsDefault bool            `gorm:"column:is_default;not null;default:false"`
	IsActive  bool            `gorm:"column:is_active;not null;default:true"`
	CreatedAt time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
