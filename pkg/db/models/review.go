package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/wafarle/wafarle-backend/pkg/enums"
)

// Review is a customer rating of a subscription product. Only approved
// reviews count toward the product's aggregate rating.
type Review struct {
	ID           uuid.UUID          `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	ProductID    uuid.UUID          `gorm:"column:product_id;type:uuid;not null"`
	ProductName  string             `gorm:"column:product_name;not null"`
	CustomerID   *uuid.UUID         `gorm:"column:customer_id;type:uuid"`
	CustomerName string             `gorm:"column:customer_name;not null"`
	Rating       int                `gorm:"column:rating;not null"`
	Title        string             `gorm:"column:title;not null;default:''"`
	Comment      string             `gorm:"column:comment;not null;default:''"`
	Status       enums.ReviewStatus `gorm:"column:status;type:review_status;not null;default:'pending'"`
	IsVerified   bool               `gorm:"column:is_verified;not null;default:false"`
	Helpful      int                `gorm:"column:helpful;not null;default:0"`
	CreatedAt    time.Time          `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time          `gorm:"column:updated_at;autoUpdateTime"`
}
