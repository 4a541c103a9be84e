package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/wafarle/wafarle-backend/pkg/enums"
)

// Customer is a storefront account; Role distinguishes admins.
type Customer struct {
	ID           uuid.UUID       `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Name         string          `gorm:"column:name;not null"`
	Email        string          `gorm:"column:email;uniqueIndex;not null"`
	Phone        string          `gorm:"column:phone;not null;default:''"`
	PasswordHash string          `gorm:"column:password_hash;not null"`
	Role         enums.ActorRole `gorm:"column:role;type:actor_role;not null;default:'customer'"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
