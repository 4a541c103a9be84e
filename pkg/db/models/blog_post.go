package models

import (
	"time"

	"github.com/google/uuid"
)

// BlogPost is an article on the storefront blog. Like counts live in redis,
// not here.
type BlogPost struct {
	ID          uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Slug        string     `gorm:"column:slug;uniqueIndex;not null"`
	Title       string     `gorm:"column:title;not null"`
	Body        string     `gorm:"column:body;not null;default:''"`
	Published   bool       `gorm:"column:published;not null;default:false"`
	PublishedAt *time.Time `gorm:"column:published_at"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
