package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// SystemVersion is a released platform version with its changelog. At most
// one version carries IsLatest; the swap is transactional in the versions
// repository.
type SystemVersion struct {
	ID          uuid.UUID      `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Version     string         `gorm:"column:version;uniqueIndex;not null"`
	ReleaseDate time.Time      `gorm:"column:release_date;not null"`
	IsLatest    bool           `gorm:"column:is_latest;not null;default:false"`
	IsStable    bool           `gorm:"column:is_stable;not null;default:true"`
	IsBeta      bool           `gorm:"column:is_beta;not null;default:false"`
	Breaking    bool           `gorm:"column:breaking;not null;default:false"`
	Features    pq.StringArray `gorm:"column:features;type:text[];not null;default:ARRAY[]::text[]"`
	Bugfixes    pq.StringArray `gorm:"column:bugfixes;type:text[];not null;default:ARRAY[]::text[]"`
	CreatedAt   time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}
