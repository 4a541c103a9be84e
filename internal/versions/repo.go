package versions

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wafarle/wafarle-backend/pkg/db/models"
)

// Repository exposes system version persistence operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *Repository) WithTx(tx *gorm.DB) *Repository {
	return &Repository{db: tx}
}

// FindByID loads a single version row.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.SystemVersion, error) {
	var version models.SystemVersion
	if err := r.db.WithContext(ctx).First(&version, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &version, nil
}

// FindByVersion loads a row by its version string.
func (r *Repository) FindByVersion(ctx context.Context, version string) (*models.SystemVersion, error) {
	var row models.SystemVersion
	if err := r.db.WithContext(ctx).First(&row, "version = ?", version).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// FindLatest loads the row flagged latest.
func (r *Repository) FindLatest(ctx context.Context) (*models.SystemVersion, error) {
	var row models.SystemVersion
	if err := r.db.WithContext(ctx).First(&row, "is_latest = ?", true).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

// List returns all versions, newest release first.
func (r *Repository) List(ctx context.Context) ([]models.SystemVersion, error) {
	var rows []models.SystemVersion
	err := r.db.WithContext(ctx).
		Order("release_date DESC").
		Order("created_at DESC").
		Find(&rows).
		Error
	return rows, err
}

// Create inserts a version row.
func (r *Repository) Create(ctx context.Context, version *models.SystemVersion) (*models.SystemVersion, error) {
	if err := r.db.WithContext(ctx).Create(version).Error; err != nil {
		return nil, err
	}
	return version, nil
}

// Save persists the mutated version row.
func (r *Repository) Save(ctx context.Context, version *models.SystemVersion) error {
	return r.db.WithContext(ctx).Save(version).Error
}

// Delete removes a version by ID.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.SystemVersion{}).Error
}

// SetLatest clears the previous latest flag and promotes the given
// version in one transaction, so at most one row stays flagged.
func (r *Repository) SetLatest(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.SystemVersion{}).
			Where("is_latest = ?", true).
			Update("is_latest", false).
			Error; err != nil {
			return err
		}
		res := tx.Model(&models.SystemVersion{}).
			Where("id = ?", id).
			Update("is_latest", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
