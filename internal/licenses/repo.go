package licenses

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wafarle/wafarle-backend/pkg/db/models"
	"github.com/wafarle/wafarle-backend/pkg/enums"
	"github.com/wafarle/wafarle-backend/pkg/pagination"
)

// Repository exposes license persistence operations.
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

// FindByID loads a single license row.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.License, error) {
	var lic models.License
	if err := r.db.WithContext(ctx).First(&lic, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &lic, nil
}

// FindByKey loads a license by its unique key.
func (r *Repository) FindByKey(ctx context.Context, key string) (*models.License, error) {
	var lic models.License
	if err := r.db.WithContext(ctx).First(&lic, "key = ?", key).Error; err != nil {
		return nil, err
	}
	return &lic, nil
}

// ListByCustomer returns the customer's licenses, newest first.
func (r *Repository) ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]models.License, error) {
	var rows []models.License
	err := r.db.WithContext(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Find(&rows).
		Error
	return rows, err
}

type listQuery struct {
	limit  int
	cursor *pagination.Cursor
}

// List returns licenses using cursor pagination, newest first.
func (r *Repository) List(ctx context.Context, opts listQuery) ([]models.License, error) {
	query := r.db.WithContext(ctx).Model(&models.License{})

	if opts.cursor != nil {
		query = query.Where("(created_at < ?) OR (created_at = ? AND id < ?)", opts.cursor.CreatedAt, opts.cursor.CreatedAt, opts.cursor.ID)
	}

	query = query.Order("created_at DESC").Order("id DESC").Limit(opts.limit)

	var rows []models.License
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Create inserts a license row.
func (r *Repository) Create(ctx context.Context, lic *models.License) (*models.License, error) {
	if err := r.db.WithContext(ctx).Create(lic).Error; err != nil {
		return nil, err
	}
	return lic, nil
}

// Save persists the mutated license row.
func (r *Repository) Save(ctx context.Context, lic *models.License) error {
	return r.db.WithContext(ctx).Save(lic).Error
}

// Delete removes a license by ID.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.License{}).Error
}

// MarkExpiredBefore flips non-permanent licenses whose expiry has lapsed
// to expired, returning how many rows changed.
func (r *Repository) MarkExpiredBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&models.License{}).
		Where("is_permanent = ? AND expiry_date IS NOT NULL AND expiry_date <= ? AND status NOT IN ?",
			false, cutoff, []enums.LicenseStatus{enums.LicenseStatusExpired, enums.LicenseStatusSuspended}).
		Update("status", enums.LicenseStatusExpired)
	return res.RowsAffected, res.Error
}
