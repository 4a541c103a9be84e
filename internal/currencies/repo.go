package currencies

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wafarle/wafarle-backend/pkg/db/models"
)

// Repository exposes currency persistence operations.
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

// FindByID loads a single currency row.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Currency, error) {
	var currency models.Currency
	if err := r.db.WithContext(ctx).First(&currency, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &currency, nil
}

// FindByCode loads a currency by its code.
func (r *Repository) FindByCode(ctx context.Context, code string) (*models.Currency, error) {
	var currency models.Currency
	if err := r.db.WithContext(ctx).First(&currency, "code = ?", code).Error; err != nil {
		return nil, err
	}
	return &currency, nil
}

// List returns all currencies, default first then by code.
func (r *Repository) List(ctx context.Context) ([]models.Currency, error) {
	var rows []models.Currency
	err := r.db.WithContext(ctx).
		Order("is_default DESC").
		Order("code ASC").
		Find(&rows).
		Error
	return rows, err
}

// ListActive returns only active currencies.
func (r *Repository) ListActive(ctx context.Context) ([]models.Currency, error) {
	var rows []models.Currency
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("is_default DESC").
		Order("code ASC").
		Find(&rows).
		Error
	return rows, err
}

// Create inserts a currency row.
func (r *Repository) Create(ctx context.Context, currency *models.Currency) (*models.Currency, error) {
	if err := r.db.WithContext(ctx).Create(currency).Error; err != nil {
		return nil, err
	}
	return currency, nil
}

// Save persists the mutated currency row.
func (r *Repository) Save(ctx context.Context, currency *models.Currency) error {
	return r.db.WithContext(ctx).Save(currency).Error
}

// Delete removes a currency by ID.
func (r *Repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Currency{}).Error
}

// SetDefault clears the previous default and promotes the given currency
// in one transaction, so exactly one default survives.
func (r *Repository) SetDefault(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Currency{}).
			Where("is_default = ?", true).
			Update("is_default", false).
			Error; err != nil {
			return err
		}
		res := tx.Model(&models.Currency{}).
			Where("id = ?", id).
			Update("is_default", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
