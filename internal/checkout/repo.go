package checkout

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wafarle/wafarle-backend/pkg/db/models"
	"github.com/wafarle/wafarle-backend/pkg/enums"
)

// Repository persists checkout submissions.
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

// FindActiveCart loads the customer's active cart with its lines.
func (r *Repository) FindActiveCart(ctx context.Context, customerID uuid.UUID) (*models.CartRecord, error) {
	var cart models.CartRecord
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		First(&cart, "customer_id = ? AND status = ?", customerID, enums.CartStatusActive).
		Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// Submit writes the checkout group, its orders, and the cart status flip
// in one transaction. Nothing is persisted if any step fails.
func (r *Repository) Submit(ctx context.Context, group *models.CheckoutGroup, orders []models.Order, cartID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(group).Error; err != nil {
			return err
		}
		for i := range orders {
			orders[i].CheckoutGroupID = &group.ID
		}
		if err := tx.Create(&orders).Error; err != nil {
			return err
		}
		res := tx.Model(&models.CartRecord{}).
			Where("id = ? AND status = ?", cartID, enums.CartStatusActive).
			Update("status", enums.CartStatusConverted)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		group.Orders = orders
		return nil
	})
}

// FindGroup loads a checkout group with its orders.
func (r *Repository) FindGroup(ctx context.Context, id uuid.UUID) (*models.CheckoutGroup, error) {
	var group models.CheckoutGroup
	err := r.db.WithContext(ctx).
		Preload("Orders").
		First(&group, "id = ?", id).
		Error
	if err != nil {
		return nil, err
	}
	return &group, nil
}
