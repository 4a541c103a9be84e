package reviews

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wafarle/wafarle-backend/pkg/db/models"
	"github.com/wafarle/wafarle-backend/pkg/enums"
	"github.com/wafarle/wafarle-backend/pkg/pagination"
)

// Repository exposes review persistence plus the aggregate recompute
// that keeps product rating/review_count in sync.
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

// FindByID loads a single review row.
func (r *Repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	var review models.Review
	if err := r.db.WithContext(ctx).First(&review, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &review, nil
}

// ListApprovedByProduct returns a product's approved reviews, newest first.
func (r *Repository) ListApprovedByProduct(ctx context.Context, productID uuid.UUID) ([]models.Review, error) {
	var rows []models.Review
	err := r.db.WithContext(ctx).
		Where("product_id = ? AND status = ?", productID, enums.ReviewStatusApproved).
		Order("created_at DESC").
		Find(&rows).
		Error
	return rows, err
}

type listQuery struct {
	limit  int
	cursor *pagination.Cursor
	status enums.ReviewStatus
}

// List returns reviews using cursor pagination, newest first, optionally
// narrowed to one moderation status.
func (r *Repository) List(ctx context.Context, opts listQuery) ([]models.Review, error) {
	query := r.db.WithContext(ctx).Model(&models.Review{})

	if opts.status != "" {
		query = query.Where("status = ?", opts.status)
	}
	if opts.cursor != nil {
		query = query.Where("(created_at < ?) OR (created_at = ? AND id < ?)", opts.cursor.CreatedAt, opts.cursor.CreatedAt, opts.cursor.ID)
	}

	query = query.Order("created_at DESC").Order("id DESC").Limit(opts.limit)

	var rows []models.Review
	if err := query.Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

// Create inserts a review row.
func (r *Repository) Create(ctx context.Context, review *models.Review) (*models.Review, error) {
	if err := r.db.WithContext(ctx).Create(review).Error; err != nil {
		return nil, err
	}
	return review, nil
}

// SetStatus flips the moderation status and recomputes the product's
// aggregate rating in the same transaction.
func (r *Repository) SetStatus(ctx context.Context, reviewID, productID uuid.UUID, status enums.ReviewStatus) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Review{}).
			Where("id = ?", reviewID).
			Update("status", status).
			Error; err != nil {
			return err
		}
		return recomputeProduct(tx, productID)
	})
}

// Delete removes the review and recomputes the product's aggregate in the
// same transaction.
func (r *Repository) Delete(ctx context.Context, reviewID, productID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ?", reviewID).Delete(&models.Review{}).Error; err != nil {
			return err
		}
		return recomputeProduct(tx, productID)
	})
}

// IncrementHelpful bumps the helpful counter.
func (r *Repository) IncrementHelpful(ctx context.Context, reviewID uuid.UUID) error {
	return r.db.WithContext(ctx).
		Model(&models.Review{}).
		Where("id = ?", reviewID).
		Update("helpful", gorm.Expr("helpful + 1")).
		Error
}

// HasPurchased reports whether the customer has an order for the product.
func (r *Repository) HasPurchased(ctx context.Context, customerID, productID uuid.UUID) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("customer_id = ? AND product_id = ? AND status <> ?", customerID, productID, enums.OrderStatusCancelled).
		Count(&count).
		Error
	return count > 0, err
}

// ListProductIDs returns every product id referenced by at least one review.
func (r *Repository) ListProductIDs(ctx context.Context) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&models.Review{}).
		Distinct("product_id").
		Pluck("product_id", &ids).
		Error
	return ids, err
}

// RecomputeProduct rebuilds one product's aggregate from approved reviews.
func (r *Repository) RecomputeProduct(ctx context.Context, productID uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return recomputeProduct(tx, productID)
	})
}

func recomputeProduct(tx *gorm.DB, productID uuid.UUID) error {
	var agg struct {
		Rating float64
		Count  int
	}
	err := tx.Model(&models.Review{}).
		Select("COALESCE(AVG(rating), 0) AS rating, COUNT(*) AS count").
		Where("product_id = ? AND status = ?", productID, enums.ReviewStatusApproved).
		Scan(&agg).
		Error
	if err != nil {
		return err
	}
	return tx.Model(&models.Product{}).
		Where("id = ?", productID).
		Updates(map[string]any{
			"rating":       agg.Rating,
			"review_count": agg.Count,
		}).
		Error
}
