package reviews

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wafarle/wafarle-backend/internal/catalog"
	"github.com/wafarle/wafarle-backend/pkg/db/models"
	"github.com/wafarle/wafarle-backend/pkg/enums"
	pkgerrors "github.com/wafarle/wafarle-backend/pkg/errors"
	"github.com/wafarle/wafarle-backend/pkg/pagination"
)

const (
	minRating = 1
	maxRating = 5

	maxTitleLen   = 120
	maxCommentLen = 2000
)

type reviewRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Review, error)
	ListApprovedByProduct(ctx context.Context, productID uuid.UUID) ([]models.Review, error)
	List(ctx context.Context, opts listQuery) ([]models.Review, error)
	Create(ctx context.Context, review *models.Review) (*models.Review, error)
	SetStatus(ctx context.Context, reviewID, productID uuid.UUID, status enums.ReviewStatus) error
	Delete(ctx context.Context, reviewID, productID uuid.UUID) error
	IncrementHelpful(ctx context.Context, reviewID uuid.UUID) error
	HasPurchased(ctx context.Context, customerID, productID uuid.UUID) (bool, error)
	ListProductIDs(ctx context.Context) ([]uuid.UUID, error)
	RecomputeProduct(ctx context.Context, productID uuid.UUID) error
}

type productCatalog interface {
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// SubmitInput carries a new customer review.
type SubmitInput struct {
	ProductID    uuid.UUID
	CustomerName string
	Rating       int
	Title        string
	Comment      string
}

// ListParams carries cursor pagination and the optional status narrow.
type ListParams struct {
	pagination.Params
	Status enums.ReviewStatus
}

// ListResult is one moderation page of reviews plus the next cursor.
type ListResult struct {
	Reviews []models.Review `json:"reviews"`
	Cursor  string          `json:"cursor"`
}

// Service exposes review submission, moderation, and aggregates.
type Service interface {
	SubmitReview(ctx context.Context, customerID uuid.UUID, input SubmitInput) (*models.Review, error)
	ProductReviews(ctx context.Context, productID uuid.UUID) ([]models.Review, error)
	ListReviews(ctx context.Context, params ListParams) (*ListResult, error)
	SetStatus(ctx context.Context, id uuid.UUID, status enums.ReviewStatus) (*models.Review, error)
	DeleteReview(ctx context.Context, id uuid.UUID) error
	MarkHelpful(ctx context.Context, id uuid.UUID) error
	RecomputeAllProductStats(ctx context.Context) (int, error)
}

type service struct {
	repo    reviewRepository
	catalog productCatalog
}

// NewService builds a reviews service backed by the provided repository.
func NewService(repo reviewRepository, cat productCatalog) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("reviews repository required")
	}
	if cat == nil {
		return nil, fmt.Errorf("catalog service required")
	}
	return &service{repo: repo, catalog: cat}, nil
}

func (s *service) SubmitReview(ctx context.Context, customerID uuid.UUID, input SubmitInput) (*models.Review, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer identity missing")
	}
	if input.Rating < minRating || input.Rating > maxRating {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "rating must be between 1 and 5")
	}
	name := strings.TrimSpace(input.CustomerName)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer name is required")
	}
	title := strings.TrimSpace(input.Title)
	if len(title) > maxTitleLen {
		title = title[:maxTitleLen]
	}
	comment := strings.TrimSpace(input.Comment)
	if len(comment) > maxCommentLen {
		comment = comment[:maxCommentLen]
	}

	product, err := s.catalog.GetProduct(ctx, input.ProductID)
	if err != nil {
		return nil, err
	}

	verified, err := s.repo.HasPurchased(ctx, customerID, product.ID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check purchase history")
	}

	review := &models.Review{
		ProductID:    product.ID,
		ProductName:  product.Name,
		CustomerID:   &customerID,
		CustomerName: name,
		Rating:       input.Rating,
		Title:        title,
		Comment:      comment,
		Status:       enums.ReviewStatusPending,
		IsVerified:   verified,
	}
	created, err := s.repo.Create(ctx, review)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create review")
	}
	return created, nil
}

func (s *service) ProductReviews(ctx context.Context, productID uuid.UUID) ([]models.Review, error) {
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	rows, err := s.repo.ListApprovedByProduct(ctx, productID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list reviews")
	}
	return rows, nil
}

func (s *service) ListReviews(ctx context.Context, params ListParams) (*ListResult, error) {
	if params.Status != "" && !params.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid review status")
	}

	limit := pagination.NormalizeLimit(params.Limit)
	query := listQuery{
		limit:  pagination.LimitWithBuffer(params.Limit),
		status: params.Status,
	}
	if params.Cursor != "" {
		cursor, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		query.cursor = cursor
	}

	rows, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list reviews")
	}

	nextCursor := ""
	if len(rows) > limit {
		nextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: rows[limit].CreatedAt,
			ID:        rows[limit].ID,
		})
		rows = rows[:limit]
	}
	return &ListResult{Reviews: rows, Cursor: nextCursor}, nil
}

func (s *service) SetStatus(ctx context.Context, id uuid.UUID, status enums.ReviewStatus) (*models.Review, error) {
	if status != enums.ReviewStatusApproved && status != enums.ReviewStatusRejected {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "status must be approved or rejected")
	}
	review, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if review.Status == status {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "review already "+string(status))
	}

	if err := s.repo.SetStatus(ctx, review.ID, review.ProductID, status); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "set review status")
	}
	review.Status = status
	return review, nil
}

func (s *service) DeleteReview(ctx context.Context, id uuid.UUID) error {
	review, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, review.ID, review.ProductID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete review")
	}
	return nil
}

func (s *service) MarkHelpful(ctx context.Context, id uuid.UUID) error {
	if _, err := s.load(ctx, id); err != nil {
		return err
	}
	if err := s.repo.IncrementHelpful(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "increment helpful")
	}
	return nil
}

func (s *service) RecomputeAllProductStats(ctx context.Context) (int, error) {
	ids, err := s.repo.ListProductIDs(ctx)
	if err != nil {
		return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list reviewed products")
	}
	for _, id := range ids {
		if err := s.repo.RecomputeProduct(ctx, id); err != nil {
			return 0, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "recompute product stats")
		}
	}
	return len(ids), nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.Review, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "review id is required")
	}
	review, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "review not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup review")
	}
	return review, nil
}

var _ productCatalog = (catalog.Service)(nil)
