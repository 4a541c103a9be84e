package reviews

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wafarle/wafarle-backend/pkg/db/models"
	"github.com/wafarle/wafarle-backend/pkg/enums"
	pkgerrors "github.com/wafarle/wafarle-backend/pkg/errors"
)

type stubReviewRepo struct {
	reviews    map[uuid.UUID]*models.Review
	products   map[uuid.UUID]*models.Product
	purchases  map[uuid.UUID]map[uuid.UUID]bool
	recomputed []uuid.UUID
}

func newStubReviewRepo(products ...*models.Product) *stubReviewRepo {
	s := &stubReviewRepo{
		reviews:   make(map[uuid.UUID]*models.Review),
		products:  make(map[uuid.UUID]*models.Product),
		purchases: make(map[uuid.UUID]map[uuid.UUID]bool),
	}
	for _, p := range products {
		s.products[p.ID] = p
	}
	return s
}

func (s *stubReviewRepo) FindByID(_ context.Context, id uuid.UUID) (*models.Review, error) {
	if r, ok := s.reviews[id]; ok {
		copied := *r
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubReviewRepo) ListApprovedByProduct(_ context.Context, productID uuid.UUID) ([]models.Review, error) {
	var rows []models.Review
	for _, r := range s.reviews {
		if r.ProductID == productID && r.Status == enums.ReviewStatusApproved {
			rows = append(rows, *r)
		}
	}
	return rows, nil
}

func (s *stubReviewRepo) List(_ context.Context, opts listQuery) ([]models.Review, error) {
	var rows []models.Review
	for _, r := range s.reviews {
		if opts.status != "" && r.Status != opts.status {
			continue
		}
		rows = append(rows, *r)
	}
	if len(rows) > opts.limit {
		rows = rows[:opts.limit]
	}
	return rows, nil
}

func (s *stubReviewRepo) Create(_ context.Context, review *models.Review) (*models.Review, error) {
	review.ID = uuid.New()
	copied := *review
	s.reviews[review.ID] = &copied
	return review, nil
}

func (s *stubReviewRepo) SetStatus(_ context.Context, reviewID, productID uuid.UUID, status enums.ReviewStatus) error {
	if r, ok := s.reviews[reviewID]; ok {
		r.Status = status
	}
	s.recompute(productID)
	return nil
}

func (s *stubReviewRepo) Delete(_ context.Context, reviewID, productID uuid.UUID) error {
	delete(s.reviews, reviewID)
	s.recompute(productID)
	return nil
}

func (s *stubReviewRepo) IncrementHelpful(_ context.Context, reviewID uuid.UUID) error {
	if r, ok := s.reviews[reviewID]; ok {
		r.Helpful++
	}
	return nil
}

func (s *stubReviewRepo) HasPurchased(_ context.Context, customerID, productID uuid.UUID) (bool, error) {
	return s.purchases[customerID][productID], nil
}

func (s *stubReviewRepo) ListProductIDs(_ context.Context) ([]uuid.UUID, error) {
	seen := make(map[uuid.UUID]bool)
	var ids []uuid.UUID
	for _, r := range s.reviews {
		if !seen[r.ProductID] {
			seen[r.ProductID] = true
			ids = append(ids, r.ProductID)
		}
	}
	return ids, nil
}

func (s *stubReviewRepo) RecomputeProduct(_ context.Context, productID uuid.UUID) error {
	s.recompute(productID)
	return nil
}

// recompute mirrors the SQL aggregate: mean and count over approved rows.
func (s *stubReviewRepo) recompute(productID uuid.UUID) {
	s.recomputed = append(s.recomputed, productID)
	product, ok := s.products[productID]
	if !ok {
		return
	}
	sum, count := 0, 0
	for _, r := range s.reviews {
		if r.ProductID == productID && r.Status == enums.ReviewStatusApproved {
			sum += r.Rating
			count++
		}
	}
	if count == 0 {
		product.Rating = 0
		product.ReviewCount = 0
		return
	}
	product.Rating = float64(sum) / float64(count)
	product.ReviewCount = count
}

func (s *stubReviewRepo) markPurchase(customerID, productID uuid.UUID) {
	if s.purchases[customerID] == nil {
		s.purchases[customerID] = make(map[uuid.UUID]bool)
	}
	s.purchases[customerID][productID] = true
}

type stubCatalog struct {
	products map[uuid.UUID]*models.Product
}

func (s *stubCatalog) GetProduct(_ context.Context, id uuid.UUID) (*models.Product, error) {
	if p, ok := s.products[id]; ok {
		return p, nil
	}
	return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
}

func fixture(t *testing.T) (Service, *stubReviewRepo, *models.Product) {
	t.Helper()
	product := &models.Product{ID: uuid.New(), Name: "Netflix Premium", IsActive: true}
	repo := newStubReviewRepo(product)
	svc, err := NewService(repo, &stubCatalog{products: repo.products})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc, repo, product
}

func submit(t *testing.T, svc Service, repo *stubReviewRepo, product *models.Product, rating int) *models.Review {
	t.Helper()
	customerID := uuid.New()
	repo.markPurchase(customerID, product.ID)
	review, err := svc.SubmitReview(context.Background(), customerID, SubmitInput{
		ProductID:    product.ID,
		CustomerName: "Sara Ahmed",
		Rating:       rating,
		Comment:      "works great",
	})
	if err != nil {
		t.Fatalf("SubmitReview: %v", err)
	}
	return review
}

func TestSubmitReviewStartsPendingAndVerified(t *testing.T) {
	svc, repo, product := fixture(t)
	review := submit(t, svc, repo, product, 5)

	if review.Status != enums.ReviewStatusPending {
		t.Fatalf("status = %s", review.Status)
	}
	if !review.IsVerified {
		t.Fatal("purchase should mark review verified")
	}
	if review.ProductName != "Netflix Premium" {
		t.Fatal("product name not snapshotted")
	}
	// pending reviews never move the aggregate
	if product.Rating != 0 || product.ReviewCount != 0 {
		t.Fatalf("aggregate moved by pending review: %v/%d", product.Rating, product.ReviewCount)
	}
}

func TestSubmitReviewUnverifiedWithoutPurchase(t *testing.T) {
	svc, _, product := fixture(t)
	review, err := svc.SubmitReview(context.Background(), uuid.New(), SubmitInput{
		ProductID:    product.ID,
		CustomerName: "Omar",
		Rating:       4,
	})
	if err != nil {
		t.Fatalf("SubmitReview: %v", err)
	}
	if review.IsVerified {
		t.Fatal("review without purchase should not be verified")
	}
}

func TestSubmitReviewRatingBounds(t *testing.T) {
	svc, _, product := fixture(t)
	for _, rating := range []int{0, 6, -1} {
		_, err := svc.SubmitReview(context.Background(), uuid.New(), SubmitInput{
			ProductID:    product.ID,
			CustomerName: "Omar",
			Rating:       rating,
		})
		if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
			t.Fatalf("rating %d: expected validation error, got %v", rating, err)
		}
	}
}

func TestApproveRecomputesAggregate(t *testing.T) {
	ctx := context.Background()
	svc, repo, product := fixture(t)

	first := submit(t, svc, repo, product, 5)
	second := submit(t, svc, repo, product, 4)

	if _, err := svc.SetStatus(ctx, first.ID, enums.ReviewStatusApproved); err != nil {
		t.Fatalf("approve first: %v", err)
	}
	if product.Rating != 5 || product.ReviewCount != 1 {
		t.Fatalf("aggregate after first approval: %v/%d", product.Rating, product.ReviewCount)
	}

	if _, err := svc.SetStatus(ctx, second.ID, enums.ReviewStatusApproved); err != nil {
		t.Fatalf("approve second: %v", err)
	}
	if product.Rating != 4.5 || product.ReviewCount != 2 {
		t.Fatalf("aggregate after second approval: %v/%d", product.Rating, product.ReviewCount)
	}

	// flipping an approved review to rejected pulls it back out
	if _, err := svc.SetStatus(ctx, second.ID, enums.ReviewStatusRejected); err != nil {
		t.Fatalf("reject second: %v", err)
	}
	if product.Rating != 5 || product.ReviewCount != 1 {
		t.Fatalf("aggregate after rejection: %v/%d", product.Rating, product.ReviewCount)
	}
}

func TestSetStatusSameStatusConflicts(t *testing.T) {
	ctx := context.Background()
	svc, repo, product := fixture(t)
	review := submit(t, svc, repo, product, 5)

	if _, err := svc.SetStatus(ctx, review.ID, enums.ReviewStatusApproved); err != nil {
		t.Fatalf("approve: %v", err)
	}
	_, err := svc.SetStatus(ctx, review.ID, enums.ReviewStatusApproved)
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestSetStatusRejectsPendingTarget(t *testing.T) {
	svc, repo, product := fixture(t)
	review := submit(t, svc, repo, product, 5)

	_, err := svc.SetStatus(context.Background(), review.ID, enums.ReviewStatusPending)
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestDeleteApprovedReviewRecomputes(t *testing.T) {
	ctx := context.Background()
	svc, repo, product := fixture(t)
	review := submit(t, svc, repo, product, 3)

	if _, err := svc.SetStatus(ctx, review.ID, enums.ReviewStatusApproved); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if err := svc.DeleteReview(ctx, review.ID); err != nil {
		t.Fatalf("DeleteReview: %v", err)
	}
	if product.Rating != 0 || product.ReviewCount != 0 {
		t.Fatalf("aggregate after delete: %v/%d", product.Rating, product.ReviewCount)
	}
}

func TestMarkHelpful(t *testing.T) {
	svc, repo, product := fixture(t)
	review := submit(t, svc, repo, product, 5)

	if err := svc.MarkHelpful(context.Background(), review.ID); err != nil {
		t.Fatalf("MarkHelpful: %v", err)
	}
	if repo.reviews[review.ID].Helpful != 1 {
		t.Fatalf("helpful = %d", repo.reviews[review.ID].Helpful)
	}
}

func TestRecomputeAllProductStats(t *testing.T) {
	ctx := context.Background()
	svc, repo, product := fixture(t)
	submit(t, svc, repo, product, 5)

	count, err := svc.RecomputeAllProductStats(ctx)
	if err != nil {
		t.Fatalf("RecomputeAllProductStats: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 product recomputed, got %d", count)
	}
}
