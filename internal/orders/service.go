package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wafarle/wafarle-backend/pkg/db/models"
	"github.com/wafarle/wafarle-backend/pkg/enums"
	pkgerrors "github.com/wafarle/wafarle-backend/pkg/errors"
	pkgpagination "github.com/wafarle/wafarle-backend/pkg/pagination"
)

type orderRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]models.Order, error)
	List(ctx context.Context, opts listQuery) ([]models.Order, error)
	Save(ctx context.Context, order *models.Order) error
}

// OrderView is an order plus the presentations the storefront renders.
type OrderView struct {
	Order    models.Order  `json:"order"`
	Status   Presentation  `json:"status"`
	Shipping *Presentation `json:"shipping,omitempty"`
}

// ListParams carries cursor pagination and the optional status narrow.
type ListParams struct {
	pkgpagination.Params
	Status enums.OrderStatus
}

// ListResult is one admin page of orders plus the next cursor.
type ListResult struct {
	Orders []OrderView `json:"orders"`
	Cursor string      `json:"cursor"`
}

// FulfillmentInput carries the admin-side mutation fields. Nil fields are
// left untouched.
type FulfillmentInput struct {
	Status         *enums.OrderStatus
	PaymentStatus  *enums.PaymentStatus
	ShippingStatus *enums.ShippingStatus
	TrackingNumber *string
}

// Service exposes customer order history and admin fulfillment.
type Service interface {
	MyOrders(ctx context.Context, customerID uuid.UUID) ([]OrderView, error)
	GetOrder(ctx context.Context, id uuid.UUID) (*OrderView, error)
	ListOrders(ctx context.Context, params ListParams) (*ListResult, error)
	UpdateFulfillment(ctx context.Context, id uuid.UUID, input FulfillmentInput) (*OrderView, error)
}

type service struct {
	repo orderRepository
}

// NewService builds an orders service backed by the provided repository.
func NewService(repo orderRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) MyOrders(ctx context.Context, customerID uuid.UUID) ([]OrderView, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer identity missing")
	}
	rows, err := s.repo.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	views := make([]OrderView, 0, len(rows))
	for _, row := range rows {
		views = append(views, project(row))
	}
	return views, nil
}

func (s *service) GetOrder(ctx context.Context, id uuid.UUID) (*OrderView, error) {
	order, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	view := project(*order)
	return &view, nil
}

func (s *service) ListOrders(ctx context.Context, params ListParams) (*ListResult, error) {
	if params.Status != "" && !params.Status.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
	}

	limit := pkgpagination.NormalizeLimit(params.Limit)
	query := listQuery{
		limit:  pkgpagination.LimitWithBuffer(params.Limit),
		status: params.Status,
	}
	if params.Cursor != "" {
		cursor, err := pkgpagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		query.cursor = cursor
	}

	rows, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}

	nextCursor := ""
	if len(rows) > limit {
		nextCursor = pkgpagination.EncodeCursor(pkgpagination.Cursor{
			CreatedAt: rows[limit].CreatedAt,
			ID:        rows[limit].ID,
		})
		rows = rows[:limit]
	}

	views := make([]OrderView, 0, len(rows))
	for _, row := range rows {
		views = append(views, project(row))
	}
	return &ListResult{Orders: views, Cursor: nextCursor}, nil
}

func (s *service) UpdateFulfillment(ctx context.Context, id uuid.UUID, input FulfillmentInput) (*OrderView, error) {
	order, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	// completed and cancelled orders are settled history
	if order.Status == enums.OrderStatusCompleted || order.Status == enums.OrderStatusCancelled {
		return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "order is in a terminal state")
	}

	if input.Status != nil {
		if !input.Status.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
		}
		order.Status = *input.Status
	}
	if input.PaymentStatus != nil {
		if !input.PaymentStatus.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment status")
		}
		order.PaymentStatus = *input.PaymentStatus
	}
	if input.ShippingStatus != nil {
		if !input.ShippingStatus.IsValid() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid shipping status")
		}
		if !order.ProductType.RequiresShipping() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "order has no shipping leg")
		}
		order.ShippingStatus = input.ShippingStatus
	}
	if input.TrackingNumber != nil {
		tracking := strings.TrimSpace(*input.TrackingNumber)
		if tracking == "" {
			order.TrackingNumber = nil
		} else {
			order.TrackingNumber = &tracking
		}
	}

	if err := s.repo.Save(ctx, order); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save order")
	}
	view := project(*order)
	return &view, nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}
	order, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup order")
	}
	return order, nil
}

func project(order models.Order) OrderView {
	view := OrderView{
		Order:  order,
		Status: ProjectStatus(order.Status),
	}
	if order.ShippingStatus != nil {
		shipping := ProjectShipping(*order.ShippingStatus)
		view.Shipping = &shipping
	}
	return view
}
