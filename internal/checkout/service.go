package checkout

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/wafarle/wafarle-backend/internal/cart"
	"github.com/wafarle/wafarle-backend/internal/payments"
	"github.com/wafarle/wafarle-backend/pkg/config"
	"github.com/wafarle/wafarle-backend/pkg/db/models"
	"github.com/wafarle/wafarle-backend/pkg/enums"
	pkgerrors "github.com/wafarle/wafarle-backend/pkg/errors"
	"github.com/wafarle/wafarle-backend/pkg/money"
)

type checkoutRepository interface {
	FindActiveCart(ctx context.Context, customerID uuid.UUID) (*models.CartRecord, error)
	Submit(ctx context.Context, group *models.CheckoutGroup, orders []models.Order, cartID uuid.UUID) error
	FindGroup(ctx context.Context, id uuid.UUID) (*models.CheckoutGroup, error)
}

// SubmitInput carries everything collected across the checkout steps.
type SubmitInput struct {
	Contact       ContactInfo
	Shipping      ShippingInfo
	PaymentMethod enums.PaymentMethod
	Notes         string
}

// SubmitResult is returned once the group and its orders are persisted.
type SubmitResult struct {
	Group    *models.CheckoutGroup `json:"group"`
	OrderIDs []uuid.UUID           `json:"order_ids"`
	Quote    money.Quote           `json:"quote"`
	Intents  []payments.Intent     `json:"intents"`
}

// Service runs the multi-step checkout flow.
type Service interface {
	CheckContact(ctx context.Context, info ContactInfo) error
	CheckShipping(ctx context.Context, customerID uuid.UUID, info ShippingInfo) error
	Preview(ctx context.Context, customerID uuid.UUID) (*money.Quote, error)
	Submit(ctx context.Context, customerID uuid.UUID, input SubmitInput) (*SubmitResult, error)
	GetGroup(ctx context.Context, id uuid.UUID) (*models.CheckoutGroup, error)
}

type service struct {
	repo      checkoutRepository
	collector payments.Collaborator
	shipping  int
	taxRate   decimal.Decimal
}

// NewService builds a checkout service with the configured total policy.
func NewService(repo checkoutRepository, collector payments.Collaborator, cfg config.CheckoutConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("checkout repository required")
	}
	if collector == nil {
		return nil, fmt.Errorf("payment collaborator required")
	}
	rate, err := cfg.Rate()
	if err != nil {
		return nil, err
	}
	return &service{
		repo:      repo,
		collector: collector,
		shipping:  cfg.ShippingFeeCents,
		taxRate:   rate,
	}, nil
}

func (s *service) CheckContact(_ context.Context, info ContactInfo) error {
	if errs := ValidateContact(info); errs != nil {
		return validationError(errs)
	}
	return nil
}

func (s *service) CheckShipping(ctx context.Context, customerID uuid.UUID, info ShippingInfo) error {
	cartRow, err := s.loadCart(ctx, customerID)
	if err != nil {
		return err
	}
	if errs := ValidateShipping(info, cart.HasPhysical(cartRow.Items)); errs != nil {
		return validationError(errs)
	}
	return nil
}

func (s *service) Preview(ctx context.Context, customerID uuid.UUID) (*money.Quote, error) {
	cartRow, err := s.loadCart(ctx, customerID)
	if err != nil {
		return nil, err
	}
	quote := s.quoteFor(cartRow)
	return &quote, nil
}

func (s *service) Submit(ctx context.Context, customerID uuid.UUID, input SubmitInput) (*SubmitResult, error) {
	if errs := ValidateContact(input.Contact); errs != nil {
		return nil, validationError(errs)
	}
	if !input.PaymentMethod.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method")
	}

	cartRow, err := s.loadCart(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if len(cartRow.Items) == 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")
	}

	hasPhysical := cart.HasPhysical(cartRow.Items)
	if errs := ValidateShipping(input.Shipping, hasPhysical); errs != nil {
		return nil, validationError(errs)
	}

	quote := s.quoteFor(cartRow)
	group := &models.CheckoutGroup{
		CustomerID:    &customerID,
		CartID:        &cartRow.ID,
		SubtotalCents: quote.SubtotalCents,
		ShippingCents: quote.ShippingCents,
		TaxCents:      quote.TaxCents,
		TotalCents:    quote.TotalCents,
		PaymentMethod: input.PaymentMethod,
	}
	orders := buildOrders(customerID, cartRow.Items, input, hasPhysical)

	if err := s.repo.Submit(ctx, group, orders, cartRow.ID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeStateConflict, "cart is no longer active")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "persist checkout")
	}

	result := &SubmitResult{
		Group: group,
		Quote: quote,
	}
	payer := payments.CustomerInfo{
		ID:    customerID,
		Name:  strings.TrimSpace(input.Contact.Name),
		Email: strings.TrimSpace(input.Contact.Email),
	}
	for _, order := range group.Orders {
		result.OrderIDs = append(result.OrderIDs, order.ID)
		intent, err := s.collector.CreateIntent(ctx, order.ID, order.TotalCents, payer)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "start payment collection")
		}
		result.Intents = append(result.Intents, *intent)
	}
	return result, nil
}

func (s *service) GetGroup(ctx context.Context, id uuid.UUID) (*models.CheckoutGroup, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "group id is required")
	}
	group, err := s.repo.FindGroup(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "checkout group not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup checkout group")
	}
	return group, nil
}

func (s *service) loadCart(ctx context.Context, customerID uuid.UUID) (*models.CartRecord, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer identity missing")
	}
	cartRow, err := s.repo.FindActiveCart(ctx, customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no active cart")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	return cartRow, nil
}

func (s *service) quoteFor(cartRow *models.CartRecord) money.Quote {
	return money.ComputeQuote(
		cart.Subtotal(cartRow.Items),
		cart.HasPhysical(cartRow.Items),
		s.shipping,
		s.taxRate,
	)
}

func buildOrders(customerID uuid.UUID, items []models.CartItem, input SubmitInput, hasPhysical bool) []models.Order {
	orders := make([]models.Order, 0, len(items))
	for _, item := range items {
		order := models.Order{
			CustomerID:     &customerID,
			CustomerName:   strings.TrimSpace(input.Contact.Name),
			CustomerEmail:  strings.TrimSpace(input.Contact.Email),
			CustomerPhone:  strings.TrimSpace(input.Contact.Phone),
			ProductID:      ptrUUID(item.ProductID),
			ProductName:    orderProductName(item),
			ProductType:    item.ProductType,
			UnitPriceCents: item.UnitPriceCents,
			Qty:            item.Qty,
			TotalCents:     item.UnitPriceCents * item.Qty,
			Status:         enums.OrderStatusPending,
			PaymentStatus:  enums.PaymentStatusUnpaid,
			PaymentMethod:  input.PaymentMethod,
		}
		if notes := buildNotes(item, input.Notes); notes != "" {
			order.Notes = &notes
		}
		if item.ProductType.RequiresShipping() && hasPhysical {
			status := enums.ShippingStatusPending
			order.ShippingStatus = &status
			address := strings.TrimSpace(input.Shipping.Address)
			city := strings.TrimSpace(input.Shipping.City)
			order.ShippingAddress = &address
			order.City = &city
		}
		orders = append(orders, order)
	}
	return orders
}

// orderProductName snapshots the display name with the chosen option.
func orderProductName(item models.CartItem) string {
	if item.OptionName != nil && strings.TrimSpace(*item.OptionName) != "" {
		return item.ProductName + " - " + strings.TrimSpace(*item.OptionName)
	}
	return item.ProductName
}

func buildNotes(item models.CartItem, userNotes string) string {
	var parts []string
	if item.OptionName != nil && strings.TrimSpace(*item.OptionName) != "" {
		parts = append(parts, "Option: "+strings.TrimSpace(*item.OptionName))
	}
	if item.Color != nil && strings.TrimSpace(*item.Color) != "" {
		parts = append(parts, "Color: "+strings.TrimSpace(*item.Color))
	}
	if item.Size != nil && strings.TrimSpace(*item.Size) != "" {
		parts = append(parts, "Size: "+strings.TrimSpace(*item.Size))
	}
	if trimmed := strings.TrimSpace(userNotes); trimmed != "" {
		parts = append(parts, trimmed)
	}
	return strings.Join(parts, "; ")
}

func ptrUUID(id uuid.UUID) *uuid.UUID {
	return &id
}
