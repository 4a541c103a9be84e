package cart

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/wafarle/wafarle-backend/pkg/config"
	"github.com/wafarle/wafarle-backend/pkg/db/models"
	"github.com/wafarle/wafarle-backend/pkg/enums"
	pkgerrors "github.com/wafarle/wafarle-backend/pkg/errors"
	"github.com/wafarle/wafarle-backend/pkg/money"
)

type cartRepository interface {
	FindActiveByCustomer(ctx context.Context, customerID uuid.UUID) (*models.CartRecord, error)
	Create(ctx context.Context, cart *models.CartRecord) (*models.CartRecord, error)
	SaveItem(ctx context.Context, item *models.CartItem) error
	DeleteItem(ctx context.Context, itemID uuid.UUID) error
	DeleteItems(ctx context.Context, cartID uuid.UUID) error
	UpdateStatus(ctx context.Context, cartID uuid.UUID, status enums.CartStatus) error
}

type productFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindPriceOption(ctx context.Context, id uuid.UUID) (*models.ProductPriceOption, error)
}

// LineKey identifies one distinct cart line.
type LineKey struct {
	ProductID     uuid.UUID
	PriceOptionID *uuid.UUID
	Color         *string
	Size          *string
}

// AddItemInput carries the variant selection for a new line.
type AddItemInput struct {
	LineKey
	Qty int
}

// View is the aggregated cart returned to callers.
type View struct {
	Cart          *models.CartRecord `json:"cart"`
	SubtotalCents int                `json:"subtotal_cents"`
	ItemCount     int                `json:"item_count"`
	HasPhysical   bool               `json:"has_physical"`
}

// Service exposes the per-customer cart aggregation semantics.
type Service interface {
	GetCart(ctx context.Context, customerID uuid.UUID) (*View, error)
	AddItem(ctx context.Context, customerID uuid.UUID, input AddItemInput) (*View, error)
	UpdateQuantity(ctx context.Context, customerID uuid.UUID, key LineKey, qty int) (*View, error)
	RemoveItem(ctx context.Context, customerID uuid.UUID, key LineKey) (*View, error)
	Clear(ctx context.Context, customerID uuid.UUID) error
	Quote(ctx context.Context, customerID uuid.UUID) (*money.Quote, error)
}

type service struct {
	repo     cartRepository
	products productFinder
	shipping int
	taxRate  decimal.Decimal
}

// NewService builds a cart service with the configured total policy.
func NewService(repo cartRepository, products productFinder, cfg config.CheckoutConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product repository required")
	}
	rate, err := cfg.Rate()
	if err != nil {
		return nil, err
	}
	return &service{
		repo:     repo,
		products: products,
		shipping: cfg.ShippingFeeCents,
		taxRate:  rate,
	}, nil
}

func (s *service) GetCart(ctx context.Context, customerID uuid.UUID) (*View, error) {
	cart, err := s.loadOrCreate(ctx, customerID)
	if err != nil {
		return nil, err
	}
	return buildView(cart), nil
}

func (s *service) AddItem(ctx context.Context, customerID uuid.UUID, input AddItemInput) (*View, error) {
	if input.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if input.Qty <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	product, err := s.products.FindByID(ctx, input.ProductID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup product")
	}
	if !product.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "product is not available")
	}

	unitPrice := product.PriceCents
	var optionName *string
	if input.PriceOptionID != nil {
		option, err := s.products.FindPriceOption(ctx, *input.PriceOptionID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "price option not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup price option")
		}
		if option.ProductID != product.ID {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price option does not belong to product")
		}
		unitPrice = option.PriceCents
		optionName = &option.Name
	}

	cart, err := s.loadOrCreate(ctx, customerID)
	if err != nil {
		return nil, err
	}

	qty := input.Qty
	// subscriptions and other non-shipped products carry a single seat per line
	if !product.Type.RequiresShipping() {
		qty = 1
	}

	if idx := findLine(cart.Items, input.LineKey); idx >= 0 {
		line := &cart.Items[idx]
		if product.Type.RequiresShipping() {
			line.Qty += qty
		} else {
			line.Qty = 1
		}
		line.UnitPriceCents = unitPrice
		if err := s.repo.SaveItem(ctx, line); err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart line")
		}
		return buildView(cart), nil
	}

	line := models.CartItem{
		CartID:         cart.ID,
		ProductID:      product.ID,
		PriceOptionID:  input.PriceOptionID,
		Color:          input.Color,
		Size:           input.Size,
		Qty:            qty,
		ProductName:    product.Name,
		ProductType:    product.Type,
		UnitPriceCents: unitPrice,
		OptionName:     optionName,
	}
	if err := s.repo.SaveItem(ctx, &line); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart line")
	}
	cart.Items = append(cart.Items, line)
	return buildView(cart), nil
}

func (s *service) UpdateQuantity(ctx context.Context, customerID uuid.UUID, key LineKey, qty int) (*View, error) {
	cart, err := s.loadActive(ctx, customerID)
	if err != nil {
		return nil, err
	}

	idx := findLine(cart.Items, key)
	if idx < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
	}

	// zero or negative removes exactly this variant line
	if qty <= 0 {
		return s.dropLine(ctx, cart, idx)
	}

	line := &cart.Items[idx]
	if !line.ProductType.RequiresShipping() {
		qty = 1
	}
	line.Qty = qty
	if err := s.repo.SaveItem(ctx, line); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save cart line")
	}
	return buildView(cart), nil
}

func (s *service) RemoveItem(ctx context.Context, customerID uuid.UUID, key LineKey) (*View, error) {
	cart, err := s.loadActive(ctx, customerID)
	if err != nil {
		return nil, err
	}
	idx := findLine(cart.Items, key)
	if idx < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
	}
	return s.dropLine(ctx, cart, idx)
}

func (s *service) Clear(ctx context.Context, customerID uuid.UUID) error {
	cart, err := s.loadActive(ctx, customerID)
	if err != nil {
		return err
	}
	if err := s.repo.DeleteItems(ctx, cart.ID); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "clear cart")
	}
	return nil
}

func (s *service) Quote(ctx context.Context, customerID uuid.UUID) (*money.Quote, error) {
	cart, err := s.loadActive(ctx, customerID)
	if err != nil {
		return nil, err
	}
	quote := money.ComputeQuote(Subtotal(cart.Items), HasPhysical(cart.Items), s.shipping, s.taxRate)
	return &quote, nil
}

func (s *service) dropLine(ctx context.Context, cart *models.CartRecord, idx int) (*View, error) {
	if err := s.repo.DeleteItem(ctx, cart.Items[idx].ID); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "remove cart line")
	}
	cart.Items = append(cart.Items[:idx], cart.Items[idx+1:]...)
	return buildView(cart), nil
}

func (s *service) loadActive(ctx context.Context, customerID uuid.UUID) (*models.CartRecord, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer identity missing")
	}
	cart, err := s.repo.FindActiveByCustomer(ctx, customerID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart is empty")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	return cart, nil
}

func (s *service) loadOrCreate(ctx context.Context, customerID uuid.UUID) (*models.CartRecord, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer identity missing")
	}
	cart, err := s.repo.FindActiveByCustomer(ctx, customerID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load cart")
	}
	created, err := s.repo.Create(ctx, &models.CartRecord{
		CustomerID: customerID,
		Status:     enums.CartStatusActive,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create cart")
	}
	return created, nil
}

func buildView(cart *models.CartRecord) *View {
	return &View{
		Cart:          cart,
		SubtotalCents: Subtotal(cart.Items),
		ItemCount:     ItemCount(cart.Items),
		HasPhysical:   HasPhysical(cart.Items),
	}
}
