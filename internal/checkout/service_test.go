package checkout

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wafarle/wafarle-backend/internal/payments"
	"github.com/wafarle/wafarle-backend/pkg/config"
	"github.com/wafarle/wafarle-backend/pkg/db/models"
	"github.com/wafarle/wafarle-backend/pkg/enums"
	pkgerrors "github.com/wafarle/wafarle-backend/pkg/errors"
)

type stubCheckoutRepo struct {
	cart        *models.CartRecord
	groups      map[uuid.UUID]*models.CheckoutGroup
	submitCalls int
	failSubmit  error
}

func newStubCheckoutRepo(cart *models.CartRecord) *stubCheckoutRepo {
	return &stubCheckoutRepo{
		cart:   cart,
		groups: make(map[uuid.UUID]*models.CheckoutGroup),
	}
}

func (s *stubCheckoutRepo) FindActiveCart(_ context.Context, customerID uuid.UUID) (*models.CartRecord, error) {
	if s.cart == nil || s.cart.CustomerID != customerID || s.cart.Status != enums.CartStatusActive {
		return nil, gorm.ErrRecordNotFound
	}
	return s.cart, nil
}

func (s *stubCheckoutRepo) Submit(_ context.Context, group *models.CheckoutGroup, orders []models.Order, cartID uuid.UUID) error {
	s.submitCalls++
	if s.failSubmit != nil {
		return s.failSubmit
	}
	group.ID = uuid.New()
	for i := range orders {
		orders[i].ID = uuid.New()
		orders[i].CheckoutGroupID = &group.ID
	}
	group.Orders = orders
	s.groups[group.ID] = group
	if s.cart != nil && s.cart.ID == cartID {
		s.cart.Status = enums.CartStatusConverted
	}
	return nil
}

func (s *stubCheckoutRepo) FindGroup(_ context.Context, id uuid.UUID) (*models.CheckoutGroup, error) {
	if g, ok := s.groups[id]; ok {
		return g, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func strPtr(s string) *string { return &s }

func activeCart(customerID uuid.UUID, items ...models.CartItem) *models.CartRecord {
	return &models.CartRecord{
		ID:         uuid.New(),
		CustomerID: customerID,
		Status:     enums.CartStatusActive,
		Items:      items,
	}
}

func mustService(t *testing.T, repo checkoutRepository) Service {
	t.Helper()
	svc, err := NewService(repo, payments.NewManualCollaborator(), config.CheckoutConfig{
		ShippingFeeCents: 5000,
		TaxRate:          "0.15",
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func validContact() ContactInfo {
	return ContactInfo{Name: "Sara Ahmed", Email: "sara@example.com", Phone: "+966501234567"}
}

func TestValidateContactFields(t *testing.T) {
	if errs := ValidateContact(validContact()); errs != nil {
		t.Fatalf("expected valid contact, got %v", errs)
	}

	errs := ValidateContact(ContactInfo{Email: "bad-email", Phone: "abc"})
	if errs["name"] == "" || errs["email"] == "" || errs["phone"] == "" {
		t.Fatalf("expected all three fields flagged, got %v", errs)
	}
}

func TestValidateShippingSkippedForDigitalCart(t *testing.T) {
	if errs := ValidateShipping(ShippingInfo{}, false); errs != nil {
		t.Fatalf("expected shipping step skipped, got %v", errs)
	}
	errs := ValidateShipping(ShippingInfo{}, true)
	if errs["address"] == "" || errs["city"] == "" {
		t.Fatalf("expected address and city flagged, got %v", errs)
	}
}

func TestSubmitCreatesOneOrderPerLine(t *testing.T) {
	ctx := context.Background()
	customerID := uuid.New()
	red := "red"
	cartRow := activeCart(customerID,
		models.CartItem{
			ID:             uuid.New(),
			ProductID:      uuid.New(),
			ProductName:    "Netflix Premium",
			ProductType:    enums.ProductTypeDigital,
			UnitPriceCents: 1299,
			Qty:            1,
			OptionName:     strPtr("4K Plan"),
		},
		models.CartItem{
			ID:             uuid.New(),
			ProductID:      uuid.New(),
			ProductName:    "Logo Tee",
			ProductType:    enums.ProductTypePhysical,
			UnitPriceCents: 999,
			Qty:            2,
			Color:          &red,
		},
	)
	repo := newStubCheckoutRepo(cartRow)
	svc := mustService(t, repo)

	result, err := svc.Submit(ctx, customerID, SubmitInput{
		Contact:       validContact(),
		Shipping:      ShippingInfo{Address: "12 King Fahd Rd", City: "Riyadh"},
		PaymentMethod: enums.PaymentMethodCard,
		Notes:         "gift wrap",
	})
	if err != nil {
		t.Fatalf("Submit: %v", err)
	}
	if len(result.OrderIDs) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(result.OrderIDs))
	}
	// 1299 + 999*2 = 3297; shipping once; 15% tax rounds to 495
	if result.Group.SubtotalCents != 3297 || result.Group.ShippingCents != 5000 || result.Group.TaxCents != 495 {
		t.Fatalf("group totals = %+v", result.Group)
	}
	if result.Group.TotalCents != 8792 {
		t.Fatalf("total = %d", result.Group.TotalCents)
	}
	if cartRow.Status != enums.CartStatusConverted {
		t.Fatal("cart should be marked converted")
	}

	digital := result.Group.Orders[0]
	if digital.ProductName != "Netflix Premium - 4K Plan" {
		t.Fatalf("expected option appended, got %q", digital.ProductName)
	}
	if digital.Notes == nil || *digital.Notes != "Option: 4K Plan; gift wrap" {
		t.Fatalf("digital notes = %v", digital.Notes)
	}
	if digital.ShippingStatus != nil {
		t.Fatal("digital order should carry no shipping status")
	}
	if digital.Status != enums.OrderStatusPending || digital.PaymentStatus != enums.PaymentStatusUnpaid {
		t.Fatalf("unexpected initial statuses %s/%s", digital.Status, digital.PaymentStatus)
	}

	physical := result.Group.Orders[1]
	if physical.TotalCents != 1998 {
		t.Fatalf("line total = %d", physical.TotalCents)
	}
	if physical.ShippingStatus == nil || *physical.ShippingStatus != enums.ShippingStatusPending {
		t.Fatal("physical order should start pending shipping")
	}
	if physical.ShippingAddress == nil || *physical.ShippingAddress != "12 King Fahd Rd" {
		t.Fatal("shipping address not snapshotted")
	}
	if physical.Notes == nil || *physical.Notes != "Color: red; gift wrap" {
		t.Fatalf("physical notes = %v", physical.Notes)
	}

	if len(result.Intents) != 2 {
		t.Fatalf("expected payment intent per order, got %d", len(result.Intents))
	}
}

func TestSubmitRejectsInvalidContact(t *testing.T) {
	customerID := uuid.New()
	repo := newStubCheckoutRepo(activeCart(customerID, models.CartItem{
		ProductID: uuid.New(), ProductName: "Plan", ProductType: enums.ProductTypeDigital,
		UnitPriceCents: 100, Qty: 1,
	}))
	svc := mustService(t, repo)

	_, err := svc.Submit(context.Background(), customerID, SubmitInput{
		Contact:       ContactInfo{Name: "x"},
		PaymentMethod: enums.PaymentMethodCash,
	})
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
	if repo.submitCalls != 0 {
		t.Fatal("nothing should be persisted on validation failure")
	}
}

func TestSubmitRequiresShippingForPhysicalCart(t *testing.T) {
	customerID := uuid.New()
	repo := newStubCheckoutRepo(activeCart(customerID, models.CartItem{
		ProductID: uuid.New(), ProductName: "Hoodie", ProductType: enums.ProductTypePhysical,
		UnitPriceCents: 4500, Qty: 1,
	}))
	svc := mustService(t, repo)

	_, err := svc.Submit(context.Background(), customerID, SubmitInput{
		Contact:       validContact(),
		PaymentMethod: enums.PaymentMethodCard,
	})
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSubmitEmptyCart(t *testing.T) {
	customerID := uuid.New()
	repo := newStubCheckoutRepo(activeCart(customerID))
	svc := mustService(t, repo)

	_, err := svc.Submit(context.Background(), customerID, SubmitInput{
		Contact:       validContact(),
		PaymentMethod: enums.PaymentMethodCard,
	})
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error for empty cart, got %v", err)
	}
}

func TestSubmitStateConflictWhenCartAlreadyConverted(t *testing.T) {
	customerID := uuid.New()
	repo := newStubCheckoutRepo(activeCart(customerID, models.CartItem{
		ProductID: uuid.New(), ProductName: "Plan", ProductType: enums.ProductTypeDigital,
		UnitPriceCents: 100, Qty: 1,
	}))
	repo.failSubmit = gorm.ErrRecordNotFound
	svc := mustService(t, repo)

	_, err := svc.Submit(context.Background(), customerID, SubmitInput{
		Contact:       validContact(),
		PaymentMethod: enums.PaymentMethodCard,
	})
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeStateConflict {
		t.Fatalf("expected state conflict, got %v", err)
	}
}

func TestPreviewMatchesQuotePolicy(t *testing.T) {
	customerID := uuid.New()
	repo := newStubCheckoutRepo(activeCart(customerID, models.CartItem{
		ProductID: uuid.New(), ProductName: "Plan", ProductType: enums.ProductTypeDigital,
		UnitPriceCents: 10000, Qty: 1,
	}))
	svc := mustService(t, repo)

	quote, err := svc.Preview(context.Background(), customerID)
	if err != nil {
		t.Fatalf("Preview: %v", err)
	}
	if quote.ShippingCents != 0 || quote.TotalCents != 11500 {
		t.Fatalf("quote = %+v", quote)
	}
}
