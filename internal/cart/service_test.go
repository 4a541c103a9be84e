package cart

import (
	"context"
	"math/rand"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wafarle/wafarle-backend/pkg/config"
	"github.com/wafarle/wafarle-backend/pkg/db/models"
	"github.com/wafarle/wafarle-backend/pkg/enums"
	pkgerrors "github.com/wafarle/wafarle-backend/pkg/errors"
)

type stubCartRepo struct {
	carts map[uuid.UUID]*models.CartRecord
}

func newStubCartRepo() *stubCartRepo {
	return &stubCartRepo{carts: make(map[uuid.UUID]*models.CartRecord)}
}

func (s *stubCartRepo) FindActiveByCustomer(_ context.Context, customerID uuid.UUID) (*models.CartRecord, error) {
	for _, cart := range s.carts {
		if cart.CustomerID == customerID && cart.Status == enums.CartStatusActive {
			copied := *cart
			copied.Items = append([]models.CartItem(nil), cart.Items...)
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubCartRepo) Create(_ context.Context, cart *models.CartRecord) (*models.CartRecord, error) {
	cart.ID = uuid.New()
	s.carts[cart.ID] = cart
	return cart, nil
}

func (s *stubCartRepo) SaveItem(_ context.Context, item *models.CartItem) error {
	cart, ok := s.carts[item.CartID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
		cart.Items = append(cart.Items, *item)
		return nil
	}
	for i := range cart.Items {
		if cart.Items[i].ID == item.ID {
			cart.Items[i] = *item
			return nil
		}
	}
	cart.Items = append(cart.Items, *item)
	return nil
}

func (s *stubCartRepo) DeleteItem(_ context.Context, itemID uuid.UUID) error {
	for _, cart := range s.carts {
		for i := range cart.Items {
			if cart.Items[i].ID == itemID {
				cart.Items = append(cart.Items[:i], cart.Items[i+1:]...)
				return nil
			}
		}
	}
	return nil
}

func (s *stubCartRepo) DeleteItems(_ context.Context, cartID uuid.UUID) error {
	if cart, ok := s.carts[cartID]; ok {
		cart.Items = nil
	}
	return nil
}

func (s *stubCartRepo) UpdateStatus(_ context.Context, cartID uuid.UUID, status enums.CartStatus) error {
	if cart, ok := s.carts[cartID]; ok {
		cart.Status = status
	}
	return nil
}

type stubProducts struct {
	products map[uuid.UUID]*models.Product
	options  map[uuid.UUID]*models.ProductPriceOption
}

func newStubProducts(products ...*models.Product) *stubProducts {
	s := &stubProducts{
		products: make(map[uuid.UUID]*models.Product),
		options:  make(map[uuid.UUID]*models.ProductPriceOption),
	}
	for _, p := range products {
		s.products[p.ID] = p
		for i := range p.PriceOptions {
			s.options[p.PriceOptions[i].ID] = &p.PriceOptions[i]
		}
	}
	return s
}

func (s *stubProducts) FindByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	if p, ok := s.products[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubProducts) FindPriceOption(_ context.Context, id uuid.UUID) (*models.ProductPriceOption, error) {
	if o, ok := s.options[id]; ok {
		return o, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func testCheckoutConfig() config.CheckoutConfig {
	return config.CheckoutConfig{ShippingFeeCents: 5000, TaxRate: "0.15"}
}

func digitalProduct(name string, priceCents int) *models.Product {
	return &models.Product{
		ID:         uuid.New(),
		Name:       name,
		PriceCents: priceCents,
		Type:       enums.ProductTypeDigital,
		IsActive:   true,
		InStock:    true,
	}
}

func physicalProduct(name string, priceCents int) *models.Product {
	return &models.Product{
		ID:         uuid.New(),
		Name:       name,
		PriceCents: priceCents,
		Type:       enums.ProductTypePhysical,
		IsActive:   true,
		InStock:    true,
		Stock:      100,
	}
}

func mustService(t *testing.T, products *stubProducts) (Service, *stubCartRepo) {
	t.Helper()
	repo := newStubCartRepo()
	svc, err := NewService(repo, products, testCheckoutConfig())
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc, repo
}

func TestAddItemMergesSameVariant(t *testing.T) {
	ctx := context.Background()
	hoodie := physicalProduct("Hoodie", 4500)
	svc, _ := mustService(t, newStubProducts(hoodie))
	customerID := uuid.New()

	red := "red"
	key := LineKey{ProductID: hoodie.ID, Color: &red}

	view, err := svc.AddItem(ctx, customerID, AddItemInput{LineKey: key, Qty: 2})
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if len(view.Cart.Items) != 1 || view.ItemCount != 2 {
		t.Fatalf("expected single line qty 2, got %d lines count %d", len(view.Cart.Items), view.ItemCount)
	}

	view, err = svc.AddItem(ctx, customerID, AddItemInput{LineKey: key, Qty: 3})
	if err != nil {
		t.Fatalf("AddItem merge: %v", err)
	}
	if len(view.Cart.Items) != 1 || view.Cart.Items[0].Qty != 5 {
		t.Fatalf("expected merged line qty 5, got %d lines qty %d", len(view.Cart.Items), view.Cart.Items[0].Qty)
	}

	// a different color is a separate line
	blue := "blue"
	view, err = svc.AddItem(ctx, customerID, AddItemInput{LineKey: LineKey{ProductID: hoodie.ID, Color: &blue}, Qty: 1})
	if err != nil {
		t.Fatalf("AddItem variant: %v", err)
	}
	if len(view.Cart.Items) != 2 {
		t.Fatalf("expected 2 lines for distinct colors, got %d", len(view.Cart.Items))
	}
}

func TestAddItemClampsNonPhysicalQuantity(t *testing.T) {
	ctx := context.Background()
	netflix := digitalProduct("Netflix Premium", 1299)
	svc, _ := mustService(t, newStubProducts(netflix))
	customerID := uuid.New()

	view, err := svc.AddItem(ctx, customerID, AddItemInput{LineKey: LineKey{ProductID: netflix.ID}, Qty: 4})
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if view.Cart.Items[0].Qty != 1 {
		t.Fatalf("expected digital line clamped to 1, got %d", view.Cart.Items[0].Qty)
	}

	// re-adding the same subscription keeps one seat
	view, err = svc.AddItem(ctx, customerID, AddItemInput{LineKey: LineKey{ProductID: netflix.ID}, Qty: 9})
	if err != nil {
		t.Fatalf("AddItem again: %v", err)
	}
	if len(view.Cart.Items) != 1 || view.Cart.Items[0].Qty != 1 {
		t.Fatalf("expected single clamped line, got %d lines qty %d", len(view.Cart.Items), view.Cart.Items[0].Qty)
	}
}

func TestAddItemUsesPriceOptionPrice(t *testing.T) {
	ctx := context.Background()
	office := digitalProduct("Office 365", 999)
	office.PriceOptions = []models.ProductPriceOption{
		{ID: uuid.New(), ProductID: office.ID, Name: "Family", PriceCents: 1499, Position: 0},
	}
	svc, _ := mustService(t, newStubProducts(office))
	customerID := uuid.New()

	optID := office.PriceOptions[0].ID
	view, err := svc.AddItem(ctx, customerID, AddItemInput{
		LineKey: LineKey{ProductID: office.ID, PriceOptionID: &optID},
		Qty:     1,
	})
	if err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	line := view.Cart.Items[0]
	if line.UnitPriceCents != 1499 {
		t.Fatalf("expected option price 1499, got %d", line.UnitPriceCents)
	}
	if line.OptionName == nil || *line.OptionName != "Family" {
		t.Fatal("expected option name snapshot")
	}
}

func TestAddItemRejectsForeignPriceOption(t *testing.T) {
	ctx := context.Background()
	office := digitalProduct("Office 365", 999)
	netflix := digitalProduct("Netflix Premium", 1299)
	netflix.PriceOptions = []models.ProductPriceOption{
		{ID: uuid.New(), ProductID: netflix.ID, Name: "4K", PriceCents: 1599},
	}
	svc, _ := mustService(t, newStubProducts(office, netflix))

	foreign := netflix.PriceOptions[0].ID
	_, err := svc.AddItem(ctx, uuid.New(), AddItemInput{
		LineKey: LineKey{ProductID: office.ID, PriceOptionID: &foreign},
		Qty:     1,
	})
	if err == nil {
		t.Fatal("expected validation error")
	}
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation code, got %v", err)
	}
}

func TestAddItemInactiveProduct(t *testing.T) {
	ctx := context.Background()
	retired := digitalProduct("Retired Plan", 500)
	retired.IsActive = false
	svc, _ := mustService(t, newStubProducts(retired))

	_, err := svc.AddItem(ctx, uuid.New(), AddItemInput{LineKey: LineKey{ProductID: retired.ID}, Qty: 1})
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict for inactive product, got %v", err)
	}
}

func TestUpdateQuantityZeroRemovesExactLine(t *testing.T) {
	ctx := context.Background()
	hoodie := physicalProduct("Hoodie", 4500)
	svc, _ := mustService(t, newStubProducts(hoodie))
	customerID := uuid.New()

	red, blue := "red", "blue"
	redKey := LineKey{ProductID: hoodie.ID, Color: &red}
	blueKey := LineKey{ProductID: hoodie.ID, Color: &blue}
	if _, err := svc.AddItem(ctx, customerID, AddItemInput{LineKey: redKey, Qty: 2}); err != nil {
		t.Fatalf("AddItem red: %v", err)
	}
	if _, err := svc.AddItem(ctx, customerID, AddItemInput{LineKey: blueKey, Qty: 1}); err != nil {
		t.Fatalf("AddItem blue: %v", err)
	}

	view, err := svc.UpdateQuantity(ctx, customerID, redKey, 0)
	if err != nil {
		t.Fatalf("UpdateQuantity: %v", err)
	}
	if len(view.Cart.Items) != 1 {
		t.Fatalf("expected 1 remaining line, got %d", len(view.Cart.Items))
	}
	if view.Cart.Items[0].Color == nil || *view.Cart.Items[0].Color != "blue" {
		t.Fatal("wrong line removed")
	}
}

func TestUpdateQuantityMissingLine(t *testing.T) {
	ctx := context.Background()
	hoodie := physicalProduct("Hoodie", 4500)
	svc, _ := mustService(t, newStubProducts(hoodie))
	customerID := uuid.New()

	if _, err := svc.AddItem(ctx, customerID, AddItemInput{LineKey: LineKey{ProductID: hoodie.ID}, Qty: 1}); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	_, err := svc.UpdateQuantity(ctx, customerID, LineKey{ProductID: uuid.New()}, 3)
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestClearEmptiesCart(t *testing.T) {
	ctx := context.Background()
	hoodie := physicalProduct("Hoodie", 4500)
	svc, _ := mustService(t, newStubProducts(hoodie))
	customerID := uuid.New()

	if _, err := svc.AddItem(ctx, customerID, AddItemInput{LineKey: LineKey{ProductID: hoodie.ID}, Qty: 3}); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if err := svc.Clear(ctx, customerID); err != nil {
		t.Fatalf("Clear: %v", err)
	}
	view, err := svc.GetCart(ctx, customerID)
	if err != nil {
		t.Fatalf("GetCart: %v", err)
	}
	if view.SubtotalCents != 0 || view.ItemCount != 0 {
		t.Fatalf("expected empty cart, got subtotal %d count %d", view.SubtotalCents, view.ItemCount)
	}
}

func TestQuoteCompositionPhysicalAndDigital(t *testing.T) {
	ctx := context.Background()
	gadget := physicalProduct("Gadget", 10000)
	plan := digitalProduct("Plan", 10000)
	svc, _ := mustService(t, newStubProducts(gadget, plan))

	physicalCustomer := uuid.New()
	if _, err := svc.AddItem(ctx, physicalCustomer, AddItemInput{LineKey: LineKey{ProductID: gadget.ID}, Qty: 1}); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	quote, err := svc.Quote(ctx, physicalCustomer)
	if err != nil {
		t.Fatalf("Quote: %v", err)
	}
	if quote.ShippingCents != 5000 || quote.TaxCents != 1500 || quote.TotalCents != 16500 {
		t.Fatalf("physical quote = %+v", quote)
	}

	digitalCustomer := uuid.New()
	if _, err := svc.AddItem(ctx, digitalCustomer, AddItemInput{LineKey: LineKey{ProductID: plan.ID}, Qty: 1}); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	quote, err = svc.Quote(ctx, digitalCustomer)
	if err != nil {
		t.Fatalf("Quote: %v", err)
	}
	if quote.ShippingCents != 0 || quote.TaxCents != 1500 || quote.TotalCents != 11500 {
		t.Fatalf("digital quote = %+v", quote)
	}
}

func TestQuoteMixedCartEndToEnd(t *testing.T) {
	ctx := context.Background()
	netflix := digitalProduct("Netflix Premium", 1299)
	tee := physicalProduct("Logo Tee", 999)
	svc, _ := mustService(t, newStubProducts(netflix, tee))
	customerID := uuid.New()

	if _, err := svc.AddItem(ctx, customerID, AddItemInput{LineKey: LineKey{ProductID: netflix.ID}, Qty: 1}); err != nil {
		t.Fatalf("AddItem netflix: %v", err)
	}
	if _, err := svc.AddItem(ctx, customerID, AddItemInput{LineKey: LineKey{ProductID: tee.ID}, Qty: 2}); err != nil {
		t.Fatalf("AddItem tee: %v", err)
	}

	quote, err := svc.Quote(ctx, customerID)
	if err != nil {
		t.Fatalf("Quote: %v", err)
	}
	// 1299 + 999*2 = 3297; tax 494.55 rounds to 495; shipping applies once
	if quote.SubtotalCents != 3297 {
		t.Fatalf("subtotal = %d", quote.SubtotalCents)
	}
	if quote.TaxCents != 495 {
		t.Fatalf("tax = %d", quote.TaxCents)
	}
	if quote.TotalCents != 8792 {
		t.Fatalf("total = %d", quote.TotalCents)
	}
}

func TestSubtotalInvariantUnderRandomOps(t *testing.T) {
	ctx := context.Background()
	rng := rand.New(rand.NewSource(42))

	var catalogRows []*models.Product
	for i := 0; i < 5; i++ {
		catalogRows = append(catalogRows, physicalProduct("Item", 100*(i+1)))
	}
	svc, _ := mustService(t, newStubProducts(catalogRows...))
	customerID := uuid.New()

	colors := []string{"red", "blue", "green"}
	for op := 0; op < 200; op++ {
		product := catalogRows[rng.Intn(len(catalogRows))]
		color := colors[rng.Intn(len(colors))]
		key := LineKey{ProductID: product.ID, Color: &color}

		switch rng.Intn(3) {
		case 0:
			if _, err := svc.AddItem(ctx, customerID, AddItemInput{LineKey: key, Qty: rng.Intn(4) + 1}); err != nil {
				t.Fatalf("AddItem: %v", err)
			}
		case 1:
			if _, err := svc.UpdateQuantity(ctx, customerID, key, rng.Intn(6)); err != nil {
				if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
					t.Fatalf("UpdateQuantity: %v", err)
				}
			}
		case 2:
			if _, err := svc.RemoveItem(ctx, customerID, key); err != nil {
				if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
					t.Fatalf("RemoveItem: %v", err)
				}
			}
		}

		view, err := svc.GetCart(ctx, customerID)
		if err != nil {
			t.Fatalf("GetCart: %v", err)
		}
		want := 0
		for _, item := range view.Cart.Items {
			if item.Qty <= 0 {
				t.Fatal("line with non-positive quantity survived")
			}
			want += item.UnitPriceCents * item.Qty
		}
		if view.SubtotalCents != want {
			t.Fatalf("subtotal %d does not match lines %d", view.SubtotalCents, want)
		}
	}
}
