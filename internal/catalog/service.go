package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wafarle/wafarle-backend/pkg/db/models"
	"github.com/wafarle/wafarle-backend/pkg/enums"
	pkgerrors "github.com/wafarle/wafarle-backend/pkg/errors"
	pkgpagination "github.com/wafarle/wafarle-backend/pkg/pagination"
)

type catalogRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	ListActive(ctx context.Context) ([]models.Product, error)
	List(ctx context.Context, opts listQuery) ([]models.Product, error)
	Create(ctx context.Context, product *models.Product) (*models.Product, error)
	Update(ctx context.Context, product *models.Product) (*models.Product, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ReplacePriceOptions(ctx context.Context, productID uuid.UUID, options []models.ProductPriceOption) error
	ListCategories(ctx context.Context) ([]models.Category, error)
	CreateCategory(ctx context.Context, category *models.Category) (*models.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
}

// Service exposes the storefront browse and admin catalog semantics.
type Service interface {
	BrowseProducts(ctx context.Context, spec FilterSpec) ([]models.Product, error)
	ListDeals(ctx context.Context, cap int) ([]models.Product, error)
	ListProducts(ctx context.Context, params ListParams) (*ListResult, error)
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	CreateProduct(ctx context.Context, input ProductInput) (*models.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, input ProductInput) (*models.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	ListCategories(ctx context.Context) ([]models.Category, error)
	CreateCategory(ctx context.Context, name, slug string) (*models.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo catalogRepository
}

// NewService builds a catalog service backed by the provided repository.
func NewService(repo catalogRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo}, nil
}

// ProductInput holds the admin-facing fields for create/update.
type ProductInput struct {
	Name         string
	Description  string
	PriceCents   int
	Discount     *string
	Categories   []string
	Type         enums.ProductType
	InStock      bool
	Stock        int
	Images       []string
	IsActive     bool
	PriceOptions []PriceOptionInput
}

// PriceOptionInput is one named variant with its own price.
type PriceOptionInput struct {
	Name       string
	PriceCents int
}

// ListParams carries cursor pagination inputs for the admin listing.
type ListParams struct {
	pkgpagination.Params
}

// ListResult is one page of products plus the next cursor.
type ListResult struct {
	Products []models.Product `json:"products"`
	Cursor   string           `json:"cursor"`
}

func (s *service) BrowseProducts(ctx context.Context, spec FilterSpec) ([]models.Product, error) {
	rows, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load products")
	}
	return Filter(rows, spec), nil
}

func (s *service) ListDeals(ctx context.Context, cap int) ([]models.Product, error) {
	rows, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load products")
	}
	discounted := Filter(rows, FilterSpec{HasDiscount: true})
	return SortByDiscountDesc(discounted, cap), nil
}

func (s *service) ListProducts(ctx context.Context, params ListParams) (*ListResult, error) {
	limit := pkgpagination.NormalizeLimit(params.Limit)
	query := listQuery{
		limit: pkgpagination.LimitWithBuffer(params.Limit),
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
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}

	nextCursor := ""
	if len(rows) > limit {
		nextCursor = pkgpagination.EncodeCursor(pkgpagination.Cursor{
			CreatedAt: rows[limit].CreatedAt,
			ID:        rows[limit].ID,
		})
		rows = rows[:limit]
	}

	return &ListResult{
		Products: rows,
		Cursor:   nextCursor,
	}, nil
}

func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	product, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup product")
	}
	return product, nil
}

func (s *service) CreateProduct(ctx context.Context, input ProductInput) (*models.Product, error) {
	if err := validateProductInput(input); err != nil {
		return nil, err
	}

	product := productFromInput(input)
	product.PriceOptions = priceOptionsFromInput(uuid.Nil, input.PriceOptions)

	created, err := s.repo.Create(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create product")
	}
	return created, nil
}

func (s *service) UpdateProduct(ctx context.Context, id uuid.UUID, input ProductInput) (*models.Product, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if err := validateProductInput(input); err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup product")
	}

	applyProductInput(existing, input)
	existing.PriceOptions = nil

	if _, err := s.repo.Update(ctx, existing); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}
	if err := s.repo.ReplacePriceOptions(ctx, id, priceOptionsFromInput(id, input.PriceOptions)); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "replace price options")
	}
	return s.repo.FindByID(ctx, id)
}

func (s *service) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup product")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}
	return nil
}

func (s *service) ListCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}
	return rows, nil
}

func (s *service) CreateCategory(ctx context.Context, name, slug string) (*models.Category, error) {
	name = strings.TrimSpace(name)
	slug = strings.ToLower(strings.TrimSpace(slug))
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if slug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "slug is required")
	}
	created, err := s.repo.CreateCategory(ctx, &models.Category{Name: name, Slug: slug})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create category")
	}
	return created, nil
}

func (s *service) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if id == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "category id is required")
	}
	if err := s.repo.DeleteCategory(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete category")
	}
	return nil
}

func validateProductInput(input ProductInput) error {
	if strings.TrimSpace(input.Name) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if input.PriceCents < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "price must not be negative")
	}
	if !input.Type.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid product type")
	}
	if input.Stock < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "stock must not be negative")
	}
	for _, opt := range input.PriceOptions {
		if strings.TrimSpace(opt.Name) == "" {
			return pkgerrors.New(pkgerrors.CodeValidation, "price option name is required")
		}
		if opt.PriceCents < 0 {
			return pkgerrors.New(pkgerrors.CodeValidation, "price option price must not be negative")
		}
	}
	return nil
}

func productFromInput(input ProductInput) *models.Product {
	product := &models.Product{
		Name:        strings.TrimSpace(input.Name),
		Description: strings.TrimSpace(input.Description),
		PriceCents:  input.PriceCents,
		Discount:    input.Discount,
		Categories:  input.Categories,
		Type:        input.Type,
		InStock:     input.InStock,
		Stock:       input.Stock,
		Images:      input.Images,
		IsActive:    input.IsActive,
	}
	return product
}

func applyProductInput(product *models.Product, input ProductInput) {
	product.Name = strings.TrimSpace(input.Name)
	product.Description = strings.TrimSpace(input.Description)
	product.PriceCents = input.PriceCents
	product.Discount = input.Discount
	product.Categories = input.Categories
	product.Type = input.Type
	product.InStock = input.InStock
	product.Stock = input.Stock
	product.Images = input.Images
	product.IsActive = input.IsActive
	product.UpdatedAt = time.Now().UTC()
}

func priceOptionsFromInput(productID uuid.UUID, inputs []PriceOptionInput) []models.ProductPriceOption {
	options := make([]models.ProductPriceOption, 0, len(inputs))
	for i, opt := range inputs {
		options = append(options, models.ProductPriceOption{
			ProductID:  productID,
			Name:       strings.TrimSpace(opt.Name),
			PriceCents: opt.PriceCents,
			Position:   i,
		})
	}
	return options
}
