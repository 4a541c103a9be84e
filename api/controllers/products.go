package controllers

import (
	"net/http"
	"strings"

	"github.com/wafarle/wafarle-backend/api/responses"
	"github.com/wafarle/wafarle-backend/api/validators"
	"github.com/wafarle/wafarle-backend/internal/catalog"
	"github.com/wafarle/wafarle-backend/pkg/enums"
	pkgerrors "github.com/wafarle/wafarle-backend/pkg/errors"
	"github.com/wafarle/wafarle-backend/pkg/logger"
	"github.com/wafarle/wafarle-backend/pkg/pagination"
)

const maxDealsCap = 50

type browseProductsRequest struct {
	Query         string   `json:"query,omitempty"`
	Categories    []string `json:"categories,omitempty"`
	PriceMinCents *int     `json:"price_min_cents,omitempty" validate:"omitempty,min=0"`
	PriceMaxCents *int     `json:"price_max_cents,omitempty" validate:"omitempty,min=0"`
	MinRating     *float64 `json:"min_rating,omitempty" validate:"omitempty,gte=0,lte=5"`
	Type          string   `json:"type,omitempty"`
	InStock       bool     `json:"in_stock,omitempty"`
	HasDiscount   bool     `json:"has_discount,omitempty"`
}

type productRequest struct {
	Name         string               `json:"name" validate:"required"`
	Description  string               `json:"description,omitempty"`
	PriceCents   int                  `json:"price_cents" validate:"min=0"`
	Discount     *string              `json:"discount,omitempty"`
	Categories   []string             `json:"categories,omitempty"`
	Type         string               `json:"type" validate:"required"`
	InStock      bool                 `json:"in_stock"`
	Stock        int                  `json:"stock" validate:"min=0"`
	Images       []string             `json:"images,omitempty"`
	IsActive     bool                 `json:"is_active"`
	PriceOptions []priceOptionRequest `json:"price_options,omitempty"`
}

type priceOptionRequest struct {
	Name       string `json:"name" validate:"required"`
	PriceCents int    `json:"price_cents" validate:"min=0"`
}

type categoryRequest struct {
	Name string `json:"name" validate:"required"`
	Slug string `json:"slug" validate:"required"`
}

// BrowseProducts applies the storefront filters over active products.
func BrowseProducts(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var payload browseProductsRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		spec := catalog.FilterSpec{
			Query:         payload.Query,
			Categories:    payload.Categories,
			PriceMinCents: payload.PriceMinCents,
			PriceMaxCents: payload.PriceMaxCents,
			MinRating:     payload.MinRating,
			InStock:       payload.InStock,
			HasDiscount:   payload.HasDiscount,
		}
		if raw := strings.TrimSpace(payload.Type); raw != "" {
			productType := enums.ProductType(raw)
			if !productType.IsValid() {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid product type"))
				return
			}
			spec.Type = productType
		}

		products, err := svc.BrowseProducts(r.Context(), spec)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"products": products})
	}
}

// ListDeals returns discounted active products.
func ListDeals(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cap, err := validators.ParseQueryInt(r, "limit", maxDealsCap, 1, maxDealsCap)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		products, err := svc.ListDeals(r.Context(), cap)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"products": products})
	}
}

// GetProduct returns one product with its variants.
func GetProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.GetProduct(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

// AdminListProducts pages through every product for the dashboard.
func AdminListProducts(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", 0, 0, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ListProducts(r.Context(), catalog.ListParams{
			Params: pagination.Params{
				Limit:  limit,
				Cursor: r.URL.Query().Get("cursor"),
			},
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// AdminCreateProduct handles product creation from the dashboard.
func AdminCreateProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var payload productRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.CreateProduct(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, product)
	}
}

// AdminUpdateProduct replaces the mutable product fields.
func AdminUpdateProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload productRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.UpdateProduct(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, product)
	}
}

// AdminDeleteProduct removes a product.
func AdminDeleteProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "productId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteProduct(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// ListCategories returns every category for filter pickers.
func ListCategories(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		categories, err := svc.ListCategories(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"categories": categories})
	}
}

// AdminCreateCategory adds a category.
func AdminCreateCategory(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload categoryRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		category, err := svc.CreateCategory(r.Context(), payload.Name, payload.Slug)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, category)
	}
}

// AdminDeleteCategory removes a category.
func AdminDeleteCategory(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "categoryId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteCategory(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

func (p productRequest) toInput() (catalog.ProductInput, error) {
	productType := enums.ProductType(strings.TrimSpace(p.Type))
	if !productType.IsValid() {
		return catalog.ProductInput{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid product type")
	}

	options := make([]catalog.PriceOptionInput, 0, len(p.PriceOptions))
	for _, option := range p.PriceOptions {
		options = append(options, catalog.PriceOptionInput{
			Name:       strings.TrimSpace(option.Name),
			PriceCents: option.PriceCents,
		})
	}

	return catalog.ProductInput{
		Name:         strings.TrimSpace(p.Name),
		Description:  p.Description,
		PriceCents:   p.PriceCents,
		Discount:     p.Discount,
		Categories:   p.Categories,
		Type:         productType,
		InStock:      p.InStock,
		Stock:        p.Stock,
		Images:       p.Images,
		IsActive:     p.IsActive,
		PriceOptions: options,
	}, nil
}
