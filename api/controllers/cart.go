package controllers

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/wafarle/wafarle-backend/api/responses"
	"github.com/wafarle/wafarle-backend/api/validators"
	cartsvc "github.com/wafarle/wafarle-backend/internal/cart"
	pkgerrors "github.com/wafarle/wafarle-backend/pkg/errors"
	"github.com/wafarle/wafarle-backend/pkg/logger"
)

type cartLineRequest struct {
	ProductID     string  `json:"product_id" validate:"required"`
	PriceOptionID *string `json:"price_option_id,omitempty"`
	Color         *string `json:"color,omitempty"`
	Size          *string `json:"size,omitempty"`
}

type addCartItemRequest struct {
	cartLineRequest
	Qty int `json:"qty" validate:"required,min=1"`
}

type updateCartItemRequest struct {
	cartLineRequest
	Qty int `json:"qty" validate:"min=0"`
}

// CartFetch returns the aggregated active cart.
func CartFetch(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := customerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.GetCart(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, view)
	}
}

// CartAddItem adds or merges a variant line.
func CartAddItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := customerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload addCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		key, err := payload.toLineKey()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.AddItem(r.Context(), id, cartsvc.AddItemInput{LineKey: key, Qty: payload.Qty})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, view)
	}
}

// CartUpdateItem sets a line quantity; zero removes the line.
func CartUpdateItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := customerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateCartItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		key, err := payload.toLineKey()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.UpdateQuantity(r.Context(), id, key, payload.Qty)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, view)
	}
}

// CartRemoveItem drops one variant line.
func CartRemoveItem(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := customerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload cartLineRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		key, err := payload.toLineKey()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.RemoveItem(r.Context(), id, key)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, view)
	}
}

// CartClear empties the active cart.
func CartClear(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := customerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Clear(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "cleared"})
	}
}

// CartQuote prices the active cart without submitting it.
func CartQuote(svc cartsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := customerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		quote, err := svc.Quote(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, quote)
	}
}

func (c cartLineRequest) toLineKey() (cartsvc.LineKey, error) {
	productID, err := uuid.Parse(strings.TrimSpace(c.ProductID))
	if err != nil {
		return cartsvc.LineKey{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id")
	}

	key := cartsvc.LineKey{
		ProductID: productID,
		Color:     c.Color,
		Size:      c.Size,
	}
	if c.PriceOptionID != nil && strings.TrimSpace(*c.PriceOptionID) != "" {
		optionID, err := uuid.Parse(strings.TrimSpace(*c.PriceOptionID))
		if err != nil {
			return cartsvc.LineKey{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid price option id")
		}
		key.PriceOptionID = &optionID
	}
	return key, nil
}
