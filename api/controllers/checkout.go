package controllers

import (
	"net/http"
	"strings"

	"github.com/wafarle/wafarle-backend/api/responses"
	"github.com/wafarle/wafarle-backend/api/validators"
	checkoutsvc "github.com/wafarle/wafarle-backend/internal/checkout"
	"github.com/wafarle/wafarle-backend/pkg/enums"
	pkgerrors "github.com/wafarle/wafarle-backend/pkg/errors"
	"github.com/wafarle/wafarle-backend/pkg/logger"
)

type contactStepRequest struct {
	Name  string `json:"name" validate:"required"`
	Email string `json:"email" validate:"required"`
	Phone string `json:"phone" validate:"required"`
}

type shippingStepRequest struct {
	Address string `json:"address,omitempty"`
	City    string `json:"city,omitempty"`
}

type checkoutSubmitRequest struct {
	Contact       contactStepRequest  `json:"contact" validate:"required"`
	Shipping      shippingStepRequest `json:"shipping,omitempty"`
	PaymentMethod string              `json:"payment_method" validate:"required"`
	Notes         string              `json:"notes,omitempty"`
}

// CheckoutContact validates the first checkout step.
func CheckoutContact(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload contactStepRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.CheckContact(r.Context(), checkoutsvc.ContactInfo{
			Name:  payload.Name,
			Email: payload.Email,
			Phone: payload.Phone,
		}); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"step": "contact", "status": "valid"})
	}
}

// CheckoutShipping validates the shipping step against the active cart.
func CheckoutShipping(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := customerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload shippingStepRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.CheckShipping(r.Context(), id, checkoutsvc.ShippingInfo{
			Address: payload.Address,
			City:    payload.City,
		}); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"step": "shipping", "status": "valid"})
	}
}

// CheckoutPreview quotes the active cart before submission.
func CheckoutPreview(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := customerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		quote, err := svc.Preview(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, quote)
	}
}

// CheckoutSubmit converts the active cart into a checkout group with one
// order per line.
func CheckoutSubmit(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		id, err := customerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload checkoutSubmitRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		method := enums.PaymentMethod(strings.TrimSpace(payload.PaymentMethod))
		if !method.IsValid() {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment method"))
			return
		}

		result, err := svc.Submit(r.Context(), id, checkoutsvc.SubmitInput{
			Contact: checkoutsvc.ContactInfo{
				Name:  payload.Contact.Name,
				Email: payload.Contact.Email,
				Phone: payload.Contact.Phone,
			},
			Shipping: checkoutsvc.ShippingInfo{
				Address: payload.Shipping.Address,
				City:    payload.Shipping.City,
			},
			PaymentMethod: method,
			Notes:         payload.Notes,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}

// CheckoutGroup returns a submitted group with its orders.
func CheckoutGroup(svc checkoutsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "groupId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		group, err := svc.GetGroup(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, group)
	}
}
