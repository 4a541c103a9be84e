package controllers

import (
	"net/http"
	"strings"

	"github.com/wafarle/wafarle-backend/api/responses"
	"github.com/wafarle/wafarle-backend/api/validators"
	ordersvc "github.com/wafarle/wafarle-backend/internal/orders"
	"github.com/wafarle/wafarle-backend/pkg/enums"
	pkgerrors "github.com/wafarle/wafarle-backend/pkg/errors"
	"github.com/wafarle/wafarle-backend/pkg/logger"
	"github.com/wafarle/wafarle-backend/pkg/pagination"
)

type fulfillmentRequest struct {
	Status         *string `json:"status,omitempty"`
	PaymentStatus  *string `json:"payment_status,omitempty"`
	ShippingStatus *string `json:"shipping_status,omitempty"`
	TrackingNumber *string `json:"tracking_number,omitempty"`
}

// MyOrders returns the authenticated customer's order history.
func MyOrders(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := customerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		orders, err := svc.MyOrders(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"orders": orders})
	}
}

// OrderDetail returns one order with its status presentation.
func OrderDetail(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.GetOrder(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, order)
	}
}

// AdminListOrders pages through orders with an optional status narrow.
func AdminListOrders(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", 0, 0, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		params := ordersvc.ListParams{
			Params: pagination.Params{
				Limit:  limit,
				Cursor: r.URL.Query().Get("cursor"),
			},
		}
		if raw := strings.TrimSpace(r.URL.Query().Get("status")); raw != "" {
			status := enums.OrderStatus(raw)
			if !status.IsValid() {
				responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status"))
				return
			}
			params.Status = status
		}

		result, err := svc.ListOrders(r.Context(), params)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// AdminUpdateOrderStatus mutates fulfillment fields on one order.
func AdminUpdateOrderStatus(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "orders service unavailable"))
			return
		}

		id, err := pathID(r, "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload fulfillmentRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.UpdateFulfillment(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, order)
	}
}

func (f fulfillmentRequest) toInput() (ordersvc.FulfillmentInput, error) {
	var input ordersvc.FulfillmentInput

	if f.Status != nil {
		status := enums.OrderStatus(strings.TrimSpace(*f.Status))
		if !status.IsValid() {
			return input, pkgerrors.New(pkgerrors.CodeValidation, "invalid order status")
		}
		input.Status = &status
	}
	if f.PaymentStatus != nil {
		status := enums.PaymentStatus(strings.TrimSpace(*f.PaymentStatus))
		if !status.IsValid() {
			return input, pkgerrors.New(pkgerrors.CodeValidation, "invalid payment status")
		}
		input.PaymentStatus = &status
	}
	if f.ShippingStatus != nil {
		status := enums.ShippingStatus(strings.TrimSpace(*f.ShippingStatus))
		if !status.IsValid() {
			return input, pkgerrors.New(pkgerrors.CodeValidation, "invalid shipping status")
		}
		input.ShippingStatus = &status
	}
	input.TrackingNumber = f.TrackingNumber

	return input, nil
}
