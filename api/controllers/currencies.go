package controllers

import (
	"net/http"

	"github.com/shopspring/decimal"

	"github.com/wafarle/wafarle-backend/api/responses"
	"github.com/wafarle/wafarle-backend/api/validators"
	currencysvc "github.com/wafarle/wafarle-backend/internal/currencies"
	"github.com/wafarle/wafarle-backend/pkg/logger"
)

type currencyRequest struct {
	Code     string          `json:"code" validate:"required"`
	Symbol   string          `json:"symbol" validate:"required"`
	Rate     decimal.Decimal `json:"rate" validate:"required"`
	IsActive bool            `json:"is_active"`
}

// ActiveCurrencies returns the storefront currency picker entries.
func ActiveCurrencies(svc currencysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		currencies, err := svc.ActiveCurrencies(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"currencies": currencies})
	}
}

// AdminListCurrencies returns every configured currency.
func AdminListCurrencies(svc currencysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		currencies, err := svc.ListCurrencies(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"currencies": currencies})
	}
}

// AdminCreateCurrency adds a display currency.
func AdminCreateCurrency(svc currencysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload currencyRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		currency, err := svc.CreateCurrency(r.Context(), currencysvc.CurrencyInput{
			Code:     payload.Code,
			Symbol:   payload.Symbol,
			Rate:     payload.Rate,
			IsActive: payload.IsActive,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, currency)
	}
}

// AdminUpdateCurrency replaces the mutable currency fields.
func AdminUpdateCurrency(svc currencysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "currencyId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload currencyRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		currency, err := svc.UpdateCurrency(r.Context(), id, currencysvc.CurrencyInput{
			Code:     payload.Code,
			Symbol:   payload.Symbol,
			Rate:     payload.Rate,
			IsActive: payload.IsActive,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, currency)
	}
}

// AdminDeleteCurrency removes a non-default currency.
func AdminDeleteCurrency(svc currencysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "currencyId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteCurrency(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

// AdminSetDefaultCurrency promotes one active currency to default.
func AdminSetDefaultCurrency(svc currencysvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "currencyId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		currency, err := svc.SetDefault(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, currency)
	}
}
