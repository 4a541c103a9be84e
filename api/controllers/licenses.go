package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/wafarle/wafarle-backend/api/responses"
	"github.com/wafarle/wafarle-backend/api/validators"
	licensesvc "github.com/wafarle/wafarle-backend/internal/licenses"
	"github.com/wafarle/wafarle-backend/pkg/enums"
	pkgerrors "github.com/wafarle/wafarle-backend/pkg/errors"
	"github.com/wafarle/wafarle-backend/pkg/logger"
	"github.com/wafarle/wafarle-backend/pkg/pagination"
)

type licenseRequest struct {
	CustomerID    *string    `json:"customer_id,omitempty"`
	CustomerName  string     `json:"customer_name" validate:"required"`
	CustomerEmail string     `json:"customer_email" validate:"required,email"`
	Domain        string     `json:"domain" validate:"required"`
	ExtraDomains  []string   `json:"extra_domains,omitempty"`
	Type          string     `json:"type" validate:"required"`
	Status        string     `json:"status" validate:"required"`
	IsPermanent   bool       `json:"is_permanent"`
	ExpiryDate    *time.Time `json:"expiry_date,omitempty"`
	MaxProducts   int        `json:"max_products" validate:"min=0"`
	MaxOrders     int        `json:"max_orders" validate:"min=0"`
	Features      []string   `json:"features,omitempty"`
}

type verifyLicenseRequest struct {
	Key     string `json:"key" validate:"required"`
	Domain  string `json:"domain" validate:"required"`
	Version string `json:"version,omitempty"`
}

// MyLicenses returns the authenticated customer's licenses with derived
// expiry state.
func MyLicenses(svc licensesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := customerID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		licenses, err := svc.MyLicenses(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]any{"licenses": licenses})
	}
}

// VerifyLicense is the public key+domain verification endpoint.
func VerifyLicense(svc licensesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "license service unavailable"))
			return
		}

		var payload verifyLicenseRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Verify(r.Context(), payload.Key, payload.Domain, payload.Version)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}

// AdminListLicenses pages through every license.
func AdminListLicenses(svc licensesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		limit, err := validators.ParseQueryInt(r, "limit", 0, 0, pagination.MaxLimit)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.ListLicenses(r.Context(), licensesvc.ListParams{
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

// AdminGetLicense returns one license with derived expiry state.
func AdminGetLicense(svc licensesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "licenseId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		license, err := svc.GetLicense(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, license)
	}
}

// AdminCreateLicense issues a new license key.
func AdminCreateLicense(svc licensesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "license service unavailable"))
			return
		}

		var payload licenseRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		license, err := svc.CreateLicense(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, license)
	}
}

// AdminUpdateLicense replaces the mutable license fields.
func AdminUpdateLicense(svc licensesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "licenseId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload licenseRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		license, err := svc.UpdateLicense(r.Context(), id, input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, license)
	}
}

// AdminDeleteLicense removes a license and its cached verdicts.
func AdminDeleteLicense(svc licensesvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := pathID(r, "licenseId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteLicense(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, map[string]string{"status": "deleted"})
	}
}

func (l licenseRequest) toInput() (licensesvc.LicenseInput, error) {
	licenseType := enums.LicenseType(strings.TrimSpace(l.Type))
	if !licenseType.IsValid() {
		return licensesvc.LicenseInput{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid license type")
	}
	status := enums.LicenseStatus(strings.TrimSpace(l.Status))
	if !status.IsValid() {
		return licensesvc.LicenseInput{}, pkgerrors.New(pkgerrors.CodeValidation, "invalid license status")
	}

	input := licensesvc.LicenseInput{
		CustomerName:  l.CustomerName,
		CustomerEmail: l.CustomerEmail,
		Domain:        l.Domain,
		ExtraDomains:  l.ExtraDomains,
		Type:          licenseType,
		Status:        status,
		IsPermanent:   l.IsPermanent,
		ExpiryDate:    l.ExpiryDate,
		MaxProducts:   l.MaxProducts,
		MaxOrders:     l.MaxOrders,
		Features:      l.Features,
	}
	if l.CustomerID != nil && strings.TrimSpace(*l.CustomerID) != "" {
		parsed, err := uuid.Parse(strings.TrimSpace(*l.CustomerID))
		if err != nil {
			return licensesvc.LicenseInput{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid customer id")
		}
		input.CustomerID = &parsed
	}
	return input, nil
}
