package checkout

import (
	"strings"

	pkgerrors "github.com/wafarle/wafarle-backend/pkg/errors"
	"github.com/wafarle/wafarle-backend/pkg/validation"
)

// ContactInfo is the first checkout step.
type ContactInfo struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// ShippingInfo is the second step, required only for physical carts.
type ShippingInfo struct {
	Address string `json:"address"`
	City    string `json:"city"`
}

// FieldErrors maps field names to human-readable problems.
type FieldErrors map[string]string

// ValidateContact checks the contact step. A nil return means the step
// is complete.
func ValidateContact(info ContactInfo) FieldErrors {
	errs := FieldErrors{}
	if strings.TrimSpace(info.Name) == "" {
		errs["name"] = "name is required"
	}
	switch {
	case strings.TrimSpace(info.Email) == "":
		errs["email"] = "email is required"
	case !validation.IsEmail(info.Email):
		errs["email"] = "email format is invalid"
	}
	switch {
	case strings.TrimSpace(info.Phone) == "":
		errs["phone"] = "phone is required"
	case !validation.IsPhone(info.Phone):
		errs["phone"] = "phone format is invalid"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

// ValidateShipping checks the shipping step. Carts without a physical
// line skip the step entirely.
func ValidateShipping(info ShippingInfo, hasPhysical bool) FieldErrors {
	if !hasPhysical {
		return nil
	}
	errs := FieldErrors{}
	if strings.TrimSpace(info.Address) == "" {
		errs["address"] = "address is required"
	}
	if strings.TrimSpace(info.City) == "" {
		errs["city"] = "city is required"
	}
	if len(errs) == 0 {
		return nil
	}
	return errs
}

func validationError(errs FieldErrors) error {
	return pkgerrors.New(pkgerrors.CodeValidation, "checkout validation failed").WithDetails(errs)
}
