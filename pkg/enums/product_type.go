package enums

import "fmt"

// ProductType distinguishes how a product is delivered and whether it ships.
type ProductType string

const (
	// ProductTypeAll is a filter sentinel, never stored on a product row.
	ProductTypeAll ProductType = "all"

	ProductTypePhysical ProductType = "physical"
	ProductTypeDigital  ProductType = "digital"
	ProductTypeDownload ProductType = "download"
	ProductTypeService  ProductType = "service"
)

var validProductTypes = []ProductType{
	ProductTypePhysical,
	ProductTypeDigital,
	ProductTypeDownload,
	ProductTypeService,
}

// String implements fmt.Stringer.
func (p ProductType) String() string {
	return string(p)
}

// IsValid reports whether the value is a known ProductType.
func (p ProductType) IsValid() bool {
	for _, candidate := range validProductTypes {
		if candidate == p {
			return true
		}
	}
	return false
}

// RequiresShipping reports whether the product type needs a shipping address.
func (p ProductType) RequiresShipping() bool {
	return p == ProductTypePhysical
}

// ParseProductType converts raw input into a ProductType.
func ParseProductType(value string) (ProductType, error) {
	for _, candidate := range validProductTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid product type %q", value)
}
