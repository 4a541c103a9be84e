package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var centsPerUnit = decimal.NewFromInt(100)

// FromCents converts an integer cent amount into a decimal currency value.
func FromCents(cents int) decimal.Decimal {
	return decimal.NewFromInt(int64(cents)).Div(centsPerUnit)
}

// Tax computes rate*subtotal in cents, rounded half away from zero to a
// whole cent.
func Tax(subtotalCents int, rate decimal.Decimal) int {
	tax := decimal.NewFromInt(int64(subtotalCents)).Mul(rate)
	return int(tax.Round(0).IntPart())
}

// Quote is the composed checkout total: subtotal + flat shipping (only when
// a physical line is present) + VAT.
type Quote struct {
	SubtotalCents int `json:"subtotal_cents"`
	ShippingCents int `json:"shipping_cents"`
	TaxCents      int `json:"tax_cents"`
	TotalCents    int `json:"total_cents"`
}

// ComputeQuote applies the checkout total policy to a subtotal.
func ComputeQuote(subtotalCents int, hasPhysical bool, shippingFeeCents int, taxRate decimal.Decimal) Quote {
	shipping := 0
	if hasPhysical {
		shipping = shippingFeeCents
	}
	tax := Tax(subtotalCents, taxRate)
	return Quote{
		SubtotalCents: subtotalCents,
		ShippingCents: shipping,
		TaxCents:      tax,
		TotalCents:    subtotalCents + shipping + tax,
	}
}

// Rate is one display currency with its conversion factor relative to the
// base currency.
type Rate struct {
	Code      string
	Symbol    string
	Rate      decimal.Decimal
	IsDefault bool
}

// Converter renders canonical cent amounts in any active display currency.
type Converter struct {
	rates map[string]Rate
	def   *Rate
}

// NewConverter builds a converter from the active currency set.
func NewConverter(rates []Rate) *Converter {
	c := &Converter{rates: make(map[string]Rate, len(rates))}
	for _, r := range rates {
		code := normalizeCode(r.Code)
		if code == "" || !r.Rate.IsPositive() {
			continue
		}
		r.Code = code
		c.rates[code] = r
		if r.IsDefault {
			entry := r
			c.def = &entry
		}
	}
	return c
}

// Convert returns the amount expressed in the target currency.
func (c *Converter) Convert(cents int, code string) (decimal.Decimal, error) {
	rate, err := c.lookup(code)
	if err != nil {
		return decimal.Zero, err
	}
	return FromCents(cents).Mul(rate.Rate), nil
}

// Format renders the amount as "<symbol><value>" with two decimals in the
// target currency, e.g. "$87.92".
func (c *Converter) Format(cents int, code string) (string, error) {
	rate, err := c.lookup(code)
	if err != nil {
		return "", err
	}
	value := FromCents(cents).Mul(rate.Rate)
	return fmt.Sprintf("%s%s", rate.Symbol, value.StringFixed(2)), nil
}

// Default returns the default currency, if one is configured.
func (c *Converter) Default() (Rate, bool) {
	if c.def == nil {
		return Rate{}, false
	}
	return *c.def, true
}

func (c *Converter) lookup(code string) (Rate, error) {
	normalized := normalizeCode(code)
	if normalized == "" {
		if c.def != nil {
			return *c.def, nil
		}
		return Rate{}, fmt.Errorf("no currency code and no default configured")
	}
	rate, ok := c.rates[normalized]
	if !ok {
		return Rate{}, fmt.Errorf("unknown currency %q", code)
	}
	return rate, nil
}

func normalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
