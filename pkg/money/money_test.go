package money

import (
	"testing"

	"github.com/shopspring/decimal"
)

func rate(v string) decimal.Decimal {
	d, err := decimal.NewFromString(v)
	if err != nil {
		panic(err)
	}
	return d
}

func TestComputeQuoteWithPhysicalItem(t *testing.T) {
	quote := ComputeQuote(10000, true, 5000, rate("0.15"))
	if quote.ShippingCents != 5000 {
		t.Fatalf("expected shipping 5000, got %d", quote.ShippingCents)
	}
	if quote.TaxCents != 1500 {
		t.Fatalf("expected tax 1500, got %d", quote.TaxCents)
	}
	if quote.TotalCents != 16500 {
		t.Fatalf("expected total 16500, got %d", quote.TotalCents)
	}
}

func TestComputeQuoteDigitalOnly(t *testing.T) {
	quote := ComputeQuote(10000, false, 5000, rate("0.15"))
	if quote.ShippingCents != 0 {
		t.Fatalf("expected no shipping, got %d", quote.ShippingCents)
	}
	if quote.TotalCents != 11500 {
		t.Fatalf("expected total 11500, got %d", quote.TotalCents)
	}
}

func TestComputeQuoteMixedCartRounding(t *testing.T) {
	// 12.99 digital + 9.99 x2 physical = 32.97 subtotal; tax 4.9455 rounds
	// to 4.95; shipping 50.00.
	subtotal := 1299 + 999*2
	quote := ComputeQuote(subtotal, true, 5000, rate("0.15"))
	if quote.SubtotalCents != 3297 {
		t.Fatalf("expected subtotal 3297, got %d", quote.SubtotalCents)
	}
	if quote.TaxCents != 495 {
		t.Fatalf("expected tax 495, got %d", quote.TaxCents)
	}
	if quote.TotalCents != 3297+5000+495 {
		t.Fatalf("expected total %d, got %d", 3297+5000+495, quote.TotalCents)
	}
}

func TestConverterFormat(t *testing.T) {
	conv := NewConverter([]Rate{
		{Code: "USD", Symbol: "$", Rate: rate("1"), IsDefault: true},
		{Code: "SAR", Symbol: "SR ", Rate: rate("3.75")},
	})

	got, err := conv.Format(8792, "USD")
	if err != nil {
		t.Fatalf("format usd: %v", err)
	}
	if got != "$87.92" {
		t.Fatalf("expected $87.92, got %s", got)
	}

	got, err = conv.Format(10000, "sar")
	if err != nil {
		t.Fatalf("format sar: %v", err)
	}
	if got != "SR 375.00" {
		t.Fatalf("expected SR 375.00, got %s", got)
	}
}

func TestConverterFallsBackToDefault(t *testing.T) {
	conv := NewConverter([]Rate{
		{Code: "USD", Symbol: "$", Rate: rate("1"), IsDefault: true},
	})
	got, err := conv.Format(500, "")
	if err != nil {
		t.Fatalf("format default: %v", err)
	}
	if got != "$5.00" {
		t.Fatalf("expected $5.00, got %s", got)
	}
	if _, err := conv.Format(500, "EUR"); err == nil {
		t.Fatal("expected error for unknown currency")
	}
}
