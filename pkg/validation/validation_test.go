package validation

import "testing"

func TestIsEmail(t *testing.T) {
	valid := []string{"shopper@example.com", "  a.b+c@mail.co  ", "x@y.io"}
	for _, v := range valid {
		if !IsEmail(v) {
			t.Fatalf("expected %q to be valid", v)
		}
	}
	invalid := []string{"", "plain", "no@tld", "two@@example.com", "has space@example.com"}
	for _, v := range invalid {
		if IsEmail(v) {
			t.Fatalf("expected %q to be invalid", v)
		}
	}
}

func TestIsPhone(t *testing.T) {
	valid := []string{"+966501234567", "0501234567", "(050) 123-4567"}
	for _, v := range valid {
		if !IsPhone(v) {
			t.Fatalf("expected %q to be valid", v)
		}
	}
	invalid := []string{"", "12345", "call-me-maybe", "+12345678901234567890123"}
	for _, v := range invalid {
		if IsPhone(v) {
			t.Fatalf("expected %q to be invalid", v)
		}
	}
}

func TestNormalizeEmail(t *testing.T) {
	if got := NormalizeEmail("  Shopper@Example.COM "); got != "shopper@example.com" {
		t.Fatalf("unexpected normalization: %q", got)
	}
}
