package licenses

import (
	"testing"
	"time"

	"github.com/lib/pq"

	"github.com/wafarle/wafarle-backend/pkg/db/models"
	"github.com/wafarle/wafarle-backend/pkg/enums"
)

func timePtr(t time.Time) *time.Time { return &t }

func TestDaysRemaining(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	permanent := &models.License{IsPermanent: true, ExpiryDate: timePtr(now.Add(24 * time.Hour))}
	if DaysRemaining(permanent, now) != nil {
		t.Fatal("permanent license should report nil days")
	}

	noDate := &models.License{}
	if DaysRemaining(noDate, now) != nil {
		t.Fatal("license without expiry should report nil days")
	}

	// partial days round up
	halfDay := &models.License{ExpiryDate: timePtr(now.Add(12 * time.Hour))}
	if days := DaysRemaining(halfDay, now); days == nil || *days != 1 {
		t.Fatalf("expected 1 day for 12h remaining, got %v", days)
	}

	tenDays := &models.License{ExpiryDate: timePtr(now.Add(10 * 24 * time.Hour))}
	if days := DaysRemaining(tenDays, now); days == nil || *days != 10 {
		t.Fatalf("expected 10 days, got %v", days)
	}

	lapsed := &models.License{ExpiryDate: timePtr(now.Add(-36 * time.Hour))}
	if days := DaysRemaining(lapsed, now); days == nil || *days != -1 {
		t.Fatalf("expected -1 for lapsed license, got %v", days)
	}
}

func TestEffectiveStatusDateMathWins(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	// stored active but lapsed -> expired
	stale := &models.License{
		Status:     enums.LicenseStatusActive,
		ExpiryDate: timePtr(now.Add(-time.Hour)),
	}
	if got := EffectiveStatus(stale, now); got != enums.LicenseStatusExpired {
		t.Fatalf("expected expired, got %s", got)
	}

	current := &models.License{
		Status:     enums.LicenseStatusTrial,
		ExpiryDate: timePtr(now.Add(48 * time.Hour)),
	}
	if got := EffectiveStatus(current, now); got != enums.LicenseStatusTrial {
		t.Fatalf("expected trial, got %s", got)
	}

	permanent := &models.License{
		Status:      enums.LicenseStatusExpired,
		IsPermanent: true,
		ExpiryDate:  timePtr(now.Add(-time.Hour)),
	}
	if got := EffectiveStatus(permanent, now); got != enums.LicenseStatusActive {
		t.Fatalf("permanent license should be active, got %s", got)
	}

	suspendedPermanent := &models.License{
		Status:      enums.LicenseStatusSuspended,
		IsPermanent: true,
	}
	if got := EffectiveStatus(suspendedPermanent, now); got != enums.LicenseStatusSuspended {
		t.Fatalf("suspension should survive permanence, got %s", got)
	}
}

func TestIsExpiringSoon(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	cases := []struct {
		name string
		lic  *models.License
		want bool
	}{
		{"within window", &models.License{ExpiryDate: timePtr(now.Add(10 * 24 * time.Hour))}, true},
		{"boundary 30 days", &models.License{ExpiryDate: timePtr(now.Add(30 * 24 * time.Hour))}, true},
		{"beyond window", &models.License{ExpiryDate: timePtr(now.Add(31 * 24 * time.Hour))}, false},
		{"already lapsed", &models.License{ExpiryDate: timePtr(now.Add(-time.Hour))}, false},
		{"permanent", &models.License{IsPermanent: true}, false},
	}
	for _, tc := range cases {
		if got := IsExpiringSoon(tc.lic, now, 30); got != tc.want {
			t.Fatalf("%s: got %v, want %v", tc.name, got, tc.want)
		}
	}
}

func TestMatchesDomain(t *testing.T) {
	lic := &models.License{
		Domain:       "shop.example.com",
		ExtraDomains: pq.StringArray{"staging.example.com"},
	}
	if !MatchesDomain(lic, "shop.example.com") {
		t.Fatal("primary domain should match")
	}
	if !MatchesDomain(lic, "staging.example.com") {
		t.Fatal("extra domain should match")
	}
	if MatchesDomain(lic, "evil.example.com") {
		t.Fatal("unlicensed domain should not match")
	}
}
