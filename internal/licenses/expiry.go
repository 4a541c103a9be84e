package licenses

import (
	"time"

	"github.com/wafarle/wafarle-backend/pkg/db/models"
	"github.com/wafarle/wafarle-backend/pkg/enums"
)

// DaysRemaining returns the whole days left before expiry, rounding any
// partial day up. Permanent licenses and licenses without an expiry date
// return nil.
func DaysRemaining(lic *models.License, now time.Time) *int {
	if lic == nil || lic.IsPermanent || lic.ExpiryDate == nil {
		return nil
	}
	remaining := lic.ExpiryDate.Sub(now)
	days := int(remaining / (24 * time.Hour))
	if remaining%(24*time.Hour) > 0 {
		days++
	}
	return &days
}

// EffectiveStatus derives the status from date math. The stored status is
// presentation state; a lapsed expiry date always wins.
func EffectiveStatus(lic *models.License, now time.Time) enums.LicenseStatus {
	if lic == nil {
		return enums.LicenseStatusExpired
	}
	if lic.IsPermanent {
		if lic.Status == enums.LicenseStatusSuspended {
			return enums.LicenseStatusSuspended
		}
		return enums.LicenseStatusActive
	}
	if lic.ExpiryDate != nil && !lic.ExpiryDate.After(now) {
		return enums.LicenseStatusExpired
	}
	return lic.Status
}

// IsExpiringSoon reports whether the license lapses within soonDays.
func IsExpiringSoon(lic *models.License, now time.Time, soonDays int) bool {
	days := DaysRemaining(lic, now)
	if days == nil {
		return false
	}
	return *days > 0 && *days <= soonDays
}

// MatchesDomain reports whether the domain is the primary or one of the
// extra domains registered on the license.
func MatchesDomain(lic *models.License, domain string) bool {
	if lic == nil {
		return false
	}
	if lic.Domain == domain {
		return true
	}
	for _, extra := range lic.ExtraDomains {
		if extra == domain {
			return true
		}
	}
	return false
}
