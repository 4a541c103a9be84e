package licenses

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/wafarle/wafarle-backend/pkg/config"
	"github.com/wafarle/wafarle-backend/pkg/db/models"
	"github.com/wafarle/wafarle-backend/pkg/enums"
	pkgerrors "github.com/wafarle/wafarle-backend/pkg/errors"
	"github.com/wafarle/wafarle-backend/pkg/pagination"
	"github.com/wafarle/wafarle-backend/pkg/validation"
)

type licenseRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.License, error)
	FindByKey(ctx context.Context, key string) (*models.License, error)
	ListByCustomer(ctx context.Context, customerID uuid.UUID) ([]models.License, error)
	List(ctx context.Context, opts listQuery) ([]models.License, error)
	Create(ctx context.Context, lic *models.License) (*models.License, error)
	Save(ctx context.Context, lic *models.License) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type verifyCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Del(ctx context.Context, keys ...string) error
	LicenseVerifyKey(licenseKey, domain string) string
}

// LicenseView is a license plus the derived fields clients render.
type LicenseView struct {
	License       models.License      `json:"license"`
	Status        enums.LicenseStatus `json:"status"`
	DaysRemaining *int                `json:"days_remaining,omitempty"`
	ExpiringSoon  bool                `json:"expiring_soon"`
}

// VerifyResult is the answer handed to a deployed storefront instance.
type VerifyResult struct {
	Valid   bool         `json:"valid"`
	Reason  string       `json:"reason,omitempty"`
	License *LicenseView `json:"license,omitempty"`
}

// LicenseInput carries the admin-facing fields for create/update.
type LicenseInput struct {
	CustomerID    *uuid.UUID
	CustomerName  string
	CustomerEmail string
	Domain        string
	ExtraDomains  []string
	Type          enums.LicenseType
	Status        enums.LicenseStatus
	IsPermanent   bool
	ExpiryDate    *time.Time
	MaxProducts   int
	MaxOrders     int
	Features      []string
}

// ListParams carries cursor pagination inputs for the admin listing.
type ListParams struct {
	pagination.Params
}

// ListResult is one page of licenses plus the next cursor.
type ListResult struct {
	Licenses []LicenseView `json:"licenses"`
	Cursor   string        `json:"cursor"`
}

// Service exposes customer license views, admin management, and the
// public verification endpoint.
type Service interface {
	MyLicenses(ctx context.Context, customerID uuid.UUID) ([]LicenseView, error)
	GetLicense(ctx context.Context, id uuid.UUID) (*LicenseView, error)
	ListLicenses(ctx context.Context, params ListParams) (*ListResult, error)
	CreateLicense(ctx context.Context, input LicenseInput) (*LicenseView, error)
	UpdateLicense(ctx context.Context, id uuid.UUID, input LicenseInput) (*LicenseView, error)
	DeleteLicense(ctx context.Context, id uuid.UUID) error
	Verify(ctx context.Context, key, domain, version string) (*VerifyResult, error)
}

type service struct {
	repo     licenseRepository
	cache    verifyCache
	cacheTTL time.Duration
	soonDays int
	now      func() time.Time
}

// NewService builds a license service with the verification cache policy.
func NewService(repo licenseRepository, cache verifyCache, cfg config.LicenseConfig) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("license repository required")
	}
	if cache == nil {
		return nil, fmt.Errorf("verify cache required")
	}
	return &service{
		repo:     repo,
		cache:    cache,
		cacheTTL: cfg.VerifyCacheTTL,
		soonDays: cfg.ExpirySoonDays,
		now:      func() time.Time { return time.Now().UTC() },
	}, nil
}

func (s *service) MyLicenses(ctx context.Context, customerID uuid.UUID) ([]LicenseView, error) {
	if customerID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "customer identity missing")
	}
	rows, err := s.repo.ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list licenses")
	}
	now := s.now()
	views := make([]LicenseView, 0, len(rows))
	for i := range rows {
		views = append(views, s.view(&rows[i], now))
	}
	return views, nil
}

func (s *service) GetLicense(ctx context.Context, id uuid.UUID) (*LicenseView, error) {
	lic, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	view := s.view(lic, s.now())
	return &view, nil
}

func (s *service) ListLicenses(ctx context.Context, params ListParams) (*ListResult, error) {
	limit := pagination.NormalizeLimit(params.Limit)
	query := listQuery{limit: pagination.LimitWithBuffer(params.Limit)}
	if params.Cursor != "" {
		cursor, err := pagination.ParseCursor(params.Cursor)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid cursor")
		}
		query.cursor = cursor
	}

	rows, err := s.repo.List(ctx, query)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list licenses")
	}

	nextCursor := ""
	if len(rows) > limit {
		nextCursor = pagination.EncodeCursor(pagination.Cursor{
			CreatedAt: rows[limit].CreatedAt,
			ID:        rows[limit].ID,
		})
		rows = rows[:limit]
	}

	now := s.now()
	views := make([]LicenseView, 0, len(rows))
	for i := range rows {
		views = append(views, s.view(&rows[i], now))
	}
	return &ListResult{Licenses: views, Cursor: nextCursor}, nil
}

func (s *service) CreateLicense(ctx context.Context, input LicenseInput) (*LicenseView, error) {
	if err := validateLicenseInput(input); err != nil {
		return nil, err
	}

	key, err := generateKey()
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "generate license key")
	}

	lic := &models.License{
		Key:           key,
		CustomerID:    input.CustomerID,
		CustomerName:  strings.TrimSpace(input.CustomerName),
		CustomerEmail: validation.NormalizeEmail(input.CustomerEmail),
		Domain:        normalizeDomain(input.Domain),
		ExtraDomains:  normalizeDomains(input.ExtraDomains),
		Type:          input.Type,
		Status:        input.Status,
		IsPermanent:   input.IsPermanent,
		ExpiryDate:    input.ExpiryDate,
		MaxProducts:   input.MaxProducts,
		MaxOrders:     input.MaxOrders,
		Features:      input.Features,
	}
	created, err := s.repo.Create(ctx, lic)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create license")
	}
	view := s.view(created, s.now())
	return &view, nil
}

func (s *service) UpdateLicense(ctx context.Context, id uuid.UUID, input LicenseInput) (*LicenseView, error) {
	if err := validateLicenseInput(input); err != nil {
		return nil, err
	}
	lic, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, lic)

	lic.CustomerID = input.CustomerID
	lic.CustomerName = strings.TrimSpace(input.CustomerName)
	lic.CustomerEmail = validation.NormalizeEmail(input.CustomerEmail)
	lic.Domain = normalizeDomain(input.Domain)
	lic.ExtraDomains = normalizeDomains(input.ExtraDomains)
	lic.Type = input.Type
	lic.Status = input.Status
	lic.IsPermanent = input.IsPermanent
	lic.ExpiryDate = input.ExpiryDate
	lic.MaxProducts = input.MaxProducts
	lic.MaxOrders = input.MaxOrders
	lic.Features = input.Features

	if err := s.repo.Save(ctx, lic); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save license")
	}
	s.invalidate(ctx, lic)
	view := s.view(lic, s.now())
	return &view, nil
}

func (s *service) DeleteLicense(ctx context.Context, id uuid.UUID) error {
	lic, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete license")
	}
	s.invalidate(ctx, lic)
	return nil
}

func (s *service) Verify(ctx context.Context, key, domain, version string) (*VerifyResult, error) {
	key = strings.TrimSpace(key)
	domain = normalizeDomain(domain)
	if key == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "license key is required")
	}
	if domain == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "domain is required")
	}

	cacheKey := s.cache.LicenseVerifyKey(key, domain)
	if cached, err := s.cache.Get(ctx, cacheKey); err == nil {
		var result VerifyResult
		if jsonErr := json.Unmarshal([]byte(cached), &result); jsonErr == nil {
			return &result, nil
		}
	} else if !errors.Is(err, redislib.Nil) {
		// cache miss path also covers a degraded cache
		_ = err
	}

	result := s.verifyAgainstStore(ctx, key, domain)
	if result == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "license lookup failed")
	}

	if payload, err := json.Marshal(result); err == nil {
		_ = s.cache.Set(ctx, cacheKey, string(payload), s.cacheTTL)
	}
	return result, nil
}

func (s *service) verifyAgainstStore(ctx context.Context, key, domain string) *VerifyResult {
	lic, err := s.repo.FindByKey(ctx, key)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &VerifyResult{Valid: false, Reason: "license not found"}
		}
		return nil
	}
	if !MatchesDomain(lic, domain) {
		return &VerifyResult{Valid: false, Reason: "domain not licensed"}
	}

	now := s.now()
	effective := EffectiveStatus(lic, now)
	if effective != enums.LicenseStatusActive && effective != enums.LicenseStatusTrial {
		return &VerifyResult{Valid: false, Reason: "license " + string(effective)}
	}

	view := s.view(lic, now)
	return &VerifyResult{Valid: true, License: &view}
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.License, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "license id is required")
	}
	lic, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "license not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup license")
	}
	return lic, nil
}

func (s *service) view(lic *models.License, now time.Time) LicenseView {
	return LicenseView{
		License:       *lic,
		Status:        EffectiveStatus(lic, now),
		DaysRemaining: DaysRemaining(lic, now),
		ExpiringSoon:  IsExpiringSoon(lic, now, s.soonDays),
	}
}

func (s *service) invalidate(ctx context.Context, lic *models.License) {
	keys := []string{s.cache.LicenseVerifyKey(lic.Key, lic.Domain)}
	for _, extra := range lic.ExtraDomains {
		keys = append(keys, s.cache.LicenseVerifyKey(lic.Key, extra))
	}
	_ = s.cache.Del(ctx, keys...)
}

func validateLicenseInput(input LicenseInput) error {
	if strings.TrimSpace(input.CustomerName) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer name is required")
	}
	if !validation.IsEmail(input.CustomerEmail) {
		return pkgerrors.New(pkgerrors.CodeValidation, "customer email is invalid")
	}
	if normalizeDomain(input.Domain) == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "domain is required")
	}
	if !input.Type.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid license type")
	}
	if !input.Status.IsValid() {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid license status")
	}
	if !input.IsPermanent && input.ExpiryDate == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "expiry date required for non-permanent license")
	}
	if input.MaxProducts < 0 || input.MaxOrders < 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "limits must not be negative")
	}
	return nil
}

func generateKey() (string, error) {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	raw := strings.ToUpper(hex.EncodeToString(buf))
	return fmt.Sprintf("WFRL-%s-%s-%s-%s", raw[0:8], raw[8:16], raw[16:24], raw[24:32]), nil
}

func normalizeDomain(domain string) string {
	return strings.ToLower(strings.TrimSpace(domain))
}

func normalizeDomains(domains []string) []string {
	cleaned := make([]string, 0, len(domains))
	for _, d := range domains {
		if normalized := normalizeDomain(d); normalized != "" {
			cleaned = append(cleaned, normalized)
		}
	}
	return cleaned
}
