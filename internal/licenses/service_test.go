package licenses

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	redislib "github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/wafarle/wafarle-backend/pkg/config"
	"github.com/wafarle/wafarle-backend/pkg/db/models"
	"github.com/wafarle/wafarle-backend/pkg/enums"
	pkgerrors "github.com/wafarle/wafarle-backend/pkg/errors"
)

type stubLicenseRepo struct {
	byID     map[uuid.UUID]*models.License
	byKey    map[string]*models.License
	findByKeyCalls int
}

func newStubLicenseRepo(rows ...*models.License) *stubLicenseRepo {
	s := &stubLicenseRepo{
		byID:  make(map[uuid.UUID]*models.License),
		byKey: make(map[string]*models.License),
	}
	for _, row := range rows {
		s.byID[row.ID] = row
		s.byKey[row.Key] = row
	}
	return s
}

func (s *stubLicenseRepo) FindByID(_ context.Context, id uuid.UUID) (*models.License, error) {
	if lic, ok := s.byID[id]; ok {
		copied := *lic
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubLicenseRepo) FindByKey(_ context.Context, key string) (*models.License, error) {
	s.findByKeyCalls++
	if lic, ok := s.byKey[key]; ok {
		copied := *lic
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubLicenseRepo) ListByCustomer(_ context.Context, customerID uuid.UUID) ([]models.License, error) {
	var rows []models.License
	for _, lic := range s.byID {
		if lic.CustomerID != nil && *lic.CustomerID == customerID {
			rows = append(rows, *lic)
		}
	}
	return rows, nil
}

func (s *stubLicenseRepo) List(_ context.Context, opts listQuery) ([]models.License, error) {
	var rows []models.License
	for _, lic := range s.byID {
		rows = append(rows, *lic)
	}
	if len(rows) > opts.limit {
		rows = rows[:opts.limit]
	}
	return rows, nil
}

func (s *stubLicenseRepo) Create(_ context.Context, lic *models.License) (*models.License, error) {
	lic.ID = uuid.New()
	copied := *lic
	s.byID[lic.ID] = &copied
	s.byKey[lic.Key] = &copied
	return lic, nil
}

func (s *stubLicenseRepo) Save(_ context.Context, lic *models.License) error {
	copied := *lic
	s.byID[lic.ID] = &copied
	s.byKey[lic.Key] = &copied
	return nil
}

func (s *stubLicenseRepo) Delete(_ context.Context, id uuid.UUID) error {
	if lic, ok := s.byID[id]; ok {
		delete(s.byKey, lic.Key)
		delete(s.byID, id)
	}
	return nil
}

type memoryCache struct {
	mu    sync.Mutex
	store map[string]string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{store: make(map[string]string)}
}

func (m *memoryCache) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.store[key]; ok {
		return v, nil
	}
	return "", redislib.Nil
}

func (m *memoryCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.store[key] = value.(string)
	return nil
}

func (m *memoryCache) Del(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.store, k)
	}
	return nil
}

func (m *memoryCache) LicenseVerifyKey(licenseKey, domain string) string {
	return "wf:license:verify:" + licenseKey + ":" + domain
}

func licenseConfig() config.LicenseConfig {
	return config.LicenseConfig{VerifyCacheTTL: time.Hour, ExpirySoonDays: 30}
}

func activeLicense(customerID uuid.UUID, expiry time.Time) *models.License {
	return &models.License{
		ID:            uuid.New(),
		Key:           "WFRL-TEST-0001",
		CustomerID:    &customerID,
		CustomerName:  "Sara Ahmed",
		CustomerEmail: "sara@example.com",
		Domain:        "shop.example.com",
		Type:          enums.LicenseTypeProfessional,
		Status:        enums.LicenseStatusActive,
		ExpiryDate:    &expiry,
	}
}

func TestVerifyValidLicenseAndCache(t *testing.T) {
	ctx := context.Background()
	customerID := uuid.New()
	repo := newStubLicenseRepo(activeLicense(customerID, time.Now().UTC().Add(90*24*time.Hour)))
	cache := newMemoryCache()
	svc, err := NewService(repo, cache, licenseConfig())
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	result, err := svc.Verify(ctx, "WFRL-TEST-0001", "shop.example.com", "1.4.2")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if !result.Valid || result.License == nil {
		t.Fatalf("expected valid result, got %+v", result)
	}
	if result.License.Status != enums.LicenseStatusActive {
		t.Fatalf("effective status = %s", result.License.Status)
	}

	// second call served from cache
	if _, err := svc.Verify(ctx, "WFRL-TEST-0001", "shop.example.com", "1.4.2"); err != nil {
		t.Fatalf("Verify cached: %v", err)
	}
	if repo.findByKeyCalls != 1 {
		t.Fatalf("expected 1 store lookup, got %d", repo.findByKeyCalls)
	}
}

func TestVerifyRejectsUnlicensedDomain(t *testing.T) {
	repo := newStubLicenseRepo(activeLicense(uuid.New(), time.Now().UTC().Add(time.Hour)))
	svc, _ := NewService(repo, newMemoryCache(), licenseConfig())

	result, err := svc.Verify(context.Background(), "WFRL-TEST-0001", "evil.example.com", "")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if result.Valid {
		t.Fatal("unlicensed domain should be rejected")
	}
}

func TestVerifyExpiredByDateMath(t *testing.T) {
	// stored status says active, expiry lapsed yesterday
	lic := activeLicense(uuid.New(), time.Now().UTC().Add(-24*time.Hour))
	svc, _ := NewService(newStubLicenseRepo(lic), newMemoryCache(), licenseConfig())

	result, err := svc.Verify(context.Background(), lic.Key, lic.Domain, "")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if result.Valid {
		t.Fatal("lapsed license should be invalid regardless of stored status")
	}
	if !strings.Contains(result.Reason, "expired") {
		t.Fatalf("reason = %q", result.Reason)
	}
}

func TestVerifyUnknownKey(t *testing.T) {
	svc, _ := NewService(newStubLicenseRepo(), newMemoryCache(), licenseConfig())

	result, err := svc.Verify(context.Background(), "WFRL-NOPE", "shop.example.com", "")
	if err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if result.Valid {
		t.Fatal("unknown key should be invalid")
	}
}

func TestCreateLicenseGeneratesKey(t *testing.T) {
	repo := newStubLicenseRepo()
	svc, _ := NewService(repo, newMemoryCache(), licenseConfig())

	expiry := time.Now().UTC().Add(365 * 24 * time.Hour)
	view, err := svc.CreateLicense(context.Background(), LicenseInput{
		CustomerName:  "Sara Ahmed",
		CustomerEmail: "Sara@Example.com",
		Domain:        "Shop.Example.com",
		Type:          enums.LicenseTypeBasic,
		Status:        enums.LicenseStatusTrial,
		ExpiryDate:    &expiry,
	})
	if err != nil {
		t.Fatalf("CreateLicense: %v", err)
	}
	if !strings.HasPrefix(view.License.Key, "WFRL-") {
		t.Fatalf("key = %q", view.License.Key)
	}
	if view.License.CustomerEmail != "sara@example.com" || view.License.Domain != "shop.example.com" {
		t.Fatal("email and domain should be normalized")
	}
}

func TestCreateLicenseValidation(t *testing.T) {
	svc, _ := NewService(newStubLicenseRepo(), newMemoryCache(), licenseConfig())

	_, err := svc.CreateLicense(context.Background(), LicenseInput{
		CustomerName:  "Sara",
		CustomerEmail: "sara@example.com",
		Domain:        "shop.example.com",
		Type:          enums.LicenseTypeBasic,
		Status:        enums.LicenseStatusTrial,
		// neither permanent nor dated
	})
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestUpdateLicenseInvalidatesVerifyCache(t *testing.T) {
	ctx := context.Background()
	lic := activeLicense(uuid.New(), time.Now().UTC().Add(90*24*time.Hour))
	repo := newStubLicenseRepo(lic)
	cache := newMemoryCache()
	svc, _ := NewService(repo, cache, licenseConfig())

	if _, err := svc.Verify(ctx, lic.Key, lic.Domain, ""); err != nil {
		t.Fatalf("Verify: %v", err)
	}
	if len(cache.store) != 1 {
		t.Fatalf("expected cached entry, got %d", len(cache.store))
	}

	suspended := LicenseInput{
		CustomerID:    lic.CustomerID,
		CustomerName:  lic.CustomerName,
		CustomerEmail: lic.CustomerEmail,
		Domain:        lic.Domain,
		Type:          lic.Type,
		Status:        enums.LicenseStatusSuspended,
		ExpiryDate:    lic.ExpiryDate,
	}
	if _, err := svc.UpdateLicense(ctx, lic.ID, suspended); err != nil {
		t.Fatalf("UpdateLicense: %v", err)
	}
	if len(cache.store) != 0 {
		t.Fatal("verify cache should be invalidated on update")
	}

	result, err := svc.Verify(ctx, lic.Key, lic.Domain, "")
	if err != nil {
		t.Fatalf("Verify after update: %v", err)
	}
	if result.Valid {
		t.Fatal("suspended license should be invalid")
	}
}
