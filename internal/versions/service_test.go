package versions

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wafarle/wafarle-backend/pkg/db/models"
	pkgerrors "github.com/wafarle/wafarle-backend/pkg/errors"
)

type stubVersionRepo struct {
	rows map[uuid.UUID]*models.SystemVersion
}

func newStubVersionRepo(rows ...*models.SystemVersion) *stubVersionRepo {
	s := &stubVersionRepo{rows: make(map[uuid.UUID]*models.SystemVersion)}
	for _, row := range rows {
		s.rows[row.ID] = row
	}
	return s
}

func (s *stubVersionRepo) FindByID(_ context.Context, id uuid.UUID) (*models.SystemVersion, error) {
	if v, ok := s.rows[id]; ok {
		copied := *v
		return &copied, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubVersionRepo) FindByVersion(_ context.Context, version string) (*models.SystemVersion, error) {
	for _, v := range s.rows {
		if v.Version == version {
			copied := *v
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubVersionRepo) FindLatest(_ context.Context) (*models.SystemVersion, error) {
	for _, v := range s.rows {
		if v.IsLatest {
			copied := *v
			return &copied, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubVersionRepo) List(_ context.Context) ([]models.SystemVersion, error) {
	var rows []models.SystemVersion
	for _, v := range s.rows {
		rows = append(rows, *v)
	}
	return rows, nil
}

func (s *stubVersionRepo) Create(_ context.Context, version *models.SystemVersion) (*models.SystemVersion, error) {
	version.ID = uuid.New()
	copied := *version
	s.rows[version.ID] = &copied
	return version, nil
}

func (s *stubVersionRepo) Save(_ context.Context, version *models.SystemVersion) error {
	copied := *version
	s.rows[version.ID] = &copied
	return nil
}

func (s *stubVersionRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(s.rows, id)
	return nil
}

func (s *stubVersionRepo) SetLatest(_ context.Context, id uuid.UUID) error {
	if _, ok := s.rows[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	for _, v := range s.rows {
		v.IsLatest = v.ID == id
	}
	return nil
}

func release(version string, latest bool) *models.SystemVersion {
	return &models.SystemVersion{
		ID:          uuid.New(),
		Version:     version,
		ReleaseDate: time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
		IsLatest:    latest,
		IsStable:    true,
	}
}

func TestSetLatestSwapsExactlyOne(t *testing.T) {
	old := release("1.4.0", true)
	next := release("1.5.0", false)
	repo := newStubVersionRepo(old, next)
	svc, err := NewService(repo)
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	updated, err := svc.SetLatest(context.Background(), next.ID)
	if err != nil {
		t.Fatalf("SetLatest: %v", err)
	}
	if !updated.IsLatest {
		t.Fatal("promoted version should be latest")
	}

	latest := 0
	for _, v := range repo.rows {
		if v.IsLatest {
			latest++
			if v.Version != "1.5.0" {
				t.Fatalf("wrong latest %s", v.Version)
			}
		}
	}
	if latest != 1 {
		t.Fatalf("expected exactly one latest, got %d", latest)
	}
}

func TestDeleteLatestRejected(t *testing.T) {
	current := release("1.5.0", true)
	repo := newStubVersionRepo(current)
	svc, _ := NewService(repo)

	err := svc.DeleteVersion(context.Background(), current.ID)
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestCreateVersionValidatesSemver(t *testing.T) {
	svc, _ := NewService(newStubVersionRepo())

	for _, bad := range []string{"1.5", "v1.5.0", "1.5.0-beta", ""} {
		_, err := svc.CreateVersion(context.Background(), VersionInput{
			Version:     bad,
			ReleaseDate: time.Now(),
		})
		if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeValidation {
			t.Fatalf("version %q: expected validation error, got %v", bad, err)
		}
	}

	created, err := svc.CreateVersion(context.Background(), VersionInput{
		Version:     " 2.0.0 ",
		ReleaseDate: time.Now(),
		Breaking:    true,
		Features:    []string{"multi-currency storefront"},
	})
	if err != nil {
		t.Fatalf("CreateVersion: %v", err)
	}
	if created.Version != "2.0.0" {
		t.Fatalf("version = %q", created.Version)
	}
}

func TestCreateVersionDuplicateRejected(t *testing.T) {
	svc, _ := NewService(newStubVersionRepo(release("1.5.0", true)))

	_, err := svc.CreateVersion(context.Background(), VersionInput{
		Version:     "1.5.0",
		ReleaseDate: time.Now(),
	})
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestLatestVersionNotFound(t *testing.T) {
	svc, _ := NewService(newStubVersionRepo(release("1.5.0", false)))

	_, err := svc.LatestVersion(context.Background())
	if appErr := pkgerrors.As(err); appErr == nil || appErr.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
