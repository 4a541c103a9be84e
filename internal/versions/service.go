package versions

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/wafarle/wafarle-backend/pkg/db/models"
	pkgerrors "github.com/wafarle/wafarle-backend/pkg/errors"
)

var semverPattern = regexp.MustCompile(`^\d+\.\d+\.\d+$`)

type versionRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.SystemVersion, error)
	FindByVersion(ctx context.Context, version string) (*models.SystemVersion, error)
	FindLatest(ctx context.Context) (*models.SystemVersion, error)
	List(ctx context.Context) ([]models.SystemVersion, error)
	Create(ctx context.Context, version *models.SystemVersion) (*models.SystemVersion, error)
	Save(ctx context.Context, version *models.SystemVersion) error
	Delete(ctx context.Context, id uuid.UUID) error
	SetLatest(ctx context.Context, id uuid.UUID) error
}

// VersionInput carries the admin-facing fields for create/update.
type VersionInput struct {
	Version     string
	ReleaseDate time.Time
	IsStable    bool
	IsBeta      bool
	Breaking    bool
	Features    []string
	Bugfixes    []string
}

// Service manages the published release history.
type Service interface {
	ListVersions(ctx context.Context) ([]models.SystemVersion, error)
	GetVersion(ctx context.Context, id uuid.UUID) (*models.SystemVersion, error)
	LatestVersion(ctx context.Context) (*models.SystemVersion, error)
	CreateVersion(ctx context.Context, input VersionInput) (*models.SystemVersion, error)
	UpdateVersion(ctx context.Context, id uuid.UUID, input VersionInput) (*models.SystemVersion, error)
	DeleteVersion(ctx context.Context, id uuid.UUID) error
	SetLatest(ctx context.Context, id uuid.UUID) (*models.SystemVersion, error)
}

type service struct {
	repo versionRepository
}

// NewService builds a versions service backed by the provided repository.
func NewService(repo versionRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("versions repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListVersions(ctx context.Context) ([]models.SystemVersion, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list versions")
	}
	return rows, nil
}

func (s *service) GetVersion(ctx context.Context, id uuid.UUID) (*models.SystemVersion, error) {
	return s.load(ctx, id)
}

func (s *service) LatestVersion(ctx context.Context) (*models.SystemVersion, error) {
	row, err := s.repo.FindLatest(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no latest version published")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup latest version")
	}
	return row, nil
}

func (s *service) CreateVersion(ctx context.Context, input VersionInput) (*models.SystemVersion, error) {
	version, err := validateVersionInput(input)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.FindByVersion(ctx, version); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "version already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup version")
	}

	created, err := s.repo.Create(ctx, &models.SystemVersion{
		Version:     version,
		ReleaseDate: input.ReleaseDate,
		IsStable:    input.IsStable,
		IsBeta:      input.IsBeta,
		Breaking:    input.Breaking,
		Features:    input.Features,
		Bugfixes:    input.Bugfixes,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create version")
	}
	return created, nil
}

func (s *service) UpdateVersion(ctx context.Context, id uuid.UUID, input VersionInput) (*models.SystemVersion, error) {
	version, err := validateVersionInput(input)
	if err != nil {
		return nil, err
	}
	row, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	row.Version = version
	row.ReleaseDate = input.ReleaseDate
	row.IsStable = input.IsStable
	row.IsBeta = input.IsBeta
	row.Breaking = input.Breaking
	row.Features = input.Features
	row.Bugfixes = input.Bugfixes

	if err := s.repo.Save(ctx, row); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save version")
	}
	return row, nil
}

func (s *service) DeleteVersion(ctx context.Context, id uuid.UUID) error {
	row, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	// retire the latest flag first so clients never see an empty changelog head
	if row.IsLatest {
		return pkgerrors.New(pkgerrors.CodeConflict, "latest version cannot be deleted")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete version")
	}
	return nil
}

func (s *service) SetLatest(ctx context.Context, id uuid.UUID) (*models.SystemVersion, error) {
	row, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SetLatest(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "version not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "set latest version")
	}
	row.IsLatest = true
	return row, nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.SystemVersion, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "version id is required")
	}
	row, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "version not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup version")
	}
	return row, nil
}

func validateVersionInput(input VersionInput) (string, error) {
	version := strings.TrimSpace(input.Version)
	if !semverPattern.MatchString(version) {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "version must be MAJOR.MINOR.PATCH")
	}
	if input.ReleaseDate.IsZero() {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "release date is required")
	}
	return version, nil
}
