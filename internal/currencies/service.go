package currencies

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/wafarle/wafarle-backend/pkg/db/models"
	pkgerrors "github.com/wafarle/wafarle-backend/pkg/errors"
	"github.com/wafarle/wafarle-backend/pkg/money"
)

type currencyRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Currency, error)
	FindByCode(ctx context.Context, code string) (*models.Currency, error)
	List(ctx context.Context) ([]models.Currency, error)
	ListActive(ctx context.Context) ([]models.Currency, error)
	Create(ctx context.Context, currency *models.Currency) (*models.Currency, error)
	Save(ctx context.Context, currency *models.Currency) error
	Delete(ctx context.Context, id uuid.UUID) error
	SetDefault(ctx context.Context, id uuid.UUID) error
}

// CurrencyInput carries the admin-facing fields for create/update.
type CurrencyInput struct {
	Code     string
	Symbol   string
	Rate     decimal.Decimal
	IsActive bool
}

// Service manages display currencies and builds converters for pricing.
type Service interface {
	ListCurrencies(ctx context.Context) ([]models.Currency, error)
	ActiveCurrencies(ctx context.Context) ([]models.Currency, error)
	GetCurrency(ctx context.Context, id uuid.UUID) (*models.Currency, error)
	CreateCurrency(ctx context.Context, input CurrencyInput) (*models.Currency, error)
	UpdateCurrency(ctx context.Context, id uuid.UUID, input CurrencyInput) (*models.Currency, error)
	DeleteCurrency(ctx context.Context, id uuid.UUID) error
	SetDefault(ctx context.Context, id uuid.UUID) (*models.Currency, error)
	Converter(ctx context.Context) (*money.Converter, error)
}

type service struct {
	repo currencyRepository
}

// NewService builds a currencies service backed by the provided repository.
func NewService(repo currencyRepository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("currencies repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) ListCurrencies(ctx context.Context) ([]models.Currency, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list currencies")
	}
	return rows, nil
}

func (s *service) ActiveCurrencies(ctx context.Context) ([]models.Currency, error) {
	rows, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list currencies")
	}
	return rows, nil
}

func (s *service) GetCurrency(ctx context.Context, id uuid.UUID) (*models.Currency, error) {
	return s.load(ctx, id)
}

func (s *service) CreateCurrency(ctx context.Context, input CurrencyInput) (*models.Currency, error) {
	code, err := validateCurrencyInput(input)
	if err != nil {
		return nil, err
	}
	if _, err := s.repo.FindByCode(ctx, code); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "currency code already exists")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup currency")
	}

	created, err := s.repo.Create(ctx, &models.Currency{
		Code:     code,
		Symbol:   strings.TrimSpace(input.Symbol),
		Rate:     input.Rate,
		IsActive: input.IsActive,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create currency")
	}
	return created, nil
}

func (s *service) UpdateCurrency(ctx context.Context, id uuid.UUID, input CurrencyInput) (*models.Currency, error) {
	code, err := validateCurrencyInput(input)
	if err != nil {
		return nil, err
	}
	currency, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}

	// the default currency cannot be switched off
	if currency.IsDefault && !input.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "default currency must stay active")
	}

	currency.Code = code
	currency.Symbol = strings.TrimSpace(input.Symbol)
	currency.Rate = input.Rate
	currency.IsActive = input.IsActive

	if err := s.repo.Save(ctx, currency); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save currency")
	}
	return currency, nil
}

func (s *service) DeleteCurrency(ctx context.Context, id uuid.UUID) error {
	currency, err := s.load(ctx, id)
	if err != nil {
		return err
	}
	if currency.IsDefault {
		return pkgerrors.New(pkgerrors.CodeConflict, "default currency cannot be deleted")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete currency")
	}
	return nil
}

func (s *service) SetDefault(ctx context.Context, id uuid.UUID) (*models.Currency, error) {
	currency, err := s.load(ctx, id)
	if err != nil {
		return nil, err
	}
	if !currency.IsActive {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "inactive currency cannot be default")
	}
	if err := s.repo.SetDefault(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "currency not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "set default currency")
	}
	currency.IsDefault = true
	return currency, nil
}

func (s *service) Converter(ctx context.Context) (*money.Converter, error) {
	rows, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list currencies")
	}
	rates := make([]money.Rate, 0, len(rows))
	for _, row := range rows {
		rates = append(rates, money.Rate{
			Code:      row.Code,
			Symbol:    row.Symbol,
			Rate:      row.Rate,
			IsDefault: row.IsDefault,
		})
	}
	return money.NewConverter(rates), nil
}

func (s *service) load(ctx context.Context, id uuid.UUID) (*models.Currency, error) {
	if id == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "currency id is required")
	}
	currency, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "currency not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup currency")
	}
	return currency, nil
}

func validateCurrencyInput(input CurrencyInput) (string, error) {
	code := strings.ToUpper(strings.TrimSpace(input.Code))
	if len(code) != 3 {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "code must be a 3-letter currency code")
	}
	if strings.TrimSpace(input.Symbol) == "" {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "symbol is required")
	}
	if !input.Rate.IsPositive() {
		return "", pkgerrors.New(pkgerrors.CodeValidation, "rate must be positive")
	}
	return code, nil
}
