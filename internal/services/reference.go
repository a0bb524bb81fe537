package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	appErrors "github.com/pourpal/pourpal-backend/internal/errors"
	"github.com/pourpal/pourpal-backend/internal/models"
	repository "github.com/pourpal/pourpal-backend/internal/repositories"
)

// ReferenceService manages the lookup collections behind the catalog.
// Uniqueness of names rides on the collection indexes, so a race between two
// creates surfaces as a duplicate instead of a second row.
type ReferenceService interface {
	ListBrands(ctx context.Context) ([]models.Brand, error)
	GetBrand(ctx context.Context, brandID string) (*models.Brand, error)
	CreateBrand(ctx context.Context, req *models.CreateBrandRequest) (*models.Brand, error)
	UpdateBrand(ctx context.Context, brandID string, req *models.UpdateBrandRequest) (*models.Brand, error)
	DeleteBrand(ctx context.Context, brandID string) error

	ListTypes(ctx context.Context) ([]models.BeverageType, error)
	GetType(ctx context.Context, typeID string) (*models.BeverageType, error)
	CreateType(ctx context.Context, req *models.CreateBeverageTypeRequest) (*models.BeverageType, error)
	UpdateType(ctx context.Context, typeID string, req *models.UpdateBeverageTypeRequest) (*models.BeverageType, error)
	DeleteType(ctx context.Context, typeID string) error

	ListCountries(ctx context.Context) ([]models.Country, error)
	GetCountry(ctx context.Context, code string) (*models.Country, error)
	CreateCountry(ctx context.Context, req *models.CreateCountryRequest) (*models.Country, error)
	UpdateCountry(ctx context.Context, code string, req *models.UpdateCountryRequest) (*models.Country, error)
	DeleteCountry(ctx context.Context, code string) error
}

type referenceService struct {
	brandRepo   repository.BrandRepository
	typeRepo    repository.BeverageTypeRepository
	countryRepo repository.CountryRepository
}

func NewReferenceService(brandRepo repository.BrandRepository, typeRepo repository.BeverageTypeRepository, countryRepo repository.CountryRepository) ReferenceService {
	return &referenceService{
		brandRepo:   brandRepo,
		typeRepo:    typeRepo,
		countryRepo: countryRepo,
	}
}

func (s *referenceService) ListBrands(ctx context.Context) ([]models.Brand, error) {
	brands, err := s.brandRepo.ListBrands(ctx)
	if err != nil {
		return nil, storageError(err, "Failed to fetch brands")
	}

	return brands, nil
}

func (s *referenceService) GetBrand(ctx context.Context, brandID string) (*models.Brand, error) {
	brand, err := s.brandRepo.GetBrandByID(ctx, brandID)
	if err != nil {
		if errors.Is(err, repository.ErrBrandNotFound) {
			return nil, appErrors.NotFoundError("Brand not found").WithError(err)
		}

		return nil, storageError(err, "Failed to fetch brand")
	}

	return brand, nil
}

func (s *referenceService) CreateBrand(ctx context.Context, req *models.CreateBrandRequest) (*models.Brand, error) {
	now := time.Now()

	brand := &models.Brand{
		ID:        uuid.NewString(),
		Name:      req.Name,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.brandRepo.CreateBrand(ctx, brand); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, appErrors.DuplicateEntryError("Brand name already exists").WithError(err)
		}

		return nil, storageError(err, "Failed to create brand")
	}

	return brand, nil
}

func (s *referenceService) UpdateBrand(ctx context.Context, brandID string, req *models.UpdateBrandRequest) (*models.Brand, error) {
	if err := s.brandRepo.UpdateBrand(ctx, brandID, req.Name); err != nil {
		switch {
		case errors.Is(err, repository.ErrBrandNotFound):
			return nil, appErrors.NotFoundError("Brand not found").WithError(err)
		case errors.Is(err, repository.ErrDuplicateKey):
			return nil, appErrors.DuplicateEntryError("Brand name already exists").WithError(err)
		default:
			return nil, storageError(err, "Failed to update brand")
		}
	}

	return s.GetBrand(ctx, brandID)
}

func (s *referenceService) DeleteBrand(ctx context.Context, brandID string) error {
	if err := s.brandRepo.DeleteBrand(ctx, brandID); err != nil {
		if errors.Is(err, repository.ErrBrandNotFound) {
			return appErrors.NotFoundError("Brand not found").WithError(err)
		}

		return storageError(err, "Failed to delete brand")
	}

	return nil
}

func (s *referenceService) ListTypes(ctx context.Context) ([]models.BeverageType, error) {
	types, err := s.typeRepo.ListTypes(ctx)
	if err != nil {
		return nil, storageError(err, "Failed to fetch beverage types")
	}

	return types, nil
}

func (s *referenceService) GetType(ctx context.Context, typeID string) (*models.BeverageType, error) {
	beverageType, err := s.typeRepo.GetTypeByID(ctx, typeID)
	if err != nil {
		if errors.Is(err, repository.ErrTypeNotFound) {
			return nil, appErrors.NotFoundError("Beverage type not found").WithError(err)
		}

		return nil, storageError(err, "Failed to fetch beverage type")
	}

	return beverageType, nil
}

func (s *referenceService) CreateType(ctx context.Context, req *models.CreateBeverageTypeRequest) (*models.BeverageType, error) {
	now := time.Now()

	beverageType := &models.BeverageType{
		ID:        uuid.NewString(),
		Name:      req.Name,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.typeRepo.CreateType(ctx, beverageType); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, appErrors.DuplicateEntryError("Beverage type name already exists").WithError(err)
		}

		return nil, storageError(err, "Failed to create beverage type")
	}

	return beverageType, nil
}

func (s *referenceService) UpdateType(ctx context.Context, typeID string, req *models.UpdateBeverageTypeRequest) (*models.BeverageType, error) {
	if err := s.typeRepo.UpdateType(ctx, typeID, req.Name); err != nil {
		switch {
		case errors.Is(err, repository.ErrTypeNotFound):
			return nil, appErrors.NotFoundError("Beverage type not found").WithError(err)
		case errors.Is(err, repository.ErrDuplicateKey):
			return nil, appErrors.DuplicateEntryError("Beverage type name already exists").WithError(err)
		default:
			return nil, storageError(err, "Failed to update beverage type")
		}
	}

	return s.GetType(ctx, typeID)
}

func (s *referenceService) DeleteType(ctx context.Context, typeID string) error {
	if err := s.typeRepo.DeleteType(ctx, typeID); err != nil {
		if errors.Is(err, repository.ErrTypeNotFound) {
			return appErrors.NotFoundError("Beverage type not found").WithError(err)
		}

		return storageError(err, "Failed to delete beverage type")
	}

	return nil
}

func (s *referenceService) ListCountries(ctx context.Context) ([]models.Country, error) {
	countries, err := s.countryRepo.ListCountries(ctx)
	if err != nil {
		return nil, storageError(err, "Failed to fetch countries")
	}

	return countries, nil
}

func (s *referenceService) GetCountry(ctx context.Context, code string) (*models.Country, error) {
	country, err := s.countryRepo.GetCountryByCode(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrCountryNotFound) {
			return nil, appErrors.NotFoundError("Country not found").WithError(err)
		}

		return nil, storageError(err, "Failed to fetch country")
	}

	return country, nil
}

func (s *referenceService) CreateCountry(ctx context.Context, req *models.CreateCountryRequest) (*models.Country, error) {
	now := time.Now()

	country := &models.Country{
		Code:      req.Code,
		Name:      req.Name,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.countryRepo.CreateCountry(ctx, country); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, appErrors.DuplicateEntryError("Country code or name already exists").WithError(err)
		}

		return nil, storageError(err, "Failed to create country")
	}

	return country, nil
}

func (s *referenceService) UpdateCountry(ctx context.Context, code string, req *models.UpdateCountryRequest) (*models.Country, error) {
	if err := s.countryRepo.UpdateCountry(ctx, code, req.Name); err != nil {
		switch {
		case errors.Is(err, repository.ErrCountryNotFound):
			return nil, appErrors.NotFoundError("Country not found").WithError(err)
		case errors.Is(err, repository.ErrDuplicateKey):
			return nil, appErrors.DuplicateEntryError("Country name already exists").WithError(err)
		default:
			return nil, storageError(err, "Failed to update country")
		}
	}

	return s.GetCountry(ctx, code)
}

func (s *referenceService) DeleteCountry(ctx context.Context, code string) error {
	if err := s.countryRepo.DeleteCountry(ctx, code); err != nil {
		if errors.Is(err, repository.ErrCountryNotFound) {
			return appErrors.NotFoundError("Country not found").WithError(err)
		}

		return storageError(err, "Failed to delete country")
	}

	return nil
}
