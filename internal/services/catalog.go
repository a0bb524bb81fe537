package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"
	"github.com/pourpal/pourpal-backend/internal/cache"
	appErrors "github.com/pourpal/pourpal-backend/internal/errors"
	"github.com/pourpal/pourpal-backend/internal/models"
	repository "github.com/pourpal/pourpal-backend/internal/repositories"
)

type CatalogService interface {
	ListItems(ctx context.Context, filter *models.ItemFilter, page, pageSize int) ([]models.Item, int64, error)
	GetItem(ctx context.Context, itemID string) (*models.Item, error)
	CreateItem(ctx context.Context, req *models.CreateItemRequest) (*models.Item, error)
	UpdateItem(ctx context.Context, itemID string, req *models.UpdateItemRequest) (*models.Item, error)
	DeleteItem(ctx context.Context, itemID string) error
}

type catalogService struct {
	itemRepo    repository.ItemRepository
	typeRepo    repository.BeverageTypeRepository
	brandRepo   repository.BrandRepository
	countryRepo repository.CountryRepository
	counterRepo repository.CounterRepository
	cache       cache.Cache
	cacheTTL    time.Duration
	sanitizer   *bluemonday.Policy
}

func NewCatalogService(
	itemRepo repository.ItemRepository,
	typeRepo repository.BeverageTypeRepository,
	brandRepo repository.BrandRepository,
	countryRepo repository.CountryRepository,
	counterRepo repository.CounterRepository,
	c cache.Cache,
	cacheTTL time.Duration,
) CatalogService {
	return &catalogService{
		itemRepo:    itemRepo,
		typeRepo:    typeRepo,
		brandRepo:   brandRepo,
		countryRepo: countryRepo,
		counterRepo: counterRepo,
		cache:       c,
		cacheTTL:    cacheTTL,
		sanitizer:   bluemonday.StrictPolicy(),
	}
}

func (s *catalogService) ListItems(ctx context.Context, filter *models.ItemFilter, page, pageSize int) ([]models.Item, int64, error) {
	page, pageSize = clampPagination(page, pageSize)

	items, total, err := s.itemRepo.ListItems(ctx, filter, page, pageSize)
	if err != nil {
		return nil, 0, storageError(err, "Failed to fetch items")
	}

	return items, total, nil
}

func (s *catalogService) GetItem(ctx context.Context, itemID string) (*models.Item, error) {
	key := cache.Key(cache.ItemKeyPrefix, itemID)

	var cached models.Item

	found, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		slog.Warn("Item cache read failed", slog.String("itemId", itemID), slog.String("error", err.Error()))
	}

	if found {
		return &cached, nil
	}

	item, err := s.itemRepo.GetItemByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			return nil, appErrors.NotFoundError("Item not found").WithError(err)
		}

		return nil, storageError(err, "Failed to fetch item")
	}

	if err := s.cache.Set(ctx, key, item, s.cacheTTL); err != nil {
		slog.Warn("Item cache write failed", slog.String("itemId", itemID), slog.String("error", err.Error()))
	}

	return item, nil
}

// CreateItem adds a catalog entry. The referenced type, brand and country
// must exist; their names are denormalized onto the item. The SKU is derived
// from the beverage type and a per-type sequence.
func (s *catalogService) CreateItem(ctx context.Context, req *models.CreateItemRequest) (*models.Item, error) {
	beverageType, brand, country, err := s.resolveReferences(ctx, req.TypeID, req.BrandID, req.OriginCountryCode)
	if err != nil {
		return nil, err
	}

	sku, err := s.nextSKU(ctx, beverageType)
	if err != nil {
		return nil, err
	}

	now := time.Now()

	item := &models.Item{
		ID:                uuid.NewString(),
		SKU:               sku,
		Title:             s.sanitizer.Sanitize(req.Title),
		ImageURL:          req.ImageURL,
		Description:       s.sanitizer.Sanitize(req.Description),
		TypeID:            beverageType.ID,
		TypeName:          beverageType.Name,
		Price:             req.Price,
		Volume:            req.Volume,
		AlcoholVolume:     req.AlcoholVolume,
		Quantity:          req.Quantity,
		OriginCountryCode: country.Code,
		OriginCountryName: country.Name,
		BrandID:           brand.ID,
		BrandName:         brand.Name,
		AddedAt:           now,
		UpdatedAt:         now,
	}

	if err := s.itemRepo.CreateItem(ctx, item); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, appErrors.DuplicateEntryError("An item with this title already exists").WithError(err)
		}

		return nil, storageError(err, "Failed to create item")
	}

	return item, nil
}

// UpdateItem applies the non-nil fields of req. Changing the type, brand or
// country re-resolves the reference and refreshes the denormalized name; the
// SKU never changes after creation.
func (s *catalogService) UpdateItem(ctx context.Context, itemID string, req *models.UpdateItemRequest) (*models.Item, error) {
	item, err := s.itemRepo.GetItemByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			return nil, appErrors.NotFoundError("Item not found").WithError(err)
		}

		return nil, storageError(err, "Failed to fetch item")
	}

	if req.Title != nil {
		item.Title = s.sanitizer.Sanitize(*req.Title)
	}

	if req.ImageURL != nil {
		item.ImageURL = *req.ImageURL
	}

	if req.Description != nil {
		item.Description = s.sanitizer.Sanitize(*req.Description)
	}

	if req.TypeID != nil {
		beverageType, err := s.typeRepo.GetTypeByID(ctx, *req.TypeID)
		if err != nil {
			return nil, mapReferenceError(err, "Beverage type")
		}

		item.TypeID = beverageType.ID
		item.TypeName = beverageType.Name
	}

	if req.Price != nil {
		item.Price = *req.Price
	}

	if req.Volume != nil {
		item.Volume = *req.Volume
	}

	if req.AlcoholVolume != nil {
		item.AlcoholVolume = *req.AlcoholVolume
	}

	if req.Quantity != nil {
		item.Quantity = *req.Quantity
	}

	if req.OriginCountryCode != nil {
		country, err := s.countryRepo.GetCountryByCode(ctx, *req.OriginCountryCode)
		if err != nil {
			return nil, mapReferenceError(err, "Country")
		}

		item.OriginCountryCode = country.Code
		item.OriginCountryName = country.Name
	}

	if req.BrandID != nil {
		brand, err := s.brandRepo.GetBrandByID(ctx, *req.BrandID)
		if err != nil {
			return nil, mapReferenceError(err, "Brand")
		}

		item.BrandID = brand.ID
		item.BrandName = brand.Name
	}

	item.UpdatedAt = time.Now()

	if err := s.itemRepo.UpdateItem(ctx, item); err != nil {
		switch {
		case errors.Is(err, repository.ErrItemNotFound):
			return nil, appErrors.NotFoundError("Item not found").WithError(err)
		case errors.Is(err, repository.ErrDuplicateKey):
			return nil, appErrors.DuplicateEntryError("An item with this title already exists").WithError(err)
		default:
			return nil, storageError(err, "Failed to update item")
		}
	}

	s.invalidateItem(ctx, itemID)

	return item, nil
}

func (s *catalogService) DeleteItem(ctx context.Context, itemID string) error {
	if err := s.itemRepo.DeleteItem(ctx, itemID); err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			return appErrors.NotFoundError("Item not found").WithError(err)
		}

		return storageError(err, "Failed to delete item")
	}

	s.invalidateItem(ctx, itemID)

	return nil
}

func (s *catalogService) resolveReferences(ctx context.Context, typeID, brandID, countryCode string) (*models.BeverageType, *models.Brand, *models.Country, error) {
	beverageType, err := s.typeRepo.GetTypeByID(ctx, typeID)
	if err != nil {
		return nil, nil, nil, mapReferenceError(err, "Beverage type")
	}

	brand, err := s.brandRepo.GetBrandByID(ctx, brandID)
	if err != nil {
		return nil, nil, nil, mapReferenceError(err, "Brand")
	}

	country, err := s.countryRepo.GetCountryByCode(ctx, countryCode)
	if err != nil {
		return nil, nil, nil, mapReferenceError(err, "Country")
	}

	return beverageType, brand, country, nil
}

func (s *catalogService) nextSKU(ctx context.Context, beverageType *models.BeverageType) (string, error) {
	seq, err := s.counterRepo.NextSequence(ctx, repository.SKUCounterPrefix+":"+beverageType.ID)
	if err != nil {
		return "", storageError(err, "Failed to allocate SKU")
	}

	return fmt.Sprintf("%s-%06d", skuPrefix(beverageType.Name), seq), nil
}

func (s *catalogService) invalidateItem(ctx context.Context, itemID string) {
	if err := s.cache.Delete(ctx, cache.Key(cache.ItemKeyPrefix, itemID)); err != nil {
		slog.Warn("Failed to invalidate item cache", slog.String("itemId", itemID), slog.String("error", err.Error()))
	}
}

func mapReferenceError(err error, label string) error {
	switch {
	case errors.Is(err, repository.ErrTypeNotFound),
		errors.Is(err, repository.ErrBrandNotFound),
		errors.Is(err, repository.ErrCountryNotFound):
		return appErrors.NotFoundError(label + " not found").WithError(err)
	default:
		return storageError(err, "Failed to fetch "+strings.ToLower(label))
	}
}

// skuPrefix derives the two letter SKU prefix from a beverage type name: its
// first two consonants, falling back to the leading letters for names that
// are too short or all vowels.
func skuPrefix(name string) string {
	var consonants, letters []rune

	for _, r := range strings.ToUpper(name) {
		if r < 'A' || r > 'Z' {
			continue
		}

		letters = append(letters, r)

		switch r {
		case 'A', 'E', 'I', 'O', 'U':
		default:
			consonants = append(consonants, r)
		}
	}

	prefix := consonants
	if len(prefix) < 2 {
		prefix = letters
	}

	for len(prefix) < 2 {
		prefix = append(prefix, 'X')
	}

	return string(prefix[:2])
}
