package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pourpal/pourpal-backend/internal/models"
	"github.com/pourpal/pourpal-backend/internal/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// The three reference collections behind the catalog share one shape: a
// stable id, a unique name and timestamps. Name collisions surface as
// ErrDuplicateKey from the unique index rather than a racy pre-check.

type BrandRepository interface {
	ListBrands(ctx context.Context) ([]models.Brand, error)
	GetBrandByID(ctx context.Context, brandID string) (*models.Brand, error)
	CreateBrand(ctx context.Context, brand *models.Brand) error
	UpdateBrand(ctx context.Context, brandID, name string) error
	DeleteBrand(ctx context.Context, brandID string) error
}

type brandRepository struct {
	collection *mongo.Collection
}

func NewBrandRepo(db *mongo.Database) BrandRepository {
	return &brandRepository{collection: db.Collection("beverage_brands")}
}

func (r *brandRepository) ListBrands(ctx context.Context) ([]models.Brand, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	cursor, err := r.collection.Find(dbCtx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list brands: %w", err)
	}

	brands := []models.Brand{}
	if err := cursor.All(dbCtx, &brands); err != nil {
		return nil, fmt.Errorf("failed to read brands: %w", err)
	}

	return brands, nil
}

func (r *brandRepository) GetBrandByID(ctx context.Context, brandID string) (*models.Brand, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	var brand models.Brand

	err := r.collection.FindOne(dbCtx, bson.M{"brand_id": brandID}).Decode(&brand)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrBrandNotFound
		}

		return nil, fmt.Errorf("failed to get brand: %w", err)
	}

	return &brand, nil
}

func (r *brandRepository) CreateBrand(ctx context.Context, brand *models.Brand) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	if _, err := r.collection.InsertOne(dbCtx, brand); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateKey
		}

		return fmt.Errorf("failed to insert brand: %w", err)
	}

	return nil
}

func (r *brandRepository) UpdateBrand(ctx context.Context, brandID, name string) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	result, err := r.collection.UpdateOne(dbCtx,
		bson.M{"brand_id": brandID},
		bson.M{"$set": bson.M{"name": name, "updated_at": time.Now()}},
	)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateKey
		}

		return fmt.Errorf("failed to update brand: %w", err)
	}

	if result.MatchedCount == 0 {
		return ErrBrandNotFound
	}

	return nil
}

func (r *brandRepository) DeleteBrand(ctx context.Context, brandID string) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	result, err := r.collection.DeleteOne(dbCtx, bson.M{"brand_id": brandID})
	if err != nil {
		return fmt.Errorf("failed to delete brand: %w", err)
	}

	if result.DeletedCount == 0 {
		return ErrBrandNotFound
	}

	return nil
}

type BeverageTypeRepository interface {
	ListTypes(ctx context.Context) ([]models.BeverageType, error)
	GetTypeByID(ctx context.Context, typeID string) (*models.BeverageType, error)
	CreateType(ctx context.Context, beverageType *models.BeverageType) error
	UpdateType(ctx context.Context, typeID, name string) error
	DeleteType(ctx context.Context, typeID string) error
}

type beverageTypeRepository struct {
	collection *mongo.Collection
}

func NewBeverageTypeRepo(db *mongo.Database) BeverageTypeRepository {
	return &beverageTypeRepository{collection: db.Collection("beverage_types")}
}

func (r *beverageTypeRepository) ListTypes(ctx context.Context) ([]models.BeverageType, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	cursor, err := r.collection.Find(dbCtx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list beverage types: %w", err)
	}

	types := []models.BeverageType{}
	if err := cursor.All(dbCtx, &types); err != nil {
		return nil, fmt.Errorf("failed to read beverage types: %w", err)
	}

	return types, nil
}

func (r *beverageTypeRepository) GetTypeByID(ctx context.Context, typeID string) (*models.BeverageType, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	var beverageType models.BeverageType

	err := r.collection.FindOne(dbCtx, bson.M{"type_id": typeID}).Decode(&beverageType)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrTypeNotFound
		}

		return nil, fmt.Errorf("failed to get beverage type: %w", err)
	}

	return &beverageType, nil
}

func (r *beverageTypeRepository) CreateType(ctx context.Context, beverageType *models.BeverageType) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	if _, err := r.collection.InsertOne(dbCtx, beverageType); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateKey
		}

		return fmt.Errorf("failed to insert beverage type: %w", err)
	}

	return nil
}

func (r *beverageTypeRepository) UpdateType(ctx context.Context, typeID, name string) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	result, err := r.collection.UpdateOne(dbCtx,
		bson.M{"type_id": typeID},
		bson.M{"$set": bson.M{"name": name, "updated_at": time.Now()}},
	)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateKey
		}

		return fmt.Errorf("failed to update beverage type: %w", err)
	}

	if result.MatchedCount == 0 {
		return ErrTypeNotFound
	}

	return nil
}

func (r *beverageTypeRepository) DeleteType(ctx context.Context, typeID string) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	result, err := r.collection.DeleteOne(dbCtx, bson.M{"type_id": typeID})
	if err != nil {
		return fmt.Errorf("failed to delete beverage type: %w", err)
	}

	if result.DeletedCount == 0 {
		return ErrTypeNotFound
	}

	return nil
}

type CountryRepository interface {
	ListCountries(ctx context.Context) ([]models.Country, error)
	GetCountryByCode(ctx context.Context, code string) (*models.Country, error)
	CreateCountry(ctx context.Context, country *models.Country) error
	UpdateCountry(ctx context.Context, code, name string) error
	DeleteCountry(ctx context.Context, code string) error
}

type countryRepository struct {
	collection *mongo.Collection
}

func NewCountryRepo(db *mongo.Database) CountryRepository {
	return &countryRepository{collection: db.Collection("countries")}
}

func (r *countryRepository) ListCountries(ctx context.Context) ([]models.Country, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	cursor, err := r.collection.Find(dbCtx, bson.M{},
		options.Find().SetSort(bson.D{{Key: "name", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list countries: %w", err)
	}

	countries := []models.Country{}
	if err := cursor.All(dbCtx, &countries); err != nil {
		return nil, fmt.Errorf("failed to read countries: %w", err)
	}

	return countries, nil
}

func (r *countryRepository) GetCountryByCode(ctx context.Context, code string) (*models.Country, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	var country models.Country

	err := r.collection.FindOne(dbCtx, bson.M{"code": code}).Decode(&country)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrCountryNotFound
		}

		return nil, fmt.Errorf("failed to get country: %w", err)
	}

	return &country, nil
}

func (r *countryRepository) CreateCountry(ctx context.Context, country *models.Country) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	if _, err := r.collection.InsertOne(dbCtx, country); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateKey
		}

		return fmt.Errorf("failed to insert country: %w", err)
	}

	return nil
}

func (r *countryRepository) UpdateCountry(ctx context.Context, code, name string) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	result, err := r.collection.UpdateOne(dbCtx,
		bson.M{"code": code},
		bson.M{"$set": bson.M{"name": name, "updated_at": time.Now()}},
	)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicateKey
		}

		return fmt.Errorf("failed to update country: %w", err)
	}

	if result.MatchedCount == 0 {
		return ErrCountryNotFound
	}

	return nil
}

func (r *countryRepository) DeleteCountry(ctx context.Context, code string) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	result, err := r.collection.DeleteOne(dbCtx, bson.M{"code": code})
	if err != nil {
		return fmt.Errorf("failed to delete country: %w", err)
	}

	if result.DeletedCount == 0 {
		return ErrCountryNotFound
	}

	return nil
}
