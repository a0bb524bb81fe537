package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/pourpal/pourpal-backend/internal/api/middleware"
	"github.com/pourpal/pourpal-backend/internal/errors"
	"github.com/pourpal/pourpal-backend/internal/models"
	service "github.com/pourpal/pourpal-backend/internal/services"
	"github.com/pourpal/pourpal-backend/internal/utils"
	"github.com/pourpal/pourpal-backend/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

// ReferenceHandler serves the lookup collections behind the catalog: brands,
// beverage types and origin countries. Reads are public, writes are gated to
// administrators by the router.
type ReferenceHandler struct {
	referenceService service.ReferenceService
	validator        *validator.Validate
}

func NewReferenceHandler(referenceService service.ReferenceService) *ReferenceHandler {
	return &ReferenceHandler{referenceService: referenceService, validator: validator.New()}
}

// ListBrands godoc
//	@Summary		List brands
//	@Description	Retrieves every brand, sorted by name.
//	@Tags			Reference
//	@Produce		json
//	@Success		200	{array}		models.Brand			"Successfully retrieved brands"
//	@Failure		500	{object}	response.ErrorResponse	"Internal server error"
//	@Router			/brands [get]
func (h *ReferenceHandler) ListBrands() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		brands, err := h.referenceService.ListBrands(r.Context())
		if err != nil {
			logger.Error("Failed to list brands", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, brands)
	}
}

// GetBrand godoc
//	@Summary		Get a brand
//	@Tags			Reference
//	@Produce		json
//	@Param			id	path		string					true	"Brand ID (UUID)"	Format(uuid)
//	@Success		200	{object}	models.Brand			"Successfully retrieved brand"
//	@Failure		400	{object}	response.ErrorResponse	"Invalid brand ID format"
//	@Failure		404	{object}	response.ErrorResponse	"Brand not found"
//	@Failure		500	{object}	response.ErrorResponse	"Internal server error"
//	@Router			/brands/{id} [get]
func (h *ReferenceHandler) GetBrand() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		brandID, err := utils.ParseID(r, "id")
		if err != nil {
			logger.Warn("Invalid brand id", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		brand, err := h.referenceService.GetBrand(r.Context(), brandID)
		if err != nil {
			logger.Error("Failed to get brand", slog.Any("error", err), slog.String("brandId", brandID))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, brand)
	}
}

// CreateBrand godoc
//	@Summary		Create a brand (Admin)
//	@Tags			Reference
//	@Accept			json
//	@Produce		json
//	@Param			brand	body		models.CreateBrandRequest	true	"Brand details"
//	@Success		201		{object}	models.Brand				"Successfully created brand"
//	@Failure		400		{object}	response.ErrorResponse		"Invalid request payload"
//	@Failure		401		{object}	response.ErrorResponse		"Authentication required"
//	@Failure		403		{object}	response.ErrorResponse		"Administrator rights required"
//	@Failure		409		{object}	response.ErrorResponse		"Brand name already exists"
//	@Failure		500		{object}	response.ErrorResponse		"Internal server error"
//	@Security		BearerAuth
//	@Router			/brands [post]
func (h *ReferenceHandler) CreateBrand() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		var req models.CreateBrandRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid brand creation input")
			return
		}

		brand, err := h.referenceService.CreateBrand(r.Context(), &req)
		if err != nil {
			logger.Error("Failed to create brand", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Brand created successfully", slog.String("brandId", brand.ID))
		response.Success(w, http.StatusCreated, brand)
	}
}

// UpdateBrand godoc
//	@Summary		Rename a brand (Admin)
//	@Tags			Reference
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string						true	"Brand ID (UUID)"	Format(uuid)
//	@Param			brand	body		models.UpdateBrandRequest	true	"New brand name"
//	@Success		200		{object}	models.Brand				"Successfully updated brand"
//	@Failure		400		{object}	response.ErrorResponse		"Invalid brand ID format or request payload"
//	@Failure		401		{object}	response.ErrorResponse		"Authentication required"
//	@Failure		403		{object}	response.ErrorResponse		"Administrator rights required"
//	@Failure		404		{object}	response.ErrorResponse		"Brand not found"
//	@Failure		409		{object}	response.ErrorResponse		"Brand name already exists"
//	@Failure		500		{object}	response.ErrorResponse		"Internal server error"
//	@Security		BearerAuth
//	@Router			/brands/{id} [put]
func (h *ReferenceHandler) UpdateBrand() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		brandID, err := utils.ParseID(r, "id")
		if err != nil {
			logger.Warn("Invalid brand id", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		var req models.UpdateBrandRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid brand update input")
			return
		}

		brand, err := h.referenceService.UpdateBrand(r.Context(), brandID, &req)
		if err != nil {
			logger.Error("Failed to update brand", slog.Any("error", err), slog.String("brandId", brandID))
			response.Error(w, err)
			return
		}

		logger.Info("Brand updated successfully", slog.String("brandId", brand.ID))
		response.Success(w, http.StatusOK, brand)
	}
}

// DeleteBrand godoc
//	@Summary		Delete a brand (Admin)
//	@Tags			Reference
//	@Produce		json
//	@Param			id	path	string	true	"Brand ID (UUID)"	Format(uuid)
//	@Success		204	"Brand deleted"
//	@Failure		400	{object}	response.ErrorResponse	"Invalid brand ID format"
//	@Failure		401	{object}	response.ErrorResponse	"Authentication required"
//	@Failure		403	{object}	response.ErrorResponse	"Administrator rights required"
//	@Failure		404	{object}	response.ErrorResponse	"Brand not found"
//	@Failure		500	{object}	response.ErrorResponse	"Internal server error"
//	@Security		BearerAuth
//	@Router			/brands/{id} [delete]
func (h *ReferenceHandler) DeleteBrand() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		brandID, err := utils.ParseID(r, "id")
		if err != nil {
			logger.Warn("Invalid brand id", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		if err := h.referenceService.DeleteBrand(r.Context(), brandID); err != nil {
			logger.Error("Failed to delete brand", slog.Any("error", err), slog.String("brandId", brandID))
			response.Error(w, err)
			return
		}

		logger.Info("Brand deleted successfully", slog.String("brandId", brandID))
		w.WriteHeader(http.StatusNoContent)
	}
}

// ListTypes godoc
//	@Summary		List beverage types
//	@Description	Retrieves every beverage type, sorted by name.
//	@Tags			Reference
//	@Produce		json
//	@Success		200	{array}		models.BeverageType		"Successfully retrieved beverage types"
//	@Failure		500	{object}	response.ErrorResponse	"Internal server error"
//	@Router			/types [get]
func (h *ReferenceHandler) ListTypes() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		types, err := h.referenceService.ListTypes(r.Context())
		if err != nil {
			logger.Error("Failed to list beverage types", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, types)
	}
}

// GetType godoc
//	@Summary		Get a beverage type
//	@Tags			Reference
//	@Produce		json
//	@Param			id	path		string					true	"Beverage type ID (UUID)"	Format(uuid)
//	@Success		200	{object}	models.BeverageType		"Successfully retrieved beverage type"
//	@Failure		400	{object}	response.ErrorResponse	"Invalid type ID format"
//	@Failure		404	{object}	response.ErrorResponse	"Beverage type not found"
//	@Failure		500	{object}	response.ErrorResponse	"Internal server error"
//	@Router			/types/{id} [get]
func (h *ReferenceHandler) GetType() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		typeID, err := utils.ParseID(r, "id")
		if err != nil {
			logger.Warn("Invalid beverage type id", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		beverageType, err := h.referenceService.GetType(r.Context(), typeID)
		if err != nil {
			logger.Error("Failed to get beverage type", slog.Any("error", err), slog.String("typeId", typeID))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, beverageType)
	}
}

// CreateType godoc
//	@Summary		Create a beverage type (Admin)
//	@Tags			Reference
//	@Accept			json
//	@Produce		json
//	@Param			type	body		models.CreateBeverageTypeRequest	true	"Beverage type details"
//	@Success		201		{object}	models.BeverageType					"Successfully created beverage type"
//	@Failure		400		{object}	response.ErrorResponse				"Invalid request payload"
//	@Failure		401		{object}	response.ErrorResponse				"Authentication required"
//	@Failure		403		{object}	response.ErrorResponse				"Administrator rights required"
//	@Failure		409		{object}	response.ErrorResponse				"Beverage type name already exists"
//	@Failure		500		{object}	response.ErrorResponse				"Internal server error"
//	@Security		BearerAuth
//	@Router			/types [post]
func (h *ReferenceHandler) CreateType() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		var req models.CreateBeverageTypeRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid beverage type creation input")
			return
		}

		beverageType, err := h.referenceService.CreateType(r.Context(), &req)
		if err != nil {
			logger.Error("Failed to create beverage type", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Beverage type created successfully", slog.String("typeId", beverageType.ID))
		response.Success(w, http.StatusCreated, beverageType)
	}
}

// UpdateType godoc
//	@Summary		Rename a beverage type (Admin)
//	@Description	Renames a beverage type. Existing items keep their denormalized type name until they are next updated, and SKUs never change.
//	@Tags			Reference
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string								true	"Beverage type ID (UUID)"	Format(uuid)
//	@Param			type	body		models.UpdateBeverageTypeRequest	true	"New type name"
//	@Success		200		{object}	models.BeverageType					"Successfully updated beverage type"
//	@Failure		400		{object}	response.ErrorResponse				"Invalid type ID format or request payload"
//	@Failure		401		{object}	response.ErrorResponse				"Authentication required"
//	@Failure		403		{object}	response.ErrorResponse				"Administrator rights required"
//	@Failure		404		{object}	response.ErrorResponse				"Beverage type not found"
//	@Failure		409		{object}	response.ErrorResponse				"Beverage type name already exists"
//	@Failure		500		{object}	response.ErrorResponse				"Internal server error"
//	@Security		BearerAuth
//	@Router			/types/{id} [put]
func (h *ReferenceHandler) UpdateType() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		typeID, err := utils.ParseID(r, "id")
		if err != nil {
			logger.Warn("Invalid beverage type id", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		var req models.UpdateBeverageTypeRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid beverage type update input")
			return
		}

		beverageType, err := h.referenceService.UpdateType(r.Context(), typeID, &req)
		if err != nil {
			logger.Error("Failed to update beverage type", slog.Any("error", err), slog.String("typeId", typeID))
			response.Error(w, err)
			return
		}

		logger.Info("Beverage type updated successfully", slog.String("typeId", beverageType.ID))
		response.Success(w, http.StatusOK, beverageType)
	}
}

// DeleteType godoc
//	@Summary		Delete a beverage type (Admin)
//	@Tags			Reference
//	@Produce		json
//	@Param			id	path	string	true	"Beverage type ID (UUID)"	Format(uuid)
//	@Success		204	"Beverage type deleted"
//	@Failure		400	{object}	response.ErrorResponse	"Invalid type ID format"
//	@Failure		401	{object}	response.ErrorResponse	"Authentication required"
//	@Failure		403	{object}	response.ErrorResponse	"Administrator rights required"
//	@Failure		404	{object}	response.ErrorResponse	"Beverage type not found"
//	@Failure		500	{object}	response.ErrorResponse	"Internal server error"
//	@Security		BearerAuth
//	@Router			/types/{id} [delete]
func (h *ReferenceHandler) DeleteType() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		typeID, err := utils.ParseID(r, "id")
		if err != nil {
			logger.Warn("Invalid beverage type id", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		if err := h.referenceService.DeleteType(r.Context(), typeID); err != nil {
			logger.Error("Failed to delete beverage type", slog.Any("error", err), slog.String("typeId", typeID))
			response.Error(w, err)
			return
		}

		logger.Info("Beverage type deleted successfully", slog.String("typeId", typeID))
		w.WriteHeader(http.StatusNoContent)
	}
}

// ListCountries godoc
//	@Summary		List countries
//	@Description	Retrieves every origin country, sorted by name.
//	@Tags			Reference
//	@Produce		json
//	@Success		200	{array}		models.Country			"Successfully retrieved countries"
//	@Failure		500	{object}	response.ErrorResponse	"Internal server error"
//	@Router			/countries [get]
func (h *ReferenceHandler) ListCountries() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		countries, err := h.referenceService.ListCountries(r.Context())
		if err != nil {
			logger.Error("Failed to list countries", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, countries)
	}
}

// GetCountry godoc
//	@Summary		Get a country
//	@Tags			Reference
//	@Produce		json
//	@Param			code	path		string					true	"ISO 3166-1 alpha-2 country code"
//	@Success		200		{object}	models.Country			"Successfully retrieved country"
//	@Failure		400		{object}	response.ErrorResponse	"Invalid country code"
//	@Failure		404		{object}	response.ErrorResponse	"Country not found"
//	@Failure		500		{object}	response.ErrorResponse	"Internal server error"
//	@Router			/countries/{code} [get]
func (h *ReferenceHandler) GetCountry() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		code, err := parseCountryCode(r)
		if err != nil {
			logger.Warn("Invalid country code", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		country, err := h.referenceService.GetCountry(r.Context(), code)
		if err != nil {
			logger.Error("Failed to get country", slog.Any("error", err), slog.String("code", code))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, country)
	}
}

// CreateCountry godoc
//	@Summary		Create a country (Admin)
//	@Tags			Reference
//	@Accept			json
//	@Produce		json
//	@Param			country	body		models.CreateCountryRequest	true	"Country details"
//	@Success		201		{object}	models.Country				"Successfully created country"
//	@Failure		400		{object}	response.ErrorResponse		"Invalid request payload"
//	@Failure		401		{object}	response.ErrorResponse		"Authentication required"
//	@Failure		403		{object}	response.ErrorResponse		"Administrator rights required"
//	@Failure		409		{object}	response.ErrorResponse		"Country code already exists"
//	@Failure		500		{object}	response.ErrorResponse		"Internal server error"
//	@Security		BearerAuth
//	@Router			/countries [post]
func (h *ReferenceHandler) CreateCountry() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		var req models.CreateCountryRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid country creation input")
			return
		}

		country, err := h.referenceService.CreateCountry(r.Context(), &req)
		if err != nil {
			logger.Error("Failed to create country", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Country created successfully", slog.String("code", country.Code))
		response.Success(w, http.StatusCreated, country)
	}
}

// UpdateCountry godoc
//	@Summary		Rename a country (Admin)
//	@Tags			Reference
//	@Accept			json
//	@Produce		json
//	@Param			code	path		string						true	"ISO 3166-1 alpha-2 country code"
//	@Param			country	body		models.UpdateCountryRequest	true	"New country name"
//	@Success		200		{object}	models.Country				"Successfully updated country"
//	@Failure		400		{object}	response.ErrorResponse		"Invalid country code or request payload"
//	@Failure		401		{object}	response.ErrorResponse		"Authentication required"
//	@Failure		403		{object}	response.ErrorResponse		"Administrator rights required"
//	@Failure		404		{object}	response.ErrorResponse		"Country not found"
//	@Failure		500		{object}	response.ErrorResponse		"Internal server error"
//	@Security		BearerAuth
//	@Router			/countries/{code} [put]
func (h *ReferenceHandler) UpdateCountry() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		code, err := parseCountryCode(r)
		if err != nil {
			logger.Warn("Invalid country code", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		var req models.UpdateCountryRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid country update input")
			return
		}

		country, err := h.referenceService.UpdateCountry(r.Context(), code, &req)
		if err != nil {
			logger.Error("Failed to update country", slog.Any("error", err), slog.String("code", code))
			response.Error(w, err)
			return
		}

		logger.Info("Country updated successfully", slog.String("code", country.Code))
		response.Success(w, http.StatusOK, country)
	}
}

// DeleteCountry godoc
//	@Summary		Delete a country (Admin)
//	@Tags			Reference
//	@Produce		json
//	@Param			code	path	string	true	"ISO 3166-1 alpha-2 country code"
//	@Success		204		"Country deleted"
//	@Failure		400		{object}	response.ErrorResponse	"Invalid country code"
//	@Failure		401		{object}	response.ErrorResponse	"Authentication required"
//	@Failure		403		{object}	response.ErrorResponse	"Administrator rights required"
//	@Failure		404		{object}	response.ErrorResponse	"Country not found"
//	@Failure		500		{object}	response.ErrorResponse	"Internal server error"
//	@Security		BearerAuth
//	@Router			/countries/{code} [delete]
func (h *ReferenceHandler) DeleteCountry() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		code, err := parseCountryCode(r)
		if err != nil {
			logger.Warn("Invalid country code", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		if err := h.referenceService.DeleteCountry(r.Context(), code); err != nil {
			logger.Error("Failed to delete country", slog.Any("error", err), slog.String("code", code))
			response.Error(w, err)
			return
		}

		logger.Info("Country deleted successfully", slog.String("code", code))
		w.WriteHeader(http.StatusNoContent)
	}
}

// parseCountryCode reads the two-letter code path parameter. Codes are stored
// uppercase, so lookups accept either case.
func parseCountryCode(r *http.Request) (string, error) {
	code := strings.ToUpper(r.PathValue("code"))

	if len(code) != 2 {
		return "", errors.BadRequestError("Invalid country code")
	}

	for _, c := range code {
		if c < 'A' || c > 'Z' {
			return "", errors.BadRequestError("Invalid country code")
		}
	}

	return code, nil
}
