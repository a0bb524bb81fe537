package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/pourpal/pourpal-backend/internal/api/middleware"
	"github.com/pourpal/pourpal-backend/internal/errors"
	"github.com/pourpal/pourpal-backend/internal/models"
	service "github.com/pourpal/pourpal-backend/internal/services"
	"github.com/pourpal/pourpal-backend/internal/utils"
	"github.com/pourpal/pourpal-backend/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

type CatalogHandler struct {
	catalogService service.CatalogService
	validator      *validator.Validate
}

func NewCatalogHandler(catalogService service.CatalogService) *CatalogHandler {
	return &CatalogHandler{catalogService: catalogService, validator: validator.New()}
}

// ListItems godoc
//	@Summary		List catalog items
//	@Description	Retrieves a paginated catalog listing. Supports text search, filtering by type, brand, country of origin and price range, and sorting by a whitelisted field.
//	@Tags			Catalog
//	@Produce		json
//	@Param			search			query		string											false	"Case-insensitive match against title and description"
//	@Param			type_id			query		[]string										false	"Beverage type IDs to include"	collectionFormat(multi)
//	@Param			brand_id		query		[]string										false	"Brand IDs to include"			collectionFormat(multi)
//	@Param			country_code	query		[]string										false	"Origin country codes to include"	collectionFormat(multi)
//	@Param			min_price		query		string											false	"Lower price bound, inclusive"
//	@Param			max_price		query		string											false	"Upper price bound, inclusive"
//	@Param			sort_by			query		string											false	"Sort field (title, price, added_at, quantity)"
//	@Param			sort_desc		query		bool											false	"Sort descending"
//	@Param			page			query		int												false	"Page number for pagination (default: 1)"			minimum(1)
//	@Param			pageSize		query		int												false	"Number of items per page (default: 10, max: 100)"	minimum(1)	maximum(100)
//	@Success		200				{object}	models.PaginatedResponse{Data=[]models.Item}	"Successfully retrieved catalog page"
//	@Failure		400				{object}	response.ErrorResponse							"Malformed price bound"
//	@Failure		500				{object}	response.ErrorResponse							"Internal server error"
//	@Router			/items [get]
func (h *CatalogHandler) ListItems() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		filter, err := parseItemFilter(r)
		if err != nil {
			logger.Warn("Invalid catalog filter", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		page, pageSize := utils.ParsePagination(r)

		items, total, err := h.catalogService.ListItems(r.Context(), filter, page, pageSize)
		if err != nil {
			logger.Error("Failed to list items", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Items listed successfully", slog.Int("count", len(items)), slog.Int64("total", total))
		response.Success(w, http.StatusOK, models.NewPaginatedResponse(items, len(items), int(total), page, pageSize))
	}
}

// GetItem godoc
//	@Summary		Get a catalog item
//	@Description	Retrieves a single catalog item by its ID.
//	@Tags			Catalog
//	@Produce		json
//	@Param			id	path		string					true	"Item ID (UUID)"	Format(uuid)
//	@Success		200	{object}	models.Item				"Successfully retrieved item"
//	@Failure		400	{object}	response.ErrorResponse	"Invalid item ID format"
//	@Failure		404	{object}	response.ErrorResponse	"Item not found"
//	@Failure		500	{object}	response.ErrorResponse	"Internal server error"
//	@Router			/items/{id} [get]
func (h *CatalogHandler) GetItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		itemID, err := utils.ParseID(r, "id")
		if err != nil {
			logger.Warn("Invalid item id", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		item, err := h.catalogService.GetItem(r.Context(), itemID)
		if err != nil {
			logger.Error("Failed to get item", slog.Any("error", err), slog.String("itemId", itemID))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, item)
	}
}

// CreateItem godoc
//	@Summary		Add a catalog item (Admin)
//	@Description	Creates a new catalog item. The SKU is generated from the beverage type and the referenced type, brand and country must exist. Requires administrator rights.
//	@Tags			Catalog
//	@Accept			json
//	@Produce		json
//	@Param			item	body		models.CreateItemRequest	true	"Item details"
//	@Success		201		{object}	models.Item					"Successfully created item"
//	@Failure		400		{object}	response.ErrorResponse		"Invalid request payload"
//	@Failure		401		{object}	response.ErrorResponse		"Authentication required"
//	@Failure		403		{object}	response.ErrorResponse		"Administrator rights required"
//	@Failure		404		{object}	response.ErrorResponse		"Referenced type, brand or country does not exist"
//	@Failure		409		{object}	response.ErrorResponse		"Item title already exists"
//	@Failure		500		{object}	response.ErrorResponse		"Internal server error"
//	@Security		BearerAuth
//	@Router			/items [post]
func (h *CatalogHandler) CreateItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		var req models.CreateItemRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid item creation input")
			return
		}

		item, err := h.catalogService.CreateItem(r.Context(), &req)
		if err != nil {
			logger.Error("Failed to create item", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Item created successfully",
			slog.String("itemId", item.ID),
			slog.String("sku", item.SKU))
		response.Success(w, http.StatusCreated, item)
	}
}

// UpdateItem godoc
//	@Summary		Update a catalog item (Admin)
//	@Description	Applies a partial update to a catalog item. Only the provided fields change; the SKU never changes. Requires administrator rights.
//	@Tags			Catalog
//	@Accept			json
//	@Produce		json
//	@Param			id		path		string						true	"Item ID (UUID)"	Format(uuid)
//	@Param			item	body		models.UpdateItemRequest	true	"Fields to update"
//	@Success		200		{object}	models.Item					"Successfully updated item"
//	@Failure		400		{object}	response.ErrorResponse		"Invalid item ID format or request payload"
//	@Failure		401		{object}	response.ErrorResponse		"Authentication required"
//	@Failure		403		{object}	response.ErrorResponse		"Administrator rights required"
//	@Failure		404		{object}	response.ErrorResponse		"Item or referenced entity not found"
//	@Failure		409		{object}	response.ErrorResponse		"Item title already exists"
//	@Failure		500		{object}	response.ErrorResponse		"Internal server error"
//	@Security		BearerAuth
//	@Router			/items/{id} [put]
func (h *CatalogHandler) UpdateItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		itemID, err := utils.ParseID(r, "id")
		if err != nil {
			logger.Warn("Invalid item id", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger = logger.With(slog.String("itemId", itemID))

		var req models.UpdateItemRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid item update input")
			return
		}

		item, err := h.catalogService.UpdateItem(r.Context(), itemID, &req)
		if err != nil {
			logger.Error("Failed to update item", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Item updated successfully")
		response.Success(w, http.StatusOK, item)
	}
}

// DeleteItem godoc
//	@Summary		Delete a catalog item (Admin)
//	@Description	Removes an item from the catalog. Existing order lines keep their frozen copy of the item data. Requires administrator rights.
//	@Tags			Catalog
//	@Produce		json
//	@Param			id	path		string					true	"Item ID (UUID)"	Format(uuid)
//	@Success		204	"Item deleted"
//	@Failure		400	{object}	response.ErrorResponse	"Invalid item ID format"
//	@Failure		401	{object}	response.ErrorResponse	"Authentication required"
//	@Failure		403	{object}	response.ErrorResponse	"Administrator rights required"
//	@Failure		404	{object}	response.ErrorResponse	"Item not found"
//	@Failure		500	{object}	response.ErrorResponse	"Internal server error"
//	@Security		BearerAuth
//	@Router			/items/{id} [delete]
func (h *CatalogHandler) DeleteItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		itemID, err := utils.ParseID(r, "id")
		if err != nil {
			logger.Warn("Invalid item id", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		if err := h.catalogService.DeleteItem(r.Context(), itemID); err != nil {
			logger.Error("Failed to delete item", slog.Any("error", err), slog.String("itemId", itemID))
			response.Error(w, err)
			return
		}

		logger.Info("Item deleted successfully", slog.String("itemId", itemID))
		w.WriteHeader(http.StatusNoContent)
	}
}

// parseItemFilter reads the catalog listing filters off the query string.
// Multi-value filters accept repeated parameters.
func parseItemFilter(r *http.Request) (*models.ItemFilter, error) {
	q := r.URL.Query()

	filter := &models.ItemFilter{
		Search:       q.Get("search"),
		TypeIDs:      q["type_id"],
		CountryCodes: q["country_code"],
		BrandIDs:     q["brand_id"],
		SortBy:       q.Get("sort_by"),
	}

	if raw := q.Get("sort_desc"); raw != "" {
		desc, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, errors.BadRequestError("Invalid sort_desc value")
		}

		filter.SortDesc = desc
	}

	if raw := q.Get("min_price"); raw != "" {
		d, err := models.DecimalFromString(raw)
		if err != nil {
			return nil, errors.BadRequestError("Invalid min_price value")
		}

		filter.MinPrice = &d
	}

	if raw := q.Get("max_price"); raw != "" {
		d, err := models.DecimalFromString(raw)
		if err != nil {
			return nil, errors.BadRequestError("Invalid max_price value")
		}

		filter.MaxPrice = &d
	}

	return filter, nil
}
