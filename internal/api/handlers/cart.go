package handlers

import (
	"log/slog"
	"net/http"

	"github.com/pourpal/pourpal-backend/internal/api/middleware"
	"github.com/pourpal/pourpal-backend/internal/errors"
	"github.com/pourpal/pourpal-backend/internal/models"
	service "github.com/pourpal/pourpal-backend/internal/services"
	"github.com/pourpal/pourpal-backend/internal/utils"
	"github.com/pourpal/pourpal-backend/internal/utils/response"
	"github.com/go-playground/validator/v10"
)

type CartHandler struct {
	cartService service.CartService
	validator   *validator.Validate
}

func NewCartHandler(cartService service.CartService) *CartHandler {
	return &CartHandler{cartService: cartService, validator: validator.New()}
}

// GetCart godoc
//	@Summary		Get the current user's cart
//	@Description	Returns the authenticated user's cart with derived line and cart totals. Users without a stored cart get an empty one.
//	@Tags			Carts
//	@Produce		json
//	@Success		200	{object}	models.Cart				"Current cart"
//	@Failure		401	{object}	response.ErrorResponse	"Authentication required"
//	@Failure		500	{object}	response.ErrorResponse	"Internal server error"
//	@Security		BearerAuth
//	@Router			/carts [get]
func (h *CartHandler) GetCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := r.Context().Value(middleware.UserContextKey).(*models.Claims)
		if !ok {
			logger.Warn("Unauthorized cart access attempt")
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		cart, err := h.cartService.GetCart(r.Context(), claims.UserID)
		if err != nil {
			logger.Error("Failed to get cart", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		response.Success(w, http.StatusOK, cart)
	}
}

// IncrementItem godoc
//	@Summary		Add one unit of an item to the cart
//	@Description	Adds one unit of the given catalog item to the authenticated user's cart, creating the line at the item's current price when missing.
//	@Tags			Carts
//	@Produce		json
//	@Param			item_id	path		string					true	"Item ID (UUID)"	Format(uuid)
//	@Success		200		{object}	models.Cart				"Updated cart"
//	@Failure		400		{object}	response.ErrorResponse	"Invalid item ID format"
//	@Failure		401		{object}	response.ErrorResponse	"Authentication required"
//	@Failure		404		{object}	response.ErrorResponse	"Item not found"
//	@Failure		409		{object}	response.ErrorResponse	"Concurrent cart modification"
//	@Failure		500		{object}	response.ErrorResponse	"Internal server error"
//	@Security		BearerAuth
//	@Router			/carts/items/{item_id}/increment [post]
func (h *CartHandler) IncrementItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := r.Context().Value(middleware.UserContextKey).(*models.Claims)
		if !ok {
			logger.Warn("Unauthorized cart mutation attempt")
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		itemID, err := utils.ParseID(r, "item_id")
		if err != nil {
			logger.Warn("Invalid item id", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger = logger.With(slog.String("itemId", itemID))

		cart, err := h.cartService.IncrementItem(r.Context(), claims.UserID, itemID)
		if err != nil {
			logger.Error("Failed to add item to cart", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Item added to cart")
		response.Success(w, http.StatusOK, cart)
	}
}

// DecrementItem godoc
//	@Summary		Remove one unit of an item from the cart
//	@Description	Removes one unit of the given item from the authenticated user's cart. The line disappears when its quantity reaches zero.
//	@Tags			Carts
//	@Produce		json
//	@Param			item_id	path		string					true	"Item ID (UUID)"	Format(uuid)
//	@Success		200		{object}	models.Cart				"Updated cart"
//	@Failure		400		{object}	response.ErrorResponse	"Invalid item ID format"
//	@Failure		401		{object}	response.ErrorResponse	"Authentication required"
//	@Failure		404		{object}	response.ErrorResponse	"Item not in cart"
//	@Failure		409		{object}	response.ErrorResponse	"Concurrent cart modification"
//	@Failure		500		{object}	response.ErrorResponse	"Internal server error"
//	@Security		BearerAuth
//	@Router			/carts/items/{item_id}/decrement [post]
func (h *CartHandler) DecrementItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := r.Context().Value(middleware.UserContextKey).(*models.Claims)
		if !ok {
			logger.Warn("Unauthorized cart mutation attempt")
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		itemID, err := utils.ParseID(r, "item_id")
		if err != nil {
			logger.Warn("Invalid item id", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger = logger.With(slog.String("itemId", itemID))

		cart, err := h.cartService.DecrementItem(r.Context(), claims.UserID, itemID)
		if err != nil {
			logger.Error("Failed to remove item unit from cart", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Item unit removed from cart")
		response.Success(w, http.StatusOK, cart)
	}
}

// SetItemQuantity godoc
//	@Summary		Set the quantity of a cart line
//	@Description	Pins the quantity of the given item in the authenticated user's cart. Zero removes the line.
//	@Tags			Carts
//	@Accept			json
//	@Produce		json
//	@Param			item_id		path		string						true	"Item ID (UUID)"	Format(uuid)
//	@Param			quantity	body		models.SetQuantityRequest	true	"Desired quantity"
//	@Success		200			{object}	models.Cart					"Updated cart"
//	@Failure		400			{object}	response.ErrorResponse		"Invalid item ID format or negative quantity"
//	@Failure		401			{object}	response.ErrorResponse		"Authentication required"
//	@Failure		404			{object}	response.ErrorResponse		"Item not found"
//	@Failure		409			{object}	response.ErrorResponse		"Concurrent cart modification"
//	@Failure		500			{object}	response.ErrorResponse		"Internal server error"
//	@Security		BearerAuth
//	@Router			/carts/items/{item_id} [put]
func (h *CartHandler) SetItemQuantity() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := r.Context().Value(middleware.UserContextKey).(*models.Claims)
		if !ok {
			logger.Warn("Unauthorized cart mutation attempt")
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		itemID, err := utils.ParseID(r, "item_id")
		if err != nil {
			logger.Warn("Invalid item id", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		logger = logger.With(slog.String("itemId", itemID))

		var req models.SetQuantityRequest
		if !utils.ParseAndValidate(r, w, &req, h.validator) {
			logger.Warn("Invalid set quantity input")
			return
		}

		cart, err := h.cartService.SetItemQuantity(r.Context(), claims.UserID, itemID, req.Quantity)
		if err != nil {
			logger.Error("Failed to set cart item quantity", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Cart item quantity set", slog.Int("quantity", req.Quantity))
		response.Success(w, http.StatusOK, cart)
	}
}

// RemoveItem godoc
//	@Summary		Remove an item from the cart
//	@Description	Drops the whole line for the given item from the authenticated user's cart. Removing an absent line succeeds.
//	@Tags			Carts
//	@Produce		json
//	@Param			item_id	path		string					true	"Item ID (UUID)"	Format(uuid)
//	@Success		200		{object}	models.Cart				"Updated cart"
//	@Failure		400		{object}	response.ErrorResponse	"Invalid item ID format"
//	@Failure		401		{object}	response.ErrorResponse	"Authentication required"
//	@Failure		500		{object}	response.ErrorResponse	"Internal server error"
//	@Security		BearerAuth
//	@Router			/carts/items/{item_id} [delete]
func (h *CartHandler) RemoveItem() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := r.Context().Value(middleware.UserContextKey).(*models.Claims)
		if !ok {
			logger.Warn("Unauthorized cart mutation attempt")
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		itemID, err := utils.ParseID(r, "item_id")
		if err != nil {
			logger.Warn("Invalid item id", slog.String("error", err.Error()))
			response.Error(w, err)
			return
		}

		cart, err := h.cartService.RemoveItem(r.Context(), claims.UserID, itemID)
		if err != nil {
			logger.Error("Failed to remove item from cart", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Item removed from cart", slog.String("itemId", itemID))
		response.Success(w, http.StatusOK, cart)
	}
}

// ClearCart godoc
//	@Summary		Clear the cart
//	@Description	Removes every line from the authenticated user's cart. Clearing an already empty cart succeeds.
//	@Tags			Carts
//	@Produce		json
//	@Success		200	{object}	models.Cart				"Emptied cart"
//	@Failure		401	{object}	response.ErrorResponse	"Authentication required"
//	@Failure		500	{object}	response.ErrorResponse	"Internal server error"
//	@Security		BearerAuth
//	@Router			/carts [delete]
func (h *CartHandler) ClearCart() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {

		logger := middleware.LoggerFromContext(r.Context())

		claims, ok := r.Context().Value(middleware.UserContextKey).(*models.Claims)
		if !ok {
			logger.Warn("Unauthorized cart mutation attempt")
			response.Error(w, errors.UnauthorizedError("Authentication required"))
			return
		}

		cart, err := h.cartService.ClearCart(r.Context(), claims.UserID)
		if err != nil {
			logger.Error("Failed to clear cart", slog.Any("error", err))
			response.Error(w, err)
			return
		}

		logger.Info("Cart cleared")
		response.Success(w, http.StatusOK, cart)
	}
}
