package service

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/pourpal/pourpal-backend/internal/cache"
	appErrors "github.com/pourpal/pourpal-backend/internal/errors"
	"github.com/pourpal/pourpal-backend/internal/models"
	repository "github.com/pourpal/pourpal-backend/internal/repositories"
	"golang.org/x/sync/singleflight"
)

type CartService interface {
	GetCart(ctx context.Context, ownerID string) (*models.Cart, error)
	IncrementItem(ctx context.Context, ownerID, itemID string) (*models.Cart, error)
	DecrementItem(ctx context.Context, ownerID, itemID string) (*models.Cart, error)
	SetItemQuantity(ctx context.Context, ownerID, itemID string, quantity int) (*models.Cart, error)
	RemoveItem(ctx context.Context, ownerID, itemID string) (*models.Cart, error)
	ClearCart(ctx context.Context, ownerID string) (*models.Cart, error)
}

type cartService struct {
	cartRepo repository.CartRepository
	itemRepo repository.ItemRepository
	cache    cache.Cache
	cartTTL  time.Duration
	sfg      singleflight.Group // collapses concurrent cache misses per owner
}

func NewCartService(cartRepo repository.CartRepository, itemRepo repository.ItemRepository, c cache.Cache, cartTTL time.Duration) CartService {
	return &cartService{
		cartRepo: cartRepo,
		itemRepo: itemRepo,
		cache:    c,
		cartTTL:  cartTTL,
	}
}

// GetCart returns the owner's cart, serving from cache when possible. An
// owner without a stored cart gets a fresh empty cart; nothing is persisted
// until the first mutation.
func (s *cartService) GetCart(ctx context.Context, ownerID string) (*models.Cart, error) {
	key := cache.Key(cache.CartKeyPrefix, ownerID)

	v, err, _ := s.sfg.Do(key, func() (interface{}, error) {
		var cached models.Cart

		found, err := s.cache.Get(ctx, key, &cached)
		if err != nil {
			slog.Warn("Cart cache read failed", slog.String("ownerId", ownerID), slog.String("error", err.Error()))
		}

		if found {
			cached.Recalculate()

			return &cached, nil
		}

		cart, err := s.loadCart(ctx, ownerID)
		if err != nil {
			return nil, err
		}

		if err := s.cache.Set(ctx, key, cart, s.cartTTL); err != nil {
			slog.Warn("Cart cache write failed", slog.String("ownerId", ownerID), slog.String("error", err.Error()))
		}

		return cart, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*models.Cart), nil
}

// IncrementItem adds one unit of itemID to the cart. The unit price snapshot
// on the line is refreshed from the live catalog.
func (s *cartService) IncrementItem(ctx context.Context, ownerID, itemID string) (*models.Cart, error) {
	item, err := s.itemRepo.GetItemByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			return nil, appErrors.NotFoundError("Item not found").WithError(err)
		}

		return nil, storageError(err, "Failed to fetch item")
	}

	if err := s.cartRepo.IncrementItem(ctx, ownerID, itemID, item.Price); err != nil {
		return nil, mapCartMutationError(err)
	}

	s.invalidate(ctx, ownerID)

	return s.loadCart(ctx, ownerID)
}

// DecrementItem removes one unit of itemID, dropping the line when it
// reaches zero.
func (s *cartService) DecrementItem(ctx context.Context, ownerID, itemID string) (*models.Cart, error) {
	if err := s.cartRepo.DecrementItem(ctx, ownerID, itemID); err != nil {
		return nil, mapCartMutationError(err)
	}

	s.invalidate(ctx, ownerID)

	return s.loadCart(ctx, ownerID)
}

// SetItemQuantity pins the line for itemID to quantity. Zero removes the
// line; a line is created when the cart has none for the item.
func (s *cartService) SetItemQuantity(ctx context.Context, ownerID, itemID string, quantity int) (*models.Cart, error) {
	if quantity < 0 {
		return nil, appErrors.BadRequestError("Quantity cannot be negative")
	}

	if quantity == 0 {
		return s.RemoveItem(ctx, ownerID, itemID)
	}

	item, err := s.itemRepo.GetItemByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, repository.ErrItemNotFound) {
			return nil, appErrors.NotFoundError("Item not found").WithError(err)
		}

		return nil, storageError(err, "Failed to fetch item")
	}

	if err := s.cartRepo.SetItemQuantity(ctx, ownerID, itemID, quantity, item.Price); err != nil {
		return nil, mapCartMutationError(err)
	}

	s.invalidate(ctx, ownerID)

	return s.loadCart(ctx, ownerID)
}

// RemoveItem drops the line for itemID. Removing an absent line is not an
// error.
func (s *cartService) RemoveItem(ctx context.Context, ownerID, itemID string) (*models.Cart, error) {
	if err := s.cartRepo.RemoveItem(ctx, ownerID, itemID); err != nil {
		return nil, mapCartMutationError(err)
	}

	s.invalidate(ctx, ownerID)

	return s.loadCart(ctx, ownerID)
}

// ClearCart empties the cart. Clearing an empty or missing cart is not an
// error.
func (s *cartService) ClearCart(ctx context.Context, ownerID string) (*models.Cart, error) {
	if err := s.cartRepo.ClearCart(ctx, ownerID); err != nil {
		return nil, mapCartMutationError(err)
	}

	s.invalidate(ctx, ownerID)

	return s.loadCart(ctx, ownerID)
}

// loadCart reads the cart straight from storage and derives the totals.
func (s *cartService) loadCart(ctx context.Context, ownerID string) (*models.Cart, error) {
	cart, err := s.cartRepo.GetCart(ctx, ownerID)
	if err != nil {
		if errors.Is(err, repository.ErrCartNotFound) {
			return models.NewCart(ownerID), nil
		}

		return nil, storageError(err, "Failed to fetch cart")
	}

	cart.Recalculate()

	return cart, nil
}

func (s *cartService) invalidate(ctx context.Context, ownerID string) {
	if err := s.cache.Delete(ctx, cache.Key(cache.CartKeyPrefix, ownerID)); err != nil {
		slog.Warn("Failed to invalidate cart cache", slog.String("ownerId", ownerID), slog.String("error", err.Error()))
	}
}

func mapCartMutationError(err error) error {
	switch {
	case errors.Is(err, repository.ErrItemNotFound):
		return appErrors.NotFoundError("Item not found in cart").WithError(err)
	case errors.Is(err, repository.ErrConcurrentModification):
		return appErrors.ConflictError("Cart was modified concurrently, please retry").WithError(err)
	default:
		return storageError(err, "Failed to update cart")
	}
}
