package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/pourpal/pourpal-backend/internal/cache"
	appErrors "github.com/pourpal/pourpal-backend/internal/errors"
	repository "github.com/pourpal/pourpal-backend/internal/repositories"
)

const sweepRetries = 3

// CartSweeper periodically empties carts that have not been touched for
// maxAge. Swept owners keep their cart document; only the lines go, exactly
// as if the owner had cleared the cart.
type CartSweeper struct {
	cartRepo repository.CartRepository
	cache    cache.Cache
	maxAge   time.Duration
	interval time.Duration
}

func NewCartSweeper(cartRepo repository.CartRepository, c cache.Cache, maxAge, interval time.Duration) *CartSweeper {
	return &CartSweeper{
		cartRepo: cartRepo,
		cache:    c,
		maxAge:   maxAge,
		interval: interval,
	}
}

// Run blocks until ctx is cancelled, sweeping once per interval. Sweep
// failures are logged and the loop keeps going.
func (s *CartSweeper) Run(ctx context.Context) {
	slog.Info("Cart sweeper started",
		slog.Duration("interval", s.interval), slog.Duration("maxAge", s.maxAge))

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("Cart sweeper stopped")

			return
		case <-ticker.C:
			cleared, err := s.Sweep(ctx)
			if err != nil {
				if appErrors.HasCode(err, appErrors.ErrCodeUnavailable) {
					slog.Warn("Cart sweep skipped, storage unavailable", slog.String("error", err.Error()))
				} else {
					slog.Error("Cart sweep failed", slog.String("error", err.Error()))
				}

				continue
			}

			if cleared > 0 {
				slog.Info("Cleared expired carts", slog.Int64("count", cleared))
			}
		}
	}
}

// Sweep clears every cart last mutated before now minus maxAge and returns
// how many were cleared. Transient storage failures are retried a few times
// within the same sweep.
func (s *CartSweeper) Sweep(ctx context.Context) (int64, error) {
	cutoff := time.Now().Add(-s.maxAge)

	var lastErr error

	for attempt := 0; attempt < sweepRetries; attempt++ {
		cleared, owners, err := s.cartRepo.ClearExpired(ctx, cutoff)
		if err == nil {
			for _, ownerID := range owners {
				if cacheErr := s.cache.Delete(ctx, cache.Key(cache.CartKeyPrefix, ownerID)); cacheErr != nil {
					slog.Warn("Failed to invalidate swept cart cache",
						slog.String("ownerId", ownerID), slog.String("error", cacheErr.Error()))
				}
			}

			return cleared, nil
		}

		lastErr = err

		if !repository.IsUnavailable(err) {
			break
		}
	}

	return 0, storageError(lastErr, "Failed to clear expired carts")
}
