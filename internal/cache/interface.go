package cache

import (
	"context"
	"time"
)

// Cache is the read-through store the services put hot documents in. Values
// are JSON-encoded; a miss is reported as (false, nil), never as an error.
// The underlying client's lifecycle belongs to the caller that built it.
type Cache interface {
	Get(ctx context.Context, key string, value any) (bool, error)
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

func Key(prefix string, id string) string {
	return prefix + ":" + id
}

// Key prefixes, one per cached document kind. Carts are keyed by owner id,
// everything else by its own id.
const (
	ItemKeyPrefix  = "item"
	UserKeyPrefix  = "user"
	OrderKeyPrefix = "order"
	CartKeyPrefix  = "cart"
)
