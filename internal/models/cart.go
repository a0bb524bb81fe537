package models

import (
	"fmt"
	"time"
)

// CartItem is one line of a cart. The unit price is a snapshot taken at the
// last mutation of the line; it is advisory for display and re-priced from
// the live catalog when the cart becomes an order. The line total is derived
// on read and never persisted.
type CartItem struct {
	ItemID     string `json:"item_id" bson:"item_id"`
	Quantity   int    `json:"quantity" bson:"quantity"`
	UnitPrice  Money  `json:"unit_price" bson:"unit_price"`
	TotalPrice Money  `json:"total_price" bson:"-"`
}

// Cart holds the pending selection of one user. There is at most one cart
// per owner, enforced by a unique index. Total is recomputed on every read
// so a stale stored figure can never be served.
type Cart struct {
	OwnerID   string     `json:"owner_id" bson:"owner_id"`
	Items     []CartItem `json:"items" bson:"items"`
	Total     Money      `json:"total" bson:"-"`
	CreatedAt time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" bson:"updated_at"`
}

func NewCart(ownerID string) *Cart {
	now := time.Now()

	cart := &Cart{
		OwnerID:   ownerID,
		Items:     []CartItem{},
		CreatedAt: now,
		UpdatedAt: now,
	}
	cart.Recalculate()

	return cart
}

// Recalculate fills every line total and the cart total from quantities and
// unit price snapshots.
func (c *Cart) Recalculate() {
	currency := DefaultCurrency
	if len(c.Items) > 0 {
		currency = c.Items[0].UnitPrice.Currency
	}

	total := ZeroMoney(currency)

	for i := range c.Items {
		line := &c.Items[i]
		line.TotalPrice = line.UnitPrice.MulQuantity(line.Quantity)
		total = total.Add(line.TotalPrice)
	}

	c.Total = total
}

// Item returns the line for itemID, or nil if the cart has no such line.
func (c *Cart) Item(itemID string) *CartItem {
	for i := range c.Items {
		if c.Items[i].ItemID == itemID {
			return &c.Items[i]
		}
	}

	return nil
}

func (c *Cart) IsEmpty() bool {
	return len(c.Items) == 0
}

// Validate checks a loaded document's shape before it is acted on. Stored
// carts must never hold non-positive quantities or duplicate lines.
func (c *Cart) Validate() error {
	if c.OwnerID == "" {
		return fmt.Errorf("cart has no owner")
	}

	seen := make(map[string]struct{}, len(c.Items))

	for _, item := range c.Items {
		if item.ItemID == "" {
			return fmt.Errorf("cart line has no item id")
		}

		if item.Quantity < 1 {
			return fmt.Errorf("cart line %s has quantity %d", item.ItemID, item.Quantity)
		}

		if _, dup := seen[item.ItemID]; dup {
			return fmt.Errorf("cart has duplicate line for item %s", item.ItemID)
		}

		seen[item.ItemID] = struct{}{}
	}

	return nil
}

type SetQuantityRequest struct {
	Quantity int `json:"quantity" validate:"min=0"`
}
