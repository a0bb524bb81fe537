package models

import (
	"fmt"
	"time"
)

type OrderStatus string

const (
	OrderStatusCreated   OrderStatus = "created"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusDelivered OrderStatus = "delivered"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// CanTransitionTo reports whether the forward progression
// created -> confirmed -> shipped -> delivered allows the move. Cancellation
// is reachable from created and confirmed only. Delivered and cancelled are
// terminal.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	switch s {
	case OrderStatusCreated:
		return next == OrderStatusConfirmed || next == OrderStatusCancelled
	case OrderStatusConfirmed:
		return next == OrderStatusShipped || next == OrderStatusCancelled
	case OrderStatusShipped:
		return next == OrderStatusDelivered
	default:
		return false
	}
}

func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

func (s OrderStatus) IsValid() bool {
	switch s {
	case OrderStatusCreated, OrderStatusConfirmed, OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled:
		return true
	default:
		return false
	}
}

// DeliveryInfo is the address and contact snapshot frozen onto an order.
type DeliveryInfo struct {
	RecipientName          string `json:"recipient_name" bson:"recipient_name" validate:"required,min=2,max=100"`
	RecipientPhone         string `json:"recipient_phone" bson:"recipient_phone" validate:"required,e164"`
	RecipientCity          string `json:"recipient_city" bson:"recipient_city" validate:"required,max=100"`
	RecipientStreetAddress string `json:"recipient_street_address" bson:"recipient_street_address" validate:"required,max=200"`
	Comment                string `json:"comment,omitempty" bson:"comment,omitempty" validate:"max=500"`
}

// OrderLine is one purchased item. Title and unit price are denormalized at
// order time and never change afterwards.
type OrderLine struct {
	ItemID     string `json:"item_id" bson:"item_id"`
	Title      string `json:"title" bson:"title"`
	Quantity   int    `json:"quantity" bson:"quantity"`
	UnitPrice  Money  `json:"unit_price" bson:"unit_price"`
	TotalPrice Money  `json:"total_price" bson:"total_price"`
}

// Order is the immutable record of a purchase commitment. Only Status may
// change after creation; lines and totals are frozen at commit time and
// orders are never deleted.
type Order struct {
	ID           string       `json:"order_id" bson:"order_id"`
	OrderNumber  string       `json:"order_number" bson:"order_number"`
	OwnerID      string       `json:"owner_id" bson:"owner_id"`
	Status       OrderStatus  `json:"status" bson:"status"`
	DeliveryInfo DeliveryInfo `json:"delivery_info" bson:"delivery_info"`
	Lines        []OrderLine  `json:"lines" bson:"lines"`
	Total        Money        `json:"total" bson:"total"`
	CreatedAt    time.Time    `json:"created_at" bson:"created_at"`
}

// Validate checks a loaded document's shape before it is acted on.
func (o *Order) Validate() error {
	if o.ID == "" {
		return fmt.Errorf("order has no id")
	}

	if o.OwnerID == "" {
		return fmt.Errorf("order %s has no owner", o.ID)
	}

	if !o.Status.IsValid() {
		return fmt.Errorf("order %s has unknown status %q", o.ID, o.Status)
	}

	if len(o.Lines) == 0 {
		return fmt.Errorf("order %s has no lines", o.ID)
	}

	for _, line := range o.Lines {
		if line.ItemID == "" {
			return fmt.Errorf("order %s has a line with no item id", o.ID)
		}

		if line.Quantity < 1 {
			return fmt.Errorf("order %s line %s has quantity %d", o.ID, line.ItemID, line.Quantity)
		}
	}

	return nil
}

type CreateOrderRequest struct {
	DeliveryInfo DeliveryInfo `json:"delivery_info" validate:"required"`
}

type UpdateOrderStatusRequest struct {
	Status OrderStatus `json:"status" validate:"required,oneof=created confirmed shipped delivered cancelled"`
}
