package models

import (
	"github.com/google/uuid"
	"time"
)

// OrderStatus is the lifecycle state of an order.
//
// pending: order placed, waiting for the kitchen;
// confirmed: accepted, customer may still cancel within the window;
// out_for_delivery: handed to the delivery agent;
// delivered: OTP confirmed at the door, terminal;
// cancelled: cancelled by the customer, terminal.
type OrderStatus string

// order status
const (
	OrderStatusPending        OrderStatus = "pending"
	OrderStatusConfirmed      OrderStatus = "confirmed"
	OrderStatusOutForDelivery OrderStatus = "out_for_delivery"
	OrderStatusDelivered      OrderStatus = "delivered"
	OrderStatusCancelled      OrderStatus = "cancelled"
)

// Valid reports whether s is a known status
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusOutForDelivery,
		OrderStatusDelivered, OrderStatusCancelled:
		return true
	}
	return false
}

// IsTerminal reports whether no further mutation is allowed
func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// PaymentMethodCOD is cash on delivery, the only accepted payment method
const PaymentMethodCOD = "cod"

// Order is order entity.
// Status is the single source of truth for the order state, the stored
// is_cancelled flag is folded into it when the row is read.
type Order struct {
	ID                 int64
	OrderNumber        int64
	UserID             uuid.UUID
	LocationID         string
	DeliveryCharge     int64
	TotalAmount        int64
	Status             OrderStatus
	OTP                string
	PaymentMethod      string
	PointsUsed         int64
	CancelledAt        *time.Time
	CancellationReason *string
	CreatedAt          time.Time
}

// IsCancelled is derived from Status
func (o *Order) IsCancelled() bool {
	return o.Status == OrderStatusCancelled
}

// OrderItem is a line of an order, Price is the unit price at order time
type OrderItem struct {
	ID         int64
	OrderID    int64
	MenuItemID int64
	Quantity   int
	Price      int64
	Name       string
	ImageURL   *string
	IsVeg      bool
}

// Customer is the profile data shown to admins next to an order
type Customer struct {
	FullName *string
	Phone    *string
	City     *string
}

// OrderDetails is order with its items
type OrderDetails struct {
	Order
	Items    []OrderItem
	Customer *Customer
}

// CartItem is a requested menu item and quantity
type CartItem struct {
	MenuItemID int64
	Quantity   int
}

// NewOrder contains everything needed to create an order
type NewOrder struct {
	UserID         uuid.UUID
	LocationID     string
	DeliveryCharge int64
	PointsUsed     int64
	PaymentMethod  string
	OTP            string
	Items          []CartItem
}
