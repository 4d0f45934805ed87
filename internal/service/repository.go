package service

import (
	"context"
	"github.com/google/uuid"
	"github.com/rookgm/foodorder/internal/models"
	"time"
)

//go:generate mockgen -source=repository.go -destination=mocks/mocks.go -package=mocks

// OrderRepository is interface for interacting with order-related data
type OrderRepository interface {
	// CreateOrder atomically creates order, items and points debit, returns order id
	CreateOrder(ctx context.Context, order *models.NewOrder) (int64, error)
	// GetOrderByID returns order by id
	GetOrderByID(ctx context.Context, id int64) (*models.Order, error)
	// GetOrdersByUserID returns user orders with items, newest first
	GetOrdersByUserID(ctx context.Context, userID uuid.UUID) ([]models.OrderDetails, error)
	// ListOrders returns all orders with customer and items, newest first
	ListOrders(ctx context.Context) ([]models.OrderDetails, error)
	// UpdateOrderStatus sets status of non-terminal order
	UpdateOrderStatus(ctx context.Context, id int64, status models.OrderStatus) (*models.Order, error)
	// CancelOrder cancels confirmed order
	CancelOrder(ctx context.Context, id int64, reason string, at time.Time) (*models.Order, error)
}

// ProfileRepository is interface for interacting with profiles and access lists
type ProfileRepository interface {
	GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error)
	IsServiceableCity(ctx context.Context, city string) (bool, error)
	IsAdmin(ctx context.Context, userID uuid.UUID) (bool, error)
}

// LoyaltyRepository is interface for interfacing with loyalty points
type LoyaltyRepository interface {
	// RefundPoints credits points of cancelled order and appends refund entry
	RefundPoints(ctx context.Context, userID uuid.UUID, orderID int64, points int64) error
	// Balance returns current points balance
	Balance(ctx context.Context, userID uuid.UUID) (models.Balance, error)
	// GetTransactionsByUserID returns ledger entries, newest first
	GetTransactionsByUserID(ctx context.Context, userID uuid.UUID) ([]models.LoyaltyTransaction, error)
	// ApplyReferral links user to referrer and credits both
	ApplyReferral(ctx context.Context, userID uuid.UUID, code string, points int64) error
}
