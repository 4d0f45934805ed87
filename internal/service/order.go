package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"github.com/google/uuid"
	"github.com/rookgm/foodorder/internal/logger"
	"github.com/rookgm/foodorder/internal/models"
	"github.com/rookgm/foodorder/internal/validation"
	"go.uber.org/zap"
	"strings"
	"time"
)

const (
	// DefaultCancellationWindow is how long after creation a customer may cancel
	DefaultCancellationWindow = 5 * time.Minute
	defaultCancelReason       = "Cancelled by customer"
)

// OrderService implements OrderService interface
type OrderService struct {
	orders       OrderRepository
	profiles     ProfileRepository
	loyalty      LoyaltyRepository
	cancelWindow time.Duration
	now          func() time.Time
	genOTP       func() (string, error)
}

// OrderOption configures OrderService
type OrderOption func(*OrderService)

// WithCancellationWindow sets cancellation window
func WithCancellationWindow(d time.Duration) OrderOption {
	return func(s *OrderService) {
		s.cancelWindow = d
	}
}

// WithClock sets time source
func WithClock(now func() time.Time) OrderOption {
	return func(s *OrderService) {
		s.now = now
	}
}

// WithOTPGenerator sets OTP generator
func WithOTPGenerator(gen func() (string, error)) OrderOption {
	return func(s *OrderService) {
		s.genOTP = gen
	}
}

// NewOrderService creates new OrderService instance
func NewOrderService(orders OrderRepository, profiles ProfileRepository, loyalty LoyaltyRepository, opts ...OrderOption) *OrderService {
	s := &OrderService{
		orders:       orders,
		profiles:     profiles,
		loyalty:      loyalty,
		cancelWindow: DefaultCancellationWindow,
		now:          time.Now,
		genOTP:       GenerateOTP,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create places new order of user and returns its id
func (os *OrderService) Create(ctx context.Context, order *models.NewOrder) (int64, error) {
	if order.UserID == uuid.Nil {
		return 0, models.ErrUnauthorized
	}
	if order.PaymentMethod != models.PaymentMethodCOD {
		return 0, validation.Errorf("payment method %q is not supported", order.PaymentMethod)
	}

	// delivery city must be known and serviceable
	profile, err := os.profiles.GetProfile(ctx, order.UserID)
	if err != nil {
		if errors.Is(err, models.ErrDataNotFound) {
			return 0, models.ErrIncompleteProfile
		}
		logger.Log.Error("get profile", zap.String("user_id", order.UserID.String()), zap.Error(err))
		return 0, models.ErrInternalError
	}
	if profile.City == nil || strings.TrimSpace(*profile.City) == "" {
		return 0, models.ErrIncompleteProfile
	}

	ok, err := os.profiles.IsServiceableCity(ctx, strings.TrimSpace(*profile.City))
	if err != nil {
		logger.Log.Error("check serviceable city", zap.String("city", *profile.City), zap.Error(err))
		return 0, models.ErrInternalError
	}
	if !ok {
		return 0, models.ErrCityUnserviceable
	}

	order.OTP, err = os.genOTP()
	if err != nil {
		logger.Log.Error("generate otp", zap.Error(err))
		return 0, models.ErrInternalError
	}

	id, err := os.orders.CreateOrder(ctx, order)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrInsufficientPoints),
			errors.Is(err, models.ErrMenuItemNotFound),
			errors.Is(err, models.ErrValidation):
			return 0, err
		}
		logger.Log.Error("create order", zap.String("user_id", order.UserID.String()), zap.Error(err))
		return 0, models.ErrOrderFailed
	}

	logger.Log.Info("order created",
		zap.Int64("order_id", id),
		zap.String("user_id", order.UserID.String()),
		zap.Int("items", len(order.Items)),
		zap.Int64("points_used", order.PointsUsed))

	return id, nil
}

// ListUserOrders returns orders of user with items, newest first
func (os *OrderService) ListUserOrders(ctx context.Context, userID uuid.UUID) ([]models.OrderDetails, error) {
	orders, err := os.orders.GetOrdersByUserID(ctx, userID)
	if err != nil {
		logger.Log.Error("list user orders", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, models.ErrInternalError
	}
	return orders, nil
}

// ListAllOrders returns every order for admin console
func (os *OrderService) ListAllOrders(ctx context.Context, adminID uuid.UUID) ([]models.OrderDetails, error) {
	if err := os.requireAdmin(ctx, adminID); err != nil {
		return nil, err
	}

	orders, err := os.orders.ListOrders(ctx)
	if err != nil {
		logger.Log.Error("list orders", zap.Error(err))
		return nil, models.ErrInternalError
	}
	return orders, nil
}

// UpdateStatus sets order status on behalf of admin.
// Cancelled and delivered orders are never modified, other transitions
// are applied as requested.
func (os *OrderService) UpdateStatus(ctx context.Context, adminID uuid.UUID, orderID int64, status models.OrderStatus) (*models.Order, error) {
	if err := os.requireAdmin(ctx, adminID); err != nil {
		return nil, err
	}
	if !status.Valid() {
		return nil, validation.Errorf("unknown status %q", status)
	}

	order, err := os.getOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	// a frozen order is reported as such whatever the target
	if err := terminalError(order); err != nil {
		return nil, err
	}
	// cancellation goes through Cancel, it owns the refund
	if status == models.OrderStatusCancelled {
		return nil, validation.Errorf("status %q cannot be set", status)
	}

	updated, err := os.orders.UpdateOrderStatus(ctx, orderID, status)
	if err != nil {
		return nil, os.updateError(ctx, orderID, err)
	}

	logger.Log.Info("order status updated",
		zap.Int64("order_id", orderID),
		zap.String("from", string(order.Status)),
		zap.String("to", string(status)))

	return updated, nil
}

// VerifyDeliveryOTP marks order delivered when code matches the order OTP
func (os *OrderService) VerifyDeliveryOTP(ctx context.Context, adminID uuid.UUID, orderID int64, code string) (*models.Order, error) {
	if err := os.requireAdmin(ctx, adminID); err != nil {
		return nil, err
	}
	if err := validation.OTP(code); err != nil {
		return nil, err
	}

	order, err := os.getOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	// cancellation takes precedence over a correct code
	if err := terminalError(order); err != nil {
		return nil, err
	}

	if subtle.ConstantTimeCompare([]byte(code), []byte(order.OTP)) != 1 {
		logger.Log.Info("otp mismatch", zap.Int64("order_id", orderID))
		return nil, models.ErrInvalidOTP
	}

	updated, err := os.orders.UpdateOrderStatus(ctx, orderID, models.OrderStatusDelivered)
	if err != nil {
		return nil, os.updateError(ctx, orderID, err)
	}

	logger.Log.Info("order delivered", zap.Int64("order_id", orderID))

	return updated, nil
}

// Cancel cancels order of user and refunds redeemed points.
// The order stays cancelled when the refund fails, the outcome is reported in the result.
func (os *OrderService) Cancel(ctx context.Context, userID uuid.UUID, orderID int64, reason string) (*models.CancelResult, error) {
	order, err := os.getOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}

	now := os.now()
	if err := os.cancellable(order, userID, now); err != nil {
		return nil, err
	}

	if strings.TrimSpace(reason) == "" {
		reason = defaultCancelReason
	}

	cancelled, err := os.orders.CancelOrder(ctx, orderID, reason, now)
	if err != nil {
		if !errors.Is(err, models.ErrConflictData) {
			logger.Log.Error("cancel order", zap.Int64("order_id", orderID), zap.Error(err))
			return nil, models.ErrInternalError
		}
		// state changed after the checks above
		current, gerr := os.getOrder(ctx, orderID)
		if gerr != nil {
			return nil, gerr
		}
		if current.IsCancelled() {
			return nil, models.ErrAlreadyCancelled
		}
		return nil, models.ErrInvalidState
	}

	logger.Log.Info("order cancelled", zap.Int64("order_id", orderID), zap.String("user_id", userID.String()))

	result := &models.CancelResult{
		Order:  cancelled,
		Refund: models.RefundOutcome{Status: models.RefundNone},
	}

	if points := cancelled.PointsUsed; points > 0 {
		result.Refund.Points = points
		if err := os.loyalty.RefundPoints(ctx, userID, orderID, points); err != nil {
			logger.Log.Error("refund points for cancelled order",
				zap.Int64("order_id", orderID),
				zap.String("user_id", userID.String()),
				zap.Int64("points", points),
				zap.Error(err))
			result.Refund.Status = models.RefundFailed
		} else {
			result.Refund.Status = models.RefundSucceeded
		}
	}

	return result, nil
}

// cancellable checks that user may cancel order at now
func (os *OrderService) cancellable(order *models.Order, userID uuid.UUID, now time.Time) error {
	switch {
	case order.UserID != userID:
		return models.ErrForbidden
	case order.IsCancelled():
		return models.ErrAlreadyCancelled
	case order.Status != models.OrderStatusConfirmed:
		return models.ErrInvalidState
	case order.PaymentMethod != models.PaymentMethodCOD:
		return models.ErrNotCancellable
	case now.Sub(order.CreatedAt) >= os.cancelWindow:
		return models.ErrWindowExpired
	}
	return nil
}

func (os *OrderService) requireAdmin(ctx context.Context, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return models.ErrUnauthorized
	}

	ok, err := os.profiles.IsAdmin(ctx, userID)
	if err != nil {
		logger.Log.Error("check admin", zap.String("user_id", userID.String()), zap.Error(err))
		return models.ErrInternalError
	}
	if !ok {
		return models.ErrNotAdmin
	}
	return nil
}

func (os *OrderService) getOrder(ctx context.Context, orderID int64) (*models.Order, error) {
	order, err := os.orders.GetOrderByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, models.ErrDataNotFound) {
			return nil, models.ErrOrderNotFound
		}
		logger.Log.Error("get order", zap.Int64("order_id", orderID), zap.Error(err))
		return nil, models.ErrInternalError
	}
	return order, nil
}

// updateError maps a failed guarded update to the state that blocked it
func (os *OrderService) updateError(ctx context.Context, orderID int64, err error) error {
	if !errors.Is(err, models.ErrConflictData) {
		logger.Log.Error("update order status", zap.Int64("order_id", orderID), zap.Error(err))
		return models.ErrInternalError
	}

	current, gerr := os.getOrder(ctx, orderID)
	if gerr != nil {
		return gerr
	}
	if terr := terminalError(current); terr != nil {
		return terr
	}
	return models.ErrInvalidState
}

func terminalError(order *models.Order) error {
	switch {
	case order.IsCancelled():
		return models.ErrCannotUpdateCancelled
	case order.Status == models.OrderStatusDelivered:
		return models.ErrCannotUpdateDelivered
	}
	return nil
}
