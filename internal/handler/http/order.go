package handler

import (
	"context"
	"encoding/json"
	"github.com/google/uuid"
	"github.com/rookgm/foodorder/internal/models"
	"github.com/rookgm/foodorder/internal/validation"
	"net/http"
	"strings"
)

//go:generate mockgen -source=order.go -destination=mocks/order_mock.go -package=mocks

type OrderService interface {
	// Create places new order and returns its id
	Create(ctx context.Context, order *models.NewOrder) (int64, error)
	// ListUserOrders returns user orders with items
	ListUserOrders(ctx context.Context, userID uuid.UUID) ([]models.OrderDetails, error)
	// Cancel cancels order of user
	Cancel(ctx context.Context, userID uuid.UUID, orderID int64, reason string) (*models.CancelResult, error)
}

// OrderHandler represents HTTP handler for customer order requests
type OrderHandler struct {
	svc OrderService
}

// NewOrderHandler creates new OrderHandler instance
func NewOrderHandler(svc OrderService) *OrderHandler {
	return &OrderHandler{svc: svc}
}

type cartItemRequest struct {
	ID       int64 `json:"id" validate:"gt=0"`
	Quantity int   `json:"quantity" validate:"min=1,max=50"`
}

type orderSummaryRequest struct {
	DeliveryCharge *int64 `json:"deliveryCharge" validate:"required,min=0,max=500"`
}

type createOrderRequest struct {
	Cart               []cartItemRequest   `json:"cart" validate:"required,min=1,max=100,dive"`
	Summary            orderSummaryRequest `json:"summary"`
	LocationID         string              `json:"locationId" validate:"notblank"`
	PointsUsed         int64               `json:"pointsUsed" validate:"min=0"`
	DiscountFromPoints *int64              `json:"discountFromPoints" validate:"omitempty,min=0"`
	PaymentMethod      string              `json:"paymentMethod" validate:"required,oneof=cod"`
}

type createOrderResponse struct {
	OrderID int64 `json:"orderId"`
}

// CreateOrder places order of authenticated user
// 200 - заказ создан;
// 400 - неверный формат запроса или профиль не позволяет оформить заказ;
// 401 - пользователь не аутентифицирован;
// 429 - превышено количество запросов;
// 500 - заказ не создан.
func (oh *OrderHandler) CreateOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := getAuthPayload(r.Context(), authPayloadKey)
		if !ok {
			writeError(w, models.ErrUnauthorized)
			return
		}

		var req createOrderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, validation.Errorf("malformed request body"))
			return
		}
		defer r.Body.Close()

		if err := validation.Struct(req); err != nil {
			writeError(w, err)
			return
		}
		// one point is worth one currency unit
		if req.DiscountFromPoints != nil && *req.DiscountFromPoints != req.PointsUsed {
			writeError(w, validation.Errorf("discountFromPoints must equal pointsUsed"))
			return
		}

		order := models.NewOrder{
			UserID:         payload.UserID,
			LocationID:     strings.TrimSpace(req.LocationID),
			DeliveryCharge: *req.Summary.DeliveryCharge,
			PointsUsed:     req.PointsUsed,
			PaymentMethod:  req.PaymentMethod,
		}
		for _, it := range req.Cart {
			order.Items = append(order.Items, models.CartItem{MenuItemID: it.ID, Quantity: it.Quantity})
		}

		id, err := oh.svc.Create(r.Context(), &order)
		if err != nil {
			writeError(w, err)
			return
		}

		writeJSON(w, http.StatusOK, createOrderResponse{OrderID: id})
	}
}

// ListUserOrders returns order history of authenticated user
// 200 - успешная обработка запроса;
// 401 - пользователь не аутентифицирован;
// 500 - внутренняя ошибка сервера.
func (oh *OrderHandler) ListUserOrders() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := getAuthPayload(r.Context(), authPayloadKey)
		if !ok {
			writeError(w, models.ErrUnauthorized)
			return
		}

		orders, err := oh.svc.ListUserOrders(r.Context(), payload.UserID)
		if err != nil {
			writeError(w, err)
			return
		}

		resp := make([]orderResponse, 0, len(orders))
		for _, o := range orders {
			resp = append(resp, newCustomerOrderResponse(o))
		}

		writeJSON(w, http.StatusOK, resp)
	}
}

type cancelOrderRequest struct {
	OrderID int64  `json:"orderId" validate:"gt=0"`
	Reason  string `json:"reason" validate:"max=500"`
}

type refundResponse struct {
	Status string `json:"status"`
	Points int64  `json:"points"`
}

type cancelOrderResponse struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Refund  refundResponse `json:"refund"`
}

// CancelOrder cancels order of authenticated user
// 200 - заказ отменён;
// 400 - заказ нельзя отменить;
// 401 - пользователь не аутентифицирован;
// 403 - заказ принадлежит другому пользователю;
// 404 - заказ не найден;
// 500 - внутренняя ошибка сервера.
func (oh *OrderHandler) CancelOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := getAuthPayload(r.Context(), authPayloadKey)
		if !ok {
			writeError(w, models.ErrUnauthorized)
			return
		}

		var req cancelOrderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, validation.Errorf("malformed request body"))
			return
		}
		defer r.Body.Close()

		if err := validation.Struct(req); err != nil {
			writeError(w, err)
			return
		}

		res, err := oh.svc.Cancel(r.Context(), payload.UserID, req.OrderID, req.Reason)
		if err != nil {
			writeError(w, err)
			return
		}

		resp := cancelOrderResponse{
			Success: true,
			Message: "Order cancelled successfully",
			Refund: refundResponse{
				Status: string(res.Refund.Status),
				Points: res.Refund.Points,
			},
		}
		if res.Refund.Status == models.RefundFailed {
			resp.Message = "Order cancelled, loyalty points refund is pending"
		}

		writeJSON(w, http.StatusOK, resp)
	}
}
