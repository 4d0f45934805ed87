package handler

import (
	"context"
	"encoding/json"
	"github.com/google/uuid"
	"github.com/rookgm/foodorder/internal/models"
	"github.com/rookgm/foodorder/internal/validation"
	"net/http"
)

//go:generate mockgen -source=admin.go -destination=mocks/admin_mock.go -package=mocks

type AdminService interface {
	// ListAllOrders returns every order with customer and items
	ListAllOrders(ctx context.Context, adminID uuid.UUID) ([]models.OrderDetails, error)
	// UpdateStatus sets order status
	UpdateStatus(ctx context.Context, adminID uuid.UUID, orderID int64, status models.OrderStatus) (*models.Order, error)
	// VerifyDeliveryOTP marks order delivered if code matches
	VerifyDeliveryOTP(ctx context.Context, adminID uuid.UUID, orderID int64, code string) (*models.Order, error)
}

// AdminHandler represents HTTP handler for admin order console
type AdminHandler struct {
	svc AdminService
}

// NewAdminHandler creates new AdminHandler instance
func NewAdminHandler(svc AdminService) *AdminHandler {
	return &AdminHandler{svc: svc}
}

// ListOrders returns all orders
func (ah *AdminHandler) ListOrders() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := getAuthPayload(r.Context(), authPayloadKey)
		if !ok {
			writeError(w, models.ErrUnauthorized)
			return
		}

		orders, err := ah.svc.ListAllOrders(r.Context(), payload.UserID)
		if err != nil {
			writeError(w, err)
			return
		}

		resp := make([]orderResponse, 0, len(orders))
		for _, o := range orders {
			resp = append(resp, newAdminOrderResponse(o))
		}

		writeOK(w, resp)
	}
}

type updateOrderRequest struct {
	OrderID int64   `json:"orderId" validate:"gt=0"`
	Status  string  `json:"status" validate:"omitempty,oneof=pending confirmed out_for_delivery delivered cancelled"`
	OTP     *string `json:"otp" validate:"omitempty,otp"`
}

// UpdateOrder changes order status or confirms delivery with OTP.
// When both are sent the OTP is used.
func (ah *AdminHandler) UpdateOrder() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := getAuthPayload(r.Context(), authPayloadKey)
		if !ok {
			writeError(w, models.ErrUnauthorized)
			return
		}

		var req updateOrderRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, validation.Errorf("malformed request body"))
			return
		}
		defer r.Body.Close()

		if err := validation.Struct(req); err != nil {
			writeError(w, err)
			return
		}

		var (
			order *models.Order
			err   error
		)
		switch {
		case req.OTP != nil:
			order, err = ah.svc.VerifyDeliveryOTP(r.Context(), payload.UserID, req.OrderID, *req.OTP)
		case req.Status != "":
			order, err = ah.svc.UpdateStatus(r.Context(), payload.UserID, req.OrderID, models.OrderStatus(req.Status))
		default:
			err = validation.Errorf("status or otp is required")
		}
		if err != nil {
			writeError(w, err)
			return
		}

		writeOK(w, newOrderResponse(order))
	}
}
