package handler

import (
	"github.com/rookgm/foodorder/internal/models"
	"time"
)

type orderItemResponse struct {
	ID         int64   `json:"id"`
	MenuItemID int64   `json:"menu_item_id"`
	Quantity   int     `json:"quantity"`
	Price      int64   `json:"price"`
	Name       string  `json:"name"`
	ImageURL   *string `json:"image_url"`
	IsVeg      bool    `json:"is_veg"`
}

type customerResponse struct {
	FullName *string `json:"full_name"`
	Phone    *string `json:"phone"`
	City     *string `json:"city"`
}

type orderResponse struct {
	ID                 int64               `json:"id"`
	OrderNumber        int64               `json:"order_number"`
	LocationID         string              `json:"location_id"`
	DeliveryCharge     int64               `json:"delivery_charge"`
	TotalAmount        int64               `json:"total_amount"`
	Status             string              `json:"status"`
	IsCancelled        bool                `json:"is_cancelled"`
	CancelledAt        *string             `json:"cancelled_at"`
	CancellationReason *string             `json:"cancellation_reason"`
	PaymentMethod      string              `json:"payment_method"`
	PointsUsed         int64               `json:"points_used"`
	OTP                string              `json:"otp,omitempty"`
	CreatedAt          string              `json:"created_at"`
	Items              []orderItemResponse `json:"order_items,omitempty"`
	Profile            *customerResponse   `json:"profile,omitempty"`
}

func newOrderResponse(o *models.Order) orderResponse {
	resp := orderResponse{
		ID:                 o.ID,
		OrderNumber:        o.OrderNumber,
		LocationID:         o.LocationID,
		DeliveryCharge:     o.DeliveryCharge,
		TotalAmount:        o.TotalAmount,
		Status:             string(o.Status),
		IsCancelled:        o.IsCancelled(),
		CancellationReason: o.CancellationReason,
		PaymentMethod:      o.PaymentMethod,
		PointsUsed:         o.PointsUsed,
		CreatedAt:          o.CreatedAt.Format(time.RFC3339),
	}
	if o.CancelledAt != nil {
		at := o.CancelledAt.Format(time.RFC3339)
		resp.CancelledAt = &at
	}
	return resp
}

// newCustomerOrderResponse shows the delivery code to the order owner
func newCustomerOrderResponse(d models.OrderDetails) orderResponse {
	resp := newOrderResponse(&d.Order)
	resp.OTP = d.OTP
	resp.Items = newItemsResponse(d.Items)
	return resp
}

func newAdminOrderResponse(d models.OrderDetails) orderResponse {
	resp := newOrderResponse(&d.Order)
	resp.Items = newItemsResponse(d.Items)
	if d.Customer != nil {
		resp.Profile = &customerResponse{
			FullName: d.Customer.FullName,
			Phone:    d.Customer.Phone,
			City:     d.Customer.City,
		}
	}
	return resp
}

func newItemsResponse(items []models.OrderItem) []orderItemResponse {
	resp := make([]orderItemResponse, 0, len(items))
	for _, it := range items {
		resp = append(resp, orderItemResponse{
			ID:         it.ID,
			MenuItemID: it.MenuItemID,
			Quantity:   it.Quantity,
			Price:      it.Price,
			Name:       it.Name,
			ImageURL:   it.ImageURL,
			IsVeg:      it.IsVeg,
		})
	}
	return resp
}
