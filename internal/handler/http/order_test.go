package handler

import (
	"context"
	"encoding/json"
	"errors"
	"github.com/golang/mock/gomock"
	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
	"github.com/rookgm/foodorder/internal/handler/http/mocks"
	"github.com/rookgm/foodorder/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

var testUserID = uuid.MustParse("7c9e6679-7425-40de-944b-e07fc1f90ae7")

const validOrderBody = `{"cart":[{"id":1,"quantity":2}],"summary":{"deliveryCharge":20},"locationId":"loc1","paymentMethod":"cod"}`

func decodeError(t *testing.T, body []byte) errorResponse {
	t.Helper()
	var got errorResponse
	require.NoError(t, json.Unmarshal(body, &got))
	assert.False(t, got.OK)
	return got
}

func TestOrderHandler_CreateOrder(t *testing.T) {
	tests := []struct {
		name           string
		token          *models.TokenPayload
		body           string
		setup          func(t *testing.T) *mocks.MockOrderService
		wantStatusCode int
		wantCode       string
		wantOrderID    int64
	}{
		{
			name:  "valid_request_return_200",
			token: &models.TokenPayload{UserID: testUserID},
			body:  validOrderBody,
			setup: func(t *testing.T) *mocks.MockOrderService {
				svcMock := mocks.NewMockOrderService(gomock.NewController(t))
				svcMock.EXPECT().Create(gomock.Any(), &models.NewOrder{
					UserID:         testUserID,
					LocationID:     "loc1",
					DeliveryCharge: 20,
					PaymentMethod:  "cod",
					Items:          []models.CartItem{{MenuItemID: 1, Quantity: 2}},
				}).Return(int64(42), nil)
				return svcMock
			},
			wantStatusCode: http.StatusOK,
			wantOrderID:    42,
		},
		{
			name:  "points_with_matching_discount_return_200",
			token: &models.TokenPayload{UserID: testUserID},
			body:  `{"cart":[{"id":1,"quantity":1}],"summary":{"deliveryCharge":0},"locationId":"loc1","pointsUsed":30,"discountFromPoints":30,"paymentMethod":"cod"}`,
			setup: func(t *testing.T) *mocks.MockOrderService {
				svcMock := mocks.NewMockOrderService(gomock.NewController(t))
				svcMock.EXPECT().Create(gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, o *models.NewOrder) (int64, error) {
						return 7, nil
					})
				return svcMock
			},
			wantStatusCode: http.StatusOK,
			wantOrderID:    7,
		},
		{
			name: "unauthorized_request_return_401",
			body: validOrderBody,
			setup: func(t *testing.T) *mocks.MockOrderService {
				svcMock := mocks.NewMockOrderService(gomock.NewController(t))
				svcMock.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)
				return svcMock
			},
			wantStatusCode: http.StatusUnauthorized,
			wantCode:       CodeUnauthorized,
		},
		{
			name:           "malformed_json_return_400",
			token:          &models.TokenPayload{UserID: testUserID},
			body:           `{"cart":`,
			setup:          noCreateCall,
			wantStatusCode: http.StatusBadRequest,
			wantCode:       CodeValidation,
		},
		{
			name:           "empty_cart_return_400",
			token:          &models.TokenPayload{UserID: testUserID},
			body:           `{"cart":[],"summary":{"deliveryCharge":20},"locationId":"loc1","paymentMethod":"cod"}`,
			setup:          noCreateCall,
			wantStatusCode: http.StatusBadRequest,
			wantCode:       CodeValidation,
		},
		{
			name:           "quantity_over_cap_return_400",
			token:          &models.TokenPayload{UserID: testUserID},
			body:           `{"cart":[{"id":1,"quantity":51}],"summary":{"deliveryCharge":20},"locationId":"loc1","paymentMethod":"cod"}`,
			setup:          noCreateCall,
			wantStatusCode: http.StatusBadRequest,
			wantCode:       CodeValidation,
		},
		{
			name:           "delivery_charge_over_cap_return_400",
			token:          &models.TokenPayload{UserID: testUserID},
			body:           `{"cart":[{"id":1,"quantity":1}],"summary":{"deliveryCharge":501},"locationId":"loc1","paymentMethod":"cod"}`,
			setup:          noCreateCall,
			wantStatusCode: http.StatusBadRequest,
			wantCode:       CodeValidation,
		},
		{
			name:           "blank_location_return_400",
			token:          &models.TokenPayload{UserID: testUserID},
			body:           `{"cart":[{"id":1,"quantity":1}],"summary":{"deliveryCharge":0},"locationId":" ","paymentMethod":"cod"}`,
			setup:          noCreateCall,
			wantStatusCode: http.StatusBadRequest,
			wantCode:       CodeValidation,
		},
		{
			name:           "online_payment_return_400",
			token:          &models.TokenPayload{UserID: testUserID},
			body:           `{"cart":[{"id":1,"quantity":1}],"summary":{"deliveryCharge":0},"locationId":"loc1","paymentMethod":"online"}`,
			setup:          noCreateCall,
			wantStatusCode: http.StatusBadRequest,
			wantCode:       CodeValidation,
		},
		{
			name:           "discount_mismatch_return_400",
			token:          &models.TokenPayload{UserID: testUserID},
			body:           `{"cart":[{"id":1,"quantity":1}],"summary":{"deliveryCharge":0},"locationId":"loc1","pointsUsed":10,"discountFromPoints":100,"paymentMethod":"cod"}`,
			setup:          noCreateCall,
			wantStatusCode: http.StatusBadRequest,
			wantCode:       CodeValidation,
		},
		{
			name:  "unserviceable_city_return_400",
			token: &models.TokenPayload{UserID: testUserID},
			body:  validOrderBody,
			setup: func(t *testing.T) *mocks.MockOrderService {
				svcMock := mocks.NewMockOrderService(gomock.NewController(t))
				svcMock.EXPECT().Create(gomock.Any(), gomock.Any()).Return(int64(0), models.ErrCityUnserviceable)
				return svcMock
			},
			wantStatusCode: http.StatusBadRequest,
			wantCode:       CodeCityUnserviceable,
		},
		{
			name:  "incomplete_profile_return_400",
			token: &models.TokenPayload{UserID: testUserID},
			body:  validOrderBody,
			setup: func(t *testing.T) *mocks.MockOrderService {
				svcMock := mocks.NewMockOrderService(gomock.NewController(t))
				svcMock.EXPECT().Create(gomock.Any(), gomock.Any()).Return(int64(0), models.ErrIncompleteProfile)
				return svcMock
			},
			wantStatusCode: http.StatusBadRequest,
			wantCode:       CodeIncompleteProfile,
		},
		{
			name:  "order_failed_return_500",
			token: &models.TokenPayload{UserID: testUserID},
			body:  validOrderBody,
			setup: func(t *testing.T) *mocks.MockOrderService {
				svcMock := mocks.NewMockOrderService(gomock.NewController(t))
				svcMock.EXPECT().Create(gomock.Any(), gomock.Any()).Return(int64(0), models.ErrOrderFailed)
				return svcMock
			},
			wantStatusCode: http.StatusInternalServerError,
			wantCode:       CodeOrderFailed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			ctx := context.WithValue(req.Context(), authPayloadKey, tt.token)

			handler := NewOrderHandler(tt.setup(t))
			h := handler.CreateOrder()
			h(w, req.WithContext(ctx))

			res := w.Result()
			defer res.Body.Close()
			assert.Equal(t, tt.wantStatusCode, res.StatusCode)
			resBody, err := io.ReadAll(res.Body)
			require.NoError(t, err)

			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, decodeError(t, resBody).Code)
				return
			}
			var got createOrderResponse
			require.NoError(t, json.Unmarshal(resBody, &got))
			assert.Equal(t, tt.wantOrderID, got.OrderID)
		})
	}
}

func noCreateCall(t *testing.T) *mocks.MockOrderService {
	svcMock := mocks.NewMockOrderService(gomock.NewController(t))
	svcMock.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)
	return svcMock
}

func TestOrderHandler_ListUserOrders(t *testing.T) {
	createdAt := time.Date(2025, 3, 14, 18, 30, 0, 0, time.UTC)
	image := "https://cdn.example.com/paneer.jpg"

	tests := []struct {
		name           string
		token          *models.TokenPayload
		setup          func(t *testing.T) *mocks.MockOrderService
		wantStatusCode int
		wantBody       []orderResponse
	}{
		{
			name:  "valid_request_return_200",
			token: &models.TokenPayload{UserID: testUserID},
			setup: func(t *testing.T) *mocks.MockOrderService {
				svcMock := mocks.NewMockOrderService(gomock.NewController(t))
				svcMock.EXPECT().ListUserOrders(gomock.Any(), testUserID).Return([]models.OrderDetails{
					{
						Order: models.Order{
							ID:             5,
							OrderNumber:    1005,
							UserID:         testUserID,
							LocationID:     "loc1",
							DeliveryCharge: 20,
							TotalAmount:    260,
							Status:         models.OrderStatusConfirmed,
							OTP:            "482913",
							PaymentMethod:  "cod",
							CreatedAt:      createdAt,
						},
						Items: []models.OrderItem{
							{ID: 1, OrderID: 5, MenuItemID: 3, Quantity: 2, Price: 120, Name: "Paneer Tikka", ImageURL: &image, IsVeg: true},
						},
					},
				}, nil)
				return svcMock
			},
			wantStatusCode: http.StatusOK,
			wantBody: []orderResponse{{
				ID:             5,
				OrderNumber:    1005,
				LocationID:     "loc1",
				DeliveryCharge: 20,
				TotalAmount:    260,
				Status:         "confirmed",
				PaymentMethod:  "cod",
				OTP:            "482913",
				CreatedAt:      createdAt.Format(time.RFC3339),
				Items: []orderItemResponse{
					{ID: 1, MenuItemID: 3, Quantity: 2, Price: 120, Name: "Paneer Tikka", ImageURL: &image, IsVeg: true},
				},
			}},
		},
		{
			name:  "no_orders_return_empty_list",
			token: &models.TokenPayload{UserID: testUserID},
			setup: func(t *testing.T) *mocks.MockOrderService {
				svcMock := mocks.NewMockOrderService(gomock.NewController(t))
				svcMock.EXPECT().ListUserOrders(gomock.Any(), testUserID).Return([]models.OrderDetails{}, nil)
				return svcMock
			},
			wantStatusCode: http.StatusOK,
			wantBody:       []orderResponse{},
		},
		{
			name: "unauthorized_request_return_401",
			setup: func(t *testing.T) *mocks.MockOrderService {
				svcMock := mocks.NewMockOrderService(gomock.NewController(t))
				svcMock.EXPECT().ListUserOrders(gomock.Any(), gomock.Any()).Times(0)
				return svcMock
			},
			wantStatusCode: http.StatusUnauthorized,
		},
		{
			name:  "internal_error_return_500",
			token: &models.TokenPayload{UserID: testUserID},
			setup: func(t *testing.T) *mocks.MockOrderService {
				svcMock := mocks.NewMockOrderService(gomock.NewController(t))
				svcMock.EXPECT().ListUserOrders(gomock.Any(), gomock.Any()).Return(nil, models.ErrInternalError)
				return svcMock
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/orders", nil)
			w := httptest.NewRecorder()
			ctx := context.WithValue(req.Context(), authPayloadKey, tt.token)

			handler := NewOrderHandler(tt.setup(t))
			h := handler.ListUserOrders()
			h(w, req.WithContext(ctx))

			res := w.Result()
			defer res.Body.Close()
			assert.Equal(t, tt.wantStatusCode, res.StatusCode)
			resBody, err := io.ReadAll(res.Body)
			require.NoError(t, err)

			if tt.wantBody != nil {
				var got []orderResponse
				require.NoError(t, json.Unmarshal(resBody, &got))

				if diff := cmp.Diff(tt.wantBody, got); diff != "" {
					t.Errorf("mismatch (-want +got):\n%s", diff)
				}
			}
		})
	}
}

func TestOrderHandler_CancelOrder(t *testing.T) {
	cancelledAt := time.Date(2025, 3, 14, 18, 32, 0, 0, time.UTC)
	cancelled := &models.Order{ID: 9, UserID: testUserID, Status: models.OrderStatusCancelled, CancelledAt: &cancelledAt, PointsUsed: 30}

	tests := []struct {
		name           string
		token          *models.TokenPayload
		body           string
		setup          func(t *testing.T) *mocks.MockOrderService
		wantStatusCode int
		wantCode       string
		wantBody       *cancelOrderResponse
	}{
		{
			name:  "cancelled_with_refund_return_200",
			token: &models.TokenPayload{UserID: testUserID},
			body:  `{"orderId":9}`,
			setup: func(t *testing.T) *mocks.MockOrderService {
				svcMock := mocks.NewMockOrderService(gomock.NewController(t))
				svcMock.EXPECT().Cancel(gomock.Any(), testUserID, int64(9), "").Return(&models.CancelResult{
					Order:  cancelled,
					Refund: models.RefundOutcome{Status: models.RefundSucceeded, Points: 30},
				}, nil)
				return svcMock
			},
			wantStatusCode: http.StatusOK,
			wantBody: &cancelOrderResponse{
				Success: true,
				Message: "Order cancelled successfully",
				Refund:  refundResponse{Status: "succeeded", Points: 30},
			},
		},
		{
			name:  "refund_failed_still_return_200",
			token: &models.TokenPayload{UserID: testUserID},
			body:  `{"orderId":9,"reason":"changed my mind"}`,
			setup: func(t *testing.T) *mocks.MockOrderService {
				svcMock := mocks.NewMockOrderService(gomock.NewController(t))
				svcMock.EXPECT().Cancel(gomock.Any(), testUserID, int64(9), "changed my mind").Return(&models.CancelResult{
					Order:  cancelled,
					Refund: models.RefundOutcome{Status: models.RefundFailed, Points: 30},
				}, nil)
				return svcMock
			},
			wantStatusCode: http.StatusOK,
			wantBody: &cancelOrderResponse{
				Success: true,
				Message: "Order cancelled, loyalty points refund is pending",
				Refund:  refundResponse{Status: "failed", Points: 30},
			},
		},
		{
			name:           "missing_order_id_return_400",
			token:          &models.TokenPayload{UserID: testUserID},
			body:           `{}`,
			setup:          noCancelCall,
			wantStatusCode: http.StatusBadRequest,
			wantCode:       CodeValidation,
		},
		{
			name:           "unauthorized_request_return_401",
			body:           `{"orderId":9}`,
			setup:          noCancelCall,
			wantStatusCode: http.StatusUnauthorized,
			wantCode:       CodeUnauthorized,
		},
		{
			name:           "window_expired_return_400",
			token:          &models.TokenPayload{UserID: testUserID},
			body:           `{"orderId":9}`,
			setup:          cancelFails(models.ErrWindowExpired),
			wantStatusCode: http.StatusBadRequest,
			wantCode:       CodeWindowExpired,
		},
		{
			name:           "already_cancelled_return_400",
			token:          &models.TokenPayload{UserID: testUserID},
			body:           `{"orderId":9}`,
			setup:          cancelFails(models.ErrAlreadyCancelled),
			wantStatusCode: http.StatusBadRequest,
			wantCode:       CodeAlreadyCancelled,
		},
		{
			name:           "other_users_order_return_403",
			token:          &models.TokenPayload{UserID: testUserID},
			body:           `{"orderId":9}`,
			setup:          cancelFails(models.ErrForbidden),
			wantStatusCode: http.StatusForbidden,
			wantCode:       CodeForbidden,
		},
		{
			name:           "unknown_order_return_404",
			token:          &models.TokenPayload{UserID: testUserID},
			body:           `{"orderId":9}`,
			setup:          cancelFails(models.ErrOrderNotFound),
			wantStatusCode: http.StatusNotFound,
			wantCode:       CodeNotFound,
		},
		{
			name:           "raw_error_not_leaked_return_500",
			token:          &models.TokenPayload{UserID: testUserID},
			body:           `{"orderId":9}`,
			setup:          cancelFails(errors.New(`pq: relation "orders" does not exist`)),
			wantStatusCode: http.StatusInternalServerError,
			wantCode:       CodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/orders/cancel", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			ctx := context.WithValue(req.Context(), authPayloadKey, tt.token)

			handler := NewOrderHandler(tt.setup(t))
			h := handler.CancelOrder()
			h(w, req.WithContext(ctx))

			res := w.Result()
			defer res.Body.Close()
			assert.Equal(t, tt.wantStatusCode, res.StatusCode)
			resBody, err := io.ReadAll(res.Body)
			require.NoError(t, err)

			if tt.wantCode != "" {
				got := decodeError(t, resBody)
				assert.Equal(t, tt.wantCode, got.Code)
				assert.NotContains(t, got.Message, "relation")
				return
			}

			var got cancelOrderResponse
			require.NoError(t, json.Unmarshal(resBody, &got))
			if diff := cmp.Diff(*tt.wantBody, got); diff != "" {
				t.Errorf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func noCancelCall(t *testing.T) *mocks.MockOrderService {
	svcMock := mocks.NewMockOrderService(gomock.NewController(t))
	svcMock.EXPECT().Cancel(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
	return svcMock
}

func cancelFails(err error) func(t *testing.T) *mocks.MockOrderService {
	return func(t *testing.T) *mocks.MockOrderService {
		svcMock := mocks.NewMockOrderService(gomock.NewController(t))
		svcMock.EXPECT().Cancel(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, err)
		return svcMock
	}
}
