package handler

import (
	"context"
	"encoding/json"
	"github.com/google/uuid"
	"github.com/rookgm/foodorder/internal/models"
	"github.com/rookgm/foodorder/internal/validation"
	"net/http"
	"time"
)

//go:generate mockgen -source=loyalty.go -destination=mocks/loyalty_mock.go -package=mocks

type LoyaltyService interface {
	// GetBalance returns current user points
	GetBalance(ctx context.Context, userID uuid.UUID) (models.Balance, error)
	// GetTransactions returns user points ledger
	GetTransactions(ctx context.Context, userID uuid.UUID) ([]models.LoyaltyTransaction, error)
	// ApplyReferral applies referral code of another user
	ApplyReferral(ctx context.Context, userID uuid.UUID, code string) error
}

// LoyaltyHandler represents HTTP handler for loyalty-related requests
type LoyaltyHandler struct {
	svc LoyaltyService
}

// NewLoyaltyHandler creates new LoyaltyHandler instance
func NewLoyaltyHandler(svc LoyaltyService) *LoyaltyHandler {
	return &LoyaltyHandler{svc: svc}
}

type balanceResponse struct {
	Points int64 `json:"loyalty_points"`
}

// GetBalance returns current user points
func (lh *LoyaltyHandler) GetBalance() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := getAuthPayload(r.Context(), authPayloadKey)
		if !ok {
			writeError(w, models.ErrUnauthorized)
			return
		}

		balance, err := lh.svc.GetBalance(r.Context(), payload.UserID)
		if err != nil {
			writeError(w, err)
			return
		}

		writeOK(w, balanceResponse{Points: balance.Points})
	}
}

type transactionResponse struct {
	ID              int64  `json:"id"`
	Points          int64  `json:"points"`
	TransactionType string `json:"transaction_type"`
	Description     string `json:"description"`
	OrderID         *int64 `json:"order_id"`
	CreatedAt       string `json:"created_at"`
}

// GetTransactions returns loyalty ledger of user
func (lh *LoyaltyHandler) GetTransactions() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := getAuthPayload(r.Context(), authPayloadKey)
		if !ok {
			writeError(w, models.ErrUnauthorized)
			return
		}

		txs, err := lh.svc.GetTransactions(r.Context(), payload.UserID)
		if err != nil {
			writeError(w, err)
			return
		}

		resp := make([]transactionResponse, 0, len(txs))
		for _, tx := range txs {
			resp = append(resp, transactionResponse{
				ID:              tx.ID,
				Points:          tx.Points,
				TransactionType: string(tx.TransactionType),
				Description:     tx.Description,
				OrderID:         tx.OrderID,
				CreatedAt:       tx.CreatedAt.Format(time.RFC3339),
			})
		}

		writeOK(w, resp)
	}
}

type applyReferralRequest struct {
	Code string `json:"code" validate:"notblank,max=32"`
}

// ApplyReferral applies referral code
func (lh *LoyaltyHandler) ApplyReferral() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload, ok := getAuthPayload(r.Context(), authPayloadKey)
		if !ok {
			writeError(w, models.ErrUnauthorized)
			return
		}

		var req applyReferralRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, validation.Errorf("malformed request body"))
			return
		}
		defer r.Body.Close()

		if err := validation.Struct(req); err != nil {
			writeError(w, err)
			return
		}

		if err := lh.svc.ApplyReferral(r.Context(), payload.UserID, req.Code); err != nil {
			writeError(w, err)
			return
		}

		writeOK(w, struct{}{})
	}
}
