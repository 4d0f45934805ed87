package handler

import (
	"encoding/json"
	"errors"
	"github.com/rookgm/foodorder/internal/logger"
	"github.com/rookgm/foodorder/internal/models"
	"go.uber.org/zap"
	"net/http"
)

// error codes of the error envelope
const (
	CodeValidation            = "validation_error"
	CodeUnauthorized          = "unauthorized"
	CodeForbidden             = "forbidden"
	CodeNotAdmin              = "not_admin"
	CodeNotFound              = "not_found"
	CodeAlreadyCancelled      = "already_cancelled"
	CodeCannotUpdateCancelled = "cannot_update_cancelled"
	CodeCannotUpdateDelivered = "cannot_update_delivered"
	CodeInvalidState          = "invalid_state"
	CodeNotCancellable        = "not_cancellable"
	CodeWindowExpired         = "window_expired"
	CodeInvalidOTP            = "invalid_otp"
	CodeIncompleteProfile     = "incomplete_profile"
	CodeCityUnserviceable     = "city_unserviceable"
	CodeInsufficientPoints    = "insufficient_points"
	CodeItemUnavailable       = "item_unavailable"
	CodeReferralNotFound      = "referral_not_found"
	CodeSelfReferral          = "self_referral"
	CodeAlreadyReferred       = "already_referred"
	CodeRateLimited           = "rate_limited"
	CodeOrderFailed           = "order_failed"
	CodeInternal              = "internal_error"
)

type errorCode struct {
	err    error
	code   string
	status int
}

var errorCodes = []errorCode{
	{models.ErrValidation, CodeValidation, http.StatusBadRequest},
	{models.ErrUnauthorized, CodeUnauthorized, http.StatusUnauthorized},
	{models.ErrNotAdmin, CodeNotAdmin, http.StatusForbidden},
	{models.ErrForbidden, CodeForbidden, http.StatusForbidden},
	{models.ErrOrderNotFound, CodeNotFound, http.StatusNotFound},
	{models.ErrProfileNotFound, CodeNotFound, http.StatusNotFound},
	{models.ErrAlreadyCancelled, CodeAlreadyCancelled, http.StatusBadRequest},
	{models.ErrCannotUpdateCancelled, CodeCannotUpdateCancelled, http.StatusBadRequest},
	{models.ErrCannotUpdateDelivered, CodeCannotUpdateDelivered, http.StatusBadRequest},
	{models.ErrInvalidState, CodeInvalidState, http.StatusBadRequest},
	{models.ErrNotCancellable, CodeNotCancellable, http.StatusBadRequest},
	{models.ErrWindowExpired, CodeWindowExpired, http.StatusBadRequest},
	{models.ErrInvalidOTP, CodeInvalidOTP, http.StatusBadRequest},
	{models.ErrIncompleteProfile, CodeIncompleteProfile, http.StatusBadRequest},
	{models.ErrCityUnserviceable, CodeCityUnserviceable, http.StatusBadRequest},
	{models.ErrInsufficientPoints, CodeInsufficientPoints, http.StatusBadRequest},
	{models.ErrMenuItemNotFound, CodeItemUnavailable, http.StatusBadRequest},
	{models.ErrReferralCodeNotFound, CodeReferralNotFound, http.StatusNotFound},
	{models.ErrSelfReferral, CodeSelfReferral, http.StatusBadRequest},
	{models.ErrAlreadyReferred, CodeAlreadyReferred, http.StatusBadRequest},
	{models.ErrRateLimited, CodeRateLimited, http.StatusTooManyRequests},
	{models.ErrOrderFailed, CodeOrderFailed, http.StatusInternalServerError},
}

type errorResponse struct {
	OK      bool   `json:"ok"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

type okResponse struct {
	OK   bool `json:"ok"`
	Data any  `json:"data"`
}

// writeError writes error envelope. Unknown errors become internal_error
// and their text is not sent to the client.
func writeError(w http.ResponseWriter, err error) {
	for _, ec := range errorCodes {
		if errors.Is(err, ec.err) {
			msg := ec.err.Error()
			// validation errors carry field details
			if ec.err == models.ErrValidation {
				msg = err.Error()
			}
			writeJSON(w, ec.status, errorResponse{Code: ec.code, Message: msg})
			return
		}
	}

	logger.Log.Error("unhandled error", zap.Error(err))
	writeJSON(w, http.StatusInternalServerError, errorResponse{Code: CodeInternal, Message: "internal error"})
}

// writeOK writes success envelope
func writeOK(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, okResponse{OK: true, Data: data})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Log.Debug("encode response", zap.Error(err))
	}
}
