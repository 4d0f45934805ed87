package models

import "errors"

var (
	ErrConflictData  = errors.New("data conflicts with existing data")
	ErrDataNotFound  = errors.New("data not found")
	ErrInternalError = errors.New("internal error")

	ErrValidation         = errors.New("invalid request")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrNotAdmin           = errors.New("admin privileges required")
	ErrForbidden          = errors.New("order belongs to another user")
	ErrRateLimited        = errors.New("too many requests")
	ErrIncompleteProfile  = errors.New("delivery city is not set in profile")
	ErrCityUnserviceable  = errors.New("delivery city is not serviceable")
	ErrOrderFailed        = errors.New("order could not be created")
	ErrInsufficientPoints = errors.New("insufficient loyalty points")
	ErrMenuItemNotFound   = errors.New("menu item is not available")

	ErrOrderNotFound         = errors.New("order not found")
	ErrProfileNotFound       = errors.New("profile not found")
	ErrAlreadyCancelled      = errors.New("order is already cancelled")
	ErrCannotUpdateCancelled = errors.New("cannot modify cancelled order")
	ErrCannotUpdateDelivered = errors.New("cannot modify delivered order")
	ErrInvalidState          = errors.New("order status does not allow this action")
	ErrNotCancellable        = errors.New("only cash on delivery orders can be cancelled")
	ErrWindowExpired         = errors.New("cancellation window has expired")
	ErrInvalidOTP            = errors.New("invalid otp")

	ErrReferralCodeNotFound = errors.New("referral code not found")
	ErrSelfReferral         = errors.New("cannot apply own referral code")
	ErrAlreadyReferred      = errors.New("referral code already applied")
)
