package models

import (
	"github.com/google/uuid"
	"time"
)

// TransactionType is kind of loyalty ledger entry
type TransactionType string

const (
	TransactionRefund         TransactionType = "refund"
	TransactionRedeem         TransactionType = "redeem"
	TransactionEarn           TransactionType = "earn"
	TransactionReferralBonus  TransactionType = "referral_bonus"
	TransactionReferralReward TransactionType = "referral_reward"
)

// LoyaltyTransaction is an append-only ledger entry
type LoyaltyTransaction struct {
	ID              int64
	UserID          uuid.UUID
	Points          int64
	TransactionType TransactionType
	Description     string
	OrderID         *int64
	CreatedAt       time.Time
}

// Balance is current loyalty points of user
type Balance struct {
	Points int64
}

// Profile is user profile
type Profile struct {
	ID            uuid.UUID
	FullName      *string
	Phone         *string
	City          *string
	LoyaltyPoints int64
	ReferralCode  *string
	ReferredBy    *uuid.UUID
}

// RefundStatus is outcome of the points refund that follows a cancellation
type RefundStatus string

const (
	RefundNone      RefundStatus = "none"
	RefundSucceeded RefundStatus = "succeeded"
	RefundFailed    RefundStatus = "failed"
)

// RefundOutcome is the secondary effect of a cancellation
type RefundOutcome struct {
	Status RefundStatus
	Points int64
}

// CancelResult reports the cancellation and the refund separately,
// a failed refund does not undo the cancellation.
type CancelResult struct {
	Order  *Order
	Refund RefundOutcome
}
