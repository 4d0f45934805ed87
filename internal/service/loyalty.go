package service

import (
	"context"
	"errors"
	"github.com/google/uuid"
	"github.com/rookgm/foodorder/internal/logger"
	"github.com/rookgm/foodorder/internal/models"
	"go.uber.org/zap"
	"strings"
)

// DefaultReferralPoints is credited to both sides of a referral
const DefaultReferralPoints = 50

// LoyaltyService implements LoyaltyService interface
type LoyaltyService struct {
	repo           LoyaltyRepository
	profiles       ProfileRepository
	referralPoints int64
}

// NewLoyaltyService creates new LoyaltyService instance
func NewLoyaltyService(repo LoyaltyRepository, profiles ProfileRepository, referralPoints int64) *LoyaltyService {
	if referralPoints <= 0 {
		referralPoints = DefaultReferralPoints
	}
	return &LoyaltyService{
		repo:           repo,
		profiles:       profiles,
		referralPoints: referralPoints,
	}
}

// GetBalance returns current points balance of user
func (ls *LoyaltyService) GetBalance(ctx context.Context, userID uuid.UUID) (models.Balance, error) {
	b, err := ls.repo.Balance(ctx, userID)
	if err != nil {
		if errors.Is(err, models.ErrDataNotFound) {
			return models.Balance{}, models.ErrProfileNotFound
		}
		logger.Log.Error("get balance", zap.String("user_id", userID.String()), zap.Error(err))
		return models.Balance{}, models.ErrInternalError
	}
	return b, nil
}

// GetTransactions returns loyalty ledger of user
func (ls *LoyaltyService) GetTransactions(ctx context.Context, userID uuid.UUID) ([]models.LoyaltyTransaction, error) {
	txs, err := ls.repo.GetTransactionsByUserID(ctx, userID)
	if err != nil {
		logger.Log.Error("get loyalty transactions", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, models.ErrInternalError
	}
	return txs, nil
}

// ApplyReferral applies referral code of another user once per user
func (ls *LoyaltyService) ApplyReferral(ctx context.Context, userID uuid.UUID, code string) error {
	code = strings.TrimSpace(code)

	profile, err := ls.profiles.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, models.ErrDataNotFound) {
			return models.ErrProfileNotFound
		}
		logger.Log.Error("get profile", zap.String("user_id", userID.String()), zap.Error(err))
		return models.ErrInternalError
	}
	if profile.ReferredBy != nil {
		return models.ErrAlreadyReferred
	}
	if profile.ReferralCode != nil && strings.EqualFold(*profile.ReferralCode, code) {
		return models.ErrSelfReferral
	}

	err = ls.repo.ApplyReferral(ctx, userID, code, ls.referralPoints)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrReferralCodeNotFound),
			errors.Is(err, models.ErrSelfReferral),
			errors.Is(err, models.ErrAlreadyReferred):
			return err
		}
		logger.Log.Error("apply referral", zap.String("user_id", userID.String()), zap.Error(err))
		return models.ErrInternalError
	}

	logger.Log.Info("referral applied", zap.String("user_id", userID.String()), zap.Int64("points", ls.referralPoints))

	return nil
}
