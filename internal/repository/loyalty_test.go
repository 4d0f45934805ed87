package repository

import (
	"context"
	"errors"
	"github.com/google/uuid"
	"github.com/rookgm/foodorder/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"strings"
	"testing"
)

func TestRefundError(t *testing.T) {
	raw := errors.New("connection reset")

	assert.ErrorIs(t, refundError(pgErrUniqueViolationCode, raw), models.ErrConflictData)
	assert.ErrorIs(t, refundError("", raw), raw)
}

func TestLoyaltyRepository_RefundPoints(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	f := newFixture(t, db, 100)
	repo := NewLoyaltyRepository(db)

	orderID, err := NewOrderRepository(db).CreateOrder(ctx, f.newOrder(30, models.CartItem{MenuItemID: f.itemID, Quantity: 1}))
	require.NoError(t, err)
	require.Equal(t, int64(70), balanceOf(t, db, f.userID))

	require.NoError(t, repo.RefundPoints(ctx, f.userID, orderID, 30))
	assert.Equal(t, int64(100), balanceOf(t, db, f.userID))

	// the second refund is rejected and rolled back with its balance change
	err = repo.RefundPoints(ctx, f.userID, orderID, 30)
	assert.ErrorIs(t, err, models.ErrConflictData)
	assert.Equal(t, int64(100), balanceOf(t, db, f.userID))

	var refunds int
	for _, tx := range ledgerOf(t, db, f.userID) {
		if tx.TransactionType == models.TransactionRefund {
			refunds++
			assert.Equal(t, int64(30), tx.Points)
		}
	}
	assert.Equal(t, 1, refunds)
}

func TestLoyaltyRepository_RefundPoints_UnknownUser(t *testing.T) {
	db := testDB(t)

	err := NewLoyaltyRepository(db).RefundPoints(context.Background(), uuid.New(), 1, 30)
	assert.ErrorIs(t, err, models.ErrDataNotFound)
}

func TestLoyaltyRepository_ApplyReferral(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	repo := NewLoyaltyRepository(db)

	referrerID, code := newProfile(t, db, 50)
	userID, _ := newProfile(t, db, 0)

	// codes match whatever their case
	require.NoError(t, repo.ApplyReferral(ctx, userID, strings.ToLower(code), 50))
	assert.Equal(t, int64(50), balanceOf(t, db, userID))
	assert.Equal(t, int64(100), balanceOf(t, db, referrerID))

	userLedger := ledgerOf(t, db, userID)
	require.Len(t, userLedger, 1)
	assert.Equal(t, models.TransactionReferralBonus, userLedger[0].TransactionType)

	referrerLedger := ledgerOf(t, db, referrerID)
	require.Len(t, referrerLedger, 1)
	assert.Equal(t, models.TransactionReferralReward, referrerLedger[0].TransactionType)

	profile, err := NewProfileRepository(db).GetProfile(ctx, userID)
	require.NoError(t, err)
	require.NotNil(t, profile.ReferredBy)
	assert.Equal(t, referrerID, *profile.ReferredBy)

	tests := []struct {
		name    string
		userID  uuid.UUID
		code    string
		wantErr error
	}{
		{name: "second_application", userID: userID, code: code, wantErr: models.ErrAlreadyReferred},
		{name: "own_code", userID: referrerID, code: strings.ToUpper(code), wantErr: models.ErrSelfReferral},
		{name: "unknown_code", userID: userID, code: "NOPE-" + uuid.NewString(), wantErr: models.ErrReferralCodeNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := repo.ApplyReferral(ctx, tt.userID, tt.code, 50)
			assert.ErrorIs(t, err, tt.wantErr)

			// rejected applications change nothing
			assert.Equal(t, int64(50), balanceOf(t, db, userID))
			assert.Equal(t, int64(100), balanceOf(t, db, referrerID))
		})
	}
}
