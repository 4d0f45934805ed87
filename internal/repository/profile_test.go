package repository

import (
	"context"
	"github.com/google/uuid"
	"github.com/rookgm/foodorder/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"strings"
	"testing"
)

func TestProfileRepository(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	repo := NewProfileRepository(db)

	city := "Badlapur-" + uuid.NewString()[:8]
	_, err := db.Exec(ctx, `INSERT INTO serviceable_cities (name) VALUES ($1)`, city)
	require.NoError(t, err)

	ok, err := repo.IsServiceableCity(ctx, strings.ToUpper(city))
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.IsServiceableCity(ctx, "Atlantis-"+uuid.NewString())
	require.NoError(t, err)
	assert.False(t, ok)

	adminID, _ := newProfile(t, db, 0)
	userID, code := newProfile(t, db, 25)
	_, err = db.Exec(ctx, `INSERT INTO admins (user_id) VALUES ($1)`, adminID)
	require.NoError(t, err)

	ok, err = repo.IsAdmin(ctx, adminID)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.IsAdmin(ctx, userID)
	require.NoError(t, err)
	assert.False(t, ok)

	profile, err := repo.GetProfile(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(25), profile.LoyaltyPoints)
	require.NotNil(t, profile.ReferralCode)
	assert.Equal(t, code, *profile.ReferralCode)
	assert.Nil(t, profile.ReferredBy)

	_, err = repo.GetProfile(ctx, uuid.New())
	assert.ErrorIs(t, err, models.ErrDataNotFound)
}
