package repository

import (
	"context"
	"errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rookgm/foodorder/internal/models"
	"github.com/rookgm/foodorder/internal/repository/postgres"
)

const (
	selectProfileQuery = `
						SELECT id, full_name, phone, city, loyalty_points, referral_code, referred_by
						FROM profiles
						WHERE id = $1
`
	selectServiceableCityQuery = `
						SELECT EXISTS (SELECT 1 FROM serviceable_cities WHERE lower(name) = lower($1))
`
	selectAdminQuery = `
						SELECT EXISTS (SELECT 1 FROM admins WHERE user_id = $1)
`
)

// ProfileRepository implements ProfileRepository interface
type ProfileRepository struct {
	db *postgres.DB
}

// NewProfileRepository creates new ProfileRepository instance
func NewProfileRepository(db *postgres.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// GetProfile returns user profile
func (pr *ProfileRepository) GetProfile(ctx context.Context, userID uuid.UUID) (*models.Profile, error) {
	p := models.Profile{}
	err := pr.db.QueryRow(ctx, selectProfileQuery, userID).Scan(&p.ID, &p.FullName, &p.Phone, &p.City,
		&p.LoyaltyPoints, &p.ReferralCode, &p.ReferredBy)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, models.ErrDataNotFound
		}
		return nil, err
	}

	return &p, nil
}

// IsServiceableCity checks city against the allow-list, case-insensitive
func (pr *ProfileRepository) IsServiceableCity(ctx context.Context, city string) (bool, error) {
	var ok bool
	err := pr.db.QueryRow(ctx, selectServiceableCityQuery, city).Scan(&ok)
	return ok, err
}

// IsAdmin checks that user is listed in admins
func (pr *ProfileRepository) IsAdmin(ctx context.Context, userID uuid.UUID) (bool, error) {
	var ok bool
	err := pr.db.QueryRow(ctx, selectAdminQuery, userID).Scan(&ok)
	return ok, err
}
