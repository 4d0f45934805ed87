package repository

import (
	"context"
	"github.com/google/uuid"
	"github.com/rookgm/foodorder/internal/models"
	"github.com/rookgm/foodorder/internal/repository/postgres"
	"github.com/stretchr/testify/require"
	"os"
	"strings"
	"testing"
	"time"
)

// testDB connects to the scratch database from TEST_DATABASE_URI and migrates it.
// Tests that need postgres are skipped when it is not set.
func testDB(t *testing.T) *postgres.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DATABASE_URI")
	if dsn == "" {
		t.Skip("TEST_DATABASE_URI is not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	db, err := postgres.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(db.Close)

	require.NoError(t, db.Migrate())

	return db
}

// fixture is a customer with a location and two menu items,
// every fixture uses fresh ids so tests do not see each other's rows
type fixture struct {
	db         *postgres.DB
	userID     uuid.UUID
	code       string
	locationID string
	itemID     int64
	soldOutID  int64
}

const (
	testItemPrice = 120
	testOTP       = "482913"
)

func newFixture(t *testing.T, db *postgres.DB, points int64) fixture {
	t.Helper()
	ctx := context.Background()

	f := fixture{db: db, locationID: "loc-" + uuid.NewString()}
	f.userID, f.code = newProfile(t, db, points)

	_, err := db.Exec(ctx, `INSERT INTO locations (id, name, city) VALUES ($1, 'Station Road', 'Badlapur')`, f.locationID)
	require.NoError(t, err)

	err = db.QueryRow(ctx,
		`INSERT INTO menu_items (location_id, name, price, is_veg) VALUES ($1, 'Paneer Tikka', $2, TRUE) RETURNING id`,
		f.locationID, testItemPrice).Scan(&f.itemID)
	require.NoError(t, err)

	err = db.QueryRow(ctx,
		`INSERT INTO menu_items (location_id, name, price, is_available) VALUES ($1, 'Seasonal Thali', 200, FALSE) RETURNING id`,
		f.locationID).Scan(&f.soldOutID)
	require.NoError(t, err)

	return f
}

// newProfile inserts profile with points and a mixed-case referral code
func newProfile(t *testing.T, db *postgres.DB, points int64) (uuid.UUID, string) {
	t.Helper()

	id := uuid.New()
	code := "Ref" + strings.ToUpper(id.String()[:8])

	_, err := db.Exec(context.Background(),
		`INSERT INTO profiles (id, full_name, city, loyalty_points, referral_code) VALUES ($1, 'Asha Patil', 'Badlapur', $2, $3)`,
		id, points, code)
	require.NoError(t, err)

	return id, code
}

func (f fixture) newOrder(points int64, items ...models.CartItem) *models.NewOrder {
	return &models.NewOrder{
		UserID:         f.userID,
		LocationID:     f.locationID,
		DeliveryCharge: 20,
		PointsUsed:     points,
		PaymentMethod:  models.PaymentMethodCOD,
		OTP:            testOTP,
		Items:          items,
	}
}

func balanceOf(t *testing.T, db *postgres.DB, userID uuid.UUID) int64 {
	t.Helper()

	b, err := NewLoyaltyRepository(db).Balance(context.Background(), userID)
	require.NoError(t, err)
	return b.Points
}

func ledgerOf(t *testing.T, db *postgres.DB, userID uuid.UUID) []models.LoyaltyTransaction {
	t.Helper()

	txs, err := NewLoyaltyRepository(db).GetTransactionsByUserID(context.Background(), userID)
	require.NoError(t, err)
	return txs
}

func countRows(t *testing.T, db *postgres.DB, query string, args ...any) int {
	t.Helper()

	var n int
	require.NoError(t, db.QueryRow(context.Background(), query, args...).Scan(&n))
	return n
}
