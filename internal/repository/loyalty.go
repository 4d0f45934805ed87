package repository

import (
	"context"
	"errors"
	"fmt"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rookgm/foodorder/internal/models"
	"github.com/rookgm/foodorder/internal/repository/postgres"
)

const (
	creditPointsQuery = `
						UPDATE profiles
						SET loyalty_points = loyalty_points + $2
						WHERE id = $1
`
	insertTransactionQuery = `
						INSERT INTO loyalty_transactions (user_id, points, transaction_type, description, order_id)
						VALUES ($1, $2, $3, $4, $5)
`
	selectBalanceQuery = `
						SELECT loyalty_points FROM profiles
						WHERE id = $1
`
	selectTransactionsByUserIDQuery = `
						SELECT id, user_id, points, transaction_type, description, order_id, created_at
						FROM loyalty_transactions
						WHERE user_id = $1
						ORDER BY created_at DESC, id DESC
`
	selectReferrerForUpdateQuery = `
						SELECT id FROM profiles
						WHERE lower(referral_code) = lower($1)
						FOR UPDATE
`
	setReferredByQuery = `
						UPDATE profiles
						SET referred_by = $2
						WHERE id = $1 AND referred_by IS NULL
`
)

// LoyaltyRepository implements LoyaltyRepository interface
type LoyaltyRepository struct {
	db *postgres.DB
}

// NewLoyaltyRepository creates new loyalty repository instance
func NewLoyaltyRepository(db *postgres.DB) *LoyaltyRepository {
	return &LoyaltyRepository{db: db}
}

// RefundPoints returns points of cancelled order to the user balance and
// appends a refund ledger entry in one transaction.
// Returns ErrConflictData if the order has been refunded already.
func (lr *LoyaltyRepository) RefundPoints(ctx context.Context, userID uuid.UUID, orderID int64, points int64) error {
	err := lr.db.WithTx(ctx, func(tx pgx.Tx) error {
		desc := fmt.Sprintf("Refund for cancelled order #%d", orderID)
		return credit(ctx, tx, userID, points, models.TransactionRefund, desc, &orderID)
	})
	if err != nil {
		return refundError(lr.db.ErrorCode(err), err)
	}

	return nil
}

// refundError reports a second refund of the same order as ErrConflictData
func refundError(code string, err error) error {
	if code == pgErrUniqueViolationCode {
		return models.ErrConflictData
	}
	return err
}

// Balance returns current points balance
func (lr *LoyaltyRepository) Balance(ctx context.Context, userID uuid.UUID) (models.Balance, error) {
	var b models.Balance
	if err := lr.db.QueryRow(ctx, selectBalanceQuery, userID).Scan(&b.Points); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Balance{}, models.ErrDataNotFound
		}
		return models.Balance{}, err
	}

	return b, nil
}

// GetTransactionsByUserID returns ledger entries of user, newest first
func (lr *LoyaltyRepository) GetTransactionsByUserID(ctx context.Context, userID uuid.UUID) ([]models.LoyaltyTransaction, error) {
	rows, err := lr.db.Query(ctx, selectTransactionsByUserIDQuery, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	txs := []models.LoyaltyTransaction{}

	for rows.Next() {
		t := models.LoyaltyTransaction{}
		err = rows.Scan(&t.ID, &t.UserID, &t.Points, &t.TransactionType, &t.Description, &t.OrderID, &t.CreatedAt)
		if err != nil {
			return nil, err
		}
		txs = append(txs, t)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return txs, nil
}

// ApplyReferral links user to the owner of code and credits both of them.
// Codes match case-insensitively.
func (lr *LoyaltyRepository) ApplyReferral(ctx context.Context, userID uuid.UUID, code string, points int64) error {
	return lr.db.WithTx(ctx, func(tx pgx.Tx) error {
		var referrerID uuid.UUID
		if err := tx.QueryRow(ctx, selectReferrerForUpdateQuery, code).Scan(&referrerID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return models.ErrReferralCodeNotFound
			}
			return err
		}
		if referrerID == userID {
			return models.ErrSelfReferral
		}

		cmd, err := tx.Exec(ctx, setReferredByQuery, userID, referrerID)
		if err != nil {
			return err
		}
		if cmd.RowsAffected() == 0 {
			return models.ErrAlreadyReferred
		}

		if err := credit(ctx, tx, userID, points, models.TransactionReferralBonus, "Referral bonus", nil); err != nil {
			return err
		}
		return credit(ctx, tx, referrerID, points, models.TransactionReferralReward, "Referral reward", nil)
	})
}

// credit adds points to balance and appends the matching ledger entry,
// the cached balance and the ledger change together
func credit(ctx context.Context, tx pgx.Tx, userID uuid.UUID, points int64, tt models.TransactionType, desc string, orderID *int64) error {
	cmd, err := tx.Exec(ctx, creditPointsQuery, userID, points)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return models.ErrDataNotFound
	}

	_, err = tx.Exec(ctx, insertTransactionQuery, userID, points, tt, desc, orderID)
	return err
}
