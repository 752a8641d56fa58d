package repository

import (
	"context"
	"errors"

	"coupon-drop/internal/infra"
	"coupon-drop/internal/infra/db"
	"coupon-drop/internal/usecase/commands"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type CouponRepository struct{}

func NewCouponRepository() *CouponRepository {
	return &CouponRepository{}
}

func (r *CouponRepository) FindByID(ctx context.Context, tx db.DBTX, id uuid.UUID) (*commands.CouponSnapshot, error) {
	const query = `
		SELECT id, name, description, code, value, expires_at, claimed
		FROM coupons
		WHERE id = $1`

	var snapshot commands.CouponSnapshot
	err := tx.QueryRow(ctx, query, id).Scan(
		&snapshot.ID,
		&snapshot.Name,
		&snapshot.Description,
		&snapshot.Code,
		&snapshot.Value,
		&snapshot.ExpiresAt,
		&snapshot.Claimed,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, infra.WrapRepoErr("coupon not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find coupon by ID", err)
	}

	return &snapshot, nil
}

// MarkClaimed flips claimed only while it is still false. The row count
// tells the caller whether this request won the race for the coupon; this
// conditional update is the sole per-coupon serialization point.
func (r *CouponRepository) MarkClaimed(ctx context.Context, tx db.DBTX, id uuid.UUID) (int64, error) {
	const query = `
		UPDATE coupons
		SET claimed = true, updated_at = now()
		WHERE id = $1 AND claimed = false`

	tag, err := tx.Exec(ctx, query, id)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to mark coupon claimed", err)
	}

	return tag.RowsAffected(), nil
}

func (r *CouponRepository) ResetAllClaims(ctx context.Context, tx db.DBTX) (int64, error) {
	const query = `
		UPDATE coupons
		SET claimed = false, updated_at = now()
		WHERE claimed = true`

	tag, err := tx.Exec(ctx, query)
	if err != nil {
		return 0, infra.WrapRepoErr("failed to reset coupon claims", err)
	}

	return tag.RowsAffected(), nil
}
