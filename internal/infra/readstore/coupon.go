package readstore

import (
	"context"

	"coupon-drop/internal/infra"
	"coupon-drop/internal/usecase/queries"

	"github.com/jackc/pgx/v5/pgxpool"
)

type CouponReadStore struct {
	pool *pgxpool.Pool
}

func NewCouponReadStore(pool *pgxpool.Pool) *CouponReadStore {
	return &CouponReadStore{
		pool: pool,
	}
}

// ListAll returns every coupon with its claimed status. The code column is
// redacted in SQL for unclaimed coupons so it cannot leak through any layer
// above this one.
func (r *CouponReadStore) ListAll(ctx context.Context) ([]queries.CouponView, error) {
	const query = `
		SELECT
			id,
			name,
			description,
			CASE WHEN claimed THEN code ELSE NULL END AS code,
			value,
			expires_at,
			claimed
		FROM coupons
		ORDER BY created_at, id`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list coupons", err)
	}
	defer rows.Close()

	var views []queries.CouponView
	for rows.Next() {
		var v queries.CouponView
		if err := rows.Scan(&v.ID, &v.Name, &v.Description, &v.Code, &v.Value, &v.ExpiresAt, &v.Claimed); err != nil {
			return nil, infra.WrapRepoErr("failed to scan coupon row", err)
		}
		views = append(views, v)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to read coupon rows", err)
	}

	return views, nil
}
