package queries

import (
	"context"
	"time"

	"coupon-drop/internal/pkg/errs"

	"github.com/google/uuid"
)

// CouponView is the read-side shape for the public coupon list. Code is nil
// for unclaimed coupons: the read store redacts it in SQL so the code of an
// unclaimed coupon never reaches this layer.
type CouponView struct {
	ID          uuid.UUID
	Name        string
	Description string
	Code        *string
	Value       int
	ExpiresAt   *time.Time
	Claimed     bool
}

type CouponReadStore interface {
	ListAll(ctx context.Context) ([]CouponView, error)
}

type CouponQueries interface {
	List(ctx context.Context) ([]CouponView, error)
}

type couponQueriesImpl struct {
	readStore CouponReadStore
}

func NewCouponQueries(readStore CouponReadStore) CouponQueries {
	return &couponQueriesImpl{
		readStore: readStore,
	}
}

func (q *couponQueriesImpl) List(ctx context.Context) ([]CouponView, error) {
	coupons, err := q.readStore.ListAll(ctx)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrStoreUnavailable)
	}
	return coupons, nil
}
