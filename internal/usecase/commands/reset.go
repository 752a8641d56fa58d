package commands

import (
	"context"

	"coupon-drop/internal/infra/db"
	"coupon-drop/internal/pkg/errs"
	"coupon-drop/internal/usecase/shared"
)

type ResetStats struct {
	CouponsReset           int64
	CooldownRecordsDeleted int64
}

// ResetCommands is the administrative bulk reset. It carries no rate limit
// and no access control; the marker cookie of the requesting origin is
// expired at the transport boundary, other clients' markers lapse naturally.
type ResetCommands interface {
	ResetAll(ctx context.Context) (*ResetStats, error)
}

type resetCommandsImpl struct {
	uow          shared.UnitOfWork
	couponRepo   CouponRepository
	cooldownRepo CooldownRepository
}

func NewResetCommands(
	uow shared.UnitOfWork,
	couponRepo CouponRepository,
	cooldownRepo CooldownRepository,
) ResetCommands {
	return &resetCommandsImpl{
		uow:          uow,
		couponRepo:   couponRepo,
		cooldownRepo: cooldownRepo,
	}
}

// ResetAll is total: after it commits, every coupon is unclaimed and no
// cooldown record exists. Running it twice in a row yields zero counts on
// the second call.
func (u *resetCommandsImpl) ResetAll(ctx context.Context) (*ResetStats, error) {
	var stats *ResetStats
	err := u.uow.Within(ctx, func(ctx context.Context, tx db.DBTX) error {
		couponsReset, err := u.couponRepo.ResetAllClaims(ctx, tx)
		if err != nil {
			return errs.Mark(err, errs.ErrStoreUnavailable)
		}

		recordsDeleted, err := u.cooldownRepo.DeleteAll(ctx, tx)
		if err != nil {
			return errs.Mark(err, errs.ErrStoreUnavailable)
		}

		stats = &ResetStats{
			CouponsReset:           couponsReset,
			CooldownRecordsDeleted: recordsDeleted,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return stats, nil
}
