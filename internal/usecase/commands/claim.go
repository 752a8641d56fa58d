package commands

import (
	"context"
	"errors"
	"time"

	"coupon-drop/internal/domain/cooldown"
	"coupon-drop/internal/domain/coupon"
	"coupon-drop/internal/infra"
	"coupon-drop/internal/infra/db"
	"coupon-drop/internal/pkg/clock"
	"coupon-drop/internal/pkg/config"
	"coupon-drop/internal/pkg/errs"
	"coupon-drop/internal/usecase/shared"

	"github.com/google/uuid"
)

type ClaimResult struct {
	Coupon         *CouponSnapshot
	CooldownPeriod time.Duration
}

type ClaimCommands interface {
	Claim(ctx context.Context, fingerprint string, hasMarker bool, couponID uuid.UUID) (*ClaimResult, error)
}

type claimCommandsImpl struct {
	uow          shared.UnitOfWork
	couponRepo   CouponRepository
	cooldownRepo CooldownRepository
	clock        clock.Clock
	period       time.Duration
}

func NewClaimCommands(
	uow shared.UnitOfWork,
	couponRepo CouponRepository,
	cooldownRepo CooldownRepository,
	clock clock.Clock,
	cfg config.Config,
) ClaimCommands {
	return &claimCommandsImpl{
		uow:          uow,
		couponRepo:   couponRepo,
		cooldownRepo: cooldownRepo,
		clock:        clock,
		period:       cfg.Claim.CooldownPeriod,
	}
}

// Claim arbitrates one claim request as a single all-or-nothing transaction:
// coupon validation, cooldown check, coupon allocation, cooldown commit, in
// that order. Coupon-status rejections (not found, already claimed, expired)
// take precedence over the cooldown denial, so the coupon is validated before
// the window is evaluated. The cooldown write is sequenced after allocation
// success so a rejected coupon never consumes the client's window, and a
// rollback on any path leaves no partial state.
//
// hasMarker is advisory only. The client-side marker is forgeable and may be
// stale after a reset, so the server-side cooldown record is re-checked as
// the sole authority even when a marker is present; the marker alone never
// denies a claim.
func (u *claimCommandsImpl) Claim(ctx context.Context, fingerprint string, hasMarker bool, couponID uuid.UUID) (*ClaimResult, error) {
	now := u.clock.Now()

	var result *ClaimResult
	err := u.uow.Within(ctx, func(ctx context.Context, tx db.DBTX) error {
		record, err := u.lockCooldownRecord(ctx, tx, fingerprint)
		if err != nil {
			return err
		}

		snapshot, err := u.loadClaimableCoupon(ctx, tx, couponID, now)
		if err != nil {
			return err
		}

		if decision := cooldown.Evaluate(record, now, u.period); !decision.Allowed {
			return errs.NewCooldownActive(decision.Remaining)
		}

		if err := u.markClaimed(ctx, tx, couponID); err != nil {
			return err
		}
		snapshot.Claimed = true

		// Commit the cooldown write only after allocation succeeded.
		if err := u.commitCooldown(ctx, tx, fingerprint, record, now); err != nil {
			return err
		}

		result = &ClaimResult{
			Coupon:         snapshot,
			CooldownPeriod: u.period,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// lockCooldownRecord reads the fingerprint's record with a row lock so the
// check-then-commit sequence is serialized per fingerprint. A missing record
// returns nil (first claim, or post-reset).
func (u *claimCommandsImpl) lockCooldownRecord(ctx context.Context, tx db.DBTX, fingerprint string) (*cooldown.Record, error) {
	record, err := u.cooldownRepo.FindForUpdate(ctx, tx, fingerprint)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, nil
		}
		return nil, errs.Mark(err, errs.ErrStoreUnavailable)
	}
	return record, nil
}

// loadClaimableCoupon reads the coupon and runs the status checks without
// writing anything. Status errors surface even when the cooldown window is
// also active.
func (u *claimCommandsImpl) loadClaimableCoupon(ctx context.Context, tx db.DBTX, couponID uuid.UUID, now time.Time) (*CouponSnapshot, error) {
	snapshot, err := u.couponRepo.FindByID(ctx, tx, couponID)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, errs.ErrCouponNotFound
		}
		return nil, errs.Mark(err, errs.ErrStoreUnavailable)
	}

	entity, err := coupon.NewCoupon(
		snapshot.ID,
		snapshot.Name,
		snapshot.Description,
		snapshot.Code,
		snapshot.Value,
		snapshot.ExpiresAt,
		snapshot.Claimed,
	)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrStoreUnavailable)
	}

	if err := entity.Claim(now); err != nil {
		switch {
		case errors.Is(err, coupon.ErrAlreadyClaimed):
			return nil, errs.ErrCouponAlreadyClaimed
		case errors.Is(err, coupon.ErrCouponExpired):
			return nil, errs.ErrCouponExpired
		default:
			return nil, errs.Mark(err, errs.ErrStoreUnavailable)
		}
	}

	return snapshot, nil
}

func (u *claimCommandsImpl) markClaimed(ctx context.Context, tx db.DBTX, couponID uuid.UUID) error {
	rows, err := u.couponRepo.MarkClaimed(ctx, tx, couponID)
	if err != nil {
		return errs.Mark(err, errs.ErrStoreUnavailable)
	}
	if rows == 0 {
		// Lost the per-coupon race: another request flipped claimed first.
		return errs.ErrCouponAlreadyClaimed
	}
	return nil
}

// commitCooldown creates or refreshes the fingerprint's record. For a first
// claim the unique-key insert is the tie-break: zero rows means a concurrent
// request already took the window, and returning an error rolls back the
// coupon allocation with it.
func (u *claimCommandsImpl) commitCooldown(ctx context.Context, tx db.DBTX, fingerprint string, record *cooldown.Record, now time.Time) error {
	if record != nil {
		if err := u.cooldownRepo.Refresh(ctx, tx, fingerprint, now); err != nil {
			return errs.Mark(err, errs.ErrStoreUnavailable)
		}
		return nil
	}

	rows, err := u.cooldownRepo.Insert(ctx, tx, fingerprint, now)
	if err != nil {
		return errs.Mark(err, errs.ErrStoreUnavailable)
	}
	if rows == 0 {
		return errs.NewCooldownActive(u.period)
	}
	return nil
}
